package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Engine renders HTML templates embedded in the package.
type Engine struct {
	templates *template.Template
}

// New initialises an Engine by parsing all embedded templates.
func New() (*Engine, error) {
	funcs := template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006 3:04 PM")
		},
	}

	t, err := template.New("render").Funcs(funcs).ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Engine{templates: t}, nil
}

// Render executes the named template with the provided data into w.
func (e *Engine) Render(w io.Writer, name string, data any) error {
	if e == nil || e.templates == nil {
		return fmt.Errorf("nil engine")
	}
	return e.templates.ExecuteTemplate(w, name, data)
}
