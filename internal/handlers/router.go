package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"caredash/internal/events"
	"caredash/internal/render"
	"caredash/internal/store"
	"caredash/web"
)

// Options carries the dependencies the HTTP layer needs.
type Options struct {
	Store          store.SessionStore
	Events         *events.Publisher
	Renderer       *render.Engine
	AllowedOrigins []string
}

// Handler wires the session store, event publisher, and renderer behind the
// HTTP surface.
type Handler struct {
	store    store.SessionStore
	events   *events.Publisher
	renderer *render.Engine
	origins  []string
}

// New validates dependencies and builds the handler set.
func New(opts Options) (*Handler, error) {
	if opts.Store == nil {
		return nil, errors.New("store is required")
	}
	if opts.Renderer == nil {
		return nil, errors.New("renderer is required")
	}

	return &Handler{
		store:    opts.Store,
		events:   opts.Events,
		renderer: opts.Renderer,
		origins:  opts.AllowedOrigins,
	}, nil
}

// Routes constructs the chi router containing all endpoints.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	allowed := h.origins
	if len(allowed) == 0 {
		allowed = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           int((10 * time.Minute).Seconds()),
	}))

	r.Use(httprate.Limit(100, time.Minute))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := h.store.Ping(r.Context()); err != nil {
			log.Error().Err(err).Msg("readiness ping")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	r.Method("GET", "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/sessions", h.handleListSessions)
		r.Patch("/sessions/{id}", h.handleUpdateSession)
	})

	r.Get("/", h.handleDashboard)
	r.Post("/sessions/{id}/complete", h.handleCompleteSession)
	r.Handle("/static/*", http.FileServer(http.FS(web.Static)))

	return r
}
