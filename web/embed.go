package web

import "embed"

// Static contains the stylesheet and other assets served under /static/.
//
//go:embed all:static
var Static embed.FS
