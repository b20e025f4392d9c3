package http

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// MountProfiler serves pprof under /debug when enabled. chi's profiler expects the prefix stripped.
func MountProfiler(r Router, enabled bool) {
	if !enabled {
		return
	}
	h := http.StripPrefix("/debug", chimw.Profiler())
	r.Handle("/debug", h)
	r.Handle("/debug/*", h)
}
