// Package middleware assembles the request pipeline from chi's middleware, go-chi/cors
// and the logging, recovery and bearer auth handlers in this package.
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Middleware is the net/http decorator shape chi uses
type Middleware = func(http.Handler) http.Handler

var (
	RequestID    Middleware = chimw.RequestID
	RealIP       Middleware = chimw.RealIP
	NoCache      Middleware = chimw.NoCache
	StripSlashes Middleware = chimw.StripSlashes
)

// Heartbeat answers GET path with 200 before routing, for load balancer probes
func Heartbeat(path string) Middleware { return chimw.Heartbeat(path) }

// Timeout cancels the request context after d and answers 504 if nothing was written
func Timeout(d time.Duration) Middleware { return chimw.Timeout(d) }

// Compress gzips JSON responses at the given flate level
func Compress(level int) Middleware { return chimw.Compress(level, "application/json") }

// CORS lets the invoicing frontend call the API from the listed origins.
// No origins means cross origin requests are refused.
func CORS(origins []string) Middleware {
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	})
}
