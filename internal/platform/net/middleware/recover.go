package middleware

import (
	"net/http"
	"runtime/debug"

	perr "ksefconnect/internal/platform/errors"
	"ksefconnect/internal/platform/logger"
)

// ErrorWriter renders err as a response; the http package's WriteError fits
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Recover turns a handler panic into a logged stack and a 500 envelope.
// http.ErrAbortHandler is re-raised so the server can drop the connection.
func Recover(write ErrorWriter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}
				logger.C(r.Context()).Error().
					Interface("panic", v).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")
				write(w, r, perr.PanicErrf("internal error"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
