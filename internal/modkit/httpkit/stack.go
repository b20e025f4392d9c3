package httpkit

import (
	"compress/flate"
	"time"

	phttp "ksefconnect/internal/platform/net/http"
	"ksefconnect/internal/platform/net/middleware"
)

// StackOptions tune CommonStack. Zero values keep the defaults.
type StackOptions struct {
	CORSOrigins    []string
	SlowRequest    time.Duration // default 1s
	RequestTimeout time.Duration // default 30s, must exceed a full KSeF poll
}

// CommonStack is the middleware chain every /api route runs through
func CommonStack(o StackOptions) []middleware.Middleware {
	if o.SlowRequest == 0 {
		o.SlowRequest = time.Second
	}
	if o.RequestTimeout == 0 {
		o.RequestTimeout = 30 * time.Second
	}
	return []middleware.Middleware{
		middleware.RequestID,
		middleware.RealIP,
		middleware.AccessLog(o.SlowRequest),
		middleware.Recover(phttp.WriteError),
		middleware.CORS(o.CORSOrigins),
		middleware.StripSlashes,
		middleware.NoCache,
		middleware.Compress(flate.BestSpeed),
		middleware.Timeout(o.RequestTimeout),
	}
}

// MountAPIV1 runs mount on an /api/v1 subrouter wrapped in mw
func MountAPIV1(r Router, mw []middleware.Middleware, mount func(Router)) {
	r.Route("/api/v1", func(api Router) {
		api.Use(mw...)
		mount(api)
	})
}
