// Package api assembles the HTTP API from its modules
package api

import (
	"time"

	"ksefconnect/internal/platform/auth"
	"ksefconnect/internal/platform/config"
	"ksefconnect/internal/platform/logger"
	"ksefconnect/internal/platform/metrics"
	phttp "ksefconnect/internal/platform/net/http"
	"ksefconnect/internal/platform/net/middleware"
	"ksefconnect/internal/platform/store"

	"ksefconnect/internal/modkit"
	"ksefconnect/internal/modkit/httpkit"
	"ksefconnect/internal/modkit/module"
	"ksefconnect/internal/modkit/swaggerkit"

	ksefmod "ksefconnect/internal/services/api/ksef/module"
	metamod "ksefconnect/internal/services/api/meta/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	EnableSwagger  bool
	EnableProfiler bool
	EnableMetrics  bool

	// Verifier checks bearer tokens on tenant routes; nil builds one from
	// JWT_SECRET and JWT_ISSUER
	Verifier *auth.Verifier

	// KSeF replaces the config built cipher and authority client, used by tests
	KSeF *ksefmod.Ports
}

// Mount mounts the API service onto r. It must run before anything else is routed on r.
func Mount(r phttp.Router, opt Options) {
	deps := modkit.Deps{Cfg: opt.Config}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
		deps.CH = opt.Store.CH
	}

	verifier := opt.Verifier
	if verifier == nil {
		v, err := auth.NewVerifier(opt.Config.MustString("JWT_SECRET"), opt.Config.MayString("JWT_ISSUER", ""))
		if err != nil {
			logger.Get().Panic().Err(err).Msg("jwt verifier")
		}
		verifier = v
	}

	var ksefOpts []modkit.Option
	if opt.KSeF != nil {
		ksefOpts = append(ksefOpts, modkit.WithPorts(*opt.KSeF))
	}

	public := []modkit.Module{metamod.New(deps)}
	tenant := []modkit.Module{ksefmod.New(deps, ksefOpts...)}

	r.Use(middleware.Heartbeat("/ping"))
	if opt.EnableMetrics {
		metrics.Init()
		r.Handle("/metrics", metrics.Handler())
	}
	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, opt.EnableProfiler)

	stack := httpkit.CommonStack(httpkit.StackOptions{
		CORSOrigins:    opt.Config.MayCSV("CORS_ORIGINS", nil),
		SlowRequest:    opt.Config.MayDuration("SLOW_REQUEST", time.Second),
		RequestTimeout: opt.Config.MayDuration("REQUEST_TIMEOUT", 30*time.Second),
	})
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range public {
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
		httpkit.Protected(api, httpkit.NewBearer(verifier.Parse), func(pr httpkit.Router) {
			for _, m := range tenant {
				module.Register(m.Name(), m.Ports())
				m.MountRoutes(pr)
			}
		})
	})
}
