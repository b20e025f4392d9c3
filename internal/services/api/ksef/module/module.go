// Package module wires the ksef connection service into the API
package module

import (
	"ksefconnect/internal/modkit"
	"ksefconnect/internal/platform/logger"

	khttp "ksefconnect/internal/services/api/ksef/http"
	krepo "ksefconnect/internal/services/api/ksef/repo"
	ksvc "ksefconnect/internal/services/api/ksef/service"
)

// Ports optionally replaces the config built cipher and authority client
type Ports struct {
	Cipher        ksvc.Cipher
	Authenticator ksvc.Authenticator
}

// New builds the ksef module, mounted under /companies by default.
// It panics when the cipher key or the authority key cannot be loaded.
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	spec := modkit.Build(modkit.Spec{Name: "ksef", Prefix: "/companies"}, opts...)

	p, _ := spec.Ports.(Ports)
	cfg := FromConfig(deps.Cfg)
	if p.Cipher == nil {
		c, err := cfg.Cipher()
		if err != nil {
			logger.Get().Panic().Err(err).Msg("ksef module: cipher")
		}
		p.Cipher = c
	}
	if p.Authenticator == nil {
		c, err := cfg.Client()
		if err != nil {
			logger.Get().Panic().Err(err).Msg("ksef module: authority client")
		}
		p.Authenticator = c
	}

	svc := ksvc.New(deps.PG, krepo.NewPG(), ksvc.Options{
		Cipher:        p.Cipher,
		Authenticator: p.Authenticator,
		Audit:         krepo.NewAudit(deps.CH),
	})
	return modkit.NewRoutes(spec, svc, func(r modkit.Router) { khttp.Register(r, svc) })
}
