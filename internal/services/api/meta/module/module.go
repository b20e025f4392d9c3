// Package module wires the meta endpoints into the API
package module

import (
	"time"

	"ksefconnect/internal/modkit"

	metahttp "ksefconnect/internal/services/api/meta/http"
)

// New builds the meta module, mounted under /meta by default. It exposes no ports.
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	spec := modkit.Build(modkit.Spec{Name: "meta", Prefix: "/meta"}, opts...)
	d := metahttp.Deps{
		ServiceName: "ksefconnect-api",
		StartedAt:   time.Now(),
		PG:          deps.PG,
		CH:          deps.CH,
	}
	return modkit.NewRoutes(spec, nil, func(r modkit.Router) { metahttp.Register(r, d) })
}
