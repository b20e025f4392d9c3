// Package modkit defines API modules. A module has a name, mounts its routes under
// a prefix and exposes a port set other modules can look up in the registry.
package modkit

import (
	"ksefconnect/internal/modkit/httpkit"
	"ksefconnect/internal/modkit/repokit"
	"ksefconnect/internal/platform/config"
	"ksefconnect/internal/platform/store"
)

// Deps are the shared handles a module is built from. CH may be nil.
type Deps struct {
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
}

type Router = httpkit.Router

type Module interface {
	Name() string
	MountRoutes(r Router)
	Ports() any
}

// Spec is what options can change about a module before it is built
type Spec struct {
	Name   string
	Prefix string
	Ports  any
}

type Option func(*Spec)

func WithName(name string) Option { return func(s *Spec) { s.Name = name } }

func WithPrefix(prefix string) Option { return func(s *Spec) { s.Prefix = prefix } }

// WithPorts hands a module replacement ports; the module decides which types it accepts
func WithPorts[T any](p T) Option { return func(s *Spec) { s.Ports = p } }

// Build applies defaults then opts, later options winning
func Build(defaults Spec, opts ...Option) Spec {
	s := defaults
	for _, o := range opts {
		o(&s)
	}
	return s
}

// Routes is a Module made of a Spec, a port set and a route registrar
type Routes struct {
	spec     Spec
	ports    any
	register func(Router)
}

// NewRoutes builds a module; ports is what Ports returns
func NewRoutes(spec Spec, ports any, register func(Router)) *Routes {
	return &Routes{spec: spec, ports: ports, register: register}
}

func (m *Routes) Name() string   { return m.spec.Name }
func (m *Routes) Prefix() string { return m.spec.Prefix }
func (m *Routes) Ports() any     { return m.ports }

// MountRoutes registers the module under its prefix
func (m *Routes) MountRoutes(r Router) {
	r.Route(m.spec.Prefix, m.register)
}
