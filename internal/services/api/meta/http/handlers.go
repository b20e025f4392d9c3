// Package http serves the unauthenticated probe and build endpoints under /meta
package http

import (
	"context"
	stdhttp "net/http"
	"sync"
	"time"

	"ksefconnect/internal/core/version"
	"ksefconnect/internal/modkit/httpkit"
)

// Pinger is implemented by the store backends
type Pinger interface {
	Ping(context.Context) error
}

type Deps struct {
	ServiceName string
	StartedAt   time.Time

	// PG and CH are probed by /ready when they implement Pinger; nil means not configured
	PG any
	CH any

	ReadyTimeout time.Duration // per probe, default 2s
}

func Register(r httpkit.Router, d Deps) {
	if d.ReadyTimeout <= 0 {
		d.ReadyTimeout = 2 * time.Second
	}
	h := handlers{d}
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
}

type handlers struct{ d Deps }

type HealthResponse struct {
	OK      bool   `json:"ok" example:"true"`
	Service string `json:"service" example:"ksefconnect-api"`
	Now     string `json:"now" example:"2025-09-03T13:05:00Z"`
}

// ReadyCheck is one backend probe; Status is ok, fail, skipped or unknown
type ReadyCheck struct {
	Name   string `json:"name" example:"pg"`
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty"`
}

// ReadyResponse.Status is ok, degraded when a backend is missing or unprobeable, fail when one is down
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now" example:"2025-09-03T13:05:00Z"`
}

type ServiceResponse struct {
	Name    string `json:"name" example:"ksefconnect-api"`
	Started string `json:"started" example:"2025-09-03T13:00:00Z"`
	Uptime  int64  `json:"uptime" example:"300"` // seconds
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }

// @Summary Health check
// @Tags meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /meta/health [get]
func (h handlers) health(*stdhttp.Request) (any, error) {
	return HealthResponse{OK: true, Service: h.d.ServiceName, Now: now()}, nil
}

// @Summary Readiness probe with backend checks
// @Tags meta
// @Produce json
// @Success 200 {object} ReadyResponse
// @Router /meta/ready [get]
func (h handlers) ready(r *stdhttp.Request) (any, error) {
	backends := []struct {
		name string
		b    any
	}{{"pg", h.d.PG}, {"ch", h.d.CH}}

	checks := make([]ReadyCheck, len(backends))
	var wg sync.WaitGroup
	for i, be := range backends {
		wg.Add(1)
		go func() {
			defer wg.Done()
			checks[i] = h.probe(r.Context(), be.name, be.b)
		}()
	}
	wg.Wait()

	status := "ok"
	for _, c := range checks {
		switch c.Status {
		case "fail":
			status = "fail"
		case "ok":
		default:
			if status == "ok" {
				status = "degraded"
			}
		}
	}
	return ReadyResponse{Status: status, Checks: checks, Now: now()}, nil
}

func (h handlers) probe(ctx context.Context, name string, b any) ReadyCheck {
	if b == nil {
		return ReadyCheck{Name: name, Status: "skipped"}
	}
	p, ok := b.(Pinger)
	if !ok {
		return ReadyCheck{Name: name, Status: "unknown"}
	}
	ctx, cancel := context.WithTimeout(ctx, h.d.ReadyTimeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return ReadyCheck{Name: name, Status: "fail", Error: err.Error()}
	}
	return ReadyCheck{Name: name, Status: "ok"}
}

// @Summary Build and version info
// @Tags meta
// @Produce json
// @Success 200 {object} version.BuildInfo
// @Router /meta/version [get]
func (h handlers) version(*stdhttp.Request) (any, error) { return version.Info(), nil }

// @Summary Service name and uptime
// @Tags meta
// @Produce json
// @Success 200 {object} ServiceResponse
// @Router /meta/service [get]
func (h handlers) service(*stdhttp.Request) (any, error) {
	return ServiceResponse{
		Name:    h.d.ServiceName,
		Started: h.d.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(time.Since(h.d.StartedAt) / time.Second),
	}, nil
}
