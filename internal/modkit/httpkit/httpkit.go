// Package httpkit is what module transports import to register routes. It keeps
// handlers on the return style (any, error) shape and off chi and the envelope writer.
package httpkit

import (
	"net/http"

	perr "ksefconnect/internal/platform/errors"
	pnet "ksefconnect/internal/platform/net"
	phttp "ksefconnect/internal/platform/net/http"
)

type (
	Router   = phttp.Router
	Envelope = phttp.Envelope
)

// Param returns a path parameter
func Param(r *http.Request, name string) string { return phttp.Param(r, name) }

// Tenant returns the tenant the bearer token is scoped to
func Tenant(r *http.Request) (string, error) {
	if tid := pnet.TenantID(r.Context()); tid != "" {
		return tid, nil
	}
	return "", perr.Unauthorizedf("request has no tenant scope")
}

func Get(r Router, path string, h func(*http.Request) (any, error)) { r.Get(path, phttp.Call(h)) }

func Post(r Router, path string, h func(*http.Request) (any, error)) { r.Post(path, phttp.Call(h)) }

func Delete(r Router, path string, h func(*http.Request) (any, error)) {
	r.Delete(path, phttp.Call(h))
}

// PutJSON binds and validates a T body before calling h
func PutJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Put(path, phttp.Bind(h))
}
