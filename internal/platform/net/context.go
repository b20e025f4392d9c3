// Package net carries the caller identity and request id on request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Identity is who a bearer token was issued to and which tenant it is scoped to
type Identity struct {
	Subject  string
	TenantID string
}

type identityKey struct{}

// WithIdentity stores id on ctx
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity stored by WithIdentity
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// TenantID is IdentityFrom(ctx).TenantID, empty for anonymous requests
func TenantID(ctx context.Context) string {
	id, _ := IdentityFrom(ctx)
	return id.TenantID
}

// RequestID returns the id chi's RequestID middleware assigned
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }
