package httpkit

import (
	"net/http"
	"strings"

	perr "ksefconnect/internal/platform/errors"
	pnet "ksefconnect/internal/platform/net"
	phttp "ksefconnect/internal/platform/net/http"
	"ksefconnect/internal/platform/net/middleware"
)

// TokenFunc validates a raw bearer token, auth.Verifier.Parse for instance
type TokenFunc func(token string) (subject, tenantID string, err error)

// Bearer authenticates the Authorization header with a TokenFunc
type Bearer struct{ parse TokenFunc }

func NewBearer(fn TokenFunc) Bearer { return Bearer{parse: fn} }

// Authenticate implements middleware.Authenticator. Tokens without a tenant are refused.
func (b Bearer) Authenticate(r *http.Request) (pnet.Identity, error) {
	scheme, token, _ := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	token = strings.TrimSpace(token)
	if !strings.EqualFold(scheme, "bearer") || token == "" {
		return pnet.Identity{}, perr.Unauthorizedf("missing bearer token")
	}
	if b.parse == nil {
		return pnet.Identity{}, perr.Unauthorizedf("invalid bearer token")
	}
	sub, tid, err := b.parse(token)
	if err != nil {
		return pnet.Identity{}, perr.Wrap(err, perr.ErrorCodeUnauthorized, "invalid bearer token")
	}
	if tid == "" {
		return pnet.Identity{}, perr.Unauthorizedf("token has no tenant scope")
	}
	return pnet.Identity{Subject: sub, TenantID: tid}, nil
}

// Protected mounts fn's routes in a group that requires a valid token
func Protected(r Router, a middleware.Authenticator, fn func(Router)) {
	r.Group(func(g Router) {
		g.Use(middleware.Auth(a, phttp.WriteError))
		fn(g)
	})
}
