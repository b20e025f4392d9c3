package middleware

import (
	"net/http"

	"ksefconnect/internal/platform/logger"
	pnet "ksefconnect/internal/platform/net"
)

// Authenticator resolves the caller of a request
type Authenticator interface {
	Authenticate(r *http.Request) (pnet.Identity, error)
}

// Auth rejects requests the Authenticator refuses and stores the identity on the
// context of the rest, along with tenant_id and subject log fields
func Auth(a Authenticator, write ErrorWriter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := a.Authenticate(r)
			if err != nil {
				write(w, r, err)
				return
			}
			ctx := pnet.WithIdentity(r.Context(), id)
			ctx = logger.With(ctx, "tenant_id", id.TenantID, "subject", id.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
