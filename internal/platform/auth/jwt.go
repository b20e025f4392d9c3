// Package auth verifies the bearer tokens issued by the invoicing application
package auth

import (
	"errors"
	"strings"
	"time"

	perr "ksefconnect/internal/platform/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken indicates the token failed validation
var ErrInvalidToken = errors.New("invalid token")

// Claims carries the subject and the tenant scope
type Claims struct {
	TenantID string `json:"tenant_id"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 tokens against a shared secret
type Verifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewVerifier builds a verifier, an empty secret is a configuration error
// issuer is optional; when set, tokens must carry it
func NewVerifier(secret, issuer string) (*Verifier, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, perr.Configf("auth: jwt secret is not configured")
	}
	return &Verifier{secret: []byte(secret), issuer: issuer, now: time.Now}, nil
}

// Parse validates token and returns the user and tenant ids
// it has the shape of httpkit.TokenFunc
func (v *Verifier) Parse(token string) (userID, tenantID string, err error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var c Claims
	parsed, err := jwt.ParseWithClaims(strings.TrimSpace(token), &c, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return "", "", ErrInvalidToken
	}
	if strings.TrimSpace(c.Subject) == "" || strings.TrimSpace(c.TenantID) == "" {
		return "", "", ErrInvalidToken
	}
	return c.Subject, c.TenantID, nil
}

// Sign issues a token for userID scoped to tenantID
// the API only verifies; this exists for tooling and tests
func (v *Verifier) Sign(userID, tenantID string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(tenantID) == "" {
		return "", perr.InvalidArgf("auth: user and tenant are required")
	}
	if ttl <= 0 {
		return "", perr.InvalidArgf("auth: ttl must be positive")
	}
	now := v.now().UTC()
	c := Claims{
		TenantID: tenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    v.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(v.secret)
}
