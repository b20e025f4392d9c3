// Package service contains the ksef connection workflows
package service

import (
	"context"
	"time"

	"ksefconnect/internal/adapters/authority/ksef"
	"ksefconnect/internal/core/nip"
	"ksefconnect/internal/modkit/repokit"
	perr "ksefconnect/internal/platform/errors"
	"ksefconnect/internal/platform/logger"
	"ksefconnect/internal/platform/store"
	"ksefconnect/internal/services/api/ksef/domain"
	"ksefconnect/internal/services/api/ksef/repo"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// AuthFailedMessage is the single caller facing message for failed authorizations
const AuthFailedMessage = "KSeF authorization failed"

// Service is the public service port
type Service interface{ domain.ServicePort }

// Cipher protects the token at rest
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(record string) (string, error)
}

// Authenticator obtains a session from the authority
type Authenticator interface {
	Authenticate(ctx context.Context, taxID, secret string) (ksef.Session, error)
}

// Svc implements the service port
type Svc struct {
	binder repokit.Binder[repo.Repo]
	db     repokit.TxRunner

	cipher Cipher
	auth   Authenticator
	audit  repo.Audit

	now   func() time.Time
	newID func() string
}

// Options control service behavior
type Options struct {
	// Cipher is required
	Cipher Cipher

	// Authenticator is required
	Authenticator Authenticator

	// Audit is optional; nil disables attempt auditing
	Audit repo.Audit
}

// New constructs the service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], opt Options) *Svc {
	if db == nil {
		panic("ksef.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("ksef.Service requires a non nil Repo binder")
	}
	if opt.Cipher == nil {
		panic("ksef.Service requires a non nil Cipher")
	}
	if opt.Authenticator == nil {
		panic("ksef.Service requires a non nil Authenticator")
	}
	audit := opt.Audit
	if audit == nil {
		audit = repo.NewAudit(nil)
	}
	return &Svc{
		binder: binder,
		db:     db,
		cipher: opt.Cipher,
		auth:   opt.Authenticator,
		audit:  audit,
		now:    time.Now,
		newID:  func() string { return ulid.Make().String() },
	}
}

// SaveToken encrypts and stores a new token, replacing any previous one
func (s *Svc) SaveToken(ctx context.Context, tenantID, companyID string, in domain.SaveTokenInput) (domain.StatusView, error) {
	if err := checkIDs(tenantID, companyID); err != nil {
		return domain.StatusView{}, err
	}
	record, err := s.cipher.Encrypt(in.Token)
	if err != nil {
		return domain.StatusView{}, err
	}

	var out domain.Company
	err = s.tx(ctx, tenantID, func(r repo.Repo) error {
		c, err := r.FindCompany(ctx, tenantID, companyID)
		if err != nil {
			return err
		}
		if in.TaxID != "" {
			if want, _ := nip.Parse(c.TaxID); want != nip.Normalize(in.TaxID) {
				return perr.WithField(perr.InvalidArgf("tax id does not match company %s", companyID), "tax_id")
			}
		}
		if err := r.SaveSecret(ctx, companyID, record); err != nil {
			return err
		}
		out, err = r.FindCompany(ctx, tenantID, companyID)
		return err
	})
	if err != nil {
		return domain.StatusView{}, err
	}

	logger.C(ctx).Info().Str("company_id", companyID).Msg("ksef token stored")
	return domain.ViewOf(out), nil
}

// Disconnect destroys the stored token
func (s *Svc) Disconnect(ctx context.Context, tenantID, companyID string) (domain.StatusView, error) {
	if err := checkIDs(tenantID, companyID); err != nil {
		return domain.StatusView{}, err
	}
	var out domain.Company
	err := s.tx(ctx, tenantID, func(r repo.Repo) error {
		if _, err := r.FindCompany(ctx, tenantID, companyID); err != nil {
			return err
		}
		if err := r.ClearSecret(ctx, companyID); err != nil {
			return err
		}
		var err error
		out, err = r.FindCompany(ctx, tenantID, companyID)
		return err
	})
	if err != nil {
		return domain.StatusView{}, err
	}

	logger.C(ctx).Info().Str("company_id", companyID).Msg("ksef token removed")
	return domain.ViewOf(out), nil
}

// Status returns the stored connection state
func (s *Svc) Status(ctx context.Context, tenantID, companyID string) (domain.StatusView, error) {
	if err := checkIDs(tenantID, companyID); err != nil {
		return domain.StatusView{}, err
	}
	c, err := s.find(ctx, tenantID, companyID)
	if err != nil {
		return domain.StatusView{}, err
	}
	return domain.ViewOf(c), nil
}

// find reads the company in its own tenant scoped transaction
func (s *Svc) find(ctx context.Context, tenantID, companyID string) (domain.Company, error) {
	var c domain.Company
	err := s.tx(ctx, tenantID, func(r repo.Repo) error {
		var err error
		c, err = r.FindCompany(ctx, tenantID, companyID)
		return err
	})
	return c, err
}

// tx runs fn in a transaction scoped to tenantID
func (s *Svc) tx(ctx context.Context, tenantID string, fn func(repo.Repo) error) error {
	ctx = store.WithTenant(ctx, tenantID)
	return s.db.Tx(ctx, func(q repokit.Queryer) error {
		return fn(s.binder.Bind(q))
	})
}

func checkIDs(tenantID, companyID string) error {
	if tenantID == "" {
		return perr.Unauthorizedf("missing tenant scope")
	}
	if _, err := uuid.Parse(companyID); err != nil {
		return perr.WithField(perr.InvalidArgf("company id %q is not a uuid", companyID), "companyID")
	}
	return nil
}
