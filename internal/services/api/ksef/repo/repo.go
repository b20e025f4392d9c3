// Package repo provides the ksef connection persistence
package repo

import (
	"context"
	"errors"
	"time"

	"ksefconnect/internal/modkit/repokit"
	perr "ksefconnect/internal/platform/errors"
	"ksefconnect/internal/platform/store"
	"ksefconnect/internal/services/api/ksef/domain"
)

// Repo is the company credential surface used by the service layer
type Repo interface {
	domain.CompanyStore

	SaveSecret(ctx context.Context, companyID, record string) error
	ClearSecret(ctx context.Context, companyID string) error
	RecordCheck(ctx context.Context, companyID string, rec domain.CheckRecord) error
}

type (
	// PG is a Postgres implementation of the ksef repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the Postgres implementation
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind attaches a Queryer to the Postgres implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

// FindCompany loads the company and checks that tenantID owns it
func (r *queries) FindCompany(ctx context.Context, tenantID, companyID string) (domain.Company, error) {
	const sql = `
		SELECT id::text, tenant_id::text, tax_id,
		       COALESCE(ksef_token_enc, ''), COALESCE(ksef_status, ''),
		       ksef_valid_until, ksef_checked_at,
		       COALESCE(ksef_error_code, ''), COALESCE(ksef_error, '')
		FROM companies
		WHERE id = $1::uuid
	`
	c, err := store.One(ctx, r.q, scanCompany, sql, companyID)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return domain.Company{}, perr.NotFoundf("company %s not found", companyID)
		}
		return domain.Company{}, perr.FromPostgres(err, "load company")
	}
	if c.TenantID != tenantID {
		return domain.Company{}, perr.Forbiddenf("company %s belongs to another tenant", companyID)
	}
	return c, nil
}

func scanCompany(row store.Row) (domain.Company, error) {
	var (
		c         domain.Company
		status    string
		valid     *time.Time
		checkedAt *time.Time
	)
	if err := row.Scan(
		&c.ID, &c.TenantID, &c.TaxID,
		&c.SecretRecord, &status,
		&valid, &checkedAt,
		&c.LastErrorCode, &c.LastError,
	); err != nil {
		return domain.Company{}, err
	}
	c.Status = domain.Status(status)
	c.ValidUntil = valid
	c.LastCheckedAt = checkedAt
	return c, nil
}

// SaveSecret stores a new token record and resets the check state
func (r *queries) SaveSecret(ctx context.Context, companyID, record string) error {
	const sql = `
		UPDATE companies
		SET ksef_token_enc   = $2,
		    ksef_status      = $3,
		    ksef_valid_until = NULL,
		    ksef_checked_at  = NULL,
		    ksef_error_code  = NULL,
		    ksef_error       = NULL,
		    updated_at       = NOW()
		WHERE id = $1::uuid
	`
	return r.execOne(ctx, "save ksef token", sql, companyID, record, string(domain.StatusConfigured))
}

// ClearSecret destroys the token record
func (r *queries) ClearSecret(ctx context.Context, companyID string) error {
	const sql = `
		UPDATE companies
		SET ksef_token_enc   = NULL,
		    ksef_status      = $2,
		    ksef_valid_until = NULL,
		    ksef_checked_at  = NULL,
		    ksef_error_code  = NULL,
		    ksef_error       = NULL,
		    updated_at       = NOW()
		WHERE id = $1::uuid
	`
	return r.execOne(ctx, "clear ksef token", sql, companyID, string(domain.StatusDisconnected))
}

// RecordCheck writes the outcome of a connection check
// an empty rec.Status keeps the stored status and validity
func (r *queries) RecordCheck(ctx context.Context, companyID string, rec domain.CheckRecord) error {
	const sql = `
		UPDATE companies
		SET ksef_status      = COALESCE(NULLIF($2::text, ''), ksef_status),
		    ksef_valid_until = CASE WHEN $2::text = '' THEN ksef_valid_until ELSE $3::timestamptz END,
		    ksef_checked_at  = $4,
		    ksef_error_code  = NULLIF($5::text, ''),
		    ksef_error       = NULLIF($6::text, ''),
		    updated_at       = NOW()
		WHERE id = $1::uuid
	`
	return r.execOne(ctx, "record ksef check", sql,
		companyID, string(rec.Status), rec.ValidUntil, rec.CheckedAt.UTC(), rec.ErrorCode, rec.ErrorMessage)
}

func (r *queries) execOne(ctx context.Context, op, sql string, args ...any) error {
	err := store.ExecOne(ctx, r.q, sql, args...)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, perr.ErrNotFound):
		return perr.NotFoundf("%s: company not found", op)
	default:
		return perr.FromPostgres(err, op)
	}
}
