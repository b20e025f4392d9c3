package repo

import (
	"context"

	"ksefconnect/internal/platform/store"
	"ksefconnect/internal/services/api/ksef/domain"
)

// AuditTable is the ClickHouse table receiving authentication attempts
const AuditTable = "ksef_auth_attempts"

// Audit appends authentication attempts to the analytics store
type Audit interface {
	Record(ctx context.Context, a domain.Attempt) error
}

// NewAudit returns a ClickHouse backed audit, or a no op when ch is nil
func NewAudit(ch store.Clickhouse) Audit {
	if ch == nil {
		return nopAudit{}
	}
	return &chAudit{ch: ch}
}

type chAudit struct{ ch store.Clickhouse }

// Record inserts one row in column order
// id, tenant_id, company_id, outcome, started_at, duration_ms, valid_until
func (a *chAudit) Record(ctx context.Context, at domain.Attempt) error {
	var validUntil any
	if at.ValidUntil != nil {
		validUntil = at.ValidUntil.UTC()
	}
	return a.ch.Insert(ctx, AuditTable, [][]any{{
		at.ID,
		at.TenantID,
		at.CompanyID,
		at.Outcome,
		at.StartedAt.UTC(),
		uint32(at.Duration.Milliseconds()),
		validUntil,
	}})
}

type nopAudit struct{}

func (nopAudit) Record(context.Context, domain.Attempt) error { return nil }
