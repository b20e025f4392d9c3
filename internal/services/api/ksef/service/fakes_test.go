package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"ksefconnect/internal/adapters/authority/ksef"
	"ksefconnect/internal/modkit/repokit"
	perr "ksefconnect/internal/platform/errors"
	"ksefconnect/internal/platform/store"
	"ksefconnect/internal/services/api/ksef/domain"
	"ksefconnect/internal/services/api/ksef/repo"
)

// memRepo is an in memory company store
type memRepo struct {
	mu        sync.Mutex
	companies map[string]domain.Company
	writes    int
	failWrite error
}

func newMemRepo(cs ...domain.Company) *memRepo {
	m := &memRepo{companies: map[string]domain.Company{}}
	for _, c := range cs {
		m.companies[c.ID] = c
	}
	return m
}

func (m *memRepo) FindCompany(_ context.Context, tenantID, companyID string) (domain.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.companies[companyID]
	if !ok {
		return domain.Company{}, perr.NotFoundf("company %s not found", companyID)
	}
	if c.TenantID != tenantID {
		return domain.Company{}, perr.Forbiddenf("company %s belongs to another tenant", companyID)
	}
	return c, nil
}

func (m *memRepo) update(companyID string, fn func(*domain.Company)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite != nil {
		return m.failWrite
	}
	c, ok := m.companies[companyID]
	if !ok {
		return perr.NotFoundf("company not found")
	}
	fn(&c)
	m.companies[companyID] = c
	m.writes++
	return nil
}

func (m *memRepo) SaveSecret(_ context.Context, companyID, record string) error {
	return m.update(companyID, func(c *domain.Company) {
		*c = domain.Company{ID: c.ID, TenantID: c.TenantID, TaxID: c.TaxID, SecretRecord: record, Status: domain.StatusConfigured}
	})
}

func (m *memRepo) ClearSecret(_ context.Context, companyID string) error {
	return m.update(companyID, func(c *domain.Company) {
		*c = domain.Company{ID: c.ID, TenantID: c.TenantID, TaxID: c.TaxID, Status: domain.StatusDisconnected}
	})
}

func (m *memRepo) RecordCheck(_ context.Context, companyID string, rec domain.CheckRecord) error {
	return m.update(companyID, func(c *domain.Company) {
		if rec.Status != "" {
			c.Status = rec.Status
			c.ValidUntil = rec.ValidUntil
		}
		at := rec.CheckedAt
		c.LastCheckedAt = &at
		c.LastErrorCode = rec.ErrorCode
		c.LastError = rec.ErrorMessage
	})
}

func (m *memRepo) get(id string) domain.Company {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.companies[id]
}

func (m *memRepo) binder() repokit.Binder[repo.Repo] {
	return repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return m })
}

// fakeDB runs Tx callbacks inline and records the tenant seen on the context
type fakeDB struct {
	tenants []string
}

func (f *fakeDB) Exec(context.Context, string, ...any) (store.CommandTag, error) {
	return nil, errors.New("fakeDB: unexpected Exec")
}

func (f *fakeDB) Query(context.Context, string, ...any) (store.Rows, error) {
	return nil, errors.New("fakeDB: unexpected Query")
}

func (f *fakeDB) QueryRow(context.Context, string, ...any) store.Row { return nil }

func (f *fakeDB) Tx(ctx context.Context, fn func(q store.RowQuerier) error) error {
	tid, _ := store.TenantID(ctx)
	f.tenants = append(f.tenants, tid)
	return fn(f)
}

// authFunc adapts a function to Authenticator
type authFunc func(ctx context.Context, taxID, secret string) (ksef.Session, error)

func (f authFunc) Authenticate(ctx context.Context, taxID, secret string) (ksef.Session, error) {
	return f(ctx, taxID, secret)
}

// memAudit collects attempts
type memAudit struct {
	attempts []domain.Attempt
	err      error
}

func (a *memAudit) Record(_ context.Context, at domain.Attempt) error {
	a.attempts = append(a.attempts, at)
	return a.err
}

func session(validUntil time.Time) ksef.Session {
	return ksef.Session{
		AccessToken:  ksef.Credential{Token: "A1", ValidUntil: validUntil},
		RefreshToken: ksef.Credential{Token: "R1", ValidUntil: validUntil.Add(7 * 24 * time.Hour)},
	}
}
