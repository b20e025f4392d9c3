package service

import (
	"context"
	"time"

	"ksefconnect/internal/core/nip"
	perr "ksefconnect/internal/platform/errors"
	"ksefconnect/internal/platform/logger"
	"ksefconnect/internal/platform/metrics"
	ptime "ksefconnect/internal/platform/time"
	"ksefconnect/internal/services/api/ksef/domain"
	"ksefconnect/internal/services/api/ksef/repo"
)

// TestConnection decrypts the stored token and runs a full authentication against the
// authority. It never writes company state.
func (s *Svc) TestConnection(ctx context.Context, tenantID, companyID string) (domain.TestResult, error) {
	if err := checkIDs(tenantID, companyID); err != nil {
		return domain.TestResult{}, err
	}
	return s.test(ctx, tenantID, companyID)
}

func (s *Svc) test(ctx context.Context, tenantID, companyID string) (domain.TestResult, error) {
	c, err := s.find(ctx, tenantID, companyID)
	if err != nil {
		return domain.TestResult{}, err
	}
	if !c.HasSecret() {
		return domain.TestResult{}, perr.Configf("company %s has no KSeF token on file", companyID)
	}
	taxID, ok := nip.Parse(c.TaxID)
	if !ok {
		return domain.TestResult{}, perr.Configf("company %s has an invalid tax id", companyID)
	}

	secret, err := s.cipher.Decrypt(c.SecretRecord)
	if err != nil {
		return domain.TestResult{}, authFailed(ctx, companyID, err)
	}
	sess, err := s.auth.Authenticate(ctx, taxID, secret)
	if err != nil {
		return domain.TestResult{}, authFailed(ctx, companyID, err)
	}
	return domain.TestResult{Success: true, ValidUntil: sess.AccessToken.ValidUntil}, nil
}

// authFailed logs the detailed cause and returns the caller facing error with the code kept
func authFailed(ctx context.Context, companyID string, err error) error {
	code := perr.CodeOf(err)
	logger.C(ctx).Warn().
		Err(err).
		Str("company_id", companyID).
		Str("kind", code.String()).
		Bool("retryable", perr.Retryable(err)).
		Msg("ksef authorization failed")
	return perr.Wrap(err, code, AuthFailedMessage)
}

// CheckConnection runs TestConnection and records the outcome on the company.
// Success marks it CONNECTED, permanent failures mark it ERROR, transient failures only
// record the error and check time. Lookup failures write nothing.
func (s *Svc) CheckConnection(ctx context.Context, tenantID, companyID string) (domain.TestResult, error) {
	if err := checkIDs(tenantID, companyID); err != nil {
		return domain.TestResult{}, err
	}

	started := s.now()
	res, err := s.test(ctx, tenantID, companyID)
	code := perr.CodeOf(err)
	if code == perr.ErrorCodeNotFound || code == perr.ErrorCodeForbidden {
		return domain.TestResult{}, err
	}

	rec, keep := recordFor(res, err, s.now())
	if keep {
		werr := s.tx(ctx, tenantID, func(r repo.Repo) error {
			return r.RecordCheck(ctx, companyID, rec)
		})
		if werr != nil {
			logger.C(ctx).Error().Err(werr).Str("company_id", companyID).Msg("ksef check write-back failed")
			if err == nil {
				return domain.TestResult{}, werr
			}
		}
	}

	s.auditAttempt(ctx, tenantID, companyID, started, res, err)
	return res, err
}

// recordFor maps a test outcome onto a company write
// keep is false when nothing should be written
func recordFor(res domain.TestResult, err error, at time.Time) (domain.CheckRecord, bool) {
	if err == nil {
		return domain.CheckRecord{Status: domain.StatusConnected, ValidUntil: ptime.Stored(res.ValidUntil), CheckedAt: at}, true
	}
	rec := domain.CheckRecord{
		CheckedAt:    at,
		ErrorCode:    perr.CodeOf(err).String(),
		ErrorMessage: perr.WireFrom(err).Message,
	}
	switch perr.CodeOf(err) {
	case perr.ErrorCodeNotFound, perr.ErrorCodeForbidden:
		return domain.CheckRecord{}, false
	case perr.ErrorCodeConfig, perr.ErrorCodeIntegrity, perr.ErrorCodeAuthorityRejected:
		rec.Status = domain.StatusError
	}
	return rec, true
}

func (s *Svc) auditAttempt(ctx context.Context, tenantID, companyID string, started time.Time, res domain.TestResult, err error) {
	at := domain.Attempt{
		ID:        s.newID(),
		TenantID:  tenantID,
		CompanyID: companyID,
		Outcome:   metrics.OutcomeSuccess,
		StartedAt: started,
		Duration:  s.now().Sub(started),
	}
	if err != nil {
		at.Outcome = perr.CodeOf(err).String()
	} else {
		at.ValidUntil = ptime.Stored(res.ValidUntil)
	}
	if aerr := s.audit.Record(ctx, at); aerr != nil {
		logger.C(ctx).Warn().Err(aerr).Str("attempt_id", at.ID).Msg("ksef audit insert failed")
	}
}
