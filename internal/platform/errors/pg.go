package errors

import (
	"context"
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// sqlstates maps the Postgres error classes the repositories can hit
var sqlstates = map[string]ErrorCode{
	"23505": ErrorCodeDuplicateKey,
	"23503": ErrorCodeInvalidArgument, // fk: the row references something that is gone
	"23502": ErrorCodeValidation,
	"23514": ErrorCodeValidation,
	"22001": ErrorCodeInvalidArgument,
	"22P02": ErrorCodeInvalidArgument,
	"42501": ErrorCodeForbidden, // row level security refused the statement
	"25006": ErrorCodeUnavailable,
	"57P03": ErrorCodeUnavailable,
}

// contention states are safe to replay in a new transaction
var contention = map[string]bool{
	"40001": true,
	"40P01": true,
	"55P03": true,
}

var contentionText = []string{
	"commit unexpectedly resulted in rollback",
	"deadlock detected",
	"could not serialize access",
	"canceling statement due to lock timeout",
	"canceling statement due to statement timeout",
	"terminating connection due to administrator command",
}

// DBErrorCode classifies a *pgconn.PgError; ok is false for anything else
func DBErrorCode(err error) (ErrorCode, bool) {
	var pg *pgconn.PgError
	if !stderrs.As(err, &pg) {
		return ErrorCodeUnknown, false
	}
	if c, ok := sqlstates[pg.Code]; ok {
		return c, true
	}
	return ErrorCodeDB, true
}

// FromPostgres wraps a driver error with the code DBErrorCode picks, db otherwise
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, ok := DBErrorCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	return Wrap(err, code, msg)
}

// IsRetryable reports lock and serialization contention. Caller cancellations never are.
func IsRetryable(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	var pg *pgconn.PgError
	if stderrs.As(err, &pg) {
		return contention[pg.Code]
	}
	s := strings.ToLower(Root(err).Error())
	for _, t := range contentionText {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
