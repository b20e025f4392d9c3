package store

import (
	"context"
	"fmt"

	perr "ksefconnect/internal/platform/errors"
)

// ExecOne runs a statement that must touch exactly one row; none is perr.ErrNotFound
func ExecOne(ctx context.Context, q RowQuerier, sql string, args ...any) error {
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if n := tag.RowsAffected(); n != 1 {
		if n == 0 {
			return perr.ErrNotFound
		}
		return perr.Integrityf("statement touched %d rows, want 1", n)
	}
	return nil
}

// One maps the only row of a query with scan; no row is perr.ErrNotFound
func One[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) (T, error) {
	var zero T
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return zero, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return zero, err
		}
		return zero, perr.ErrNotFound
	}
	v, err := scan(rows)
	if err != nil {
		return zero, err
	}
	if rows.Next() {
		return zero, fmt.Errorf("query returned more than one row")
	}
	return v, rows.Err()
}
