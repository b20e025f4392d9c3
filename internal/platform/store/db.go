package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxQuerier is the statement surface pgxpool.Pool and pgx.Tx share
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type querier struct{ q pgxQuerier }

func (x querier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	tag, err := x.q.Exec(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return tag, nil
}

func (x querier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rs, err := x.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgxRows{rs}, nil
}

func (x querier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return x.q.QueryRow(ctx, sql, args...)
}

type pgxRows struct{ pgx.Rows }

func (r pgxRows) Columns() []string {
	fds := r.FieldDescriptions()
	cols := make([]string, len(fds))
	for i, fd := range fds {
		cols[i] = fd.Name
	}
	return cols
}

// DB is the pool backed TxRunner. Statements are traced by the pool's pg.Tracer.
type DB struct {
	querier
	pool *pgxpool.Pool
}

func newDB(pool *pgxpool.Pool) *DB { return &DB{querier: querier{pool}, pool: pool} }

// Tx commits when fn returns nil and rolls back otherwise
func (d *DB) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	return pgx.BeginFunc(ctx, d.pool, func(tx pgx.Tx) error {
		q := querier{tx}
		if err := scopeTx(ctx, q); err != nil {
			return err
		}
		return fn(q)
	})
}

func (d *DB) Ping(ctx context.Context) error { return d.pool.Ping(ctx) }

func (d *DB) Close() error {
	d.pool.Close()
	return nil
}
