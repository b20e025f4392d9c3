// Package store opens the Postgres pool that holds company credentials and the optional
// ClickHouse sink that receives authentication audit rows. Repos only see the small
// Row/Rows/RowQuerier surface declared here.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ksefconnect/internal/platform/logger"
	chx "ksefconnect/internal/platform/store/ch"
	"ksefconnect/internal/platform/store/pg"

	"github.com/cenkalti/backoff/v4"
)

// Store holds the opened backends. CH is nil when no audit sink is configured.
type Store struct {
	PG TxRunner
	CH Clickhouse
}

type Row interface {
	Scan(dest ...any) error
}

type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is what repos run statements against, inside or outside a transaction
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner runs fn in one transaction scoped to the tenant on ctx, see WithTenant
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is the append only audit sink
type Clickhouse interface {
	Insert(ctx context.Context, table string, data any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Close() error
}

type options struct{ log logger.Logger }

// Option tunes Open
type Option func(*options)

// WithLogger sets the logger the SQL tracer writes to
func WithLogger(l logger.Logger) Option { return func(o *options) { o.log = l } }

// Open connects the enabled backends. Postgres is pinged with backoff so the API can
// start alongside its database; a failing ClickHouse fails the boot as well.
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	o := options{log: *logger.Named("store")}
	for _, fn := range opts {
		fn(&o)
	}

	s := &Store{}
	if cfg.PG.Enabled {
		db, err := openPG(ctx, cfg, o.log)
		if err != nil {
			return nil, err
		}
		s.PG = db
	}
	if cfg.CH.Enabled {
		c, err := chx.Open(ctx, chx.Config{URL: cfg.CH.URL, Role: cfg.CH.Role, Tag: cfg.AppName})
		if err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		s.CH = newCHAdapter(c)
	}
	return s, nil
}

// Close releases every opened backend
func (s *Store) Close(context.Context) error {
	var errs []error
	if s.CH != nil {
		errs = append(errs, s.CH.Close())
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func openPG(ctx context.Context, cfg Config, log logger.Logger) (*DB, error) {
	pool, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		AppName:  cfg.AppName,
		MaxConns: cfg.PG.MaxConns,
		Tracer:   pg.NewTracer(log, time.Duration(cfg.PG.SlowQueryMs)*time.Millisecond, cfg.PG.LogSQL),
	})
	if err != nil {
		return nil, err
	}

	retries := cfg.PG.ConnectRetries
	if retries <= 0 {
		retries = 20
	}
	timeout := cfg.PG.PingTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	attempts := 0
	ping := func() error {
		attempts++
		pctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return pool.Ping(pctx)
	}
	notify := func(err error, next time.Duration) {
		log.Warn().Err(err).Int("attempt", attempts).Dur("retry_in", next).Msg("postgres not ready")
	}
	if err := backoff.RetryNotify(ping, bootBackoff(ctx, retries), notify); err != nil {
		pool.Close()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("postgres unreachable after %d attempts: %w", attempts, err)
	}
	return newDB(pool), nil
}

// bootBackoff waits 150ms doubling up to 2s between at most retries attempts
func bootBackoff(ctx context.Context, retries int) backoff.BackOff {
	b := &backoff.ExponentialBackOff{
		InitialInterval: 150 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		Multiplier:      2,
		Stop:            backoff.Stop,
		Clock:           backoff.SystemClock,
	}
	b.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries-1)), ctx)
}
