package store

import (
	"context"
	"fmt"

	"ksefconnect/internal/platform/store/ch"
)

// chConn is the part of *ch.CH the audit sink needs
type chConn interface {
	Insert(ctx context.Context, table string, rows [][]any) error
	Query(ctx context.Context, sql string, args ...any) (ch.Rows, error)
	Ping(ctx context.Context) error
	Close() error
}

type chSink struct{ c chConn }

func newCHAdapter(c chConn) *chSink { return &chSink{c: c} }

// Insert takes rows as [][]any in table column order
func (s *chSink) Insert(ctx context.Context, table string, data any) error {
	rows, ok := data.([][]any)
	if !ok {
		return fmt.Errorf("clickhouse insert into %s: rows must be [][]any, got %T", table, data)
	}
	return s.c.Insert(ctx, table, rows)
}

func (s *chSink) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rs, err := s.c.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRows{rs}, nil
}

func (s *chSink) Ping(ctx context.Context) error { return s.c.Ping(ctx) }

func (s *chSink) Close() error { return s.c.Close() }

// chRows drops the Close error to fit Rows
type chRows struct{ ch.Rows }

func (r chRows) Close() { _ = r.Rows.Close() }
