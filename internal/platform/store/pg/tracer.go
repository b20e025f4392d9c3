package pg

import (
	"context"
	"strings"
	"time"

	"ksefconnect/internal/platform/logger"

	"github.com/jackc/pgx/v5"
)

// Tracer logs statements through zerolog. Slow or failed statements always log;
// the rest only when all is set. Arguments are never logged since token records
// travel as arguments.
type Tracer struct {
	log  logger.Logger
	slow time.Duration
	all  bool
	now  func() time.Time
}

var _ pgx.QueryTracer = (*Tracer)(nil)

// NewTracer returns a tracer; slow <= 0 disables the slow threshold
func NewTracer(log logger.Logger, slow time.Duration, all bool) *Tracer {
	return &Tracer{
		log:  log.With().Str("component", "pg").Logger(),
		slow: slow,
		all:  all,
		now:  time.Now,
	}
}

type queryKey struct{}

type queryStart struct {
	sql   string
	nargs int
	at    time.Time
}

func (t *Tracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, d pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryKey{}, queryStart{sql: d.SQL, nargs: len(d.Args), at: t.now()})
}

func (t *Tracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, d pgx.TraceQueryEndData) {
	st, ok := ctx.Value(queryKey{}).(queryStart)
	if !ok {
		return
	}
	elapsed := t.now().Sub(st.at)
	slow := t.slow > 0 && elapsed >= t.slow

	ev := t.log.Info()
	switch {
	case d.Err != nil:
		ev = t.log.Error().Err(d.Err)
	case slow:
		ev = t.log.Warn()
	case !t.all:
		return
	}
	ev.Dur("elapsed", elapsed).
		Bool("slow", slow).
		Int("args", st.nargs).
		Int64("rows", d.CommandTag.RowsAffected()).
		Str("sql", squash(st.sql)).
		Msg("pg query")
}

// squash folds whitespace runs into single spaces
func squash(sql string) string { return strings.Join(strings.Fields(sql), " ") }
