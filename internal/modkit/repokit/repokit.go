// Package repokit lets services bind repositories to whatever query surface is
// current, the pool for reads or a tenant scoped transaction for writes.
package repokit

import "ksefconnect/internal/platform/store"

type (
	Queryer  = store.RowQuerier
	TxRunner = store.TxRunner
)

// Binder produces a repository over q
type Binder[T any] interface {
	Bind(q Queryer) T
}

// BindFunc adapts a constructor to Binder
type BindFunc[T any] func(Queryer) T

func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }
