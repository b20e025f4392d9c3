package repokit

import (
	"testing"

	"ksefconnect/internal/platform/store"
)

type stubQ struct{ store.RowQuerier }

type companies struct{ q Queryer }

func TestBindFunc(t *testing.T) {
	var b Binder[*companies] = BindFunc[*companies](func(q Queryer) *companies { return &companies{q: q} })

	q := stubQ{}
	if got := b.Bind(q); got.q != q {
		t.Fatalf("Bind did not pass the queryer through")
	}
}
