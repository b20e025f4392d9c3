// Package testkit holds the small assertions and seam helpers shared by package tests
package testkit

import (
	"strings"
	"sync"
	"testing"
)

// MustPanic fails the test unless fn panics
func MustPanic(t testing.TB, fn func()) {
	t.Helper()
	if !panics(fn) {
		t.Fatalf("expected a panic")
	}
}

// MustNotPanic fails the test if fn panics
func MustNotPanic(t testing.TB, fn func()) {
	t.Helper()
	defer func() {
		if v := recover(); v != nil {
			t.Fatalf("unexpected panic: %v", v)
		}
	}()
	fn()
}

func panics(fn func()) (did bool) {
	defer func() { did = recover() != nil }()
	fn()
	return false
}

// MustContain fails with the full output when needle is missing from s
func MustContain(t testing.TB, s, needle string) {
	t.Helper()
	if !strings.Contains(s, needle) {
		t.Fatalf("missing %q in:\n%s", needle, s)
	}
}

var serial sync.Mutex

// Swap replaces *target until the test ends
func Swap[T any](t testing.TB, target *T, v T) {
	t.Helper()
	prev := *target
	*target = v
	t.Cleanup(func() { *target = prev })
}

// Serial holds a process wide lock for the rest of the test, for tests that Swap shared seams
func Serial(t testing.TB) {
	t.Helper()
	serial.Lock()
	t.Cleanup(serial.Unlock)
}
