// Package time holds helpers for timestamps that end up in storage
package time

import "time"

// Stored returns t as Postgres keeps it, in UTC at microsecond precision, or nil when t is zero
func Stored(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	s := t.UTC().Truncate(time.Microsecond)
	return &s
}
