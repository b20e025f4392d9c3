// Package nip normalizes and validates Polish tax identifiers (NIP)
package nip

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Length is the number of digits in a NIP
const Length = 10

var weights = [Length - 1]int{6, 5, 7, 2, 3, 4, 5, 6, 7}

// Normalize folds compatibility forms (full width digits, odd dashes), drops an
// optional PL prefix and strips separators. It does not validate.
func Normalize(s string) string {
	s = norm.NFKC.String(strings.TrimSpace(s))
	s = strings.ToUpper(s)
	s = strings.TrimPrefix(s, "PL")

	var b strings.Builder
	b.Grow(Length)
	for _, r := range s {
		switch r {
		case ' ', '-', '‐', '‑', '−', '.', '\t':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Valid reports whether s is a normalized NIP with a correct check digit
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	sum := 0
	for i := 0; i < Length; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return false
		}
		if i < Length-1 {
			sum += int(c-'0') * weights[i]
		}
	}
	check := sum % 11
	return check != 10 && check == int(s[Length-1]-'0')
}

// Parse normalizes s and reports whether the result is a valid NIP
func Parse(s string) (string, bool) {
	n := Normalize(s)
	return n, Valid(n)
}
