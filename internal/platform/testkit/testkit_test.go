package testkit

import "testing"

var seam = func() string { return "real" }

func TestPanicHelpers(t *testing.T) {
	MustPanic(t, func() { panic("boom") })
	MustNotPanic(t, func() {})
	if panics(func() {}) {
		t.Fatalf("panics reported a quiet func")
	}
	MustContain(t, "ksef token stored", "token")
}

func TestSwapRestores(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		Serial(t)
		Swap(t, &seam, func() string { return "fake" })
		if seam() != "fake" {
			t.Fatalf("swap not applied")
		}
	})
	if seam() != "real" {
		t.Fatalf("swap not restored")
	}
}
