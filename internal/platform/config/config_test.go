package config

import (
	"slices"
	"testing"
	"time"

	kit "ksefconnect/internal/platform/testkit"
)

func TestPrefixNesting(t *testing.T) {
	c := New().Prefix("CORE_").Prefix("API_")
	if got := c.key("PORT"); got != "CORE_API_PORT" {
		t.Fatalf("key = %q", got)
	}
}

func TestMustString(t *testing.T) {
	c := New().Prefix("CFGT_")
	t.Setenv("CFGT_JWT_SECRET", "  s3cret ")
	if got := c.MustString("JWT_SECRET"); got != "s3cret" {
		t.Fatalf("MustString = %q", got)
	}
	t.Setenv("CFGT_BLANK", "   ")
	kit.MustPanic(t, func() { c.MustString("BLANK") })
	kit.MustPanic(t, func() { c.MustString("UNSET") })
}

func TestMayParsers(t *testing.T) {
	c := New().Prefix("CFGT_")
	t.Setenv("CFGT_POLL_MAX_ATTEMPTS", "12")
	t.Setenv("CFGT_POLL_INITIAL", "250ms")
	t.Setenv("CFGT_POLL_JITTER", "0.25")
	t.Setenv("CFGT_SWAGGER", "false")
	t.Setenv("CFGT_BAD_INT", "twelve")
	t.Setenv("CFGT_BAD_DUR", "soon")

	if got := c.MayInt("POLL_MAX_ATTEMPTS", 30); got != 12 {
		t.Errorf("MayInt = %d", got)
	}
	if got := c.MayDuration("POLL_INITIAL", time.Second); got != 250*time.Millisecond {
		t.Errorf("MayDuration = %s", got)
	}
	if got := c.MayFloat64("POLL_JITTER", 0.1); got != 0.25 {
		t.Errorf("MayFloat64 = %v", got)
	}
	if got := c.MayBool("SWAGGER", true); got {
		t.Errorf("MayBool = true")
	}
	if got := c.MayInt("BAD_INT", 30); got != 30 {
		t.Errorf("bad int fell back to %d", got)
	}
	if got := c.MayDuration("BAD_DUR", time.Second); got != time.Second {
		t.Errorf("bad duration fell back to %s", got)
	}
	if got := c.MayString("UNSET", "ksefconnect"); got != "ksefconnect" {
		t.Errorf("MayString default = %q", got)
	}
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("CFGT_")
	def := []string{"*"}

	t.Setenv("CFGT_ORIGINS", " https://a.example , ,https://b.example,")
	if got := c.MayCSV("ORIGINS", def); !slices.Equal(got, []string{"https://a.example", "https://b.example"}) {
		t.Fatalf("MayCSV = %v", got)
	}
	t.Setenv("CFGT_ORIGINS", " , ")
	if got := c.MayCSV("ORIGINS", def); !slices.Equal(got, def) {
		t.Fatalf("blank list = %v", got)
	}
}
