package ch

import (
	"context"
	"strings"
	"testing"
)

func TestOpen_RejectsBadConfig(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), Config{}); err == nil {
		t.Fatalf("expected error for empty url")
	}
	if _, err := Open(context.Background(), Config{URL: "://bad"}); err == nil {
		t.Fatalf("expected error for malformed dsn")
	}
}

func TestInsert_ValidatesTableBeforeConnecting(t *testing.T) {
	t.Parallel()

	c := &CH{} // no connection, must not be touched
	for _, bad := range []string{"", "t; DROP TABLE x", "1table", "db.t.x", "t x"} {
		err := c.Insert(context.Background(), bad, [][]any{{1}})
		if err == nil || !strings.Contains(err.Error(), "invalid table name") {
			t.Fatalf("table %q: err = %v", bad, err)
		}
	}
	if err := c.Insert(context.Background(), "analytics.ksef_auth_attempts", nil); err != nil {
		t.Fatalf("empty insert should be a no op: %v", err)
	}
}

func TestBuildClientInfo(t *testing.T) {
	t.Parallel()

	ci := BuildClientInfo(" api ", "v1.2.3")
	if len(ci.Products) < 2 {
		t.Fatalf("products = %+v", ci.Products)
	}
	if ci.Products[0].Name != "ksefconnect" || ci.Products[0].Version != "v1.2.3" {
		t.Fatalf("first product = %+v", ci.Products[0])
	}
	if ci.Products[1].Name != "role" || ci.Products[1].Version != "api" {
		t.Fatalf("role product = %+v", ci.Products[1])
	}
}
