package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveAuthCountsByOutcome(t *testing.T) {
	before := testutil.ToFloat64(authAttempts.WithLabelValues("authority_timeout"))
	ObserveAuth("authority_timeout", 30, 3*time.Second)
	ObserveAuth("authority_timeout", 0, time.Second)
	after := testutil.ToFloat64(authAttempts.WithLabelValues("authority_timeout"))
	if after-before != 2 {
		t.Fatalf("auth_attempts_total delta = %v, want 2", after-before)
	}
}

func TestAuthorityRequestLabels(t *testing.T) {
	before := testutil.ToFloat64(authorityRequests.WithLabelValues("status", "error"))
	AuthorityRequest("status", 0)
	if got := testutil.ToFloat64(authorityRequests.WithLabelValues("status", "error")) - before; got != 1 {
		t.Fatalf("error label delta = %v", got)
	}
	AuthorityRequest("redeem", 200)
	if got := testutil.ToFloat64(authorityRequests.WithLabelValues("redeem", "200")); got < 1 {
		t.Fatalf("200 label not recorded")
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	Init()
	Init() // idempotent
	ObserveAuth(OutcomeSuccess, 2, 500*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	for _, name := range []string{"ksef_auth_attempts_total", "ksef_auth_duration_seconds", "ksef_auth_polls"} {
		if !strings.Contains(string(body), name) {
			t.Fatalf("metrics output missing %s", name)
		}
	}
}
