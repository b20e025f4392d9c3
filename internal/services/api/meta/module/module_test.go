package module

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ksefconnect/internal/modkit"
	phttp "ksefconnect/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func TestReadyWithoutBackendsIsDegraded(t *testing.T) {
	m := New(modkit.Deps{})
	if m.Name() != "meta" || m.Ports() != nil {
		t.Fatalf("module = %s %v", m.Name(), m.Ports())
	}

	mux := chi.NewRouter()
	m.MountRoutes(phttp.AdaptChi(mux))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/meta/ready", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"degraded"`) {
		t.Fatalf("GET /meta/ready = %d %s", rec.Code, rec.Body.String())
	}
}
