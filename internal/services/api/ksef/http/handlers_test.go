package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	perr "ksefconnect/internal/platform/errors"
	pnet "ksefconnect/internal/platform/net"
	phttp "ksefconnect/internal/platform/net/http"
	"ksefconnect/internal/services/api/ksef/domain"

	"github.com/go-chi/chi/v5"
)

const companyID = "3b0f1e2a-6c4d-4d8e-9a57-0c1f2d3e4b01"

type call struct {
	op, tenant, company string
	in                  domain.SaveTokenInput
}

type fakeSvc struct {
	calls []call
	err   error
}

func (f *fakeSvc) record(op, tid, cid string) {
	f.calls = append(f.calls, call{op: op, tenant: tid, company: cid})
}

func (f *fakeSvc) SaveToken(_ context.Context, tid, cid string, in domain.SaveTokenInput) (domain.StatusView, error) {
	f.calls = append(f.calls, call{op: "save", tenant: tid, company: cid, in: in})
	return domain.StatusView{CompanyID: cid, Status: domain.StatusConfigured, HasToken: true}, f.err
}

func (f *fakeSvc) Disconnect(_ context.Context, tid, cid string) (domain.StatusView, error) {
	f.record("disconnect", tid, cid)
	return domain.StatusView{CompanyID: cid, Status: domain.StatusDisconnected}, f.err
}

func (f *fakeSvc) TestConnection(_ context.Context, tid, cid string) (domain.TestResult, error) {
	f.record("test", tid, cid)
	if f.err != nil {
		return domain.TestResult{}, f.err
	}
	return domain.TestResult{Success: true, ValidUntil: time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC)}, nil
}

func (f *fakeSvc) CheckConnection(_ context.Context, tid, cid string) (domain.TestResult, error) {
	f.record("check", tid, cid)
	if f.err != nil {
		return domain.TestResult{}, f.err
	}
	return domain.TestResult{Success: true, ValidUntil: time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC)}, nil
}

func (f *fakeSvc) Status(_ context.Context, tid, cid string) (domain.StatusView, error) {
	f.record("status", tid, cid)
	return domain.StatusView{CompanyID: cid, Status: domain.StatusConnected}, f.err
}

// newServer mounts the handlers the way the module does, with the tenant already on the context
func newServer(s *fakeSvc, tenant string) stdhttp.Handler {
	mux := chi.NewRouter()
	mux.Use(func(next stdhttp.Handler) stdhttp.Handler {
		return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			next.ServeHTTP(w, r.WithContext(pnet.WithIdentity(r.Context(), pnet.Identity{Subject: "user-1", TenantID: tenant})))
		})
	})
	r := phttp.AdaptChi(mux)
	r.Route("/companies", func(rr phttp.Router) { Register(rr, s) })
	return mux
}

func do(t *testing.T, h stdhttp.Handler, method, path, body string) (int, phttp.Envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s %s: %v (%s)", method, path, err, rec.Body.String())
	}
	return rec.Code, env
}

func TestRoutes(t *testing.T) {
	s := &fakeSvc{}
	h := newServer(s, "tenant-a")
	base := "/companies/" + companyID + "/ksef"

	if code, _ := do(t, h, stdhttp.MethodGet, base, ""); code != stdhttp.StatusOK {
		t.Fatalf("GET status code = %d", code)
	}
	if code, _ := do(t, h, stdhttp.MethodPut, base+"/token", `{"token":"20240101-EC-0123456789ABCDEF"}`); code != stdhttp.StatusOK {
		t.Fatalf("PUT token code = %d", code)
	}
	if code, _ := do(t, h, stdhttp.MethodDelete, base+"/token", ""); code != stdhttp.StatusOK {
		t.Fatalf("DELETE token code = %d", code)
	}
	if code, _ := do(t, h, stdhttp.MethodPost, base+"/test", ""); code != stdhttp.StatusOK {
		t.Fatalf("POST test code = %d", code)
	}
	if code, _ := do(t, h, stdhttp.MethodPost, base+"/test?dry_run=true", ""); code != stdhttp.StatusOK {
		t.Fatalf("POST dry run code = %d", code)
	}

	want := []string{"status", "save", "disconnect", "check", "test"}
	if len(s.calls) != len(want) {
		t.Fatalf("calls = %+v", s.calls)
	}
	for i, c := range s.calls {
		if c.op != want[i] || c.tenant != "tenant-a" || c.company != companyID {
			t.Fatalf("call %d = %+v, want op %s", i, c, want[i])
		}
	}
	if s.calls[1].in.Token != "20240101-EC-0123456789ABCDEF" {
		t.Fatalf("token not bound: %+v", s.calls[1].in)
	}
}

func TestSaveTokenValidation(t *testing.T) {
	s := &fakeSvc{}
	h := newServer(s, "tenant-a")
	path := "/companies/" + companyID + "/ksef/token"

	cases := []string{
		`{}`,
		`{"token":"short"}`,
		`{"token":"20240101-EC-0123456789ABCDEF","tax_id":"5260250275"}`,
		`{"token":"20240101-EC-0123456789ABCDEF","extra":1}`,
	}
	for _, body := range cases {
		code, env := do(t, h, stdhttp.MethodPut, path, body)
		if code < 400 || code >= 500 {
			t.Fatalf("body %s: code = %d (%+v)", body, code, env)
		}
	}
	if len(s.calls) != 0 {
		t.Fatalf("invalid payloads must not reach the service: %+v", s.calls)
	}
}

func TestTestEndpointMapsErrorKinds(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{perr.Wrap(perr.Rejectedf("450"), perr.ErrorCodeAuthorityRejected, "KSeF authorization failed"), stdhttp.StatusFailedDependency},
		{perr.Wrap(perr.AuthorityTimeoutf("pending"), perr.ErrorCodeAuthorityTimeout, "KSeF authorization failed"), stdhttp.StatusGatewayTimeout},
		{perr.Wrap(perr.Unavailablef("503"), perr.ErrorCodeUnavailable, "KSeF authorization failed"), stdhttp.StatusServiceUnavailable},
		{perr.Configf("no token"), stdhttp.StatusPreconditionFailed},
		{perr.NotFoundf("company"), stdhttp.StatusNotFound},
		{perr.Forbiddenf("other tenant"), stdhttp.StatusForbidden},
	}
	for _, tc := range cases {
		h := newServer(&fakeSvc{err: tc.err}, "tenant-a")
		code, env := do(t, h, stdhttp.MethodPost, "/companies/"+companyID+"/ksef/test", "")
		if code != tc.want {
			t.Fatalf("%v: code = %d, want %d", tc.err, code, tc.want)
		}
		if env.Code != perr.CodeOf(tc.err) {
			t.Fatalf("%v: envelope code = %v", tc.err, env.Code)
		}
	}

	code, _ := do(t, newServer(&fakeSvc{}, "tenant-a"), stdhttp.MethodPost, "/companies/"+companyID+"/ksef/test?dry_run=maybe", "")
	if code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("bad dry_run code = %d", code)
	}
}

func TestMissingTenantIsUnauthorized(t *testing.T) {
	s := &fakeSvc{}
	code, _ := do(t, newServer(s, ""), stdhttp.MethodGet, "/companies/"+companyID+"/ksef", "")
	if code != stdhttp.StatusUnauthorized {
		t.Fatalf("code = %d", code)
	}
	if len(s.calls) != 0 {
		t.Fatalf("service reached without tenant")
	}
}
