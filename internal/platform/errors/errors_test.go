package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestCodeTable(t *testing.T) {
	cases := map[ErrorCode]struct {
		name   string
		status int
	}{
		ErrorCodeNotFound:          {"not_found", http.StatusNotFound},
		ErrorCodeInvalidArgument:   {"invalid_argument", http.StatusUnprocessableEntity},
		ErrorCodeJSON:              {"json", http.StatusBadRequest},
		ErrorCodeUnauthorized:      {"unauthorized", http.StatusUnauthorized},
		ErrorCodeTooManyRequests:   {"too_many_requests", http.StatusTooManyRequests},
		ErrorCodeConfig:            {"config", http.StatusPreconditionFailed},
		ErrorCodeIntegrity:         {"integrity", http.StatusInternalServerError},
		ErrorCodeAuthorityRejected: {"authority_rejected", http.StatusFailedDependency},
		ErrorCodeAuthorityTimeout:  {"authority_timeout", http.StatusGatewayTimeout},
		ErrorCode(999):             {"code_999", http.StatusInternalServerError},
	}
	for code, want := range cases {
		if code.String() != want.name || code.Status() != want.status {
			t.Errorf("%d: got %s/%d, want %s/%d", code, code.String(), code.Status(), want.name, want.status)
		}
	}
}

func TestWrapChain(t *testing.T) {
	cause := stderrs.New("socket closed")
	err := fmt.Errorf("outer: %w", Wrap(cause, ErrorCodeUnavailable, "ksef challenge"))

	if got := CodeOf(err); got != ErrorCodeUnavailable {
		t.Fatalf("CodeOf = %v", got)
	}
	if !stderrs.Is(err, cause) || Root(err) != cause {
		t.Fatalf("cause lost in chain")
	}
	if HTTPStatus(err) != http.StatusServiceUnavailable {
		t.Fatalf("HTTPStatus = %d", HTTPStatus(err))
	}
	e, _ := As(err)
	if e.Error() != "ksef challenge: socket closed" {
		t.Fatalf("Error() = %q", e.Error())
	}

	var nilErr *Error
	if nilErr.Error() != "<nil>" || Root(nil) != nil || CodeOf(nil) != ErrorCodeUnknown {
		t.Fatalf("nil handling broken")
	}
}

func TestWireFrom(t *testing.T) {
	w := WireFrom(WithField(InvalidArgf("nip %q is malformed", "12"), "nip"))
	if w.Code != ErrorCodeInvalidArgument || w.Message != `nip "12" is malformed` || w.Field != "nip" {
		t.Fatalf("wire = %+v", w)
	}
	if w := WireFrom(stderrs.New("boom")); w.Code != ErrorCodeUnknown || w.Message != "boom" {
		t.Fatalf("foreign wire = %+v", w)
	}
	if w := WireFrom(nil); w != (Wire{}) {
		t.Fatalf("nil wire = %+v", w)
	}

	plain := stderrs.New("x")
	if WithField(plain, "f") != plain {
		t.Fatalf("WithField must pass foreign errors through")
	}
	orig := Configf("missing token")
	_ = WithField(orig, "token")
	if e, _ := As(orig); e.Field() != "" {
		t.Fatalf("WithField mutated the original")
	}
}

func TestRetryable(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{Unavailablef("down"), true},
		{Newf(ErrorCodeTooManyRequests, "slow down"), true},
		{AuthorityTimeoutf("still pending"), true},
		{Rejectedf("450"), false},
		{Integrityf("tag mismatch"), false},
		{Configf("no key"), false},
		{NotFoundf("company"), false},
		{Wrap(stderrs.New("deadlock detected"), ErrorCodeDB, "update"), true},
	}
	for i, c := range cases {
		if got := Retryable(c.err); got != c.want {
			t.Errorf("case %d (%v): Retryable = %v, want %v", i, c.err, got, c.want)
		}
	}
}

func TestSugarCodes(t *testing.T) {
	for want, err := range map[ErrorCode]error{
		ErrorCodeNotFound:          NotFoundf("x"),
		ErrorCodeDB:                DBf("x"),
		ErrorCodeJSON:              JSONErrf("x"),
		ErrorCodePanic:             PanicErrf("x"),
		ErrorCodeUnauthorized:      Unauthorizedf("x"),
		ErrorCodeForbidden:         Forbiddenf("x"),
		ErrorCodeAuthorityRejected: Rejectedf("x"),
	} {
		if !IsCode(err, want) {
			t.Errorf("%v: code = %v", want, CodeOf(err))
		}
	}
}
