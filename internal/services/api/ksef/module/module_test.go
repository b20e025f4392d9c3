package module

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	modkit "ksefconnect/internal/modkit"
	"ksefconnect/internal/platform/config"
	perr "ksefconnect/internal/platform/errors"
	"ksefconnect/internal/platform/store"
	"ksefconnect/internal/platform/testkit"
	"ksefconnect/internal/services/api/ksef/domain"
)

type nopDB struct{}

func (nopDB) Exec(context.Context, string, ...any) (store.CommandTag, error) {
	return nil, errors.New("nopDB")
}
func (nopDB) Query(context.Context, string, ...any) (store.Rows, error) {
	return nil, errors.New("nopDB")
}
func (nopDB) QueryRow(context.Context, string, ...any) store.Row { return nil }
func (nopDB) Tx(ctx context.Context, fn func(store.RowQuerier) error) error {
	return fn(nopDB{})
}

func writeKey(t *testing.T) string {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	der, _ := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	path := filepath.Join(t.TempDir(), "ksef.pem")
	if err := os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}
	return path
}

func TestFromConfig_Defaults(t *testing.T) {
	for _, k := range []string{"KSEF_CALL_TIMEOUT", "KSEF_POLL_MAX_ATTEMPTS", "KSEF_STATUS_PENDING", "KSEF_STATUS_SUCCESS"} {
		t.Setenv(k, "")
	}
	o := FromConfig(config.New())
	if o.CallTimeout != 10*time.Second || o.PollMaxAttempts != 30 || o.PollInitial != 500*time.Millisecond {
		t.Fatalf("defaults = %+v", o)
	}
	co, err := o.ClientOptions()
	if err != nil {
		t.Fatalf("ClientOptions: %v", err)
	}
	if len(co.Policy.Pending) != 1 || co.Policy.Pending[0] != 100 || co.Policy.Success[0] != 200 {
		t.Fatalf("policy = %+v", co.Policy)
	}
}

func TestFromConfig_Overrides(t *testing.T) {
	t.Setenv("KSEF_POLL_MAX_ATTEMPTS", "4")
	t.Setenv("KSEF_STATUS_PENDING", "100,150")
	t.Setenv("KSEF_BASE_URL", "https://ksef.example/api/v2")
	o := FromConfig(config.New())
	if o.PollMaxAttempts != 4 || o.BaseURL != "https://ksef.example/api/v2" {
		t.Fatalf("options = %+v", o)
	}
	co, err := o.ClientOptions()
	if err != nil || len(co.Policy.Pending) != 2 {
		t.Fatalf("ClientOptions = %+v, %v", co.Policy, err)
	}

	o.StatusSuccess = "two hundred"
	if _, err := o.ClientOptions(); !perr.IsCode(err, perr.ErrorCodeConfig) {
		t.Fatalf("bad codes err = %v", err)
	}
}

func TestOptions_CipherAndClient(t *testing.T) {
	var o Options
	if _, err := o.Cipher(); !perr.IsCode(err, perr.ErrorCodeConfig) {
		t.Fatalf("missing key err = %v", err)
	}
	o.SecretKey = "abcd"
	if _, err := o.Cipher(); !perr.IsCode(err, perr.ErrorCodeConfig) {
		t.Fatalf("short key err = %v", err)
	}
	o.SecretKey = strings.Repeat("ab", 32)
	if _, err := o.Cipher(); err != nil {
		t.Fatalf("Cipher: %v", err)
	}

	if _, err := o.Client(); !perr.IsCode(err, perr.ErrorCodeConfig) {
		t.Fatalf("missing public key err = %v", err)
	}
	o.PublicKeyFile = writeKey(t)
	o.StatusPending, o.StatusSuccess = "100", "200"
	if _, err := o.Client(); err != nil {
		t.Fatalf("Client: %v", err)
	}
}

func TestNew_PanicsWithoutKey(t *testing.T) {
	t.Setenv("KSEF_SECRET_KEY", "")
	testkit.MustPanic(t, func() {
		New(modkit.Deps{Cfg: config.New(), PG: nopDB{}})
	})
}

func TestNew_FromConfig(t *testing.T) {
	t.Setenv("KSEF_SECRET_KEY", strings.Repeat("0f", 32))
	t.Setenv("KSEF_PUBLIC_KEY_FILE", writeKey(t))

	m := New(modkit.Deps{Cfg: config.New(), PG: nopDB{}})
	if m.Name() != "ksef" {
		t.Fatalf("name = %q", m.Name())
	}
	if _, ok := m.Ports().(domain.ServicePort); !ok {
		t.Fatalf("ports should expose the service, got %T", m.Ports())
	}
	if p, ok := m.(interface{ Prefix() string }); !ok || p.Prefix() != "/companies" {
		t.Fatalf("prefix not /companies")
	}
}

func TestDescribeTag(t *testing.T) {
	spec := map[string]any{}
	describeTag(spec)
	tags := spec["tags"].([]any)
	if len(tags) != 1 || tags[0].(map[string]any)["name"] != "ksef" {
		t.Fatalf("tags = %v", tags)
	}
}
