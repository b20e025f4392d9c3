package ksef

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	perr "ksefconnect/internal/platform/errors"
)

func pemPublicKey(t *testing.T, pub any) []byte {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
}

func TestRSAEncrypterRoundTrip(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	pub, err := ParsePublicKeyPEM(pemPublicKey(t, &priv.PublicKey))
	if err != nil {
		t.Fatalf("ParsePublicKeyPEM: %v", err)
	}
	enc, err := NewRSAEncrypter(pub)
	if err != nil {
		t.Fatalf("NewRSAEncrypter: %v", err)
	}

	out, err := enc.EncryptToken("tok", Challenge{Timestamp: "2024-01-01T00:00:00Z", Challenge: "abc"}, "5260250274")
	if err != nil {
		t.Fatalf("EncryptToken: %v", err)
	}
	raw, err := base64.StdEncoding.DecodeString(out)
	if err != nil {
		t.Fatalf("output is not base64: %v", err)
	}
	plain, err := rsa.DecryptOAEP(sha256.New(), nil, priv, raw, nil)
	if err != nil {
		t.Fatalf("DecryptOAEP: %v", err)
	}
	if got := string(plain); got != "tok|1704067200000" {
		t.Fatalf("plaintext = %q", got)
	}
}

func TestRSAEncrypterBadTimestamp(t *testing.T) {
	priv, _ := rsa.GenerateKey(rand.Reader, 2048)
	enc, _ := NewRSAEncrypter(&priv.PublicKey)
	if _, err := enc.EncryptToken("tok", Challenge{Timestamp: "yesterday"}, "x"); !perr.IsCode(err, perr.ErrorCodeAuthorityRejected) {
		t.Fatalf("err = %v, want authority rejected for unparseable challenge timestamp", err)
	}
}

func TestParsePublicKeyPEMErrors(t *testing.T) {
	if _, err := ParsePublicKeyPEM([]byte("not pem")); !perr.IsCode(err, perr.ErrorCodeConfig) {
		t.Fatalf("garbage err = %v", err)
	}
	ec, _ := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if _, err := ParsePublicKeyPEM(pemPublicKey(t, &ec.PublicKey)); !perr.IsCode(err, perr.ErrorCodeConfig) {
		t.Fatalf("ecdsa key err = %v", err)
	}
	if _, err := NewRSAEncrypter(nil); !perr.IsCode(err, perr.ErrorCodeConfig) {
		t.Fatalf("nil key err = %v", err)
	}
}

func TestLoadPublicKeySkipsForeignBlocks(t *testing.T) {
	priv, _ := rsa.GenerateKey(rand.Reader, 2048)
	junk := pem.EncodeToMemory(&pem.Block{Type: "COMMENT", Bytes: []byte("hi")})
	path := filepath.Join(t.TempDir(), "mf.pem")
	if err := os.WriteFile(path, append(junk, pemPublicKey(t, &priv.PublicKey)...), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	pub, err := LoadPublicKey(path)
	if err != nil {
		t.Fatalf("LoadPublicKey: %v", err)
	}
	if pub.N.Cmp(priv.PublicKey.N) != 0 {
		t.Fatalf("loaded a different key")
	}
	if _, err := LoadPublicKey(filepath.Join(t.TempDir(), "missing.pem")); !perr.IsCode(err, perr.ErrorCodeConfig) {
		t.Fatalf("missing file err = %v", err)
	}
}

func TestStatusPolicy(t *testing.T) {
	p := StatusPolicy{Pending: []int{100, 150}, Success: []int{200}}
	cases := map[int]Phase{100: PhasePending, 150: PhasePending, 200: PhaseSuccess, 400: PhaseFailed, 0: PhaseFailed}
	for code, want := range cases {
		if got := p.Classify(code); got != want {
			t.Fatalf("Classify(%d) = %v, want %v", code, got, want)
		}
	}
	if err := (StatusPolicy{Pending: []int{100}}).Validate(); err == nil {
		t.Fatalf("policy without success codes should fail")
	}

	codes, err := ParseCodes(" 100, 150 ,,")
	if err != nil || len(codes) != 2 || codes[0] != 100 || codes[1] != 150 {
		t.Fatalf("ParseCodes = %v, %v", codes, err)
	}
	if _, err := ParseCodes("100,abc"); !perr.IsCode(err, perr.ErrorCodeConfig) {
		t.Fatalf("ParseCodes bad input err = %v", err)
	}
}
