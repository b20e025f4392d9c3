package ksef

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"io"
	"os"
	"strconv"

	perr "ksefconnect/internal/platform/errors"
)

// TokenEncrypter turns the long-lived token into the opaque value the authority expects.
// It is unrelated to at-rest encryption.
type TokenEncrypter interface {
	EncryptToken(secret string, ch Challenge, taxID string) (string, error)
}

// EncrypterFunc adapts a function to TokenEncrypter
type EncrypterFunc func(secret string, ch Challenge, taxID string) (string, error)

// EncryptToken implements TokenEncrypter
func (f EncrypterFunc) EncryptToken(secret string, ch Challenge, taxID string) (string, error) {
	return f(secret, ch, taxID)
}

// RSAEncrypter encrypts "<token>|<challenge unix millis>" with RSA-OAEP SHA-256 under the
// authority's public key and returns it base64 encoded
type RSAEncrypter struct {
	pub  *rsa.PublicKey
	rand io.Reader
}

// NewRSAEncrypter builds an encrypter for the given public key
func NewRSAEncrypter(pub *rsa.PublicKey) (*RSAEncrypter, error) {
	if pub == nil {
		return nil, perr.Configf("ksef: authority public key is not configured")
	}
	return &RSAEncrypter{pub: pub, rand: rand.Reader}, nil
}

// EncryptToken implements TokenEncrypter
func (e *RSAEncrypter) EncryptToken(secret string, ch Challenge, _ string) (string, error) {
	ts, err := ch.Time()
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeAuthorityRejected, "ksef challenge timestamp %q is not RFC 3339", ch.Timestamp)
	}
	msg := []byte(secret + "|" + strconv.FormatInt(ts.UnixMilli(), 10))
	out, err := rsa.EncryptOAEP(sha256.New(), e.rand, e.pub, msg, nil)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeConfig, "ksef rsa-oaep encryption failed")
	}
	return base64.StdEncoding.EncodeToString(out), nil
}

// ParsePublicKeyPEM reads an RSA public key from a PEM CERTIFICATE or PUBLIC KEY block
func ParsePublicKeyPEM(b []byte) (*rsa.PublicKey, error) {
	for {
		var blk *pem.Block
		blk, b = pem.Decode(b)
		if blk == nil {
			return nil, perr.Configf("ksef: no usable PEM block in public key material")
		}
		var key any
		switch blk.Type {
		case "CERTIFICATE":
			cert, err := x509.ParseCertificate(blk.Bytes)
			if err != nil {
				return nil, perr.Wrap(err, perr.ErrorCodeConfig, "ksef: parse certificate")
			}
			key = cert.PublicKey
		case "PUBLIC KEY":
			k, err := x509.ParsePKIXPublicKey(blk.Bytes)
			if err != nil {
				return nil, perr.Wrap(err, perr.ErrorCodeConfig, "ksef: parse public key")
			}
			key = k
		default:
			continue
		}
		rk, ok := key.(*rsa.PublicKey)
		if !ok {
			return nil, perr.Configf("ksef: authority key is %T, want RSA", key)
		}
		return rk, nil
	}
}

// LoadPublicKey reads ParsePublicKeyPEM input from a file
func LoadPublicKey(path string) (*rsa.PublicKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeConfig, "ksef: read public key %s", path)
	}
	return ParsePublicKeyPEM(b)
}
