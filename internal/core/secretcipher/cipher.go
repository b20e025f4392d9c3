// Package secretcipher encrypts long-lived authority tokens for storage at rest.
//
// Records are AES-256-CBC with PKCS#7 padding and a fresh random IV per call,
// encoded as "<iv_hex>:<ciphertext_hex>". The encoding is a storage contract:
// records written by earlier releases must keep decrypting.
package secretcipher

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"io"
	"strings"

	perr "ksefconnect/internal/platform/errors"
)

const (
	// KeySize is the required key length in bytes (AES-256)
	KeySize = 32

	// IVSize is the length of the initialization vector in bytes
	IVSize = aes.BlockSize

	sep = ":"
)

// Cipher holds the process wide symmetric key. Safe for concurrent use.
type Cipher struct {
	block cipher.Block
	rand  io.Reader
}

// New builds a cipher from a raw 32 byte key
func New(key []byte) (*Cipher, error) {
	if len(key) == 0 {
		return nil, perr.Configf("secretcipher: key is not configured")
	}
	if len(key) != KeySize {
		return nil, perr.Configf("secretcipher: key must be %d bytes, got %d", KeySize, len(key))
	}
	b, err := aes.NewCipher(key)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeConfig, "secretcipher: init aes")
	}
	return &Cipher{block: b, rand: rand.Reader}, nil
}

// FromHex builds a cipher from the hex form of the key as kept in config
func FromHex(s string) (*Cipher, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, perr.Configf("secretcipher: key is not configured")
	}
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeConfig, "secretcipher: key is not valid hex")
	}
	return New(key)
}

// Encrypt returns "<iv_hex>:<ciphertext_hex>" for plaintext. Output differs on every call.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(c.rand, iv); err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeUnknown, "secretcipher: read iv")
	}
	padded := pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, iv).CryptBlocks(out, padded)
	return hex.EncodeToString(iv) + sep + hex.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. Any malformed, tampered or foreign-key record is an integrity error.
func (c *Cipher) Decrypt(record string) (string, error) {
	ivHex, ctHex, ok := strings.Cut(record, sep)
	if !ok {
		return "", perr.Integrityf("secretcipher: record has no iv separator")
	}
	iv, err := hex.DecodeString(ivHex)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeIntegrity, "secretcipher: iv is not valid hex")
	}
	if len(iv) != IVSize {
		return "", perr.Integrityf("secretcipher: iv must be %d bytes, got %d", IVSize, len(iv))
	}
	ct, err := hex.DecodeString(ctHex)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeIntegrity, "secretcipher: ciphertext is not valid hex")
	}
	if len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return "", perr.Integrityf("secretcipher: ciphertext length %d is not a multiple of %d", len(ct), aes.BlockSize)
	}
	out := make([]byte, len(ct))
	cipher.NewCBCDecrypter(c.block, iv).CryptBlocks(out, ct)
	plain, err := unpad(out, aes.BlockSize)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func pad(b []byte, size int) []byte {
	n := size - len(b)%size
	return append(bytes.Clone(b), bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(b []byte, size int) ([]byte, error) {
	n := int(b[len(b)-1])
	if n == 0 || n > size || n > len(b) {
		return nil, perr.Integrityf("secretcipher: invalid padding")
	}
	for _, v := range b[len(b)-n:] {
		if int(v) != n {
			return nil, perr.Integrityf("secretcipher: invalid padding")
		}
	}
	return b[:len(b)-n], nil
}
