// Package crypto seals sensitive employee fields (SIN, bank account) at rest.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const keySize = 32

var (
	ErrCiphertextTooShort = errors.New("ciphertext too short")
	hkdfInfo              = []byte("paydesk employee fields v1")
)

// Sealer encrypts with AES-256-GCM. A zero-value or unconfigured Sealer
// passes bytes through unchanged so local development works without a key.
type Sealer struct {
	key []byte
}

// New accepts a 32-byte key as hex or base64. Any other key material is
// stretched to 32 bytes with HKDF-SHA256.
func New(key string) (*Sealer, error) {
	if key == "" {
		return &Sealer{}, nil
	}
	decoded := decodeKey(key)
	if len(decoded) == keySize {
		return &Sealer{key: decoded}, nil
	}
	if len(decoded) < 16 {
		return nil, fmt.Errorf("DATA_ENCRYPTION_KEY must carry at least 16 bytes of key material")
	}
	derived := make([]byte, keySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, decoded, nil, hkdfInfo), derived); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return &Sealer{key: derived}, nil
}

func (s *Sealer) Configured() bool {
	return s != nil && len(s.key) == keySize
}

func (s *Sealer) Seal(plain []byte) ([]byte, error) {
	if len(plain) == 0 {
		return nil, nil
	}
	if !s.Configured() {
		return plain, nil
	}
	gcm, err := s.aead()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	if len(sealed) == 0 {
		return nil, nil
	}
	if !s.Configured() {
		return sealed, nil
	}
	gcm, err := s.aead()
	if err != nil {
		return nil, err
	}
	if len(sealed) < gcm.NonceSize() {
		return nil, ErrCiphertextTooShort
	}
	nonce, data := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	return gcm.Open(nil, nonce, data, nil)
}

func (s *Sealer) SealString(value string) ([]byte, error) {
	if value == "" {
		return nil, nil
	}
	return s.Seal([]byte(value))
}

func (s *Sealer) OpenString(sealed []byte) (string, error) {
	plain, err := s.Open(sealed)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func (s *Sealer) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func decodeKey(raw string) []byte {
	if len(raw) == 2*keySize {
		if decoded, err := hex.DecodeString(raw); err == nil {
			return decoded
		}
	}
	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
		return decoded
	}
	if decoded, err := base64.RawStdEncoding.DecodeString(raw); err == nil {
		return decoded
	}
	return []byte(raw)
}
