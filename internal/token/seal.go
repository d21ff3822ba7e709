package token

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
)

var (
	ErrKeyNotBase64   = errors.New("cookie seal key must be base64-encoded")
	ErrKeyWrongSize   = errors.New("cookie seal key must decode to exactly 32 bytes")
	ErrSealedTooShort = errors.New("sealed value too short")
)

// Sealer encrypts the token cookie at rest using AES-256-GCM.
// The key is base64-encoded 32 bytes (generate with: openssl rand -base64 32).
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer builds a Sealer from a base64-encoded 32-byte key.
func NewSealer(keyBase64 string) (*Sealer, error) {
	key, err := base64.StdEncoding.DecodeString(keyBase64)
	if err != nil {
		return nil, ErrKeyNotBase64
	}
	if len(key) != 32 {
		return nil, ErrKeyWrongSize
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Sealer{aead: aead}, nil
}

// Seal encrypts tok and returns a base64 value suitable for a cookie.
func (s *Sealer) Seal(tok string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := s.aead.Seal(nonce, nonce, []byte(tok), nil)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

// Open decrypts a sealed cookie value and returns the original token.
func (s *Sealer) Open(value string) (string, error) {
	data, err := base64.URLEncoding.DecodeString(value)
	if err != nil {
		return "", err
	}
	nonceSize := s.aead.NonceSize()
	if len(data) < nonceSize {
		return "", ErrSealedTooShort
	}
	plain, err := s.aead.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
