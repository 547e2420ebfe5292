package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

const (
	// scrypt parameters for the document key, derived once at startup.
	// N=2^18 (~256MB RAM, 0.5-2s)
	scryptN      = 1 << 18
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
	saltLen      = 32
	nonceLen     = 12
)

// ErrInvalidPassphrase is returned when sealed data cannot be opened with the current key.
var ErrInvalidPassphrase = errors.New("invalid passphrase or corrupted data")

// Sealer encrypts identity document numbers with AES-256-GCM. Safe for concurrent use.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives the key from passphrase and salt.
// passphrase must be []byte for security (caller should zero it after use)
func NewSealer(passphrase, salt []byte) (*Sealer, error) {
	return newSealer(passphrase, salt, scryptN)
}

func newSealer(passphrase, salt []byte, n int) (*Sealer, error) {
	if len(passphrase) == 0 {
		return nil, errors.New("passphrase cannot be empty")
	}
	if len(salt) != saltLen {
		return nil, fmt.Errorf("salt must be %d bytes", saltLen)
	}

	// Derive key from passphrase
	key, err := scrypt.Key(passphrase, salt, n, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	// Create AES cipher
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	// Create GCM
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Sealer{aead: aesGCM}, nil
}

// Seal encrypts plaintext and returns base64(nonce || ciphertext).
func (s *Sealer) Seal(plaintext string) (string, error) {
	nonce, ciphertext, err := s.seal([]byte(plaintext))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(append(nonce, ciphertext...)), nil
}

// Open reverses Seal
func (s *Sealer) Open(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("failed to decode sealed value: %w", err)
	}
	if len(raw) < nonceLen {
		return "", ErrInvalidPassphrase
	}

	plaintext, err := s.aead.Open(nil, raw[:nonceLen], raw[nonceLen:], nil)
	if err != nil {
		return "", ErrInvalidPassphrase
	}
	return string(plaintext), nil
}

func (s *Sealer) seal(plaintext []byte) (nonce, ciphertext []byte, err error) {
	nonce = make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return nonce, s.aead.Seal(nil, nonce, plaintext, nil), nil
}
