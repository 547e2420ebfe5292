package crypto

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/AlexZinkM/event-registration/internal/model"
)

// keyCheck is sealed into the key file to verify the passphrase.
const keyCheck = "event-registration-key-check"

// OpenKeyFile returns a Sealer for the key file at path, creating the file with a
// fresh salt on first use. An existing file must open with passphrase.
// passphrase must be []byte for security (caller should zero it after use)
func OpenKeyFile(path string, passphrase []byte) (*Sealer, error) {
	return openKeyFile(path, passphrase, scryptN)
}

func openKeyFile(path string, passphrase []byte, n int) (*Sealer, error) {
	fileData, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return createKeyFile(path, passphrase, n)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	// Skip UTF-8 BOM if present
	fileData = bytes.TrimPrefix(fileData, []byte{0xEF, 0xBB, 0xBF})

	var kf model.KeyFile
	if err := json.Unmarshal(fileData, &kf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal key file: %w", err)
	}

	salt, err := base64.StdEncoding.DecodeString(kf.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}

	sealer, err := newSealer(passphrase, salt, n)
	if err != nil {
		return nil, err
	}

	nonce, err := base64.StdEncoding.DecodeString(kf.Nonce)
	if err != nil {
		return nil, fmt.Errorf("failed to decode nonce: %w", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(kf.CipherText)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	check, err := sealer.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil || string(check) != keyCheck {
		return nil, ErrInvalidPassphrase
	}
	return sealer, nil
}

func createKeyFile(path string, passphrase []byte, n int) (*Sealer, error) {
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	sealer, err := newSealer(passphrase, salt, n)
	if err != nil {
		return nil, err
	}

	nonce, ciphertext, err := sealer.seal([]byte(keyCheck))
	if err != nil {
		return nil, err
	}

	kf := model.KeyFile{
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		CipherText: base64.StdEncoding.EncodeToString(ciphertext),
		CreatedAt:  time.Now().Format(time.RFC3339),
	}

	fileData, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal key file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create key directory: %w", err)
	}
	// O_EXCL so two processes never write different salts
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to create key file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(fileData); err != nil {
		return nil, fmt.Errorf("failed to write key file: %w", err)
	}
	return sealer, nil
}
