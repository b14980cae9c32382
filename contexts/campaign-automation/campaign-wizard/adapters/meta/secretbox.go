package meta

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrInvalidCipherKey       = errors.New("token cipher key must be 16, 24 or 32 bytes")
	ErrInvalidEncryptedFormat = errors.New("encrypted token has invalid format")
)

const ivDelimiter = ":"

// Secretbox encrypts platform access tokens at rest with AES-CTR. Each
// encryption draws a fresh IV; the stored form is hex(iv) ":" hex(cipher).
type Secretbox struct {
	key []byte
}

func NewSecretbox(hexKey string) (*Secretbox, error) {
	key, err := hex.DecodeString(strings.TrimSpace(hexKey))
	if err != nil {
		return nil, fmt.Errorf("decode cipher key: %w", err)
	}
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, ErrInvalidCipherKey
	}
	return &Secretbox{key: key}, nil
}

func (s *Secretbox) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", err
	}
	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("generate iv: %w", err)
	}

	ciphertext := make([]byte, len(plaintext))
	cipher.NewCTR(block, iv).XORKeyStream(ciphertext, []byte(plaintext))
	return hex.EncodeToString(iv) + ivDelimiter + hex.EncodeToString(ciphertext), nil
}

// Decrypt rejects malformed input loudly; a missing delimiter or a
// wrong-length IV must never decode into garbage plaintext.
func (s *Secretbox) Decrypt(encrypted string) (string, error) {
	parts := strings.SplitN(encrypted, ivDelimiter, 2)
	if len(parts) != 2 {
		return "", ErrInvalidEncryptedFormat
	}
	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != aes.BlockSize {
		return "", ErrInvalidEncryptedFormat
	}
	ciphertext, err := hex.DecodeString(parts[1])
	if err != nil {
		return "", ErrInvalidEncryptedFormat
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", err
	}
	plaintext := make([]byte, len(ciphertext))
	cipher.NewCTR(block, iv).XORKeyStream(plaintext, ciphertext)
	return string(plaintext), nil
}
