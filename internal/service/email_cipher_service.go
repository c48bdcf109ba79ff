package service

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var ErrEmailSecretMissing = errors.New("EMAIL_SECRET is not configured")

// EmailCipher encrypts stored user emails with AES-256-CBC under a fixed
// zero IV. The output is deterministic so encrypted emails can be matched
// with plain equality filters.
type EmailCipher struct {
	key []byte
}

// NewEmailCipher parses secret as a 64 character hex key. An empty secret
// yields a cipher whose operations fail with ErrEmailSecretMissing.
func NewEmailCipher(secret string) (*EmailCipher, error) {
	if secret == "" {
		return &EmailCipher{}, nil
	}
	key, err := hex.DecodeString(secret)
	if err != nil || len(key) != 32 {
		return nil, errors.New("EMAIL_SECRET must be 32 bytes of hex")
	}
	return &EmailCipher{key: key}, nil
}

// NormalizeEmail trims and lowercases an address before it is encrypted.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (c *EmailCipher) Encrypt(email string) (string, error) {
	block, err := c.block()
	if err != nil {
		return "", err
	}
	padded := pkcs7Pad([]byte(email), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, make([]byte, aes.BlockSize)).CryptBlocks(out, padded)
	return hex.EncodeToString(out), nil
}

func (c *EmailCipher) Decrypt(data string) (string, error) {
	block, err := c.block()
	if err != nil {
		return "", err
	}
	ct, err := hex.DecodeString(data)
	if err != nil || len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return "", ErrInvalidCiphertext
	}
	out := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, make([]byte, aes.BlockSize)).CryptBlocks(out, ct)
	plain, err := pkcs7Unpad(out, aes.BlockSize)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func (c *EmailCipher) block() (cipher.Block, error) {
	if len(c.key) == 0 {
		return nil, ErrEmailSecretMissing
	}
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, fmt.Errorf("email cipher: %w", err)
	}
	return block, nil
}
