package service

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"medical-admin-dashboard/internal/domain/entity"

	"golang.org/x/crypto/hkdf"
)

// OcrKeySource selects what an OCR cache key is derived from.
type OcrKeySource string

const (
	// OcrKeyFromName hashes the doctor's display name. Renaming a doctor
	// makes their cached card unreadable.
	OcrKeyFromName OcrKeySource = "name"
	// OcrKeyFromID derives the key from the doctor id and a server secret.
	OcrKeyFromID OcrKeySource = "id"
)

var ErrInvalidCiphertext = errors.New("invalid ciphertext")

// CardCipher encrypts cached OCR cards with AES-256-CBC. Ciphertexts are
// stored as "<iv hex>:<ciphertext hex>".
type CardCipher struct {
	source OcrKeySource
	secret []byte
}

func NewCardCipher(source, secret string) (*CardCipher, error) {
	switch OcrKeySource(source) {
	case "", OcrKeyFromName:
		return &CardCipher{source: OcrKeyFromName}, nil
	case OcrKeyFromID:
		if secret == "" {
			return nil, errors.New("OCR_KEY_SECRET is required when OCR keys derive from the doctor id")
		}
		return &CardCipher{source: OcrKeyFromID, secret: []byte(secret)}, nil
	}
	return nil, fmt.Errorf("unknown OCR key source %q", source)
}

// KeyFor returns the 32 byte key for profile's cached card.
func (c *CardCipher) KeyFor(profile *entity.DoctorProfile) ([]byte, error) {
	if c.source == OcrKeyFromID {
		info := []byte("ocr-card:" + strconv.Itoa(profile.IDDoctor))
		key := make([]byte, 32)
		if _, err := io.ReadFull(hkdf.New(sha256.New, c.secret, nil, info), key); err != nil {
			return nil, fmt.Errorf("derive OCR key: %w", err)
		}
		return key, nil
	}
	sum := sha256.Sum256([]byte(profile.DoctorName))
	return sum[:], nil
}

func (c *CardCipher) EncryptCard(card *entity.OcrCard, key []byte) (string, error) {
	plain, err := json.Marshal(card)
	if err != nil {
		return "", err
	}
	return encryptCBC(plain, key)
}

func (c *CardCipher) DecryptCard(data string, key []byte) (*entity.OcrCard, error) {
	plain, err := decryptCBC(data, key)
	if err != nil {
		return nil, err
	}
	var card entity.OcrCard
	if err := json.Unmarshal(plain, &card); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCiphertext, err)
	}
	return &card, nil
}

func encryptCBC(plain, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}
	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}

	padded := pkcs7Pad(plain, aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)
	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(out), nil
}

func decryptCBC(data string, key []byte) ([]byte, error) {
	ivHex, ctHex, ok := strings.Cut(data, ":")
	if !ok {
		return nil, ErrInvalidCiphertext
	}
	iv, err := hex.DecodeString(ivHex)
	if err != nil || len(iv) != aes.BlockSize {
		return nil, ErrInvalidCiphertext
	}
	ct, err := hex.DecodeString(ctHex)
	if err != nil || len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return nil, ErrInvalidCiphertext
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ct)
	return pkcs7Unpad(out, aes.BlockSize)
}

func pkcs7Pad(b []byte, size int) []byte {
	n := size - len(b)%size
	return append(append([]byte{}, b...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte, size int) ([]byte, error) {
	if len(b) == 0 {
		return nil, ErrInvalidCiphertext
	}
	n := int(b[len(b)-1])
	if n == 0 || n > size || n > len(b) {
		return nil, ErrInvalidCiphertext
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return nil, ErrInvalidCiphertext
		}
	}
	return b[:len(b)-n], nil
}
