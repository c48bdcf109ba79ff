package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"medical-admin-dashboard/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCard = entity.OcrCard{
	Nama:               "SITI AMINAH",
	NIK:                "3273010101800002",
	TempatTanggalLahir: "BANDUNG, 02-02-1985",
	Alamat:             "JL. ASIA AFRIKA 8",
	JenisKelamin:       "PEREMPUAN",
}

func TestCardCipherRoundTrip(t *testing.T) {
	c, err := NewCardCipher("", "")
	require.NoError(t, err)
	key, err := c.KeyFor(&entity.DoctorProfile{IDDoctor: 4, DoctorName: "Dr. Siti"})
	require.NoError(t, err)

	data, err := c.EncryptCard(&testCard, key)
	require.NoError(t, err)
	ivHex, ctHex, ok := strings.Cut(data, ":")
	require.True(t, ok)
	assert.Len(t, ivHex, 32)
	assert.Zero(t, len(ctHex)%32)

	card, err := c.DecryptCard(data, key)
	require.NoError(t, err)
	assert.Equal(t, testCard, *card)

	again, err := c.EncryptCard(&testCard, key)
	require.NoError(t, err)
	assert.NotEqual(t, data, again, "every encryption uses a fresh IV")
}

func TestCardCipherNameKeyIsSHA256OfName(t *testing.T) {
	c, err := NewCardCipher("name", "")
	require.NoError(t, err)
	key, err := c.KeyFor(&entity.DoctorProfile{DoctorName: "Dr. Siti"})
	require.NoError(t, err)

	sum := sha256.Sum256([]byte("Dr. Siti"))
	assert.Equal(t, sum[:], key)
}

// Entries written by other clients of the same cache use the same layout.
func TestCardCipherDecryptsExternalCiphertext(t *testing.T) {
	sum := sha256.Sum256([]byte("Dr. Siti"))
	iv := []byte("0123456789abcdef")
	plain := pkcs7Pad([]byte(`{"nama":"SITI AMINAH","nik":"1","tempatTanggalLahir":"","alamat":"","jenisKelamin":""}`), aes.BlockSize)
	block, err := aes.NewCipher(sum[:])
	require.NoError(t, err)
	ct := make([]byte, len(plain))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ct, plain)

	c, err := NewCardCipher("name", "")
	require.NoError(t, err)
	card, err := c.DecryptCard(hex.EncodeToString(iv)+":"+hex.EncodeToString(ct), sum[:])
	require.NoError(t, err)
	assert.Equal(t, "SITI AMINAH", card.Nama)
	assert.Equal(t, "1", card.NIK)
}

func TestCardCipherIDKeys(t *testing.T) {
	_, err := NewCardCipher("id", "")
	require.Error(t, err)
	_, err = NewCardCipher("email", "secret")
	require.Error(t, err)

	c, err := NewCardCipher("id", "server-secret")
	require.NoError(t, err)
	before, err := c.KeyFor(&entity.DoctorProfile{IDDoctor: 4, DoctorName: "Dr. Siti"})
	require.NoError(t, err)
	renamed, err := c.KeyFor(&entity.DoctorProfile{IDDoctor: 4, DoctorName: "Dr. Siti, Sp.A"})
	require.NoError(t, err)
	other, err := c.KeyFor(&entity.DoctorProfile{IDDoctor: 5, DoctorName: "Dr. Siti"})
	require.NoError(t, err)

	assert.Len(t, before, 32)
	assert.Equal(t, before, renamed)
	assert.NotEqual(t, before, other)
}

func TestCardCipherRejectsBadInput(t *testing.T) {
	c, err := NewCardCipher("name", "")
	require.NoError(t, err)
	key, err := c.KeyFor(&entity.DoctorProfile{DoctorName: "Dr. Siti"})
	require.NoError(t, err)
	wrong, err := c.KeyFor(&entity.DoctorProfile{DoctorName: "Dr. Budi"})
	require.NoError(t, err)
	data, err := c.EncryptCard(&testCard, key)
	require.NoError(t, err)

	for _, bad := range []string{"", "nocolon", "zz:00", "00:00", strings.Split(data, ":")[0] + ":abcd"} {
		_, err := c.DecryptCard(bad, key)
		assert.ErrorIs(t, err, ErrInvalidCiphertext, bad)
	}

	_, err = c.DecryptCard(data, wrong)
	assert.Error(t, err)
}
