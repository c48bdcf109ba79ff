package entity

import "time"

// OcrCard is the identity card data read from a doctor's uploaded card.
type OcrCard struct {
	Nama               string `json:"nama" bson:"nama"`
	NIK                string `json:"nik" bson:"nik"`
	TempatTanggalLahir string `json:"tempatTanggalLahir" bson:"tempatTanggalLahir"`
	Alamat             string `json:"alamat" bson:"alamat"`
	JenisKelamin       string `json:"jenisKelamin" bson:"jenisKelamin"`
}

// OcrResult is the encrypted, cached OcrCard of a doctor. EncryptedData has
// the form "<iv hex>:<ciphertext hex>".
type OcrResult struct {
	IDDoctor      int       `json:"idDoctor" bson:"idDoctor"`
	EncryptedData string    `json:"encryptedData" bson:"encryptedData"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}
