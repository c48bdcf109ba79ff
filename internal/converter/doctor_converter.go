package converter

import (
	"medical-admin-dashboard/internal/delivery/dto"
	"medical-admin-dashboard/internal/domain/entity"
)

// DoctorProfileToResponse converts a DoctorProfile entity to DoctorProfileResponse DTO
func DoctorProfileToResponse(profile *entity.DoctorProfile) *dto.DoctorProfileResponse {
	if profile == nil {
		return nil
	}

	return &dto.DoctorProfileResponse{
		IDDoctor:           profile.IDDoctor,
		DoctorName:         profile.DoctorName,
		CardURL:            profile.CardURL,
		StrNumber:          profile.StrNumber,
		VerificationStatus: profile.VerificationStatus,
	}
}

// ApplyOcrCardEdit overwrites the fields of card that req sets.
func ApplyOcrCardEdit(card *entity.OcrCard, req *dto.EditOcrCardRequest) {
	if req.Nama != nil {
		card.Nama = *req.Nama
	}
	if req.NIK != nil {
		card.NIK = *req.NIK
	}
	if req.TempatTanggalLahir != nil {
		card.TempatTanggalLahir = *req.TempatTanggalLahir
	}
	if req.Alamat != nil {
		card.Alamat = *req.Alamat
	}
	if req.JenisKelamin != nil {
		card.JenisKelamin = *req.JenisKelamin
	}
}

// EditedOcrFields names the card fields req sets.
func EditedOcrFields(req *dto.EditOcrCardRequest) []string {
	fields := []string{}
	if req.Nama != nil {
		fields = append(fields, "nama")
	}
	if req.NIK != nil {
		fields = append(fields, "nik")
	}
	if req.TempatTanggalLahir != nil {
		fields = append(fields, "tempatTanggalLahir")
	}
	if req.Alamat != nil {
		fields = append(fields, "alamat")
	}
	if req.JenisKelamin != nil {
		fields = append(fields, "jenisKelamin")
	}
	return fields
}
