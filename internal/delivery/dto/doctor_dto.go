package dto

import (
	"medical-admin-dashboard/internal/aggregation"
	"medical-admin-dashboard/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson"
)

// Request DTOs

type VerifyDoctorRequest struct {
	VerificationStatus entity.VerificationStatus `json:"verificationStatus" validate:"required,min=1"`
}

type OcrCardRequest struct {
	DoctorID int `json:"doctorId" validate:"required,gt=0"`
}

// EditOcrCardRequest carries the card fields to overwrite. Omitted fields
// keep their cached value.
type EditOcrCardRequest struct {
	DoctorID           int     `json:"doctorId" validate:"required,gt=0"`
	Nama               *string `json:"nama" validate:"omitempty,min=1"`
	NIK                *string `json:"nik" validate:"omitempty,numeric,len=16"`
	TempatTanggalLahir *string `json:"tempatTanggalLahir" validate:"omitempty,min=1"`
	Alamat             *string `json:"alamat" validate:"omitempty,min=1"`
	JenisKelamin       *string `json:"jenisKelamin" validate:"omitempty,min=1"`
}

// Response DTOs

type DoctorListItem struct {
	ID                 int                       `json:"id" bson:"id"`
	Name               string                    `json:"name" bson:"name"`
	VerificationStatus entity.VerificationStatus `json:"verificationStatus" bson:"verificationStatus"`
	Profile            bson.M                    `json:"profile,omitempty" bson:"profile,omitempty"`
}

type VerificationStatusCount struct {
	VerificationStatus entity.VerificationStatus `json:"verificationStatus" bson:"verificationStatus"`
	Count              int64                     `json:"count" bson:"count"`
}

type DoctorListResponse struct {
	aggregation.QueryResult[DoctorListItem]
	VerificationStatusCount []VerificationStatusCount `json:"verificationStatusCount"`
}

type DoctorDetailResponse struct {
	ID                          int                       `json:"id" bson:"id"`
	Name                        string                    `json:"name" bson:"name"`
	Photo                       string                    `json:"photo,omitempty" bson:"photo,omitempty"`
	Specialization              string                    `json:"specialization,omitempty" bson:"specialization,omitempty"`
	WorkPlace                   string                    `json:"workPlace,omitempty" bson:"workPlace,omitempty"`
	ConsultationPrice           string                    `json:"consultationPrice,omitempty" bson:"consultationPrice,omitempty"`
	CardURL                     string                    `json:"cardUrl" bson:"cardUrl"`
	VerificationStatus          entity.VerificationStatus `json:"verificationStatus" bson:"verificationStatus"`
	DoctorWorkSchedule          interface{}               `json:"DoctorWorkSchedule,omitempty" bson:"DoctorWorkSchedule,omitempty"`
	DoctorExperience            interface{}               `json:"DoctorExperience,omitempty" bson:"DoctorExperience,omitempty"`
	ClinicPatientsCount         int64                     `json:"clinicPatientsCount" bson:"clinicPatientsCount"`
	ConsultationPatientsCount   int64                     `json:"consultationPatientsCount" bson:"consultationPatientsCount"`
	TotalAmountFromClinic       float64                   `json:"totalAmountFromClinic" bson:"totalAmountFromClinic"`
	TotalAmountFromConsultation float64                   `json:"totalAmountFromConsultation" bson:"totalAmountFromConsultation"`
}

type DoctorProfileResponse struct {
	IDDoctor           int                       `json:"idDoctor"`
	DoctorName         string                    `json:"doctorName"`
	CardURL            string                    `json:"cardUrl"`
	StrNumber          string                    `json:"strNumber,omitempty"`
	VerificationStatus entity.VerificationStatus `json:"verificationStatus"`
}
