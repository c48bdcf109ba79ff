package entity

import "time"

// SeedLog records the outcome of one reseed run.
type SeedLog struct {
	RunID      string    `json:"runId" bson:"runId"`
	StatusCode int       `json:"status_code" bson:"status_code"`
	Message    string    `json:"message" bson:"message"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}

// Dataset is a full snapshot of the booking platform's records.
type Dataset struct {
	Doctors               []Doctor
	DoctorProfiles        []DoctorProfile
	DoctorFeedbacks       []DoctorFeedback
	ClinicHistories       []Transaction
	ConsultationHistories []Transaction
	ClinicFeedbacks       []ClinicFeedback
}
