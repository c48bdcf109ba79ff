package entity

import "time"

// FeedbackMessage is a single piece of feedback left by a patient.
type FeedbackMessage struct {
	Message   string    `json:"message" bson:"message"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// ClinicFeedback is a clinic together with the feedback it received. It is
// also the only record of clinic identity.
type ClinicFeedback struct {
	ID             int               `json:"id" bson:"id"`
	Name           string            `json:"name" bson:"name"`
	FeedBackClinic []FeedbackMessage `json:"FeedBackClinic" bson:"FeedBackClinic"`
}

// DoctorFeedback is a doctor together with the feedback they received.
type DoctorFeedback struct {
	ID             int               `json:"id" bson:"id"`
	Name           string            `json:"name" bson:"name"`
	FeedBackDoctor []FeedbackMessage `json:"feedBackDoctor" bson:"feedBackDoctor"`
}
