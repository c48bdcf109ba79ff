package entity

import (
	"strings"
	"time"
)

// VerificationStatus is the review state of a doctor's registration. The
// booking platform may send statuses beyond the two named here; anything
// other than verified counts as pending review.
type VerificationStatus string

const (
	VerificationStatusVerified   VerificationStatus = "verified"
	VerificationStatusUnverified VerificationStatus = "unverified"
)

// IsBlank reports whether s carries no status at all.
func (s VerificationStatus) IsBlank() bool {
	return strings.TrimSpace(string(s)) == ""
}

// DoctorProfile holds the registration details a doctor submits for review.
type DoctorProfile struct {
	IDDoctor           int                `json:"idDoctor" bson:"idDoctor"`
	DoctorName         string             `json:"doctorName" bson:"doctorName"`
	CardURL            string             `json:"cardUrl" bson:"cardUrl"`
	StrNumber          string             `json:"strNumber,omitempty" bson:"strNumber,omitempty"`
	VerificationStatus VerificationStatus `json:"verificationStatus" bson:"verificationStatus"`
	UpdatedAt          time.Time          `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}
