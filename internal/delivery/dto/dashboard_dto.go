package dto

import "time"

type LatestFeedback struct {
	Name      string    `json:"name" bson:"name"`
	Feedback  string    `json:"feedback" bson:"feedback"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type PopularService struct {
	ServiceName string `json:"serviceName" bson:"serviceName"`
	TimesBooked int64  `json:"timesBooked" bson:"timesBooked"`
}

type MonthlyTransaction struct {
	Month        string  `json:"month" bson:"month"`
	TotalRevenue float64 `json:"totalRevenue" bson:"totalRevenue"`
}

type PendingVerification struct {
	DoctorName string `json:"doctorName" bson:"doctorName"`
}

// DashboardResponse is the composite admin dashboard report. Every list is
// non-nil and every total defaults to zero.
type DashboardResponse struct {
	DoctorCount                 []VerificationStatusCount `json:"doctorCount"`
	ClinicCount                 int64                     `json:"clinicCount"`
	ConsultationPatientsCount   int64                     `json:"consultationPatientsCount"`
	ClinicPatientsCount         int64                     `json:"clinicPatientsCount"`
	TotalAmountFromClinic       float64                   `json:"totalAmountFromClinic"`
	TotalAmountFromConsultation float64                   `json:"totalAmountFromConsultation"`
	LatestFeedbacks             []LatestFeedback          `json:"latestFeedbacks"`
	PopularServices             []PopularService          `json:"popularServices"`
	TotalTransactionsEachMonth  []MonthlyTransaction      `json:"totalTransactionsEachMonth"`
	Notification                []PendingVerification     `json:"notification"`
}
