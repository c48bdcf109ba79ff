package dto

import (
	"medical-admin-dashboard/internal/aggregation"
	"medical-admin-dashboard/internal/domain/entity"
)

type ClinicHistoryItem struct {
	ID                int     `json:"id" bson:"id"`
	Name              string  `json:"name" bson:"name"`
	TotalAmount       float64 `json:"totalAmount" bson:"totalAmount"`
	TotalTransactions int64   `json:"totalTransactions" bson:"totalTransactions"`
}

type ClinicHistoryListResponse struct {
	aggregation.QueryResult[ClinicHistoryItem]
	TotalTransactions       int64   `json:"totalTransactions"`
	TotalAmountTransactions float64 `json:"totalAmountTransactions"`
}

type ClinicDoctorBreakdown struct {
	IDDoctor           int     `json:"idDoctor" bson:"idDoctor"`
	DoctorName         string  `json:"doctorName" bson:"doctorName"`
	TotalPatientDoctor int64   `json:"totalPatientDoctor" bson:"totalPatientDoctor"`
	TotalAmountDoctor  float64 `json:"totalAmountDoctor" bson:"totalAmountDoctor"`
}

type ClinicServiceBreakdown struct {
	ServiceName         string  `json:"serviceName" bson:"serviceName"`
	TotalPatientService int64   `json:"totalPatientService" bson:"totalPatientService"`
	TotalAmountService  float64 `json:"totalAmountService" bson:"totalAmountService"`
}

type ClinicDetailResponse struct {
	ID            int                      `json:"id" bson:"id"`
	Name          string                   `json:"name" bson:"name"`
	TotalPatients int64                    `json:"totalPatients" bson:"totalPatients"`
	TotalAmount   float64                  `json:"totalAmount" bson:"totalAmount"`
	Doctors       []ClinicDoctorBreakdown  `json:"doctors" bson:"doctors"`
	Services      []ClinicServiceBreakdown `json:"services" bson:"services"`
	Feedbacks     []entity.FeedbackMessage `json:"feedbacks" bson:"feedbacks"`
}
