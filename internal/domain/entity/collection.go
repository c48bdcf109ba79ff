package entity

import "medical-admin-dashboard/internal/aggregation"

const (
	CollectionDoctors               = "doctors"
	CollectionDoctorProfiles        = "doctorprofiles"
	CollectionDoctorFeedbacks       = "doctorfeedbacks"
	CollectionClinicHistories       = "clinichistories"
	CollectionConsultationHistories = "consultationhistories"
	CollectionClinicFeedbacks       = "clinicfeedbacks"
	CollectionOcrResults            = "ocrresults"
	CollectionSeedLogs              = "seedlogs"
	CollectionAuditLogs             = "auditlogs"
	CollectionUsers                 = "users"
)

// References lists the populate aliases available on list queries.
var References = aggregation.References{
	CollectionDoctors: {
		"profile": {LocalField: "id", From: CollectionDoctorProfiles, ForeignField: "idDoctor"},
	},
	CollectionDoctorFeedbacks: {
		"doctor": {LocalField: "id", From: CollectionDoctors, ForeignField: "id"},
	},
	CollectionDoctorProfiles: {
		"doctor": {LocalField: "idDoctor", From: CollectionDoctors, ForeignField: "id"},
	},
}
