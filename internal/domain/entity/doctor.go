package entity

// Doctor is a doctor account as exported by the booking platform. Schedule
// and experience are kept as the platform sends them.
type Doctor struct {
	ID                 int         `json:"id" bson:"id"`
	Name               string      `json:"name" bson:"name"`
	Photo              string      `json:"photo,omitempty" bson:"photo,omitempty"`
	Specialization     string      `json:"specialization,omitempty" bson:"specialization,omitempty"`
	WorkPlace          string      `json:"workPlace,omitempty" bson:"workPlace,omitempty"`
	ConsultationPrice  string      `json:"consultationPrice,omitempty" bson:"consultationPrice,omitempty"`
	DoctorWorkSchedule interface{} `json:"DoctorWorkSchedule,omitempty" bson:"DoctorWorkSchedule,omitempty"`
	DoctorExperience   interface{} `json:"DoctorExperience,omitempty" bson:"DoctorExperience,omitempty"`
}
