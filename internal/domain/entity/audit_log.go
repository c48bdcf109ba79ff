package entity

import "time"

const (
	AuditActionVerifyDoctor = "doctor.verify"
	AuditActionEditOcrCard  = "ocr.edit"
)

// AuditLog records one change an operator or the booking platform made.
// Metadata never carries card contents, only which fields changed.
type AuditLog struct {
	Actor     string                 `json:"actor" bson:"actor"`
	Action    string                 `json:"action" bson:"action"`
	Entity    string                 `json:"entity" bson:"entity"`
	EntityID  int                    `json:"entityId" bson:"entityId"`
	Metadata  map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt time.Time              `json:"createdAt" bson:"createdAt"`
}
