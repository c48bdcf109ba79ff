package dto

import (
	"time"

	"medical-admin-dashboard/internal/aggregation"
)

// Response DTOs

type AuditLogResponse struct {
	Actor     string                 `json:"actor"`
	Action    string                 `json:"action"`
	Entity    string                 `json:"entity"`
	EntityID  int                    `json:"entityId"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

type AuditLogListResponse struct {
	aggregation.QueryResult[AuditLogResponse]
}
