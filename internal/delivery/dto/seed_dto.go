package dto

import "time"

type SeedLogResponse struct {
	RunID      string    `json:"runId"`
	StatusCode int       `json:"status_code"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
}
