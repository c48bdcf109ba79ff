package dto

import (
	"time"

	"medical-admin-dashboard/internal/aggregation"

	"go.mongodb.org/mongo-driver/bson"
)

type FeedbackEntryResponse struct {
	ID        int       `json:"id" bson:"id"`
	Name      string    `json:"name" bson:"name"`
	Feedback  string    `json:"feedback" bson:"feedback"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	Doctor    bson.M    `json:"doctor,omitempty" bson:"doctor,omitempty"`
}

type FeedbackListResponse struct {
	aggregation.QueryResult[FeedbackEntryResponse]
	TotalFeedbacks int64 `json:"totalFeedbacks"`
}
