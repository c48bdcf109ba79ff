package repository

import (
	"context"
	"errors"

	"medical-admin-dashboard/internal/aggregation"
)

// ErrRecordNotFound is returned by FindOne when nothing matches.
var ErrRecordNotFound = errors.New("record not found")

// RecordStore is the document database every repository and query runs on.
type RecordStore interface {
	aggregation.Executor
	FindOne(ctx context.Context, collection string, filter aggregation.Filter, out interface{}) error
	InsertMany(ctx context.Context, collection string, docs []interface{}) error
	DeleteMany(ctx context.Context, collection string, filter aggregation.Filter) (int64, error)
	UpdateOne(ctx context.Context, collection string, filter aggregation.Filter, set map[string]interface{}, upsert bool) error
}
