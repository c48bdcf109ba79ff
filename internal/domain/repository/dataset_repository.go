package repository

import "context"

// DatasetRepository replaces whole collections with freshly fetched records.
type DatasetRepository interface {
	Replace(ctx context.Context, collection string, docs []interface{}) error
}
