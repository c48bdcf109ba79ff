package repository

import (
	"context"
	"fmt"

	domainRepo "medical-admin-dashboard/internal/domain/repository"
)

type datasetRepository struct {
	store domainRepo.RecordStore
}

func NewDatasetRepository(store domainRepo.RecordStore) domainRepo.DatasetRepository {
	return &datasetRepository{store: store}
}

// Replace empties collection and inserts docs in its place.
func (r *datasetRepository) Replace(ctx context.Context, collection string, docs []interface{}) error {
	if _, err := r.store.DeleteMany(ctx, collection, nil); err != nil {
		return fmt.Errorf("clear %s: %w", collection, err)
	}
	if err := r.store.InsertMany(ctx, collection, docs); err != nil {
		return fmt.Errorf("populate %s: %w", collection, err)
	}
	return nil
}
