package repository

import (
	"context"

	"medical-admin-dashboard/internal/aggregation"
	"medical-admin-dashboard/internal/domain/entity"
	domainRepo "medical-admin-dashboard/internal/domain/repository"
)

type seedLogRepository struct {
	store domainRepo.RecordStore
}

func NewSeedLogRepository(store domainRepo.RecordStore) domainRepo.SeedLogRepository {
	return &seedLogRepository{store: store}
}

func (r *seedLogRepository) Create(ctx context.Context, log *entity.SeedLog) error {
	return r.store.InsertMany(ctx, entity.CollectionSeedLogs, []interface{}{log})
}

func (r *seedLogRepository) FindLatest(ctx context.Context) (*entity.SeedLog, error) {
	rows, err := r.store.Aggregate(ctx, entity.CollectionSeedLogs, aggregation.Pipeline{
		aggregation.Sort{{Field: "createdAt", Desc: true}, {Field: "_id", Desc: true}},
		aggregation.Limit(1),
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	var log entity.SeedLog
	if err := aggregation.Decode(rows[0], &log); err != nil {
		return nil, err
	}
	return &log, nil
}
