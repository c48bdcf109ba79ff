package repository

import (
	"context"

	"medical-admin-dashboard/internal/domain/entity"
)

type SeedLogRepository interface {
	Create(ctx context.Context, log *entity.SeedLog) error
	FindLatest(ctx context.Context) (*entity.SeedLog, error)
}
