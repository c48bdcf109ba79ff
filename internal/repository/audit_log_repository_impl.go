package repository

import (
	"context"

	"medical-admin-dashboard/internal/domain/entity"
	domainRepo "medical-admin-dashboard/internal/domain/repository"
)

type auditLogRepository struct {
	store domainRepo.RecordStore
}

func NewAuditLogRepository(store domainRepo.RecordStore) domainRepo.AuditLogRepository {
	return &auditLogRepository{store: store}
}

func (r *auditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	return r.store.InsertMany(ctx, entity.CollectionAuditLogs, []interface{}{log})
}
