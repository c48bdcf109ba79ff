package repository

import (
	"context"

	"medical-admin-dashboard/internal/domain/entity"
)

type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
}
