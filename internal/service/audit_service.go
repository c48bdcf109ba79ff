package service

import (
	"context"
	"time"

	"medical-admin-dashboard/internal/domain/entity"
	"medical-admin-dashboard/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

// ActorUnknown is recorded when no actor was attached to the context.
const ActorUnknown = "unknown"

type actorKey struct{}

// WithActor attaches the identity that audit entries are attributed to.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFromContext(ctx context.Context) string {
	if actor, ok := ctx.Value(actorKey{}).(string); ok && actor != "" {
		return actor
	}
	return ActorUnknown
}

type AuditService interface {
	LogUpdate(ctx context.Context, action, entityName string, entityID int, oldValue, newValue interface{})
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

// LogUpdate records an update with its old and new values. Failures are
// logged and never reach the caller.
func (s *auditService) LogUpdate(ctx context.Context, action, entityName string, entityID int, oldValue, newValue interface{}) {
	auditLog := &entity.AuditLog{
		Actor:    ActorFromContext(ctx),
		Action:   action,
		Entity:   entityName,
		EntityID: entityID,
		Metadata: map[string]interface{}{
			"old_value": oldValue,
			"new_value": newValue,
		},
		CreatedAt: time.Now().UTC(),
	}

	if err := s.auditRepo.Create(context.WithoutCancel(ctx), auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
	}
}
