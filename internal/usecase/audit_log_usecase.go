package usecase

import (
	"context"

	"medical-admin-dashboard/internal/aggregation"
	"medical-admin-dashboard/internal/converter"
	"medical-admin-dashboard/internal/delivery/dto"
	"medical-admin-dashboard/internal/domain/entity"

	"github.com/sirupsen/logrus"
)

type AuditLogUsecase interface {
	QueryAuditLogs(ctx context.Context, filter aggregation.Filter, opts aggregation.Options) (*dto.AuditLogListResponse, error)
}

type auditLogUsecase struct {
	paginator *aggregation.Paginator
	log       *logrus.Logger
}

func NewAuditLogUsecase(paginator *aggregation.Paginator, log *logrus.Logger) AuditLogUsecase {
	return &auditLogUsecase{
		paginator: paginator,
		log:       log,
	}
}

// QueryAuditLogs lists audit entries, newest first unless sortBy says otherwise.
func (u *auditLogUsecase) QueryAuditLogs(ctx context.Context, filter aggregation.Filter, opts aggregation.Options) (*dto.AuditLogListResponse, error) {
	if opts.SortBy == "" {
		opts.SortBy = "createdAt:desc"
	}
	opts.Populate = ""

	page, err := aggregation.Paginate[entity.AuditLog](ctx, u.paginator, aggregation.Query{
		Collection: entity.CollectionAuditLogs,
		Filter:     filter,
		Options:    opts,
		TieBreak:   []string{"_id"},
	})
	if err != nil {
		u.log.Warnf("Failed to query audit logs: %+v", err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		QueryResult: aggregation.QueryResult[dto.AuditLogResponse]{
			Results:      converter.AuditLogsToResponses(page.Results),
			Page:         page.Page,
			Limit:        page.Limit,
			TotalPages:   page.TotalPages,
			TotalResults: page.TotalResults,
		},
	}, nil
}
