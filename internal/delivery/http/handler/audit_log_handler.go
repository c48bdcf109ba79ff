package handler

import (
	"net/http"

	"medical-admin-dashboard/internal/converter"
	"medical-admin-dashboard/internal/usecase"
	"medical-admin-dashboard/pkg/response"

	"github.com/sirupsen/logrus"
)

var auditLogFilterKeys = []string{"actor", "action", "entity", "entityId"}

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
	log             *logrus.Logger
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase, log *logrus.Logger) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
		log:             log,
	}
}

func (h *AuditLogHandler) QueryAuditLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	auditLogs, err := h.auditLogUsecase.QueryAuditLogs(r.Context(),
		converter.QueryToFilter(query, auditLogFilterKeys...),
		converter.QueryToOptions(query))
	if err != nil {
		writeUsecaseError(w, h.log, err, "Failed to get audit logs")
		return
	}

	response.Success(w, http.StatusOK, "Audit logs retrieved successfully", auditLogs)
}
