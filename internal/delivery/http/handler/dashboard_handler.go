package handler

import (
	"net/http"

	"medical-admin-dashboard/internal/usecase"
	"medical-admin-dashboard/pkg/response"

	"github.com/sirupsen/logrus"
)

type DashboardHandler struct {
	dashboardUsecase usecase.DashboardUsecase
	log              *logrus.Logger
}

func NewDashboardHandler(dashboardUsecase usecase.DashboardUsecase, log *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardUsecase: dashboardUsecase,
		log:              log,
	}
}

func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	report, err := h.dashboardUsecase.GetDashboardData(r.Context())
	if err != nil {
		writeUsecaseError(w, h.log, err, "Failed to get dashboard data")
		return
	}

	response.Success(w, http.StatusOK, "Dashboard data retrieved successfully", report)
}
