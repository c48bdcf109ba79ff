package handler

import (
	"net/http"

	"medical-admin-dashboard/internal/converter"
	"medical-admin-dashboard/internal/usecase"
	"medical-admin-dashboard/pkg/response"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

var clinicFilterKeys = []string{"id", "name"}

type ClinicHandler struct {
	clinicUsecase usecase.ClinicUsecase
	log           *logrus.Logger
}

func NewClinicHandler(clinicUsecase usecase.ClinicUsecase, log *logrus.Logger) *ClinicHandler {
	return &ClinicHandler{
		clinicUsecase: clinicUsecase,
		log:           log,
	}
}

func (h *ClinicHandler) QueryClinics(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	clinics, err := h.clinicUsecase.QueryClinicHistories(r.Context(),
		converter.QueryToFilter(query, clinicFilterKeys...),
		converter.QueryToOptions(query))
	if err != nil {
		writeUsecaseError(w, h.log, err, "Failed to get clinics")
		return
	}

	response.Success(w, http.StatusOK, "Clinics retrieved successfully", clinics)
}

func (h *ClinicHandler) GetClinic(w http.ResponseWriter, r *http.Request) {
	clinic, err := h.clinicUsecase.GetClinicByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeUsecaseError(w, h.log, err, "Failed to get clinic")
		return
	}
	if len(clinic) == 0 {
		response.NotFound(w, "Clinic not found")
		return
	}

	response.Success(w, http.StatusOK, "Clinic retrieved successfully", clinic)
}
