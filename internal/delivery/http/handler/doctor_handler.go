package handler

import (
	"encoding/json"
	"net/http"

	"medical-admin-dashboard/internal/converter"
	"medical-admin-dashboard/internal/delivery/dto"
	"medical-admin-dashboard/internal/usecase"
	"medical-admin-dashboard/pkg/response"
	"medical-admin-dashboard/pkg/validator"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

var doctorFilterKeys = []string{"id", "name", "verificationStatus"}

type DoctorHandler struct {
	doctorUsecase usecase.DoctorUsecase
	validator     *validator.CustomValidator
	log           *logrus.Logger
}

func NewDoctorHandler(doctorUsecase usecase.DoctorUsecase, validator *validator.CustomValidator, log *logrus.Logger) *DoctorHandler {
	return &DoctorHandler{
		doctorUsecase: doctorUsecase,
		validator:     validator,
		log:           log,
	}
}

func (h *DoctorHandler) QueryDoctors(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	doctors, err := h.doctorUsecase.QueryDoctors(r.Context(),
		converter.QueryToFilter(query, doctorFilterKeys...),
		converter.QueryToOptions(query))
	if err != nil {
		writeUsecaseError(w, h.log, err, "Failed to get doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

func (h *DoctorHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	doctor, err := h.doctorUsecase.GetDoctorByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeUsecaseError(w, h.log, err, "Failed to get doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor retrieved successfully", doctor)
}

func (h *DoctorHandler) VerifyDoctor(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	profile, err := h.doctorUsecase.VerifyDoctor(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writeUsecaseError(w, h.log, err, "Failed to verify doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor verification updated successfully", profile)
}
