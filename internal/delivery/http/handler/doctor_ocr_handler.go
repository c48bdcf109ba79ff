package handler

import (
	"encoding/json"
	"net/http"

	"medical-admin-dashboard/internal/delivery/dto"
	"medical-admin-dashboard/internal/usecase"
	"medical-admin-dashboard/pkg/response"
	"medical-admin-dashboard/pkg/validator"

	"github.com/sirupsen/logrus"
)

type DoctorOcrHandler struct {
	ocrUsecase usecase.DoctorOcrUsecase
	validator  *validator.CustomValidator
	log        *logrus.Logger
}

func NewDoctorOcrHandler(ocrUsecase usecase.DoctorOcrUsecase, validator *validator.CustomValidator, log *logrus.Logger) *DoctorOcrHandler {
	return &DoctorOcrHandler{
		ocrUsecase: ocrUsecase,
		validator:  validator,
		log:        log,
	}
}

// ReadCard runs OCR on the doctor's card without touching the cache.
func (h *DoctorOcrHandler) ReadCard(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCardRequest(w, r)
	if !ok {
		return
	}

	card, err := h.ocrUsecase.OcrDoctorCard(r.Context(), req.DoctorID)
	if err != nil {
		writeUsecaseError(w, h.log, err, "Failed to read doctor card")
		return
	}

	response.Success(w, http.StatusOK, "Doctor card read successfully", card)
}

// ReadCachedCard returns the cached card, reading and caching it on a miss.
func (h *DoctorOcrHandler) ReadCachedCard(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCardRequest(w, r)
	if !ok {
		return
	}

	card, err := h.ocrUsecase.OcrDoctorCardDB(r.Context(), req.DoctorID)
	if err != nil {
		writeUsecaseError(w, h.log, err, "Failed to read doctor card")
		return
	}

	response.Success(w, http.StatusOK, "Doctor card retrieved successfully", card)
}

func (h *DoctorOcrHandler) EditCard(w http.ResponseWriter, r *http.Request) {
	var req dto.EditOcrCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	card, err := h.ocrUsecase.EditOcrDoctorCard(r.Context(), &req)
	if err != nil {
		writeUsecaseError(w, h.log, err, "Failed to edit doctor card")
		return
	}

	response.Success(w, http.StatusOK, "Doctor card updated successfully", card)
}

func (h *DoctorOcrHandler) decodeCardRequest(w http.ResponseWriter, r *http.Request) (*dto.OcrCardRequest, bool) {
	var req dto.OcrCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return nil, false
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return nil, false
	}
	return &req, true
}
