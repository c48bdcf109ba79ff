package handler

import (
	"errors"
	"net/http"

	"medical-admin-dashboard/internal/converter"
	"medical-admin-dashboard/internal/usecase"
	"medical-admin-dashboard/pkg/response"

	"github.com/sirupsen/logrus"
)

type SeedHandler struct {
	seedUsecase usecase.SeedUsecase
	log         *logrus.Logger
}

func NewSeedHandler(seedUsecase usecase.SeedUsecase, log *logrus.Logger) *SeedHandler {
	return &SeedHandler{
		seedUsecase: seedUsecase,
		log:         log,
	}
}

// Seed runs a reseed synchronously. A failed run still answers with its log
// entry so the caller can see the recorded message.
func (h *SeedHandler) Seed(w http.ResponseWriter, r *http.Request) {
	entry, err := h.seedUsecase.Seed(r.Context())
	if err != nil {
		if entry == nil {
			writeUsecaseError(w, h.log, err, "Failed to seed database")
			return
		}
		status := http.StatusInternalServerError
		if errors.Is(err, usecase.ErrUpstream) {
			status = http.StatusBadGateway
		}
		response.Error(w, status, "Failed to seed database", converter.SeedLogToResponse(entry))
		return
	}

	response.Success(w, http.StatusCreated, entry.Message, converter.SeedLogToResponse(entry))
}

func (h *SeedHandler) Latest(w http.ResponseWriter, r *http.Request) {
	entry, err := h.seedUsecase.Latest(r.Context())
	if err != nil {
		writeUsecaseError(w, h.log, err, "Failed to get seed log")
		return
	}

	response.Success(w, http.StatusOK, "Seed log retrieved successfully", converter.SeedLogToResponse(entry))
}
