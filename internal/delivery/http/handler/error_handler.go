package handler

import (
	"errors"
	"net/http"

	"medical-admin-dashboard/internal/usecase"
	"medical-admin-dashboard/pkg/response"

	"github.com/sirupsen/logrus"
)

// writeUsecaseError maps a usecase error kind to a status code. message is
// used for anything that is not a known kind.
func writeUsecaseError(w http.ResponseWriter, log *logrus.Logger, err error, message string) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		response.NotFound(w, capitalize(err.Error()))
	case errors.Is(err, usecase.ErrUpstream):
		response.BadGateway(w, message)
	case errors.Is(err, usecase.ErrInvalidVerification):
		response.Error(w, http.StatusBadRequest, "Invalid verification status", nil)
	case errors.Is(err, usecase.ErrEmailTaken):
		response.Error(w, http.StatusBadRequest, "Email already taken", nil)
	case errors.Is(err, usecase.ErrSeedInProgress):
		response.Conflict(w, "A seed run is already in progress")
	default:
		log.Errorf("%s: %+v", message, err)
		response.InternalServerError(w, message)
	}
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
