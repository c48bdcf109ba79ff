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

var userFilterKeys = []string{"name", "email", "role"}

type UserHandler struct {
	userUsecase usecase.UserUsecase
	validator   *validator.CustomValidator
	log         *logrus.Logger
}

func NewUserHandler(userUsecase usecase.UserUsecase, validator *validator.CustomValidator, log *logrus.Logger) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
		validator:   validator,
		log:         log,
	}
}

func (h *UserHandler) QueryUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	users, err := h.userUsecase.QueryUsers(r.Context(),
		converter.QueryToFilter(query, userFilterKeys...),
		converter.QueryToOptions(query))
	if err != nil {
		writeUsecaseError(w, h.log, err, "Failed to get users")
		return
	}

	response.Success(w, http.StatusOK, "Users retrieved successfully", users)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.userUsecase.GetUserByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeUsecaseError(w, h.log, err, "Failed to get user")
		return
	}

	response.Success(w, http.StatusOK, "User retrieved successfully", user)
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	user, err := h.userUsecase.CreateUser(r.Context(), &req)
	if err != nil {
		writeUsecaseError(w, h.log, err, "Failed to create user")
		return
	}

	response.Success(w, http.StatusCreated, "User created successfully", user)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	user, err := h.userUsecase.UpdateUserByID(r.Context(), mux.Vars(r)["id"], &req)
	if err != nil {
		writeUsecaseError(w, h.log, err, "Failed to update user")
		return
	}

	response.Success(w, http.StatusOK, "User updated successfully", user)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.userUsecase.DeleteUserByID(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeUsecaseError(w, h.log, err, "Failed to delete user")
		return
	}

	response.Success(w, http.StatusOK, "User deleted successfully", nil)
}
