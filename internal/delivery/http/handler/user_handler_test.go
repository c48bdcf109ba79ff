package handler

import (
	"context"
	"net/http"
	"testing"

	"medical-admin-dashboard/internal/aggregation"
	"medical-admin-dashboard/internal/delivery/dto"
	"medical-admin-dashboard/internal/usecase"
	"medical-admin-dashboard/pkg/validator"

	"github.com/stretchr/testify/assert"
)

type fakeUserUsecase struct {
	gotFilter aggregation.Filter
	gotID     string
	created   *dto.CreateUserRequest
	err       error
}

func (f *fakeUserUsecase) QueryUsers(_ context.Context, filter aggregation.Filter, _ aggregation.Options) (*dto.UserListResponse, error) {
	f.gotFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	return &dto.UserListResponse{RolesCount: []dto.RoleCount{}}, nil
}

func (f *fakeUserUsecase) GetUserByID(_ context.Context, id string) (*dto.UserResponse, error) {
	f.gotID = id
	if f.err != nil {
		return nil, f.err
	}
	return &dto.UserResponse{Name: "Budi"}, nil
}

func (f *fakeUserUsecase) CreateUser(_ context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	f.created = req
	if f.err != nil {
		return nil, f.err
	}
	return &dto.UserResponse{Name: req.Name, Email: req.Email}, nil
}

func (f *fakeUserUsecase) UpdateUserByID(_ context.Context, id string, _ *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	f.gotID = id
	if f.err != nil {
		return nil, f.err
	}
	return &dto.UserResponse{Name: "Budi"}, nil
}

func (f *fakeUserUsecase) DeleteUserByID(_ context.Context, id string) error {
	f.gotID = id
	return f.err
}

func TestQueryUsersPassesFilter(t *testing.T) {
	uc := &fakeUserUsecase{}
	h := NewUserHandler(uc, validator.NewValidator(), quietLogger())

	rec, _ := serve(t, http.MethodGet, "/users", "/users?role=admin&password=x", "", h.QueryUsers)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, aggregation.Filter{"role": "admin"}, uc.gotFilter)
}

func TestCreateUser(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		uc := &fakeUserUsecase{}
		h := NewUserHandler(uc, validator.NewValidator(), quietLogger())
		rec, _ := serve(t, http.MethodPost, "/users", "/users",
			`{"name":"Budi","email":"budi@clinic.id","password":"secret123"}`, h.CreateUser)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "budi@clinic.id", uc.created.Email)
	})

	t.Run("weak password", func(t *testing.T) {
		uc := &fakeUserUsecase{}
		h := NewUserHandler(uc, validator.NewValidator(), quietLogger())
		rec, env := serve(t, http.MethodPost, "/users", "/users",
			`{"name":"Budi","email":"budi@clinic.id","password":"12345678"}`, h.CreateUser)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, string(env.Error), "password")
		assert.Nil(t, uc.created)
	})

	t.Run("email taken", func(t *testing.T) {
		h := NewUserHandler(&fakeUserUsecase{err: usecase.ErrEmailTaken}, validator.NewValidator(), quietLogger())
		rec, env := serve(t, http.MethodPost, "/users", "/users",
			`{"name":"Budi","email":"budi@clinic.id","password":"secret123"}`, h.CreateUser)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Email already taken", env.Message)
	})
}

func TestUserByIDRoutes(t *testing.T) {
	missing := &fakeUserUsecase{err: usecase.ErrUserNotFound}
	h := NewUserHandler(missing, validator.NewValidator(), quietLogger())

	rec, env := serve(t, http.MethodGet, "/users/{id}", "/users/abc", "", h.GetUser)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", env.Message)
	assert.Equal(t, "abc", missing.gotID)

	rec, _ = serve(t, http.MethodDelete, "/users/{id}", "/users/abc", "", h.DeleteUser)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = serve(t, http.MethodPatch, "/users/{id}", "/users/abc", `{"role":"owner"}`, h.UpdateUser)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	ok := NewUserHandler(&fakeUserUsecase{}, validator.NewValidator(), quietLogger())
	rec, _ = serve(t, http.MethodPatch, "/users/{id}", "/users/abc", `{"name":"Budi S."}`, ok.UpdateUser)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = serve(t, http.MethodDelete, "/users/{id}", "/users/abc", "", ok.DeleteUser)
	assert.Equal(t, http.StatusOK, rec.Code)
}
