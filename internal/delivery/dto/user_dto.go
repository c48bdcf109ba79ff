package dto

import (
	"time"

	"medical-admin-dashboard/internal/aggregation"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Request DTOs

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=1"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,password"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin master"`
}

// UpdateUserRequest carries the fields to change. Omitted fields are kept.
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8,password"`
	Role     *string `json:"role" validate:"omitempty,oneof=user admin master"`
}

// Response DTOs

type UserListItem struct {
	ID    primitive.ObjectID `json:"id" bson:"id"`
	Name  string             `json:"name" bson:"name"`
	Email string             `json:"email" bson:"email"`
	Role  string             `json:"role" bson:"role"`
}

type RoleCount struct {
	Role  string `json:"role" bson:"role"`
	Count int64  `json:"count" bson:"count"`
}

type UserListResponse struct {
	aggregation.QueryResult[UserListItem]
	RolesCount []RoleCount `json:"rolesCount"`
}

type UserResponse struct {
	ID              primitive.ObjectID `json:"id"`
	Name            string             `json:"name"`
	Email           string             `json:"email"`
	Role            string             `json:"role"`
	IsEmailVerified bool               `json:"isEmailVerified"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}
