package converter

import (
	"medical-admin-dashboard/internal/delivery/dto"
	"medical-admin-dashboard/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO. email is the
// decrypted address; the entity only holds its ciphertext.
func UserToResponse(user *entity.User, email string) *dto.UserResponse {
	if user == nil {
		return nil
	}

	return &dto.UserResponse{
		ID:              user.ID,
		Name:            user.Name,
		Email:           email,
		Role:            user.Role,
		IsEmailVerified: user.IsEmailVerified,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}
}
