package repository

import (
	"context"

	"medical-admin-dashboard/internal/domain/entity"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error)
	// EmailTaken reports whether another user than excludeID already uses
	// the encrypted email.
	EmailTaken(ctx context.Context, encryptedEmail string, excludeID primitive.ObjectID) (bool, error)
	Update(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
