package repository

import (
	"context"
	"errors"

	"medical-admin-dashboard/internal/aggregation"
	"medical-admin-dashboard/internal/domain/entity"
	domainRepo "medical-admin-dashboard/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userRepository struct {
	store domainRepo.RecordStore
}

func NewUserRepository(store domainRepo.RecordStore) domainRepo.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	return r.store.InsertMany(ctx, entity.CollectionUsers, []interface{}{user})
}

func (r *userRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error) {
	var user entity.User
	err := r.store.FindOne(ctx, entity.CollectionUsers, aggregation.Filter{"_id": id}, &user)
	if err != nil {
		if errors.Is(err, domainRepo.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) EmailTaken(ctx context.Context, encryptedEmail string, excludeID primitive.ObjectID) (bool, error) {
	n, err := r.store.Count(ctx, entity.CollectionUsers, aggregation.Filter{
		"email": encryptedEmail,
		"_id":   aggregation.Ne(excludeID),
	})
	return n > 0, err
}

func (r *userRepository) Update(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	return r.store.UpdateOne(ctx, entity.CollectionUsers, aggregation.Filter{"_id": id}, fields, false)
}

func (r *userRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	n, err := r.store.DeleteMany(ctx, entity.CollectionUsers, aggregation.Filter{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return domainRepo.ErrRecordNotFound
	}
	return nil
}
