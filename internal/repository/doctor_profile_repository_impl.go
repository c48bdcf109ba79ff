package repository

import (
	"context"
	"errors"
	"time"

	"medical-admin-dashboard/internal/aggregation"
	"medical-admin-dashboard/internal/domain/entity"
	domainRepo "medical-admin-dashboard/internal/domain/repository"
)

type doctorProfileRepository struct {
	store domainRepo.RecordStore
}

func NewDoctorProfileRepository(store domainRepo.RecordStore) domainRepo.DoctorProfileRepository {
	return &doctorProfileRepository{store: store}
}

func (r *doctorProfileRepository) FindByDoctorID(ctx context.Context, doctorID int) (*entity.DoctorProfile, error) {
	var profile entity.DoctorProfile
	err := r.store.FindOne(ctx, entity.CollectionDoctorProfiles, aggregation.Filter{"idDoctor": doctorID}, &profile)
	if err != nil {
		if errors.Is(err, domainRepo.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *doctorProfileRepository) UpdateVerificationStatus(ctx context.Context, doctorID int, status entity.VerificationStatus) error {
	return r.store.UpdateOne(ctx, entity.CollectionDoctorProfiles,
		aggregation.Filter{"idDoctor": doctorID},
		map[string]interface{}{
			"verificationStatus": string(status),
			"updatedAt":          time.Now().UTC(),
		},
		false,
	)
}
