package repository

import (
	"context"

	"medical-admin-dashboard/internal/domain/entity"
)

type DoctorProfileRepository interface {
	FindByDoctorID(ctx context.Context, doctorID int) (*entity.DoctorProfile, error)
	UpdateVerificationStatus(ctx context.Context, doctorID int, status entity.VerificationStatus) error
}
