package repository

import (
	"context"

	"medical-admin-dashboard/internal/domain/entity"
)

type OcrResultRepository interface {
	FindByDoctorID(ctx context.Context, doctorID int) (*entity.OcrResult, error)
	Save(ctx context.Context, result *entity.OcrResult) error
}
