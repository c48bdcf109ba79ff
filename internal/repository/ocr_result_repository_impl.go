package repository

import (
	"context"
	"errors"
	"time"

	"medical-admin-dashboard/internal/aggregation"
	"medical-admin-dashboard/internal/domain/entity"
	domainRepo "medical-admin-dashboard/internal/domain/repository"
)

type ocrResultRepository struct {
	store domainRepo.RecordStore
}

func NewOcrResultRepository(store domainRepo.RecordStore) domainRepo.OcrResultRepository {
	return &ocrResultRepository{store: store}
}

func (r *ocrResultRepository) FindByDoctorID(ctx context.Context, doctorID int) (*entity.OcrResult, error) {
	var result entity.OcrResult
	err := r.store.FindOne(ctx, entity.CollectionOcrResults, aggregation.Filter{"idDoctor": doctorID}, &result)
	if err != nil {
		if errors.Is(err, domainRepo.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

// Save stores result, replacing any earlier entry for the same doctor.
func (r *ocrResultRepository) Save(ctx context.Context, result *entity.OcrResult) error {
	result.UpdatedAt = time.Now().UTC()
	return r.store.UpdateOne(ctx, entity.CollectionOcrResults,
		aggregation.Filter{"idDoctor": result.IDDoctor},
		map[string]interface{}{
			"encryptedData": result.EncryptedData,
			"updatedAt":     result.UpdatedAt,
		},
		true,
	)
}
