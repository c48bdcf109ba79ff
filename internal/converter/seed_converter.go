package converter

import (
	"medical-admin-dashboard/internal/delivery/dto"
	"medical-admin-dashboard/internal/domain/entity"
)

func SeedLogToResponse(log *entity.SeedLog) *dto.SeedLogResponse {
	if log == nil {
		return nil
	}

	return &dto.SeedLogResponse{
		RunID:      log.RunID,
		StatusCode: log.StatusCode,
		Message:    log.Message,
		CreatedAt:  log.CreatedAt,
	}
}

// DatasetToDocuments returns the records of d keyed by target collection.
func DatasetToDocuments(d *entity.Dataset) map[string][]interface{} {
	return map[string][]interface{}{
		entity.CollectionDoctors:               toDocuments(d.Doctors),
		entity.CollectionDoctorProfiles:        toDocuments(d.DoctorProfiles),
		entity.CollectionDoctorFeedbacks:       toDocuments(d.DoctorFeedbacks),
		entity.CollectionClinicHistories:       toDocuments(d.ClinicHistories),
		entity.CollectionConsultationHistories: toDocuments(d.ConsultationHistories),
		entity.CollectionClinicFeedbacks:       toDocuments(d.ClinicFeedbacks),
	}
}

func toDocuments[T any](items []T) []interface{} {
	docs := make([]interface{}, len(items))
	for i := range items {
		docs[i] = items[i]
	}
	return docs
}
