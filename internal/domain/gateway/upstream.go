package gateway

import (
	"context"

	"medical-admin-dashboard/internal/domain/entity"
)

// DoctorRegistry is the booking platform's doctor verification endpoint.
type DoctorRegistry interface {
	VerifyDoctor(ctx context.Context, doctorID int, status entity.VerificationStatus) error
}

// CardReader extracts identity card data from an uploaded card image.
type CardReader interface {
	ReadCard(ctx context.Context, imageURL string) (*entity.OcrCard, error)
}

// DatasetSource exports a full snapshot of the booking platform's records.
type DatasetSource interface {
	FetchDataset(ctx context.Context) (*entity.Dataset, error)
}
