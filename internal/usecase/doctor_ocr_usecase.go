package usecase

import (
	"context"
	"fmt"

	"medical-admin-dashboard/internal/converter"
	"medical-admin-dashboard/internal/delivery/dto"
	"medical-admin-dashboard/internal/domain/entity"
	"medical-admin-dashboard/internal/domain/gateway"
	"medical-admin-dashboard/internal/domain/repository"
	"medical-admin-dashboard/internal/service"

	"github.com/sirupsen/logrus"
)

type DoctorOcrUsecase interface {
	OcrDoctorCard(ctx context.Context, doctorID int) (*entity.OcrCard, error)
	OcrDoctorCardDB(ctx context.Context, doctorID int) (*entity.OcrCard, error)
	EditOcrDoctorCard(ctx context.Context, req *dto.EditOcrCardRequest) (*entity.OcrCard, error)
}

type doctorOcrUsecase struct {
	log         *logrus.Logger
	profileRepo repository.DoctorProfileRepository
	ocrRepo     repository.OcrResultRepository
	reader      gateway.CardReader
	cipher      *service.CardCipher
	audit       service.AuditService
}

func NewDoctorOcrUsecase(
	log *logrus.Logger,
	profileRepo repository.DoctorProfileRepository,
	ocrRepo repository.OcrResultRepository,
	reader gateway.CardReader,
	cipher *service.CardCipher,
	audit service.AuditService,
) DoctorOcrUsecase {
	return &doctorOcrUsecase{
		log:         log,
		profileRepo: profileRepo,
		ocrRepo:     ocrRepo,
		reader:      reader,
		cipher:      cipher,
		audit:       audit,
	}
}

// OcrDoctorCard reads the doctor's card without touching the cache.
func (u *doctorOcrUsecase) OcrDoctorCard(ctx context.Context, doctorID int) (*entity.OcrCard, error) {
	profile, err := u.findProfile(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	return u.readCard(ctx, profile)
}

// OcrDoctorCardDB returns the cached card, reading and caching it on first
// use. A cache entry that no longer decrypts, for example after the doctor
// was renamed, is replaced by a fresh read.
func (u *doctorOcrUsecase) OcrDoctorCardDB(ctx context.Context, doctorID int) (*entity.OcrCard, error) {
	profile, err := u.findProfile(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	key, err := u.cipher.KeyFor(profile)
	if err != nil {
		return nil, err
	}

	cached, err := u.ocrRepo.FindByDoctorID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find ocr result: %+v", err)
		return nil, err
	}
	if cached != nil {
		card, err := u.cipher.DecryptCard(cached.EncryptedData, key)
		if err == nil {
			return card, nil
		}
		u.log.Warnf("Failed to decrypt cached card of doctor %d, reading it again: %+v", doctorID, err)
	}

	card, err := u.readCard(ctx, profile)
	if err != nil {
		return nil, err
	}
	if err := u.save(ctx, doctorID, card, key); err != nil {
		return nil, err
	}
	return card, nil
}

// EditOcrDoctorCard corrects fields of a cached card.
func (u *doctorOcrUsecase) EditOcrDoctorCard(ctx context.Context, req *dto.EditOcrCardRequest) (*entity.OcrCard, error) {
	profile, err := u.findProfile(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	key, err := u.cipher.KeyFor(profile)
	if err != nil {
		return nil, err
	}

	cached, err := u.ocrRepo.FindByDoctorID(ctx, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find ocr result: %+v", err)
		return nil, err
	}
	if cached == nil {
		return nil, ErrOcrResultNotFound
	}

	card, err := u.cipher.DecryptCard(cached.EncryptedData, key)
	if err != nil {
		u.log.Warnf("Failed to decrypt cached card of doctor %d: %+v", req.DoctorID, err)
		return nil, err
	}
	converter.ApplyOcrCardEdit(card, req)

	if err := u.save(ctx, req.DoctorID, card, key); err != nil {
		return nil, err
	}
	u.audit.LogUpdate(ctx, entity.AuditActionEditOcrCard, entity.CollectionOcrResults, req.DoctorID,
		nil, converter.EditedOcrFields(req))
	return card, nil
}

func (u *doctorOcrUsecase) findProfile(ctx context.Context, doctorID int) (*entity.DoctorProfile, error) {
	profile, err := u.profileRepo.FindByDoctorID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}
	return profile, nil
}

func (u *doctorOcrUsecase) readCard(ctx context.Context, profile *entity.DoctorProfile) (*entity.OcrCard, error) {
	card, err := u.reader.ReadCard(ctx, profile.CardURL)
	if err != nil {
		u.log.Errorf("Failed to read card of doctor %d: %+v", profile.IDDoctor, err)
		return nil, fmt.Errorf("%w: read card of doctor %d: %v", ErrUpstream, profile.IDDoctor, err)
	}
	return card, nil
}

func (u *doctorOcrUsecase) save(ctx context.Context, doctorID int, card *entity.OcrCard, key []byte) error {
	encrypted, err := u.cipher.EncryptCard(card, key)
	if err != nil {
		u.log.Warnf("Failed to encrypt card: %+v", err)
		return err
	}
	if err := u.ocrRepo.Save(ctx, &entity.OcrResult{IDDoctor: doctorID, EncryptedData: encrypted}); err != nil {
		u.log.Warnf("Failed to save ocr result: %+v", err)
		return err
	}
	return nil
}
