package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"medical-admin-dashboard/internal/converter"
	"medical-admin-dashboard/internal/domain/entity"
	"medical-admin-dashboard/internal/domain/gateway"
	"medical-admin-dashboard/internal/domain/repository"
	"medical-admin-dashboard/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const seedSuccessMessage = "Database seeded successfully"

var ErrSeedInProgress = errors.New("a seed run is already in progress")

type SeedUsecase interface {
	Seed(ctx context.Context) (*entity.SeedLog, error)
	Latest(ctx context.Context) (*entity.SeedLog, error)
}

type seedUsecase struct {
	log         *logrus.Logger
	source      gateway.DatasetSource
	datasetRepo repository.DatasetRepository
	seedLogRepo repository.SeedLogRepository
	cache       service.ReportCache

	running sync.Mutex
}

func NewSeedUsecase(
	log *logrus.Logger,
	source gateway.DatasetSource,
	datasetRepo repository.DatasetRepository,
	seedLogRepo repository.SeedLogRepository,
	cache service.ReportCache,
) SeedUsecase {
	return &seedUsecase{
		log:         log,
		source:      source,
		datasetRepo: datasetRepo,
		seedLogRepo: seedLogRepo,
		cache:       cache,
	}
}

// Seed replaces the mirrored collections with a fresh snapshot from the
// booking platform. The snapshot is fetched in full before anything is
// cleared. Every run is logged and its log entry is returned, also when
// the run fails.
func (u *seedUsecase) Seed(ctx context.Context) (*entity.SeedLog, error) {
	if !u.running.TryLock() {
		return nil, ErrSeedInProgress
	}
	defer u.running.Unlock()

	runID := uuid.NewString()
	log := u.log.WithField("run_id", runID)
	log.Info("Seeding database")

	dataset, err := u.source.FetchDataset(ctx)
	if err != nil {
		log.Errorf("Failed to fetch dataset: %+v", err)
		return u.record(ctx, runID, http.StatusInternalServerError, err.Error()),
			fmt.Errorf("%w: fetch dataset: %v", ErrUpstream, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for collection, docs := range converter.DatasetToDocuments(dataset) {
		collection, docs := collection, docs
		g.Go(func() error {
			if err := u.datasetRepo.Replace(gctx, collection, docs); err != nil {
				return fmt.Errorf("replace %s: %w", collection, err)
			}
			log.Debugf("Replaced %s with %d records", collection, len(docs))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Errorf("Failed to seed database: %+v", err)
		return u.record(ctx, runID, http.StatusInternalServerError, err.Error()), err
	}

	if err := u.cache.Invalidate(ctx); err != nil {
		log.Warnf("Failed to invalidate dashboard cache: %+v", err)
	}
	log.Info(seedSuccessMessage)
	return u.record(ctx, runID, http.StatusCreated, seedSuccessMessage), nil
}

func (u *seedUsecase) Latest(ctx context.Context) (*entity.SeedLog, error) {
	latest, err := u.seedLogRepo.FindLatest(ctx)
	if err != nil {
		u.log.Warnf("Failed to find latest seed log: %+v", err)
		return nil, err
	}
	if latest == nil {
		return nil, ErrSeedLogNotFound
	}
	return latest, nil
}

func (u *seedUsecase) record(ctx context.Context, runID string, status int, message string) *entity.SeedLog {
	entry := &entity.SeedLog{
		RunID:      runID,
		StatusCode: status,
		Message:    message,
		CreatedAt:  time.Now().UTC(),
	}
	if err := u.seedLogRepo.Create(context.WithoutCancel(ctx), entry); err != nil {
		u.log.Warnf("Failed to write seed log: %+v", err)
	}
	return entry
}
