package service

import (
	"context"
	"time"

	"medical-admin-dashboard/internal/domain/entity"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const seedRunTimeout = 5 * time.Minute

// Seeder refreshes the local store from the booking platform.
type Seeder interface {
	Seed(ctx context.Context) (*entity.SeedLog, error)
}

// SeedScheduler runs a Seeder on a cron schedule.
type SeedScheduler struct {
	cron   *cron.Cron
	seeder Seeder
	log    *logrus.Logger
}

func NewSeedScheduler(spec string, seeder Seeder, log *logrus.Logger) (*SeedScheduler, error) {
	s := &SeedScheduler{
		cron:   cron.New(),
		seeder: seeder,
		log:    log,
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SeedScheduler) Start() {
	s.cron.Start()
	s.log.Info("Seed scheduler started")
}

// Stop waits for a running seed to finish.
func (s *SeedScheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("Seed scheduler stopped")
}

func (s *SeedScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), seedRunTimeout)
	defer cancel()

	result, err := s.seeder.Seed(ctx)
	if err != nil {
		s.log.Errorf("Scheduled seed failed: %+v", err)
		return
	}
	s.log.WithField("run_id", result.RunID).Info("Scheduled seed completed")
}
