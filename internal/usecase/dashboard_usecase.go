package usecase

import (
	"context"

	"medical-admin-dashboard/internal/aggregation"
	"medical-admin-dashboard/internal/delivery/dto"
	"medical-admin-dashboard/internal/domain/entity"
	"medical-admin-dashboard/internal/domain/repository"
	"medical-admin-dashboard/internal/service"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"
)

const dashboardTopN = 10

// monthNames is indexed by calendar month; index 0 is unused.
var monthNames = bson.A{
	"", "January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

type DashboardUsecase interface {
	GetDashboardData(ctx context.Context) (*dto.DashboardResponse, error)
}

type dashboardUsecase struct {
	store repository.RecordStore
	log   *logrus.Logger
	cache service.ReportCache
}

func NewDashboardUsecase(store repository.RecordStore, log *logrus.Logger, cache service.ReportCache) DashboardUsecase {
	return &dashboardUsecase{
		store: store,
		log:   log,
		cache: cache,
	}
}

// GetDashboardData builds the admin report. The parts are independent
// reads and run concurrently.
func (u *dashboardUsecase) GetDashboardData(ctx context.Context) (*dto.DashboardResponse, error) {
	if report, ok := u.cache.Get(ctx); ok {
		return report, nil
	}

	report := &dto.DashboardResponse{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		report.DoctorCount, err = countVerificationStatuses(gctx, u.store)
		return err
	})
	g.Go(func() (err error) {
		report.ClinicCount, err = u.store.Count(gctx, entity.CollectionClinicFeedbacks, aggregation.Filter{})
		return err
	})
	g.Go(func() (err error) {
		report.ConsultationPatientsCount, err = u.store.Count(gctx, entity.CollectionConsultationHistories, aggregation.Filter{})
		return err
	})
	g.Go(func() (err error) {
		report.ClinicPatientsCount, err = u.store.Count(gctx, entity.CollectionClinicHistories, aggregation.Filter{})
		return err
	})
	g.Go(func() (err error) {
		report.TotalAmountFromClinic, err = sumAmount(gctx, u.store, entity.CollectionClinicHistories, resolvedAmount(aggregation.Field))
		return err
	})
	g.Go(func() (err error) {
		report.TotalAmountFromConsultation, err = sumAmount(gctx, u.store, entity.CollectionConsultationHistories, firstPaymentAmount(aggregation.Field))
		return err
	})
	g.Go(func() (err error) {
		report.LatestFeedbacks, err = u.latestFeedbacks(gctx)
		return err
	})
	g.Go(func() (err error) {
		report.PopularServices, err = u.popularServices(gctx)
		return err
	})
	g.Go(func() (err error) {
		report.TotalTransactionsEachMonth, err = u.monthlyRevenue(gctx)
		return err
	})
	g.Go(func() (err error) {
		report.Notification, err = u.pendingVerifications(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to build dashboard: %+v", err)
		return nil, err
	}

	if err := u.cache.Set(ctx, report); err != nil {
		u.log.Warnf("Failed to cache dashboard: %+v", err)
	}
	return report, nil
}

func (u *dashboardUsecase) latestFeedbacks(ctx context.Context) ([]dto.LatestFeedback, error) {
	entries := func(field string) aggregation.Pipeline {
		return aggregation.Pipeline{
			aggregation.Unwind{Path: field},
			aggregation.Project{
				aggregation.As("name", aggregation.Field("name")),
				aggregation.As("feedback", aggregation.Field(field+".message")),
				aggregation.As("createdAt", aggregation.Field(field+".createdAt")),
			},
		}
	}
	pipeline := entries(clinicFeedbackSource.entries).With(
		aggregation.UnionWith{
			Collection: doctorFeedbackSource.collection,
			Pipeline:   entries(doctorFeedbackSource.entries),
		},
		aggregation.Sort{{Field: "createdAt", Desc: true}, {Field: "name"}, {Field: "feedback"}},
		aggregation.Limit(dashboardTopN),
	)

	rows, err := u.store.Aggregate(ctx, clinicFeedbackSource.collection, pipeline)
	if err != nil {
		return nil, err
	}
	return aggregation.DecodeAll[dto.LatestFeedback](rows)
}

func (u *dashboardUsecase) popularServices(ctx context.Context) ([]dto.PopularService, error) {
	pipeline := aggregation.Pipeline{
		aggregation.Unwind{Path: "serviceDetails.servicesName"},
		aggregation.Group{
			ID:           aggregation.Field("serviceDetails.servicesName"),
			Accumulators: []aggregation.Accumulator{aggregation.SumOf("timesBooked", aggregation.Lit(1))},
		},
		aggregation.Project{
			aggregation.As("serviceName", aggregation.Field("_id")),
			aggregation.As("timesBooked", aggregation.Field("timesBooked")),
		},
		aggregation.Sort{{Field: "timesBooked", Desc: true}, {Field: "serviceName"}},
		aggregation.Limit(dashboardTopN),
	}

	rows, err := u.store.Aggregate(ctx, entity.CollectionClinicHistories, pipeline)
	if err != nil {
		return nil, err
	}
	return aggregation.DecodeAll[dto.PopularService](rows)
}

// monthlyRevenue sums clinic and consultation revenue per calendar month,
// January first. Records without a creation date are skipped.
func (u *dashboardUsecase) monthlyRevenue(ctx context.Context) ([]dto.MonthlyTransaction, error) {
	pipeline := aggregation.Pipeline{
		aggregation.UnionWith{Collection: entity.CollectionClinicHistories},
		aggregation.Project{
			aggregation.As("month", aggregation.Month(aggregation.Field("createdAt"))),
			aggregation.As("amount", resolvedAmount(aggregation.Field)),
		},
		aggregation.Match{Filter: aggregation.Filter{"month": aggregation.Ne(nil)}},
		aggregation.Group{
			ID:           aggregation.Field("month"),
			Accumulators: []aggregation.Accumulator{aggregation.SumOf("totalRevenue", aggregation.Field("amount"))},
		},
		aggregation.Sort{{Field: "_id"}},
		aggregation.Project{
			aggregation.As("month", aggregation.ArrayElemAt(aggregation.Lit(monthNames), aggregation.Field("_id"))),
			aggregation.As("totalRevenue", aggregation.Field("totalRevenue")),
		},
	}

	rows, err := u.store.Aggregate(ctx, entity.CollectionConsultationHistories, pipeline)
	if err != nil {
		return nil, err
	}
	return aggregation.DecodeAll[dto.MonthlyTransaction](rows)
}

// pendingVerifications lists every doctor whose profile is not verified,
// including statuses other than unverified.
func (u *dashboardUsecase) pendingVerifications(ctx context.Context) ([]dto.PendingVerification, error) {
	pipeline := aggregation.Pipeline{
		aggregation.Match{Filter: aggregation.Filter{
			"verificationStatus": aggregation.Ne(string(entity.VerificationStatusVerified)),
		}},
		aggregation.Project{aggregation.As("doctorName", aggregation.Field("doctorName"))},
		aggregation.Sort{{Field: "doctorName"}},
	}

	rows, err := u.store.Aggregate(ctx, entity.CollectionDoctorProfiles, pipeline)
	if err != nil {
		return nil, err
	}
	return aggregation.DecodeAll[dto.PendingVerification](rows)
}
