package usecase

import (
	"context"
	"fmt"

	"medical-admin-dashboard/internal/aggregation"
	"medical-admin-dashboard/internal/converter"
	"medical-admin-dashboard/internal/delivery/dto"
	"medical-admin-dashboard/internal/domain/entity"
	"medical-admin-dashboard/internal/domain/gateway"
	"medical-admin-dashboard/internal/domain/repository"
	"medical-admin-dashboard/internal/service"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type DoctorUsecase interface {
	QueryDoctors(ctx context.Context, filter aggregation.Filter, opts aggregation.Options) (*dto.DoctorListResponse, error)
	GetDoctorByID(ctx context.Context, id string) (*dto.DoctorDetailResponse, error)
	VerifyDoctor(ctx context.Context, id string, req *dto.VerifyDoctorRequest) (*dto.DoctorProfileResponse, error)
}

type doctorUsecase struct {
	store       repository.RecordStore
	paginator   *aggregation.Paginator
	log         *logrus.Logger
	profileRepo repository.DoctorProfileRepository
	registry    gateway.DoctorRegistry
	cache       service.ReportCache
	audit       service.AuditService
}

func NewDoctorUsecase(
	store repository.RecordStore,
	paginator *aggregation.Paginator,
	log *logrus.Logger,
	profileRepo repository.DoctorProfileRepository,
	registry gateway.DoctorRegistry,
	cache service.ReportCache,
	audit service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		store:       store,
		paginator:   paginator,
		log:         log,
		profileRepo: profileRepo,
		registry:    registry,
		cache:       cache,
		audit:       audit,
	}
}

// QueryDoctors lists doctors that have a profile, together with how many
// profiles are in each verification state.
func (u *doctorUsecase) QueryDoctors(ctx context.Context, filter aggregation.Filter, opts aggregation.Options) (*dto.DoctorListResponse, error) {
	pipeline := aggregation.Pipeline{
		aggregation.Lookup{
			From:         entity.CollectionDoctorProfiles,
			LocalField:   "id",
			ForeignField: "idDoctor",
			As:           "profile",
		},
		aggregation.Unwind{Path: "profile"},
		aggregation.Project{
			aggregation.As("id", aggregation.Field("id")),
			aggregation.As("name", aggregation.Field("name")),
			aggregation.As("verificationStatus", aggregation.Field("profile.verificationStatus")),
		},
	}

	var (
		page   *aggregation.QueryResult[dto.DoctorListItem]
		counts []dto.VerificationStatusCount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, err = aggregation.Paginate[dto.DoctorListItem](gctx, u.paginator, aggregation.Query{
			Collection:  entity.CollectionDoctors,
			Pipeline:    pipeline,
			Filter:      filter,
			Options:     opts,
			TieBreak:    []string{"id"},
			DefaultSort: aggregation.Sort{{Field: "id"}},
		})
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = countVerificationStatuses(gctx, u.store)
		return err
	})
	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to query doctors: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		QueryResult:             *page,
		VerificationStatusCount: counts,
	}, nil
}

func (u *doctorUsecase) GetDoctorByID(ctx context.Context, id string) (*dto.DoctorDetailResponse, error) {
	doctorID, ok := parseID(id)
	if !ok {
		return nil, ErrDoctorNotFound
	}

	pipeline := aggregation.Pipeline{
		aggregation.Match{Filter: aggregation.Filter{"id": doctorID}},
		aggregation.Lookup{
			From:         entity.CollectionClinicHistories,
			LocalField:   "id",
			ForeignField: "serviceDetails.idDoctor",
			As:           "clinichistories",
		},
		aggregation.Lookup{
			From:         entity.CollectionConsultationHistories,
			LocalField:   "id",
			ForeignField: "serviceDetails.id",
			As:           "consultationhistories",
		},
		aggregation.Lookup{
			From:         entity.CollectionDoctorProfiles,
			LocalField:   "id",
			ForeignField: "idDoctor",
			As:           "profile",
		},
		aggregation.Unwind{Path: "profile"},
		aggregation.Project{
			aggregation.As("id", aggregation.Field("id")),
			aggregation.As("name", aggregation.Field("name")),
			aggregation.As("photo", aggregation.Field("photo")),
			aggregation.As("specialization", aggregation.Field("specialization")),
			aggregation.As("workPlace", aggregation.Field("workPlace")),
			aggregation.As("consultationPrice", aggregation.Field("consultationPrice")),
			aggregation.As("cardUrl", aggregation.Field("profile.cardUrl")),
			aggregation.As("verificationStatus", aggregation.Field("profile.verificationStatus")),
			aggregation.As("DoctorWorkSchedule", aggregation.Field("DoctorWorkSchedule")),
			aggregation.As("DoctorExperience", aggregation.Field("DoctorExperience")),
			aggregation.As("clinicPatientsCount", aggregation.Size(aggregation.Field("clinichistories"))),
			aggregation.As("consultationPatientsCount", aggregation.Size(aggregation.Field("consultationhistories"))),
			aggregation.As("totalAmountFromClinic", aggregation.ArraySum(
				aggregation.Map(aggregation.Field("clinichistories"), resolvedAmount(aggregation.This)),
			)),
			aggregation.As("totalAmountFromConsultation", aggregation.ArraySum(
				aggregation.Map(aggregation.Field("consultationhistories"), resolvedAmount(aggregation.This)),
			)),
		},
	}

	rows, err := u.store.Aggregate(ctx, entity.CollectionDoctors, pipeline)
	if err != nil {
		u.log.Warnf("Failed to get doctor %d: %+v", doctorID, err)
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrDoctorNotFound
	}

	var doctor dto.DoctorDetailResponse
	if err := aggregation.Decode(rows[0], &doctor); err != nil {
		u.log.Warnf("Failed to decode doctor %d: %+v", doctorID, err)
		return nil, err
	}
	return &doctor, nil
}

// VerifyDoctor stores the new status locally and then reports it to the
// booking platform. A failed report is returned as ErrUpstream and the
// local change is kept; the next reseed reconciles the two.
func (u *doctorUsecase) VerifyDoctor(ctx context.Context, id string, req *dto.VerifyDoctorRequest) (*dto.DoctorProfileResponse, error) {
	if req.VerificationStatus.IsBlank() {
		return nil, ErrInvalidVerification
	}
	doctorID, ok := parseID(id)
	if !ok {
		return nil, ErrDoctorNotFound
	}

	profile, err := u.profileRepo.FindByDoctorID(ctx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}

	if err := u.profileRepo.UpdateVerificationStatus(ctx, doctorID, req.VerificationStatus); err != nil {
		u.log.Warnf("Failed to update verification status: %+v", err)
		return nil, err
	}
	previous := profile.VerificationStatus
	profile.VerificationStatus = req.VerificationStatus
	u.audit.LogUpdate(ctx, entity.AuditActionVerifyDoctor, entity.CollectionDoctorProfiles, doctorID,
		string(previous), string(req.VerificationStatus))

	if err := u.cache.Invalidate(ctx); err != nil {
		u.log.Warnf("Failed to invalidate dashboard cache: %+v", err)
	}

	if err := u.registry.VerifyDoctor(ctx, doctorID, req.VerificationStatus); err != nil {
		u.log.Errorf("Failed to report verification of doctor %d upstream: %+v", doctorID, err)
		return nil, fmt.Errorf("%w: verify doctor %d: %v", ErrUpstream, doctorID, err)
	}

	u.log.WithField("doctor_id", doctorID).Infof("Doctor verification set to %s", req.VerificationStatus)
	return converter.DoctorProfileToResponse(profile), nil
}
