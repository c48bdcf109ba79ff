package usecase

import (
	"context"
	"sort"

	"medical-admin-dashboard/internal/aggregation"
	"medical-admin-dashboard/internal/delivery/dto"
	"medical-admin-dashboard/internal/domain/entity"
	"medical-admin-dashboard/internal/domain/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"
)

type ClinicUsecase interface {
	QueryClinicHistories(ctx context.Context, filter aggregation.Filter, opts aggregation.Options) (*dto.ClinicHistoryListResponse, error)
	GetClinicByID(ctx context.Context, id string) ([]dto.ClinicDetailResponse, error)
}

type clinicUsecase struct {
	store     repository.RecordStore
	paginator *aggregation.Paginator
	log       *logrus.Logger
}

func NewClinicUsecase(store repository.RecordStore, paginator *aggregation.Paginator, log *logrus.Logger) ClinicUsecase {
	return &clinicUsecase{
		store:     store,
		paginator: paginator,
		log:       log,
	}
}

// QueryClinicHistories lists clinics with the number of transactions they
// handled and the amount paid for them. Clinics without transactions are
// left out.
func (u *clinicUsecase) QueryClinicHistories(ctx context.Context, filter aggregation.Filter, opts aggregation.Options) (*dto.ClinicHistoryListResponse, error) {
	pipeline := aggregation.Pipeline{
		aggregation.Lookup{
			From:         entity.CollectionClinicHistories,
			LocalField:   "id",
			ForeignField: "serviceDetails.idClinic",
			As:           "transactions",
		},
		aggregation.Unwind{Path: "transactions"},
		aggregation.Unwind{Path: "transactions.midtransResponse.payment_amounts", PreserveNullAndEmptyArrays: true},
		aggregation.Group{
			ID: aggregation.Object{
				aggregation.As("id", aggregation.Field("id")),
				aggregation.As("name", aggregation.Field("name")),
			},
			Accumulators: []aggregation.Accumulator{
				aggregation.SumOf("totalAmount", aggregation.ToDouble(aggregation.IfNull(
					aggregation.Field("transactions.midtransResponse.payment_amounts.amount"),
					aggregation.Field("transactions.serviceDetails.amount"),
				))),
				aggregation.AddToSetOf("transactionIds", aggregation.Field("transactions._id")),
			},
		},
		aggregation.Project{
			aggregation.As("id", aggregation.Field("_id.id")),
			aggregation.As("name", aggregation.Field("_id.name")),
			aggregation.As("totalAmount", aggregation.Field("totalAmount")),
			aggregation.As("totalTransactions", aggregation.Size(aggregation.Field("transactionIds"))),
		},
	}

	var (
		page        *aggregation.QueryResult[dto.ClinicHistoryItem]
		totalCount  int64
		totalAmount float64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, err = aggregation.Paginate[dto.ClinicHistoryItem](gctx, u.paginator, aggregation.Query{
			Collection:  entity.CollectionClinicFeedbacks,
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
		totalCount, err = u.store.Count(gctx, entity.CollectionClinicHistories, aggregation.Filter{})
		return err
	})
	g.Go(func() error {
		var err error
		totalAmount, err = sumAmount(gctx, u.store, entity.CollectionClinicHistories, firstPaymentAmount(aggregation.Field))
		return err
	})
	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to query clinic histories: %+v", err)
		return nil, err
	}

	return &dto.ClinicHistoryListResponse{
		QueryResult:             *page,
		TotalTransactions:       totalCount,
		TotalAmountTransactions: totalAmount,
	}, nil
}

// GetClinicByID rolls up a clinic's transactions per doctor and per
// service. The result is empty when the clinic has no transactions.
func (u *clinicUsecase) GetClinicByID(ctx context.Context, id string) ([]dto.ClinicDetailResponse, error) {
	clinicID, ok := parseID(id)
	if !ok {
		return []dto.ClinicDetailResponse{}, nil
	}

	services := aggregation.Field("serviceDetails.servicesName")
	pipeline := aggregation.Pipeline{
		aggregation.Match{Filter: aggregation.Filter{"serviceDetails.idClinic": clinicID}},
		aggregation.AddFields{aggregation.As("amount", resolvedAmount(aggregation.Field))},
		aggregation.Group{
			ID: aggregation.Object{
				aggregation.As("idClinic", aggregation.Field("serviceDetails.idClinic")),
				aggregation.As("idDoctor", aggregation.Field("serviceDetails.idDoctor")),
				aggregation.As("doctorName", aggregation.Field("serviceDetails.doctorName")),
				aggregation.As("serviceName", aggregation.Cond(
					aggregation.IsArray(services),
					aggregation.ArrayElemAt(services, aggregation.Lit(0)),
					services,
				)),
			},
			Accumulators: []aggregation.Accumulator{
				aggregation.SumOf("patients", aggregation.Lit(1)),
				aggregation.SumOf("amount", aggregation.Field("amount")),
			},
		},
		aggregation.Group{
			ID: aggregation.Field("_id.idClinic"),
			Accumulators: []aggregation.Accumulator{
				aggregation.SumOf("totalPatients", aggregation.Field("patients")),
				aggregation.SumOf("totalAmount", aggregation.Field("amount")),
				aggregation.PushOf("doctors", aggregation.Object{
					aggregation.As("idDoctor", aggregation.Field("_id.idDoctor")),
					aggregation.As("doctorName", aggregation.Field("_id.doctorName")),
					aggregation.As("totalPatientDoctor", aggregation.Field("patients")),
					aggregation.As("totalAmountDoctor", aggregation.Field("amount")),
				}),
				aggregation.PushOf("services", aggregation.Object{
					aggregation.As("serviceName", aggregation.Field("_id.serviceName")),
					aggregation.As("totalPatientService", aggregation.Field("patients")),
					aggregation.As("totalAmountService", aggregation.Field("amount")),
				}),
			},
		},
		aggregation.Lookup{
			From:         entity.CollectionClinicFeedbacks,
			LocalField:   "_id",
			ForeignField: "id",
			As:           "clinic",
		},
		aggregation.Project{
			aggregation.As("id", aggregation.Field("_id")),
			aggregation.As("name", aggregation.ArrayElemAt(aggregation.Field("clinic.name"), aggregation.Lit(0))),
			aggregation.As("totalPatients", aggregation.Field("totalPatients")),
			aggregation.As("totalAmount", aggregation.Field("totalAmount")),
			aggregation.As("doctors", aggregation.Field("doctors")),
			aggregation.As("services", aggregation.Field("services")),
			aggregation.As("feedbacks", aggregation.IfNull(
				aggregation.ArrayElemAt(aggregation.Field("clinic.FeedBackClinic"), aggregation.Lit(0)),
				aggregation.Lit(bson.A{}),
			)),
		},
	}

	rows, err := u.store.Aggregate(ctx, entity.CollectionClinicHistories, pipeline)
	if err != nil {
		u.log.Warnf("Failed to get clinic %d: %+v", clinicID, err)
		return nil, err
	}
	clinics, err := aggregation.DecodeAll[dto.ClinicDetailResponse](rows)
	if err != nil {
		u.log.Warnf("Failed to decode clinic %d: %+v", clinicID, err)
		return nil, err
	}

	for i := range clinics {
		clinics[i].Doctors = u.mergeDoctors(clinics[i].Doctors)
		clinics[i].Services = u.mergeServices(clinics[i].Services)
		if clinics[i].Feedbacks == nil {
			clinics[i].Feedbacks = []entity.FeedbackMessage{}
		}
	}
	return clinics, nil
}

// mergeDoctors folds entries of the same doctor, which the rollup emits
// once per service, and orders them by patient count.
func (u *clinicUsecase) mergeDoctors(in []dto.ClinicDoctorBreakdown) []dto.ClinicDoctorBreakdown {
	type acc struct {
		row    dto.ClinicDoctorBreakdown
		amount decimal.Decimal
	}
	var order []int
	byID := make(map[int]*acc)
	for _, d := range in {
		if d.IDDoctor == 0 {
			u.log.Warnf("Clinic transaction without a doctor id, counted under 0")
		}
		a, ok := byID[d.IDDoctor]
		if !ok {
			a = &acc{row: dto.ClinicDoctorBreakdown{IDDoctor: d.IDDoctor, DoctorName: d.DoctorName}}
			byID[d.IDDoctor] = a
			order = append(order, d.IDDoctor)
		}
		if a.row.DoctorName == "" {
			a.row.DoctorName = d.DoctorName
		}
		a.row.TotalPatientDoctor += d.TotalPatientDoctor
		a.amount = a.amount.Add(decimal.NewFromFloat(d.TotalAmountDoctor))
	}

	out := make([]dto.ClinicDoctorBreakdown, 0, len(order))
	for _, id := range order {
		a := byID[id]
		a.row.TotalAmountDoctor = a.amount.InexactFloat64()
		out = append(out, a.row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalPatientDoctor != out[j].TotalPatientDoctor {
			return out[i].TotalPatientDoctor > out[j].TotalPatientDoctor
		}
		return out[i].IDDoctor < out[j].IDDoctor
	})
	return out
}

// mergeServices folds entries of the same service, which the rollup emits
// once per doctor, and orders them by patient count.
func (u *clinicUsecase) mergeServices(in []dto.ClinicServiceBreakdown) []dto.ClinicServiceBreakdown {
	type acc struct {
		row    dto.ClinicServiceBreakdown
		amount decimal.Decimal
	}
	var order []string
	byName := make(map[string]*acc)
	for _, s := range in {
		if s.ServiceName == "" {
			u.log.Warnf("Clinic transaction without a service name, counted under \"\"")
		}
		a, ok := byName[s.ServiceName]
		if !ok {
			a = &acc{row: dto.ClinicServiceBreakdown{ServiceName: s.ServiceName}}
			byName[s.ServiceName] = a
			order = append(order, s.ServiceName)
		}
		a.row.TotalPatientService += s.TotalPatientService
		a.amount = a.amount.Add(decimal.NewFromFloat(s.TotalAmountService))
	}

	out := make([]dto.ClinicServiceBreakdown, 0, len(order))
	for _, name := range order {
		a := byName[name]
		a.row.TotalAmountService = a.amount.InexactFloat64()
		out = append(out, a.row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalPatientService != out[j].TotalPatientService {
			return out[i].TotalPatientService > out[j].TotalPatientService
		}
		return out[i].ServiceName < out[j].ServiceName
	})
	return out
}
