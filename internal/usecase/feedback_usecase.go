package usecase

import (
	"context"

	"medical-admin-dashboard/internal/aggregation"
	"medical-admin-dashboard/internal/delivery/dto"
	"medical-admin-dashboard/internal/domain/entity"
	"medical-admin-dashboard/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const feedbackSortBy = "createdAt:desc"

type FeedbackUsecase interface {
	QueryClinicFeedbacks(ctx context.Context, filter aggregation.Filter, opts aggregation.Options) (*dto.FeedbackListResponse, error)
	QueryDoctorFeedbacks(ctx context.Context, filter aggregation.Filter, opts aggregation.Options) (*dto.FeedbackListResponse, error)
	GetClinicFeedbackByID(ctx context.Context, id string) ([]dto.FeedbackEntryResponse, error)
	GetDoctorFeedbackByID(ctx context.Context, id string) ([]dto.FeedbackEntryResponse, error)
}

type feedbackUsecase struct {
	store     repository.RecordStore
	paginator *aggregation.Paginator
	log       *logrus.Logger
}

func NewFeedbackUsecase(store repository.RecordStore, paginator *aggregation.Paginator, log *logrus.Logger) FeedbackUsecase {
	return &feedbackUsecase{
		store:     store,
		paginator: paginator,
		log:       log,
	}
}

// feedbackSource names where a subject's feedback entries are embedded.
type feedbackSource struct {
	collection string
	entries    string
}

var (
	clinicFeedbackSource = feedbackSource{collection: entity.CollectionClinicFeedbacks, entries: "FeedBackClinic"}
	doctorFeedbackSource = feedbackSource{collection: entity.CollectionDoctorFeedbacks, entries: "feedBackDoctor"}
)

// entryPipeline turns each embedded feedback entry into its own row.
func (s feedbackSource) entryPipeline() aggregation.Pipeline {
	return aggregation.Pipeline{
		aggregation.Unwind{Path: s.entries},
		aggregation.Project{
			aggregation.As("id", aggregation.Field("id")),
			aggregation.As("name", aggregation.Field("name")),
			aggregation.As("feedback", aggregation.Field(s.entries+".message")),
			aggregation.As("createdAt", aggregation.Field(s.entries+".createdAt")),
		},
	}
}

func (u *feedbackUsecase) QueryClinicFeedbacks(ctx context.Context, filter aggregation.Filter, opts aggregation.Options) (*dto.FeedbackListResponse, error) {
	return u.queryFeedbacks(ctx, clinicFeedbackSource, filter, opts)
}

func (u *feedbackUsecase) QueryDoctorFeedbacks(ctx context.Context, filter aggregation.Filter, opts aggregation.Options) (*dto.FeedbackListResponse, error) {
	return u.queryFeedbacks(ctx, doctorFeedbackSource, filter, opts)
}

func (u *feedbackUsecase) GetClinicFeedbackByID(ctx context.Context, id string) ([]dto.FeedbackEntryResponse, error) {
	return u.getFeedbacks(ctx, clinicFeedbackSource, id)
}

func (u *feedbackUsecase) GetDoctorFeedbackByID(ctx context.Context, id string) ([]dto.FeedbackEntryResponse, error) {
	return u.getFeedbacks(ctx, doctorFeedbackSource, id)
}

// queryFeedbacks pages through feedback entries, newest first unless the
// caller sorts otherwise. TotalFeedbacks counts every entry of every subject.
func (u *feedbackUsecase) queryFeedbacks(ctx context.Context, src feedbackSource, filter aggregation.Filter, opts aggregation.Options) (*dto.FeedbackListResponse, error) {
	if opts.SortBy == "" {
		opts.SortBy = feedbackSortBy
	}

	var (
		page  *aggregation.QueryResult[dto.FeedbackEntryResponse]
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		page, err = aggregation.Paginate[dto.FeedbackEntryResponse](gctx, u.paginator, aggregation.Query{
			Collection: src.collection,
			Pipeline:   src.entryPipeline(),
			Filter:     filter,
			Options:    opts,
			TieBreak:   []string{"id", "feedback"},
		})
		return err
	})
	g.Go(func() error {
		var err error
		total, err = countRows(gctx, u.store, src.collection, aggregation.Pipeline{aggregation.Unwind{Path: src.entries}})
		return err
	})
	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to query %s: %+v", src.collection, err)
		return nil, err
	}

	return &dto.FeedbackListResponse{
		QueryResult:    *page,
		TotalFeedbacks: total,
	}, nil
}

// getFeedbacks lists one subject's entries, newest first. An unknown
// subject is ErrFeedbackSubjectNotFound; a known subject without feedback
// yields an empty list.
func (u *feedbackUsecase) getFeedbacks(ctx context.Context, src feedbackSource, id string) ([]dto.FeedbackEntryResponse, error) {
	subjectID, ok := parseID(id)
	if !ok {
		return nil, ErrFeedbackSubjectNotFound
	}

	n, err := u.store.Count(ctx, src.collection, aggregation.Filter{"id": subjectID})
	if err != nil {
		u.log.Warnf("Failed to count %s: %+v", src.collection, err)
		return nil, err
	}
	if n == 0 {
		return nil, ErrFeedbackSubjectNotFound
	}

	pipeline := aggregation.Pipeline{aggregation.Match{Filter: aggregation.Filter{"id": subjectID}}}
	pipeline = pipeline.With(src.entryPipeline()...)
	pipeline = pipeline.With(aggregation.Sort{{Field: "createdAt", Desc: true}, {Field: "feedback"}})

	rows, err := u.store.Aggregate(ctx, src.collection, pipeline)
	if err != nil {
		u.log.Warnf("Failed to get %s of %d: %+v", src.collection, subjectID, err)
		return nil, err
	}
	return aggregation.DecodeAll[dto.FeedbackEntryResponse](rows)
}
