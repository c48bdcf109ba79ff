package handler

import (
	"context"
	"net/http"

	"medical-admin-dashboard/internal/aggregation"
	"medical-admin-dashboard/internal/converter"
	"medical-admin-dashboard/internal/delivery/dto"
	"medical-admin-dashboard/internal/usecase"
	"medical-admin-dashboard/pkg/response"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

var feedbackFilterKeys = []string{"id", "name"}

type FeedbackHandler struct {
	feedbackUsecase usecase.FeedbackUsecase
	log             *logrus.Logger
}

func NewFeedbackHandler(feedbackUsecase usecase.FeedbackUsecase, log *logrus.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackUsecase: feedbackUsecase,
		log:             log,
	}
}

func (h *FeedbackHandler) QueryClinicFeedbacks(w http.ResponseWriter, r *http.Request) {
	h.query(w, r, h.feedbackUsecase.QueryClinicFeedbacks)
}

func (h *FeedbackHandler) QueryDoctorFeedbacks(w http.ResponseWriter, r *http.Request) {
	h.query(w, r, h.feedbackUsecase.QueryDoctorFeedbacks)
}

func (h *FeedbackHandler) GetClinicFeedbacks(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, h.feedbackUsecase.GetClinicFeedbackByID)
}

func (h *FeedbackHandler) GetDoctorFeedbacks(w http.ResponseWriter, r *http.Request) {
	h.get(w, r, h.feedbackUsecase.GetDoctorFeedbackByID)
}

type feedbackQueryFunc func(context.Context, aggregation.Filter, aggregation.Options) (*dto.FeedbackListResponse, error)

func (h *FeedbackHandler) query(w http.ResponseWriter, r *http.Request, fn feedbackQueryFunc) {
	query := r.URL.Query()
	feedbacks, err := fn(r.Context(),
		converter.QueryToFilter(query, feedbackFilterKeys...),
		converter.QueryToOptions(query))
	if err != nil {
		writeUsecaseError(w, h.log, err, "Failed to get feedbacks")
		return
	}

	response.Success(w, http.StatusOK, "Feedbacks retrieved successfully", feedbacks)
}

func (h *FeedbackHandler) get(w http.ResponseWriter, r *http.Request, fn func(context.Context, string) ([]dto.FeedbackEntryResponse, error)) {
	feedbacks, err := fn(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeUsecaseError(w, h.log, err, "Failed to get feedbacks")
		return
	}

	response.Success(w, http.StatusOK, "Feedbacks retrieved successfully", feedbacks)
}
