package http

import (
	"context"
	"net/http"
	"time"

	"medical-admin-dashboard/internal/delivery/http/handler"
	"medical-admin-dashboard/internal/delivery/http/middleware"
	"medical-admin-dashboard/pkg/response"

	"github.com/gorilla/mux"
)

// PlatformActor is recorded in the audit trail for changes pushed by the
// booking platform.
const PlatformActor = "booking-platform"

// HealthChecker reports whether the record store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Router struct {
	router           *mux.Router
	doctorHandler    *handler.DoctorHandler
	ocrHandler       *handler.DoctorOcrHandler
	clinicHandler    *handler.ClinicHandler
	feedbackHandler  *handler.FeedbackHandler
	dashboardHandler *handler.DashboardHandler
	seedHandler      *handler.SeedHandler
	auditLogHandler  *handler.AuditLogHandler
	userHandler      *handler.UserHandler
	authMiddleware   *middleware.AuthMiddleware
	corsMiddleware   *middleware.CORSMiddleware
	health           HealthChecker
}

func NewRouter(
	doctorHandler *handler.DoctorHandler,
	ocrHandler *handler.DoctorOcrHandler,
	clinicHandler *handler.ClinicHandler,
	feedbackHandler *handler.FeedbackHandler,
	dashboardHandler *handler.DashboardHandler,
	seedHandler *handler.SeedHandler,
	auditLogHandler *handler.AuditLogHandler,
	userHandler *handler.UserHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	health HealthChecker,
) *Router {
	return &Router{
		router:           mux.NewRouter(),
		doctorHandler:    doctorHandler,
		ocrHandler:       ocrHandler,
		clinicHandler:    clinicHandler,
		feedbackHandler:  feedbackHandler,
		dashboardHandler: dashboardHandler,
		seedHandler:      seedHandler,
		auditLogHandler:  auditLogHandler,
		userHandler:      userHandler,
		authMiddleware:   authMiddleware,
		corsMiddleware:   corsMiddleware,
		health:           health,
	}
}

func (r *Router) Setup() *mux.Router {
	api := r.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Called by the booking platform, which does not hold admin tokens.
	platform := api.PathPrefix("/doctors/verify").Subrouter()
	platform.Use(middleware.Actor(PlatformActor))
	platform.HandleFunc("/{id}", r.doctorHandler.VerifyDoctor).Methods(http.MethodPatch, http.MethodOptions)

	admin := api.NewRoute().Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	// Doctors
	admin.HandleFunc("/doctors", r.doctorHandler.QueryDoctors).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/ocr", r.ocrHandler.ReadCard).Methods(http.MethodPost)
	admin.HandleFunc("/doctors/ocr/db", r.ocrHandler.ReadCachedCard).Methods(http.MethodPost)
	admin.HandleFunc("/doctors/ocr", r.ocrHandler.EditCard).Methods(http.MethodPatch)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)

	// Clinics
	admin.HandleFunc("/clinics", r.clinicHandler.QueryClinics).Methods(http.MethodGet)
	admin.HandleFunc("/clinics/{id}", r.clinicHandler.GetClinic).Methods(http.MethodGet)

	// Feedbacks
	admin.HandleFunc("/feedbacks/clinic", r.feedbackHandler.QueryClinicFeedbacks).Methods(http.MethodGet)
	admin.HandleFunc("/feedbacks/doctor", r.feedbackHandler.QueryDoctorFeedbacks).Methods(http.MethodGet)
	admin.HandleFunc("/feedbacks/clinic/{id}", r.feedbackHandler.GetClinicFeedbacks).Methods(http.MethodGet)
	admin.HandleFunc("/feedbacks/doctor/{id}", r.feedbackHandler.GetDoctorFeedbacks).Methods(http.MethodGet)

	// Dashboard and seeding
	admin.HandleFunc("/dashboard", r.dashboardHandler.GetDashboard).Methods(http.MethodGet)
	admin.HandleFunc("/seed", r.seedHandler.Seed).Methods(http.MethodPost)
	admin.HandleFunc("/seed/latest", r.seedHandler.Latest).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.QueryAuditLogs).Methods(http.MethodGet)

	// Users
	admin.HandleFunc("/users", r.userHandler.QueryUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users", r.userHandler.CreateUser).Methods(http.MethodPost)
	admin.HandleFunc("/users/{id}", r.userHandler.GetUser).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id}", r.userHandler.UpdateUser).Methods(http.MethodPatch)
	admin.HandleFunc("/users/{id}", r.userHandler.DeleteUser).Methods(http.MethodDelete)

	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
	defer cancel()

	if err := r.health.Ping(ctx); err != nil {
		response.Error(w, http.StatusServiceUnavailable, "Record store unavailable", nil)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
