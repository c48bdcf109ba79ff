package usecase

import (
	"context"
	"testing"

	"medical-admin-dashboard/internal/delivery/dto"
	"medical-admin-dashboard/internal/domain/entity"
	"medical-admin-dashboard/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardOnEmptyStoreIsZeroed(t *testing.T) {
	uc := NewDashboardUsecase(newTestStore(), newTestLogger(), service.NewNoopReportCache())

	report, err := uc.GetDashboardData(context.Background())
	require.NoError(t, err)

	assert.Equal(t, &dto.DashboardResponse{
		DoctorCount:                []dto.VerificationStatusCount{},
		LatestFeedbacks:            []dto.LatestFeedback{},
		PopularServices:            []dto.PopularService{},
		TotalTransactionsEachMonth: []dto.MonthlyTransaction{},
		Notification:               []dto.PendingVerification{},
	}, report)
}

func TestDashboardReport(t *testing.T) {
	store := newTestStore()
	seedFeedbacks(t, store)
	insert(t, store, entity.CollectionDoctorProfiles,
		entity.DoctorProfile{IDDoctor: 1, DoctorName: "Dr. A", VerificationStatus: entity.VerificationStatusUnverified},
		entity.DoctorProfile{IDDoctor: 2, DoctorName: "Dr. B", VerificationStatus: entity.VerificationStatusVerified},
		entity.DoctorProfile{IDDoctor: 3, DoctorName: "Dr. C", VerificationStatus: "pending"},
	)
	paid := clinicVisit(1, 5, 1, "Dr. A", "Checkup", 100)
	paid.MidtransResponse = payments("1500.50")
	paid.ServiceDetails["servicesName"] = []interface{}{"Checkup", "Vaccine"}
	insert(t, store, entity.CollectionClinicHistories,
		paid,
		clinicVisit(20, 5, 2, "Dr. B", "Checkup", 2000),
	)
	insert(t, store, entity.CollectionConsultationHistories,
		entity.Transaction{
			ID:               7,
			CreatedAt:        date(1, 5),
			ServiceDetails:   map[string]interface{}{"id": 1, "amount": 999},
			MidtransResponse: payments("100"),
		},
		entity.Transaction{
			ID:             8,
			CreatedAt:      date(1, 9),
			ServiceDetails: map[string]interface{}{"id": 2, "amount": 50},
		},
	)
	uc := NewDashboardUsecase(store, newTestLogger(), service.NewNoopReportCache())

	report, err := uc.GetDashboardData(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []dto.VerificationStatusCount{
		{VerificationStatus: entity.VerificationStatusUnverified, Count: 1},
		{VerificationStatus: entity.VerificationStatusVerified, Count: 1},
	}, report.DoctorCount)
	assert.Equal(t, int64(2), report.ClinicCount)
	assert.Equal(t, int64(2), report.ClinicPatientsCount)
	assert.Equal(t, int64(2), report.ConsultationPatientsCount)
	assert.InDelta(t, 3500.5, report.TotalAmountFromClinic, 1e-9)
	assert.InDelta(t, 100.0, report.TotalAmountFromConsultation, 1e-9)

	require.Len(t, report.LatestFeedbacks, 3)
	assert.Equal(t, dto.LatestFeedback{Name: "Dr. A", Feedback: "Ramah", CreatedAt: date(3, 2)}, report.LatestFeedbacks[0])
	assert.Equal(t, "Nyaman", report.LatestFeedbacks[1].Feedback)
	assert.Equal(t, "Bersih", report.LatestFeedbacks[2].Feedback)

	assert.Equal(t, []dto.PopularService{
		{ServiceName: "Checkup", TimesBooked: 2},
		{ServiceName: "Vaccine", TimesBooked: 1},
	}, report.PopularServices)

	assert.Equal(t, []dto.MonthlyTransaction{
		{Month: "January", TotalRevenue: 150},
		{Month: "March", TotalRevenue: 3500.5},
	}, report.TotalTransactionsEachMonth)

	assert.Equal(t, []dto.PendingVerification{
		{DoctorName: "Dr. A"},
		{DoctorName: "Dr. C"},
	}, report.Notification)
}

func TestDashboardUsesCache(t *testing.T) {
	cached := &dto.DashboardResponse{ClinicCount: 42}
	cache := &fakeCache{report: cached}
	uc := NewDashboardUsecase(newTestStore(), newTestLogger(), cache)

	report, err := uc.GetDashboardData(context.Background())
	require.NoError(t, err)
	assert.Same(t, cached, report)

	require.NoError(t, cache.Invalidate(context.Background()))
	report, err = uc.GetDashboardData(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.ClinicCount)
	assert.Same(t, report, cache.report)
}
