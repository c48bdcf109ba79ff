package usecase

import (
	"context"
	"testing"

	"medical-admin-dashboard/internal/aggregation"
	"medical-admin-dashboard/internal/delivery/dto"
	"medical-admin-dashboard/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clinicVisit(id, clinicID, doctorID int, doctorName, service string, amount interface{}) entity.Transaction {
	return entity.Transaction{
		ID:        id,
		CreatedAt: date(3, id),
		ServiceDetails: map[string]interface{}{
			"idClinic":     clinicID,
			"idDoctor":     doctorID,
			"doctorName":   doctorName,
			"servicesName": []interface{}{service},
			"amount":       amount,
		},
	}
}

func TestGetClinicByIDMergesBreakdowns(t *testing.T) {
	store := newTestStore()
	insert(t, store, entity.CollectionClinicFeedbacks, entity.ClinicFeedback{
		ID:   5,
		Name: "Klinik Sehat",
		FeedBackClinic: []entity.FeedbackMessage{
			{Message: "Bersih", CreatedAt: date(2, 1)},
		},
	})
	insert(t, store, entity.CollectionClinicHistories,
		clinicVisit(1, 5, 1, "Dr. A", "Checkup", 100),
		clinicVisit(2, 5, 1, "Dr. A", "Vaccine", 200),
		clinicVisit(3, 5, 2, "Dr. B", "Checkup", 50),
		clinicVisit(4, 6, 2, "Dr. B", "Checkup", 75),
	)
	uc := NewClinicUsecase(store, newTestPaginator(store), newTestLogger())

	clinics, err := uc.GetClinicByID(context.Background(), "5")
	require.NoError(t, err)
	require.Len(t, clinics, 1)

	clinic := clinics[0]
	assert.Equal(t, 5, clinic.ID)
	assert.Equal(t, "Klinik Sehat", clinic.Name)
	assert.Equal(t, int64(3), clinic.TotalPatients)
	assert.InDelta(t, 350.0, clinic.TotalAmount, 1e-9)
	assert.Equal(t, []dto.ClinicDoctorBreakdown{
		{IDDoctor: 1, DoctorName: "Dr. A", TotalPatientDoctor: 2, TotalAmountDoctor: 300},
		{IDDoctor: 2, DoctorName: "Dr. B", TotalPatientDoctor: 1, TotalAmountDoctor: 50},
	}, clinic.Doctors)
	assert.Equal(t, []dto.ClinicServiceBreakdown{
		{ServiceName: "Checkup", TotalPatientService: 2, TotalAmountService: 150},
		{ServiceName: "Vaccine", TotalPatientService: 1, TotalAmountService: 200},
	}, clinic.Services)
	require.Len(t, clinic.Feedbacks, 1)
	assert.Equal(t, "Bersih", clinic.Feedbacks[0].Message)
}

func TestGetClinicByIDWithoutTransactionsIsEmpty(t *testing.T) {
	store := newTestStore()
	uc := NewClinicUsecase(store, newTestPaginator(store), newTestLogger())

	for _, id := range []string{"99", "x"} {
		clinics, err := uc.GetClinicByID(context.Background(), id)
		require.NoError(t, err)
		assert.NotNil(t, clinics)
		assert.Empty(t, clinics)
	}
}

func TestQueryClinicHistories(t *testing.T) {
	store := newTestStore()
	insert(t, store, entity.CollectionClinicFeedbacks,
		entity.ClinicFeedback{ID: 5, Name: "Klinik Sehat"},
		entity.ClinicFeedback{ID: 6, Name: "Klinik Sepi"},
	)
	paid := clinicVisit(1, 5, 1, "Dr. A", "Checkup", 100)
	paid.MidtransResponse = payments("150")
	insert(t, store, entity.CollectionClinicHistories,
		paid,
		clinicVisit(2, 5, 1, "Dr. A", "Vaccine", 200),
		clinicVisit(3, 7, 2, "Dr. B", "Checkup", 50),
	)
	uc := NewClinicUsecase(store, newTestPaginator(store), newTestLogger())

	res, err := uc.QueryClinicHistories(context.Background(), aggregation.Filter{}, aggregation.Options{})
	require.NoError(t, err)

	assert.Equal(t, []dto.ClinicHistoryItem{
		{ID: 5, Name: "Klinik Sehat", TotalAmount: 350, TotalTransactions: 2},
	}, res.Results)
	assert.Equal(t, int64(1), res.TotalResults)
	assert.Equal(t, int64(3), res.TotalTransactions)
	assert.InDelta(t, 150.0, res.TotalAmountTransactions, 1e-9)
}

func TestQueryClinicHistoriesFiltersOnGroupedFields(t *testing.T) {
	store := newTestStore()
	insert(t, store, entity.CollectionClinicFeedbacks,
		entity.ClinicFeedback{ID: 5, Name: "Klinik Sehat"},
		entity.ClinicFeedback{ID: 6, Name: "Klinik Jaya"},
	)
	insert(t, store, entity.CollectionClinicHistories,
		clinicVisit(1, 5, 1, "Dr. A", "Checkup", 100),
		clinicVisit(2, 6, 1, "Dr. A", "Checkup", 100),
	)
	uc := NewClinicUsecase(store, newTestPaginator(store), newTestLogger())

	res, err := uc.QueryClinicHistories(context.Background(), aggregation.Filter{"id": 6}, aggregation.Options{})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "Klinik Jaya", res.Results[0].Name)
	assert.Equal(t, int64(1), res.TotalResults)
}
