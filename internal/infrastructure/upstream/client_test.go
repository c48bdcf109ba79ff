package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medical-admin-dashboard/config"
	"medical-admin-dashboard/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestVerifyDoctor(t *testing.T) {
	var (
		gotMethod, gotPath, gotKey string
		gotBody                    map[string]string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotKey = r.Method, r.URL.Path, r.Header.Get("x-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(config.UpstreamConfig{APIKey: "k3y", VerifyDoctorURL: srv.URL + "/doctors/verify/"}, quietLogger())
	require.NoError(t, c.VerifyDoctor(context.Background(), 12, entity.VerificationStatusVerified))

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/doctors/verify/12", gotPath)
	assert.Equal(t, "k3y", gotKey)
	assert.Equal(t, map[string]string{"verificationStatus": "verified"}, gotBody)
}

func TestVerifyDoctorReportsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "doctor locked", http.StatusConflict)
	}))
	defer srv.Close()

	c := NewClient(config.UpstreamConfig{VerifyDoctorURL: srv.URL}, quietLogger())
	err := c.VerifyDoctor(context.Background(), 1, entity.VerificationStatusVerified)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusConflict, statusErr.StatusCode)
	assert.Equal(t, "doctor locked", statusErr.Body)
}

func TestReadCardRenamesFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Empty(t, r.Header.Get("x-api-key"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "https://cdn.example.com/card.png", body["image_url"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"NAMA": "BUDI SANTOSO",
			"NIK": "3171234567890001",
			"Tempat Tanggal Lahir": "JAKARTA, 01-01-1980",
			"ALAMAT": "JL. MERDEKA NO. 1",
			"JENIS KELAMIN": "LAKI-LAKI"
		}`)
	}))
	defer srv.Close()

	c := NewClient(config.UpstreamConfig{APIKey: "k3y", OcrURL: srv.URL}, quietLogger())
	card, err := c.ReadCard(context.Background(), "https://cdn.example.com/card.png")
	require.NoError(t, err)
	assert.Equal(t, &entity.OcrCard{
		Nama:               "BUDI SANTOSO",
		NIK:                "3171234567890001",
		TempatTanggalLahir: "JAKARTA, 01-01-1980",
		Alamat:             "JL. MERDEKA NO. 1",
		JenisKelamin:       "LAKI-LAKI",
	}, card)
}

func datasetServer(t *testing.T, failing string) *httptest.Server {
	t.Helper()
	payloads := map[string]string{
		"/doctors":               `{"data":[{"id":1,"name":"Dr. A","consultationPrice":"50000"}]}`,
		"/doctor-feedbacks":      `{"data":[{"id":1,"name":"Dr. A","feedBackDoctor":[{"message":"Ramah","createdAt":"2024-03-02T09:00:00Z"}]}]}`,
		"/doctor-profiles":       `{"data":[{"idDoctor":1,"doctorName":"Dr. A","verificationStatus":"unverified"}]}`,
		"/clinic-histories":      `{"data":[{"id":10,"serviceDetails":{"idClinic":5,"amount":2000},"createdAt":"2024-03-10T09:00:00Z"}]}`,
		"/consultation-histories": `{"data":[]}`,
		"/clinic-feedbacks":      `{"data":[{"id":5,"name":"Klinik Sehat","FeedBackClinic":[]}]}`,
	}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k3y", r.Header.Get("x-api-key"))
		if r.URL.Path == failing {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		payload, ok := payloads[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, payload)
	}))
}

func datasetConfig(base string) config.UpstreamConfig {
	return config.UpstreamConfig{
		APIKey:                   "k3y",
		Timeout:                  5 * time.Second,
		DoctorsURL:               base + "/doctors",
		DoctorFeedbacksURL:       base + "/doctor-feedbacks",
		DoctorProfilesURL:        base + "/doctor-profiles",
		ClinicHistoriesURL:       base + "/clinic-histories",
		ConsultationHistoriesURL: base + "/consultation-histories",
		ClinicFeedbacksURL:       base + "/clinic-feedbacks",
	}
}

func TestFetchDataset(t *testing.T) {
	srv := datasetServer(t, "")
	defer srv.Close()

	d, err := NewClient(datasetConfig(srv.URL), quietLogger()).FetchDataset(context.Background())
	require.NoError(t, err)

	require.Len(t, d.Doctors, 1)
	assert.Equal(t, "50000", d.Doctors[0].ConsultationPrice)
	require.Len(t, d.DoctorFeedbacks, 1)
	assert.Equal(t, "Ramah", d.DoctorFeedbacks[0].FeedBackDoctor[0].Message)
	require.Len(t, d.DoctorProfiles, 1)
	assert.Equal(t, entity.VerificationStatusUnverified, d.DoctorProfiles[0].VerificationStatus)
	require.Len(t, d.ClinicHistories, 1)
	assert.Equal(t, time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC), d.ClinicHistories[0].CreatedAt.UTC())
	assert.Empty(t, d.ConsultationHistories)
	require.Len(t, d.ClinicFeedbacks, 1)
	assert.Equal(t, "Klinik Sehat", d.ClinicFeedbacks[0].Name)
}

func TestFetchDatasetFailsAsAWhole(t *testing.T) {
	srv := datasetServer(t, "/clinic-histories")
	defer srv.Close()

	_, err := NewClient(datasetConfig(srv.URL), quietLogger()).FetchDataset(context.Background())
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
}

func TestMissingURL(t *testing.T) {
	err := NewClient(config.UpstreamConfig{}, quietLogger()).VerifyDoctor(context.Background(), 1, entity.VerificationStatusVerified)
	assert.Error(t, err)
}
