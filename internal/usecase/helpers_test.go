package usecase

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"medical-admin-dashboard/internal/aggregation"
	"medical-admin-dashboard/internal/delivery/dto"
	"medical-admin-dashboard/internal/domain/entity"
	"medical-admin-dashboard/internal/infrastructure/database"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestStore() *database.MemoryStore {
	return database.NewMemoryStore(newTestLogger())
}

func newTestPaginator(store *database.MemoryStore) *aggregation.Paginator {
	return aggregation.NewPaginator(store, entity.References, newTestLogger())
}

func insert(t *testing.T, store *database.MemoryStore, collection string, docs ...interface{}) {
	t.Helper()
	require.NoError(t, store.InsertMany(context.Background(), collection, docs))
}

func date(month time.Month, day int) time.Time {
	return time.Date(2024, month, day, 9, 0, 0, 0, time.UTC)
}

func payments(amounts ...interface{}) map[string]interface{} {
	list := make([]interface{}, len(amounts))
	for i, a := range amounts {
		list[i] = map[string]interface{}{"amount": a}
	}
	return map[string]interface{}{"payment_amounts": list}
}

type fakeRegistry struct {
	err   error
	calls []int
}

func (f *fakeRegistry) VerifyDoctor(_ context.Context, doctorID int, _ entity.VerificationStatus) error {
	f.calls = append(f.calls, doctorID)
	return f.err
}

type fakeReader struct {
	card  entity.OcrCard
	err   error
	calls []string
}

func (f *fakeReader) ReadCard(_ context.Context, imageURL string) (*entity.OcrCard, error) {
	f.calls = append(f.calls, imageURL)
	if f.err != nil {
		return nil, f.err
	}
	card := f.card
	return &card, nil
}

type fakeSource struct {
	dataset *entity.Dataset
	err     error
}

func (f *fakeSource) FetchDataset(context.Context) (*entity.Dataset, error) {
	return f.dataset, f.err
}

type fakeCache struct {
	mu          sync.Mutex
	report      *dto.DashboardResponse
	invalidated int
}

func (c *fakeCache) Get(context.Context) (*dto.DashboardResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.report, c.report != nil
}

func (c *fakeCache) Set(_ context.Context, report *dto.DashboardResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.report = report
	return nil
}

func (c *fakeCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.report = nil
	c.invalidated++
	return nil
}
