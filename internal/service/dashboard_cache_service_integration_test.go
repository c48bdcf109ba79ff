//go:build integration

package service

import (
	"context"
	"testing"
	"time"

	"medical-admin-dashboard/internal/delivery/dto"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping Redis integration test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

func TestRedisReportCache(t *testing.T) {
	ctx := context.Background()
	c := NewRedisReportCache(setupRedis(t), time.Minute, quietLogger())

	_, ok := c.Get(ctx)
	assert.False(t, ok)

	report := &dto.DashboardResponse{
		ClinicCount:                3,
		TotalAmountFromClinic:      3500.5,
		DoctorCount:                []dto.VerificationStatusCount{{VerificationStatus: "verified", Count: 2}},
		LatestFeedbacks:            []dto.LatestFeedback{},
		PopularServices:            []dto.PopularService{},
		TotalTransactionsEachMonth: []dto.MonthlyTransaction{{Month: "March", TotalRevenue: 3500.5}},
		Notification:               []dto.PendingVerification{},
	}
	require.NoError(t, c.Set(ctx, report))

	cached, ok := c.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, report, cached)

	require.NoError(t, c.Invalidate(ctx))
	_, ok = c.Get(ctx)
	assert.False(t, ok)
}
