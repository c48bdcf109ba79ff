package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"medical-admin-dashboard/internal/delivery/dto"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	dashboardCacheKey     = "dashboard:report"
	dashboardCacheTimeout = 2 * time.Second
)

// ReportCache holds the last computed dashboard report.
type ReportCache interface {
	Get(ctx context.Context) (*dto.DashboardResponse, bool)
	Set(ctx context.Context, report *dto.DashboardResponse) error
	Invalidate(ctx context.Context) error
}

type redisReportCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

func NewRedisReportCache(client *redis.Client, ttl time.Duration, log *logrus.Logger) ReportCache {
	return &redisReportCache{client: client, ttl: ttl, log: log}
}

// Get treats every Redis failure as a miss so the dashboard can still be
// computed from the store.
func (c *redisReportCache) Get(ctx context.Context) (*dto.DashboardResponse, bool) {
	ctx, cancel := context.WithTimeout(ctx, dashboardCacheTimeout)
	defer cancel()

	raw, err := c.client.Get(ctx, dashboardCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warnf("Failed to read dashboard cache: %+v", err)
		}
		return nil, false
	}

	var report dto.DashboardResponse
	if err := json.Unmarshal(raw, &report); err != nil {
		c.log.Warnf("Failed to decode dashboard cache: %+v", err)
		return nil, false
	}
	return &report, true
}

func (c *redisReportCache) Set(ctx context.Context, report *dto.DashboardResponse) error {
	ctx, cancel := context.WithTimeout(ctx, dashboardCacheTimeout)
	defer cancel()

	raw, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, dashboardCacheKey, raw, c.ttl).Err()
}

func (c *redisReportCache) Invalidate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, dashboardCacheTimeout)
	defer cancel()

	return c.client.Del(ctx, dashboardCacheKey).Err()
}

type noopReportCache struct{}

// NewNoopReportCache returns a cache that never holds anything.
func NewNoopReportCache() ReportCache {
	return noopReportCache{}
}

func (noopReportCache) Get(context.Context) (*dto.DashboardResponse, bool) { return nil, false }

func (noopReportCache) Set(context.Context, *dto.DashboardResponse) error { return nil }

func (noopReportCache) Invalidate(context.Context) error { return nil }
