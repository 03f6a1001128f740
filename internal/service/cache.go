package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/roeeblo/smart-job-tracker/internal/dto"
	"github.com/roeeblo/smart-job-tracker/pkg/logger"
	"github.com/roeeblo/smart-job-tracker/pkg/redis"
)

// JobCache keeps each user's job list in Redis. Cache errors are
// logged and swallowed; the database stays the source of truth.
type JobCache struct {
	client redis.Client
	ttl    time.Duration
}

func NewJobCache(client redis.Client, ttl time.Duration) *JobCache {
	return &JobCache{client: client, ttl: ttl}
}

func jobListKey(userID uint) string {
	return fmt.Sprintf("jobs:user:%d", userID)
}

func (c *JobCache) GetList(ctx context.Context, userID uint) ([]dto.JobResponse, bool) {
	if !c.client.IsEnabled() {
		return nil, false
	}

	data, found, err := c.client.Get(ctx, jobListKey(userID))
	if err != nil {
		logger.GetLogger().Warn("job cache read failed",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return nil, false
	}
	if !found {
		return nil, false
	}

	var jobs []dto.JobResponse
	if err := json.Unmarshal(data, &jobs); err != nil {
		// Stale or corrupt entry, drop it.
		_ = c.client.Delete(ctx, jobListKey(userID))
		return nil, false
	}
	return jobs, true
}

func (c *JobCache) SetList(ctx context.Context, userID uint, jobs []dto.JobResponse) {
	if !c.client.IsEnabled() {
		return
	}

	data, err := json.Marshal(jobs)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, jobListKey(userID), data, c.ttl); err != nil {
		logger.GetLogger().Warn("job cache write failed",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
	}
}

// Invalidate drops the cached list after any write to the user's jobs.
func (c *JobCache) Invalidate(ctx context.Context, userID uint) {
	if !c.client.IsEnabled() {
		return
	}
	if err := c.client.Delete(ctx, jobListKey(userID)); err != nil {
		logger.GetLogger().Warn("job cache invalidation failed",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
	}
}
