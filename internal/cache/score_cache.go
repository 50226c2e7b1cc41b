package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/logger"
	"github.com/wakeupmh/sensory-profile-backend/internal/platform/envutil"
	"github.com/wakeupmh/sensory-profile-backend/internal/scoring"
)

// ScoreCache keeps computed scoring results keyed by assessment so
// repeated result reads skip the recompute. Entries are invalidated
// whenever responses change.
type ScoreCache interface {
	GetResults(ctx context.Context, assessmentID uuid.UUID) (*scoring.Results, bool, error)
	SetResults(ctx context.Context, assessmentID uuid.UUID, results scoring.Results) error
	Invalidate(ctx context.Context, assessmentID uuid.UUID) error
}

type scoreCache struct {
	client *goredis.Client
	ttl    time.Duration
	log    *logger.Logger
}

func NewScoreCache(client *goredis.Client, baseLog *logger.Logger) ScoreCache {
	ttlSeconds := envutil.GetEnvAsInt("SCORE_CACHE_TTL_SECONDS", 3600)
	return &scoreCache{
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
		log:    baseLog.With("service", "ScoreCache"),
	}
}

func (c *scoreCache) resultsKey(assessmentID uuid.UUID) string {
	return fmt.Sprintf("sp:score:%s", assessmentID)
}

func (c *scoreCache) GetResults(ctx context.Context, assessmentID uuid.UUID) (*scoring.Results, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, nil
	}
	data, err := c.client.Get(ctx, c.resultsKey(assessmentID)).Result()
	if err == goredis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var results scoring.Results
	if err := json.Unmarshal([]byte(data), &results); err != nil {
		// A corrupt entry is treated as a miss; the caller recomputes
		// and overwrites it.
		c.log.Warn("corrupt score cache entry", "assessment_id", assessmentID.String(), "error", err)
		return nil, false, nil
	}
	return &results, true, nil
}

func (c *scoreCache) SetResults(ctx context.Context, assessmentID uuid.UUID, results scoring.Results) error {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := json.Marshal(results)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.resultsKey(assessmentID), data, c.ttl).Err()
}

func (c *scoreCache) Invalidate(ctx context.Context, assessmentID uuid.UUID) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.resultsKey(assessmentID)).Err()
}
