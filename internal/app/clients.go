package app

import (
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/wakeupmh/sensory-profile-backend/internal/pkg/logger"
	"github.com/wakeupmh/sensory-profile-backend/internal/platform/gcs"
	"github.com/wakeupmh/sensory-profile-backend/internal/platform/redisclient"
	"github.com/wakeupmh/sensory-profile-backend/internal/realtime/bus"
)

type Clients struct {
	Redis  *goredis.Client
	SSEBus bus.Bus
	Bucket gcs.BucketService
}

// wireClients connects the external services. Redis is optional: with
// no REDIS_ADDR the score cache degrades to miss-always and SSE events
// stay on the local hub. The report bucket is mandatory.
func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	var rdb *goredis.Client
	var sseBus bus.Bus
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		r, err := redisclient.NewClient(log)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis client: %w", err)
		}
		rdb = r

		b, err := bus.NewRedisBus(log)
		if err != nil {
			_ = rdb.Close()
			return Clients{}, fmt.Errorf("init redis SSE bus: %w", err)
		}
		sseBus = b
	}

	bucket, err := gcs.NewBucketService(log)
	if err != nil {
		if sseBus != nil {
			_ = sseBus.Close()
		}
		if rdb != nil {
			_ = rdb.Close()
		}
		return Clients{}, fmt.Errorf("init bucket client: %w", err)
	}

	return Clients{
		Redis:  rdb,
		SSEBus: sseBus,
		Bucket: bucket,
	}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.SSEBus != nil {
		_ = c.SSEBus.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
