package services

import (
	"context"

	"github.com/wakeupmh/sensory-profile-backend/internal/realtime"
	"github.com/wakeupmh/sensory-profile-backend/internal/realtime/bus"
)

// SSEEmitter abstracts where job events go: straight into the local hub
// for single-instance deployments, or through Redis pub/sub when several
// API instances share subscribers.
type SSEEmitter interface {
	Emit(ctx context.Context, msg realtime.SSEMessage)
}

type HubEmitter struct{ Hub *realtime.SSEHub }

func (e *HubEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	e.Hub.Broadcast(msg)
}

type RedisEmitter struct{ Bus bus.Bus }

func (e *RedisEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	_ = e.Bus.Publish(ctx, msg)
}
