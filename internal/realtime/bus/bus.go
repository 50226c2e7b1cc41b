package bus

import (
	"context"

	"github.com/wakeupmh/sensory-profile-backend/internal/realtime"
)

// Bus fans SSE messages out across API instances. Each instance
// publishes job events and forwards everything it receives into its
// local hub.
type Bus interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	Close() error
}
