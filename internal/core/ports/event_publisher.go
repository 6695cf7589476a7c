package ports

import (
	"context"

	"github.com/vitrine/storefront/internal/core/domain"
)

// EventPublisher delivers domain events to the outside world.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// EventSink accepts events for asynchronous delivery. It must not block the
// request path on broker I/O.
type EventSink interface {
	Emit(event domain.Event)
}
