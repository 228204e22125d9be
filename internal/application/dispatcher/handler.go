package dispatcher

import (
	"context"

	"github.com/garyjia/benefit-reimbursement/internal/domain/event"
)

// Handler processes domain events
type Handler func(ctx context.Context, evt *event.Event) error

// HandlerInfo contains handler metadata for debugging
type HandlerInfo struct {
	Name        string
	EventType   event.Type
	Handler     Handler
	Description string
}

// Publisher is the narrow side of the dispatcher that sessions depend on
type Publisher interface {
	DispatchAsync(ctx context.Context, evt *event.Event)
}
