package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/garyjia/benefit-reimbursement/internal/domain/event"
)

// ErrClosed is returned when dispatching after Close
var ErrClosed = errors.New("dispatcher is closed")

// Dispatcher routes events to registered handlers
type Dispatcher interface {
	Publisher

	// Subscribe registers a handler for an event type
	Subscribe(eventType event.Type, handler Handler)

	// SubscribeNamed registers a handler with a name for debugging
	SubscribeNamed(eventType event.Type, name string, handler Handler)

	// Unsubscribe removes a handler by name
	Unsubscribe(eventType event.Type, name string)

	// Dispatch sends event to all registered handlers synchronously
	// Returns first error encountered (handlers run in order)
	Dispatch(ctx context.Context, evt *event.Event) error

	// ListHandlers returns registered handlers for an event type
	ListHandlers(eventType event.Type) []HandlerInfo

	// Close shuts down the dispatcher and waits for async handlers
	Close() error
}

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

type eventDispatcher struct {
	mu       sync.RWMutex
	handlers map[event.Type][]HandlerInfo
	logger   Logger
	timeout  time.Duration

	// closeMu orders wg.Add in DispatchAsync before wg.Wait in Close
	closeMu sync.RWMutex
	wg      sync.WaitGroup
	closed  atomic.Bool
}

// Option configures the dispatcher
type Option func(*eventDispatcher)

// WithLogger sets a logger for the dispatcher
func WithLogger(logger Logger) Option {
	return func(d *eventDispatcher) {
		d.logger = logger
	}
}

// WithHandlerTimeout bounds each async handler run
func WithHandlerTimeout(timeout time.Duration) Option {
	return func(d *eventDispatcher) {
		d.timeout = timeout
	}
}

// NewDispatcher creates a new event dispatcher
func NewDispatcher(opts ...Option) Dispatcher {
	d := &eventDispatcher{
		handlers: make(map[event.Type][]HandlerInfo),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Subscribe registers a handler for an event type with an auto-generated name
func (d *eventDispatcher) Subscribe(eventType event.Type, handler Handler) {
	d.mu.RLock()
	name := fmt.Sprintf("%s-handler-%d", eventType, len(d.handlers[eventType]))
	d.mu.RUnlock()
	d.SubscribeNamed(eventType, name, handler)
}

// SubscribeNamed registers a handler with a specific name for debugging
func (d *eventDispatcher) SubscribeNamed(eventType event.Type, name string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers[eventType] = append(d.handlers[eventType], HandlerInfo{
		Name:      name,
		EventType: eventType,
		Handler:   handler,
	})

	d.logInfo("Handler registered", "event_type", eventType, "handler_name", name)
}

// Unsubscribe removes a handler by name
func (d *eventDispatcher) Unsubscribe(eventType event.Type, name string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	handlers := d.handlers[eventType]
	filtered := make([]HandlerInfo, 0, len(handlers))
	for _, h := range handlers {
		if h.Name != name {
			filtered = append(filtered, h)
		}
	}
	d.handlers[eventType] = filtered

	d.logInfo("Handler unregistered", "event_type", eventType, "handler_name", name)
}

// Dispatch sends event to all registered handlers synchronously
func (d *eventDispatcher) Dispatch(ctx context.Context, evt *event.Event) error {
	if d.closed.Load() {
		return ErrClosed
	}

	handlers := d.snapshot(evt.Type)
	d.logInfo("Dispatching event",
		"event_type", evt.Type,
		"event_id", evt.ID,
		"session_id", evt.SessionID,
		"handler_count", len(handlers),
	)

	for _, info := range handlers {
		if err := d.safeExecute(ctx, evt, info); err != nil {
			d.logError("Handler error",
				"event_type", evt.Type,
				"event_id", evt.ID,
				"handler_name", info.Name,
				"error", err,
			)
			return fmt.Errorf("handler %s failed: %w", info.Name, err)
		}
	}

	return nil
}

// DispatchAsync sends event to handlers asynchronously. Handlers run detached
// from ctx cancellation so a finished request does not abort them.
func (d *eventDispatcher) DispatchAsync(ctx context.Context, evt *event.Event) {
	handlers := d.snapshot(evt.Type)

	d.closeMu.RLock()
	if d.closed.Load() {
		d.closeMu.RUnlock()
		d.logError("Cannot dispatch async event, dispatcher is closed",
			"event_type", evt.Type,
			"event_id", evt.ID,
		)
		return
	}
	if len(handlers) == 0 {
		d.closeMu.RUnlock()
		return
	}
	d.wg.Add(len(handlers))
	d.closeMu.RUnlock()

	d.logInfo("Dispatching event asynchronously",
		"event_type", evt.Type,
		"event_id", evt.ID,
		"session_id", evt.SessionID,
		"handler_count", len(handlers),
	)

	base := context.WithoutCancel(ctx)
	for _, info := range handlers {
		go func(h HandlerInfo) {
			defer d.wg.Done()

			hctx := base
			if d.timeout > 0 {
				var cancel context.CancelFunc
				hctx, cancel = context.WithTimeout(base, d.timeout)
				defer cancel()
			}

			if err := d.safeExecute(hctx, evt, h); err != nil {
				d.logError("Async handler error",
					"event_type", evt.Type,
					"event_id", evt.ID,
					"handler_name", h.Name,
					"error", err,
				)
			}
		}(info)
	}
}

// ListHandlers returns registered handlers for an event type
func (d *eventDispatcher) ListHandlers(eventType event.Type) []HandlerInfo {
	handlers := d.snapshot(eventType)
	result := make([]HandlerInfo, len(handlers))
	for i, h := range handlers {
		// the handler func itself is not exposed
		result[i] = HandlerInfo{
			Name:        h.Name,
			EventType:   h.EventType,
			Description: h.Description,
		}
	}
	return result
}

// Close shuts down the dispatcher and waits for async handlers to complete
func (d *eventDispatcher) Close() error {
	d.closeMu.Lock()
	swapped := d.closed.CompareAndSwap(false, true)
	d.closeMu.Unlock()
	if !swapped {
		return fmt.Errorf("dispatcher already closed")
	}

	d.logInfo("Closing dispatcher, waiting for async handlers")
	d.wg.Wait()
	d.logInfo("Dispatcher closed")

	return nil
}

func (d *eventDispatcher) snapshot(eventType event.Type) []HandlerInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]HandlerInfo(nil), d.handlers[eventType]...)
}

// safeExecute runs a handler with panic recovery
func (d *eventDispatcher) safeExecute(ctx context.Context, evt *event.Event, info HandlerInfo) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
			d.logError("Handler panic recovered",
				"event_type", evt.Type,
				"event_id", evt.ID,
				"handler_name", info.Name,
				"panic", r,
			)
		}
	}()

	return info.Handler(ctx, evt)
}

func (d *eventDispatcher) logInfo(msg string, keysAndValues ...interface{}) {
	if d.logger != nil {
		d.logger.Info(msg, keysAndValues...)
	}
}

func (d *eventDispatcher) logError(msg string, keysAndValues ...interface{}) {
	if d.logger != nil {
		d.logger.Error(msg, keysAndValues...)
	}
}
