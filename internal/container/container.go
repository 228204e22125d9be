package container

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/garyjia/benefit-reimbursement/internal/application/dispatcher"
	"github.com/garyjia/benefit-reimbursement/internal/application/port"
	"github.com/garyjia/benefit-reimbursement/internal/application/submission"
	"github.com/garyjia/benefit-reimbursement/internal/config"
	"github.com/garyjia/benefit-reimbursement/internal/directory"
	"github.com/garyjia/benefit-reimbursement/internal/infrastructure/engine"
	"github.com/garyjia/benefit-reimbursement/internal/infrastructure/external/lark"
	"github.com/garyjia/benefit-reimbursement/pkg/database"
)

// Container manages all application dependencies and lifecycle.
// Components start in dependency order and stop in reverse.
type Container struct {
	config *config.Config
	logger *zap.Logger

	// Infrastructure
	db        *database.DB
	journal   port.JournalRepository
	engine    *engine.Client
	messenger *lark.Messenger

	// Application
	directory  *directory.Directory
	services   *ServiceBundle
	dispatcher dispatcher.Dispatcher
	registry   *submission.Registry

	// Lifecycle
	mu      sync.RWMutex
	ctx     context.Context
	cancel  context.CancelFunc
	runDone chan struct{}
	ready   atomic.Bool
	closed  atomic.Bool
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components:
// 1. Journal database
// 2. Engine client and Lark messenger
// 3. Directory and application services
// 4. Event dispatcher and handlers
// 5. Session registry and its sweeper
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)
	c.logger.Info("Starting container initialization")

	if err := c.initDatabase(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.logger.Info("Database initialized")

	if err := c.initExternalClients(); err != nil {
		c.rollback()
		return fmt.Errorf("failed to initialize external clients: %w", err)
	}
	c.logger.Info("External clients initialized")

	if err := c.initServices(); err != nil {
		c.rollback()
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	c.logger.Info("Application services initialized")

	if err := c.initDispatcher(); err != nil {
		c.rollback()
		return fmt.Errorf("failed to initialize dispatcher: %w", err)
	}
	c.logger.Info("Dispatcher initialized")

	c.initSessions()
	c.logger.Info("Session registry started")

	c.ready.Store(true)
	c.logger.Info("Container started successfully")
	return nil
}

// Close gracefully shuts down all components in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")
	var errs []error

	// Stops the sweeper, which abandons every live session
	if c.cancel != nil {
		c.cancel()
	}
	if c.runDone != nil {
		<-c.runDone
		c.logger.Info("Session registry stopped")
	}

	if c.dispatcher != nil {
		if err := c.dispatcher.Close(); err != nil {
			c.logger.Error("Failed to close dispatcher", zap.Error(err))
			errs = append(errs, fmt.Errorf("close dispatcher: %w", err))
		} else {
			c.logger.Info("Dispatcher closed")
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			c.logger.Error("Failed to close database", zap.Error(err))
			errs = append(errs, fmt.Errorf("close database: %w", err))
		} else {
			c.logger.Info("Database closed")
		}
	}

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		c.logger.Error("Container closed with errors", zap.Int("error_count", len(errs)))
		return fmt.Errorf("container closed with %d errors", len(errs))
	}

	c.logger.Info("Container closed successfully")
	return nil
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components.
func (c *Container) Health(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}

	if c.db != nil {
		if err := c.db.PingContext(ctx); err != nil {
			status.Components["database"] = ComponentHealth{
				Healthy: false,
				Message: fmt.Sprintf("ping failed: %v", err),
			}
			status.Overall = false
		} else {
			status.Components["database"] = ComponentHealth{Healthy: true}
		}
	} else {
		status.Components["database"] = ComponentHealth{Healthy: false, Message: "not initialized"}
		status.Overall = false
	}

	// The directory loads lazily, so an unloaded one is reported but not fatal
	if c.directory != nil && c.directory.Loaded() {
		status.Components["directory"] = ComponentHealth{
			Healthy: true,
			Message: fmt.Sprintf("employees: %d", len(c.directory.List())),
		}
	} else {
		status.Components["directory"] = ComponentHealth{Healthy: true, Message: "not loaded"}
	}

	if c.registry != nil {
		status.Components["sessions"] = ComponentHealth{
			Healthy: true,
			Message: fmt.Sprintf("active: %d", c.registry.Len()),
		}
	} else {
		status.Components["sessions"] = ComponentHealth{Healthy: false, Message: "not initialized"}
		status.Overall = false
	}

	if c.dispatcher != nil {
		status.Components["dispatcher"] = ComponentHealth{Healthy: true}
	} else {
		status.Components["dispatcher"] = ComponentHealth{Healthy: false, Message: "not initialized"}
		status.Overall = false
	}

	return status
}

func (c *Container) initDatabase() error {
	bundle, err := ProvideDatabase(c.ctx, c.config.DatabaseConfig(), c.logger)
	if err != nil {
		return err
	}
	c.db = bundle.DB
	c.journal = bundle.Journal
	return nil
}

func (c *Container) initExternalClients() error {
	client, err := ProvideEngine(c.config.EngineConfig(), c.logger)
	if err != nil {
		return err
	}
	c.engine = client

	messenger, err := ProvideMessenger(&c.config.Lark, c.config.LarkClientConfig(), c.logger)
	if err != nil {
		return err
	}
	c.messenger = messenger
	return nil
}

func (c *Container) initServices() error {
	services, err := ProvideServices(c.engine, c.logger)
	if err != nil {
		return err
	}
	c.services = services

	c.directory = directory.New(c.engine, c.logger)
	// The engine may still be starting; Resolve reports ErrNotLoaded until a
	// later Load succeeds.
	if err := c.directory.Load(c.ctx); err != nil {
		c.logger.Warn("Employee directory not loaded", zap.Error(err))
	}
	return nil
}

func (c *Container) initDispatcher() error {
	disp, err := ProvideDispatcher(c.logger)
	if err != nil {
		return err
	}
	c.dispatcher = disp

	return RegisterHandlers(&HandlerDeps{
		Dispatcher:   c.dispatcher,
		Journal:      c.journal,
		Messenger:    c.messenger,
		ReviewChatID: c.config.Lark.ReviewChatID,
		Presenter:    c.services.Presenter,
		Logger:       c.logger,
	})
}

func (c *Container) initSessions() {
	c.registry = submission.NewRegistry(c.engine, c.dispatcher, c.logger, c.config.RegistryConfig())
	c.runDone = make(chan struct{})
	go func() {
		defer close(c.runDone)
		c.registry.Run(c.ctx)
	}()
}

// rollback releases what a failed Start already opened.
func (c *Container) rollback() {
	if c.cancel != nil {
		c.cancel()
	}
	if c.db != nil {
		c.db.Close()
		c.db = nil
	}
}

// Getters for accessing container components

// Engine returns the decision engine client.
func (c *Container) Engine() *engine.Client {
	return c.engine
}

// Journal returns the submission journal repository.
func (c *Container) Journal() port.JournalRepository {
	return c.journal
}

// Directory returns the employee directory.
func (c *Container) Directory() *directory.Directory {
	return c.directory
}

// Services returns the application services.
func (c *Container) Services() *ServiceBundle {
	return c.services
}

// Dispatcher returns the event dispatcher.
func (c *Container) Dispatcher() dispatcher.Dispatcher {
	return c.dispatcher
}

// Registry returns the session registry.
func (c *Container) Registry() *submission.Registry {
	return c.registry
}

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns the container's configuration.
func (c *Container) Config() *config.Config {
	return c.config
}
