// Package container wires the portal's components and manages their lifecycle.
package container

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/benefit-reimbursement/internal/application/dispatcher"
	"github.com/garyjia/benefit-reimbursement/internal/application/port"
	"github.com/garyjia/benefit-reimbursement/internal/application/service"
	"github.com/garyjia/benefit-reimbursement/internal/config"
	"github.com/garyjia/benefit-reimbursement/internal/domain/event"
	"github.com/garyjia/benefit-reimbursement/internal/infrastructure/engine"
	"github.com/garyjia/benefit-reimbursement/internal/infrastructure/external/lark"
	"github.com/garyjia/benefit-reimbursement/internal/infrastructure/persistence/migrations"
	"github.com/garyjia/benefit-reimbursement/internal/infrastructure/persistence/repository"
	"github.com/garyjia/benefit-reimbursement/internal/presenter"
	"github.com/garyjia/benefit-reimbursement/pkg/database"
	"github.com/garyjia/benefit-reimbursement/pkg/utils"
)

// handlerTimeout bounds each async event handler
const handlerTimeout = 30 * time.Second

// DatabaseBundle holds the journal database and its repository.
type DatabaseBundle struct {
	DB      *database.DB
	Journal *repository.JournalRepository
}

// ProvideDatabase opens the journal database and applies pending migrations.
func ProvideDatabase(ctx context.Context, cfg database.Config, logger *zap.Logger) (*DatabaseBundle, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	db, err := database.New(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := database.NewMigrator(db, logger).Run(ctx, migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DatabaseBundle{
		DB:      db,
		Journal: repository.NewJournalRepository(db.DB, logger),
	}, nil
}

// ProvideEngine creates the decision engine client.
func ProvideEngine(cfg engine.Config, logger *zap.Logger) (*engine.Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("engine base url is required")
	}
	return engine.NewClient(cfg, logger), nil
}

// ProvideMessenger creates the Lark messenger, or nil when notifications are off.
func ProvideMessenger(cfg *config.LarkConfig, clientCfg lark.Config, logger *zap.Logger) (*lark.Messenger, error) {
	if cfg == nil || !cfg.Enabled {
		logger.Info("Lark review notifications disabled")
		return nil, nil
	}
	return lark.NewMessenger(clientCfg, logger)
}

// ServiceBundle groups the application services.
type ServiceBundle struct {
	Catalog   service.CatalogService
	Balances  service.BalanceService
	Presenter *presenter.Presenter
}

// ProvideServices creates the catalog and balance services over the engine.
func ProvideServices(client *engine.Client, logger *zap.Logger) (*ServiceBundle, error) {
	if client == nil {
		return nil, fmt.Errorf("engine client is required")
	}
	serviceLogger := utils.NewKVLogger(logger)

	return &ServiceBundle{
		Catalog:   service.NewCatalogService(client, serviceLogger),
		Balances:  service.NewBalanceService(client, serviceLogger),
		Presenter: presenter.New(),
	}, nil
}

// ProvideDispatcher creates the event dispatcher.
func ProvideDispatcher(logger *zap.Logger) (dispatcher.Dispatcher, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return dispatcher.NewDispatcher(
		dispatcher.WithLogger(utils.NewKVLogger(logger)),
		dispatcher.WithHandlerTimeout(handlerTimeout),
	), nil
}

// HandlerDeps holds what the submission event handlers need.
type HandlerDeps struct {
	Dispatcher   dispatcher.Dispatcher
	Journal      port.JournalRepository
	Messenger    *lark.Messenger
	ReviewChatID string
	Presenter    *presenter.Presenter
	Logger       *zap.Logger
}

// RegisterHandlers subscribes the journal and review handlers to submission events.
func RegisterHandlers(deps *HandlerDeps) error {
	if deps == nil || deps.Dispatcher == nil {
		return fmt.Errorf("dispatcher is required")
	}
	handlerLogger := utils.NewKVLogger(deps.Logger)

	if deps.Journal != nil {
		recorder := service.NewJournalRecorder(deps.Journal, handlerLogger)
		deps.Dispatcher.SubscribeNamed(event.TypeSubmissionResolved, "journal-resolved", recorder.HandleResolved)
		deps.Dispatcher.SubscribeNamed(event.TypeSubmissionFailed, "journal-failed", recorder.HandleFailed)
	}

	if deps.Messenger != nil {
		notifier := service.NewReviewNotifier(deps.Messenger, deps.ReviewChatID, deps.Presenter, handlerLogger)
		deps.Dispatcher.SubscribeNamed(event.TypeSubmissionResolved, "lark-review", notifier.HandleResolved)
	}

	deps.Dispatcher.SubscribeNamed(event.TypeSessionExpired, "session-expired-log", func(ctx context.Context, evt *event.Event) error {
		deps.Logger.Info("Session expired", zap.String("session_id", evt.SessionID))
		return nil
	})

	return nil
}
