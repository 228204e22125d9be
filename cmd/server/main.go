package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/garyjia/benefit-reimbursement/internal/config"
	"github.com/garyjia/benefit-reimbursement/internal/container"
	httpapi "github.com/garyjia/benefit-reimbursement/internal/interfaces/http"
	"github.com/garyjia/benefit-reimbursement/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML configuration file")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
		os.Exit(1)
	}

	path := *configPath
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		// Defaults and environment only
		path = ""
	}

	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(cfg.LoggerConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting benefit reimbursement portal",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port),
		zap.String("engine", cfg.Engine.BaseURL),
		zap.Bool("lark_notifications", cfg.Lark.Enabled))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := container.NewContainer(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create container", zap.Error(err))
	}
	if err := c.Start(ctx); err != nil {
		logger.Fatal("Failed to start container", zap.Error(err))
	}

	services := c.Services()
	server := httpapi.NewServer(httpapi.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		PreviewWidth:    cfg.Upload.PreviewWidth,
	}, httpapi.Deps{
		Sessions:  c.Registry(),
		Directory: c.Directory(),
		Catalog:   services.Catalog,
		Balances:  services.Balances,
		Outcomes:  c.Engine(),
		Journal:   c.Journal(),
		Presenter: services.Presenter,
		Health:    c,
	}, utils.NewKVLogger(logger))

	// Blocks until SIGINT/SIGTERM
	serverErr := server.Start(ctx)
	if serverErr != nil {
		logger.Error("HTTP server stopped with error", zap.Error(serverErr))
	}

	logger.Info("Shutting down...")
	if err := c.Close(); err != nil {
		logger.Error("Container shutdown failed", zap.Error(err))
	}

	if serverErr != nil {
		os.Exit(1)
	}
	logger.Info("Server exited successfully")
}
