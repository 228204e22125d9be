// Package http is the submission portal: a thin gin adapter that translates
// HTTP requests into session, catalog and balance calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/benefit-reimbursement/internal/application/port"
	"github.com/garyjia/benefit-reimbursement/internal/application/service"
	"github.com/garyjia/benefit-reimbursement/internal/application/submission"
	"github.com/garyjia/benefit-reimbursement/internal/directory"
	"github.com/garyjia/benefit-reimbursement/internal/presenter"
	"github.com/garyjia/benefit-reimbursement/internal/upload"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	PreviewWidth    int
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:            "0.0.0.0",
		Port:            8080,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    90 * time.Second,
		ShutdownTimeout: 15 * time.Second,
		PreviewWidth:    upload.DefaultPreviewWidth,
	}
}

// HealthReporter reports component health for GET /health
type HealthReporter interface {
	Ready() bool
}

// Deps are the application components the portal serves
type Deps struct {
	Sessions  *submission.Registry
	Directory *directory.Directory
	Catalog   service.CatalogService
	Balances  service.BalanceService
	Outcomes  port.OutcomeReader
	Journal   port.JournalRepository
	Presenter *presenter.Presenter
	Health    HealthReporter
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	deps       Deps
	logger     Logger
}

// NewServer creates a new HTTP server over deps
func NewServer(config ServerConfig, deps Deps, logger Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	if deps.Presenter == nil {
		deps.Presenter = presenter.New()
	}
	if config.PreviewWidth <= 0 {
		config.PreviewWidth = upload.DefaultPreviewWidth
	}

	router := gin.New()
	// Uploads above the limit are still read, up to one byte past it, so the
	// validator can reject them with a proper reason.
	router.MaxMultipartMemory = 2 * maxUploadRead

	server := &Server{
		config: config,
		router: router,
		deps:   deps,
		logger: logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(corsMiddleware(s.config.AllowedOrigins))
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// corsMiddleware lets the browser frontend call the API. "*" allows any origin.
func corsMiddleware(allowed []string) gin.HandlerFunc {
	origins := make(map[string]bool, len(allowed))
	wildcard := false
	for _, o := range allowed {
		if o == "*" {
			wildcard = true
		}
		origins[strings.TrimRight(o, "/")] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (wildcard || origins[origin]) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			h.Set("Access-Control-Max-Age", "600")
			h.Add("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	h := NewHandlers(s.deps, s.config.PreviewWidth, s.logger)

	s.router.GET("/health", h.HealthCheck)

	api := s.router.Group("/api")
	{
		api.GET("/employees", h.ListEmployees)
		api.GET("/employees/:id/balances", h.GetBalances)

		sessions := api.Group("/sessions")
		{
			sessions.POST("", h.CreateSession)
			sessions.GET("/:id", h.GetSession)
			sessions.DELETE("/:id", h.DeleteSession)
			sessions.PUT("/:id/employee", h.SelectEmployee)
			sessions.PUT("/:id/invoice", h.SelectInvoice)
			sessions.GET("/:id/invoice/preview", h.PreviewInvoice)
			sessions.POST("/:id/submit", h.Submit)
			sessions.POST("/:id/reset", h.Reset)
		}

		api.GET("/reimbursements/:id", h.GetReimbursement)
		api.GET("/submissions", h.ListSubmissions)

		categories := api.Group("/categories")
		{
			categories.GET("", h.ListCategories)
			categories.POST("", h.CreateCategory)
			categories.PUT("/:id", h.UpdateCategory)
			categories.DELETE("/:id", h.DeleteCategory)
			categories.GET("/:id/keywords", h.ListKeywords)
			categories.POST("/:id/keywords", h.AddKeyword)
			categories.DELETE("/:id/keywords/:keyword_id", h.DeleteKeyword)
		}
	}
}

// Start starts the HTTP server and blocks until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	addr := s.Address()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
