package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/garyjia/benefit-reimbursement/internal/application/service"
	"github.com/garyjia/benefit-reimbursement/internal/domain/entity"
	"github.com/garyjia/benefit-reimbursement/internal/infrastructure/engine"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	deps         Deps
	previewWidth int
	logger       Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(deps Deps, previewWidth int, logger Logger) *Handlers {
	return &Handlers{
		deps:         deps,
		previewWidth: previewWidth,
		logger:       logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// ListRequest represents paging query parameters
type ListRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	if h.deps.Health != nil && !h.deps.Health.Ready() {
		response.Status = "starting"
		c.JSON(http.StatusServiceUnavailable, Response{Success: false, Data: response})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// ListEmployees handles GET /api/employees
func (h *Handlers) ListEmployees(c *gin.Context) {
	if err := h.deps.Directory.Load(c.Request.Context()); err != nil {
		h.logger.Error("Failed to load employees", "error", err)
		fail(c, http.StatusBadGateway, "Failed to load employees")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    h.deps.Directory.List(),
	})
}

// GetReimbursement handles GET /api/reimbursements/:id
func (h *Handlers) GetReimbursement(c *gin.Context) {
	requestID := c.Param("id")

	outcome, err := h.deps.Outcomes.GetReimbursement(c.Request.Context(), requestID)
	if err != nil {
		h.logger.Error("Failed to fetch reimbursement", "request_id", requestID, "error", err)
		h.engineFailure(c, err, "Failed to load reimbursement request")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    h.deps.Presenter.Present(outcome),
	})
}

// ListSubmissions handles GET /api/submissions
func (h *Handlers) ListSubmissions(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("Invalid query parameters", "error", err)
		fail(c, http.StatusBadRequest, "invalid query parameters")
		return
	}

	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	entries, err := h.deps.Journal.List(c.Request.Context(), req.Limit, req.Offset)
	if err != nil {
		h.logger.Error("Failed to list submissions", "error", err)
		fail(c, http.StatusInternalServerError, "failed to retrieve submissions")
		return
	}
	if entries == nil {
		entries = []*entity.JournalEntry{}
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    entries,
	})
}

// engineFailure maps an engine or service error onto a response. Input
// errors are 400, engine 4xx answers keep their status, anything else is 502.
func (h *Handlers) engineFailure(c *gin.Context, err error, fallback string) {
	if errors.Is(err, service.ErrInvalidInput) {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	message := fallback
	if detail, ok := engine.DetailOf(err); ok {
		message = detail
	}

	var apiErr *engine.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		fail(c, apiErr.StatusCode, message)
		return
	}
	fail(c, http.StatusBadGateway, message)
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, Response{
		Success: false,
		Error:   message,
	})
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return v, true
}
