// Package engine is the HTTP client for the reimbursement decision engine.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garyjia/benefit-reimbursement/internal/domain/entity"
)

// DefaultBaseURL matches the engine's default mount point
const DefaultBaseURL = "http://localhost:8000/api/v1"

// Config holds engine client settings
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the decision engine. It never retries on its own.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewClient creates an engine client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetLogger(logger.Sugar())

	return &Client{
		http:   httpClient,
		logger: logger,
	}
}

// ListEmployees returns the employee directory
func (c *Client) ListEmployees(ctx context.Context) ([]entity.EmployeeRef, error) {
	var employees []entity.EmployeeRef
	if err := c.do(ctx, http.MethodGet, "/employees", nil, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

// Submit uploads an invoice for the employee and returns the engine's decision
func (c *Client) Submit(ctx context.Context, req entity.SubmissionRequest) (entity.Outcome, error) {
	artifact := req.Artifact
	fileName := artifact.FileName()
	if fileName == "" {
		fileName = defaultFileName(artifact.MediaType())
	}

	c.logger.Info("Submitting reimbursement request",
		zap.String("employee_id", req.EmployeeID.String()),
		zap.String("file_name", fileName),
		zap.String("media_type", artifact.MediaType()),
		zap.Int64("size", artifact.Size()))

	body, err := c.send(ctx, http.MethodPost, "/reimbursement/submit", func(r *resty.Request) {
		r.SetMultipartFormData(map[string]string{"employee_id": req.EmployeeID.String()}).
			SetMultipartField("file", fileName, artifact.MediaType(), bytes.NewReader(artifact.Content()))
	})
	if err != nil {
		return nil, err
	}

	outcome, err := entity.DecodeOutcome(body)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Reimbursement request decided",
		zap.String("request_id", outcome.Details().RequestID),
		zap.String("status", outcome.Status().String()))
	return outcome, nil
}

// GetReimbursement fetches a previously submitted request by id
func (c *Client) GetReimbursement(ctx context.Context, requestID string) (entity.Outcome, error) {
	body, err := c.send(ctx, http.MethodGet, "/reimbursement/"+url.PathEscape(requestID), nil)
	if err != nil {
		return nil, err
	}
	return entity.DecodeOutcome(body)
}

// ListCategories returns all benefit categories with their keywords
func (c *Client) ListCategories(ctx context.Context) ([]entity.Category, error) {
	var categories []entity.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory creates a benefit category
func (c *Client) CreateCategory(ctx context.Context, in entity.CategoryInput) (entity.Category, error) {
	var category entity.Category
	err := c.do(ctx, http.MethodPost, "/categories", func(r *resty.Request) {
		r.SetHeader("Content-Type", "application/json").SetBody(in)
	}, &category)
	return category, err
}

// UpdateCategory changes the fields set in in
func (c *Client) UpdateCategory(ctx context.Context, id uuid.UUID, in entity.CategoryInput) (entity.Category, error) {
	var category entity.Category
	err := c.do(ctx, http.MethodPut, "/categories/"+id.String(), func(r *resty.Request) {
		r.SetHeader("Content-Type", "application/json").SetBody(in)
	}, &category)
	return category, err
}

// DeleteCategory removes a benefit category
func (c *Client) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/categories/"+id.String(), nil, nil)
}

// ListKeywords returns the keywords of a category
func (c *Client) ListKeywords(ctx context.Context, categoryID uuid.UUID) ([]entity.Keyword, error) {
	var keywords []entity.Keyword
	if err := c.do(ctx, http.MethodGet, "/categories/"+categoryID.String()+"/keywords", nil, &keywords); err != nil {
		return nil, err
	}
	return keywords, nil
}

// AddKeyword attaches a keyword to a category
func (c *Client) AddKeyword(ctx context.Context, categoryID uuid.UUID, keyword string) (entity.Keyword, error) {
	var created entity.Keyword
	err := c.do(ctx, http.MethodPost, "/categories/"+categoryID.String()+"/keywords", func(r *resty.Request) {
		r.SetHeader("Content-Type", "application/json").SetBody(map[string]string{"keyword": keyword})
	}, &created)
	return created, err
}

// DeleteKeyword detaches a keyword from a category
func (c *Client) DeleteKeyword(ctx context.Context, categoryID, keywordID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/categories/"+categoryID.String()+"/keywords/"+keywordID.String(), nil, nil)
}

// EmployeeBalances returns per-category balances. Zero year or month lets the
// engine default to the current period.
func (c *Client) EmployeeBalances(ctx context.Context, employeeID uuid.UUID, year, month int) ([]entity.Balance, error) {
	var balances []entity.Balance
	err := c.do(ctx, http.MethodGet, "/employees/"+employeeID.String()+"/balances", func(r *resty.Request) {
		if year != 0 {
			r.SetQueryParam("year", strconv.Itoa(year))
		}
		if month != 0 {
			r.SetQueryParam("month", strconv.Itoa(month))
		}
	}, &balances)
	if err != nil {
		return nil, err
	}
	return balances, nil
}

func (c *Client) do(ctx context.Context, method, path string, prepare func(*resty.Request), out interface{}) error {
	body, err := c.send(ctx, method, path, prepare)
	if err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, prepare func(*resty.Request)) ([]byte, error) {
	req := c.http.R().SetContext(ctx)
	if prepare != nil {
		prepare(req)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		c.logger.Error("Engine request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, fmt.Errorf("engine request %s %s failed: %w", method, path, err)
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		apiErr := newAPIError(status, resp.Body())
		c.logger.Error("Engine returned error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.String("detail", apiErr.Detail))
		return nil, apiErr
	}

	c.logger.Debug("Engine request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Duration("duration", resp.Time()))
	return resp.Body(), nil
}

func defaultFileName(mediaType string) string {
	switch mediaType {
	case entity.MediaTypePDF:
		return "invoice.pdf"
	case entity.MediaTypePNG:
		return "invoice.png"
	default:
		return "invoice.jpg"
	}
}
