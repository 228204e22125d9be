package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// APIError is a non-2xx answer from the decision engine
type APIError struct {
	StatusCode int
	// Detail is the engine's "detail" message when it was a plain string.
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("engine returned status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("engine returned status %d", e.StatusCode)
}

// UserDetail returns the engine's message, empty when it sent none
func (e *APIError) UserDetail() string {
	return e.Detail
}

// DetailOf extracts a usable engine detail message from err
func DetailOf(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail, true
	}
	return "", false
}

// IsNotFound reports whether err is a 404 from the engine
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return apiErr
	}

	// Validation failures carry a list of objects; only strings are shown.
	var detail string
	if err := json.Unmarshal(envelope.Detail, &detail); err == nil {
		apiErr.Detail = strings.TrimSpace(detail)
	}
	return apiErr
}
