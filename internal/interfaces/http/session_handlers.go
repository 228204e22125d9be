package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/benefit-reimbursement/internal/application/submission"
	"github.com/garyjia/benefit-reimbursement/internal/directory"
	"github.com/garyjia/benefit-reimbursement/internal/domain/entity"
	"github.com/garyjia/benefit-reimbursement/internal/presenter"
	"github.com/garyjia/benefit-reimbursement/internal/upload"
)

// maxUploadRead is one byte past the upload limit
const maxUploadRead = entity.MaxArtifactBytes + 1

// SessionResponse is a session snapshot plus the presented outcome, if any
type SessionResponse struct {
	submission.Snapshot
	Result *presenter.View `json:"result,omitempty"`
}

// SelectEmployeeRequest is the body of PUT /api/sessions/:id/employee
type SelectEmployeeRequest struct {
	EmployeeID string `json:"employee_id"`
}

// CreateSession handles POST /api/sessions
func (h *Handlers) CreateSession(c *gin.Context) {
	s := h.deps.Sessions.Create()
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    h.sessionResponse(s.Snapshot()),
	})
}

// GetSession handles GET /api/sessions/:id
func (h *Handlers) GetSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    h.sessionResponse(s.Snapshot()),
	})
}

// DeleteSession handles DELETE /api/sessions/:id
func (h *Handlers) DeleteSession(c *gin.Context) {
	if err := h.deps.Sessions.Remove(c.Param("id")); err != nil {
		fail(c, http.StatusNotFound, "session not found")
		return
	}
	c.Status(http.StatusNoContent)
}

// SelectEmployee handles PUT /api/sessions/:id/employee. An empty id clears
// the selection.
func (h *Handlers) SelectEmployee(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req SelectEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var ref *entity.EmployeeRef
	if req.EmployeeID != "" {
		if err := h.deps.Directory.Load(c.Request.Context()); err != nil {
			h.logger.Error("Failed to load employees", "error", err)
			fail(c, http.StatusBadGateway, "Failed to load employees")
			return
		}

		employee, err := h.deps.Directory.Resolve(req.EmployeeID)
		if err != nil {
			if errors.Is(err, directory.ErrNotFound) {
				fail(c, http.StatusNotFound, "employee not found")
				return
			}
			h.logger.Error("Failed to resolve employee", "employee_id", req.EmployeeID, "error", err)
			fail(c, http.StatusInternalServerError, "failed to resolve employee")
			return
		}
		ref = &employee
	}

	if err := s.SelectEmployee(ref); err != nil {
		h.sessionFailure(c, err, s.Snapshot())
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    h.sessionResponse(s.Snapshot()),
	})
}

// SelectInvoice handles PUT /api/sessions/:id/invoice (multipart field "file")
func (h *Handlers) SelectInvoice(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "file is required")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open upload", "error", err)
		fail(c, http.StatusBadRequest, "failed to read file")
		return
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxUploadRead))
	if err != nil {
		h.logger.Error("Failed to read upload", "error", err)
		fail(c, http.StatusBadRequest, "failed to read file")
		return
	}

	_, err = s.SelectInvoice(upload.Candidate{
		FileName:  fileHeader.Filename,
		MediaType: fileHeader.Header.Get("Content-Type"),
		Content:   content,
	})
	if err != nil {
		var rejected *upload.RejectedError
		if errors.As(err, &rejected) {
			c.JSON(http.StatusUnprocessableEntity, Response{
				Success: false,
				Data:    h.sessionResponse(s.Snapshot()),
				Error:   rejected.Message(),
			})
			return
		}
		h.sessionFailure(c, err, s.Snapshot())
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    h.sessionResponse(s.Snapshot()),
	})
}

// PreviewInvoice handles GET /api/sessions/:id/invoice/preview
func (h *Handlers) PreviewInvoice(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	artifact, ok := s.Artifact()
	if !ok {
		fail(c, http.StatusNotFound, "no invoice selected")
		return
	}

	preview, err := upload.RenderPreview(artifact, h.previewWidth)
	if err != nil {
		h.logger.Error("Failed to render preview", "session_id", s.ID(), "error", err)
		fail(c, http.StatusUnprocessableEntity, "preview not available")
		return
	}

	c.Data(http.StatusOK, "image/jpeg", preview)
}

// Submit handles POST /api/sessions/:id/submit. The body always carries the
// snapshot after the attempt.
func (h *Handlers) Submit(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	snap, err := s.Submit(c.Request.Context())
	if err != nil {
		h.sessionFailure(c, err, snap)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    h.sessionResponse(snap),
	})
}

// Reset handles POST /api/sessions/:id/reset
func (h *Handlers) Reset(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	if err := s.StartNew(); err != nil {
		h.sessionFailure(c, err, s.Snapshot())
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    h.sessionResponse(s.Snapshot()),
	})
}

func (h *Handlers) session(c *gin.Context) (*submission.Session, bool) {
	s, err := h.deps.Sessions.Get(c.Param("id"))
	if err != nil {
		fail(c, http.StatusNotFound, "session not found")
		return nil, false
	}
	return s, true
}

func (h *Handlers) sessionFailure(c *gin.Context, err error, snap submission.Snapshot) {
	status := http.StatusInternalServerError
	message := err.Error()

	var verr *submission.ValidationError
	var serr *submission.SubmitError
	switch {
	case errors.Is(err, submission.ErrInFlight), errors.Is(err, submission.ErrSuperseded):
		status = http.StatusConflict
	case errors.Is(err, submission.ErrSessionClosed):
		status = http.StatusGone
	case errors.As(err, &verr):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &serr):
		status = http.StatusBadGateway
		message = serr.Message
	default:
		h.logger.Error("Session operation failed", "session_id", snap.SessionID, "error", err)
	}

	c.JSON(status, Response{
		Success: false,
		Data:    h.sessionResponse(snap),
		Error:   message,
	})
}

func (h *Handlers) sessionResponse(snap submission.Snapshot) SessionResponse {
	resp := SessionResponse{Snapshot: snap}
	if snap.Outcome != nil {
		view := h.deps.Presenter.Present(snap.Outcome)
		resp.Result = &view
	}
	return resp
}
