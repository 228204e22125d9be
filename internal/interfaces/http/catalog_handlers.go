package http

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/benefit-reimbursement/internal/application/service"
	"github.com/garyjia/benefit-reimbursement/internal/domain/entity"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// KeywordRequest is the body of POST /api/categories/:id/keywords
type KeywordRequest struct {
	Keyword string `json:"keyword"`
}

// ListCategories handles GET /api/categories
func (h *Handlers) ListCategories(c *gin.Context) {
	categories, err := h.deps.Catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.engineFailure(c, err, "Failed to load categories")
		return
	}
	if categories == nil {
		categories = []entity.Category{}
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: categories})
}

// CreateCategory handles POST /api/categories
func (h *Handlers) CreateCategory(c *gin.Context) {
	var in entity.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.deps.Catalog.CreateCategory(c.Request.Context(), in)
	if err != nil {
		h.engineFailure(c, err, "Failed to create category")
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: category})
}

// UpdateCategory handles PUT /api/categories/:id
func (h *Handlers) UpdateCategory(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var in entity.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.deps.Catalog.UpdateCategory(c.Request.Context(), id, in)
	if err != nil {
		h.engineFailure(c, err, "Failed to update category")
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: category})
}

// DeleteCategory handles DELETE /api/categories/:id
func (h *Handlers) DeleteCategory(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.deps.Catalog.DeleteCategory(c.Request.Context(), id); err != nil {
		h.engineFailure(c, err, "Failed to delete category")
		return
	}
	c.Status(http.StatusNoContent)
}

// ListKeywords handles GET /api/categories/:id/keywords
func (h *Handlers) ListKeywords(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	keywords, err := h.deps.Catalog.ListKeywords(c.Request.Context(), id)
	if err != nil {
		h.engineFailure(c, err, "Failed to load keywords")
		return
	}
	if keywords == nil {
		keywords = []entity.Keyword{}
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: keywords})
}

// AddKeyword handles POST /api/categories/:id/keywords
func (h *Handlers) AddKeyword(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req KeywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	keyword, err := h.deps.Catalog.AddKeyword(c.Request.Context(), id, req.Keyword)
	if err != nil {
		h.engineFailure(c, err, "Failed to add keyword")
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: keyword})
}

// DeleteKeyword handles DELETE /api/categories/:id/keywords/:keyword_id
func (h *Handlers) DeleteKeyword(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	keywordID, ok := parseUUIDParam(c, "keyword_id")
	if !ok {
		return
	}

	if err := h.deps.Catalog.DeleteKeyword(c.Request.Context(), id, keywordID); err != nil {
		h.engineFailure(c, err, "Failed to delete keyword")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetBalances handles GET /api/employees/:id/balances?year&month[&format=xlsx]
func (h *Handlers) GetBalances(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	year, ok := queryInt(c, "year")
	if !ok {
		return
	}
	month, ok := queryInt(c, "month")
	if !ok {
		return
	}

	balances, err := h.deps.Balances.Balances(c.Request.Context(), id, year, month)
	if err != nil {
		h.engineFailure(c, err, "Failed to load balances")
		return
	}

	if c.Query("format") == "xlsx" {
		var buf bytes.Buffer
		if err := service.WriteBalanceReport(&buf, balances); err != nil {
			h.logger.Error("Failed to build balance report", "employee_id", id.String(), "error", err)
			fail(c, http.StatusInternalServerError, "failed to build report")
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="balances-%s.xlsx"`, id))
		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
		return
	}

	if balances == nil {
		balances = []entity.Balance{}
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: balances})
}
