package handlers

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/kwizera-dev/docufind/backend/internal/authz"
	"github.com/kwizera-dev/docufind/backend/internal/models"
	"github.com/kwizera-dev/docufind/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// DocumentHandler handles document report HTTP requests
type DocumentHandler struct {
	documentRepository repositories.DocumentRepository
	userRepository     repositories.UserRepository
	authorizer         authz.Authorizer
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(docRepo repositories.DocumentRepository, userRepo repositories.UserRepository, authorizer authz.Authorizer) *DocumentHandler {
	return &DocumentHandler{
		documentRepository: docRepo,
		userRepository:     userRepo,
		authorizer:         authorizer,
	}
}

// RegisterDocumentRoutes registers citizen-facing document routes
func (h *DocumentHandler) RegisterDocumentRoutes(g *echo.Group) {
	g.POST("/documents", h.CreateDocument)
	g.GET("/documents", h.GetDocuments)
	g.GET("/documents/:id", h.GetDocumentByID)
	g.PUT("/documents/:id", h.UpdateDocument)
}

// RegisterStaffDocumentRoutes registers staff-only document routes
func (h *DocumentHandler) RegisterStaffDocumentRoutes(g *echo.Group) {
	g.DELETE("/documents/:id", h.DeleteDocument)
}

// parseDate accepts RFC 3339 timestamps or plain YYYY-MM-DD dates.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// CreateDocument registers a new lost or found document report
func (h *DocumentHandler) CreateDocument(c echo.Context) error {
	var req models.CreateDocumentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	dateLost, err := parseDate(req.DateLost)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid date_lost format")
	}

	// Validate reporting user exists
	if _, err := h.userRepository.GetUserByID(c.Request().Context(), req.ReportedBy); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Reporting user not found")
	}

	doc := &models.DocumentReport{
		DocumentType: req.DocumentType,
		Description:  req.Description,
		Location:     req.Location,
		DateLost:     &dateLost,
		Status:       req.Status,
		ReportedByID: req.ReportedBy,
	}
	if err := h.documentRepository.CreateDocument(c.Request().Context(), doc); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, doc)
}

// GetDocuments lists document reports with filters and pagination
func (h *DocumentHandler) GetDocuments(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	filter := models.DocumentFilter{
		Status:       c.QueryParam("status"),
		DocumentType: c.QueryParam("documentType"),
	}
	if v := c.QueryParam("startDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid startDate format")
		}
		filter.StartDate = &t
	}
	if v := c.QueryParam("endDate"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid endDate format")
		}
		filter.EndDate = &t
	}

	docs, total, err := h.documentRepository.GetDocuments(c.Request().Context(), filter, page, limit)
	if err != nil {
		return httpError(err)
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return c.JSON(http.StatusOK, echo.Map{
		"data": docs,
		"meta": echo.Map{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages,
		},
	})
}

// GetDocumentByID retrieves a single document report
func (h *DocumentHandler) GetDocumentByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid document ID")
	}

	doc, err := h.documentRepository.GetDocumentByID(c.Request().Context(), uint(id))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, doc)
}

// UpdateDocument updates a document's descriptive fields. Status changes go
// through the dedicated status endpoint so lifecycle rules apply.
func (h *DocumentHandler) UpdateDocument(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid document ID")
	}

	var req models.UpdateDocumentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	doc, err := h.documentRepository.GetDocumentByID(c.Request().Context(), uint(id))
	if err != nil {
		return httpError(err)
	}

	if req.DocumentType != "" {
		doc.DocumentType = req.DocumentType
	}
	if req.Description != "" {
		doc.Description = req.Description
	}
	if req.Location != "" {
		doc.Location = req.Location
	}
	if req.DateLost != "" {
		t, err := parseDate(req.DateLost)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid date_lost format")
		}
		doc.DateLost = &t
	}

	if err := h.documentRepository.UpdateDocument(c.Request().Context(), doc); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, doc)
}

// DeleteDocument hard-deletes a document report. Admin-only; bypasses the
// claim lifecycle by design.
func (h *DocumentHandler) DeleteDocument(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid document ID")
	}

	actorID := getUserIDFromContext(c)
	if actorID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	actor, err := h.userRepository.GetUserByID(c.Request().Context(), actorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authenticated user not found in database")
	}
	if err := h.authorizer.Authorize(actor, authz.ActionDeleteDocument, "documents"); err != nil {
		return httpError(err)
	}

	if err := h.documentRepository.DeleteDocument(c.Request().Context(), uint(id)); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
