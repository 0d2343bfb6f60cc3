package handlers

import (
	"net/http"
	"strconv"

	"github.com/kwizera-dev/docufind/backend/internal/models"
	"github.com/kwizera-dev/docufind/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// HandoverHandler handles handover record HTTP requests
type HandoverHandler struct {
	handoverRepository repositories.HandoverRepository
	documentRepository repositories.DocumentRepository
}

// NewHandoverHandler creates a new HandoverHandler
func NewHandoverHandler(handoverRepo repositories.HandoverRepository, docRepo repositories.DocumentRepository) *HandoverHandler {
	return &HandoverHandler{
		handoverRepository: handoverRepo,
		documentRepository: docRepo,
	}
}

// RegisterHandoverRoutes registers handover routes (staff group)
func (h *HandoverHandler) RegisterHandoverRoutes(g *echo.Group) {
	g.GET("/handovers", h.GetHandovers)
	g.POST("/handovers", h.CreateHandover)
	g.GET("/handovers/:id", h.GetHandoverByID)
	g.PUT("/handovers/:id", h.UpdateHandover)
	g.DELETE("/handovers/:id", h.DeleteHandover)
}

// GetHandovers lists handover records, newest handover first
func (h *HandoverHandler) GetHandovers(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	skip, _ := strconv.Atoi(c.QueryParam("skip"))
	if limit < 1 || limit > 100 {
		limit = 50
	}
	if skip < 0 {
		skip = 0
	}

	filter := models.HandoverFilter{Status: c.QueryParam("status")}
	if v := c.QueryParam("documentId"); v != "" {
		docID, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid documentId")
		}
		filter.DocumentID = uint(docID)
	}

	handovers, err := h.handoverRepository.GetHandovers(c.Request().Context(), filter, limit, skip)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": handovers})
}

// CreateHandover records a completed or scheduled document handover
func (h *HandoverHandler) CreateHandover(c echo.Context) error {
	var req models.CreateHandoverRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	handoverDate, err := parseDate(req.HandoverDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid handoverDate format")
	}

	if _, err := h.documentRepository.GetDocumentByID(c.Request().Context(), req.DocumentID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Document not found")
	}

	handover := &models.Handover{
		DocumentID:   req.DocumentID,
		ClaimantName: req.ClaimantName,
		HandoverDate: handoverDate,
		Notes:        req.Notes,
		Status:       models.HandoverStatusCompleted,
	}
	if staffID := getUserIDFromContext(c); staffID != 0 {
		handover.RCStaffMemberID = &staffID
	}

	if err := h.handoverRepository.CreateHandover(c.Request().Context(), handover); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, handover)
}

// GetHandoverByID retrieves a single handover record
func (h *HandoverHandler) GetHandoverByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid handover ID")
	}

	handover, err := h.handoverRepository.GetHandoverByID(c.Request().Context(), uint(id))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, handover)
}

// UpdateHandover updates handover fields. The document reference is
// immutable.
func (h *HandoverHandler) UpdateHandover(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid handover ID")
	}

	var req models.UpdateHandoverRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	handover, err := h.handoverRepository.GetHandoverByID(c.Request().Context(), uint(id))
	if err != nil {
		return httpError(err)
	}

	if req.ClaimantName != "" {
		handover.ClaimantName = req.ClaimantName
	}
	if req.Status != "" {
		handover.Status = req.Status
	}
	if req.HandoverDate != "" {
		t, err := parseDate(req.HandoverDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid handoverDate format")
		}
		handover.HandoverDate = t
	}
	if req.Notes != "" {
		handover.Notes = req.Notes
	}

	if err := h.handoverRepository.UpdateHandover(c.Request().Context(), handover); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, handover)
}

// DeleteHandover removes a handover record
func (h *HandoverHandler) DeleteHandover(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid handover ID")
	}

	if err := h.handoverRepository.DeleteHandover(c.Request().Context(), uint(id)); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Handover deleted", "id": id})
}
