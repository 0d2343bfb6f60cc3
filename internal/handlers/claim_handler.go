package handlers

import (
	"net/http"
	"strconv"

	"github.com/kwizera-dev/docufind/backend/internal/models"
	"github.com/kwizera-dev/docufind/backend/internal/repositories"
	"github.com/kwizera-dev/docufind/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// ClaimHandler handles claim lifecycle HTTP requests
type ClaimHandler struct {
	claimService   *services.ClaimService
	userRepository repositories.UserRepository
}

// NewClaimHandler creates a new ClaimHandler
func NewClaimHandler(claimService *services.ClaimService, userRepo repositories.UserRepository) *ClaimHandler {
	return &ClaimHandler{
		claimService:   claimService,
		userRepository: userRepo,
	}
}

// RegisterClaimRoutes registers citizen-facing claim routes
func (h *ClaimHandler) RegisterClaimRoutes(g *echo.Group) {
	g.POST("/documents/:id/claim", h.SubmitClaim)
	g.GET("/documents/:id/claims", h.ListClaims)
}

// RegisterStaffClaimRoutes registers staff-only decision routes
func (h *ClaimHandler) RegisterStaffClaimRoutes(g *echo.Group) {
	g.PUT("/documents/:id/claims/:claimId/approve", h.ApproveClaim)
	g.PUT("/documents/:id/claims/:claimId/reject", h.RejectClaim)
	g.PUT("/documents/:id/status", h.SetDocumentStatus)
}

// SubmitClaim files a claim request against a found document
func (h *ClaimHandler) SubmitClaim(c echo.Context) error {
	documentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid document ID")
	}

	var req models.SubmitClaimRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	claim, err := h.claimService.SubmitClaim(c.Request().Context(), uint(documentID), req.UserID, req.Notes, c.RealIP(), requestID(c))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Claim submitted",
		"data":    claim,
	})
}

// ListClaims returns a document's claim requests, newest first
func (h *ClaimHandler) ListClaims(c echo.Context) error {
	documentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid document ID")
	}

	claims, err := h.claimService.ListClaims(c.Request().Context(), uint(documentID))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"data": claims})
}

// ApproveClaim approves a pending claim and marks the document claimed
func (h *ClaimHandler) ApproveClaim(c echo.Context) error {
	return h.decideClaim(c, models.DecisionApprove)
}

// RejectClaim rejects a pending claim
func (h *ClaimHandler) RejectClaim(c echo.Context) error {
	return h.decideClaim(c, models.DecisionReject)
}

func (h *ClaimHandler) decideClaim(c echo.Context, decision string) error {
	documentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid document ID")
	}
	claimID, err := strconv.ParseUint(c.Param("claimId"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid claim ID")
	}

	actor, err := h.actor(c)
	if err != nil {
		return err
	}

	claim, doc, err := h.claimService.DecideClaim(c.Request().Context(), actor, uint(documentID), uint(claimID), decision, c.RealIP(), requestID(c))
	if err != nil {
		return httpError(err)
	}

	if decision == models.DecisionApprove {
		return c.JSON(http.StatusOK, echo.Map{
			"message": "Claim approved",
			"data":    echo.Map{"claim": claim, "document": doc},
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Claim rejected",
		"data":    claim,
	})
}

// SetDocumentStatus switches a document between lost and found
func (h *ClaimHandler) SetDocumentStatus(c echo.Context) error {
	documentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid document ID")
	}

	var req models.SetDocumentStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	actor, err := h.actor(c)
	if err != nil {
		return err
	}

	doc, err := h.claimService.SetDocumentStatus(c.Request().Context(), actor, uint(documentID), req.Status)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Document status updated",
		"data":    doc,
	})
}

// actor resolves the authenticated staff user from the JWT claims.
func (h *ClaimHandler) actor(c echo.Context) (*models.User, error) {
	actorID := getUserIDFromContext(c)
	if actorID == 0 {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	actor, err := h.userRepository.GetUserByID(c.Request().Context(), actorID)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Authenticated user not found in database")
	}
	return actor, nil
}
