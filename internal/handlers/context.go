package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/kwizera-dev/docufind/backend/internal/authz"
	"github.com/kwizera-dev/docufind/backend/internal/models"
	"github.com/kwizera-dev/docufind/backend/internal/storage"
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext returns the authenticated user's ID, or 0 when the
// request carried no valid token.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}

// requestID returns the ID assigned by the RequestID middleware.
func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// httpError translates service and repository errors into echo HTTP errors
// using the shared sentinel taxonomy.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, storage.ErrInvalidState):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, storage.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, authz.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "You are not allowed to perform this action")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
