package handlers

import (
	"net/http"
	"strconv"

	"github.com/kwizera-dev/docufind/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
}

// userIDParam reads the target user from the userId query parameter.
func userIDParam(c echo.Context) (uint, error) {
	raw := c.QueryParam("userId")
	if raw == "" {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "userId is required")
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid userId")
	}
	return uint(id), nil
}

// GetNotifications returns a user's notifications, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	userID, err := userIDParam(c)
	if err != nil {
		return err
	}

	notifications, err := h.notificationService.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": notifications})
}

// GetUnreadCount returns the unread notification count for a user
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	userID, err := userIDParam(c)
	if err != nil {
		return err
	}

	count, err := h.notificationService.UnreadCount(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": echo.Map{"count": count}})
}

// MarkAsRead marks a notification as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid notification ID")
	}

	notification, err := h.notificationService.MarkRead(c.Request().Context(), uint(id), c.RealIP(), requestID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, notification)
}

// MarkAllAsRead marks all of a user's notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	userID, err := userIDParam(c)
	if err != nil {
		return err
	}

	modified, err := h.notificationService.MarkAllRead(c.Request().Context(), userID, c.RealIP(), requestID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"modifiedCount": modified})
}
