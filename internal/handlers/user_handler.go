package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/kwizera-dev/docufind/backend/internal/models"
	"github.com/kwizera-dev/docufind/backend/internal/repositories"
	"github.com/kwizera-dev/docufind/backend/internal/services"
	"github.com/kwizera-dev/docufind/backend/internal/storage"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userRepository  repositories.UserRepository
	activityService *services.ActivityService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, activityService *services.ActivityService) *UserHandler {
	return &UserHandler{
		userRepository:  userRepo,
		activityService: activityService,
	}
}

// RegisterUserRoutes registers user routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.POST("/users", h.CreateUser)
	g.GET("/users", h.GetUsers)
	g.GET("/users/:id", h.GetUserByID)
	g.PUT("/users/:id", h.UpdateUser)
	g.DELETE("/users/:id", h.ArchiveUser)
	g.GET("/users/:id/activity", h.GetUserActivity)
}

// CreateUser registers a user record
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req models.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Name:                   req.Name,
		Email:                  req.Email,
		Password:               string(hashed),
		AvatarURL:              req.AvatarURL,
		Role:                   req.Role,
		Status:                 models.UserStatusActive,
		CredibilityScore:       80,
		PhoneNumber:            req.PhoneNumber,
		PreferredContactMethod: req.PreferredContactMethod,
	}
	if err := h.userRepository.CreateUser(c.Request().Context(), user); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return echo.NewHTTPError(http.StatusConflict, "Email already exists")
		}
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, user)
}

// GetUsers lists users, optionally filtered by role and status
func (h *UserHandler) GetUsers(c echo.Context) error {
	users, err := h.userRepository.GetUsers(c.Request().Context(), c.QueryParam("role"), c.QueryParam("status"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": users})
}

// GetUserByID retrieves a user by ID
func (h *UserHandler) GetUserByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), uint(id))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateUser updates allowed user fields
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), uint(id))
	if err != nil {
		return httpError(err)
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.AvatarURL != "" {
		user.AvatarURL = req.AvatarURL
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.Status != "" {
		user.Status = req.Status
	}
	if req.PhoneNumber != "" {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.PreferredContactMethod != "" {
		user.PreferredContactMethod = req.PreferredContactMethod
	}
	if req.CredibilityScore != nil {
		user.CredibilityScore = *req.CredibilityScore
	}

	if err := h.userRepository.UpdateUser(c.Request().Context(), user); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// ArchiveUser archives a user instead of deleting the record
func (h *UserHandler) ArchiveUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if err := h.userRepository.ArchiveUser(c.Request().Context(), uint(id)); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User archived"})
}

// GetUserActivity returns a user's recent activity log entries
func (h *UserHandler) GetUserActivity(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	logs, err := h.activityService.ListForUser(c.Request().Context(), uint(id))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": logs})
}
