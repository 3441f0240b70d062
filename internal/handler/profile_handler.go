package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"authportal/internal/service"
)

// ProfileHandler serves the signed-in user's profile data.
type ProfileHandler struct {
	svc service.ProfileService
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(svc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// GetProfile godoc
// @Summary Get the signed-in user's profile
// @Tags profile
// @Produce json
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /profile [get]
// @Security BearerAuth
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return err
	}

	rawID, _ := claims["id"].(string)
	id, parseErr := uuid.Parse(rawID)
	if parseErr != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid session identity")
	}

	user, err := h.svc.GetProfile(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load profile")
	}

	return c.JSON(http.StatusOK, user)
}

// ListUsers godoc
// @Summary List users (admin)
// @Tags profile
// @Produce json
// @Success 200 {array} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /users [get]
// @Security BearerAuth
func (h *ProfileHandler) ListUsers(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return err
	}
	if role, _ := claims["role"].(string); role != "admin" {
		return echo.NewHTTPError(http.StatusForbidden, "admin role required")
	}

	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list users")
	}
	return c.JSON(http.StatusOK, users)
}
