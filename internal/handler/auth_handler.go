package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"authportal/internal/auth"
	apperrors "authportal/internal/errors"
	"authportal/internal/service"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session_token"

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	signInService service.SignInService
	sessionStore  auth.SessionStoreInterface
	jwtService    *auth.JWTService
	providers     service.ProviderRegistry
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(signInService service.SignInService, sessionStore auth.SessionStoreInterface, jwtService *auth.JWTService, providers service.ProviderRegistry) *AuthHandler {
	return &AuthHandler{
		signInService: signInService,
		sessionStore:  sessionStore,
		jwtService:    jwtService,
		providers:     providers,
	}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"`
}

// SessionPatchRequest represents a session update request.
type SessionPatchRequest struct {
	User map[string]any `json:"user" validate:"required"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.signInService.Register(c.Request().Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		if err == service.ErrUserAlreadyExists {
			return echo.NewHTTPError(http.StatusConflict, apperrors.ErrorResponse{
				Error: err.Error(),
				Code:  "USER_ALREADY_EXISTS",
			})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, apperrors.ErrorResponse{
			Error: "failed to register user",
			Code:  "REGISTRATION_FAILED",
		})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "user registered successfully",
		"user":    user,
	})
}

// SignIn godoc
// @Summary Sign in with credentials
// @Description Accepts a raw JSON value; anything other than an object with valid credentials fails.
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} errors.SignInResult
// @Failure 401 {object} errors.SignInResult
// @Failure 500 {object} errors.SignInResult
// @Router /auth/signin [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	// The payload is deliberately decoded as an untyped value: shape
	// checking is the orchestrator's first step.
	var raw any
	if err := json.NewDecoder(c.Request().Body).Decode(&raw); err != nil {
		raw = nil
	}

	result, token := h.signInService.SignIn(c.Request().Context(), raw)
	if !result.Success {
		return c.JSON(result.StatusCode, result)
	}

	h.setSessionCookie(c, token)
	return c.JSON(http.StatusOK, result)
}

// Callback godoc
// @Summary Complete an OAuth provider sign-in
// @Tags auth
// @Produce json
// @Param provider path string true "Provider name"
// @Param code query string true "Authorization code"
// @Success 200 {object} errors.SignInResult
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.SignInResult
// @Router /auth/callback/{provider} [get]
func (h *AuthHandler) Callback(c echo.Context) error {
	name := c.Param("provider")
	provider, ok := h.providers.Lookup(name)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, apperrors.ErrorResponse{
			Error: "unknown provider",
			Code:  "UNKNOWN_PROVIDER",
		})
	}

	identity, err := provider.Exchange(c.Request().Context(), c.QueryParam("code"))
	if err != nil {
		result := apperrors.ClassifySignInError(
			apperrors.NewAuthError(apperrors.OAuthSignInError, err))
		return c.JSON(result.StatusCode, result)
	}

	result, token := h.signInService.SignInWithProvider(c.Request().Context(), identity)
	if !result.Success {
		return c.JSON(result.StatusCode, result)
	}

	h.setSessionCookie(c, token)
	return c.JSON(http.StatusOK, result)
}

// Session godoc
// @Summary Read the current session
// @Tags auth
// @Produce json
// @Success 200 {object} auth.Session
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/session [get]
// @Security BearerAuth
func (h *AuthHandler) Session(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return err
	}
	session := auth.ReadSession(auth.Session{}, claims)
	return c.JSON(http.StatusOK, session)
}

// UpdateSession godoc
// @Summary Merge fields into the current session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SessionPatchRequest true "Session patch"
// @Success 200 {object} auth.Session
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/session [patch]
// @Security BearerAuth
func (h *AuthHandler) UpdateSession(c echo.Context) error {
	var req SessionPatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	raw, err := rawContextToken(c)
	if err != nil {
		return err
	}

	token, err := h.signInService.UpdateSession(c.Request().Context(), raw, &auth.SessionPatch{User: req.User})
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
			Error: "invalid session",
			Code:  "INVALID_SESSION",
		})
	}

	claims, err := h.jwtService.ValidateToken(token)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, apperrors.ErrorResponse{
			Error: "failed to refresh session",
			Code:  "SESSION_REFRESH_FAILED",
		})
	}

	h.setSessionCookie(c, token)
	return c.JSON(http.StatusOK, auth.ReadSession(auth.Session{}, claims))
}

// SignOut godoc
// @Summary Sign out and revoke the session
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/signout [post]
// @Security BearerAuth
func (h *AuthHandler) SignOut(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return err
	}

	if jti, ok := claims["jti"].(string); ok && jti != "" {
		ttl := auth.SessionTokenExpiry
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			ttl = time.Until(exp.Time)
		}
		if ttl > 0 {
			_ = h.sessionStore.RevokeSession(c.Request().Context(), jti, ttl)
		}
	}

	h.clearSessionCookie(c)
	return c.JSON(http.StatusOK, map[string]string{"message": "signed out"})
}

func (h *AuthHandler) setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(auth.SessionTokenExpiry),
	})
}

func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// contextClaims pulls the verified token claims stored by the JWT middleware.
func contextClaims(c echo.Context) (jwt.MapClaims, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// rawContextToken returns the compact token string the middleware verified.
func rawContextToken(c echo.Context) (string, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok || token.Raw == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	return token.Raw, nil
}
