package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookwyrm/bookshelf-system/internal/api/metrics"
	"github.com/bookwyrm/bookshelf-system/internal/core/domain"
	"github.com/bookwyrm/bookshelf-system/internal/core/ports"
)

// LoginThrottle rate-limits login attempts per account key. A nil throttle
// disables limiting.
type LoginThrottle interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type AuthHandler struct {
	authService ports.AuthService
	throttle    LoginThrottle
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, throttle LoginThrottle, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, throttle: throttle, log: log}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  apiResponse
// @Failure      400   {object}  apiResponse
// @Failure      500   {object}  apiResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if err := h.authService.Register(c.Request().Context(), req.Username, req.Email, req.Password); err != nil {
		metrics.RegistrationsTotal.WithLabelValues(registerResult(err)).Inc()
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, apiResponse{
		Success: true,
		Message: "User registered successfully",
	})
}

// Login authenticates a user and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  apiResponse
// @Failure      400   {object}  apiResponse
// @Failure      429   {object}  apiResponse
// @Failure      500   {object}  apiResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	// The throttle key is derived from the submitted email whether or not an
	// account exists, so the limiter reveals nothing about registration.
	if h.throttle != nil && req.Email != "" {
		key := strings.ToLower(strings.TrimSpace(req.Email))
		allowed, err := h.throttle.Allow(c.Request().Context(), key)
		if err != nil {
			h.log.Warn().Err(err).Msg("login throttle check failed, allowing attempt")
		} else if !allowed {
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
			return domain.ErrTooManyAttempts
		}
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, apiResponse{
		Success: true,
		Message: "Login successful",
		Data:    loginData{Token: token, User: user},
	})
}

func registerResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrFieldsRequired),
		errors.Is(err, domain.ErrPasswordTooShort),
		errors.Is(err, domain.ErrUsernameTooShort),
		errors.Is(err, domain.ErrEmailTaken):
		return "rejected"
	default:
		return "error"
	}
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrCredentialsRequired):
		return "invalid_credentials"
	default:
		return "error"
	}
}
