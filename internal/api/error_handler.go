package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookwyrm/bookshelf-system/internal/core/domain"
)

// envelope is the canonical response shape for all API errors:
// {"success": false, "message": "<text>"}.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to deterministic HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the {success, message} envelope on every error path.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, envelope{Success: false, Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, middleware rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes. Client copy matches the
	// messages the mobile app already displays.
	switch {
	case errors.Is(err, domain.ErrFieldsRequired):
		return http.StatusBadRequest, "All fields are required"
	case errors.Is(err, domain.ErrPasswordTooShort):
		return http.StatusBadRequest, "Password must be at least 6 characters long"
	case errors.Is(err, domain.ErrUsernameTooShort):
		return http.StatusBadRequest, "Username must be at least 3 characters long"
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusBadRequest, "Email is already registered"
	case errors.Is(err, domain.ErrCredentialsRequired):
		return http.StatusBadRequest, "Email and password are required"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusBadRequest, "Invalid email or password"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, "Too many login attempts, try again later"
	case errors.Is(err, domain.ErrBookFieldsRequired):
		return http.StatusBadRequest, "All fields (title, caption, image, rating) are required"
	case errors.Is(err, domain.ErrInvalidRating):
		return http.StatusBadRequest, "Rating must be between 1 and 5"
	case errors.Is(err, domain.ErrBookNotFound):
		return http.StatusNotFound, "Book not found"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Forbidden: You can only delete your own books"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusBadGateway, "Image upload failed"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Internal server error"
}
