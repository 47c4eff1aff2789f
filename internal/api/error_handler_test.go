package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookwyrm/bookshelf-system/internal/core/domain"
)

func renderError(t *testing.T, err error) (int, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return rec.Code, body
}

func TestHTTPErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		err     error
		code    int
		message string
	}{
		{domain.ErrFieldsRequired, http.StatusBadRequest, "All fields are required"},
		{domain.ErrPasswordTooShort, http.StatusBadRequest, "Password must be at least 6 characters long"},
		{domain.ErrUsernameTooShort, http.StatusBadRequest, "Username must be at least 3 characters long"},
		{domain.ErrEmailTaken, http.StatusBadRequest, "Email is already registered"},
		{domain.ErrCredentialsRequired, http.StatusBadRequest, "Email and password are required"},
		{domain.ErrInvalidCredentials, http.StatusBadRequest, "Invalid email or password"},
		{domain.ErrTooManyAttempts, http.StatusTooManyRequests, "Too many login attempts, try again later"},
		{domain.ErrBookNotFound, http.StatusNotFound, "Book not found"},
		{domain.ErrForbidden, http.StatusForbidden, "Forbidden: You can only delete your own books"},
		{domain.ErrUploadFailed, http.StatusBadGateway, "Image upload failed"},
		{domain.ErrUserNotFound, http.StatusNotFound, "User not found"},
	}

	for _, tc := range cases {
		code, body := renderError(t, tc.err)
		if code != tc.code {
			t.Errorf("%v: expected status %d, got %d", tc.err, tc.code, code)
		}
		if body["success"] != false {
			t.Errorf("%v: expected success=false envelope, got %v", tc.err, body)
		}
		if body["message"] != tc.message {
			t.Errorf("%v: expected message %q, got %q", tc.err, tc.message, body["message"])
		}
	}
}

func TestHTTPErrorHandler_WrappedDomainError(t *testing.T) {
	code, body := renderError(t, fmt.Errorf("create user: %w", domain.ErrEmailTaken))
	if code != http.StatusBadRequest {
		t.Fatalf("wrapped error lost its mapping: got %d", code)
	}
	if body["message"] != "Email is already registered" {
		t.Fatalf("unexpected message %q", body["message"])
	}
}

func TestHTTPErrorHandler_EchoErrorPassthrough(t *testing.T) {
	code, body := renderError(t, echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized: Invalid token"))
	if code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
	if body["message"] != "Unauthorized: Invalid token" {
		t.Fatalf("unexpected message %q", body["message"])
	}
}

func TestHTTPErrorHandler_UnexpectedError(t *testing.T) {
	code, body := renderError(t, errors.New("mongo: connection reset"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if body["message"] != "Internal server error" {
		t.Fatalf("internal cause leaked to client: %q", body["message"])
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := c.NoContent(http.StatusOK); err != nil {
		t.Fatalf("commit response: %v", err)
	}

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late failure"), c)

	if rec.Body.Len() != 0 {
		t.Fatalf("handler wrote to a committed response: %q", rec.Body.String())
	}
}
