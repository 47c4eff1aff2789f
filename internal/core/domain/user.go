package domain

import (
	"errors"
	"time"
)

const (
	MinUsernameLength = 3
	MinPasswordLength = 6
)

var (
	ErrFieldsRequired      = errors.New("all fields are required")
	ErrPasswordTooShort    = errors.New("password too short")
	ErrUsernameTooShort    = errors.New("username too short")
	ErrEmailTaken          = errors.New("email already registered")
	ErrCredentialsRequired = errors.New("email and password are required")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUserNotFound        = errors.New("user not found")
	ErrTooManyAttempts     = errors.New("too many login attempts")
)

// User models a registered reader. The password hash never crosses the API
// boundary; the json tag enforces that on every serialization path.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	ProfileImage string    `json:"profileImage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
