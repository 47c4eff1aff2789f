package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookwyrm/bookshelf-system/internal/core/domain"
	"github.com/bookwyrm/bookshelf-system/internal/core/ports"
)

const defaultTokenTTL = 7 * 24 * time.Hour

// dummyHash is a valid bcrypt hash of a throwaway string. Logins for unknown
// emails are compared against it so the unknown-email and wrong-password
// paths cost the same bcrypt verification and return the same error.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService implements registration and login with stateless JWT sessions.
type AuthService struct {
	users     ports.UserRepository
	avatar    ports.AvatarFunc
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(users ports.UserRepository, avatar ports.AvatarFunc, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthService{users: users, avatar: avatar, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

// Register validates input in a fixed order (presence, password length,
// username length, email uniqueness) and persists a new credential record.
// It intentionally does not log the user in.
func (s *AuthService) Register(ctx context.Context, username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return domain.ErrFieldsRequired
	}
	if len(password) < domain.MinPasswordLength {
		return domain.ErrPasswordTooShort
	}
	if len(username) < domain.MinUsernameLength {
		return domain.ErrUsernameTooShort
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return domain.ErrEmailTaken
	} else if err != domain.ErrUserNotFound {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		ProfileImage: s.avatar(username),
		CreatedAt:    time.Now().UTC(),
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		return err
	}

	s.log.Info().Str("username", username).Msg("user registered")
	return nil
}

// Login verifies credentials and issues a token valid for tokenTTL. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrCredentialsRequired
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err == domain.ErrUserNotFound {
		// Burn a bcrypt comparison so this path is not measurably faster
		// than a wrong password for an existing account.
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		s.log.Debug().Str("email", email).Msg("login for unknown email")
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.log.Debug().Str("email", email).Msg("login with wrong password")
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// generateToken signs identity claims only: email and username, no user id.
// The auth middleware resolves the full record by email on every request.
func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"email":    user.Email,
		"username": user.Username,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
