package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookwyrm/bookshelf-system/internal/api/metrics"
	"github.com/bookwyrm/bookshelf-system/internal/core/domain"
	"github.com/bookwyrm/bookshelf-system/internal/core/ports"
)

// UserContextKey is where Auth stores the resolved *domain.User.
const UserContextKey = "user"

// Auth is the session guard: it validates the Bearer token, resolves the
// email claim to a user record, and injects the record into the request
// context. Every rejection is a 401 with the same envelope shape; only the
// internal log line differentiates the cause. Storage faults are 500s, never
// conflated with auth failures.
func Auth(jwtSecret string, users ports.UserRepository, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if authHeader == "" || len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.TokenRejectionsTotal.WithLabelValues("missing_header").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized: Missing or invalid token")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				log.Debug().Err(err).Str("path", c.Path()).Msg("token rejected")
				metrics.TokenRejectionsTotal.WithLabelValues("invalid_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized: Invalid token")
			}

			// The token carries identity claims only (email, username), no
			// user id. Resolve the record by the claim actually present.
			email, _ := claims["email"].(string)
			user, err := users.FindByEmail(c.Request().Context(), email)
			if err == domain.ErrUserNotFound {
				log.Warn().Str("email", email).Msg("token for unknown user")
				metrics.TokenRejectionsTotal.WithLabelValues("user_not_found").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized: User not found")
			}
			if err != nil {
				return fmt.Errorf("auth lookup: %w", err)
			}

			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}
