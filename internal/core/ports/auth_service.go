package ports

import (
	"context"

	"github.com/bookwyrm/bookshelf-system/internal/core/domain"
)

// AvatarFunc derives a deterministic profile-image URL from a username.
// Injected into the auth service so it can be swapped or stubbed in tests.
type AvatarFunc func(username string) string

type AuthService interface {
	// Register creates a credential record. It never returns a session;
	// callers must log in separately.
	Register(ctx context.Context, username, email, password string) error
	// Login verifies credentials and issues a signed session token together
	// with the public user view.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
