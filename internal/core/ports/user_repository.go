package ports

import (
	"context"

	"github.com/bookwyrm/bookshelf-system/internal/core/domain"
)

// UserRepository defines the credential store: durable user records keyed by
// a unique email.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
