package ports

import (
	"context"

	"github.com/bookwyrm/bookshelf-system/internal/core/domain"
)

// BookRepository persists recommendations.
type BookRepository interface {
	Insert(ctx context.Context, book *domain.Book) (*domain.Book, error)
	FindByID(ctx context.Context, id string) (*domain.Book, error)
	// FindPage returns one page of the global feed, newest first, along with
	// the total number of books.
	FindPage(ctx context.Context, page, limit int) ([]*domain.Book, int64, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*domain.Book, error)
	Delete(ctx context.Context, id string) error
}
