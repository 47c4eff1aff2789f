package ports

import (
	"context"

	"github.com/bookwyrm/bookshelf-system/internal/core/domain"
)

type CreateBookInput struct {
	Title   string
	Caption string
	// Image is a base64 data URI as submitted by the mobile client.
	Image  string
	Rating int
}

// BookPage is one slice of the global feed.
type BookPage struct {
	Books      []*domain.Book `json:"books"`
	Page       int            `json:"currentPage"`
	Limit      int            `json:"limit"`
	TotalBooks int64          `json:"totalBooks"`
	TotalPages int            `json:"totalPages"`
}

type BookService interface {
	Create(ctx context.Context, owner *domain.User, in CreateBookInput) (*domain.Book, error)
	Feed(ctx context.Context, page, limit int) (*BookPage, error)
	Mine(ctx context.Context, owner *domain.User) ([]*domain.Book, error)
	Get(ctx context.Context, id string) (*domain.Book, error)
	Delete(ctx context.Context, owner *domain.User, id string) error
}
