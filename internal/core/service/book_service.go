package service

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookwyrm/bookshelf-system/internal/core/domain"
	"github.com/bookwyrm/bookshelf-system/internal/core/ports"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 50
)

type bookService struct {
	books   ports.BookRepository
	media   ports.MediaStore
	cleaner ports.MediaCleaner
	log     zerolog.Logger
}

// NewBookService returns a BookService backed by the given repository, media
// store, and background cleaner.
func NewBookService(books ports.BookRepository, media ports.MediaStore, cleaner ports.MediaCleaner, log zerolog.Logger) ports.BookService {
	return &bookService{books: books, media: media, cleaner: cleaner, log: log}
}

// Create validates the recommendation, stores the cover image on the media
// store, and persists the book owned by the caller.
func (s *bookService) Create(ctx context.Context, owner *domain.User, in ports.CreateBookInput) (*domain.Book, error) {
	title := strings.TrimSpace(in.Title)
	caption := strings.TrimSpace(in.Caption)
	if title == "" || caption == "" || in.Image == "" || in.Rating == 0 {
		return nil, domain.ErrBookFieldsRequired
	}
	if !domain.ValidRating(in.Rating) {
		return nil, domain.ErrInvalidRating
	}

	data, contentType, err := DecodeImage(in.Image)
	if err != nil {
		return nil, domain.ErrUploadFailed
	}

	url, object, err := s.media.Upload(ctx, data, contentType)
	if err != nil {
		s.log.Error().Err(err).Str("owner", owner.ID).Msg("cover upload failed")
		return nil, domain.ErrUploadFailed
	}

	book := &domain.Book{
		Title:       title,
		Caption:     caption,
		Image:       url,
		ImageObject: object,
		Rating:      in.Rating,
		OwnerID:     owner.ID,
		Owner: &domain.UserRef{
			ID:           owner.ID,
			Username:     owner.Username,
			ProfileImage: owner.ProfileImage,
		},
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.books.Insert(ctx, book)
	if err != nil {
		// The cover is already stored; schedule its removal so failed
		// inserts do not leak objects.
		s.cleaner.Enqueue(ports.CleanupJob{ObjectName: object})
		return nil, err
	}

	s.log.Info().Str("book_id", created.ID).Str("owner", owner.ID).Msg("book created")
	return created, nil
}

// Feed returns one page of the global feed, newest first.
func (s *bookService) Feed(ctx context.Context, page, limit int) (*ports.BookPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	books, total, err := s.books.FindPage(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.BookPage{
		Books:      books,
		Page:       page,
		Limit:      limit,
		TotalBooks: total,
		TotalPages: totalPages,
	}, nil
}

func (s *bookService) Mine(ctx context.Context, owner *domain.User) ([]*domain.Book, error) {
	return s.books.FindByOwner(ctx, owner.ID)
}

func (s *bookService) Get(ctx context.Context, id string) (*domain.Book, error) {
	return s.books.FindByID(ctx, id)
}

// Delete removes a book owned by the caller and schedules best-effort
// removal of its stored cover image.
func (s *bookService) Delete(ctx context.Context, owner *domain.User, id string) error {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !book.OwnedBy(owner.ID) {
		return domain.ErrForbidden
	}

	if err := s.books.Delete(ctx, id); err != nil {
		return err
	}

	if book.ImageObject != "" {
		s.cleaner.Enqueue(ports.CleanupJob{ObjectName: book.ImageObject})
	}

	s.log.Info().Str("book_id", id).Str("owner", owner.ID).Msg("book deleted")
	return nil
}

// DecodeImage accepts either a bare base64 string or a data URI of the form
// data:image/<fmt>;base64,<payload> and returns the raw bytes plus the
// declared content type.
func DecodeImage(image string) ([]byte, string, error) {
	contentType := "image/jpeg"
	payload := image

	if strings.HasPrefix(image, "data:") {
		meta, rest, ok := strings.Cut(image[len("data:"):], ",")
		if !ok {
			return nil, "", domain.ErrUploadFailed
		}
		contentType = strings.TrimSuffix(meta, ";base64")
		payload = rest
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", err
	}
	return data, contentType, nil
}
