package service

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookwyrm/bookshelf-system/internal/core/domain"
	"github.com/bookwyrm/bookshelf-system/internal/core/ports"
)

type stubBookRepo struct {
	books     map[string]*domain.Book
	nextID    int
	insertErr error
}

func newStubBookRepo() *stubBookRepo {
	return &stubBookRepo{books: make(map[string]*domain.Book)}
}

func (r *stubBookRepo) Insert(_ context.Context, book *domain.Book) (*domain.Book, error) {
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	r.nextID++
	copy := *book
	copy.ID = "book_" + string(rune('0'+r.nextID))
	r.books[copy.ID] = &copy
	return &copy, nil
}

func (r *stubBookRepo) FindByID(_ context.Context, id string) (*domain.Book, error) {
	if b, ok := r.books[id]; ok {
		copy := *b
		return &copy, nil
	}
	return nil, domain.ErrBookNotFound
}

func (r *stubBookRepo) FindPage(_ context.Context, page, limit int) ([]*domain.Book, int64, error) {
	out := make([]*domain.Book, 0, len(r.books))
	for _, b := range r.books {
		out = append(out, b)
	}
	return out, int64(len(r.books)), nil
}

func (r *stubBookRepo) FindByOwner(_ context.Context, ownerID string) ([]*domain.Book, error) {
	out := make([]*domain.Book, 0)
	for _, b := range r.books {
		if b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *stubBookRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.books[id]; !ok {
		return domain.ErrBookNotFound
	}
	delete(r.books, id)
	return nil
}

type stubMediaStore struct {
	uploads   int
	uploadErr error
}

func (s *stubMediaStore) Upload(_ context.Context, data []byte, contentType string) (string, string, error) {
	if s.uploadErr != nil {
		return "", "", s.uploadErr
	}
	s.uploads++
	return "https://media.test/bucket/books/obj1.jpg", "books/obj1.jpg", nil
}

func (s *stubMediaStore) Remove(_ context.Context, objectName string) error {
	return nil
}

type stubCleaner struct {
	jobs []ports.CleanupJob
}

func (c *stubCleaner) Enqueue(job ports.CleanupJob) {
	c.jobs = append(c.jobs, job)
}

func testOwner() *domain.User {
	return &domain.User{
		ID:           "owner_1",
		Username:     "alice",
		Email:        "alice@example.com",
		ProfileImage: "https://avatars.test/alice",
		CreatedAt:    time.Now().UTC(),
	}
}

func validImage() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png-bytes"))
}

func TestBookService_Create_Success(t *testing.T) {
	repo := newStubBookRepo()
	media := &stubMediaStore{}
	cleaner := &stubCleaner{}
	svc := NewBookService(repo, media, cleaner, zerolog.Nop())

	book, err := svc.Create(context.Background(), testOwner(), ports.CreateBookInput{
		Title:   "  The Dispossessed ",
		Caption: "anarchist moon physics",
		Image:   validImage(),
		Rating:  5,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if book.Title != "The Dispossessed" {
		t.Fatalf("title not trimmed: %q", book.Title)
	}
	if book.Image != "https://media.test/bucket/books/obj1.jpg" {
		t.Fatalf("unexpected image url: %s", book.Image)
	}
	if book.Owner == nil || book.Owner.Username != "alice" {
		t.Fatalf("owner snapshot missing: %+v", book.Owner)
	}
	if media.uploads != 1 {
		t.Fatalf("expected one upload, got %d", media.uploads)
	}
	if len(cleaner.jobs) != 0 {
		t.Fatalf("no cleanup expected on success")
	}
}

func TestBookService_Create_Validation(t *testing.T) {
	svc := NewBookService(newStubBookRepo(), &stubMediaStore{}, &stubCleaner{}, zerolog.Nop())

	cases := []ports.CreateBookInput{
		{Title: "", Caption: "c", Image: validImage(), Rating: 3},
		{Title: "t", Caption: "   ", Image: validImage(), Rating: 3},
		{Title: "t", Caption: "c", Image: "", Rating: 3},
		{Title: "t", Caption: "c", Image: validImage(), Rating: 0},
	}
	for i, in := range cases {
		if _, err := svc.Create(context.Background(), testOwner(), in); err != domain.ErrBookFieldsRequired {
			t.Fatalf("case %d: expected ErrBookFieldsRequired, got %v", i, err)
		}
	}

	if _, err := svc.Create(context.Background(), testOwner(), ports.CreateBookInput{
		Title: "t", Caption: "c", Image: validImage(), Rating: 6,
	}); err != domain.ErrInvalidRating {
		t.Fatalf("expected ErrInvalidRating, got %v", err)
	}
}

func TestBookService_Create_UploadFailure(t *testing.T) {
	media := &stubMediaStore{uploadErr: errors.New("bucket unreachable")}
	svc := NewBookService(newStubBookRepo(), media, &stubCleaner{}, zerolog.Nop())

	_, err := svc.Create(context.Background(), testOwner(), ports.CreateBookInput{
		Title: "t", Caption: "c", Image: validImage(), Rating: 3,
	})
	if err != domain.ErrUploadFailed {
		t.Fatalf("expected ErrUploadFailed, got %v", err)
	}
}

func TestBookService_Create_InsertFailureCleansUp(t *testing.T) {
	repo := newStubBookRepo()
	repo.insertErr = errors.New("write conflict")
	cleaner := &stubCleaner{}
	svc := NewBookService(repo, &stubMediaStore{}, cleaner, zerolog.Nop())

	_, err := svc.Create(context.Background(), testOwner(), ports.CreateBookInput{
		Title: "t", Caption: "c", Image: validImage(), Rating: 3,
	})
	if err == nil {
		t.Fatalf("expected insert error")
	}
	if len(cleaner.jobs) != 1 || cleaner.jobs[0].ObjectName != "books/obj1.jpg" {
		t.Fatalf("expected orphaned object scheduled for cleanup, got %+v", cleaner.jobs)
	}
}

func TestBookService_Delete_OwnerOnly(t *testing.T) {
	repo := newStubBookRepo()
	cleaner := &stubCleaner{}
	svc := NewBookService(repo, &stubMediaStore{}, cleaner, zerolog.Nop())

	book, err := svc.Create(context.Background(), testOwner(), ports.CreateBookInput{
		Title: "t", Caption: "c", Image: validImage(), Rating: 3,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stranger := &domain.User{ID: "owner_2", Username: "mallory"}
	if err := svc.Delete(context.Background(), stranger, book.ID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if err := svc.Delete(context.Background(), testOwner(), book.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if len(cleaner.jobs) != 1 {
		t.Fatalf("expected cover scheduled for cleanup")
	}
	if _, err := svc.Get(context.Background(), book.ID); err != domain.ErrBookNotFound {
		t.Fatalf("expected book gone, got %v", err)
	}
}

func TestBookService_Feed_Paging(t *testing.T) {
	repo := newStubBookRepo()
	svc := NewBookService(repo, &stubMediaStore{}, &stubCleaner{}, zerolog.Nop())

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(context.Background(), testOwner(), ports.CreateBookInput{
			Title: "t", Caption: "c", Image: validImage(), Rating: 3,
		}); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	feed, err := svc.Feed(context.Background(), 0, 2)
	if err != nil {
		t.Fatalf("feed failed: %v", err)
	}
	if feed.Page != 1 {
		t.Fatalf("page must be clamped to 1, got %d", feed.Page)
	}
	if feed.TotalBooks != 3 || feed.TotalPages != 2 {
		t.Fatalf("unexpected totals: %+v", feed)
	}
}

func TestDecodeImage(t *testing.T) {
	raw := []byte("image-bytes")
	encoded := base64.StdEncoding.EncodeToString(raw)

	data, ct, err := DecodeImage("data:image/png;base64," + encoded)
	if err != nil || ct != "image/png" || string(data) != string(raw) {
		t.Fatalf("data URI decode failed: %v %q", err, ct)
	}

	data, ct, err = DecodeImage(encoded)
	if err != nil || ct != "image/jpeg" || string(data) != string(raw) {
		t.Fatalf("bare base64 decode failed: %v %q", err, ct)
	}

	if _, _, err := DecodeImage("data:image/png;base64"); err == nil {
		t.Fatalf("expected error for malformed data URI")
	}
	if _, _, err := DecodeImage("!!não-base64!!"); err == nil {
		t.Fatalf("expected error for invalid base64")
	}
}
