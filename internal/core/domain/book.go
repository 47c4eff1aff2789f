package domain

import (
	"errors"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

var (
	ErrBookFieldsRequired = errors.New("book fields required")
	ErrInvalidRating      = errors.New("invalid rating")
	ErrBookNotFound       = errors.New("book not found")
	ErrForbidden          = errors.New("access forbidden")
	ErrUploadFailed       = errors.New("image upload failed")
)

// UserRef is the public slice of a user embedded in feed responses.
type UserRef struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// Book is a single recommendation: a title, a short caption, a cover image
// hosted on the media store, and a 1..5 star rating.
type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Caption     string    `json:"caption"`
	Image       string    `json:"image"`
	ImageObject string    `json:"-"`
	Rating      int       `json:"rating"`
	OwnerID     string    `json:"-"`
	Owner       *UserRef  `json:"user,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// OwnedBy reports whether the book belongs to the given user.
func (b *Book) OwnedBy(userID string) bool {
	return userID != "" && b.OwnerID == userID
}

// ValidRating reports whether r is inside the allowed star range.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}
