package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bookwyrm/bookshelf-system/internal/core/domain"
)

const bookCollection = "books"

type BookRepository struct {
	coll *mongo.Collection
}

func NewBookRepository(db *mongo.Database) *BookRepository {
	return &BookRepository{coll: db.Collection(bookCollection)}
}

// mongoBook denormalizes the owner's public fields into the document, so feed
// pages never need a join. The snapshot is taken at creation time, matching
// the avatar's derive-once semantics.
type mongoBook struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Title        string             `bson:"title"`
	Caption      string             `bson:"caption"`
	Image        string             `bson:"image"`
	ImageObject  string             `bson:"image_object,omitempty"`
	Rating       int                `bson:"rating"`
	OwnerID      primitive.ObjectID `bson:"owner_id"`
	OwnerName    string             `bson:"owner_name"`
	OwnerAvatar  string             `bson:"owner_avatar,omitempty"`
	CreatedAt    int64              `bson:"created_at"`
}

func toDomainBook(mb mongoBook) *domain.Book {
	return &domain.Book{
		ID:          mb.ID.Hex(),
		Title:       mb.Title,
		Caption:     mb.Caption,
		Image:       mb.Image,
		ImageObject: mb.ImageObject,
		Rating:      mb.Rating,
		OwnerID:     mb.OwnerID.Hex(),
		Owner: &domain.UserRef{
			ID:           mb.OwnerID.Hex(),
			Username:     mb.OwnerName,
			ProfileImage: mb.OwnerAvatar,
		},
		CreatedAt: unixToTime(mb.CreatedAt),
	}
}

func (r *BookRepository) Insert(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	ownerID, err := primitive.ObjectIDFromHex(book.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("insert book: bad owner id: %w", err)
	}

	doc := mongoBook{
		Title:       book.Title,
		Caption:     book.Caption,
		Image:       book.Image,
		ImageObject: book.ImageObject,
		Rating:      book.Rating,
		OwnerID:     ownerID,
		CreatedAt:   book.CreatedAt.Unix(),
	}
	if book.Owner != nil {
		doc.OwnerName = book.Owner.Username
		doc.OwnerAvatar = book.Owner.ProfileImage
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert book: %w", err)
	}

	created := *book
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *BookRepository) FindByID(ctx context.Context, id string) (*domain.Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrBookNotFound
	}

	var mb mongoBook
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mb); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("find book: %w", err)
	}
	return toDomainBook(mb), nil
}

func (r *BookRepository) FindPage(ctx context.Context, page, limit int) ([]*domain.Book, int64, error) {
	skip := int64((page - 1) * limit)

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find books: %w", err)
	}
	defer cur.Close(ctx)

	books, err := decodeBooks(ctx, cur)
	if err != nil {
		return nil, 0, err
	}

	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	return books, total, nil
}

func (r *BookRepository) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Book, error) {
	oid, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, fmt.Errorf("find books by owner: bad owner id: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"owner_id": oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("find books by owner: %w", err)
	}
	defer cur.Close(ctx)

	return decodeBooks(ctx, cur)
}

func (r *BookRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrBookNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

func decodeBooks(ctx context.Context, cur *mongo.Cursor) ([]*domain.Book, error) {
	books := make([]*domain.Book, 0)
	for cur.Next(ctx) {
		var mb mongoBook
		if err := cur.Decode(&mb); err != nil {
			return nil, fmt.Errorf("decode book: %w", err)
		}
		books = append(books, toDomainBook(mb))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	return books, nil
}
