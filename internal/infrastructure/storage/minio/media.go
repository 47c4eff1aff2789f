// Package minio stores uploaded cover images on a MinIO (or any S3
// compatible) object store.
package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// minioAPI is the narrow slice of *minio.Client this package uses. Kept as
// an interface so tests can run without a live server.
type minioAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

type minioClientWrapper struct{ c *minio.Client }

func (w minioClientWrapper) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return w.c.BucketExists(ctx, bucketName)
}
func (w minioClientWrapper) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return w.c.MakeBucket(ctx, bucketName, opts)
}
func (w minioClientWrapper) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return w.c.PutObject(ctx, bucketName, objectName, reader, objectSize, opts)
}
func (w minioClientWrapper) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return w.c.RemoveObject(ctx, bucketName, objectName, opts)
}

// MediaStore implements ports.MediaStore on top of a single bucket.
type MediaStore struct {
	api     minioAPI
	bucket  string
	baseURL string
}

// NewMediaStore wraps a real *minio.Client. baseURL is the externally
// reachable prefix under which objects are served.
func NewMediaStore(ctx context.Context, client *minio.Client, bucket, baseURL string) (*MediaStore, error) {
	return newMediaStoreWithAPI(ctx, minioClientWrapper{c: client}, bucket, baseURL)
}

func newMediaStoreWithAPI(ctx context.Context, api minioAPI, bucket, baseURL string) (*MediaStore, error) {
	s := &MediaStore{
		api:     api,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	if err := s.ensureBucketExists(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket exists: %w", err)
	}
	return s, nil
}

func (s *MediaStore) ensureBucketExists(ctx context.Context) error {
	exists, err := s.api.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.api.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
}

// Upload stores the image under books/<uuid>.<ext> and returns its public
// URL plus the object name used for later removal.
func (s *MediaStore) Upload(ctx context.Context, data []byte, contentType string) (string, string, error) {
	object := fmt.Sprintf("books/%s%s", uuid.NewString(), extensionFor(contentType))

	_, err := s.api.PutObject(ctx, s.bucket, object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", "", fmt.Errorf("put object: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, object), object, nil
}

// Remove deletes a stored object.
func (s *MediaStore) Remove(ctx context.Context, objectName string) error {
	if err := s.api.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
