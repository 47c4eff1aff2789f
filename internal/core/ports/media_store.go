package ports

import "context"

// MediaStore holds uploaded images on an external object store.
type MediaStore interface {
	// Upload stores the image bytes and returns the public URL plus the
	// object name needed for later removal.
	Upload(ctx context.Context, data []byte, contentType string) (url, objectName string, err error)
	Remove(ctx context.Context, objectName string) error
}

// CleanupJob asks for the asynchronous removal of one stored object.
type CleanupJob struct {
	ObjectName string
}

// MediaCleaner accepts cleanup jobs for best-effort background removal.
type MediaCleaner interface {
	Enqueue(job CleanupJob)
}
