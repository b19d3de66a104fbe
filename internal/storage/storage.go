package storage

import (
	"context"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// FileStorage defines the interface for object storage operations used for
// profile pictures.
type FileStorage interface {
	// Upload stores an object and returns the URL it is reachable at.
	Upload(ctx context.Context, objectKey string, contentType string, data []byte) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET
	// requests directly against the storage provider (private buckets).
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}
