package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// FileStorage defines the interface for object storage operations. Exercise
// media (demo images and videos) is uploaded by clients directly against
// presigned URLs; the API only brokers the URLs and records the result.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows PUT requests
	// for uploading an object directly to the storage provider.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading/viewing an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

// MediaObjectKey builds the bucket key for an exercise media object. Keys
// are namespaced per exercise so replacing media never orphans another
// exercise's files.
func MediaObjectKey(exerciseID primitive.ObjectID, kind, filename string) string {
	return fmt.Sprintf("exercises/%s/%s/%s", exerciseID.Hex(), kind, filename)
}
