package utils

import (
	"context"
	"os"
	"strings"
)

const (
	StorageProviderLocal = "local"
	StorageProviderGCS   = "gcs"
)

// BlobStore is durable byte storage addressed by key. It backs both the
// encrypted inventory snapshots and the rendered scan-result artifacts.
// Keys are slash-separated relative paths; implementations reject
// traversal outside their root.
type BlobStore interface {
	Write(ctx context.Context, key string, data []byte) error
	Read(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
}

func GetStorageProvider() string {
	provider := strings.TrimSpace(strings.ToLower(os.Getenv("STORAGE_PROVIDER")))
	if provider == "" {
		return StorageProviderLocal
	}
	return provider
}

// NewBlobStoreFromEnv picks the blob store implementation from
// STORAGE_PROVIDER: "local" (default, rooted at STORAGE_ROOT or ./data)
// or "gcs" (requires GCS_BUCKET).
func NewBlobStoreFromEnv() (BlobStore, error) {
	switch GetStorageProvider() {
	case StorageProviderGCS:
		return NewGCSBlobStore(strings.TrimSpace(os.Getenv("GCS_BUCKET")))
	default:
		root := strings.TrimSpace(os.Getenv("STORAGE_ROOT"))
		if root == "" {
			root = "data"
		}
		return NewLocalBlobStore(root)
	}
}
