package utils

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// getGoogleClient initializes a Google Cloud Storage client.
// Prefer ADC (service account / GOOGLE_APPLICATION_CREDENTIALS).
// If you need to provide explicit JSON (e.g. locally), set GCS_CREDENTIALS_JSON.
func getGoogleClient(ctx context.Context) (*storage.Client, error) {
	if credJSON := os.Getenv("GCS_CREDENTIALS_JSON"); strings.TrimSpace(credJSON) != "" {
		return storage.NewClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
	}
	return storage.NewClient(ctx)
}

// GCSBlobStore stores blobs as objects in a Google Cloud Storage bucket.
type GCSBlobStore struct {
	bucket string
}

func NewGCSBlobStore(bucket string) (*GCSBlobStore, error) {
	if bucket == "" {
		return nil, errors.New("GCS_BUCKET is required")
	}
	return &GCSBlobStore{bucket: bucket}, nil
}

func (s *GCSBlobStore) Write(ctx context.Context, key string, data []byte) error {
	client, err := getGoogleClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	wc := client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return err
	}
	return wc.Close()
}

func (s *GCSBlobStore) Read(ctx context.Context, key string) ([]byte, error) {
	client, err := getGoogleClient(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	reader, err := client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

func (s *GCSBlobStore) Exists(ctx context.Context, key string) (bool, error) {
	client, err := getGoogleClient(ctx)
	if err != nil {
		return false, err
	}
	defer client.Close()

	_, err = client.Bucket(s.bucket).Object(key).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
