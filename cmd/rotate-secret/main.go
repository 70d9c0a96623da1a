// rotate-secret re-encrypts every stored inventory workbook under a new
// secret key. Run it during key rotation, then deploy the service with
// the new SECRET_KEY.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... \
//   OLD_SECRET_KEY=... SECRET_KEY=... go run ./cmd/rotate-secret
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/toolhub/toolhub_backend/config"
	"github.com/toolhub/toolhub_backend/models"
	"github.com/toolhub/toolhub_backend/utils"
)

func main() {
	ctx := context.Background()

	oldSecret := os.Getenv("OLD_SECRET_KEY")
	if oldSecret == "" {
		fmt.Fprintln(os.Stderr, "OLD_SECRET_KEY is required")
		os.Exit(1)
	}
	newSecret := config.SecretKey()
	if newSecret == oldSecret {
		fmt.Fprintln(os.Stderr, "SECRET_KEY must differ from OLD_SECRET_KEY")
		os.Exit(1)
	}

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	blobs, err := utils.NewBlobStoreFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open blob store: %v\n", err)
		os.Exit(1)
	}

	versions := models.NewGormVersionStore(db)
	history, err := versions.History(ctx, 1<<30)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to list versions: %v\n", err)
		os.Exit(1)
	}
	if len(history) == 0 {
		fmt.Println("no inventory versions to rotate")
		return
	}

	var rotated, failed int
	for _, record := range history {
		encrypted, err := blobs.Read(ctx, record.StorageKey)
		if err != nil {
			fmt.Fprintf(os.Stderr, "version %d: read %s: %v\n", record.Version, record.StorageKey, err)
			failed++
			continue
		}
		raw, err := utils.DecryptBytes(oldSecret, encrypted)
		if err != nil {
			// Already rotated in a previous partial run.
			if _, retryErr := utils.DecryptBytes(newSecret, encrypted); retryErr == nil {
				fmt.Printf("version %d: already on new key, skipping\n", record.Version)
				continue
			}
			fmt.Fprintf(os.Stderr, "version %d: decrypt failed: %v\n", record.Version, err)
			failed++
			continue
		}
		reencrypted, err := utils.EncryptBytes(newSecret, raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "version %d: encrypt failed: %v\n", record.Version, err)
			failed++
			continue
		}
		if err := blobs.Write(ctx, record.StorageKey, reencrypted); err != nil {
			fmt.Fprintf(os.Stderr, "version %d: write %s: %v\n", record.Version, record.StorageKey, err)
			failed++
			continue
		}
		rotated++
	}

	fmt.Printf("rotated %d of %d versions (%d failed)\n", rotated, len(history), failed)
	if failed > 0 {
		os.Exit(1)
	}
}
