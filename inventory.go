package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bsm/redislock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/toolhub/toolhub_backend/config"
	"github.com/toolhub/toolhub_backend/matching"
	"github.com/toolhub/toolhub_backend/models"
	"github.com/toolhub/toolhub_backend/reports"
	"github.com/toolhub/toolhub_backend/utils"
)

const maxInventoryUploadBytes = 20 * 1024 * 1024

// Snapshot load outcomes the lookup and scan endpoints report to
// clients. A decrypt failure is distinct from "nothing uploaded yet":
// the stored artifact exists but cannot be verified.
var errSnapshotUnverified = errors.New("stored inventory could not be decrypted")

func (app *application) uploadInventoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := app.logger
		username, _ := utils.GetUsernameFromContext(c.Request.Context())

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		if fileHeader.Size > maxInventoryUploadBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file size exceeds 20MB limit"})
			return
		}
		f, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read file"})
			return
		}
		defer f.Close()
		raw, err := io.ReadAll(f)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read file"})
			return
		}

		sheet, err := reports.ParseWorkbook(bytes.NewReader(raw))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := sheet.Validate(app.maxInventoryRows); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Cross-instance serialization of uploads is a best-effort
		// optimization; the version store transaction is the real guard.
		if redisLock := config.GetRedisLock(); redisLock != nil {
			lock, err := redisLock.Obtain(c.Request.Context(), "lock:inventory-upload", 30*time.Second, nil)
			if err == nil {
				defer func() {
					if releaseErr := lock.Release(c.Request.Context()); releaseErr != nil {
						config.LogError(logger, "inventory.go", "uploadInventoryHandler", "lock.Release", nil, releaseErr)
					}
				}()
			} else if err != redislock.ErrNotObtained {
				config.LogError(logger, "inventory.go", "uploadInventoryHandler", "redisLock.Obtain", nil, err)
			}
		}

		encrypted, err := utils.EncryptBytes(app.secretKey, raw)
		if err != nil {
			config.LogError(logger, "inventory.go", "uploadInventoryHandler", "EncryptBytes", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to store inventory"})
			return
		}
		storageKey := fmt.Sprintf("inventory/%s.xlsx.enc", uuid.NewString())
		if err := app.blobs.Write(c.Request.Context(), storageKey, encrypted); err != nil {
			config.LogError(logger, "inventory.go", "uploadInventoryHandler", "blobs.Write", storageKey, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to store inventory"})
			return
		}

		record := &models.InventoryVersion{
			OriginalFilename: fileHeader.Filename,
			StorageKey:       storageKey,
			RowCount:         len(sheet.Rows),
			UploadedBy:       username,
		}
		if err := app.versions.Persist(c.Request.Context(), record); err != nil {
			config.LogError(logger, "inventory.go", "uploadInventoryHandler", "versions.Persist", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to store inventory"})
			return
		}

		app.appendAudit(c.Request.Context(), models.AuditActionUpload,
			fmt.Sprintf("uploaded inventory version %d (%d rows)", record.Version, record.RowCount))

		c.JSON(http.StatusOK, gin.H{
			"version":           record.Version,
			"original_filename": record.OriginalFilename,
			"row_count":         record.RowCount,
			"uploaded_by":       record.UploadedBy,
			"created_at":        record.CreatedAt,
		})
	}
}

func (app *application) listVersionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := queryInt(c, "limit", 20)
		history, err := app.versions.History(c.Request.Context(), limit)
		if err != nil {
			config.LogError(app.logger, "inventory.go", "listVersionsHandler", "versions.History", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to list versions"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"versions": history})
	}
}

// loadLatestSnapshot fetches, decrypts and parses the newest inventory.
// It returns models.ErrNoInventory when nothing has been uploaded and
// errSnapshotUnverified when the blob exists but fails decryption.
func (app *application) loadLatestSnapshot(ctx context.Context) (*matching.Snapshot, *models.InventoryVersion, error) {
	record, err := app.versions.Latest(ctx)
	if err != nil {
		return nil, nil, err
	}
	encrypted, err := app.blobs.Read(ctx, record.StorageKey)
	if err != nil {
		return nil, record, errSnapshotUnverified
	}
	raw, err := utils.DecryptBytes(app.secretKey, encrypted)
	if err != nil {
		return nil, record, errSnapshotUnverified
	}
	sheet, err := reports.ParseWorkbook(bytes.NewReader(raw))
	if err != nil {
		return nil, record, errSnapshotUnverified
	}
	snap := &matching.Snapshot{
		Version: record.Version,
		Records: reports.Records(sheet),
	}
	return snap, record, nil
}

func (app *application) appendAudit(ctx context.Context, action models.AuditAction, detail string) {
	username, _ := utils.GetUsernameFromContext(ctx)
	cid, _ := utils.GetCorrelationIdFromContext(ctx)
	event := &models.AuditEvent{
		Action:        action,
		Username:      username,
		Detail:        detail,
		CorrelationId: cid,
	}
	if err := app.audit.Append(ctx, event); err != nil {
		config.LogError(app.logger, "inventory.go", "appendAudit", string(action), nil, err)
	}
}

func queryInt(c *gin.Context, name string, def int) int {
	v := c.Query(name)
	if v == "" {
		return def
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil || n <= 0 {
		return def
	}
	return n
}
