package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/toolhub/toolhub_backend/config"
	"github.com/toolhub/toolhub_backend/models"
	"github.com/toolhub/toolhub_backend/reports"
	"github.com/toolhub/toolhub_backend/utils"
)

const maxScanUploadBytes = 10 * 1024 * 1024

type scanRowResult struct {
	Row          int     `json:"row"`
	Tool         string  `json:"tool"`
	Vendor       string  `json:"vendor"`
	Availability string  `json:"availability"`
	Score        float64 `json:"score"`
}

func scanArtifactKeys(token string) (excelKey, pdfKey string) {
	return "scans/" + token + ".xlsx", "scans/" + token + ".pdf"
}

func (app *application) scanHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "scan")
		defer span.End()
		logger := app.logger
		username, _ := utils.GetUsernameFromContext(ctx)

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		if fileHeader.Size > maxScanUploadBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file size exceeds 10MB limit"})
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
		if err := sheet.Validate(app.maxScanRows); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		canonical, err := reports.CanonicalCSV(sheet)
		if err != nil {
			config.LogError(logger, "scan.go", "scanHandler", "CanonicalCSV", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to process scan"})
			return
		}
		token := utils.ContentHash(canonical)

		if entry := app.cachedScan(ctx, token); entry != nil {
			var results []scanRowResult
			if err := json.Unmarshal([]byte(entry.ResultJSON), &results); err == nil {
				app.appendAudit(ctx, models.AuditActionScan,
					fmt.Sprintf("scanned %d rows against inventory version %d (cached)", entry.RowCount, entry.InventoryVersion))
				c.JSON(http.StatusOK, gin.H{
					"token":             entry.InputHash,
					"cached":            true,
					"inventory_version": entry.InventoryVersion,
					"results":           results,
				})
				return
			}
			config.LogError(logger, "scan.go", "scanHandler", "Unmarshal cached results", entry.InputHash, err)
		}

		// Inventory unavailability degrades instead of blocking: with no
		// loadable snapshot every row resolves to review, same as an
		// empty one. The state field tells clients which case they hit.
		snapState := "ok"
		snap, record, err := app.loadLatestSnapshot(ctx)
		if errors.Is(err, models.ErrNoInventory) {
			snap = nil
			snapState = "no_inventory"
		} else if errors.Is(err, errSnapshotUnverified) {
			config.LogError(logger, "scan.go", "scanHandler", "loadLatestSnapshot", nil, err)
			snap = nil
			snapState = "unverified"
		} else if err != nil {
			config.LogError(logger, "scan.go", "scanHandler", "loadLatestSnapshot", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to load inventory"})
			return
		}

		verdicts := app.classifier.Classify(reports.ScanRows(sheet), snap)
		results := make([]scanRowResult, 0, len(verdicts))
		for i, v := range verdicts {
			results = append(results, scanRowResult{
				Row:          i + 1,
				Tool:         sheet.Cell(i, "Name"),
				Vendor:       sheet.Cell(i, "Vendor Name"),
				Availability: string(v.Availability),
				Score:        v.Score,
			})
		}
		resultJSON, err := json.Marshal(results)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to process scan"})
			return
		}

		excelKey, pdfKey := scanArtifactKeys(token)
		workbook, err := reports.BuildScanResultWorkbook(sheet, verdicts)
		if err != nil {
			config.LogError(logger, "scan.go", "scanHandler", "BuildScanResultWorkbook", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to render results"})
			return
		}
		excelBuf, err := workbook.WriteToBuffer()
		if err != nil {
			config.LogError(logger, "scan.go", "scanHandler", "WriteToBuffer", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to render results"})
			return
		}
		pdfBytes, err := reports.BuildScanResultPDF(sheet, verdicts)
		if err != nil {
			config.LogError(logger, "scan.go", "scanHandler", "BuildScanResultPDF", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to render results"})
			return
		}
		if err := app.blobs.Write(ctx, excelKey, excelBuf.Bytes()); err != nil {
			config.LogError(logger, "scan.go", "scanHandler", "blobs.Write", excelKey, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to store results"})
			return
		}
		if err := app.blobs.Write(ctx, pdfKey, pdfBytes); err != nil {
			config.LogError(logger, "scan.go", "scanHandler", "blobs.Write", pdfKey, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to store results"})
			return
		}

		inventoryVersion := 0
		if record != nil {
			inventoryVersion = record.Version
		}
		entry := &models.ScanCacheEntry{
			InputHash:        token,
			InventoryVersion: inventoryVersion,
			ResultJSON:       string(resultJSON),
			ExcelKey:         excelKey,
			PdfKey:           pdfKey,
			RowCount:         len(sheet.Rows),
			RequestedBy:      username,
		}
		if err := app.scanCache.Put(ctx, entry); err != nil {
			config.LogError(logger, "scan.go", "scanHandler", "scanCache.Put", token, err)
		}

		app.appendAudit(ctx, models.AuditActionScan,
			fmt.Sprintf("scanned %d rows against inventory version %d", len(sheet.Rows), inventoryVersion))

		c.JSON(http.StatusOK, gin.H{
			"token":             token,
			"cached":            false,
			"state":             snapState,
			"inventory_version": inventoryVersion,
			"results":           results,
		})
	}
}

// cachedScan returns a usable cache entry or nil. An entry whose
// artifacts have vanished from blob storage is treated as a miss.
func (app *application) cachedScan(ctx context.Context, token string) *models.ScanCacheEntry {
	entry, err := app.scanCache.Get(ctx, token)
	if err != nil {
		config.LogError(app.logger, "scan.go", "cachedScan", "scanCache.Get", token, err)
		return nil
	}
	if entry == nil {
		return nil
	}
	for _, key := range []string{entry.ExcelKey, entry.PdfKey} {
		exists, err := app.blobs.Exists(ctx, key)
		if err != nil || !exists {
			return nil
		}
	}
	return entry
}

func (app *application) scanResultsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")
		entry := app.cachedScan(c.Request.Context(), token)
		if entry == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "scan not found"})
			return
		}
		var results []scanRowResult
		if err := json.Unmarshal([]byte(entry.ResultJSON), &results); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to load results"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"token":             entry.InputHash,
			"inventory_version": entry.InventoryVersion,
			"row_count":         entry.RowCount,
			"requested_by":      entry.RequestedBy,
			"created_at":        entry.CreatedAt,
			"results":           results,
		})
	}
}

func (app *application) scanDownloadHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")
		format := c.Param("format")

		entry := app.cachedScan(c.Request.Context(), token)
		if entry == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "scan not found"})
			return
		}

		var key, contentType, filename string
		switch format {
		case "excel", "xlsx":
			key = entry.ExcelKey
			contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
			filename = "scan_results.xlsx"
		case "pdf":
			key = entry.PdfKey
			contentType = "application/pdf"
			filename = "scan_results.pdf"
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "format must be excel or pdf"})
			return
		}

		data, err := app.blobs.Read(c.Request.Context(), key)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "scan not found"})
			return
		}

		app.appendAudit(c.Request.Context(), models.AuditActionDownload,
			fmt.Sprintf("downloaded %s results for scan %s", format, token))

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, contentType, data)
	}
}
