package models

import (
	"context"
	"errors"
	"time"

	"github.com/toolhub/toolhub_backend/config"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScanCacheEntry memoizes one classified scan. InputHash is the
// SHA-256 of the canonical CSV form of the submitted sheet; it doubles
// as the retrieval token. Artifacts live in blob storage under
// ExcelKey and PdfKey.
type ScanCacheEntry struct {
	ID               int       `gorm:"primary_key" json:"-"`
	InputHash        string    `gorm:"size:64;not null;uniqueIndex" json:"token"`
	InventoryVersion int       `gorm:"not null;index" json:"inventory_version"`
	ResultJSON       string    `gorm:"type:longtext;not null" json:"-"`
	ExcelKey         string    `gorm:"size:255;not null" json:"-"`
	PdfKey           string    `gorm:"size:255;not null" json:"-"`
	RowCount         int       `gorm:"not null" json:"row_count"`
	RequestedBy      string    `gorm:"size:100" json:"requested_by"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ScanCacheStore is the result cache. Get returns (nil, nil) on miss;
// Put is an upsert keyed by InputHash, so re-running a scan against a
// newer inventory replaces the stale entry.
type ScanCacheStore interface {
	Get(ctx context.Context, inputHash string) (*ScanCacheEntry, error)
	Put(ctx context.Context, entry *ScanCacheEntry) error
}

type GormScanCacheStore struct {
	db *gorm.DB
}

func NewGormScanCacheStore(db *gorm.DB) *GormScanCacheStore {
	return &GormScanCacheStore{db: db}
}

func scanCacheRedisKey(inputHash string) string {
	return "scanCache:" + inputHash
}

func (s *GormScanCacheStore) Get(ctx context.Context, inputHash string) (*ScanCacheEntry, error) {
	var cached ScanCacheEntry
	exists, err := config.GetRedisObject(scanCacheRedisKey(inputHash), &cached)
	if err == nil && exists {
		return &cached, nil
	}

	var entry ScanCacheEntry
	err = s.db.WithContext(ctx).Where("input_hash = ?", inputHash).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// repopulate the read-through layer, best effort
	_ = config.SetRedisObject(scanCacheRedisKey(inputHash), &entry, 0)
	return &entry, nil
}

func (s *GormScanCacheStore) Put(ctx context.Context, entry *ScanCacheEntry) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "input_hash"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"inventory_version", "result_json", "excel_key", "pdf_key",
			"row_count", "requested_by", "updated_at",
		}),
	}).Create(entry).Error
	if err != nil {
		return err
	}
	_ = config.SetRedisObject(scanCacheRedisKey(entry.InputHash), entry, 0)
	return nil
}
