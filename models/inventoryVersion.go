package models

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNoInventory     = errors.New("no inventory has been uploaded")
	ErrVersionConflict = errors.New("inventory version already allocated")
)

// InventoryVersion records one uploaded inventory snapshot. The
// workbook bytes themselves live encrypted in blob storage under
// StorageKey; the row carries the metadata clients list and the
// version counter the allocator guards.
type InventoryVersion struct {
	ID               int       `gorm:"primary_key" json:"id"`
	Version          int       `gorm:"not null;uniqueIndex" json:"version"`
	OriginalFilename string    `gorm:"size:255;not null" json:"original_filename"`
	StorageKey       string    `gorm:"size:255;not null" json:"-"`
	RowCount         int       `gorm:"not null" json:"row_count"`
	UploadedBy       string    `gorm:"size:100;not null" json:"uploaded_by"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// VersionStore owns the inventory version sequence. NextVersion is a
// peek; Persist allocates the version it returns, so two concurrent
// uploads never share one.
type VersionStore interface {
	NextVersion(ctx context.Context) (int, error)
	Persist(ctx context.Context, record *InventoryVersion) error
	Latest(ctx context.Context) (*InventoryVersion, error)
	History(ctx context.Context, limit int) ([]InventoryVersion, error)
}

type GormVersionStore struct {
	db *gorm.DB
}

func NewGormVersionStore(db *gorm.DB) *GormVersionStore {
	return &GormVersionStore{db: db}
}

func (s *GormVersionStore) NextVersion(ctx context.Context) (int, error) {
	var max *int
	err := s.db.WithContext(ctx).Model(&InventoryVersion{}).
		Select("MAX(version)").Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 1, nil
	}
	return *max + 1, nil
}

// Persist allocates the next version inside a transaction holding a
// write lock over the current maximum. A duplicate-key error means a
// concurrent upload won the version; one retry picks up the next slot.
func (s *GormVersionStore) Persist(ctx context.Context, record *InventoryVersion) error {
	attempt := func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var max *int
			err := tx.Model(&InventoryVersion{}).
				Clauses(clause.Locking{Strength: "UPDATE"}).
				Select("MAX(version)").Scan(&max).Error
			if err != nil {
				return err
			}
			record.Version = 1
			if max != nil {
				record.Version = *max + 1
			}
			record.ID = 0
			return tx.Create(record).Error
		})
	}

	err := attempt()
	if isDuplicateKey(err) {
		err = attempt()
		if isDuplicateKey(err) {
			return ErrVersionConflict
		}
	}
	return err
}

func (s *GormVersionStore) Latest(ctx context.Context) (*InventoryVersion, error) {
	var record InventoryVersion
	err := s.db.WithContext(ctx).Order("version DESC").First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoInventory
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *GormVersionStore) History(ctx context.Context, limit int) ([]InventoryVersion, error) {
	var records []InventoryVersion
	err := s.db.WithContext(ctx).Order("version DESC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
