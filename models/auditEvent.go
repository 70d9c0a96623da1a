package models

import (
	"context"
	"time"

	"github.com/toolhub/toolhub_backend/config"
	"gorm.io/gorm"
)

type AuditAction string

const (
	AuditActionUpload   AuditAction = "inventory_upload"
	AuditActionLookup   AuditAction = "lookup"
	AuditActionScan     AuditAction = "scan"
	AuditActionDownload AuditAction = "download"
)

// AuditEvent is one row of the activity trail. Detail is free-form
// summary text; the event is written after the action succeeds.
type AuditEvent struct {
	ID            int         `gorm:"primary_key" json:"id"`
	Action        AuditAction `gorm:"size:32;not null;index" json:"action"`
	Username      string      `gorm:"size:100;not null;index" json:"username"`
	Detail        string      `gorm:"type:text" json:"detail"`
	CorrelationId string      `gorm:"size:64" json:"correlation_id"`
	CreatedAt     time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

// AuditStore appends and lists activity events. Append must not fail
// the calling operation; callers log and continue on error.
type AuditStore interface {
	Append(ctx context.Context, event *AuditEvent) error
	Recent(ctx context.Context, limit int) ([]AuditEvent, error)
}

type GormAuditStore struct {
	db *gorm.DB
}

func NewGormAuditStore(db *gorm.DB) *GormAuditStore {
	return &GormAuditStore{db: db}
}

func (s *GormAuditStore) Append(ctx context.Context, event *AuditEvent) error {
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return err
	}
	// fan out to the audit topic, best effort
	config.PublishAudit(ctx, config.AuditMessage{
		Action:        string(event.Action),
		Username:      event.Username,
		Detail:        event.Detail,
		CorrelationId: event.CorrelationId,
		CreatedAt:     event.CreatedAt,
	})
	return nil
}

func (s *GormAuditStore) Recent(ctx context.Context, limit int) ([]AuditEvent, error) {
	var events []AuditEvent
	err := s.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
