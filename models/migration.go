package models

import (
	"log"

	"github.com/toolhub/toolhub_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&InventoryVersion{},
		&ScanCacheEntry{},
		&AuditEvent{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
