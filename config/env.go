package config

import (
	"log"
	"os"
)

// Row limits are env-overridable so staging can run with smaller
// inputs. Defaults match the documented template limits.
const (
	defaultMaxInventoryRows = 10000
	defaultMaxScanRows      = 5000
)

// SecretKey returns the key material the inventory encryption derives
// from. The default only exists for local development.
func SecretKey() string {
	if v := os.Getenv("SECRET_KEY"); v != "" {
		return v
	}
	log.Printf("SECRET_KEY not set; using development default")
	return "dev-secret-change-in-production"
}

func MaxInventoryRows() int {
	return intFromEnv("MAX_INVENTORY_ROWS", defaultMaxInventoryRows)
}

func MaxScanRows() int {
	return intFromEnv("MAX_SCAN_ROWS", defaultMaxScanRows)
}
