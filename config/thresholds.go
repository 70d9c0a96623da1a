package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/toolhub/toolhub_backend/matching"
)

func floatFromEnv(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// LoadThresholds builds the matching configuration from the
// environment, falling back to the documented defaults, and validates
// the band ordering before the server accepts traffic.
func LoadThresholds() (matching.Thresholds, error) {
	cfg := matching.DefaultThresholds()
	cfg.FoundThreshold = floatFromEnv("MATCH_FOUND_THRESHOLD", cfg.FoundThreshold)
	cfg.SuggestThreshold = floatFromEnv("MATCH_SUGGEST_THRESHOLD", cfg.SuggestThreshold)
	cfg.AvailableThreshold = floatFromEnv("SCAN_AVAILABLE_THRESHOLD", cfg.AvailableThreshold)
	cfg.ReviewThreshold = floatFromEnv("SCAN_REVIEW_THRESHOLD", cfg.ReviewThreshold)
	cfg.VendorMatchMin = floatFromEnv("VENDOR_MATCH_MIN", cfg.VendorMatchMin)
	cfg.VendorMismatchCap = floatFromEnv("VENDOR_MISMATCH_CAP", cfg.VendorMismatchCap)
	cfg.MaxResults = intFromEnv("MATCH_MAX_RESULTS", cfg.MaxResults)
	cfg.MaxSuggestions = intFromEnv("MATCH_MAX_SUGGESTIONS", cfg.MaxSuggestions)

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return cfg, fmt.Errorf("invalid matching thresholds: %w", err)
	}
	return cfg, nil
}
