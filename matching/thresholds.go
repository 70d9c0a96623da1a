package matching

// Thresholds holds every tunable cut-off used by the matching engine and
// the scan classifier. They are injected at construction rather than read
// from ambient globals so deployments can tune them and tests stay
// deterministic. All score values are on the 0-100 similarity scale.
type Thresholds struct {
	// FoundThreshold is the minimum score for a lookup hit.
	FoundThreshold float64 `validate:"gte=0,lte=100"`
	// SuggestThreshold is the lower bound of the "did you mean" band;
	// the band is [SuggestThreshold, FoundThreshold).
	SuggestThreshold float64 `validate:"gte=0,lte=100,ltefield=FoundThreshold"`
	// AvailableThreshold and ReviewThreshold split bulk-scan verdicts:
	// >= AvailableThreshold is Available, >= ReviewThreshold is review,
	// below that is Unavailable.
	AvailableThreshold float64 `validate:"gte=0,lte=100"`
	ReviewThreshold    float64 `validate:"gte=0,lte=100,ltefield=AvailableThreshold"`
	// VendorMatchMin is the minimum vendor-overlap ratio for a supplied
	// vendor filter; below it the candidate score is capped at
	// VendorMismatchCap (demoted, not excluded, since inventory vendor
	// fields may be incomplete or differently phrased).
	VendorMatchMin    float64 `validate:"gte=0,lte=100"`
	VendorMismatchCap float64 `validate:"gte=0,lte=100"`

	MaxResults     int `validate:"gt=0"`
	MaxSuggestions int `validate:"gt=0"`
}

// DefaultThresholds mirrors the product matching policy.
func DefaultThresholds() Thresholds {
	return Thresholds{
		FoundThreshold:     75,
		SuggestThreshold:   50,
		AvailableThreshold: 85,
		ReviewThreshold:    60,
		VendorMatchMin:     60,
		VendorMismatchCap:  40,
		MaxResults:         15,
		MaxSuggestions:     5,
	}
}
