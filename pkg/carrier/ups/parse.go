package ups

import (
	"strconv"
	"time"

	"github.com/parcelgrid/rateshop/pkg/carrier"
)

// parseMonetary parses a wire monetary value. Empty, non-numeric, and
// negative inputs fail with a validation error naming the field.
func parseMonetary(field, value string) (float64, error) {
	if value == "" {
		return 0, carrier.NewValidationError(carrierName, field+" is empty")
	}

	amount, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, carrier.NewValidationError(carrierName, field+" is not numeric: "+value)
	}
	if amount < 0 {
		return 0, carrier.NewValidationError(carrierName, field+" is negative: "+value)
	}
	return amount, nil
}

// parseWireDate reformats a compact UPS YYYYMMDD date as an ISO calendar
// date. Malformed dates report absence instead of failing.
func parseWireDate(value string) (string, bool) {
	if len(value) != 8 {
		return "", false
	}

	t, err := time.Parse("20060102", value)
	if err != nil {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

// parseTransitDays parses a business-day count. Non-numeric and negative
// values report absence instead of failing.
func parseTransitDays(value string) (int, bool) {
	if value == "" {
		return 0, false
	}

	days, err := strconv.Atoi(value)
	if err != nil || days < 0 {
		return 0, false
	}
	return days, true
}
