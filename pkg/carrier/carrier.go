// Package carrier provides an abstraction layer for shipping-rate carriers.
package carrier

import (
	"context"
)

// Carrier defines the interface that all rating integrations must implement.
type Carrier interface {
	// Name returns the carrier identifier (e.g., "ups").
	Name() string

	// GetRates returns shipping rate quotes for a shipment.
	GetRates(ctx context.Context, req *RateRequest) (*RateResponse, error)

	// HealthCheck reports whether the carrier API is reachable and the
	// configured credentials are accepted. It never returns an error.
	HealthCheck(ctx context.Context) bool
}
