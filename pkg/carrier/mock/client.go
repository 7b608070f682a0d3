// Package mock provides a mock carrier implementation for testing.
package mock

import (
	"context"

	"github.com/google/uuid"
	"github.com/parcelgrid/rateshop/pkg/carrier"
)

// Client is a mock carrier that returns canned quotes. Tests flip the
// exported fields to steer its behavior.
type Client struct {
	name string

	// FailRates, when set, is returned by every GetRates call.
	FailRates error
	// Unhealthy makes HealthCheck report false.
	Unhealthy bool
}

// New creates a new mock carrier with the given name.
func New(name string) *Client {
	return &Client{name: name}
}

// Name returns the configured carrier name.
func (c *Client) Name() string {
	return c.name
}

// GetRates returns canned quotes covering the common service levels.
func (c *Client) GetRates(ctx context.Context, req *carrier.RateRequest) (*carrier.RateResponse, error) {
	if c.FailRates != nil {
		return nil, c.FailRates
	}

	return &carrier.RateResponse{
		TransactionID: c.name + "-" + uuid.New().String()[:8],
		Quotes: []carrier.RateQuote{
			{
				Carrier:      c.name,
				ServiceLevel: carrier.ServiceGround,
				ServiceName:  "Ground",
				TotalCharge:  11.25,
				Currency:     "USD",
				TransitDays:  5,
			},
			{
				Carrier:      c.name,
				ServiceLevel: carrier.ServiceSecondDayAir,
				ServiceName:  "2nd Day Air",
				TotalCharge:  24.60,
				Currency:     "USD",
				TransitDays:  2,
				Guaranteed:   true,
			},
			{
				Carrier:      c.name,
				ServiceLevel: carrier.ServiceNextDayAir,
				ServiceName:  "Next Day Air",
				TotalCharge:  41.80,
				Currency:     "USD",
				TransitDays:  1,
				Guaranteed:   true,
			},
		},
	}, nil
}

// HealthCheck reports the configured health state.
func (c *Client) HealthCheck(ctx context.Context) bool {
	return !c.Unhealthy
}
