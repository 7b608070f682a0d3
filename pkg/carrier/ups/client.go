// Package ups provides integration with the UPS Rating API.
package ups

import (
	"context"
	"time"

	"github.com/parcelgrid/rateshop/pkg/carrier"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const carrierName = "ups"

// Config holds UPS configuration.
type Config struct {
	ClientID      string
	ClientSecret  string
	AccountNumber string // shipper account, unlocks negotiated rates
	OAuthURL      string
	BaseURL       string
	UseMock       bool // When true, uses a mock API client
}

// Client is the UPS carrier client. It implements carrier.Carrier by
// composing the token manager, the wire mapper, and the response
// validator behind one rating pipeline.
type Client struct {
	config    Config
	apiClient APIClient
	tokens    *TokenManager
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new UPS client.
// If cfg.UseMock is true, it uses a mock API client for testing.
// Otherwise, it uses the real HTTP API client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			OAuthURL:     cfg.OAuthURL,
			BaseURL:      cfg.BaseURL,
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Timeout:      30 * time.Second,
		})
	}

	return NewWithAPIClient(cfg, apiClient, logger, tracer)
}

// NewWithAPIClient creates a new UPS client with a custom API client.
// This is useful for injecting mock clients in tests.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	return &Client{
		config:    cfg,
		apiClient: apiClient,
		tokens:    NewTokenManager(apiClient),
		logger:    logger,
		tracer:    tracer,
	}
}

// Name returns the carrier name.
func (c *Client) Name() string {
	return carrierName
}

// GetRates returns shipping quotes from UPS.
func (c *Client) GetRates(ctx context.Context, req *carrier.RateRequest) (*carrier.RateResponse, error) {
	if c.tracer != nil {
		var span trace.Span
		ctx, span = c.tracer.Start(ctx, "ups.GetRates")
		defer span.End()
	}

	req = req.Normalized()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c.logger.Info("Getting UPS rates",
		zap.String("origin_city", req.Origin.City),
		zap.String("destination_city", req.Destination.City),
		zap.Int("package_count", len(req.Packages)),
	)

	token, err := c.tokens.GetToken(ctx)
	if err != nil {
		c.logger.Error("UPS token error", zap.Error(err))
		return nil, err
	}

	wireReq := buildRateRequest(req, c.config.AccountNumber)

	wireResp, err := c.apiClient.RateShipments(ctx, token, wireReq)
	if err != nil {
		if carrier.IsAuthentication(err) {
			// The carrier rejected our cached token; drop it so the
			// next call starts from a fresh fetch.
			c.tokens.Invalidate()
		}
		c.logger.Error("UPS API error", zap.Error(err))
		return nil, err
	}

	if err := validateRatingResponse(wireResp); err != nil {
		return nil, err
	}

	rated := wireResp.RateResponse.RatedShipment
	quotes := make([]carrier.RateQuote, 0, len(rated))
	for i := range rated {
		quote, err := quoteFromRatedShipment(&rated[i])
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, quote)
	}

	return &carrier.RateResponse{
		Quotes:        quotes,
		TransactionID: transactionID(wireResp),
	}, nil
}

// HealthCheck reports whether a token can be acquired. Any failure reads
// as unhealthy; the error itself is only logged.
func (c *Client) HealthCheck(ctx context.Context) bool {
	if _, err := c.tokens.GetToken(ctx); err != nil {
		c.logger.Warn("UPS health check failed", zap.Error(err))
		return false
	}
	return true
}

// ============================================================================
// Mapping helpers
// ============================================================================

// transactionID echoes UPS's transaction reference when present.
func transactionID(resp *RatingResponse) string {
	ref := resp.RateResponse.Response.TransactionReference
	if ref == nil {
		return ""
	}
	return ref.CustomerContext
}
