// Package config handles application configuration via environment variables.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/parcelgrid/rateshop/pkg/carrier"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"80"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// UPS. The default endpoints point at the UPS customer integration
	// (sandbox) environment.
	UPSClientID      string `envconfig:"UPS_CLIENT_ID"`
	UPSClientSecret  string `envconfig:"UPS_CLIENT_SECRET"`
	UPSAccountNumber string `envconfig:"UPS_ACCOUNT_NUMBER"`
	UPSOAuthURL      string `envconfig:"UPS_OAUTH_URL" default:"https://wwwcie.ups.com/security/v1/oauth/token"`
	UPSBaseURL       string `envconfig:"UPS_BASE_URL" default:"https://wwwcie.ups.com/api"`
	UPSEnabled       bool   `envconfig:"UPS_ENABLED" default:"true"`
	UPSUseMock       bool   `envconfig:"UPS_USE_MOCK" default:"false"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"true"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://jaeger-collector.observability.svc.cluster.local:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"parcelgrid-rateshop"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that every enabled carrier has the credentials it
// needs. Mock-mode carriers need none.
func (c *Config) Validate() error {
	if c.UPSEnabled && !c.UPSUseMock {
		if c.UPSClientID == "" {
			return carrier.NewConfigurationError("ups", "UPS_CLIENT_ID is required")
		}
		if c.UPSClientSecret == "" {
			return carrier.NewConfigurationError("ups", "UPS_CLIENT_SECRET is required")
		}
		if c.UPSAccountNumber == "" {
			return carrier.NewConfigurationError("ups", "UPS_ACCOUNT_NUMBER is required")
		}
	}
	return nil
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.Bool("ups.enabled", c.UPSEnabled),
		attribute.Bool("ups.mock", c.UPSUseMock),
	}
}
