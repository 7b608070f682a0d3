package main

import (
	"context"

	"github.com/parcelgrid/rateshop/internal/config"
	"github.com/parcelgrid/rateshop/internal/telemetry"
	"github.com/parcelgrid/rateshop/pkg/carrier"
	"github.com/parcelgrid/rateshop/pkg/carrier/ups"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func initLogger(level string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level)
}

// initTracer returns a nil tracer when tracing is disabled; carrier
// clients treat a nil tracer as a no-op.
func initTracer(ctx context.Context, cfg *config.Config) (trace.Tracer, func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return nil, func(context.Context) error { return nil }, nil
	}
	return telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version)
}

func initCarrierRegistry(cfg *config.Config, logger *otelzap.Logger, tracer trace.Tracer) *carrier.Registry {
	registry := carrier.NewRegistry()

	// Register enabled carriers
	if cfg.UPSEnabled {
		registry.Register(ups.New(ups.Config{
			ClientID:      cfg.UPSClientID,
			ClientSecret:  cfg.UPSClientSecret,
			AccountNumber: cfg.UPSAccountNumber,
			OAuthURL:      cfg.UPSOAuthURL,
			BaseURL:       cfg.UPSBaseURL,
			UseMock:       cfg.UPSUseMock,
		}, logger, tracer))
	}

	return registry
}
