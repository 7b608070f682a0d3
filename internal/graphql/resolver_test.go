package graphql_test

import (
	"context"
	"testing"

	"github.com/parcelgrid/rateshop/internal/graphql"
	"github.com/parcelgrid/rateshop/internal/telemetry"
	"github.com/parcelgrid/rateshop/pkg/carrier"
	"github.com/parcelgrid/rateshop/pkg/carrier/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func newTestResolver(carriers ...carrier.Carrier) *graphql.Resolver {
	registry := carrier.NewRegistry()
	for _, c := range carriers {
		registry.Register(c)
	}

	logger := otelzap.New(zap.NewNop())
	metrics := telemetry.NewMetrics()

	return graphql.NewResolver(registry, logger, metrics)
}

func rateInput() graphql.RateInput {
	countryCode := "US"
	return graphql.RateInput{
		Origin: &graphql.AddressInput{
			Street1:     "123 Main St",
			City:        "Los Angeles",
			StateCode:   "CA",
			PostalCode:  "90001",
			CountryCode: &countryCode,
		},
		Destination: &graphql.AddressInput{
			Street1:     "350 5th Ave",
			City:        "New York",
			StateCode:   "NY",
			PostalCode:  "10118",
			CountryCode: &countryCode,
		},
		Packages: []*graphql.PackageInput{
			{Length: "12", Width: "10", Height: "8", Weight: "5"},
		},
	}
}

func TestQuery_Rates(t *testing.T) {
	resolver := newTestResolver(mock.New("ups"))
	query := resolver.Query()

	ctx := context.Background()
	resp, err := query.Rates(ctx, "ups", rateInput())

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Len(t, resp.Quotes, 3) // Mock returns 3 quotes
	assert.Empty(t, resp.Errors)
	require.NotNil(t, resp.Metadata)
	assert.NotEmpty(t, resp.Metadata.RequestID)
}

func TestQuery_Rates_CarrierNotFound(t *testing.T) {
	resolver := newTestResolver(mock.New("ups"))
	query := resolver.Query()

	ctx := context.Background()
	resp, err := query.Rates(ctx, "dhl", rateInput())

	require.NoError(t, err, "carrier failures surface in the payload, not as resolver errors")
	assert.False(t, resp.Success)
	assert.Empty(t, resp.Quotes)
	require.NotEmpty(t, resp.Errors)
	assert.Equal(t, "CARRIER_NOT_FOUND", resp.Errors[0].Code)
}

func TestQuery_Rates_CarrierFailure(t *testing.T) {
	broken := mock.New("ups")
	broken.FailRates = carrier.NewNetworkError("ups", "connection refused")

	resolver := newTestResolver(broken)
	query := resolver.Query()

	ctx := context.Background()
	resp, err := query.Rates(ctx, "ups", rateInput())

	require.NoError(t, err)
	assert.False(t, resp.Success)
	require.NotEmpty(t, resp.Errors)
	assert.Equal(t, "NETWORK_ERROR", resp.Errors[0].Code)
	assert.NotEmpty(t, resp.Metadata.RequestID)
}

func TestQuery_AllRates(t *testing.T) {
	resolver := newTestResolver(mock.New("ups"), mock.New("fedex"))
	query := resolver.Query()

	ctx := context.Background()
	resp, err := query.AllRates(ctx, rateInput())

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Len(t, resp.Quotes, 6, "quotes from both carriers should merge")
	assert.Equal(t, "11.25", resp.Quotes[0].TotalCharge, "cheapest quote first")
}

func TestQuery_AllRates_PartialFailure(t *testing.T) {
	broken := mock.New("ups")
	broken.FailRates = carrier.NewNetworkError("ups", "connection refused")

	resolver := newTestResolver(broken, mock.New("fedex"))
	query := resolver.Query()

	ctx := context.Background()
	resp, err := query.AllRates(ctx, rateInput())

	require.NoError(t, err)
	assert.True(t, resp.Success, "one healthy carrier should be enough")
	assert.Len(t, resp.Quotes, 3)
}

func TestQuery_AllRates_EmptyRegistry(t *testing.T) {
	resolver := newTestResolver()
	query := resolver.Query()

	ctx := context.Background()
	resp, err := query.AllRates(ctx, rateInput())

	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Empty(t, resp.Quotes)
	require.NotEmpty(t, resp.Errors)
	assert.Equal(t, "CARRIER_NOT_FOUND", resp.Errors[0].Code)
}

func TestQuery_Health(t *testing.T) {
	resolver := newTestResolver(mock.New("ups"))
	query := resolver.Query()

	ctx := context.Background()
	healthy, err := query.Health(ctx)

	require.NoError(t, err)
	assert.True(t, healthy)
}

func TestQuery_Carriers(t *testing.T) {
	resolver := newTestResolver(mock.New("ups"), mock.New("fedex"))
	query := resolver.Query()

	ctx := context.Background()
	carriers, err := query.Carriers(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"fedex", "ups"}, carriers, "names should come back sorted")
}

func TestQuery_CarrierHealth(t *testing.T) {
	down := mock.New("fedex")
	down.Unhealthy = true

	resolver := newTestResolver(mock.New("ups"), down)
	query := resolver.Query()

	ctx := context.Background()
	health, err := query.CarrierHealth(ctx)

	require.NoError(t, err)
	require.Len(t, health, 2)
	assert.Equal(t, "fedex", health[0].Carrier)
	assert.False(t, health[0].Healthy)
	assert.Equal(t, "ups", health[1].Carrier)
	assert.True(t, health[1].Healthy)
}

func TestResolver_NewResolver(t *testing.T) {
	registry := carrier.NewRegistry()
	logger := otelzap.New(zap.NewNop())
	metrics := telemetry.NewMetrics()

	resolver := graphql.NewResolver(registry, logger, metrics)

	assert.NotNil(t, resolver)
	assert.Equal(t, registry, resolver.Registry)
	assert.Equal(t, logger, resolver.Logger)
	assert.Equal(t, metrics, resolver.Metrics)
}
