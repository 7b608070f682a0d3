package telemetry_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/parcelgrid/rateshop/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_IndependentRegistries(t *testing.T) {
	// A shared default registry would panic on duplicate registration.
	first := telemetry.NewMetrics()
	second := telemetry.NewMetrics()

	require.NotNil(t, first)
	require.NotNil(t, second)
}

func TestMetrics_RecordAndScrape(t *testing.T) {
	metrics := telemetry.NewMetrics()
	metrics.RecordRequest("rates", "ups", "success", 0.25)
	metrics.RecordError("ups", "rate_limit")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "rateshop_requests_total")
	assert.Contains(t, body, "rateshop_request_duration_seconds")
	assert.Contains(t, body, "rateshop_carrier_errors_total")
	assert.Contains(t, body, `carrier="ups"`)
	assert.Contains(t, body, `kind="rate_limit"`)
}

func TestMetrics_ScrapeWithoutObservations(t *testing.T) {
	metrics := telemetry.NewMetrics()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
