package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/parcelgrid/rateshop/internal/server"
	"github.com/parcelgrid/rateshop/pkg/carrier"
	"github.com/parcelgrid/rateshop/pkg/carrier/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	logger := otelzap.New(zap.NewNop())
	registry := carrier.NewRegistry()
	registry.Register(mock.New("ups"))
	registry.Register(mock.New("fedex"))

	return server.New(server.Config{Port: 8080}, registry, logger).Handler()
}

func postGraphQL(t *testing.T, handler http.Handler, payload string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

const rateInputLiteral = `{
	origin: {street1: "123 Main St", city: "Los Angeles", stateCode: "CA", postalCode: "90001", countryCode: "US"},
	destination: {street1: "350 5th Ave", city: "New York", stateCode: "NY", postalCode: "10118", countryCode: "US"},
	packages: [{length: 12, width: 10, height: 8, weight: 5}]
}`

func TestServer_Health(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestServer_Metrics(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_GraphQL_MethodNotAllowed(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/graphql", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	resp := decodeResponse(t, rec)
	errs, ok := resp["errors"].([]interface{})
	require.True(t, ok)
	assert.Len(t, errs, 1)
}

func TestServer_GraphQL_InvalidJSON(t *testing.T) {
	handler := newTestHandler(t)

	rec := postGraphQL(t, handler, "not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_GraphQL_InvalidQuery(t *testing.T) {
	handler := newTestHandler(t)

	rec := postGraphQL(t, handler, `{"query": "query {{{"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_GraphQL_HealthQuery(t *testing.T) {
	handler := newTestHandler(t)

	rec := postGraphQL(t, handler, `{"query": "query { health }"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, data["health"])
}

func TestServer_GraphQL_Alias(t *testing.T) {
	handler := newTestHandler(t)

	rec := postGraphQL(t, handler, `{"query": "query { up: health }"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, true, data["up"], "results should land under the requested alias")
}

func TestServer_GraphQL_Carriers(t *testing.T) {
	handler := newTestHandler(t)

	rec := postGraphQL(t, handler, `{"query": "query { carriers }"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	data := resp["data"].(map[string]interface{})
	carriers, ok := data["carriers"].([]interface{})
	require.True(t, ok)
	assert.ElementsMatch(t, []interface{}{"ups", "fedex"}, carriers)
}

func TestServer_GraphQL_CarrierHealth(t *testing.T) {
	handler := newTestHandler(t)

	rec := postGraphQL(t, handler, `{"query": "query { carrierHealth { carrier healthy } }"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	data := resp["data"].(map[string]interface{})
	health, ok := data["carrierHealth"].([]interface{})
	require.True(t, ok)
	assert.Len(t, health, 2)
}

func TestServer_GraphQL_Rates(t *testing.T) {
	handler := newTestHandler(t)

	query := `query { rates(carrier: "ups", input: ` + rateInputLiteral + `) { success } }`
	body, err := json.Marshal(map[string]string{"query": query})
	require.NoError(t, err)

	rec := postGraphQL(t, handler, string(body))
	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	data := resp["data"].(map[string]interface{})
	rates, ok := data["rates"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, rates["success"])

	quotes, ok := rates["quotes"].([]interface{})
	require.True(t, ok)
	assert.Len(t, quotes, 3)
}

func TestServer_GraphQL_Rates_Variables(t *testing.T) {
	handler := newTestHandler(t)

	payload := map[string]interface{}{
		"query": `query Rates($carrier: String!, $input: RateInput!) { rates(carrier: $carrier, input: $input) { success } }`,
		"variables": map[string]interface{}{
			"carrier": "ups",
			"input": map[string]interface{}{
				"origin": map[string]interface{}{
					"street1": "123 Main St", "city": "Los Angeles",
					"stateCode": "CA", "postalCode": "90001", "countryCode": "US",
				},
				"destination": map[string]interface{}{
					"street1": "350 5th Ave", "city": "New York",
					"stateCode": "NY", "postalCode": "10118", "countryCode": "US",
				},
				"packages": []map[string]interface{}{
					{"length": 12, "width": 10, "height": 8, "weight": 5},
				},
			},
		},
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	rec := postGraphQL(t, handler, string(body))
	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	data := resp["data"].(map[string]interface{})
	rates := data["rates"].(map[string]interface{})
	assert.Equal(t, true, rates["success"])
}

func TestServer_GraphQL_Rates_UnknownCarrier(t *testing.T) {
	handler := newTestHandler(t)

	query := `query { rates(carrier: "dhl", input: ` + rateInputLiteral + `) { success } }`
	body, err := json.Marshal(map[string]string{"query": query})
	require.NoError(t, err)

	rec := postGraphQL(t, handler, string(body))
	assert.Equal(t, http.StatusOK, rec.Code, "carrier failures are payload errors, not HTTP errors")

	resp := decodeResponse(t, rec)
	data := resp["data"].(map[string]interface{})
	rates := data["rates"].(map[string]interface{})
	assert.Equal(t, false, rates["success"])

	errs, ok := rates["errors"].([]interface{})
	require.True(t, ok)
	first := errs[0].(map[string]interface{})
	assert.Equal(t, "CARRIER_NOT_FOUND", first["code"])
}

func TestServer_GraphQL_AllRates(t *testing.T) {
	handler := newTestHandler(t)

	query := `query { allRates(input: ` + rateInputLiteral + `) { success } }`
	body, err := json.Marshal(map[string]string{"query": query})
	require.NoError(t, err)

	rec := postGraphQL(t, handler, string(body))
	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	data := resp["data"].(map[string]interface{})
	allRates := data["allRates"].(map[string]interface{})
	assert.Equal(t, true, allRates["success"])

	quotes, ok := allRates["quotes"].([]interface{})
	require.True(t, ok)
	assert.Len(t, quotes, 6)
}

func TestServer_GraphQL_OperationName(t *testing.T) {
	handler := newTestHandler(t)

	payload := map[string]string{
		"query":         "query Liveness { health } query Names { carriers }",
		"operationName": "Names",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	rec := postGraphQL(t, handler, string(body))
	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	data := resp["data"].(map[string]interface{})
	_, hasCarriers := data["carriers"]
	_, hasHealth := data["health"]
	assert.True(t, hasCarriers)
	assert.False(t, hasHealth)
}

func TestServer_GraphQL_AmbiguousOperation(t *testing.T) {
	handler := newTestHandler(t)

	payload := map[string]string{
		"query": "query Liveness { health } query Names { carriers }",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	rec := postGraphQL(t, handler, string(body))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "multiple operations need an operationName")
}

func TestServer_GraphQL_UnknownField(t *testing.T) {
	handler := newTestHandler(t)

	rec := postGraphQL(t, handler, `{"query": "query { shipments }"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeResponse(t, rec)
	errs, ok := resp["errors"].([]interface{})
	require.True(t, ok)
	first := errs[0].(map[string]interface{})
	assert.Contains(t, first["message"], "shipments")
}

func TestServer_GraphQL_MutationRejected(t *testing.T) {
	handler := newTestHandler(t)

	rec := postGraphQL(t, handler, `{"query": "mutation { health }"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
