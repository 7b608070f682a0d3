// Package server exposes the GraphQL, health, and metrics endpoints.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/parcelgrid/rateshop/internal/graphql"
	"github.com/parcelgrid/rateshop/internal/telemetry"
	"github.com/parcelgrid/rateshop/pkg/carrier"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"go.uber.org/zap"
)

// Server is the HTTP server for the rating service.
type Server struct {
	port     int
	registry *carrier.Registry
	logger   *otelzap.Logger
	metrics  *telemetry.Metrics
	resolver *graphql.Resolver
}

// Config holds server configuration.
type Config struct {
	Port int
}

// New creates a new server instance.
func New(cfg Config, registry *carrier.Registry, logger *otelzap.Logger) *Server {
	metrics := telemetry.NewMetrics()
	resolver := graphql.NewResolver(registry, logger, metrics)

	return &Server{
		port:     cfg.Port,
		registry: registry,
		logger:   logger,
		metrics:  metrics,
		resolver: resolver,
	}
}

// Handler returns the server's route tree.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", s.handleHealth)

	// Prometheus metrics
	mux.Handle("/metrics", s.metrics.Handler())

	// GraphQL endpoint
	mux.HandleFunc("/graphql", s.handleGraphQL)

	return mux
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// GraphQL request/response types
type graphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName,omitempty"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   interface{}    `json:"data,omitempty"`
	Errors []graphQLError `json:"errors,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		json.NewEncoder(w).Encode(graphQLResponse{
			Errors: []graphQLError{{Message: "Method not allowed, use POST"}},
		})
		return
	}

	var req graphQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(graphQLResponse{
			Errors: []graphQLError{{Message: "Invalid JSON: " + err.Error()}},
		})
		return
	}

	fields, err := topLevelFields(req.Query, req.OperationName)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(graphQLResponse{
			Errors: []graphQLError{{Message: err.Error()}},
		})
		return
	}

	data := make(map[string]interface{}, len(fields))
	for _, field := range fields {
		result, err := s.resolveField(r.Context(), field, req.Variables)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(graphQLResponse{
				Errors: []graphQLError{{Message: err.Error()}},
			})
			return
		}

		key := field.Alias
		if key == "" {
			key = field.Name
		}
		data[key] = result
	}

	json.NewEncoder(w).Encode(graphQLResponse{Data: data})
}

// topLevelFields parses the query document and returns the top-level
// selections of the requested operation.
func topLevelFields(query, operationName string) ([]*ast.Field, error) {
	doc, err := parser.ParseQuery(&ast.Source{Input: query})
	if err != nil {
		return nil, fmt.Errorf("invalid GraphQL query: %w", err)
	}

	op := doc.Operations.ForName(operationName)
	if op == nil {
		return nil, fmt.Errorf("operation %q not found", operationName)
	}
	if op.Operation != ast.Query {
		return nil, fmt.Errorf("only queries are supported")
	}

	fields := make([]*ast.Field, 0, len(op.SelectionSet))
	for _, sel := range op.SelectionSet {
		field, ok := sel.(*ast.Field)
		if !ok {
			return nil, fmt.Errorf("fragments are not supported")
		}
		fields = append(fields, field)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty selection set")
	}
	return fields, nil
}

// resolveField dispatches one top-level query field to the resolver.
func (s *Server) resolveField(ctx context.Context, field *ast.Field, vars map[string]interface{}) (interface{}, error) {
	switch field.Name {
	case "health":
		return s.resolver.Query().Health(ctx)

	case "carriers":
		return s.resolver.Query().Carriers(ctx)

	case "carrierHealth":
		return s.resolver.Query().CarrierHealth(ctx)

	case "rates":
		carrierName, err := stringArg(field, vars, "carrier")
		if err != nil {
			return nil, err
		}
		input, err := parseRateInput(field, vars)
		if err != nil {
			return nil, err
		}
		return s.resolver.Query().Rates(ctx, carrierName, input)

	case "allRates":
		input, err := parseRateInput(field, vars)
		if err != nil {
			return nil, err
		}
		return s.resolver.Query().AllRates(ctx, input)

	default:
		return nil, fmt.Errorf("unknown field %q", field.Name)
	}
}

// argValue materializes one field argument, resolving literals and
// variable references alike.
func argValue(field *ast.Field, vars map[string]interface{}, name string) (interface{}, error) {
	arg := field.Arguments.ForName(name)
	if arg == nil {
		return nil, fmt.Errorf("missing %q argument", name)
	}
	return arg.Value.Value(vars)
}

func stringArg(field *ast.Field, vars map[string]interface{}, name string) (string, error) {
	v, err := argValue(field, vars, name)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("argument %q must be a non-empty string", name)
	}
	return s, nil
}

// Input parsing helpers
func parseRateInput(field *ast.Field, vars map[string]interface{}) (graphql.RateInput, error) {
	var input graphql.RateInput

	v, err := argValue(field, vars, "input")
	if err != nil {
		return input, err
	}
	data, ok := v.(map[string]interface{})
	if !ok {
		return input, fmt.Errorf("missing or invalid 'input' argument")
	}

	if origin, ok := data["origin"].(map[string]interface{}); ok {
		input.Origin = parseAddressInput(origin)
	}
	if dest, ok := data["destination"].(map[string]interface{}); ok {
		input.Destination = parseAddressInput(dest)
	}
	if pkgs, ok := data["packages"].([]interface{}); ok {
		input.Packages = parsePackagesInput(pkgs)
	}
	if level, ok := data["serviceLevel"].(string); ok {
		input.ServiceLevel = &level
	}
	if date, ok := data["pickupDate"].(string); ok {
		input.PickupDate = &date
	}

	return input, nil
}

func parseAddressInput(data map[string]interface{}) *graphql.AddressInput {
	addr := &graphql.AddressInput{}
	addr.Street1, _ = data["street1"].(string)
	addr.City, _ = data["city"].(string)
	addr.StateCode, _ = data["stateCode"].(string)
	addr.PostalCode, _ = data["postalCode"].(string)

	if street2, ok := data["street2"].(string); ok {
		addr.Street2 = &street2
	}
	if countryCode, ok := data["countryCode"].(string); ok {
		addr.CountryCode = &countryCode
	}
	if residential, ok := data["residential"].(bool); ok {
		addr.Residential = &residential
	}

	return addr
}

func parsePackagesInput(pkgs []interface{}) []*graphql.PackageInput {
	result := make([]*graphql.PackageInput, 0, len(pkgs))
	for _, p := range pkgs {
		data, ok := p.(map[string]interface{})
		if !ok {
			continue
		}

		input := &graphql.PackageInput{}
		input.Length = decimalField(data, "length")
		input.Width = decimalField(data, "width")
		input.Height = decimalField(data, "height")
		input.Weight = decimalField(data, "weight")

		if unit, ok := data["dimensionUnit"].(string); ok {
			input.DimensionUnit = &unit
		}
		if unit, ok := data["weightUnit"].(string); ok {
			input.WeightUnit = &unit
		}
		if desc, ok := data["description"].(string); ok {
			input.Description = &desc
		}
		if dv := decimalField(data, "declaredValue"); dv != "" {
			input.DeclaredValue = &dv
		}

		result = append(result, input)
	}
	return result
}

// decimalField renders a JSON number or string field as decimal text.
// Variables arrive as float64, inline literals as int64 or float64.
func decimalField(data map[string]interface{}, key string) string {
	switch v := data[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}
