package graphql

import (
	"github.com/parcelgrid/rateshop/internal/telemetry"
	"github.com/parcelgrid/rateshop/pkg/carrier"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
)

// Resolver is the root resolver for the GraphQL schema.
// It holds dependencies needed by all resolvers.
type Resolver struct {
	Registry *carrier.Registry
	Logger   *otelzap.Logger
	Metrics  *telemetry.Metrics
}

// NewResolver creates a new resolver with the given dependencies.
func NewResolver(registry *carrier.Registry, logger *otelzap.Logger, metrics *telemetry.Metrics) *Resolver {
	return &Resolver{
		Registry: registry,
		Logger:   logger,
		Metrics:  metrics,
	}
}

// Query returns the query resolver.
func (r *Resolver) Query() *QueryResolver {
	return &QueryResolver{r}
}

// QueryResolver resolves the schema's top-level queries.
type QueryResolver struct {
	*Resolver
}
