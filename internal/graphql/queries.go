package graphql

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/parcelgrid/rateshop/pkg/carrier"
	"go.uber.org/zap"
)

// Health reports service liveness.
func (r *QueryResolver) Health(ctx context.Context) (bool, error) {
	return true, nil
}

// Carriers lists the registered carrier names in stable order.
func (r *QueryResolver) Carriers(ctx context.Context) ([]string, error) {
	names := r.Registry.Names()
	sort.Strings(names)
	return names, nil
}

// CarrierHealth probes every registered carrier.
func (r *QueryResolver) CarrierHealth(ctx context.Context) ([]*CarrierHealth, error) {
	names := r.Registry.Names()
	sort.Strings(names)

	status := r.Registry.HealthCheck(ctx)

	result := make([]*CarrierHealth, 0, len(names))
	for _, name := range names {
		result = append(result, &CarrierHealth{Carrier: name, Healthy: status[name]})
	}
	return result, nil
}

// Rates fetches quotes from one named carrier.
func (r *QueryResolver) Rates(ctx context.Context, carrierName string, input RateInput) (*RatesPayload, error) {
	start := time.Now()
	requestID := uuid.New().String()

	req := rateInputToModel(&input)

	resp, err := r.Registry.GetRates(ctx, carrierName, req)
	if err != nil {
		r.Logger.Error("Rate request failed",
			zap.String("carrier", carrierName),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		r.recordError(carrierName, err)
		r.Metrics.RecordRequest("rates", carrierName, "error", time.Since(start).Seconds())
		return errorPayload(requestID, err), nil
	}

	r.Metrics.RecordRequest("rates", carrierName, "success", time.Since(start).Seconds())
	return &RatesPayload{
		Success:  true,
		Quotes:   quotesToGraphQL(resp.Quotes),
		Metadata: &Metadata{RequestID: requestID},
	}, nil
}

// AllRates fans the request out to every registered carrier and merges
// the quotes, cheapest first. It fails only when every carrier fails.
func (r *QueryResolver) AllRates(ctx context.Context, input RateInput) (*RatesPayload, error) {
	start := time.Now()
	requestID := uuid.New().String()

	req := rateInputToModel(&input)

	quotes, err := r.Registry.GetAllRates(ctx, req)
	if err != nil {
		r.Logger.Error("All-carrier rate request failed",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		r.recordError("all", err)
		r.Metrics.RecordRequest("all_rates", "all", "error", time.Since(start).Seconds())
		return errorPayload(requestID, err), nil
	}

	r.Metrics.RecordRequest("all_rates", "all", "success", time.Since(start).Seconds())
	return &RatesPayload{
		Success:  true,
		Quotes:   quotesToGraphQL(quotes),
		Metadata: &Metadata{RequestID: requestID},
	}, nil
}

func (r *Resolver) recordError(carrierName string, err error) {
	kind, ok := carrier.KindOf(err)
	if !ok {
		kind = "unknown"
	}
	r.Metrics.RecordError(carrierName, string(kind))
}

func errorPayload(requestID string, errs ...error) *RatesPayload {
	return &RatesPayload{
		Success:  false,
		Quotes:   []*RateQuote{},
		Errors:   errorsToGraphQL(errs),
		Metadata: &Metadata{RequestID: requestID},
	}
}
