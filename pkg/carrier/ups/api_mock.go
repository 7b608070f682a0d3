package ups

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/parcelgrid/rateshop/pkg/carrier"
)

// MockAPIClient is a mock implementation of APIClient for testing and for
// running the service without UPS credentials.
type MockAPIClient struct {
	// SimulateErrors makes all API calls fail.
	SimulateErrors bool
	// SimulateLatency adds a delay to every API call.
	SimulateLatency time.Duration
	// TokenTTL overrides the expires_in value of minted tokens.
	TokenTTL time.Duration

	// Hooks replace the default canned responses when set.
	OnFetchToken    func(ctx context.Context) (*TokenResponse, error)
	OnRateShipments func(ctx context.Context, token string, req *RatingRequest) (*RatingResponse, error)

	fetchTokenCalls    atomic.Int64
	rateShipmentsCalls atomic.Int64
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// FetchTokenCalls reports how many times FetchToken has been invoked.
func (m *MockAPIClient) FetchTokenCalls() int64 {
	return m.fetchTokenCalls.Load()
}

// RateShipmentsCalls reports how many times RateShipments has been invoked.
func (m *MockAPIClient) RateShipmentsCalls() int64 {
	return m.rateShipmentsCalls.Load()
}

// FetchToken returns a mock OAuth token.
func (m *MockAPIClient) FetchToken(ctx context.Context) (*TokenResponse, error) {
	m.fetchTokenCalls.Add(1)

	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, carrier.NewAuthenticationError(carrierName, "simulated token failure").WithStatusCode(401)
	}

	if m.OnFetchToken != nil {
		return m.OnFetchToken(ctx)
	}

	ttl := m.TokenTTL
	if ttl == 0 {
		ttl = 4 * time.Hour
	}

	return &TokenResponse{
		AccessToken: "mock-token-" + uuid.New().String()[:8],
		TokenType:   "Bearer",
		ExpiresIn:   NumericString(strconv.FormatInt(int64(ttl/time.Second), 10)),
		IssuedAt:    strconv.FormatInt(time.Now().UnixMilli(), 10),
	}, nil
}

// RateShipments returns mock rates for Ground, 2nd Day Air, and Next Day
// Air, each with a negotiated charge below the published one.
func (m *MockAPIClient) RateShipments(ctx context.Context, token string, req *RatingRequest) (*RatingResponse, error) {
	m.rateShipmentsCalls.Add(1)

	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, carrier.NewCarrierAPIError(carrierName, "simulated rating failure").WithStatusCode(500)
	}

	if m.OnRateShipments != nil {
		return m.OnRateShipments(ctx, token, req)
	}

	arrival := func(days int) *TimeInTransit {
		return &TimeInTransit{
			ServiceSummary: &ServiceSummary{
				EstimatedArrival: &EstimatedArrival{
					Arrival: &ArrivalDateTime{
						Date: time.Now().AddDate(0, 0, days).Format("20060102"),
					},
					BusinessDaysInTransit: strconv.Itoa(days),
				},
			},
		}
	}

	return &RatingResponse{
		RateResponse: RateResponseBody{
			Response: ResponseMeta{
				ResponseStatus: CodeDescription{Code: "1", Description: "Success"},
				TransactionReference: &TransactionReference{
					CustomerContext: req.RateRequest.Request.TransactionReference.CustomerContext,
				},
			},
			RatedShipment: []RatedShipment{
				{
					Service:      Service{Code: "03"},
					TotalCharges: &Charges{CurrencyCode: "USD", MonetaryValue: "12.45"},
					NegotiatedRateCharges: &NegotiatedRateCharges{
						TotalCharge: Charges{CurrencyCode: "USD", MonetaryValue: "10.89"},
					},
					TimeInTransit: arrival(5),
				},
				{
					Service:      Service{Code: "02"},
					TotalCharges: &Charges{CurrencyCode: "USD", MonetaryValue: "27.10"},
					NegotiatedRateCharges: &NegotiatedRateCharges{
						TotalCharge: Charges{CurrencyCode: "USD", MonetaryValue: "24.60"},
					},
					GuaranteedDelivery: &GuaranteedDelivery{BusinessDaysInTransit: "2"},
					TimeInTransit:      arrival(2),
				},
				{
					Service:      Service{Code: "01"},
					TotalCharges: &Charges{CurrencyCode: "USD", MonetaryValue: "45.30"},
					NegotiatedRateCharges: &NegotiatedRateCharges{
						TotalCharge: Charges{CurrencyCode: "USD", MonetaryValue: "41.80"},
					},
					GuaranteedDelivery: &GuaranteedDelivery{
						BusinessDaysInTransit: "1",
						DeliveryByTime:        "10:30 A.M.",
					},
					TimeInTransit: arrival(1),
				},
			},
		},
	}, nil
}

// Ensure MockAPIClient implements APIClient interface
var _ APIClient = (*MockAPIClient)(nil)
