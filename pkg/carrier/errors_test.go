package carrier_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/parcelgrid/rateshop/pkg/carrier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	err := carrier.NewAuthenticationError("ups", "invalid client credentials")
	assert.Equal(t, "ups authentication error: invalid client credentials", err.Error())
}

func TestError_Error_NoCarrier(t *testing.T) {
	err := carrier.NewValidationError("", "origin street is required")
	assert.Equal(t, "validation error: origin street is required", err.Error())
}

func TestError_ErrorWithCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := carrier.NewNetworkError("ups", "rate request failed").WithCause(cause)
	assert.Contains(t, err.Error(), "rate request failed")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := carrier.NewNetworkError("ups", "rate request failed").WithCause(cause)
	assert.True(t, errors.Is(err, cause))
}

func TestError_Is_SameKind(t *testing.T) {
	err1 := carrier.NewRateLimitError("ups", "rate limit exceeded")
	err2 := carrier.NewRateLimitError("fedex", "different message")

	// Same kind should match regardless of carrier or message
	assert.True(t, errors.Is(err1, err2))
}

func TestError_Is_DifferentKind(t *testing.T) {
	err1 := carrier.NewRateLimitError("ups", "rate limit exceeded")
	err2 := carrier.NewNetworkError("ups", "rate limit exceeded")

	assert.False(t, errors.Is(err1, err2))
}

func TestError_WithStatusCode(t *testing.T) {
	err := carrier.NewAuthenticationError("ups", "unauthorized").WithStatusCode(401)
	assert.Equal(t, 401, err.StatusCode)
}

func TestError_WithRetryAfter(t *testing.T) {
	err := carrier.NewRateLimitError("ups", "too many requests").WithRetryAfter(30)
	require.NotNil(t, err.RetryAfter)
	assert.Equal(t, 30, *err.RetryAfter)
}

func TestError_RetryAfterUnsetByDefault(t *testing.T) {
	err := carrier.NewRateLimitError("ups", "too many requests")
	assert.Nil(t, err.RetryAfter)
}

func TestKindOf(t *testing.T) {
	kind, ok := carrier.KindOf(carrier.NewValidationError("ups", "bad request"))
	assert.True(t, ok)
	assert.Equal(t, carrier.KindValidation, kind)
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("ups: %w", carrier.NewNetworkError("ups", "timeout"))

	kind, ok := carrier.KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, carrier.KindNetwork, kind)
}

func TestKindOf_PlainError(t *testing.T) {
	_, ok := carrier.KindOf(errors.New("plain error"))
	assert.False(t, ok)
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		predicate func(error) bool
	}{
		{"validation", carrier.NewValidationError("ups", "m"), carrier.IsValidation},
		{"authentication", carrier.NewAuthenticationError("ups", "m"), carrier.IsAuthentication},
		{"rate_limit", carrier.NewRateLimitError("ups", "m"), carrier.IsRateLimit},
		{"network", carrier.NewNetworkError("ups", "m"), carrier.IsNetwork},
		{"carrier_api", carrier.NewCarrierAPIError("ups", "m"), carrier.IsCarrierAPI},
		{"configuration", carrier.NewConfigurationError("ups", "m"), carrier.IsConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.predicate(tt.err))
			assert.False(t, tt.predicate(errors.New("plain error")))
		})
	}
}

func TestPredicates_WrappedError(t *testing.T) {
	err := fmt.Errorf("fetching rates: %w", carrier.NewAuthenticationError("ups", "expired token"))
	assert.True(t, carrier.IsAuthentication(err))
	assert.False(t, carrier.IsNetwork(err))
}

func TestIsRetryable_RateLimit(t *testing.T) {
	assert.True(t, carrier.IsRetryable(carrier.NewRateLimitError("ups", "too many requests")))
}

func TestIsRetryable_Network(t *testing.T) {
	assert.True(t, carrier.IsRetryable(carrier.NewNetworkError("ups", "timeout")))
}

func TestIsRetryable_Permanent(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"validation", carrier.NewValidationError("ups", "m")},
		{"authentication", carrier.NewAuthenticationError("ups", "m")},
		{"carrier_api", carrier.NewCarrierAPIError("ups", "m")},
		{"configuration", carrier.NewConfigurationError("ups", "m")},
		{"plain", errors.New("plain error")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, carrier.IsRetryable(tt.err))
		})
	}
}

func TestErrCarrierNotFound(t *testing.T) {
	err := fmt.Errorf("%w: dhl", carrier.ErrCarrierNotFound)
	assert.True(t, errors.Is(err, carrier.ErrCarrierNotFound))
}
