package carrier

import (
	"errors"
	"fmt"
)

// Kind classifies carrier failures into a closed set of variants.
// Callers branch on the kind through errors.Is or the predicate helpers,
// never on concrete carrier error types.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindAuthentication Kind = "authentication"
	KindRateLimit      Kind = "rate_limit"
	KindNetwork        Kind = "network"
	KindCarrierAPI     Kind = "carrier_api"
	KindConfiguration  Kind = "configuration"
)

// Sentinel errors for registry operations.
var (
	// ErrCarrierNotFound indicates the requested carrier is not registered.
	ErrCarrierNotFound = errors.New("carrier not found")
)

// Error is a typed failure from a carrier integration.
type Error struct {
	Kind       Kind
	Carrier    string
	Message    string
	StatusCode int  // HTTP status from the carrier, 0 when not applicable
	RetryAfter *int // seconds, set only when a rate-limited carrier sent a usable hint
	Cause      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	prefix := string(e.Kind)
	if e.Carrier != "" {
		prefix = e.Carrier + " " + prefix
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s error: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error: %s", prefix, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any carrier Error of the same kind, so
// errors.Is(err, &Error{Kind: KindRateLimit}) works across carriers.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newError(kind Kind, carrier, message string) *Error {
	return &Error{Kind: kind, Carrier: carrier, Message: message}
}

// NewValidationError creates a validation-kind error.
func NewValidationError(carrier, message string) *Error {
	return newError(KindValidation, carrier, message)
}

// NewAuthenticationError creates an authentication-kind error.
func NewAuthenticationError(carrier, message string) *Error {
	return newError(KindAuthentication, carrier, message)
}

// NewRateLimitError creates a rate-limit-kind error.
func NewRateLimitError(carrier, message string) *Error {
	return newError(KindRateLimit, carrier, message)
}

// NewNetworkError creates a network-kind error.
func NewNetworkError(carrier, message string) *Error {
	return newError(KindNetwork, carrier, message)
}

// NewCarrierAPIError creates a carrier-api-kind error.
func NewCarrierAPIError(carrier, message string) *Error {
	return newError(KindCarrierAPI, carrier, message)
}

// NewConfigurationError creates a configuration-kind error.
func NewConfigurationError(carrier, message string) *Error {
	return newError(KindConfiguration, carrier, message)
}

// WithCause attaches an underlying error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithStatusCode attaches the HTTP status the carrier responded with.
func (e *Error) WithStatusCode(code int) *Error {
	e.StatusCode = code
	return e
}

// WithRetryAfter attaches the carrier's retry hint in seconds.
func (e *Error) WithRetryAfter(seconds int) *Error {
	e.RetryAfter = &seconds
	return e
}

// KindOf returns the kind of err when it is, or wraps, a carrier Error.
func KindOf(err error) (Kind, bool) {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Kind, true
	}
	return "", false
}

func isKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return isKind(err, KindValidation) }

// IsAuthentication reports whether err is an authentication error.
func IsAuthentication(err error) bool { return isKind(err, KindAuthentication) }

// IsRateLimit reports whether err is a rate-limit error.
func IsRateLimit(err error) bool { return isKind(err, KindRateLimit) }

// IsNetwork reports whether err is a network error.
func IsNetwork(err error) bool { return isKind(err, KindNetwork) }

// IsCarrierAPI reports whether err is a carrier API error.
func IsCarrierAPI(err error) bool { return isKind(err, KindCarrierAPI) }

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool { return isKind(err, KindConfiguration) }

// IsRetryable reports whether the failure is worth retrying later.
// Rate-limit and network errors qualify; everything else is permanent.
func IsRetryable(err error) bool {
	k, ok := KindOf(err)
	return ok && (k == KindRateLimit || k == KindNetwork)
}
