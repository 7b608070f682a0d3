package ups

import (
	"context"
	"encoding/json"
	"strconv"
)

// APIClient defines the interface for UPS API operations.
// This abstraction allows for mock implementations during testing
// and real implementations in production.
type APIClient interface {
	// FetchToken performs the OAuth2 client-credentials exchange.
	FetchToken(ctx context.Context) (*TokenResponse, error)

	// RateShipments submits a shipment to the UPS Rating API.
	RateShipments(ctx context.Context, token string, req *RatingRequest) (*RatingResponse, error)
}

// NumericString decodes JSON values that arrive either as a number or as
// a quoted numeric string. The UPS OAuth endpoint has used both forms.
type NumericString string

// UnmarshalJSON implements json.Unmarshaler.
func (n *NumericString) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumericString(s)
		return nil
	}
	*n = NumericString(data)
	return nil
}

// Int64 parses the value as a base-10 integer.
func (n NumericString) Int64() (int64, error) {
	return strconv.ParseInt(string(n), 10, 64)
}

// TokenResponse is the success body of the OAuth token endpoint.
type TokenResponse struct {
	AccessToken string        `json:"access_token" validate:"required"`
	TokenType   string        `json:"token_type,omitempty"`
	ExpiresIn   NumericString `json:"expires_in" validate:"required"`
	IssuedAt    string        `json:"issued_at,omitempty"`
}

// ============================================================================
// Rating request wire types
// ============================================================================

// RatingRequest is the envelope for POST /rating/v1/Rate.
type RatingRequest struct {
	RateRequest RateRequestBody `json:"RateRequest"`
}

// RateRequestBody is the body of a rating request.
type RateRequestBody struct {
	Request  RequestOptions `json:"Request"`
	Shipment Shipment       `json:"Shipment"`
}

// RequestOptions carries request-level metadata.
type RequestOptions struct {
	TransactionReference TransactionReference `json:"TransactionReference,omitempty"`
}

// TransactionReference is echoed back by UPS for request tracing.
type TransactionReference struct {
	CustomerContext string `json:"CustomerContext,omitempty"`
}

// Shipment describes the shipment being rated.
type Shipment struct {
	Shipper                 Party                    `json:"Shipper"`
	ShipTo                  Party                    `json:"ShipTo"`
	ShipFrom                Party                    `json:"ShipFrom"`
	Service                 *Service                 `json:"Service,omitempty"` // omitted to rate all services
	Package                 []Package                `json:"Package"`
	ShipmentRatingOptions   *ShipmentRatingOptions   `json:"ShipmentRatingOptions,omitempty"`
	DeliveryTimeInformation *DeliveryTimeInformation `json:"DeliveryTimeInformation,omitempty"`
}

// Party is a shipper, ship-to, or ship-from block.
type Party struct {
	Name          string  `json:"Name,omitempty"`
	ShipperNumber string  `json:"ShipperNumber,omitempty"` // account number, Shipper only
	Address       Address `json:"Address"`
}

// Address is a UPS wire-format address.
type Address struct {
	AddressLine       []string `json:"AddressLine,omitempty"`
	City              string   `json:"City,omitempty"`
	StateProvinceCode string   `json:"StateProvinceCode,omitempty"`
	PostalCode        string   `json:"PostalCode,omitempty"`
	CountryCode       string   `json:"CountryCode,omitempty"`

	// UPS flags residential delivery by the presence of this element,
	// not its value. Nil omits it entirely.
	ResidentialAddressIndicator *string `json:"ResidentialAddressIndicator,omitempty"`
}

// Service identifies a UPS service by code.
type Service struct {
	Code        string `json:"Code" validate:"required"`
	Description string `json:"Description,omitempty"`
}

// CodeDescription is the generic UPS code/description pair.
type CodeDescription struct {
	Code        string `json:"Code"`
	Description string `json:"Description,omitempty"`
}

// Package is one parcel in wire format. UPS expects every measurement as
// a decimal string.
type Package struct {
	PackagingType         CodeDescription        `json:"PackagingType"`
	Dimensions            Dimensions             `json:"Dimensions"`
	PackageWeight         PackageWeight          `json:"PackageWeight"`
	PackageServiceOptions *PackageServiceOptions `json:"PackageServiceOptions,omitempty"`
}

// Dimensions is a package's dimensions in wire format.
type Dimensions struct {
	UnitOfMeasurement CodeDescription `json:"UnitOfMeasurement"`
	Length            string          `json:"Length"`
	Width             string          `json:"Width"`
	Height            string          `json:"Height"`
}

// PackageWeight is a package's weight in wire format.
type PackageWeight struct {
	UnitOfMeasurement CodeDescription `json:"UnitOfMeasurement"`
	Weight            string          `json:"Weight"`
}

// PackageServiceOptions holds per-package options such as declared value.
type PackageServiceOptions struct {
	DeclaredValue *DeclaredValue `json:"DeclaredValue,omitempty"`
}

// DeclaredValue is the insured value of a package.
type DeclaredValue struct {
	CurrencyCode  string `json:"CurrencyCode"`
	MonetaryValue string `json:"MonetaryValue"`
}

// ShipmentRatingOptions toggles rating behavior.
type ShipmentRatingOptions struct {
	NegotiatedRatesIndicator string `json:"NegotiatedRatesIndicator,omitempty"`
}

// DeliveryTimeInformation requests time-in-transit estimates.
type DeliveryTimeInformation struct {
	Pickup *Pickup `json:"Pickup,omitempty"`
}

// Pickup is the planned pickup date in compact YYYYMMDD form.
type Pickup struct {
	Date string `json:"Date,omitempty"`
}

// ============================================================================
// Rating response wire types
// ============================================================================

// RatingResponse is the envelope returned by the Rating API.
type RatingResponse struct {
	RateResponse RateResponseBody `json:"RateResponse"`
}

// RateResponseBody is the body of a rating response.
type RateResponseBody struct {
	Response      ResponseMeta    `json:"Response"`
	RatedShipment []RatedShipment `json:"RatedShipment" validate:"min=1,dive"`
}

// ResponseMeta carries response-level status and tracing metadata.
type ResponseMeta struct {
	ResponseStatus       CodeDescription       `json:"ResponseStatus" validate:"required"`
	Alert                []CodeDescription     `json:"Alert,omitempty"`
	TransactionReference *TransactionReference `json:"TransactionReference,omitempty"`
}

// RatedShipment is one priced service option in a rating response.
type RatedShipment struct {
	Service               Service                `json:"Service"`
	TotalCharges          *Charges               `json:"TotalCharges" validate:"required"`
	NegotiatedRateCharges *NegotiatedRateCharges `json:"NegotiatedRateCharges,omitempty"`
	GuaranteedDelivery    *GuaranteedDelivery    `json:"GuaranteedDelivery,omitempty"`
	TimeInTransit         *TimeInTransit         `json:"TimeInTransit,omitempty"`
	RatedShipmentAlert    []CodeDescription      `json:"RatedShipmentAlert,omitempty"`
}

// Charges is a wire-format monetary amount.
type Charges struct {
	CurrencyCode  string `json:"CurrencyCode" validate:"required,len=3"`
	MonetaryValue string `json:"MonetaryValue" validate:"required,monetary"`
}

// NegotiatedRateCharges holds account-negotiated pricing. When present it
// takes precedence over the published charges.
type NegotiatedRateCharges struct {
	TotalCharge Charges `json:"TotalCharge"`
}

// GuaranteedDelivery is present when UPS guarantees the delivery window.
type GuaranteedDelivery struct {
	BusinessDaysInTransit string `json:"BusinessDaysInTransit,omitempty"`
	DeliveryByTime        string `json:"DeliveryByTime,omitempty"`
}

// TimeInTransit nests the optional delivery estimate blocks.
type TimeInTransit struct {
	ServiceSummary *ServiceSummary `json:"ServiceSummary,omitempty"`
}

// ServiceSummary wraps the estimated arrival of one service.
type ServiceSummary struct {
	EstimatedArrival *EstimatedArrival `json:"EstimatedArrival,omitempty"`
}

// EstimatedArrival is the delivery estimate for a rated service.
type EstimatedArrival struct {
	Arrival               *ArrivalDateTime `json:"Arrival,omitempty"`
	BusinessDaysInTransit string           `json:"BusinessDaysInTransit,omitempty"`
}

// ArrivalDateTime is a compact UPS date/time pair.
type ArrivalDateTime struct {
	Date string `json:"Date,omitempty"` // YYYYMMDD
	Time string `json:"Time,omitempty"` // HHMMSS
}
