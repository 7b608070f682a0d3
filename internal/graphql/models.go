package graphql

// API types for the GraphQL schema. Inputs mirror the schema's input
// objects; measurements travel as decimal strings so precision never
// passes through JSON floats.

// AddressInput mirrors the AddressInput schema type.
type AddressInput struct {
	Street1     string  `json:"street1"`
	Street2     *string `json:"street2,omitempty"`
	City        string  `json:"city"`
	StateCode   string  `json:"stateCode"`
	PostalCode  string  `json:"postalCode"`
	CountryCode *string `json:"countryCode,omitempty"`
	Residential *bool   `json:"residential,omitempty"`
}

// PackageInput mirrors the PackageInput schema type.
type PackageInput struct {
	Length        string  `json:"length"`
	Width         string  `json:"width"`
	Height        string  `json:"height"`
	DimensionUnit *string `json:"dimensionUnit,omitempty"`
	Weight        string  `json:"weight"`
	WeightUnit    *string `json:"weightUnit,omitempty"`
	Description   *string `json:"description,omitempty"`
	DeclaredValue *string `json:"declaredValue,omitempty"`
}

// RateInput mirrors the RateInput schema type.
type RateInput struct {
	Origin       *AddressInput   `json:"origin"`
	Destination  *AddressInput   `json:"destination"`
	Packages     []*PackageInput `json:"packages"`
	ServiceLevel *string         `json:"serviceLevel,omitempty"`
	PickupDate   *string         `json:"pickupDate,omitempty"` // ISO calendar date
}

// RateQuote mirrors the RateQuote schema type.
type RateQuote struct {
	Carrier           string  `json:"carrier"`
	ServiceLevel      string  `json:"serviceLevel"`
	ServiceName       string  `json:"serviceName"`
	TotalCharge       string  `json:"totalCharge"` // decimal string
	Currency          string  `json:"currency"`
	EstimatedDelivery *string `json:"estimatedDelivery,omitempty"`
	TransitDays       *int    `json:"transitDays,omitempty"`
	Guaranteed        bool    `json:"guaranteed"`
}

// Error mirrors the Error schema type.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Metadata carries per-operation bookkeeping.
type Metadata struct {
	RequestID string `json:"requestId"`
}

// RatesPayload is the result of the rates and allRates queries.
type RatesPayload struct {
	Success  bool         `json:"success"`
	Quotes   []*RateQuote `json:"quotes"`
	Errors   []*Error     `json:"errors,omitempty"`
	Metadata *Metadata    `json:"metadata,omitempty"`
}

// CarrierHealth reports one carrier's health probe result.
type CarrierHealth struct {
	Carrier string `json:"carrier"`
	Healthy bool   `json:"healthy"`
}
