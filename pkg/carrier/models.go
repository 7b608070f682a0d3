package carrier

import (
	"strings"
	"time"
)

// ServiceLevel is a carrier-agnostic classification of shipping speed.
type ServiceLevel string

const (
	ServiceGround          ServiceLevel = "GROUND"
	ServiceExpress         ServiceLevel = "EXPRESS"
	ServiceExpressSaver    ServiceLevel = "EXPRESS_SAVER"
	ServiceNextDayAir      ServiceLevel = "NEXT_DAY_AIR"
	ServiceNextDayAirEarly ServiceLevel = "NEXT_DAY_AIR_EARLY"
	ServiceNextDayAirSaver ServiceLevel = "NEXT_DAY_AIR_SAVER"
	ServiceSecondDayAir    ServiceLevel = "2ND_DAY_AIR"
	ServiceThreeDaySelect  ServiceLevel = "3_DAY_SELECT"
	ServiceStandard        ServiceLevel = "STANDARD"
)

// WeightUnit identifies the unit a package weight is expressed in.
type WeightUnit string

const (
	WeightPounds    WeightUnit = "LBS"
	WeightKilograms WeightUnit = "KGS"
)

// DimensionUnit identifies the unit package dimensions are expressed in.
type DimensionUnit string

const (
	DimensionInch       DimensionUnit = "IN"
	DimensionCentimeter DimensionUnit = "CM"
)

// Address represents a shipping address.
type Address struct {
	Street1     string `validate:"required"`
	Street2     string
	City        string `validate:"required"`
	StateCode   string `validate:"required,len=2"`
	PostalCode  string `validate:"required,postcode_iso3166_alpha2_field=CountryCode"`
	CountryCode string `validate:"required,iso3166_1_alpha2"` // ISO 3166-1 alpha-2, e.g., "US", "CA"
	Residential bool
}

// normalize applies canonical casing and the default country in place.
func (a *Address) normalize() {
	a.StateCode = strings.ToUpper(strings.TrimSpace(a.StateCode))
	a.CountryCode = strings.ToUpper(strings.TrimSpace(a.CountryCode))
	if a.CountryCode == "" {
		a.CountryCode = "US"
	}
}

// PackageDimensions holds the outer dimensions of a package.
type PackageDimensions struct {
	Length float64       `validate:"required,gt=0"`
	Width  float64       `validate:"required,gt=0"`
	Height float64       `validate:"required,gt=0"`
	Unit   DimensionUnit `validate:"required,oneof=IN CM"`
}

// PackageWeight holds the weight of a package.
type PackageWeight struct {
	Value float64    `validate:"required,gt=0"`
	Unit  WeightUnit `validate:"required,oneof=LBS KGS"`
}

// Package represents a single parcel in a shipment.
type Package struct {
	Weight        PackageWeight     `validate:"required"`
	Dimensions    PackageDimensions `validate:"required"`
	Description   string
	DeclaredValue float64           `validate:"omitempty,gt=0"` // insured value, optional
}

func (p *Package) normalize() {
	if p.Dimensions.Unit == "" {
		p.Dimensions.Unit = DimensionInch
	}
	if p.Weight.Unit == "" {
		p.Weight.Unit = WeightPounds
	}
}

// ============================================================================
// Request/Response Types
// ============================================================================

// RateRequest describes a shipment to be rated.
type RateRequest struct {
	Origin       Address      `validate:"required"`
	Destination  Address      `validate:"required"`
	Packages     []Package    `validate:"required,min=1,dive"`
	ServiceLevel ServiceLevel `validate:"omitempty,oneof=GROUND EXPRESS EXPRESS_SAVER NEXT_DAY_AIR NEXT_DAY_AIR_EARLY NEXT_DAY_AIR_SAVER 2ND_DAY_AIR 3_DAY_SELECT STANDARD"`
	PickupDate   *time.Time
}

// Normalized returns a copy of the request with canonical casing and unit
// defaults applied. The receiver is left untouched so one request can fan
// out to several carriers safely.
func (r *RateRequest) Normalized() *RateRequest {
	out := *r
	out.Origin.normalize()
	out.Destination.normalize()
	out.Packages = make([]Package, len(r.Packages))
	copy(out.Packages, r.Packages)
	for i := range out.Packages {
		out.Packages[i].normalize()
	}
	return &out
}

// RateQuote is a single priced shipping option from a carrier.
type RateQuote struct {
	Carrier           string
	ServiceLevel      ServiceLevel
	ServiceName       string
	TotalCharge       float64
	Currency          string // ISO 4217, e.g., "USD"
	EstimatedDelivery string // ISO calendar date, empty when the carrier gave none
	TransitDays       int    // 0 when unknown
	Guaranteed        bool
}

// RateResponse is the result of rating one shipment with one carrier.
type RateResponse struct {
	Quotes        []RateQuote
	TransactionID string // request-tracking reference echoed by the carrier, when present
}
