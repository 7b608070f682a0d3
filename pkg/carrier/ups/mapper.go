package ups

import (
	"fmt"
	"strconv"

	"github.com/parcelgrid/rateshop/pkg/carrier"
)

// customerContext tags every outbound request so UPS echoes it back for
// request tracing.
const customerContext = "parcelgrid-rateshop"

// packagingTypeCustomerSupplied is the UPS code for customer-supplied
// packaging.
const packagingTypeCustomerSupplied = "02"

// defaultServiceCode rates as ground when a requested level has no
// dedicated UPS code.
const defaultServiceCode = "03"

// serviceCodeToLevel maps UPS service codes onto carrier-agnostic levels
// on the response side.
var serviceCodeToLevel = map[string]carrier.ServiceLevel{
	"01": carrier.ServiceNextDayAir,
	"02": carrier.ServiceSecondDayAir,
	"03": carrier.ServiceGround,
	"11": carrier.ServiceStandard,
	"12": carrier.ServiceNextDayAir,
	"13": carrier.ServiceNextDayAirSaver,
	"14": carrier.ServiceNextDayAirEarly,
	"59": carrier.ServiceSecondDayAir,
}

// levelToServiceCode is the request-side mapping. Several codes collapse
// onto one level in the response table, so this is not a strict inverse.
var levelToServiceCode = map[carrier.ServiceLevel]string{
	carrier.ServiceGround:          "03",
	carrier.ServiceNextDayAir:      "01",
	carrier.ServiceNextDayAirEarly: "14",
	carrier.ServiceNextDayAirSaver: "13",
	carrier.ServiceSecondDayAir:    "02",
	carrier.ServiceStandard:        "11",
}

// serviceNames gives the display name for each UPS service code.
var serviceNames = map[string]string{
	"01": "UPS Next Day Air",
	"02": "UPS 2nd Day Air",
	"03": "UPS Ground",
	"11": "UPS Standard",
	"12": "UPS Next Day Air",
	"13": "UPS Next Day Air Saver",
	"14": "UPS Next Day Air Early",
	"59": "UPS 2nd Day Air A.M.",
}

// ============================================================================
// Conversion helpers: carrier models -> wire models
// ============================================================================

// buildRateRequest translates a validated domain request into the UPS
// Rating API payload.
func buildRateRequest(req *carrier.RateRequest, accountNumber string) *RatingRequest {
	shipment := Shipment{
		Shipper: Party{
			ShipperNumber: accountNumber,
			Address:       addressToWire(req.Origin),
		},
		ShipFrom: Party{
			Address: addressToWire(req.Origin),
		},
		ShipTo: Party{
			Address: addressToWire(req.Destination),
		},
		Package: packagesToWire(req.Packages),
		ShipmentRatingOptions: &ShipmentRatingOptions{
			NegotiatedRatesIndicator: "Y",
		},
	}

	// No requested level means rate every available service.
	if req.ServiceLevel != "" {
		code, ok := levelToServiceCode[req.ServiceLevel]
		if !ok {
			code = defaultServiceCode
		}
		shipment.Service = &Service{Code: code, Description: serviceNames[code]}
	}

	if req.PickupDate != nil {
		shipment.DeliveryTimeInformation = &DeliveryTimeInformation{
			Pickup: &Pickup{Date: req.PickupDate.Format("20060102")},
		}
	}

	return &RatingRequest{
		RateRequest: RateRequestBody{
			Request: RequestOptions{
				TransactionReference: TransactionReference{CustomerContext: customerContext},
			},
			Shipment: shipment,
		},
	}
}

func addressToWire(addr carrier.Address) Address {
	lines := []string{addr.Street1}
	if addr.Street2 != "" {
		lines = append(lines, addr.Street2)
	}

	wire := Address{
		AddressLine:       lines,
		City:              addr.City,
		StateProvinceCode: addr.StateCode,
		PostalCode:        addr.PostalCode,
		CountryCode:       addr.CountryCode,
	}
	if addr.Residential {
		indicator := ""
		wire.ResidentialAddressIndicator = &indicator
	}
	return wire
}

func packagesToWire(pkgs []carrier.Package) []Package {
	result := make([]Package, len(pkgs))
	for i, p := range pkgs {
		wire := Package{
			PackagingType: CodeDescription{Code: packagingTypeCustomerSupplied},
			Dimensions: Dimensions{
				UnitOfMeasurement: CodeDescription{Code: string(p.Dimensions.Unit)},
				Length:            formatMeasure(p.Dimensions.Length),
				Width:             formatMeasure(p.Dimensions.Width),
				Height:            formatMeasure(p.Dimensions.Height),
			},
			PackageWeight: PackageWeight{
				UnitOfMeasurement: CodeDescription{Code: string(p.Weight.Unit)},
				Weight:            formatMeasure(p.Weight.Value),
			},
		}
		if p.DeclaredValue > 0 {
			wire.PackageServiceOptions = &PackageServiceOptions{
				DeclaredValue: &DeclaredValue{
					CurrencyCode:  "USD",
					MonetaryValue: formatMeasure(p.DeclaredValue),
				},
			}
		}
		result[i] = wire
	}
	return result
}

// formatMeasure renders a measurement the way UPS expects: plain decimal
// text without a forced precision.
func formatMeasure(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ============================================================================
// Conversion helpers: wire models -> carrier models
// ============================================================================

// quoteFromRatedShipment converts one rated-shipment entry into a domain
// quote. Negotiated charges win over published ones; delivery date and
// transit days are best-effort and never fail the conversion.
func quoteFromRatedShipment(rs *RatedShipment) (carrier.RateQuote, error) {
	level, ok := serviceCodeToLevel[rs.Service.Code]
	if !ok {
		return carrier.RateQuote{}, carrier.NewValidationError(carrierName,
			fmt.Sprintf("unknown UPS service code: %q", rs.Service.Code))
	}

	charges := rs.TotalCharges
	if rs.NegotiatedRateCharges != nil {
		charges = &rs.NegotiatedRateCharges.TotalCharge
	}
	if charges == nil {
		return carrier.RateQuote{}, carrier.NewValidationError(carrierName,
			"rated shipment is missing TotalCharges")
	}

	total, err := parseMonetary("TotalCharges.MonetaryValue", charges.MonetaryValue)
	if err != nil {
		return carrier.RateQuote{}, err
	}

	currency := charges.CurrencyCode
	if currency == "" {
		currency = "USD"
	}

	quote := carrier.RateQuote{
		Carrier:      carrierName,
		ServiceLevel: level,
		ServiceName:  serviceDisplayName(rs.Service),
		TotalCharge:  total,
		Currency:     currency,
	}

	if date, ok := parseWireDate(arrivalDate(rs)); ok {
		quote.EstimatedDelivery = date
	}
	if days, ok := parseTransitDays(transitDaysValue(rs)); ok {
		quote.TransitDays = days
	}
	if rs.GuaranteedDelivery != nil {
		quote.Guaranteed = true
	}

	return quote, nil
}

func serviceDisplayName(svc Service) string {
	if svc.Description != "" {
		return svc.Description
	}
	if name, ok := serviceNames[svc.Code]; ok {
		return name
	}
	return "UPS " + svc.Code
}

// arrivalDate digs the estimated arrival date out of the optional
// time-in-transit block.
func arrivalDate(rs *RatedShipment) string {
	tit := rs.TimeInTransit
	if tit == nil || tit.ServiceSummary == nil || tit.ServiceSummary.EstimatedArrival == nil {
		return ""
	}
	arrival := tit.ServiceSummary.EstimatedArrival.Arrival
	if arrival == nil {
		return ""
	}
	return arrival.Date
}

// transitDaysValue prefers the guaranteed business-day count over the
// time-in-transit estimate.
func transitDaysValue(rs *RatedShipment) string {
	if rs.GuaranteedDelivery != nil && rs.GuaranteedDelivery.BusinessDaysInTransit != "" {
		return rs.GuaranteedDelivery.BusinessDaysInTransit
	}
	tit := rs.TimeInTransit
	if tit != nil && tit.ServiceSummary != nil && tit.ServiceSummary.EstimatedArrival != nil {
		return tit.ServiceSummary.EstimatedArrival.BusinessDaysInTransit
	}
	return ""
}
