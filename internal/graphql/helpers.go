package graphql

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/parcelgrid/rateshop/pkg/carrier"
)

func addressInputToModel(input *AddressInput) carrier.Address {
	if input == nil {
		return carrier.Address{}
	}
	addr := carrier.Address{
		Street1:    input.Street1,
		City:       input.City,
		StateCode:  input.StateCode,
		PostalCode: input.PostalCode,
	}
	if input.Street2 != nil {
		addr.Street2 = *input.Street2
	}
	if input.CountryCode != nil {
		addr.CountryCode = *input.CountryCode
	}
	if input.Residential != nil {
		addr.Residential = *input.Residential
	}
	return addr
}

func packagesInputToModel(inputs []*PackageInput) []carrier.Package {
	packages := make([]carrier.Package, len(inputs))
	for i, input := range inputs {
		pkg := carrier.Package{
			Dimensions: carrier.PackageDimensions{
				Length: parseDecimal(input.Length),
				Width:  parseDecimal(input.Width),
				Height: parseDecimal(input.Height),
			},
			Weight: carrier.PackageWeight{
				Value: parseDecimal(input.Weight),
			},
		}
		if input.DimensionUnit != nil {
			pkg.Dimensions.Unit = carrier.DimensionUnit(*input.DimensionUnit)
		}
		if input.WeightUnit != nil {
			pkg.Weight.Unit = carrier.WeightUnit(*input.WeightUnit)
		}
		if input.Description != nil {
			pkg.Description = *input.Description
		}
		if input.DeclaredValue != nil {
			pkg.DeclaredValue = parseDecimal(*input.DeclaredValue)
		}
		packages[i] = pkg
	}
	return packages
}

func rateInputToModel(input *RateInput) *carrier.RateRequest {
	req := &carrier.RateRequest{
		Origin:      addressInputToModel(input.Origin),
		Destination: addressInputToModel(input.Destination),
		Packages:    packagesInputToModel(input.Packages),
	}
	if input.ServiceLevel != nil {
		req.ServiceLevel = carrier.ServiceLevel(*input.ServiceLevel)
	}
	if input.PickupDate != nil {
		// Unparseable dates are dropped; the carrier rates without one.
		if t, err := time.Parse("2006-01-02", *input.PickupDate); err == nil {
			req.PickupDate = &t
		}
	}
	return req
}

func quotesToGraphQL(quotes []carrier.RateQuote) []*RateQuote {
	result := make([]*RateQuote, len(quotes))
	for i := range quotes {
		result[i] = quoteToGraphQL(&quotes[i])
	}
	return result
}

func quoteToGraphQL(q *carrier.RateQuote) *RateQuote {
	out := &RateQuote{
		Carrier:      q.Carrier,
		ServiceLevel: string(q.ServiceLevel),
		ServiceName:  q.ServiceName,
		TotalCharge:  fmt.Sprintf("%.2f", q.TotalCharge),
		Currency:     q.Currency,
		Guaranteed:   q.Guaranteed,
	}
	if q.EstimatedDelivery != "" {
		out.EstimatedDelivery = &q.EstimatedDelivery
	}
	if q.TransitDays > 0 {
		out.TransitDays = &q.TransitDays
	}
	return out
}

func errorsToGraphQL(errs []error) []*Error {
	if len(errs) == 0 {
		return nil
	}
	result := make([]*Error, len(errs))
	for i, err := range errs {
		result[i] = &Error{
			Code:    errorCode(err),
			Message: err.Error(),
		}
	}
	return result
}

func errorCode(err error) string {
	if errors.Is(err, carrier.ErrCarrierNotFound) {
		return "CARRIER_NOT_FOUND"
	}
	kind, ok := carrier.KindOf(err)
	if !ok {
		return "CARRIER_ERROR"
	}
	return strings.ToUpper(string(kind)) + "_ERROR"
}

func parseDecimal(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
