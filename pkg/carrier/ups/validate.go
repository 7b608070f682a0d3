package ups

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/parcelgrid/rateshop/pkg/carrier"
)

// monetaryPattern matches the numeric-string form UPS uses for charges:
// digits with an optional fractional part, no sign, no separators.
var monetaryPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)

// wireValidate checks response shapes before any parsing happens.
var wireValidate = newWireValidator()

func newWireValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("monetary", validMonetary); err != nil {
		panic(err)
	}
	return v
}

func validMonetary(fl validator.FieldLevel) bool {
	return monetaryPattern.MatchString(fl.Field().String())
}

// validateTokenResponse checks the OAuth response shape. A token is never
// accepted from a partially-formed response.
func validateTokenResponse(resp *TokenResponse) error {
	if resp == nil {
		return carrier.NewValidationError(carrierName, "empty token response")
	}
	if err := wireValidate.Struct(resp); err != nil {
		return carrier.NewValidationError(carrierName, wireViolation(err)).WithCause(err)
	}
	return nil
}

// validateRatingResponse structurally checks a rating response before
// mapping: a response-status block, at least one rated shipment, and for
// each shipment a service code plus well-formed charge blocks.
func validateRatingResponse(resp *RatingResponse) error {
	if resp == nil {
		return carrier.NewValidationError(carrierName, "empty rating response")
	}
	if len(resp.RateResponse.RatedShipment) == 0 {
		return carrier.NewValidationError(carrierName, "at least one rated shipment required")
	}
	if err := wireValidate.Struct(resp); err != nil {
		return carrier.NewValidationError(carrierName, wireViolation(err)).WithCause(err)
	}
	return nil
}

// wireViolation renders the first schema violation in a readable form.
func wireViolation(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("response field %s failed %q validation", fe.Namespace(), fe.Tag())
	}
	return err.Error()
}
