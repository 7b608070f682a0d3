package carrier

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the shared schema validator for domain requests. Validators
// cache struct metadata, so one instance serves the whole package.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the request against the domain schema and returns a
// validation-kind error naming the first offending field.
func (r *RateRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return NewValidationError("", schemaViolation(err)).WithCause(err)
	}
	return nil
}

// schemaViolation renders the first schema violation in a readable form.
func schemaViolation(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("field %s failed on the %q rule", fe.Namespace(), fe.Tag())
	}
	return err.Error()
}
