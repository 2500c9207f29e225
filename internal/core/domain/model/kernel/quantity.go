package kernel

import (
	"fmt"

	"agritrade/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ValidatePositive rejects zero and negative kilograms or amounts.
func ValidatePositive(param string, v decimal.Decimal) error {
	if !v.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause(
			param+" is invalid",
			fmt.Errorf("%s is not greater than 0", v.String()),
		)
	}
	return nil
}

// ValidateNonNegative rejects negative kilograms or amounts.
func ValidateNonNegative(param string, v decimal.Decimal) error {
	if v.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause(
			param+" is invalid",
			fmt.Errorf("%s is less than 0", v.String()),
		)
	}
	return nil
}

// ValidateRequiredText rejects empty strings.
func ValidateRequiredText(param, v string) error {
	if v == "" {
		return errs.NewValueIsRequiredError(param)
	}
	return nil
}
