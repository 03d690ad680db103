// Package validator holds the input checks shared by the ledger service and
// the API layer. Every failure wraps repository.ErrValidation so callers
// can classify it with errors.Is.
package validator

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"bankledger/internal/repository"
)

// ValidateAmount rejects zero and negative amounts. All money-movement
// operations require a strictly positive amount.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount %s must be positive", repository.ErrValidation, amount)
	}
	return nil
}

// ValidateID rejects empty or blank identifiers. The field name is included
// so the caller's error message names the offending input.
func ValidateID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: %s is required", repository.ErrValidation, field)
	}
	return nil
}

// ValidateAmountRange rejects ranges where min exceeds max.
func ValidateAmountRange(min, max decimal.Decimal) error {
	if min.GreaterThan(max) {
		return fmt.Errorf("%w: amount range min %s exceeds max %s", repository.ErrValidation, min, max)
	}
	return nil
}
