package shared

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Quantities are stored as NUMERIC(18,4)
const (
	QuantityScale  int32 = 4
	quantityDigits int32 = 18
)

var maxQuantity = decimal.New(1, quantityDigits-QuantityScale)

// CheckQuantityScale rejects quantities the storage columns cannot hold
// exactly: more than four decimal places or fourteen integer digits.
func CheckQuantityScale(q decimal.Decimal) error {
	if !q.Equal(q.Truncate(QuantityScale)) {
		return NewDomainError(CodeInvalidQuantity,
			fmt.Sprintf("Quantity %s has more than %d decimal places", q.String(), QuantityScale))
	}
	if q.Abs().GreaterThanOrEqual(maxQuantity) {
		return NewDomainError(CodeInvalidQuantity, "Quantity is too large")
	}
	return nil
}

// ValidatePositiveQuantity checks that q is above zero and fits the storage scale
func ValidatePositiveQuantity(q decimal.Decimal) error {
	if !q.IsPositive() {
		return ErrInvalidQuantity
	}
	return CheckQuantityScale(q)
}
