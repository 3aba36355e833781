package dto

import (
	"github.com/shopspring/decimal"

	"github.com/divvyup/divvy/internal/domain"
)

// The API speaks 2-decimal-place amounts; the engine speaks integer minor
// units. Conversion must be exact in both directions.

// ToMinorUnits converts an API amount to minor units. Anything finer than
// the minor unit is rejected rather than rounded.
func ToMinorUnits(d decimal.Decimal) (int64, error) {
	shifted := d.Shift(2)
	if !shifted.IsInteger() {
		return 0, domain.ErrAmountPrecision
	}
	return shifted.IntPart(), nil
}

// FromMinorUnits converts minor units back to an API amount.
func FromMinorUnits(v int64) decimal.Decimal {
	return decimal.NewFromInt(v).Shift(-2)
}
