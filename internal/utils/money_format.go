package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// minorUnitExponent is the number of decimal places in the presentation
// currency. All stored amounts are integers in minor units; decimals exist
// only at this boundary.
const minorUnitExponent = 2

// FormatMinorUnits renders an amount in minor units as a decimal string with
// two places, e.g. 12345 -> "123.45", -5 -> "-0.05".
func FormatMinorUnits(amount int64) string {
	return decimal.New(amount, -minorUnitExponent).StringFixed(minorUnitExponent)
}

// ParseAmountToMinorUnits parses a decimal amount string like "123.45" into
// integer minor units. Amounts with more precision than the minor unit
// allows are rejected rather than rounded.
func ParseAmountToMinorUnits(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	scaled := d.Shift(minorUnitExponent)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("amount %q has more than %d decimal places", s, minorUnitExponent)
	}
	return scaled.IntPart(), nil
}
