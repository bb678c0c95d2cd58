package codec

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// DecimalFromInteger widens an integer exactly.
func DecimalFromInteger(i int64) decimal.Decimal { return decimal.NewFromInt(i) }

// DecimalFromDouble converts a stored double through its absolute value:
// -1.5 becomes 1.5.
func DecimalFromDouble(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Decimal{}, numberErr(ErrOutOfRange, "%s has no decimal representation", FormatDouble(f))
	}
	return decimal.NewFromFloat(f).Abs(), nil
}

// ParseDecimal parses decimal digits as stored in documents or strings.
func ParseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("codec: %q is not a decimal number: %w", s, err)
	}
	return d, nil
}

// FormatDecimal renders d without exponent notation.
func FormatDecimal(d decimal.Decimal) string { return d.String() }
