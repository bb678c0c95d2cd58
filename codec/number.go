package codec

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	// ErrOutOfRange reports a number that does not fit the target width.
	ErrOutOfRange = errors.New("numeric value out of range")
	// ErrPrecisionLoss reports a number that would not survive conversion
	// exactly.
	ErrPrecisionLoss = errors.New("loss of precision")
)

// NumberError carries the user-facing message of a failed numeric
// conversion. It unwraps to ErrOutOfRange or ErrPrecisionLoss.
type NumberError struct {
	Kind error
	Msg  string
}

func (e *NumberError) Error() string { return e.Msg }
func (e *NumberError) Unwrap() error { return e.Kind }

func numberErr(kind error, format string, args ...any) error {
	return &NumberError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Int32FromInteger narrows a stored integer to 32 bits.
func Int32FromInteger(i int64) (int32, error) {
	if i < math.MinInt32 || i > math.MaxInt32 {
		return 0, numberErr(ErrOutOfRange, "Numeric value out of 32-bit integer range: %d. Did you mean to use a long or double instead of an int?", i)
	}
	return int32(i), nil
}

// Int32FromDouble narrows a stored double to 32 bits, truncating toward zero.
func Int32FromDouble(f float64) (int32, error) {
	if math.IsNaN(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, numberErr(ErrOutOfRange, "Numeric value out of 32-bit integer range: %s. Did you mean to use a long or double instead of an int?", FormatDouble(f))
	}
	return int32(f), nil
}

// Int64FromDouble accepts only integral doubles inside the int64 range.
func Int64FromDouble(f float64) (int64, error) {
	// 2^63 is exactly representable; anything >= it overflows.
	if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, numberErr(ErrOutOfRange, "Numeric value out of 64-bit long range: %s. Did you mean to use a double instead of a long?", FormatDouble(f))
	}
	if f != math.Trunc(f) {
		return 0, numberErr(ErrPrecisionLoss, "Loss of precision while converting number to long: %s. Did you mean to use a double instead of a long?", FormatDouble(f))
	}
	return int64(f), nil
}

// DoubleFromInteger widens an integer when the double holds it exactly.
func DoubleFromInteger(i int64) (float64, error) {
	f := float64(i)
	if f >= math.MaxInt64 || int64(f) != i {
		return 0, numberErr(ErrPrecisionLoss, "Loss of precision while converting number to double: %d. Did you mean to use a 64-bit long instead?", i)
	}
	return f, nil
}

// FormatDouble renders f in the shortest form that parses back to f.
func FormatDouble(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
