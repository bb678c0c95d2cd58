package codec

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTime_RoundTrip(t *testing.T) {
	in := "2025-01-01T00:00:00Z"
	got, err := ParseTime(in)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, in, FormatTime(got))

	// offsets normalize to UTC; nanos keep only significant digits
	got, err = ParseTime("2025-01-01T09:00:00.120+09:00")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01T00:00:00.12Z", FormatTime(got))

	_, err = ParseTime("yesterday")
	assert.Error(t, err)
}

func TestTime_Proto(t *testing.T) {
	now := time.Date(2024, 2, 29, 12, 30, 0, 5, time.UTC)
	back, err := TimeFromProto(TimeToProto(now))
	require.NoError(t, err)
	assert.True(t, now.Equal(back))

	_, err = TimeFromProto(nil)
	assert.Error(t, err)
}

func TestInt32Narrowing(t *testing.T) {
	v, err := Int32FromInteger(math.MaxInt32)
	require.NoError(t, err)
	assert.Equal(t, int32(math.MaxInt32), v)

	_, err = Int32FromInteger(math.MaxInt32 + 1)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Contains(t, err.Error(), "2147483648")

	v, err = Int32FromDouble(-7.9)
	require.NoError(t, err)
	assert.Equal(t, int32(-7), v)

	_, err = Int32FromDouble(3e10)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = Int32FromDouble(math.NaN())
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestInt64FromDouble(t *testing.T) {
	cases := []struct {
		in   float64
		want int64
		err  error
	}{
		{in: 42, want: 42},
		{in: -1e15, want: -1e15},
		{in: 1.5, err: ErrPrecisionLoss},
		{in: math.Inf(1), err: ErrOutOfRange},
		{in: 9.3e18, err: ErrOutOfRange},
	}
	for _, tc := range cases {
		got, err := Int64FromDouble(tc.in)
		if tc.err != nil {
			assert.ErrorIs(t, err, tc.err, "input %v", tc.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestDoubleFromInteger(t *testing.T) {
	f, err := DoubleFromInteger(1 << 53)
	require.NoError(t, err)
	assert.Equal(t, float64(1<<53), f)

	_, err = DoubleFromInteger(1<<53 + 1)
	assert.ErrorIs(t, err, ErrPrecisionLoss)
	_, err = DoubleFromInteger(math.MaxInt64)
	assert.ErrorIs(t, err, ErrPrecisionLoss)
}

func TestDecimalFromDouble_DropsSign(t *testing.T) {
	// Negative doubles lose their sign on the way into a decimal.
	d, err := DecimalFromDouble(-1.5)
	require.NoError(t, err)
	assert.Equal(t, "1.5", FormatDecimal(d))

	_, err = DecimalFromDouble(math.Inf(-1))
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestParseDecimal(t *testing.T) {
	d, err := ParseDecimal("-12345678901234567890.125")
	require.NoError(t, err)
	assert.Equal(t, "-12345678901234567890.125", FormatDecimal(d))
	assert.Equal(t, "7", FormatDecimal(DecimalFromInteger(7)))

	_, err = ParseDecimal("1.2.3")
	assert.Error(t, err)
}
