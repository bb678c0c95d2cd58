package codec

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/timestamppb"
)

// ParseTime accepts RFC3339Nano (trailing zeros optional) and plain RFC3339.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, fmt.Errorf("codec: invalid RFC3339 time %q: %w", s, err)
	}
	return t, nil
}

// FormatTime normalizes to UTC and formats with RFC3339Nano, which trims
// trailing zeros.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// TimeFromProto converts a protobuf timestamp, rejecting values outside the
// range the protobuf well-known type allows.
func TimeFromProto(ts *timestamppb.Timestamp) (time.Time, error) {
	if err := ts.CheckValid(); err != nil {
		return time.Time{}, fmt.Errorf("codec: %w", err)
	}
	return ts.AsTime(), nil
}

// TimeToProto is the inverse of TimeFromProto.
func TimeToProto(t time.Time) *timestamppb.Timestamp { return timestamppb.New(t) }
