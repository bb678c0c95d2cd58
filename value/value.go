package value

import (
	"fmt"
	"time"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindDouble
	KindDecimal
	KindString
	KindBytes
	KindTimestamp
	KindGeoPoint
	KindReference
	KindVector
	KindArray
	KindMap
	// KindServerTimestamp is a write-only sentinel asking the store to
	// assign the commit time. It never comes back from storage.
	KindServerTimestamp
)

var kindNames = [...]string{
	KindNull:            "null",
	KindBool:            "boolean",
	KindInteger:         "integer",
	KindDouble:          "double",
	KindDecimal:         "decimal",
	KindString:          "string",
	KindBytes:           "bytes",
	KindTimestamp:       "timestamp",
	KindGeoPoint:        "geopoint",
	KindReference:       "reference",
	KindVector:          "vector",
	KindArray:           "array",
	KindMap:             "map",
	KindServerTimestamp: "server_timestamp",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is one node of a document. The zero Value is Null.
type Value struct {
	kind Kind
	v    any
}

// GeoPoint is a latitude/longitude pair in degrees.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// Vector is a dense embedding stored as its own kind rather than an array.
type Vector []float64

func Null() Value                 { return Value{} }
func Bool(b bool) Value           { return Value{kind: KindBool, v: b} }
func Integer(i int64) Value       { return Value{kind: KindInteger, v: i} }
func Double(f float64) Value      { return Value{kind: KindDouble, v: f} }
func String(s string) Value       { return Value{kind: KindString, v: s} }
func Geo(lat, lng float64) Value  { return Value{kind: KindGeoPoint, v: GeoPoint{Latitude: lat, Longitude: lng}} }
func Ref(r Reference) Value       { return Value{kind: KindReference, v: r} }
func ServerTimestamp() Value      { return Value{kind: KindServerTimestamp} }
func Timestamp(t time.Time) Value { return Value{kind: KindTimestamp, v: t} }
func GeoValue(g GeoPoint) Value   { return Value{kind: KindGeoPoint, v: g} }
func Decimal(digits string) Value { return Value{kind: KindDecimal, v: digits} }
func Array(items ...Value) Value  { return Value{kind: KindArray, v: items} }

// Bytes copies b so later mutation of the caller's slice is not observed.
func Bytes(b []byte) Value {
	return Value{kind: KindBytes, v: append([]byte(nil), b...)}
}

// VectorOf copies the components into a new Vector value.
func VectorOf(xs ...float64) Value {
	return Value{kind: KindVector, v: append(Vector(nil), xs...)}
}

// MapOf wraps m. A nil map yields an empty Map value.
func MapOf(m *Map) Value {
	if m == nil {
		m = NewMap()
	}
	return Value{kind: KindMap, v: m}
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool) {
	b, ok := v.v.(bool)
	return b, ok && v.kind == KindBool
}

func (v Value) AsInteger() (int64, bool) {
	i, ok := v.v.(int64)
	return i, ok && v.kind == KindInteger
}

func (v Value) AsDouble() (float64, bool) {
	f, ok := v.v.(float64)
	return f, ok && v.kind == KindDouble
}

// AsDecimal returns the decimal digits as stored.
func (v Value) AsDecimal() (string, bool) {
	s, ok := v.v.(string)
	return s, ok && v.kind == KindDecimal
}

func (v Value) AsString() (string, bool) {
	s, ok := v.v.(string)
	return s, ok && v.kind == KindString
}

func (v Value) AsBytes() ([]byte, bool) {
	b, ok := v.v.([]byte)
	return b, ok && v.kind == KindBytes
}

func (v Value) AsTimestamp() (time.Time, bool) {
	t, ok := v.v.(time.Time)
	return t, ok && v.kind == KindTimestamp
}

func (v Value) AsGeoPoint() (GeoPoint, bool) {
	g, ok := v.v.(GeoPoint)
	return g, ok && v.kind == KindGeoPoint
}

func (v Value) AsReference() (Reference, bool) {
	r, ok := v.v.(Reference)
	return r, ok && v.kind == KindReference
}

func (v Value) AsVector() (Vector, bool) {
	x, ok := v.v.(Vector)
	return x, ok && v.kind == KindVector
}

func (v Value) AsArray() ([]Value, bool) {
	a, ok := v.v.([]Value)
	return a, ok && v.kind == KindArray
}

func (v Value) AsMap() (*Map, bool) {
	m, ok := v.v.(*Map)
	return m, ok && v.kind == KindMap
}

// Plain returns the natural Go equivalent of v: maps become
// map[string]any, arrays []any, decimals their digit string and every
// other scalar its Go value. The server-timestamp sentinel is returned
// as the Value itself because it has no plain form.
func (v Value) Plain() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindArray:
		items, _ := v.AsArray()
		out := make([]any, len(items))
		for i, it := range items {
			out[i] = it.Plain()
		}
		return out
	case KindMap:
		m, _ := v.AsMap()
		out := make(map[string]any, m.Len())
		for k, it := range m.All() {
			out[k] = it.Plain()
		}
		return out
	case KindServerTimestamp:
		return v
	default:
		return v.v
	}
}

// String renders a short debugging form; it is not a serialization format.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindString:
		return fmt.Sprintf("%q", v.v)
	case KindTimestamp:
		t, _ := v.AsTimestamp()
		return t.UTC().Format(time.RFC3339Nano)
	case KindArray:
		items, _ := v.AsArray()
		return fmt.Sprintf("array(%d)", len(items))
	case KindMap:
		m, _ := v.AsMap()
		return fmt.Sprintf("map(%d)", m.Len())
	case KindServerTimestamp:
		return "serverTimestamp()"
	case KindReference:
		r, _ := v.AsReference()
		return r.Path()
	default:
		return fmt.Sprint(v.v)
	}
}
