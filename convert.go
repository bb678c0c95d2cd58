package docmap

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/reoring/docmap/codec"
	"github.com/reoring/docmap/value"
)

func mismatch(p *ErrorPath, v value.Value, t reflect.Type) *Error {
	return errorf(CodeTypeMismatch, p, "Failed to convert value of type %s to %s", v.Kind(), t).
		with("expected", t.String(), "got", v.Kind().String())
}

func numberError(p *ErrorPath, err error) *Error {
	code := CodeRangeOrPrecision
	var ne *codec.NumberError
	if !errors.As(err, &ne) {
		code = CodeTypeMismatch
	}
	e := newError(code, p, err.Error())
	e.Cause = err
	return e
}

// encodeScalar renders bool, integer, float and decimal kinds.
func encodeScalar(rv reflect.Value, d *TypeDescriptor) value.Value {
	switch d.Scalar {
	case ScalarBool:
		return value.Bool(rv.Bool())
	case ScalarInt32, ScalarInt64:
		return value.Integer(rv.Int())
	case ScalarFloat32, ScalarDouble:
		return value.Double(rv.Float())
	default:
		return value.Decimal(codec.FormatDecimal(rv.Interface().(decimal.Decimal)))
	}
}

func decodeScalar(v value.Value, d *TypeDescriptor, p *ErrorPath) (reflect.Value, error) {
	out := reflect.New(d.Type).Elem()
	switch d.Scalar {
	case ScalarBool:
		b, ok := v.AsBool()
		if !ok {
			return out, mismatch(p, v, d.Type)
		}
		out.SetBool(b)

	case ScalarInt32:
		var (
			n   int32
			err error
		)
		switch v.Kind() {
		case value.KindInteger:
			i, _ := v.AsInteger()
			n, err = codec.Int32FromInteger(i)
		case value.KindDouble:
			f, _ := v.AsDouble()
			n, err = codec.Int32FromDouble(f)
		default:
			return out, mismatch(p, v, d.Type)
		}
		if err != nil {
			return out, numberError(p, err)
		}
		out.SetInt(int64(n))

	case ScalarInt64:
		switch v.Kind() {
		case value.KindInteger:
			i, _ := v.AsInteger()
			out.SetInt(i)
		case value.KindDouble:
			f, _ := v.AsDouble()
			i, err := codec.Int64FromDouble(f)
			if err != nil {
				return out, numberError(p, err)
			}
			out.SetInt(i)
		default:
			return out, mismatch(p, v, d.Type)
		}

	case ScalarFloat32, ScalarDouble:
		switch v.Kind() {
		case value.KindInteger:
			i, _ := v.AsInteger()
			f, err := codec.DoubleFromInteger(i)
			if err != nil {
				return out, numberError(p, err)
			}
			out.SetFloat(f)
		case value.KindDouble:
			f, _ := v.AsDouble()
			out.SetFloat(f)
		default:
			return out, mismatch(p, v, d.Type)
		}

	case ScalarDecimal:
		var (
			dec decimal.Decimal
			err error
		)
		switch v.Kind() {
		case value.KindInteger:
			i, _ := v.AsInteger()
			dec = codec.DecimalFromInteger(i)
		case value.KindDouble:
			f, _ := v.AsDouble()
			dec, err = codec.DecimalFromDouble(f)
		case value.KindDecimal:
			s, _ := v.AsDecimal()
			dec, err = codec.ParseDecimal(s)
		case value.KindString:
			s, _ := v.AsString()
			dec, err = codec.ParseDecimal(s)
		default:
			return out, mismatch(p, v, d.Type)
		}
		if err != nil {
			return out, numberError(p, err)
		}
		out.Set(reflect.ValueOf(dec))
	}
	return out, nil
}

// encodeLeaf handles the descriptor kinds that map one-to-one onto a value
// kind.
func encodeLeaf(rv reflect.Value, d *TypeDescriptor, p *ErrorPath) (value.Value, error) {
	switch d.Kind {
	case KindScalar:
		return encodeScalar(rv, d), nil
	case KindText:
		return value.String(rv.String()), nil
	case KindBytes:
		return value.Bytes(rv.Bytes()), nil
	case KindTemporalDate:
		return value.Timestamp(rv.Interface().(time.Time)), nil
	case KindTemporalInstant:
		ts, err := codec.TimeFromProto(rv.Interface().(*timestamppb.Timestamp))
		if err != nil {
			e := errorf(CodeRangeOrPrecision, p, "Invalid timestamp: %s", err)
			e.Cause = err
			return value.Null(), e
		}
		return value.Timestamp(ts), nil
	case KindReference:
		ref := rv.Interface().(value.Reference)
		if ref.IsZero() {
			return value.Null(), nil
		}
		return value.Ref(ref), nil
	case KindGeoPoint:
		return value.GeoValue(rv.Interface().(value.GeoPoint)), nil
	case KindVector:
		return value.VectorOf(rv.Interface().(value.Vector)...), nil
	case KindEnum:
		if d.enumErr != nil {
			return value.Null(), errorf(CodeMapperBuild, p, "%s", d.enumErr)
		}
		name, ok := d.enum.wireName(rv.Interface())
		if !ok {
			return value.Null(), errorf(CodeTypeMismatch, p, "Value %v of enum %s is not a declared member", rv.Interface(), d.Type)
		}
		return value.String(name), nil
	}
	return value.Null(), errorf(CodeInternal, p, "no leaf encoding for %s", d.Kind)
}

func decodeLeaf(v value.Value, d *TypeDescriptor, p *ErrorPath) (reflect.Value, error) {
	out := reflect.New(d.Type).Elem()
	switch d.Kind {
	case KindScalar:
		return decodeScalar(v, d, p)
	case KindText:
		s, ok := v.AsString()
		if !ok {
			return out, mismatch(p, v, d.Type)
		}
		out.SetString(s)
	case KindBytes:
		b, ok := v.AsBytes()
		if !ok {
			return out, mismatch(p, v, d.Type)
		}
		out.SetBytes(append([]byte(nil), b...))
	case KindTemporalDate:
		t, ok := v.AsTimestamp()
		if !ok {
			return out, mismatch(p, v, d.Type)
		}
		out.Set(reflect.ValueOf(t))
	case KindTemporalInstant:
		t, ok := v.AsTimestamp()
		if !ok {
			return out, mismatch(p, v, d.Type)
		}
		out.Set(reflect.ValueOf(codec.TimeToProto(t)))
	case KindReference:
		r, ok := v.AsReference()
		if !ok {
			return out, mismatch(p, v, d.Type)
		}
		out.Set(reflect.ValueOf(r))
	case KindGeoPoint:
		g, ok := v.AsGeoPoint()
		if !ok {
			return out, mismatch(p, v, d.Type)
		}
		out.Set(reflect.ValueOf(g))
	case KindVector:
		vec, ok := v.AsVector()
		if !ok {
			return out, mismatch(p, v, d.Type)
		}
		out.Set(reflect.ValueOf(append(value.Vector(nil), vec...)))
	case KindEnum:
		if d.enumErr != nil {
			return out, errorf(CodeMapperBuild, p, "%s", d.enumErr)
		}
		s, ok := v.AsString()
		if !ok {
			return out, mismatch(p, v, d.Type)
		}
		m, ok := d.enum.lookup(s)
		if !ok {
			return out, errorf(CodeTypeMismatch, p, "Could not find enum value of %s for value %q", d.Type, s)
		}
		out.Set(reflect.ValueOf(m))
	default:
		return out, errorf(CodeInternal, p, "no leaf decoding for %s", d.Kind)
	}
	return out, nil
}

// documentIDValue converts the owning reference into the type of a
// document-id property: the id for text targets, the reference otherwise.
func documentIDValue(d *TypeDescriptor, ref value.Reference) (reflect.Value, error) {
	if d.Kind == KindPointer {
		inner, err := documentIDValue(d.Elem, ref)
		if err != nil {
			return inner, err
		}
		ptr := reflect.New(d.Elem.Type)
		ptr.Elem().Set(inner)
		return ptr, nil
	}
	out := reflect.New(d.Type).Elem()
	switch d.Kind {
	case KindText:
		out.SetString(ref.ID())
	case KindReference:
		out.Set(reflect.ValueOf(ref))
	default:
		return out, fmt.Errorf("document id cannot be stored in %s", d.Type)
	}
	return out, nil
}
