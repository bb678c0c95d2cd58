// Package protoval converts document values to and from the protobuf
// well-known google.protobuf.Value, for the JSON-compatible subset of kinds.
package protoval

import (
	"fmt"
	"math"
	"slices"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/reoring/docmap"
	"github.com/reoring/docmap/value"
)

// maxExactInteger is the largest magnitude a double holds without gaps.
const maxExactInteger = 1 << 53

func fail(code string, p *docmap.ErrorPath, format string, args ...any) error {
	return &docmap.Error{Op: "protoval", Issue: docmap.Issue{Code: code, Path: p.String(), Message: fmt.Sprintf(format, args...)}}
}

// ToProto converts v. Integers beyond ±2^53, non-finite doubles and kinds
// without a JSON form (timestamps, bytes, references, ...) are rejected.
func ToProto(v value.Value) (*structpb.Value, error) {
	return toProto(v, nil)
}

func toProto(v value.Value, p *docmap.ErrorPath) (*structpb.Value, error) {
	switch v.Kind() {
	case value.KindNull:
		return structpb.NewNullValue(), nil
	case value.KindBool:
		b, _ := v.AsBool()
		return structpb.NewBoolValue(b), nil
	case value.KindInteger:
		i, _ := v.AsInteger()
		if i > maxExactInteger || i < -maxExactInteger {
			return nil, fail(docmap.CodeRangeOrPrecision, p, "integer %d does not fit a protobuf number exactly", i)
		}
		return structpb.NewNumberValue(float64(i)), nil
	case value.KindDouble:
		f, _ := v.AsDouble()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fail(docmap.CodeRangeOrPrecision, p, "%v has no protobuf number form", f)
		}
		return structpb.NewNumberValue(f), nil
	case value.KindString:
		s, _ := v.AsString()
		return structpb.NewStringValue(s), nil
	case value.KindArray:
		items, _ := v.AsArray()
		lv := &structpb.ListValue{Values: make([]*structpb.Value, len(items))}
		for i, it := range items {
			pv, err := toProto(it, p.Index(i))
			if err != nil {
				return nil, err
			}
			lv.Values[i] = pv
		}
		return structpb.NewListValue(lv), nil
	case value.KindMap:
		m, _ := v.AsMap()
		st, err := toStruct(m, p)
		if err != nil {
			return nil, err
		}
		return structpb.NewStructValue(st), nil
	}
	return nil, fail(docmap.CodeUnsupported, p, "%s values have no google.protobuf.Value form", v.Kind())
}

// ToStruct converts a document map.
func ToStruct(m *value.Map) (*structpb.Struct, error) {
	return toStruct(m, nil)
}

func toStruct(m *value.Map, p *docmap.ErrorPath) (*structpb.Struct, error) {
	st := &structpb.Struct{Fields: make(map[string]*structpb.Value, m.Len())}
	for k, it := range m.All() {
		pv, err := toProto(it, p.Child(k))
		if err != nil {
			return nil, err
		}
		st.Fields[k] = pv
	}
	return st, nil
}

// FromProto converts pv. Integral numbers within ±2^53 become integers,
// other numbers doubles. Struct keys are sorted since protobuf maps carry no
// order. A nil pv is null.
func FromProto(pv *structpb.Value) (value.Value, error) {
	return fromProto(pv, nil)
}

func fromProto(pv *structpb.Value, p *docmap.ErrorPath) (value.Value, error) {
	if pv == nil {
		return value.Null(), nil
	}
	switch k := pv.GetKind().(type) {
	case nil, *structpb.Value_NullValue:
		return value.Null(), nil
	case *structpb.Value_BoolValue:
		return value.Bool(k.BoolValue), nil
	case *structpb.Value_NumberValue:
		f := k.NumberValue
		if f == math.Trunc(f) && math.Abs(f) <= maxExactInteger {
			return value.Integer(int64(f)), nil
		}
		return value.Double(f), nil
	case *structpb.Value_StringValue:
		return value.String(k.StringValue), nil
	case *structpb.Value_ListValue:
		vals := k.ListValue.GetValues()
		items := make([]value.Value, len(vals))
		for i, it := range vals {
			v, err := fromProto(it, p.Index(i))
			if err != nil {
				return value.Null(), err
			}
			items[i] = v
		}
		return value.Array(items...), nil
	case *structpb.Value_StructValue:
		m, err := fromStruct(k.StructValue, p)
		if err != nil {
			return value.Null(), err
		}
		return value.MapOf(m), nil
	}
	return value.Null(), fail(docmap.CodeInternal, p, "unknown google.protobuf.Value kind %T", pv.GetKind())
}

// FromStruct converts a protobuf struct into a document map.
func FromStruct(st *structpb.Struct) (*value.Map, error) {
	return fromStruct(st, nil)
}

func fromStruct(st *structpb.Struct, p *docmap.ErrorPath) (*value.Map, error) {
	fields := st.GetFields()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	m := value.NewMap()
	for _, k := range keys {
		v, err := fromProto(fields[k], p.Child(k))
		if err != nil {
			return nil, err
		}
		m.Set(k, v)
	}
	return m, nil
}

// MarshalJSON renders v through protojson, the canonical JSON mapping of
// google.protobuf.Value.
func MarshalJSON(v value.Value) ([]byte, error) {
	pv, err := ToProto(v)
	if err != nil {
		return nil, err
	}
	return protojson.Marshal(pv)
}

// UnmarshalJSON parses JSON text through protojson.
func UnmarshalJSON(data []byte) (value.Value, error) {
	pv := &structpb.Value{}
	if err := protojson.Unmarshal(data, pv); err != nil {
		return value.Null(), &docmap.Error{Op: "protoval", Issue: docmap.Issue{Code: docmap.CodeParseError, Message: err.Error()}, Cause: err}
	}
	return FromProto(pv)
}
