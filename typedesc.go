package docmap

import (
	"container/list"
	"container/ring"
	"fmt"
	"reflect"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/reoring/docmap/value"
)

// DescriptorKind classifies a Go type for mapping.
type DescriptorKind int

const (
	KindUnsupported DescriptorKind = iota
	KindScalar
	KindText
	KindTemporalDate    // time.Time
	KindTemporalInstant // *timestamppb.Timestamp
	KindReference
	KindGeoPoint
	KindBytes
	KindVector
	KindRawValue // value.Value, passed through untouched
	KindEnum
	KindList
	KindMap
	KindObject
	KindAny
	KindTypeVar
	KindPointer
)

var descriptorKindNames = [...]string{
	KindUnsupported:     "unsupported",
	KindScalar:          "scalar",
	KindText:            "text",
	KindTemporalDate:    "temporal_date",
	KindTemporalInstant: "temporal_instant",
	KindReference:       "reference",
	KindGeoPoint:        "geopoint",
	KindBytes:           "bytes",
	KindVector:          "vector",
	KindRawValue:        "raw_value",
	KindEnum:            "enum",
	KindList:            "list",
	KindMap:             "map",
	KindObject:          "object",
	KindAny:             "any",
	KindTypeVar:         "type_var",
	KindPointer:         "pointer",
}

func (k DescriptorKind) String() string {
	if k >= 0 && int(k) < len(descriptorKindNames) {
		return descriptorKindNames[k]
	}
	return fmt.Sprintf("DescriptorKind(%d)", int(k))
}

// ScalarKind refines KindScalar.
type ScalarKind int

const (
	ScalarBool ScalarKind = iota
	ScalarInt32
	ScalarInt64
	ScalarFloat32
	ScalarDouble
	ScalarDecimal
)

// TypeDescriptor is the structural classification of a Go type. Descriptors
// are built once per type and never modified afterwards.
type TypeDescriptor struct {
	Kind   DescriptorKind
	Scalar ScalarKind
	Type   reflect.Type
	// Elem is the element of List, the value of Map and the target of Pointer.
	Elem *TypeDescriptor
	// TypeVar names the variable of a KindTypeVar placeholder.
	TypeVar string
	// Reason and Alternative describe a KindUnsupported type, e.g.
	// "Arrays" and "Lists".
	Reason      string
	Alternative string

	enum    *enumTable
	enumErr error
}

var (
	timeType      = reflect.TypeFor[time.Time]()
	timestampType = reflect.TypeFor[*timestamppb.Timestamp]()
	decimalType   = reflect.TypeFor[decimal.Decimal]()
	valueType     = reflect.TypeFor[value.Value]()
	referenceType = reflect.TypeFor[value.Reference]()
	geoPointType  = reflect.TypeFor[value.GeoPoint]()
	vectorType    = reflect.TypeFor[value.Vector]()
	listType      = reflect.TypeFor[list.List]()
	ringType      = reflect.TypeFor[ring.Ring]()
)

func unsupported(t reflect.Type, reason, alt string) *TypeDescriptor {
	return &TypeDescriptor{Kind: KindUnsupported, Type: t, Reason: reason, Alternative: alt}
}

// Describe returns the cached descriptor for t.
func (r *Registry) Describe(t reflect.Type) *TypeDescriptor {
	if d, ok := r.descs.Load(t); ok {
		return d.(*TypeDescriptor)
	}
	building := map[reflect.Type]*TypeDescriptor{}
	d := r.describe(t, building)
	// Publish only complete descriptors; self-referential types such as
	// type Tree []Tree point back into the same set.
	for bt, bd := range building {
		r.descs.LoadOrStore(bt, bd)
	}
	actual, _ := r.descs.LoadOrStore(t, d)
	return actual.(*TypeDescriptor)
}

func (r *Registry) elem(t reflect.Type, building map[reflect.Type]*TypeDescriptor) *TypeDescriptor {
	if d, ok := r.descs.Load(t); ok {
		return d.(*TypeDescriptor)
	}
	if d, ok := building[t]; ok {
		return d
	}
	return r.describe(t, building)
}

func (r *Registry) describe(t reflect.Type, building map[reflect.Type]*TypeDescriptor) *TypeDescriptor {
	d := &TypeDescriptor{Type: t}
	building[t] = d
	*d = *r.classify(t, building)
	return d
}

func (r *Registry) classify(t reflect.Type, building map[reflect.Type]*TypeDescriptor) *TypeDescriptor {
	switch t {
	case valueType:
		return &TypeDescriptor{Kind: KindRawValue, Type: t}
	case timeType:
		return &TypeDescriptor{Kind: KindTemporalDate, Type: t}
	case timestampType:
		return &TypeDescriptor{Kind: KindTemporalInstant, Type: t}
	case referenceType:
		return &TypeDescriptor{Kind: KindReference, Type: t}
	case geoPointType:
		return &TypeDescriptor{Kind: KindGeoPoint, Type: t}
	case vectorType:
		return &TypeDescriptor{Kind: KindVector, Type: t}
	case decimalType:
		return &TypeDescriptor{Kind: KindScalar, Scalar: ScalarDecimal, Type: t}
	case listType, ringType:
		return unsupported(t, "Collections", "Lists")
	}
	if t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface && t.Implements(enumType) {
		if !t.Comparable() {
			return unsupported(t, "Enums over non-comparable types", "")
		}
		et, err := newEnumTable(t)
		return &TypeDescriptor{Kind: KindEnum, Type: t, enum: et, enumErr: err}
	}

	switch t.Kind() {
	case reflect.Bool:
		return &TypeDescriptor{Kind: KindScalar, Scalar: ScalarBool, Type: t}
	case reflect.Int, reflect.Int64:
		return &TypeDescriptor{Kind: KindScalar, Scalar: ScalarInt64, Type: t}
	case reflect.Int32:
		return &TypeDescriptor{Kind: KindScalar, Scalar: ScalarInt32, Type: t}
	case reflect.Float32:
		return &TypeDescriptor{Kind: KindScalar, Scalar: ScalarFloat32, Type: t}
	case reflect.Float64:
		return &TypeDescriptor{Kind: KindScalar, Scalar: ScalarDouble, Type: t}
	case reflect.Int8, reflect.Int16:
		return unsupported(t, "Numbers of type "+t.Kind().String(), "int32 or int64")
	case reflect.Uint8:
		return unsupported(t, "Characters and single bytes", "Strings or []byte")
	case reflect.Uint, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return unsupported(t, "Unsigned numbers of type "+t.Kind().String(), "int32 or int64")
	case reflect.Complex64, reflect.Complex128:
		return unsupported(t, "Complex numbers", "")
	case reflect.String:
		return &TypeDescriptor{Kind: KindText, Type: t}
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return &TypeDescriptor{Kind: KindBytes, Type: t}
		}
		return &TypeDescriptor{Kind: KindList, Type: t, Elem: r.elem(t.Elem(), building)}
	case reflect.Array:
		return unsupported(t, "Arrays", "Lists")
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return unsupported(t, "Maps with non-string keys", "string keys")
		}
		if e := t.Elem(); e.Kind() == reflect.Struct && e.NumField() == 0 {
			// map[string]struct{} is a set
			return unsupported(t, "Collections", "Lists")
		}
		return &TypeDescriptor{Kind: KindMap, Type: t, Elem: r.elem(t.Elem(), building)}
	case reflect.Chan:
		return unsupported(t, "Collections", "Lists")
	case reflect.Func, reflect.UnsafePointer:
		return unsupported(t, "Values of type "+t.Kind().String(), "")
	case reflect.Pointer:
		if pointsToItself(t) {
			return unsupported(t, "Pointers to themselves", "")
		}
		return &TypeDescriptor{Kind: KindPointer, Type: t, Elem: r.elem(t.Elem(), building)}
	case reflect.Interface:
		if t.NumMethod() > 0 {
			return unsupported(t, "Interfaces with methods", "any or a concrete type")
		}
		return &TypeDescriptor{Kind: KindAny, Type: t}
	case reflect.Struct:
		return &TypeDescriptor{Kind: KindObject, Type: t}
	}
	return unsupported(t, "Values of type "+t.String(), "")
}

// pointsToItself reports whether following Elem from t only ever meets
// pointer types and comes back around, as in type P *P.
func pointsToItself(t reflect.Type) bool {
	var seen []reflect.Type
	for ; t.Kind() == reflect.Pointer; t = t.Elem() {
		if slices.Contains(seen, t) {
			return true
		}
		seen = append(seen, t)
	}
	return false
}

// unsupportedMessage renders "Serializing Arrays is not supported, please
// use Lists instead".
func (d *TypeDescriptor) unsupportedMessage(verb string) string {
	msg := fmt.Sprintf("%s %s is not supported", verb, d.Reason)
	if d.Alternative != "" {
		msg += ", please use " + d.Alternative + " instead"
	}
	return msg
}
