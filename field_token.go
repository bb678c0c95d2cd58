package docmap

import (
	"reflect"
	"strings"
)

// FieldPath is the wire-name path of a struct field, top-level first.
type FieldPath[T any] struct {
	keys []string
}

// Keys returns the path segments.
func (p FieldPath[T]) Keys() []string { return append([]string(nil), p.keys...) }

// String joins the segments with dots, matching error breadcrumbs.
func (p FieldPath[T]) String() string { return strings.Join(p.keys, ".") }

// Lookup follows the path through nested maps of a serialized document.
func (p FieldPath[T]) Lookup(doc map[string]any) (any, bool) {
	var cur any = doc
	for _, k := range p.keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[k]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// WireNameOf returns the wire name of the field of S addressed by selector.
// Fields promoted from embedded structs resolve to their own name.
//
//	WireNameOf(func(o *Order) *string { return &o.Status }) // "status" when tagged docmap:"status"
func WireNameOf[S any, F any](selector func(*S) *F) string {
	p := WirePathOf(selector)
	if len(p.keys) != 1 {
		panic("docmap.WireNameOf: selector must return the address of a top-level or promoted field")
	}
	return p.keys[0]
}

// WirePathOf resolves a nested field selector into its wire-name path:
//
//	WirePathOf(func(o *Order) *string { return &o.Customer.Name }) // Customer.name
//
// Only value-typed struct fields are descended; pointer hops are not
// followed.
func WirePathOf[T any, F any](selector func(*T) *F) FieldPath[T] {
	if selector == nil {
		panic("docmap.WirePathOf: selector must not be nil")
	}
	var zero T
	rv := reflect.ValueOf(&zero).Elem()
	if rv.Kind() != reflect.Struct {
		panic("docmap.WirePathOf: " + rv.Type().String() + " is not a struct")
	}
	target := reflect.ValueOf(selector(&zero))
	keys, ok := findPathKeys(rv, target.Pointer(), target.Type().Elem(), 0)
	if !ok || len(keys) == 0 {
		panic("docmap.WirePathOf: selector must address an exported, mapped struct field")
	}
	return FieldPath[T]{keys: keys}
}

const maxSelectorDepth = 32

func findPathKeys(v reflect.Value, target uintptr, ft reflect.Type, depth int) ([]string, bool) {
	if depth > maxSelectorDepth {
		return nil, false
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() || isMarker(sf) {
			continue
		}
		fv := v.Field(i)
		_, tagged := sf.Tag.Lookup(TagName)
		flatten := sf.Anonymous && !tagged && sf.Type.Kind() == reflect.Struct
		// a struct shares its address with its first field, so match on type too
		if fv.Addr().Pointer() == target && sf.Type == ft && !flatten {
			name := ResolveStructKey(sf)
			if name == "-" {
				return nil, false
			}
			return []string{name}, true
		}
		if fv.Kind() != reflect.Struct {
			continue
		}
		rest, ok := findPathKeys(fv, target, ft, depth+1)
		if !ok {
			continue
		}
		if flatten {
			return rest, true
		}
		name := ResolveStructKey(sf)
		if name == "-" {
			return nil, false
		}
		return append([]string{name}, rest...), true
	}
	return nil, false
}
