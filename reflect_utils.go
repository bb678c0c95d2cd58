package docmap

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TagName is the struct tag read by the mapper.
const TagName = "docmap"

type fieldTag struct {
	name            string
	skip            bool
	documentID      bool
	serverTimestamp bool
	typeVar         string
}

// ResolveStructKey applies the repository-wide rule to resolve a struct field's
// wire name: docmap:"name,..." > field name; "-" disables the field.
func ResolveStructKey(sf reflect.StructField) string {
	tag, err := parseFieldTag(sf)
	if err != nil || tag.skip {
		return "-"
	}
	return tag.name
}

// parseFieldTag reads `docmap:"name,documentID,serverTimestamp,typevar=T"`.
func parseFieldTag(sf reflect.StructField) (fieldTag, error) {
	ft := fieldTag{name: sf.Name}
	raw, ok := sf.Tag.Lookup(TagName)
	if !ok {
		return ft, nil
	}
	if raw == "-" {
		ft.skip = true
		return ft, nil
	}
	parts := strings.Split(raw, ",")
	if n := strings.TrimSpace(parts[0]); n != "" {
		ft.name = n
	}
	for _, p := range parts[1:] {
		p = strings.TrimSpace(p)
		switch {
		case p == "":
		case p == "documentID":
			ft.documentID = true
		case p == "serverTimestamp":
			ft.serverTimestamp = true
		case strings.HasPrefix(p, "typevar="):
			ft.typeVar = strings.TrimPrefix(p, "typevar=")
			if ft.typeVar == "" {
				return ft, fmt.Errorf("field %s: empty typevar in tag %q", sf.Name, raw)
			}
		default:
			return ft, fmt.Errorf("field %s: unknown option %q in tag %q", sf.Name, p, raw)
		}
	}
	return ft, nil
}

var accessorPrefixes = []string{"Get", "Set", "Is"}

// propertyNameFromAccessor derives the wire name of an accessor method:
// GetTotal -> total, IsActive -> active, GetURL -> URL. The first letter is
// lower-cased only when stripping the prefix leaves a mixed-case word;
// all-caps abbreviations keep their spelling.
func propertyNameFromAccessor(method string) (string, error) {
	var rest string
	for _, p := range accessorPrefixes {
		if r, ok := strings.CutPrefix(method, p); ok && r != "" {
			if first, _ := utf8.DecodeRuneInString(r); unicode.IsUpper(first) {
				rest = r
				break
			}
		}
	}
	if rest == "" {
		return "", fmt.Errorf("unknown accessor prefix for method %s; use Get, Set or Is, or pass an explicit name", method)
	}
	if isAllUpper(rest) && utf8.RuneCountInString(rest) > 1 {
		return rest, nil
	}
	first, size := utf8.DecodeRuneInString(rest)
	return string(unicode.ToLower(first)) + rest[size:], nil
}

func isAllUpper(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

// funcName returns the bare name of a method expression or method value,
// e.g. "GetTotal" for (*Order).GetTotal.
func funcName(fn any) string {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return ""
	}
	f := runtime.FuncForPC(rv.Pointer())
	if f == nil {
		return ""
	}
	name := strings.TrimSuffix(f.Name(), "-fm")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// isMarker reports whether sf embeds one of the policy marker types.
func isMarker(sf reflect.StructField) bool {
	return sf.Anonymous && (sf.Type == strictType || sf.Type == lenientType)
}

// fieldByIndex reads a promoted field, returning an invalid Value when an
// embedded pointer on the way is nil.
func fieldByIndex(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}

// fieldByIndexAlloc is fieldByIndex for writes: nil embedded pointers are
// allocated. v must be addressable.
func fieldByIndexAlloc(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}
