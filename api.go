package docmap

import (
	"fmt"
	"reflect"

	"github.com/reoring/docmap/value"
)

// Engine converts between Go values and document values. It is safe for
// concurrent use; mappers are shared through its Registry.
type Engine struct {
	reg      *Registry
	maxDepth int
	sink     DiagnosticSink
}

// New returns an Engine configured by the first Options, if any.
func New(opts ...Options) *Engine {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	e := &Engine{reg: o.Registry, maxDepth: o.MaxDepth, sink: o.Sink}
	if e.reg == nil {
		if o.MeterProvider != nil {
			e.reg = NewRegistry(o.MeterProvider)
		} else {
			e.reg = defaultRegistry
		}
	}
	if e.maxDepth == 0 {
		e.maxDepth = DefaultMaxDepth
	}
	if e.sink == nil {
		e.sink = ZapSink(nil)
	}
	return e
}

// Registry returns the registry backing e.
func (e *Engine) Registry() *Registry { return e.reg }

// Serialize converts v into a document value. Structs become maps in
// property order; nil pointers, slices, maps and interfaces become Null.
func (e *Engine) Serialize(v any) (value.Value, error) {
	if v == nil {
		return value.Null(), nil
	}
	rv := reflect.ValueOf(v)
	out, err := e.encode(rv, e.reg.Describe(rv.Type()), nil)
	if err != nil {
		return value.Null(), stamp("serialize", err)
	}
	return out, nil
}

// SerializeMap is Serialize for values that must produce a map, such as the
// top level of a document.
func (e *Engine) SerializeMap(v any) (*value.Map, error) {
	out, err := e.Serialize(v)
	if err != nil {
		return nil, err
	}
	m, ok := out.AsMap()
	if !ok {
		return nil, &Error{Op: "serialize", Issue: Issue{
			Code:    CodeInvalidTarget,
			Message: fmt.Sprintf("%T serializes to %s, not a map", v, out.Kind()),
		}}
	}
	return m, nil
}

// DecodeOption customizes a single Deserialize call.
type DecodeOption func(*decodeState)

// WithDocument names the document being read. Document-id properties are
// populated from it.
func WithDocument(ref value.Reference) DecodeOption {
	return func(st *decodeState) { st.ref = ref }
}

// WithBinding resolves the type variable name, declared with
// `docmap:",typevar=name"` on an any-typed field, to t.
func WithBinding(name string, t reflect.Type) DecodeOption {
	return func(st *decodeState) {
		if st.bindings == nil {
			st.bindings = map[string]reflect.Type{}
		}
		st.bindings[name] = t
	}
}

// Bind is WithBinding for a static type.
func Bind[T any](name string) DecodeOption {
	return WithBinding(name, reflect.TypeFor[T]())
}

// Deserialize populates the value out points to from doc. out is replaced
// only when the whole document converts; on error it is left untouched.
func (e *Engine) Deserialize(doc value.Value, out any, opts ...DecodeOption) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &Error{Op: "deserialize", Issue: Issue{
			Code:    CodeInvalidTarget,
			Message: fmt.Sprintf("Deserialize needs a non-nil pointer, got %T", out),
		}}
	}
	st := &decodeState{}
	for _, o := range opts {
		o(st)
	}
	target := rv.Elem()
	v, err := e.decode(st, doc, e.reg.Describe(target.Type()), nil)
	if err != nil {
		return stamp("deserialize", err)
	}
	target.Set(v)
	return nil
}

// DeserializeAs converts doc into a new T.
func DeserializeAs[T any](e *Engine, doc value.Value, opts ...DecodeOption) (T, error) {
	var out T
	err := e.Deserialize(doc, &out, opts...)
	return out, err
}

// DeserializeMap is DeserializeAs for a map read from storage.
func DeserializeMap[T any](e *Engine, m *value.Map, opts ...DecodeOption) (T, error) {
	return DeserializeAs[T](e, value.MapOf(m), opts...)
}
