package docmap

import (
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/reoring/docmap/value"
)

// decodeState is shared by every level of one Deserialize call.
type decodeState struct {
	ref      value.Reference
	bindings map[string]reflect.Type
}

func (e *Engine) checkDepth(p *ErrorPath) error {
	if e.maxDepth > 0 && p.Len() > e.maxDepth {
		return e.cycleError(p)
	}
	return nil
}

func (e *Engine) cycleError(p *ErrorPath) *Error {
	if e.maxDepth <= 0 {
		return errorf(CodeRecursionLimit, p, "Found a pointer cycle, which cannot be represented as a document")
	}
	return errorf(CodeRecursionLimit, p, "Exceeded maximum depth of %d, which likely indicates there's an object cycle", e.maxDepth).
		with("max_depth", e.maxDepth)
}

func unsupportedError(d *TypeDescriptor, verb string, p *ErrorPath) *Error {
	e := newError(CodeUnsupported, p, d.unsupportedMessage(verb)).with("type", d.Type.String())
	if d.Alternative != "" {
		e.withHint("use " + d.Alternative)
	}
	return e
}

func (e *Engine) encode(rv reflect.Value, d *TypeDescriptor, p *ErrorPath) (value.Value, error) {
	if err := e.checkDepth(p); err != nil {
		return value.Null(), err
	}
	switch d.Kind {
	case KindUnsupported:
		return value.Null(), unsupportedError(d, "Serializing", p)
	case KindRawValue:
		return rv.Interface().(value.Value), nil
	case KindAny, KindTypeVar, KindPointer:
		return e.encodeIndirect(rv, d, p)
	case KindTemporalInstant:
		if rv.IsNil() {
			return value.Null(), nil
		}
		return encodeLeaf(rv, d, p)
	case KindBytes, KindVector:
		if rv.IsNil() {
			return value.Null(), nil
		}
		return encodeLeaf(rv, d, p)
	case KindList:
		return e.encodeList(rv, d, p)
	case KindMap:
		return e.encodeMap(rv, d, p)
	case KindObject:
		return e.encodeObject(rv, p)
	}
	return encodeLeaf(rv, d, p)
}

// encodeIndirect follows a chain of pointers and interfaces. The hops do not
// extend the path, so each one past the first counts against the depth
// ceiling, and a chain that revisits an address fails at once.
func (e *Engine) encodeIndirect(rv reflect.Value, d *TypeDescriptor, p *ErrorPath) (value.Value, error) {
	var seen []uintptr
	for hops := 0; ; hops++ {
		switch d.Kind {
		case KindAny, KindTypeVar:
			if rv.IsNil() {
				return value.Null(), nil
			}
			rv = rv.Elem()
			d = e.reg.Describe(rv.Type())
		case KindPointer:
			if rv.IsNil() {
				return value.Null(), nil
			}
			addr := rv.Pointer()
			if slices.Contains(seen, addr) {
				return value.Null(), e.cycleError(p)
			}
			seen = append(seen, addr)
			rv = rv.Elem()
			d = d.Elem
		default:
			return e.encode(rv, d, p)
		}
		if e.maxDepth > 0 && hops > 0 && p.Len()+hops > e.maxDepth {
			return value.Null(), e.cycleError(p)
		}
	}
}

func (e *Engine) encodeList(rv reflect.Value, d *TypeDescriptor, p *ErrorPath) (value.Value, error) {
	if rv.IsNil() {
		return value.Null(), nil
	}
	items := make([]value.Value, rv.Len())
	for i := range items {
		v, err := e.encode(rv.Index(i), d.Elem, p.Index(i))
		if err != nil {
			return value.Null(), err
		}
		items[i] = v
	}
	return value.Array(items...), nil
}

func (e *Engine) encodeMap(rv reflect.Value, d *TypeDescriptor, p *ErrorPath) (value.Value, error) {
	if rv.IsNil() {
		return value.Null(), nil
	}
	keys := rv.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int { return strings.Compare(a.String(), b.String()) })
	out := value.NewMap()
	for _, k := range keys {
		v, err := e.encode(rv.MapIndex(k), d.Elem, p.Child(k.String()))
		if err != nil {
			return value.Null(), err
		}
		out.Set(k.String(), v)
	}
	return value.MapOf(out), nil
}

func (e *Engine) encodeObject(rv reflect.Value, p *ErrorPath) (value.Value, error) {
	m, err := e.reg.Lookup(rv.Type())
	if err != nil {
		return value.Null(), err
	}
	if !rv.CanAddr() {
		// getters take *T
		tmp := reflect.New(rv.Type()).Elem()
		tmp.Set(rv)
		rv = tmp
	}
	out := value.NewMap()
	for _, prop := range m.props {
		if prop.DocumentID || !prop.Readable() {
			continue
		}
		cp := p.Child(prop.Name)
		fv := prop.read(rv)
		if !fv.IsValid() {
			out.Set(prop.Name, value.Null())
			continue
		}
		if prop.ServerTimestamp && isNullish(fv) {
			out.Set(prop.Name, value.ServerTimestamp())
			continue
		}
		v, err := e.encode(fv, prop.Desc, cp)
		if err != nil {
			return value.Null(), err
		}
		out.Set(prop.Name, v)
	}
	return value.MapOf(out), nil
}

// isNullish reports a nil pointer or interface, or a zero time.Time.
func isNullish(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	if rv.Type() == timeType {
		return rv.Interface().(time.Time).IsZero()
	}
	return false
}

func (e *Engine) decode(st *decodeState, v value.Value, d *TypeDescriptor, p *ErrorPath) (reflect.Value, error) {
	if err := e.checkDepth(p); err != nil {
		return reflect.Value{}, err
	}
	if v.IsNull() {
		return reflect.Zero(d.Type), nil
	}
	switch d.Kind {
	case KindUnsupported:
		return reflect.Value{}, unsupportedError(d, "Deserializing", p)
	case KindRawValue:
		return reflect.ValueOf(v), nil
	case KindAny:
		out := reflect.New(d.Type).Elem()
		out.Set(reflect.ValueOf(v.Plain()))
		return out, nil
	case KindTypeVar:
		bound, ok := st.bindings[d.TypeVar]
		if !ok {
			return reflect.Value{}, errorf(CodeInternal, p, "Could not resolve type variable %s", d.TypeVar)
		}
		inner, err := e.decode(st, v, e.reg.Describe(bound), p)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(d.Type).Elem()
		out.Set(inner)
		return out, nil
	case KindPointer:
		inner, err := e.decode(st, v, d.Elem, p)
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(d.Elem.Type)
		ptr.Elem().Set(inner)
		return ptr, nil
	case KindList:
		return e.decodeList(st, v, d, p)
	case KindMap:
		return e.decodeMap(st, v, d, p)
	case KindObject:
		return e.decodeObject(st, v, d.Type, p)
	}
	return decodeLeaf(v, d, p)
}

func (e *Engine) decodeList(st *decodeState, v value.Value, d *TypeDescriptor, p *ErrorPath) (reflect.Value, error) {
	items, ok := v.AsArray()
	if !ok {
		return reflect.Value{}, errorf(CodeTypeMismatch, p, "Expected a List, but got a %s", v.Kind()).
			with("expected", "array", "got", v.Kind().String())
	}
	out := reflect.MakeSlice(d.Type, len(items), len(items))
	for i, it := range items {
		ev, err := e.decode(st, it, d.Elem, p.Index(i))
		if err != nil {
			return reflect.Value{}, err
		}
		out.Index(i).Set(ev)
	}
	return out, nil
}

func (e *Engine) decodeMap(st *decodeState, v value.Value, d *TypeDescriptor, p *ErrorPath) (reflect.Value, error) {
	m, ok := v.AsMap()
	if !ok {
		return reflect.Value{}, errorf(CodeTypeMismatch, p, "Expected a Map while deserializing to %s, but got a %s", d.Type, v.Kind()).
			with("expected", "map", "got", v.Kind().String())
	}
	out := reflect.MakeMapWithSize(d.Type, m.Len())
	keyType := d.Type.Key()
	for k, it := range m.All() {
		ev, err := e.decode(st, it, d.Elem, p.Child(k))
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetMapIndex(reflect.ValueOf(k).Convert(keyType), ev)
	}
	return out, nil
}

type pendingWrite struct {
	prop *PropertyEntry
	val  reflect.Value
}

func (e *Engine) decodeObject(st *decodeState, v value.Value, t reflect.Type, p *ErrorPath) (reflect.Value, error) {
	m, err := e.reg.Lookup(t)
	if err != nil {
		return reflect.Value{}, err
	}
	if len(m.typeVars) > 0 && !anyBound(st.bindings, m.typeVars) {
		return reflect.Value{}, errorf(CodeUnsupported, p, "Type %s has generic type parameters %s, please supply type bindings", t, strings.Join(m.typeVars, ", ")).
			withHint("pass docmap.WithBinding for each type variable")
	}
	doc, ok := v.AsMap()
	if !ok {
		return reflect.Value{}, errorf(CodeTypeMismatch, p, "Expected a Map while deserializing to %s, but got a %s", t, v.Kind()).
			with("expected", "map", "got", v.Kind().String())
	}

	var args []reflect.Value
	if m.record != nil {
		args = make([]reflect.Value, len(m.record.params))
	}
	var pending []pendingWrite
	for key, fv := range doc.All() {
		cp := p.Child(key)
		prop, ok := m.byName[key]
		if !ok || !prop.Writable() {
			if err := e.unknownProperty(m, key, cp); err != nil {
				return reflect.Value{}, err
			}
			continue
		}
		if prop.DocumentID {
			docPath := "<unknown>"
			if !st.ref.IsZero() {
				docPath = st.ref.Path()
			}
			return reflect.Value{}, errorf(CodeDocumentIDConflict, cp, "'%s' was found from document %s, cannot apply documentID on this property for type %s", key, docPath, t).
				with("property", key, "document", docPath)
		}
		pv, err := e.decode(st, fv, prop.Desc, cp)
		if err != nil {
			return reflect.Value{}, err
		}
		if prop.slot >= 0 {
			args[prop.slot] = pv
		} else {
			pending = append(pending, pendingWrite{prop: prop, val: pv})
		}
	}

	if !st.ref.IsZero() {
		for _, name := range m.documentID {
			prop := m.byName[name]
			pv, err := documentIDValue(prop.Desc, st.ref)
			if err != nil {
				return reflect.Value{}, errorf(CodeInternal, p.Child(name), "%s", err)
			}
			if prop.slot >= 0 {
				args[prop.slot] = pv
			} else {
				pending = append(pending, pendingWrite{prop: prop, val: pv})
			}
		}
	}

	obj := reflect.New(t).Elem()
	if m.record != nil {
		built, err := m.record.construct(args)
		if err != nil {
			cerr := errorf(CodeTypeMismatch, p, "Could not construct %s: %s", t, err)
			cerr.Cause = err
			return reflect.Value{}, cerr
		}
		obj.Set(built)
	}
	// setters and fields run after the constructor
	for _, w := range pending {
		w.prop.write(obj, w.val)
	}
	return obj, nil
}

func anyBound(bindings map[string]reflect.Type, vars []string) bool {
	for _, v := range vars {
		if _, ok := bindings[v]; ok {
			return true
		}
	}
	return false
}

func (e *Engine) unknownProperty(m *ObjectMapper, key string, p *ErrorPath) error {
	if m.policy == UnknownIgnore {
		return nil
	}
	msg := "No setter/field for " + key + " found on type " + m.typ.String()
	err := newError(CodeUnknownProperty, p, msg).with("property", key, "type", m.typ.String())
	if canon, ok := m.suggest(key); ok && canon != key {
		err.Issue.Message += " (fields/setters are case sensitive!)"
		err.withHint("did you mean " + canon + "?")
	}
	if m.policy == UnknownThrow {
		return err
	}
	e.sink.Warn(err.Issue)
	return nil
}

// construct calls the record constructor, filling absent components with
// zero values.
func (rs *recordSpec) construct(args []reflect.Value) (reflect.Value, error) {
	in := make([]reflect.Value, len(rs.params))
	for i, pt := range rs.params {
		if args[i].IsValid() {
			in[i] = args[i]
		} else {
			in[i] = reflect.Zero(pt)
		}
	}
	out := rs.ctor.Call(in)
	if rs.withError && !out[1].IsNil() {
		return reflect.Value{}, out[1].Interface().(error)
	}
	return out[0], nil
}
