package docmap

import (
	"fmt"
	"reflect"
)

// Strict, embedded in a struct, makes unknown document keys fail deserialize.
type Strict struct{}

// Lenient, embedded in a struct, makes unknown document keys silently ignored.
type Lenient struct{}

var (
	strictType  = reflect.TypeFor[Strict]()
	lenientType = reflect.TypeFor[Lenient]()
)

// Flag marks a registered accessor or record component.
type Flag int

const (
	// DocumentID receives the id (string) or reference of the owning document
	// and is never written back out.
	DocumentID Flag = iota + 1
	// ServerTimestamp is replaced by the server-timestamp sentinel when null
	// at serialize time.
	ServerTimestamp
)

type propFlags struct {
	documentID      bool
	serverTimestamp bool
}

func toPropFlags(fs []Flag) propFlags {
	var pf propFlags
	for _, f := range fs {
		switch f {
		case DocumentID:
			pf.documentID = true
		case ServerTimestamp:
			pf.serverTimestamp = true
		}
	}
	return pf
}

type accessorSpec struct {
	name  string
	typ   reflect.Type
	get   func(obj reflect.Value) reflect.Value // obj is a *T
	set   func(obj reflect.Value, v reflect.Value)
	flags propFlags
}

type recordSpec struct {
	ctor       reflect.Value
	params     []reflect.Type
	components []string
	flags      map[string]propFlags
	withError  bool
}

// Registration is the explicit metadata of one type, applied on top of its
// struct fields when its mapper is built.
type Registration struct {
	typ       reflect.Type
	accessors []accessorSpec
	record    *recordSpec
	policy    *UnknownPolicy
}

// RegisterOption contributes to a Registration.
type RegisterOption func(*Registration) error

// Getter registers a read accessor, usually a method expression such as
// (*Order).GetTotal. An empty name derives the property name from the
// method name.
func Getter[T, V any](name string, get func(*T) V, flags ...Flag) RegisterOption {
	return Accessor[T, V](name, get, nil, flags...)
}

// Setter registers a write accessor such as (*Order).SetTotal.
func Setter[T, V any](name string, set func(*T, V), flags ...Flag) RegisterOption {
	return Accessor[T, V](name, nil, set, flags...)
}

// Accessor registers a read/write property backed by functions.
func Accessor[T, V any](name string, get func(*T) V, set func(*T, V), flags ...Flag) RegisterOption {
	return func(r *Registration) error {
		if t := reflect.TypeFor[T](); t != r.typ {
			return fmt.Errorf("accessor %q is declared on %s, not %s", name, t, r.typ)
		}
		if get == nil && set == nil {
			return fmt.Errorf("accessor %q on %s has neither getter nor setter", name, r.typ)
		}
		if name == "" {
			var err error
			if get != nil {
				name, err = propertyNameFromAccessor(funcName(get))
			} else {
				name, err = propertyNameFromAccessor(funcName(set))
			}
			if err != nil {
				return err
			}
		}
		spec := accessorSpec{name: name, typ: reflect.TypeFor[V](), flags: toPropFlags(flags)}
		if get != nil {
			spec.get = func(obj reflect.Value) reflect.Value {
				v := get(obj.Interface().(*T))
				return reflect.ValueOf(&v).Elem()
			}
		}
		if set != nil {
			spec.set = func(obj reflect.Value, v reflect.Value) {
				var x V
				reflect.ValueOf(&x).Elem().Set(v)
				set(obj.Interface().(*T), x)
			}
		}
		r.accessors = append(r.accessors, spec)
		return nil
	}
}

// Record declares a constructor for types whose properties are assigned at
// construction. ctor is a func taking one argument per component, in order,
// and returning T or (T, error). Components are named by their wire names;
// a component sharing its name with a field or getter is read through it on
// serialize.
func Record[T any](ctor any, components ...string) RegisterOption {
	return func(r *Registration) error {
		if t := reflect.TypeFor[T](); t != r.typ {
			return fmt.Errorf("record constructor is declared for %s, not %s", t, r.typ)
		}
		cv := reflect.ValueOf(ctor)
		if cv.Kind() != reflect.Func || cv.IsNil() {
			return fmt.Errorf("record constructor for %s must be a func, got %T", r.typ, ctor)
		}
		ct := cv.Type()
		if ct.NumIn() != len(components) {
			return fmt.Errorf("record constructor for %s takes %d arguments but %d components were named", r.typ, ct.NumIn(), len(components))
		}
		withErr := false
		switch {
		case ct.NumOut() == 1 && ct.Out(0) == r.typ:
		case ct.NumOut() == 2 && ct.Out(0) == r.typ && ct.Out(1) == errorType:
			withErr = true
		default:
			return fmt.Errorf("record constructor for %s must return %s or (%s, error)", r.typ, r.typ, r.typ)
		}
		rs := &recordSpec{ctor: cv, components: components, withError: withErr, flags: map[string]propFlags{}}
		for i := 0; i < ct.NumIn(); i++ {
			rs.params = append(rs.params, ct.In(i))
		}
		r.record = rs
		return nil
	}
}

// RecordFlags marks record components, e.g. RecordFlags("id", DocumentID).
func RecordFlags(component string, flags ...Flag) RegisterOption {
	return func(r *Registration) error {
		if r.record == nil {
			return fmt.Errorf("RecordFlags(%q) on %s must follow Record", component, r.typ)
		}
		r.record.flags[component] = toPropFlags(flags)
		return nil
	}
}

// StrictUnknown overrides the unknown-property policy with UnknownThrow.
func StrictUnknown() RegisterOption {
	return func(r *Registration) error {
		p := UnknownThrow
		r.policy = &p
		return nil
	}
}

// IgnoreUnknown overrides the unknown-property policy with UnknownIgnore.
func IgnoreUnknown() RegisterOption {
	return func(r *Registration) error {
		p := UnknownIgnore
		r.policy = &p
		return nil
	}
}

var errorType = reflect.TypeFor[error]()

// Register attaches explicit metadata to T in reg. A mapper already built for
// T is discarded so the next use picks up the registration.
func Register[T any](reg *Registry, opts ...RegisterOption) error {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		return &Error{Op: "register", Issue: Issue{Code: CodeMapperBuild, Message: fmt.Sprintf("%s is not a struct type", t)}}
	}
	r := &Registration{typ: t}
	for _, o := range opts {
		if err := o(r); err != nil {
			return &Error{Op: "register", Issue: Issue{Code: CodeMapperBuild, Message: err.Error()}, Cause: err}
		}
	}
	reg.regs.Store(t, r)
	reg.Forget(t)
	return nil
}
