package docmap

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// PropertySource records where a property was discovered.
type PropertySource int

const (
	FromAccessor PropertySource = 1 << iota
	FromField
	FromComponent
)

// PropertyEntry is one row of an ObjectMapper's property table.
type PropertyEntry struct {
	Name            string
	Desc            *TypeDescriptor
	DocumentID      bool
	ServerTimestamp bool
	Sources         PropertySource

	// read returns the property of obj (addressable T); invalid when an
	// embedded pointer on the way is nil.
	read func(obj reflect.Value) reflect.Value
	// write stores v into obj (addressable T).
	write func(obj reflect.Value, v reflect.Value)
	// slot is the record constructor argument index, or -1.
	slot int
}

// Readable reports whether the property is written out on serialize.
func (p *PropertyEntry) Readable() bool { return p.read != nil }

// Writable reports whether deserialize can populate the property.
func (p *PropertyEntry) Writable() bool { return p.write != nil || p.slot >= 0 }

// ObjectMapper holds the property table of one struct type. It is immutable
// once built.
type ObjectMapper struct {
	typ        reflect.Type
	props      []*PropertyEntry
	byName     map[string]*PropertyEntry
	lowerIndex map[string]string
	policy     UnknownPolicy
	documentID []string
	serverTime []string
	typeVars   []string
	record     *recordSpec
	source     *Registration // nil when built from struct fields alone
}

func (m *ObjectMapper) Type() reflect.Type             { return m.typ }
func (m *ObjectMapper) Policy() UnknownPolicy          { return m.policy }
func (m *ObjectMapper) Properties() []*PropertyEntry   { return slices.Clone(m.props) }
func (m *ObjectMapper) DocumentIDProperties() []string { return slices.Clone(m.documentID) }
func (m *ObjectMapper) TypeVars() []string             { return slices.Clone(m.typeVars) }

// Property looks up a property by its exact wire name.
func (m *ObjectMapper) Property(name string) (*PropertyEntry, bool) {
	p, ok := m.byName[name]
	return p, ok
}

// suggest returns the canonical spelling of a property differing from name
// only by case.
func (m *ObjectMapper) suggest(name string) (string, bool) {
	s, ok := m.lowerIndex[strings.ToLower(name)]
	return s, ok
}

type mapperBuilder struct {
	reg *Registry
	m   *ObjectMapper
}

func buildError(format string, args ...any) *Error {
	return &Error{Op: "build", Issue: Issue{Code: CodeMapperBuild, Message: fmt.Sprintf(format, args...)}}
}

func (r *Registry) buildMapper(t reflect.Type) (*ObjectMapper, error) {
	b := &mapperBuilder{reg: r, m: &ObjectMapper{
		typ:        t,
		byName:     map[string]*PropertyEntry{},
		lowerIndex: map[string]string{},
	}}
	reg := r.registration(t)
	b.m.source = reg

	if reg != nil {
		for _, a := range reg.accessors {
			if err := b.addAccessor(a); err != nil {
				return nil, err
			}
		}
	}
	if err := b.addFields(t); err != nil {
		return nil, err
	}
	if reg != nil && reg.record != nil {
		if err := b.addComponents(reg.record); err != nil {
			return nil, err
		}
	}

	m := b.m
	if len(m.props) == 0 {
		return nil, buildError("No properties to serialize found on type %s", t)
	}
	policy, err := unknownPolicyOf(t)
	if err != nil {
		return nil, err
	}
	if reg != nil && reg.policy != nil {
		policy = *reg.policy
	}
	m.policy = policy

	for _, p := range m.props {
		if p.DocumentID {
			if err := validateDocumentID(t, p); err != nil {
				return nil, err
			}
			m.documentID = append(m.documentID, p.Name)
		}
		if p.ServerTimestamp {
			if err := validateServerTimestamp(t, p); err != nil {
				return nil, err
			}
			m.serverTime = append(m.serverTime, p.Name)
		}
		if p.Desc.Kind == KindTypeVar && !slices.Contains(m.typeVars, p.Desc.TypeVar) {
			m.typeVars = append(m.typeVars, p.Desc.TypeVar)
		}
	}
	slices.Sort(m.typeVars)
	return m, nil
}

// entry returns the property called name, creating it when absent. Names
// that differ only by case are rejected.
func (b *mapperBuilder) entry(name string, desc *TypeDescriptor) (*PropertyEntry, error) {
	m := b.m
	lower := strings.ToLower(name)
	if canon, ok := m.lowerIndex[lower]; ok && canon != name {
		return nil, buildError("Found two getters or fields with conflicting case sensitivity for property: %s (%s and %s) on type %s", lower, canon, name, m.typ)
	}
	if p, ok := m.byName[name]; ok {
		if p.Desc.Type != desc.Type {
			return nil, buildError("Property %s of type %s is declared with conflicting types %s and %s", name, m.typ, p.Desc.Type, desc.Type)
		}
		return p, nil
	}
	p := &PropertyEntry{Name: name, Desc: desc, slot: -1}
	m.props = append(m.props, p)
	m.byName[name] = p
	m.lowerIndex[lower] = name
	return p, nil
}

func (b *mapperBuilder) addAccessor(a accessorSpec) error {
	p, err := b.entry(a.name, b.reg.Describe(a.typ))
	if err != nil {
		return err
	}
	if a.get != nil {
		if p.read != nil {
			return buildError("Found conflicting getters for property %s on type %s", a.name, b.m.typ)
		}
		get := a.get
		p.read = func(obj reflect.Value) reflect.Value { return get(obj.Addr()) }
	}
	if a.set != nil {
		if p.write != nil {
			return buildError("Found conflicting setters for property %s on type %s", a.name, b.m.typ)
		}
		set := a.set
		p.write = func(obj reflect.Value, v reflect.Value) { set(obj.Addr(), v) }
	}
	p.Sources |= FromAccessor
	p.DocumentID = p.DocumentID || a.flags.documentID
	p.ServerTimestamp = p.ServerTimestamp || a.flags.serverTimestamp
	return nil
}

func (b *mapperBuilder) addFields(t reflect.Type) error {
	for _, sf := range reflect.VisibleFields(t) {
		if isMarker(sf) || !sf.IsExported() {
			continue
		}
		if _, has := sf.Tag.Lookup(TagName); sf.Anonymous && !has && isStructOrPtrToStruct(sf.Type) {
			// promoted fields are visited on their own
			continue
		}
		tag, err := parseFieldTag(sf)
		if err != nil {
			return buildError("%s on type %s", err, t)
		}
		if tag.skip {
			continue
		}
		desc := b.reg.Describe(sf.Type)
		if tag.typeVar != "" {
			if sf.Type.Kind() != reflect.Interface || sf.Type.NumMethod() != 0 {
				return buildError("Field %s of type %s declares typevar=%s but is not of type any", sf.Name, t, tag.typeVar)
			}
			desc = &TypeDescriptor{Kind: KindTypeVar, Type: sf.Type, TypeVar: tag.typeVar}
		}
		p, err := b.entry(tag.name, desc)
		if err != nil {
			return err
		}
		if p.Sources&FromField != 0 {
			return buildError("Found two fields for property %s on type %s", tag.name, t)
		}
		index := sf.Index
		if p.read == nil {
			p.read = func(obj reflect.Value) reflect.Value { return fieldByIndex(obj, index) }
		}
		if p.write == nil {
			p.write = func(obj reflect.Value, v reflect.Value) { fieldByIndexAlloc(obj, index).Set(v) }
		}
		p.Sources |= FromField
		p.DocumentID = p.DocumentID || tag.documentID
		p.ServerTimestamp = p.ServerTimestamp || tag.serverTimestamp
	}
	return nil
}

func (b *mapperBuilder) addComponents(rs *recordSpec) error {
	b.m.record = rs
	for i, name := range rs.components {
		p, err := b.entry(name, b.reg.Describe(rs.params[i]))
		if err != nil {
			return err
		}
		p.slot = i
		p.Sources |= FromComponent
		f := rs.flags[name]
		p.DocumentID = p.DocumentID || f.documentID
		p.ServerTimestamp = p.ServerTimestamp || f.serverTimestamp
	}
	for name := range rs.flags {
		if !slices.Contains(rs.components, name) {
			return buildError("RecordFlags names %s, which is not a component of %s", name, b.m.typ)
		}
	}
	return nil
}

func isStructOrPtrToStruct(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

func unknownPolicyOf(t reflect.Type) (UnknownPolicy, error) {
	var strict, lenient bool
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.Anonymous {
			continue
		}
		switch sf.Type {
		case strictType:
			strict = true
		case lenientType:
			lenient = true
		}
	}
	switch {
	case strict && lenient:
		return 0, buildError("Type %s embeds both docmap.Strict and docmap.Lenient", t)
	case strict:
		return UnknownThrow, nil
	case lenient:
		return UnknownIgnore, nil
	}
	return UnknownWarn, nil
}

func indirect(d *TypeDescriptor) *TypeDescriptor {
	for d.Kind == KindPointer {
		d = d.Elem
	}
	return d
}

func validateDocumentID(t reflect.Type, p *PropertyEntry) error {
	if !p.Writable() {
		return buildError("Property %s of type %s is marked documentID but has no setter, field or constructor slot", p.Name, t)
	}
	switch indirect(p.Desc).Kind {
	case KindText, KindReference:
		return nil
	}
	return buildError("Property %s of type %s is marked documentID but is of type %s; only string and value.Reference are supported", p.Name, t, p.Desc.Type)
}

func validateServerTimestamp(t reflect.Type, p *PropertyEntry) error {
	if p.Desc.Type == timestampType {
		return nil
	}
	if indirect(p.Desc).Kind == KindTemporalDate {
		return nil
	}
	return buildError("Property %s of type %s is marked serverTimestamp but is of type %s; only time.Time and *timestamppb.Timestamp are supported", p.Name, t, p.Desc.Type)
}
