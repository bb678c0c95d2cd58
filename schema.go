package docmap

import (
	"reflect"

	js "github.com/reoring/docmap/jsonschema"
)

// JSONSchema describes the document shape Serialize produces for t, using
// the same mappers. Self-referencing types are emitted once under $defs.
func (e *Engine) JSONSchema(t reflect.Type) (*js.Schema, error) {
	g := &schemaGen{e: e, visiting: map[reflect.Type]bool{}, recursive: map[reflect.Type]bool{}, defs: map[string]*js.Schema{}}
	s, err := g.gen(e.reg.Describe(t), nil)
	if err != nil {
		return nil, stamp("schema", err)
	}
	if len(g.defs) > 0 {
		s.Defs = g.defs
	}
	return s, nil
}

type schemaGen struct {
	e         *Engine
	visiting  map[reflect.Type]bool
	recursive map[reflect.Type]bool
	defs      map[string]*js.Schema
}

func (g *schemaGen) gen(d *TypeDescriptor, p *ErrorPath) (*js.Schema, error) {
	if err := g.e.checkDepth(p); err != nil {
		return nil, err
	}
	switch d.Kind {
	case KindUnsupported:
		return nil, unsupportedError(d, "Describing", p)
	case KindScalar:
		switch d.Scalar {
		case ScalarBool:
			return &js.Schema{Type: "boolean"}, nil
		case ScalarInt32:
			return &js.Schema{Type: "integer", Format: "int32"}, nil
		case ScalarInt64:
			return &js.Schema{Type: "integer", Format: "int64"}, nil
		case ScalarFloat32:
			return &js.Schema{Type: "number", Format: "float"}, nil
		case ScalarDouble:
			return &js.Schema{Type: "number", Format: "double"}, nil
		default:
			return &js.Schema{Type: "string", Format: "decimal"}, nil
		}
	case KindText:
		return &js.Schema{Type: "string"}, nil
	case KindTemporalDate, KindTemporalInstant:
		return &js.Schema{Type: "string", Format: "date-time"}, nil
	case KindReference:
		return &js.Schema{Type: "string", Format: "document-reference"}, nil
	case KindBytes:
		return &js.Schema{Type: "string", Format: "byte"}, nil
	case KindGeoPoint:
		return &js.Schema{
			Type: "object",
			Properties: map[string]*js.Schema{
				"latitude":  {Type: "number"},
				"longitude": {Type: "number"},
			},
			Required:             []string{"latitude", "longitude"},
			AdditionalProperties: false,
		}, nil
	case KindVector:
		return &js.Schema{Type: "array", Items: &js.Schema{Type: "number"}}, nil
	case KindRawValue, KindAny, KindTypeVar:
		return &js.Schema{}, nil
	case KindEnum:
		if d.enumErr != nil {
			return nil, errorf(CodeMapperBuild, p, "%s", d.enumErr)
		}
		s := &js.Schema{Type: "string", Title: d.Type.Name()}
		for _, m := range d.enum.members {
			name, _ := d.enum.wireName(m.Value)
			s.Enum = append(s.Enum, name)
		}
		return s, nil
	case KindPointer:
		inner, err := g.gen(d.Elem, p)
		if err != nil {
			return nil, err
		}
		return &js.Schema{OneOf: []*js.Schema{inner, {Type: "null"}}}, nil
	case KindList:
		items, err := g.gen(d.Elem, p.Index(0))
		if err != nil {
			return nil, err
		}
		return &js.Schema{Type: "array", Items: items}, nil
	case KindMap:
		vals, err := g.gen(d.Elem, p.Child("*"))
		if err != nil {
			return nil, err
		}
		return &js.Schema{Type: "object", AdditionalProperties: vals}, nil
	case KindObject:
		return g.object(d.Type, p)
	}
	return nil, errorf(CodeInternal, p, "no schema for %s", d.Kind)
}

func (g *schemaGen) object(t reflect.Type, p *ErrorPath) (*js.Schema, error) {
	if g.visiting[t] {
		g.recursive[t] = true
		return js.DefRef(t.String()), nil
	}
	m, err := g.e.reg.Lookup(t)
	if err != nil {
		return nil, err
	}
	g.visiting[t] = true
	defer delete(g.visiting, t)

	s := &js.Schema{Type: "object", Title: t.Name(), Properties: map[string]*js.Schema{}}
	if m.policy == UnknownThrow {
		s.AdditionalProperties = false
	}
	for _, prop := range m.props {
		if prop.DocumentID || !prop.Readable() {
			continue
		}
		ps, err := g.gen(prop.Desc, p.Child(prop.Name))
		if err != nil {
			return nil, err
		}
		if prop.ServerTimestamp {
			ps.Description = "set by the server when written as null"
		}
		s.Properties[prop.Name] = ps
	}
	if g.recursive[t] {
		g.defs[t.String()] = s
		return js.DefRef(t.String()), nil
	}
	return s, nil
}
