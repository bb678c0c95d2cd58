package docmap_test

import (
	"reflect"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/docmap"
	"github.com/reoring/docmap/value"
)

func TestJSONSchema_Order(t *testing.T) {
	e := newEngine()
	s, err := e.JSONSchema(reflect.TypeFor[Order]())
	require.NoError(t, err)

	assert.Equal(t, "object", s.Type)
	assert.NotContains(t, s.Properties, "id")
	assert.Equal(t, "int32", s.Properties["qty"].Format)
	assert.Equal(t, "decimal", s.Properties["total"].Format)
	assert.Equal(t, []any{"Pending", "shipped", "Cancelled"}, s.Properties["status"].Enum)
	assert.Equal(t, "array", s.Properties["tags"].Type)
	assert.Equal(t, "string", s.Properties["tags"].Items.Type)

	ship := s.Properties["ship"]
	require.Len(t, ship.OneOf, 2)
	assert.Equal(t, "null", ship.OneOf[1].Type)
	assert.Contains(t, ship.OneOf[0].Properties, "geo")

	updated := s.Properties["updated"]
	assert.NotEmpty(t, updated.Description)
}

func TestJSONSchema_RecursiveAndStrict(t *testing.T) {
	e := newEngine()
	s, err := e.JSONSchema(reflect.TypeFor[Node]())
	require.NoError(t, err)
	assert.Equal(t, "#/$defs/docmap_test.Node", s.Ref)
	require.Contains(t, s.Defs, "docmap_test.Node")
	next := s.Defs["docmap_test.Node"].Properties["next"]
	assert.Equal(t, "#/$defs/docmap_test.Node", next.OneOf[0].Ref)

	raw, err := gojson.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"$defs"`)

	strict, err := e.JSONSchema(reflect.TypeFor[StrictPlain]())
	require.NoError(t, err)
	assert.Equal(t, false, strict.AdditionalProperties)

	_, err = e.JSONSchema(reflect.TypeFor[[4]byte]())
	assert.ErrorIs(t, err, docmap.ErrUnsupported)
	_, err = e.JSONSchema(reflect.TypeFor[SelfPtr]())
	assert.ErrorIs(t, err, docmap.ErrUnsupported)
}

func TestWireNames(t *testing.T) {
	assert.Equal(t, "customer", docmap.WireNameOf(func(o *Order) *string { return &o.Customer }))
	assert.Equal(t, "createdBy", docmap.WireNameOf(func(p *Post) *string { return &p.CreatedBy }))
	assert.Equal(t, "VALUE", docmap.WireNameOf(func(s *Shouty) *string { return &s.VALUE }))

	type Outer struct {
		Addr Address `docmap:"addr"`
	}
	p := docmap.WirePathOf(func(o *Outer) *string { return &o.Addr.Street })
	assert.Equal(t, []string{"addr", "street"}, p.Keys())
	assert.Equal(t, "addr.street", p.String())

	whole := docmap.WirePathOf(func(o *Outer) *Address { return &o.Addr })
	assert.Equal(t, []string{"addr"}, whole.Keys())

	e := newEngine()
	m, err := e.SerializeMap(Outer{Addr: Address{Street: "Elm"}})
	require.NoError(t, err)
	got, ok := p.Lookup(value.MapOf(m).Plain().(map[string]any))
	require.True(t, ok)
	assert.Equal(t, "Elm", got)

	assert.Panics(t, func() {
		docmap.WireNameOf(func(o *Order) *string { return new(string) })
	})
}
