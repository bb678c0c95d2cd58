package value_test

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/docmap/value"
)

func TestZeroValueIsNull(t *testing.T) {
	var v value.Value
	assert.True(t, v.IsNull())
	assert.Equal(t, value.KindNull, v.Kind())
	assert.Nil(t, v.Plain())
}

func TestAccessorsMatchKind(t *testing.T) {
	i, ok := value.Integer(7).AsInteger()
	assert.True(t, ok)
	assert.Equal(t, int64(7), i)

	_, ok = value.Integer(7).AsDouble()
	assert.False(t, ok)

	// decimal and string share a representation but not a kind
	_, ok = value.Decimal("1.5").AsString()
	assert.False(t, ok)
	d, ok := value.Decimal("1.5").AsDecimal()
	assert.True(t, ok)
	assert.Equal(t, "1.5", d)
}

func TestMap_PreservesInsertionOrder(t *testing.T) {
	m := value.NewMap().
		Set("b", value.Integer(1)).
		Set("a", value.Integer(2)).
		Set("c", value.Integer(3))
	m.Set("b", value.Integer(10))
	assert.Equal(t, []string{"b", "a", "c"}, m.Keys())

	m.Delete("a")
	assert.Equal(t, []string{"b", "c"}, m.Keys())
	got, ok := m.Get("c")
	require.True(t, ok)
	assert.Equal(t, value.Integer(3), got)

	var seen []string
	for k := range m.All() {
		seen = append(seen, k)
	}
	assert.Equal(t, []string{"b", "c"}, seen)
}

func TestMap_NilIsEmpty(t *testing.T) {
	var m *value.Map
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.Keys())
	_, ok := m.Get("a")
	assert.False(t, ok)
	assert.NotPanics(t, func() { m.Delete("a") })
}

func TestBytesAreCopied(t *testing.T) {
	raw := []byte("abc")
	v := value.Bytes(raw)
	raw[0] = 'z'
	b, _ := v.AsBytes()
	assert.Equal(t, "abc", string(b))
}

func TestReference(t *testing.T) {
	r, err := value.NewReference("/rooms/eros/messages/m1")
	require.NoError(t, err)
	assert.Equal(t, "rooms/eros/messages/m1", r.Path())
	assert.Equal(t, "m1", r.ID())
	assert.Equal(t, "rooms/eros/messages", r.Parent())

	_, err = value.NewReference("rooms")
	assert.Error(t, err)
	_, err = value.NewReference("rooms//x")
	assert.Error(t, err)

	auto, err := value.NewDocumentIn("users")
	require.NoError(t, err)
	assert.Equal(t, "users", auto.Parent())
	assert.Len(t, auto.ID(), 32)
	assert.NotContains(t, auto.ID(), "-")
}

func TestEqual(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := value.MapOf(value.NewMap().
		Set("x", value.Array(value.Double(math.NaN()), value.Timestamp(ts))).
		Set("y", value.Bytes([]byte{1, 2})))
	b := value.MapOf(value.NewMap().
		Set("y", value.Bytes([]byte{1, 2})).
		Set("x", value.Array(value.Double(math.NaN()), value.Timestamp(ts.In(time.FixedZone("JST", 9*3600))))))
	assert.True(t, value.Equal(a, b))

	assert.False(t, value.Equal(value.Integer(1), value.Double(1)))
	assert.False(t, value.Equal(value.Array(value.Null()), value.Array()))
	assert.True(t, value.Equal(value.ServerTimestamp(), value.ServerTimestamp()))
}

func TestPlain(t *testing.T) {
	v := value.MapOf(value.NewMap().
		Set("n", value.Integer(1)).
		Set("list", value.Array(value.String("a"), value.Null())).
		Set("dec", value.Decimal("2.50")))
	assert.Equal(t, map[string]any{
		"n":    int64(1),
		"list": []any{"a", nil},
		"dec":  "2.50",
	}, v.Plain())
}

func TestMarshalJSON_KeepsOrder(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	v := value.MapOf(value.NewMap().
		Set("z", value.Integer(1)).
		Set("a", value.Array(value.Bool(true), value.Null())).
		Set("when", value.Timestamp(ts)).
		Set("where", value.Geo(1.5, -2)).
		Set("ref", value.Ref(value.MustReference("users/u1"))).
		Set("dec", value.Decimal("10.25")).
		Set("blob", value.Bytes([]byte("hi"))).
		Set("vec", value.VectorOf(0.5, 1)).
		Set("nan", value.Double(math.NaN())).
		Set("stamp", value.ServerTimestamp()))
	b, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		`{"z":1`,
		`"a":[true,null]`,
		`"when":"2024-05-01T12:00:00Z"`,
		`"where":{"latitude":1.5,"longitude":-2}`,
		`"ref":"users/u1"`,
		`"dec":10.25`,
		`"blob":"aGk="`,
		`"vec":[0.5,1]`,
		`"nan":"NaN"`,
		`"stamp":"REQUEST_TIME"}`,
	}, ","), string(b))
}

func TestWalk(t *testing.T) {
	doc := value.MapOf(value.NewMap().
		Set("items", value.Array(
			value.MapOf(value.NewMap().Set("name", value.String("a"))),
			value.Integer(2))).
		Set("skip", value.MapOf(value.NewMap().Set("hidden", value.Null()))))

	var paths []string
	err := value.Walk(doc, func(path string, v value.Value) error {
		if path == "skip" {
			return value.SkipChildren
		}
		paths = append(paths, path+"="+v.Kind().String())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"=map",
		"items=array",
		"items[0]=map",
		"items[0].name=string",
		"items[1]=integer",
	}, paths)
}
