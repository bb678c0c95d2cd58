package docmap

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type regSample struct {
	Name string `docmap:"name"`
}

func TestLookup_DropsMapperBuiltBeforeRegister(t *testing.T) {
	r := NewRegistry(nil)
	typ := reflect.TypeFor[regSample]()
	stale, err := r.buildMapper(typ)
	require.NoError(t, err)
	assert.Equal(t, UnknownWarn, stale.Policy())

	require.NoError(t, Register[regSample](r, IgnoreUnknown()))
	// a build that started before Register publishes after it
	r.mappers.Store(typ, stale)

	m, err := r.Lookup(typ)
	require.NoError(t, err)
	assert.NotSame(t, stale, m)
	assert.Equal(t, UnknownIgnore, m.Policy())

	again, err := r.Lookup(typ)
	require.NoError(t, err)
	assert.Same(t, m, again)
}
