package modules

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memLoader map[string][]byte

func (m memLoader) Load(path string) ([]byte, error) {
	b, ok := m[path]
	if !ok {
		return nil, errors.New("no such module: " + path)
	}
	return b, nil
}

func TestLoadAndCheckSameFileDef(t *testing.T) {
	r := NewRegistry(memLoader{
		"main.sel": []byte(`def one :n: 1 add one one`),
	})
	m, err := r.Load("main.sel")
	require.NoError(t, err)

	c, _, ok := r.CheckScript(m)
	require.True(t, ok)
	require.True(t, c.Errors.Empty())
}

func TestUsePrefixResolvesAcrossModules(t *testing.T) {
	r := NewRegistry(memLoader{
		"main.sel": []byte(`use :lib.sel: l l-one`),
		"lib.sel":  []byte(`def one :n: 1`),
	})
	m, err := r.Load("main.sel")
	require.NoError(t, err)

	c, _, ok := r.CheckScript(m)
	require.True(t, ok)
	assert.True(t, c.Errors.Empty())
}

func TestCircularUseIsDetected(t *testing.T) {
	r := NewRegistry(memLoader{
		"a.sel": []byte(`use :b.sel: b def one :n: b-one 1`),
		"b.sel": []byte(`use :a.sel: a def one :n: a-one 1`),
	})
	m, err := r.Load("a.sel")
	require.NoError(t, err)

	_, ok := m.RetrieveFunction("one")
	require.True(t, ok)
	require.False(t, m.CheckErrors.Empty())
}

func TestLoadInlineScript(t *testing.T) {
	r := NewRegistry(nil)
	m := r.LoadInline([]byte("add 1 2"))
	c, _, ok := r.CheckScript(m)
	require.True(t, ok)
	assert.True(t, c.Errors.Empty())
}
