package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeclareDoesNotOverwrite(t *testing.T) {
	s := New(nil)
	_, fresh := s.Declare("x", Item{Kind: ItemBinding})
	require.True(t, fresh)

	old, fresh := s.Declare("x", Item{Kind: ItemDefined})
	require.False(t, fresh)
	assert.Equal(t, ItemBinding, old.Kind)
}

func TestLookupWalksParent(t *testing.T) {
	parent := New(nil)
	parent.Declare("outer", Item{Kind: ItemBinding})
	child := New(parent)
	child.Declare("inner", Item{Kind: ItemBinding})

	_, ok := child.Lookup("outer")
	assert.True(t, ok)
	_, ok = parent.Lookup("inner")
	assert.False(t, ok)
}

func TestGlobal(t *testing.T) {
	top := New(nil)
	mid := New(top)
	leaf := New(mid)
	assert.Same(t, top, leaf.Global())
}
