package fund

import (
	"testing"

	"github.com/funvibe/sel/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryFromName(t *testing.T) {
	n, ok := TryFromName("add")
	require.True(t, ok)
	assert.Equal(t, Add, n)

	_, ok = TryFromName("nope")
	assert.False(t, ok)
}

func TestAddType(t *testing.T) {
	l := types.NewList()
	ty := Add.MakeType(l)
	assert.Equal(t, "Num -> Num -> Num", l.Frozen(ty).String())
}

func TestSnocType(t *testing.T) {
	l := types.NewList()
	ty := Snoc.MakeType(l)
	frozen := l.Frozen(ty)
	require.True(t, frozen.IsFunc())
	// the boundedness variable starts infinite until a call site narrows it
	assert.Equal(t, "[a]+ -> a -> [a]+", frozen.String())
}

func TestIndependentInstancesDoNotAlias(t *testing.T) {
	l := types.NewList()
	ty1 := Add.MakeType(l)
	ty2 := Add.MakeType(l)
	assert.NotEqual(t, ty1, ty2)
}
