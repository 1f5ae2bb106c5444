package parser

import (
	"testing"

	"github.com/funvibe/sel/internal/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleApply(t *testing.T) {
	p := New(0, []byte("add 1 2"))
	top := p.ParseTop()

	require.True(t, p.Errors.Empty())
	require.NotNil(t, top.Script)
	assert.Equal(t, "add", top.Script.Head.Value.Word)
	require.Len(t, top.Script.Head.Args, 2)
	assert.Equal(t, float64(1), top.Script.Head.Args[0].Num)
	assert.Equal(t, float64(2), top.Script.Head.Args[1].Num)
}

func TestParseScriptChain(t *testing.T) {
	p := New(0, []byte("tonum, add 1, tostr"))
	top := p.ParseTop()

	require.True(t, p.Errors.Empty())
	require.NotNil(t, top.Script)
	assert.Len(t, top.Script.Tail, 2)
}

func TestParseUseAndDef(t *testing.T) {
	p := New(0, []byte(`use :path: pfx def foo :desc: 1`))
	top := p.ParseTop()

	require.True(t, p.Errors.Empty())
	require.Len(t, top.Uses, 1)
	assert.Equal(t, "pfx", top.Uses[0].Prefix)
	assert.Equal(t, "path", string(top.Uses[0].Path))
	require.Len(t, top.Defs, 1)
	assert.Equal(t, "foo", top.Defs[0].Name)
}

func TestParseListLiteralWithRest(t *testing.T) {
	p := New(0, []byte("{1, 2, 3,, t}"))
	top := p.ParseTop()

	require.True(t, p.Errors.Empty())
	v := top.Script.Head.Value
	require.Equal(t, ast.VList, v.Kind)
	assert.Len(t, v.Items, 3)
	require.NotNil(t, v.Rest)
}

func TestParseLetBindingIrrefutable(t *testing.T) {
	p := New(0, []byte("let x x"))
	top := p.ParseTop()

	require.True(t, p.Errors.Empty())
	a := top.Script.Head
	assert.Equal(t, ast.BaseBinding, a.BaseKind)
	assert.Nil(t, a.Alt)
}

func TestParseLetBindingRefutableRequiresFallback(t *testing.T) {
	p := New(0, []byte("let 1 2 3"))
	top := p.ParseTop()

	require.True(t, p.Errors.Empty())
	a := top.Script.Head
	require.NotNil(t, a.Alt)
	assert.Equal(t, float64(3), a.Alt.Num)
}

func TestParsePairValue(t *testing.T) {
	p := New(0, []byte("1=2"))
	top := p.ParseTop()

	require.True(t, p.Errors.Empty())
	v := top.Script.Head.Value
	assert.Equal(t, ast.VPair, v.Kind)
}
