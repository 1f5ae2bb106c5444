package checker

import (
	"testing"

	"github.com/funvibe/sel/internal/ast"
	"github.com/funvibe/sel/internal/diag"
	"github.com/funvibe/sel/internal/pattern"
	"github.com/funvibe/sel/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func word(w string) ast.Value     { return ast.Value{Kind: ast.VWord, Word: w} }
func number(n float64) ast.Value  { return ast.Value{Kind: ast.VNumber, Num: n} }
func bytesVal(s string) ast.Value { return ast.Value{Kind: ast.VBytes, Bytes: []byte(s)} }

func apply(base ast.Value, args ...ast.Value) ast.Apply {
	return ast.Apply{BaseKind: ast.BaseValue, Value: base, Args: args}
}

func TestAddOneTwoIsNumber(t *testing.T) {
	l := types.NewList()
	c := New(l, nil)

	a := apply(word("add"), number(1), number(2))
	tree := c.CheckApply(&a)

	require.True(t, c.Errors.Empty())
	assert.Equal(t, types.KNumber, l.Kind(tree.Ty))
}

func TestUnknownNameRecordsErrorAndSharesSlot(t *testing.T) {
	l := types.NewList()
	c := New(l, nil)

	a1 := apply(word("mystery"))
	a2 := apply(word("mystery"))
	t1 := c.CheckApply(&a1)
	t2 := c.CheckApply(&a2)

	require.False(t, c.Errors.Empty())
	assert.Equal(t, t1.Ty, t2.Ty)
	for _, e := range c.Errors.All() {
		assert.Equal(t, diag.KUnknownName, e.Kind)
	}
}

func TestLetRefutableWithoutFallbackStillTypes(t *testing.T) {
	l := types.NewList()
	c := New(l, nil)

	a := ast.Apply{
		BaseKind: ast.BaseBinding,
		Pat:      pattern.Pattern{Kind: pattern.KNumber, Num: 0},
		Result:   &ast.Value{Kind: ast.VNumber, Num: 9},
	}
	tree := c.CheckApply(&a)
	assert.Equal(t, types.KFunc, l.Kind(tree.Ty))
}

func TestNotFuncApplication(t *testing.T) {
	l := types.NewList()
	c := New(l, nil)

	a := apply(number(1), number(2))
	c.CheckApply(&a)

	require.False(t, c.Errors.Empty())
	assert.Equal(t, diag.KNotFunc, c.Errors.All()[0].Kind)
}

func TestAddCoercesBytesArgumentViaTonum(t *testing.T) {
	l := types.NewList()
	c := New(l, nil)

	a := apply(word("add"), number(1), bytesVal("2"))
	tree := c.CheckApply(&a)

	require.True(t, c.Errors.Empty())
	assert.Equal(t, types.KNumber, l.Kind(tree.Ty))
}

func TestPairValueTypesAsPairNotFunc(t *testing.T) {
	l := types.NewList()
	c := New(l, nil)

	v := ast.Value{Kind: ast.VPair, Fst: &ast.Value{Kind: ast.VNumber, Num: 1}, Snd: &ast.Value{Kind: ast.VBytes, Bytes: []byte("x")}}
	tree := c.CheckValue(&v)

	require.True(t, c.Errors.Empty())
	require.Equal(t, types.KPair, l.Kind(tree.Ty))
	fst, snd := l.DecomposePair(tree.Ty)
	assert.Equal(t, types.KNumber, l.Kind(fst))
	assert.Equal(t, types.KBytes, l.Kind(snd))
}

func TestPairValueIsNotApplicable(t *testing.T) {
	l := types.NewList()
	c := New(l, nil)

	pairVal := ast.Value{Kind: ast.VPair, Fst: &ast.Value{Kind: ast.VNumber, Num: 1}, Snd: &ast.Value{Kind: ast.VNumber, Num: 2}}
	a := apply(pairVal, number(3))
	c.CheckApply(&a)

	require.False(t, c.Errors.Empty())
	assert.Equal(t, diag.KNotFunc, c.Errors.All()[0].Kind)
}

func TestFundamentalIsNeverShadowedByABinding(t *testing.T) {
	l := types.NewList()
	c := New(l, nil)

	// A pattern binding named "add" must not shadow the fundamental: a
	// reference to "add" inside its own result still resolves as the
	// fundamental, per the fixed fundamentals-before-bindings lookup order.
	a := ast.Apply{
		BaseKind: ast.BaseBinding,
		Pat:      pattern.Pattern{Kind: pattern.KName, Name: "add"},
		Result:   &ast.Value{Kind: ast.VWord, Word: "add"},
	}
	tree := c.CheckApply(&a)

	require.True(t, c.Errors.Empty())
	require.Equal(t, types.KFunc, l.Kind(tree.Ty))
	resultTy := tree.Result.Ty
	require.Equal(t, types.KFunc, l.Kind(resultTy))
	par, _ := l.Decompose(resultTy)
	assert.Equal(t, types.KNumber, l.Kind(par))
}

func TestDuplicatePatternNameReportsDeclaredHere(t *testing.T) {
	l := types.NewList()
	c := New(l, nil)

	pat := pattern.Pattern{
		Kind: pattern.KList,
		Items: []pattern.Pattern{
			{Kind: pattern.KName, Name: "x", Loc: diag.Location{Start: 1}},
			{Kind: pattern.KName, Name: "x", Loc: diag.Location{Start: 5}},
		},
	}
	a := ast.Apply{BaseKind: ast.BaseBinding, Pat: pat, Result: &ast.Value{Kind: ast.VNumber, Num: 1}}
	c.CheckApply(&a)

	require.False(t, c.Errors.Empty())
	found := c.Errors.All()[0]
	require.Equal(t, diag.KContextCaused, found.Kind)
	assert.Equal(t, diag.CDeclaredHere, found.Because.Kind)
	assert.Equal(t, diag.KNameAlreadyDeclared, found.Wrapped.Kind)
}

func TestTooManyArgsOnSaturatedWord(t *testing.T) {
	l := types.NewList()
	c := New(l, nil)

	a := apply(word("add"), number(1), number(2), number(3))
	c.CheckApply(&a)

	require.False(t, c.Errors.Empty())
	last := c.Errors.All()[len(c.Errors.All())-1]
	require.Equal(t, diag.KTooManyArgs, last.Kind)
	assert.Equal(t, "add", last.FuncName)
}

func TestMismatchedArgumentReportsAsNthArgTo(t *testing.T) {
	l := types.NewList()
	c := New(l, nil)

	list := ast.Value{Kind: ast.VList, Items: []ast.Apply{apply(number(1))}}
	a := apply(word("add"), list)
	c.CheckApply(&a)

	require.False(t, c.Errors.Empty())
	found := c.Errors.All()[0]
	require.Equal(t, diag.KContextCaused, found.Kind)
	assert.Equal(t, diag.CAsNthArgTo, found.Because.Kind)
	assert.Equal(t, "add", found.Because.FuncName)
	assert.Equal(t, 1, found.Because.NthArg)
}

func TestPipeComposesLeftToRight(t *testing.T) {
	l := types.NewList()
	c := New(l, nil)

	script := &ast.Script{
		Head: apply(word("tonum")),
		Tail: []ast.ScriptStep{
			{Apply: apply(word("add"), number(1))},
			{Apply: apply(word("tostr"))},
		},
	}
	tree := c.CheckScript(script)
	assert.Equal(t, types.KFunc, l.Kind(tree.Ty))
}
