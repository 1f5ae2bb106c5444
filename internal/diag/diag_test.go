package diag

import (
	"bytes"
	"testing"

	"github.com/funvibe/sel/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourcesLineCol(t *testing.T) {
	s := NewSources()
	id := s.AddBytes("<test>", []byte("add 1 2\nfoo bar\n"))
	line, col := s.LineCol(id, 0)
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)

	line, col = s.LineCol(id, 8)
	assert.Equal(t, 2, line)
	assert.Equal(t, 1, col)

	assert.Equal(t, "add 1 2", string(s.Line(id, 1)))
	assert.Equal(t, "foo bar", string(s.Line(id, 2)))
}

func TestErrorTitleAndPlain(t *testing.T) {
	e := Error{Kind: KNotFunc, ActualTy: types.Number()}
	assert.Equal(t, "Expected a function type, but got Num", e.Title())

	wrapped := WithContext(e, Context{Kind: CChainedFromToNotFunc})
	assert.Contains(t, wrapped.Plain(), "Expected a function type")
	assert.Contains(t, wrapped.Plain(), "because of chaining")
}

func TestReporterRendersSingleLineSpan(t *testing.T) {
	s := NewSources()
	id := s.AddBytes("<test>", []byte("add 1 :2:\n"))
	e := Error{Loc: Location{Source: id, Start: 0, End: 3}, Kind: KNotFunc, ActualTy: types.Number()}

	var buf bytes.Buffer
	r := &Reporter{Sources: s, Color: false}
	r.Render(&buf, e)

	out := buf.String()
	require.Contains(t, out, "<test>:1:")
	require.Contains(t, out, "add 1 :2:")
	require.Contains(t, out, "^")
}

func TestPlaceholderResolve(t *testing.T) {
	l := types.NewList()
	ref := l.Named("a")
	ph := Placeholder(ref)
	require.True(t, ph.IsPlaceholder())

	require.Nil(t, l.Concretize(ref, l.Number()))
	resolved := ph.Resolve(l)
	assert.False(t, resolved.IsPlaceholder())
	assert.Equal(t, types.Number(), resolved.Frozen())
}
