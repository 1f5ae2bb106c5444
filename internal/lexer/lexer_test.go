package lexer

import (
	"testing"

	"github.com/funvibe/sel/internal/token"
	"github.com/stretchr/testify/assert"
)

func kinds(src string) []token.Kind {
	l := New(0, []byte(src))
	var ks []token.Kind
	for {
		t := l.Next()
		ks = append(ks, t.Kind)
		if t.Kind == token.End {
			break
		}
		if len(ks) > 200 {
			break
		}
	}
	return ks
}

func TestEmptyYieldsEnd(t *testing.T) {
	assert.Equal(t, []token.Kind{token.End}, kinds(""))
}

func TestEndRepeatsForever(t *testing.T) {
	l := New(0, []byte("1"))
	assert.Equal(t, token.Number, l.Next().Kind)
	assert.Equal(t, token.End, l.Next().Kind)
	assert.Equal(t, token.End, l.Next().Kind)
	assert.Equal(t, token.End, l.Next().Kind)
}

func TestWord(t *testing.T) {
	assert.Equal(t, []token.Kind{token.Word, token.End}, kinds("coucou"))
}

func TestReservedWords(t *testing.T) {
	l := New(0, []byte("def let use x"))
	assert.Equal(t, token.Def, l.Next().Kind)
	assert.Equal(t, token.Let, l.Next().Kind)
	assert.Equal(t, token.Use, l.Next().Kind)
	w := l.Next()
	assert.Equal(t, token.Word, w.Kind)
	assert.Equal(t, "x", w.Str)
}

func TestBytesLiteralEscaping(t *testing.T) {
	l := New(0, []byte(":hay: :hey:: not hay: :: :::: fin"))
	tok := l.Next()
	assert.Equal(t, token.Bytes, tok.Kind)
	assert.Equal(t, "hay", string(tok.Byte))

	tok = l.Next()
	assert.Equal(t, token.Bytes, tok.Kind)
	assert.Equal(t, "hey: not hay", string(tok.Byte))

	tok = l.Next()
	assert.Equal(t, token.Bytes, tok.Kind)
	assert.Equal(t, "", string(tok.Byte))

	tok = l.Next()
	assert.Equal(t, token.Bytes, tok.Kind)
	assert.Equal(t, ":", string(tok.Byte))

	tok = l.Next()
	assert.Equal(t, token.Word, tok.Kind)
	assert.Equal(t, "fin", tok.Str)
}

func TestNumberBases(t *testing.T) {
	l := New(0, []byte("42 0x2a 0b101010 0o52"))
	for i := 0; i < 4; i++ {
		tok := l.Next()
		assert.Equal(t, token.Number, tok.Kind)
		assert.Equal(t, float64(42), tok.Num)
	}
}

func TestNumberFraction(t *testing.T) {
	tok := New(0, []byte("0.5")).Next()
	assert.Equal(t, token.Number, tok.Kind)
	assert.InDelta(t, 0.5, tok.Num, 1e-9)
}

func TestTrailingDotIsUnknown(t *testing.T) {
	tok := New(0, []byte("1. ")).Next()
	assert.Equal(t, token.Unknown, tok.Kind)
	assert.Equal(t, "1.", tok.Str)
}

func TestLineComment(t *testing.T) {
	assert.Equal(t, []token.Kind{token.Word, token.End}, kinds("normal\n# comment\n"))
}

func TestDashCommentNestingNotTerminatedByComma(t *testing.T) {
	// the dash comment consumes "[ba ba ba]" (balanced), then peeks one more
	// token looking for a terminating comma; "b" isn't one, so "b" itself
	// becomes the real next token and ", c" is left for later.
	l := New(0, []byte("a #- [ba ba ba] b, c"))
	assert.Equal(t, token.Word, l.Next().Kind) // a
	tok := l.Next()
	assert.Equal(t, token.Word, tok.Kind)
	assert.Equal(t, "b", tok.Str)
	assert.Equal(t, token.Comma, l.Next().Kind)
	tok = l.Next()
	assert.Equal(t, "c", tok.Str)
}

func TestDashCommentTerminatingCommaIsSwallowed(t *testing.T) {
	l := New(0, []byte("{heyo, #-baba, owieur} # trailing"))
	assert.Equal(t, token.OpenBrace, l.Next().Kind)
	assert.Equal(t, token.Word, l.Next().Kind) // heyo
	assert.Equal(t, token.Comma, l.Next().Kind)
	// dash comment consumes "baba", then swallows the following comma too,
	// so the next real token is "owieur".
	tok := l.Next()
	assert.Equal(t, token.Word, tok.Kind)
	assert.Equal(t, "owieur", tok.Str)
	assert.Equal(t, token.CloseBrace, l.Next().Kind)
	assert.Equal(t, token.End, l.Next().Kind)
}

func TestDashCommentNotTerminatedByCloseBrace(t *testing.T) {
	l := New(0, []byte("{heyo, baba, #-owieur} # trailing"))
	assert.Equal(t, token.OpenBrace, l.Next().Kind)
	assert.Equal(t, token.Word, l.Next().Kind) // heyo
	assert.Equal(t, token.Comma, l.Next().Kind)
	assert.Equal(t, token.Word, l.Next().Kind) // baba
	assert.Equal(t, token.Comma, l.Next().Kind)
	// the dash comment consumes "owieur"; the next token is CloseBrace,
	// which is not a comma, so it is returned as-is (the '}' isn't commented).
	assert.Equal(t, token.CloseBrace, l.Next().Kind)
	assert.Equal(t, token.End, l.Next().Kind)
}
