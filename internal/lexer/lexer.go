// Package lexer turns raw source bytes into a token stream with spans.
// Next never returns a final value: past EOF it yields token.End forever,
// matching the parser's expectation of an infinite, pull-based producer.
package lexer

import (
	"github.com/funvibe/sel/internal/diag"
	"github.com/funvibe/sel/internal/token"
)

// Lexer lexes one source's bytes.
type Lexer struct {
	src    []byte
	pos    int
	source diag.SourceID
	lastAt int
}

// New returns a lexer over src, whose spans are reported against source.
func New(source diag.SourceID, src []byte) *Lexer {
	return &Lexer{src: src, source: source}
}

func (l *Lexer) peekAt(off int) (byte, bool) {
	i := l.pos + off
	if i < 0 || i >= len(l.src) {
		return 0, false
	}
	return l.src[i], true
}

func (l *Lexer) peek() (byte, bool) { return l.peekAt(0) }

func (l *Lexer) advance() (byte, bool) {
	c, ok := l.peek()
	if ok {
		l.pos++
	}
	return c, ok
}

func isAsciiWhitespace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlnum(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func loc(source diag.SourceID, start, end int) diag.Location {
	return diag.Location{Source: source, Start: start, End: end}
}

// Next returns the next token. Past end of input it always returns
// token.End with an empty span at the position of the last byte seen.
func (l *Lexer) Next() token.Token {
	for {
		at := l.pos
		c, ok := l.advance()
		if !ok {
			return token.Token{Loc: loc(l.source, l.lastAt, l.lastAt), Kind: token.End}
		}
		if isAsciiWhitespace(c) {
			continue
		}
		return l.lexOne(at, c)
	}
}

func (l *Lexer) lexOne(at int, c byte) token.Token {
	switch {
	case c == ':':
		return l.lexBytes(at)
	case c == ',':
		return l.emit(at, 1, token.Token{Kind: token.Comma})
	case c == '[':
		return l.emit(at, 1, token.Token{Kind: token.OpenBracket})
	case c == ']':
		return l.emit(at, 1, token.Token{Kind: token.CloseBracket})
	case c == '{':
		return l.emit(at, 1, token.Token{Kind: token.OpenBrace})
	case c == '}':
		return l.emit(at, 1, token.Token{Kind: token.CloseBrace})
	case c == '=':
		return l.emit(at, 1, token.Token{Kind: token.Equal})
	case c == '#':
		return l.lexComment()
	case c == '_':
		return l.emit(at, 1, token.Token{Kind: token.Word, Str: "_"})
	case isLower(c) || c == '-':
		return l.lexWord(at, c)
	case isDigit(c):
		return l.lexNumber(at, c)
	default:
		return l.lexUnknown(at, c)
	}
}

func (l *Lexer) emit(at, length int, t token.Token) token.Token {
	l.lastAt = at + length
	t.Loc = loc(l.source, at, at+length)
	return t
}

// lexBytes handles `:…:` literals. A doubled `::` inside encodes one
// literal `:`; a lone `:` terminates the literal.
func (l *Lexer) lexBytes(at int) token.Token {
	doubles := 2
	var b []byte
	for {
		c, ok := l.advance()
		if !ok {
			break
		}
		if c == ':' {
			if next, ok2 := l.peek(); ok2 && next == ':' {
				l.advance()
				doubles++
				b = append(b, ':')
				continue
			}
			break
		}
		b = append(b, c)
	}
	length := len(b) + doubles
	return l.emit(at, length, token.Token{Kind: token.Bytes, Byte: b})
}

func (l *Lexer) lexWord(at int, first byte) token.Token {
	b := []byte{first}
	for {
		c, ok := l.peek()
		if !ok || !(isLower(c) || c == '-') {
			break
		}
		l.advance()
		b = append(b, c)
	}
	s := string(b)
	switch s {
	case "def":
		return l.emit(at, len(b), token.Token{Kind: token.Def})
	case "let":
		return l.emit(at, len(b), token.Token{Kind: token.Let})
	case "use":
		return l.emit(at, len(b), token.Token{Kind: token.Use})
	default:
		return l.emit(at, len(b), token.Token{Kind: token.Word, Str: s})
	}
}

func digitsForPrefix(c, next byte) (shift int, digits string, hasPrefix bool) {
	if c != '0' {
		return 0, "0123456789", false
	}
	switch next {
	case 'b', 'B':
		return 1, "01", true
	case 'o', 'O':
		return 3, "01234567", true
	case 'x', 'X':
		return 4, "0123456789abcdef", true
	default:
		return 0, "0123456789", false
	}
}

func digitValue(digits string, c byte) (int, bool) {
	lowered := c | 32
	for i := 0; i < len(digits); i++ {
		if digits[i] == lowered {
			return i, true
		}
	}
	return 0, false
}

func (l *Lexer) lexNumber(at int, c byte) token.Token {
	r := 0
	length := 1

	peeked, hasPeek := l.peek()
	shift, digits, hasPrefix := digitsForPrefix(c, peeked)
	_ = hasPeek

	if !hasPrefix {
		r = int(c - '0')
	} else {
		length++
		l.advance() // consume prefix letter
	}

	for {
		pc, ok := l.peek()
		if !ok {
			break
		}
		k, ok2 := digitValue(digits, pc)
		if !ok2 {
			break
		}
		length++
		l.advance()
		if shift == 0 {
			r = r*10 + k
		} else {
			r = (r << shift) | k
		}
	}

	if shift == 0 {
		if dot, ok := l.peek(); ok && dot == '.' {
			length += 2
			l.advance() // consume '.'
			nc, ok2 := l.advance()
			if !ok2 || !isDigit(nc) {
				l.lastAt = at + length
				// r is an int here; render like the source's integer-then-dot
				return token.Token{
					Loc:  loc(l.source, at, at+length),
					Kind: token.Unknown,
					Str:  itoa(r) + ".",
				}
			}
			d := float64(nc - '0')
			w := 10.0
			for {
				pc, ok := l.peek()
				if !ok || !isDigit(pc) {
					break
				}
				length++
				l.advance()
				d = d*10 + float64(pc-'0')
				w *= 10
			}
			return l.emit(at, length, token.Token{Kind: token.Number, Num: float64(r) + d/w})
		}
	}

	return l.emit(at, length, token.Token{Kind: token.Number, Num: float64(r)})
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func (l *Lexer) lexUnknown(at int, c byte) token.Token {
	chclass := isAlnum(c)
	b := []byte{c}
	for {
		pc, ok := l.peek()
		if !ok || isAlnum(pc) != chclass || isAsciiWhitespace(pc) {
			break
		}
		l.advance()
		b = append(b, pc)
	}
	return l.emit(at, len(b), token.Token{Kind: token.Unknown, Str: string(b)})
}

// lexComment handles both `#` (line comment, skip to newline) and `#-`.
// A `#-` comment skips the next token, or the next balanced bracket/brace
// group, and then one comma if the token after it is a comma; it does not
// skip on to a later comma (see lexDashComment).
func (l *Lexer) lexComment() token.Token {
	if next, ok := l.peek(); ok && next == '-' {
		l.advance()
		return l.lexDashComment()
	}
	for {
		c, ok := l.advance()
		if !ok {
			break
		}
		if c == '\n' {
			break
		}
	}
	l.lastAt = l.pos
	return l.Next()
}

func (l *Lexer) lexDashComment() token.Token {
	var stack []byte
	for {
		t := l.Next()
		switch t.Kind {
		case token.OpenBracket:
			stack = append(stack, 'b')
		case token.CloseBracket:
			if n := len(stack); n > 0 && stack[n-1] == 'b' {
				stack = stack[:n-1]
			}
		case token.OpenBrace:
			stack = append(stack, 'B')
		case token.CloseBrace:
			if n := len(stack); n > 0 && stack[n-1] == 'B' {
				stack = stack[:n-1]
			}
		case token.End:
			stack = stack[:0]
		}
		if len(stack) == 0 {
			break
		}
	}
	n := l.Next()
	if n.Kind != token.Comma {
		return n
	}
	return l.Next()
}
