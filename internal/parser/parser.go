// Package parser builds the untyped syntax tree (internal/ast) from a
// token stream, per the grammar in ORIGINAL §4.4. It performs no type
// checking itself — that is internal/checker's job, invoked separately
// by the Module Registry once a whole file (and its uses/defs) is
// available. Splitting the two passes mirrors original_source/src/
// parse.rs and check.rs already being separate modules there.
package parser

import (
	"github.com/funvibe/sel/internal/ast"
	"github.com/funvibe/sel/internal/diag"
	"github.com/funvibe/sel/internal/lexer"
	"github.com/funvibe/sel/internal/pattern"
	"github.com/funvibe/sel/internal/token"
)

// Parser turns one source's token stream into an ast.Top.
type Parser struct {
	lex    *lexer.Lexer
	cur    token.Token
	Errors diag.List
}

// New returns a parser reading from src, reporting spans against source.
func New(source diag.SourceID, src []byte) *Parser {
	p := &Parser{lex: lexer.New(source, src)}
	p.cur = p.lex.Next()
	return p
}

func (p *Parser) advance() token.Token {
	t := p.cur
	p.cur = p.lex.Next()
	return t
}

func (p *Parser) expect(k token.Kind) (token.Token, bool) {
	if p.cur.Kind == k {
		return p.advance(), true
	}
	p.Errors.Push(diag.Error{Loc: p.cur.Loc, Kind: diag.KUnexpected, Token: p.cur.Kind, Expected: k.String()})
	return p.cur, false
}

func span(a, b diag.Location) diag.Location {
	return diag.Location{Source: a.Source, Start: a.Start, End: b.End}
}

func canStartValue(k token.Kind) bool {
	switch k {
	case token.Number, token.Bytes, token.Word, token.OpenBracket, token.OpenBrace:
		return true
	default:
		return false
	}
}

// ParseTop parses a whole file: {use}{def}[script].
func (p *Parser) ParseTop() *ast.Top {
	var top ast.Top

	for p.cur.Kind == token.Use {
		top.Uses = append(top.Uses, p.parseUse())
	}
	for p.cur.Kind == token.Def {
		top.Defs = append(top.Defs, p.parseDef())
	}
	if p.cur.Kind != token.End {
		s := p.parseScript()
		top.Script = &s
	}
	if p.cur.Kind == token.Def {
		p.Errors.Push(diag.Error{Loc: p.cur.Loc, Kind: diag.KUnexpectedDefInScript})
	}
	return &top
}

func (p *Parser) parseUse() ast.Use {
	useTok := p.advance()
	pathTok, _ := p.expect(token.Bytes)
	prefixTok, _ := p.expect(token.Word)
	return ast.Use{Loc: span(useTok.Loc, prefixTok.Loc), Path: pathTok.Byte, Prefix: prefixTok.Str}
}

func (p *Parser) parseDef() ast.Def {
	defTok := p.advance()
	nameTok, _ := p.expect(token.Word)
	descTok, _ := p.expect(token.Bytes)
	body := p.parseValue()
	return ast.Def{Loc: span(defTok.Loc, body.Loc), Name: nameTok.Str, Desc: descTok.Byte, Body: body}
}

// parseScript parses `apply {',' apply}`.
func (p *Parser) parseScript() ast.Script {
	head := p.parseApply()
	var tail []ast.ScriptStep
	for p.cur.Kind == token.Comma {
		comma := p.advance()
		tail = append(tail, ast.ScriptStep{LocComma: comma.Loc, Apply: p.parseApply()})
	}
	return ast.Script{Head: head, Tail: tail}
}

// parseApply parses `value {value}` or `'let' pattern value [value]`.
func (p *Parser) parseApply() ast.Apply {
	if p.cur.Kind == token.Let {
		letTok := p.advance()
		pat := p.parsePattern()
		result := p.parseValue()
		var alt *ast.Value
		if pat.IsRefutable() {
			if canStartValue(p.cur.Kind) {
				v := p.parseValue()
				alt = &v
			} else {
				p.Errors.Push(diag.WithContext(
					diag.Error{Loc: letTok.Loc, Kind: diag.KUnexpected, Token: p.cur.Kind, Expected: "a fallback value"},
					diag.Context{Kind: diag.CLetFallbackRequired},
				))
			}
		}
		return ast.Apply{BaseKind: ast.BaseBinding, BaseLoc: letTok.Loc, LocLet: letTok.Loc, Pat: pat, Result: &result, Alt: alt}
	}

	base := p.parseValue()
	var args []ast.Value
	for canStartValue(p.cur.Kind) {
		args = append(args, p.parseValue())
	}
	return ast.Apply{BaseKind: ast.BaseValue, BaseLoc: base.Loc, Value: base, Args: args}
}

// parseValue parses a primary value, folding any trailing `= value` pairs
// left-associatively.
func (p *Parser) parseValue() ast.Value {
	v := p.parsePrimaryValue()
	for p.cur.Kind == token.Equal {
		p.advance()
		rhs := p.parsePrimaryValue()
		fst, snd := v, rhs
		v = ast.Value{Loc: span(fst.Loc, snd.Loc), Kind: ast.VPair, Fst: &fst, Snd: &snd}
	}
	return v
}

func (p *Parser) parsePrimaryValue() ast.Value {
	switch p.cur.Kind {
	case token.Number:
		t := p.advance()
		return ast.Value{Loc: t.Loc, Kind: ast.VNumber, Num: t.Num}

	case token.Bytes:
		t := p.advance()
		return ast.Value{Loc: t.Loc, Kind: ast.VBytes, Bytes: t.Byte}

	case token.Word:
		t := p.advance()
		return ast.Value{Loc: t.Loc, Kind: ast.VWord, Word: t.Str}

	case token.OpenBracket:
		open := p.advance()
		s := p.parseScript()
		close, _ := p.expect(token.CloseBracket)
		return ast.Value{Loc: span(open.Loc, close.Loc), Kind: ast.VSubscr, Subscr: &s}

	case token.OpenBrace:
		open := p.advance()
		items, rest := p.parseList()
		close, _ := p.expect(token.CloseBrace)
		return ast.Value{Loc: span(open.Loc, close.Loc), Kind: ast.VList, Items: items, Rest: rest}

	default:
		t := p.advance()
		p.Errors.Push(diag.Error{Loc: t.Loc, Kind: diag.KUnexpected, Token: t.Kind, Expected: "a value"})
		return ast.Value{Loc: t.Loc, Kind: ast.VWord, Word: ""}
	}
}

// parseList parses `[apply{',' apply}[',,' apply]]`, stopping before the
// closing brace.
func (p *Parser) parseList() ([]ast.Apply, *ast.ListRest) {
	if p.cur.Kind == token.CloseBrace {
		return nil, nil
	}
	items := []ast.Apply{p.parseApply()}
	var rest *ast.ListRest
	for p.cur.Kind == token.Comma {
		p.advance()
		if p.cur.Kind == token.Comma {
			comma2 := p.advance()
			rest = &ast.ListRest{LocComma: comma2.Loc, Apply: p.parseApply()}
			break
		}
		items = append(items, p.parseApply())
	}
	return items, rest
}

// parsePattern parses a pattern, folding trailing `= pattern` pairs
// left-associatively.
func (p *Parser) parsePattern() pattern.Pattern {
	v := p.parsePrimaryPattern()
	for p.cur.Kind == token.Equal {
		p.advance()
		rhs := p.parsePrimaryPattern()
		fst, snd := v, rhs
		v = pattern.Pattern{Loc: span(fst.Loc, snd.Loc), Kind: pattern.KPair, Fst: &fst, Snd: &snd}
	}
	return v
}

func (p *Parser) parsePrimaryPattern() pattern.Pattern {
	switch p.cur.Kind {
	case token.Number:
		t := p.advance()
		return pattern.Pattern{Loc: t.Loc, Kind: pattern.KNumber, Num: t.Num}

	case token.Bytes:
		t := p.advance()
		return pattern.Pattern{Loc: t.Loc, Kind: pattern.KBytes, Bytes: t.Byte}

	case token.Word:
		t := p.advance()
		return pattern.Pattern{Loc: t.Loc, Kind: pattern.KName, Name: t.Str}

	case token.OpenBrace:
		open := p.advance()
		items, rest := p.parsePatternList()
		close, _ := p.expect(token.CloseBrace)
		return pattern.Pattern{Loc: span(open.Loc, close.Loc), Kind: pattern.KList, Items: items, Rest: rest}

	default:
		t := p.advance()
		p.Errors.Push(diag.Error{Loc: t.Loc, Kind: diag.KUnexpected, Token: t.Kind, Expected: "a pattern"})
		return pattern.Pattern{Loc: t.Loc, Kind: pattern.KName, Name: ""}
	}
}

func (p *Parser) parsePatternList() ([]pattern.Pattern, *pattern.RestName) {
	if p.cur.Kind == token.CloseBrace {
		return nil, nil
	}
	items := []pattern.Pattern{p.parsePrimaryPattern()}
	var rest *pattern.RestName
	for p.cur.Kind == token.Comma {
		p.advance()
		if p.cur.Kind == token.Comma {
			comma2 := p.advance()
			nameTok, _ := p.expect(token.Word)
			rest = &pattern.RestName{Loc: nameTok.Loc, LocComma: comma2.Loc, Name: nameTok.Str}
			break
		}
		items = append(items, p.parsePrimaryPattern())
	}
	return items, rest
}
