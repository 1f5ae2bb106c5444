// Package ast is the untyped syntax tree produced by the parser: Value,
// Apply, and Script nodes mirroring the grammar in ORIGINAL §4.4. The
// checker walks this tree to produce a typed Tree (see internal/checker).
package ast

import (
	"github.com/funvibe/sel/internal/diag"
	"github.com/funvibe/sel/internal/pattern"
)

// ValueKind discriminates a Value node.
type ValueKind int

const (
	VNumber ValueKind = iota
	VBytes
	VWord
	VSubscr
	VList
	VPair
)

// Value is one node of the value grammar.
type Value struct {
	Loc  diag.Location
	Kind ValueKind

	Num   float64 // VNumber
	Bytes []byte  // VBytes
	Word  string  // VWord

	Subscr *Script // VSubscr

	Items []Apply    // VList
	Rest  *ListRest  // VList, nil means finite

	Fst, Snd *Value // VPair
}

// ListRest is the `,, apply` tail of a list literal.
type ListRest struct {
	LocComma diag.Location
	Apply    Apply
}

// BaseKind discriminates an Apply's base.
type BaseKind int

const (
	BaseValue BaseKind = iota
	BaseBinding
)

// Apply is `value {value}` or `let pattern value [value]`, with args
// accumulating curried arguments.
type Apply struct {
	BaseKind BaseKind
	BaseLoc  diag.Location

	Value Value // BaseValue

	// BaseBinding
	LocLet  diag.Location
	Pat     pattern.Pattern
	Result  *Value
	Alt     *Value // nil unless the pattern is refutable

	Args []Value
}

func (a Apply) Loc() diag.Location {
	if len(a.Args) == 0 {
		return a.BaseLoc
	}
	last := a.Args[len(a.Args)-1]
	return diag.Location{Source: a.BaseLoc.Source, Start: a.BaseLoc.Start, End: last.Loc.End}
}

// Script is a comma-separated chain of Apply steps.
type Script struct {
	Head Apply
	Tail []ScriptStep
}

// ScriptStep is one `, apply` continuation.
type ScriptStep struct {
	LocComma diag.Location
	Apply    Apply
}

// Use is a top-level `use "path" name` declaration.
type Use struct {
	Loc    diag.Location
	Path   []byte
	Prefix string // "_" means no prefix
}

// Def is a top-level `def name "desc" value` declaration.
type Def struct {
	Loc  diag.Location
	Name string
	Desc []byte
	Body Value
}

// Top is a full parsed file: uses, defs, and an optional trailing script.
type Top struct {
	Uses   []Use
	Defs   []Def
	Script *Script
}
