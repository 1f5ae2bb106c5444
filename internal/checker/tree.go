// Package checker implements the standalone type checker (ORIGINAL
// §4.5): a reusable walker over the untyped parse tree (internal/ast),
// used by the Module Registry to check a top-level def lazily and to
// check a module's trailing script. The parser itself does no typing.
package checker

import (
	"github.com/funvibe/sel/internal/diag"
	"github.com/funvibe/sel/internal/fund"
	"github.com/funvibe/sel/internal/pattern"
	"github.com/funvibe/sel/internal/types"
)

// TreeKind discriminates a Tree node's payload.
type TreeKind int

const (
	TNumber TreeKind = iota
	TBytes
	TWord
	TList
	TPair
	TApply
	TBinding
)

// RefersKind discriminates what a Word/Binding Tree node resolved to.
type RefersKind int

const (
	RFundamental RefersKind = iota
	RBinding
	RDefined
	RFile
	RMissing
)

// Refers records how a name resolved, per ORIGINAL §4.5's lookup order.
type Refers struct {
	Kind       RefersKind
	Fund       fund.Name    // RFundamental
	BindingLoc diag.Location // RBinding
	ModulePath string        // RFile
}

// Tree is a typed node: (loc is carried by the caller via Apply folding;
// the root's Loc is tracked separately where needed).
type Tree struct {
	Ty  types.TypeRef
	Kind TreeKind

	Num   float64 // TNumber
	Bytes []byte  // TBytes

	Word   string // TWord
	Refers Refers // TWord

	Items []Tree // TList (empty slice denotes nil/empty list)

	Fst, Snd *Tree // TPair

	// TApply
	Base *Tree
	Args []Tree

	// TBinding
	Pat      pattern.Pattern
	Result   *Tree
	Fallback *Tree // nil when the binding has no fallback value
}
