// Package scope implements the lexically nested name table: a child
// scope points at its parent, and lookup walks outward. Entries
// distinguish fundamentals, user definitions, and let-bindings.
package scope

import (
	"github.com/funvibe/sel/internal/diag"
	"github.com/funvibe/sel/internal/fund"
	"github.com/funvibe/sel/internal/types"
)

// ItemKind discriminates a ScopeItem.
type ItemKind int

const (
	ItemFundamental ItemKind = iota
	ItemDefined
	ItemBinding
)

// Item is one scope entry. Defined carries a TypeRef into the owning
// module's arena rather than a tree, so the scope package does not need
// to know about the checker's Tree representation.
type Item struct {
	Kind ItemKind

	Fund Name // ItemFundamental
	Desc string

	DefinedTy  types.TypeRef // ItemDefined
	DefinedLoc diag.Location

	BindingLoc diag.Location // ItemBinding
	BindingTy  types.TypeRef
}

// Name is a re-export so callers don't need to import fund directly just
// to name a fundamental.
type Name = fund.Name

// MakeType returns the TypeRef a lookup of this item hands out: a new
// schema instance for a fundamental, a duplicate of a def's type, or the
// binding's own type. Bindings are monomorphic (ORIGINAL §9
// "refutability vs generalization"), so every use of a binding shares
// one ref and unifies with the same slot.
func (it Item) MakeType(l *types.List) types.TypeRef {
	switch it.Kind {
	case ItemFundamental:
		return it.Fund.MakeType(l)
	case ItemDefined:
		return l.Duplicate(it.DefinedTy, map[types.TypeRef]types.TypeRef{})
	case ItemBinding:
		return it.BindingTy
	default:
		panic("scope: unknown ItemKind")
	}
}

// Scope is a lexically nested name table.
type Scope struct {
	parent *Scope
	names  map[string]Item
}

// New returns a child scope of parent (nil for the top-level scope).
func New(parent *Scope) *Scope {
	return &Scope{parent: parent, names: make(map[string]Item)}
}

// Declare inserts name if absent. If name is already present, Declare
// does not overwrite it and returns the existing item plus false — the
// caller uses this to report NameAlreadyDeclared.
func (s *Scope) Declare(name string, item Item) (Item, bool) {
	if old, ok := s.names[name]; ok {
		return old, false
	}
	s.names[name] = item
	return item, true
}

// Lookup walks from s outward through parents.
func (s *Scope) Lookup(name string) (Item, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if it, ok := cur.names[name]; ok {
			return it, true
		}
	}
	return Item{}, false
}

// Global returns the parent-most enclosing scope.
func (s *Scope) Global() *Scope {
	cur := s
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// Names returns this scope's own names (not ancestors'), for
// "available names" diagnostic hints.
func (s *Scope) Names() []string {
	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	return out
}

// AllNames returns every name visible from s: its own plus every
// ancestor's, for "available names" diagnostic hints.
func (s *Scope) AllNames() []string {
	var out []string
	for cur := s; cur != nil; cur = cur.parent {
		out = append(out, cur.Names()...)
	}
	return out
}
