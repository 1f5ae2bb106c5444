// Package types implements the type store: an arena of type nodes
// referenced by integer TypeRef, mutated in place during unification.
// The arena discipline makes the store occurs-check-free by
// construction — a Named slot is rewritten to another variant exactly
// once, and rewrites never introduce a cycle reachable from the root.
package types

import "fmt"

// TypeRef is a stable index into a TypeList arena.
type TypeRef int

// Boundedness is a TypeRef into a boundedness sub-lattice (Finite /
// FiniteBoth / FiniteEither); it only ever points at other boundedness
// nodes.
type Boundedness = TypeRef

// Reserved arena slots, matching the store's default construction.
const (
	NumberRef TypeRef = iota
	BytesFiniteRef
	FiniteTrueRef
)

// Kind discriminates the variants of Type.
type Kind int

const (
	KNumber Kind = iota
	KBytes
	KList
	KFunc
	KPair
	KNamed
	KFinite
	KFiniteBoth
	KFiniteEither
)

// node is one arena slot. Only the fields relevant to Kind are valid.
type node struct {
	kind Kind

	// Bytes, List: boundedness ref
	bound Boundedness
	// List: element type; Func: param/return; Pair: fst/snd
	a, b TypeRef

	// Named
	name string
	// Finite
	flag bool
}

// List is the arena: a vector of optional nodes, indexed by TypeRef.
// A nil slot would only arise from a pop, which this store never does
// (TypeRefs are process-stable within one session), so every index in
// range is populated.
type List struct {
	nodes []node
}

// NewList returns an arena pre-seeded with the reserved slots.
func NewList() *List {
	l := &List{}
	l.nodes = append(l.nodes,
		node{kind: KNumber},
		node{kind: KBytes, bound: FiniteTrueRef},
		node{kind: KFinite, flag: true},
	)
	return l
}

func (l *List) push(n node) TypeRef {
	l.nodes = append(l.nodes, n)
	return TypeRef(len(l.nodes) - 1)
}

func (l *List) get(r TypeRef) *node { return &l.nodes[r] }

// Number returns the shared Number TypeRef.
func (l *List) Number() TypeRef { return NumberRef }

// Bytes returns a Bytes type with the given boundedness.
func (l *List) Bytes(b Boundedness) TypeRef {
	if b == FiniteTrueRef {
		return BytesFiniteRef
	}
	return l.push(node{kind: KBytes, bound: b})
}

// ListOf returns a List type of the given boundedness and element type.
func (l *List) ListOf(b Boundedness, item TypeRef) TypeRef {
	return l.push(node{kind: KList, bound: b, a: item})
}

// Func returns a Func(param, return) type.
func (l *List) Func(par, ret TypeRef) TypeRef {
	return l.push(node{kind: KFunc, a: par, b: ret})
}

// Pair returns a Pair(fst, snd) type, the dedicated kind for `=` values
// and patterns (distinct from Func, so a pair never satisfies a
// function-position check).
func (l *List) Pair(fst, snd TypeRef) TypeRef {
	return l.push(node{kind: KPair, a: fst, b: snd})
}

// Named returns a fresh unbound type variable with the given display name.
func (l *List) Named(name string) TypeRef {
	return l.push(node{kind: KNamed, name: name})
}

// Finite returns a boundedness leaf.
func (l *List) Finite(finite bool) Boundedness {
	if finite {
		return FiniteTrueRef
	}
	return l.push(node{kind: KFinite, flag: false})
}

// Both returns a FiniteBoth(a, b) boundedness node.
func (l *List) Both(a, b Boundedness) Boundedness {
	return l.push(node{kind: KFiniteBoth, a: a, b: b})
}

// Either returns a FiniteEither(a, b) boundedness node.
func (l *List) Either(a, b Boundedness) Boundedness {
	return l.push(node{kind: KFiniteEither, a: a, b: b})
}

// Kind reports the variant stored at ref.
func (l *List) Kind(ref TypeRef) Kind { return l.get(ref).kind }

// Decompose reports the Func(param, return) pair at ref; valid only
// when Kind(ref) == KFunc.
func (l *List) Decompose(ref TypeRef) (param, ret TypeRef) {
	n := l.get(ref)
	return n.a, n.b
}

// DecomposePair reports the Pair(fst, snd) components at ref; valid
// only when Kind(ref) == KPair.
func (l *List) DecomposePair(ref TypeRef) (fst, snd TypeRef) {
	n := l.get(ref)
	return n.a, n.b
}

// ListElem reports the (boundedness, element) pair at ref; valid only
// when Kind(ref) == KList.
func (l *List) ListElem(ref TypeRef) (b Boundedness, item TypeRef) {
	n := l.get(ref)
	return n.bound, n.a
}

// BytesBound reports the boundedness ref at ref; valid only when
// Kind(ref) == KBytes.
func (l *List) BytesBound(ref TypeRef) Boundedness { return l.get(ref).bound }

// Name reports the display name at ref; valid only when Kind(ref) == KNamed.
func (l *List) Name(ref TypeRef) string { return l.get(ref).name }

// FreezeFinite folds a boundedness subgraph to a single boolean.
func (l *List) FreezeFinite(ref Boundedness) bool {
	n := l.get(ref)
	switch n.kind {
	case KFinite:
		return n.flag
	case KFiniteBoth:
		return l.FreezeFinite(n.a) && l.FreezeFinite(n.b)
	case KFiniteEither:
		return l.FreezeFinite(n.a) || l.FreezeFinite(n.b)
	default:
		panic(fmt.Sprintf("FreezeFinite: ref %d is not a boundedness node (kind %d)", ref, n.kind))
	}
}

// Frozen reifies a subgraph into a self-contained FrozenType tree with
// boundedness collapsed to booleans. Deterministic and non-mutating.
func (l *List) Frozen(ref TypeRef) FrozenType {
	n := l.get(ref)
	switch n.kind {
	case KNumber:
		return FrozenType{Kind: FNumber}
	case KBytes:
		return FrozenType{Kind: FBytes, Finite: l.FreezeFinite(n.bound)}
	case KList:
		item := l.Frozen(n.a)
		return FrozenType{Kind: FList, Finite: l.FreezeFinite(n.bound), Items: []FrozenType{item}}
	case KFunc:
		par, ret := l.Frozen(n.a), l.Frozen(n.b)
		return FrozenType{Kind: FFunc, Items: []FrozenType{par, ret}}
	case KPair:
		fst, snd := l.Frozen(n.a), l.Frozen(n.b)
		return FrozenType{Kind: FPair, Items: []FrozenType{fst, snd}}
	case KNamed:
		return FrozenType{Kind: FNamed, Name: n.name}
	default:
		panic(fmt.Sprintf("Frozen: ref %d is a boundedness node (kind %d), not a type", ref, n.kind))
	}
}

// Duplicate deep-copies the subgraph at ref into a fresh set of Named
// slots, so that independent instantiations of a polymorphic schema do
// not alias. seen maps already-duplicated refs (by Named display name
// scope) so that multiple occurrences of the same Named slot within one
// schema duplicate to the same fresh ref.
func (l *List) Duplicate(ref TypeRef, seen map[TypeRef]TypeRef) TypeRef {
	if r, ok := seen[ref]; ok {
		return r
	}
	n := *l.get(ref)
	switch n.kind {
	case KNumber:
		return NumberRef
	case KBytes:
		b := l.duplicateBound(n.bound, seen)
		r := l.Bytes(b)
		seen[ref] = r
		return r
	case KList:
		b := l.duplicateBound(n.bound, seen)
		item := l.Duplicate(n.a, seen)
		r := l.ListOf(b, item)
		seen[ref] = r
		return r
	case KFunc:
		par := l.Duplicate(n.a, seen)
		ret := l.Duplicate(n.b, seen)
		r := l.Func(par, ret)
		seen[ref] = r
		return r
	case KPair:
		fst := l.Duplicate(n.a, seen)
		snd := l.Duplicate(n.b, seen)
		r := l.Pair(fst, snd)
		seen[ref] = r
		return r
	case KNamed:
		r := l.Named(n.name)
		seen[ref] = r
		return r
	default:
		return l.duplicateBound(ref, seen)
	}
}

func (l *List) duplicateBound(ref Boundedness, seen map[TypeRef]TypeRef) Boundedness {
	if r, ok := seen[ref]; ok {
		return r
	}
	n := *l.get(ref)
	switch n.kind {
	case KFinite:
		r := l.Finite(n.flag)
		seen[ref] = r
		return r
	case KFiniteBoth:
		a := l.duplicateBound(n.a, seen)
		b := l.duplicateBound(n.b, seen)
		r := l.Both(a, b)
		seen[ref] = r
		return r
	case KFiniteEither:
		a := l.duplicateBound(n.a, seen)
		b := l.duplicateBound(n.b, seen)
		r := l.Either(a, b)
		seen[ref] = r
		return r
	default:
		panic("duplicateBound: not a boundedness node")
	}
}
