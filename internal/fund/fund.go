// Package fund is the closed registry of fundamental operations: a name
// maps to a factory that allocates a fresh type for each use, so that
// independent call sites of the same fundamental never alias type
// variables. Only types matter here — operational semantics are supplied
// by an external runtime (ORIGINAL §1's "out of scope").
package fund

import "github.com/funvibe/sel/internal/types"

// Name is one fundamental operation.
type Name int

const (
	Stream Name = iota
	Astypeof
	Snoc
	Panic
	Pipe
	Tonum
	Tostr
	Bytes
	Codepoints
	Graphemes
	Unbytes
	Uncodepoints
	Ungraphemes
	Add
	Invert
	Mul
	Negate
	Signum
	Trunc
	Asin
	Exp
	Log
	Sin
)

var names = map[Name]string{
	Stream: "-", Astypeof: "astypeof", Snoc: "snoc", Panic: "panic", Pipe: "pipe",
	Tonum: "tonum", Tostr: "tostr", Bytes: "bytes", Codepoints: "codepoints",
	Graphemes: "graphemes", Unbytes: "unbytes", Uncodepoints: "uncodepoints",
	Ungraphemes: "ungraphemes", Add: "add", Invert: "invert", Mul: "mul",
	Negate: "negate", Signum: "signum", Trunc: "trunc", Asin: "asin", Exp: "exp",
	Log: "log", Sin: "sin",
}

var byName map[string]Name

func init() {
	byName = make(map[string]Name, len(names))
	for n, s := range names {
		byName[s] = n
	}
}

func (n Name) String() string { return names[n] }

// TryFromName looks up a fundamental by its source-level name.
func TryFromName(s string) (Name, bool) {
	n, ok := byName[s]
	return n, ok
}

// Names lists every fundamental's source-level name, for "available
// names" hints in UnknownName diagnostics.
func Names() []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, n)
	}
	return out
}

// freshBound allocates a boundedness slot for a generic "+b" position.
// It starts infinite: concretize only ever narrows an infinite want to
// finite (never the reverse), so a single shared slot correctly models
// an unbound boundedness variable — the first concrete use narrows it,
// and every other occurrence sharing the same ref observes that result.
func freshBound(l *types.List) types.Boundedness { return l.Finite(false) }

// MakeType allocates a fresh instance of this fundamental's type schema
// in l, per ORIGINAL §4.3.
func (n Name) MakeType(l *types.List) types.TypeRef {
	switch n {
	case Stream:
		return l.Bytes(l.Finite(false)) // Str+inf, a single distinguished input

	case Astypeof:
		a := l.Named("a")
		return l.Func(a, l.Func(a, a))

	case Snoc:
		b := freshBound(l)
		a := l.Named("a")
		list := l.ListOf(b, a)
		return l.Func(list, l.Func(a, list))

	case Panic:
		return l.Func(l.Bytes(l.Finite(true)), l.Named("a"))

	case Pipe:
		a, b, c := l.Named("a"), l.Named("b"), l.Named("c")
		ab := l.Func(a, b)
		bc := l.Func(b, c)
		ac := l.Func(a, c)
		return l.Func(ab, l.Func(bc, ac))

	case Tonum:
		return l.Func(l.Bytes(freshBound(l)), l.Number())

	case Tostr:
		return l.Func(l.Number(), l.Bytes(l.Finite(true)))

	case Bytes, Codepoints:
		b := freshBound(l)
		return l.Func(l.Bytes(b), l.ListOf(b, l.Number()))

	case Graphemes:
		b := freshBound(l)
		return l.Func(l.Bytes(b), l.ListOf(b, l.Bytes(l.Finite(true))))

	case Unbytes, Uncodepoints:
		b := freshBound(l)
		return l.Func(l.ListOf(b, l.Number()), l.Bytes(b))

	case Ungraphemes:
		b := freshBound(l)
		return l.Func(l.ListOf(b, l.Bytes(l.Finite(true))), l.Bytes(b))

	case Add, Mul:
		return l.Func(l.Number(), l.Func(l.Number(), l.Number()))

	case Invert, Negate, Signum, Trunc, Asin, Exp, Log, Sin:
		return l.Func(l.Number(), l.Number())

	default:
		panic("fund: unknown Name")
	}
}
