package types

import "strings"

// FrozenKind discriminates FrozenType variants.
type FrozenKind int

const (
	FNumber FrozenKind = iota
	FBytes
	FList
	FFunc
	FPair
	FNamed
)

// FrozenType is a self-contained, boundedness-as-boolean tree form of a
// type, produced by List.Frozen. It never refers back into an arena.
type FrozenType struct {
	Kind   FrozenKind
	Finite bool // Bytes, List
	Items  []FrozenType
	Name   string // Named
}

func (t FrozenType) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t FrozenType) write(b *strings.Builder) {
	switch t.Kind {
	case FNumber:
		b.WriteString("Num")
	case FBytes:
		b.WriteString("Str")
		if !t.Finite {
			b.WriteByte('+')
		}
	case FList:
		b.WriteByte('[')
		t.Items[0].write(b)
		b.WriteByte(']')
		if !t.Finite {
			b.WriteByte('+')
		}
	case FFunc:
		par := t.Items[0]
		if par.Kind == FFunc {
			b.WriteByte('(')
			par.write(b)
			b.WriteByte(')')
		} else {
			par.write(b)
		}
		b.WriteString(" -> ")
		t.Items[1].write(b)
	case FPair:
		t.Items[0].write(b)
		b.WriteByte('=')
		t.Items[1].write(b)
	case FNamed:
		b.WriteString(t.Name)
	}
}

// IsFunc reports whether this frozen type is a function.
func (t FrozenType) IsFunc() bool { return t.Kind == FFunc }

// IsPair reports whether this frozen type is a pair.
func (t FrozenType) IsPair() bool { return t.Kind == FPair }

// Param and Return are valid only when IsFunc().
func (t FrozenType) Param() FrozenType  { return t.Items[0] }
func (t FrozenType) Return() FrozenType { return t.Items[1] }

// Fst and Snd are valid only when IsPair().
func (t FrozenType) Fst() FrozenType { return t.Items[0] }
func (t FrozenType) Snd() FrozenType { return t.Items[1] }

func Number() FrozenType           { return FrozenType{Kind: FNumber} }
func Bytes(finite bool) FrozenType { return FrozenType{Kind: FBytes, Finite: finite} }
func Named(name string) FrozenType { return FrozenType{Kind: FNamed, Name: name} }
func ListType(finite bool, item FrozenType) FrozenType {
	return FrozenType{Kind: FList, Finite: finite, Items: []FrozenType{item}}
}
func Func(par, ret FrozenType) FrozenType {
	return FrozenType{Kind: FFunc, Items: []FrozenType{par, ret}}
}
func PairType(fst, snd FrozenType) FrozenType {
	return FrozenType{Kind: FPair, Items: []FrozenType{fst, snd}}
}
