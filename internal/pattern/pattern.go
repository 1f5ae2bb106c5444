// Package pattern is the pattern AST used by `let` bindings: refutability
// classification and name-binding extraction, shared by the parser and
// the standalone checker.
package pattern

import "github.com/funvibe/sel/internal/diag"

// Kind discriminates a Pattern.
type Kind int

const (
	KNumber Kind = iota
	KBytes
	KList
	KName
	KPair
)

// Pattern mirrors the value grammar but binds names instead of
// evaluating. Only the fields relevant to Kind are meaningful.
type Pattern struct {
	Loc  diag.Location
	Kind Kind

	Num   float64    // KNumber
	Bytes []byte     // KBytes
	Name  string     // KName

	Items []Pattern  // KList
	Rest  *RestName  // KList, nil means finite/no rest

	Fst, Snd *Pattern // KPair
}

// RestName is the `,, name` tail of a list pattern.
type RestName struct {
	Loc      diag.Location
	LocComma diag.Location
	Name     string
}

// IsRefutable reports whether some value of the pattern's type could fail
// to match it. Number, Bytes, and List forms are refutable; Name and Pair
// of irrefutables are not.
func (p Pattern) IsRefutable() bool {
	switch p.Kind {
	case KNumber, KBytes, KList:
		return true
	case KName:
		return false
	case KPair:
		return p.Fst.IsRefutable() || p.Snd.IsRefutable()
	default:
		return true
	}
}

// Binding is one name introduced by a pattern.
type Binding struct {
	Loc  diag.Location
	Name string
}

// Names walks the pattern collecting every bound name in left-to-right,
// outer-to-inner order, including a list pattern's rest name. Duplicate
// detection is the checker's job (it needs diag.List to report
// NameAlreadyDeclared); this just enumerates.
func (p Pattern) Names() []Binding {
	var out []Binding
	p.collect(&out)
	return out
}

func (p Pattern) collect(out *[]Binding) {
	switch p.Kind {
	case KName:
		*out = append(*out, Binding{Loc: p.Loc, Name: p.Name})
	case KList:
		for _, it := range p.Items {
			it.collect(out)
		}
		if p.Rest != nil {
			*out = append(*out, Binding{Loc: p.Rest.Loc, Name: p.Rest.Name})
		}
	case KPair:
		p.Fst.collect(out)
		p.Snd.collect(out)
	}
}
