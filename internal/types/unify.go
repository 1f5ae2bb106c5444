package types

// UnifyErrorKind discriminates the failure modes concretize/applied can
// report. The diag package wraps these into its own Error with location
// and causal context; types itself stays location-agnostic.
type UnifyErrorKind int

const (
	ErrExpectedButGot UnifyErrorKind = iota
	ErrNotFunc
	ErrInfWhereFinExpected
)

// UnifyError is the raw mismatch produced by a failed concretize/applied.
type UnifyError struct {
	Kind   UnifyErrorKind
	Want   FrozenType // ErrExpectedButGot
	Give   FrozenType // ErrExpectedButGot
	Actual FrozenType // ErrNotFunc
}

// Concretize unifies want with give, mutating the arena. This is the
// standard (non-harmonizing) mode: an infinite want is forced finite by
// a finite give.
func (l *List) Concretize(want, give TypeRef) *UnifyError {
	return l.concretize(want, give, false)
}

// Harmonize is the mode used when inferring the shared item type of a
// list literal: unlike Concretize, it does not force an infinite want
// finite from a finite give — "keep infinite" — because an infinite item
// contributed to a finite aggregate must instead be rejected downstream.
func (l *List) Harmonize(curr, item TypeRef) *UnifyError {
	return l.concretize(curr, item, true)
}

func (l *List) concretize(want, give TypeRef, keepInf bool) *UnifyError {
	wn, gn := l.get(want), l.get(give)

	handleFiniteness := func(fw, fg Boundedness) *UnifyError {
		wantFin, giveFin := l.FreezeFinite(fw), l.FreezeFinite(fg)
		switch {
		case wantFin == giveFin:
			return nil
		case !wantFin && giveFin:
			if !keepInf {
				*l.get(fw) = node{kind: KFinite, flag: true}
			}
			return nil
		default: // wantFin && !giveFin
			return &UnifyError{Kind: ErrInfWhereFinExpected}
		}
	}

	switch {
	case wn.kind == KNumber && gn.kind == KNumber:
		return nil

	case wn.kind == KBytes && gn.kind == KBytes:
		return handleFiniteness(wn.bound, gn.bound)

	case wn.kind == KList && gn.kind == KList:
		lItem, rItem := wn.a, gn.a
		if err := handleFiniteness(wn.bound, gn.bound); err != nil {
			return err
		}
		return l.concretize(lItem, rItem, keepInf)

	case wn.kind == KFunc && gn.kind == KFunc:
		lPar, lRet := wn.a, wn.b
		rPar, rRet := gn.a, gn.b
		// parameter compared contravariantly
		if err := l.concretize(rPar, lPar, keepInf); err != nil {
			return err
		}
		return l.concretize(lRet, rRet, keepInf)

	case wn.kind == KPair && gn.kind == KPair:
		if err := l.concretize(wn.a, gn.a, keepInf); err != nil {
			return err
		}
		return l.concretize(wn.b, gn.b, keepInf)

	case gn.kind == KNamed:
		*l.get(give) = *wn
		return nil

	case wn.kind == KNamed:
		*l.get(want) = *gn
		return nil

	default:
		return &UnifyError{Kind: ErrExpectedButGot, Want: l.Frozen(want), Give: l.Frozen(give)}
	}
}

// Compatible is a non-mutating predicate: true iff give could unify into
// want, treating any Named as compatible with anything.
func (l *List) Compatible(want, give TypeRef) bool {
	wn, gn := l.get(want), l.get(give)
	switch {
	case wn.kind == KNumber && gn.kind == KNumber:
		return true

	case wn.kind == KBytes && gn.kind == KBytes:
		wantFin, giveFin := l.FreezeFinite(wn.bound), l.FreezeFinite(gn.bound)
		return !(wantFin && !giveFin)

	case wn.kind == KList && gn.kind == KList:
		wantFin, giveFin := l.FreezeFinite(wn.bound), l.FreezeFinite(gn.bound)
		if wantFin && !giveFin {
			return false
		}
		return l.Compatible(wn.a, gn.a)

	case wn.kind == KFunc && gn.kind == KFunc:
		return l.Compatible(gn.a, wn.a) && l.Compatible(wn.b, gn.b)

	case wn.kind == KPair && gn.kind == KPair:
		return l.Compatible(wn.a, gn.a) && l.Compatible(wn.b, gn.b)

	case gn.kind == KNamed || wn.kind == KNamed:
		return true

	default:
		return false
	}
}

// Applicable is a non-mutating predicate: true iff func is a Func(p, _)
// and give is Compatible with p.
func (l *List) Applicable(fn, give TypeRef) bool {
	n := l.get(fn)
	if n.kind != KFunc {
		return false
	}
	return l.Compatible(n.a, give)
}

// Applied returns the result type of applying fn to give, or a
// NotFunc/concretization error.
func (l *List) Applied(fn, give TypeRef) (TypeRef, *UnifyError) {
	n := l.get(fn)
	if n.kind != KFunc {
		return 0, &UnifyError{Kind: ErrNotFunc, Actual: l.Frozen(fn)}
	}
	par, ret := n.a, n.b
	if err := l.Concretize(par, give); err != nil {
		return 0, err
	}
	return ret, nil
}

// Snapshot deep-clones the arena for use in pre-mutation error messages.
// The clone is never re-installed.
func (l *List) Snapshot() *List {
	cp := make([]node, len(l.nodes))
	copy(cp, l.nodes)
	return &List{nodes: cp}
}
