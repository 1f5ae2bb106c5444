package checker

import (
	"github.com/funvibe/sel/internal/ast"
	"github.com/funvibe/sel/internal/diag"
	"github.com/funvibe/sel/internal/fund"
	"github.com/funvibe/sel/internal/pattern"
	"github.com/funvibe/sel/internal/scope"
	"github.com/funvibe/sel/internal/types"
)

// ModuleLookup is the subset of the Module Registry's API the checker
// needs, kept as an interface so this package does not import
// internal/modules (which, in turn, depends on the checker to re-check
// defs lazily).
type ModuleLookup interface {
	// RetrieveFunction returns the type of a same-file top-level def.
	RetrieveFunction(name string) (types.TypeRef, bool)
	// RetrieveModule resolves a `use` prefix, returning the loc of the
	// use declaration, the resolved module (nil on load failure), and a
	// load error when resolution failed.
	RetrieveModule(prefix string) (loc diag.Location, mod ModuleLookup, loadErr error, found bool)
}

// Checker walks an ast tree assigning types, per ORIGINAL §4.5.
type Checker struct {
	Types  *types.List
	Module ModuleLookup

	scope  *scope.Scope // lexical binding chain; fundamentals are checked ahead of it
	Errors diag.List
}

// New returns a checker over module's names, sharing arena l.
func New(l *types.List, module ModuleLookup) *Checker {
	return &Checker{Types: l, Module: module, scope: scope.New(nil)}
}

// lookup resolves a name per the fixed order: fundamentals, bindings
// (closest to furthest), same-file defs, used modules by prefix, then
// missing (recorded as UnknownName and given a shared placeholder slot
// in the outermost scope so repeated uses of the same missing name
// share one inferred type). Fundamentals are checked ahead of the scope
// chain unconditionally, so a local binding can never shadow one.
func (c *Checker) lookup(loc diag.Location, name string) (types.TypeRef, Refers) {
	if fn, ok := fund.TryFromName(name); ok {
		return fn.MakeType(c.Types), Refers{Kind: RFundamental, Fund: fn}
	}

	if it, ok := c.scope.Lookup(name); ok {
		return it.MakeType(c.Types), Refers{Kind: RBinding, BindingLoc: it.BindingLoc}
	}

	if c.Module != nil {
		if ty, ok := c.Module.RetrieveFunction(name); ok {
			return c.Types.Duplicate(ty, map[types.TypeRef]types.TypeRef{}), Refers{Kind: RDefined}
		}
	}

	var usePrefix, useName string
	var hasPrefix bool
	var useLoc diag.Location
	var loadErr error
	var foundUse, notInModule bool

	if idx := indexOfDash(name); idx >= 0 {
		usePrefix, useName = name[:idx], name[idx+1:]
		hasPrefix = true
		if c.Module != nil {
			if loc2, mod, err, found := c.Module.RetrieveModule(usePrefix); found {
				foundUse = true
				useLoc = loc2
				if err != nil {
					loadErr = err
				} else if mod != nil {
					if ty, ok := mod.RetrieveFunction(useName); ok {
						return c.Types.Duplicate(ty, map[types.TypeRef]types.TypeRef{}), Refers{Kind: RFile, ModulePath: usePrefix}
					}
					notInModule = true
				}
			}
		}
	}

	ty := c.Types.Named(name)
	available := c.availableNames()
	baseErr := diag.Error{
		Loc: loc, Kind: diag.KUnknownName, Name: name,
		ExpectedTy: diag.Placeholder(ty), Available: available,
	}

	var finalErr diag.Error
	switch {
	case hasPrefix && !foundUse:
		finalErr = diag.WithContext(baseErr, diag.Context{Kind: diag.CUseNotAtTopForPrefix, Prefix: usePrefix})
	case hasPrefix && foundUse && loadErr != nil:
		finalErr = diag.WithContext(baseErr, diag.Context{Kind: diag.CUseCannotLoad, Prefix: usePrefix, CommaLoc: useLoc, IOErr: loadErr})
	case hasPrefix && foundUse && notInModule:
		finalErr = diag.WithContext(baseErr, diag.Context{Kind: diag.CUseModuleDoesNotHave, Prefix: usePrefix, Name: useName, CommaLoc: useLoc})
	default:
		finalErr = baseErr
	}
	c.Errors.Push(finalErr)

	c.scope.Global().Declare(name, scope.Item{Kind: scope.ItemBinding, BindingLoc: loc, BindingTy: ty})
	return ty, Refers{Kind: RMissing}
}

func indexOfDash(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == '-' {
			return i
		}
	}
	return -1
}

func (c *Checker) availableNames() []string {
	var out []string
	out = append(out, fund.Names()...)
	out = append(out, c.scope.AllNames()...)
	return out
}

// coercionTable maps a mismatched (want, got) kind pair to the
// fundamental that bridges them, per ORIGINAL Open Question #1's fixed
// six-row table: Num<-Bytes via tonum, Bytes<-Num via tostr,
// [Num]<-Bytes via codepoints, [Bytes]<-Bytes via graphemes,
// Bytes<-[Num] via uncodepoints, Bytes<-[Bytes] via ungraphemes.
func (c *Checker) coercionTable(want, got types.TypeRef) (fund.Name, bool) {
	switch c.Types.Kind(want) {
	case types.KNumber:
		if c.Types.Kind(got) == types.KBytes {
			return fund.Tonum, true
		}
	case types.KBytes:
		switch c.Types.Kind(got) {
		case types.KNumber:
			return fund.Tostr, true
		case types.KList:
			_, item := c.Types.ListElem(got)
			switch c.Types.Kind(item) {
			case types.KNumber:
				return fund.Uncodepoints, true
			case types.KBytes:
				return fund.Ungraphemes, true
			}
		}
	case types.KList:
		if c.Types.Kind(got) == types.KBytes {
			_, item := c.Types.ListElem(want)
			switch c.Types.Kind(item) {
			case types.KNumber:
				return fund.Codepoints, true
			case types.KBytes:
				return fund.Graphemes, true
			}
		}
	}
	return 0, false
}

// tryCoerce wraps arg in the coercion table's fundamental for (want,
// arg.Ty), if one bridges them. Returns ok=false if no table row applies
// or arg does not fit the coercion fundamental's parameter. It does not
// check the coerced result against want; apply does that. The returned
// fund.Name names the coercion used, so a caller can attribute a
// downstream mismatch to it via AutoCoercedVia.
func (c *Checker) tryCoerce(want types.TypeRef, arg Tree) (Tree, fund.Name, bool) {
	name, ok := c.coercionTable(want, arg.Ty)
	if !ok {
		return Tree{}, 0, false
	}
	fnTree := Tree{Ty: name.MakeType(c.Types), Kind: TWord, Word: name.String(), Refers: Refers{Kind: RFundamental, Fund: name}}
	res, err := c.apply(fnTree, arg)
	if err != nil {
		return Tree{}, 0, false
	}
	return res, name, true
}

// rootWord walks a chain of TApply nodes back to its base, reporting the
// originating word name when the chain bottoms out at one (e.g. the
// "add" in "add 1 2").
func rootWord(t Tree) (string, bool) {
	for t.Kind == TApply {
		t = *t.Base
	}
	if t.Kind == TWord {
		return t.Word, true
	}
	return "", false
}

// argIndex reports the 1-based position arg would take if applied to fn,
// counting args already folded into fn's TApply chain.
func argIndex(fn Tree) int {
	if fn.Kind == TApply {
		return len(fn.Args) + 1
	}
	return 1
}

// apply applies func to arg, performing try-apply per ORIGINAL §4.4: a
// direct concretize first, falling back to the coercion table when the
// argument's type doesn't fit as given (Open Question #1).
func (c *Checker) apply(fn, arg Tree) (Tree, *diag.Error) {
	var ty types.TypeRef
	var err *diag.Error

	switch c.Types.Kind(fn.Ty) {
	case types.KFunc:
		par, ret := c.Types.Decompose(fn.Ty)
		if uerr := c.Types.Concretize(par, arg.Ty); uerr != nil {
			if coerced, via, ok := c.tryCoerce(par, arg); ok {
				arg = coerced
				if uerr2 := c.Types.Concretize(par, arg.Ty); uerr2 != nil {
					e := diag.Error{Kind: diag.KExpectedButGot, WantTy: uerr2.Want, GotTy: uerr2.Give}
					wrapped := diag.WithContext(e, diag.Context{
						Kind: diag.CAutoCoercedVia, FuncName: via.String(), WithType: c.Types.Frozen(via.MakeType(c.Types)),
					})
					err = &wrapped
				}
			} else {
				e := diag.Error{Kind: diag.KExpectedButGot, WantTy: uerr.Want, GotTy: uerr.Give}
				if name, ok := rootWord(fn); ok {
					wrapped := diag.WithContext(e, diag.Context{
						Kind: diag.CAsNthArgTo, NthArg: argIndex(fn), FuncName: name, WithType: c.Types.Frozen(par),
					})
					err = &wrapped
				} else {
					err = &e
				}
			}
		}
		ty = ret
	default:
		if name, ok := rootWord(fn); fn.Kind == TApply && ok {
			e := diag.Error{Kind: diag.KTooManyArgs, FuncName: name}
			err = &e
		} else {
			e := diag.Error{Kind: diag.KNotFunc, ActualTy: c.Types.Frozen(fn.Ty)}
			err = &e
		}
		ty = c.Types.Named("ret")
	}

	var val Tree
	switch fn.Kind {
	case TApply:
		val = fn
		val.Args = append(append([]Tree{}, fn.Args...), arg)
	default:
		val = Tree{Kind: TApply, Base: cloneTree(fn), Args: []Tree{arg}}
	}
	val.Ty = ty
	return val, err
}

func cloneTree(t Tree) *Tree {
	cp := t
	return &cp
}

// CheckScript types a comma-separated chain, choosing between
// pipe-composition and direct application per the head's inferred type
// (ORIGINAL §4.4's heuristic), using a left-fold order (OPEN QUESTION
// decision #2 in SPEC_FULL.md).
func (c *Checker) CheckScript(s *ast.Script) Tree {
	acc := c.CheckApply(&s.Head)

	if c.Types.Kind(acc.Ty) == types.KFunc {
		for _, step := range s.Tail {
			then := c.CheckApply(&step.Apply)
			pipe := Tree{Ty: fund.Pipe.MakeType(c.Types), Kind: TWord, Word: fund.Pipe.String(), Refers: Refers{Kind: RFundamental, Fund: fund.Pipe}}
			part, err := c.apply(pipe, acc)
			if err != nil {
				c.Errors.Push(*err)
			}
			res, err := c.apply(part, then)
			if err != nil {
				c.Errors.Push(*err)
			}
			acc = res
		}
		return acc
	}

	for _, step := range s.Tail {
		fn := c.CheckApply(&step.Apply)
		res, err := c.apply(fn, acc)
		if err != nil {
			c.Errors.Push(*err)
		}
		acc = res
	}
	return acc
}

func (c *Checker) checkPatternType(p pattern.Pattern, sc *scope.Scope) types.TypeRef {
	switch p.Kind {
	case pattern.KNumber:
		return c.Types.Number()
	case pattern.KBytes:
		return c.Types.Bytes(c.Types.Finite(true))
	case pattern.KName:
		ty := c.Types.Named(p.Name)
		if old, ok := sc.Declare(p.Name, scope.Item{Kind: scope.ItemBinding, BindingLoc: p.Loc, BindingTy: ty}); !ok {
			c.Errors.Push(diag.WithContext(
				diag.Error{Loc: p.Loc, Kind: diag.KNameAlreadyDeclared, Name: p.Name},
				diag.Context{Kind: diag.CDeclaredHere, DeclaredAt: old.BindingLoc, WithType: c.Types.Frozen(old.BindingTy)},
			))
			return old.BindingTy
		}
		return ty
	case pattern.KList:
		item := c.Types.Named("item")
		for _, it := range p.Items {
			ity := c.checkPatternType(it, sc)
			if uerr := c.Types.Concretize(item, ity); uerr != nil {
				c.Errors.Push(diag.WithContext(
					diag.Error{Loc: it.Loc, Kind: diag.KExpectedButGot, WantTy: uerr.Want, GotTy: uerr.Give},
					diag.Context{Kind: diag.CListTypeInferredItemType, ListItem: c.Types.Frozen(item)},
				))
			}
		}
		finite := p.Rest == nil
		listTy := c.Types.ListOf(c.Types.Finite(finite), item)
		if p.Rest != nil {
			if _, ok := sc.Declare(p.Rest.Name, scope.Item{Kind: scope.ItemBinding, BindingLoc: p.Rest.Loc, BindingTy: listTy}); !ok {
				c.Errors.Push(diag.WithContext(
					diag.Error{Loc: p.Rest.Loc, Kind: diag.KNameAlreadyDeclared, Name: p.Rest.Name},
					diag.Context{Kind: diag.CListExtraCommaMakesRest, CommaLoc: p.Rest.LocComma},
				))
			}
		}
		return listTy
	case pattern.KPair:
		fst := c.checkPatternType(*p.Fst, sc)
		snd := c.checkPatternType(*p.Snd, sc)
		return c.Types.Pair(fst, snd)
	default:
		panic("checker: unknown pattern kind")
	}
}

// checkBindingBr types a `let pattern result [fallback]`.
func (c *Checker) checkBindingBr(pat pattern.Pattern, res *ast.Value, alt *ast.Value) (types.TypeRef, Tree, *Tree) {
	child := scope.New(c.scope)
	param := c.checkPatternType(pat, child)

	prev := c.scope
	c.scope = child
	resTree := c.CheckValue(res)
	var altTree *Tree
	if alt != nil {
		at := c.CheckValue(alt)
		if uerr := c.Types.Concretize(resTree.Ty, at.Ty); uerr != nil {
			c.Errors.Push(diag.WithContext(
				diag.Error{Kind: diag.KExpectedButGot, WantTy: uerr.Want, GotTy: uerr.Give},
				diag.Context{Kind: diag.CLetFallbackTypeMismatch, ResultTy: c.Types.Frozen(resTree.Ty), Fallback: c.Types.Frozen(at.Ty)},
			))
		}
		altTree = &at
	}
	c.scope = prev

	return c.Types.Func(param, resTree.Ty), resTree, altTree
}

// CheckApply types `value {value}` or a `let` binding applied to args.
func (c *Checker) CheckApply(a *ast.Apply) Tree {
	var base Tree
	switch a.BaseKind {
	case ast.BaseBinding:
		ty, res, alt := c.checkBindingBr(a.Pat, a.Result, a.Alt)
		base = Tree{Ty: ty, Kind: TBinding, Pat: a.Pat, Result: &res, Fallback: alt}
	default:
		base = c.CheckValue(&a.Value)
	}

	acc := base
	for _, argVal := range a.Args {
		arg := c.CheckValue(&argVal)
		res, err := c.apply(acc, arg)
		if err != nil {
			c.Errors.Push(*err)
		}
		acc = res
	}
	return acc
}

// CheckValue types a single value node.
func (c *Checker) CheckValue(v *ast.Value) Tree {
	switch v.Kind {
	case ast.VNumber:
		return Tree{Ty: c.Types.Number(), Kind: TNumber, Num: v.Num}

	case ast.VBytes:
		return Tree{Ty: c.Types.Bytes(c.Types.Finite(true)), Kind: TBytes, Bytes: v.Bytes}

	case ast.VWord:
		ty, refers := c.lookup(v.Loc, v.Word)
		return Tree{Ty: ty, Kind: TWord, Word: v.Word, Refers: refers}

	case ast.VSubscr:
		return c.CheckScript(v.Subscr)

	case ast.VList:
		return c.checkList(v)

	case ast.VPair:
		fst := c.CheckValue(v.Fst)
		snd := c.CheckValue(v.Snd)
		return Tree{Ty: c.Types.Pair(fst.Ty, snd.Ty), Kind: TPair, Fst: &fst, Snd: &snd}

	default:
		panic("checker: unknown value kind")
	}
}

// checkList types `{e1, ..., en}` or `{e1, ..., en ,, rest}`, unifying
// every item with a shared item type through snoc's parameters and
// building the result right to left via `snoc`, matching check.rs's rfold
// (and its reversed error order note). Items go through apply's standard
// Concretize mode; Harmonize's keep-infinite mode is not used here.
func (c *Checker) checkList(v *ast.Value) Tree {
	items := make([]Tree, len(v.Items))
	for i := range v.Items {
		items[i] = c.CheckApply(&v.Items[i])
	}

	var rest Tree
	if v.Rest != nil {
		rest = c.CheckApply(&v.Rest.Apply)
	} else {
		rest = Tree{Ty: c.Types.ListOf(c.Types.Finite(true), c.Types.Named("item")), Kind: TList}
	}

	acc := rest
	for i := len(items) - 1; i >= 0; i-- {
		snoc := Tree{Ty: fund.Snoc.MakeType(c.Types), Kind: TWord, Word: fund.Snoc.String(), Refers: Refers{Kind: RFundamental, Fund: fund.Snoc}}
		part, err := c.apply(snoc, acc)
		if err != nil {
			if v.Rest != nil {
				c.Errors.Push(diag.WithContext(*err, diag.Context{Kind: diag.CListExtraCommaMakesRest, CommaLoc: v.Rest.LocComma}))
			} else {
				c.Errors.Push(*err)
			}
		}
		res, err := c.apply(part, items[i])
		if err != nil {
			c.Errors.Push(*err)
		}
		acc = res
	}
	return acc
}
