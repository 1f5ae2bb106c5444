package diag

import (
	"fmt"

	"github.com/funvibe/sel/internal/types"
)

// ExpectedType is either a not-yet-frozen placeholder into the live type
// arena, or an already-frozen, self-contained type. The forward-reference
// mechanic (ORIGINAL §4.4/§9) needs a slot that can be resolved after the
// whole file parses; this tagged union is the spec's own suggested
// improvement over smuggling a raw TypeRef through the frozen-type field.
type ExpectedType struct {
	placeholder bool
	ref         types.TypeRef
	frozen      types.FrozenType
}

func Placeholder(ref types.TypeRef) ExpectedType { return ExpectedType{placeholder: true, ref: ref} }
func Frozen(ft types.FrozenType) ExpectedType    { return ExpectedType{frozen: ft} }
func (e ExpectedType) IsPlaceholder() bool       { return e.placeholder }
func (e ExpectedType) Ref() types.TypeRef        { return e.ref }
func (e ExpectedType) Frozen() types.FrozenType  { return e.frozen }

// Resolve replaces a placeholder with its frozen form, reading the arena.
// No fixup pass calls it: checker and registry report UnknownName errors
// with their placeholders unresolved, which String renders as
// "<unresolved>".
func (e ExpectedType) Resolve(l *types.List) ExpectedType {
	if !e.placeholder {
		return e
	}
	return Frozen(l.Frozen(e.ref))
}

func (e ExpectedType) String() string {
	if e.placeholder {
		return "<unresolved>"
	}
	return e.frozen.String()
}

// Kind discriminates Error's payload.
type Kind int

const (
	KUnexpected Kind = iota
	KUnexpectedDefInScript
	KUnknownName
	KNotFunc
	KTooManyArgs
	KExpectedButGot
	KInconsistentType
	KInfWhereFinExpected
	KNameAlreadyDeclared
	KCouldNotReadFile
	KUtf8Error
	KContextCaused
	KCircularUse
)

// AsOfStep records one hop in an ExpectedButGot's "as_of" path: item of,
// return of, parameter of, first of, second of, wanted X.
type AsOfStep struct {
	Desc   string
	Wanted types.FrozenType // only meaningful when Desc == "wanted"
}

// ContextKind discriminates the ErrorContext wrapper that a ContextCaused
// error carries alongside its wrapped Error.
type ContextKind int

const (
	CUnmatched ContextKind = iota
	CAsNthArgTo
	CChainedFrom
	CChainedFromToNotFunc
	CAutoCoercedVia
	CDeclaredHere
	CLetFallbackRequired
	CLetFallbackTypeMismatch
	CListExtraCommaMakesRest
	CListTypeInferredItemType
	CUseCannotLoad
	CUseNotAtTopForPrefix
	CUseModuleDoesNotHave
)

// Context is the payload of a ContextCaused wrapper.
type Context struct {
	Kind       ContextKind
	OpenToken  fmt.Stringer     // CUnmatched (a token.Kind)
	NthArg     int              // CAsNthArgTo
	FuncName   string           // CAsNthArgTo, CAutoCoercedVia
	WithType   types.FrozenType // CAsNthArgTo, CDeclaredHere, CAutoCoercedVia
	DeclaredAt Location         // CDeclaredHere
	CommaLoc   Location         // CChainedFrom, CChainedFromToNotFunc
	ResultTy   types.FrozenType // CLetFallbackTypeMismatch
	Fallback   types.FrozenType // CLetFallbackTypeMismatch
	ListItem   types.FrozenType // CListTypeInferredItemType
	Prefix     string           // CUseCannotLoad, CUseNotAtTopForPrefix, CUseModuleDoesNotHave
	Name       string           // CUseModuleDoesNotHave
	IOErr      error            // CUseCannotLoad
}

// Error is a single diagnostic: a primary (location, kind), optionally
// wrapped in a causal ContextCaused chain.
type Error struct {
	Loc  Location
	Kind Kind

	// payload, selected by Kind
	Token        fmt.Stringer     // KUnexpected (a token.Kind)
	Expected     string           // KUnexpected
	Name         string           // KUnknownName, KNameAlreadyDeclared
	ExpectedTy   ExpectedType     // KUnknownName
	Available    []string         // KUnknownName
	ActualTy     types.FrozenType // KNotFunc
	FuncName     string           // KTooManyArgs
	WantTy       types.FrozenType // KExpectedButGot
	GotTy        types.FrozenType // KExpectedButGot
	AsOf         []AsOfStep       // KExpectedButGot
	Inconsistent []struct {
		Loc Location
		Ty  types.FrozenType
	} // KInconsistentType
	IOErr error // KCouldNotReadFile
	Utf8  error // KUtf8Error

	Wrapped *Error  // KContextCaused
	Because Context // KContextCaused
}

// List accumulates errors; policy is "accumulate, never raise."
type List struct {
	errs []Error
}

func (l *List) Push(e Error) { l.errs = append(l.errs, e) }
func (l *List) Empty() bool  { return len(l.errs) == 0 }
func (l *List) All() []Error { return l.errs }
func (l *List) Extend(o *List) {
	if o != nil {
		l.errs = append(l.errs, o.errs...)
	}
}

// WithContext wraps err in a ContextCaused layer.
func WithContext(err Error, ctx Context) Error {
	cp := err
	return Error{Loc: err.Loc, Kind: KContextCaused, Wrapped: &cp, Because: ctx}
}

// Title returns the one-line headline for an error, walking past any
// ContextCaused wrapper to the primary cause.
func (e Error) Title() string {
	switch e.Kind {
	case KContextCaused:
		return e.Wrapped.Title()
	case KUnexpected:
		return fmt.Sprintf("Unexpected '%s', expected %s", e.Token, e.Expected)
	case KUnexpectedDefInScript:
		return "Unexpected definition within script"
	case KUnknownName:
		return fmt.Sprintf("Unknown name '%s', should be %s", e.Name, e.ExpectedTy)
	case KNotFunc:
		return fmt.Sprintf("Expected a function type, but got %s", e.ActualTy)
	case KTooManyArgs:
		return fmt.Sprintf("Too many arguments to %s", e.FuncName)
	case KExpectedButGot:
		return fmt.Sprintf("Expected type %s, but got %s", e.WantTy, e.GotTy)
	case KInconsistentType:
		return "Inconsistent type across uses"
	case KInfWhereFinExpected:
		return "Expected finite type, but got infinite type"
	case KNameAlreadyDeclared:
		return fmt.Sprintf("Name %s was already declared", e.Name)
	case KCouldNotReadFile:
		return fmt.Sprintf("Could not read file: %v", e.IOErr)
	case KUtf8Error:
		return fmt.Sprintf("Invalid UTF-8: %v", e.Utf8)
	case KCircularUse:
		return fmt.Sprintf("Circular 'use' of %s", e.Name)
	default:
		return "error"
	}
}

// Plain renders the cheap one-line-per-cause form, matching the
// original's crud_report fallback. The CLI prints it in place of
// Reporter.Render when SEL_FATAL=1 is set.
func (e Error) Plain() string {
	s := e.Title()
	if e.Kind == KContextCaused {
		s = e.Wrapped.Plain() + "\n`-> " + causeText(e.Because)
	}
	return s
}

func causeText(c Context) string {
	switch c.Kind {
	case CUnmatched:
		return fmt.Sprintf("because of open %s", c.OpenToken)
	case CAsNthArgTo:
		return fmt.Sprintf("because of the parameter in %s (argument %d to %s)", c.WithType, c.NthArg, c.FuncName)
	case CChainedFrom:
		return fmt.Sprintf("because of chaining at %v", c.CommaLoc)
	case CChainedFromToNotFunc:
		return fmt.Sprintf("because of chaining at %v", c.CommaLoc)
	case CAutoCoercedVia:
		return fmt.Sprintf("with auto coercion via %s :: %s", c.FuncName, c.WithType)
	case CDeclaredHere:
		return fmt.Sprintf("declared here at %v as %s", c.DeclaredAt, c.WithType)
	case CLetFallbackRequired:
		return "refutable binding requires a fallback"
	case CLetFallbackTypeMismatch:
		return fmt.Sprintf("fallback type %s doesn't match result type %s", c.Fallback, c.ResultTy)
	case CListExtraCommaMakesRest:
		return "because of the ',,' introducing a rest"
	case CListTypeInferredItemType:
		return fmt.Sprintf("because list type was inferred to be [%s]", c.ListItem)
	case CUseCannotLoad:
		return fmt.Sprintf("could not load module for prefix '%s': %v", c.Prefix, c.IOErr)
	case CUseNotAtTopForPrefix:
		return fmt.Sprintf("no 'use' for prefix '%s'", c.Prefix)
	case CUseModuleDoesNotHave:
		return fmt.Sprintf("module for prefix '%s' has no '%s'", c.Prefix, c.Name)
	default:
		return ""
	}
}
