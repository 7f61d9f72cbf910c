package types

import "github.com/sunholo/sigil/internal/ast"

// PatternKey identifies a pattern node inside one compilation unit: the
// file-scoped PatternId is enough since a unit's pattern arena is
// singly owned.
type PatternKey ast.PatternId

// ResolutionKind tags a PatternResolution.
type ResolutionKind uint8

const (
	ResNone ResolutionKind = iota
	ResUnitVariant
	ResConstructor
)

// PatternResolution disambiguates a syntactically bare identifier
// pattern: `Binding("Pending")` might really be a reference to a unit
// enum variant rather than a fresh binding. Spec §6: "tells the
// lowering pass that a syntactic Binding("Pending") is actually a unit
// variant reference."
type PatternResolution struct {
	Kind         ResolutionKind
	TypeName     string
	VariantIndex int
}

// PatternTyper binds pattern variables against a scrutinee type, used
// by the type checker's match-arm handling (spec §4.D "Match: ...
// extend env with pattern bindings"). Bind never writes to Resolved, so
// the map handed out as TypedModule.PatternResolutions stays empty and
// a bare identifier pattern is always treated as a fresh binding.
// It does not build a decision tree; that is component F's job,
// invoked later by the canonicaliser (internal/canon).
type PatternTyper struct {
	Pool      *Pool
	Types     *TypeRegistry
	Resolved  map[PatternKey]PatternResolution
	Unifier   *Unifier
}

func NewPatternTyper(pool *Pool, reg *TypeRegistry, u *Unifier) *PatternTyper {
	return &PatternTyper{Pool: pool, Types: reg, Resolved: make(map[PatternKey]PatternResolution), Unifier: u}
}

// Bind walks pat against scrutinee, unifying sub-pattern positions with
// the scrutinee's structural shape and calling bind for each variable
// pattern it finds (bind receives the variable's name and its type).
func (pt *PatternTyper) Bind(a *ast.Arena, pat ast.PatternId, scrutinee Idx, bind func(name ast.Pattern, ty Idx)) error {
	node := a.Pattern(pat)
	p := pt.Pool
	switch node.Kind {
	case ast.PatWildcard:
		return nil

	case ast.PatBinding:
		bind(node, scrutinee)
		return nil

	case ast.PatLiteral:
		lit := literalIdx(node)
		return pt.Unifier.Unify(lit, scrutinee)

	case ast.PatRange:
		return pt.Unifier.Unify(Int, scrutinee) // ranges are only meaningful over ordered scalars; Int covers the common case

	case ast.PatTuple:
		elemIds := a.PatternList(node.Sub)
		elemTys := make([]Idx, len(elemIds))
		for i := range elemIds {
			elemTys[i] = p.Fresh(pt.Unifier.rankHint())
		}
		if err := pt.Unifier.Unify(p.Tuple(elemTys), scrutinee); err != nil {
			return err
		}
		for i, sub := range elemIds {
			if err := pt.Bind(a, sub, elemTys[i], bind); err != nil {
				return err
			}
		}
		return nil

	case ast.PatOr:
		// Each alternative is checked against the same scrutinee and
		// its variables are passed to bind in turn, so a name bound by
		// several alternatives ends up with the type from the last
		// one. Equality of the alternatives' name sets is not checked
		// here.
		for _, sub := range a.PatternList(node.Sub) {
			if err := pt.Bind(a, sub, scrutinee, bind); err != nil {
				return err
			}
		}
		return nil

	case ast.PatList:
		elem := p.Fresh(pt.Unifier.rankHint())
		if err := pt.Unifier.Unify(p.List(elem), scrutinee); err != nil {
			return err
		}
		for _, h := range a.PatternList(node.Head) {
			if err := pt.Bind(a, h, elem, bind); err != nil {
				return err
			}
		}
		for _, tl := range a.PatternList(node.Tail) {
			if err := pt.Bind(a, tl, elem, bind); err != nil {
				return err
			}
		}
		return nil

	case ast.PatRecord:
		resolved := p.Resolve(scrutinee)
		fields := p.Fields(resolved)
		for _, fp := range a.FieldPatterns(node.RecFields) {
			var fieldTy Idx = NONE
			for _, f := range fields {
				if f.Name == fp.Name {
					fieldTy = f.Type
					break
				}
			}
			if fieldTy == NONE {
				return &UnifyError{Kind: ProblemMissingField, Expected: scrutinee, Actual: NONE}
			}
			if err := pt.Bind(a, fp.Pattern, fieldTy, bind); err != nil {
				return err
			}
		}
		return nil

	case ast.PatConstructor:
		resolved := p.Resolve(scrutinee)
		for _, v := range p.Variants(resolved) {
			if v.Name != node.Ctor {
				continue
			}
			args := a.PatternList(node.CtorArgs)
			if len(args) != len(v.Fields) {
				return &UnifyError{Kind: ProblemWrongArity, Expected: Idx(len(v.Fields)), Actual: Idx(len(args))}
			}
			for i, arg := range args {
				if err := pt.Bind(a, arg, v.Fields[i], bind); err != nil {
					return err
				}
			}
			return nil
		}
		return &UnifyError{Kind: ProblemMissingField, Expected: scrutinee, Actual: NONE, Detail: "unknown constructor"}

	default:
		return nil
	}
}

func literalIdx(node ast.Pattern) Idx {
	switch node.LitKind {
	case ast.LitInt:
		return Int
	case ast.LitFloat:
		return Float
	case ast.LitBool:
		return Bool
	case ast.LitString:
		return Str
	case ast.LitChar:
		return Char
	default:
		return Unit
	}
}

// rankHint exposes the unifier's ambient rank for pattern-internal
// fresh variables; the type checker pushes/pops Env frames elsewhere
// and PatternTyper borrows the Unifier only to unify pattern positions
// against the scrutinee, so it tracks no rank of its own -- it
// simply allocates at rank 0, which is always sound for a pattern
// variable that is immediately unified against a concrete scrutinee.
func (u *Unifier) rankHint() int { return 0 }
