package types

import "fmt"

// ProblemKind classifies a UnifyError the way the teacher compiler's
// internal/types/errors.go TypeErrorKind does, narrowed to the cases
// spec §4.D and §7 name explicitly.
type ProblemKind string

const (
	ProblemTypeMismatch ProblemKind = "type_mismatch"
	ProblemIntFloat     ProblemKind = "int_float"
	ProblemNeedsUnwrap  ProblemKind = "needs_unwrap"
	ProblemWrongArity   ProblemKind = "wrong_arity"
	ProblemMissingField ProblemKind = "missing_field"
	ProblemFieldTypo    ProblemKind = "field_typo"
	ProblemOccursCheck  ProblemKind = "occurs_check"
)

// ContextFrame narrates where, inside an expression, a unify call
// occurred, for the diagnostic renderer's "in the 2nd element of this
// list" style messages (spec §4.D "Error context").
type ContextFrame struct {
	Kind string // "IfCondition", "ListElement", "MatchArm", "FunctionArgument", ...
	Index int    // meaningful for ListElement/MatchArm/FunctionArgument
	Func  string // meaningful for FunctionArgument
}

// UnifyError is the structured failure result of Unify.
type UnifyError struct {
	Kind     ProblemKind
	Expected Idx
	Actual   Idx
	Context  []ContextFrame
	Detail   string // extra detail, e.g. the offending field/method name
}

func (e *UnifyError) Error() string {
	return fmt.Sprintf("%s: expected %v, got %v (%s)", e.Kind, e.Expected, e.Actual, e.Detail)
}

// Unifier owns the context stack used to annotate UnifyError values as
// unification descends into sub-expressions. One Unifier is created
// per inference pass over a module (see infer.go).
type Unifier struct {
	Pool    *Pool
	context []ContextFrame
}

// NewUnifier creates a Unifier over pool.
func NewUnifier(pool *Pool) *Unifier {
	return &Unifier{Pool: pool}
}

// PushContext enters a new error-context frame; callers must Pop it
// when they leave the corresponding sub-expression.
func (u *Unifier) PushContext(f ContextFrame) { u.context = append(u.context, f) }

// PopContext leaves the most recently entered frame.
func (u *Unifier) PopContext() { u.context = u.context[:len(u.context)-1] }

func (u *Unifier) snapshotContext() []ContextFrame {
	cp := make([]ContextFrame, len(u.context))
	copy(cp, u.context)
	return cp
}

// Unify finds the most general substitution making a and b equal,
// recording it into the pool's Var bindings in place, or returns a
// structured UnifyError. It implements spec §4.D's six-step algorithm
// verbatim.
func (u *Unifier) Unify(a, b Idx) error {
	p := u.Pool
	a = p.Resolve(a)
	b = p.Resolve(b)

	if a == b {
		return nil // idempotent: unify(t,t) always succeeds without changes
	}

	// Step 5: Error absorbs anything silently.
	if a == ErrorType || b == ErrorType {
		return nil
	}
	// Step 4: Never unifies with anything (bottom type).
	if a == Never || b == Never {
		return nil
	}

	aVar := p.Tag(a) == TagVar
	bVar := p.Tag(b) == TagVar

	// Step 2: bind an unbound variable, after the occurs check.
	if aVar && bVar {
		return u.bindVar(a, b)
	}
	if aVar {
		return u.bindVar(a, b)
	}
	if bVar {
		return u.bindVar(b, a)
	}

	// Step 3: same structural tag, unify position-wise.
	ta, tb := p.Tag(a), p.Tag(b)
	if ta != tb {
		return u.mismatch(a, b, "")
	}

	switch ta {
	case TagPrimitive:
		if a != b {
			return u.mismatch(a, b, "")
		}
		return nil

	case TagList, TagOption, TagRange:
		return u.Unify(p.Child(a), p.Child(b))

	case TagMap:
		ma, mb := p.MapSig(a), p.MapSig(b)
		if err := u.Unify(ma.Key, mb.Key); err != nil {
			return err
		}
		return u.Unify(ma.Val, mb.Val)

	case TagResult:
		ra, rb := p.MapSig(a), p.MapSig(b) // Result reuses MapSig{Key:ok, Val:err}
		if err := u.Unify(ra.Key, rb.Key); err != nil {
			return err
		}
		return u.Unify(ra.Val, rb.Val)

	case TagTuple:
		ea, eb := p.TupleElems(a), p.TupleElems(b)
		if len(ea) != len(eb) {
			return &UnifyError{Kind: ProblemWrongArity, Expected: a, Actual: b, Context: u.snapshotContext()}
		}
		for i := range ea {
			u.PushContext(ContextFrame{Kind: "ListElement", Index: i})
			err := u.Unify(ea[i], eb[i])
			u.PopContext()
			if err != nil {
				return err
			}
		}
		return nil

	case TagFunction:
		fa, fb := p.FuncSig(a), p.FuncSig(b)
		if len(fa.Params) != len(fb.Params) {
			return &UnifyError{Kind: ProblemWrongArity, Expected: a, Actual: b, Context: u.snapshotContext()}
		}
		for i := range fa.Params {
			u.PushContext(ContextFrame{Kind: "FunctionArgument", Index: i})
			err := u.Unify(fa.Params[i], fb.Params[i])
			u.PopContext()
			if err != nil {
				return err
			}
		}
		return u.Unify(fa.Ret, fb.Ret)

	case TagStruct, TagEnum:
		// Nominal: equality already failed above (a != b), so distinct
		// names/declarations never unify even with identical shape.
		return u.mismatch(a, b, "nominal type mismatch")

	case TagNamedRef:
		if p.Name(a) == p.Name(b) {
			return nil
		}
		return u.mismatch(a, b, "")

	default:
		return u.mismatch(a, b, "")
	}
}

func (u *Unifier) mismatch(a, b Idx, detail string) error {
	return &UnifyError{
		Kind:     ProblemTypeMismatch,
		Expected: a,
		Actual:   b,
		Context:  u.snapshotContext(),
		Detail:   detail,
	}
}

// bindVar binds the unbound variable v to target, after the occurs
// check, lowering ranks of any variables inside target that sit above
// v's rank (spec §4.D step 2).
func (u *Unifier) bindVar(v, target Idx) error {
	p := u.Pool
	if u.occurs(v, target) {
		return &UnifyError{Kind: ProblemOccursCheck, Expected: v, Actual: target, Context: u.snapshotContext()}
	}
	vRank := p.Var(v).Rank
	u.lowerRanks(target, vRank)
	p.SetVar(v, VarState{Bound: true, Value: target})
	return nil
}

// occurs follows Bound links and HasVar flags to decide whether v
// occurs (transitively) inside t, short-circuiting through the flag
// so acyclic, var-free subtrees are never walked.
func (u *Unifier) occurs(v, t Idx) bool {
	p := u.Pool
	t = p.Resolve(t)
	if t == v {
		return true
	}
	if p.Flags(t)&HasVar == 0 {
		return false
	}
	switch p.Tag(t) {
	case TagVar:
		return false // already resolved above; an unbound var is never v unless t==v
	case TagList, TagOption, TagRange:
		return u.occurs(v, p.Child(t))
	case TagMap:
		m := p.MapSig(t)
		return u.occurs(v, m.Key) || u.occurs(v, m.Val)
	case TagResult:
		m := p.MapSig(t)
		return u.occurs(v, m.Key) || u.occurs(v, m.Val)
	case TagTuple:
		for _, e := range p.TupleElems(t) {
			if u.occurs(v, e) {
				return true
			}
		}
		return false
	case TagFunction:
		f := p.FuncSig(t)
		for _, pr := range f.Params {
			if u.occurs(v, pr) {
				return true
			}
		}
		return u.occurs(v, f.Ret)
	case TagStruct:
		for _, f := range p.Fields(t) {
			if u.occurs(v, f.Type) {
				return true
			}
		}
		return false
	case TagEnum:
		for _, variant := range p.Variants(t) {
			for _, f := range variant.Fields {
				if u.occurs(v, f) {
					return true
				}
			}
		}
		return false
	default:
		return false
	}
}

// lowerRanks walks t, dropping the rank of every unbound Var it finds
// to min(current, maxRank) -- "adjusting non-variable structural parts
// transitively" per spec §4.D step 2.
func (u *Unifier) lowerRanks(t Idx, maxRank int) {
	p := u.Pool
	t = p.Resolve(t)
	if p.Flags(t)&HasVar == 0 {
		return
	}
	switch p.Tag(t) {
	case TagVar:
		st := p.Var(t)
		if !st.Bound && st.Rank > maxRank {
			p.SetVar(t, VarState{Bound: false, Rank: maxRank})
		}
	case TagList, TagOption, TagRange:
		u.lowerRanks(p.Child(t), maxRank)
	case TagMap:
		m := p.MapSig(t)
		u.lowerRanks(m.Key, maxRank)
		u.lowerRanks(m.Val, maxRank)
	case TagResult:
		m := p.MapSig(t)
		u.lowerRanks(m.Key, maxRank)
		u.lowerRanks(m.Val, maxRank)
	case TagTuple:
		for _, e := range p.TupleElems(t) {
			u.lowerRanks(e, maxRank)
		}
	case TagFunction:
		f := p.FuncSig(t)
		for _, pr := range f.Params {
			u.lowerRanks(pr, maxRank)
		}
		u.lowerRanks(f.Ret, maxRank)
	case TagStruct:
		for _, f := range p.Fields(t) {
			u.lowerRanks(f.Type, maxRank)
		}
	case TagEnum:
		for _, variant := range p.Variants(t) {
			for _, f := range variant.Fields {
				u.lowerRanks(f, maxRank)
			}
		}
	}
}
