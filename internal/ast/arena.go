package ast

// Arena is the flat, append-only backing store for one file's AST: one
// vector per node kind, plus the parallel child-list vectors addressed
// by Range. Allocation is amortised O(1) per push. Nothing is ever
// freed individually; the whole Arena is dropped at once when the
// canonical IR has been produced (or retained, for IDE use cases, per
// the specification's lifecycle note).
type Arena struct {
	exprs     []Expr
	stmts     []Stmt
	patterns  []Pattern
	arms      []MatchArm
	typeExprs []TypeExpr

	// child-list backing vectors, one per element type
	exprIds   []ExprId
	stmtIds   []StmtId
	patIds    []PatternId
	armIds    []MatchArmId
	typeIds   []TypeExprId
	params    []Param
	namedArgs []NamedArg
	fields    []FieldInit
	fieldPats []FieldPattern
	tmplParts []TemplatePart
	names     []uint32 // intern.Name values, stored as uint32 for a uniform list vector
}

// NewArena returns an empty Arena ready for a parser to populate.
func NewArena() *Arena {
	return &Arena{}
}

// PushExpr appends an Expr node and returns its id.
func (a *Arena) PushExpr(e Expr) ExprId {
	id := ExprId(len(a.exprs))
	a.exprs = append(a.exprs, e)
	return id
}

// Expr returns the node at id. The returned value is a copy (Expr is
// small and holds no pointers), so callers may freely hold it after
// further pushes.
func (a *Arena) Expr(id ExprId) Expr { return a.exprs[id] }

// ExprPtr returns a pointer into the arena's backing vector for
// in-place mutation of a node after it has already been pushed. The
// Arena itself stores no constant data.
func (a *Arena) ExprPtr(id ExprId) *Expr { return &a.exprs[id] }

func (a *Arena) PushStmt(s Stmt) StmtId {
	id := StmtId(len(a.stmts))
	a.stmts = append(a.stmts, s)
	return id
}
func (a *Arena) Stmt(id StmtId) Stmt { return a.stmts[id] }

func (a *Arena) PushPattern(p Pattern) PatternId {
	id := PatternId(len(a.patterns))
	a.patterns = append(a.patterns, p)
	return id
}
func (a *Arena) Pattern(id PatternId) Pattern { return a.patterns[id] }

func (a *Arena) PushArm(m MatchArm) MatchArmId {
	id := MatchArmId(len(a.arms))
	a.arms = append(a.arms, m)
	return id
}
func (a *Arena) Arm(id MatchArmId) MatchArm { return a.arms[id] }

func (a *Arena) PushTypeExpr(t TypeExpr) TypeExprId {
	id := TypeExprId(len(a.typeExprs))
	a.typeExprs = append(a.typeExprs, t)
	return id
}
func (a *Arena) TypeExpr(id TypeExprId) TypeExpr { return a.typeExprs[id] }

// PushExprList allocates a new contiguous Range in the ExprId child
// vector and copies ids into it.
func (a *Arena) PushExprList(ids []ExprId) Range {
	r := rangeFor(len(a.exprIds), len(ids))
	a.exprIds = append(a.exprIds, ids...)
	return r
}
func (a *Arena) ExprList(r Range) []ExprId { return a.exprIds[r.Start:r.end()] }

func (a *Arena) PushStmtList(ids []StmtId) Range {
	r := rangeFor(len(a.stmtIds), len(ids))
	a.stmtIds = append(a.stmtIds, ids...)
	return r
}
func (a *Arena) StmtList(r Range) []StmtId { return a.stmtIds[r.Start:r.end()] }

func (a *Arena) PushPatternList(ids []PatternId) Range {
	r := rangeFor(len(a.patIds), len(ids))
	a.patIds = append(a.patIds, ids...)
	return r
}
func (a *Arena) PatternList(r Range) []PatternId { return a.patIds[r.Start:r.end()] }

func (a *Arena) PushArmList(ids []MatchArmId) Range {
	r := rangeFor(len(a.armIds), len(ids))
	a.armIds = append(a.armIds, ids...)
	return r
}
func (a *Arena) ArmList(r Range) []MatchArmId { return a.armIds[r.Start:r.end()] }

func (a *Arena) PushTypeExprList(ids []TypeExprId) Range {
	r := rangeFor(len(a.typeIds), len(ids))
	a.typeIds = append(a.typeIds, ids...)
	return r
}
func (a *Arena) TypeExprList(r Range) []TypeExprId { return a.typeIds[r.Start:r.end()] }

func (a *Arena) PushParams(ps []Param) Range {
	r := rangeFor(len(a.params), len(ps))
	a.params = append(a.params, ps...)
	return r
}
func (a *Arena) Params(r Range) []Param { return a.params[r.Start:r.end()] }

func (a *Arena) PushNamedArgs(xs []NamedArg) Range {
	r := rangeFor(len(a.namedArgs), len(xs))
	a.namedArgs = append(a.namedArgs, xs...)
	return r
}
func (a *Arena) NamedArgs(r Range) []NamedArg { return a.namedArgs[r.Start:r.end()] }

func (a *Arena) PushFields(xs []FieldInit) Range {
	r := rangeFor(len(a.fields), len(xs))
	a.fields = append(a.fields, xs...)
	return r
}
func (a *Arena) Fields(r Range) []FieldInit { return a.fields[r.Start:r.end()] }

func (a *Arena) PushFieldPatterns(xs []FieldPattern) Range {
	r := rangeFor(len(a.fieldPats), len(xs))
	a.fieldPats = append(a.fieldPats, xs...)
	return r
}
func (a *Arena) FieldPatterns(r Range) []FieldPattern { return a.fieldPats[r.Start:r.end()] }

func (a *Arena) PushTemplateParts(xs []TemplatePart) Range {
	r := rangeFor(len(a.tmplParts), len(xs))
	a.tmplParts = append(a.tmplParts, xs...)
	return r
}
func (a *Arena) TemplateParts(r Range) []TemplatePart { return a.tmplParts[r.Start:r.end()] }

// rangeFor builds a Range over a slice about to be appended at offset
// start, panicking if it would overflow the 16-bit length field: this
// mirrors the spec's "node never holds more than 2^16 children of one
// kind" arena-allocator invariant.
func rangeFor(start, n int) Range {
	if n > 0xFFFF {
		panic("ast: child list exceeds arena Range length limit (65535)")
	}
	return Range{Start: uint32(start), Len: uint16(n)}
}

// NumExprs reports the number of nodes pushed so far, useful for
// pre-sizing companion side tables (e.g. the type checker's
// ExprId -> types.Idx map) keyed by ExprId.
func (a *Arena) NumExprs() int { return len(a.exprs) }
