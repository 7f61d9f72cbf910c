package core

import "github.com/sunholo/sigil/internal/intern"

// Arena is the canonical IR's flat backing store: one vector of Expr
// nodes, parallel child-list vectors, a decision-tree pool, and a
// constant pool -- produced once per compilation unit by the
// canonicaliser and consumed read-only by both backends (spec §3
// "Lifecycle").
type Arena struct {
	exprs []Expr

	exprIds []ExprId
	names   []intern.Name

	trees []DecisionTree
	pool  []ConstValue
}

// NewArena returns an empty canonical-IR arena.
func NewArena() *Arena { return &Arena{} }

func (a *Arena) PushExpr(e Expr) ExprId {
	id := ExprId(len(a.exprs))
	a.exprs = append(a.exprs, e)
	return id
}
func (a *Arena) Expr(id ExprId) Expr { return a.exprs[id] }
func (a *Arena) NumExprs() int       { return len(a.exprs) }

func (a *Arena) PushExprList(ids []ExprId) Range {
	r := Range{Start: uint32(len(a.exprIds)), Len: uint16(len(ids))}
	a.exprIds = append(a.exprIds, ids...)
	return r
}
func (a *Arena) ExprList(r Range) []ExprId { return a.exprIds[r.Start:r.end()] }

func (a *Arena) PushNames(ns []intern.Name) Range {
	r := Range{Start: uint32(len(a.names)), Len: uint16(len(ns))}
	a.names = append(a.names, ns...)
	return r
}
func (a *Arena) Names(r Range) []intern.Name { return a.names[r.Start:r.end()] }

// PushTree appends a compiled decision tree to the pool and returns
// its id. The pool is write-once per unit (spec §5 "Decision-tree and
// constant pools are write-once per unit").
func (a *Arena) PushTree(t DecisionTree) DecisionTreeId {
	id := DecisionTreeId(len(a.trees))
	a.trees = append(a.trees, t)
	return id
}
func (a *Arena) Tree(id DecisionTreeId) DecisionTree { return a.trees[id] }

// PushConstant appends a constant-pool entry and returns its id.
func (a *Arena) PushConstant(c ConstValue) ConstantId {
	id := ConstantId(len(a.pool))
	a.pool = append(a.pool, c)
	return id
}
func (a *Arena) Constant(id ConstantId) ConstValue { return a.pool[id] }
