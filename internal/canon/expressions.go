package canon

import (
	"github.com/sunholo/sigil/internal/ast"
	"github.com/sunholo/sigil/internal/core"
	"github.com/sunholo/sigil/internal/errors"
	"github.com/sunholo/sigil/internal/intern"
	"github.com/sunholo/sigil/internal/types"
)

// lowerExpr dispatches over id's surface ExprKind and returns the
// canonical id it lowers to. Every sugar ExprKind (ExprCallNamed,
// ExprTemplateString, ExprSpread) is eliminated here; none of them
// ever reach the returned core.Expr vocabulary (spec §4.G
// "Desugaring").
func (c *Canonicaliser) lowerExpr(id ast.ExprId) core.ExprId {
	if id == ast.NoExpr {
		return core.NoExpr
	}
	node := c.src.Expr(id)

	switch node.Kind {
	case ast.ExprLiteral:
		return c.lowerLiteral(id, node)
	case ast.ExprIdent:
		return c.out.PushExpr(core.Expr{Kind: core.KindVar, Ty: c.tyOf(id), Name: node.Name, OrigSpan: packSpan(node.Span)})
	case ast.ExprUnary:
		return c.lowerUnary(id, node)
	case ast.ExprBinary:
		return c.lowerBinary(id, node)
	case ast.ExprLambda:
		return c.lowerLambda(id, node)
	case ast.ExprCall:
		return c.lowerCall(id, node)
	case ast.ExprCallNamed:
		return c.lowerCallNamed(id, node)
	case ast.ExprLet:
		return c.lowerLet(id, node)
	case ast.ExprLetRec:
		return c.lowerLetRecExpr(id, node)
	case ast.ExprBlock:
		return c.lowerBlock(id, node)
	case ast.ExprIf:
		return c.lowerIf(id, node)
	case ast.ExprMatch:
		return c.lowerMatch(id, node)
	case ast.ExprList:
		return c.lowerList(id, node)
	case ast.ExprTuple:
		return c.lowerTuple(id, node)
	case ast.ExprRecord:
		return c.lowerRecord(id, node)
	case ast.ExprRecordAccess:
		return c.lowerRecordAccess(id, node)
	case ast.ExprRecordUpdate:
		return c.lowerRecordUpdate(id, node)
	case ast.ExprMethodCall:
		return c.lowerMethodCall(id, node)
	case ast.ExprIndex:
		return c.lowerIndex(id, node)
	case ast.ExprTemplateString:
		return c.lowerTemplateString(id, node)
	case ast.ExprSpread:
		// A bare spread only makes sense inside a list literal; lowerList
		// consumes it there (a record's leading `...base` is parsed as an
		// ExprRecordUpdate, not a spread). Reaching here means a spread
		// appeared somewhere else; lower its inner expression so the rest
		// of the tree still canonicalises.
		return c.lowerExpr(node.Inner)
	case ast.ExprError:
		return c.out.PushExpr(core.Expr{Kind: core.KindLit, Ty: types.ErrorType, Constant: core.NoConstant})
	default:
		return c.out.PushExpr(core.Expr{Kind: core.KindLit, Ty: types.ErrorType, Constant: core.NoConstant})
	}
}

func (c *Canonicaliser) lowerLiteral(id ast.ExprId, node ast.Expr) core.ExprId {
	e := core.Expr{
		Kind:     core.KindLit,
		Ty:       c.tyOf(id),
		LitKind:  core.LitKind(node.LitKind),
		IntVal:   node.IntVal,
		FltVal:   node.FltVal,
		BoolVal:  node.BoolVal,
		StrVal:   node.StrVal,
		OrigSpan: packSpan(node.Span),
	}
	e.Constant = c.out.PushConstant(constOf(e))
	return c.out.PushExpr(e)
}

func constOf(e core.Expr) core.ConstValue {
	return core.ConstValue{Kind: e.LitKind, IntVal: e.IntVal, FltVal: e.FltVal, BoolVal: e.BoolVal, StrVal: e.StrVal}
}

func (c *Canonicaliser) lowerUnary(id ast.ExprId, node ast.Expr) core.ExprId {
	operand := c.lowerExpr(node.Left)
	result := core.Expr{Kind: core.KindUnOp, Ty: c.tyOf(id), Op: node.Op, Left: operand, OrigSpan: packSpan(node.Span)}
	if folded, ok := foldUnary(c.names, node.Op, c.out.Expr(operand)); ok {
		folded.Ty = result.Ty
		folded.Constant = c.out.PushConstant(constOf(folded))
		return c.out.PushExpr(folded)
	}
	return c.out.PushExpr(result)
}

func (c *Canonicaliser) lowerBinary(id ast.ExprId, node ast.Expr) core.ExprId {
	left := c.lowerExpr(node.Left)
	right := c.lowerExpr(node.Right)
	result := core.Expr{Kind: core.KindBinOp, Ty: c.tyOf(id), Op: node.Op, Left: left, Right: right, OrigSpan: packSpan(node.Span)}
	if folded, ok := foldBinary(c.names, node.Op, c.out.Expr(left), c.out.Expr(right)); ok {
		folded.Ty = result.Ty
		folded.Constant = c.out.PushConstant(constOf(folded))
		return c.out.PushExpr(folded)
	}
	return c.out.PushExpr(result)
}

func (c *Canonicaliser) lowerLambda(id ast.ExprId, node ast.Expr) core.ExprId {
	params := c.src.Params(node.Params)
	names := make([]intern.Name, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	body := c.lowerExpr(node.Body)
	return c.out.PushExpr(core.Expr{Kind: core.KindLambda, Ty: c.tyOf(id), Params: c.out.PushNames(names), Body: body, OrigSpan: packSpan(node.Span)})
}

func (c *Canonicaliser) lowerCall(id ast.ExprId, node ast.Expr) core.ExprId {
	callee := c.lowerExpr(node.Callee)
	argIds := c.src.ExprList(node.Args)
	args := make([]core.ExprId, len(argIds))
	for i, a := range argIds {
		args[i] = c.lowerExpr(a)
	}
	return c.out.PushExpr(core.Expr{Kind: core.KindApp, Ty: c.tyOf(id), Callee: callee, Args: c.out.PushExprList(args), OrigSpan: packSpan(node.Span)})
}

// lowerCallNamed desugars a named-argument call into a positional
// core.KindApp, resolving argument order against the callee's
// declared parameter order when the callee is a plain top-level
// function reference (spec §4.G "Named-argument calls -> positional
// calls (parameter order resolved against the callee's signature)").
// A callee this pass cannot resolve (a computed callee, a method, …)
// falls back to the order the arguments were written in, which is
// always a valid (if possibly wrong) positional call shape rather
// than a crash -- the type checker will have already flagged any
// resulting mismatch.
func (c *Canonicaliser) lowerCallNamed(id ast.ExprId, node ast.Expr) core.ExprId {
	named := c.src.NamedArgs(node.Args)
	var order []intern.Name
	if calleeNode := c.src.Expr(node.Callee); calleeNode.Kind == ast.ExprIdent {
		order = c.paramOrder[calleeNode.Name]
	}

	var args []core.ExprId
	if order == nil {
		args = make([]core.ExprId, len(named))
		for i, na := range named {
			args[i] = c.lowerExpr(na.Value)
		}
	} else {
		args = make([]core.ExprId, len(order))
		for i := range args {
			args[i] = core.NoExpr
		}
		for _, na := range named {
			for i, pname := range order {
				if pname == na.Name {
					args[i] = c.lowerExpr(na.Value)
				}
			}
		}
	}

	callee := c.lowerExpr(node.Callee)
	return c.out.PushExpr(core.Expr{Kind: core.KindApp, Ty: c.tyOf(id), Callee: callee, Args: c.out.PushExprList(args), OrigSpan: packSpan(node.Span)})
}

func (c *Canonicaliser) lowerLet(id ast.ExprId, node ast.Expr) core.ExprId {
	value := c.lowerExpr(node.Value)
	body := c.lowerExpr(node.Body)
	return c.out.PushExpr(core.Expr{Kind: core.KindLet, Ty: c.tyOf(id), BindName: node.BindName, Value: value, Body: body, OrigSpan: packSpan(node.Span)})
}

func (c *Canonicaliser) lowerLetRecExpr(id ast.ExprId, node ast.Expr) core.ExprId {
	value := c.lowerExpr(node.Value)
	body := c.lowerExpr(node.Body)
	return c.out.PushExpr(core.Expr{
		Kind:      core.KindLetRec,
		Ty:        c.tyOf(id),
		RecNames:  c.out.PushNames([]intern.Name{node.BindName}),
		RecValues: c.out.PushExprList([]core.ExprId{value}),
		Body:      body,
		OrigSpan:  packSpan(node.Span),
	})
}

func (c *Canonicaliser) lowerBlock(id ast.ExprId, node ast.Expr) core.ExprId {
	stmtIds := c.src.StmtList(node.Stmts)
	exprs := make([]core.ExprId, 0, len(stmtIds))
	for _, stmtId := range stmtIds {
		stmt := c.src.Stmt(stmtId)
		switch stmt.Kind {
		case ast.StmtLet:
			value := c.lowerExpr(stmt.Value)
			exprs = append(exprs, c.out.PushExpr(core.Expr{Kind: core.KindLet, Ty: c.tyOfStmtValue(stmt), BindName: stmt.Name, Value: value, Body: core.NoExpr}))
		case ast.StmtExpr:
			exprs = append(exprs, c.lowerExpr(stmt.Value))
		}
	}
	return c.out.PushExpr(core.Expr{Kind: core.KindBlock, Ty: c.tyOf(id), Stmts: c.out.PushExprList(exprs), OrigSpan: packSpan(node.Span)})
}

func (c *Canonicaliser) tyOfStmtValue(stmt ast.Stmt) types.Idx {
	return c.tyOf(stmt.Value)
}

func (c *Canonicaliser) lowerIf(id ast.ExprId, node ast.Expr) core.ExprId {
	cond := c.lowerExpr(node.Cond)
	then := c.lowerExpr(node.Then)
	els := c.lowerExpr(node.Else)
	return c.out.PushExpr(core.Expr{Kind: core.KindIf, Ty: c.tyOf(id), Cond: cond, Then: then, Else: els, OrigSpan: packSpan(node.Span)})
}

func (c *Canonicaliser) lowerList(id ast.ExprId, node ast.Expr) core.ExprId {
	elemIds := c.src.ExprList(node.Elems)
	var acc core.ExprId = core.NoExpr
	var plain []core.ExprId

	flush := func() {
		if len(plain) == 0 {
			return
		}
		lst := c.out.PushExpr(core.Expr{Kind: core.KindList, Ty: c.tyOf(id), Elems: c.out.PushExprList(plain)})
		acc = c.chainExtend(acc, lst, c.tyOf(id))
		plain = nil
	}

	for _, elemId := range elemIds {
		elemNode := c.src.Expr(elemId)
		if elemNode.Kind == ast.ExprSpread {
			flush()
			acc = c.chainExtend(acc, c.lowerExpr(elemNode.Inner), c.tyOf(id))
			continue
		}
		plain = append(plain, c.lowerExpr(elemId))
	}
	flush()

	if acc == core.NoExpr {
		acc = c.out.PushExpr(core.Expr{Kind: core.KindList, Ty: c.tyOf(id)})
	}
	return acc
}

// chainExtend folds a run of plain list elements (or a spread value)
// into an accumulator, desugaring `[...a, b, ...c]`-style spreads into
// a chain of calls to the `extend` builtin method (spec §4.G
// "Spread/rest in list/map/struct literals -> constructor method
// calls (extend, merge)").
func (c *Canonicaliser) chainExtend(acc, next core.ExprId, ty types.Idx) core.ExprId {
	if acc == core.NoExpr {
		return next
	}
	extend := c.out.PushExpr(core.Expr{Kind: core.KindVar, Ty: ty, Name: c.names.Intern("extend")})
	return c.out.PushExpr(core.Expr{Kind: core.KindApp, Ty: ty, Callee: extend, Args: c.out.PushExprList([]core.ExprId{acc, next})})
}

func (c *Canonicaliser) lowerTuple(id ast.ExprId, node ast.Expr) core.ExprId {
	elemIds := c.src.ExprList(node.Elems)
	elems := make([]core.ExprId, len(elemIds))
	for i, elemId := range elemIds {
		elems[i] = c.lowerExpr(elemId)
	}
	return c.out.PushExpr(core.Expr{Kind: core.KindTuple, Ty: c.tyOf(id), Elems: c.out.PushExprList(elems), OrigSpan: packSpan(node.Span)})
}

func (c *Canonicaliser) lowerRecord(id ast.ExprId, node ast.Expr) core.ExprId {
	fields := c.src.Fields(node.Fields)
	names := make([]intern.Name, len(fields))
	values := make([]core.ExprId, len(fields))
	for i, f := range fields {
		names[i] = f.Name
		values[i] = c.lowerExpr(f.Value)
	}
	return c.out.PushExpr(core.Expr{Kind: core.KindRecord, Ty: c.tyOf(id), FieldNames: c.out.PushNames(names), FieldValues: c.out.PushExprList(values), OrigSpan: packSpan(node.Span)})
}

func (c *Canonicaliser) lowerRecordAccess(id ast.ExprId, node ast.Expr) core.ExprId {
	rec := c.lowerExpr(node.Record)
	return c.out.PushExpr(core.Expr{Kind: core.KindRecordAccess, Ty: c.tyOf(id), Record: rec, Field: node.Field, OrigSpan: packSpan(node.Span)})
}

// lowerMethodCall lowers a surface recv.method(args...) call into its
// own canonical node (spec §4.E), distinct from KindApp so a backend
// can tell a resolved method dispatch apart from an ordinary function
// application without re-deriving it from an ExprRecordAccess shape.
func (c *Canonicaliser) lowerMethodCall(id ast.ExprId, node ast.Expr) core.ExprId {
	rec := c.lowerExpr(node.Record)
	argIds := c.src.ExprList(node.Args)
	args := make([]core.ExprId, len(argIds))
	for i, a := range argIds {
		args[i] = c.lowerExpr(a)
	}
	return c.out.PushExpr(core.Expr{Kind: core.KindMethodCall, Ty: c.tyOf(id), Record: rec, Field: node.Field, Args: c.out.PushExprList(args), OrigSpan: packSpan(node.Span)})
}

// lowerIndex lowers recv[i] (spec §4.D "Index").
func (c *Canonicaliser) lowerIndex(id ast.ExprId, node ast.Expr) core.ExprId {
	rec := c.lowerExpr(node.Record)
	idx := c.lowerExpr(node.Right)
	return c.out.PushExpr(core.Expr{Kind: core.KindIndex, Ty: c.tyOf(id), Record: rec, Right: idx, OrigSpan: packSpan(node.Span)})
}

func (c *Canonicaliser) lowerRecordUpdate(id ast.ExprId, node ast.Expr) core.ExprId {
	base := c.lowerExpr(node.Base)
	fields := c.src.Fields(node.Fields)
	names := make([]intern.Name, len(fields))
	values := make([]core.ExprId, len(fields))
	for i, f := range fields {
		names[i] = f.Name
		values[i] = c.lowerExpr(f.Value)
	}
	return c.out.PushExpr(core.Expr{Kind: core.KindRecordUpdate, Ty: c.tyOf(id), Base: base, FieldNames: c.out.PushNames(names), FieldValues: c.out.PushExprList(values), OrigSpan: packSpan(node.Span)})
}

// lowerTemplateString desugars a template literal into a chain of
// string concatenations (spec §4.G), using the same "++" operator the
// type checker's inferBinary treats as concatenation.
func (c *Canonicaliser) lowerTemplateString(id ast.ExprId, node ast.Expr) core.ExprId {
	parts := c.src.TemplateParts(node.Parts)
	concatOp := c.names.Intern("++")
	var acc core.ExprId = core.NoExpr

	for _, p := range parts {
		var part core.ExprId
		if p.Expr != ast.NoExpr {
			part = c.lowerExpr(p.Expr)
		} else {
			lit := core.Expr{Kind: core.KindLit, Ty: types.Str, LitKind: core.LitString, StrVal: p.Text}
			lit.Constant = c.out.PushConstant(constOf(lit))
			part = c.out.PushExpr(lit)
		}
		if acc == core.NoExpr {
			acc = part
			continue
		}
		acc = c.out.PushExpr(core.Expr{Kind: core.KindBinOp, Ty: types.Str, Op: concatOp, Left: acc, Right: part})
	}

	if acc == core.NoExpr {
		lit := core.Expr{Kind: core.KindLit, Ty: types.Str, LitKind: core.LitString, StrVal: intern.EMPTY}
		lit.Constant = c.out.PushConstant(constOf(lit))
		acc = c.out.PushExpr(lit)
	}
	return acc
}

// errQueue exposes the diagnostics queue to the match-compilation pass
// in patterns.go without making Canonicaliser's field public.
func (c *Canonicaliser) errQueue() *errors.Queue { return c.queue }
