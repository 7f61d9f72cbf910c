package canon

import (
	"github.com/sunholo/sigil/internal/core"
	"github.com/sunholo/sigil/internal/intern"
)

// foldBinary pre-evaluates a BinOp whose operands are both already
// literals, per spec §4.G "Constant folding": pure integer/float/bool/
// string expressions whose operands are literals after desugaring are
// pre-evaluated and stored in the constant pool. Anything it cannot
// fold (non-literal operands, an operator it does not recognise)
// returns ok=false and the caller keeps the ordinary KindBinOp node --
// folding is an optimisation, never required for correctness.
func foldBinary(names *intern.Interner, op intern.Name, left, right core.Expr) (core.Expr, bool) {
	if left.Kind != core.KindLit || right.Kind != core.KindLit {
		return core.Expr{}, false
	}
	switch names.Lookup(op) {
	case "+":
		return foldArith(left, right, func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b })
	case "-":
		return foldArith(left, right, func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b })
	case "*":
		return foldArith(left, right, func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b })
	case "/":
		if left.LitKind == core.LitInt && right.LitKind == core.LitInt && right.IntVal == 0 {
			return core.Expr{}, false // division by zero is a runtime concern, not a fold
		}
		return foldArith(left, right, func(a, b int64) int64 { return a / b }, func(a, b float64) float64 { return a / b })
	case "++":
		if left.LitKind == core.LitString && right.LitKind == core.LitString {
			return core.Expr{Kind: core.KindLit, LitKind: core.LitString, StrVal: names.Intern(names.Lookup(left.StrVal) + names.Lookup(right.StrVal))}, true
		}
		return core.Expr{}, false
	case "==":
		return foldCompare(left, right, func(c int) bool { return c == 0 })
	case "!=":
		return foldCompare(left, right, func(c int) bool { return c != 0 })
	case "<":
		return foldCompare(left, right, func(c int) bool { return c < 0 })
	case "<=":
		return foldCompare(left, right, func(c int) bool { return c <= 0 })
	case ">":
		return foldCompare(left, right, func(c int) bool { return c > 0 })
	case ">=":
		return foldCompare(left, right, func(c int) bool { return c >= 0 })
	case "&&":
		if left.LitKind == core.LitBool && right.LitKind == core.LitBool {
			return core.Expr{Kind: core.KindLit, LitKind: core.LitBool, BoolVal: left.BoolVal && right.BoolVal}, true
		}
	case "||":
		if left.LitKind == core.LitBool && right.LitKind == core.LitBool {
			return core.Expr{Kind: core.KindLit, LitKind: core.LitBool, BoolVal: left.BoolVal || right.BoolVal}, true
		}
	}
	return core.Expr{}, false
}

func foldArith(left, right core.Expr, intOp func(a, b int64) int64, fltOp func(a, b float64) float64) (core.Expr, bool) {
	switch {
	case left.LitKind == core.LitInt && right.LitKind == core.LitInt:
		return core.Expr{Kind: core.KindLit, LitKind: core.LitInt, IntVal: intOp(left.IntVal, right.IntVal)}, true
	case left.LitKind == core.LitFloat && right.LitKind == core.LitFloat:
		return core.Expr{Kind: core.KindLit, LitKind: core.LitFloat, FltVal: fltOp(left.FltVal, right.FltVal)}, true
	default:
		return core.Expr{}, false
	}
}

func foldCompare(left, right core.Expr, accept func(cmp int) bool) (core.Expr, bool) {
	var cmp int
	switch {
	case left.LitKind == core.LitInt && right.LitKind == core.LitInt:
		cmp = cmpInt64(left.IntVal, right.IntVal)
	case left.LitKind == core.LitFloat && right.LitKind == core.LitFloat:
		cmp = cmpFloat64(left.FltVal, right.FltVal)
	case left.LitKind == core.LitBool && right.LitKind == core.LitBool:
		cmp = cmpBool(left.BoolVal, right.BoolVal)
	default:
		return core.Expr{}, false
	}
	return core.Expr{Kind: core.KindLit, LitKind: core.LitBool, BoolVal: accept(cmp)}, true
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a && b:
		return -1
	default:
		return 1
	}
}

// foldUnary pre-evaluates a UnOp on an already-literal operand.
func foldUnary(names *intern.Interner, op intern.Name, operand core.Expr) (core.Expr, bool) {
	if operand.Kind != core.KindLit {
		return core.Expr{}, false
	}
	switch names.Lookup(op) {
	case "!":
		if operand.LitKind == core.LitBool {
			return core.Expr{Kind: core.KindLit, LitKind: core.LitBool, BoolVal: !operand.BoolVal}, true
		}
	case "-":
		switch operand.LitKind {
		case core.LitInt:
			return core.Expr{Kind: core.KindLit, LitKind: core.LitInt, IntVal: -operand.IntVal}, true
		case core.LitFloat:
			return core.Expr{Kind: core.KindLit, LitKind: core.LitFloat, FltVal: -operand.FltVal}, true
		}
	}
	return core.Expr{}, false
}
