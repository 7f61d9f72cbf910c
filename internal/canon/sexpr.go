package canon

import (
	"fmt"
	"strings"

	"github.com/sunholo/sigil/internal/core"
	"github.com/sunholo/sigil/internal/intern"
)

// Print renders id and everything it dominates as a parenthesized
// s-expression, independent of any particular backend. It exists so
// golden-file tests can pin down the canonicaliser's output shape
// without depending on a pretty-printer owned by a downstream
// consumer (spec §6 lists the backend as "external, interface-only").
func Print(arena *core.Arena, names *intern.Interner, id core.ExprId) string {
	var b strings.Builder
	printExpr(&b, arena, names, id)
	return b.String()
}

func printExpr(b *strings.Builder, arena *core.Arena, names *intern.Interner, id core.ExprId) {
	if id == core.NoExpr {
		b.WriteString("_")
		return
	}
	e := arena.Expr(id)
	switch e.Kind {
	case core.KindLit:
		printLit(b, names, e)
	case core.KindVar:
		b.WriteString(names.Lookup(e.Name))
	case core.KindLambda:
		b.WriteString("(lambda (")
		for i, n := range arena.Names(e.Params) {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(names.Lookup(n))
		}
		b.WriteString(") ")
		printExpr(b, arena, names, e.Body)
		b.WriteByte(')')
	case core.KindApp:
		b.WriteString("(app ")
		printExpr(b, arena, names, e.Callee)
		for _, a := range arena.ExprList(e.Args) {
			b.WriteByte(' ')
			printExpr(b, arena, names, a)
		}
		b.WriteByte(')')
	case core.KindLet:
		fmt.Fprintf(b, "(let %s ", names.Lookup(e.BindName))
		printExpr(b, arena, names, e.Value)
		b.WriteByte(' ')
		printExpr(b, arena, names, e.Body)
		b.WriteByte(')')
	case core.KindLetRec:
		b.WriteString("(letrec (")
		recNames := arena.Names(e.RecNames)
		recValues := arena.ExprList(e.RecValues)
		for i := range recNames {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(b, "(%s ", names.Lookup(recNames[i]))
			printExpr(b, arena, names, recValues[i])
			b.WriteByte(')')
		}
		b.WriteString(") ")
		printExpr(b, arena, names, e.Body)
		b.WriteByte(')')
	case core.KindBlock:
		b.WriteString("(block")
		for _, s := range arena.ExprList(e.Stmts) {
			b.WriteByte(' ')
			printExpr(b, arena, names, s)
		}
		b.WriteByte(')')
	case core.KindIf:
		b.WriteString("(if ")
		printExpr(b, arena, names, e.Cond)
		b.WriteByte(' ')
		printExpr(b, arena, names, e.Then)
		b.WriteByte(' ')
		printExpr(b, arena, names, e.Else)
		b.WriteByte(')')
	case core.KindMatch:
		b.WriteString("(match ")
		printExpr(b, arena, names, e.Scrutinee)
		fmt.Fprintf(b, " tree#%d)", e.Tree)
	case core.KindBinOp:
		fmt.Fprintf(b, "(%s ", names.Lookup(e.Op))
		printExpr(b, arena, names, e.Left)
		b.WriteByte(' ')
		printExpr(b, arena, names, e.Right)
		b.WriteByte(')')
	case core.KindUnOp:
		fmt.Fprintf(b, "(%s ", names.Lookup(e.Op))
		printExpr(b, arena, names, e.Left)
		b.WriteByte(')')
	case core.KindRecord:
		b.WriteString("(record")
		printFields(b, arena, names, e.FieldNames, e.FieldValues)
		b.WriteByte(')')
	case core.KindRecordUpdate:
		b.WriteString("(record-update ")
		printExpr(b, arena, names, e.Base)
		printFields(b, arena, names, e.FieldNames, e.FieldValues)
		b.WriteByte(')')
	case core.KindRecordAccess:
		b.WriteString("(field-access ")
		printExpr(b, arena, names, e.Record)
		fmt.Fprintf(b, " %s)", names.Lookup(e.Field))
	case core.KindList:
		b.WriteString("(list")
		for _, el := range arena.ExprList(e.Elems) {
			b.WriteByte(' ')
			printExpr(b, arena, names, el)
		}
		b.WriteByte(')')
	case core.KindTuple:
		b.WriteString("(tuple")
		for _, el := range arena.ExprList(e.Elems) {
			b.WriteByte(' ')
			printExpr(b, arena, names, el)
		}
		b.WriteByte(')')
	case core.KindMethodCall:
		b.WriteString("(method-call ")
		printExpr(b, arena, names, e.Record)
		fmt.Fprintf(b, " %s", names.Lookup(e.Field))
		for _, a := range arena.ExprList(e.Args) {
			b.WriteByte(' ')
			printExpr(b, arena, names, a)
		}
		b.WriteByte(')')
	case core.KindIndex:
		b.WriteString("(index ")
		printExpr(b, arena, names, e.Record)
		b.WriteByte(' ')
		printExpr(b, arena, names, e.Right)
		b.WriteByte(')')
	default:
		fmt.Fprintf(b, "(unknown-kind %d)", e.Kind)
	}
}

func printFields(b *strings.Builder, arena *core.Arena, names *intern.Interner, fieldNames core.Range, fieldValues core.Range) {
	ns := arena.Names(fieldNames)
	vs := arena.ExprList(fieldValues)
	for i := range ns {
		fmt.Fprintf(b, " (%s ", names.Lookup(ns[i]))
		printExpr(b, arena, names, vs[i])
		b.WriteByte(')')
	}
}

func printLit(b *strings.Builder, names *intern.Interner, e core.Expr) {
	switch e.LitKind {
	case core.LitInt:
		fmt.Fprintf(b, "%d", e.IntVal)
	case core.LitFloat:
		fmt.Fprintf(b, "%g", e.FltVal)
	case core.LitString:
		fmt.Fprintf(b, "%q", names.Lookup(e.StrVal))
	case core.LitBool:
		fmt.Fprintf(b, "%t", e.BoolVal)
	case core.LitUnit:
		b.WriteString("()")
	case core.LitChar:
		fmt.Fprintf(b, "'%s'", names.Lookup(e.StrVal))
	}
}
