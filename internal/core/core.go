// Package core implements the canonical IR (component C): a sugar-free,
// type-annotated mirror of the surface AST, with match expressions
// replaced by compiled decision trees and a constant pool for
// const-folded subexpressions.
//
// Structurally this is the same arena-and-Range-handle shape as
// internal/ast, following spec §3 "Canonical IR": every node carries a
// resolved types.Idx, sugar variants are absent, and a DecisionTreeId
// stands in for what used to be a surface match. Grounded on the
// teacher's ANF-flavoured internal/core/core.go (Var/Lit/Lambda/
// Let/LetRec/App/If/Match/BinOp/UnOp/Record/List node vocabulary),
// adapted from a pointer-linked CoreExpr tree to an arena of handles.
package core

import (
	"github.com/sunholo/sigil/internal/intern"
	"github.com/sunholo/sigil/internal/types"
)

// ExprId indexes the canonical expression arena.
type ExprId uint32

// NoExpr is the "absent expression" sentinel (e.g. no guard).
const NoExpr ExprId = 0xFFFFFFFF

// DecisionTreeId indexes the decision-tree pool.
type DecisionTreeId uint32

// ConstantId indexes the constant pool.
type ConstantId uint32

// NoConstant marks a node that was not constant-folded.
const NoConstant ConstantId = 0xFFFFFFFF

// Kind tags the variant of a canonical Expr. There are no sugar
// variants here: named-argument calls have been made positional,
// template strings have become concatenation chains, and list spreads
// have become explicit `extend` calls (a record's leading spread is a
// KindRecordUpdate; no `merge` call is emitted), all by the canonicaliser
// (internal/canon) before a node ever reaches this arena.
type Kind uint8

const (
	KindLit Kind = iota
	KindVar
	KindLambda
	KindApp
	KindLet
	KindLetRec
	KindBlock
	KindIf
	KindMatch
	KindBinOp
	KindUnOp
	KindRecord
	KindRecordAccess
	KindRecordUpdate
	KindList
	KindTuple
	KindMethodCall
	KindIndex
)

// LitKind mirrors ast.LiteralKind.
type LitKind uint8

const (
	LitInt LitKind = iota
	LitFloat
	LitString
	LitBool
	LitUnit
	LitChar
)

// Expr is one canonical-IR arena slot. Every node carries Ty, its
// resolved type, and Constant, which is NoConstant unless the
// const-folder pre-evaluated it (spec §4.G "Type attachment" /
// "Constant folding"). OrigSpan traces back to the originating surface
// node for diagnostics, mirroring the teacher's CoreNode.OrigSpan.
type Expr struct {
	Kind     Kind
	Ty       types.Idx
	Constant ConstantId
	OrigSpan uint64 // packed (start<<32|end) surface span, kept numeric to avoid an ast import cycle

	// KindLit
	LitKind LitKind
	IntVal  int64
	FltVal  float64
	BoolVal bool
	StrVal  intern.Name

	// KindVar
	Name intern.Name

	// KindLambda
	Params Range // of intern.Name
	Body   ExprId

	// KindApp
	Callee ExprId
	Args   Range // of ExprId

	// KindLet / KindLetRec
	BindName intern.Name
	Value    ExprId
	// Body reused from KindLambda's Body field for the continuation

	// KindLetRec: multiple bindings
	RecNames  Range // of intern.Name
	RecValues Range // of ExprId

	// KindBlock
	Stmts Range // of ExprId, each evaluated and discarded except the last

	// KindIf
	Cond ExprId
	Then ExprId
	Else ExprId

	// KindMatch
	Scrutinee ExprId
	Tree      DecisionTreeId

	// KindBinOp / KindUnOp
	Op    intern.Name
	Left  ExprId
	Right ExprId

	// KindRecord / KindRecordUpdate
	FieldNames  Range // of intern.Name
	FieldValues Range // of ExprId
	Base        ExprId // KindRecordUpdate only

	// KindRecordAccess
	Record ExprId
	Field  intern.Name

	// KindList / KindTuple
	Elems Range // of ExprId

	// KindMethodCall: Record = receiver, Field = method name, Args
	// (reused from KindApp) = argument list.
	//
	// KindIndex: Record = receiver, Right (reused from KindBinOp) =
	// index expression.
}

// Range addresses a contiguous slice of a parallel child-list vector,
// the same handle shape as ast.Range.
type Range struct {
	Start uint32
	Len   uint16
}

func (r Range) end() uint32 { return r.Start + uint32(r.Len) }

// ConstValue is one constant-pool entry: small scalars are stored
// inline, strings are interned.
type ConstValue struct {
	Kind    LitKind
	IntVal  int64
	FltVal  float64
	BoolVal bool
	StrVal  intern.Name
}
