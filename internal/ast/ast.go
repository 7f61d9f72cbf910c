// Package ast implements the arena-allocated surface AST: a single flat
// vector of nodes per kind, addressed by 32-bit ids, with contiguous
// child lists addressed by Range handles. This replaces the teacher
// compiler's pointer-linked node trees (internal/ast in the ailang
// teacher repo) with the handle-based layout required by the
// specification: no node ever owns another by pointer, only by id or
// Range.
package ast

import "github.com/sunholo/sigil/internal/intern"

// Span is a byte-offset range in the original source text.
type Span struct {
	Start uint32
	End   uint32
}

// Range addresses a contiguous slice of a parallel child-list vector.
// Len is 16 bits: a single node is never expected to hold more than
// 65535 children of one kind; the arena enforces this invariant
// (see rangeFor in arena.go).
type Range struct {
	Start uint32
	Len   uint16
}

func (r Range) end() uint32 { return r.Start + uint32(r.Len) }

// ExprId is a 32-bit index into the Arena's expression vector.
type ExprId uint32

// NoExpr is the sentinel "absent expression" id (e.g. a match arm with
// no guard, or an unannotated parameter).
const NoExpr ExprId = 0xFFFFFFFF

// StmtId indexes the statement vector.
type StmtId uint32

// PatternId indexes the pattern vector.
type PatternId uint32

// MatchArmId indexes the match-arm vector.
type MatchArmId uint32

// TypeExprId indexes the (surface) type-expression vector.
type TypeExprId uint32

// NoType is the sentinel "no type annotation" id.
const NoType TypeExprId = 0xFFFFFFFF

// ExprKind tags the variant stored in an Expr node. The payload fields
// used for each kind are documented next to the Expr struct.
type ExprKind uint8

const (
	ExprLiteral ExprKind = iota
	ExprIdent
	ExprUnary
	ExprBinary
	ExprLambda
	ExprCall
	ExprCallNamed // call with named arguments, desugared away by the canonicaliser
	ExprLet
	ExprLetRec
	ExprBlock
	ExprIf
	ExprMatch
	ExprList
	ExprTuple
	ExprRecord
	ExprRecordAccess
	ExprRecordUpdate
	ExprMethodCall     // recv.method(args...), spec §4.E method calls
	ExprIndex          // recv[i], spec §4.D "Index"
	ExprTemplateString // desugared away by the canonicaliser
	ExprSpread         // rest/spread in a collection literal, desugared away
	ExprError          // parse-error placeholder (recovered subtree)
)

// LiteralKind tags the scalar kind of an ExprLiteral node.
type LiteralKind uint8

const (
	LitInt LiteralKind = iota
	LitFloat
	LitString
	LitBool
	LitUnit
	LitChar
)

// Expr is one arena slot. Only the fields relevant to Kind are
// meaningful; the rest are zero. Children are referenced by id or
// Range, never by pointer.
type Expr struct {
	Kind ExprKind
	Span Span

	// ExprLiteral
	LitKind LiteralKind
	IntVal  int64
	FltVal  float64
	BoolVal bool
	StrVal  intern.Name // LitString, LitChar (single rune encoded as Name)

	// ExprIdent
	Name intern.Name

	// ExprUnary / ExprBinary
	Op    intern.Name
	Left  ExprId
	Right ExprId // unary: unused (NoExpr); operand stored in Left

	// ExprLambda
	Params  Range // of Param
	Effects Range // of intern.Name (effect row annotations)
	Body    ExprId

	// ExprCall / ExprCallNamed
	Callee ExprId
	Args   Range // of ExprId (ExprCall) or NamedArg (ExprCallNamed)

	// ExprLet / ExprLetRec
	BindName intern.Name
	BindType TypeExprId
	Value    ExprId
	// Body reused from ExprLambda.Body for Let/LetRec's continuation

	// ExprBlock
	Stmts Range // of StmtId

	// ExprIf
	Cond ExprId
	Then ExprId
	Else ExprId

	// ExprMatch
	Scrutinee ExprId
	Arms      Range // of MatchArmId

	// ExprList / ExprTuple
	Elems Range // of ExprId

	// ExprRecord / ExprRecordUpdate
	Fields Range // of FieldInit
	Base   ExprId // ExprRecordUpdate: the record being updated

	// ExprRecordAccess
	Record ExprId
	Field  intern.Name

	// ExprMethodCall: Record = receiver, Field = method name, Args =
	// argument list (reusing the same fields ExprRecordAccess/ExprCall
	// already carry, since a method call is syntactically a record
	// access immediately applied).
	//
	// ExprIndex: Record = receiver, Right = index expression.

	// ExprTemplateString
	Parts Range // of TemplatePart

	// ExprSpread
	Inner ExprId
}

// Param is a lambda/function parameter.
type Param struct {
	Name intern.Name
	Type TypeExprId // NoType if untyped
	Span Span
}

// NamedArg is one argument of a named-argument call, eliminated by the
// canonicaliser once the callee's signature is known.
type NamedArg struct {
	Name  intern.Name
	Value ExprId
}

// FieldInit is one `name: value` entry of a record literal or update.
type FieldInit struct {
	Name  intern.Name
	Value ExprId
}

// TemplatePart is either a literal chunk (Expr == NoExpr, Text set) or
// an interpolated expression (Expr valid, Text ignored).
type TemplatePart struct {
	Text intern.Name
	Expr ExprId
}

// StmtKind tags a Stmt node.
type StmtKind uint8

const (
	StmtExpr StmtKind = iota
	StmtLet
)

// Stmt is one arena slot in the statement vector (used inside blocks).
type Stmt struct {
	Kind StmtKind
	Span Span

	Name  intern.Name // StmtLet
	Type  TypeExprId  // StmtLet
	Value ExprId
}

// MatchArm is one arena slot in the match-arm vector.
type MatchArm struct {
	Pattern PatternId
	Guard   ExprId // NoExpr if absent
	Body    ExprId
	Span    Span
}

// PatternKind tags a Pattern node.
type PatternKind uint8

const (
	PatWildcard PatternKind = iota
	PatBinding
	PatLiteral
	PatTuple
	PatList
	PatRecord
	PatConstructor
	PatOr
	PatRange
)

// Pattern is one arena slot in the pattern vector.
type Pattern struct {
	Kind PatternKind
	Span Span

	// PatBinding
	Name intern.Name

	// PatLiteral
	LitKind LiteralKind
	IntVal  int64
	FltVal  float64
	BoolVal bool
	StrVal  intern.Name

	// PatRange
	RangeLo        int64
	RangeHi        int64
	RangeInclusive bool

	// PatTuple / PatOr
	Sub Range // of PatternId

	// PatList: [head..., ..rest, tail...]
	Head Range // of PatternId
	Rest intern.Name // EMPTY if no rest binding, else the rest-binder name
	HasRest bool
	Tail Range // of PatternId

	// PatRecord
	RecFields Range // of FieldPattern

	// PatConstructor
	Ctor     intern.Name
	CtorArgs Range // of PatternId
}

// FieldPattern is one `name: pattern` entry of a record pattern.
type FieldPattern struct {
	Name    intern.Name
	Pattern PatternId
}

// TypeExprKind tags a surface type-annotation node (unresolved; the
// type checker maps these to types.Idx during inference).
type TypeExprKind uint8

const (
	TyName TypeExprKind = iota // e.g. "int", "MyStruct", or a bound type variable
	TyApp                      // generic application, e.g. List<T>
	TyFunc
	TyTuple
)

// TypeExpr is one arena slot in the surface type-expression vector.
type TypeExpr struct {
	Kind TypeExprKind
	Span Span

	Name intern.Name // TyName, TyApp (head name)
	Args Range        // TyApp: of TypeExprId

	Params Range        // TyFunc: of TypeExprId
	Ret    TypeExprId   // TyFunc

	Elems Range // TyTuple: of TypeExprId
}

// ItemKind tags the kind of a top-level declaration.
type ItemKind uint8

const (
	ItemFunc ItemKind = iota
	ItemTypeDecl
	ItemTraitDecl
	ItemImplDecl
)

// FuncDecl is a top-level function: `@name (params) -> type = body`.
type FuncDecl struct {
	Name       intern.Name
	Params     Range // of Param
	ReturnType TypeExprId
	Body       ExprId
	Span       Span
}

// File is the parse result for one source file: a module path, imports,
// and top-level function declarations, all stored by value (no pointer
// ownership) alongside the Arena that actually backs them.
type File struct {
	ModulePath intern.Name
	Imports    []intern.Name
	Funcs      []FuncDecl
}
