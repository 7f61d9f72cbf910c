package core

import "github.com/sunholo/sigil/internal/intern"

// This file defines the decision-tree and pattern-matrix types shared
// between the canonicaliser (which builds them) and the dtree compiler
// (component F, which the canonicaliser calls into). Keeping the types
// here -- rather than in internal/dtree -- mirrors original_source's
// layout note: "type definitions live in ori_ir::canon::tree (shared
// across crates); the compilation algorithm ... lives [in the
// dedicated crate]" so that both sides can depend on one definition
// without an import cycle between internal/core and internal/dtree.

// PathInstruction is one step of a ScrutineePath: how to reach a
// sub-value of the scrutinee from the root.
type PathInstructionKind uint8

const (
	PathField PathInstructionKind = iota
	PathVariantPayload
	PathListHead
	PathListTail
	PathTupleElem
)

type PathInstruction struct {
	Kind  PathInstructionKind
	Index int         // PathTupleElem, PathListTail(n), PathVariantPayload's positional index
	Field intern.Name // PathField
}

// ScrutineePath is the sequence of PathInstructions from the match
// scrutinee to the value a Switch node tests.
type ScrutineePath []PathInstruction

// TestKind tags a TestValue's payload interpretation.
type TestKind uint8

const (
	TestInt TestKind = iota
	TestBool
	TestStr
	TestVariant
	TestRange
	TestWildcard
)

// TestValue is the label of one SwitchCase in a Switch node's Cases: spec §3
// "Int(i), Bool(b), Str(s), Variant(tag), Range(a,b,inclusive), or
// Wildcard".
type TestValue struct {
	Kind      TestKind
	IntVal    int64
	BoolVal   bool
	StrVal    intern.Name
	Variant   intern.Name
	RangeLo   int64
	RangeHi   int64
	Inclusive bool
}

// TreeKind discriminates a DecisionTree node.
type TreeKind uint8

const (
	TreeLeaf TreeKind = iota
	TreeFail
	TreeSwitch
)

// SwitchCase is one (TestValue, subtree) pair of a Switch node.
type SwitchCase struct {
	Test TestValue
	Next DecisionTreeId
}

// DecisionTree is one arena slot of the decision-tree pool (spec §3
// "Decision tree"): a node is either Leaf(arm_index, bindings), Fail
// (no match), or Switch{path, tests, default}.
type DecisionTree struct {
	Kind TreeKind

	// TreeLeaf
	ArmIndex int
	Bindings []Binding
	Guard    ExprId // NoExpr if the arm had no guard
	GuardFail DecisionTreeId // continuation to try when Guard evaluates false; only meaningful if Guard != NoExpr

	// TreeSwitch
	Path    ScrutineePath
	Cases   []SwitchCase
	Default DecisionTreeId
	HasDefault bool
}

// Binding names a variable an arm's pattern bound, together with the
// ScrutineePath locating its value at runtime.
type Binding struct {
	Name intern.Name
	Path ScrutineePath
}

// FlatPattern is one pattern-matrix cell (spec §3 "Pattern matrix").
type FlatPatternKind uint8

const (
	FlatWildcard FlatPatternKind = iota
	FlatBinding
	FlatLiteral
	FlatConstructor
	FlatOr
	FlatRange
	FlatList
)

type FlatPattern struct {
	Kind FlatPatternKind

	Name intern.Name // FlatBinding

	Literal TestValue // FlatLiteral

	Tag         intern.Name // FlatConstructor
	Subpatterns []FlatPattern // FlatConstructor, FlatOr

	RangeLo   int64 // FlatRange
	RangeHi   int64
	Inclusive bool

	Head []FlatPattern // FlatList: fixed-length head patterns
	Rest intern.Name   // FlatList: rest-binder name, intern.EMPTY if none
	HasRest bool
	Tail []FlatPattern // FlatList: fixed-length tail patterns (after ..rest)
}

// PatternRow is one row of a PatternMatrix: the arm's patterns (one
// per scrutinee column), its guard, and its body.
type PatternRow struct {
	Patterns []FlatPattern
	Guard    ExprId
	Body     ExprId
	ArmIndex int
}

// PatternMatrix is the rectangular input to the Maranget compilation
// algorithm: rows are arms, columns are scrutinee positions.
type PatternMatrix struct {
	Rows []PatternRow
}
