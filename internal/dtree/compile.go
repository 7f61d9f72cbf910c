// Package dtree implements the Maranget pattern-match compiler
// (component F): it turns a core.PatternMatrix into a minimal
// core.DecisionTree DAG, with exhaustiveness and redundancy
// diagnostics, per spec §4.F.
//
// Grounded on the teacher's internal/dtree/decision_tree.go (which
// implements a simplified, column-0-only version of the same idea)
// and on original_source/compiler/ori_arc/src/decision_tree/mod.rs,
// whose doc comment names the algorithm this package follows: Maranget
// (2008) "Compiling Pattern Matching to Good Decision Trees", as also
// implemented in Roc and Elm.
package dtree

import (
	"github.com/sunholo/sigil/internal/core"
	"github.com/sunholo/sigil/internal/intern"
)

// Diagnostic is one exhaustiveness/redundancy finding produced while
// compiling a matrix.
type Diagnostic struct {
	NonExhaustive bool
	Witness       string // a sample uncovered pattern, for NonExhaustive
	RedundantArm  int    // arm index, meaningful when !NonExhaustive
}

// Compiler compiles one match expression's arms into a DecisionTree,
// appending subtrees into arena's decision-tree pool.
type Compiler struct {
	arena *core.Arena
	// ConstructorSet, given a ScrutineePath, returns every constructor
	// (tag + arity) known to inhabit the type at that path, so the
	// compiler can decide exhaustiveness (spec §4.F step 5 "known from
	// the type of the scrutinee at that path"). A nil ConstructorSet
	// makes every constructor test appear non-exhaustive by default,
	// which is always sound (it only ever adds a default branch).
	ConstructorSet func(path core.ScrutineePath) []ConstructorInfo
	Diagnostics    []Diagnostic

	// reached records, by ArmIndex, every row that survived to become a
	// Leaf somewhere in the compiled tree. A row that never reaches this
	// set failed Maranget's usefulness check (§3): every value it could
	// match was already claimed by a row above it, i.e. it is redundant.
	// This recursive compiler computes usefulness as a side effect of
	// compilation itself rather than as a separate pass -- specialize
	// and defaultMatrix (switch.go) already do the work of filtering a
	// row out once it can no longer be reached, so "did this row ever
	// become a leaf" is exactly U(P, row) for the matrix P above it.
	reached map[int]bool
}

// ConstructorInfo names one constructor and its arity, used to decide
// whether a column's constructor set is exhaustive.
type ConstructorInfo struct {
	Tag   intern.Name
	Arity int
}

// NewCompiler creates a Compiler writing into arena.
func NewCompiler(arena *core.Arena) *Compiler {
	return &Compiler{arena: arena}
}

// Compile builds a DecisionTree for matrix, rooted at the scrutinee
// (empty ScrutineePath), and returns its id in the arena's pool. Once
// the tree is built, any arm that never became a Leaf is reported as a
// RedundantArm diagnostic (spec §4.F "Exhaustiveness & redundancy"),
// in arm order.
func (c *Compiler) Compile(matrix core.PatternMatrix) core.DecisionTreeId {
	c.reached = make(map[int]bool, len(matrix.Rows))
	root := c.compile(matrix, nil)
	for _, row := range matrix.Rows {
		if !c.reached[row.ArmIndex] {
			c.Diagnostics = append(c.Diagnostics, Diagnostic{RedundantArm: row.ArmIndex})
		}
	}
	return root
}

func (c *Compiler) compile(matrix core.PatternMatrix, path core.ScrutineePath) core.DecisionTreeId {
	// Step 1: zero rows -> Fail (triggers exhaustiveness warning).
	if len(matrix.Rows) == 0 {
		c.Diagnostics = append(c.Diagnostics, Diagnostic{NonExhaustive: true, Witness: witnessFor(path)})
		return c.arena.PushTree(core.DecisionTree{Kind: core.TreeFail})
	}

	first := matrix.Rows[0]

	// Step 2: first row all-wildcard (no guard, or a guard we still
	// must honour via a guard-failure continuation) -> Leaf.
	if isDefaultRow(first) {
		return c.emitLeaf(matrix, path, 0)
	}

	// Step 3: choose a column via the tie-break policy.
	col := chooseColumn(matrix)

	return c.buildSwitch(matrix, path, col)
}

// emitLeaf builds a Leaf for matrix.Rows[rowIdx], collecting its
// Binding-kind bindings, and -- if the row has a guard -- wiring a
// GuardFail continuation compiled from the matrix with that row
// removed (spec §4.F "Guards").
func (c *Compiler) emitLeaf(matrix core.PatternMatrix, path core.ScrutineePath, rowIdx int) core.DecisionTreeId {
	row := matrix.Rows[rowIdx]
	c.reached[row.ArmIndex] = true
	bindings := collectBindings(row.Patterns, path)

	leaf := core.DecisionTree{
		Kind:     core.TreeLeaf,
		ArmIndex: row.ArmIndex,
		Bindings: bindings,
		Guard:    row.Guard,
	}
	if row.Guard != core.NoExpr {
		rest := core.PatternMatrix{Rows: append(append([]core.PatternRow{}, matrix.Rows[:rowIdx]...), matrix.Rows[rowIdx+1:]...)}
		if rowIdx > 0 {
			// A guard never shadows earlier, already-compiled rows;
			// those were handled by the caller's Switch/specialisation
			// before reaching this row. What remains below a failed
			// guard is everything *after* this row.
			rest = core.PatternMatrix{Rows: matrix.Rows[rowIdx+1:]}
		}
		leaf.GuardFail = c.compile(rest, path)
	}
	return c.arena.PushTree(leaf)
}

// isDefaultRow reports whether every cell of row is a wildcard or
// binding (spec §4.F step 2).
func isDefaultRow(row core.PatternRow) bool {
	for _, pat := range row.Patterns {
		if pat.Kind != core.FlatWildcard && pat.Kind != core.FlatBinding {
			return false
		}
	}
	return true
}

// chooseColumn implements spec §4.F step 3's tie-break policy:
// leftmost column whose row-0 cell is a constructor; if row 0 is all
// wildcards, the leftmost column that has a constructor anywhere.
func chooseColumn(matrix core.PatternMatrix) int {
	first := matrix.Rows[0]
	for i, pat := range first.Patterns {
		if isConstructorLike(pat) {
			return i
		}
	}
	width := len(first.Patterns)
	for col := 0; col < width; col++ {
		for _, row := range matrix.Rows {
			if col < len(row.Patterns) && isConstructorLike(row.Patterns[col]) {
				return col
			}
		}
	}
	return 0
}

func isConstructorLike(pat core.FlatPattern) bool {
	switch pat.Kind {
	case core.FlatWildcard, core.FlatBinding:
		return false
	default:
		return true
	}
}

// collectBindings walks a row's patterns, recording Binding-kind cells
// with the ScrutineePath to their value (spec §3 "Bindings: A
// Binding(name) cell ... records name := path_so_far at the leaf").
func collectBindings(patterns []core.FlatPattern, path core.ScrutineePath) []core.Binding {
	var out []core.Binding
	for i, pat := range patterns {
		out = append(out, bindingsIn(pat, append(append(core.ScrutineePath{}, path...), core.PathInstruction{Kind: core.PathTupleElem, Index: i}))...)
	}
	return out
}

func bindingsIn(pat core.FlatPattern, path core.ScrutineePath) []core.Binding {
	switch pat.Kind {
	case core.FlatBinding:
		return []core.Binding{{Name: pat.Name, Path: path}}
	case core.FlatConstructor:
		var out []core.Binding
		for i, sub := range pat.Subpatterns {
			out = append(out, bindingsIn(sub, append(append(core.ScrutineePath{}, path...), core.PathInstruction{Kind: core.PathVariantPayload, Index: i}))...)
		}
		return out
	case core.FlatList:
		var out []core.Binding
		for i, sub := range pat.Head {
			out = append(out, bindingsIn(sub, append(append(core.ScrutineePath{}, path...), core.PathInstruction{Kind: core.PathListHead, Index: i}))...)
		}
		if pat.HasRest {
			out = append(out, core.Binding{Name: pat.Rest, Path: append(append(core.ScrutineePath{}, path...), core.PathInstruction{Kind: core.PathListTail, Index: len(pat.Head)})})
		}
		return out
	case core.FlatOr:
		// Or-patterns are expanded before reaching here (expandOrColumn
		// in switch.go duplicates the row per alternative); a stray FlatOr at a
		// leaf binds nothing extra.
		return nil
	default:
		return nil
	}
}

func witnessFor(path core.ScrutineePath) string {
	if len(path) == 0 {
		return "_"
	}
	return "<uncovered>"
}
