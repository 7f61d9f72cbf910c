package canon

import (
	"fmt"
	"math"

	"github.com/sunholo/sigil/internal/ast"
	"github.com/sunholo/sigil/internal/core"
	"github.com/sunholo/sigil/internal/dtree"
	"github.com/sunholo/sigil/internal/errors"
	"github.com/sunholo/sigil/internal/intern"
	"github.com/sunholo/sigil/internal/types"
)

// lowerMatch builds a core.PatternMatrix from node's arms, compiles it
// with the Maranget compiler (component F), and emits the surviving
// exhaustiveness/redundancy findings as PAT001/PAT002 diagnostics
// (spec §4.F, §4.G "Match compilation": "every AST match becomes a
// scrutinee plus a DecisionTreeId").
func (c *Canonicaliser) lowerMatch(id ast.ExprId, node ast.Expr) core.ExprId {
	scrutinee := c.lowerExpr(node.Scrutinee)
	armIds := c.src.ArmList(node.Arms)

	var rows []core.PatternRow
	for i, armId := range armIds {
		arm := c.src.Arm(armId)
		rows = append(rows, core.PatternRow{
			Patterns: []core.FlatPattern{c.flattenPattern(arm.Pattern)},
			Guard:    c.lowerExpr(arm.Guard),
			Body:     c.lowerExpr(arm.Body),
			ArmIndex: i,
		})
	}
	matrix := core.PatternMatrix{Rows: rows}

	compiler := dtree.NewCompiler(c.out)
	compiler.ConstructorSet = c.constructorSetFor(c.tyOf(node.Scrutinee))
	tree := compiler.Compile(matrix)
	c.reportMatchDiagnostics(id, compiler.Diagnostics)

	return c.out.PushExpr(core.Expr{Kind: core.KindMatch, Ty: c.tyOf(id), Scrutinee: scrutinee, Tree: tree, OrigSpan: packSpan(node.Span)})
}

func (c *Canonicaliser) reportMatchDiagnostics(id ast.ExprId, diags []dtree.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	span := c.src.Expr(id).Span
	for _, d := range diags {
		if d.NonExhaustive {
			info, _ := errors.Lookup(errors.PAT001)
			c.queue.Push(&errors.Report{
				Schema: "sigil.diagnostic/v1", Code: errors.PAT001, Severity: info.Severity, Phase: info.Phase,
				Message: "non-exhaustive match, e.g. " + d.Witness, PrimarySpan: span, PrimaryLabel: "not every case is handled here",
			})
		} else {
			info, _ := errors.Lookup(errors.PAT002)
			c.queue.Push(&errors.Report{
				Schema: "sigil.diagnostic/v1", Code: errors.PAT002, Severity: info.Severity, Phase: info.Phase,
				Message: fmt.Sprintf("arm %d is unreachable", d.RedundantArm), PrimarySpan: span, PrimaryLabel: "this arm can never match",
			})
		}
	}
}

// constructorSetFor returns a dtree.ConstructorSet callback for an
// enum scrutinee type, or nil for anything else (structs, primitives,
// tuples, lists -- for which the compiler's nil-safe default of
// "always add a default branch" is sound; see internal/dtree).
func (c *Canonicaliser) constructorSetFor(scrutinee types.Idx) func(core.ScrutineePath) []dtree.ConstructorInfo {
	resolved := c.pool.Resolve(scrutinee)
	if c.pool.Tag(resolved) != types.TagEnum {
		return nil
	}
	variants := c.pool.Variants(resolved)
	infos := make([]dtree.ConstructorInfo, len(variants))
	for i, v := range variants {
		infos[i] = dtree.ConstructorInfo{Tag: v.Name, Arity: len(v.Fields)}
	}
	return func(path core.ScrutineePath) []dtree.ConstructorInfo {
		if len(path) != 0 {
			// Nested paths (inside a constructor's own payload) would
			// need the payload's own declared type, which a single
			// top-level scrutinee type does not carry; conservatively
			// deferring to the compiler's nil-safe default there is
			// always sound.
			return nil
		}
		return infos
	}
}

// flattenPattern converts one surface pattern into the core
// decision-tree cell it contributes to a PatternMatrix column (spec
// §4.F "Pattern matrix"). Tuple, record, and list patterns desugar to
// synthetic single-shape constructors, per spec §4.F's "List patterns
// ... desugar to a head/tail/length constructor scheme" extended here
// to tuples and records the same way: since only one shape can ever
// inhabit a tuple/record-typed column, the set of "constructors" at
// that column is always exactly one, and the compiler's default
// (nil ConstructorSet -> always add a default branch) stays sound even
// though it is conservative.
func (c *Canonicaliser) flattenPattern(patId ast.PatternId) core.FlatPattern {
	node := c.src.Pattern(patId)
	switch node.Kind {
	case ast.PatWildcard:
		return core.FlatPattern{Kind: core.FlatWildcard}

	case ast.PatBinding:
		if res, ok := c.typed.PatternResolutions[types.PatternKey(patId)]; ok && res.Kind == types.ResUnitVariant {
			if tag, ok := c.unitVariantTag(res); ok {
				return core.FlatPattern{Kind: core.FlatConstructor, Tag: tag}
			}
		}
		return core.FlatPattern{Kind: core.FlatBinding, Name: node.Name}

	case ast.PatLiteral:
		return core.FlatPattern{Kind: core.FlatLiteral, Literal: literalTestValue(node)}

	case ast.PatRange:
		return core.FlatPattern{Kind: core.FlatRange, RangeLo: node.RangeLo, RangeHi: node.RangeHi, Inclusive: node.RangeInclusive}

	case ast.PatOr:
		subs := c.flattenPatternList(node.Sub)
		return core.FlatPattern{Kind: core.FlatOr, Subpatterns: subs}

	case ast.PatConstructor:
		return core.FlatPattern{Kind: core.FlatConstructor, Tag: node.Ctor, Subpatterns: c.flattenPatternList(node.CtorArgs)}

	case ast.PatTuple:
		subs := c.flattenPatternList(node.Sub)
		tag := c.names.Intern(fmt.Sprintf("#tuple%d", len(subs)))
		return core.FlatPattern{Kind: core.FlatConstructor, Tag: tag, Subpatterns: subs}

	case ast.PatRecord:
		fps := c.src.FieldPatterns(node.RecFields)
		subs := make([]core.FlatPattern, len(fps))
		for i, fp := range fps {
			subs[i] = c.flattenPattern(fp.Pattern)
		}
		tag := c.names.Intern(fmt.Sprintf("#record%d", len(fps)))
		return core.FlatPattern{Kind: core.FlatConstructor, Tag: tag, Subpatterns: subs}

	case ast.PatList:
		return core.FlatPattern{
			Kind:    core.FlatList,
			Head:    c.flattenPatternList(node.Head),
			Rest:    node.Rest,
			HasRest: node.HasRest,
			Tail:    c.flattenPatternList(node.Tail),
			Tag:     c.names.Intern(fmt.Sprintf("#list%d_%d_%v", len(c.src.PatternList(node.Head)), len(c.src.PatternList(node.Tail)), node.HasRest)),
		}

	default:
		return core.FlatPattern{Kind: core.FlatWildcard}
	}
}

func (c *Canonicaliser) flattenPatternList(r ast.Range) []core.FlatPattern {
	ids := c.src.PatternList(r)
	out := make([]core.FlatPattern, len(ids))
	for i, id := range ids {
		out[i] = c.flattenPattern(id)
	}
	return out
}

// unitVariantTag resolves a PatternResolution::UnitVariant's
// (type name, variant index) pair back to the interned tag name the
// type pool actually stores for that variant, per spec §6
// ("PatternResolution::UnitVariant tells the lowering pass that a
// syntactic Binding("Pending") is actually a unit variant reference").
func (c *Canonicaliser) unitVariantTag(res types.PatternResolution) (intern.Name, bool) {
	decl, ok := c.types.Lookup(c.names.Intern(res.TypeName))
	if !ok || decl.Kind != types.DeclEnum {
		return intern.EMPTY, false
	}
	variants := c.pool.Variants(c.pool.Resolve(decl.Idx))
	if res.VariantIndex < 0 || res.VariantIndex >= len(variants) {
		return intern.EMPTY, false
	}
	return variants[res.VariantIndex].Name, true
}

func literalTestValue(node ast.Pattern) core.TestValue {
	switch node.LitKind {
	case ast.LitInt:
		return core.TestValue{Kind: core.TestInt, IntVal: node.IntVal}
	case ast.LitBool:
		return core.TestValue{Kind: core.TestBool, BoolVal: node.BoolVal}
	case ast.LitString, ast.LitChar:
		return core.TestValue{Kind: core.TestStr, StrVal: node.StrVal}
	case ast.LitFloat:
		// core.TestValue has no float payload (floating-point literal
		// patterns are not exact-match safe); fall back to its bit
		// pattern as an int test, which is exact for equality purposes.
		return core.TestValue{Kind: core.TestInt, IntVal: int64(math.Float64bits(node.FltVal))}
	default:
		return core.TestValue{Kind: core.TestInt, IntVal: node.IntVal}
	}
}
