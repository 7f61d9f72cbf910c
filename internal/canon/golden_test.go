package canon

import (
	"testing"

	"github.com/sunholo/sigil/internal/ast"
	"github.com/sunholo/sigil/internal/intern"
)

// TestCanonGoldenIdentityFunction pins the canonicaliser's s-expression
// output for a trivial identity function, so a future refactor of the
// lowering passes gets flagged by a diff instead of silently changing
// the arena's shape.
func TestCanonGoldenIdentityFunction(t *testing.T) {
	names := intern.New()
	arena := ast.NewArena()

	intType := arena.PushTypeExpr(ast.TypeExpr{Kind: ast.TyName, Name: names.Intern("int")})
	xName := names.Intern("x")
	body := arena.PushExpr(ast.Expr{Kind: ast.ExprIdent, Name: xName})
	f := &ast.File{
		ModulePath: names.Intern("main"),
		Funcs: []ast.FuncDecl{
			{Name: names.Intern("identity"), Params: arena.PushParams([]ast.Param{{Name: xName, Type: intType}}), ReturnType: intType, Body: body},
		},
	}

	mod, result, _ := checkAndCanonicalise(t, names, arena, f)
	if mod.Diagnostics.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", mod.Diagnostics.Reports())
	}

	root := result.Roots[names.Intern("identity")]
	goldenCompare(t, "identity", Print(result.Arena, names, root))
}

// TestCanonGoldenArithmetic pins the constant-folded shape of a
// two-operand arithmetic function body.
func TestCanonGoldenArithmetic(t *testing.T) {
	names := intern.New()
	arena := ast.NewArena()

	one := arena.PushExpr(ast.Expr{Kind: ast.ExprLiteral, LitKind: ast.LitInt, IntVal: 1})
	two := arena.PushExpr(ast.Expr{Kind: ast.ExprLiteral, LitKind: ast.LitInt, IntVal: 2})
	sum := arena.PushExpr(ast.Expr{Kind: ast.ExprBinary, Op: names.Intern("+"), Left: one, Right: two})

	f := &ast.File{
		ModulePath: names.Intern("main"),
		Funcs:      []ast.FuncDecl{{Name: names.Intern("three"), Body: sum}},
	}

	mod, result, _ := checkAndCanonicalise(t, names, arena, f)
	if mod.Diagnostics.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", mod.Diagnostics.Reports())
	}

	root := result.Roots[names.Intern("three")]
	goldenCompare(t, "arithmetic", Print(result.Arena, names, root))
}
