package types

import (
	"testing"

	"github.com/sunholo/sigil/internal/ast"
	"github.com/sunholo/sigil/internal/errors"
	"github.com/sunholo/sigil/internal/intern"
)

// newEngine builds a fresh Engine over an empty registry set, the way
// component E's declaration pass would hand one to the checker.
func newEngine(names *intern.Interner) *Engine {
	builtins := NewBuiltinManifest()
	RegisterBuiltins(builtins, names)
	return NewEngine(NewPool(), names, NewTypeRegistry(), NewTraitRegistry(), NewMethodTable(NewTraitRegistry(), builtins), errors.NewQueue(100))
}

func oneFuncFile(arena *ast.Arena, names *intern.Interner, fnName string, params []ast.Param, retType ast.TypeExprId, body ast.ExprId) *ast.File {
	return &ast.File{
		ModulePath: names.Intern("main"),
		Funcs: []ast.FuncDecl{
			{Name: names.Intern(fnName), Params: arena.PushParams(params), ReturnType: retType, Body: body},
		},
	}
}

// TestInferLiteralIdentityFunction mirrors spec §8's simplest case: a
// function whose body returns its parameter types that body as int
// when the declared param type is int.
func TestInferLiteralIdentityFunction(t *testing.T) {
	names := intern.New()
	arena := ast.NewArena()
	e := newEngine(names)

	intType := arena.PushTypeExpr(ast.TypeExpr{Kind: ast.TyName, Name: names.Intern("int")})
	body := arena.PushExpr(ast.Expr{Kind: ast.ExprIdent, Name: names.Intern("x")})

	f := oneFuncFile(arena, names, "identity",
		[]ast.Param{{Name: names.Intern("x"), Type: intType}},
		intType, body)

	mod := e.CheckFile(arena, f)
	if mod.Diagnostics.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", mod.Diagnostics.Reports())
	}
	ty, ok := mod.ExpressionTypes[body]
	if !ok {
		t.Fatal("no type recorded for the function body expression")
	}
	if e.Pool.Resolve(ty) != Int {
		t.Fatalf("body type = %v, want Int", ty)
	}
}

// TestInferLetGeneralisesPolymorphicId exercises spec §8's
// `let id = x -> x in id(1)` property end-to-end through CheckFile
// rather than Generalize/Instantiate directly (see scheme_test.go for
// the unit-level version): id's scheme must be polymorphic enough to
// be instantiated at two unrelated call sites in the same body.
func TestInferLetGeneralisesPolymorphicId(t *testing.T) {
	names := intern.New()
	arena := ast.NewArena()
	e := newEngine(names)

	idName := names.Intern("id")
	xName := names.Intern("x")

	xIdent := arena.PushExpr(ast.Expr{Kind: ast.ExprIdent, Name: xName})
	lambda := arena.PushExpr(ast.Expr{Kind: ast.ExprLambda, Params: arena.PushParams([]ast.Param{{Name: xName, Type: ast.NoType}}), Body: xIdent})

	callInt := arena.PushExpr(ast.Expr{
		Kind:   ast.ExprCall,
		Callee: arena.PushExpr(ast.Expr{Kind: ast.ExprIdent, Name: idName}),
		Args:   arena.PushExprList([]ast.ExprId{arena.PushExpr(ast.Expr{Kind: ast.ExprLiteral, LitKind: ast.LitInt, IntVal: 1})}),
	})
	callStr := arena.PushExpr(ast.Expr{
		Kind:   ast.ExprCall,
		Callee: arena.PushExpr(ast.Expr{Kind: ast.ExprIdent, Name: idName}),
		Args:   arena.PushExprList([]ast.ExprId{arena.PushExpr(ast.Expr{Kind: ast.ExprLiteral, LitKind: ast.LitString, StrVal: names.Intern("a")})}),
	})
	tuple := arena.PushExpr(ast.Expr{Kind: ast.ExprTuple, Elems: arena.PushExprList([]ast.ExprId{callInt, callStr})})

	letExpr := arena.PushExpr(ast.Expr{Kind: ast.ExprLet, BindName: idName, BindType: ast.NoType, Value: lambda, Body: tuple})

	f := oneFuncFile(arena, names, "main", nil, ast.NoType, letExpr)

	mod := e.CheckFile(arena, f)
	if mod.Diagnostics.HasErrors() {
		t.Fatalf("id should instantiate polymorphically at both call sites, got: %+v", mod.Diagnostics.Reports())
	}
	intTy := e.Pool.Resolve(mod.ExpressionTypes[callInt])
	strTy := e.Pool.Resolve(mod.ExpressionTypes[callStr])
	if intTy != Int {
		t.Fatalf("id(1) : %v, want Int", intTy)
	}
	if strTy != Str {
		t.Fatalf("id(\"a\") : %v, want Str", strTy)
	}
}

// TestInferMutualRecursionAcrossTwoPasses mirrors spec §4.D's two-pass
// module check: isEven calls isOdd before isOdd has been checked, and
// vice versa, so this only type-checks if every signature is
// registered (pass 1) before any body is checked (pass 2).
func TestInferMutualRecursionAcrossTwoPasses(t *testing.T) {
	names := intern.New()
	arena := ast.NewArena()
	e := newEngine(names)

	intType := arena.PushTypeExpr(ast.TypeExpr{Kind: ast.TyName, Name: names.Intern("int")})
	boolType := arena.PushTypeExpr(ast.TypeExpr{Kind: ast.TyName, Name: names.Intern("bool")})

	isEvenName := names.Intern("isEven")
	isOddName := names.Intern("isOdd")
	nName := names.Intern("n")

	isEvenBody := arena.PushExpr(ast.Expr{
		Kind:   ast.ExprCall,
		Callee: arena.PushExpr(ast.Expr{Kind: ast.ExprIdent, Name: isOddName}),
		Args:   arena.PushExprList([]ast.ExprId{arena.PushExpr(ast.Expr{Kind: ast.ExprIdent, Name: nName})}),
	})
	isOddBody := arena.PushExpr(ast.Expr{
		Kind:   ast.ExprCall,
		Callee: arena.PushExpr(ast.Expr{Kind: ast.ExprIdent, Name: isEvenName}),
		Args:   arena.PushExprList([]ast.ExprId{arena.PushExpr(ast.Expr{Kind: ast.ExprIdent, Name: nName})}),
	})

	f := &ast.File{
		ModulePath: names.Intern("main"),
		Funcs: []ast.FuncDecl{
			{Name: isEvenName, Params: arena.PushParams([]ast.Param{{Name: nName, Type: intType}}), ReturnType: boolType, Body: isEvenBody},
			{Name: isOddName, Params: arena.PushParams([]ast.Param{{Name: nName, Type: intType}}), ReturnType: boolType, Body: isOddBody},
		},
	}

	mod := e.CheckFile(arena, f)
	if mod.Diagnostics.HasErrors() {
		t.Fatalf("mutually recursive functions should check cleanly, got: %+v", mod.Diagnostics.Reports())
	}
	if _, ok := mod.FunctionSignatures[isEvenName]; !ok {
		t.Fatal("isEven's signature should be registered")
	}
	if _, ok := mod.FunctionSignatures[isOddName]; !ok {
		t.Fatal("isOdd's signature should be registered")
	}
}

// TestInferArgumentMismatchReportsTC2001 realises spec §8 scenario 5's
// "E2001" argument-type-mismatch literally, as TC2001.
func TestInferArgumentMismatchReportsTC2001(t *testing.T) {
	names := intern.New()
	arena := ast.NewArena()
	e := newEngine(names)

	intType := arena.PushTypeExpr(ast.TypeExpr{Kind: ast.TyName, Name: names.Intern("int")})
	takeIntName := names.Intern("takeInt")
	nName := names.Intern("n")

	takeIntBody := arena.PushExpr(ast.Expr{Kind: ast.ExprIdent, Name: nName})

	badArg := arena.PushExpr(ast.Expr{Kind: ast.ExprLiteral, LitKind: ast.LitString, StrVal: names.Intern("oops")})
	callBad := arena.PushExpr(ast.Expr{
		Kind:   ast.ExprCall,
		Callee: arena.PushExpr(ast.Expr{Kind: ast.ExprIdent, Name: takeIntName}),
		Args:   arena.PushExprList([]ast.ExprId{badArg}),
	})

	f := &ast.File{
		ModulePath: names.Intern("main"),
		Funcs: []ast.FuncDecl{
			{Name: takeIntName, Params: arena.PushParams([]ast.Param{{Name: nName, Type: intType}}), ReturnType: intType, Body: takeIntBody},
			{Name: names.Intern("main"), Body: callBad},
		},
	}

	mod := e.CheckFile(arena, f)
	if !mod.Diagnostics.HasErrors() {
		t.Fatal("expected a type-mismatch diagnostic for the bad call")
	}
	found := false
	for _, r := range mod.Diagnostics.Reports() {
		if r.Code == errors.TC2001 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a TC2001 report, got: %+v", mod.Diagnostics.Reports())
	}
}

// TestInferMatchOnOptionBindsPayload checks that matching an
// Option<int> scrutinee's Some arm binds its payload at int and that
// both arms must agree on a common result type, per spec §8's match
// scenarios.
func TestInferMatchOnOptionBindsPayload(t *testing.T) {
	names := intern.New()
	arena := ast.NewArena()
	e := newEngine(names)

	intType := arena.PushTypeExpr(ast.TypeExpr{Kind: ast.TyName, Name: names.Intern("int")})
	optIntType := arena.PushTypeExpr(ast.TypeExpr{
		Kind: ast.TyApp,
		Name: names.Intern("Option"),
		Args: arena.PushTypeExprList([]ast.TypeExprId{intType}),
	})

	optName := names.Intern("opt")
	valName := names.Intern("v")
	someTag := names.Intern("Some")
	noneTag := names.Intern("None")

	somePat := arena.PushPattern(ast.Pattern{
		Kind:     ast.PatConstructor,
		Ctor:     someTag,
		CtorArgs: arena.PushPatternList([]ast.PatternId{arena.PushPattern(ast.Pattern{Kind: ast.PatBinding, Name: valName})}),
	})
	nonePat := arena.PushPattern(ast.Pattern{Kind: ast.PatConstructor, Ctor: noneTag})

	someBody := arena.PushExpr(ast.Expr{Kind: ast.ExprIdent, Name: valName})
	zeroBody := arena.PushExpr(ast.Expr{Kind: ast.ExprLiteral, LitKind: ast.LitInt, IntVal: 0})

	matchExpr := arena.PushExpr(ast.Expr{
		Kind:      ast.ExprMatch,
		Scrutinee: arena.PushExpr(ast.Expr{Kind: ast.ExprIdent, Name: optName}),
		Arms: arena.PushArmList([]ast.MatchArmId{
			arena.PushArm(ast.MatchArm{Pattern: somePat, Guard: ast.NoExpr, Body: someBody}),
			arena.PushArm(ast.MatchArm{Pattern: nonePat, Guard: ast.NoExpr, Body: zeroBody}),
		}),
	})

	optionEnum := e.Pool.Enum(names.Intern("Option"), []Variant{
		{Name: someTag, Fields: []Idx{Int}},
		{Name: noneTag, Fields: nil},
	})
	e.Types.Declare(names.Intern("Option"), DeclEnum, optionEnum)

	f := &ast.File{
		ModulePath: names.Intern("main"),
		Funcs: []ast.FuncDecl{
			{Name: names.Intern("unwrapOr0"), Params: arena.PushParams([]ast.Param{{Name: optName, Type: optIntType}}), Body: matchExpr},
		},
	}

	mod := e.CheckFile(arena, f)
	if mod.Diagnostics.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", mod.Diagnostics.Reports())
	}
	if e.Pool.Resolve(mod.ExpressionTypes[matchExpr]) != Int {
		t.Fatalf("match result type = %v, want Int", e.Pool.Resolve(mod.ExpressionTypes[matchExpr]))
	}
}

// TestInferIfBranchMismatchReportsDiagnostic checks that branches of an
// if-expression whose types disagree produce a diagnostic rather than
// silently picking one side.
func TestInferIfBranchMismatchReportsDiagnostic(t *testing.T) {
	names := intern.New()
	arena := ast.NewArena()
	e := newEngine(names)

	cond := arena.PushExpr(ast.Expr{Kind: ast.ExprLiteral, LitKind: ast.LitBool, BoolVal: true})
	thenBranch := arena.PushExpr(ast.Expr{Kind: ast.ExprLiteral, LitKind: ast.LitInt, IntVal: 1})
	elseBranch := arena.PushExpr(ast.Expr{Kind: ast.ExprLiteral, LitKind: ast.LitString, StrVal: names.Intern("x")})
	ifExpr := arena.PushExpr(ast.Expr{Kind: ast.ExprIf, Cond: cond, Then: thenBranch, Else: elseBranch})

	f := oneFuncFile(arena, names, "main", nil, ast.NoType, ifExpr)

	mod := e.CheckFile(arena, f)
	if !mod.Diagnostics.HasErrors() {
		t.Fatal("expected a diagnostic for mismatched if-branches")
	}
}

// TestInferMethodCallResolvesListMap realises spec §8 scenario 2:
// `[1,2,3].map(x -> x + 1)` resolves "map" through the builtin method
// manifest and types as List<int>.
func TestInferMethodCallResolvesListMap(t *testing.T) {
	names := intern.New()
	arena := ast.NewArena()
	e := newEngine(names)

	xName := names.Intern("x")
	list := arena.PushExpr(ast.Expr{Kind: ast.ExprList, Elems: arena.PushExprList([]ast.ExprId{
		arena.PushExpr(ast.Expr{Kind: ast.ExprLiteral, LitKind: ast.LitInt, IntVal: 1}),
		arena.PushExpr(ast.Expr{Kind: ast.ExprLiteral, LitKind: ast.LitInt, IntVal: 2}),
		arena.PushExpr(ast.Expr{Kind: ast.ExprLiteral, LitKind: ast.LitInt, IntVal: 3}),
	})})
	incr := arena.PushExpr(ast.Expr{
		Kind: ast.ExprLambda,
		Params: arena.PushParams([]ast.Param{{Name: xName, Type: ast.NoType}}),
		Body: arena.PushExpr(ast.Expr{
			Kind: ast.ExprBinary, Op: names.Intern("+"),
			Left:  arena.PushExpr(ast.Expr{Kind: ast.ExprIdent, Name: xName}),
			Right: arena.PushExpr(ast.Expr{Kind: ast.ExprLiteral, LitKind: ast.LitInt, IntVal: 1}),
		}),
	})
	call := arena.PushExpr(ast.Expr{
		Kind:   ast.ExprMethodCall,
		Record: list,
		Field:  names.Intern("map"),
		Args:   arena.PushExprList([]ast.ExprId{incr}),
	})

	f := oneFuncFile(arena, names, "main", nil, ast.NoType, call)
	mod := e.CheckFile(arena, f)
	if mod.Diagnostics.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", mod.Diagnostics.Reports())
	}
	ty := e.Pool.Resolve(mod.ExpressionTypes[call])
	if e.Pool.Tag(ty) != TagList {
		t.Fatalf("call type tag = %v, want TagList", e.Pool.Tag(ty))
	}
	if e.Pool.Resolve(e.Pool.Child(ty)) != Int {
		t.Fatalf("List elem type = %v, want Int", e.Pool.Resolve(e.Pool.Child(ty)))
	}
}

// TestInferIndexListElement checks spec §4.D's Index rule for a list
// receiver: xs[0] types as the list's element type.
func TestInferIndexListElement(t *testing.T) {
	names := intern.New()
	arena := ast.NewArena()
	e := newEngine(names)

	xsName := names.Intern("xs")
	listType := arena.PushTypeExpr(ast.TypeExpr{
		Kind: ast.TyApp,
		Name: names.Intern("List"),
		Args: arena.PushTypeExprList([]ast.TypeExprId{
			arena.PushTypeExpr(ast.TypeExpr{Kind: ast.TyName, Name: names.Intern("int")}),
		}),
	})

	idx := arena.PushExpr(ast.Expr{
		Kind:   ast.ExprIndex,
		Record: arena.PushExpr(ast.Expr{Kind: ast.ExprIdent, Name: xsName}),
		Right:  arena.PushExpr(ast.Expr{Kind: ast.ExprLiteral, LitKind: ast.LitInt, IntVal: 0}),
	})

	f := oneFuncFile(arena, names, "head", []ast.Param{{Name: xsName, Type: listType}}, ast.NoType, idx)
	mod := e.CheckFile(arena, f)
	if mod.Diagnostics.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", mod.Diagnostics.Reports())
	}
	if e.Pool.Resolve(mod.ExpressionTypes[idx]) != Int {
		t.Fatalf("xs[0] type = %v, want Int", e.Pool.Resolve(mod.ExpressionTypes[idx]))
	}
}

// TestInferSomeOkNoneConstructors checks spec §4.D's Option/Result
// constructor contract: Some(x)/Ok(x)/None build the expected Option
// or Result shape without requiring a prelude binding.
func TestInferSomeOkNoneConstructors(t *testing.T) {
	names := intern.New()
	arena := ast.NewArena()
	e := newEngine(names)

	someCall := arena.PushExpr(ast.Expr{
		Kind:   ast.ExprCall,
		Callee: arena.PushExpr(ast.Expr{Kind: ast.ExprIdent, Name: names.Intern("Some")}),
		Args:   arena.PushExprList([]ast.ExprId{arena.PushExpr(ast.Expr{Kind: ast.ExprLiteral, LitKind: ast.LitInt, IntVal: 1})}),
	})
	okCall := arena.PushExpr(ast.Expr{
		Kind:   ast.ExprCall,
		Callee: arena.PushExpr(ast.Expr{Kind: ast.ExprIdent, Name: names.Intern("Ok")}),
		Args:   arena.PushExprList([]ast.ExprId{arena.PushExpr(ast.Expr{Kind: ast.ExprLiteral, LitKind: ast.LitInt, IntVal: 1})}),
	})
	noneExpr := arena.PushExpr(ast.Expr{Kind: ast.ExprIdent, Name: names.Intern("None")})
	tuple := arena.PushExpr(ast.Expr{Kind: ast.ExprTuple, Elems: arena.PushExprList([]ast.ExprId{someCall, okCall, noneExpr})})

	f := oneFuncFile(arena, names, "main", nil, ast.NoType, tuple)
	mod := e.CheckFile(arena, f)
	if mod.Diagnostics.HasErrors() {
		t.Fatalf("unexpected diagnostics: %+v", mod.Diagnostics.Reports())
	}

	someTy := e.Pool.Resolve(mod.ExpressionTypes[someCall])
	if e.Pool.Tag(someTy) != TagOption || e.Pool.Resolve(e.Pool.Child(someTy)) != Int {
		t.Fatalf("Some(1) type = %v, want Option<int>", someTy)
	}
	okTy := e.Pool.Resolve(mod.ExpressionTypes[okCall])
	if e.Pool.Tag(okTy) != TagResult || e.Pool.Resolve(e.Pool.MapSig(okTy).Key) != Int {
		t.Fatalf("Ok(1) type = %v, want Result<int, _>", okTy)
	}
	noneTy := e.Pool.Resolve(mod.ExpressionTypes[noneExpr])
	if e.Pool.Tag(noneTy) != TagOption {
		t.Fatalf("None type = %v, want Option<_>", noneTy)
	}
}
