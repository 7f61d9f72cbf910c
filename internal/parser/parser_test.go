package parser

import (
	"testing"

	"github.com/sunholo/sigil/internal/ast"
	"github.com/sunholo/sigil/internal/errors"
	"github.com/sunholo/sigil/internal/intern"
	"github.com/sunholo/sigil/internal/lexer"
)

func parse(t *testing.T, src string) (*ast.File, *ast.Arena, *intern.Interner, *errors.Queue) {
	t.Helper()
	names := intern.New()
	arena := ast.NewArena()
	queue := errors.NewQueue(100)
	l := lexer.New(src, "test.sg")
	p := New(l, arena, names, queue, "test.sg")
	f := p.Parse()
	return f, arena, names, queue
}

func requireNoDiagnostics(t *testing.T, queue *errors.Queue) {
	t.Helper()
	if queue.HasErrors() {
		t.Fatalf("unexpected parse diagnostics: %+v", queue.Reports())
	}
}

func TestParseSimpleFunction(t *testing.T) {
	f, arena, names, queue := parse(t, `
func add(a: int, b: int) -> int {
  a + b
}
`)
	requireNoDiagnostics(t, queue)

	if len(f.Funcs) != 1 {
		t.Fatalf("len(Funcs) = %d, want 1", len(f.Funcs))
	}
	fn := f.Funcs[0]
	if fn.Name != names.Intern("add") {
		t.Fatalf("fn.Name != \"add\"")
	}
	params := arena.Params(fn.Params)
	if len(params) != 2 {
		t.Fatalf("len(params) = %d, want 2", len(params))
	}

	body := arena.Expr(fn.Body)
	if body.Kind != ast.ExprBlock {
		t.Fatalf("body.Kind = %v, want ExprBlock", body.Kind)
	}
	stmts := arena.StmtList(body.Stmts)
	if len(stmts) != 1 {
		t.Fatalf("len(stmts) = %d, want 1", len(stmts))
	}
	last := arena.Stmt(stmts[0])
	if last.Kind != ast.StmtExpr {
		t.Fatalf("last.Kind = %v, want StmtExpr", last.Kind)
	}
	sum := arena.Expr(last.Value)
	if sum.Kind != ast.ExprBinary {
		t.Fatalf("sum.Kind = %v, want ExprBinary", sum.Kind)
	}
}

func TestParseExpressionBodyFunction(t *testing.T) {
	f, arena, names, queue := parse(t, `func square(x: int) -> int = x * x`)
	requireNoDiagnostics(t, queue)

	fn := f.Funcs[0]
	if fn.Name != names.Intern("square") {
		t.Fatal("wrong function name")
	}
	body := arena.Expr(fn.Body)
	if body.Kind != ast.ExprBinary {
		t.Fatalf("body.Kind = %v, want ExprBinary", body.Kind)
	}
}

func TestParseOperatorPrecedence(t *testing.T) {
	f, arena, _, queue := parse(t, `func f() -> int = 1 + 2 * 3`)
	requireNoDiagnostics(t, queue)

	body := arena.Expr(f.Funcs[0].Body)
	if body.Kind != ast.ExprBinary {
		t.Fatalf("top Kind = %v, want ExprBinary (+)", body.Kind)
	}
	if arena.Expr(body.Left).Kind != ast.ExprLiteral {
		t.Fatalf("left of + should be the literal 1, got %v", arena.Expr(body.Left).Kind)
	}
	right := arena.Expr(body.Right)
	if right.Kind != ast.ExprBinary {
		t.Fatalf("right of + should be 2*3 (ExprBinary), got %v", right.Kind)
	}
}

func TestParseIfLetMatchAndCall(t *testing.T) {
	f, arena, _, queue := parse(t, `
func classify(n: int) -> int =
  let doubled = n * 2 in
  if doubled > 10 then
    match doubled {
      0 => 0,
      x => x
    }
  else
    negate(doubled)
`)
	requireNoDiagnostics(t, queue)

	letExpr := arena.Expr(f.Funcs[0].Body)
	if letExpr.Kind != ast.ExprLet {
		t.Fatalf("top Kind = %v, want ExprLet", letExpr.Kind)
	}
	ifExpr := arena.Expr(letExpr.Body)
	if ifExpr.Kind != ast.ExprIf {
		t.Fatalf("let body Kind = %v, want ExprIf", ifExpr.Kind)
	}
	matchExpr := arena.Expr(ifExpr.Then)
	if matchExpr.Kind != ast.ExprMatch {
		t.Fatalf("then-branch Kind = %v, want ExprMatch", matchExpr.Kind)
	}
	arms := arena.ArmList(matchExpr.Arms)
	if len(arms) != 2 {
		t.Fatalf("len(arms) = %d, want 2", len(arms))
	}
	elseExpr := arena.Expr(ifExpr.Else)
	if elseExpr.Kind != ast.ExprCall {
		t.Fatalf("else-branch Kind = %v, want ExprCall", elseExpr.Kind)
	}
}

func TestParseNamedCallArguments(t *testing.T) {
	f, arena, names, queue := parse(t, `func main() -> int = greet(name: "a", greeting: "hi")`)
	requireNoDiagnostics(t, queue)

	call := arena.Expr(f.Funcs[0].Body)
	if call.Kind != ast.ExprCallNamed {
		t.Fatalf("Kind = %v, want ExprCallNamed", call.Kind)
	}
	args := arena.NamedArgs(call.Args)
	if len(args) != 2 {
		t.Fatalf("len(args) = %d, want 2", len(args))
	}
	if args[0].Name != names.Intern("name") || args[1].Name != names.Intern("greeting") {
		t.Fatalf("named args out of order: %+v", args)
	}
}

func TestParseListWithSpread(t *testing.T) {
	f, arena, _, queue := parse(t, `func f() -> int = [1, 2, ...rest, 3]`)
	requireNoDiagnostics(t, queue)

	list := arena.Expr(f.Funcs[0].Body)
	if list.Kind != ast.ExprList {
		t.Fatalf("Kind = %v, want ExprList", list.Kind)
	}
	elems := arena.ExprList(list.Elems)
	if len(elems) != 4 {
		t.Fatalf("len(elems) = %d, want 4", len(elems))
	}
	if arena.Expr(elems[2]).Kind != ast.ExprSpread {
		t.Fatalf("elems[2].Kind = %v, want ExprSpread", arena.Expr(elems[2]).Kind)
	}
}

func TestParseRecordLiteralAndUpdate(t *testing.T) {
	f, arena, names, queue := parse(t, `func f(p: Point) -> Point = { ...p, x: 1 }`)
	requireNoDiagnostics(t, queue)

	upd := arena.Expr(f.Funcs[0].Body)
	if upd.Kind != ast.ExprRecordUpdate {
		t.Fatalf("Kind = %v, want ExprRecordUpdate", upd.Kind)
	}
	fields := arena.Fields(upd.Fields)
	if len(fields) != 1 || fields[0].Name != names.Intern("x") {
		t.Fatalf("fields = %+v, want one field named x", fields)
	}
}

func TestParseConstructorAndOrPattern(t *testing.T) {
	f, arena, names, queue := parse(t, `
func describe(o: Option) -> int =
  match o {
    Some(v) => v,
    None | Missing => 0
  }
`)
	requireNoDiagnostics(t, queue)

	matchExpr := arena.Expr(f.Funcs[0].Body)
	arms := arena.ArmList(matchExpr.Arms)
	if len(arms) != 2 {
		t.Fatalf("len(arms) = %d, want 2", len(arms))
	}

	somePat := arena.Pattern(arena.Arm(arms[0]).Pattern)
	if somePat.Kind != ast.PatConstructor || somePat.Ctor != names.Intern("Some") {
		t.Fatalf("arm0 pattern = %+v, want PatConstructor Some", somePat)
	}

	orPat := arena.Pattern(arena.Arm(arms[1]).Pattern)
	if orPat.Kind != ast.PatOr {
		t.Fatalf("arm1 pattern Kind = %v, want PatOr", orPat.Kind)
	}
	subs := arena.PatternList(orPat.Sub)
	if len(subs) != 2 {
		t.Fatalf("len(or-pattern subs) = %d, want 2", len(subs))
	}
}

func TestParseMethodCall(t *testing.T) {
	f, arena, names, queue := parse(t, `func f(xs: List) -> List = xs.map(double)`)
	requireNoDiagnostics(t, queue)

	call := arena.Expr(f.Funcs[0].Body)
	if call.Kind != ast.ExprMethodCall {
		t.Fatalf("Kind = %v, want ExprMethodCall", call.Kind)
	}
	if call.Field != names.Intern("map") {
		t.Fatalf("Field = %v, want \"map\"", names.Lookup(call.Field))
	}
	recv := arena.Expr(call.Record)
	if recv.Kind != ast.ExprIdent || recv.Name != names.Intern("xs") {
		t.Fatalf("Record = %+v, want ident xs", recv)
	}
	args := arena.ExprList(call.Args)
	if len(args) != 1 {
		t.Fatalf("len(args) = %d, want 1", len(args))
	}
}

func TestParseMethodCallNoArgs(t *testing.T) {
	f, arena, names, queue := parse(t, `func f(o: Option) -> int = o.unwrap()`)
	requireNoDiagnostics(t, queue)

	call := arena.Expr(f.Funcs[0].Body)
	if call.Kind != ast.ExprMethodCall {
		t.Fatalf("Kind = %v, want ExprMethodCall", call.Kind)
	}
	if call.Field != names.Intern("unwrap") {
		t.Fatalf("Field = %v, want \"unwrap\"", names.Lookup(call.Field))
	}
	if len(arena.ExprList(call.Args)) != 0 {
		t.Fatalf("len(args) = %d, want 0", len(arena.ExprList(call.Args)))
	}
}

func TestParseIndexExpression(t *testing.T) {
	f, arena, _, queue := parse(t, `func f(xs: List) -> int = xs[0]`)
	requireNoDiagnostics(t, queue)

	idx := arena.Expr(f.Funcs[0].Body)
	if idx.Kind != ast.ExprIndex {
		t.Fatalf("Kind = %v, want ExprIndex", idx.Kind)
	}
	recv := arena.Expr(idx.Record)
	if recv.Kind != ast.ExprIdent {
		t.Fatalf("Record.Kind = %v, want ExprIdent", recv.Kind)
	}
	right := arena.Expr(idx.Right)
	if right.Kind != ast.ExprLiteral || right.LitKind != ast.LitInt || right.IntVal != 0 {
		t.Fatalf("Right = %+v, want literal int 0", right)
	}
}

func TestParseReportsUnexpectedToken(t *testing.T) {
	_, _, _, queue := parse(t, `func f() -> int = )`)
	if !queue.HasErrors() {
		t.Fatal("expected a PAR001 diagnostic for a stray ')'")
	}
}
