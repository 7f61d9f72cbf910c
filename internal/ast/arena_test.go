package ast

import "testing"

func TestPushAndGetExpr(t *testing.T) {
	a := NewArena()
	id := a.PushExpr(Expr{Kind: ExprLiteral, LitKind: LitInt, IntVal: 42})
	got := a.Expr(id)
	if got.Kind != ExprLiteral || got.IntVal != 42 {
		t.Fatalf("Expr(id) = %+v", got)
	}
}

func TestPushListRoundTrip(t *testing.T) {
	a := NewArena()
	e1 := a.PushExpr(Expr{Kind: ExprLiteral, IntVal: 1})
	e2 := a.PushExpr(Expr{Kind: ExprLiteral, IntVal: 2})
	e3 := a.PushExpr(Expr{Kind: ExprLiteral, IntVal: 3})
	r := a.PushExprList([]ExprId{e1, e2, e3})
	if r.Len != 3 {
		t.Fatalf("Range.Len = %d, want 3", r.Len)
	}
	got := a.ExprList(r)
	if len(got) != 3 || got[0] != e1 || got[2] != e3 {
		t.Fatalf("ExprList(r) = %v", got)
	}
}

func TestRangesNonOverlapping(t *testing.T) {
	a := NewArena()
	r1 := a.PushExprList([]ExprId{0, 1})
	r2 := a.PushExprList([]ExprId{2, 3, 4})
	if r1.Start+uint32(r1.Len) != r2.Start {
		t.Fatalf("ranges overlap or leave a gap: r1=%+v r2=%+v", r1, r2)
	}
}

func TestNoExprSentinel(t *testing.T) {
	a := NewArena()
	id := a.PushExpr(Expr{Kind: ExprIf, Cond: 0, Then: 1, Else: NoExpr})
	if a.Expr(id).Else != NoExpr {
		t.Fatal("NoExpr sentinel not preserved")
	}
}

func TestChildListExceedsRangeLimitPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for >65535 children")
		}
	}()
	rangeFor(0, 0x10000)
}
