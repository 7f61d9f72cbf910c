package types

import "testing"

func TestUnifyIdempotent(t *testing.T) {
	p := NewPool()
	u := NewUnifier(p)
	lst := p.List(Int)
	if err := u.Unify(lst, lst); err != nil {
		t.Fatalf("unify(t,t) failed: %v", err)
	}
}

func TestUnifySymmetric(t *testing.T) {
	newPair := func() (*Pool, Idx, Idx) {
		p := NewPool()
		v := p.Fresh(0)
		return p, v, p.List(Int)
	}

	p1, a1, b1 := newPair()
	err1 := NewUnifier(p1).Unify(a1, b1)

	p2, a2, b2 := newPair()
	err2 := NewUnifier(p2).Unify(b2, a2)

	if (err1 == nil) != (err2 == nil) {
		t.Fatalf("unify(a,b) and unify(b,a) disagree on success: %v vs %v", err1, err2)
	}
	if p1.Resolve(a1) != p1.List(Int) {
		t.Fatalf("unify(a,b) should bind a to List<int>")
	}
	if p2.Resolve(a2) != p2.List(Int) {
		t.Fatalf("unify(b,a) should still bind a to List<int>")
	}
}

func TestOccursCheckFails(t *testing.T) {
	p := NewPool()
	u := NewUnifier(p)
	v := p.Fresh(0)
	lst := p.List(v)
	err := u.Unify(v, lst)
	if err == nil {
		t.Fatal("unify(?a, List<?a>) must fail the occurs check")
	}
	ue, ok := err.(*UnifyError)
	if !ok || ue.Kind != ProblemOccursCheck {
		t.Fatalf("expected ProblemOccursCheck, got %v", err)
	}
}

func TestNeverAbsorbsAnything(t *testing.T) {
	p := NewPool()
	u := NewUnifier(p)
	if err := u.Unify(Never, p.List(Int)); err != nil {
		t.Fatalf("unify(Never, T) must always succeed: %v", err)
	}
}

func TestErrorAbsorbsSilently(t *testing.T) {
	p := NewPool()
	u := NewUnifier(p)
	if err := u.Unify(ErrorType, Bool); err != nil {
		t.Fatalf("unify(Error, T) must always succeed without diagnostic: %v", err)
	}
}

func TestUnifyStructuralMismatch(t *testing.T) {
	p := NewPool()
	u := NewUnifier(p)
	err := u.Unify(Int, Bool)
	if err == nil {
		t.Fatal("unify(int, bool) must fail")
	}
}

func TestUnifyFunctionArity(t *testing.T) {
	p := NewPool()
	u := NewUnifier(p)
	f1 := p.Function([]Idx{Int}, Bool)
	f2 := p.Function([]Idx{Int, Int}, Bool)
	if err := u.Unify(f1, f2); err == nil {
		t.Fatal("functions of mismatched arity must fail to unify")
	}
}

func TestUnifyListElement(t *testing.T) {
	p := NewPool()
	u := NewUnifier(p)
	v := p.Fresh(0)
	if err := u.Unify(p.List(v), p.List(Int)); err != nil {
		t.Fatalf("unify(List<?a>, List<int>) failed: %v", err)
	}
	if p.Resolve(v) != Int {
		t.Fatalf("?a should resolve to int, got %v", p.Resolve(v))
	}
}

func TestRankLoweringOnBind(t *testing.T) {
	p := NewPool()
	u := NewUnifier(p)
	outer := p.Fresh(0) // introduced at rank 0
	inner := p.Fresh(5) // introduced deep inside, rank 5
	lst := p.List(inner)
	if err := u.Unify(outer, lst); err != nil {
		t.Fatalf("unify failed: %v", err)
	}
	if st := p.Var(inner); st.Bound || st.Rank != 0 {
		t.Fatalf("inner var rank should be lowered to 0, got %+v", st)
	}
}
