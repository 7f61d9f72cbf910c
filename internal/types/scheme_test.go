package types

import "testing"

// TestGeneralizePolymorphicId mirrors spec §8's
// "let id = x -> x in id(1); id("a")" property: the scheme for id
// should be polymorphic enough to instantiate at two unrelated types.
func TestGeneralizePolymorphicId(t *testing.T) {
	p := NewPool()
	env := NewEnv()

	// let-frame at rank 0; id's body is typed one rank deeper.
	env.Push(1)
	param := p.Fresh(env.CurrentRank())
	idTy := p.Function([]Idx{param}, param)
	env.Pop()

	scheme := Generalize(p, idTy, 0)
	if scheme.IsMonomorphic() {
		t.Fatal("id's scheme should be polymorphic")
	}

	u := NewUnifier(p)
	i1 := Instantiate(p, scheme, 1)
	if err := u.Unify(i1, p.Function([]Idx{Int}, Int)); err != nil {
		t.Fatalf("id should instantiate at int -> int: %v", err)
	}

	i2 := Instantiate(p, scheme, 1)
	if err := u.Unify(i2, p.Function([]Idx{Str}, Str)); err != nil {
		t.Fatalf("id should separately instantiate at str -> str: %v", err)
	}
}

// TestValueRestrictionBlocksMutableDefault checks the monomorphic path
// of the value restriction: a binding whose initialiser is NOT a
// syntactic value never generalises, so a single Var threaded through
// two unrelated uses will fail to unify -- mirroring spec §8's
// "let mut r = None in r := Some(1); r := Some("a")" property.
func TestValueRestrictionBlocksMutableDefault(t *testing.T) {
	p := NewPool()
	u := NewUnifier(p)

	elem := p.Fresh(0)
	rTy := p.Option(elem) // r : Option<?a>, monomorphic (not generalised)

	// r := Some(1)
	if err := u.Unify(p.Option(Int), rTy); err != nil {
		t.Fatalf("first assignment should succeed: %v", err)
	}
	// r := Some("a") must now fail since ?a is already bound to int.
	if err := u.Unify(p.Option(Str), rTy); err == nil {
		t.Fatal("monomorphic r should not accept a second, incompatible element type")
	}
}

func TestIsSyntacticValue(t *testing.T) {
	cases := []struct {
		shape ValueShape
		want  bool
	}{
		{ValueLiteral, true},
		{ValueVariable, true},
		{ValueLambda, true},
		{ValueConstructor, true},
		{ValueOther, false},
	}
	for _, c := range cases {
		if got := IsSyntacticValue(c.shape); got != c.want {
			t.Errorf("IsSyntacticValue(%v) = %v, want %v", c.shape, got, c.want)
		}
	}
}
