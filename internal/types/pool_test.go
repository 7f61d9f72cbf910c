package types

import (
	"testing"

	"github.com/sunholo/sigil/internal/intern"
)

func TestPrimitivesAreConstantIdx(t *testing.T) {
	p := NewPool()
	if p.Tag(Int) != TagPrimitive || p.Flags(Int)&IsPrimitive == 0 {
		t.Fatalf("Int is not flagged primitive")
	}
	if Int != 0 {
		t.Fatalf("Int idx must equal its constant (0), got %d", Int)
	}
}

func TestStructuralDedup(t *testing.T) {
	p := NewPool()
	a := p.List(Int)
	b := p.List(Int)
	if a != b {
		t.Fatalf("List(Int) interned twice: %v != %v", a, b)
	}
	c := p.List(Str)
	if a == c {
		t.Fatalf("List(Int) and List(Str) collided")
	}
}

func TestStructEqualityIsNominal(t *testing.T) {
	p := NewPool()
	names := intern.New()
	n1 := names.Intern("Point")
	n2 := names.Intern("Vector")
	fields := []Field{{Name: names.Intern("x"), Type: Int}, {Name: names.Intern("y"), Type: Int}}

	a := p.Struct(n1, fields)
	b := p.Struct(n2, fields) // same shape, different name
	if a == b {
		t.Fatal("structurally identical but nominally distinct structs must get different Idx")
	}
	again := p.Struct(n1, fields)
	if a != again {
		t.Fatal("re-declaring the same struct name must resolve to the same Idx")
	}
}

func TestFreshVarsAreNeverDeduped(t *testing.T) {
	p := NewPool()
	a := p.Fresh(0)
	b := p.Fresh(0)
	if a == b {
		t.Fatal("two Fresh() calls must never collide")
	}
}

func TestFunctionArityInSignature(t *testing.T) {
	p := NewPool()
	f1 := p.Function([]Idx{Int}, Bool)
	f2 := p.Function([]Idx{Int, Int}, Bool)
	if f1 == f2 {
		t.Fatal("functions of different arity must not share an Idx")
	}
}

func TestHasVarTransitiveClosure(t *testing.T) {
	p := NewPool()
	v := p.Fresh(0)
	lst := p.List(v)
	if p.Flags(lst)&HasVar == 0 {
		t.Fatal("List<Var> must have HasVar set")
	}
	concrete := p.List(Int)
	if p.Flags(concrete)&HasVar != 0 {
		t.Fatal("List<int> must not have HasVar set")
	}
}
