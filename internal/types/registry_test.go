package types

import (
	"testing"

	"github.com/sunholo/sigil/internal/intern"
)

func TestCoherenceRejectsDuplicateImpl(t *testing.T) {
	names := intern.New()
	traits := NewTraitRegistry()
	show := names.Intern("Show")
	p := NewPool()

	impl1 := &Impl{Trait: show, Receiver: Int, Methods: map[intern.Name]bool{names.Intern("show"): true}}
	impl2 := &Impl{Trait: show, Receiver: Int, Methods: map[intern.Name]bool{names.Intern("show"): true}}

	if err := traits.AddImpl(impl1); err != nil {
		t.Fatalf("first impl should register: %v", err)
	}
	if err := traits.AddImpl(impl2); err == nil {
		t.Fatal("overlapping impl for the same (trait, receiver) must be rejected")
	}
	_ = p
}

func TestMethodResolutionOrder(t *testing.T) {
	names := intern.New()
	p := NewPool()
	eq := names.Intern("Eq")
	mname := names.Intern("describe")

	traits := NewTraitRegistry()
	builtins := NewBuiltinManifest()
	builtins.Register(BuiltinMethod{TypeTag: TagPrimitive, Name: mname})
	mt := NewMethodTable(traits, builtins)

	// Only a builtin is present: resolves to Builtin.
	res, err := mt.Lookup(p, Int, mname)
	if err != nil || res.Builtin == nil {
		t.Fatalf("expected builtin resolution, got %+v err=%v", res, err)
	}

	// Add a user trait impl for the same method: it must win over the builtin.
	if err := traits.AddImpl(&Impl{Trait: eq, Receiver: Int, Methods: map[intern.Name]bool{mname: true}}); err != nil {
		t.Fatalf("AddImpl failed: %v", err)
	}
	res, err = mt.Lookup(p, Int, mname)
	if err != nil || res.Trait == nil {
		t.Fatalf("expected trait resolution to take priority over builtin, got %+v err=%v", res, err)
	}

	// Add an inherent impl: it must win over the trait impl.
	mt.AddInherent(Int, MethodSig{Name: mname})
	res, err = mt.Lookup(p, Int, mname)
	if err != nil || res.Inherent == nil {
		t.Fatalf("expected inherent resolution to take priority over trait, got %+v err=%v", res, err)
	}
}

func TestMethodAmbiguity(t *testing.T) {
	names := intern.New()
	p := NewPool()
	eq := names.Intern("Eq")
	ord := names.Intern("Ord")
	mname := names.Intern("cmp")

	traits := NewTraitRegistry()
	mt := NewMethodTable(traits, NewBuiltinManifest())

	traits.AddImpl(&Impl{Trait: eq, Receiver: Int, Methods: map[intern.Name]bool{mname: true}})
	traits.AddImpl(&Impl{Trait: ord, Receiver: Int, Methods: map[intern.Name]bool{mname: true}})

	_, err := mt.Lookup(p, Int, mname)
	if err == nil {
		t.Fatal("two trait impls providing the same method must be ambiguous")
	}
	if _, ok := err.(*AmbiguityError); !ok {
		t.Fatalf("expected *AmbiguityError, got %T", err)
	}
}
