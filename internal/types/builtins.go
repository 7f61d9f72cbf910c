package types

import "github.com/sunholo/sigil/internal/intern"

// RegisterBuiltins populates m with the collection and primitive methods
// spec §4.E names as the floor of the builtin method surface ("List::map,
// Option::unwrap, Str::len, ..."), so MethodTable.Lookup's builtin tier
// (registry.go's "3/4. builtin collection/primitive methods") has
// something to resolve against. Grounded on the teacher's
// internal/types/dictionaries.go registerBuiltins(), which populates a
// DictionaryRegistry with one Register call per (type, method) pair;
// here each entry is a BuiltinMethod whose Sig closure computes the
// method's type against the actual receiver Idx instead of a
// dictionary's runtime Impl value.
//
// A receiver's Tag alone does not distinguish Str from the other
// TagPrimitive members (Int, Float, Bool, Char, Unit), so a primitive
// method is only ever safe to register here when its name cannot
// plausibly collide with a method of a different primitive; Str::len
// below relies on that and is the reason this file keeps the primitive
// surface small rather than growing it freely.
func RegisterBuiltins(m *BuiltinManifest, names *intern.Interner) {
	n := func(s string) intern.Name { return names.Intern(s) }

	m.Register(BuiltinMethod{
		TypeTag: TagList,
		Name:    n("map"),
		Sig: func(p *Pool, receiver Idx) ([]Idx, Idx) {
			elem := p.Child(receiver)
			ret := p.Fresh(0)
			fn := p.Function([]Idx{elem}, ret)
			return []Idx{fn}, p.List(ret)
		},
	})
	m.Register(BuiltinMethod{
		TypeTag: TagList,
		Name:    n("filter"),
		Sig: func(p *Pool, receiver Idx) ([]Idx, Idx) {
			elem := p.Child(receiver)
			fn := p.Function([]Idx{elem}, Bool)
			return []Idx{fn}, receiver
		},
	})
	m.Register(BuiltinMethod{
		TypeTag: TagList,
		Name:    n("len"),
		Sig: func(p *Pool, receiver Idx) ([]Idx, Idx) {
			return nil, Int
		},
	})
	m.Register(BuiltinMethod{
		TypeTag: TagList,
		Name:    n("push"),
		Sig: func(p *Pool, receiver Idx) ([]Idx, Idx) {
			return []Idx{p.Child(receiver)}, receiver
		},
	})

	m.Register(BuiltinMethod{
		TypeTag: TagOption,
		Name:    n("unwrap"),
		Sig: func(p *Pool, receiver Idx) ([]Idx, Idx) {
			return nil, p.Child(receiver)
		},
	})
	m.Register(BuiltinMethod{
		TypeTag: TagOption,
		Name:    n("map"),
		Sig: func(p *Pool, receiver Idx) ([]Idx, Idx) {
			elem := p.Child(receiver)
			ret := p.Fresh(0)
			fn := p.Function([]Idx{elem}, ret)
			return []Idx{fn}, p.Option(ret)
		},
	})
	m.Register(BuiltinMethod{
		TypeTag: TagOption,
		Name:    n("isSome"),
		Sig: func(p *Pool, receiver Idx) ([]Idx, Idx) {
			return nil, Bool
		},
	})

	m.Register(BuiltinMethod{
		TypeTag: TagResult,
		Name:    n("unwrap"),
		Sig: func(p *Pool, receiver Idx) ([]Idx, Idx) {
			return nil, p.MapSig(receiver).Key // Result's side-table reuses MapSig{Key: ok, Val: err}
		},
	})
	m.Register(BuiltinMethod{
		TypeTag: TagResult,
		Name:    n("isOk"),
		Sig: func(p *Pool, receiver Idx) ([]Idx, Idx) {
			return nil, Bool
		},
	})

	m.Register(BuiltinMethod{
		TypeTag: TagPrimitive,
		Name:    n("len"),
		Sig: func(p *Pool, receiver Idx) ([]Idx, Idx) {
			return nil, Int
		},
	})
}
