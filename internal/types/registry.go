package types

import (
	"fmt"

	"github.com/sunholo/sigil/internal/intern"
)

// DeclKind distinguishes the four ways a user type name can be
// declared, mirroring the teacher's type-registry metadata
// (internal/types/instances.go's ClassInstance bookkeeping, generalised
// to cover structs/enums/newtypes/aliases).
type DeclKind uint8

const (
	DeclStruct DeclKind = iota
	DeclEnum
	DeclNewtype
	DeclAlias
)

// TypeDecl is the registry's metadata for one user type declaration:
// its kind and declaration-order index (needed by a codegen backend to
// assign stable variant tags / field offsets; the core itself only
// needs to hand this out).
type TypeDecl struct {
	Kind  DeclKind
	Idx   Idx
	Order int
}

// TypeRegistry maps a declared name to its kind and Idx.
type TypeRegistry struct {
	decls map[intern.Name]TypeDecl
	order int
}

func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{decls: make(map[intern.Name]TypeDecl)}
}

func (r *TypeRegistry) Declare(name intern.Name, kind DeclKind, idx Idx) TypeDecl {
	d := TypeDecl{Kind: kind, Idx: idx, Order: r.order}
	r.order++
	r.decls[name] = d
	return d
}

func (r *TypeRegistry) Lookup(name intern.Name) (TypeDecl, bool) {
	d, ok := r.decls[name]
	return d, ok
}

// MethodSig is one trait method signature (receiver implicit).
type MethodSig struct {
	Name   intern.Name
	Params []Idx
	Ret    Idx
	// HasDefault is true when the trait supplies a default
	// implementation; represented here only as a presence flag since
	// the actual body lives in the canonical IR, not in the registry.
	HasDefault bool
}

// TraitDecl is one trait declaration: its method signatures and
// associated-type names.
type TraitDecl struct {
	Name           intern.Name
	Methods        []MethodSig
	AssociatedTyps []intern.Name
}

// implKey identifies one (trait, receiver) impl for coherence checking.
type implKey struct {
	trait    intern.Name
	receiver Idx
}

// Impl is one trait implementation.
type Impl struct {
	Trait    intern.Name
	Receiver Idx
	Methods  map[intern.Name]bool // method name -> implemented (bodies live in core IR)
}

// TraitRegistry stores trait declarations and their impls, enforcing
// at most one impl per (trait, receiver) pair (spec §4.E "coherence is
// enforced").
type TraitRegistry struct {
	traits map[intern.Name]TraitDecl
	impls  map[implKey]*Impl
}

func NewTraitRegistry() *TraitRegistry {
	return &TraitRegistry{
		traits: make(map[intern.Name]TraitDecl),
		impls:  make(map[implKey]*Impl),
	}
}

func (r *TraitRegistry) DeclareTrait(t TraitDecl) { r.traits[t.Name] = t }

func (r *TraitRegistry) Trait(name intern.Name) (TraitDecl, bool) {
	t, ok := r.traits[name]
	return t, ok
}

// AddImpl registers an impl, returning a CoherenceError if one already
// exists for the same (trait, receiver) pair.
func (r *TraitRegistry) AddImpl(impl *Impl) error {
	key := implKey{impl.Trait, impl.Receiver}
	if _, exists := r.impls[key]; exists {
		return &CoherenceError{Trait: impl.Trait, Receiver: impl.Receiver}
	}
	r.impls[key] = impl
	return nil
}

func (r *TraitRegistry) Impl(trait intern.Name, receiver Idx) (*Impl, bool) {
	impl, ok := r.impls[implKey{trait, receiver}]
	return impl, ok
}

// ImplsFor returns every impl registered for receiver, across all
// traits, for ambiguity detection during method lookup.
func (r *TraitRegistry) ImplsFor(receiver Idx) []*Impl {
	var out []*Impl
	for k, impl := range r.impls {
		if k.receiver == receiver {
			out = append(out, impl)
		}
	}
	return out
}

// CoherenceError reports a duplicate impl of the same trait for the
// same receiver type.
type CoherenceError struct {
	Trait    intern.Name
	Receiver Idx
}

func (e *CoherenceError) Error() string {
	return fmt.Sprintf("overlapping impl of trait for receiver type %v", e.Receiver)
}

// BuiltinMethod is one entry of the builtin-method manifest (spec
// §4.E: "List::map, Option::unwrap, Str::len, ...").
type BuiltinMethod struct {
	TypeTag Tag // which receiver Tag this applies to (TagList, TagOption, ...)
	Name    intern.Name
	Sig     func(p *Pool, receiver Idx) (params []Idx, ret Idx)
}

// BuiltinManifest lists methods defined on primitive and built-in
// generic types.
type BuiltinManifest struct {
	methods []BuiltinMethod
}

func NewBuiltinManifest() *BuiltinManifest { return &BuiltinManifest{} }

func (m *BuiltinManifest) Register(bm BuiltinMethod) { m.methods = append(m.methods, bm) }

func (m *BuiltinManifest) Lookup(tag Tag, name intern.Name) (BuiltinMethod, bool) {
	for _, bm := range m.methods {
		if bm.TypeTag == tag && bm.Name == name {
			return bm, true
		}
	}
	return BuiltinMethod{}, false
}

// MethodResolution is the result of MethodTable.Lookup: exactly one of
// the embedded pointers is non-nil.
type MethodResolution struct {
	Inherent *MethodSig      // user inherent impl (impl Type { ... } with no trait)
	Trait    *Impl           // user trait impl
	Builtin  *BuiltinMethod  // builtin collection/primitive method
	Derived  *MethodSig      // #[derive(...)]-generated method
}

func (r MethodResolution) Found() bool {
	return r.Inherent != nil || r.Trait != nil || r.Builtin != nil || r.Derived != nil
}

// AmbiguityError reports two equally specific trait impls providing
// the same method name for one receiver (spec §4.E "Ambiguity between
// equally specific trait impls is a resolution error").
type AmbiguityError struct {
	Receiver Idx
	Method   intern.Name
	Traits   []intern.Name
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("ambiguous method %v on %v: provided by %d traits", e.Method, e.Receiver, len(e.Traits))
}

// MethodTable wires the type registry, trait registry, and builtin
// manifest into a single lookup chain.
//
// Resolution order: user impls (inherent, then trait), derived impls,
// collection methods, primitive methods, first match wins. This
// ordering resolves the Open Question in spec §9 ("multiple drafts of
// the method resolver... which resolution-order is canonical is
// ambiguous"): original_source/compiler/ori_eval/src/interpreter/
// resolvers/user_registry/mod.rs shows the canonical highest-priority
// resolver checks user-defined impls first, then derived impls, ahead
// of any collection/primitive resolver -- exactly the order below.
type MethodTable struct {
	Inherent map[Idx]map[intern.Name]MethodSig
	Derived  map[Idx]map[intern.Name]MethodSig
	Traits   *TraitRegistry
	Builtins *BuiltinManifest
}

func NewMethodTable(traits *TraitRegistry, builtins *BuiltinManifest) *MethodTable {
	return &MethodTable{
		Inherent: make(map[Idx]map[intern.Name]MethodSig),
		Derived:  make(map[Idx]map[intern.Name]MethodSig),
		Traits:   traits,
		Builtins: builtins,
	}
}

func (t *MethodTable) AddInherent(receiver Idx, m MethodSig) {
	if t.Inherent[receiver] == nil {
		t.Inherent[receiver] = make(map[intern.Name]MethodSig)
	}
	t.Inherent[receiver][m.Name] = m
}

func (t *MethodTable) AddDerived(receiver Idx, m MethodSig) {
	if t.Derived[receiver] == nil {
		t.Derived[receiver] = make(map[intern.Name]MethodSig)
	}
	t.Derived[receiver][m.Name] = m
}

// Lookup resolves method name on receiver following spec §4.E's
// fixed order, or returns a non-nil error on ambiguity.
func (t *MethodTable) Lookup(p *Pool, receiver Idx, name intern.Name) (MethodResolution, error) {
	receiver = p.Resolve(receiver)

	// 1. user inherent impl
	if methods, ok := t.Inherent[receiver]; ok {
		if m, ok := methods[name]; ok {
			sig := m
			return MethodResolution{Inherent: &sig}, nil
		}
	}

	// 1b. user trait impl -- check for ambiguity across all impls of receiver
	var providers []intern.Name
	var found *Impl
	for _, impl := range t.Traits.ImplsFor(receiver) {
		if impl.Methods[name] {
			providers = append(providers, impl.Trait)
			found = impl
		}
	}
	if len(providers) > 1 {
		return MethodResolution{}, &AmbiguityError{Receiver: receiver, Method: name, Traits: providers}
	}
	if found != nil {
		return MethodResolution{Trait: found}, nil
	}

	// 2. derived impls
	if methods, ok := t.Derived[receiver]; ok {
		if m, ok := methods[name]; ok {
			sig := m
			return MethodResolution{Derived: &sig}, nil
		}
	}

	// 3/4. builtin collection/primitive methods
	if t.Builtins != nil {
		if bm, ok := t.Builtins.Lookup(p.Tag(receiver), name); ok {
			return MethodResolution{Builtin: &bm}, nil
		}
	}

	return MethodResolution{}, nil
}
