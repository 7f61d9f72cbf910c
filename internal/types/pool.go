// Package types implements the compiler's type system: a structurally
// interning type pool addressed by 32-bit Idx handles (component A's
// other half, component D's representation), Hindley-Milner unification
// with let-rank generalisation (component D), and the trait/method
// resolver (component E).
//
// The pool replaces the teacher compiler's pointer-linked Type trees
// (internal/types/types.go and internal/types/types_v2.go in the
// ailang teacher repo, including its row-polymorphic TRecord2/RowVar
// draft) with the handle-based layout the specification mandates:
// structurally equal monotypes must reduce to Idx equality, which a
// pointer tree cannot guarantee without a separate hash-consing pass.
// The unification algorithm, generalisation/value-restriction rules,
// and error taxonomy are carried over from the teacher's
// internal/types/unification.go and internal/types/errors.go, adapted
// to operate on Idx instead of the Type interface.
package types

import "github.com/sunholo/sigil/internal/intern"

// Idx is a 32-bit handle into a Pool. A fixed prefix of indices is
// reserved for primitives; all other indices are interned
// structurally, so two structurally equal monotypes always share an
// Idx.
type Idx uint32

// NONE encodes the absence of a type. It never appears inside a Pool
// Item payload.
const NONE Idx = 0xFFFFFFFF

// Reserved primitive indices. A primitive's Idx always equals its
// constant below, so primitive equality is a plain integer compare
// with no pool lookup at all.
const (
	Int Idx = iota
	Float
	Bool
	Str
	Char
	Byte
	Unit
	Never
	ErrorType // the recovery type: unifies with anything, silently
	Duration
	Size
	Ordering

	numPrimitives
)

var primitiveNames = [numPrimitives]string{
	Int: "int", Float: "float", Bool: "bool", Str: "str", Char: "char",
	Byte: "byte", Unit: "unit", Never: "never", ErrorType: "error",
	Duration: "duration", Size: "size", Ordering: "ordering",
}

// Tag discriminates the structural shape of a pool entry.
type Tag uint8

const (
	TagPrimitive Tag = iota
	TagList
	TagMap
	TagTuple
	TagFunction
	TagStruct
	TagEnum
	TagOption
	TagResult
	TagRange
	TagVar
	TagNamedRef // an unresolved reference to a user type name, resolved to Struct/Enum/alias during checking
)

// Flags is a bitset of precomputed, O(1)-queryable properties of an Idx.
type Flags uint8

const (
	IsPrimitive Flags = 1 << iota
	IsResolved        // no NamedRef left unresolved beneath this type
	IsMono            // contains no Var at all (synonym check on !HasVar, kept distinct per spec)
	HasErrors         // ErrorType occurs transitively
	HasVar            // Var occurs transitively (the transitive closure the pool maintains at intern time)
)

// item is the compact per-Idx payload. Its interpretation depends on
// Tag: a primitive stores nothing; a single-child container (List,
// Option, Range) stores its element in Child; richer payloads (Function
// params+ret, Struct fields, Enum variants, Tuple elements, Map
// key+value, Result ok+err) are stored in the pool's side tables,
// indexed by Extra.
type item struct {
	tag   Tag
	child Idx   // single-child containers: the element/payload type
	extra uint32 // index into a Pool side table for multi-child payloads
	name  intern.Name // TagStruct/TagEnum/TagNamedRef: the declared name
	flags Flags
}

// FuncSig is the side-table payload for TagFunction.
type FuncSig struct {
	Params []Idx
	Ret    Idx
}

// Field is one named field of a struct.
type Field struct {
	Name intern.Name
	Type Idx
}

// Variant is one enum constructor.
type Variant struct {
	Name   intern.Name
	Fields []Idx // positional payload types; empty for a unit variant
}

// MapSig is the side-table payload for TagMap.
type MapSig struct {
	Key Idx
	Val Idx
}

// VarState is the unification state of a TagVar entry: either unbound
// at some generalisation rank, or bound to another Idx.
type VarState struct {
	Bound bool
	Rank  int // meaningful only while Bound == false
	Value Idx // meaningful only while Bound == true
}

// Pool is the structural type-interning table (component A's type
// half) plus the mutable variable-binding store the inference engine
// needs (component D). A Pool outlives a single compilation unit;
// Var bindings are unit-scoped and are reset by using a fresh Pool
// for each unit.
type Pool struct {
	items []item

	funcSigs []FuncSig
	fields   [][]Field
	variants [][]Variant
	maps     []MapSig
	tuples   [][]Idx

	structural map[string]Idx // structural dedup key -> Idx, for non-Var tags

	vars []VarState // TagVar entries' mutable state, indexed in lockstep with items

	nextVar uint32
}

// NewPool constructs a Pool with the primitive prefix installed.
func NewPool() *Pool {
	p := &Pool{
		structural: make(map[string]Idx),
	}
	for i := Idx(0); i < numPrimitives; i++ {
		flags := IsPrimitive | IsResolved | IsMono
		if i == ErrorType {
			flags |= HasErrors
		}
		p.items = append(p.items, item{
			tag:   TagPrimitive,
			name:  intern.EMPTY,
			flags: flags,
		})
		p.vars = append(p.vars, VarState{})
	}
	return p
}

// PrimitiveName returns the reserved primitive's source-level name.
func PrimitiveName(idx Idx) string {
	if idx < numPrimitives {
		return primitiveNames[idx]
	}
	return ""
}

func (p *Pool) alloc(it item) Idx {
	idx := Idx(len(p.items))
	p.items = append(p.items, it)
	p.vars = append(p.vars, VarState{})
	return idx
}

// Flags returns the precomputed flag set for idx. O(1): flags are
// computed once at intern time and never recomputed.
func (p *Pool) Flags(idx Idx) Flags { return p.items[idx].flags }

// Tag returns the structural tag of idx.
func (p *Pool) Tag(idx Idx) Tag { return p.items[idx].tag }

// Child returns the single-child payload for List/Option/Range
// containers.
func (p *Pool) Child(idx Idx) Idx { return p.items[idx].child }

// Name returns the declared name for TagStruct/TagEnum/TagNamedRef.
func (p *Pool) Name(idx Idx) intern.Name { return p.items[idx].name }

// FuncSig returns the parameter/return payload of a TagFunction idx.
func (p *Pool) FuncSig(idx Idx) FuncSig { return p.funcSigs[p.items[idx].extra] }

// Fields returns the field list of a TagStruct idx.
func (p *Pool) Fields(idx Idx) []Field { return p.fields[p.items[idx].extra] }

// Variants returns the variant list of a TagEnum idx.
func (p *Pool) Variants(idx Idx) []Variant { return p.variants[p.items[idx].extra] }

// MapSig returns the key/value payload of a TagMap idx.
func (p *Pool) MapSig(idx Idx) MapSig { return p.maps[p.items[idx].extra] }

// TupleElems returns the element list of a TagTuple idx.
func (p *Pool) TupleElems(idx Idx) []Idx { return p.tuples[p.items[idx].extra] }

// Var returns the mutable binding state of a TagVar idx.
func (p *Pool) Var(idx Idx) VarState { return p.vars[idx] }

// SetVar overwrites the mutable binding state of a TagVar idx. Only
// the unification engine should call this.
func (p *Pool) SetVar(idx Idx, st VarState) { p.vars[idx] = st }

// computeChildFlags folds a child Idx's flags into an aggregate,
// maintaining the "HasVar/HasErrors is the transitive closure"
// invariant.
func (p *Pool) computeChildFlags(children ...Idx) Flags {
	var f Flags = IsResolved | IsMono
	for _, c := range children {
		if c == NONE {
			continue
		}
		cf := p.Flags(c)
		if cf&HasVar != 0 {
			f |= HasVar
			f &^= IsMono
		}
		if cf&HasErrors != 0 {
			f |= HasErrors
		}
		if cf&IsResolved == 0 {
			f &^= IsResolved
		}
	}
	return f
}
