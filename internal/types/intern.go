package types

import (
	"fmt"
	"strings"

	"github.com/sunholo/sigil/internal/intern"
)

// structKey builds a deterministic dedup key for a non-Var constructor.
// Var entries are deliberately excluded from this table: every Var is
// always fresh (spec §4.A "Vars are always fresh").
func structKey(tag Tag, parts ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d|", tag)
	for _, p := range parts {
		b.WriteString(p)
		b.WriteByte('\x00')
	}
	return b.String()
}

func (p *Pool) internStructural(key string, build func() item) Idx {
	if idx, ok := p.structural[key]; ok {
		return idx
	}
	idx := p.alloc(build())
	p.structural[key] = idx
	return idx
}

// List interns List<elem>.
func (p *Pool) List(elem Idx) Idx {
	key := structKey(TagList, fmt.Sprint(elem))
	return p.internStructural(key, func() item {
		return item{tag: TagList, child: elem, flags: p.computeChildFlags(elem)}
	})
}

// Option interns Option<elem>.
func (p *Pool) Option(elem Idx) Idx {
	key := structKey(TagOption, fmt.Sprint(elem))
	return p.internStructural(key, func() item {
		return item{tag: TagOption, child: elem, flags: p.computeChildFlags(elem)}
	})
}

// Result interns Result<ok, err>, storing the pair in the map side
// table (reused: a two-Idx pair is exactly what MapSig already models).
func (p *Pool) Result(ok, err Idx) Idx {
	key := structKey(TagResult, fmt.Sprint(ok), fmt.Sprint(err))
	return p.internStructural(key, func() item {
		extra := uint32(len(p.maps))
		p.maps = append(p.maps, MapSig{Key: ok, Val: err})
		return item{tag: TagResult, extra: extra, flags: p.computeChildFlags(ok, err)}
	})
}

// Map interns Map<key, val>.
func (p *Pool) Map(key, val Idx) Idx {
	k := structKey(TagMap, fmt.Sprint(key), fmt.Sprint(val))
	return p.internStructural(k, func() item {
		extra := uint32(len(p.maps))
		p.maps = append(p.maps, MapSig{Key: key, Val: val})
		return item{tag: TagMap, extra: extra, flags: p.computeChildFlags(key, val)}
	})
}

// Range interns Range<elem> (e.g. 0..10).
func (p *Pool) Range(elem Idx) Idx {
	key := structKey(TagRange, fmt.Sprint(elem))
	return p.internStructural(key, func() item {
		return item{tag: TagRange, child: elem, flags: p.computeChildFlags(elem)}
	})
}

// Tuple interns a fixed-arity tuple type.
func (p *Pool) Tuple(elems []Idx) Idx {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = fmt.Sprint(e)
	}
	key := structKey(TagTuple, parts...)
	return p.internStructural(key, func() item {
		extra := uint32(len(p.tuples))
		cp := append([]Idx(nil), elems...)
		p.tuples = append(p.tuples, cp)
		return item{tag: TagTuple, extra: extra, flags: p.computeChildFlags(elems...)}
	})
}

// Function interns a function type with the given parameter arity.
func (p *Pool) Function(params []Idx, ret Idx) Idx {
	parts := make([]string, 0, len(params)+1)
	for _, pp := range params {
		parts = append(parts, fmt.Sprint(pp))
	}
	parts = append(parts, "->"+fmt.Sprint(ret))
	key := structKey(TagFunction, parts...)
	return p.internStructural(key, func() item {
		extra := uint32(len(p.funcSigs))
		cp := append([]Idx(nil), params...)
		p.funcSigs = append(p.funcSigs, FuncSig{Params: cp, Ret: ret})
		flagChildren := append(append([]Idx(nil), params...), ret)
		return item{tag: TagFunction, extra: extra, flags: p.computeChildFlags(flagChildren...)}
	})
}

// Struct interns (or re-resolves) a nominal struct type. Structs are
// nominal: the dedup key is the declared name alone, matching spec
// §4.D's "Struct/Enum unify by Idx equality (nominal types)".
func (p *Pool) Struct(name intern.Name, fields []Field) Idx {
	key := structKey(TagStruct, "n", fmt.Sprint(name))
	return p.internStructural(key, func() item {
		extra := uint32(len(p.fields))
		cp := append([]Field(nil), fields...)
		p.fields = append(p.fields, cp)
		children := make([]Idx, len(fields))
		for i, f := range fields {
			children[i] = f.Type
		}
		return item{tag: TagStruct, name: name, extra: extra, flags: p.computeChildFlags(children...)}
	})
}

// Enum interns (or re-resolves) a nominal enum type.
func (p *Pool) Enum(name intern.Name, variants []Variant) Idx {
	key := structKey(TagEnum, "n", fmt.Sprint(name))
	return p.internStructural(key, func() item {
		extra := uint32(len(p.variants))
		cp := append([]Variant(nil), variants...)
		p.variants = append(p.variants, cp)
		var children []Idx
		for _, v := range variants {
			children = append(children, v.Fields...)
		}
		return item{tag: TagEnum, name: name, extra: extra, flags: p.computeChildFlags(children...)}
	})
}

// NamedRef interns an unresolved reference to a user type name,
// produced by resolveTypeExpr (infer.go) when a type name is neither a
// primitive nor declared in the type registry. Nothing rewrites a
// NamedRef to a Struct/Enum Idx afterwards.
func (p *Pool) NamedRef(name intern.Name) Idx {
	key := structKey(TagNamedRef, fmt.Sprint(name))
	return p.internStructural(key, func() item {
		return item{tag: TagNamedRef, name: name, flags: 0}
	})
}

// Fresh allocates a new, always-unbound type variable at the given
// generalisation rank. Vars are never structurally deduplicated.
func (p *Pool) Fresh(rank int) Idx {
	idx := p.alloc(item{tag: TagVar, flags: HasVar})
	p.vars[idx] = VarState{Bound: false, Rank: rank}
	p.nextVar++
	return idx
}

// IsPrimitiveIdx reports whether idx lies in the reserved prefix.
func IsPrimitiveIdx(idx Idx) bool { return idx < numPrimitives }
