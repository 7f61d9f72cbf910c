package repl

import (
	"fmt"
	"strings"

	"github.com/sunholo/sigil/internal/canon"
	"github.com/sunholo/sigil/internal/core"
	"github.com/sunholo/sigil/internal/types"
)

// formatType renders a Pool Idx as a source-level type string, a small
// hand-rolled printer over the tags the REPL actually needs to show
// (function/tuple/list/primitive), not a full pretty-printer for every
// structural shape the pool can hold.
func (r *REPL) formatType(idx types.Idx) string {
	if idx == types.NONE {
		return "?"
	}
	idx = r.pool.Resolve(idx)
	if name := types.PrimitiveName(idx); name != "" {
		return name
	}
	switch r.pool.Tag(idx) {
	case types.TagFunction:
		sig := r.pool.FuncSig(idx)
		parts := make([]string, len(sig.Params))
		for i, p := range sig.Params {
			parts[i] = r.formatType(p)
		}
		return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), r.formatType(sig.Ret))
	case types.TagTuple:
		elems := r.pool.TupleElems(idx)
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = r.formatType(e)
		}
		return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
	case types.TagList:
		return fmt.Sprintf("[%s]", r.formatType(r.pool.Child(idx)))
	case types.TagVar:
		return fmt.Sprintf("t%d", idx)
	default:
		name := r.names.Lookup(r.pool.Name(idx))
		if name == "" {
			return fmt.Sprintf("<type %d>", idx)
		}
		return name
	}
}

// formatCore renders one Core IR subtree as a compact s-expression, the
// way :dump-core shows the canonicaliser's output in the teacher's REPL
// (there the evaluator's runtime value; here the lowered Core node,
// since evaluation is out of core scope). Delegates to canon.Print so
// the REPL and golden-file tests share one rendering.
func (r *REPL) formatCore(cr *canon.CanonResult, id core.ExprId) string {
	return canon.Print(cr.Arena, r.names, id)
}
