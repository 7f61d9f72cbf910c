// Package canon implements the canonicaliser (component G): it lowers
// an arena AST, already type-checked by internal/types, into the
// canonical IR of internal/core. Every rewrite is pure: desugaring of
// surface sugar, match compilation (delegated to internal/dtree),
// constant folding, and type/error attachment from the checker's
// TypedModule, per spec §4.G.
//
// Grounded on the teacher's internal/elaborate package (an
// Elaborator that desugars then normalises AST to Core ANF, plus a
// Tarjan SCC pass in scc.go for grouping mutually recursive top-level
// functions), adapted from the teacher's pointer-linked AST/Core
// nodes to the arena-and-handle shapes of internal/ast and
// internal/core.
package canon

import (
	"github.com/sunholo/sigil/internal/ast"
	"github.com/sunholo/sigil/internal/core"
	"github.com/sunholo/sigil/internal/errors"
	"github.com/sunholo/sigil/internal/intern"
	"github.com/sunholo/sigil/internal/types"
)

// CanonResult is component G's output contract (spec §6
// "Canonicaliser -> backend(s)"): the canonical arena (which also owns
// the decision-tree and constant pools) plus one root expression id
// per top-level function.
type CanonResult struct {
	Arena *core.Arena
	Roots map[intern.Name]core.ExprId
}

// Canonicaliser owns one lowering pass over one ast.File.
type Canonicaliser struct {
	names *intern.Interner
	pool  *types.Pool
	types *types.TypeRegistry
	typed *types.TypedModule
	queue *errors.Queue

	src *ast.Arena
	out *core.Arena

	// paramOrder maps a known top-level function's name to its
	// parameters' declared order, so named-argument calls (spec §4.G
	// "Named-argument calls -> positional calls") can be desugared
	// without re-running inference.
	paramOrder map[intern.Name][]intern.Name
}

// New creates a Canonicaliser for src, lowering into a fresh core.Arena
// using typed (the checker's output for the same file) to attach types
// and pattern resolutions, and queue to record PAT001/PAT002
// diagnostics surfaced by the match compiler.
func New(names *intern.Interner, pool *types.Pool, reg *types.TypeRegistry, typed *types.TypedModule, queue *errors.Queue, src *ast.Arena) *Canonicaliser {
	return &Canonicaliser{
		names:      names,
		pool:       pool,
		types:      reg,
		typed:      typed,
		queue:      queue,
		src:        src,
		out:        core.NewArena(),
		paramOrder: make(map[intern.Name][]intern.Name),
	}
}

// Run canonicalises every function in f (spec §5 "The canonicaliser
// must run after Pass 2 completes for the whole module"), grouping
// mutually recursive top-level functions into shared KindLetRec groups
// via a Tarjan SCC pass over the file's call graph (adapted from the
// teacher's internal/elaborate/scc.go).
func (c *Canonicaliser) Run(f *ast.File) *CanonResult {
	for _, fn := range f.Funcs {
		params := c.src.Params(fn.Params)
		names := make([]intern.Name, len(params))
		for i, p := range params {
			names[i] = p.Name
		}
		c.paramOrder[fn.Name] = names
	}

	groups := sccGroups(f, c.src)
	roots := make(map[intern.Name]core.ExprId, len(f.Funcs))

	byName := make(map[intern.Name]ast.FuncDecl, len(f.Funcs))
	for _, fn := range f.Funcs {
		byName[fn.Name] = fn
	}

	for _, group := range groups {
		if len(group) == 1 {
			fn := byName[group[0]]
			roots[fn.Name] = c.lowerFunc(fn)
			continue
		}
		// A genuine SCC of mutually recursive functions shares one
		// KindLetRec group so a backend can see the whole component at
		// once, mirroring the teacher's call-graph grouping.
		recNames := make([]intern.Name, len(group))
		recValues := make([]core.ExprId, len(group))
		for i, name := range group {
			recNames[i] = name
			recValues[i] = c.lowerFunc(byName[name])
		}
		// The group's members share this KindLetRec node as their
		// common binding site; each member's root is still its own
		// lambda id so callers can look any one of them up by name.
		c.out.PushExpr(core.Expr{
			Kind:      core.KindLetRec,
			RecNames:  c.out.PushNames(recNames),
			RecValues: c.out.PushExprList(recValues),
			Ty:        types.Unit,
		})
		for i, name := range recNames {
			roots[name] = recValues[i]
		}
	}

	return &CanonResult{Arena: c.out, Roots: roots}
}

// lowerFunc lowers fn's body to a KindLambda node (spec §4.G: a
// top-level function is just a named lambda at the Core level).
func (c *Canonicaliser) lowerFunc(fn ast.FuncDecl) core.ExprId {
	params := c.src.Params(fn.Params)
	names := make([]intern.Name, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	body := c.lowerExpr(fn.Body)
	return c.out.PushExpr(core.Expr{
		Kind:   core.KindLambda,
		Ty:     c.tyOf(fn.Body),
		Params: c.out.PushNames(names),
		Body:   body,
	})
}

// tyOf attaches the checker's resolved type to a surface node, or the
// error type if inference never recorded one for it (spec §4.G
// "Error injection": "if type checking failed at a node, the
// canonical node's ty is Idx::ERROR").
func (c *Canonicaliser) tyOf(id ast.ExprId) types.Idx {
	if id == ast.NoExpr {
		return types.Unit
	}
	ty, ok := c.typed.ExpressionTypes[id]
	if !ok {
		return types.ErrorType
	}
	return ty
}

func packSpan(s ast.Span) uint64 {
	return uint64(s.Start)<<32 | uint64(s.End)
}
