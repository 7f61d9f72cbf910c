package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/sunholo/sigil/internal/ast"
	"github.com/sunholo/sigil/internal/canon"
	"github.com/sunholo/sigil/internal/errors"
	"github.com/sunholo/sigil/internal/lexer"
	"github.com/sunholo/sigil/internal/parser"
	"github.com/sunholo/sigil/internal/query"
	"github.com/sunholo/sigil/internal/types"
)

// ProcessLine runs one line of source through lex -> parse -> infer ->
// canonicalise and prints the result, mirroring the teacher's
// ProcessExpression but stopping short of evaluation (the interpreter
// is an out-of-core collaborator, not something this package owns).
//
// A line starting with `func`/`pure func` defines one or more named
// functions that persist in the session (so later lines can call them,
// the REPL equivalent of spec §5's unit-local bindings accumulating
// over a session); any other line is a bare expression, checked and
// discarded once printed.
func (r *REPL) ProcessLine(src string, out io.Writer) {
	trimmed := strings.TrimSpace(src)
	if strings.HasPrefix(trimmed, "func") || strings.HasPrefix(trimmed, "pure") {
		r.processDecl(src, out)
		return
	}
	r.processExpr(src, out)
}

func (r *REPL) newEngine(queue *errors.Queue) *types.Engine {
	engine := types.NewEngine(r.pool, r.names, r.typeReg, r.traits, r.methods, queue)
	for name, scheme := range r.bindings {
		engine.Env.Bind(name, scheme)
	}
	return engine
}

func (r *REPL) processExpr(src string, out io.Writer) {
	arena := ast.NewArena()
	queue := errors.NewQueue(50)

	l := lexer.New(src, "<repl>")
	p := parser.New(l, arena, r.names, queue, "<repl>")
	body := p.ParseExpr()
	if queue.HasErrors() {
		r.printDiagnostics(queue, out)
		return
	}

	f := wrapAsFunc(arena, r.names, body)

	// Re-parsing identical source deterministically reproduces the same
	// ExprId assignment, so a TypedModule cached under this line's
	// content hash can be looked up against this fresh arena safely.
	key := query.HashSource([]byte(src))
	typed, cached := r.cache.TypedModule(key)
	if !cached {
		typed = r.newEngine(queue).CheckFile(arena, f)
		if !typed.Diagnostics.HasErrors() {
			r.cache.StoreTypedModule(key, typed)
		}
	}
	if typed.Diagnostics.HasErrors() {
		r.printDiagnostics(typed.Diagnostics, out)
		return
	}

	if ty, ok := typed.ExpressionTypes[body]; ok {
		fmt.Fprintf(out, "%s%s\n", dim(":: "), yellow(r.formatType(ty)))
	}

	if !r.config.ShowCore {
		return
	}

	cr, cached := r.cache.CanonResult(key)
	if !cached {
		cr = canon.New(r.names, r.pool, r.typeReg, typed, queue, arena).Run(f)
		if queue.HasErrors() {
			r.printDiagnostics(queue, out)
			return
		}
		r.cache.StoreCanonResult(key, cr)
	}
	root, ok := cr.Roots[r.names.Intern("_repl")]
	if ok {
		fmt.Fprintln(out, dim(r.formatCore(cr, root)))
	}
}

func (r *REPL) processDecl(src string, out io.Writer) {
	arena := ast.NewArena()
	queue := errors.NewQueue(50)

	l := lexer.New(src, "<repl>")
	p := parser.New(l, arena, r.names, queue, "<repl>")
	f := p.Parse()
	if queue.HasErrors() {
		r.printDiagnostics(queue, out)
		return
	}

	typed := r.newEngine(queue).CheckFile(arena, f)
	if typed.Diagnostics.HasErrors() {
		r.printDiagnostics(typed.Diagnostics, out)
		return
	}

	for _, fn := range f.Funcs {
		scheme, ok := typed.FunctionSignatures[fn.Name]
		if !ok {
			continue
		}
		r.bindings[fn.Name] = scheme
		fmt.Fprintf(out, "%s %s %s %s\n", green("defined"), r.names.Lookup(fn.Name), dim("::"), yellow(r.formatType(scheme.Body)))
	}
	// A new binding can change how a previously-seen expression resolves
	// (e.g. it used to reference an unbound name), so any cached result
	// keyed only by source text is no longer trustworthy.
	r.cache = query.NewCache()

	if !r.config.ShowCore {
		return
	}
	cr := canon.New(r.names, r.pool, r.typeReg, typed, queue, arena).Run(f)
	if queue.HasErrors() {
		r.printDiagnostics(queue, out)
		return
	}
	for _, fn := range f.Funcs {
		if root, ok := cr.Roots[fn.Name]; ok {
			fmt.Fprintln(out, dim(r.formatCore(cr, root)))
		}
	}
}

func (r *REPL) printDiagnostics(q *errors.Queue, out io.Writer) {
	for _, rep := range q.Reports() {
		fmt.Fprintf(out, "%s[%s] %s\n", red("error"), rep.Code, rep.Message)
	}
}
