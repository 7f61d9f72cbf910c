package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/sunholo/sigil/internal/ast"
	"github.com/sunholo/sigil/internal/canon"
	"github.com/sunholo/sigil/internal/errors"
	"github.com/sunholo/sigil/internal/intern"
	"github.com/sunholo/sigil/internal/lexer"
	"github.com/sunholo/sigil/internal/parser"
	"github.com/sunholo/sigil/internal/types"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

// unit is one compilation unit's pipeline state, threaded through
// lex -> parse -> infer -> canonicalise the way the teacher's
// cmd/ailang runFile threads a single *ast.Program through its own
// stages, generalised to the arena AST and the queue-based diagnostics
// this core uses instead.
type unit struct {
	filename string
	arena    *ast.Arena
	names    *intern.Interner
	queue    *errors.Queue
	file     *ast.File

	pool    *types.Pool
	typeReg *types.TypeRegistry
	typed   *types.TypedModule
	core    *canon.CanonResult
}

// loadAndParse reads filename, lexes and parses it, recording any
// syntax diagnostics into the returned unit's queue.
func loadAndParse(filename string, cfg *ProjectConfig) (*unit, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}

	arena := ast.NewArena()
	names := intern.New()
	queue := errors.NewQueue(cfg.MaxDiagnosticCount)

	l := lexer.New(string(content), filename)
	p := parser.New(l, arena, names, queue, filename)
	f := p.Parse()

	return &unit{filename: filename, arena: arena, names: names, queue: queue, file: f}, nil
}

// checkTypes runs inference over u's parsed file, recording diagnostics
// into the unit's shared queue.
func (u *unit) checkTypes() {
	u.pool = types.NewPool()
	u.typeReg = types.NewTypeRegistry()
	traits := types.NewTraitRegistry()
	builtins := types.NewBuiltinManifest()
	types.RegisterBuiltins(builtins, u.names)
	methods := types.NewMethodTable(traits, builtins)
	engine := types.NewEngine(u.pool, u.names, u.typeReg, traits, methods, u.queue)
	u.typed = engine.CheckFile(u.arena, u.file)
}

// canonicalise lowers u's typed file to Core IR. Callers must call
// checkTypes first and check u.queue.HasErrors() before trusting u.typed.
func (u *unit) canonicalise() {
	u.core = canon.New(u.names, u.pool, u.typeReg, u.typed, u.queue, u.arena).Run(u.file)
}

// printDiagnostics renders every queued Report as one line of
// code+message, the minimal rendering the spec leaves to an external
// "diagnostic renderer" collaborator (spec §6); a real renderer would
// consume Report.ToJSON and lay out source snippets, which is
// explicitly out of this core's scope.
func printDiagnostics(q *errors.Queue, out io.Writer) {
	for _, rep := range q.Reports() {
		label := red("error")
		if rep.Severity == errors.SeverityWarning {
			label = yellow("warning")
		}
		fmt.Fprintf(out, "%s[%s]: %s\n", label, rep.Code, rep.Message)
	}
	if d := q.Dropped(); d > 0 {
		fmt.Fprintf(out, "(%d additional diagnostics suppressed past max-count)\n", d)
	}
}
