// Package repl is a minimal interactive driver over the core pipeline:
// lex -> parse -> infer -> canonicalise -> pretty-print, the way the
// teacher's internal/repl drives lex -> parse -> elaborate -> eval, but
// stopping at the canonical IR boundary since the interpreter/codegen
// backends are out of core scope. Grounded on the teacher's
// internal/repl/repl.go for the liner-driven loop, history file, and
// colourised prompt.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/sunholo/sigil/internal/ast"
	"github.com/sunholo/sigil/internal/intern"
	"github.com/sunholo/sigil/internal/query"
	"github.com/sunholo/sigil/internal/types"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// Config toggles what each evaluated expression prints in addition to
// its inferred type, mirroring the teacher's :dump-core/:dump-typed
// REPL toggles.
type Config struct {
	ShowCore bool
}

// REPL holds the state one interactive session threads across inputs:
// a single name interner and type pool/registries shared by every
// expression typed at the prompt, so named bindings accumulate the way
// a real session's `let` bindings would (spec §5's unit-local
// ownership -- one REPL session is one compilation unit).
type REPL struct {
	config *Config

	names   *intern.Interner
	pool    *types.Pool
	typeReg *types.TypeRegistry
	traits  *types.TraitRegistry
	methods *types.MethodTable

	bindings map[intern.Name]types.Scheme
	history  []string
	version  string

	// cache memoises a bare expression's TypedModule/CanonResult by the
	// hash of its source text, so re-running an identical line (a
	// common REPL pattern: pressing up-arrow and hitting enter again)
	// skips re-running inference and canonicalisation.
	cache *query.Cache
}

// New creates a REPL session with a fresh type universe.
func New() *REPL {
	return NewWithVersion("")
}

// NewWithVersion creates a REPL session, recording version for the
// welcome banner.
func NewWithVersion(version string) *REPL {
	if version == "" {
		version = "dev"
	}
	traits := types.NewTraitRegistry()
	names := intern.New()
	builtins := types.NewBuiltinManifest()
	types.RegisterBuiltins(builtins, names)
	return &REPL{
		config:   &Config{},
		names:    names,
		pool:     types.NewPool(),
		typeReg:  types.NewTypeRegistry(),
		traits:   traits,
		methods:  types.NewMethodTable(traits, builtins),
		bindings: make(map[intern.Name]types.Scheme),
		version:  version,
		cache:    query.NewCache(),
	}
}

// EnableCoreDump turns on printing each evaluated expression's
// canonical IR alongside its type, equivalent to the teacher's
// :dump-core toggle but settable programmatically (e.g. from a CLI flag).
func (r *REPL) EnableCoreDump() { r.config.ShowCore = true }

func (r *REPL) prompt() string {
	return "sigil> "
}

// Start runs the interactive loop against in/out until EOF or :quit.
func (r *REPL) Start(in io.Reader, out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()

	historyFile := filepath.Join(os.TempDir(), ".sigil_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	line.SetMultiLineMode(true)

	fmt.Fprintf(out, "%s %s\n", bold("sigil"), bold(r.version))
	fmt.Fprintln(out, dim("Type :help for help, :quit to exit"))
	fmt.Fprintln(out)

	line.SetCompleter(func(in string) (c []string) {
		if !strings.HasPrefix(in, ":") {
			return nil
		}
		for _, cmd := range []string{":help", ":quit", ":dump-core", ":history", ":reset"} {
			if strings.HasPrefix(cmd, in) {
				c = append(c, cmd)
			}
		}
		return c
	})

	for {
		input, err := line.Prompt(r.prompt())
		if err == io.EOF {
			fmt.Fprintln(out, green("\nGoodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		line.AppendHistory(input)
		r.history = append(r.history, input)

		if strings.HasPrefix(input, ":") {
			if input == ":quit" || input == ":q" || input == ":exit" {
				fmt.Fprintln(out, green("Goodbye!"))
				break
			}
			r.HandleCommand(input, out)
			continue
		}

		r.ProcessLine(input, out)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

// wrapAsFunc wraps a bare expression typed at the prompt in a nameless
// zero-arg function declaration, since the core pipeline's entry point
// (types.Engine.CheckFile / canon.Canonicaliser.Run) operates over
// ast.File-level function declarations, not loose expressions.
func wrapAsFunc(arena *ast.Arena, names *intern.Interner, body ast.ExprId) *ast.File {
	return &ast.File{
		ModulePath: names.Intern("repl"),
		Funcs: []ast.FuncDecl{
			{Name: names.Intern("_repl"), ReturnType: ast.NoType, Body: body},
		},
	}
}
