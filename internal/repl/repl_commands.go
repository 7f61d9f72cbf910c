package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/sunholo/sigil/internal/intern"
	"github.com/sunholo/sigil/internal/query"
	"github.com/sunholo/sigil/internal/types"
)

// HandleCommand dispatches a `:`-prefixed REPL command, mirroring the
// teacher's command switch but trimmed to the commands this package's
// narrower pipeline (lex/parse/infer/canonicalise, no evaluator) can
// actually back.
func (r *REPL) HandleCommand(cmd string, out io.Writer) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}

	switch parts[0] {
	case ":help", ":h":
		r.printHelp(out)

	case ":dump-core":
		r.config.ShowCore = !r.config.ShowCore
		status := "disabled"
		if r.config.ShowCore {
			status = "enabled"
		}
		fmt.Fprintf(out, "Core IR dumping %s\n", yellow(status))

	case ":history":
		for i, h := range r.history {
			fmt.Fprintf(out, "%3d  %s\n", i+1, h)
		}

	case ":reset":
		r.bindings = make(map[intern.Name]types.Scheme)
		// A cached TypedModule was resolved against the bindings in
		// effect when it was computed; once those bindings are gone the
		// same source text can type differently (e.g. a now-undefined
		// identifier), so the cache must reset alongside them.
		r.cache = query.NewCache()
		fmt.Fprintln(out, yellow("Session bindings cleared"))

	default:
		fmt.Fprintf(out, "%s: unknown command %q (try :help)\n", red("Error"), parts[0])
	}
}

func (r *REPL) printHelp(out io.Writer) {
	fmt.Fprintln(out, bold("sigil REPL commands:"))
	fmt.Fprintln(out, "  :help        show this message")
	fmt.Fprintln(out, "  :dump-core   toggle printing each expression's canonical IR")
	fmt.Fprintln(out, "  :history     show input history")
	fmt.Fprintln(out, "  :reset       clear accumulated session bindings")
	fmt.Fprintln(out, "  :quit        exit")
}
