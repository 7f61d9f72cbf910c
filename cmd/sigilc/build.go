package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build <file>",
		Short: "Lex, parse, infer and canonicalise a file, printing a pass summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(".")
			if err != nil {
				return err
			}
			return runBuild(args[0], cfg, cmd.OutOrStdout())
		},
	}
}

func runBuild(filename string, cfg *ProjectConfig, out io.Writer) error {
	u, err := loadAndParse(filename, cfg)
	if err != nil {
		return err
	}
	if u.queue.HasErrors() {
		printDiagnostics(u.queue, out)
		return fmt.Errorf("%s: parse errors", filename)
	}
	fmt.Fprintf(out, "%s parse: %d top-level functions\n", green("✓"), len(u.file.Funcs))

	u.checkTypes()
	if u.queue.HasErrors() {
		printDiagnostics(u.queue, out)
		return fmt.Errorf("%s: type errors", filename)
	}
	fmt.Fprintf(out, "%s infer: %d function signatures resolved\n", green("✓"), len(u.typed.FunctionSignatures))

	u.canonicalise()
	if u.queue.HasErrors() {
		printDiagnostics(u.queue, out)
		return fmt.Errorf("%s: canonicalisation errors", filename)
	}
	fmt.Fprintf(out, "%s canonicalise: %d Core IR roots, %d arena nodes\n", green("✓"), len(u.core.Roots), u.core.Arena.NumExprs())

	if w := u.queue.Dropped(); w > 0 {
		printDiagnostics(u.queue, out)
	}
	return nil
}
