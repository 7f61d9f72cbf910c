package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Type-check a file without lowering to Core IR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(".")
			if err != nil {
				return err
			}
			return runCheck(args[0], cfg, cmd.OutOrStdout(), cfg.WarningsAsErrors)
		},
	}
	return cmd
}

func runCheck(filename string, cfg *ProjectConfig, out io.Writer, warningsAsErrors bool) error {
	u, err := loadAndParse(filename, cfg)
	if err != nil {
		return err
	}
	if u.queue.HasErrors() {
		printDiagnostics(u.queue, out)
		return fmt.Errorf("%s: parse errors", filename)
	}

	u.checkTypes()
	printDiagnostics(u.queue, out)
	if u.queue.HasErrors() || (warningsAsErrors && u.queue.Len() > 0) {
		return fmt.Errorf("%s: type errors", filename)
	}

	fmt.Fprintf(out, "%s %s: no errors\n", green("✓"), filename)
	return nil
}
