package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sunholo/sigil/internal/repl"
)

func newReplCmd() *cobra.Command {
	var dumpCore bool
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive lex/parse/infer/canonicalise REPL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := repl.NewWithVersion(Version)
			if dumpCore {
				r.EnableCoreDump()
			}
			r.Start(os.Stdin, cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().BoolVar(&dumpCore, "dump-core", false, "print each expression's canonical IR alongside its type")
	return cmd
}
