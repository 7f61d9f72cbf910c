// Command sigilc is the compiler's CLI front-end: the one piece of this
// repository allowed to touch environment and the filesystem (spec §6
// "no wire protocol/CLI/env vars at the core level"). It is a thin
// driver -- lex -> parse -> infer -> canonicalise -> print diagnostics
// -> exit code -- built the way the teacher's cmd/ailang is, but on
// github.com/spf13/cobra's command tree instead of the stdlib flag
// package, since cobra is already part of the teacher's dependency
// graph (go.mod carries spf13/cobra/spf13/pflag) and the teacher's own
// CLI never gave it a direct consumer.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version, Commit and BuildTime are set by ldflags during release
// builds, mirroring the teacher's cmd/ailang version variables.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var bold = color.New(color.Bold).SprintFunc()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "sigilc",
		Short:   "sigil compiler core CLI",
		Version: Version,
		Long:    fmt.Sprintf("%s\n\nlex -> parse -> infer -> canonicalise, with diagnostics rendered per the project's %s.", bold("sigilc"), configFileName),
	}
	root.SetVersionTemplate(fmt.Sprintf("sigilc %s (commit %s, built %s)\n", Version, Commit, BuildTime))

	root.AddCommand(newCheckCmd())
	root.AddCommand(newBuildCmd())
	root.AddCommand(newReplCmd())
	return root
}
