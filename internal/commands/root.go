package commands

import (
	"github.com/spf13/cobra"

	aegis "github.com/bhardwajRahul/aegis-stack"
	"github.com/bhardwajRahul/aegis-stack/internal/output"
)

// RootCmd creates and returns the root command for the aegis CLI.
func RootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "aegis",
		Short: "Generate application skeletons from component-conditional templates",
		Long: `Aegis turns a stack template into a runnable project skeleton.

A stack template declares variables and optional components (worker,
scheduler, database, frontend extras). Aegis resolves your answers,
renders the tree, prunes disabled components, and verifies the result
contains no templating leftovers.

Every selection of components yields a self-consistent project.`,
		Version: aegis.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetVerbose(verbose)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")

	return cmd
}
