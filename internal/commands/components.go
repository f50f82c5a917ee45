package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bhardwajRahul/aegis-stack/internal/manifest"
	"github.com/bhardwajRahul/aegis-stack/internal/output"
)

// ComponentsCmd creates the 'components' command: inspect a template's
// optional components and their dependency edges.
func ComponentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "components [template-dir]",
		Short: "List a stack template's components",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			m, err := manifest.Load(args[0])
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			if len(m.Components) == 0 {
				output.Info(fmt.Sprintf("Template %s declares no components", m.Name))
				return
			}

			output.Info(fmt.Sprintf("Components of %s:", m.Name))
			for _, c := range m.Components {
				output.Step(c.ID)
				if len(c.Requires) > 0 {
					output.Step(fmt.Sprintf("  requires:  %s", strings.Join(c.Requires, ", ")))
				}
				if len(c.Conflicts) > 0 {
					output.Step(fmt.Sprintf("  conflicts: %s", strings.Join(c.Conflicts, ", ")))
				}
				for _, p := range c.OwnedPaths {
					output.Step(fmt.Sprintf("  owns:      %s", p))
				}
			}
		},
	}
}
