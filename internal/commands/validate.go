package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bhardwajRahul/aegis-stack/internal/manifest"
	"github.com/bhardwajRahul/aegis-stack/internal/output"
	"github.com/bhardwajRahul/aegis-stack/internal/resolve"
	"github.com/bhardwajRahul/aegis-stack/internal/validate"
)

// ValidateCmd creates the 'validate' command: re-run the consistency scan
// on an already-generated project.
func ValidateCmd() *cobra.Command {
	var (
		setFlags    []string
		answersFile string
	)

	cmd := &cobra.Command{
		Use:   "validate [template-dir] [project-dir]",
		Short: "Scan a generated project for templating leftovers",
		Long: `Scans a generated project for unrendered template markers and for
references to components that were disabled when it was generated.

The same answers used for generation must be supplied so aegis knows
which components to treat as disabled.`,
		Args: cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			templateRoot, projectRoot := args[0], args[1]

			m, err := manifest.Load(templateRoot)
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			answers, err := collectAnswers(m, answersFile, setFlags)
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			cfg, err := resolve.Resolve(answers, m)
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			report, err := validate.Scan(projectRoot, cfg, m)
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			if !report.Empty() {
				output.Error(report.Summary())
				os.Exit(1)
			}
			output.Success(fmt.Sprintf("No issues found in %s", projectRoot))
		},
	}

	cmd.Flags().StringArrayVar(&setFlags, "set", nil, "Set a variable (name=value), repeatable")
	cmd.Flags().StringVar(&answersFile, "answers", "", "YAML file with variable answers")

	return cmd
}
