package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bhardwajRahul/aegis-stack/internal/compose"
	"github.com/bhardwajRahul/aegis-stack/internal/manifest"
	"github.com/bhardwajRahul/aegis-stack/internal/output"
)

// NewCmd creates the 'new' command for generating projects.
func NewCmd() *cobra.Command {
	var (
		setFlags    []string
		answersFile string
		overwrite   bool
		dryRun      bool
		skipFormat  bool
		lenient     bool
	)

	cmd := &cobra.Command{
		Use:   "new [template-dir] [output-dir]",
		Short: "Generate a project from a stack template",
		Long: `Generates a project skeleton from a stack template.

Answers come from --set flags, an answers file, or AEGIS_* environment
variables. Components whose requirements are not enabled are a hard
error; aegis never enables a prerequisite behind your back.

Examples:
  aegis new ./templates/fastapi ./myapp --set project_name=myapp
  aegis new ./templates/fastapi ./myapp --answers answers.yml --set worker=true`,
		Args: cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			templateRoot, outputRoot := args[0], args[1]

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

			output.Verbose(fmt.Sprintf("Composing %s from template %s", outputRoot, templateRoot))

			opts := compose.Options{
				TemplateRoot: templateRoot,
				OutputRoot:   outputRoot,
				Answers:      answers,
				Overwrite:    overwrite,
				DryRun:       dryRun,
				SkipFormat:   skipFormat,
				Writer:       os.Stdout,
			}

			var result *compose.Result
			if lenient {
				result, err = compose.Compose(cmd.Context(), opts)
			} else {
				result, err = compose.ComposeStrict(cmd.Context(), opts)
			}
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			if dryRun {
				output.Info("Dry run complete, nothing written")
				return
			}

			if result.Report != nil && !result.Report.Empty() {
				output.Warn(result.Report.Summary())
			}
			if result.FormatError != nil {
				output.Warn(fmt.Sprintf("formatter failed (project generated anyway): %v", result.FormatError))
			}

			output.Success(fmt.Sprintf("Generated project: %s", outputRoot))
			if enabled := result.Config.EnabledComponents(); len(enabled) > 0 {
				output.Info("Enabled components:")
				for _, id := range enabled {
					output.Step(id)
				}
			}
			output.Info("Next steps:")
			output.Step(fmt.Sprintf("cd %s", filepath.Clean(outputRoot)))
		},
	}

	cmd.Flags().StringArrayVar(&setFlags, "set", nil, "Set a variable (name=value), repeatable")
	cmd.Flags().StringVar(&answersFile, "answers", "", "YAML file with variable answers")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace the output directory if it exists")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List operations without writing anything")
	cmd.Flags().BoolVar(&skipFormat, "skip-format", false, "Skip the template's formatter hook")
	cmd.Flags().BoolVar(&lenient, "lenient", false, "Report validation issues without failing")

	return cmd
}
