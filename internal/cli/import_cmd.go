package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/arbor/internal/importer"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Create projects and tasks from a YAML or JSON outline",
		Long: `Create projects and tasks from an outline file. Files ending in .json
are read as JSON, anything else as YAML:

  projects:
    - {ref: web, code: WEB, name: Website}
  tasks:
    - {ref: copy, project_ref: web, name: Copy, description: Landing page}

Everything is stored in one transaction; nothing is written if any entry
is invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outline, err := importer.LoadOutline(args[0])
			if err != nil {
				return err
			}

			if dryRun {
				if errs := importer.ValidateOutline(outline); len(errs) > 0 {
					return errors.Join(errs...)
				}
				app.say(cmd, "Outline is valid: %d projects, %d tasks", len(outline.Projects), len(outline.Tasks))
				return nil
			}

			result, err := app.Imports.Import(cmd.Context(), outline)
			if err != nil {
				return err
			}
			return app.emit(cmd, result, func() string {
				return fmt.Sprintf("Imported %d projects and %d tasks", len(result.Projects), len(result.Tasks))
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the outline without storing it")

	return cmd
}
