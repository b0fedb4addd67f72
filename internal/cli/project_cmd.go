package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/arbor/internal/cli/formatter"
	"github.com/alexanderramin/arbor/internal/contract"
	"github.com/spf13/cobra"
)

var errNothingToUpdate = errors.New("nothing to update: pass at least one field flag")

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"p"},
		Short:   "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectTreeCmd(app),
		newProjectUpdateCmd(app),
		newProjectRemoveCmd(app),
		newProjectRecomputeCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var code, name, parent string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if code == "" || name == "" {
				if !app.interactive() {
					return errors.New("--code and --name are required")
				}
				if err := projectForm(&code, &name, &parent).Run(); err != nil {
					return err
				}
			}

			parentID, err := optionalID(parent)
			if err != nil {
				return err
			}
			p, err := app.Projects.Create(cmd.Context(), contract.ProjectCreateRequest{
				ParentID: parentID,
				Code:     code,
				Name:     name,
			})
			if err != nil {
				return err
			}

			return app.emit(cmd, p, func() string {
				return fmt.Sprintf("Created project #%d %s [%s]", p.ID, p.Name, p.Code)
			})
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Project code")
	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent project id")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(cmd.Context())
			if err != nil {
				return err
			}
			return app.emit(cmd, projects, func() string {
				if len(projects) == 0 {
					return "No projects found."
				}
				return formatter.FormatProjectList(projects)
			})
		},
	}
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show project details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			return app.emit(cmd, p, func() string {
				return formatter.FormatProjectDetail(*p)
			})
		},
	}
}

func newProjectTreeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Show every project with its sub-projects and tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projects, err := app.Projects.List(ctx)
			if err != nil {
				return err
			}
			tasks, err := app.Tasks.List(ctx)
			if err != nil {
				return err
			}
			if app.JSON {
				return app.emit(cmd, struct {
					Projects []contract.ProjectResponse `json:"projects"`
					Tasks    []contract.TaskResponse    `json:"tasks"`
				}{projects, tasks}, nil)
			}
			return app.emit(cmd, nil, func() string {
				if len(projects) == 0 {
					return "No projects found."
				}
				return formatter.RenderTree(formatter.BuildForest(projects, tasks))
			})
		},
	}
}

func newProjectUpdateCmd(app *App) *cobra.Command {
	var code, name string
	var parent int64

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a project's code, name or parent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var req contract.ProjectUpdateRequest
			flags := cmd.Flags()
			if flags.Changed("code") {
				req.Code = &code
			}
			if flags.Changed("name") {
				req.Name = &name
			}
			if flags.Changed("parent") {
				req.ParentID = &parent
			}
			if req == (contract.ProjectUpdateRequest{}) {
				return errNothingToUpdate
			}

			p, err := app.Projects.Update(cmd.Context(), id, req)
			if err != nil {
				return err
			}
			return app.emit(cmd, p, func() string {
				return formatter.FormatProjectDetail(*p)
			})
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "New project code")
	cmd.Flags().StringVar(&name, "name", "", "New project name")
	cmd.Flags().Int64Var(&parent, "parent", 0, "New parent project id, 0 for none")

	return cmd
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Delete a project and its tasks; sub-projects become roots",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Delete(cmd.Context(), id); err != nil {
				return err
			}
			app.say(cmd, "Deleted project #%d", id)
			return nil
		},
	}
}

func newProjectRecomputeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "recompute ID",
		Short: "Re-derive a project's state from its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.Recompute(cmd.Context(), id)
			if err != nil {
				return err
			}
			return app.emit(cmd, p, func() string {
				return fmt.Sprintf("Project #%d is %s", p.ID, formatter.StatePill(p.State))
			})
		},
	}
}
