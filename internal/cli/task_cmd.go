package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/arbor/internal/cli/formatter"
	"github.com/alexanderramin/arbor/internal/contract"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"t"},
		Short:   "Manage tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskShowCmd(app),
		newTaskUpdateCmd(app),
		newTaskRemoveCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var project, name, description, parent string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new task in a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if project == "" || name == "" || description == "" {
				if !app.interactive() {
					return errors.New("--project, --name and --description are required")
				}
				projects, err := app.Projects.List(ctx)
				if err != nil {
					return err
				}
				if project == "" && len(projects) == 0 {
					return errors.New("no projects yet: create one with 'arbor project add'")
				}
				if err := taskForm(projects, &project, &name, &description).Run(); err != nil {
					return err
				}
			}

			projectID, err := parseID(project)
			if err != nil {
				return err
			}
			parentID, err := optionalID(parent)
			if err != nil {
				return err
			}
			t, err := app.Tasks.Create(ctx, contract.TaskCreateRequest{
				ParentID:    parentID,
				ProjectID:   projectID,
				Name:        name,
				Description: description,
			})
			if err != nil {
				return err
			}

			return app.emit(cmd, t, func() string {
				return fmt.Sprintf("Created task #%d %s in project #%d", t.ID, t.Name, t.ProjectID)
			})
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Owning project id")
	cmd.Flags().StringVar(&name, "name", "", "Task name")
	cmd.Flags().StringVar(&description, "description", "", "Task description")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent task id")

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var project int64

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := app.Tasks.List(cmd.Context())
			if err != nil {
				return err
			}
			if project > 0 {
				filtered := make([]contract.TaskResponse, 0, len(tasks))
				for _, t := range tasks {
					if t.ProjectID == project {
						filtered = append(filtered, t)
					}
				}
				tasks = filtered
			}
			return app.emit(cmd, tasks, func() string {
				if len(tasks) == 0 {
					return "No tasks found."
				}
				return formatter.FormatTaskList(tasks)
			})
		},
	}

	cmd.Flags().Int64Var(&project, "project", 0, "Only tasks of this project")

	return cmd
}

func newTaskShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			t, err := app.Tasks.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			return app.emit(cmd, t, func() string {
				return formatter.FormatTaskDetail(*t)
			})
		},
	}
}

func newTaskUpdateCmd(app *App) *cobra.Command {
	var name, description, state string
	var project, parent int64

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a task, including its state",
		Long: `Update a task. Only the flags given are changed.

Moving a task to in_progress stamps its start time, completed stamps its
finish time, and planned clears both. Project states are recomputed from
their tasks afterwards.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var req contract.TaskUpdateRequest
			flags := cmd.Flags()
			if flags.Changed("name") {
				req.Name = &name
			}
			if flags.Changed("description") {
				req.Description = &description
			}
			if flags.Changed("state") {
				req.State = &state
			}
			if flags.Changed("project") {
				req.ProjectID = &project
			}
			if flags.Changed("parent") {
				req.ParentID = &parent
			}
			if req == (contract.TaskUpdateRequest{}) {
				return errNothingToUpdate
			}

			t, err := app.Tasks.Update(cmd.Context(), id, req)
			if err != nil {
				return err
			}
			return app.emit(cmd, t, func() string {
				return formatter.FormatTaskDetail(*t)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New task name")
	cmd.Flags().StringVar(&description, "description", "", "New task description")
	cmd.Flags().StringVar(&state, "state", "", "New state: planned, in_progress or completed")
	cmd.Flags().Int64Var(&project, "project", 0, "Move the task to this project")
	cmd.Flags().Int64Var(&parent, "parent", 0, "New parent task id, 0 for none")

	return cmd
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Delete a task and its subtasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := app.Tasks.Delete(cmd.Context(), id); err != nil {
				return err
			}
			app.say(cmd, "Deleted task #%d", id)
			return nil
		},
	}
}
