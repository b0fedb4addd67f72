package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/alexanderramin/arbor/internal/config"
	"github.com/alexanderramin/arbor/internal/service"
	"github.com/spf13/cobra"
)

// annotationNoStore marks commands that run without opening the database.
const annotationNoStore = "arbor/no-store"

// App holds references to the services used by CLI commands and the
// settings resolved before any of them runs.
type App struct {
	Projects service.ProjectService
	Tasks    service.TaskService
	Reports  service.ReportService
	Imports  service.ImportService

	// Config is resolved from defaults, the config file, ARBOR_* variables
	// and flags in the root pre-run.
	Config *config.Config
	Logger *slog.Logger

	// IsInteractive reports whether forms may be shown for missing input.
	IsInteractive func() bool

	// Connect opens the store and sets the services. It is skipped when
	// the services are already wired.
	Connect func(app *App) (closer func() error, err error)

	// JSON switches command output to indented JSON.
	JSON bool

	closer func() error
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// Close releases whatever Connect opened.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer()
	a.closer = nil
	return err
}

func (a *App) connected() bool {
	return a.Projects != nil && a.Tasks != nil && a.Reports != nil && a.Imports != nil
}

func (a *App) setup(cmd *cobra.Command) error {
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.New(cmd.Flags()), file)
	if err != nil {
		return err
	}
	a.Config = cfg
	if a.Logger == nil {
		a.Logger = cfg.Log.NewLogger(cmd.ErrOrStderr())
	}

	if cmd.Annotations[annotationNoStore] != "" || a.connected() {
		return nil
	}
	if a.Connect == nil {
		return errors.New("no store configured")
	}
	closer, err := a.Connect(a)
	if err != nil {
		return err
	}
	a.closer = closer
	return nil
}

// NewRootCmd creates the top-level "arbor" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "arbor",
		Short:         "Project and task hierarchy tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.Close()
		},
	}

	config.RegisterFlags(root.PersistentFlags())
	root.PersistentFlags().BoolVar(&app.JSON, "json", false, "print results as JSON")

	root.AddCommand(
		newProjectCmd(app),
		newTaskCmd(app),
		newReportCmd(app),
		newImportCmd(app),
		newBrowseCmd(app),
		newServeCmd(app),
		newConfigCmd(app),
	)

	return root
}

// emit writes v as JSON when --json is set, and the human rendering
// otherwise.
func (a *App) emit(cmd *cobra.Command, v any, human func() string) error {
	out := cmd.OutOrStdout()
	if a.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(out, human())
	return err
}

// say prints a confirmation line, or nothing in JSON mode.
func (a *App) say(cmd *cobra.Command, format string, args ...any) {
	if a.JSON {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
