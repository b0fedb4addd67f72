package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/arbor/internal/cli"
	"github.com/alexanderramin/arbor/internal/db"
	"github.com/alexanderramin/arbor/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.App{
		Connect: connect,
	}

	// Forms are only offered on an interactive terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}
	defer app.Close()

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}

// connect opens the configured database and wires the services onto app.
func connect(app *cli.App) (func() error, error) {
	database, err := db.OpenDB(app.Config.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	uow := db.NewSQLiteUnitOfWork(database)
	observer := service.WithObserver(service.NewSlogUseCaseObserver(app.Logger))

	app.Projects = service.NewProjectService(uow, observer)
	app.Tasks = service.NewTaskService(uow, observer)
	app.Reports = service.NewReportService(uow, observer)
	app.Imports = service.NewImportService(uow, observer)

	return database.Close, nil
}
