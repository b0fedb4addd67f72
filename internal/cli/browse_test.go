package cli

import (
	"context"
	"testing"

	"github.com/alexanderramin/arbor/internal/contract"
	"github.com/alexanderramin/arbor/internal/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func browseDriver(t *testing.T, app *App) *teatest.Driver {
	t.Helper()
	return teatest.New(t, newBrowseModel(context.Background(), app), teatest.WithSize(100, 40)).Init()
}

func seedBrowseData(t *testing.T, app *App) (contract.ProjectResponse, contract.TaskResponse) {
	t.Helper()
	ctx := context.Background()
	p, err := app.Projects.Create(ctx, contract.ProjectCreateRequest{Code: "WEB", Name: "Website"})
	require.NoError(t, err)
	task, err := app.Tasks.Create(ctx, contract.TaskCreateRequest{ProjectID: p.ID, Name: "Write copy", Description: "Landing page"})
	require.NoError(t, err)
	return *p, *task
}

func TestBrowse_EmptyStore(t *testing.T) {
	d := browseDriver(t, testApp(t))
	d.ViewContains("No projects yet")
}

func TestBrowse_ShowsForest(t *testing.T) {
	app := testApp(t)
	seedBrowseData(t, app)

	d := browseDriver(t, app)
	d.ViewContains("Website")
	d.ViewContains("Write copy")
	d.ViewContains("> ")
}

func TestBrowse_CycleTaskState(t *testing.T) {
	app := testApp(t)
	p, task := seedBrowseData(t, app)
	d := browseDriver(t, app)

	d.Press("j", "s")
	d.ViewContains("is now in_progress")

	got, err := app.Tasks.GetByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", got.State)
	assert.NotNil(t, got.Start)

	project, err := app.Projects.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", project.State)

	d.Press("s")
	got, err = app.Tasks.GetByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", got.State)
}

func TestBrowse_CycleOnProjectIsRejected(t *testing.T) {
	app := testApp(t)
	seedBrowseData(t, app)
	d := browseDriver(t, app)

	d.Press("s")
	d.ViewContains("select a task to change its state")
}

func TestBrowse_RecomputeProject(t *testing.T) {
	app := testApp(t)
	p, _ := seedBrowseData(t, app)
	d := browseDriver(t, app)

	d.Press("r")
	d.ViewContains("is planned")

	d.Press("down", "r")
	d.ViewContains("select a project to recompute")

	got, err := app.Projects.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "planned", got.State)
}

func TestBrowse_DetailAndBack(t *testing.T) {
	app := testApp(t)
	seedBrowseData(t, app)
	d := browseDriver(t, app)

	d.Press("down", "enter")
	d.ViewContains("WRITE COPY")
	d.ViewContains("Landing page")

	d.Press("j")
	d.ViewContains("Landing page")

	d.Press("esc")
	d.ViewContains("> ")
	assert.NotContains(t, d.View(), "Landing page")
}

func TestBrowse_CursorStaysInRange(t *testing.T) {
	app := testApp(t)
	seedBrowseData(t, app)
	d := browseDriver(t, app)

	d.Press("up", "up", "down", "down", "down")
	m := d.Model.(*browseModel)
	assert.Equal(t, 1, m.cursor)
}

func TestBrowse_HelpToggleAndQuit(t *testing.T) {
	d := browseDriver(t, testApp(t))

	d.Press("?")
	d.ViewContains("recompute project")

	d.Press("q")
	assert.True(t, d.Quitting)
}
