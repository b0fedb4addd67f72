package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/arbor/internal/config"
	"github.com/alexanderramin/arbor/internal/contract"
	"github.com/alexanderramin/arbor/internal/service"
	"github.com/alexanderramin/arbor/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	uow := testutil.NewTestUoW(testutil.NewTestDB(t))
	return &App{
		Projects: service.NewProjectService(uow),
		Tasks:    service.NewTaskService(uow),
		Reports:  service.NewReportService(uow),
		Imports:  service.NewImportService(uow),
		Logger:   slog.New(slog.DiscardHandler),
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// executeJSON runs a command with --json and decodes its output into v.
func executeJSON(t *testing.T, app *App, v any, args ...string) {
	t.Helper()
	out, err := executeCmd(t, app, append(args, "--json")...)
	require.NoError(t, err, out)
	require.NoError(t, json.Unmarshal([]byte(out), v), out)
}

func seedProject(t *testing.T, app *App, code string) contract.ProjectResponse {
	t.Helper()
	var p contract.ProjectResponse
	executeJSON(t, app, &p, "project", "add", "--code", code, "--name", code+" project")
	return p
}

func seedTask(t *testing.T, app *App, projectID int64, name string) contract.TaskResponse {
	t.Helper()
	var task contract.TaskResponse
	executeJSON(t, app, &task, "task", "add",
		"--project", itoa(projectID), "--name", name, "--description", name+" notes")
	return task
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

// --- Projects ---

func TestProjectAdd_PrintsConfirmation(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "project", "add", "--code", "WEB", "--name", "Website")
	require.NoError(t, err)
	assert.Contains(t, out, "Created project #1 Website [WEB]")
}

func TestProjectAdd_MissingFlagsWithoutTerminal(t *testing.T) {
	app := testApp(t)
	app.IsInteractive = func() bool { return false }

	_, err := executeCmd(t, app, "project", "add", "--code", "WEB")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--code and --name are required")
}

func TestProjectAdd_UnknownParent(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "project", "add", "--code", "C", "--name", "Child", "--parent", "99")
	var cerr *service.CreationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "project", cerr.Entity)
}

func TestProjectList_EmptyAndPopulated(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No projects found.")

	seedProject(t, app, "WEB")
	seedProject(t, app, "OPS")

	out, err = executeCmd(t, app, "project", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "WEB")
	assert.Contains(t, out, "OPS project")

	var projects []contract.ProjectResponse
	executeJSON(t, app, &projects, "project", "list")
	require.Len(t, projects, 2)
	assert.Equal(t, "planned", projects[0].State)
}

func TestProjectShow_NotFound(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "project", "show", "42")
	require.Error(t, err)
	assert.True(t, service.IsNotFound(err))
}

func TestProjectShow_InvalidID(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "project", "show", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid id "abc"`)
}

func TestProjectUpdate_RenameAndDetach(t *testing.T) {
	app := testApp(t)
	parent := seedProject(t, app, "ROOT")
	var child contract.ProjectResponse
	executeJSON(t, app, &child, "project", "add", "--code", "SUB", "--name", "Sub", "--parent", itoa(parent.ID))
	require.NotNil(t, child.ParentID)

	var updated contract.ProjectResponse
	executeJSON(t, app, &updated, "project", "update", itoa(child.ID), "--name", "Renamed", "--parent", "0")
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "SUB", updated.Code)
	assert.Nil(t, updated.ParentID)
}

func TestProjectUpdate_NoFlags(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "WEB")

	_, err := executeCmd(t, app, "project", "update", itoa(p.ID))
	assert.ErrorIs(t, err, errNothingToUpdate)
}

func TestProjectUpdate_RejectsCycle(t *testing.T) {
	app := testApp(t)
	root := seedProject(t, app, "ROOT")
	var child contract.ProjectResponse
	executeJSON(t, app, &child, "project", "add", "--code", "SUB", "--name", "Sub", "--parent", itoa(root.ID))

	_, err := executeCmd(t, app, "project", "update", itoa(root.ID), "--parent", itoa(child.ID))
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrHierarchyCycle)
}

func TestProjectRemove_DeletesTasksKeepsSubProjects(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "WEB")
	task := seedTask(t, app, p.ID, "Copy")
	_, err := executeCmd(t, app, "project", "add", "--code", "BLOG", "--name", "Blog", "--parent", itoa(p.ID))
	require.NoError(t, err)

	out, err := executeCmd(t, app, "project", "rm", itoa(p.ID))
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted project #1")

	_, err = executeCmd(t, app, "task", "show", itoa(task.ID))
	assert.True(t, service.IsNotFound(err))

	out, err = executeCmd(t, app, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "BLOG")
}

func TestProjectTree_ShowsNesting(t *testing.T) {
	app := testApp(t)
	root := seedProject(t, app, "ROOT")
	_, err := executeCmd(t, app, "project", "add", "--code", "SUB", "--name", "Subproject", "--parent", itoa(root.ID))
	require.NoError(t, err)
	seedTask(t, app, root.ID, "Kickoff")

	out, err := executeCmd(t, app, "project", "tree")
	require.NoError(t, err)
	assert.Contains(t, out, "ROOT project")
	assert.Contains(t, out, "Subproject")
	assert.Contains(t, out, "Kickoff")
	assert.Less(t, strings.Index(out, "Subproject"), strings.Index(out, "Kickoff"),
		"sub-projects are listed before tasks")
}

func TestProjectRecompute_ReportsState(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "WEB")

	out, err := executeCmd(t, app, "project", "recompute", itoa(p.ID))
	require.NoError(t, err)
	assert.Contains(t, out, "Project #1 is")
	assert.Contains(t, out, "planned")
}

// --- Tasks ---

func TestTaskAdd_StartsPlanned(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "WEB")

	task := seedTask(t, app, p.ID, "Copy")
	assert.Equal(t, "planned", task.State)
	assert.Nil(t, task.Start)
	assert.Equal(t, p.ID, task.ProjectID)
}

func TestTaskAdd_MissingFlagsWithoutTerminal(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "task", "add", "--name", "Copy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--project, --name and --description are required")
}

func TestTaskUpdate_StatePropagatesToProject(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "WEB")
	task := seedTask(t, app, p.ID, "Copy")

	var updated contract.TaskResponse
	executeJSON(t, app, &updated, "task", "update", itoa(task.ID), "--state", "in_progress")
	assert.Equal(t, "in_progress", updated.State)
	assert.NotNil(t, updated.Start)
	assert.Nil(t, updated.Finish)

	var project contract.ProjectResponse
	executeJSON(t, app, &project, "project", "show", itoa(p.ID))
	assert.Equal(t, "in_progress", project.State)

	executeJSON(t, app, &updated, "task", "update", itoa(task.ID), "--state", "completed")
	assert.NotNil(t, updated.Finish)
	executeJSON(t, app, &project, "project", "show", itoa(p.ID))
	assert.Equal(t, "completed", project.State)
}

func TestTaskUpdate_BadState(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "WEB")
	task := seedTask(t, app, p.ID, "Copy")

	_, err := executeCmd(t, app, "task", "update", itoa(task.ID), "--state", "done")
	var verr *service.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestTaskUpdate_NoFlags(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "task", "update", "1")
	assert.ErrorIs(t, err, errNothingToUpdate)
}

func TestTaskList_FilterByProject(t *testing.T) {
	app := testApp(t)
	web := seedProject(t, app, "WEB")
	ops := seedProject(t, app, "OPS")
	seedTask(t, app, web.ID, "Copy")
	seedTask(t, app, ops.ID, "Deploy")

	var tasks []contract.TaskResponse
	executeJSON(t, app, &tasks, "task", "list", "--project", itoa(ops.ID))
	require.Len(t, tasks, 1)
	assert.Equal(t, "Deploy", tasks[0].Name)

	out, err := executeCmd(t, app, "task", "list", "--project", "77")
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks found.")
}

func TestTaskRemove(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "WEB")
	task := seedTask(t, app, p.ID, "Copy")

	out, err := executeCmd(t, app, "task", "rm", itoa(task.ID))
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted task #1")

	_, err = executeCmd(t, app, "task", "rm", itoa(task.ID))
	assert.True(t, service.IsNotFound(err))
}

// --- Reports ---

func TestReportActive_ListsStartedWork(t *testing.T) {
	app := testApp(t)
	p := seedProject(t, app, "WEB")
	task := seedTask(t, app, p.ID, "Copy")
	_, err := executeCmd(t, app, "task", "update", itoa(task.ID), "--state", "in_progress")
	require.NoError(t, err)

	tomorrow := time.Now().UTC().AddDate(0, 0, 1).Format(time.DateOnly)
	var report contract.ActiveReport
	executeJSON(t, app, &report, "report", "active", "--date", tomorrow)
	require.Len(t, report.Projects, 1)
	assert.Equal(t, p.ID, report.Projects[0].Project.ID)
	require.Len(t, report.Projects[0].Tasks, 1)
	assert.Equal(t, "Copy", report.Projects[0].Tasks[0].Name)

	out, err := executeCmd(t, app, "report", "active", "--date", "2001-01-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing was active on that day.")
}

func TestReportActive_BadDate(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "report", "active", "--date", "tomorrow")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "use YYYY-MM-DD")
}

// --- Config and wiring ---

func TestConfigShow_AppliesFlagsAndRedactsSecret(t *testing.T) {
	t.Setenv("ARBOR_HTTP_JWT_SECRET", "s3cret")
	app := &App{}

	out, err := executeCmd(t, app, "config", "show", "--db", "/tmp/arbor-test.db")
	require.NoError(t, err)
	assert.Contains(t, out, "path: /tmp/arbor-test.db")
	assert.Contains(t, out, redacted)
	assert.NotContains(t, out, "s3cret")
	assert.Nil(t, app.Projects, "config show does not open the store")
}

func TestRoot_InvalidLogLevel(t *testing.T) {
	_, err := executeCmd(t, &App{}, "config", "show", "--log-level", "loud")
	assert.ErrorIs(t, err, config.ErrInvalidLogLevel)
}

func TestRoot_ConnectWiresServicesAndCloses(t *testing.T) {
	var connected, closed bool
	var gotPath string
	app := &App{
		Connect: func(a *App) (func() error, error) {
			connected = true
			gotPath = a.Config.DB.Path
			uow := testutil.NewTestUoW(testutil.NewTestDB(t))
			a.Projects = service.NewProjectService(uow)
			a.Tasks = service.NewTaskService(uow)
			a.Reports = service.NewReportService(uow)
			a.Imports = service.NewImportService(uow)
			return func() error { closed = true; return nil }, nil
		},
	}

	out, err := executeCmd(t, app, "project", "list", "--db", ":memory:")
	require.NoError(t, err)
	assert.Contains(t, out, "No projects found.")
	assert.True(t, connected)
	assert.True(t, closed)
	assert.Equal(t, ":memory:", gotPath)
}

func TestRoot_NoStoreConfigured(t *testing.T) {
	_, err := executeCmd(t, &App{}, "project", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no store configured")
}

// --- Serve ---

func TestServe_AnswersUntilCancelled(t *testing.T) {
	app := testApp(t)
	cfg := config.Default()
	cfg.Telemetry.MetricExporter = "prometheus"
	app.Config = cfg

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.serve(ctx, ln) }()

	base := "http://" + ln.Addr().String()
	resp, err := http.Get(base + "/api/health")
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(base + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}
}

func TestServe_UnknownExporter(t *testing.T) {
	app := testApp(t)
	cfg := config.Default()
	cfg.Telemetry.TraceExporter = "zipkin"
	app.Config = cfg

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	err = app.serve(context.Background(), ln)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zipkin")
}

// --- Import ---

func writeOutline(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const sampleOutlineYAML = `
projects:
  - {ref: web, code: WEB, name: Website}
  - {ref: copy, parent_ref: web, code: COPY, name: Copywriting}
tasks:
  - {ref: draft, project_ref: copy, name: Draft, description: First pass, state: in_progress}
`

func TestImport_StoresOutline(t *testing.T) {
	app := testApp(t)
	path := writeOutline(t, "plan.yaml", sampleOutlineYAML)

	out, err := executeCmd(t, app, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 projects and 1 tasks")

	var projects []contract.ProjectResponse
	executeJSON(t, app, &projects, "project", "list")
	require.Len(t, projects, 2)
	for _, p := range projects {
		assert.Equal(t, "in_progress", p.State, p.Code)
	}
}

func TestImport_DryRunWritesNothing(t *testing.T) {
	app := testApp(t)
	path := writeOutline(t, "plan.yaml", sampleOutlineYAML)

	out, err := executeCmd(t, app, "import", path, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Outline is valid: 2 projects, 1 tasks")

	out, err = executeCmd(t, app, "project", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No projects found.")
}

func TestImport_InvalidOutline(t *testing.T) {
	app := testApp(t)
	path := writeOutline(t, "plan.json", `{"projects":[{"ref":"a","code":"A","name":"A","parent_ref":"zz"}]}`)

	_, err := executeCmd(t, app, "import", path)
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), `unknown project ref "zz"`)

	_, err = executeCmd(t, app, "import", path, "--dry-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown project ref "zz"`)
}
