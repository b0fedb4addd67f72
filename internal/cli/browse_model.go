package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/arbor/internal/cli/formatter"
	"github.com/alexanderramin/arbor/internal/contract"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBrowseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the hierarchy interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tea.NewProgram(newBrowseModel(cmd.Context(), app),
				tea.WithAltScreen(),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err := p.Run()
			return err
		},
	}
}

type browseKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Open      key.Binding
	Back      key.Binding
	Cycle     key.Binding
	Recompute key.Binding
	Reload    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func newBrowseKeyMap() browseKeyMap {
	return browseKeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Cycle:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "next task state")),
		Recompute: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recompute project")),
		Reload:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "reload")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k browseKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Cycle, k.Help, k.Quit}
}

func (k browseKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Back},
		{k.Cycle, k.Recompute, k.Reload},
		{k.Help, k.Quit},
	}
}

// nextState is the order s steps a task through.
var nextState = map[string]string{
	"planned":     "in_progress",
	"in_progress": "completed",
	"completed":   "planned",
}

type forestLoadedMsg struct {
	projects []contract.ProjectResponse
	tasks    []contract.TaskResponse
	err      error
}

type actionDoneMsg struct {
	status string
	err    error
}

type detailLoadedMsg struct {
	text string
	err  error
}

// browseModel shows the project forest and lets the user step task states
// and recompute projects in place.
type browseModel struct {
	ctx  context.Context
	app  *App
	keys browseKeyMap
	help help.Model

	items   []formatter.TreeItem
	cursor  int
	loading bool
	detail  string
	status  string
	err     error
	width   int
}

func newBrowseModel(ctx context.Context, app *App) *browseModel {
	return &browseModel{
		ctx:     ctx,
		app:     app,
		keys:    newBrowseKeyMap(),
		help:    help.New(),
		loading: true,
	}
}

func (m *browseModel) Init() tea.Cmd {
	return m.loadForest()
}

func (m *browseModel) loadForest() tea.Cmd {
	ctx, app := m.ctx, m.app
	return func() tea.Msg {
		projects, err := app.Projects.List(ctx)
		if err != nil {
			return forestLoadedMsg{err: err}
		}
		tasks, err := app.Tasks.List(ctx)
		return forestLoadedMsg{projects: projects, tasks: tasks, err: err}
	}
}

func (m *browseModel) selected() (formatter.TreeItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return formatter.TreeItem{}, false
	}
	return m.items[m.cursor], true
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case forestLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.items = formatter.BuildForest(msg.projects, msg.tasks)
			m.cursor = min(m.cursor, max(len(m.items)-1, 0))
		}
		return m, nil

	case actionDoneMsg:
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.status = msg.status
		return m, m.loadForest()

	case detailLoadedMsg:
		m.err = msg.err
		m.detail = msg.text
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *browseModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Back):
		m.detail = ""
		return m, nil
	}

	if m.detail != "" {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Reload):
		m.status = ""
		return m, m.loadForest()
	case key.Matches(msg, m.keys.Open):
		if item, ok := m.selected(); ok {
			return m, m.loadDetail(item)
		}
	case key.Matches(msg, m.keys.Cycle):
		if item, ok := m.selected(); ok && item.Task {
			return m, m.cycleTask(item)
		}
		m.status = "select a task to change its state"
	case key.Matches(msg, m.keys.Recompute):
		if item, ok := m.selected(); ok && !item.Task {
			return m, m.recompute(item)
		}
		m.status = "select a project to recompute"
	}
	return m, nil
}

func (m *browseModel) loadDetail(item formatter.TreeItem) tea.Cmd {
	ctx, app := m.ctx, m.app
	return func() tea.Msg {
		if item.Task {
			t, err := app.Tasks.GetByID(ctx, item.ID)
			if err != nil {
				return detailLoadedMsg{err: err}
			}
			return detailLoadedMsg{text: formatter.FormatTaskDetail(*t)}
		}
		p, err := app.Projects.GetByID(ctx, item.ID)
		if err != nil {
			return detailLoadedMsg{err: err}
		}
		return detailLoadedMsg{text: formatter.FormatProjectDetail(*p)}
	}
}

func (m *browseModel) cycleTask(item formatter.TreeItem) tea.Cmd {
	ctx, app := m.ctx, m.app
	next, ok := nextState[item.State]
	if !ok {
		next = "planned"
	}
	return func() tea.Msg {
		t, err := app.Tasks.Update(ctx, item.ID, contract.TaskUpdateRequest{State: &next})
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: fmt.Sprintf("task #%d is now %s", t.ID, t.State)}
	}
}

func (m *browseModel) recompute(item formatter.TreeItem) tea.Cmd {
	ctx, app := m.ctx, m.app
	return func() tea.Msg {
		p, err := app.Projects.Recompute(ctx, item.ID)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: fmt.Sprintf("project #%d is %s", p.ID, p.State)}
	}
}

func (m *browseModel) View() string {
	var b strings.Builder
	b.WriteString(formatter.Header("arbor"))
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(formatter.Dim("Loading...") + "\n")
	case m.detail != "":
		b.WriteString(m.detail + "\n")
	case len(m.items) == 0:
		b.WriteString(formatter.Dim("No projects yet. Add one with 'arbor project add'.") + "\n")
	default:
		lines := strings.Split(strings.TrimRight(formatter.RenderTree(m.items), "\n"), "\n")
		for i, line := range lines {
			if i == m.cursor {
				b.WriteString(formatter.StyleHeader.Render("> ") + line + "\n")
				continue
			}
			b.WriteString("  " + line + "\n")
		}
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
	} else if m.status != "" {
		b.WriteString(formatter.StyleGreen.Render(m.status) + "\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
