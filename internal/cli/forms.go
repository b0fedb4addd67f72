package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/arbor/internal/cli/formatter"
	"github.com/alexanderramin/arbor/internal/contract"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// arborHuhTheme returns a huh theme matching the formatter palette.
func arborHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// textInput returns a huh.Input limited to the stored field length.
func textInput(title, placeholder string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		CharLimit(255).
		Value(value).
		Validate(validateRequiredText(title))
}

// projectForm collects the fields of a new project. Fields that already
// hold a value are left out.
func projectForm(code, name, parent *string) *huh.Form {
	var fields []huh.Field
	if *code == "" {
		fields = append(fields, textInput("Code", "WEB", code))
	}
	if *name == "" {
		fields = append(fields, textInput("Name", "Website relaunch", name))
	}
	fields = append(fields, huh.NewInput().
		Title("Parent project id (blank for none)").
		Value(parent).
		Validate(validateOptionalID))

	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(arborHuhTheme()).
		WithShowHelp(false)
}

// taskForm collects the fields of a new task. The owning project is picked
// from projects when it was not given.
func taskForm(projects []contract.ProjectResponse, projectID, name, description *string) *huh.Form {
	var fields []huh.Field
	if *projectID == "" {
		options := make([]huh.Option[string], 0, len(projects))
		for _, p := range projects {
			label := fmt.Sprintf("%s  %s", p.Code, p.Name)
			options = append(options, huh.NewOption(label, strconv.FormatInt(p.ID, 10)))
		}
		fields = append(fields, huh.NewSelect[string]().
			Title("Project").
			Options(options...).
			Value(projectID))
	}
	if *name == "" {
		fields = append(fields, textInput("Name", "Write copy", name))
	}
	if *description == "" {
		fields = append(fields, textInput("Description", "Landing page text", description))
	}

	return huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(arborHuhTheme()).
		WithShowHelp(false)
}

func validateRequiredText(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", strings.ToLower(field))
		}
		if len(s) > 255 {
			return fmt.Errorf("%s must be at most 255 characters", strings.ToLower(field))
		}
		return nil
	}
}

// validateOptionalID accepts empty or a positive integer id.
func validateOptionalID(s string) error {
	if s == "" {
		return nil
	}
	if _, err := parseID(s); err != nil {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

// optionalID parses a form or flag id where blank means none.
func optionalID(s string) (*int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	id, err := parseID(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
