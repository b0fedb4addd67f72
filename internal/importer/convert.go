package importer

import (
	"github.com/alexanderramin/arbor/internal/domain"
)

// Plan is an outline converted to domain entities, ordered so that every
// parent comes before its children. Ids and parent links are filled in by
// the caller as records are stored.
type Plan struct {
	Projects []PlannedProject
	Tasks    []PlannedTask
}

type PlannedProject struct {
	Ref       string
	ParentRef string
	Project   *domain.Project
}

type PlannedTask struct {
	Ref        string
	ProjectRef string
	ParentRef  string
	Task       *domain.Task
}

// Convert transforms a validated Outline into a Plan.
// Call ValidateOutline first; Convert assumes the outline is valid.
func Convert(o *Outline) *Plan {
	plan := &Plan{
		Projects: make([]PlannedProject, 0, len(o.Projects)),
		Tasks:    make([]PlannedTask, 0, len(o.Tasks)),
	}

	projectOrder := parentsFirst(o.Projects,
		func(p ProjectImport) string { return p.Ref },
		func(p ProjectImport) string { return p.ParentRef })
	for _, p := range projectOrder {
		plan.Projects = append(plan.Projects, PlannedProject{
			Ref:       p.Ref,
			ParentRef: p.ParentRef,
			Project: &domain.Project{
				Code:  p.Code,
				Name:  p.Name,
				State: domain.StatePlanned,
			},
		})
	}

	taskOrder := parentsFirst(o.Tasks,
		func(t TaskImport) string { return t.Ref },
		func(t TaskImport) string { return t.ParentRef })
	for _, t := range taskOrder {
		state := domain.StatePlanned
		if t.State != "" {
			state, _ = domain.ParseState(t.State)
		}
		plan.Tasks = append(plan.Tasks, PlannedTask{
			Ref:        t.Ref,
			ProjectRef: t.ProjectRef,
			ParentRef:  t.ParentRef,
			Task: &domain.Task{
				Name:        t.Name,
				Description: t.Description,
				State:       state,
			},
		})
	}

	return plan
}

// parentsFirst orders items depth-first from the roots, keeping the input
// order among siblings.
func parentsFirst[T any](items []T, refOf, parentOf func(T) string) []T {
	children := make(map[string][]T)
	var roots []T
	for _, item := range items {
		if parent := parentOf(item); parent != "" {
			children[parent] = append(children[parent], item)
			continue
		}
		roots = append(roots, item)
	}

	out := make([]T, 0, len(items))
	var visit func(T)
	visit = func(item T) {
		out = append(out, item)
		for _, child := range children[refOf(item)] {
			visit(child)
		}
	}
	for _, r := range roots {
		visit(r)
	}
	return out
}
