package importer

import (
	"fmt"

	"github.com/alexanderramin/arbor/internal/domain"
)

const maxTextLen = 255

// ValidateOutline checks the outline for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateOutline(o *Outline) []error {
	var errs []error

	projectRefs := make(map[string]int)
	errs = append(errs, validateProjects(o.Projects, projectRefs)...)

	taskProject := make(map[string]string)
	errs = append(errs, validateTasks(o.Tasks, projectRefs, taskProject)...)

	return errs
}

func validateText(prefix, field, value string) []error {
	if value == "" {
		return []error{fmt.Errorf("%s.%s is required", prefix, field)}
	}
	if len(value) > maxTextLen {
		return []error{fmt.Errorf("%s.%s must be at most %d characters", prefix, field, maxTextLen)}
	}
	return nil
}

func validateProjects(projects []ProjectImport, refs map[string]int) []error {
	var errs []error

	for i, p := range projects {
		prefix := fmt.Sprintf("projects[%d]", i)

		if p.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if _, dup := refs[p.Ref]; dup {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, p.Ref))
		} else {
			refs[p.Ref] = i
		}
		errs = append(errs, validateText(prefix, "code", p.Code)...)
		errs = append(errs, validateText(prefix, "name", p.Name)...)
	}

	parents := make(map[string]string, len(projects))
	for i, p := range projects {
		if p.ParentRef == "" {
			continue
		}
		if _, ok := refs[p.ParentRef]; !ok {
			errs = append(errs, fmt.Errorf("projects[%d].parent_ref: unknown project ref %q", i, p.ParentRef))
			continue
		}
		if p.Ref != "" {
			parents[p.Ref] = p.ParentRef
		}
	}
	for _, ref := range cyclicRefs(projects, func(p ProjectImport) string { return p.Ref }, parents) {
		errs = append(errs, fmt.Errorf("projects: ref %q is its own ancestor", ref))
	}

	return errs
}

func validateTasks(tasks []TaskImport, projectRefs map[string]int, taskProject map[string]string) []error {
	var errs []error

	for i, t := range tasks {
		prefix := fmt.Sprintf("tasks[%d]", i)

		if t.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if _, dup := taskProject[t.Ref]; dup {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, t.Ref))
		} else {
			taskProject[t.Ref] = t.ProjectRef
		}

		if t.ProjectRef == "" {
			errs = append(errs, fmt.Errorf("%s.project_ref is required", prefix))
		} else if _, ok := projectRefs[t.ProjectRef]; !ok {
			errs = append(errs, fmt.Errorf("%s.project_ref: unknown project ref %q", prefix, t.ProjectRef))
		}
		errs = append(errs, validateText(prefix, "name", t.Name)...)
		errs = append(errs, validateText(prefix, "description", t.Description)...)

		if t.State != "" {
			if _, err := domain.ParseState(t.State); err != nil {
				errs = append(errs, fmt.Errorf("%s.state: invalid value %q", prefix, t.State))
			}
		}
	}

	parents := make(map[string]string, len(tasks))
	for i, t := range tasks {
		if t.ParentRef == "" {
			continue
		}
		parentProject, ok := taskProject[t.ParentRef]
		if !ok {
			errs = append(errs, fmt.Errorf("tasks[%d].parent_ref: unknown task ref %q", i, t.ParentRef))
			continue
		}
		if parentProject != t.ProjectRef {
			errs = append(errs, fmt.Errorf("tasks[%d].parent_ref: task %q belongs to project %q, not %q",
				i, t.ParentRef, parentProject, t.ProjectRef))
		}
		if t.Ref != "" {
			parents[t.Ref] = t.ParentRef
		}
	}
	for _, ref := range cyclicRefs(tasks, func(t TaskImport) string { return t.Ref }, parents) {
		errs = append(errs, fmt.Errorf("tasks: ref %q is its own ancestor", ref))
	}

	return errs
}

// cyclicRefs returns, in input order, the refs whose parent chain leads back
// to themselves.
func cyclicRefs[T any](items []T, refOf func(T) string, parents map[string]string) []string {
	var out []string
	for _, item := range items {
		ref := refOf(item)
		seen := map[string]bool{ref: true}
		for cur, ok := parents[ref]; ok; cur, ok = parents[cur] {
			if cur == ref {
				out = append(out, ref)
				break
			}
			if seen[cur] {
				break
			}
			seen[cur] = true
		}
	}
	return out
}
