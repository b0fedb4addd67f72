package formatter

import (
	"fmt"

	"github.com/alexanderramin/arbor/internal/contract"
)

// BuildForest lays out projects and their tasks as TreeItems: each project
// is followed by its sub-projects, then its root tasks with their subtasks.
func BuildForest(projects []contract.ProjectResponse, tasks []contract.TaskResponse) []TreeItem {
	childProjects := map[int64][]contract.ProjectResponse{}
	var rootProjects []contract.ProjectResponse
	known := map[int64]bool{}
	for _, p := range projects {
		known[p.ID] = true
	}
	for _, p := range projects {
		if p.ParentID == nil || !known[*p.ParentID] {
			rootProjects = append(rootProjects, p)
			continue
		}
		childProjects[*p.ParentID] = append(childProjects[*p.ParentID], p)
	}

	rootTasks := map[int64][]contract.TaskResponse{}
	childTasks := map[int64][]contract.TaskResponse{}
	knownTasks := map[int64]bool{}
	for _, t := range tasks {
		knownTasks[t.ID] = true
	}
	for _, t := range tasks {
		if t.ParentID == nil || !knownTasks[*t.ParentID] {
			rootTasks[t.ProjectID] = append(rootTasks[t.ProjectID], t)
			continue
		}
		childTasks[*t.ParentID] = append(childTasks[*t.ParentID], t)
	}

	var items []TreeItem
	seen := map[string]bool{}

	var addTask func(t contract.TaskResponse, level int, last bool, ancestors []bool)
	addTask = func(t contract.TaskResponse, level int, last bool, ancestors []bool) {
		key := fmt.Sprintf("t%d", t.ID)
		if seen[key] {
			return
		}
		seen[key] = true
		items = append(items, TreeItem{Title: t.Name, ID: t.ID, Level: level, IsLast: last, State: t.State, Task: true, Ancestors: ancestors})
		kids := childTasks[t.ID]
		for i, k := range kids {
			addTask(k, level+1, i == len(kids)-1, append(append([]bool{}, ancestors...), last))
		}
	}

	var addProject func(p contract.ProjectResponse, level int, last bool, ancestors []bool)
	addProject = func(p contract.ProjectResponse, level int, last bool, ancestors []bool) {
		key := fmt.Sprintf("p%d", p.ID)
		if seen[key] {
			return
		}
		seen[key] = true
		items = append(items, TreeItem{Title: p.Name, ID: p.ID, Level: level, IsLast: last, State: p.State, Detail: p.Code, Ancestors: ancestors})

		subs := childProjects[p.ID]
		ts := rootTasks[p.ID]
		total := len(subs) + len(ts)
		next := append(append([]bool{}, ancestors...), last)
		for i, s := range subs {
			addProject(s, level+1, i == total-1, next)
		}
		for i, t := range ts {
			addTask(t, level+1, len(subs)+i == total-1, next)
		}
	}

	for i, p := range rootProjects {
		addProject(p, 0, i == len(rootProjects)-1, nil)
	}
	return items
}
