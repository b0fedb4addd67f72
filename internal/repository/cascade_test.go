package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/arbor/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Deleting a project removes its own tasks and detaches its sub-projects
// through the schema's ON DELETE policy, not through repository code.
func TestCascadeDelete_ProjectRemovesTasksDetachesSubProjects(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	projects := NewSQLiteProjectRepo(db)
	tasks := NewSQLiteTaskRepo(db)

	root := seedProject(t, projects, "ROOT")
	sub := seedProject(t, projects, "SUB", testutil.WithParentProject(root.ID))
	rootTask := testutil.NewTestTask(root.ID, "root task")
	subTask := testutil.NewTestTask(sub.ID, "sub task")
	require.NoError(t, tasks.Create(ctx, rootTask))
	require.NoError(t, tasks.Create(ctx, subTask))

	require.NoError(t, projects.Delete(ctx, root.ID))

	detached, err := projects.GetByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Nil(t, detached.ParentID)
	_, err = tasks.GetByID(ctx, rootTask.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = tasks.GetByID(ctx, subTask.ID)
	assert.NoError(t, err, "tasks of a detached sub-project stay")
}

func TestCascadeDelete_TaskToChildren(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	projects := NewSQLiteProjectRepo(db)
	tasks := NewSQLiteTaskRepo(db)

	p := seedProject(t, projects, "P")
	parent := testutil.NewTestTask(p.ID, "parent")
	require.NoError(t, tasks.Create(ctx, parent))
	child := testutil.NewTestTask(p.ID, "child", testutil.WithParentTask(parent.ID))
	require.NoError(t, tasks.Create(ctx, child))

	require.NoError(t, tasks.Delete(ctx, parent.ID))

	_, err := tasks.GetByID(ctx, child.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
