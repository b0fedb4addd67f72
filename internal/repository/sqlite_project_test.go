package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/arbor/internal/domain"
	"github.com/alexanderramin/arbor/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	start := time.Date(2026, 1, 5, 8, 30, 0, 0, time.UTC)
	proj := testutil.NewTestProject("ALG",
		testutil.WithProjectState(domain.StateInProgress),
		testutil.WithProjectPeriod(&start, nil))
	require.NoError(t, repo.Create(ctx, proj))
	require.NotZero(t, proj.ID, "store assigns the id")

	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, proj.ID, fetched.ID)
	assert.Equal(t, "ALG", fetched.Code)
	assert.Equal(t, "ALG project", fetched.Name)
	assert.Equal(t, domain.StateInProgress, fetched.State)
	assert.Nil(t, fetched.ParentID)
	require.NotNil(t, fetched.Start)
	assert.True(t, start.Equal(*fetched.Start))
	assert.Nil(t, fetched.Finish)
}

func TestProjectRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)

	_, err := repo.GetByID(context.Background(), 4242)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "project 4242")
}

func TestProjectRepo_ListChildren(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	root := testutil.NewTestProject("ROOT")
	require.NoError(t, repo.Create(ctx, root))
	a := testutil.NewTestProject("A", testutil.WithParentProject(root.ID))
	b := testutil.NewTestProject("B", testutil.WithParentProject(root.ID))
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))
	grandchild := testutil.NewTestProject("AA", testutil.WithParentProject(a.ID))
	require.NoError(t, repo.Create(ctx, grandchild))

	children, err := repo.ListChildren(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "A", children[0].Code)
	assert.Equal(t, "B", children[1].Code)
	require.NotNil(t, children[0].ParentID)
	assert.Equal(t, root.ID, *children[0].ParentID)

	leaves, err := repo.ListChildren(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, leaves)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestProjectRepo_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	parent := testutil.NewTestProject("PAR")
	require.NoError(t, repo.Create(ctx, parent))
	proj := testutil.NewTestProject("OLD")
	require.NoError(t, repo.Create(ctx, proj))

	finish := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	proj.Code = "NEW"
	proj.Name = "Renamed"
	proj.ParentID = &parent.ID
	proj.State = domain.StateCompleted
	proj.Finish = &finish
	require.NoError(t, repo.Update(ctx, proj))

	fetched, err := repo.GetByID(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, "NEW", fetched.Code)
	assert.Equal(t, "Renamed", fetched.Name)
	require.NotNil(t, fetched.ParentID)
	assert.Equal(t, parent.ID, *fetched.ParentID)
	assert.Equal(t, domain.StateCompleted, fetched.State)
	require.NotNil(t, fetched.Finish)
	assert.True(t, finish.Equal(*fetched.Finish))
}

func TestProjectRepo_CreateWithMissingParentFails(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)

	err := repo.Create(context.Background(), testutil.NewTestProject("ORP", testutil.WithParentProject(999)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inserting project")
}
