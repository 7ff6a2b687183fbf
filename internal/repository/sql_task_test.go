package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/actai/internal/domain"
	"github.com/alexanderramin/actai/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMilestone(t *testing.T, ctx context.Context, repos *sqlRepos) *domain.Milestone {
	t.Helper()
	plan := testutil.NewTestPlan("Seed")
	require.NoError(t, repos.plans.Create(ctx, plan))
	m := testutil.NewTestMilestone(plan.ID, "Milestone", 1)
	require.NoError(t, repos.milestones.Create(ctx, m))
	return m
}

type sqlRepos struct {
	plans      *SQLPlanRepo
	milestones *SQLMilestoneRepo
	tasks      *SQLTaskRepo
}

func newRepos(t *testing.T) *sqlRepos {
	t.Helper()
	conn := testutil.NewTestStore(t).Conn()
	return &sqlRepos{
		plans:      NewSQLPlanRepo(conn),
		milestones: NewSQLMilestoneRepo(conn),
		tasks:      NewSQLTaskRepo(conn),
	}
}

func TestTaskRepo_CreateAndGetByID(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()
	m := seedMilestone(t, ctx, repos)

	due := time.Date(2025, 3, 8, 14, 30, 0, 0, time.UTC)
	task := testutil.NewTestTask(m, "Write a CLI",
		testutil.WithDueDate(due), testutil.WithTaskPriority(domain.PriorityHigh))
	task.AISuggestion = "Start with flags"
	require.NoError(t, repos.tasks.Create(ctx, task))

	fetched, err := repos.tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Write a CLI", fetched.Title)
	assert.Equal(t, domain.PriorityHigh, fetched.Priority)
	assert.Equal(t, domain.TaskPending, fetched.Status)
	assert.True(t, due.Equal(fetched.DueDate))
	assert.Equal(t, "Start with flags", fetched.AISuggestion)
	assert.Nil(t, fetched.ActualHours)
	assert.Nil(t, fetched.CompletedAt)
}

func TestTaskRepo_UpdateRoundTripsNullableFields(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()
	m := seedMilestone(t, ctx, repos)

	task := testutil.NewTestTask(m, "Practice")
	require.NoError(t, repos.tasks.Create(ctx, task))

	hours := 3.5
	done := time.Date(2025, 3, 9, 18, 0, 0, 0, time.UTC)
	task.Status = domain.TaskCompleted
	task.ActualHours = &hours
	task.CompletedAt = &done
	require.NoError(t, repos.tasks.Update(ctx, task))

	fetched, err := repos.tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskCompleted, fetched.Status)
	require.NotNil(t, fetched.ActualHours)
	assert.InDelta(t, 3.5, *fetched.ActualHours, 1e-9)
	require.NotNil(t, fetched.CompletedAt)
	assert.True(t, done.Equal(*fetched.CompletedAt))

	missing := testutil.NewTestTask(m, "Ghost")
	assert.ErrorIs(t, repos.tasks.Update(ctx, missing), ErrNotFound)
}

func TestTaskRepo_ListOrderedByDueDate(t *testing.T) {
	repos := newRepos(t)
	ctx := context.Background()
	m := seedMilestone(t, ctx, repos)

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, title := range []string{"C", "A", "B"} {
		offset := map[string]int{"A": 1, "B": 2, "C": 3}[title]
		task := testutil.NewTestTask(m, title, testutil.WithDueDate(base.AddDate(0, 0, offset)))
		require.NoError(t, repos.tasks.Create(ctx, task), "task %d", i)
	}

	byPlan, err := repos.tasks.ListByPlan(ctx, m.PlanID)
	require.NoError(t, err)
	require.Len(t, byPlan, 3)
	assert.Equal(t, "A", byPlan[0].Title)
	assert.Equal(t, "C", byPlan[2].Title)

	byMilestone, err := repos.tasks.ListByMilestone(ctx, m.ID)
	require.NoError(t, err)
	assert.Len(t, byMilestone, 3)

	due, err := repos.tasks.ListDueBetween(ctx, testutil.TestUserID, base.AddDate(0, 0, 2), base.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "B", due[0].Title)
}
