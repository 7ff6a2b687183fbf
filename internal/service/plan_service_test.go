package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/actai/internal/domain"
	"github.com/alexanderramin/actai/internal/planner"
	"github.com/alexanderramin/actai/internal/repository"
	"github.com/alexanderramin/actai/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeGenerator struct {
	outcome *planner.Outcome
	err     error
	calls   int
}

func (g *fakeGenerator) Generate(_ context.Context, objective, duration string) (*planner.Outcome, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	out := *g.outcome
	out.Objective = objective
	out.DesiredDuration = duration
	return &out, nil
}

var planStart = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

func assembledOutcome() *planner.Outcome {
	task := func(title string, p planner.Priority, day int) planner.TaskDraft {
		return planner.TaskDraft{
			Title:          title,
			Description:    "Do " + title,
			DueDate:        planStart.AddDate(0, 0, day),
			Priority:       p,
			EstimatedHours: 2,
			Suggestion:     "Take notes",
			Status:         planner.TaskStatusPending,
		}
	}
	return &planner.Outcome{
		RunID: "run-1",
		State: planner.StateAssembled,
		Plan: &planner.PlanDraft{
			Title:            "Python in two weeks",
			Summary:          "Basics then practice",
			DurationWeeks:    2,
			WeeklyCommitment: "6-8 hours",
			DifficultyLevel:  "beginner",
			Prerequisites:    []string{"a computer"},
			StartDate:        planStart,
			EndDate:          planStart.AddDate(0, 0, 14),
			Milestones: []planner.MilestoneDraft{
				{Title: "Syntax", Description: "Learn syntax", Order: 1, Tasks: []planner.TaskDraft{
					task("Install Python", planner.PriorityHigh, 1),
					task("Variables", planner.PriorityMedium, 3),
				}},
				{Title: "Practice", Description: "Small programs", Order: 2, Tasks: []planner.TaskDraft{
					task("Write a script", planner.PriorityLow, 10),
				}},
			},
		},
	}
}

type planFixture struct {
	svc        PlanService
	gen        *fakeGenerator
	plans      *repository.SQLPlanRepo
	milestones *repository.SQLMilestoneRepo
	tasks      *repository.SQLTaskRepo
}

func newPlanFixture(t *testing.T, gen *fakeGenerator) *planFixture {
	t.Helper()
	store := testutil.NewTestStore(t)
	conn := store.Conn()
	f := &planFixture{
		gen:        gen,
		plans:      repository.NewSQLPlanRepo(conn),
		milestones: repository.NewSQLMilestoneRepo(conn),
		tasks:      repository.NewSQLTaskRepo(conn),
	}
	f.svc = NewPlanService(gen, f.plans, f.milestones, f.tasks, testutil.NewTestUoW(store))
	return f
}

func TestGenerateAndCreate_PersistsAssembledPlan(t *testing.T) {
	f := newPlanFixture(t, &fakeGenerator{outcome: assembledOutcome()})
	ctx := context.Background()

	res, err := f.svc.GenerateAndCreate(ctx, testutil.TestUserID, "Learn Python", "2 weeks")
	require.NoError(t, err)
	require.NotNil(t, res.Plan)
	assert.Equal(t, "Python in two weeks", res.Plan.Title)

	detail, err := f.svc.Get(ctx, testutil.TestUserID, res.Plan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanActive, detail.Plan.Status)
	assert.True(t, planStart.Equal(detail.Plan.StartDate))
	assert.Equal(t, []string{"a computer"}, detail.Plan.Prerequisites)
	require.Len(t, detail.Milestones, 2)
	assert.Equal(t, "Syntax", detail.Milestones[0].Title)
	assert.Equal(t, 2, detail.Milestones[1].Order)
	require.Len(t, detail.Tasks, 3)
	assert.Equal(t, "Install Python", detail.Tasks[0].Title)
	assert.Equal(t, domain.PriorityHigh, detail.Tasks[0].Priority)
	assert.Equal(t, domain.TaskPending, detail.Tasks[0].Status)
	assert.Equal(t, detail.Milestones[0].ID, detail.Tasks[0].MilestoneID)

	var overview map[string]any
	require.NoError(t, json.Unmarshal([]byte(detail.Plan.Overview), &overview))
	assert.Equal(t, "Python in two weeks", overview["title"])
	assert.Len(t, overview["milestones"], 2)
}

func TestGenerateAndCreate_FailedOutcomeIsNotPersisted(t *testing.T) {
	failed := &planner.Outcome{State: planner.StateFailed, Error: "No milestones generated"}
	f := newPlanFixture(t, &fakeGenerator{outcome: failed})
	ctx := context.Background()

	res, err := f.svc.GenerateAndCreate(ctx, testutil.TestUserID, "Learn Python", "2 weeks")
	require.ErrorIs(t, err, ErrGenerationFailed)
	assert.Contains(t, err.Error(), "No milestones generated")
	require.NotNil(t, res)
	assert.Nil(t, res.Plan)
	assert.True(t, res.Outcome.Failed())

	plans, err := f.plans.ListByUser(ctx, testutil.TestUserID, "")
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestGenerateAndCreate_GeneratorErrorPropagates(t *testing.T) {
	f := newPlanFixture(t, &fakeGenerator{err: context.Canceled})

	_, err := f.svc.GenerateAndCreate(context.Background(), testutil.TestUserID, "Learn Python", "2 weeks")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateAndCreate_Validation(t *testing.T) {
	gen := &fakeGenerator{outcome: assembledOutcome()}
	f := newPlanFixture(t, gen)

	_, err := f.svc.GenerateAndCreate(context.Background(), testutil.TestUserID, "  ", "2 weeks")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.svc.GenerateAndCreate(context.Background(), testutil.TestUserID, "Learn Go", "")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, gen.calls)
}

func TestGenerateAndCreate_RollbackOnTaskInsertFailure(t *testing.T) {
	store := testutil.NewTestStore(t)
	conn := store.Conn()
	plans := repository.NewSQLPlanRepo(conn)

	// Exec #1 = plan, #2 = milestone 1, #3 = first task.
	failUoW := &testutil.FailOnNthExecUoW{
		Store:  store,
		FailOn: 3,
		Err:    fmt.Errorf("injected task insert failure"),
	}
	svc := NewPlanService(&fakeGenerator{outcome: assembledOutcome()}, plans,
		repository.NewSQLMilestoneRepo(conn), repository.NewSQLTaskRepo(conn), failUoW)

	_, err := svc.GenerateAndCreate(context.Background(), testutil.TestUserID, "Learn Python", "2 weeks")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected task insert failure")

	all, err := plans.ListByUser(context.Background(), testutil.TestUserID, "")
	require.NoError(t, err)
	assert.Empty(t, all, "plan insert should be rolled back")
}

func TestPlanService_OwnershipAndDelete(t *testing.T) {
	f := newPlanFixture(t, &fakeGenerator{outcome: assembledOutcome()})
	ctx := context.Background()

	res, err := f.svc.GenerateAndCreate(ctx, testutil.TestUserID, "Learn Python", "2 weeks")
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, "someone-else", res.Plan.ID)
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(f.svc.Delete(ctx, "someone-else", res.Plan.ID)))

	require.NoError(t, f.svc.Delete(ctx, testutil.TestUserID, res.Plan.ID))
	_, err = f.svc.Get(ctx, testutil.TestUserID, res.Plan.ID)
	assert.True(t, IsNotFound(err))

	tasks, err := f.tasks.ListByPlan(ctx, res.Plan.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestPlanService_ListAndUpdateStatus(t *testing.T) {
	f := newPlanFixture(t, &fakeGenerator{outcome: assembledOutcome()})
	ctx := context.Background()

	res, err := f.svc.GenerateAndCreate(ctx, testutil.TestUserID, "Learn Python", "2 weeks")
	require.NoError(t, err)

	_, err = f.svc.List(ctx, testutil.TestUserID, domain.PlanStatus("bogus"))
	assert.ErrorIs(t, err, ErrValidation)

	paused, err := f.svc.UpdateStatus(ctx, testutil.TestUserID, res.Plan.ID, domain.PlanPaused)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanPaused, paused.Status)

	active, err := f.svc.List(ctx, testutil.TestUserID, domain.PlanActive)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := f.svc.List(ctx, testutil.TestUserID, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPlanService_ObserverRecordsUseCase(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	store := testutil.NewTestStore(t)
	conn := store.Conn()
	svc := NewPlanService(&fakeGenerator{outcome: assembledOutcome()},
		repository.NewSQLPlanRepo(conn), repository.NewSQLMilestoneRepo(conn), repository.NewSQLTaskRepo(conn),
		testutil.NewTestUoW(store), NewLogUseCaseObserver(zap.New(core)))

	_, err := svc.GenerateAndCreate(context.Background(), testutil.TestUserID, "Learn Python", "2 weeks")
	require.NoError(t, err)

	entries := logs.FilterMessage("service_use_case").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "plan.generate_and_create", fields["use_case"])
	assert.Equal(t, true, fields["success"])
	assert.Equal(t, "run-1", fields["run_id"])
	assert.EqualValues(t, 3, fields["tasks"])
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", repository.ErrNotFound)))
	assert.False(t, IsNotFound(errors.New("other")))
}

func TestImport_PersistsDraftWithStatuses(t *testing.T) {
	f := newPlanFixture(t, &fakeGenerator{})
	ctx := context.Background()

	draft := assembledOutcome().Plan
	draft.Milestones[0].Tasks[0].Status = string(domain.TaskCompleted)
	draft.ProgressPercentage = 100.0 / 3

	plan, err := f.svc.Import(ctx, testutil.TestUserID, draft)
	require.NoError(t, err)
	assert.Zero(t, f.gen.calls, "import never calls the generator")

	detail, err := f.svc.Get(ctx, testutil.TestUserID, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "Python in two weeks", detail.Plan.Title)
	assert.InDelta(t, 100.0/3, detail.Plan.ProgressPercentage, 1e-9)
	require.Len(t, detail.Milestones, 2)
	require.Len(t, detail.Tasks, 3)

	var completed *domain.Task
	for _, task := range detail.Tasks {
		if task.Title == "Install Python" {
			completed = task
		}
	}
	require.NotNil(t, completed)
	assert.Equal(t, domain.TaskCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)

	var overview map[string]any
	require.NoError(t, json.Unmarshal([]byte(detail.Plan.Overview), &overview))
	assert.Equal(t, "Python in two weeks", overview["title"])
}

func TestImport_Validation(t *testing.T) {
	f := newPlanFixture(t, &fakeGenerator{})
	ctx := context.Background()

	_, err := f.svc.Import(ctx, testutil.TestUserID, nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.Import(ctx, testutil.TestUserID, &planner.PlanDraft{Title: "No milestones"})
	assert.ErrorIs(t, err, ErrValidation)
}
