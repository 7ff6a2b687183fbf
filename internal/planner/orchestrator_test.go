package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/actai/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedGenerator answers each stage from a function of the request.
type scriptedGenerator struct {
	mu       sync.Mutex
	requests []llm.GenerationRequest
	respond  func(req llm.GenerationRequest) (string, error)
}

func (g *scriptedGenerator) Generate(ctx context.Context, req llm.GenerationRequest) (string, error) {
	g.mu.Lock()
	g.requests = append(g.requests, req)
	g.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return g.respond(req)
}

func (g *scriptedGenerator) stageCount(stage string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, r := range g.requests {
		if r.Stage == stage {
			n++
		}
	}
	return n
}

var fixedNow = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

func newTestService(gen llm.TextGenerator) *Service {
	return NewService(gen, DefaultConfig(), nil, WithClock(func() time.Time { return fixedNow }))
}

func basicResponse(milestones ...string) string {
	var b strings.Builder
	b.WriteString("Title: Test Plan\nSummary: A plan for tests.\nDuration: 4\nWeekly: 5 hours\nLevel: Beginner\n")
	b.WriteString("Prerequisites:\n- None\nMilestones:\n")
	for _, m := range milestones {
		fmt.Fprintf(&b, "- %s\n", m)
	}
	b.WriteString("END")
	return b.String()
}

func milestoneResponse(tasks ...string) string {
	var b strings.Builder
	b.WriteString("Description: Milestone work.\nTasks:\n")
	for _, t := range tasks {
		fmt.Fprintf(&b, "- %s\n", t)
	}
	b.WriteString("END")
	return b.String()
}

func taskResponse(priority string, hours int) string {
	return fmt.Sprintf("Description: Do it.\nPriority: %s\nHours: %d\nTip: Build a habit of it.\nEND", priority, hours)
}

func promptMentions(req llm.GenerationRequest, label, title string) bool {
	return strings.Contains(req.Prompt, fmt.Sprintf("%s: %q", label, title))
}

func TestGenerate_PartialMilestoneFailureIsIsolated(t *testing.T) {
	gen := &scriptedGenerator{respond: func(req llm.GenerationRequest) (string, error) {
		switch req.Stage {
		case StageBasicPlan:
			return basicResponse("M1", "M2", "M3"), nil
		case StageMilestone:
			if promptMentions(req, "Milestone to detail", "M2") {
				return "", errors.New("backend exploded")
			}
			return milestoneResponse("T1", "T2", "T3"), nil
		default:
			return taskResponse("Medium", 3), nil
		}
	}}

	out, err := newTestService(gen).Generate(context.Background(), "Learn Go", "4 weeks")

	require.NoError(t, err)
	require.Equal(t, StateAssembled, out.State)
	require.NotNil(t, out.Plan)
	require.Len(t, out.Plan.Milestones, 3)

	m2 := out.Plan.Milestones[1]
	assert.Equal(t, "M2", m2.Title)
	assert.Equal(t, "Complete milestone: M2", m2.Description)
	assert.Equal(t, 2, m2.Order)
	assert.Empty(t, m2.Tasks)
	assert.True(t, m2.Fallback)

	assert.Len(t, out.Plan.Milestones[0].Tasks, 3)
	assert.Len(t, out.Plan.Milestones[2].Tasks, 3)
	assert.Equal(t, 6, gen.stageCount(StageTask))
}

func TestGenerate_TaskFailureUsesFallbackTask(t *testing.T) {
	gen := &scriptedGenerator{respond: func(req llm.GenerationRequest) (string, error) {
		switch req.Stage {
		case StageBasicPlan:
			return basicResponse("M1", "M2"), nil
		case StageMilestone:
			return milestoneResponse("Good task", "Bad task"), nil
		default:
			if promptMentions(req, "Task to detail", "Bad task") {
				return "", llm.ErrRetryExhausted
			}
			return taskResponse("High", 5), nil
		}
	}}

	out, err := newTestService(gen).Generate(context.Background(), "Learn Go", "2 weeks")

	require.NoError(t, err)
	require.Equal(t, StateAssembled, out.State)
	for _, m := range out.Plan.Milestones {
		require.Len(t, m.Tasks, 2)
		good, bad := m.Tasks[0], m.Tasks[1]
		assert.Equal(t, "Good task", good.Title)
		assert.Equal(t, PriorityHigh, good.Priority)
		assert.Equal(t, 5, good.EstimatedHours)

		assert.Equal(t, "Bad task", bad.Title)
		assert.Equal(t, "Complete the task: Bad task", bad.Description)
		assert.Equal(t, PriorityMedium, bad.Priority)
		assert.Equal(t, 2, bad.EstimatedHours)
		assert.Equal(t, "Break this task into smaller steps", bad.Suggestion)
		assert.True(t, bad.Fallback)
	}
}

func TestGenerate_NoMilestonesIsStructuralFailure(t *testing.T) {
	gen := &scriptedGenerator{respond: func(req llm.GenerationRequest) (string, error) {
		return "Title: Spanish\nSummary: Hola.\nMilestones:\nEND", nil
	}}

	out, err := newTestService(gen).Generate(context.Background(), "Learn Spanish", "4 weeks")

	require.NoError(t, err)
	assert.True(t, out.Failed())
	assert.Equal(t, "No milestones generated", out.Error)
	assert.Nil(t, out.Plan)
	assert.Equal(t, 1, gen.stageCount(StageBasicPlan), "structural failure is not retried")
	assert.Zero(t, gen.stageCount(StageMilestone))

	data, err := json.Marshal(out)
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "No milestones generated", payload["error"])
	assert.Equal(t, "Learn Spanish", payload["user_objective"])
	assert.Equal(t, "4 weeks", payload["desired_plan_duration"])
	assert.Contains(t, payload, "basic_plan")
	assert.NotContains(t, payload, "milestones")
}

func TestGenerate_DurationWithoutNumberFails(t *testing.T) {
	gen := &scriptedGenerator{respond: func(req llm.GenerationRequest) (string, error) {
		t.Fatal("no generation expected")
		return "", nil
	}}

	out, err := newTestService(gen).Generate(context.Background(), "Learn Go", "a while")

	require.NoError(t, err)
	assert.True(t, out.Failed())
	assert.Contains(t, out.Error, "Plan generation failed")
	assert.Empty(t, gen.requests)
}

func TestGenerate_BasicPlanErrorFails(t *testing.T) {
	gen := &scriptedGenerator{respond: func(req llm.GenerationRequest) (string, error) {
		return "", fmt.Errorf("%w after 3 attempts: boom", llm.ErrRetryExhausted)
	}}

	out, err := newTestService(gen).Generate(context.Background(), "Learn Go", "3 weeks")

	require.NoError(t, err)
	assert.True(t, out.Failed())
	assert.Contains(t, out.Error, "Plan generation failed")
	assert.Nil(t, out.Basic)
}

func TestGenerate_TwoWeekPythonPlan(t *testing.T) {
	gen := &scriptedGenerator{respond: func(req llm.GenerationRequest) (string, error) {
		switch req.Stage {
		case StageBasicPlan:
			// Five titles offered; a two-week plan keeps at most three.
			return basicResponse("Setup", "Syntax", "Functions", "Modules", "Project"), nil
		case StageMilestone:
			return milestoneResponse("A", "B", "C", "D", "E"), nil
		default:
			return taskResponse("Low", 2), nil
		}
	}}

	out, err := newTestService(gen).Generate(context.Background(), "Learn basic Python", "2 weeks")

	require.NoError(t, err)
	require.Equal(t, StateAssembled, out.State)
	plan := out.Plan
	assert.Equal(t, 2, plan.DurationWeeks)
	assert.GreaterOrEqual(t, len(plan.Milestones), 2)
	assert.LessOrEqual(t, len(plan.Milestones), 3)
	assert.Equal(t, fixedNow, plan.StartDate)
	assert.Equal(t, fixedNow.AddDate(0, 0, 14), plan.EndDate)
	assert.Zero(t, plan.ProgressPercentage)
	assert.Empty(t, plan.Prerequisites)

	for _, m := range plan.Milestones {
		assert.LessOrEqual(t, len(m.Tasks), 2)
		for _, task := range m.Tasks {
			assert.Equal(t, TaskStatusPending, task.Status)
			assert.False(t, task.DueDate.Before(plan.StartDate), task.Title)
			assert.False(t, task.DueDate.After(plan.StartDate.AddDate(0, 0, 14)), task.Title)
		}
	}
}

func TestGenerate_TasksOrderedByPriorityAndScheduled(t *testing.T) {
	priorities := map[string]string{"Read": "Low", "Practice": "High", "Review": "Medium", "Quiz": "High"}
	gen := &scriptedGenerator{respond: func(req llm.GenerationRequest) (string, error) {
		switch req.Stage {
		case StageBasicPlan:
			return basicResponse("Only", "Second"), nil
		case StageMilestone:
			return milestoneResponse("Read", "Practice", "Review", "Quiz"), nil
		default:
			for title, prio := range priorities {
				if promptMentions(req, "Task to detail", title) {
					return taskResponse(prio, 1), nil
				}
			}
			return "", errors.New("unexpected task")
		}
	}}

	out, err := newTestService(gen).Generate(context.Background(), "Learn", "8 weeks")

	require.NoError(t, err)
	tasks := out.Plan.Milestones[0].Tasks
	require.Len(t, tasks, 4)

	var titles []string
	for _, task := range tasks {
		titles = append(titles, task.Title)
	}
	assert.Equal(t, []string{"Practice", "Quiz", "Review", "Read"}, titles)
	for i := 1; i < len(tasks); i++ {
		assert.False(t, tasks[i].DueDate.Before(tasks[i-1].DueDate))
	}
}

func TestGenerate_StageThreeWaitsForStageTwo(t *testing.T) {
	var mu sync.Mutex
	stage2Done := 0
	var stage3SawIncomplete bool

	gen := &scriptedGenerator{respond: func(req llm.GenerationRequest) (string, error) {
		switch req.Stage {
		case StageBasicPlan:
			return basicResponse("M1", "M2", "M3", "M4"), nil
		case StageMilestone:
			time.Sleep(5 * time.Millisecond)
			mu.Lock()
			stage2Done++
			mu.Unlock()
			return milestoneResponse("T1", "T2"), nil
		default:
			mu.Lock()
			if stage2Done < 4 {
				stage3SawIncomplete = true
			}
			mu.Unlock()
			return taskResponse("Medium", 1), nil
		}
	}}

	out, err := newTestService(gen).Generate(context.Background(), "Learn", "8 weeks")

	require.NoError(t, err)
	assert.Equal(t, StateAssembled, out.State)
	assert.False(t, stage3SawIncomplete)
	assert.Equal(t, 4, gen.stageCount(StageMilestone))
}

func TestGenerate_CancelledContextReturnsError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	gen := &scriptedGenerator{respond: func(req llm.GenerationRequest) (string, error) {
		if req.Stage == StageBasicPlan {
			return basicResponse("M1", "M2"), nil
		}
		cancel()
		return "", context.Canceled
	}}

	out, err := newTestService(gen).Generate(ctx, "Learn", "4 weeks")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, out)
}

func TestGenerate_UsesStageBudgets(t *testing.T) {
	gen := &scriptedGenerator{respond: func(req llm.GenerationRequest) (string, error) {
		switch req.Stage {
		case StageBasicPlan:
			return basicResponse("M1", "M2"), nil
		case StageMilestone:
			return milestoneResponse("T1"), nil
		default:
			return taskResponse("High", 1), nil
		}
	}}

	_, err := newTestService(gen).Generate(context.Background(), "Learn", "2 weeks")
	require.NoError(t, err)

	for _, r := range gen.requests {
		assert.InDelta(t, 0.7, r.Temperature, 1e-9)
		switch r.Stage {
		case StageBasicPlan:
			assert.Equal(t, 800, r.MaxTokens)
		case StageMilestone:
			assert.Equal(t, 600, r.MaxTokens)
			assert.Contains(t, r.Prompt, "Other milestones in plan: M1, M2")
			assert.Contains(t, r.Prompt, "Plan duration: 2 weeks")
		case StageTask:
			assert.Equal(t, 400, r.MaxTokens)
		}
	}
}

func TestOutcome_MarshalSuccessShape(t *testing.T) {
	gen := &scriptedGenerator{respond: func(req llm.GenerationRequest) (string, error) {
		switch req.Stage {
		case StageBasicPlan:
			return basicResponse("M1", "M2"), nil
		case StageMilestone:
			return milestoneResponse("T1"), nil
		default:
			return taskResponse("High", 1), nil
		}
	}}

	out, err := newTestService(gen).Generate(context.Background(), "Learn", "2 weeks")
	require.NoError(t, err)

	data, err := json.Marshal(out)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(data, &payload))
	for _, key := range []string{"title", "description", "estimated_duration_weeks", "weekly_commitment_hours",
		"difficulty_level", "prerequisites", "start_date", "end_date", "progress_percentage", "milestones"} {
		assert.Contains(t, payload, key)
	}
	assert.NotContains(t, payload, "error")

	milestones := payload["milestones"].([]any)
	m := milestones[0].(map[string]any)
	assert.EqualValues(t, 1, m["order"])
	task := m["tasks"].([]any)[0].(map[string]any)
	for _, key := range []string{"title", "description", "due_date", "priority", "estimated_hours", "ai_suggestion", "status"} {
		assert.Contains(t, task, key)
	}
	assert.Equal(t, "pending", task["status"])
	assert.Equal(t, "high", task["priority"])
}

func TestService_StepOperations(t *testing.T) {
	gen := &scriptedGenerator{respond: func(req llm.GenerationRequest) (string, error) {
		switch req.Stage {
		case StageBasicPlan:
			return basicResponse("M1", "M2"), nil
		case StageMilestone:
			return milestoneResponse("T1", "T2"), nil
		case StageTask:
			return taskResponse("Low", 6), nil
		default:
			return "Insights:\n- i\nChallenges:\n- c\nResources:\n- r\nTips:\n- t\nEND", nil
		}
	}}
	svc := newTestService(gen)
	ctx := context.Background()

	basic, err := svc.BasicPlan(ctx, "Learn", "4 weeks")
	require.NoError(t, err)
	assert.Equal(t, []string{"M1", "M2"}, basic.MilestoneTitles)

	detail, err := svc.ExpandMilestone(ctx, basic.Title, "M1", basic.MilestoneTitles, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"T1", "T2"}, detail.TaskTitles)

	task, err := svc.ExpandTask(ctx, "M1", "T1", 4)
	require.NoError(t, err)
	assert.Equal(t, PriorityLow, task.Priority)
	assert.Equal(t, 6, task.EstimatedHours)

	insights, err := svc.MilestoneInsights(ctx, "Learn", "M1", detail.Description)
	require.NoError(t, err)
	assert.Equal(t, []string{"t"}, insights.Tips)
}

func TestGenerate_WithRealGeneratorCachesRepeatedPrompts(t *testing.T) {
	backend := &countingCompleter{respond: func(prompt string) string {
		switch {
		case strings.HasPrefix(prompt, "Create a detailed learning plan"):
			return basicResponse("M1", "M2")
		case strings.HasPrefix(prompt, "Plan:"):
			return milestoneResponse("Shared task")
		default:
			return taskResponse("Medium", 2)
		}
	}}
	cfg := llm.DefaultConfig()
	cfg.RetryDelayMs = 0
	gen := llm.NewGenerator(backend, cfg)
	svc := newTestService(gen)

	_, err := svc.Generate(context.Background(), "Learn", "2 weeks")
	require.NoError(t, err)
	first := backend.calls()

	_, err = svc.Generate(context.Background(), "Learn", "2 weeks")
	require.NoError(t, err)

	assert.Equal(t, first, backend.calls(), "second run should be served from cache")
}

type countingCompleter struct {
	mu      sync.Mutex
	n       int
	respond func(prompt string) string
}

func (c *countingCompleter) Complete(ctx context.Context, comp llm.Completion) (string, error) {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
	return c.respond(comp.UserPrompt), nil
}

func (c *countingCompleter) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}
