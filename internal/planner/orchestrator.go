package planner

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Fallback content used when a single expansion call permanently fails.
const (
	errNoMilestones        = "No milestones generated"
	fallbackMilestoneDesc  = "Complete milestone: %s"
	fallbackTaskDesc       = "Complete the task: %s"
	fallbackTaskSuggestion = "Break this task into smaller steps"
)

// run tracks one Generate call.
type run struct {
	out        *Outcome
	stateStart time.Time
	logger     *zap.Logger
}

func (r *run) enter(next State) {
	now := time.Now()
	r.out.Stages = append(r.out.Stages, StageTiming{State: r.out.State, Duration: now.Sub(r.stateStart)})
	r.logger.Debug("stage completed",
		zap.String("state", string(r.out.State)),
		zap.Duration("elapsed", now.Sub(r.stateStart)),
	)
	r.out.State = next
	r.stateStart = now
}

func (r *run) fail(reason string) *Outcome {
	r.enter(StateFailed)
	r.out.Error = reason
	r.logger.Error("plan generation failed", zap.String("reason", reason))
	return r.out
}

// Generate runs the three-stage pipeline for objective over the desired
// duration and returns the outcome.
//
// Structural problems (no week count, stage 1 failing or producing no
// milestones) are reported as a failed Outcome. Individual milestone and task
// failures are replaced by fallback content. The error is non-nil only when
// ctx is done, in which case no outcome is returned.
func (s *Service) Generate(ctx context.Context, objective, duration string) (*Outcome, error) {
	r := &run{
		out: &Outcome{
			RunID:           uuid.NewString(),
			State:           StateDraftingBasicPlan,
			Objective:       objective,
			DesiredDuration: duration,
		},
		stateStart: time.Now(),
	}
	r.logger = s.logger.With(zap.String("run_id", r.out.RunID))
	r.logger.Info("starting plan generation",
		zap.String("objective", objective),
		zap.String("duration", duration),
	)

	weeks, err := ParseWeeks(duration)
	if err != nil {
		return r.fail(fmt.Sprintf("Plan generation failed: %v", err)), nil
	}

	basic, err := s.BasicPlan(ctx, objective, duration)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return r.fail(fmt.Sprintf("Plan generation failed: %v", err)), nil
	}

	titles := truncate(basic.MilestoneTitles, OptimalMilestones(weeks))
	outline := basic
	outline.MilestoneTitles = nil
	if len(titles) == 0 {
		r.out.Basic = &outline
		return r.fail(errNoMilestones), nil
	}

	start := s.now()
	plan := &PlanDraft{
		Title:            basic.Title,
		Summary:          basic.Summary,
		DurationWeeks:    weeks,
		WeeklyCommitment: basic.WeeklyCommitment,
		DifficultyLevel:  basic.DifficultyLevel,
		Prerequisites:    basic.Prerequisites,
		StartDate:        start,
		EndDate:          start.AddDate(0, 0, weeks*7),
	}

	r.enter(StateExpandingMilestones)
	r.logger.Info("expanding milestones", zap.Int("count", len(titles)))
	milestones, taskTitles, err := s.expandMilestones(ctx, r.logger, plan.Title, titles, weeks)
	if err != nil {
		return nil, err
	}

	r.enter(StateExpandingTasks)
	r.logger.Info("expanding tasks", zap.Int("count", countAll(taskTitles)))
	if err := s.expandTasks(ctx, r.logger, milestones, taskTitles, weeks); err != nil {
		return nil, err
	}

	schedule(plan.StartDate, plan.EndDate, milestones)
	plan.Milestones = milestones

	r.out.Plan = plan
	r.enter(StateAssembled)
	r.logger.Info("plan generation completed",
		zap.Int("milestones", len(plan.Milestones)),
		zap.Int("tasks", plan.TaskCount()),
	)
	return r.out, nil
}

// expandMilestones runs stage 2 for every title concurrently. It returns the
// milestones in title order together with the task titles kept for each.
func (s *Service) expandMilestones(ctx context.Context, logger *zap.Logger, planTitle string, titles []string, weeks int) ([]MilestoneDraft, [][]string, error) {
	milestones := make([]MilestoneDraft, len(titles))
	taskTitles := make([][]string, len(titles))
	keep := OptimalTasks(weeks, len(titles))

	g, gctx := errgroup.WithContext(ctx)
	if s.cfg.MaxConcurrency > 0 {
		g.SetLimit(s.cfg.MaxConcurrency)
	}
	for i, title := range titles {
		g.Go(func() error {
			detail, err := s.ExpandMilestone(gctx, planTitle, title, titles, weeks)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logger.Error("milestone expansion failed, using fallback",
					zap.String("milestone", title),
					zap.Error(err),
				)
				milestones[i] = fallbackMilestone(title, i+1)
				return nil
			}
			milestones[i] = MilestoneDraft{
				Title:       detail.Title,
				Description: detail.Description,
				Order:       i + 1,
				Tasks:       []TaskDraft{},
			}
			taskTitles[i] = truncate(detail.TaskTitles, keep)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return milestones, taskTitles, nil
}

// expandTasks runs stage 3 for every task of every milestone in one wave.
// Each goroutine writes only its own pre-allocated slot.
func (s *Service) expandTasks(ctx context.Context, logger *zap.Logger, milestones []MilestoneDraft, taskTitles [][]string, weeks int) error {
	for i := range milestones {
		milestones[i].Tasks = make([]TaskDraft, len(taskTitles[i]))
	}

	g, gctx := errgroup.WithContext(ctx)
	if s.cfg.MaxConcurrency > 0 {
		g.SetLimit(s.cfg.MaxConcurrency)
	}
	for i := range milestones {
		milestoneTitle := milestones[i].Title
		for j, title := range taskTitles[i] {
			g.Go(func() error {
				detail, err := s.ExpandTask(gctx, milestoneTitle, title, weeks)
				if err != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					logger.Error("task expansion failed, using fallback",
						zap.String("milestone", milestoneTitle),
						zap.String("task", title),
						zap.Error(err),
					)
					milestones[i].Tasks[j] = fallbackTask(title)
					return nil
				}
				milestones[i].Tasks[j] = TaskDraft{
					Title:          detail.Title,
					Description:    detail.Description,
					Priority:       detail.Priority,
					EstimatedHours: detail.EstimatedHours,
					Suggestion:     detail.Suggestion,
					Status:         TaskStatusPending,
				}
				return nil
			})
		}
	}
	return g.Wait()
}

// schedule orders each milestone's tasks by priority and assigns due dates.
func schedule(start, end time.Time, milestones []MilestoneDraft) {
	for i := range milestones {
		tasks := milestones[i].Tasks
		slices.SortStableFunc(tasks, func(a, b TaskDraft) int {
			return a.Priority.rank() - b.Priority.rank()
		})
		for j := range tasks {
			tasks[j].DueDate = DueDate(start, end, i, len(milestones), j, len(tasks), tasks[j].Priority)
		}
	}
}

func fallbackMilestone(title string, order int) MilestoneDraft {
	return MilestoneDraft{
		Title:       title,
		Description: fmt.Sprintf(fallbackMilestoneDesc, title),
		Order:       order,
		Tasks:       []TaskDraft{},
		Fallback:    true,
	}
}

func fallbackTask(title string) TaskDraft {
	return TaskDraft{
		Title:          title,
		Description:    fmt.Sprintf(fallbackTaskDesc, title),
		Priority:       PriorityMedium,
		EstimatedHours: DefaultTaskHours,
		Suggestion:     fallbackTaskSuggestion,
		Status:         TaskStatusPending,
		Fallback:       true,
	}
}

func countAll(lists [][]string) int {
	n := 0
	for _, l := range lists {
		n += len(l)
	}
	return n
}
