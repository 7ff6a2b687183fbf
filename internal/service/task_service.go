package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/actai/internal/db"
	"github.com/alexanderramin/actai/internal/domain"
	"github.com/alexanderramin/actai/internal/repository"
)

type taskService struct {
	tasks    repository.TaskRepo
	plans    repository.PlanRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewTaskService(tasks repository.TaskRepo, plans repository.PlanRepo, uow db.UnitOfWork, observers ...UseCaseObserver) TaskService {
	return &taskService{tasks: tasks, plans: plans, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *taskService) ListByPlan(ctx context.Context, userID, planID string) ([]*domain.Task, error) {
	if _, err := ownedPlan(ctx, s.plans, userID, planID); err != nil {
		return nil, err
	}
	return s.tasks.ListByPlan(ctx, planID)
}

func (s *taskService) ListByMilestone(ctx context.Context, userID, milestoneID string) ([]*domain.Task, error) {
	tasks, err := s.tasks.ListByMilestone(ctx, milestoneID)
	if err != nil {
		return nil, err
	}
	owned := tasks[:0]
	for _, t := range tasks {
		if t.UserID == userID {
			owned = append(owned, t)
		}
	}
	return owned, nil
}

func (s *taskService) Upcoming(ctx context.Context, userID string, days int) ([]*domain.Task, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: days must be positive, got %d", ErrValidation, days)
	}
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return s.tasks.ListDueBetween(ctx, userID, from, from.AddDate(0, 0, days))
}

// Update applies u to the task and recomputes the owning plan's progress in
// the same transaction.
func (s *taskService) Update(ctx context.Context, userID, taskID string, u TaskUpdate) (*domain.Task, error) {
	if u.Status != nil && !u.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown task status %q", ErrValidation, *u.Status)
	}
	if u.ActualHours != nil && *u.ActualHours < 0 {
		return nil, fmt.Errorf("%w: actual hours must not be negative", ErrValidation)
	}

	var updated *domain.Task
	fields := map[string]any{"task_id": taskID}
	err := observe(ctx, s.observer, "task.update", fields, func() error {
		return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			txTasks := repository.NewSQLTaskRepo(tx)
			txPlans := repository.NewSQLPlanRepo(tx)

			task, err := txTasks.GetByID(ctx, taskID)
			if err != nil {
				return err
			}
			if task.UserID != userID {
				return fmt.Errorf("task %s: %w", taskID, repository.ErrNotFound)
			}

			now := time.Now().UTC()
			applyTaskUpdate(task, u, now)
			if err := txTasks.Update(ctx, task); err != nil {
				return err
			}

			siblings, err := txTasks.ListByPlan(ctx, task.PlanID)
			if err != nil {
				return err
			}
			progress := domain.Progress(siblings)
			fields["plan_progress"] = progress
			if err := txPlans.UpdateProgress(ctx, task.PlanID, progress); err != nil {
				return err
			}
			updated = task
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func applyTaskUpdate(t *domain.Task, u TaskUpdate, now time.Time) {
	if u.Status != nil && *u.Status != t.Status {
		t.Status = *u.Status
		if t.Status == domain.TaskCompleted {
			t.CompletedAt = &now
		} else {
			t.CompletedAt = nil
		}
	}
	if u.ActualHours != nil {
		h := *u.ActualHours
		t.ActualHours = &h
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	t.UpdatedAt = now
}
