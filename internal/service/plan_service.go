package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/actai/internal/db"
	"github.com/alexanderramin/actai/internal/domain"
	"github.com/alexanderramin/actai/internal/planner"
	"github.com/alexanderramin/actai/internal/repository"
	"github.com/google/uuid"
)

type planService struct {
	gen        PlanGenerator
	plans      repository.PlanRepo
	milestones repository.MilestoneRepo
	tasks      repository.TaskRepo
	uow        db.UnitOfWork
	observer   UseCaseObserver
}

func NewPlanService(
	gen PlanGenerator,
	plans repository.PlanRepo,
	milestones repository.MilestoneRepo,
	tasks repository.TaskRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) PlanService {
	return &planService{
		gen:        gen,
		plans:      plans,
		milestones: milestones,
		tasks:      tasks,
		uow:        uow,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *planService) GenerateAndCreate(ctx context.Context, userID, objective, duration string) (*GeneratedPlan, error) {
	if strings.TrimSpace(objective) == "" {
		return nil, fmt.Errorf("%w: objective is required", ErrValidation)
	}
	if strings.TrimSpace(duration) == "" {
		return nil, fmt.Errorf("%w: duration is required", ErrValidation)
	}

	var result *GeneratedPlan
	fields := map[string]any{"user_id": userID}
	err := observe(ctx, s.observer, "plan.generate_and_create", fields, func() error {
		out, err := s.gen.Generate(ctx, objective, duration)
		if err != nil {
			return err
		}
		fields["run_id"] = out.RunID
		if out.Failed() {
			result = &GeneratedPlan{Outcome: out}
			return fmt.Errorf("%w: %s", ErrGenerationFailed, out.Error)
		}

		overview, err := json.Marshal(out)
		if err != nil {
			return fmt.Errorf("encoding plan overview: %w", err)
		}
		now := time.Now().UTC()
		plan := planFromDraft(userID, out.Plan, string(overview), now)

		err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			return persistDraft(ctx, tx, plan, out.Plan, now)
		})
		if err != nil {
			return err
		}
		fields["plan_id"] = plan.ID
		fields["tasks"] = out.Plan.TaskCount()
		result = &GeneratedPlan{Plan: plan, Outcome: out}
		return nil
	})
	return result, err
}

func (s *planService) Import(ctx context.Context, userID string, draft *planner.PlanDraft) (*domain.Plan, error) {
	if draft == nil || strings.TrimSpace(draft.Title) == "" {
		return nil, fmt.Errorf("%w: plan title is required", ErrValidation)
	}
	if len(draft.Milestones) == 0 {
		return nil, fmt.Errorf("%w: plan has no milestones", ErrValidation)
	}

	var plan *domain.Plan
	fields := map[string]any{"user_id": userID, "tasks": draft.TaskCount()}
	err := observe(ctx, s.observer, "plan.import", fields, func() error {
		overview, err := json.Marshal(draft)
		if err != nil {
			return fmt.Errorf("encoding plan overview: %w", err)
		}
		now := time.Now().UTC()
		p := planFromDraft(userID, draft, string(overview), now)
		if err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			return persistDraft(ctx, tx, p, draft, now)
		}); err != nil {
			return err
		}
		fields["plan_id"] = p.ID
		plan = p
		return nil
	})
	return plan, err
}

func planFromDraft(userID string, d *planner.PlanDraft, overview string, now time.Time) *domain.Plan {
	return &domain.Plan{
		ID:                     uuid.New().String(),
		UserID:                 userID,
		Title:                  d.Title,
		Description:            d.Summary,
		Overview:               overview,
		Status:                 domain.PlanActive,
		StartDate:              d.StartDate,
		EndDate:                d.EndDate,
		EstimatedDurationWeeks: d.DurationWeeks,
		WeeklyCommitment:       d.WeeklyCommitment,
		DifficultyLevel:        d.DifficultyLevel,
		Prerequisites:          d.Prerequisites,
		ProgressPercentage:     d.ProgressPercentage,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}

// persistDraft writes the plan, its milestones and their tasks through tx.
func persistDraft(ctx context.Context, tx db.DBTX, plan *domain.Plan, d *planner.PlanDraft, now time.Time) error {
	txPlans := repository.NewSQLPlanRepo(tx)
	txMilestones := repository.NewSQLMilestoneRepo(tx)
	txTasks := repository.NewSQLTaskRepo(tx)

	if err := txPlans.Create(ctx, plan); err != nil {
		return err
	}
	for _, md := range d.Milestones {
		m := &domain.Milestone{
			ID:          uuid.New().String(),
			PlanID:      plan.ID,
			Title:       md.Title,
			Description: md.Description,
			Order:       md.Order,
			CreatedAt:   now,
		}
		if err := txMilestones.Create(ctx, m); err != nil {
			return err
		}
		for _, td := range md.Tasks {
			status := domain.TaskStatus(td.Status)
			if !status.Valid() {
				status = domain.TaskPending
			}
			task := &domain.Task{
				ID:             uuid.New().String(),
				UserID:         plan.UserID,
				PlanID:         plan.ID,
				MilestoneID:    m.ID,
				Title:          td.Title,
				Description:    td.Description,
				DueDate:        td.DueDate,
				Status:         status,
				Priority:       domain.TaskPriority(td.Priority),
				EstimatedHours: td.EstimatedHours,
				AISuggestion:   td.Suggestion,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if status == domain.TaskCompleted {
				task.CompletedAt = &now
			}
			if err := txTasks.Create(ctx, task); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *planService) Get(ctx context.Context, userID, planID string) (*PlanDetail, error) {
	plan, err := ownedPlan(ctx, s.plans, userID, planID)
	if err != nil {
		return nil, err
	}
	milestones, err := s.milestones.ListByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	return &PlanDetail{Plan: plan, Milestones: milestones, Tasks: tasks}, nil
}

func (s *planService) List(ctx context.Context, userID string, status domain.PlanStatus) ([]*domain.Plan, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown plan status %q", ErrValidation, status)
	}
	return s.plans.ListByUser(ctx, userID, status)
}

func (s *planService) UpdateStatus(ctx context.Context, userID, planID string, status domain.PlanStatus) (*domain.Plan, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown plan status %q", ErrValidation, status)
	}
	if _, err := ownedPlan(ctx, s.plans, userID, planID); err != nil {
		return nil, err
	}
	if err := s.plans.UpdateStatus(ctx, planID, status); err != nil {
		return nil, err
	}
	return s.plans.GetByID(ctx, planID)
}

func (s *planService) Delete(ctx context.Context, userID, planID string) error {
	return observe(ctx, s.observer, "plan.delete", map[string]any{"plan_id": planID}, func() error {
		if _, err := ownedPlan(ctx, s.plans, userID, planID); err != nil {
			return err
		}
		return s.plans.Delete(ctx, planID)
	})
}

// ownedPlan loads a plan and hides plans of other users behind ErrNotFound.
func ownedPlan(ctx context.Context, plans repository.PlanRepo, userID, planID string) (*domain.Plan, error) {
	plan, err := plans.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		return nil, fmt.Errorf("plan %s: %w", planID, repository.ErrNotFound)
	}
	return plan, nil
}

// IsNotFound reports whether err means the requested entity does not exist
// for the caller.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
