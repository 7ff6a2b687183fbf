package service

import (
	"context"
	"time"

	"github.com/alexanderramin/actai/internal/domain"
	"github.com/alexanderramin/actai/internal/planner"
)

// PlanGenerator runs the three-stage generation pipeline.
type PlanGenerator interface {
	Generate(ctx context.Context, objective, duration string) (*planner.Outcome, error)
}

// GeneratedPlan is a persisted plan together with the run that produced it.
type GeneratedPlan struct {
	Plan    *domain.Plan
	Outcome *planner.Outcome
}

// PlanDetail is a plan with its milestones and tasks.
type PlanDetail struct {
	Plan       *domain.Plan
	Milestones []*domain.Milestone
	Tasks      []*domain.Task
}

type PlanService interface {
	// GenerateAndCreate runs the generator and persists the assembled plan.
	// A failed run returns the Outcome together with ErrGenerationFailed.
	GenerateAndCreate(ctx context.Context, userID, objective, duration string) (*GeneratedPlan, error)
	// Import persists a plan draft that was produced earlier or written by hand.
	Import(ctx context.Context, userID string, draft *planner.PlanDraft) (*domain.Plan, error)
	Get(ctx context.Context, userID, planID string) (*PlanDetail, error)
	List(ctx context.Context, userID string, status domain.PlanStatus) ([]*domain.Plan, error)
	UpdateStatus(ctx context.Context, userID, planID string, status domain.PlanStatus) (*domain.Plan, error)
	Delete(ctx context.Context, userID, planID string) error
}

// TaskUpdate carries the fields a user may change on a task. Nil fields are left alone.
type TaskUpdate struct {
	Status      *domain.TaskStatus
	ActualHours *float64
	Description *string
}

type TaskService interface {
	ListByPlan(ctx context.Context, userID, planID string) ([]*domain.Task, error)
	ListByMilestone(ctx context.Context, userID, milestoneID string) ([]*domain.Task, error)
	Upcoming(ctx context.Context, userID string, days int) ([]*domain.Task, error)
	Update(ctx context.Context, userID, taskID string, u TaskUpdate) (*domain.Task, error)
}

// CheckinUpdate carries changeable check-in fields. Nil fields are left alone.
type CheckinUpdate struct {
	Mood              *string
	ReflectionNotes   *string
	AchievementsToday *string
	MotivationalQuote *string
	ProductivityScore *float64
}

type CheckinService interface {
	Create(ctx context.Context, c *domain.DailyCheckin) error
	GetByDate(ctx context.Context, userID string, date time.Time) (*domain.DailyCheckin, error)
	List(ctx context.Context, userID string, from, to *time.Time) ([]*domain.DailyCheckin, error)
	Update(ctx context.Context, userID, id string, u CheckinUpdate) (*domain.DailyCheckin, error)
	Delete(ctx context.Context, userID, id string) error
	Stats(ctx context.Context, userID string, from, to *time.Time) (*domain.MoodStats, error)
	Trends(ctx context.Context, userID string, from, to time.Time) ([]domain.ProductivityPoint, error)
}
