package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/actai/internal/domain"
)

type PlanRepo interface {
	Create(ctx context.Context, p *domain.Plan) error
	GetByID(ctx context.Context, id string) (*domain.Plan, error)
	// ListByUser returns the user's plans, newest first. An empty status lists all.
	ListByUser(ctx context.Context, userID string, status domain.PlanStatus) ([]*domain.Plan, error)
	UpdateProgress(ctx context.Context, id string, progress float64) error
	UpdateStatus(ctx context.Context, id string, status domain.PlanStatus) error
	Delete(ctx context.Context, id string) error
}

type MilestoneRepo interface {
	Create(ctx context.Context, m *domain.Milestone) error
	ListByPlan(ctx context.Context, planID string) ([]*domain.Milestone, error)
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByPlan(ctx context.Context, planID string) ([]*domain.Task, error)
	ListByMilestone(ctx context.Context, milestoneID string) ([]*domain.Task, error)
	// ListDueBetween returns the user's tasks due in [from, to), earliest first.
	ListDueBetween(ctx context.Context, userID string, from, to time.Time) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
}

type CheckinRepo interface {
	Create(ctx context.Context, c *domain.DailyCheckin) error
	GetByID(ctx context.Context, id string) (*domain.DailyCheckin, error)
	GetByDate(ctx context.Context, userID string, date time.Time) (*domain.DailyCheckin, error)
	// List returns check-ins ordered by date. Nil bounds are open; both are inclusive.
	List(ctx context.Context, userID string, from, to *time.Time) ([]*domain.DailyCheckin, error)
	Update(ctx context.Context, c *domain.DailyCheckin) error
	Delete(ctx context.Context, id string) error
}
