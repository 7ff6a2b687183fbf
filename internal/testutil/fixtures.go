package testutil

import (
	"time"

	"github.com/alexanderramin/actai/internal/domain"
	"github.com/google/uuid"
)

// TestUserID owns fixtures unless overridden.
const TestUserID = "user-1"

// Plan options
type PlanOption func(*domain.Plan)

func WithPlanUser(id string) PlanOption {
	return func(p *domain.Plan) {
		p.UserID = id
	}
}

func WithPlanStatus(s domain.PlanStatus) PlanOption {
	return func(p *domain.Plan) {
		p.Status = s
	}
}

func WithCreatedAt(t time.Time) PlanOption {
	return func(p *domain.Plan) {
		p.CreatedAt = t
		p.UpdatedAt = t
	}
}

func NewTestPlan(title string, opts ...PlanOption) *domain.Plan {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Plan{
		ID:                     uuid.New().String(),
		UserID:                 TestUserID,
		Title:                  title,
		Description:            "test plan",
		Status:                 domain.PlanActive,
		StartDate:              now,
		EndDate:                now.AddDate(0, 0, 14),
		EstimatedDurationWeeks: 2,
		WeeklyCommitment:       "10 hours",
		DifficultyLevel:        "beginner",
		Prerequisites:          []string{},
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func NewTestMilestone(planID, title string, order int) *domain.Milestone {
	return &domain.Milestone{
		ID:        uuid.New().String(),
		PlanID:    planID,
		Title:     title,
		Order:     order,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

// Task options
type TaskOption func(*domain.Task)

func WithTaskStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func WithTaskPriority(p domain.TaskPriority) TaskOption {
	return func(t *domain.Task) {
		t.Priority = p
	}
}

func WithDueDate(d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.DueDate = d
	}
}

func WithTaskUser(id string) TaskOption {
	return func(t *domain.Task) {
		t.UserID = id
	}
}

func NewTestTask(m *domain.Milestone, title string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC().Truncate(time.Second)
	t := &domain.Task{
		ID:             uuid.New().String(),
		UserID:         TestUserID,
		PlanID:         m.PlanID,
		MilestoneID:    m.ID,
		Title:          title,
		DueDate:        now.AddDate(0, 0, 7),
		Status:         domain.TaskPending,
		Priority:       domain.PriorityMedium,
		EstimatedHours: 2,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Checkin options
type CheckinOption func(*domain.DailyCheckin)

func WithMood(m string) CheckinOption {
	return func(c *domain.DailyCheckin) {
		c.Mood = m
	}
}

func WithScore(s float64) CheckinOption {
	return func(c *domain.DailyCheckin) {
		c.ProductivityScore = &s
	}
}

func WithCheckinUser(id string) CheckinOption {
	return func(c *domain.DailyCheckin) {
		c.UserID = id
	}
}

// NewTestCheckin creates a check-in for the given calendar day.
func NewTestCheckin(day time.Time, opts ...CheckinOption) *domain.DailyCheckin {
	now := time.Now().UTC().Truncate(time.Second)
	c := &domain.DailyCheckin{
		ID:          uuid.New().String(),
		UserID:      TestUserID,
		CheckinDate: time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
		Mood:        "focused",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
