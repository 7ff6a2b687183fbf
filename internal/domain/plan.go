package domain

import "time"

// Plan is a persisted learning plan owned by one user.
type Plan struct {
	ID                     string
	UserID                 string
	Title                  string
	Description            string
	Overview               string // JSON of the generated plan as returned by the planner
	Status                 PlanStatus
	StartDate              time.Time
	EndDate                time.Time
	EstimatedDurationWeeks int
	WeeklyCommitment       string
	DifficultyLevel        string
	Prerequisites          []string
	ProgressPercentage     float64
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// Milestone is an ordered phase of a plan. Order starts at 1.
type Milestone struct {
	ID          string
	PlanID      string
	Title       string
	Description string
	Order       int
	CreatedAt   time.Time
}

// Task is an actionable item inside a milestone.
type Task struct {
	ID             string
	UserID         string
	PlanID         string
	MilestoneID    string
	Title          string
	Description    string
	DueDate        time.Time
	Status         TaskStatus
	Priority       TaskPriority
	EstimatedHours int
	ActualHours    *float64
	AISuggestion   string
	CompletedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsOverdue reports whether an unfinished task is past its due date.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.Status != TaskCompleted && now.After(t.DueDate)
}

// Progress returns the percentage of completed tasks, 0 for an empty list.
func Progress(tasks []*Task) float64 {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Status == TaskCompleted {
			done++
		}
	}
	return float64(done) / float64(len(tasks)) * 100
}
