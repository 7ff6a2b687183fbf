package planner

import (
	"encoding/json"
	"strings"
	"time"
)

// Priority ranks a task inside its milestone.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ParsePriority accepts high, medium or low in any case.
func ParsePriority(s string) (Priority, bool) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return p, true
	}
	return "", false
}

// rank orders priorities high first. Unknown values sort with medium.
func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

// multiplier shifts a task's position inside its milestone window.
func (p Priority) multiplier() float64 {
	switch p {
	case PriorityHigh:
		return 0.8
	case PriorityLow:
		return 1.2
	default:
		return 1.0
	}
}

// TaskStatusPending is the status of every freshly generated task.
const TaskStatusPending = "pending"

// State is a step of a plan-generation run.
type State string

const (
	StateDraftingBasicPlan   State = "drafting_basic_plan"
	StateExpandingMilestones State = "expanding_milestones"
	StateExpandingTasks      State = "expanding_tasks"
	StateAssembled           State = "assembled"
	StateFailed              State = "failed"
)

// BasicPlan is the parsed stage-1 response.
type BasicPlan struct {
	Title            string   `json:"plan_title"`
	Summary          string   `json:"plan_summary"`
	DurationWeeks    int      `json:"estimated_total_duration_weeks"`
	WeeklyCommitment string   `json:"suggested_weekly_commitment_hours"`
	DifficultyLevel  string   `json:"difficulty_level"`
	Prerequisites    []string `json:"prerequisites"`
	MilestoneTitles  []string `json:"milestone_titles_to_create,omitempty"`
}

// MilestoneDetail is the parsed stage-2 response.
type MilestoneDetail struct {
	Title       string   `json:"milestone_title"`
	Description string   `json:"milestone_description"`
	TaskTitles  []string `json:"task_titles_to_create"`
}

// TaskDetail is the parsed stage-3 response.
type TaskDetail struct {
	Title          string   `json:"task_title"`
	Description    string   `json:"task_description"`
	Priority       Priority `json:"task_priority"`
	EstimatedHours int      `json:"task_estimated_hours"`
	Suggestion     string   `json:"task_ai_suggestion"`
}

// Insights is the parsed response of the milestone-insights prompt.
type Insights struct {
	Insights   []string `json:"insights"`
	Challenges []string `json:"challenges"`
	Resources  []string `json:"resources"`
	Tips       []string `json:"tips"`
}

// PlanDraft is an assembled plan. Its JSON form is what plan consumers persist.
type PlanDraft struct {
	Title              string           `json:"title"`
	Summary            string           `json:"description"`
	DurationWeeks      int              `json:"estimated_duration_weeks"`
	WeeklyCommitment   string           `json:"weekly_commitment_hours"`
	DifficultyLevel    string           `json:"difficulty_level"`
	Prerequisites      []string         `json:"prerequisites"`
	StartDate          time.Time        `json:"start_date"`
	EndDate            time.Time        `json:"end_date"`
	ProgressPercentage float64          `json:"progress_percentage"`
	Milestones         []MilestoneDraft `json:"milestones"`
}

// MilestoneDraft is one ordered phase of a PlanDraft. Order is 1-based.
type MilestoneDraft struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Order       int         `json:"order"`
	Tasks       []TaskDraft `json:"tasks"`

	// Fallback marks content synthesized after the expansion call failed.
	Fallback bool `json:"-"`
}

// TaskDraft is one actionable item of a MilestoneDraft.
type TaskDraft struct {
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	DueDate        time.Time `json:"due_date"`
	Priority       Priority  `json:"priority"`
	EstimatedHours int       `json:"estimated_hours"`
	Suggestion     string    `json:"ai_suggestion"`
	Status         string    `json:"status"`

	Fallback bool `json:"-"`
}

// TaskCount returns the number of tasks across all milestones.
func (p *PlanDraft) TaskCount() int {
	n := 0
	for _, m := range p.Milestones {
		n += len(m.Tasks)
	}
	return n
}

// StageTiming records how long a run spent in one state.
type StageTiming struct {
	State    State
	Duration time.Duration
}

// Outcome is the result of a full generation run. A run either reaches
// StateAssembled with Plan set, or StateFailed with Error set.
type Outcome struct {
	RunID           string
	State           State
	Objective       string
	DesiredDuration string
	Plan            *PlanDraft
	Basic           *BasicPlan
	Error           string
	Stages          []StageTiming
}

// Failed reports whether the run ended in StateFailed.
func (o *Outcome) Failed() bool {
	return o.State == StateFailed
}

type failureJSON struct {
	Error           string     `json:"error"`
	UserObjective   string     `json:"user_objective"`
	DesiredDuration string     `json:"desired_plan_duration"`
	BasicPlan       *BasicPlan `json:"basic_plan,omitempty"`
}

// MarshalJSON renders the assembled plan on success and the error object
// otherwise. The error object never carries a milestones key.
func (o Outcome) MarshalJSON() ([]byte, error) {
	if o.State == StateAssembled && o.Plan != nil {
		return json.Marshal(o.Plan)
	}
	return json.Marshal(failureJSON{
		Error:           o.Error,
		UserObjective:   o.Objective,
		DesiredDuration: o.DesiredDuration,
		BasicPlan:       o.Basic,
	})
}
