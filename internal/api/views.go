package api

import (
	"encoding/json"
	"time"

	"github.com/alexanderramin/actai/internal/domain"
	"github.com/alexanderramin/actai/internal/service"
)

type planView struct {
	ID                     string          `json:"id"`
	Title                  string          `json:"title"`
	Description            string          `json:"description"`
	Status                 string          `json:"status"`
	StartDate              time.Time       `json:"start_date"`
	EndDate                time.Time       `json:"end_date"`
	EstimatedDurationWeeks int             `json:"estimated_duration_weeks"`
	WeeklyCommitment       string          `json:"weekly_commitment_hours"`
	DifficultyLevel        string          `json:"difficulty_level"`
	Prerequisites          []string        `json:"prerequisites"`
	ProgressPercentage     float64         `json:"progress_percentage"`
	Overview               json.RawMessage `json:"ai_generated_plan_overview,omitempty"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

func newPlanView(p *domain.Plan, withOverview bool) planView {
	v := planView{
		ID:                     p.ID,
		Title:                  p.Title,
		Description:            p.Description,
		Status:                 string(p.Status),
		StartDate:              p.StartDate,
		EndDate:                p.EndDate,
		EstimatedDurationWeeks: p.EstimatedDurationWeeks,
		WeeklyCommitment:       p.WeeklyCommitment,
		DifficultyLevel:        p.DifficultyLevel,
		Prerequisites:          p.Prerequisites,
		ProgressPercentage:     p.ProgressPercentage,
		CreatedAt:              p.CreatedAt,
		UpdatedAt:              p.UpdatedAt,
	}
	if withOverview && json.Valid([]byte(p.Overview)) {
		v.Overview = json.RawMessage(p.Overview)
	}
	return v
}

type milestoneView struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Order       int        `json:"order"`
	Tasks       []taskView `json:"tasks"`
}

type taskView struct {
	ID             string     `json:"id"`
	PlanID         string     `json:"plan_id"`
	MilestoneID    string     `json:"milestone_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	DueDate        time.Time  `json:"due_date"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	EstimatedHours int        `json:"estimated_hours"`
	ActualHours    *float64   `json:"actual_hours"`
	AISuggestion   string     `json:"ai_suggestion"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

func newTaskView(t *domain.Task) taskView {
	return taskView{
		ID:             t.ID,
		PlanID:         t.PlanID,
		MilestoneID:    t.MilestoneID,
		Title:          t.Title,
		Description:    t.Description,
		DueDate:        t.DueDate,
		Status:         string(t.Status),
		Priority:       string(t.Priority),
		EstimatedHours: t.EstimatedHours,
		ActualHours:    t.ActualHours,
		AISuggestion:   t.AISuggestion,
		CompletedAt:    t.CompletedAt,
	}
}

func newTaskViews(tasks []*domain.Task) []taskView {
	out := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, newTaskView(t))
	}
	return out
}

type planDetailView struct {
	planView
	Milestones []milestoneView `json:"milestones"`
}

func newPlanDetailView(d *service.PlanDetail) planDetailView {
	byMilestone := make(map[string][]taskView, len(d.Milestones))
	for _, t := range d.Tasks {
		byMilestone[t.MilestoneID] = append(byMilestone[t.MilestoneID], newTaskView(t))
	}
	ms := make([]milestoneView, 0, len(d.Milestones))
	for _, m := range d.Milestones {
		tasks := byMilestone[m.ID]
		if tasks == nil {
			tasks = []taskView{}
		}
		ms = append(ms, milestoneView{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			Order:       m.Order,
			Tasks:       tasks,
		})
	}
	return planDetailView{planView: newPlanView(d.Plan, false), Milestones: ms}
}

type checkinView struct {
	ID                string    `json:"id"`
	CheckinDate       string    `json:"checkin_date"`
	Mood              string    `json:"mood"`
	ReflectionNotes   string    `json:"reflection_notes"`
	AchievementsToday string    `json:"achievements_today"`
	MotivationalQuote string    `json:"ai_motivational_quote,omitempty"`
	ProductivityScore *float64  `json:"productivity_score"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func newCheckinView(c *domain.DailyCheckin) checkinView {
	return checkinView{
		ID:                c.ID,
		CheckinDate:       c.CheckinDate.Format(dateLayout),
		Mood:              c.Mood,
		ReflectionNotes:   c.ReflectionNotes,
		AchievementsToday: c.AchievementsToday,
		MotivationalQuote: c.MotivationalQuote,
		ProductivityScore: c.ProductivityScore,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}
