package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/actai/internal/domain"
	"github.com/alexanderramin/actai/internal/planner"
	"github.com/charmbracelet/lipgloss"
)

// FormatPlanList renders plans as a table inside a box.
func FormatPlanList(plans []*domain.Plan) string {
	if len(plans) == 0 {
		return RenderBox("Plans", Dim("No plans yet. Run `actai plan generate` to create one."))
	}

	headers := []string{"ID", "TITLE", "STATUS", "PROGRESS", "WEEKS", "ENDS"}
	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		rows = append(rows, []string{
			TruncID(p.ID),
			Bold(p.Title),
			PlanStatusPill(p.Status),
			RenderProgress(p.ProgressPercentage, 10),
			fmt.Sprintf("%d", p.EstimatedDurationWeeks),
			ShortDate(p.EndDate),
		})
	}
	return RenderBox("Plans", RenderTable(headers, rows))
}

// PlanDetailData is everything the plan view needs.
type PlanDetailData struct {
	Plan       *domain.Plan
	Milestones []*domain.Milestone
	Tasks      []*domain.Task
	Now        time.Time
}

// FormatPlanDetail renders a plan card: metadata on the left and the
// milestone tree on the right.
func FormatPlanDetail(d PlanDetailData) string {
	p := d.Plan

	var meta strings.Builder
	meta.WriteString(StyleBold.Render(p.Title) + "\n")
	if p.Description != "" {
		meta.WriteString(Dim(p.Description) + "\n")
	}
	meta.WriteString("\n")
	field := func(label, value string) {
		meta.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render(fmt.Sprintf("%-9s", label)), value))
	}
	field("STATUS", PlanStatusPill(p.Status))
	field("ID", TruncID(p.ID))
	field("PROGRESS", RenderProgress(p.ProgressPercentage, 12))
	field("DATES", StyleFg.Render(ShortDate(p.StartDate)+" → "+ShortDate(p.EndDate)))
	field("WEEKS", StyleFg.Render(fmt.Sprintf("%d", p.EstimatedDurationWeeks)))
	field("WEEKLY", orDash(p.WeeklyCommitment))
	field("LEVEL", orDash(p.DifficultyLevel))
	if len(p.Prerequisites) > 0 {
		field("NEEDS", StyleFg.Render(strings.Join(p.Prerequisites, ", ")))
	}
	left := lipgloss.NewStyle().Width(48).Render(meta.String())

	byMilestone := make(map[string][]*domain.Task, len(d.Milestones))
	for _, t := range d.Tasks {
		byMilestone[t.MilestoneID] = append(byMilestone[t.MilestoneID], t)
	}

	var items []TreeItem
	for i, m := range d.Milestones {
		tasks := byMilestone[m.ID]
		items = append(items, TreeItem{
			Title:  fmt.Sprintf("%d. %s", m.Order, m.Title),
			Level:  1,
			IsLast: i == len(d.Milestones)-1 && len(tasks) == 0,
			Detail: milestoneDetail(tasks),
		})
		for j, t := range tasks {
			items = append(items, TreeItem{
				Title:  t.Title,
				Level:  2,
				IsLast: j == len(tasks)-1,
				Status: t.Status,
				Detail: "DUE " + RelativeDateFrom(t.DueDate, d.Now),
			})
		}
	}

	right := Dim("No milestones")
	if len(items) > 0 {
		right = Header("Milestones") + "\n" + RenderTree(items)
	}

	return RenderBox("", lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right))
}

func milestoneDetail(tasks []*domain.Task) string {
	if len(tasks) == 0 {
		return ""
	}
	done := 0
	for _, t := range tasks {
		if t.Status == domain.TaskCompleted {
			done++
		}
	}
	return fmt.Sprintf("%d/%d", done, len(tasks))
}

// FormatOutcome renders the result of a generation run. Failed runs show
// the error and whatever stage-1 data was produced.
func FormatOutcome(out *planner.Outcome) string {
	if out.Failed() {
		var b strings.Builder
		b.WriteString(StyleRed.Render("✖ "+out.Error) + "\n\n")
		b.WriteString(fmt.Sprintf("%s  %s\n", Dim("OBJECTIVE"), out.Objective))
		b.WriteString(fmt.Sprintf("%s  %s\n", Dim("DURATION "), out.DesiredDuration))
		if out.Basic != nil && out.Basic.Title != "" {
			b.WriteString(fmt.Sprintf("%s  %s\n", Dim("DRAFT    "), out.Basic.Title))
		}
		return RenderBox("Generation failed", b.String())
	}

	p := out.Plan
	var b strings.Builder
	b.WriteString(StyleBold.Render(p.Title) + "\n")
	if p.Summary != "" {
		b.WriteString(Dim(p.Summary) + "\n")
	}
	b.WriteString(fmt.Sprintf("\n%s %d weeks · %s · %s h/week\n\n",
		Dim("▸"), p.DurationWeeks, orDash(p.DifficultyLevel), orDash(p.WeeklyCommitment)))

	var items []TreeItem
	for i, m := range p.Milestones {
		items = append(items, TreeItem{
			Title:  fmt.Sprintf("%d. %s", m.Order, m.Title),
			Level:  1,
			IsLast: i == len(p.Milestones)-1 && len(m.Tasks) == 0,
		})
		for j, t := range m.Tasks {
			items = append(items, TreeItem{
				Title:  t.Title,
				Level:  2,
				IsLast: j == len(m.Tasks)-1,
				Status: domain.TaskStatus(t.Status),
				Detail: fmt.Sprintf("%s · %dh · %s", t.Priority, t.EstimatedHours, t.DueDate.Format("Jan 2")),
			})
		}
	}
	b.WriteString(RenderTree(items))
	b.WriteString("\n" + Dim(fmt.Sprintf("%d milestones, %d tasks", len(p.Milestones), p.TaskCount())))
	return RenderBox("Generated plan", b.String())
}

// FormatTaskList renders tasks with status, priority and due date.
func FormatTaskList(title string, tasks []*domain.Task, now time.Time) string {
	if len(tasks) == 0 {
		return RenderBox(title, Dim("No tasks"))
	}

	headers := []string{"ID", "TASK", "STATUS", "PRIORITY", "EST", "DUE"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			TruncID(t.ID),
			t.Title,
			TaskStatusPill(t.Status),
			PriorityBadge(t.Priority),
			FormatHours(float64(t.EstimatedHours)),
			DueStyled(t, now),
		})
	}
	return RenderBox(title, RenderTable(headers, rows))
}
