package importer

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/actai/internal/domain"
	"github.com/alexanderramin/actai/internal/planner"
)

const defaultWeeksPerMilestone = 1

// Convert turns a validated ImportSchema into a plan draft ready for
// persistence. Missing dates are filled the way the generator fills them:
// the plan starts today, runs for its duration in weeks, and tasks without
// a due date are scheduled inside their milestone window.
// Call ValidateImportSchema first; Convert assumes the schema is valid.
func Convert(schema *ImportSchema, now time.Time) (*planner.PlanDraft, error) {
	start, err := parseDate("start_date", schema.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", schema.EndDate)
	if err != nil {
		return nil, err
	}

	if start == nil {
		y, m, d := now.UTC().Date()
		t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		start = &t
	}

	weeks := schema.DurationWeeks
	switch {
	case weeks > 0:
	case end != nil:
		weeks = int(math.Ceil(end.Sub(*start).Hours() / 24 / 7))
	default:
		weeks = len(schema.Milestones) * defaultWeeksPerMilestone
	}
	if end == nil {
		t := start.AddDate(0, 0, weeks*7)
		end = &t
	}

	draft := &planner.PlanDraft{
		Title:            strings.TrimSpace(schema.Title),
		Summary:          schema.Description,
		DurationWeeks:    weeks,
		WeeklyCommitment: schema.WeeklyCommitment,
		DifficultyLevel:  schema.DifficultyLevel,
		Prerequisites:    schema.Prerequisites,
		StartDate:        *start,
		EndDate:          *end,
	}

	milestones := orderedMilestones(schema.Milestones)
	total, done := 0, 0
	for mi, m := range milestones {
		md := planner.MilestoneDraft{
			Title:       strings.TrimSpace(m.Title),
			Description: m.Description,
			Order:       mi + 1,
		}
		for ti, t := range m.Tasks {
			td, err := convertTask(t, draft, mi, len(milestones), ti, len(m.Tasks))
			if err != nil {
				return nil, fmt.Errorf("milestone %q: %w", md.Title, err)
			}
			total++
			if td.Status == string(domain.TaskCompleted) {
				done++
			}
			md.Tasks = append(md.Tasks, td)
		}
		draft.Milestones = append(draft.Milestones, md)
	}
	if total > 0 {
		draft.ProgressPercentage = float64(done) / float64(total) * 100
	}
	return draft, nil
}

func convertTask(t TaskImport, plan *planner.PlanDraft, mi, mCount, ti, tCount int) (planner.TaskDraft, error) {
	priority := planner.PriorityMedium
	if p, ok := planner.ParsePriority(t.Priority); ok {
		priority = p
	}
	status := t.Status
	if status == "" {
		status = planner.TaskStatusPending
	}

	due, err := parseDate("due_date", t.DueDate)
	if err != nil {
		return planner.TaskDraft{}, err
	}
	if due == nil {
		d := planner.DueDate(plan.StartDate, plan.EndDate, mi, mCount, ti, tCount, priority)
		due = &d
	}

	return planner.TaskDraft{
		Title:          strings.TrimSpace(t.Title),
		Description:    t.Description,
		DueDate:        *due,
		Priority:       priority,
		EstimatedHours: t.EstimatedHours,
		Suggestion:     t.Suggestion,
		Status:         status,
	}, nil
}

// orderedMilestones sorts explicitly ordered milestones first, by order,
// followed by unordered ones in file order.
func orderedMilestones(in []MilestoneImport) []MilestoneImport {
	out := append([]MilestoneImport(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		oi, oj := out[i].Order, out[j].Order
		if oi == 0 || oj == 0 {
			return oi != 0 && oj == 0
		}
		return oi < oj
	})
	return out
}
