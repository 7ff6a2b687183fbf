package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/actai/internal/domain"
	"github.com/alexanderramin/actai/internal/planner"
)

// ValidateImportSchema checks the schema before conversion and returns
// every problem found.
func ValidateImportSchema(schema *ImportSchema) []error {
	if schema.Error != "" {
		return []error{fmt.Errorf("file holds a failed generation run: %s", schema.Error)}
	}

	var errs []error
	if strings.TrimSpace(schema.Title) == "" {
		errs = append(errs, fmt.Errorf("title is required"))
	}
	switch {
	case schema.DurationWeeks < 0:
		errs = append(errs, fmt.Errorf("estimated_duration_weeks must not be negative"))
	case schema.DurationWeeks > planner.MaxWeeks:
		errs = append(errs, fmt.Errorf("estimated_duration_weeks must not exceed %d", planner.MaxWeeks))
	}

	start, startErr := parseDate("start_date", schema.StartDate)
	end, endErr := parseDate("end_date", schema.EndDate)
	errs = appendErr(errs, startErr)
	errs = appendErr(errs, endErr)
	if start != nil && end != nil && !end.After(*start) {
		errs = append(errs, fmt.Errorf("end_date %q must be after start_date %q", schema.EndDate, schema.StartDate))
	}

	if len(schema.Milestones) == 0 {
		errs = append(errs, fmt.Errorf("at least one milestone is required"))
	}
	orders := make(map[int]int)
	for i, m := range schema.Milestones {
		errs = append(errs, validateMilestone(i, &m, orders)...)
	}
	return errs
}

func validateMilestone(i int, m *MilestoneImport, orders map[int]int) []error {
	var errs []error
	prefix := fmt.Sprintf("milestones[%d]", i)

	if strings.TrimSpace(m.Title) == "" {
		errs = append(errs, fmt.Errorf("%s.title is required", prefix))
	}
	switch {
	case m.Order < 0:
		errs = append(errs, fmt.Errorf("%s.order must not be negative", prefix))
	case m.Order > 0:
		if prev, dup := orders[m.Order]; dup {
			errs = append(errs, fmt.Errorf("%s.order %d duplicates milestones[%d]", prefix, m.Order, prev))
		}
		orders[m.Order] = i
	}

	for j, t := range m.Tasks {
		tp := fmt.Sprintf("%s.tasks[%d]", prefix, j)
		if strings.TrimSpace(t.Title) == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", tp))
		}
		if t.Priority != "" {
			if _, ok := planner.ParsePriority(t.Priority); !ok {
				errs = append(errs, fmt.Errorf("%s.priority: invalid value %q", tp, t.Priority))
			}
		}
		if t.Status != "" && !domain.TaskStatus(t.Status).Valid() {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", tp, t.Status))
		}
		if t.EstimatedHours < 0 {
			errs = append(errs, fmt.Errorf("%s.estimated_hours must not be negative", tp))
		}
		_, err := parseDate(tp+".due_date", t.DueDate)
		errs = appendErr(errs, err)
	}
	return errs
}

// parseDate accepts RFC 3339 timestamps and bare YYYY-MM-DD dates. An empty
// value yields nil without error.
func parseDate(field, v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%s: invalid date %q (expected RFC 3339 or YYYY-MM-DD)", field, v)
}

func appendErr(errs []error, err error) []error {
	if err != nil {
		return append(errs, err)
	}
	return errs
}
