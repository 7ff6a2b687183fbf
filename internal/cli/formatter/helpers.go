package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/actai/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDateFrom returns a short relative date such as "In 3d" or "2w ago".
func RelativeDateFrom(t time.Time, now time.Time) string {
	days := int(math.Round(t.Sub(now).Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// DueStyled renders a task due date relative to now. Overdue and imminent
// dates are red, dates within a week yellow. Completed tasks are dimmed.
func DueStyled(t *domain.Task, now time.Time) string {
	text := RelativeDateFrom(t.DueDate, now)
	if t.Status == domain.TaskCompleted {
		return Dim(text)
	}
	days := t.DueDate.Sub(now).Hours() / 24
	switch {
	case t.IsOverdue(now), days <= 2:
		return StyleRed.Render(text)
	case days <= 7:
		return StyleYellow.Render(text)
	default:
		return StyleFg.Render(text)
	}
}

// ShortDate formats a date as "Mar 10, 2025".
func ShortDate(t time.Time) string {
	if t.IsZero() {
		return "--"
	}
	return t.Format("Jan 2, 2006")
}

// PlanStatusPill returns a colored indicator for a plan status.
func PlanStatusPill(status domain.PlanStatus) string {
	switch status {
	case domain.PlanActive:
		return StyleGreen.Render("● Active")
	case domain.PlanPaused:
		return StyleYellow.Render("○ Paused")
	case domain.PlanCompleted:
		return StyleDim.Render("✔ Completed")
	case domain.PlanArchived:
		return StyleDim.Render("✖ Archived")
	default:
		return StyleDim.Render(string(status))
	}
}

// TaskStatusPill returns a colored indicator for a task status.
func TaskStatusPill(status domain.TaskStatus) string {
	switch status {
	case domain.TaskPending:
		return StyleBlue.Render("○ Pending")
	case domain.TaskInProgress:
		return StyleGreen.Render("● In Progress")
	case domain.TaskCompleted:
		return StyleDim.Render("✔ Completed")
	default:
		return StyleDim.Render(string(status))
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// FormatHours renders an hour count as "3h" or "1.5h".
func FormatHours(h float64) string {
	if h <= 0 {
		return "0h"
	}
	if h == math.Trunc(h) {
		return fmt.Sprintf("%dh", int(h))
	}
	return fmt.Sprintf("%.1fh", h)
}

// FormatScore renders an optional productivity score out of 10.
func FormatScore(score *float64) string {
	if score == nil {
		return Dim("--")
	}
	s := fmt.Sprintf("%.1f/10", *score)
	switch {
	case *score >= 7:
		return StyleGreen.Render(s)
	case *score >= 4:
		return StyleYellow.Render(s)
	default:
		return StyleRed.Render(s)
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return Dim("--")
	}
	return s
}
