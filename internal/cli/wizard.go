package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/actai/internal/cli/formatter"
	"github.com/alexanderramin/actai/internal/planner"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Prompter asks for command input that was not given as flags.
type Prompter interface {
	PlanRequest(ctx context.Context, in *PlanRequestInput) error
	Checkin(ctx context.Context, in *CheckinInput) error
}

// PlanRequestInput holds the answers for plan generate.
type PlanRequestInput struct {
	Objective string
	Duration  string
}

// CheckinInput holds the answers for checkin add. Score stays a string
// so an empty answer means "not scored".
type CheckinInput struct {
	Mood         string
	Score        string
	Notes        string
	Achievements string
	Quote        string
}

// FormPrompter runs huh forms on the terminal.
type FormPrompter struct{}

func (FormPrompter) PlanRequest(ctx context.Context, in *PlanRequestInput) error {
	return runForm(ctx, planRequestForm(in))
}

func (FormPrompter) Checkin(ctx context.Context, in *CheckinInput) error {
	return runForm(ctx, checkinForm(in))
}

func runForm(ctx context.Context, form *huh.Form) error {
	err := form.RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return errors.New("cancelled")
	}
	return err
}

func actaiHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func planRequestForm(in *PlanRequestInput) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Objective").
				Description("What do you want to learn or achieve?").
				Placeholder("Learn Go").
				Value(&in.Objective).
				Validate(validateRequired("objective")),
			huh.NewInput().
				Title("Duration").
				Placeholder("8 weeks").
				Value(&in.Duration).
				Validate(validateDuration),
		),
	).WithTheme(actaiHuhTheme()).WithShowHelp(false)
}

func checkinForm(in *CheckinInput) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Mood").
				Placeholder("focused").
				Value(&in.Mood).
				Validate(validateRequired("mood")),
			huh.NewInput().
				Title("Productivity (0-10, blank to skip)").
				Value(&in.Score).
				Validate(validateScore),
		),
		huh.NewGroup(
			huh.NewText().
				Title("Achievements").
				Value(&in.Achievements),
			huh.NewText().
				Title("Reflection").
				Value(&in.Notes),
			huh.NewInput().
				Title("Quote").
				Value(&in.Quote),
		),
	).WithTheme(actaiHuhTheme()).WithShowHelp(false)
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateDuration(s string) error {
	_, err := planner.ParseWeeks(s)
	return err
}

// validateScore accepts empty or a number in [0, 10].
func validateScore(s string) error {
	if s == "" {
		return nil
	}
	_, err := parseScore(s)
	return err
}

func parseScore(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 || v > 10 {
		return 0, fmt.Errorf("enter a number from 0 to 10")
	}
	return v, nil
}
