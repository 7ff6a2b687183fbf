package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/actai/internal/cli/formatter"
	"github.com/alexanderramin/actai/internal/domain"
	"github.com/alexanderramin/actai/internal/service"
	"github.com/spf13/cobra"
)

func newCheckinCmd(app *App, user func() string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Record and review daily check-ins",
	}

	cmd.AddCommand(
		newCheckinAddCmd(app, user),
		newCheckinShowCmd(app, user),
		newCheckinListCmd(app, user),
		newCheckinEditCmd(app, user),
		newCheckinDeleteCmd(app, user),
		newCheckinStatsCmd(app, user),
		newCheckinTrendsCmd(app, user),
	)
	return cmd
}

// checkinFields are the editable check-in flags shared by add and edit.
type checkinFields struct {
	mood, notes, achievements, quote string
	score                            float64
}

func (f *checkinFields) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.mood, "mood", "m", "", "How the day felt, e.g. focused or tired")
	cmd.Flags().Float64VarP(&f.score, "score", "s", 0, "Productivity score from 0 to 10")
	cmd.Flags().StringVar(&f.notes, "notes", "", "Reflection notes")
	cmd.Flags().StringVar(&f.achievements, "achievements", "", "What you got done")
	cmd.Flags().StringVar(&f.quote, "quote", "", "A motivational quote to keep")
}

func (f *checkinFields) update(cmd *cobra.Command) service.CheckinUpdate {
	var u service.CheckinUpdate
	flags := cmd.Flags()
	if flags.Changed("mood") {
		u.Mood = &f.mood
	}
	if flags.Changed("score") {
		u.ProductivityScore = &f.score
	}
	if flags.Changed("notes") {
		u.ReflectionNotes = &f.notes
	}
	if flags.Changed("achievements") {
		u.AchievementsToday = &f.achievements
	}
	if flags.Changed("quote") {
		u.MotivationalQuote = &f.quote
	}
	return u
}

func (a *App) today() time.Time {
	y, m, d := a.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dateOr(t *time.Time, fallback time.Time) time.Time {
	if t != nil {
		return *t
	}
	return fallback
}

func newCheckinAddCmd(app *App, user func() string) *cobra.Command {
	var f checkinFields
	var date *time.Time

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a check-in (one per day)",
		RunE: func(cmd *cobra.Command, args []string) error {
			scored := cmd.Flags().Changed("score")
			if f.mood == "" {
				if app.Prompter == nil {
					return requireFlags(cmd, "mood")
				}
				in := CheckinInput{Mood: f.mood, Notes: f.notes, Achievements: f.achievements, Quote: f.quote}
				if scored {
					in.Score = strconv.FormatFloat(f.score, 'f', -1, 64)
				}
				if err := app.Prompter.Checkin(cmd.Context(), &in); err != nil {
					return err
				}
				f.mood, f.notes, f.achievements, f.quote = strings.TrimSpace(in.Mood), in.Notes, in.Achievements, in.Quote
				scored = in.Score != ""
				if scored {
					score, err := parseScore(in.Score)
					if err != nil {
						return err
					}
					f.score = score
				}
			}

			c := &domain.DailyCheckin{
				UserID:            user(),
				Mood:              f.mood,
				ReflectionNotes:   f.notes,
				AchievementsToday: f.achievements,
				MotivationalQuote: f.quote,
			}
			if date != nil {
				c.CheckinDate = *date
			}
			if scored {
				c.ProductivityScore = &f.score
			}
			if err := app.Checkins.Create(cmd.Context(), c); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCheckin(c))
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().Var(dateValue{&date}, "date", "Check-in date (default today)")
	return cmd
}

func newCheckinShowCmd(app *App, user func() string) *cobra.Command {
	var date *time.Time

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the check-in for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Checkins.GetByDate(cmd.Context(), user(), dateOr(date, app.today()))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCheckin(c))
			return nil
		},
	}

	cmd.Flags().Var(dateValue{&date}, "date", "Day to show (default today)")
	return cmd
}

func newCheckinListCmd(app *App, user func() string) *cobra.Command {
	var from, to *time.Time

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List check-ins in a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			checkins, err := app.Checkins.List(cmd.Context(), user(), from, to)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCheckinList(checkins))
			return nil
		},
	}

	cmd.Flags().Var(dateValue{&from}, "from", "First day, inclusive")
	cmd.Flags().Var(dateValue{&to}, "to", "Last day, inclusive")
	return cmd
}

func newCheckinEditCmd(app *App, user func() string) *cobra.Command {
	var f checkinFields
	var date *time.Time

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Change fields of an existing check-in",
		RunE: func(cmd *cobra.Command, args []string) error {
			u := f.update(cmd)
			if u == (service.CheckinUpdate{}) {
				return fmt.Errorf("nothing to update")
			}

			ctx := cmd.Context()
			existing, err := app.Checkins.GetByDate(ctx, user(), dateOr(date, app.today()))
			if err != nil {
				return err
			}
			c, err := app.Checkins.Update(ctx, user(), existing.ID, u)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCheckin(c))
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().Var(dateValue{&date}, "date", "Day to edit (default today)")
	return cmd
}

func newCheckinDeleteCmd(app *App, user func() string) *cobra.Command {
	var date *time.Time

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the check-in for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			day := dateOr(date, app.today())
			existing, err := app.Checkins.GetByDate(ctx, user(), day)
			if err != nil {
				return err
			}
			if err := app.Checkins.Delete(ctx, user(), existing.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted check-in for %s\n", day.Format(dateLayout))
			return nil
		},
	}

	cmd.Flags().Var(dateValue{&date}, "date", "Day to delete (default today)")
	return cmd
}

func newCheckinStatsCmd(app *App, user func() string) *cobra.Command {
	var from, to *time.Time
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Mood counts, average productivity and current streak",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := app.Checkins.Stats(cmd.Context(), user(), from, to)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), stats)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatMoodStats(stats))
			return nil
		},
	}

	cmd.Flags().Var(dateValue{&from}, "from", "First day, inclusive")
	cmd.Flags().Var(dateValue{&to}, "to", "Last day, inclusive")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print stats as JSON")
	return cmd
}

func newCheckinTrendsCmd(app *App, user func() string) *cobra.Command {
	var from, to *time.Time
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Productivity score per day (default last 30 days)",
		RunE: func(cmd *cobra.Command, args []string) error {
			end := dateOr(to, app.today())
			start := dateOr(from, end.AddDate(0, 0, -29))
			points, err := app.Checkins.Trends(cmd.Context(), user(), start, end)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), points)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTrends(points))
			return nil
		},
	}

	cmd.Flags().Var(dateValue{&from}, "from", "First day, inclusive")
	cmd.Flags().Var(dateValue{&to}, "to", "Last day, inclusive")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print points as JSON")
	return cmd
}
