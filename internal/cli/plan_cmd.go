package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/actai/internal/cli/formatter"
	"github.com/alexanderramin/actai/internal/domain"
	"github.com/alexanderramin/actai/internal/importer"
	"github.com/alexanderramin/actai/internal/planner"
	"github.com/alexanderramin/actai/internal/service"
	"github.com/spf13/cobra"
)

// resolvePlanID accepts a full plan ID or an unambiguous prefix of one.
func resolvePlanID(ctx context.Context, app *App, userID, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("plan ID is required")
	}

	plans, err := app.Plans.List(ctx, userID, "")
	if err != nil {
		return "", err
	}

	var matches []string
	for _, p := range plans {
		if p.ID == input {
			return p.ID, nil
		}
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("plan not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("plan ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

func newPlanCmd(app *App, user func() string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate and manage learning plans",
	}

	cmd.AddCommand(
		newPlanGenerateCmd(app, user),
		newPlanListCmd(app, user),
		newPlanShowCmd(app, user),
		newPlanStatusCmd(app, user),
		newPlanDeleteCmd(app, user),
		newPlanImportCmd(app, user),
	)
	return cmd
}

func newPlanGenerateCmd(app *App, user func() string) *cobra.Command {
	var objective, duration string
	var dryRun, asJSON bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a plan from an objective and a duration",
		Example: `  actai plan generate --objective "Learn Go" --duration "8 weeks"
  actai plan generate -o "Run a 10k" -d "3 months" --dry-run --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if objective == "" || duration == "" {
				if app.Prompter == nil {
					return requireFlags(cmd, "objective", "duration")
				}
				in := PlanRequestInput{Objective: objective, Duration: duration}
				if err := app.Prompter.PlanRequest(ctx, &in); err != nil {
					return err
				}
				objective, duration = strings.TrimSpace(in.Objective), strings.TrimSpace(in.Duration)
			}

			stop := func() {}
			if app.Interactive && !asJSON {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Generating plan…")
			}
			defer stop()

			var (
				out     *planner.Outcome
				created *domain.Plan
				err     error
			)
			if dryRun {
				out, err = app.Planner.Generate(ctx, objective, duration)
			} else {
				var res *service.GeneratedPlan
				res, err = app.Plans.GenerateAndCreate(ctx, user(), objective, duration)
				if res != nil {
					out, created = res.Outcome, res.Plan
				}
				if errors.Is(err, service.ErrGenerationFailed) {
					err = nil
				}
			}
			stop()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				if err := writeJSON(w, out); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(w, formatter.FormatOutcome(out))
				if created != nil {
					fmt.Fprintf(w, "Saved plan %s\n", created.ID)
				}
			}
			if out.Failed() {
				return fmt.Errorf("plan generation failed: %s", out.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&objective, "objective", "o", "", "What you want to learn or achieve")
	cmd.Flags().StringVarP(&duration, "duration", "d", "", `Time frame, e.g. "6 weeks" or "2 months"`)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Generate without saving")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the plan as JSON")
	return cmd
}

func newPlanListCmd(app *App, user func() string) *cobra.Command {
	var status domain.PlanStatus

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List plans, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := app.Plans.List(cmd.Context(), user(), status)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPlanList(plans))
			return nil
		},
	}

	cmd.Flags().Var(planStatusValue{&status}, "status", "Only show plans with this status")
	return cmd
}

func newPlanShowCmd(app *App, user func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <plan-id>",
		Short: "Show a plan with its milestones and tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolvePlanID(ctx, app, user(), args[0])
			if err != nil {
				return err
			}
			detail, err := app.Plans.Get(ctx, user(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPlanDetail(formatter.PlanDetailData{
				Plan:       detail.Plan,
				Milestones: detail.Milestones,
				Tasks:      detail.Tasks,
				Now:        app.now(),
			}))
			return nil
		},
	}
}

func newPlanStatusCmd(app *App, user func() string) *cobra.Command {
	return &cobra.Command{
		Use:       "status <plan-id> <active|paused|completed|archived>",
		Short:     "Change a plan's status",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"active", "paused", "completed", "archived"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var status domain.PlanStatus
			if err := (planStatusValue{&status}).Set(args[1]); err != nil {
				return fmt.Errorf("invalid status %q: %w", args[1], err)
			}

			ctx := cmd.Context()
			id, err := resolvePlanID(ctx, app, user(), args[0])
			if err != nil {
				return err
			}
			p, err := app.Plans.UpdateStatus(ctx, user(), id, status)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", p.Title, p.Status)
			return nil
		},
	}
}

func newPlanDeleteCmd(app *App, user func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <plan-id>",
		Short: "Delete a plan with its milestones and tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolvePlanID(ctx, app, user(), args[0])
			if err != nil {
				return err
			}
			if err := app.Plans.Delete(ctx, user(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted plan %s\n", id)
			return nil
		},
	}
}

func newPlanImportCmd(app *App, user func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Save a plan from a JSON file (e.g. output of generate --dry-run --json)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := importer.LoadImportSchema(args[0])
			if err != nil {
				return err
			}
			if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
				var b strings.Builder
				for _, e := range errs {
					b.WriteString("\n  - " + e.Error())
				}
				return fmt.Errorf("%s is not a valid plan:%s", args[0], b.String())
			}

			draft, err := importer.Convert(schema, app.now())
			if err != nil {
				return err
			}
			p, err := app.Plans.Import(cmd.Context(), user(), draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported plan %s (%d milestones, %d tasks) as %s\n",
				p.Title, len(draft.Milestones), draft.TaskCount(), p.ID)
			return nil
		},
	}
}
