package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/actai/internal/cli/formatter"
	"github.com/alexanderramin/actai/internal/domain"
	"github.com/alexanderramin/actai/internal/service"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App, user func() string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Track plan tasks",
	}

	cmd.AddCommand(
		newTaskListCmd(app, user),
		newTaskUpcomingCmd(app, user),
		newTaskUpdateCmd(app, user),
	)
	return cmd
}

func newTaskListCmd(app *App, user func() string) *cobra.Command {
	var planID, milestoneID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tasks of a plan or a milestone",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var (
				tasks []*domain.Task
				err   error
				title string
			)
			switch {
			case milestoneID != "":
				tasks, err = app.Tasks.ListByMilestone(ctx, user(), milestoneID)
				title = "Milestone tasks"
			case planID != "":
				var id string
				if id, err = resolvePlanID(ctx, app, user(), planID); err != nil {
					return err
				}
				tasks, err = app.Tasks.ListByPlan(ctx, user(), id)
				title = "Plan tasks"
			default:
				return fmt.Errorf("one of --plan or --milestone is required")
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTaskList(title, tasks, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&planID, "plan", "", "Plan ID or prefix")
	cmd.Flags().StringVar(&milestoneID, "milestone", "", "Milestone ID")
	cmd.MarkFlagsMutuallyExclusive("plan", "milestone")
	return cmd
}

func newTaskUpcomingCmd(app *App, user func() string) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List tasks due in the next few days",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := app.Tasks.Upcoming(cmd.Context(), user(), days)
			if err != nil {
				return err
			}
			title := fmt.Sprintf("Due in %d days", days)
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTaskList(title, tasks, app.now()))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "Look-ahead window in days")
	return cmd
}

func newTaskUpdateCmd(app *App, user func() string) *cobra.Command {
	var (
		status      domain.TaskStatus
		hours       float64
		description string
	)

	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Change a task's status, logged hours or description",
		Example: `  actai task update 6f1c... --status completed --hours 2.5
  actai task update 6f1c... --status in_progress`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u service.TaskUpdate
			flags := cmd.Flags()
			if flags.Changed("status") {
				u.Status = &status
			}
			if flags.Changed("hours") {
				u.ActualHours = &hours
			}
			if flags.Changed("description") {
				u.Description = &description
			}
			if u == (service.TaskUpdate{}) {
				return fmt.Errorf("nothing to update: pass --status, --hours or --description")
			}

			t, err := app.Tasks.Update(cmd.Context(), user(), strings.TrimSpace(args[0]), u)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", formatter.TaskStatusPill(t.Status), t.Title)
			return nil
		},
	}

	cmd.Flags().Var(taskStatusValue{&status}, "status", "pending, in_progress or completed")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Actual hours spent")
	cmd.Flags().StringVar(&description, "description", "", "Replace the task description")
	return cmd
}
