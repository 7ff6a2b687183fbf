package cli

import (
	"time"

	"github.com/alexanderramin/actai/internal/api"
	"github.com/alexanderramin/actai/internal/auth"
	"github.com/alexanderramin/actai/internal/config"
	"github.com/alexanderramin/actai/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// DefaultUser owns everything created from the command line unless --user is given.
const DefaultUser = "local"

// App holds the services and settings used by CLI commands.
type App struct {
	Planner  api.Planner
	Plans    service.PlanService
	Tasks    service.TaskService
	Checkins service.CheckinService
	Issuer   *auth.Issuer
	Logger   *zap.Logger
	Server   config.ServerConfig

	// Interactive enables the progress spinner while plans generate.
	Interactive bool
	// Prompter, when set, asks for required input missing from the flags.
	Prompter Prompter
	Now         func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// NewRootCmd creates the top-level "actai" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var user, configPath string

	root := &cobra.Command{
		Use:           "actai",
		Short:         "AI learning-plan generator and progress tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&user, "user", DefaultUser, "User ID that owns plans and check-ins")
	// Read by main before the command tree is built; declared here so cobra accepts it.
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (default $ACTAI_CONFIG)")

	u := func() string { return user }
	root.AddCommand(
		newServeCmd(app),
		newPlanCmd(app, u),
		newTaskCmd(app, u),
		newCheckinCmd(app, u),
		newTokenCmd(app, u),
	)

	return root
}
