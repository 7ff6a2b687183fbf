package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/actai/internal/auth"
	"github.com/alexanderramin/actai/internal/cli"
	"github.com/alexanderramin/actai/internal/config"
	"github.com/alexanderramin/actai/internal/db"
	"github.com/alexanderramin/actai/internal/llm"
	"github.com/alexanderramin/actai/internal/logging"
	"github.com/alexanderramin/actai/internal/planner"
	"github.com/alexanderramin/actai/internal/repository"
	"github.com/alexanderramin/actai/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// configPath pulls --config out of the arguments before cobra runs, since
// the services the commands use are built from it.
func configPath(args []string) string {
	fs := pflag.NewFlagSet("actai", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	path := fs.String("config", "", "")
	_ = fs.Parse(args)
	return *path
}

func run() error {
	cfg, err := config.Load(configPath(os.Args[1:]))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	store, err := db.Open(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	// Wire repositories over the pool; transactional work gets its own
	// tx-scoped repositories inside the unit of work.
	conn := store.Conn()
	planRepo := repository.NewSQLPlanRepo(conn)
	milestoneRepo := repository.NewSQLMilestoneRepo(conn)
	taskRepo := repository.NewSQLTaskRepo(conn)
	checkinRepo := repository.NewSQLCheckinRepo(conn)
	uow := db.NewUnitOfWork(store)

	ctx := context.Background()
	backend, err := llm.NewCompleter(ctx, cfg.LLM)
	if err != nil {
		return fmt.Errorf("creating LLM backend: %w", err)
	}
	gen := llm.NewGenerator(backend, cfg.LLM,
		llm.WithLogger(logger),
		llm.WithObserver(llm.NewLogObserver(logger)),
	)
	plannerSvc := planner.NewService(gen, cfg.Planner, logger)

	obs := service.NewLogUseCaseObserver(logger)

	var issuer *auth.Issuer
	if cfg.Auth.JWTSecret != "" {
		issuer = auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	}

	app := &cli.App{
		Planner:     plannerSvc,
		Plans:       service.NewPlanService(plannerSvc, planRepo, milestoneRepo, taskRepo, uow, obs),
		Tasks:       service.NewTaskService(taskRepo, planRepo, uow, obs),
		Checkins:    service.NewCheckinService(checkinRepo, nil, obs),
		Issuer:      issuer,
		Logger:      logger,
		Server:      cfg.Server,
		Interactive: isTerminal(os.Stderr),
	}
	if app.Interactive && isTerminal(os.Stdin) {
		app.Prompter = cli.FormPrompter{}
	}

	logger.Debug("actai_start",
		zap.String("db_driver", cfg.DB.Driver),
		zap.String("llm_provider", string(cfg.LLM.Provider)),
	)

	root := cli.NewRootCmd(app)
	return root.ExecuteContext(ctx)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
