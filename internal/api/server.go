// Package api exposes plan generation, plans, tasks and check-ins over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/alexanderramin/actai/internal/auth"
	"github.com/alexanderramin/actai/internal/planner"
	"github.com/alexanderramin/actai/internal/service"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// Planner is the generation surface the API drives: the full pipeline plus
// each stage on its own.
type Planner interface {
	Generate(ctx context.Context, objective, duration string) (*planner.Outcome, error)
	BasicPlan(ctx context.Context, objective, duration string) (planner.BasicPlan, error)
	ExpandMilestone(ctx context.Context, planTitle, milestoneTitle string, allTitles []string, weeks int) (planner.MilestoneDetail, error)
	ExpandTask(ctx context.Context, milestoneTitle, taskTitle string, weeks int) (planner.TaskDetail, error)
	MilestoneInsights(ctx context.Context, objective, milestoneTitle, description string) (planner.Insights, error)
}

var _ Planner = (*planner.Service)(nil)

type Deps struct {
	Planner  Planner
	Plans    service.PlanService
	Tasks    service.TaskService
	Checkins service.CheckinService
	Issuer   *auth.Issuer
	Logger   *zap.Logger

	AllowedOrigins []string
	// GenerateTimeout bounds full-pipeline requests. Zero means no extra deadline.
	GenerateTimeout time.Duration
}

type Server struct {
	planner         Planner
	plans           service.PlanService
	tasks           service.TaskService
	checkins        service.CheckinService
	auth            auth.Middleware
	logger          *zap.Logger
	origins         []string
	generateTimeout time.Duration
}

func NewServer(d Deps) *Server {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		planner:         d.Planner,
		plans:           d.Plans,
		tasks:           d.Tasks,
		checkins:        d.Checkins,
		auth:            auth.NewMiddleware(d.Issuer),
		logger:          logger.Named("api"),
		origins:         d.AllowedOrigins,
		generateTimeout: d.GenerateTimeout,
	}
}

// Handler returns the routed, authenticated, CORS-enabled handler.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()

	api.HandleFunc("POST /api/llm/generate-plan", s.generatePlan)
	api.HandleFunc("POST /api/llm/generate-plan/step1", s.generateStep1)
	api.HandleFunc("POST /api/llm/generate-plan/step2", s.generateStep2)
	api.HandleFunc("POST /api/llm/generate-plan/step3", s.generateStep3)
	api.HandleFunc("POST /api/llm/generate-plan/insights", s.generateInsights)

	api.HandleFunc("POST /api/plans/generate", s.createPlan)
	api.HandleFunc("POST /api/plans/import", s.importPlan)
	api.HandleFunc("GET /api/plans", s.listPlans)
	api.HandleFunc("GET /api/plans/{id}", s.getPlan)
	api.HandleFunc("PATCH /api/plans/{id}", s.updatePlanStatus)
	api.HandleFunc("DELETE /api/plans/{id}", s.deletePlan)
	api.HandleFunc("GET /api/plans/{id}/tasks", s.listPlanTasks)
	api.HandleFunc("GET /api/milestones/{id}/tasks", s.listMilestoneTasks)

	api.HandleFunc("GET /api/tasks/upcoming", s.upcomingTasks)
	api.HandleFunc("PATCH /api/tasks/{id}", s.updateTask)

	api.HandleFunc("POST /api/checkins", s.createCheckin)
	api.HandleFunc("GET /api/checkins", s.listCheckins)
	api.HandleFunc("GET /api/checkins/stats", s.checkinStats)
	api.HandleFunc("GET /api/checkins/trends", s.checkinTrends)
	api.HandleFunc("GET /api/checkins/{date}", s.getCheckin)
	api.HandleFunc("PATCH /api/checkins/{id}", s.updateCheckin)
	api.HandleFunc("DELETE /api/checkins/{id}", s.deleteCheckin)

	root := http.NewServeMux()
	root.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	root.Handle("/api/", s.auth.Wrap(api))

	origins := s.origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler(root)
}
