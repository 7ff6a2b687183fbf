package planner

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/actai/internal/llm"
	"go.uber.org/zap"
)

// Stage labels attached to generation requests.
const (
	StageBasicPlan = "basic_plan"
	StageMilestone = "milestone_detail"
	StageTask      = "task_detail"
	StageInsights  = "milestone_insights"
)

var (
	// ErrNoDuration means the desired duration has no week count in it.
	ErrNoDuration = errors.New("desired plan duration contains no number of weeks")
	// ErrZeroDuration means the desired duration parsed to zero weeks.
	ErrZeroDuration = errors.New("desired plan duration must be at least one week")
	// ErrDurationTooLong means the week count exceeds MaxWeeks.
	ErrDurationTooLong = errors.New("desired plan duration is too long")
)

// MaxWeeks caps plan length at ten years.
const MaxWeeks = 520

// Config holds per-stage token budgets and sampling settings.
type Config struct {
	BasicMaxTokens     int     `yaml:"basic_max_tokens"`
	MilestoneMaxTokens int     `yaml:"milestone_max_tokens"`
	TaskMaxTokens      int     `yaml:"task_max_tokens"`
	InsightsMaxTokens  int     `yaml:"insights_max_tokens"`
	Temperature        float64 `yaml:"temperature"`

	// MaxConcurrency bounds in-flight calls per stage. Zero means unbounded.
	MaxConcurrency int `yaml:"max_concurrency"`
}

// DefaultConfig returns the standard budgets: 800/600/400 tokens at 0.7.
func DefaultConfig() Config {
	return Config{
		BasicMaxTokens:     800,
		MilestoneMaxTokens: 600,
		TaskMaxTokens:      400,
		InsightsMaxTokens:  400,
		Temperature:        0.7,
	}
}

// Service generates learning plans. Each Service owns its generator and
// carries no state between runs, so concurrent runs do not interfere.
type Service struct {
	gen    llm.TextGenerator
	cfg    Config
	parser *Parser
	logger *zap.Logger
	now    func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock sets the source of the plan start date.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a plan generation service.
func NewService(gen llm.TextGenerator, cfg Config, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		gen:    gen,
		cfg:    cfg,
		parser: NewParser(logger.Named("parser")),
		logger: logger.Named("planner"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseWeeks reads the week count from a free-form duration such as
// "4 weeks" or "about 6". The first run of digits wins.
func ParseWeeks(duration string) (int, error) {
	run := firstDigitRun(duration)
	if run == "" {
		return 0, fmt.Errorf("%w: %q", ErrNoDuration, duration)
	}
	n, err := strconv.Atoi(run)
	if err != nil || n > MaxWeeks {
		return 0, fmt.Errorf("%w: %q exceeds %d weeks", ErrDurationTooLong, duration, MaxWeeks)
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: %q", ErrZeroDuration, duration)
	}
	return n, nil
}

// BasicPlan runs stage 1 and returns the parsed outline.
func (s *Service) BasicPlan(ctx context.Context, objective, duration string) (BasicPlan, error) {
	text, err := s.gen.Generate(ctx, llm.GenerationRequest{
		Stage:       StageBasicPlan,
		Prompt:      BuildBasicPlanPrompt(objective, duration),
		MaxTokens:   s.cfg.BasicMaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return BasicPlan{}, fmt.Errorf("generating basic plan: %w", err)
	}
	return s.parser.ParseBasicPlan(text), nil
}

// ExpandMilestone runs stage 2 for one milestone of a plan.
func (s *Service) ExpandMilestone(ctx context.Context, planTitle, milestoneTitle string, allTitles []string, weeks int) (MilestoneDetail, error) {
	text, err := s.gen.Generate(ctx, llm.GenerationRequest{
		Stage:       StageMilestone,
		Prompt:      BuildMilestonePrompt(planTitle, milestoneTitle, allTitles, weeks),
		MaxTokens:   s.cfg.MilestoneMaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return MilestoneDetail{}, fmt.Errorf("expanding milestone %q: %w", milestoneTitle, err)
	}
	return s.parser.ParseMilestoneDetail(text, milestoneTitle), nil
}

// ExpandTask runs stage 3 for one task of a milestone.
func (s *Service) ExpandTask(ctx context.Context, milestoneTitle, taskTitle string, weeks int) (TaskDetail, error) {
	text, err := s.gen.Generate(ctx, llm.GenerationRequest{
		Stage:       StageTask,
		Prompt:      BuildTaskPrompt(milestoneTitle, taskTitle, weeks),
		MaxTokens:   s.cfg.TaskMaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return TaskDetail{}, fmt.Errorf("expanding task %q: %w", taskTitle, err)
	}
	return s.parser.ParseTaskDetail(text, taskTitle), nil
}

// MilestoneInsights asks for insights, challenges, resources and tips for a milestone.
func (s *Service) MilestoneInsights(ctx context.Context, objective, milestoneTitle, description string) (Insights, error) {
	text, err := s.gen.Generate(ctx, llm.GenerationRequest{
		Stage:       StageInsights,
		Prompt:      BuildInsightsPrompt(objective, milestoneTitle, description),
		MaxTokens:   s.cfg.InsightsMaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return Insights{}, fmt.Errorf("generating milestone insights: %w", err)
	}
	return s.parser.ParseInsights(text), nil
}
