package planner

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Defaults applied when a response omits or garbles a field.
const (
	DefaultPlanTitle         = "Learning Plan"
	DefaultPlanSummary       = "A comprehensive learning plan"
	DefaultDurationWeeks     = 4
	DefaultWeeklyCommitment  = "5-8 hours"
	DefaultDifficultyLevel   = "Intermediate"
	DefaultMilestoneDesc     = "Milestone description not provided"
	DefaultTaskDescription   = "Task description not provided"
	DefaultTaskPriority      = PriorityMedium
	DefaultTaskHours         = 2
	DefaultTaskSuggestion    = "Complete this task step by step"
	endMarker                = "end"
	bulletPrefix             = "- "
	sectionPrerequisites     = "prerequisites"
	sectionMilestones        = "milestones"
	sectionTasks             = "tasks"
	sectionInsights          = "insights"
	sectionInsightChallenges = "challenges"
	sectionInsightResources  = "resources"
	sectionInsightTips       = "tips"
)

// noPrerequisites are bullet values meaning "nothing required".
var noPrerequisites = map[string]bool{
	"none":             true,
	"no prerequisites": true,
	"нет":              true,
}

// Parser turns free-form model output into typed records. It never fails:
// missing or malformed fields keep their defaults and are logged as warnings.
type Parser struct {
	logger *zap.Logger
}

// NewParser creates a Parser. A nil logger discards warnings.
func NewParser(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{logger: logger}
}

// line is one non-blank, trimmed response line.
type line struct {
	text  string
	lower string
}

// label returns the value after "name:" when the line carries that label.
func (l line) label(name string) (string, bool) {
	if !strings.HasPrefix(l.lower, name+":") {
		return "", false
	}
	return strings.TrimSpace(l.text[len(name)+1:]), true
}

// bullet returns the item of a "- item" line.
func (l line) bullet() (string, bool) {
	if !strings.HasPrefix(l.text, bulletPrefix) {
		return "", false
	}
	return strings.TrimSpace(l.text[len(bulletPrefix):]), true
}

// lines yields the trimmed, non-blank lines before the END marker.
func lines(text string) []line {
	var out []line
	for _, raw := range strings.Split(text, "\n") {
		t := strings.TrimSpace(raw)
		if t == "" {
			continue
		}
		lower := strings.ToLower(t)
		if lower == endMarker {
			break
		}
		out = append(out, line{text: t, lower: lower})
	}
	return out
}

// firstNumber extracts the first run of ASCII digits in s.
func firstNumber(s string) (int, bool) {
	run := firstDigitRun(s)
	if run == "" {
		return 0, false
	}
	n, err := strconv.Atoi(run)
	if err != nil {
		return 0, false
	}
	return n, true
}

func firstDigitRun(s string) string {
	start := strings.IndexFunc(s, isDigit)
	if start < 0 {
		return ""
	}
	end := start
	for end < len(s) && isDigit(rune(s[end])) {
		end++
	}
	return s[start:end]
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func setIfPresent(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// ParseBasicPlan parses a stage-1 response.
func (p *Parser) ParseBasicPlan(text string) BasicPlan {
	plan := BasicPlan{
		Title:            DefaultPlanTitle,
		Summary:          DefaultPlanSummary,
		DurationWeeks:    DefaultDurationWeeks,
		WeeklyCommitment: DefaultWeeklyCommitment,
		DifficultyLevel:  DefaultDifficultyLevel,
		Prerequisites:    []string{},
		MilestoneTitles:  []string{},
	}

	section := ""
	for _, l := range lines(text) {
		if v, ok := l.label("title"); ok {
			setIfPresent(&plan.Title, v)
			section = ""
		} else if v, ok := l.label("summary"); ok {
			setIfPresent(&plan.Summary, v)
			section = ""
		} else if v, ok := l.label("duration"); ok {
			if n, ok := firstNumber(v); ok {
				plan.DurationWeeks = n
			} else {
				p.logger.Warn("unparseable plan duration, keeping default",
					zap.String("value", v),
					zap.Int("default", DefaultDurationWeeks),
				)
			}
			section = ""
		} else if v, ok := l.label("weekly"); ok {
			setIfPresent(&plan.WeeklyCommitment, v)
			section = ""
		} else if v, ok := l.label("level"); ok {
			setIfPresent(&plan.DifficultyLevel, v)
			section = ""
		} else if _, ok := l.label(sectionPrerequisites); ok {
			section = sectionPrerequisites
		} else if _, ok := l.label(sectionMilestones); ok {
			section = sectionMilestones
		} else if item, ok := l.bullet(); ok && item != "" {
			switch section {
			case sectionPrerequisites:
				if !noPrerequisites[strings.ToLower(item)] {
					plan.Prerequisites = append(plan.Prerequisites, item)
				}
			case sectionMilestones:
				plan.MilestoneTitles = append(plan.MilestoneTitles, item)
			}
		}
	}
	return plan
}

// ParseMilestoneDetail parses a stage-2 response for milestone title.
func (p *Parser) ParseMilestoneDetail(text, title string) MilestoneDetail {
	detail := MilestoneDetail{
		Title:       title,
		Description: DefaultMilestoneDesc,
		TaskTitles:  []string{},
	}

	section := ""
	for _, l := range lines(text) {
		if v, ok := l.label("description"); ok {
			setIfPresent(&detail.Description, v)
			section = ""
		} else if _, ok := l.label(sectionTasks); ok {
			section = sectionTasks
		} else if item, ok := l.bullet(); ok && item != "" && section == sectionTasks {
			detail.TaskTitles = append(detail.TaskTitles, item)
		}
	}
	return detail
}

// ParseTaskDetail parses a stage-3 response for task title.
func (p *Parser) ParseTaskDetail(text, title string) TaskDetail {
	detail := TaskDetail{
		Title:          title,
		Description:    DefaultTaskDescription,
		Priority:       DefaultTaskPriority,
		EstimatedHours: DefaultTaskHours,
		Suggestion:     DefaultTaskSuggestion,
	}

	for _, l := range lines(text) {
		if v, ok := l.label("description"); ok {
			setIfPresent(&detail.Description, v)
		} else if v, ok := l.label("priority"); ok {
			if prio, ok := ParsePriority(v); ok {
				detail.Priority = prio
			} else {
				p.logger.Warn("unknown task priority, keeping default",
					zap.String("task", title),
					zap.String("value", v),
				)
			}
		} else if v, ok := l.label("hours"); ok {
			if n, ok := firstNumber(v); ok {
				detail.EstimatedHours = n
			} else {
				p.logger.Warn("unparseable task hours, keeping default",
					zap.String("task", title),
					zap.String("value", v),
					zap.Int("default", DefaultTaskHours),
				)
			}
		} else if v, ok := l.label("tip"); ok {
			setIfPresent(&detail.Suggestion, v)
		}
	}
	return detail
}

// ParseInsights parses the bulleted sections of a milestone-insights response.
func (p *Parser) ParseInsights(text string) Insights {
	out := Insights{
		Insights:   []string{},
		Challenges: []string{},
		Resources:  []string{},
		Tips:       []string{},
	}

	var current *[]string
	for _, l := range lines(text) {
		switch {
		case strings.HasPrefix(l.lower, sectionInsights+":"):
			current = &out.Insights
		case strings.HasPrefix(l.lower, sectionInsightChallenges+":"):
			current = &out.Challenges
		case strings.HasPrefix(l.lower, sectionInsightResources+":"):
			current = &out.Resources
		case strings.HasPrefix(l.lower, sectionInsightTips+":"):
			current = &out.Tips
		default:
			if item, ok := l.bullet(); ok && item != "" && current != nil {
				*current = append(*current, item)
			}
		}
	}
	return out
}
