package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/alexanderramin/actai/internal/planner"
	"github.com/alexanderramin/actai/internal/service"
)

type generatePlanRequest struct {
	UserObjective       string `json:"user_objective"`
	DesiredPlanDuration string `json:"desired_plan_duration"`
}

func (r generatePlanRequest) validate() error {
	if r.UserObjective == "" || r.DesiredPlanDuration == "" {
		return fmt.Errorf("%w: user_objective and desired_plan_duration are required", service.ErrValidation)
	}
	return nil
}

func (s *Server) generationContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.generateTimeout > 0 {
		return context.WithTimeout(r.Context(), s.generateTimeout)
	}
	return context.WithCancel(r.Context())
}

// generatePlan runs the full pipeline. A structurally failed run answers 422
// with the error object.
func (s *Server) generatePlan(w http.ResponseWriter, r *http.Request) {
	var req generatePlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx, cancel := s.generationContext(r)
	defer cancel()
	out, err := s.planner.Generate(ctx, req.UserObjective, req.DesiredPlanDuration)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if out.Failed() {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, out)
}

func (s *Server) generateStep1(w http.ResponseWriter, r *http.Request) {
	var req generatePlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := planner.ParseWeeks(req.DesiredPlanDuration); err != nil {
		s.writeError(w, r, err)
		return
	}
	basic, err := s.planner.BasicPlan(r.Context(), req.UserObjective, req.DesiredPlanDuration)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, basic)
}

type milestoneStepRequest struct {
	PlanTitle          string   `json:"plan_title"`
	MilestoneTitle     string   `json:"milestone_title"`
	AllMilestoneTitles []string `json:"all_milestone_titles"`
	DurationWeeks      int      `json:"duration_weeks"`
}

func (s *Server) generateStep2(w http.ResponseWriter, r *http.Request) {
	var req milestoneStepRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.MilestoneTitle == "" || req.DurationWeeks <= 0 {
		writeMessage(w, http.StatusBadRequest, "milestone_title and a positive duration_weeks are required")
		return
	}
	titles := req.AllMilestoneTitles
	if len(titles) == 0 {
		titles = []string{req.MilestoneTitle}
	}
	detail, err := s.planner.ExpandMilestone(r.Context(), req.PlanTitle, req.MilestoneTitle, titles, req.DurationWeeks)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

type taskStepRequest struct {
	MilestoneTitle string `json:"milestone_title"`
	TaskTitle      string `json:"task_title"`
	DurationWeeks  int    `json:"duration_weeks"`
}

func (s *Server) generateStep3(w http.ResponseWriter, r *http.Request) {
	var req taskStepRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.TaskTitle == "" || req.DurationWeeks <= 0 {
		writeMessage(w, http.StatusBadRequest, "task_title and a positive duration_weeks are required")
		return
	}
	detail, err := s.planner.ExpandTask(r.Context(), req.MilestoneTitle, req.TaskTitle, req.DurationWeeks)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

type insightsRequest struct {
	UserObjective        string `json:"user_objective"`
	MilestoneTitle       string `json:"milestone_title"`
	MilestoneDescription string `json:"milestone_description"`
}

func (s *Server) generateInsights(w http.ResponseWriter, r *http.Request) {
	var req insightsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.MilestoneTitle == "" {
		writeMessage(w, http.StatusBadRequest, "milestone_title is required")
		return
	}
	ins, err := s.planner.MilestoneInsights(r.Context(), req.UserObjective, req.MilestoneTitle, req.MilestoneDescription)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ins)
}
