package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/alexanderramin/actai/internal/domain"
	"github.com/alexanderramin/actai/internal/importer"
	"github.com/alexanderramin/actai/internal/service"
)

// createPlan generates a plan and persists it for the caller.
func (s *Server) createPlan(w http.ResponseWriter, r *http.Request) {
	var req generatePlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := s.generationContext(r)
	defer cancel()
	res, err := s.plans.GenerateAndCreate(ctx, userID(r), req.UserObjective, req.DesiredPlanDuration)
	if errors.Is(err, service.ErrGenerationFailed) && res != nil {
		writeJSON(w, http.StatusUnprocessableEntity, res.Outcome)
		return
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newPlanView(res.Plan, true))
}

// importPlan persists a plan document in the generator's JSON shape
// without calling the model.
func (s *Server) importPlan(w http.ResponseWriter, r *http.Request) {
	var schema importer.ImportSchema
	if !decodeJSON(w, r, &schema) {
		return
	}
	if errs := importer.ValidateImportSchema(&schema); len(errs) > 0 {
		details := make([]string, len(errs))
		for i, e := range errs {
			details[i] = e.Error()
		}
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid plan", "details": details})
		return
	}
	draft, err := importer.Convert(&schema, time.Now())
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	plan, err := s.plans.Import(r.Context(), userID(r), draft)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newPlanView(plan, true))
}

func (s *Server) listPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.plans.List(r.Context(), userID(r), domain.PlanStatus(r.URL.Query().Get("status")))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]planView, 0, len(plans))
	for _, p := range plans {
		out = append(out, newPlanView(p, false))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getPlan(w http.ResponseWriter, r *http.Request) {
	detail, err := s.plans.Get(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPlanDetailView(detail))
}

func (s *Server) updatePlanStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	plan, err := s.plans.UpdateStatus(r.Context(), userID(r), r.PathValue("id"), domain.PlanStatus(req.Status))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newPlanView(plan, false))
}

func (s *Server) deletePlan(w http.ResponseWriter, r *http.Request) {
	if err := s.plans.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listPlanTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.ListByPlan(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTaskViews(tasks))
}

func (s *Server) listMilestoneTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.ListByMilestone(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTaskViews(tasks))
}

func (s *Server) upcomingTasks(w http.ResponseWriter, r *http.Request) {
	days, err := intParam(r, "days", 7)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tasks, err := s.tasks.Upcoming(r.Context(), userID(r), days)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTaskViews(tasks))
}

type taskUpdateRequest struct {
	Status      *string  `json:"status"`
	ActualHours *float64 `json:"actual_hours"`
	Description *string  `json:"description"`
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	var req taskUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	u := service.TaskUpdate{ActualHours: req.ActualHours, Description: req.Description}
	if req.Status != nil {
		st := domain.TaskStatus(*req.Status)
		u.Status = &st
	}
	task, err := s.tasks.Update(r.Context(), userID(r), r.PathValue("id"), u)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newTaskView(task))
}
