package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/alexanderramin/actai/internal/domain"
	"github.com/alexanderramin/actai/internal/service"
)

type checkinRequest struct {
	CheckinDate       string   `json:"checkin_date"`
	Mood              string   `json:"mood"`
	ReflectionNotes   string   `json:"reflection_notes"`
	AchievementsToday string   `json:"achievements_today"`
	MotivationalQuote string   `json:"ai_motivational_quote"`
	ProductivityScore *float64 `json:"productivity_score"`
}

func (s *Server) createCheckin(w http.ResponseWriter, r *http.Request) {
	var req checkinRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c := &domain.DailyCheckin{
		UserID:            userID(r),
		Mood:              req.Mood,
		ReflectionNotes:   req.ReflectionNotes,
		AchievementsToday: req.AchievementsToday,
		MotivationalQuote: req.MotivationalQuote,
		ProductivityScore: req.ProductivityScore,
	}
	if req.CheckinDate != "" {
		d, err := time.Parse(dateLayout, req.CheckinDate)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "checkin_date must be YYYY-MM-DD")
			return
		}
		c.CheckinDate = d
	}
	if err := s.checkins.Create(r.Context(), c); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newCheckinView(c))
}

func rangeParams(r *http.Request) (from, to *time.Time, err error) {
	if from, err = dateParam(r, "from"); err != nil {
		return nil, nil, err
	}
	if to, err = dateParam(r, "to"); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

func (s *Server) listCheckins(w http.ResponseWriter, r *http.Request) {
	from, to, err := rangeParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	list, err := s.checkins.List(r.Context(), userID(r), from, to)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]checkinView, 0, len(list))
	for _, c := range list {
		out = append(out, newCheckinView(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getCheckin(w http.ResponseWriter, r *http.Request) {
	d, err := time.Parse(dateLayout, r.PathValue("date"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	c, err := s.checkins.GetByDate(r.Context(), userID(r), d)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCheckinView(c))
}

type checkinUpdateRequest struct {
	Mood              *string  `json:"mood"`
	ReflectionNotes   *string  `json:"reflection_notes"`
	AchievementsToday *string  `json:"achievements_today"`
	MotivationalQuote *string  `json:"ai_motivational_quote"`
	ProductivityScore *float64 `json:"productivity_score"`
}

func (s *Server) updateCheckin(w http.ResponseWriter, r *http.Request) {
	var req checkinUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := s.checkins.Update(r.Context(), userID(r), r.PathValue("id"), service.CheckinUpdate(req))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newCheckinView(c))
}

func (s *Server) deleteCheckin(w http.ResponseWriter, r *http.Request) {
	if err := s.checkins.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) checkinStats(w http.ResponseWriter, r *http.Request) {
	from, to, err := rangeParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	stats, err := s.checkins.Stats(r.Context(), userID(r), from, to)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type trendPoint struct {
	Date              string   `json:"date"`
	ProductivityScore *float64 `json:"productivity_score"`
}

// checkinTrends defaults to the 30 days ending today.
func (s *Server) checkinTrends(w http.ResponseWriter, r *http.Request) {
	from, to, err := rangeParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if to == nil {
		now := time.Now().UTC()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		to = &today
	}
	if from == nil {
		start := to.AddDate(0, 0, -29)
		from = &start
	}
	points, err := s.checkins.Trends(r.Context(), userID(r), *from, *to)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("productivity trends: %w", err))
		return
	}
	out := make([]trendPoint, 0, len(points))
	for _, p := range points {
		out = append(out, trendPoint{Date: p.Date.Format(dateLayout), ProductivityScore: p.ProductivityScore})
	}
	writeJSON(w, http.StatusOK, out)
}
