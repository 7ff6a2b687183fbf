package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/actai/internal/domain"
	"github.com/alexanderramin/actai/internal/repository"
	"github.com/google/uuid"
)

type checkinService struct {
	checkins repository.CheckinRepo
	now      func() time.Time
	observer UseCaseObserver
}

// NewCheckinService creates a CheckinService. now defaults to time.Now and
// decides "today" for streaks and default check-in dates.
func NewCheckinService(checkins repository.CheckinRepo, now func() time.Time, observers ...UseCaseObserver) CheckinService {
	if now == nil {
		now = time.Now
	}
	return &checkinService{checkins: checkins, now: now, observer: useCaseObserverOrNoop(observers)}
}

func (s *checkinService) today() time.Time {
	return dateOnly(s.now())
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *checkinService) Create(ctx context.Context, c *domain.DailyCheckin) error {
	if err := domain.ValidateProductivityScore(c.ProductivityScore); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	c.Mood = strings.TrimSpace(c.Mood)
	if c.Mood == "" {
		return fmt.Errorf("%w: mood is required", ErrValidation)
	}
	if c.CheckinDate.IsZero() {
		c.CheckinDate = s.today()
	} else {
		c.CheckinDate = dateOnly(c.CheckinDate)
	}

	return observe(ctx, s.observer, "checkin.create", map[string]any{"date": c.CheckinDate.Format("2006-01-02")}, func() error {
		_, err := s.checkins.GetByDate(ctx, c.UserID, c.CheckinDate)
		switch {
		case err == nil:
			return fmt.Errorf("%w: check-in already exists for %s", ErrConflict, c.CheckinDate.Format("2006-01-02"))
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}

		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		now := time.Now().UTC()
		c.CreatedAt = now
		c.UpdatedAt = now
		return s.checkins.Create(ctx, c)
	})
}

func (s *checkinService) GetByDate(ctx context.Context, userID string, date time.Time) (*domain.DailyCheckin, error) {
	return s.checkins.GetByDate(ctx, userID, dateOnly(date))
}

func (s *checkinService) List(ctx context.Context, userID string, from, to *time.Time) ([]*domain.DailyCheckin, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, fmt.Errorf("%w: range end is before start", ErrValidation)
	}
	return s.checkins.List(ctx, userID, from, to)
}

func (s *checkinService) owned(ctx context.Context, userID, id string) (*domain.DailyCheckin, error) {
	c, err := s.checkins.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, fmt.Errorf("checkin %s: %w", id, repository.ErrNotFound)
	}
	return c, nil
}

func (s *checkinService) Update(ctx context.Context, userID, id string, u CheckinUpdate) (*domain.DailyCheckin, error) {
	if err := domain.ValidateProductivityScore(u.ProductivityScore); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	c, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if u.Mood != nil {
		c.Mood = strings.TrimSpace(*u.Mood)
		if c.Mood == "" {
			return nil, fmt.Errorf("%w: mood must not be empty", ErrValidation)
		}
	}
	if u.ReflectionNotes != nil {
		c.ReflectionNotes = *u.ReflectionNotes
	}
	if u.AchievementsToday != nil {
		c.AchievementsToday = *u.AchievementsToday
	}
	if u.MotivationalQuote != nil {
		c.MotivationalQuote = *u.MotivationalQuote
	}
	if u.ProductivityScore != nil {
		score := *u.ProductivityScore
		c.ProductivityScore = &score
	}
	c.UpdatedAt = time.Now().UTC()
	if err := s.checkins.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *checkinService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.checkins.Delete(ctx, id)
}

// Stats counts moods and averages scored check-ins in the range. The
// streak counts consecutive days ending today, or yesterday when today has
// no check-in yet.
func (s *checkinService) Stats(ctx context.Context, userID string, from, to *time.Time) (*domain.MoodStats, error) {
	checkins, err := s.List(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	stats := &domain.MoodStats{Total: len(checkins), MoodCounts: map[string]int{}}
	var sum float64
	for _, c := range checkins {
		stats.MoodCounts[c.Mood]++
		if c.ProductivityScore != nil {
			sum += *c.ProductivityScore
			stats.ScoredCheckins++
		}
	}
	if stats.ScoredCheckins > 0 {
		avg := sum / float64(stats.ScoredCheckins)
		stats.AvgProductivity = &avg
	}

	all, err := s.checkins.List(ctx, userID, nil, nil)
	if err != nil {
		return nil, err
	}
	stats.CurrentStreakDays = streak(all, s.today())
	return stats, nil
}

func streak(checkins []*domain.DailyCheckin, today time.Time) int {
	days := make(map[time.Time]bool, len(checkins))
	for _, c := range checkins {
		days[dateOnly(c.CheckinDate)] = true
	}
	cur := today
	if !days[cur] {
		cur = cur.AddDate(0, 0, -1)
	}
	n := 0
	for days[cur] {
		n++
		cur = cur.AddDate(0, 0, -1)
	}
	return n
}

// Trends returns one point per check-in in [from, to], ordered by date.
func (s *checkinService) Trends(ctx context.Context, userID string, from, to time.Time) ([]domain.ProductivityPoint, error) {
	checkins, err := s.List(ctx, userID, &from, &to)
	if err != nil {
		return nil, err
	}
	points := make([]domain.ProductivityPoint, 0, len(checkins))
	for _, c := range checkins {
		points = append(points, domain.ProductivityPoint{Date: c.CheckinDate, ProductivityScore: c.ProductivityScore})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points, nil
}
