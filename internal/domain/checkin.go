package domain

import (
	"fmt"
	"time"
)

const (
	MinProductivityScore = 0.0
	MaxProductivityScore = 10.0
)

// DailyCheckin is a user's end-of-day reflection. At most one exists per user and date.
type DailyCheckin struct {
	ID                string
	UserID            string
	CheckinDate       time.Time // date only, UTC midnight
	Mood              string
	ReflectionNotes   string
	AchievementsToday string
	MotivationalQuote string
	ProductivityScore *float64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ValidateProductivityScore checks that a score, when present, lies in [0, 10].
func ValidateProductivityScore(score *float64) error {
	if score == nil {
		return nil
	}
	if *score < MinProductivityScore || *score > MaxProductivityScore {
		return fmt.Errorf("productivity score must be between %g and %g, got %g",
			MinProductivityScore, MaxProductivityScore, *score)
	}
	return nil
}

// MoodStats summarizes check-ins over a date range.
type MoodStats struct {
	Total             int            `json:"total"`
	MoodCounts        map[string]int `json:"mood_counts"`
	AvgProductivity   *float64       `json:"avg_productivity,omitempty"`
	ScoredCheckins    int            `json:"scored_checkins"`
	CurrentStreakDays int            `json:"current_streak_days"`
}

// ProductivityPoint is one day of a productivity trend.
type ProductivityPoint struct {
	Date              time.Time `json:"date"`
	ProductivityScore *float64  `json:"productivity_score"`
}
