package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/actai/internal/db"
	"github.com/alexanderramin/actai/internal/domain"
)

// SQLCheckinRepo implements CheckinRepo. Check-in dates are stored as
// YYYY-MM-DD so the (user_id, checkin_date) unique constraint is per day.
type SQLCheckinRepo struct {
	db db.DBTX
}

func NewSQLCheckinRepo(conn db.DBTX) *SQLCheckinRepo {
	return &SQLCheckinRepo{db: conn}
}

const checkinColumns = `id, user_id, checkin_date, mood, reflection_notes, achievements_today,
	motivational_quote, productivity_score, created_at, updated_at`

func (r *SQLCheckinRepo) Create(ctx context.Context, c *domain.DailyCheckin) error {
	query := `INSERT INTO daily_checkins (` + checkinColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.UserID,
		c.CheckinDate.Format(dateLayout),
		c.Mood,
		c.ReflectionNotes,
		c.AchievementsToday,
		c.MotivationalQuote,
		nullableFloat(c.ProductivityScore),
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting checkin: %w", err)
	}
	return nil
}

func (r *SQLCheckinRepo) GetByID(ctx context.Context, id string) (*domain.DailyCheckin, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+checkinColumns+` FROM daily_checkins WHERE id = ?`, id)
	c, err := scanCheckin(row)
	if err != nil {
		return nil, notFound(err, "checkin", id)
	}
	return c, nil
}

func (r *SQLCheckinRepo) GetByDate(ctx context.Context, userID string, date time.Time) (*domain.DailyCheckin, error) {
	day := date.Format(dateLayout)
	row := r.db.QueryRowContext(ctx,
		`SELECT `+checkinColumns+` FROM daily_checkins WHERE user_id = ? AND checkin_date = ?`,
		userID, day)
	c, err := scanCheckin(row)
	if err != nil {
		return nil, notFound(err, "checkin for", day)
	}
	return c, nil
}

func (r *SQLCheckinRepo) List(ctx context.Context, userID string, from, to *time.Time) ([]*domain.DailyCheckin, error) {
	query := `SELECT ` + checkinColumns + ` FROM daily_checkins WHERE user_id = ?`
	args := []any{userID}
	if from != nil {
		query += ` AND checkin_date >= ?`
		args = append(args, from.Format(dateLayout))
	}
	if to != nil {
		query += ` AND checkin_date <= ?`
		args = append(args, to.Format(dateLayout))
	}
	query += ` ORDER BY checkin_date`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing checkins: %w", err)
	}
	defer rows.Close()

	var out []*domain.DailyCheckin
	for rows.Next() {
		c, err := scanCheckin(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning checkin row: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating checkins: %w", err)
	}
	return out, nil
}

func (r *SQLCheckinRepo) Update(ctx context.Context, c *domain.DailyCheckin) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE daily_checkins SET mood = ?, reflection_notes = ?, achievements_today = ?,
		motivational_quote = ?, productivity_score = ?, updated_at = ?
		WHERE id = ?`,
		c.Mood,
		c.ReflectionNotes,
		c.AchievementsToday,
		c.MotivationalQuote,
		nullableFloat(c.ProductivityScore),
		formatTime(c.UpdatedAt),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating checkin: %w", err)
	}
	return requireAffected(res, "checkin", c.ID)
}

func (r *SQLCheckinRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM daily_checkins WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting checkin: %w", err)
	}
	return requireAffected(res, "checkin", id)
}

func scanCheckin(s scanner) (*domain.DailyCheckin, error) {
	var c domain.DailyCheckin
	var dateStr, createdStr, updatedStr string
	var score sql.NullFloat64

	err := s.Scan(
		&c.ID, &c.UserID, &dateStr, &c.Mood, &c.ReflectionNotes, &c.AchievementsToday,
		&c.MotivationalQuote, &score, &createdStr, &updatedStr,
	)
	if err != nil {
		return nil, err
	}

	c.ProductivityScore = floatPtr(score)
	if c.CheckinDate, err = time.Parse(dateLayout, dateStr); err != nil {
		return nil, fmt.Errorf("parsing checkin_date: %w", err)
	}
	if c.CreatedAt, err = parseTime(createdStr, "created_at"); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedStr, "updated_at"); err != nil {
		return nil, err
	}
	return &c, nil
}
