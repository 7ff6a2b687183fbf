package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/actai/internal/db"
	"github.com/alexanderramin/actai/internal/domain"
)

// SQLPlanRepo implements PlanRepo on SQLite or PostgreSQL.
type SQLPlanRepo struct {
	db db.DBTX
}

// NewSQLPlanRepo creates a new SQLPlanRepo. conn must already be bound to its dialect.
func NewSQLPlanRepo(conn db.DBTX) *SQLPlanRepo {
	return &SQLPlanRepo{db: conn}
}

const planColumns = `id, user_id, title, description, overview, status, start_date, end_date,
	estimated_duration_weeks, weekly_commitment, difficulty_level, prerequisites,
	progress_percentage, created_at, updated_at`

func (r *SQLPlanRepo) Create(ctx context.Context, p *domain.Plan) error {
	prereqs, err := encodeStrings(p.Prerequisites)
	if err != nil {
		return err
	}
	query := `INSERT INTO plans (` + planColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		p.ID,
		p.UserID,
		p.Title,
		p.Description,
		p.Overview,
		string(p.Status),
		formatTime(p.StartDate),
		formatTime(p.EndDate),
		p.EstimatedDurationWeeks,
		p.WeeklyCommitment,
		p.DifficultyLevel,
		prereqs,
		p.ProgressPercentage,
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}
	return nil
}

func (r *SQLPlanRepo) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+planColumns+` FROM plans WHERE id = ?`, id)
	p, err := scanPlan(row)
	if err != nil {
		return nil, notFound(err, "plan", id)
	}
	return p, nil
}

func (r *SQLPlanRepo) ListByUser(ctx context.Context, userID string, status domain.PlanStatus) ([]*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE user_id = ?`
	args := []any{userID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer rows.Close()

	var plans []*domain.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning plan row: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plans: %w", err)
	}
	return plans, nil
}

func (r *SQLPlanRepo) UpdateProgress(ctx context.Context, id string, progress float64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE plans SET progress_percentage = ?, updated_at = ? WHERE id = ?`,
		progress, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("updating plan progress: %w", err)
	}
	return requireAffected(res, "plan", id)
}

func (r *SQLPlanRepo) UpdateStatus(ctx context.Context, id string, status domain.PlanStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE plans SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), nowUTC(), id)
	if err != nil {
		return fmt.Errorf("updating plan status: %w", err)
	}
	return requireAffected(res, "plan", id)
}

func (r *SQLPlanRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	return requireAffected(res, "plan", id)
}

func scanPlan(s scanner) (*domain.Plan, error) {
	var p domain.Plan
	var status, startStr, endStr, prereqs, createdStr, updatedStr string

	err := s.Scan(
		&p.ID, &p.UserID, &p.Title, &p.Description, &p.Overview,
		&status, &startStr, &endStr,
		&p.EstimatedDurationWeeks, &p.WeeklyCommitment, &p.DifficultyLevel, &prereqs,
		&p.ProgressPercentage, &createdStr, &updatedStr,
	)
	if err != nil {
		return nil, err
	}

	p.Status = domain.PlanStatus(status)
	if p.StartDate, err = parseTime(startStr, "start_date"); err != nil {
		return nil, err
	}
	if p.EndDate, err = parseTime(endStr, "end_date"); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTime(createdStr, "created_at"); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedStr, "updated_at"); err != nil {
		return nil, err
	}
	if p.Prerequisites, err = decodeStrings(prereqs); err != nil {
		return nil, err
	}
	return &p, nil
}
