package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/actai/internal/db"
	"github.com/alexanderramin/actai/internal/domain"
)

// SQLTaskRepo implements TaskRepo.
type SQLTaskRepo struct {
	db db.DBTX
}

func NewSQLTaskRepo(conn db.DBTX) *SQLTaskRepo {
	return &SQLTaskRepo{db: conn}
}

const taskColumns = `id, user_id, plan_id, milestone_id, title, description, due_date,
	status, priority, estimated_hours, actual_hours, ai_suggestion, completed_at,
	created_at, updated_at`

func (r *SQLTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.UserID,
		t.PlanID,
		t.MilestoneID,
		t.Title,
		t.Description,
		formatTime(t.DueDate),
		string(t.Status),
		string(t.Priority),
		t.EstimatedHours,
		nullableFloat(t.ActualHours),
		t.AISuggestion,
		nullableTimeToString(t.CompletedAt, time.RFC3339),
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		return nil, notFound(err, "task", id)
	}
	return t, nil
}

func (r *SQLTaskRepo) ListByPlan(ctx context.Context, planID string) ([]*domain.Task, error) {
	return r.list(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE plan_id = ? ORDER BY due_date, id`, planID)
}

func (r *SQLTaskRepo) ListByMilestone(ctx context.Context, milestoneID string) ([]*domain.Task, error) {
	return r.list(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE milestone_id = ? ORDER BY due_date, id`, milestoneID)
}

func (r *SQLTaskRepo) ListDueBetween(ctx context.Context, userID string, from, to time.Time) ([]*domain.Task, error) {
	return r.list(ctx,
		`SELECT `+taskColumns+` FROM tasks
		WHERE user_id = ? AND due_date >= ? AND due_date < ?
		ORDER BY due_date, id`,
		userID, formatTime(from), formatTime(to))
}

func (r *SQLTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET title = ?, description = ?, due_date = ?, status = ?,
		priority = ?, estimated_hours = ?, actual_hours = ?, ai_suggestion = ?,
		completed_at = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.Title,
		t.Description,
		formatTime(t.DueDate),
		string(t.Status),
		string(t.Priority),
		t.EstimatedHours,
		nullableFloat(t.ActualHours),
		t.AISuggestion,
		nullableTimeToString(t.CompletedAt, time.RFC3339),
		formatTime(t.UpdatedAt),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return requireAffected(res, "task", t.ID)
}

func (r *SQLTaskRepo) list(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func scanTask(s scanner) (*domain.Task, error) {
	var t domain.Task
	var dueStr, status, priority, createdStr, updatedStr string
	var actual sql.NullFloat64
	var completed sql.NullString

	err := s.Scan(
		&t.ID, &t.UserID, &t.PlanID, &t.MilestoneID, &t.Title, &t.Description, &dueStr,
		&status, &priority, &t.EstimatedHours, &actual, &t.AISuggestion, &completed,
		&createdStr, &updatedStr,
	)
	if err != nil {
		return nil, err
	}

	t.Status = domain.TaskStatus(status)
	t.Priority = domain.TaskPriority(priority)
	t.ActualHours = floatPtr(actual)
	t.CompletedAt = parseNullableTime(completed, time.RFC3339)
	if t.DueDate, err = parseTime(dueStr, "due_date"); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTime(createdStr, "created_at"); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updatedStr, "updated_at"); err != nil {
		return nil, err
	}
	return &t, nil
}
