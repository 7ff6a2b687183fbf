package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/actai/internal/db"
	"github.com/alexanderramin/actai/internal/domain"
)

// SQLMilestoneRepo implements MilestoneRepo.
type SQLMilestoneRepo struct {
	db db.DBTX
}

func NewSQLMilestoneRepo(conn db.DBTX) *SQLMilestoneRepo {
	return &SQLMilestoneRepo{db: conn}
}

func (r *SQLMilestoneRepo) Create(ctx context.Context, m *domain.Milestone) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO milestones (id, plan_id, title, description, order_index, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.PlanID, m.Title, m.Description, m.Order, formatTime(m.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting milestone: %w", err)
	}
	return nil
}

func (r *SQLMilestoneRepo) ListByPlan(ctx context.Context, planID string) ([]*domain.Milestone, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, plan_id, title, description, order_index, created_at
		FROM milestones WHERE plan_id = ? ORDER BY order_index`, planID)
	if err != nil {
		return nil, fmt.Errorf("listing milestones: %w", err)
	}
	defer rows.Close()

	var out []*domain.Milestone
	for rows.Next() {
		var m domain.Milestone
		var created string
		if err := rows.Scan(&m.ID, &m.PlanID, &m.Title, &m.Description, &m.Order, &created); err != nil {
			return nil, fmt.Errorf("scanning milestone row: %w", err)
		}
		if m.CreatedAt, err = parseTime(created, "created_at"); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating milestones: %w", err)
	}
	return out, nil
}
