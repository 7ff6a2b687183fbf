package db

import (
	"fmt"
)

// Migrate runs all schema migrations. Every statement is idempotent, so it
// is safe to run on each start.
func Migrate(s *Store) error {
	for i, stmt := range migrations {
		if _, err := s.DB.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// migrations use only types and clauses shared by SQLite and PostgreSQL.
// Timestamps are RFC3339 UTC text and dates are YYYY-MM-DD text, so ordering
// by these columns is chronological in both.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS plans (
		id                       TEXT PRIMARY KEY,
		user_id                  TEXT NOT NULL,
		title                    TEXT NOT NULL,
		description              TEXT NOT NULL DEFAULT '',
		overview                 TEXT NOT NULL DEFAULT '',
		status                   TEXT NOT NULL DEFAULT 'active'
		                         CHECK(status IN ('active','paused','completed','archived')),
		start_date               TEXT NOT NULL,
		end_date                 TEXT NOT NULL,
		estimated_duration_weeks INTEGER NOT NULL DEFAULT 0,
		weekly_commitment        TEXT NOT NULL DEFAULT '',
		difficulty_level         TEXT NOT NULL DEFAULT '',
		prerequisites            TEXT NOT NULL DEFAULT '[]',
		progress_percentage      DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at               TEXT NOT NULL,
		updated_at               TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_plans_user ON plans(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_plans_status ON plans(status)`,

	`CREATE TABLE IF NOT EXISTS milestones (
		id          TEXT PRIMARY KEY,
		plan_id     TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		order_index INTEGER NOT NULL,
		created_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_milestones_plan ON milestones(plan_id)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id              TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL,
		plan_id         TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
		milestone_id    TEXT NOT NULL REFERENCES milestones(id) ON DELETE CASCADE,
		title           TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		due_date        TEXT NOT NULL,
		status          TEXT NOT NULL DEFAULT 'pending'
		                CHECK(status IN ('pending','in_progress','completed')),
		priority        TEXT NOT NULL DEFAULT 'medium'
		                CHECK(priority IN ('high','medium','low')),
		estimated_hours INTEGER NOT NULL DEFAULT 0,
		actual_hours    DOUBLE PRECISION,
		ai_suggestion   TEXT NOT NULL DEFAULT '',
		completed_at    TEXT,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_plan ON tasks(plan_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_milestone ON tasks(milestone_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_user_due ON tasks(user_id, due_date)`,

	`CREATE TABLE IF NOT EXISTS daily_checkins (
		id                 TEXT PRIMARY KEY,
		user_id            TEXT NOT NULL,
		checkin_date       TEXT NOT NULL,
		mood               TEXT NOT NULL DEFAULT '',
		reflection_notes   TEXT NOT NULL DEFAULT '',
		achievements_today TEXT NOT NULL DEFAULT '',
		motivational_quote TEXT NOT NULL DEFAULT '',
		productivity_score DOUBLE PRECISION
		                   CHECK(productivity_score IS NULL OR (productivity_score >= 0 AND productivity_score <= 10)),
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL,
		UNIQUE(user_id, checkin_date)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_checkins_mood ON daily_checkins(mood)`,
}
