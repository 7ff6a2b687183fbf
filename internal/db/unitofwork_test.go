package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/actai/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNow = "2025-03-01T00:00:00Z"

func openTestUoW(t *testing.T) (*db.Store, *db.SQLUnitOfWork) {
	t.Helper()
	store, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, db.NewUnitOfWork(store)
}

func insertPlan(ctx context.Context, tx db.DBTX, id string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO plans (id, user_id, title, start_date, end_date, created_at, updated_at)
		VALUES (?, 'u1', 'Plan', '2025-03-01', '2025-03-15', ?, ?)`, id, testNow, testNow)
	return err
}

func planExists(t *testing.T, store *db.Store, id string) bool {
	t.Helper()
	var n int
	require.NoError(t, store.Conn().QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM plans WHERE id = ?`, id).Scan(&n))
	return n == 1
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	store, uow := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertPlan(ctx, tx, "p1")
	})
	require.NoError(t, err)

	assert.True(t, planExists(t, store, "p1"), "row should exist after commit")
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	store, uow := openTestUoW(t)
	sentinel := errors.New("deliberate failure")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertPlan(ctx, tx, "p2"); err != nil {
			return err
		}
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	assert.False(t, planExists(t, store, "p2"), "row should not exist after rollback")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	store, uow := openTestUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertPlan(ctx, tx, "p3")
			panic("boom")
		})
	})

	assert.False(t, planExists(t, store, "p3"), "row should not exist after panic rollback")
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := db.Open("mysql", "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}
