package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/actai/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestCheckinRepo_CreateAndGet(t *testing.T) {
	store := testutil.NewTestStore(t)
	repo := NewSQLCheckinRepo(store.Conn())
	ctx := context.Background()

	c := testutil.NewTestCheckin(day(5), testutil.WithMood("happy"), testutil.WithScore(7.5))
	c.ReflectionNotes = "good day"
	require.NoError(t, repo.Create(ctx, c))

	byID, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "happy", byID.Mood)
	assert.Equal(t, "good day", byID.ReflectionNotes)
	require.NotNil(t, byID.ProductivityScore)
	assert.InDelta(t, 7.5, *byID.ProductivityScore, 1e-9)
	assert.True(t, day(5).Equal(byID.CheckinDate))

	byDate, err := repo.GetByDate(ctx, testutil.TestUserID, day(5).Add(15*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, c.ID, byDate.ID)

	_, err = repo.GetByDate(ctx, testutil.TestUserID, day(6))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCheckinRepo_OnePerUserPerDay(t *testing.T) {
	store := testutil.NewTestStore(t)
	repo := NewSQLCheckinRepo(store.Conn())
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestCheckin(day(5))))
	assert.Error(t, repo.Create(ctx, testutil.NewTestCheckin(day(5))))
	assert.NoError(t, repo.Create(ctx, testutil.NewTestCheckin(day(5), testutil.WithCheckinUser("user-2"))))
}

func TestCheckinRepo_ListRange(t *testing.T) {
	store := testutil.NewTestStore(t)
	repo := NewSQLCheckinRepo(store.Conn())
	ctx := context.Background()

	for _, d := range []int{7, 3, 5, 9} {
		require.NoError(t, repo.Create(ctx, testutil.NewTestCheckin(day(d))))
	}

	all, err := repo.List(ctx, testutil.TestUserID, nil, nil)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.True(t, day(3).Equal(all[0].CheckinDate))
	assert.True(t, day(9).Equal(all[3].CheckinDate))

	from, to := day(5), day(7)
	ranged, err := repo.List(ctx, testutil.TestUserID, &from, &to)
	require.NoError(t, err)
	require.Len(t, ranged, 2)
	assert.True(t, day(5).Equal(ranged[0].CheckinDate))
	assert.True(t, day(7).Equal(ranged[1].CheckinDate))
}

func TestCheckinRepo_UpdateAndDelete(t *testing.T) {
	store := testutil.NewTestStore(t)
	repo := NewSQLCheckinRepo(store.Conn())
	ctx := context.Background()

	c := testutil.NewTestCheckin(day(5), testutil.WithScore(4))
	require.NoError(t, repo.Create(ctx, c))

	c.Mood = "tired"
	c.ProductivityScore = nil
	require.NoError(t, repo.Update(ctx, c))

	fetched, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "tired", fetched.Mood)
	assert.Nil(t, fetched.ProductivityScore)

	require.NoError(t, repo.Delete(ctx, c.ID))
	_, err = repo.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, c.ID), ErrNotFound)
}
