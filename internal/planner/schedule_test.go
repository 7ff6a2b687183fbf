package planner

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var planStart = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

func window(start, end time.Time, mIdx, mCount int) (time.Time, time.Time) {
	totalDays := float64(int(end.Sub(start).Hours() / 24))
	length := totalDays / float64(mCount)
	ws := start.Add(days(length * float64(mIdx)))
	return ws, ws.Add(days(length))
}

func TestDueDate_Examples(t *testing.T) {
	end := planStart.AddDate(0, 0, 28)

	// 4 milestones of 7 days; task 0 of 3 at medium: p = 0.25 → 1.75 days in.
	got := DueDate(planStart, end, 0, 4, 0, 3, PriorityMedium)
	assert.WithinDuration(t, planStart.Add(days(1.75)), got, time.Millisecond)

	// task 2 of 3: p = 0.75 → 5.25 days; floor = 2 * max(2, 1.75) = 4 days.
	got = DueDate(planStart, end, 0, 4, 2, 3, PriorityMedium)
	assert.WithinDuration(t, planStart.Add(days(5.25)), got, time.Millisecond)

	// low priority, last task: p = 0.9 (clamped) → 6.3 days, capped at window end - 1 day = 6.
	got = DueDate(planStart, end, 0, 4, 2, 3, PriorityLow)
	assert.WithinDuration(t, planStart.Add(days(6)), got, time.Millisecond)

	// second milestone starts on day 7.
	got = DueDate(planStart, end, 1, 4, 0, 3, PriorityHigh)
	assert.WithinDuration(t, planStart.Add(days(8.4)), got, time.Millisecond)
}

func TestDueDate_SpacingFloor(t *testing.T) {
	end := planStart.AddDate(0, 0, 14)

	// 2 milestones of 7 days; 5 tasks; high priority pulls task 3 to p = 0.533 → 3.73 days,
	// but the floor is 3 * max(2, 7/6) = 6 days, capped to 6.
	got := DueDate(planStart, end, 0, 2, 3, 5, PriorityHigh)
	assert.WithinDuration(t, planStart.Add(days(6)), got, time.Millisecond)
}

func TestDueDate_Deterministic(t *testing.T) {
	end := planStart.AddDate(0, 0, 35)
	a := DueDate(planStart, end, 2, 5, 1, 4, PriorityLow)
	b := DueDate(planStart, end, 2, 5, 1, 4, PriorityLow)
	assert.Equal(t, a, b)
}

// TestDueDate_Invariants_MonotonicAndInsideWindow property-tests that, for a
// fixed window and priority, later tasks never come earlier and every date
// lies in [windowStart, windowEnd).
func TestDueDate_Invariants_MonotonicAndInsideWindow(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	priorities := []Priority{PriorityHigh, PriorityMedium, PriorityLow}

	for trial := 0; trial < 300; trial++ {
		weeks := rng.Intn(20) + 1
		end := planStart.AddDate(0, 0, weeks*7)
		mCount := rng.Intn(5) + 1
		mIdx := rng.Intn(mCount)
		tCount := rng.Intn(6) + 1
		prio := priorities[rng.Intn(len(priorities))]

		ws, we := window(planStart, end, mIdx, mCount)

		var prev time.Time
		for tIdx := 0; tIdx < tCount; tIdx++ {
			got := DueDate(planStart, end, mIdx, mCount, tIdx, tCount, prio)

			assert.False(t, got.Before(ws), "trial %d: %v before window start %v", trial, got, ws)
			assert.True(t, got.Before(we), "trial %d: %v not before window end %v", trial, got, we)
			if tIdx > 0 {
				assert.False(t, got.Before(prev), "trial %d: task %d earlier than task %d", trial, tIdx, tIdx-1)
			}
			prev = got
		}
	}
}

// TestDueDate_Invariants_HighNeverAfterLow property-tests the priority effect.
func TestDueDate_Invariants_HighNeverAfterLow(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 300; trial++ {
		end := planStart.AddDate(0, 0, (rng.Intn(20)+1)*7)
		mCount := rng.Intn(5) + 1
		mIdx := rng.Intn(mCount)
		tCount := rng.Intn(6) + 1
		tIdx := rng.Intn(tCount)

		high := DueDate(planStart, end, mIdx, mCount, tIdx, tCount, PriorityHigh)
		medium := DueDate(planStart, end, mIdx, mCount, tIdx, tCount, PriorityMedium)
		low := DueDate(planStart, end, mIdx, mCount, tIdx, tCount, PriorityLow)

		assert.False(t, high.After(low), "trial %d: high %v after low %v", trial, high, low)
		assert.False(t, high.After(medium), "trial %d", trial)
		assert.False(t, medium.After(low), "trial %d", trial)
	}
}

func TestDueDate_SpanCountsWholeDays(t *testing.T) {
	end := planStart.AddDate(0, 0, 28)
	ragged := end.Add(20 * time.Hour)

	for mIdx := 0; mIdx < 4; mIdx++ {
		for tIdx := 0; tIdx < 3; tIdx++ {
			assert.Equal(t,
				DueDate(planStart, end, mIdx, 4, tIdx, 3, PriorityMedium),
				DueDate(planStart, ragged, mIdx, 4, tIdx, 3, PriorityMedium),
				"milestone %d task %d", mIdx, tIdx)
		}
	}

	// Offsets inside the window keep the start's time of day plus fractional days.
	got := DueDate(planStart, end, 0, 4, 0, 3, PriorityMedium)
	assert.Equal(t, planStart.Add(42*time.Hour), got)
}
