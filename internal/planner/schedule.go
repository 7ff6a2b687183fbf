package planner

import (
	"math"
	"time"
)

const (
	day = 24 * time.Hour

	// minTaskSpacingDays is the smallest gap kept between consecutive tasks.
	minTaskSpacingDays = 2.0

	minPosition = 0.1
	maxPosition = 0.9
)

// DueDate places task taskIdx of taskCount inside milestone milestoneIdx of
// milestoneCount, where the plan runs from start to end.
//
// The plan span (in whole days) is split into equal milestone windows. A task
// lands at its relative position in the window, pulled earlier for high
// priority and pushed later for low priority, but never before the minimum
// spacing floor for its index. The result always lies in
// [windowStart, windowEnd-1 day], or on windowStart when the window is
// shorter than a day.
func DueDate(start, end time.Time, milestoneIdx, milestoneCount, taskIdx, taskCount int, priority Priority) time.Time {
	milestoneCount = max(milestoneCount, 1)
	taskCount = max(taskCount, 1)

	totalDays := math.Floor(end.Sub(start).Hours() / 24)
	windowDays := math.Max(totalDays, 0) / float64(milestoneCount)
	windowStart := start.Add(days(windowDays * float64(milestoneIdx)))
	windowEnd := windowStart.Add(days(windowDays))

	pos := float64(taskIdx+1) / float64(taskCount+1) * priority.multiplier()
	pos = math.Max(minPosition, math.Min(maxPosition, pos))
	due := windowStart.Add(days(windowDays * pos))

	if taskIdx > 0 {
		spacing := math.Max(minTaskSpacingDays, windowDays/float64(taskCount+1))
		if floor := windowStart.Add(days(spacing * float64(taskIdx))); due.Before(floor) {
			due = floor
		}
	}

	if latest := windowEnd.Add(-day); due.After(latest) {
		due = latest
	}
	if due.Before(windowStart) {
		due = windowStart
	}
	return due
}

func days(n float64) time.Duration {
	return time.Duration(n * float64(day))
}
