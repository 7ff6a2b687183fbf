package planner

const (
	minMilestones        = 2
	maxMilestones        = 5
	minTasksPerMilestone = 2
	maxTasksPerMilestone = 5
)

// OptimalMilestones is the number of milestones a plan of the given length keeps.
func OptimalMilestones(weeks int) int {
	switch {
	case weeks <= 2:
		return clamp(weeks, 2, 3)
	case weeks <= 4:
		return clamp(weeks, 3, 4)
	default:
		return clamp(weeks/2, minMilestones, maxMilestones)
	}
}

// OptimalTasks is the number of tasks kept per milestone.
func OptimalTasks(weeks, milestones int) int {
	switch {
	case weeks <= 2:
		return clamp(weeks, 2, 3)
	case weeks <= 4:
		return clamp(weeks, 3, 4)
	default:
		if milestones < 1 {
			milestones = 1
		}
		return clamp(weeks/milestones, minTasksPerMilestone, maxTasksPerMilestone)
	}
}

func clamp(v, lo, hi int) int {
	return min(hi, max(lo, v))
}

// truncate keeps at most n items of s.
func truncate(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
