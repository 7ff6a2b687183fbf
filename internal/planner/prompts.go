package planner

import (
	"fmt"
	"strings"
)

const basicPlanPrompt = `Create a detailed learning plan for: "%s"
Duration: %s

You must follow this EXACT format:

Title: [Clear, specific plan name]
Summary: [Brief 2-sentence description of what the learner will achieve]
Duration: [Only the number of weeks, like: 8]
Weekly: [Hours per week like: 8-10 hours]
Level: [Beginner, Intermediate, or Advanced]
Prerequisites:
- [Prerequisite 1]
- [Prerequisite 2]
- None (if no prerequisites)
Milestones:
- [Milestone 1 title]
- [Milestone 2 title]
- [Milestone 3 title]
- [Milestone 4 title]
END

Important rules:
1. For plans 1-2 weeks long, create only 2-3 milestones
2. For plans 3-4 weeks long, create 3-4 milestones
3. For plans longer than 4 weeks, create 4-5 milestones
4. Each milestone should represent a major learning achievement
5. Make sure milestones are evenly distributed across the plan duration`

const milestoneDetailPrompt = `Plan: "%s"
Milestone to detail: "%s"
Other milestones in plan: %s
Plan duration: %d weeks

Create detailed information for this milestone. Follow this EXACT format:

Description: [2-3 sentences explaining what will be accomplished in this milestone and why it's important]
Tasks:
- [Specific task 1 - be concrete and actionable]
- [Specific task 2 - be concrete and actionable]
- [Specific task 3 - be concrete and actionable]
- [Specific task 4 - be concrete and actionable]
END

Important rules:
1. For 1-2 week plans, create 2-3 tasks per milestone
2. For 3-4 week plans, create 3-4 tasks per milestone
3. For longer plans, create 4-5 tasks per milestone
4. Each task should be a clear, actionable item that contributes to completing the milestone
5. Tasks should be evenly distributed across the milestone's time period`

const taskDetailPrompt = `Milestone: "%s"
Task to detail: "%s"
Plan duration: %d weeks

Provide specific details for this task. Follow this EXACT format:

Description: [2-3 sentences explaining exactly what needs to be done and how to approach it. Focus on building habits rather than daily tasks]
Priority: [High, Medium, or Low]
Hours: [Estimated hours as a number, like: 4]
Tip: [One practical tip or suggestion for completing this task successfully. Focus on habit formation and consistent progress]
END

Important rules:
1. Avoid phrases like "study every day" or "practice daily"
2. Instead, use phrases like "build a habit of", "develop a routine of", "establish a practice of"
3. Focus on sustainable learning habits rather than daily tasks
4. Be specific and actionable in your descriptions
5. Consider the overall plan duration when estimating hours`

const insightsPrompt = `Plan: "%s"
Milestone: "%s"
Description: "%s"

Provide additional insights for this milestone:

FORMAT:
Insights:
- [Key insight 1]
- [Key insight 2]
Challenges:
- [Common challenge 1]
- [Common challenge 2]
Resources:
- [Helpful resource 1]
- [Helpful resource 2]
Tips:
- [Best practice 1]
- [Best practice 2]
END`

// BuildBasicPlanPrompt renders the stage-1 prompt.
func BuildBasicPlanPrompt(objective, duration string) string {
	return fmt.Sprintf(basicPlanPrompt, objective, duration)
}

// BuildMilestonePrompt renders the stage-2 prompt for one milestone.
func BuildMilestonePrompt(planTitle, milestoneTitle string, allTitles []string, weeks int) string {
	return fmt.Sprintf(milestoneDetailPrompt, planTitle, milestoneTitle, strings.Join(allTitles, ", "), weeks)
}

// BuildTaskPrompt renders the stage-3 prompt for one task.
func BuildTaskPrompt(milestoneTitle, taskTitle string, weeks int) string {
	return fmt.Sprintf(taskDetailPrompt, milestoneTitle, taskTitle, weeks)
}

// BuildInsightsPrompt renders the milestone-insights prompt.
func BuildInsightsPrompt(objective, milestoneTitle, description string) string {
	return fmt.Sprintf(insightsPrompt, objective, milestoneTitle, description)
}
