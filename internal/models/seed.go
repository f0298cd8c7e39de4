package models

import "time"

// SeedTasks returns the fixture pair loaded into an empty store so a fresh
// install renders a non-empty board. Seed tasks carry no creator, the legacy
// record shape.
func SeedTasks(now time.Time) []Task {
	iso := now.UTC().Format(time.RFC3339)
	return []Task{
		{
			Title:       "Fix login redirect",
			Description: "Redirect to dashboard after auth",
			Priority:    PriorityHigh,
			Status:      StatusOpen,
			Assignee:    "Rupali",
			StartDate:   iso,
		},
		{
			Title:       "Add analytics",
			Description: "Trend chart for active tasks",
			Priority:    PriorityMedium,
			Status:      StatusOpen,
			Assignee:    "Rupali",
			StartDate:   iso,
		},
	}
}
