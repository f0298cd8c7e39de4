package models

import (
	"time"

	"bugtracker-api/internal/taskerr"
)

// ParseDate accepts the date formats clients actually send: plain ISO dates
// from date pickers and full RFC3339 timestamps from persisted records.
func ParseDate(dateStr string) (time.Time, bool) {
	if dateStr == "" {
		return time.Time{}, false
	}
	layouts := []string{
		"2006-01-02", // ISO date
		time.RFC3339, // full RFC3339
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateKey returns the date portion used for activity bucketing: startDate
// when present, createdAt otherwise.
func (t Task) DateKey() string {
	s := t.StartDate
	if s == "" {
		s = t.CreatedAt
	}
	if len(s) > 10 {
		s = s[:10]
	}
	return s
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ValidateDates rejects a start date in the past, a due date in the past,
// and a due date before the start date. Empty fields are skipped; malformed
// dates are rejected outright. Runs before persistence on every user-facing
// edit, not at display time.
func ValidateDates(startDate, dueDate string, now time.Time) error {
	today := midnight(now)

	var start, due time.Time
	var hasStart, hasDue bool
	if startDate != "" {
		if start, hasStart = ParseDate(startDate); !hasStart {
			return taskerr.Validation("Invalid start date")
		}
		if midnight(start).Before(today) {
			return taskerr.Validation("Start date cannot be in the past")
		}
	}
	if dueDate != "" {
		if due, hasDue = ParseDate(dueDate); !hasDue {
			return taskerr.Validation("Invalid due date")
		}
		if midnight(due).Before(today) {
			return taskerr.Validation("Due date cannot be in the past")
		}
	}
	if hasStart && hasDue && midnight(due).Before(midnight(start)) {
		return taskerr.Validation("Due date cannot be before start date")
	}
	return nil
}
