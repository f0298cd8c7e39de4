// Package views derives the read-side aggregates from a task snapshot:
// status filters, the two supported sort orders, overdue and
// pending-approval sets, and the activity chart series.
package views

import (
	"sort"
	"time"

	"bugtracker-api/internal/models"
)

// StatusFilterPending is the synthetic filter value developer-facing views
// use for Pending Approval.
const StatusFilterPending = "Pending"

// FilterStatus keeps tasks whose status matches exactly. An empty filter
// keeps everything.
func FilterStatus(tasks []models.Task, filter string) []models.Task {
	if filter == "" {
		return tasks
	}
	want := models.TaskStatus(filter)
	if filter == StatusFilterPending {
		want = models.StatusPendingApproval
	}
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == want {
			out = append(out, t)
		}
	}
	return out
}

// SortOrder selects one of the two supported orders.
type SortOrder string

const (
	// SortPriority orders High before Medium before Low.
	SortPriority SortOrder = "priority"
	// SortRecent orders by startDate falling back to createdAt, newest first.
	SortRecent SortOrder = "recent"
)

var priorityRank = map[models.TaskPriority]int{
	models.PriorityHigh:   0,
	models.PriorityMedium: 1,
	models.PriorityLow:    2,
}

func eventTime(t models.Task) time.Time {
	if ts, ok := models.ParseDate(t.StartDate); ok {
		return ts
	}
	if ts, ok := models.ParseDate(t.CreatedAt); ok {
		return ts
	}
	return time.Time{}
}

// SortTasks returns a sorted copy of the snapshot.
func SortTasks(tasks []models.Task, order SortOrder) []models.Task {
	out := make([]models.Task, len(tasks))
	copy(out, tasks)
	switch order {
	case SortPriority:
		sort.SliceStable(out, func(i, j int) bool {
			return priorityRank[out[i].Priority] < priorityRank[out[j].Priority]
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return eventTime(out[i]).After(eventTime(out[j]))
		})
	}
	return out
}

// Overdue returns the tasks whose due date has passed and that are not
// Closed. Callers scope the input to the viewer's visible set.
func Overdue(tasks []models.Task, now time.Time) []models.Task {
	out := make([]models.Task, 0)
	for _, t := range tasks {
		if t.Status == models.StatusClosed {
			continue
		}
		if due, ok := models.ParseDate(t.DueDate); ok && due.Before(now) {
			out = append(out, t)
		}
	}
	return out
}

// PendingApproval returns the tasks awaiting a manager decision.
func PendingApproval(tasks []models.Task) []models.Task {
	return FilterStatus(tasks, string(models.StatusPendingApproval))
}

// ActivityPoint is one chart bucket: the number of non-Closed tasks whose
// start (or creation) date falls on Date.
type ActivityPoint struct {
	Date   string `json:"date"`
	Active int    `json:"active"`
}

// ActivitySeries buckets tasks by the date portion of startDate falling back
// to createdAt, counting non-Closed tasks. Buckets come back sorted by date
// ascending, one point per distinct date; missing dates are not interpolated.
func ActivitySeries(tasks []models.Task) []ActivityPoint {
	counts := map[string]int{}
	for _, t := range tasks {
		d := t.DateKey()
		if d == "" {
			continue
		}
		if t.Status == models.StatusClosed {
			// closed tasks hold the bucket open but do not count as active
			counts[d] += 0
		} else {
			counts[d]++
		}
	}
	dates := make([]string, 0, len(counts))
	for d := range counts {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	out := make([]ActivityPoint, 0, len(dates))
	for _, d := range dates {
		out = append(out, ActivityPoint{Date: d, Active: counts[d]})
	}
	return out
}
