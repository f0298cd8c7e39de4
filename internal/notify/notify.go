// Package notify detects tasks newly and manually assigned to a user and
// surfaces a one-shot alert per task.
package notify

import "bugtracker-api/internal/models"

// Notification carries the fields the alert renders.
type Notification struct {
	TaskID      string              `json:"taskId"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Priority    models.TaskPriority `json:"priority"`
	StartDate   string              `json:"startDate"`
	DueDate     string              `json:"dueDate"`
	CreatedBy   string              `json:"createdBy"`
}

// Tracker watches the stream of snapshots delivered to one client session.
// Alerts are delivered one at a time: while one is outstanding, further new
// assignments queue and are released by Acknowledge. Not safe for concurrent
// use; each session drives its tracker from its own snapshot callback.
type Tracker struct {
	self      string
	primed    bool
	lastCount int
	notified  map[string]struct{}
	queue     []Notification
	pending   string
}

// NewTracker starts a tracker for the given username.
func NewTracker(self string) *Tracker {
	return &Tracker{
		self:     self,
		notified: map[string]struct{}{},
	}
}

// Observe feeds the next snapshot and returns a notification when the
// number of tasks assigned to self grew and the newest such task was
// manually assigned by someone else. The first snapshot only establishes
// the baseline; a task never triggers twice. While an alert is outstanding
// the new one queues instead of being returned.
func (tr *Tracker) Observe(snapshot []models.Task) *Notification {
	var mine []models.Task
	for _, t := range snapshot {
		if t.Assignee == tr.self {
			mine = append(mine, t)
		}
	}

	if !tr.primed {
		tr.primed = true
		tr.lastCount = len(mine)
		for _, t := range mine {
			tr.notified[t.ID] = struct{}{}
		}
		return nil
	}

	grew := len(mine) > tr.lastCount
	tr.lastCount = len(mine)
	if grew {
		newest := newestCreated(mine)
		if newest != nil && newest.ManuallyAssigned && newest.CreatedBy != tr.self {
			if _, seen := tr.notified[newest.ID]; !seen {
				tr.notified[newest.ID] = struct{}{}
				tr.queue = append(tr.queue, toNotification(*newest))
			}
		}
	}
	return tr.next()
}

// Acknowledge dismisses the outstanding notification and releases the next
// queued one, if any. The dismissed task stays marked so it never
// re-triggers.
func (tr *Tracker) Acknowledge(taskID string) *Notification {
	if tr.pending != taskID {
		return nil
	}
	tr.pending = ""
	return tr.next()
}

func (tr *Tracker) next() *Notification {
	if tr.pending != "" || len(tr.queue) == 0 {
		return nil
	}
	n := tr.queue[0]
	tr.queue = tr.queue[1:]
	tr.pending = n.TaskID
	return &n
}

func toNotification(t models.Task) Notification {
	return Notification{
		TaskID:      t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		StartDate:   t.StartDate,
		DueDate:     t.DueDate,
		CreatedBy:   t.CreatedBy,
	}
}

func newestCreated(tasks []models.Task) *models.Task {
	var newest *models.Task
	for i := range tasks {
		if newest == nil || tasks[i].CreatedAt > newest.CreatedAt {
			newest = &tasks[i]
		}
	}
	return newest
}
