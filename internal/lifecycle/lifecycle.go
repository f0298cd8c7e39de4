// Package lifecycle validates and applies the quick-action status
// transitions. The only legal edges are
// Open/In Progress -> Pending Approval (Close, assignee),
// Pending Approval -> Closed (Approve, manager) and
// Pending Approval/Closed -> Open (Reopen, manager).
// Direct status edits ride the full-edit path and are gated by authz, not
// by this table.
package lifecycle

import (
	"bugtracker-api/internal/authz"
	"bugtracker-api/internal/models"
	"bugtracker-api/internal/taskerr"
)

// Action is a quick-action button on a task card.
type Action string

const (
	ActionClose   Action = "close"
	ActionApprove Action = "approve"
	ActionReopen  Action = "reopen"
)

// Apply returns the status the task moves to when actor performs action.
// It re-checks role and precondition against the live task; a disallowed
// action returns taskerr.ErrForbidden and must leave the task untouched.
func Apply(a authz.Actor, t models.Task, action Action) (models.TaskStatus, error) {
	switch action {
	case ActionClose:
		if !authz.CanClose(a, t) {
			return "", taskerr.ErrForbidden
		}
		return models.StatusPendingApproval, nil
	case ActionApprove:
		if !authz.CanApprove(a, t) {
			return "", taskerr.ErrForbidden
		}
		return models.StatusClosed, nil
	case ActionReopen:
		if !authz.CanReopen(a, t) {
			return "", taskerr.ErrForbidden
		}
		return models.StatusOpen, nil
	}
	return "", taskerr.Validation("unknown action %q", action)
}

// StatusPatch builds the partial update for a transition, keeping
// pendingApproval synchronized with the new status.
func StatusPatch(status models.TaskStatus) models.TaskPatch {
	pending := status == models.StatusPendingApproval
	return models.TaskPatch{
		Status:          &status,
		PendingApproval: &pending,
	}
}
