// Package authz holds the permission table as pure functions of
// (role, actor, task). Callers must evaluate these against the live task,
// never against a cached permission flag, because status can change between
// render and action when another client mutates the task.
package authz

import "bugtracker-api/internal/models"

// Actor is the authenticated user performing an operation.
type Actor struct {
	Username string
	Role     models.Role
}

// CanView reports task visibility. A developer sees tasks assigned to them,
// created by them, or unassigned; a manager sees everything.
func CanView(a Actor, t models.Task) bool {
	if a.Role == models.RoleManager {
		return true
	}
	return t.Assignee == a.Username || t.CreatedBy == a.Username || t.Assignee == ""
}

// VisibleTo filters a snapshot down to the actor's visible set.
func VisibleTo(a Actor, tasks []models.Task) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if CanView(a, t) {
			out = append(out, t)
		}
	}
	return out
}

// CanEdit permits the full field edit. Managers never edit through the
// dashboard; their mutation surface is Approve/Reopen only.
func CanEdit(a Actor, t models.Task) bool {
	if a.Role != models.RoleDeveloper {
		return false
	}
	return t.Assignee == a.Username || t.CreatedBy == a.Username
}

// CanDelete mirrors CanEdit: the task's assignee or creator, developer role.
func CanDelete(a Actor, t models.Task) bool {
	return CanEdit(a, t)
}

// CanClose permits the assignee to send a task to Pending Approval.
func CanClose(a Actor, t models.Task) bool {
	if a.Role != models.RoleDeveloper || t.Assignee != a.Username {
		return false
	}
	return t.Status != models.StatusClosed && t.Status != models.StatusPendingApproval
}

// CanApprove permits a manager to close a task awaiting approval.
func CanApprove(a Actor, t models.Task) bool {
	return a.Role == models.RoleManager && t.Status == models.StatusPendingApproval
}

// CanReopen permits a manager to send a pending or closed task back to Open.
func CanReopen(a Actor, t models.Task) bool {
	if a.Role != models.RoleManager {
		return false
	}
	return t.Status == models.StatusPendingApproval || t.Status == models.StatusClosed
}

// CanLogTime permits the assignee to log time while the task is not Closed.
func CanLogTime(a Actor, t models.Task) bool {
	if a.Role != models.RoleDeveloper || t.Assignee != a.Username {
		return false
	}
	return t.Status != models.StatusClosed
}
