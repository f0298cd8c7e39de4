package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"bugtracker-api/internal/authz"
	"bugtracker-api/internal/cache"
	"bugtracker-api/internal/lifecycle"
	"bugtracker-api/internal/models"
	"bugtracker-api/internal/store"
	"bugtracker-api/internal/taskerr"
	"bugtracker-api/internal/views"

	"github.com/gin-gonic/gin"
)

// activityTTL bounds staleness of the memoized chart series between
// snapshot invalidations.
const activityTTL = 30 * time.Second

// TaskHandler serves the task CRUD, quick actions, time ledger and derived
// view endpoints over the configured store.
type TaskHandler struct {
	store    store.Store
	activity *cache.TTLCache[string, []views.ActivityPoint]
}

// NewTaskHandler builds the handler set around a store.
func NewTaskHandler(s store.Store) *TaskHandler {
	return &TaskHandler{
		store:    s,
		activity: cache.New[string, []views.ActivityPoint](),
	}
}

// InvalidateDerived drops memoized derived views. Wired to the store
// subscription so every snapshot clears stale aggregates.
func (h *TaskHandler) InvalidateDerived() {
	h.activity.Clear()
}

// activityKey qualifies the memo key by role: visibility, and therefore the
// series, depends on both.
func activityKey(a authz.Actor) string {
	return string(a.Role) + "/" + a.Username
}

func actorFrom(c *gin.Context) (authz.Actor, bool) {
	username := c.GetString("username")
	if username == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Username not found in token",
		})
		return authz.Actor{}, false
	}
	return authz.Actor{
		Username: username,
		Role:     models.Role(c.GetString("role")),
	}, true
}

// respondError maps the error taxonomy onto HTTP statuses: validation 400,
// not found 404, authorization violation 403 (state untouched),
// persistence 500 (no retry, the client re-offers the action).
func respondError(c *gin.Context, err error) {
	switch {
	case taskerr.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, taskerr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, taskerr.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Action not permitted"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage operation failed"})
	}
}

// CreateTaskRequest represents the request payload for creating a task
type CreateTaskRequest struct {
	Title         string              `json:"title" binding:"required"`
	Description   string              `json:"description"`
	Priority      models.TaskPriority `json:"priority"`
	Status        models.TaskStatus   `json:"status"`
	Assignee      string              `json:"assignee"`
	StartDate     string              `json:"startDate"`
	DueDate       string              `json:"dueDate"`
	Prerequisites string              `json:"prerequisites"`
	Milestones    string              `json:"milestones"`
	Techstack     string              `json:"techstack"`
}

// LogTimeRequest represents the request payload for a time ledger append
type LogTimeRequest struct {
	Seconds int    `json:"seconds"`
	Note    string `json:"note"`
}

/*
*
GetTasks handles GET /api/tasks
Returns the actor's visible task set.
Optional query params: status (exact match, "Pending" aliases Pending
Approval) and sort (priority|recent, default recent).
*/
func (h *TaskHandler) GetTasks(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	tasks, err := h.store.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	visible := authz.VisibleTo(actor, tasks)
	visible = views.FilterStatus(visible, c.Query("status"))

	order := views.SortRecent
	if c.Query("sort") == string(views.SortPriority) {
		order = views.SortPriority
	}
	visible = views.SortTasks(visible, order)

	c.JSON(http.StatusOK, gin.H{
		"tasks": visible,
		"count": len(visible),
	})
}

/*
*
CreateTask handles POST /api/tasks
Developers self-create (assignee defaults to themselves); managers must
name an assignee, which marks the task manually assigned.
*/
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		respondError(c, taskerr.Validation("Title is required"))
		return
	}
	if err := models.ValidateDates(req.StartDate, req.DueDate, time.Now()); err != nil {
		respondError(c, err)
		return
	}

	status := req.Status
	if status == "" {
		status = models.StatusOpen
	}
	if !models.ValidStatus(status) {
		respondError(c, taskerr.Validation("Invalid status %q", status))
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	assignee := req.Assignee
	manuallyAssigned := false
	if actor.Role == models.RoleManager {
		if assignee == "" {
			respondError(c, taskerr.Validation("Assignee is required"))
			return
		}
		manuallyAssigned = assignee != actor.Username
	} else if assignee == "" {
		assignee = actor.Username
	}

	startDate := req.StartDate
	if startDate == "" {
		startDate = time.Now().UTC().Format(time.RFC3339)
	}

	task := models.Task{
		Title:            req.Title,
		Description:      req.Description,
		Priority:         priority,
		Status:           status,
		Assignee:         assignee,
		CreatedBy:        actor.Username,
		StartDate:        startDate,
		DueDate:          req.DueDate,
		PendingApproval:  status == models.StatusPendingApproval,
		ManuallyAssigned: manuallyAssigned,
		Prerequisites:    req.Prerequisites,
		Milestones:       req.Milestones,
		Techstack:        req.Techstack,
	}

	created, err := h.store.Create(c.Request.Context(), task)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdateTask handles PUT /api/tasks/:id
// Full field edit, permitted only to a developer who is the task's
// assignee or creator. Permissions are re-checked against the live task,
// not a cached flag, because status can change between render and action.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	taskID := c.Param("id")

	existing, err := h.store.Get(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !authz.CanEdit(actor, existing) {
		respondError(c, taskerr.ErrForbidden)
		return
	}

	var patch models.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// the ledger and assignment provenance never change through the form
	patch.ManuallyAssigned = nil

	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		respondError(c, taskerr.Validation("Title is required"))
		return
	}
	if patch.Status != nil {
		if !models.ValidStatus(*patch.Status) {
			respondError(c, taskerr.Validation("Invalid status %q", *patch.Status))
			return
		}
		pending := *patch.Status == models.StatusPendingApproval
		patch.PendingApproval = &pending
	} else {
		patch.PendingApproval = nil
	}

	if patch.StartDate != nil || patch.DueDate != nil {
		startDate := existing.StartDate
		if patch.StartDate != nil {
			startDate = *patch.StartDate
		}
		dueDate := existing.DueDate
		if patch.DueDate != nil {
			dueDate = *patch.DueDate
		}
		if err := models.ValidateDates(startDate, dueDate, time.Now()); err != nil {
			respondError(c, err)
			return
		}
	}

	if err := h.store.Update(c.Request.Context(), taskID, patch); err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.store.Get(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteTask handles DELETE /api/tasks/:id
// Permitted only to the task's assignee or creator, developer role.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	taskID := c.Param("id")

	task, err := h.store.Get(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !authz.CanDelete(actor, task) {
		respondError(c, taskerr.ErrForbidden)
		return
	}

	if err := h.store.Delete(c.Request.Context(), taskID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
		"id":      taskID,
	})
}

// applyAction re-reads the live task, runs the transition table and
// persists the resulting status with pendingApproval kept in sync.
func (h *TaskHandler) applyAction(c *gin.Context, action lifecycle.Action) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	taskID := c.Param("id")

	task, err := h.store.Get(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	next, err := lifecycle.Apply(actor, task, action)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.store.Update(c.Request.Context(), taskID, lifecycle.StatusPatch(next)); err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.store.Get(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// CloseTask handles POST /api/tasks/:id/close
// Assignee only; sends an Open or In Progress task to Pending Approval.
func (h *TaskHandler) CloseTask(c *gin.Context) {
	h.applyAction(c, lifecycle.ActionClose)
}

// ApproveTask handles POST /api/tasks/:id/approve
// Manager only; Pending Approval becomes Closed.
func (h *TaskHandler) ApproveTask(c *gin.Context) {
	h.applyAction(c, lifecycle.ActionApprove)
}

// ReopenTask handles POST /api/tasks/:id/reopen
// Manager only; a pending or closed task goes back to Open.
func (h *TaskHandler) ReopenTask(c *gin.Context) {
	h.applyAction(c, lifecycle.ActionReopen)
}

// LogTime handles POST /api/tasks/:id/time
// Appends one ledger entry; the entry and the running total are written in
// a single store operation.
func (h *TaskHandler) LogTime(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	taskID := c.Param("id")

	var req LogTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Seconds <= 0 {
		respondError(c, taskerr.Validation("Time logged must be a positive number of seconds"))
		return
	}

	task, err := h.store.Get(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !authz.CanLogTime(actor, task) {
		respondError(c, taskerr.ErrForbidden)
		return
	}

	entry := models.TimeLog{
		By:      actor.Username,
		Seconds: req.Seconds,
		Note:    req.Note,
		At:      time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.store.AppendTimeLog(c.Request.Context(), taskID, entry); err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.store.Get(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// GetOverdue handles GET /api/tasks/overdue
// Overdue set scoped to the actor's visible tasks.
func (h *TaskHandler) GetOverdue(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	tasks, err := h.store.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	overdue := views.Overdue(authz.VisibleTo(actor, tasks), time.Now())
	c.JSON(http.StatusOK, gin.H{
		"tasks": overdue,
		"count": len(overdue),
	})
}

// GetPending handles GET /api/tasks/pending
// Manager-only pending-approval set.
func (h *TaskHandler) GetPending(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	if actor.Role != models.RoleManager {
		respondError(c, taskerr.ErrForbidden)
		return
	}

	tasks, err := h.store.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	pending := views.PendingApproval(tasks)
	c.JSON(http.StatusOK, gin.H{
		"tasks": pending,
		"count": len(pending),
	})
}

// GetActivity handles GET /api/tasks/activity
// Chart series over the actor's visible set, memoized per user until the
// next snapshot invalidates it.
func (h *TaskHandler) GetActivity(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}

	if series, hit := h.activity.Get(activityKey(actor)); hit {
		c.JSON(http.StatusOK, gin.H{"series": series})
		return
	}

	tasks, err := h.store.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	series := views.ActivitySeries(authz.VisibleTo(actor, tasks))
	h.activity.Set(activityKey(actor), series, activityTTL)
	c.JSON(http.StatusOK, gin.H{"series": series})
}
