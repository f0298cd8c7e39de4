package models

// TaskStatus represents the workflow state of a task
type TaskStatus string

const (
	StatusOpen            TaskStatus = "Open"
	StatusInProgress      TaskStatus = "In Progress"
	StatusPendingApproval TaskStatus = "Pending Approval"
	StatusClosed          TaskStatus = "Closed"
)

// ValidStatus reports whether s is one of the four workflow states.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusPendingApproval, StatusClosed:
		return true
	}
	return false
}

// TaskPriority represents the priority of a task
type TaskPriority string

const (
	PriorityHigh   TaskPriority = "High"
	PriorityMedium TaskPriority = "Medium"
	PriorityLow    TaskPriority = "Low"
)

// TimeLog is a single append-only entry in a task's time ledger.
// Entries are never edited or removed after append; insertion order is
// chronological order of logging.
type TimeLog struct {
	By      string `json:"by" bson:"by"`
	Seconds int    `json:"seconds" bson:"seconds"`
	Note    string `json:"note" bson:"note"`
	At      string `json:"at" bson:"at"` // ISO-8601
}

// TimeLogs is stored as a JSON column on the sqlite backend and as an
// embedded array on mongo.
type TimeLogs []TimeLog

// Task represents a task in the system. All date/time fields are ISO-8601
// strings, matching the persisted record format.
type Task struct {
	ID               string       `json:"id" bson:"id" gorm:"primaryKey"`
	Title            string       `json:"title" bson:"title" gorm:"not null"`
	Description      string       `json:"description" bson:"description"`
	Priority         TaskPriority `json:"priority" bson:"priority" gorm:"default:'Medium'"`
	Status           TaskStatus   `json:"status" bson:"status" gorm:"not null;default:'Open'"`
	Assignee         string       `json:"assignee" bson:"assignee" gorm:"index"`
	CreatedBy        string       `json:"createdBy" bson:"createdBy" gorm:"column:created_by"`
	StartDate        string       `json:"startDate" bson:"startDate" gorm:"column:start_date"`
	DueDate          string       `json:"dueDate" bson:"dueDate" gorm:"column:due_date"`
	TimeSpentSeconds int          `json:"timeSpentSeconds" bson:"timeSpentSeconds" gorm:"column:time_spent_seconds"`
	TimeLogs         TimeLogs     `json:"timeLogs" bson:"timeLogs" gorm:"column:time_logs;serializer:json"`
	PendingApproval  bool         `json:"pendingApproval" bson:"pendingApproval" gorm:"column:pending_approval"`
	ManuallyAssigned bool         `json:"manuallyAssigned" bson:"manuallyAssigned" gorm:"column:manually_assigned"`
	Prerequisites    string       `json:"prerequisites" bson:"prerequisites"`
	Milestones       string       `json:"milestones" bson:"milestones"`
	Techstack        string       `json:"techstack" bson:"techstack"`
	CreatedAt        string       `json:"createdAt" bson:"createdAt" gorm:"column:created_at"`
	UpdatedAt        string       `json:"updatedAt" bson:"updatedAt" gorm:"column:updated_at"`
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}

// TaskPatch carries a partial update. Nil fields are left untouched.
// Time ledger fields are deliberately absent: the ledger only grows through
// the store's AppendTimeLog operation.
type TaskPatch struct {
	Title            *string       `json:"title"`
	Description      *string       `json:"description"`
	Priority         *TaskPriority `json:"priority"`
	Status           *TaskStatus   `json:"status"`
	Assignee         *string       `json:"assignee"`
	StartDate        *string       `json:"startDate"`
	DueDate          *string       `json:"dueDate"`
	PendingApproval  *bool         `json:"pendingApproval"`
	ManuallyAssigned *bool         `json:"manuallyAssigned"`
	Prerequisites    *string       `json:"prerequisites"`
	Milestones       *string       `json:"milestones"`
	Techstack        *string       `json:"techstack"`
}

// Apply copies the set fields of the patch onto t.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Assignee != nil {
		t.Assignee = *p.Assignee
	}
	if p.StartDate != nil {
		t.StartDate = *p.StartDate
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.PendingApproval != nil {
		t.PendingApproval = *p.PendingApproval
	}
	if p.ManuallyAssigned != nil {
		t.ManuallyAssigned = *p.ManuallyAssigned
	}
	if p.Prerequisites != nil {
		t.Prerequisites = *p.Prerequisites
	}
	if p.Milestones != nil {
		t.Milestones = *p.Milestones
	}
	if p.Techstack != nil {
		t.Techstack = *p.Techstack
	}
}

// Fields returns the set fields keyed by their persisted (JSON/BSON) names,
// for backends that update documents field-by-field.
func (p TaskPatch) Fields() map[string]any {
	out := map[string]any{}
	if p.Title != nil {
		out["title"] = *p.Title
	}
	if p.Description != nil {
		out["description"] = *p.Description
	}
	if p.Priority != nil {
		out["priority"] = *p.Priority
	}
	if p.Status != nil {
		out["status"] = *p.Status
	}
	if p.Assignee != nil {
		out["assignee"] = *p.Assignee
	}
	if p.StartDate != nil {
		out["startDate"] = *p.StartDate
	}
	if p.DueDate != nil {
		out["dueDate"] = *p.DueDate
	}
	if p.PendingApproval != nil {
		out["pendingApproval"] = *p.PendingApproval
	}
	if p.ManuallyAssigned != nil {
		out["manuallyAssigned"] = *p.ManuallyAssigned
	}
	if p.Prerequisites != nil {
		out["prerequisites"] = *p.Prerequisites
	}
	if p.Milestones != nil {
		out["milestones"] = *p.Milestones
	}
	if p.Techstack != nil {
		out["techstack"] = *p.Techstack
	}
	return out
}
