package task

import (
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/taskpilot/taskpilot/pkg/cerr"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// NormalizePriority maps provider-supplied text onto a known priority,
// falling back to medium for anything unrecognized.
func NormalizePriority(s string) Priority {
	switch Priority(s) {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return Priority(s)
	}
	return PriorityMedium
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Task represents one unit of work for one user. Description and CreatedAt
// are fixed at construction; only Status mutates afterwards.
type Task struct {
	ID          string
	Description string
	Priority    Priority
	Deadline    *string
	Status      Status
	CreatedAt   time.Time
}

// New creates a pending task. Priority defaults to medium when empty or
// unrecognized; deadline is free-form text from the analyzer, kept as-is.
func New(description string, priority Priority, deadline *string) (*Task, error) {
	if description == "" {
		return nil, cerr.NewError(cerr.InvalidArgument, "task description must not be empty", nil)
	}
	return &Task{
		ID:          ulid.Make().String(),
		Description: description,
		Priority:    NormalizePriority(string(priority)),
		Deadline:    deadline,
		Status:      StatusPending,
		CreatedAt:   time.Now(),
	}, nil
}

// MarkCompleted transitions the task to completed. Calling it on an already
// completed task is a no-op.
func (t *Task) MarkCompleted() {
	t.Status = StatusCompleted
}

// ToMap serializes the task for completion prompts and round-tripping.
// CreatedAt becomes an RFC 3339 string; an absent deadline stays nil rather
// than turning into "".
func (t *Task) ToMap() map[string]any {
	var deadline any
	if t.Deadline != nil {
		deadline = *t.Deadline
	}
	return map[string]any{
		"id":          t.ID,
		"description": t.Description,
		"priority":    string(t.Priority),
		"deadline":    deadline,
		"status":      string(t.Status),
		"created_at":  t.CreatedAt.Format(time.RFC3339Nano),
	}
}

// FromMap rebuilds a task from its ToMap form. Description is required and
// created_at must parse; everything else falls back to defaults.
func FromMap(data map[string]any) (*Task, error) {
	description, _ := data["description"].(string)
	if description == "" {
		return nil, cerr.NewError(cerr.InvalidArgument, "task mapping is missing description", nil)
	}

	createdRaw, _ := data["created_at"].(string)
	createdAt, err := time.Parse(time.RFC3339Nano, createdRaw)
	if err != nil {
		return nil, cerr.NewError(cerr.InvalidArgument, "task mapping has unparsable created_at", err)
	}

	id, _ := data["id"].(string)
	if id == "" {
		id = ulid.Make().String()
	}

	var deadline *string
	if d, ok := data["deadline"].(string); ok && d != "" {
		deadline = &d
	}

	priority, _ := data["priority"].(string)
	status, ok := data["status"].(string)
	if !ok || status == "" {
		status = string(StatusPending)
	}

	return &Task{
		ID:          id,
		Description: description,
		Priority:    NormalizePriority(priority),
		Deadline:    deadline,
		Status:      Status(status),
		CreatedAt:   createdAt,
	}, nil
}
