package domain

import "time"

// Priority classifies how urgent a task is.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank maps a priority onto a comparable weight (high outranks low).
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether the priority is one of the known levels.
func (p Priority) Valid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// Task represents a single actionable item owned by a user.
type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority"`
	CategoryID  string     `json:"category_id"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// DueBefore reports whether the task has a due date strictly before the reference time.
func (t *Task) DueBefore(reference time.Time) bool {
	return t != nil && t.DueDate != nil && t.DueDate.Before(reference)
}

// DueOn reports whether the task is due on the same calendar day as the reference time.
func (t *Task) DueOn(reference time.Time) bool {
	if t == nil || t.DueDate == nil {
		return false
	}
	dy, dm, dd := t.DueDate.Date()
	ry, rm, rd := reference.Date()
	return dy == ry && dm == rm && dd == rd
}
