package task

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidDateFormat = errors.New("invalid date format, use YYYY-MM-DD")
	ErrTaskNotFound      = errors.New("task not found")
	ErrInvalidPriority   = errors.New("invalid priority")
	ErrInvalidStatus     = errors.New("invalid status")
)

// Status represents the progress state of a task.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// ParseStatus matches s case-insensitively against the known statuses.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, ErrInvalidStatus)
}

// Priority represents the importance level of a task.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Priorities lists every priority in display order.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// ParsePriority matches s case-insensitively against the known priorities.
func ParsePriority(s string) (Priority, error) {
	for _, p := range Priorities {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, ErrInvalidPriority)
}

// Task is a unit of work tracked by a caller-assigned id.
type Task struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`
	DueDate     Date     `json:"due_date"`
}

// View is a Task annotated with the days left until its due date.
// DaysRemaining is negative for overdue tasks.
type View struct {
	Task
	DaysRemaining int `json:"days_remaining"`
}
