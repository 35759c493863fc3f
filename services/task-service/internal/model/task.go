package model

import "time"

// Priority is the closed set of task priorities.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func ParsePriority(s string) (Priority, bool) {
	switch Priority(s) {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return Priority(s), true
	case "":
		return PriorityMedium, true
	default:
		return "", false
	}
}

type Task struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	DueDate     time.Time
	Priority    Priority
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
