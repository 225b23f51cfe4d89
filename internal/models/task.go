package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// TaskStatus represents the lifecycle of a monitoring task.
type TaskStatus string

// Possible task statuses.
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// AllTaskStatuses lists every known status in lifecycle order.
var AllTaskStatuses = []TaskStatus{
	TaskStatusPending,
	TaskStatusProcessing,
	TaskStatusCompleted,
	TaskStatusFailed,
}

// ParseTaskStatus validates a raw status string against the enumeration.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	status := TaskStatus(raw)
	for _, known := range AllTaskStatuses {
		if status == known {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown task status %q", raw)
}

// CanTransition reports whether moving from one status to another is a
// forward lifecycle step. Administrative updates are allowed to ignore
// this and set any known status directly; agents only ever trigger the
// transition to completed.
func (s TaskStatus) CanTransition(to TaskStatus) bool {
	switch s {
	case TaskStatusPending:
		return to == TaskStatusProcessing || to == TaskStatusCompleted || to == TaskStatusFailed
	case TaskStatusProcessing:
		return to == TaskStatusCompleted || to == TaskStatusFailed
	default:
		return false
	}
}

// Terminal reports whether the status ends the lifecycle.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// Task represents one student's slot-monitoring enrollment job. The
// payload is the enrollment request captured verbatim at creation and
// never mutated afterwards.
type Task struct {
	ID        int64           `db:"id" json:"id"`
	SchoolID  string          `db:"school_id" json:"school_id"`
	Payload   json.RawMessage `db:"payload" json:"payload"`
	Status    TaskStatus      `db:"status" json:"status"`
	Progress  int             `db:"progress" json:"progress"`
	Message   string          `db:"message" json:"message"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// TaskFilter provides filters for listing tasks.
type TaskFilter struct {
	SchoolID string
	Since    *time.Time
}

// EnrollmentFilter provides filters for the paginated enrollment listing.
type EnrollmentFilter struct {
	SchoolID string
	Limit    int
	Offset   int
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Limit      int `json:"limit"`
	Offset     int `json:"offset"`
	TotalCount int `json:"total_count"`
}
