package dto

import (
	"time"

	"github.com/slotwatch/central-api/internal/models"
)

// SchedulingPreferences describes when and where a student wants a test
// slot. DaysOfWeek uses lowercase English day names.
type SchedulingPreferences struct {
	Centre     string   `json:"centre" validate:"required"`
	DateStart  string   `json:"date_start" validate:"required"`
	DateEnd    string   `json:"date_end" validate:"required"`
	DaysOfWeek []string `json:"days_of_week" validate:"required,min=1"`
	TimeOfDay  *string  `json:"time_of_day,omitempty"`
}

// EnrollRequest is the payload submitted by a client to start
// monitoring for a student. Student is a free-form attribute map; the
// well-known keys are "email" and "phone", anything else rides along
// untouched.
type EnrollRequest struct {
	SchoolID         string                 `json:"school_id" validate:"required"`
	Student          map[string]interface{} `json:"student" validate:"required"`
	Preferences      SchedulingPreferences  `json:"preferences" validate:"required"`
	ConsentTimestamp string                 `json:"consent_timestamp" validate:"required"`
}

// UpdateTaskRequest is the administrative status override payload.
type UpdateTaskRequest struct {
	Status   string  `json:"status" validate:"required"`
	Progress int     `json:"progress" validate:"min=0,max=100"`
	Message  *string `json:"message,omitempty"`
}

// TaskDetail merges lifecycle fields with the decoded enrollment
// payload for list and detail responses.
type TaskDetail struct {
	TaskID           int64                  `json:"task_id"`
	SchoolID         string                 `json:"school_id"`
	Status           models.TaskStatus      `json:"status"`
	Progress         int                    `json:"progress"`
	Message          string                 `json:"message"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
	Student          map[string]interface{} `json:"student,omitempty"`
	Preferences      *SchedulingPreferences `json:"preferences,omitempty"`
	ConsentTimestamp string                 `json:"consent_timestamp,omitempty"`
}

// EnrollmentSearchQuery holds the criteria for the unindexed search.
type EnrollmentSearchQuery struct {
	Email    string
	Phone    string
	SchoolID string
}

// HasCriterion reports whether at least one search field is set.
func (q EnrollmentSearchQuery) HasCriterion() bool {
	return q.Email != "" || q.Phone != "" || q.SchoolID != ""
}

// StatsResponse exposes per-status task counts.
type StatsResponse struct {
	Counts      map[models.TaskStatus]int `json:"counts"`
	Total       int                       `json:"total"`
	GeneratedAt time.Time                 `json:"generated_at"`
}
