package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/slotwatch/central-api/internal/dto"
	"github.com/slotwatch/central-api/internal/models"
	appErrors "github.com/slotwatch/central-api/pkg/errors"
)

const enrollmentReceivedMessage = "enrollment received, awaiting processing"

// Listing more than this many enrollments per page is never allowed.
const (
	maxEnrollmentPageSize     = 1000
	defaultEnrollmentPageSize = 100
)

type taskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id int64) (*models.Task, error)
	ListByFilter(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	UpdateStatus(ctx context.Context, id int64, status models.TaskStatus, progress int, message *string) (int64, error)
	ListPaginated(ctx context.Context, filter models.EnrollmentFilter) ([]models.Task, int, error)
	CountByStatus(ctx context.Context) (map[models.TaskStatus]int, error)
}

// TaskService orchestrates the task lifecycle: enrollment intake,
// status queries, administrative overrides and agent report handling.
type TaskService struct {
	repo      taskRepository
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	now       func() time.Time
}

// NewTaskService constructs TaskService.
func NewTaskService(repo taskRepository, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *TaskService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskService{repo: repo, validator: validate, logger: logger, metrics: metrics, now: time.Now}
}

// Enroll captures an enrollment request verbatim as a new pending task
// and returns its identifier. Resubmission creates a new independent
// task; deduplication is deliberately not performed here.
func (s *TaskService) Enroll(ctx context.Context, req dto.EnrollRequest) (int64, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode enrollment payload")
	}
	task := &models.Task{
		SchoolID: req.SchoolID,
		Payload:  payload,
		Status:   models.TaskStatusPending,
		Progress: 10,
		Message:  enrollmentReceivedMessage,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create task")
	}
	s.metrics.RecordTaskCreated(req.SchoolID)
	s.logger.Info("task enrolled", zap.Int64("task_id", task.ID), zap.String("school_id", req.SchoolID))
	return task.ID, nil
}

// List returns tasks for a school, payload fields flattened alongside
// lifecycle fields, optionally restricted by a created-at lower bound.
func (s *TaskService) List(ctx context.Context, filter models.TaskFilter) ([]dto.TaskDetail, error) {
	tasks, err := s.repo.ListByFilter(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tasks")
	}
	details := make([]dto.TaskDetail, 0, len(tasks))
	for _, task := range tasks {
		details = append(details, s.toDetail(task))
	}
	return details, nil
}

// Get returns the full task detail including decoded payload fields.
func (s *TaskService) Get(ctx context.Context, id int64) (*dto.TaskDetail, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "task not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load task")
	}
	detail := s.toDetail(*task)
	return &detail, nil
}

// UpdateStatus applies an administrative override. The status must
// parse to a known value but any transition between known statuses is
// permitted; concurrent writers are last-write-wins.
func (s *TaskService) UpdateStatus(ctx context.Context, id int64, req dto.UpdateTaskRequest) (*dto.TaskDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid update payload")
	}
	status, err := models.ParseTaskStatus(req.Status)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	affected, err := s.repo.UpdateStatus(ctx, id, status, req.Progress, req.Message)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update task")
	}
	if affected == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "task not found")
	}
	return s.Get(ctx, id)
}

// ApplyReport forces the referenced task to completed with a message
// derived from the slot count. A report against an unknown task is
// acknowledged without error and leaves no record; only the side
// effect on an existing task is durable.
func (s *TaskService) ApplyReport(ctx context.Context, req dto.ReportRequest) (bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report payload")
	}
	if _, err := s.repo.FindByID(ctx, req.TaskID); err != nil {
		if err == sql.ErrNoRows {
			s.metrics.RecordReport(false)
			s.logger.Warn("report for unknown task acknowledged",
				zap.Int64("task_id", req.TaskID), zap.String("school_id", req.SchoolID))
			return false, nil
		}
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load task")
	}
	message := fmt.Sprintf("agent reported %d open slots", len(req.SlotsFound))
	if _, err := s.repo.UpdateStatus(ctx, req.TaskID, models.TaskStatusCompleted, 100, &message); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to apply report")
	}
	s.metrics.RecordReport(true)
	s.logger.Info("report applied",
		zap.Int64("task_id", req.TaskID),
		zap.Int("slots_found", len(req.SlotsFound)),
		zap.String("detected_at", req.DetectedAt))
	return true, nil
}

// ListEnrollments returns a page of enrollments with the total count.
func (s *TaskService) ListEnrollments(ctx context.Context, filter models.EnrollmentFilter) ([]dto.TaskDetail, *models.Pagination, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultEnrollmentPageSize
	}
	if filter.Limit > maxEnrollmentPageSize {
		filter.Limit = maxEnrollmentPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	tasks, total, err := s.repo.ListPaginated(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	details := make([]dto.TaskDetail, 0, len(tasks))
	for _, task := range tasks {
		details = append(details, s.toDetail(task))
	}
	pagination := &models.Pagination{Limit: filter.Limit, Offset: filter.Offset, TotalCount: total}
	return details, pagination, nil
}

// Search filters enrollments by exact student email or phone after an
// optional database-level school filter. Post-filtering happens in
// memory over the decoded payloads of every matching row, paged through
// the repository; fine at current data volumes, an index-backed lookup
// is the upgrade path if that changes.
func (s *TaskService) Search(ctx context.Context, query dto.EnrollmentSearchQuery) ([]dto.TaskDetail, error) {
	if !query.HasCriterion() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one of email, phone or school_id is required")
	}
	results := make([]dto.TaskDetail, 0)
	filter := models.EnrollmentFilter{SchoolID: query.SchoolID, Limit: maxEnrollmentPageSize, Offset: 0}
	for {
		tasks, total, err := s.repo.ListPaginated(ctx, filter)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search enrollments")
		}
		for _, task := range tasks {
			detail := s.toDetail(task)
			if query.Email != "" && studentField(detail.Student, "email") != query.Email {
				continue
			}
			if query.Phone != "" && studentField(detail.Student, "phone") != query.Phone {
				continue
			}
			results = append(results, detail)
		}
		filter.Offset += len(tasks)
		if len(tasks) == 0 || filter.Offset >= total {
			break
		}
	}
	return results, nil
}

// Stats aggregates task counts per status. Every known status is
// present in the response, zero-valued when absent from storage.
func (s *TaskService) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate stats")
	}
	full := make(map[models.TaskStatus]int, len(models.AllTaskStatuses))
	total := 0
	for _, status := range models.AllTaskStatuses {
		full[status] = counts[status]
		total += counts[status]
	}
	// Statuses outside the enumeration can exist via legacy writes;
	// keep them so the counts still sum to the true total.
	for status, count := range counts {
		if _, ok := full[status]; !ok {
			full[status] = count
			total += count
		}
	}
	return &dto.StatsResponse{Counts: full, Total: total, GeneratedAt: s.now().UTC()}, nil
}

func (s *TaskService) toDetail(task models.Task) dto.TaskDetail {
	detail := dto.TaskDetail{
		TaskID:    task.ID,
		SchoolID:  task.SchoolID,
		Status:    task.Status,
		Progress:  task.Progress,
		Message:   task.Message,
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}
	var payload dto.EnrollRequest
	if err := json.Unmarshal(task.Payload, &payload); err != nil {
		s.logger.Warn("undecodable task payload", zap.Int64("task_id", task.ID), zap.Error(err))
		return detail
	}
	detail.Student = payload.Student
	prefs := payload.Preferences
	detail.Preferences = &prefs
	detail.ConsentTimestamp = payload.ConsentTimestamp
	return detail
}

func studentField(student map[string]interface{}, key string) string {
	if student == nil {
		return ""
	}
	if value, ok := student[key].(string); ok {
		return value
	}
	return ""
}
