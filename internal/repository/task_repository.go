package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/slotwatch/central-api/internal/models"
)

// TaskRepository handles persistence of monitoring tasks.
type TaskRepository struct {
	db *sqlx.DB
}

// NewTaskRepository constructs the repository.
func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create persists a new task and assigns its identifier.
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = now
	}
	const query = `INSERT INTO tasks (school_id, payload, status, progress, message, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := r.db.GetContext(ctx, &task.ID, query,
		task.SchoolID, task.Payload, task.Status, task.Progress, task.Message, task.CreatedAt, task.UpdatedAt); err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// FindByID returns a task by its identifier. Callers translate
// sql.ErrNoRows into the domain NotFound error.
func (r *TaskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	const query = `SELECT id, school_id, payload, status, progress, message, created_at, updated_at
        FROM tasks WHERE id = $1`
	var task models.Task
	if err := r.db.GetContext(ctx, &task, query, id); err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByFilter returns tasks for a school, optionally restricted to
// those created at or after the filter's Since instant.
func (r *TaskRepository) ListByFilter(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	conditions := []string{"school_id = $1"}
	args := []interface{}{filter.SchoolID}
	if filter.Since != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)+1))
		args = append(args, *filter.Since)
	}
	query := fmt.Sprintf(`SELECT id, school_id, payload, status, progress, message, created_at, updated_at
        FROM tasks WHERE %s`, strings.Join(conditions, " AND "))

	var tasks []models.Task
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateStatus overwrites status, progress and optionally message,
// refreshing updated_at. It returns the number of affected rows so the
// service can distinguish a missing task.
func (r *TaskRepository) UpdateStatus(ctx context.Context, id int64, status models.TaskStatus, progress int, message *string) (int64, error) {
	var (
		query string
		args  []interface{}
	)
	if message != nil {
		query = `UPDATE tasks SET status = $2, progress = $3, message = $4, updated_at = $5 WHERE id = $1`
		args = []interface{}{id, status, progress, *message, time.Now().UTC()}
	} else {
		query = `UPDATE tasks SET status = $2, progress = $3, updated_at = $4 WHERE id = $1`
		args = []interface{}{id, status, progress, time.Now().UTC()}
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update task status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update task status: %w", err)
	}
	return affected, nil
}

// ListPaginated returns one page of tasks plus the total count,
// optionally scoped to a school.
func (r *TaskRepository) ListPaginated(ctx context.Context, filter models.EnrollmentFilter) ([]models.Task, int, error) {
	clause := ""
	args := []interface{}{}
	if filter.SchoolID != "" {
		clause = " WHERE school_id = $1"
		args = append(args, filter.SchoolID)
	}

	query := fmt.Sprintf(`SELECT id, school_id, payload, status, progress, message, created_at, updated_at
        FROM tasks%s ORDER BY id LIMIT %d OFFSET %d`, clause, filter.Limit, filter.Offset)

	var tasks []models.Task
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list enrollments: %w", err)
	}

	countQuery := "SELECT COUNT(*) FROM tasks" + clause
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count enrollments: %w", err)
	}
	return tasks, total, nil
}

// CountByStatus aggregates task counts per status.
func (r *TaskRepository) CountByStatus(ctx context.Context) (map[models.TaskStatus]int, error) {
	const query = `SELECT status, COUNT(*) AS count FROM tasks GROUP BY status`
	rows := []struct {
		Status models.TaskStatus `db:"status"`
		Count  int               `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count tasks by status: %w", err)
	}
	counts := make(map[models.TaskStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
