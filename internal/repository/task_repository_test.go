package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/slotwatch/central-api/internal/models"
)

func newTaskRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func taskColumns() []string {
	return []string{"id", "school_id", "payload", "status", "progress", "message", "created_at", "updated_at"}
}

func TestTaskRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newTaskRepoMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tasks (school_id, payload, status, progress, message, created_at, updated_at)")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	task := &models.Task{
		SchoolID: "school-1",
		Payload:  []byte(`{"school_id":"school-1"}`),
		Status:   models.TaskStatusPending,
		Progress: 10,
		Message:  "enrollment received, awaiting processing",
	}
	require.NoError(t, repo.Create(context.Background(), task))
	require.Equal(t, int64(42), task.ID)
	require.False(t, task.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositoryListByFilterWithSince(t *testing.T) {
	db, mock, cleanup := newTaskRepoMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	since := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(taskColumns()).
		AddRow(int64(1), "school-1", []byte(`{}`), models.TaskStatusPending, 10, "msg", time.Now(), time.Now())
	mock.ExpectQuery("SELECT id, school_id, payload, status, progress, message, created_at, updated_at\\s+FROM tasks WHERE school_id = \\$1 AND created_at >= \\$2").
		WithArgs("school-1", since).
		WillReturnRows(rows)

	tasks, err := repo.ListByFilter(context.Background(), models.TaskFilter{SchoolID: "school-1", Since: &since})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositoryUpdateStatusReportsAffectedRows(t *testing.T) {
	db, mock, cleanup := newTaskRepoMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	message := "agent reported 3 open slots"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE tasks SET status = $2, progress = $3, message = $4, updated_at = $5 WHERE id = $1")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.UpdateStatus(context.Background(), 7, models.TaskStatusCompleted, 100, &message)
	require.NoError(t, err)
	require.Equal(t, int64(1), affected)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE tasks SET status = $2, progress = $3, updated_at = $4 WHERE id = $1")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err = repo.UpdateStatus(context.Background(), 9999, models.TaskStatusFailed, 0, nil)
	require.NoError(t, err)
	require.Equal(t, int64(0), affected)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositoryListPaginated(t *testing.T) {
	db, mock, cleanup := newTaskRepoMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	rows := sqlmock.NewRows(taskColumns()).
		AddRow(int64(1), "school-1", []byte(`{}`), models.TaskStatusPending, 10, "", time.Now(), time.Now()).
		AddRow(int64(2), "school-1", []byte(`{}`), models.TaskStatusCompleted, 100, "", time.Now(), time.Now())
	mock.ExpectQuery("SELECT id, school_id, payload, status, progress, message, created_at, updated_at\\s+FROM tasks WHERE school_id = \\$1 ORDER BY id LIMIT 100 OFFSET 0").
		WithArgs("school-1").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tasks WHERE school_id = $1")).
		WithArgs("school-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	tasks, total, err := repo.ListPaginated(context.Background(), models.EnrollmentFilter{SchoolID: "school-1", Limit: 100, Offset: 0})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	require.Equal(t, 2, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositoryCountByStatus(t *testing.T) {
	db, mock, cleanup := newTaskRepoMock(t)
	defer cleanup()
	repo := NewTaskRepository(db)

	rows := sqlmock.NewRows([]string{"status", "count"}).
		AddRow("pending", 3).
		AddRow("completed", 2)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status, COUNT(*) AS count FROM tasks GROUP BY status")).
		WillReturnRows(rows)

	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, counts[models.TaskStatusPending])
	require.Equal(t, 2, counts[models.TaskStatusCompleted])
	require.NoError(t, mock.ExpectationsWereMet())
}
