package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotwatch/central-api/internal/dto"
	"github.com/slotwatch/central-api/internal/models"
	appErrors "github.com/slotwatch/central-api/pkg/errors"
)

type taskServiceMock struct {
	enrollID  int64
	enrollErr error
	getResp   *dto.TaskDetail
	getErr    error
	updateErr error
	listResp  []dto.TaskDetail
	statsResp *dto.StatsResponse
}

func (m *taskServiceMock) Enroll(ctx context.Context, req dto.EnrollRequest) (int64, error) {
	if m.enrollErr != nil {
		return 0, m.enrollErr
	}
	return m.enrollID, nil
}

func (m *taskServiceMock) List(ctx context.Context, filter models.TaskFilter) ([]dto.TaskDetail, error) {
	return m.listResp, nil
}

func (m *taskServiceMock) Get(ctx context.Context, id int64) (*dto.TaskDetail, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.getResp, nil
}

func (m *taskServiceMock) UpdateStatus(ctx context.Context, id int64, req dto.UpdateTaskRequest) (*dto.TaskDetail, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return m.getResp, nil
}

func (m *taskServiceMock) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	return m.statsResp, nil
}

func enrollBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(dto.EnrollRequest{
		SchoolID: "school-1",
		Student:  map[string]interface{}{"email": "alex@example.com"},
		Preferences: dto.SchedulingPreferences{
			Centre:     "Berlin-Mitte",
			DateStart:  "2026-09-01",
			DateEnd:    "2026-10-31",
			DaysOfWeek: []string{"monday"},
		},
		ConsentTimestamp: "2026-08-20T10:00:00Z",
	})
	require.NoError(t, err)
	return body
}

func TestTaskHandlerEnrollSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTaskHandler(&taskServiceMock{enrollID: 42})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/api/enroll", bytes.NewReader(enrollBody(t)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Enroll(c)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.EqualValues(t, 42, resp["task_id"])
}

func TestTaskHandlerEnrollStorageFailureStays200(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTaskHandler(&taskServiceMock{
		enrollErr: appErrors.Clone(appErrors.ErrInternal, "failed to create task"),
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/api/enroll", bytes.NewReader(enrollBody(t)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Enroll(c)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp["status"])
	assert.Equal(t, "failed to create task", resp["message"])
}

func TestTaskHandlerEnrollMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTaskHandler(&taskServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/api/enroll", bytes.NewReader([]byte(`not json`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Enroll(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskHandlerListRequiresSchoolID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTaskHandler(&taskServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/api/tasks", nil)
	c.Request = req

	handler.List(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTaskHandler(&taskServiceMock{
		getErr: appErrors.Clone(appErrors.ErrNotFound, "task not found"),
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/api/tasks/999", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "999"}}

	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskHandlerGetNonNumericID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTaskHandler(&taskServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/api/tasks/abc", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	handler.Get(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskHandlerUpdateNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTaskHandler(&taskServiceMock{
		updateErr: appErrors.Clone(appErrors.ErrNotFound, "task not found"),
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.UpdateTaskRequest{Status: "completed", Progress: 100})
	req, _ := http.NewRequest(http.MethodPut, "/api/tasks/999", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "999"}}

	handler.Update(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
