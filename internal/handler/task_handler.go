package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/slotwatch/central-api/internal/dto"
	"github.com/slotwatch/central-api/internal/models"
	appErrors "github.com/slotwatch/central-api/pkg/errors"
	"github.com/slotwatch/central-api/pkg/response"
)

type taskService interface {
	Enroll(ctx context.Context, req dto.EnrollRequest) (int64, error)
	List(ctx context.Context, filter models.TaskFilter) ([]dto.TaskDetail, error)
	Get(ctx context.Context, id int64) (*dto.TaskDetail, error)
	UpdateStatus(ctx context.Context, id int64, req dto.UpdateTaskRequest) (*dto.TaskDetail, error)
	Stats(ctx context.Context) (*dto.StatsResponse, error)
}

// TaskHandler exposes the task lifecycle endpoints.
type TaskHandler struct {
	tasks taskService
}

// NewTaskHandler constructs TaskHandler.
func NewTaskHandler(tasks taskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// Enroll godoc
// @Summary Enroll a student for slot monitoring
// @Tags Tasks
// @Accept json
// @Produce json
// @Param payload body dto.EnrollRequest true "Enrollment payload"
// @Success 200 {object} map[string]interface{}
// @Router /enroll [post]
func (h *TaskHandler) Enroll(c *gin.Context) {
	var req dto.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid enrollment payload"))
		return
	}
	taskID, err := h.tasks.Enroll(c.Request.Context(), req)
	if err != nil {
		appErr := appErrors.FromError(err)
		if appErr.Code == appErrors.ErrValidation.Code {
			response.Error(c, err)
			return
		}
		// Enrollment clients predate the error envelope: storage
		// failures stay HTTP 200 with a status field in the body.
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": appErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "task_id": taskID})
}

// List godoc
// @Summary List tasks for a school
// @Tags Tasks
// @Produce json
// @Param school_id query string true "School identifier"
// @Param since query string false "RFC3339 lower bound on creation time"
// @Success 200 {object} response.Envelope
// @Router /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	schoolID := c.Query("school_id")
	if schoolID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "school_id is required"))
		return
	}
	filter := models.TaskFilter{SchoolID: schoolID}
	if raw := c.Query("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "since must be an RFC3339 timestamp"))
			return
		}
		filter.Since = &since
	}
	tasks, err := h.tasks.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"tasks": tasks}, nil)
}

// Get godoc
// @Summary Get task detail
// @Tags Tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} response.Envelope
// @Router /tasks/{id} [get]
func (h *TaskHandler) Get(c *gin.Context) {
	id, err := parseTaskID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	detail, err := h.tasks.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Update godoc
// @Summary Administrative task status override
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Param payload body dto.UpdateTaskRequest true "Status update payload"
// @Success 200 {object} response.Envelope
// @Router /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	id, err := parseTaskID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid update payload"))
		return
	}
	detail, err := h.tasks.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Stats godoc
// @Summary Task counts by status
// @Tags Tasks
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /stats [get]
func (h *TaskHandler) Stats(c *gin.Context) {
	stats, err := h.tasks.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

func parseTaskID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, "task id must be numeric")
	}
	return id, nil
}
