package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/slotwatch/central-api/internal/dto"
	"github.com/slotwatch/central-api/internal/models"
	"github.com/slotwatch/central-api/internal/service"
	appErrors "github.com/slotwatch/central-api/pkg/errors"
	"github.com/slotwatch/central-api/pkg/response"
)

type enrollmentService interface {
	ListEnrollments(ctx context.Context, filter models.EnrollmentFilter) ([]dto.TaskDetail, *models.Pagination, error)
	Search(ctx context.Context, query dto.EnrollmentSearchQuery) ([]dto.TaskDetail, error)
}

type enrollmentExporter interface {
	Render(ctx context.Context, schoolID string, format service.ExportFormat) ([]byte, string, error)
}

// EnrollmentHandler exposes the operator-facing enrollment listings.
type EnrollmentHandler struct {
	enrollments enrollmentService
	exporter    enrollmentExporter
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments enrollmentService, exporter enrollmentExporter) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments, exporter: exporter}
}

// List godoc
// @Summary Paginated enrollment listing
// @Tags Enrollments
// @Produce json
// @Param limit query int false "Page size (max 1000, default 100)"
// @Param offset query int false "Offset (default 0)"
// @Param school_id query string false "Filter by school"
// @Success 200 {object} response.Envelope
// @Router /enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	var filter models.EnrollmentFilter
	filter.SchoolID = c.Query("school_id")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be an integer"))
		return
	}
	filter.Limit = limit
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "offset must be an integer"))
		return
	}
	filter.Offset = offset
	if filter.Offset < 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "offset must be non-negative"))
		return
	}
	enrollments, pagination, err := h.enrollments.ListEnrollments(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollments, pagination)
}

// Search godoc
// @Summary Search enrollments by student email, phone or school
// @Tags Enrollments
// @Produce json
// @Param email query string false "Exact student email"
// @Param phone query string false "Exact student phone"
// @Param school_id query string false "School identifier"
// @Success 200 {object} response.Envelope
// @Router /enrollments/search [get]
func (h *EnrollmentHandler) Search(c *gin.Context) {
	query := dto.EnrollmentSearchQuery{
		Email:    c.Query("email"),
		Phone:    c.Query("phone"),
		SchoolID: c.Query("school_id"),
	}
	results, err := h.enrollments.Search(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, nil)
}

// Export godoc
// @Summary Export enrollments as CSV or PDF
// @Tags Enrollments
// @Produce text/csv
// @Param school_id query string false "Filter by school"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /enrollments/export [get]
func (h *EnrollmentHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "export disabled"))
		return
	}
	format := service.ExportFormat(strings.ToLower(c.DefaultQuery("format", "csv")))
	payload, contentType, err := h.exporter.Render(c.Request.Context(), c.Query("school_id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("enrollments-%s.%s", time.Now().UTC().Format("20060102-150405"), format)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, payload)
}
