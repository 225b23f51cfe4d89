package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/slotwatch/central-api/internal/dto"
	"github.com/slotwatch/central-api/internal/models"
	appErrors "github.com/slotwatch/central-api/pkg/errors"
	"github.com/slotwatch/central-api/pkg/export"
)

// ExportFormat selects the rendered output type.
type ExportFormat string

// Supported export formats.
const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

var exportHeaders = []string{"task_id", "school_id", "status", "progress", "email", "phone", "centre", "date_start", "date_end", "created_at"}

type enrollmentLister interface {
	ListEnrollments(ctx context.Context, filter models.EnrollmentFilter) ([]dto.TaskDetail, *models.Pagination, error)
}

// ExportService renders enrollment listings for operators.
type ExportService struct {
	tasks  enrollmentLister
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewExportService constructs ExportService.
func NewExportService(tasks enrollmentLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{tasks: tasks, csv: export.NewCSVExporter(), pdf: export.NewPDFExporter(), logger: logger}
}

const exportPageSize = 1000

// Render produces the export document and its content type. The full
// result set is rendered, paging through the lister until the reported
// total is exhausted.
func (s *ExportService) Render(ctx context.Context, schoolID string, format ExportFormat) ([]byte, string, error) {
	var details []dto.TaskDetail
	filter := models.EnrollmentFilter{SchoolID: schoolID, Limit: exportPageSize}
	for {
		page, pagination, err := s.tasks.ListEnrollments(ctx, filter)
		if err != nil {
			return nil, "", err
		}
		details = append(details, page...)
		filter.Offset += len(page)
		if len(page) == 0 || pagination == nil || filter.Offset >= pagination.TotalCount {
			break
		}
	}

	dataset := export.Dataset{Headers: exportHeaders, Rows: make([]map[string]string, 0, len(details))}
	for _, detail := range details {
		row := map[string]string{
			"task_id":    strconv.FormatInt(detail.TaskID, 10),
			"school_id":  detail.SchoolID,
			"status":     string(detail.Status),
			"progress":   strconv.Itoa(detail.Progress),
			"email":      studentField(detail.Student, "email"),
			"phone":      studentField(detail.Student, "phone"),
			"created_at": detail.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		if detail.Preferences != nil {
			row["centre"] = detail.Preferences.Centre
			row["date_start"] = detail.Preferences.DateStart
			row["date_end"] = detail.Preferences.DateEnd
		}
		dataset.Rows = append(dataset.Rows, row)
	}

	switch format {
	case ExportFormatCSV, "":
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return payload, "text/csv", nil
	case ExportFormatPDF:
		title := "enrollments"
		if schoolID != "" {
			title = fmt.Sprintf("enrollments - %s", schoolID)
		}
		payload, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", strings.ToLower(string(format))))
	}
}
