package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotwatch/central-api/internal/dto"
	"github.com/slotwatch/central-api/internal/models"
	appErrors "github.com/slotwatch/central-api/pkg/errors"
)

type staticEnrollmentLister struct {
	details []dto.TaskDetail
}

func (s *staticEnrollmentLister) ListEnrollments(ctx context.Context, filter models.EnrollmentFilter) ([]dto.TaskDetail, *models.Pagination, error) {
	return s.details, &models.Pagination{Limit: filter.Limit, TotalCount: len(s.details)}, nil
}

func exportFixture() *staticEnrollmentLister {
	return &staticEnrollmentLister{details: []dto.TaskDetail{
		{
			TaskID:    1,
			SchoolID:  "school-1",
			Status:    models.TaskStatusPending,
			Progress:  10,
			CreatedAt: time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
			Student:   map[string]interface{}{"email": "alex@example.com", "phone": "+4915550001"},
			Preferences: &dto.SchedulingPreferences{
				Centre:    "Berlin-Mitte",
				DateStart: "2026-09-01",
				DateEnd:   "2026-10-31",
			},
		},
	}}
}

func TestExportServiceRenderCSV(t *testing.T) {
	svc := NewExportService(exportFixture(), nil)

	payload, contentType, err := svc.Render(context.Background(), "school-1", ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(exportHeaders, ","), lines[0])
	assert.Contains(t, lines[1], "alex@example.com")
	assert.Contains(t, lines[1], "Berlin-Mitte")
}

type pagingEnrollmentLister struct {
	details []dto.TaskDetail
	calls   int
}

func (p *pagingEnrollmentLister) ListEnrollments(ctx context.Context, filter models.EnrollmentFilter) ([]dto.TaskDetail, *models.Pagination, error) {
	p.calls++
	pagination := &models.Pagination{Limit: filter.Limit, Offset: filter.Offset, TotalCount: len(p.details)}
	if filter.Offset >= len(p.details) {
		return nil, pagination, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(p.details) {
		end = len(p.details)
	}
	return p.details[filter.Offset:end], pagination, nil
}

func TestExportServiceRendersAllPages(t *testing.T) {
	total := exportPageSize + 50
	lister := &pagingEnrollmentLister{details: make([]dto.TaskDetail, 0, total)}
	for i := 0; i < total; i++ {
		lister.details = append(lister.details, dto.TaskDetail{
			TaskID:   int64(i + 1),
			SchoolID: "school-1",
			Status:   models.TaskStatusPending,
			Student:  map[string]interface{}{"email": fmt.Sprintf("s%d@example.com", i)},
		})
	}
	svc := NewExportService(lister, nil)

	payload, _, err := svc.Render(context.Background(), "school-1", ExportFormatCSV)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	assert.Len(t, lines, total+1, "every enrollment past the first page must still be exported")
	assert.Contains(t, lines[len(lines)-1], fmt.Sprintf("s%d@example.com", total-1))
	assert.GreaterOrEqual(t, lister.calls, 2)
}

func TestExportServiceRenderPDF(t *testing.T) {
	svc := NewExportService(exportFixture(), nil)

	payload, contentType, err := svc.Render(context.Background(), "school-1", ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(exportFixture(), nil)

	_, _, err := svc.Render(context.Background(), "school-1", "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
