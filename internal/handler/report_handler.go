package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/slotwatch/central-api/internal/dto"
	appErrors "github.com/slotwatch/central-api/pkg/errors"
	"github.com/slotwatch/central-api/pkg/response"
)

type reportApplier interface {
	ApplyReport(ctx context.Context, req dto.ReportRequest) (bool, error)
}

// ReportHandler receives agent slot reports.
type ReportHandler struct {
	tasks reportApplier
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(tasks reportApplier) *ReportHandler {
	return &ReportHandler{tasks: tasks}
}

// Receive godoc
// @Summary Apply an agent report to its task
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.ReportRequest true "Agent report"
// @Success 200 {object} response.Envelope
// @Router /report [post]
func (h *ReportHandler) Receive(c *gin.Context) {
	var req dto.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid report payload"))
		return
	}
	applied, err := h.tasks.ApplyReport(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	ack := dto.ReportAck{
		ReceiptID:  uuid.NewString(),
		TaskID:     req.TaskID,
		SlotsFound: len(req.SlotsFound),
		Applied:    applied,
	}
	response.JSON(c, http.StatusOK, ack, nil)
}
