package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/slotwatch/central-api/internal/dto"
	appErrors "github.com/slotwatch/central-api/pkg/errors"
	"github.com/slotwatch/central-api/pkg/response"
)

type configResolver interface {
	Resolve(ctx context.Context, schoolID string) (*dto.ResolvedConfig, error)
}

// AgentConfigHandler exposes effective agent configuration.
type AgentConfigHandler struct {
	configs configResolver
}

// NewAgentConfigHandler constructs AgentConfigHandler.
func NewAgentConfigHandler(configs configResolver) *AgentConfigHandler {
	return &AgentConfigHandler{configs: configs}
}

// Resolve godoc
// @Summary Resolve effective agent configuration for a school
// @Tags Config
// @Produce json
// @Param school_id query string true "School identifier"
// @Success 200 {object} map[string]interface{}
// @Router /config [get]
func (h *AgentConfigHandler) Resolve(c *gin.Context) {
	schoolID := c.Query("school_id")
	if schoolID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "school_id is required"))
		return
	}
	resolved, err := h.configs.Resolve(c.Request.Context(), schoolID)
	if err != nil {
		response.Error(c, err)
		return
	}
	// Agents consume the payload directly; no envelope so stored
	// configs reach them byte-for-byte.
	c.Header("X-Config-Source", string(resolved.Source))
	c.Data(http.StatusOK, "application/json; charset=utf-8", resolved.Payload)
}
