package service

import (
	"context"
	"database/sql"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/slotwatch/central-api/internal/dto"
	"github.com/slotwatch/central-api/internal/models"
	appErrors "github.com/slotwatch/central-api/pkg/errors"
)

type agentConfigRepository interface {
	FindBySchool(ctx context.Context, schoolID string) (*models.AgentConfigRecord, error)
	FindGlobal(ctx context.Context) (*models.AgentConfigRecord, error)
}

// AgentConfigService resolves the effective operating parameters for a
// school: the school's own record, else the global record, else the
// built-in default. Stored payloads are returned verbatim; there is no
// field-level merge between scopes.
type AgentConfigService struct {
	repo   agentConfigRepository
	cache  *CacheService
	logger *zap.Logger
}

// NewAgentConfigService constructs AgentConfigService.
func NewAgentConfigService(repo agentConfigRepository, cache *CacheService, logger *zap.Logger) *AgentConfigService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AgentConfigService{repo: repo, cache: cache, logger: logger}
}

// Resolve returns the effective configuration for a school.
func (s *AgentConfigService) Resolve(ctx context.Context, schoolID string) (*dto.ResolvedConfig, error) {
	cacheKey := "agent_config:" + schoolID
	var cached dto.ResolvedConfig
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	resolved, err := s.resolve(ctx, schoolID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, cacheKey, resolved)
	return resolved, nil
}

func (s *AgentConfigService) resolve(ctx context.Context, schoolID string) (*dto.ResolvedConfig, error) {
	record, err := s.repo.FindBySchool(ctx, schoolID)
	if err == nil {
		return &dto.ResolvedConfig{SchoolID: schoolID, Source: models.ConfigSourceSchool, Payload: record.Payload}, nil
	}
	if err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load school config")
	}

	record, err = s.repo.FindGlobal(ctx)
	if err == nil {
		return &dto.ResolvedConfig{SchoolID: schoolID, Source: models.ConfigSourceGlobal, Payload: record.Payload}, nil
	}
	if err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load global config")
	}

	payload, err := json.Marshal(models.DefaultAgentConfig())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode default config")
	}
	return &dto.ResolvedConfig{SchoolID: schoolID, Source: models.ConfigSourceDefault, Payload: payload}, nil
}
