package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/slotwatch/central-api/internal/models"
)

// AgentConfigRepository reads stored agent configuration records.
// Records are written out-of-band; this service never mutates them.
type AgentConfigRepository struct {
	db *sqlx.DB
}

// NewAgentConfigRepository constructs the repository.
func NewAgentConfigRepository(db *sqlx.DB) *AgentConfigRepository {
	return &AgentConfigRepository{db: db}
}

// FindBySchool returns the configuration record scoped to a school.
// When duplicates exist for the scope the most recently updated record
// wins. Returns sql.ErrNoRows when absent.
func (r *AgentConfigRepository) FindBySchool(ctx context.Context, schoolID string) (*models.AgentConfigRecord, error) {
	const query = `SELECT id, school_id, payload, updated_at FROM agent_configs
        WHERE school_id = $1 ORDER BY updated_at DESC LIMIT 1`
	var record models.AgentConfigRecord
	if err := r.db.GetContext(ctx, &record, query, schoolID); err != nil {
		return nil, err
	}
	return &record, nil
}

// FindGlobal returns the global configuration record (NULL school_id),
// newest first when duplicates exist. Returns sql.ErrNoRows when absent.
func (r *AgentConfigRepository) FindGlobal(ctx context.Context) (*models.AgentConfigRecord, error) {
	const query = `SELECT id, school_id, payload, updated_at FROM agent_configs
        WHERE school_id IS NULL ORDER BY updated_at DESC LIMIT 1`
	var record models.AgentConfigRecord
	if err := r.db.GetContext(ctx, &record, query); err != nil {
		return nil, err
	}
	return &record, nil
}
