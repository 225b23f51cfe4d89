package dto

import (
	"encoding/json"

	"github.com/slotwatch/central-api/internal/models"
)

// ResolvedConfig carries an effective agent configuration payload plus
// the scope that satisfied the resolution.
type ResolvedConfig struct {
	SchoolID string              `json:"school_id"`
	Source   models.ConfigSource `json:"source"`
	Payload  json.RawMessage     `json:"payload"`
}
