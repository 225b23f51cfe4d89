package models

import (
	"encoding/json"
	"time"
)

// AgentConfigRecord is a stored configuration payload. SchoolID is nil
// for the global record. The payload is opaque to this service and is
// handed to agents verbatim.
type AgentConfigRecord struct {
	ID        int64           `db:"id" json:"id"`
	SchoolID  *string         `db:"school_id" json:"school_id,omitempty"`
	Payload   json.RawMessage `db:"payload" json:"payload"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// ConfigSource identifies which scope satisfied a resolution.
type ConfigSource string

// Resolution sources.
const (
	ConfigSourceSchool  ConfigSource = "school"
	ConfigSourceGlobal  ConfigSource = "global"
	ConfigSourceDefault ConfigSource = "default"
)

// AgentRateLimits bounds how aggressively an agent may poll a booking
// system on behalf of its tasks.
type AgentRateLimits struct {
	PerTaskIntervalMin int  `json:"per_task_interval_min"`
	JitterPercent      int  `json:"jitter_percent"`
	MaxChecksPerHour   int  `json:"max_checks_per_hour"`
	MaxChecksPerDay    int  `json:"max_checks_per_day"`
	BackoffEnabled     bool `json:"backoff_enabled"`
	BackoffFactor      int  `json:"backoff_factor"`
	MaxIntervalMin     int  `json:"max_interval_min"`
}

// AgentNotifications toggles the delivery channels an agent may use.
type AgentNotifications struct {
	AllowEmail    bool `json:"allow_email"`
	AllowSMS      bool `json:"allow_sms"`
	AllowTelegram bool `json:"allow_telegram"`
}

// AgentDirectives carries operational instructions for the agent itself.
type AgentDirectives struct {
	HeartbeatIntervalMin int    `json:"heartbeat_interval_min"`
	UpdateRequired       bool   `json:"update_required"`
	LatestVersion        string `json:"latest_version"`
}

// AgentConfig is the effective configuration contract agents honor.
type AgentConfig struct {
	RateLimits    AgentRateLimits    `json:"rate_limits"`
	Notifications AgentNotifications `json:"notifications"`
	Agent         AgentDirectives    `json:"agent"`
}

// DefaultAgentConfig returns the built-in configuration used when no
// record exists for a school or globally. Agents depend on these exact
// keys and values; do not change them without a coordinated rollout.
func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		RateLimits: AgentRateLimits{
			PerTaskIntervalMin: 15,
			JitterPercent:      30,
			MaxChecksPerHour:   20,
			MaxChecksPerDay:    200,
			BackoffEnabled:     true,
			BackoffFactor:      2,
			MaxIntervalMin:     60,
		},
		Notifications: AgentNotifications{
			AllowEmail:    true,
			AllowSMS:      true,
			AllowTelegram: true,
		},
		Agent: AgentDirectives{
			HeartbeatIntervalMin: 10,
			UpdateRequired:       false,
			LatestVersion:        "1.0.0",
		},
	}
}
