package tasks

import "encoding/json"

// Task type names registered with asynq.
const (
	// TypeSessionCleanup deletes rooms and events past the retention age.
	TypeSessionCleanup = "session:cleanup"
)

// SessionCleanupPayload parameterizes one retention sweep.
type SessionCleanupPayload struct {
	MaxAgeDays   int  `json:"max_age_days"`
	OnlyInactive bool `json:"only_inactive"`
}

// NewSessionCleanupTask builds the serialized payload for a cleanup task.
func NewSessionCleanupTask(maxAgeDays int, onlyInactive bool) ([]byte, error) {
	payload := SessionCleanupPayload{
		MaxAgeDays:   maxAgeDays,
		OnlyInactive: onlyInactive,
	}
	return json.Marshal(payload)
}
