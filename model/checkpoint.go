package model

import "time"

// Checkpoint tracks the last Telegram update ID a run has fully ingested.
// One checkpoint exists per deployment; its value never decreases across
// successful runs.
type Checkpoint struct {
	LastUpdateID int       `json:"last_update_id"`
	UpdatedAt    time.Time `json:"updated_at"`
}
