package models

import "flightwatch/internal/constants"

// ChangeEvent is a detected difference between the stored snapshot of a
// tracked flight and freshly fetched provider state. Transient: produced
// each cycle, never persisted.
type ChangeEvent struct {
	Type constants.AlertType `json:"type"`
	Old  string              `json:"old"`
	New  string              `json:"new"`

	// DelayMinutes is the signed schedule shift, set for DELAY events only.
	DelayMinutes int `json:"delay_minutes,omitempty"`
}
