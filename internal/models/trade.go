package models

import (
	"time"

	"gorm.io/gorm"
)

// Trade direction values.
const (
	DirectionLong  = "Long"
	DirectionShort = "Short"
)

// Trade represents one recorded position in the journal.
//
// PnL is ground truth as entered by the user; it is never recomputed from
// Entry/Exit/Size/Direction and no arithmetic consistency between those
// fields is enforced.
type Trade struct {
	gorm.Model
	Date         time.Time `json:"date"`
	Symbol       string    `json:"symbol"`
	Direction    string    `json:"direction"` // "Long" or "Short"
	Entry        float64   `json:"entry"`
	Exit         *float64  `json:"exit,omitempty"`
	Size         float64   `json:"size"`
	PnL          float64   `json:"pnl"`
	Session      *string   `json:"session,omitempty"` // by-name reference, not enforced
	Notes        *string   `json:"notes,omitempty"`
	IsExitRecord bool      `json:"is_exit_record,omitempty"`

	// RemoteID identifies a trade imported from the remote feed so repeated
	// syncs do not duplicate it. Empty for trades entered locally.
	RemoteID string `json:"-" gorm:"index"`
}

// HasExit reports whether the trade counts under "exits only" filtering.
func (t *Trade) HasExit() bool {
	return t.Exit != nil || t.IsExitRecord
}
