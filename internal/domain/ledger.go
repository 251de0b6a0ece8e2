package domain

import (
	"fmt"
	"time"
)

// Ledger entry sources
const (
	SourceCheckin = "checkin"
	SourcePenalty = "penalty"
	SourceBonus   = "bonus"
	SourceManual  = "manual"
)

// Settlement kinds recorded in entry metadata
const (
	KindArrived = "arrived"
	KindNoShow  = "noshow"
)

// LedgerEntry is one immutable point grant or penalty. Entries written during
// settlement carry a deterministic ID so retries cannot double-credit.
type LedgerEntry struct {
	ID       string    `json:"id"`
	UserID   int64     `json:"user_id"`
	Name     string    `json:"name"` // display name snapshot
	Points   int       `json:"points"`
	TS       time.Time `json:"ts"`
	Source   string    `json:"source"`
	PollID   string    `json:"poll_id,omitempty"`
	TopicKey string    `json:"topic_key,omitempty"`
	Kind     string    `json:"kind,omitempty"`
}

// CheckinEntryID is the deterministic ledger key for a present voter's award.
func CheckinEntryID(pollID string, userID int64) string {
	return fmt.Sprintf("ci_%s_%d", pollID, userID)
}

// PenaltyEntryID is the deterministic ledger key for a no-show penalty.
func PenaltyEntryID(pollID string, userID int64) string {
	return fmt.Sprintf("ns_%s_%d", pollID, userID)
}

// UserTotal is an aggregated score over a time window
type UserTotal struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}
