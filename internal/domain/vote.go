package domain

import (
	"time"
)

// Vote is one voter's current answer on one poll. There is at most one per
// (poll, voter); changing the answer overwrites it.
type Vote struct {
	PollID    string    `json:"poll_id"`
	UserID    int64     `json:"user_id"`
	Choice    Choice    `json:"choice"`
	Name      string    `json:"name"` // display name snapshot at vote time
	UpdatedAt time.Time `json:"updated_at"`
}
