package domain

import (
	"time"
)

// Choice is an RSVP answer
type Choice string

const (
	ChoiceYes Choice = "YES"
	ChoiceNo  Choice = "NO"
)

// Poll represents one RSVP event: a content post plus a vote card in a group
// topic, with running aggregate counts and check-in settlement state.
type Poll struct {
	ID            string     `json:"id"`
	TopicKey      string     `json:"topic_key"`
	ChatID        int64      `json:"chat_id"`
	ThreadID      int        `json:"thread_id"`
	PostMessageID int        `json:"post_message_id"`
	CardMessageID int        `json:"card_message_id"` // mutable: re-sent if edit fails
	QuestionRU    string     `json:"question_ru"`
	QuestionDE    string     `json:"question_de"`
	DateLabel     string     `json:"date_label"` // free form, must contain a D.M.Y token
	MemberCount   int        `json:"member_count"` // chat member snapshot at publish time
	YesCount      int        `json:"yes_count"`
	NoCount       int        `json:"no_count"`
	Active        bool       `json:"active"`
	UILocked      bool       `json:"ui_locked"` // cache of the computed lock, never authoritative
	CheckinClosed bool       `json:"checkin_closed"`
	CheckinBy     int64      `json:"checkin_by"`
	CheckinAt     *time.Time `json:"checkin_at,omitempty"`
	CheckinYes    int        `json:"checkin_yes"`
	CheckinHere   int        `json:"checkin_here"`
	CheckinNoShow int        `json:"checkin_noshow"`
	CreatedBy     int64      `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
}

// PollDraft carries the wizard's accumulated fields for publishing
type PollDraft struct {
	TopicKey   string
	PostText   string
	Media      []string // platform file ids, at most 10
	QuestionRU string
	QuestionDE string
	DateLabel  string
}

// AdjustCounts applies a vote change to the aggregate yes/no counters.
// old is nil for a first vote. Re-voting the same choice is a no-op.
func AdjustCounts(yes, no int, old *Choice, next Choice) (int, int) {
	if old != nil {
		switch *old {
		case ChoiceYes:
			if yes > 0 {
				yes--
			}
		case ChoiceNo:
			if no > 0 {
				no--
			}
		}
	}
	switch next {
	case ChoiceYes:
		yes++
	case ChoiceNo:
		no++
	}
	return yes, no
}
