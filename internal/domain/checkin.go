package domain

// CheckinSession is an admin's transient people-marking state for one poll.
// It lives only in process memory; a restart loses in-progress marking but
// never already-settled ledger entries.
type CheckinSession struct {
	PollID  string
	Present map[int64]bool
	Page    int
}

// NewCheckinSession creates an empty session for a poll
func NewCheckinSession(pollID string) *CheckinSession {
	return &CheckinSession{PollID: pollID, Present: make(map[int64]bool)}
}

// Toggle flips one voter's present mark
func (s *CheckinSession) Toggle(userID int64) {
	if s.Present[userID] {
		delete(s.Present, userID)
	} else {
		s.Present[userID] = true
	}
}

// MarkAll marks every given voter present
func (s *CheckinSession) MarkAll(userIDs []int64) {
	s.Present = make(map[int64]bool, len(userIDs))
	for _, id := range userIDs {
		s.Present[id] = true
	}
}

// MarkNone clears all present marks
func (s *CheckinSession) MarkNone() {
	s.Present = make(map[int64]bool)
}

// CheckinSummary is the settlement outcome. Already is true when the poll was
// closed before this call; the counts then come from the stored summary.
type CheckinSummary struct {
	Already bool `json:"already"`
	Yes     int  `json:"yes"`
	Arrived int  `json:"arrived"`
	NoShow  int  `json:"noshow"`
	Award   int  `json:"award"`
	Penalty int  `json:"penalty"`
}

// PartitionPresent splits the final YES voters into arrived and no-show sets
// according to the session's present marks. Every voter lands in exactly one
// of the two slices.
func PartitionPresent(yes []Vote, present map[int64]bool) (arrived, noshow []Vote) {
	for _, v := range yes {
		if present[v.UserID] {
			arrived = append(arrived, v)
		} else {
			noshow = append(noshow, v)
		}
	}
	return arrived, noshow
}
