package domain

import (
	"regexp"
	"time"
)

var eventDateRe = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.(\d{4})`)

// EventDate extracts the first day.month.year token from a free-form date
// label ("21.02.2026, 14:00" → 2026-02-21). The second return is false when
// no such token exists.
func EventDate(label string, loc *time.Location) (time.Time, bool) {
	m := eventDateRe.FindStringSubmatch(label)
	if m == nil {
		return time.Time{}, false
	}
	day := atoi(m[1])
	month := atoi(m[2])
	year := atoi(m[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	// noon avoids DST edge cases around midnight
	return time.Date(year, time.Month(month), day, 12, 0, 0, 0, loc), true
}

// VotingLocked reports whether voting on a poll with the given date label is
// closed at now: locked on the event's calendar day and after, in loc.
// Labels without a parseable date never lock (deliberate fail-open).
func VotingLocked(label string, now time.Time, loc *time.Location) bool {
	event, ok := EventDate(label, loc)
	if !ok {
		return false
	}
	ey, em, ed := event.Date()
	ny, nm, nd := now.In(loc).Date()
	eventDay := time.Date(ey, em, ed, 0, 0, 0, 0, loc)
	nowDay := time.Date(ny, nm, nd, 0, 0, 0, 0, loc)
	return !eventDay.After(nowDay)
}

// DaysUntil returns the whole-day distance from today (in loc) to the event
// date: -1 yesterday, 0 today, +1 tomorrow. Unparseable labels report a
// large positive distance so they never match "near" filters.
func DaysUntil(label string, now time.Time, loc *time.Location) int {
	event, ok := EventDate(label, loc)
	if !ok {
		return 9999
	}
	ey, em, ed := event.Date()
	ny, nm, nd := now.In(loc).Date()
	eventDay := time.Date(ey, em, ed, 12, 0, 0, 0, loc)
	nowDay := time.Date(ny, nm, nd, 12, 0, 0, 0, loc)
	return int(eventDay.Sub(nowDay).Round(24*time.Hour) / (24 * time.Hour))
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
