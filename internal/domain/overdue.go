package domain

import (
	"strings"
	"time"
)

// timeNow is the clock used by IsOverdue; tests replace it.
var timeNow = time.Now

// dueDateLayouts are tried in order. Numeric months and days may omit the
// leading zero. Layouts without a zone resolve to UTC, not the server's zone.
var dueDateLayouts = []string{
	"2006-1-2",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006/1/2",
	"1/2/2006",
	"Jan 2 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"Mon Jan 2 2006",
	time.RFC1123Z,
	time.RFC1123,
}

// ParseDueDate parses a user supplied due date. The boolean is false when the
// value is not a recognisable date, which callers treat as an invalid date.
func ParseDueDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsOverdue reports whether a task with the given completion marker and due
// date is overdue right now.
func IsOverdue(checked *string, dueDate string) bool {
	return IsOverdueAt(checked, dueDate, timeNow())
}

// IsOverdueAt reports whether the task is unchecked and its due date is
// strictly before now. An invalid due date is never overdue.
func IsOverdueAt(checked *string, dueDate string, now time.Time) bool {
	if checked != nil {
		return false
	}
	due, ok := ParseDueDate(dueDate)
	if !ok {
		return false
	}
	return due.Before(now)
}
