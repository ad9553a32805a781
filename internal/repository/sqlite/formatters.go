package sqlite

import (
	"database/sql"
	"time"
)

// FormatTimeForDB formats a time.Time value as RFC3339 string for consistent database storage
func FormatTimeForDB(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseTimeFromDB parses an RFC3339 formatted time string from the database
func ParseTimeFromDB(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// FormatBoolForDB stores booleans as 0/1.
func FormatBoolForDB(b bool) int {
	if b {
		return 1
	}
	return 0
}

// ParseBoolFromDB treats any non-zero value as true.
func ParseBoolFromDB(v int) bool {
	return v != 0
}

// FormatNullStringForDB returns nil for an invalid NullString so the column stays NULL.
func FormatNullStringForDB(s sql.NullString) interface{} {
	if !s.Valid {
		return nil
	}
	return s.String
}
