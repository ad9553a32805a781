package domain

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func TestParseDueDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		ok       bool
	}{
		{"date only", "2020-01-01", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"rfc3339", "2020-01-01T10:30:00Z", time.Date(2020, 1, 1, 10, 30, 0, 0, time.UTC), true},
		{"rfc3339 with offset", "2020-01-01T10:30:00+02:00", time.Date(2020, 1, 1, 8, 30, 0, 0, time.UTC), true},
		{"datetime-local", "2020-01-01T10:30", time.Date(2020, 1, 1, 10, 30, 0, 0, time.UTC), true},
		{"slashes", "2020/01/02", time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), true},
		{"us format", "01/02/2020", time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), true},
		{"unpadded", "2020-1-2", time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), true},
		{"unpadded us format", "1/2/2020", time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), true},
		{"month name", "Jan 1 2020", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"month name with comma", "January 15, 2020", time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"lower case month name", "jan 1 2020", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"day first month name", "2 Jan 2020", time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), true},
		{"date string", "Wed Jan 1 2020", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"space separated time", "2020-01-01 10:30:00", time.Date(2020, 1, 1, 10, 30, 0, 0, time.UTC), true},
		{"zoneless time is utc", "2020-01-01T10:30:00", time.Date(2020, 1, 1, 10, 30, 0, 0, time.UTC), true},
		{"surrounding whitespace", "  2020-01-01 ", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"empty", "", time.Time{}, false},
		{"garbage", "not a date", time.Time{}, false},
		{"impossible date", "2020-13-45", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := ParseDueDate(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.expected.Equal(result), "got %s", result)
			}
		})
	}
}

func TestIsOverdueAt_UncheckedPastDueIsOverdue(t *testing.T) {
	for _, due := range []string{
		"2020-01-01",
		"2024-06-14",
		"2024-06-15T11:59:59Z",
		"2024-06-15T11:59:59.999999999Z",
	} {
		assert.True(t, IsOverdueAt(nil, due, fixedNow), due)
	}
}

func TestIsOverdueAt_CheckedIsNeverOverdue(t *testing.T) {
	for _, marker := range []string{"on", "true", "", "0", "false"} {
		for _, due := range []string{"2020-01-01", "2030-01-01", "garbage"} {
			assert.False(t, IsOverdueAt(StringPtr(marker), due, fixedNow), "%q/%q", marker, due)
		}
	}
}

func TestIsOverdueAt_UncheckedNowOrFutureIsNotOverdue(t *testing.T) {
	for _, due := range []string{
		"2024-06-15T12:00:00Z",
		"2024-06-15T12:00:01Z",
		"2024-06-16",
		"2099-12-31",
	} {
		assert.False(t, IsOverdueAt(nil, due, fixedNow), due)
	}
}

func TestIsOverdueAt_InvalidDateIsNotOverdue(t *testing.T) {
	for _, due := range []string{"", "tomorrow", "2020-02-30", "12:00"} {
		assert.NotPanics(t, func() {
			assert.False(t, IsOverdueAt(nil, due, fixedNow), due)
		})
	}
}

func TestIsOverdue_UsesClock(t *testing.T) {
	original := timeNow
	defer func() { timeNow = original }()

	timeNow = func() time.Time { return fixedNow }
	assert.True(t, IsOverdue(nil, "2024-06-14"))
	assert.False(t, IsOverdue(nil, "2024-06-16"))

	task := Task{Name: "A", DueDate: "2024-06-14"}
	assert.True(t, task.Overdue())
	assert.False(t, task.OverdueAt(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
}

func TestIsOverdueAt_ConcurrentCallers(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, IsOverdueAt(nil, "2020-01-01", fixedNow))
		}()
	}
	wg.Wait()
}
