package foodlog

import (
	"fmt"
	"time"

	"github.com/starford/yada/internal/apperr"
)

// DateLayout is the calendar date format used for log keys.
const DateLayout = "2006-01-02"

// ParseDate validates a YYYY-MM-DD string and returns it as a UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil || t.Format(DateLayout) != s {
		return time.Time{}, fmt.Errorf("%w: %q", apperr.ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate renders t as a log key.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// SpanDays returns the number of calendar dates from start to end inclusive.
// It fails like RangeSummary on invalid dates or a reversed range.
func SpanDays(start, end string) (int, error) {
	from, err := ParseDate(start)
	if err != nil {
		return 0, err
	}
	to, err := ParseDate(end)
	if err != nil {
		return 0, err
	}
	if from.After(to) {
		return 0, fmt.Errorf("%w: %s > %s", apperr.ErrInvalidRange, start, end)
	}
	return int((to.Unix()-from.Unix())/86400) + 1, nil
}
