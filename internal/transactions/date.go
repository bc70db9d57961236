package transactions

import (
	"errors"
	"strings"
	"time"
)

// DefaultDateLayouts are tried in order when a layout list is not configured.
var DefaultDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"1/2/2006",
	"01/02/2006",
	time.RFC3339,
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses s using the first layout that accepts it and returns the
// calendar day. An unparseable value is an ErrDataError for field "date".
func ParseDate(s string, layouts []string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, NewFieldError(ErrDataError, "date", s, errors.New("empty value"))
	}
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), nil
		}
	}

	return time.Time{}, NewFieldError(ErrDataError, "date", s, errors.New("unrecognized date format"))
}
