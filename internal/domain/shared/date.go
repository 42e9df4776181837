package shared

import "time"

// DateLayout is the wire layout for calendar dates
const DateLayout = "2006-01-02"

// NormalizeDate strips the time-of-day and location from t, returning
// midnight UTC of the same calendar day.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, InvalidArgument("INVALID_DATE", "date must be formatted as YYYY-MM-DD")
	}
	return t, nil
}

// Today returns the current calendar date
func Today() time.Time {
	return NormalizeDate(time.Now())
}
