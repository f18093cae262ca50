package api

import "time"

// ParseDate parses an upstream "2006-01-02" date to UTC midnight.
// Returns the zero time for empty or invalid input; missing dates flow
// through the pipeline as incomplete fields rather than errors.
func ParseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
