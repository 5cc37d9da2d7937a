package repository

import (
	"fmt"
	"time"
)

// ParseTime parses a stored date in "2006-01-02" or RFC3339 format as UTC.
// Snapshot dates are stored as dates, creation times as RFC3339.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse("2006-01-02", str)
	if err != nil {
		returnTime, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}
	return returnTime.UTC(), nil
}
