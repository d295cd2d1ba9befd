package repository

import (
	"fmt"
	"time"
)

// timeLayouts are the formats that appear in the database: SQLite's
// CURRENT_TIMESTAMP default, RFC3339 from application writes, and bare
// dates.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// ParseTime parses a stored date or datetime string.
func ParseTime(str string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, str); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse date %q", str)
}
