package cli

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	reDateOnly = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	reDateTime = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})[ T]\d{2}:\d{2}(?::\d{2})?$`)
)

// normalizeDateFlag parses:
// - YYYY-MM-DD (date-only)
// - YYYY-MM-DD HH:MM (local date+time; the time part is dropped)
// - RFC3339 / RFC3339Nano (timezone-aware, normalized to UTC)
//
// Date-range filters work on whole days, so everything collapses to a
// YYYY-MM-DD string.
func normalizeDateFlag(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}

	if reDateOnly.MatchString(s) {
		if _, err := time.Parse("2006-01-02", s); err != nil {
			return "", fmt.Errorf("invalid date %q: %w", s, err)
		}
		return s, nil
	}

	if m := reDateTime.FindStringSubmatch(s); m != nil {
		return m[1], nil
	}

	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts.UTC().Format("2006-01-02"), nil
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.UTC().Format("2006-01-02"), nil
	}

	return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD, YYYY-MM-DD HH:MM, or RFC3339)", s)
}
