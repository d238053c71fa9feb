package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ramanasai/katflow/internal/energy"
)

var daysAgoRe = regexp.MustCompile(`^(\d+)\s*(d|day|days)\s+ago$`)

// ParseFlexibleDate resolves what a user types for an entry date: journal
// dates (19.10.2026), ISO-like dates, "today", "yesterday" and "N days ago".
// The result is midnight of that day in loc.
func ParseFlexibleDate(input string, now time.Time, loc *time.Location) (time.Time, error) {
	raw := strings.TrimSpace(input)
	lower := strings.ToLower(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date input")
	}
	now = now.In(loc)

	// Handle natural language patterns
	switch lower {
	case "today", "now":
		return midnight(now), nil
	case "yesterday":
		return midnight(now.AddDate(0, 0, -1)), nil
	}
	if m := daysAgoRe.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		return midnight(now.AddDate(0, 0, -n)), nil
	}

	if t, ok := energy.ParseDate(raw, loc); ok {
		return midnight(t.In(loc)), nil
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", raw)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
