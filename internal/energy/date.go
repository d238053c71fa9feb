package energy

import (
	"strconv"
	"strings"
	"time"
)

// genericLayouts are tried in order for anything that is not DD.MM.YYYY.
// Day/month ambiguous forms such as 01/02/2006 are deliberately absent.
var genericLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	time.RFC1123Z,
	time.RFC1123,
}

// ParseDate normalizes a journal date into an instant. DD.MM.YYYY is read
// field by field as a local calendar day in loc; other inputs go through
// the generic layouts. The bool is false when the input names no real date.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if parts := strings.Split(s, "."); len(parts) == 3 {
		return parseDotted(parts, loc)
	}

	for _, layout := range genericLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseDotted(parts []string, loc *time.Location) (time.Time, bool) {
	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return time.Time{}, false
	}
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	// time.Date normalizes overflow (31.02 -> 02.03); reject instead.
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders t in the DD.MM.YYYY journal encoding.
func FormatDate(t time.Time) string {
	return t.Format("02.01.2006")
}
