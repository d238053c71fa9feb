package energy

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Window is a rolling lookback period ending at "now".
type Window string

const (
	All       Window = "all"
	Last3Days Window = "3days"
	ThisWeek  Window = "week"
	ThisMonth Window = "month"
	ThisYear  Window = "year"
)

const day = 24 * time.Hour

// Windows lists every window from narrowest lookback to All.
var Windows = []Window{Last3Days, ThisWeek, ThisMonth, ThisYear, All}

var ErrUnknownWindow = errors.New("unknown window")

// ParseWindow accepts the canonical tokens and a few spelled-out aliases.
func ParseWindow(s string) (Window, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-") {
	case "", "all":
		return All, nil
	case "3days", "last3days", "last-3-days":
		return Last3Days, nil
	case "week", "this-week", "thisweek":
		return ThisWeek, nil
	case "month", "this-month", "thismonth":
		return ThisMonth, nil
	case "year", "this-year", "thisyear":
		return ThisYear, nil
	}
	return "", fmt.Errorf("%w: %q (use all, 3days, week, month or year)", ErrUnknownWindow, s)
}

// Lookback is the window length; zero for All.
func (w Window) Lookback() time.Duration {
	switch w {
	case Last3Days:
		return 3 * day
	case ThisWeek:
		return 7 * day
	case ThisMonth:
		return 30 * day
	case ThisYear:
		return 365 * day
	default:
		return 0
	}
}

// Cutoff returns the earliest instant an entry may have to pass the window.
// ok is false for All, which has no cutoff.
func (w Window) Cutoff(now time.Time) (cutoff time.Time, ok bool) {
	lb := w.Lookback()
	if lb == 0 {
		return time.Time{}, false
	}
	return now.Add(-lb), true
}

// Label is the human title used by the renderers.
func (w Window) Label() string {
	switch w {
	case Last3Days:
		return "Last 3 days"
	case ThisWeek:
		return "This week"
	case ThisMonth:
		return "This month"
	case ThisYear:
		return "This year"
	default:
		return "All time"
	}
}
