package schedule

import (
	"context"
	"strings"
	"time"

	"github.com/ramanasai/katflow/internal/config"
)

// NextAt computes the next check-in reminder that falls on a configured
// workday and not on a holiday.
func NextAt(now time.Time, cfg config.Config) time.Time {
	loc := cfg.Location()
	now = now.In(loc)

	// parse "HH:MM"
	hour, min := 21, 0
	if len(cfg.Reminder.Time) >= 4 {
		if t, err := time.ParseInLocation("15:04", cfg.Reminder.Time, loc); err == nil {
			hour = t.Hour()
			min = t.Minute()
		}
	}
	workdays := map[string]bool{}
	for _, d := range cfg.Reminder.Workdays {
		if abbr := config.WeekdayAbbr(d); abbr != "" {
			workdays[abbr] = true
		}
	}
	if len(workdays) == 0 {
		// nothing configured means every day
		for _, d := range []time.Weekday{time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday} {
			workdays[d.String()[:3]] = true
		}
	}
	isWorkday := func(t time.Time) bool {
		return workdays[t.Weekday().String()[:3]]
	}
	holidays := map[string]bool{}
	for _, h := range cfg.Reminder.Holidays {
		holidays[strings.TrimSpace(h)] = true
	}
	isHoliday := func(t time.Time) bool {
		return holidays[t.Format("2006-01-02")]
	}

	// candidate today at hh:mm
	cand := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, loc)
	if !now.Before(cand) {
		cand = cand.AddDate(0, 0, 1)
	}
	// a full year of holidays is the most we look through
	for i := 0; i < 366; i++ {
		if isWorkday(cand) && !isHoliday(cand) {
			return cand
		}
		cand = cand.AddDate(0, 0, 1)
	}
	return cand
}

// RunConfigured runs the reminder callback at the configured schedule until ctx is canceled.
func RunConfigured(ctx context.Context, cfg config.Config, f func()) {
	next := NextAt(time.Now(), cfg)
	t := time.NewTimer(time.Until(next))
	for {
		select {
		case <-ctx.Done():
			if !t.Stop() {
				select {
				case <-t.C:
				default:
				}
			}
			return
		case <-t.C:
			f()
			next = NextAt(time.Now(), cfg)
			t.Reset(time.Until(next))
		}
	}
}
