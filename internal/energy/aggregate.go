package energy

import (
	"math"
	"time"
)

// RecentCount is how many entries the dashboard shows as "recent".
const RecentCount = 3

// Stats is the reduction of a filtered entry set.
type Stats struct {
	Good    int     `json:"good"`
	Neutral int     `json:"neutral"`
	Bad     int     `json:"bad"`
	Average float64 `json:"average"`
	Total   int     `json:"total"`
}

// GoodRatio is Good/Total, or 0 for an empty set.
func (s Stats) GoodRatio() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Good) / float64(s.Total)
}

// GoodPercent is GoodRatio rounded to a whole percentage.
func (s Stats) GoodPercent() int {
	return int(math.Round(s.GoodRatio() * 100))
}

// Engine aggregates entries against an injectable clock and calendar.
// The zero value uses time.Now and time.Local.
type Engine struct {
	Now      func() time.Time
	Location *time.Location
}

func (e Engine) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// Aggregate filters entries by w and reduces them into Stats.
func (e Engine) Aggregate(entries []Entry, w Window) Stats {
	if len(entries) == 0 {
		return Stats{}
	}
	return Reduce(Filter(entries, w, e.now(), e.Location))
}

// Filter returns the entries inside w as a new slice. Under All every entry
// passes and dates are never parsed; otherwise an entry passes when its
// date parses and is not before the cutoff at millisecond resolution.
func (e Engine) Filter(entries []Entry, w Window) []Entry {
	return Filter(entries, w, e.now(), e.Location)
}

// Aggregate is Engine{}.Aggregate.
func Aggregate(entries []Entry, w Window) Stats {
	return Engine{}.Aggregate(entries, w)
}

// Filter applies w relative to now, reading dates in loc.
func Filter(entries []Entry, w Window, now time.Time, loc *time.Location) []Entry {
	cutoff, ok := w.Cutoff(now)
	if !ok {
		out := make([]Entry, len(entries))
		copy(out, entries)
		return out
	}

	cutoffMs := cutoff.UnixMilli()
	out := make([]Entry, 0, len(entries))
	for _, en := range entries {
		t, valid := ParseDate(en.Date, loc)
		if !valid || t.UnixMilli() < cutoffMs {
			continue
		}
		out = append(out, en)
	}
	return out
}

// Reduce counts buckets and averages scores without any filtering.
func Reduce(entries []Entry) Stats {
	var s Stats
	sum := 0
	for _, en := range entries {
		switch Classify(en.Score).Bucket() {
		case GoodBucket:
			s.Good++
		case NeutralBucket:
			s.Neutral++
		default:
			s.Bad++
		}
		sum += en.Score
	}
	s.Total = len(entries)
	if s.Total > 0 {
		s.Average = float64(sum) / float64(s.Total)
	}
	return s
}

// Recent returns the last n entries in reverse order, newest append first.
func Recent(entries []Entry, n int) []Entry {
	if n <= 0 || len(entries) == 0 {
		return []Entry{}
	}
	if n > len(entries) {
		n = len(entries)
	}
	out := make([]Entry, 0, n)
	for i := len(entries) - 1; i >= len(entries)-n; i-- {
		out = append(out, entries[i])
	}
	return out
}
