package energy

import "time"

// Day is one cell of the calendar heat-map.
type Day struct {
	Date     time.Time
	Entries  int
	Average  float64
	Category Category
	HasData  bool
}

// Month buckets entries into the days of the given month. Entries whose
// date does not parse are skipped. The returned slice always has one Day
// per calendar day, in order.
func Month(entries []Entry, year int, month time.Month, loc *time.Location) []Day {
	if loc == nil {
		loc = time.Local
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	n := first.AddDate(0, 1, -1).Day()

	sums := make([]int, n)
	days := make([]Day, n)
	for i := range days {
		days[i].Date = first.AddDate(0, 0, i)
	}

	for _, en := range entries {
		t, ok := ParseDate(en.Date, loc)
		if !ok {
			continue
		}
		t = t.In(loc)
		if t.Year() != year || t.Month() != month {
			continue
		}
		i := t.Day() - 1
		days[i].Entries++
		sums[i] += en.Score
	}

	for i := range days {
		if days[i].Entries == 0 {
			continue
		}
		days[i].HasData = true
		days[i].Average = float64(sums[i]) / float64(days[i].Entries)
		days[i].Category = Classify(int(days[i].Average + 0.5))
	}
	return days
}

// Streak reports whether the day of now has an entry and how many
// consecutive days before it have one.
func Streak(entries []Entry, now time.Time, loc *time.Location) (today bool, days int) {
	if loc == nil {
		loc = time.Local
	}
	seen := make(map[string]bool, len(entries))
	for _, en := range entries {
		if t, ok := ParseDate(en.Date, loc); ok {
			seen[t.In(loc).Format("2006-01-02")] = true
		}
	}

	now = now.In(loc)
	d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	today = seen[d.Format("2006-01-02")]
	for {
		d = d.AddDate(0, 0, -1)
		if !seen[d.Format("2006-01-02")] {
			return today, days
		}
		days++
	}
}
