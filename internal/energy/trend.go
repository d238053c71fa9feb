package energy

import "time"

// Week is the reduction of one seven-day bucket.
type Week struct {
	Start time.Time `json:"start"`
	Stats Stats     `json:"stats"`
}

// Weekly splits the n rolling weeks ending at now into seven-day buckets,
// oldest first, and reduces each. Entries whose date does not parse are
// left out of every bucket.
func Weekly(entries []Entry, n int, now time.Time, loc *time.Location) []Week {
	if n <= 0 {
		return []Week{}
	}
	buckets := make([][]Entry, n)
	end := now.UnixMilli()
	span := (7 * 24 * time.Hour).Milliseconds()
	for _, en := range entries {
		t, ok := ParseDate(en.Date, loc)
		if !ok {
			continue
		}
		age := end - t.UnixMilli()
		if age < 0 {
			age = 0
		}
		i := int(age / span)
		if i >= n {
			continue
		}
		buckets[n-1-i] = append(buckets[n-1-i], en)
	}

	out := make([]Week, n)
	for i := range out {
		out[i] = Week{
			Start: now.Add(-time.Duration(n-i) * 7 * 24 * time.Hour),
			Stats: Reduce(buckets[i]),
		}
	}
	return out
}
