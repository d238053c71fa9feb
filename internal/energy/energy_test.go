package energy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func testEngine() Engine {
	return Engine{Now: func() time.Time { return fixedNow }, Location: time.UTC}
}

func daysAgo(n int) string {
	return FormatDate(fixedNow.AddDate(0, 0, -n))
}

func TestParseDateDotted(t *testing.T) {
	got, ok := ParseDate("01.01.2024", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), got)

	got, ok = ParseDate(" 5 . 3 . 2024 ", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), got)

	_, ok = ParseDate("29.02.2024", time.UTC)
	assert.True(t, ok, "leap day")
}

func TestParseDateRejectsImpossibleDays(t *testing.T) {
	for _, in := range []string{"31.02.2024", "29.02.2023", "00.01.2024", "10.13.2024", "aa.01.2024", "1.x.2024"} {
		_, ok := ParseDate(in, time.UTC)
		assert.False(t, ok, in)
	}
}

func TestParseDateGenericFallback(t *testing.T) {
	got, ok := ParseDate("2024-06-15", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), got)

	got, ok = ParseDate("2024-06-15T10:30:00+02:00", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 6, 15, 8, 30, 0, 0, time.UTC), got.UTC())

	got, ok = ParseDate("Jan 2, 2025", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), got)

	for _, in := range []string{"", "   ", "garbage", "1.2", "01/02/2024", "1.2.3.4"} {
		_, ok := ParseDate(in, time.UTC)
		assert.False(t, ok, in)
	}
}

func TestParseDateUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	got, ok := ParseDate("15.06.2024", loc)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 6, 14, 21, 0, 0, 0, time.UTC), got.UTC())
}

func TestWindowCutoff(t *testing.T) {
	_, ok := All.Cutoff(fixedNow)
	assert.False(t, ok)

	cases := map[Window]int{Last3Days: 3, ThisWeek: 7, ThisMonth: 30, ThisYear: 365}
	for w, days := range cases {
		cutoff, ok := w.Cutoff(fixedNow)
		require.True(t, ok, w)
		assert.Equal(t, int64(days)*86_400_000, fixedNow.UnixMilli()-cutoff.UnixMilli(), w)
	}
}

func TestParseWindow(t *testing.T) {
	for in, want := range map[string]Window{
		"":            All,
		"ALL":         All,
		"3days":       Last3Days,
		"last3days":   Last3Days,
		"week":        ThisWeek,
		"this-month":  ThisMonth,
		"Year":        ThisYear,
		"LAST_3_DAYS": Last3Days,
		"THIS_WEEK":   ThisWeek,
		"this_month":  ThisMonth,
		"THIS_YEAR":   ThisYear,
	} {
		got, err := ParseWindow(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseWindow("fortnight")
	assert.ErrorIs(t, err, ErrUnknownWindow)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		score int
		cat   Category
		b     Bucket
	}{
		{-10, Low, Bad},
		{0, Low, Bad},
		{1, Low, Bad},
		{2, MediumLow, Bad},
		{3, Neutral, NeutralBucket},
		{4, Good, GoodBucket},
		{5, Excellent, GoodBucket},
		{42, Excellent, GoodBucket},
	}
	for _, c := range cases {
		assert.Equal(t, c.cat, Classify(c.score), "score %d", c.score)
		assert.Equal(t, c.b, Classify(c.score).Bucket(), "score %d", c.score)
	}
	assert.Equal(t, "medium-low", MediumLow.String())
}

func TestClassifyMatchesAggregateCollapse(t *testing.T) {
	for s := -3; s <= 8; s++ {
		st := Reduce([]Entry{{Score: s}})
		switch Classify(s).Bucket() {
		case GoodBucket:
			assert.Equal(t, 1, st.Good, s)
		case NeutralBucket:
			assert.Equal(t, 1, st.Neutral, s)
		default:
			assert.Equal(t, 1, st.Bad, s)
		}
	}
}

func TestAggregateEmpty(t *testing.T) {
	e := testEngine()
	for _, w := range Windows {
		assert.Equal(t, Stats{}, e.Aggregate(nil, w))
		assert.Equal(t, Stats{}, e.Aggregate([]Entry{}, w))
	}
	assert.Equal(t, 0, Stats{}.GoodPercent())
}

func TestAggregateAllTime(t *testing.T) {
	entries := []Entry{
		{Date: "01.01.2024", Score: 5},
		{Date: "15.06.2024", Score: 2},
	}
	got := testEngine().Aggregate(entries, All)
	assert.Equal(t, Stats{Good: 1, Neutral: 0, Bad: 1, Average: 3.5, Total: 2}, got)
	assert.Equal(t, 50, got.GoodPercent())
}

func TestAggregateYearExcludesOlderEntries(t *testing.T) {
	var entries []Entry
	for i := 0; i < 400; i++ {
		entries = append(entries, Entry{Date: daysAgo(i), Score: 1 + i%5})
	}

	e := testEngine()
	want := 0
	cutoff, _ := ThisYear.Cutoff(fixedNow)
	for _, en := range entries {
		d, _ := ParseDate(en.Date, time.UTC)
		if !d.Before(cutoff) {
			want++
		}
	}

	got := e.Aggregate(entries, ThisYear)
	assert.Equal(t, want, got.Total)
	assert.Equal(t, 365, got.Total)
}

func TestAggregateInvalidDate(t *testing.T) {
	entries := []Entry{{Date: "31.02.2024", Score: 3}}
	e := testEngine()

	assert.Equal(t, Stats{Neutral: 1, Average: 3, Total: 1}, e.Aggregate(entries, All))
	for _, w := range []Window{Last3Days, ThisWeek, ThisMonth, ThisYear} {
		assert.Equal(t, Stats{}, e.Aggregate(entries, w), w)
	}
}

func TestAggregateProperties(t *testing.T) {
	entries := []Entry{
		{Date: daysAgo(0), Score: 5},
		{Date: daysAgo(1), Score: 3},
		{Date: daysAgo(2), Score: 1},
		{Date: daysAgo(5), Score: 4},
		{Date: daysAgo(20), Score: 2},
		{Date: daysAgo(100), Score: 3},
		{Date: daysAgo(500), Score: 5},
		{Date: "not a date", Score: 4},
		{Date: time.Date(2026, 10, 10, 9, 0, 0, 0, time.UTC).Format(time.RFC3339), Score: 2},
	}
	e := testEngine()

	prev := -1
	for _, w := range Windows {
		st := e.Aggregate(entries, w)
		assert.Equal(t, st.Total, st.Good+st.Neutral+st.Bad, w)
		assert.Equal(t, len(e.Filter(entries, w)), st.Total, w)
		if st.Total > 0 {
			assert.GreaterOrEqual(t, st.Average, 0.0)
			assert.LessOrEqual(t, st.Average, 5.0)
		} else {
			assert.Zero(t, st.Average)
		}
		assert.GreaterOrEqual(t, st.Total, prev, "windows must nest: %s", w)
		prev = st.Total

		assert.Equal(t, st, e.Aggregate(entries, w), "idempotent for %s", w)
	}
	assert.Equal(t, len(entries), e.Aggregate(entries, All).Total)
}

func TestAggregateDoesNotMutate(t *testing.T) {
	entries := []Entry{{Date: daysAgo(1), Score: 4}, {Date: daysAgo(400), Score: 1}}
	before := append([]Entry(nil), entries...)
	_ = testEngine().Aggregate(entries, ThisWeek)
	_ = Recent(entries, RecentCount)
	assert.Equal(t, before, entries)
}

func TestRecent(t *testing.T) {
	e1, e2, e3, e4 := Entry{Date: "1"}, Entry{Date: "2"}, Entry{Date: "3"}, Entry{Date: "4"}
	assert.Equal(t, []Entry{e4, e3, e2}, Recent([]Entry{e1, e2, e3, e4}, RecentCount))
	assert.Equal(t, []Entry{e2, e1}, Recent([]Entry{e1, e2}, RecentCount))
	assert.Empty(t, Recent(nil, RecentCount))
	assert.Empty(t, Recent([]Entry{e1}, 0))
}

func TestMonth(t *testing.T) {
	entries := []Entry{
		{Date: "01.02.2024", Score: 5},
		{Date: "01.02.2024", Score: 2},
		{Date: "29.02.2024", Score: 1},
		{Date: "31.02.2024", Score: 5},
		{Date: "01.03.2024", Score: 4},
	}
	days := Month(entries, 2024, time.February, time.UTC)
	require.Len(t, days, 29)

	assert.True(t, days[0].HasData)
	assert.Equal(t, 2, days[0].Entries)
	assert.Equal(t, 3.5, days[0].Average)
	assert.Equal(t, Good, days[0].Category)

	assert.False(t, days[1].HasData)
	assert.Equal(t, Low, days[28].Category)
	assert.Equal(t, 29, days[28].Date.Day())
}

func TestStreak(t *testing.T) {
	entries := []Entry{
		{Date: daysAgo(1), Score: 3},
		{Date: daysAgo(2), Score: 4},
		{Date: daysAgo(2), Score: 1},
		{Date: daysAgo(3), Score: 5},
		{Date: daysAgo(5), Score: 5},
		{Date: "bogus", Score: 5},
	}
	today, days := Streak(entries, fixedNow, time.UTC)
	assert.False(t, today)
	assert.Equal(t, 3, days)

	today, days = Streak(append(entries, Entry{Date: daysAgo(0), Score: 2}), fixedNow, time.UTC)
	assert.True(t, today)
	assert.Equal(t, 3, days)

	today, days = Streak(nil, fixedNow, time.UTC)
	assert.False(t, today)
	assert.Zero(t, days)
}

func TestWeekly(t *testing.T) {
	entries := []Entry{
		{Date: daysAgo(0), Score: 5},
		{Date: daysAgo(6), Score: 3},
		{Date: daysAgo(7), Score: 1},
		{Date: daysAgo(20), Score: 4},
		{Date: daysAgo(40), Score: 5},
		{Date: "someday", Score: 5},
	}
	weeks := Weekly(entries, 4, fixedNow, time.UTC)
	require.Len(t, weeks, 4)

	assert.Equal(t, fixedNow.AddDate(0, 0, -28), weeks[0].Start)
	assert.Equal(t, fixedNow.AddDate(0, 0, -7), weeks[3].Start)

	assert.Equal(t, Stats{}, weeks[0].Stats)
	assert.Equal(t, Reduce([]Entry{{Score: 4}}), weeks[1].Stats)
	assert.Equal(t, Reduce([]Entry{{Score: 1}}), weeks[2].Stats)
	assert.Equal(t, Stats{Good: 1, Neutral: 1, Average: 4, Total: 2}, weeks[3].Stats)
}

func TestWeeklyEmpty(t *testing.T) {
	assert.Empty(t, Weekly([]Entry{{Date: daysAgo(1), Score: 3}}, 0, fixedNow, time.UTC))
	weeks := Weekly(nil, 2, fixedNow, time.UTC)
	require.Len(t, weeks, 2)
	assert.Zero(t, weeks[1].Stats.Total)
}
