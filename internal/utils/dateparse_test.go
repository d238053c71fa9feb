package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlexibleDate(t *testing.T) {
	now := time.Date(2026, 10, 19, 15, 4, 5, 0, time.UTC)
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	cases := map[string]time.Time{
		"today":      day(2026, 10, 19),
		"Now":        day(2026, 10, 19),
		"yesterday":  day(2026, 10, 18),
		"3 days ago": day(2026, 10, 16),
		"1d ago":     day(2026, 10, 18),
		"19.10.2026": day(2026, 10, 19),
		"2026-10-01": day(2026, 10, 1),
	}
	for in, want := range cases {
		got, err := ParseFlexibleDate(in, now, time.UTC)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseFlexibleDateUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	now := time.Date(2026, 10, 19, 22, 0, 0, 0, time.UTC)

	got, err := ParseFlexibleDate("today", now, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 20, 0, 0, 0, 0, loc), got)
}

func TestParseFlexibleDateErrors(t *testing.T) {
	for _, in := range []string{"", "  ", "someday", "31.02.2026", "days ago"} {
		_, err := ParseFlexibleDate(in, time.Now(), time.UTC)
		assert.Error(t, err, in)
	}
}
