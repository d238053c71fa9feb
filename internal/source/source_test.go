package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ramanasai/katflow/internal/energy"
	"github.com/ramanasai/katflow/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type funcSource func(ctx context.Context) ([]energy.Entry, error)

func (f funcSource) Fetch(ctx context.Context) ([]energy.Entry, error) { return f(ctx) }

func TestParseCSVWithHeader(t *testing.T) {
	in := "Thoughts,Date,Score\n" +
		"\"slept well, ran 5k\",01.01.2024,5\n" +
		"meh,02.01.2024,three\n" +
		",03.01.2024,2\n"
	entries, skipped, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, []energy.Entry{
		{Date: "01.01.2024", Score: 5, Thoughts: "slept well, ran 5k"},
		{Date: "03.01.2024", Score: 2},
	}, entries)
}

func TestParseCSVRussianHeader(t *testing.T) {
	in := "Дата,Оценка,Мысли\n15.06.2024,4,норм\n"
	entries, skipped, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Equal(t, []energy.Entry{{Date: "15.06.2024", Score: 4, Thoughts: "норм"}}, entries)
}

func TestParseCSVPositional(t *testing.T) {
	in := "01.01.2024,5,first\n\n02.01.2024,1\n"
	entries, skipped, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Equal(t, []energy.Entry{
		{Date: "01.01.2024", Score: 5, Thoughts: "first"},
		{Date: "02.01.2024", Score: 1},
	}, entries)
}

func TestParseCSVEmpty(t *testing.T) {
	entries, skipped, err := ParseCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Empty(t, entries)
}

func TestSheetSourceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("date,score,thoughts\n19.10.2026,4,ok\n"))
	}))
	defer srv.Close()

	entries, err := NewSheetSource(srv.URL, time.Second).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []energy.Entry{{Date: "19.10.2026", Score: 4, Thoughts: "ok"}}, entries)
}

func TestSheetSourceBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewSheetSource(srv.URL, time.Second).Fetch(context.Background())
	assert.ErrorContains(t, err, "403")
}

func TestFeedRefetchPublishes(t *testing.T) {
	want := []energy.Entry{{Date: "01.01.2024", Score: 5}}
	f := NewFeed(funcSource(func(context.Context) ([]energy.Entry, error) { return want, nil }), logger.Nop())

	var mu sync.Mutex
	var seen []Snapshot
	f.OnChange(func(s Snapshot) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})

	require.NoError(t, f.Refetch(context.Background()))
	snap := f.Snapshot()
	assert.Equal(t, want, snap.Entries)
	assert.True(t, snap.Loaded)
	assert.False(t, snap.Loading)
	assert.NoError(t, snap.Err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	assert.True(t, seen[0].Loading)
	assert.False(t, seen[1].Loading)
}

func TestFeedErrorKeepsStaleEntries(t *testing.T) {
	boom := errors.New("sheet unavailable")
	fail := false
	f := NewFeed(funcSource(func(context.Context) ([]energy.Entry, error) {
		if fail {
			return nil, boom
		}
		return []energy.Entry{{Date: "01.01.2024", Score: 3}}, nil
	}), logger.Nop())

	require.NoError(t, f.Refetch(context.Background()))
	fail = true
	assert.ErrorIs(t, f.Refetch(context.Background()), boom)

	snap := f.Snapshot()
	assert.ErrorIs(t, snap.Err, boom)
	assert.Len(t, snap.Entries, 1)
}

func TestFeedLastCompletionWins(t *testing.T) {
	started := make(chan struct{}, 2)
	gates := map[string]chan struct{}{"slow": make(chan struct{}), "fast": make(chan struct{})}
	var order sync.Mutex
	names := []string{"slow", "fast"}
	next := 0

	f := NewFeed(funcSource(func(context.Context) ([]energy.Entry, error) {
		order.Lock()
		name := names[next]
		next++
		order.Unlock()
		started <- struct{}{}
		<-gates[name]
		return []energy.Entry{{Date: name, Score: 3}}, nil
	}), logger.Nop())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() { defer wg.Done(); _ = f.Refetch(context.Background()) }()
	<-started
	wg.Add(1)
	go func() { defer wg.Done(); _ = f.Refetch(context.Background()) }()
	<-started

	assert.True(t, f.Snapshot().Loading)
	close(gates["fast"])
	require.Eventually(t, func() bool {
		s := f.Snapshot()
		return len(s.Entries) == 1 && s.Entries[0].Date == "fast"
	}, time.Second, time.Millisecond)

	close(gates["slow"])
	wg.Wait()

	snap := f.Snapshot()
	assert.Equal(t, "slow", snap.Entries[0].Date)
	assert.False(t, snap.Loading)
}

func TestFeedLateDeliveryDoesNotWin(t *testing.T) {
	started := make(chan struct{}, 2)
	gates := map[string]chan struct{}{"first": make(chan struct{}), "second": make(chan struct{})}
	var order sync.Mutex
	names := []string{"first", "second"}
	next := 0

	f := NewFeed(funcSource(func(context.Context) ([]energy.Entry, error) {
		order.Lock()
		name := names[next]
		next++
		order.Unlock()
		started <- struct{}{}
		<-gates[name]
		return []energy.Entry{{Date: name, Score: 3}}, nil
	}), logger.Nop())

	firstBlocked := make(chan struct{})
	secondDelivered := make(chan struct{})
	var mu sync.Mutex
	var latest, last Snapshot
	f.OnChange(func(s Snapshot) {
		if len(s.Entries) == 1 && s.Entries[0].Date == "first" {
			close(firstBlocked)
			<-secondDelivered
		}
		mu.Lock()
		last = s
		if s.Newer(latest) {
			latest = s
		}
		mu.Unlock()
		if len(s.Entries) == 1 && s.Entries[0].Date == "second" {
			close(secondDelivered)
		}
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); _ = f.Refetch(context.Background()) }()
	<-started
	go func() { defer wg.Done(); _ = f.Refetch(context.Background()) }()
	<-started

	close(gates["first"])
	<-firstBlocked
	close(gates["second"])
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	// The stale callback really did arrive last.
	require.Equal(t, "first", last.Entries[0].Date)
	assert.True(t, last.Loading)

	state := f.Snapshot()
	assert.Equal(t, state.Seq, latest.Seq)
	assert.Equal(t, "second", latest.Entries[0].Date)
	assert.False(t, latest.Loading)
	assert.False(t, last.Newer(latest))
}

func TestSnapshotSeqGrows(t *testing.T) {
	f := NewFeed(funcSource(func(context.Context) ([]energy.Entry, error) {
		return []energy.Entry{{Date: "01.01.2024", Score: 4}}, nil
	}), logger.Nop())
	var seqs []uint64
	f.OnChange(func(s Snapshot) { seqs = append(seqs, s.Seq) })

	before := f.Snapshot()
	require.NoError(t, f.Refetch(context.Background()))
	require.NoError(t, f.Refetch(context.Background()))

	assert.Equal(t, []uint64{1, 2, 3, 4}, seqs)
	assert.True(t, f.Snapshot().Newer(before))
	assert.Equal(t, uint64(4), f.Snapshot().Seq)
}

func TestFeedDiscardsAfterClose(t *testing.T) {
	gate := make(chan struct{})
	started := make(chan struct{})
	f := NewFeed(funcSource(func(context.Context) ([]energy.Entry, error) {
		close(started)
		<-gate
		return []energy.Entry{{Date: "late", Score: 1}}, nil
	}), logger.Nop())

	notified := make(chan Snapshot, 4)
	f.OnChange(func(s Snapshot) { notified <- s })

	done := make(chan error)
	go func() { done <- f.Refetch(context.Background()) }()
	<-started
	<-notified // loading

	f.Close()
	close(gate)
	require.NoError(t, <-done)

	assert.Empty(t, f.Snapshot().Entries)
	assert.False(t, f.Snapshot().Loaded)
	assert.Empty(t, notified)

	require.NoError(t, f.Refetch(context.Background()))
}
