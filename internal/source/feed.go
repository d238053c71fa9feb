package source

import (
	"context"
	"sync"
	"time"

	"github.com/ramanasai/katflow/internal/energy"
	"github.com/ramanasai/katflow/internal/logger"
)

// Snapshot is what a reader sees of a Feed at one moment.
type Snapshot struct {
	Entries   []energy.Entry
	Loading   bool
	Err       error
	UpdatedAt time.Time
	Loaded    bool // at least one fetch succeeded
	// Seq grows with every state change. Callbacks may run concurrently, so
	// a subscriber keeps the snapshot with the highest Seq.
	Seq uint64
}

// Newer reports whether s describes a later feed state than other.
func (s Snapshot) Newer(other Snapshot) bool {
	return s.Seq > other.Seq
}

// Feed holds the latest entries fetched from a Source. Concurrent Refetch
// calls are allowed; whichever completes last wins. Once closed, finished
// fetches are discarded.
type Feed struct {
	src Source
	log logger.Logger

	mu        sync.Mutex
	entries   []energy.Entry
	err       error
	inflight  int
	updatedAt time.Time
	loaded    bool
	closed    bool
	seq       uint64
	onChange  func(Snapshot)
}

func NewFeed(src Source, log logger.Logger) *Feed {
	if log == nil {
		log = logger.Nop()
	}
	return &Feed{src: src, log: log}
}

// OnChange registers fn to receive a snapshot after every state change.
// fn runs on the goroutine that caused the change and must not block long.
// Deliveries from concurrent fetches may arrive out of order; compare Seq.
func (f *Feed) OnChange(fn func(Snapshot)) {
	f.mu.Lock()
	f.onChange = fn
	f.mu.Unlock()
}

// Refetch loads entries from the source and publishes them. On failure the
// previous entries are kept and Err is set. The fetch error is returned too.
func (f *Feed) Refetch(ctx context.Context) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.inflight++
	f.notifyLocked()

	started := time.Now()
	entries, err := f.src.Fetch(ctx)
	took := time.Since(started).Round(time.Millisecond)

	f.mu.Lock()
	f.inflight--
	if f.closed {
		f.mu.Unlock()
		f.log.Debugf("discarding fetch result after close")
		return err
	}
	if err != nil {
		f.err = err
	} else {
		f.entries = entries
		f.err = nil
		f.loaded = true
		f.updatedAt = time.Now()
	}
	f.notifyLocked()

	if err != nil {
		f.log.Warnf("refetch failed after %s: %v", took, err)
	} else {
		f.log.Debugf("refetched %d entries in %s", len(entries), took)
	}
	return err
}

// notifyLocked records a state change, releases f.mu and then delivers a
// snapshot of it.
func (f *Feed) notifyLocked() {
	f.seq++
	snap, fn := f.snapshotLocked(), f.onChange
	f.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}

func (f *Feed) snapshotLocked() Snapshot {
	return Snapshot{
		Entries:   f.entries,
		Loading:   f.inflight > 0,
		Err:       f.err,
		UpdatedAt: f.updatedAt,
		Loaded:    f.loaded,
		Seq:       f.seq,
	}
}

// Snapshot returns the current state. Entries must be treated as read-only.
func (f *Feed) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// Close stops the feed from accepting results. Fetches already running are
// not cancelled; their results are dropped.
func (f *Feed) Close() {
	f.mu.Lock()
	f.closed = true
	f.onChange = nil
	f.mu.Unlock()
}
