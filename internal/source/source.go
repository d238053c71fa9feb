// Package source feeds journal entries to the dashboard. A Source fetches
// the full entry list; a Feed keeps the latest result for readers.
package source

import (
	"context"
	"fmt"

	"github.com/ramanasai/katflow/internal/config"
	"github.com/ramanasai/katflow/internal/db"
	"github.com/ramanasai/katflow/internal/energy"
	"github.com/ramanasai/katflow/internal/logger"
)

// Source returns every entry, in the order they were recorded.
type Source interface {
	Fetch(ctx context.Context) ([]energy.Entry, error)
}

// StoreSource reads from a local or postgres store.
type StoreSource struct {
	Store db.Store
}

func (s StoreSource) Fetch(ctx context.Context) ([]energy.Entry, error) {
	return s.Store.ListEntries(ctx)
}

// Open picks the source for cfg. The returned close function releases
// any store it opened.
func Open(ctx context.Context, cfg config.Config, log logger.Logger) (Source, func() error, error) {
	if cfg.Source.Kind == config.SourceSheet {
		return NewSheetSource(cfg.Source.SheetURL, cfg.Source.Timeout), func() error { return nil }, nil
	}
	store, err := db.Open(ctx, cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return StoreSource{Store: store}, store.Close, nil
}
