package cmd

import (
	"github.com/ramanasai/katflow/internal/db"
	"github.com/ramanasai/katflow/internal/source"
	"github.com/ramanasai/katflow/internal/ui"
	"github.com/spf13/cobra"
)

// tuiCmd launches the Bubble Tea dashboard.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		src, closeSrc, err := source.Open(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer closeSrc()

		var store db.Store
		if ss, ok := src.(source.StoreSource); ok {
			store = ss.Store
		}
		return ui.Run(cmd.Context(), ui.Options{
			Feed:     source.NewFeed(src, log),
			Store:    store,
			Window:   cfg.DefaultWindow(),
			Interval: cfg.Refresh.Interval,
			Location: cfg.Location(),
			Theme:    cfg.Theme,
			Log:      log,
		})
	},
}
