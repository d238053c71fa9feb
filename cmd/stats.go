package cmd

import (
	"fmt"
	"time"

	"github.com/ramanasai/katflow/internal/energy"
	"github.com/ramanasai/katflow/internal/utils"
	"github.com/spf13/cobra"
)

var (
	statsWindow string
	statsFormat string
	statsEvery  bool
)

// statsCmd prints good/neutral/bad counts and the average for a window.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Energy summary for a time window",
	Example: `  katflow stats --window week
  katflow stats --every --format csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		windows := []energy.Window{cfg.DefaultWindow()}
		if cmd.Flags().Changed("window") {
			w, err := energy.ParseWindow(statsWindow)
			if err != nil {
				return err
			}
			windows = []energy.Window{w}
		}
		if statsEvery {
			windows = energy.Windows
		}
		format, err := utils.ParseFormat(statsFormat)
		if err != nil {
			return err
		}

		entries, err := fetchEntries(cmd.Context())
		if err != nil {
			return err
		}

		r := utils.NewRenderer(renderConfig(format))
		engine := energy.Engine{Now: time.Now, Location: cfg.Location()}
		for _, w := range windows {
			st := engine.Aggregate(entries, w)
			log.Debugf("window %s: filtered %d from %d", w, st.Total, len(entries))
			out, err := r.RenderStats(utils.StatsReport{Window: w, Stats: st, Scanned: len(entries)})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVarP(&statsWindow, "window", "w", "", "all|3days|week|month|year (default from config)")
	statsCmd.Flags().StringVarP(&statsFormat, "format", "f", "default", "Output format: default|json|csv|compact")
	statsCmd.Flags().BoolVar(&statsEvery, "every", false, "Print every window")
}

func renderConfig(format utils.OutputFormat) *utils.RenderConfig {
	rc := utils.DefaultRenderConfig()
	rc.Format = format
	rc.Location = cfg.Location()
	return rc
}
