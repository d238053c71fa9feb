package cmd

import (
	"fmt"
	"time"

	"github.com/ramanasai/katflow/internal/energy"
	"github.com/ramanasai/katflow/internal/utils"
	"github.com/spf13/cobra"
)

var (
	calendarMonth  string
	calendarFormat string
)

// calendarCmd prints a month heat-map coloured by each day's average.
var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Month heat-map of daily energy",
	RunE: func(cmd *cobra.Command, args []string) error {
		loc := cfg.Location()
		month := time.Now().In(loc)
		if calendarMonth != "" {
			t, err := time.ParseInLocation("2006-01", calendarMonth, loc)
			if err != nil {
				return fmt.Errorf("--month wants YYYY-MM: %w", err)
			}
			month = t
		}
		format, err := utils.ParseFormat(calendarFormat)
		if err != nil {
			return err
		}

		entries, err := fetchEntries(cmd.Context())
		if err != nil {
			return err
		}
		days := energy.Month(entries, month.Year(), month.Month(), loc)
		out, err := utils.NewRenderer(renderConfig(format)).RenderCalendar(days)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	calendarCmd.Flags().StringVarP(&calendarMonth, "month", "m", "", "Month to show, YYYY-MM (default current)")
	calendarCmd.Flags().StringVarP(&calendarFormat, "format", "f", "default", "Output format: default|json|csv")
}
