package cmd

import (
	"fmt"
	"time"

	"github.com/ramanasai/katflow/internal/energy"
	"github.com/ramanasai/katflow/internal/utils"
	"github.com/spf13/cobra"
)

var (
	trendsWeeks  int
	trendsFormat string
)

// trendsCmd prints the average score of each recent rolling week.
var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Weekly energy averages, oldest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		if trendsWeeks < 1 || trendsWeeks > 104 {
			return fmt.Errorf("--weeks must be between 1 and 104, got %d", trendsWeeks)
		}
		format, err := utils.ParseFormat(trendsFormat)
		if err != nil {
			return err
		}

		entries, err := fetchEntries(cmd.Context())
		if err != nil {
			return err
		}
		loc := cfg.Location()
		weeks := energy.Weekly(entries, trendsWeeks, time.Now().In(loc), loc)
		out, err := utils.NewRenderer(renderConfig(format)).RenderTrends(weeks)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	trendsCmd.Flags().IntVarP(&trendsWeeks, "weeks", "w", 8, "Number of rolling weeks to show")
	trendsCmd.Flags().StringVarP(&trendsFormat, "format", "f", "default", "Output format: default|json|csv|compact")
}
