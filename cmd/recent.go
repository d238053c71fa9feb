package cmd

import (
	"fmt"

	"github.com/ramanasai/katflow/internal/energy"
	"github.com/ramanasai/katflow/internal/utils"
	"github.com/spf13/cobra"
)

var (
	recentCount  int
	recentPage   int
	recentFormat string
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show the latest entries, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		if recentCount < 0 {
			return fmt.Errorf("-n must not be negative")
		}
		format, err := utils.ParseFormat(recentFormat)
		if err != nil {
			return err
		}
		entries, err := fetchEntries(cmd.Context())
		if err != nil {
			return err
		}

		newestFirst := energy.Recent(entries, len(entries))
		p := utils.NewPagination(len(newestFirst), recentCount, recentPage)
		start, end := p.Bounds()

		out, err := utils.NewRenderer(renderConfig(format)).RenderRecent(newestFirst[start:end])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		if format == utils.FormatDefault && p.TotalPages > 1 {
			fmt.Fprintln(cmd.OutOrStdout(), p.FormatSummary())
			if nav := p.FormatNavigation(); nav != "" {
				fmt.Fprintln(cmd.OutOrStdout(), nav)
			}
		}
		return nil
	},
}

func init() {
	recentCmd.Flags().IntVarP(&recentCount, "number", "n", energy.RecentCount, "Entries per page")
	recentCmd.Flags().IntVarP(&recentPage, "page", "p", 1, "Page number, 1 is newest")
	recentCmd.Flags().StringVarP(&recentFormat, "format", "f", "default", "Output format: default|json|csv|compact")
}
