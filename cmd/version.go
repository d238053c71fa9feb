package cmd

import (
	"fmt"

	"github.com/ramanasai/katflow/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), version.GetVersionInfo())
		return nil
	},
}
