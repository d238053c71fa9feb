package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ramanasai/katflow/internal/db"
	"github.com/ramanasai/katflow/internal/energy"
	"github.com/ramanasai/katflow/internal/utils"
	"github.com/spf13/cobra"
)

var addDate string

var addCmd = &cobra.Command{
	Use:   "add <score> [thoughts]",
	Short: "Log an energy score (1-5) with optional thoughts",
	Example: `  katflow add 4 slept well, long walk
  katflow add 2 --date yesterday`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		score, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("score must be a number from 1 to 5, got %q", args[0])
		}
		day, err := utils.ParseFlexibleDate(addDate, time.Now(), cfg.Location())
		if err != nil {
			return err
		}

		store, err := db.Open(cmd.Context(), cfg, log)
		if errors.Is(err, db.ErrReadOnlySource) {
			return fmt.Errorf("%w: use 'katflow import' to copy the sheet into a local store", err)
		}
		if err != nil {
			return err
		}
		defer store.Close()

		rec, err := store.AddEntry(cmd.Context(), db.NewEntry{
			Date:     energy.FormatDate(day),
			Score:    score,
			Thoughts: strings.Join(args[1:], " "),
		})
		if err != nil {
			return err
		}
		log.Debugf("saved entry %s", rec.ID)
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %d (%s) for %s.\n", rec.Entry.Score, energy.Classify(rec.Entry.Score), rec.Entry.Date)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addDate, "date", "d", "today", "Entry date: today|yesterday|N days ago|DD.MM.YYYY|YYYY-MM-DD")
}
