package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ramanasai/katflow/internal/config"
	"github.com/ramanasai/katflow/internal/db"
	"github.com/ramanasai/katflow/internal/energy"
	"github.com/ramanasai/katflow/internal/source"
	"github.com/spf13/cobra"
)

var (
	importURL    string
	importFile   string
	importDryRun bool
)

// importCmd copies a published spreadsheet (or a CSV export of one) into
// the local store.
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import entries from a spreadsheet CSV",
	Example: `  katflow import --file energy.csv
  katflow import --url "https://docs.google.com/spreadsheets/d/e/…/pub?output=csv"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if importURL != "" && importFile != "" {
			return errors.New("use either --url or --file")
		}
		url := importURL
		if url == "" && importFile == "" {
			url = cfg.Source.SheetURL
		}
		if url == "" && importFile == "" {
			return errors.New("nothing to import: pass --url or --file, or set source.sheet_url")
		}

		entries, skipped, err := readImport(cmd.Context(), url, importFile)
		if err != nil {
			return err
		}
		log.Debugf("import: %d rows parsed, %d skipped", len(entries), skipped)
		if importDryRun {
			fmt.Fprintf(cmd.OutOrStdout(), "Would import %d entries (%d rows skipped).\n", len(entries), skipped)
			return nil
		}

		target := cfg
		if target.Source.Kind == config.SourceSheet {
			target.Source.Kind = config.SourceSQLite
		}
		store, err := db.Open(cmd.Context(), target, log)
		if err != nil {
			return err
		}
		defer store.Close()

		saved := 0
		for _, e := range entries {
			_, err := store.AddEntry(cmd.Context(), db.NewEntry{Date: e.Date, Score: e.Score, Thoughts: e.Thoughts})
			if err != nil {
				log.Warnf("import: skip %s: %v", e.Date, err)
				skipped++
				continue
			}
			saved++
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries (%d rows skipped).\n", saved, skipped)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importURL, "url", "", "Published spreadsheet CSV URL (default source.sheet_url)")
	importCmd.Flags().StringVar(&importFile, "file", "", "Local CSV file")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Parse only, do not write")
}

func readImport(ctx context.Context, url, file string) ([]energy.Entry, int, error) {
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, 0, err
		}
		defer f.Close()
		return source.ParseCSV(f)
	}
	return source.NewSheetSource(url, cfg.Source.Timeout).FetchCounted(ctx)
}
