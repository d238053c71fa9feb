package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ramanasai/katflow/internal/config"
	"github.com/ramanasai/katflow/internal/energy"
	"github.com/ramanasai/katflow/internal/logger"
	"github.com/ramanasai/katflow/internal/notify"
	"github.com/ramanasai/katflow/internal/schedule"
	"github.com/ramanasai/katflow/internal/source"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string

	cfg = config.Default()
	log logger.Logger = logger.Nop()
)

var rootCmd = &cobra.Command{
	Use:          "katflow",
	Short:        "Energy journal: log a daily 1-5 score and see how the days add up",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgFile != "" {
			cfg, err = config.LoadFile(cfgFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}

		logFile := cfg.Log.File
		if logFile == "" && cmd.Name() == "tui" {
			// stderr belongs to the dashboard
			dir, err := config.DataDir()
			if err != nil {
				return err
			}
			logFile = filepath.Join(dir, "katflow.log")
		}
		zl, err := logger.New(cfg.Log.Level, logFile)
		if err != nil {
			return err
		}
		log = zl

		if cfg.Reminder.Enabled && os.Getenv("KATFLOW_NO_REMINDER") != "1" {
			go schedule.RunConfigured(cmd.Context(), cfg, func() { remind(cmd.Context()) })
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

// Execute runs the command tree until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/katflow/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug|info|warn|error")

	// Add commands; other files define these vars
	rootCmd.AddCommand(addCmd, statsCmd, recentCmd, calendarCmd, trendsCmd, importCmd, tuiCmd, versionCmd)
}

// remind sends the daily check-in, mentioning the current streak.
func remind(ctx context.Context) {
	entries, err := fetchEntries(ctx)
	if err != nil {
		log.Warnf("reminder: %v", err)
	}
	today, streak := energy.Streak(entries, time.Now(), cfg.Location())
	title, msg := notify.FormatCheckIn(today, streak)
	if err := notify.Info(title, msg); err != nil {
		log.Warnf("reminder: notify: %v", err)
	}
}

// fetchEntries reads every entry from the configured source once.
func fetchEntries(ctx context.Context) ([]energy.Entry, error) {
	src, closeSrc, err := source.Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	defer closeSrc()

	if cfg.Source.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Source.Timeout)
		defer cancel()
	}
	entries, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch entries: %w", err)
	}
	return entries, nil
}
