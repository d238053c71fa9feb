package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ramanasai/katflow/internal/energy"
	"github.com/spf13/viper"
)

const appName = "katflow"

// Source kinds.
const (
	SourceSQLite   = "sqlite"
	SourcePostgres = "postgres"
	SourceSheet    = "sheet"
)

type ReminderConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	Time     string   `mapstructure:"time"`     // "21:00"
	Workdays []string `mapstructure:"workdays"` // ["Mon","Tue",...]
	Holidays []string `mapstructure:"holidays"` // ["2025-01-01"]
}

type SourceConfig struct {
	Kind     string        `mapstructure:"kind"`
	Path     string        `mapstructure:"path"`      // sqlite file
	DSN      string        `mapstructure:"dsn"`       // postgres
	SheetURL string        `mapstructure:"sheet_url"` // published CSV export
	Timeout  time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type RefreshConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type EncryptionConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type Config struct {
	Theme      string           `mapstructure:"theme"`
	Timezone   string           `mapstructure:"timezone"` // e.g. "Europe/Moscow" (optional)
	Window     string           `mapstructure:"window"`
	Refresh    RefreshConfig    `mapstructure:"refresh"`
	Log        LogConfig        `mapstructure:"log"`
	Source     SourceConfig     `mapstructure:"source"`
	Encryption EncryptionConfig `mapstructure:"encryption"`
	Reminder   ReminderConfig   `mapstructure:"reminder"`
}

func Default() Config {
	return Config{
		Theme:   "default",
		Window:  string(energy.All),
		Refresh: RefreshConfig{Interval: 5 * time.Minute},
		Log:     LogConfig{Level: "info"},
		Source: SourceConfig{
			Kind:    SourceSQLite,
			Timeout: 15 * time.Second,
		},
		Reminder: ReminderConfig{
			Enabled:  false,
			Time:     "21:00",
			Workdays: []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
			Holidays: []string{},
		},
	}
}

func xdgConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".config", appName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DataDir is where the sqlite file, salt and TUI log live.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".local", "share", appName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// Load reads ~/.config/katflow/config.yaml; a missing file is fine.
func Load() (Config, error) {
	path, err := xdgConfigPath()
	if err != nil {
		return Default(), err
	}
	return LoadFile(path)
}

// LoadFile reads the given YAML file over the defaults, then applies
// KATFLOW_* environment overrides.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	v.SetEnvPrefix(appName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// defaults
	v.SetDefault("theme", cfg.Theme)
	v.SetDefault("timezone", cfg.Timezone)
	v.SetDefault("window", cfg.Window)
	v.SetDefault("refresh.interval", cfg.Refresh.Interval)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("source.kind", cfg.Source.Kind)
	v.SetDefault("source.path", cfg.Source.Path)
	v.SetDefault("source.dsn", cfg.Source.DSN)
	v.SetDefault("source.sheet_url", cfg.Source.SheetURL)
	v.SetDefault("source.timeout", cfg.Source.Timeout)
	v.SetDefault("encryption.enabled", cfg.Encryption.Enabled)
	v.SetDefault("reminder.enabled", cfg.Reminder.Enabled)
	v.SetDefault("reminder.time", cfg.Reminder.Time)
	v.SetDefault("reminder.workdays", cfg.Reminder.Workdays)
	v.SetDefault("reminder.holidays", cfg.Reminder.Holidays)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("config read: %w", err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config unmarshal: %w", err)
	}

	// normalize workdays
	days := cfg.Reminder.Workdays[:0]
	for _, d := range cfg.Reminder.Workdays {
		if abbr := WeekdayAbbr(d); abbr != "" {
			days = append(days, abbr)
		}
	}
	cfg.Reminder.Workdays = days
	cfg.Source.Kind = strings.ToLower(strings.TrimSpace(cfg.Source.Kind))
	return cfg, nil
}

// WeekdayAbbr turns "monday", " MON " etc. into "Mon"; "" if too short.
func WeekdayAbbr(d string) string {
	d = strings.ToLower(strings.TrimSpace(d))
	if len(d) < 3 {
		return ""
	}
	return strings.ToUpper(d[:1]) + d[1:3]
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	var errs []error
	switch c.Source.Kind {
	case SourceSQLite:
	case SourcePostgres:
		if c.Source.DSN == "" {
			errs = append(errs, errors.New("source.dsn is required when source.kind=postgres"))
		}
	case SourceSheet:
		if c.Source.SheetURL == "" {
			errs = append(errs, errors.New("source.sheet_url is required when source.kind=sheet"))
		}
	default:
		errs = append(errs, fmt.Errorf("source.kind must be one of %s, %s, %s (got %q)",
			SourceSQLite, SourcePostgres, SourceSheet, c.Source.Kind))
	}
	if _, err := energy.ParseWindow(c.Window); err != nil {
		errs = append(errs, fmt.Errorf("window: %w", err))
	}
	return errors.Join(errs...)
}

// DefaultWindow is the configured dashboard window, All when invalid.
func (c Config) DefaultWindow() energy.Window {
	w, err := energy.ParseWindow(c.Window)
	if err != nil {
		return energy.All
	}
	return w
}

func (c Config) Location() *time.Location {
	if tz := strings.TrimSpace(c.Timezone); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.Local
}
