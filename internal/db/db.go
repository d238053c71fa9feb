package db

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ramanasai/katflow/internal/config"
	"github.com/ramanasai/katflow/internal/encryption"
	"github.com/ramanasai/katflow/internal/energy"
	"github.com/ramanasai/katflow/internal/logger"
)

var (
	ErrReadOnlySource = errors.New("the configured source is read-only")
	ErrLocked         = errors.New("entry is encrypted and no passphrase is set")
)

// Store persists journal entries in insertion order.
type Store interface {
	AddEntry(ctx context.Context, e NewEntry) (Record, error)
	ListEntries(ctx context.Context) ([]energy.Entry, error)
	Close() error
}

// NewEntry is what a user submits.
type NewEntry struct {
	Date     string `validate:"required,journaldate"`
	Score    int    `validate:"gte=1,lte=5"`
	Thoughts string `validate:"max=4000"`
}

// Record is a stored entry.
type Record struct {
	ID        string
	Entry     energy.Entry
	Encrypted bool
	CreatedAt time.Time
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("journaldate", func(fl validator.FieldLevel) bool {
		_, ok := energy.ParseDate(fl.Field().String(), time.Local)
		return ok
	})
	return v
}

// Validate checks score range and that the date normalizes.
func (n NewEntry) Validate() error {
	if err := validate.Struct(n); err != nil {
		return fmt.Errorf("invalid entry: %w", err)
	}
	return nil
}

// sealer applies optional at-rest encryption to thoughts.
type sealer struct {
	enc *encryption.Encryptor
}

func (s sealer) seal(thoughts string) (string, bool, error) {
	if s.enc == nil || thoughts == "" {
		return thoughts, false, nil
	}
	out, err := s.enc.Encrypt(thoughts)
	if err != nil {
		return "", false, err
	}
	return out, true, nil
}

func (s sealer) open(thoughts string, encrypted bool) (string, error) {
	if !encrypted {
		return thoughts, nil
	}
	if s.enc == nil {
		return "", ErrLocked
	}
	return s.enc.Decrypt(thoughts)
}

// Open builds the store selected by cfg.Source.Kind.
func Open(ctx context.Context, cfg config.Config, log logger.Logger) (Store, error) {
	var enc *encryption.Encryptor
	if cfg.Encryption.Enabled {
		dir, err := config.DataDir()
		if err != nil {
			return nil, err
		}
		enc, err = encryption.FromEnv(filepath.Join(dir, "salt"))
		if err != nil {
			return nil, err
		}
	}

	switch cfg.Source.Kind {
	case config.SourceSQLite, "":
		path := cfg.Source.Path
		if path == "" {
			dir, err := config.DataDir()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(dir, "katflow.db")
		}
		return OpenSQLite(path, enc, log)
	case config.SourcePostgres:
		return OpenPostgres(ctx, cfg.Source.DSN, enc, log)
	case config.SourceSheet:
		return nil, fmt.Errorf("%w: %s", ErrReadOnlySource, cfg.Source.Kind)
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}
}
