package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/ramanasai/katflow/internal/encryption"
	"github.com/ramanasai/katflow/internal/energy"
	"github.com/ramanasai/katflow/internal/logger"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaFS embed.FS

type SQLiteStore struct {
	db     *sql.DB
	sealer sealer
	logger logger.Logger
}

// OpenSQLite opens (and migrates) the sqlite database at path. enc may be
// nil, in which case thoughts are stored in clear text.
func OpenSQLite(path string, enc *encryption.Encryptor, log logger.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)",
		path,
	)

	dbh, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := migrate(dbh); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	return &SQLiteStore{db: dbh, sealer: sealer{enc: enc}, logger: log}, nil
}

func migrate(dbh *sql.DB) error {
	b, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	if _, err := dbh.Exec(string(b)); err != nil {
		return errors.Join(fmt.Errorf("schema apply failed"), err)
	}
	return nil
}

func (s *SQLiteStore) AddEntry(ctx context.Context, n NewEntry) (Record, error) {
	if err := n.Validate(); err != nil {
		return Record{}, err
	}
	thoughts, encrypted, err := s.sealer.seal(n.Thoughts)
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		ID:        uuid.NewString(),
		Entry:     energy.Entry{Date: n.Date, Score: n.Score, Thoughts: n.Thoughts},
		Encrypted: encrypted,
		CreatedAt: time.Now().UTC(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO entries(id, date, score, thoughts, encrypted, created_at) VALUES(?,?,?,?,?,?)`,
		rec.ID, n.Date, n.Score, thoughts, encrypted, rec.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		s.logger.Errorf("failed to insert entry: %v", err)
		return Record{}, fmt.Errorf("insert entry: %w", err)
	}
	return rec, nil
}

func (s *SQLiteStore) ListEntries(ctx context.Context) ([]energy.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date, score, thoughts, encrypted FROM entries ORDER BY seq ASC`)
	if err != nil {
		s.logger.Errorf("failed to query entries: %v", err)
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := make([]energy.Entry, 0)
	for rows.Next() {
		var e energy.Entry
		var encrypted bool
		if err := rows.Scan(&e.Date, &e.Score, &e.Thoughts, &encrypted); err != nil {
			return nil, err
		}
		if e.Thoughts, err = s.sealer.open(e.Thoughts, encrypted); err != nil {
			return nil, fmt.Errorf("entry %s: %w", e.Date, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ Store = (*SQLiteStore)(nil)
