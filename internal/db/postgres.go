package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ramanasai/katflow/internal/encryption"
	"github.com/ramanasai/katflow/internal/energy"
	"github.com/ramanasai/katflow/internal/logger"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS entries (
  seq        BIGSERIAL PRIMARY KEY,
  id         UUID        NOT NULL UNIQUE,
  date       TEXT        NOT NULL,
  score      SMALLINT    NOT NULL CHECK (score BETWEEN 1 AND 5),
  thoughts   TEXT        NOT NULL DEFAULT '',
  encrypted  BOOLEAN     NOT NULL DEFAULT FALSE,
  created_at TIMESTAMPTZ NOT NULL
)`

type PostgresStore struct {
	pool   *pgxpool.Pool
	sealer sealer
	logger logger.Logger
}

// OpenPostgres connects to dsn and makes sure the entries table exists.
func OpenPostgres(ctx context.Context, dsn string, enc *encryption.Encryptor, log logger.Logger) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("schema apply failed: %w", err)
	}
	return &PostgresStore{pool: pool, sealer: sealer{enc: enc}, logger: log}, nil
}

func (p *PostgresStore) AddEntry(ctx context.Context, n NewEntry) (Record, error) {
	if err := n.Validate(); err != nil {
		return Record{}, err
	}
	thoughts, encrypted, err := p.sealer.seal(n.Thoughts)
	if err != nil {
		return Record{}, err
	}

	id := uuid.New()
	rec := Record{
		ID:        id.String(),
		Entry:     energy.Entry{Date: n.Date, Score: n.Score, Thoughts: n.Thoughts},
		Encrypted: encrypted,
		CreatedAt: time.Now().UTC(),
	}
	_, err = p.pool.Exec(ctx,
		`INSERT INTO entries (id, date, score, thoughts, encrypted, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		id, n.Date, n.Score, thoughts, encrypted, rec.CreatedAt)
	if err != nil {
		p.logger.Errorf("failed to insert entry: %v", err)
		return Record{}, fmt.Errorf("insert entry: %w", err)
	}
	return rec, nil
}

func (p *PostgresStore) ListEntries(ctx context.Context) ([]energy.Entry, error) {
	rows, err := p.pool.Query(ctx, `SELECT date, score, thoughts, encrypted FROM entries ORDER BY seq ASC`)
	if err != nil {
		p.logger.Errorf("failed to query entries: %v", err)
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := make([]energy.Entry, 0)
	for rows.Next() {
		var e energy.Entry
		var score int16
		var encrypted bool
		if err := rows.Scan(&e.Date, &score, &e.Thoughts, &encrypted); err != nil {
			p.logger.Errorf("failed to scan entry: %v", err)
			return nil, err
		}
		e.Score = int(score)
		if e.Thoughts, err = p.sealer.open(e.Thoughts, encrypted); err != nil {
			return nil, fmt.Errorf("entry %s: %w", e.Date, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

// --- Compile-time assertions ---
var _ Store = (*PostgresStore)(nil)
