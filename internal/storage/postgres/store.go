package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sourceScope/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS contract_sources (
	network          TEXT        NOT NULL,
	address          TEXT        NOT NULL,
	chain_id         BIGINT      NOT NULL,
	fetcher          TEXT        NOT NULL,
	run_id           TEXT        NOT NULL,
	status           TEXT        NOT NULL,
	error            TEXT,
	language         TEXT,
	compiler_version TEXT,
	sources          JSONB,
	settings         JSONB,
	fetched_at       TIMESTAMPTZ NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (network, address)
)`

// Store provides Postgres persistence for fetched sources.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the contract_sources table if missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// PutSourceBatch upserts source records keyed by network and address.
func (s *Store) PutSourceBatch(ctx context.Context, records []model.SourceRecord) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, rec := range records {
		row, err := newSourceRow(rec)
		if err != nil {
			return err
		}
		batch.Queue(`
			INSERT INTO contract_sources (
				network, address, chain_id, fetcher, run_id, status, error,
				language, compiler_version, sources, settings, fetched_at, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,now(),now())
			ON CONFLICT (network, address)
			DO UPDATE SET
				chain_id = EXCLUDED.chain_id,
				fetcher = EXCLUDED.fetcher,
				run_id = EXCLUDED.run_id,
				status = EXCLUDED.status,
				error = EXCLUDED.error,
				language = EXCLUDED.language,
				compiler_version = EXCLUDED.compiler_version,
				sources = EXCLUDED.sources,
				settings = EXCLUDED.settings,
				fetched_at = EXCLUDED.fetched_at,
				updated_at = now()
		`,
			rec.Network,
			rec.Address,
			int64(rec.ChainID),
			rec.Fetcher,
			rec.RunID,
			rec.Status,
			row.errText,
			row.language,
			row.version,
			row.sources,
			row.settings,
			row.fetchedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range records {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert source: %w", err)
		}
	}
	return nil
}

// sourceRow holds the nullable column values of one record.
type sourceRow struct {
	errText   *string
	language  *string
	version   *string
	sources   []byte
	settings  []byte
	fetchedAt time.Time
}

func newSourceRow(rec model.SourceRecord) (sourceRow, error) {
	row := sourceRow{fetchedAt: time.Now().UTC()}
	if rec.FetchedAt != "" {
		ts, err := time.Parse(time.RFC3339Nano, rec.FetchedAt)
		if err != nil {
			return sourceRow{}, fmt.Errorf("parse fetched_at %q: %w", rec.FetchedAt, err)
		}
		row.fetchedAt = ts
	}
	if rec.Error != "" {
		row.errText = &rec.Error
	}
	if rec.Source == nil {
		return row, nil
	}

	language := rec.Source.Options.Language
	version := rec.Source.Options.Version
	row.language = &language
	row.version = &version

	var err error
	if row.sources, err = json.Marshal(rec.Source.Sources); err != nil {
		return sourceRow{}, fmt.Errorf("marshal sources: %w", err)
	}
	if row.settings, err = json.Marshal(rec.Source.Options.Settings); err != nil {
		return sourceRow{}, fmt.Errorf("marshal settings: %w", err)
	}
	return row, nil
}
