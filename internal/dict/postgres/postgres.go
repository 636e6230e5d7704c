package postgres

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jusunglee/pinyin/internal/dict"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS pinyin_segments (
    id   INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS pinyin_words (
    segment_id INTEGER NOT NULL REFERENCES pinyin_segments(id) ON DELETE CASCADE,
    position   INTEGER NOT NULL,
    hanzi      TEXT NOT NULL,
    pinyin     TEXT NOT NULL,
    PRIMARY KEY (segment_id, position)
);

CREATE TABLE IF NOT EXISTS pinyin_surnames (
    position INTEGER PRIMARY KEY,
    hanzi    TEXT NOT NULL,
    pinyin   TEXT NOT NULL
);
`

// Store keeps a dictionary in PostgreSQL and serves it as a dict.Source.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a connection pool and ensures the dictionary tables exist.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database URL: %w", err)
	}

	// Dictionary reads are short and sequential per conversion.
	config.MaxConns = 5
	config.MinConns = 1
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 30 * time.Second
	config.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return &Store{pool: pool}, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// PoolStats exposes pool statistics for metrics export.
func (s *Store) PoolStats() *pgxpool.Stat {
	return s.pool.Stat()
}

// Import replaces the stored dictionary in one transaction, bulk loading
// words with COPY.
func (s *Store) Import(ctx context.Context, segments []dict.Segment, surnames []dict.Entry) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE pinyin_words, pinyin_segments, pinyin_surnames`); err != nil {
		return fmt.Errorf("clearing dictionary: %w", err)
	}

	var words [][]any
	for i, seg := range segments {
		if _, err := tx.Exec(ctx, `INSERT INTO pinyin_segments (id, name) VALUES ($1, $2)`, i, seg.Name); err != nil {
			return fmt.Errorf("inserting segment %s: %w", seg.Name, err)
		}
		for pos, e := range seg.Entries {
			words = append(words, []any{int32(i), int32(pos), e.Key, e.Value})
		}
	}

	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"pinyin_words"},
		[]string{"segment_id", "position", "hanzi", "pinyin"},
		pgx.CopyFromRows(words),
	); err != nil {
		return fmt.Errorf("copying words: %w", err)
	}

	rows := make([][]any, len(surnames))
	for pos, e := range surnames {
		rows[pos] = []any{int32(pos), e.Key, e.Value}
	}
	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"pinyin_surnames"},
		[]string{"position", "hanzi", "pinyin"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return fmt.Errorf("copying surnames: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing dictionary: %w", err)
	}
	return nil
}

func (s *Store) Batches(ctx context.Context) iter.Seq2[*dict.Batch, error] {
	return func(yield func(*dict.Batch, error) bool) {
		rows, err := s.pool.Query(ctx, `SELECT id FROM pinyin_segments ORDER BY id`)
		if err != nil {
			yield(nil, fmt.Errorf("listing segments: %w", err))
			return
		}
		ids, err := pgx.CollectRows(rows, pgx.RowTo[int32])
		if err != nil {
			yield(nil, fmt.Errorf("listing segments: %w", err))
			return
		}
		if len(ids) == 0 {
			yield(nil, fmt.Errorf("%w: no segments stored", dict.ErrDataUnavailable))
			return
		}

		for _, id := range ids {
			rows, err := s.pool.Query(ctx, `
				SELECT hanzi, pinyin
				FROM pinyin_words
				WHERE segment_id = $1
				ORDER BY position
			`, id)
			if err != nil {
				yield(nil, fmt.Errorf("reading segment %d: %w", id, err))
				return
			}
			entries, err := collectEntries(rows)
			if err != nil {
				yield(nil, fmt.Errorf("reading segment %d: %w", id, err))
				return
			}
			if !yield(dict.NewBatch(entries), nil) {
				return
			}
		}
	}
}

func (s *Store) Surnames(ctx context.Context) ([]dict.Entry, error) {
	rows, err := s.pool.Query(ctx, `SELECT hanzi, pinyin FROM pinyin_surnames ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("reading surnames: %w", err)
	}
	entries, err := collectEntries(rows)
	if err != nil {
		return nil, fmt.Errorf("reading surnames: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no surnames stored", dict.ErrDataUnavailable)
	}
	return entries, nil
}

func collectEntries(rows pgx.Rows) ([]dict.Entry, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (dict.Entry, error) {
		var e dict.Entry
		err := row.Scan(&e.Key, &e.Value)
		return e, err
	})
}
