package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"strings"

	"github.com/jusunglee/pinyin/internal/dict"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Store keeps a dictionary in SQLite and serves it as a dict.Source.
type Store struct {
	db *sql.DB
}

// New opens (and if needed creates) the SQLite database at dbPath.
func New(ctx context.Context, dbPath string) (*Store, error) {
	// Strip sqlite:// prefix if present
	dbPath = strings.TrimPrefix(dbPath, "sqlite://")

	isNew := false
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		isNew = true
	}

	sqliteDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening SQLite database: %w", err)
	}
	// One connection keeps ":memory:" databases and per-connection pragmas consistent.
	sqliteDB.SetMaxOpenConns(1)

	if _, err := sqliteDB.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		sqliteDB.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if _, err := sqliteDB.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		sqliteDB.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if _, err := sqliteDB.ExecContext(ctx, schemaSQL); err != nil {
		sqliteDB.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	if isNew {
		slog.Info("created new SQLite dictionary", "path", dbPath)
	}

	return &Store{db: sqliteDB}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Import replaces the stored dictionary with segments and surnames in one
// transaction.
func (s *Store) Import(ctx context.Context, segments []dict.Segment, surnames []dict.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{"DELETE FROM words", "DELETE FROM segments", "DELETE FROM surnames"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clearing dictionary: %w", err)
		}
	}

	insertWord, err := tx.PrepareContext(ctx, `
		INSERT INTO words (segment_id, position, hanzi, pinyin)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing word insert: %w", err)
	}
	defer insertWord.Close()

	for i, seg := range segments {
		if _, err := tx.ExecContext(ctx, `INSERT INTO segments (id, name) VALUES (?, ?)`, i, seg.Name); err != nil {
			return fmt.Errorf("inserting segment %s: %w", seg.Name, err)
		}
		for pos, e := range seg.Entries {
			if _, err := insertWord.ExecContext(ctx, i, pos, e.Key, e.Value); err != nil {
				return fmt.Errorf("inserting %q into %s: %w", e.Key, seg.Name, err)
			}
		}
	}

	for pos, e := range surnames {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO surnames (position, hanzi, pinyin) VALUES (?, ?, ?)
		`, pos, e.Key, e.Value); err != nil {
			return fmt.Errorf("inserting surname %q: %w", e.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing dictionary: %w", err)
	}
	return nil
}

// Batches yields one batch per stored segment. Each segment is read fully
// before it is yielded so no rows stay open while the caller substitutes.
func (s *Store) Batches(ctx context.Context) iter.Seq2[*dict.Batch, error] {
	return func(yield func(*dict.Batch, error) bool) {
		ids, err := s.segmentIDs(ctx)
		if err != nil {
			yield(nil, err)
			return
		}
		if len(ids) == 0 {
			yield(nil, fmt.Errorf("%w: no segments stored", dict.ErrDataUnavailable))
			return
		}
		for _, id := range ids {
			entries, err := s.segmentEntries(ctx, id)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(dict.NewBatch(entries), nil) {
				return
			}
		}
	}
}

func (s *Store) segmentIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM segments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing segments: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) segmentEntries(ctx context.Context, segmentID int64) ([]dict.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT hanzi, pinyin
		FROM words
		WHERE segment_id = ?
		ORDER BY position
	`, segmentID)
	if err != nil {
		return nil, fmt.Errorf("reading segment %d: %w", segmentID, err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (s *Store) Surnames(ctx context.Context) ([]dict.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT hanzi, pinyin FROM surnames ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("reading surnames: %w", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no surnames stored", dict.ErrDataUnavailable)
	}
	return entries, nil
}

func scanEntries(rows *sql.Rows) ([]dict.Entry, error) {
	var entries []dict.Entry
	for rows.Next() {
		var e dict.Entry
		if err := rows.Scan(&e.Key, &e.Value); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
