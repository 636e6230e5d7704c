// dictimport copies a dictionary data directory into SQLite or PostgreSQL so
// it can be served by the sqlite and postgres loaders. Existing dictionary
// contents are replaced in one transaction.
//
// Usage:
//
//	go run ./cmd/dictimport --sqlite-path pinyin.db
//	go run ./cmd/dictimport --data-path ./mydata --database-url postgres://localhost:5432/pinyin
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/jusunglee/pinyin/internal/dict"
	"github.com/jusunglee/pinyin/internal/dict/loader"
	"github.com/jusunglee/pinyin/internal/dict/memory"
	"github.com/jusunglee/pinyin/internal/dict/postgres"
	"github.com/jusunglee/pinyin/internal/dict/sqlite"
	"github.com/jusunglee/pinyin/internal/logger"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/samber/lo"
)

type importer interface {
	Import(ctx context.Context, segments []dict.Segment, surnames []dict.Entry) error
	Close() error
}

func main() {
	if err := mainE(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func mainE() error {
	_ = godotenv.Load()

	fs := ff.NewFlagSet("pinyin-dictimport")
	var (
		dataPath    = fs.StringLong("data-path", "", "data directory to import (default: embedded data)")
		sqlitePath  = fs.StringLong("sqlite-path", "", "SQLite database file to write")
		databaseURL = fs.StringLong("database-url", "", "PostgreSQL connection URL to write")
	)

	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("PINYIN")); err != nil {
		fmt.Printf("%s\n", ffhelp.Flags(fs))
		return fmt.Errorf("parsing flags: %w", err)
	}

	log := logger.New()
	ctx := context.Background()

	return run(ctx, log, *dataPath, *sqlitePath, *databaseURL)
}

func run(ctx context.Context, log *slog.Logger, dataPath, sqlitePath, databaseURL string) error {
	if (sqlitePath == "") == (databaseURL == "") {
		return errors.New("exactly one of sqlite-path or database-url is required")
	}

	fsys, err := loader.DataFS(dataPath)
	if err != nil {
		return err
	}
	src, err := memory.Load(ctx, fsys)
	if err != nil {
		return fmt.Errorf("loading data: %w", err)
	}

	surnames, err := src.Surnames(ctx)
	if err != nil {
		if !dict.IsDataUnavailable(err) {
			return err
		}
		log.WarnContext(ctx, "no surname list, importing words only", "error", err)
	}

	var dst importer
	if sqlitePath != "" {
		dst, err = sqlite.New(ctx, sqlitePath)
	} else {
		dst, err = postgres.New(ctx, databaseURL)
	}
	if err != nil {
		return fmt.Errorf("opening destination: %w", err)
	}
	defer dst.Close()

	segments := src.Segments()
	if err := dst.Import(ctx, segments, surnames); err != nil {
		return fmt.Errorf("importing dictionary: %w", err)
	}

	log.InfoContext(ctx, "imported dictionary",
		"segments", len(segments),
		"words", lo.SumBy(segments, func(s dict.Segment) int { return len(s.Entries) }),
		"surnames", len(surnames),
	)
	return nil
}
