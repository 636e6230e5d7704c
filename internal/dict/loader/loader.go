// Package loader maps a configured loader kind to a dictionary source. The
// set of kinds is closed; unknown names are rejected at configuration time.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/jusunglee/pinyin/data"
	"github.com/jusunglee/pinyin/internal/dict"
	"github.com/jusunglee/pinyin/internal/dict/fallback"
	"github.com/jusunglee/pinyin/internal/dict/file"
	"github.com/jusunglee/pinyin/internal/dict/memory"
	"github.com/jusunglee/pinyin/internal/dict/postgres"
	"github.com/jusunglee/pinyin/internal/dict/sqlite"
	"github.com/jusunglee/pinyin/internal/dict/stream"
	"github.com/samber/lo"
)

type Kind string

const (
	KindFile     Kind = "file"
	KindMemory   Kind = "memory"
	KindStream   Kind = "stream"
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
)

// Kinds lists every supported loader; the first one is the default.
var Kinds = []Kind{KindFile, KindMemory, KindStream, KindSQLite, KindPostgres}

// KindNames returns Kinds as strings, e.g. for enum flags.
func KindNames() []string {
	return lo.Map(Kinds, func(k Kind, _ int) string { return string(k) })
}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if k == "" {
		return KindFile, nil
	}
	if !lo.Contains(Kinds, k) {
		return "", fmt.Errorf("%w: unknown loader %q (want one of %s)", dict.ErrInvalidSource, s, strings.Join(KindNames(), ", "))
	}
	return k, nil
}

type Config struct {
	Kind Kind
	// DataPath is a data directory for file, memory and stream, and the
	// database file for sqlite. Empty selects the embedded data.
	DataPath    string
	DatabaseURL string
	StreamChunk int
	// HanFallback appends the go-pinyin reading table after the configured
	// data. The embedded data is small, so it always gets the fallback.
	HanFallback bool
}

func (cfg Config) fallbackEnabled() bool {
	if cfg.HanFallback {
		return true
	}
	switch cfg.Kind {
	case "", KindFile, KindMemory, KindStream:
		return cfg.DataPath == ""
	}
	return false
}

// Open constructs the configured source. Eager loaders have finished loading
// when Open returns.
func Open(ctx context.Context, cfg Config) (dict.Source, error) {
	src, err := open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.fallbackEnabled() {
		return fallback.Wrap(src), nil
	}
	return src, nil
}

func open(ctx context.Context, cfg Config) (dict.Source, error) {
	kind := cfg.Kind
	if kind == "" {
		kind = KindFile
	}

	switch kind {
	case KindFile:
		fsys, err := DataFS(cfg.DataPath)
		if err != nil {
			return nil, err
		}
		return file.New(fsys)
	case KindMemory:
		fsys, err := DataFS(cfg.DataPath)
		if err != nil {
			return nil, err
		}
		return memory.Load(ctx, fsys)
	case KindStream:
		fsys, err := DataFS(cfg.DataPath)
		if err != nil {
			return nil, err
		}
		chunk := cfg.StreamChunk
		if chunk == 0 {
			chunk = stream.DefaultChunk
		}
		return stream.New(fsys, chunk)
	case KindSQLite:
		if cfg.DataPath == "" {
			return nil, fmt.Errorf("%w: sqlite loader needs a database path", dict.ErrInvalidSource)
		}
		path := strings.TrimPrefix(cfg.DataPath, "sqlite://")
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: sqlite database %s: %v", dict.ErrDataUnavailable, path, err)
		}
		return sqlite.New(ctx, path)
	case KindPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("%w: postgres loader needs a database URL", dict.ErrInvalidSource)
		}
		return postgres.New(ctx, cfg.DatabaseURL)
	}
	return nil, fmt.Errorf("%w: unknown loader %q", dict.ErrInvalidSource, kind)
}

// DataFS resolves a data directory. Empty path selects the embedded data.
func DataFS(path string) (fs.FS, error) {
	if path == "" {
		return data.FS, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: '%s' is not a valid data path", dict.ErrInvalidSource, path)
		}
		return nil, fmt.Errorf("checking data path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: '%s' is not a valid data path", dict.ErrInvalidSource, path)
	}
	return os.DirFS(path), nil
}
