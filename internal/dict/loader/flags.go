package loader

import (
	"fmt"
	"strings"

	"github.com/jusunglee/pinyin/internal/dict"
	"github.com/jusunglee/pinyin/internal/dict/stream"
	"github.com/peterbourgon/ff/v4"
)

// Flags are the source selection flags shared by the binaries.
type Flags struct {
	kind        *string
	dataPath    *string
	databaseURL *string
	streamChunk *int
	hanFallback *bool
}

// AddFlags registers --loader, --data-path, --database-url, --stream-chunk
// and --han-fallback on fs.
func AddFlags(fs *ff.FlagSet) *Flags {
	return &Flags{
		kind:        fs.StringEnumLong("loader", "dictionary loader: "+strings.Join(KindNames(), ", "), KindNames()...),
		dataPath:    fs.StringLong("data-path", "", "data directory, or database file for the sqlite loader (default: embedded data)"),
		databaseURL: fs.StringLong("database-url", "", "PostgreSQL connection URL for the postgres loader"),
		streamChunk: fs.IntLong("stream-chunk", stream.DefaultChunk, "entries per batch for the stream loader"),
		hanFallback: fs.BoolLong("han-fallback", "romanize characters missing from the dictionary with the built-in reading table (always on for the embedded data)"),
	}
}

// Config returns the parsed flags as a Config.
func (f *Flags) Config() (Config, error) {
	kind, err := ParseKind(*f.kind)
	if err != nil {
		return Config{}, err
	}
	if *f.streamChunk < 1 {
		return Config{}, fmt.Errorf("%w: stream-chunk must be at least 1", dict.ErrInvalidSource)
	}
	return Config{
		Kind:        kind,
		DataPath:    *f.dataPath,
		DatabaseURL: *f.databaseURL,
		StreamChunk: *f.streamChunk,
		HanFallback: *f.hanFallback,
	}, nil
}
