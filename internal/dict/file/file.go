// Package file implements a dictionary source that re-reads its segment
// files on every conversion. It keeps no dictionary data in memory between
// calls, trading speed for a small footprint.
package file

import (
	"context"
	"fmt"
	"io/fs"
	"iter"

	"github.com/jusunglee/pinyin/internal/dict"
)

// Source implements dict.Source over the files of a data directory.
type Source struct {
	fsys fs.FS
}

// New creates a file source. It fails with dict.ErrDataUnavailable when fsys
// holds no segment files.
func New(fsys fs.FS) (*Source, error) {
	if _, err := dict.Segments(fsys); err != nil {
		return nil, err
	}
	return &Source{fsys: fsys}, nil
}

func (s *Source) Batches(ctx context.Context) iter.Seq2[*dict.Batch, error] {
	return func(yield func(*dict.Batch, error) bool) {
		names, err := dict.Segments(s.fsys)
		if err != nil {
			yield(nil, err)
			return
		}
		for _, name := range names {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			seg, err := dict.ReadSegment(s.fsys, name)
			if err != nil {
				yield(nil, fmt.Errorf("loading segment: %w", err))
				return
			}
			if !yield(dict.NewBatch(seg.Entries), nil) {
				return
			}
		}
	}
}

func (s *Source) Surnames(ctx context.Context) ([]dict.Entry, error) {
	return dict.ReadSurnames(s.fsys)
}

func (s *Source) Close() error {
	return nil
}
