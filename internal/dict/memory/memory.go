// Package memory implements a dictionary source that loads every segment
// once and serves it from memory. The loaded data is never written again, so
// a Source may be shared by concurrent conversions.
package memory

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"

	"github.com/jusunglee/pinyin/internal/dict"
	"github.com/jusunglee/pinyin/internal/metrics"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

type Source struct {
	segments    []dict.Segment
	batches     []*dict.Batch
	surnames    []dict.Entry
	surnamesErr error
}

// Load reads all segments of fsys concurrently. A missing surname file is
// not fatal here; it is reported by Surnames.
func Load(ctx context.Context, fsys fs.FS) (*Source, error) {
	names, err := dict.Segments(fsys)
	if err != nil {
		return nil, err
	}

	segments := make([]dict.Segment, len(names))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			seg, err := dict.ReadSegment(fsys, name)
			if err != nil {
				return err
			}
			segments[i] = seg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading segments: %w", err)
	}

	surnames, surnamesErr := dict.ReadSurnames(fsys)
	if surnamesErr != nil && !dict.IsDataUnavailable(surnamesErr) {
		return nil, surnamesErr
	}

	s := New(segments, surnames)
	s.surnamesErr = surnamesErr

	entries := lo.SumBy(segments, func(seg dict.Segment) int { return len(seg.Entries) })
	metrics.DictionaryEntries.WithLabelValues("memory").Set(float64(entries))
	slog.Debug("loaded dictionary into memory", "segments", len(segments), "entries", entries, "surnames", len(surnames))
	return s, nil
}

// New builds a source from segments that are already in memory.
func New(segments []dict.Segment, surnames []dict.Entry) *Source {
	return &Source{
		segments: segments,
		batches: lo.Map(segments, func(seg dict.Segment, _ int) *dict.Batch {
			return dict.NewBatch(seg.Entries)
		}),
		surnames: surnames,
	}
}

// Segments returns the loaded segments in application order.
func (s *Source) Segments() []dict.Segment {
	return s.segments
}

func (s *Source) Batches(ctx context.Context) iter.Seq2[*dict.Batch, error] {
	return dict.FromBatches(ctx, s.batches)
}

func (s *Source) Surnames(ctx context.Context) ([]dict.Entry, error) {
	if s.surnamesErr != nil {
		return nil, s.surnamesErr
	}
	return s.surnames, nil
}

func (s *Source) Close() error {
	return nil
}
