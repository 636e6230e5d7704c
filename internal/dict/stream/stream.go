// Package stream implements a dictionary source that streams segment files
// line by line, yielding small batches instead of whole segments. Memory use
// stays bounded by the chunk size.
//
// Every chunk is its own substitution pass, so an entry is applied before
// later chunks are read. A key must therefore not land in an earlier chunk
// than a longer key containing it ("庆" before "重庆"), whatever the chunk
// size. New checks this and rejects segments that break it; listing longer
// keys first always satisfies it. Keys that merely overlap, such as "中国"
// and "国人" on "中国人", are not checked: across chunks the earlier chunk
// wins instead of the leftmost match.
package stream

import (
	"context"
	"fmt"
	"io/fs"
	"iter"

	"github.com/jusunglee/pinyin/internal/dict"
)

// DefaultChunk is the number of entries per yielded batch.
const DefaultChunk = 512

type Source struct {
	fsys  fs.FS
	chunk int
}

// New creates a stream source. Segments whose order would make chunked
// substitution differ from whole-segment substitution fail with
// dict.ErrInvalidSource.
func New(fsys fs.FS, chunk int) (*Source, error) {
	names, err := dict.Segments(fsys)
	if err != nil {
		return nil, err
	}
	if chunk < 1 {
		chunk = 1
	}
	for _, name := range names {
		if err := checkOrder(fsys, name, chunk); err != nil {
			return nil, err
		}
	}
	return &Source{fsys: fsys, chunk: chunk}, nil
}

// checkOrder reports the first key of a segment that is contained in a
// longer key from a later chunk.
func checkOrder(fsys fs.FS, name string, chunk int) error {
	f, err := fsys.Open(name)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %v", dict.ErrDataUnavailable, name, err)
	}
	defer f.Close()

	first := map[string]int{}
	i := 0
	for e, err := range dict.Scan(f, name) {
		if err != nil {
			return err
		}
		if sub, pos, ok := earlierSubkey(e.Key, first, i/chunk, chunk); ok {
			return fmt.Errorf("%w: %s: %q (entry %d) is applied before %q (entry %d) which contains it; list longer keys first",
				dict.ErrInvalidSource, name, sub, pos+1, e.Key, i+1)
		}
		if _, seen := first[e.Key]; !seen {
			first[e.Key] = i
		}
		i++
	}
	return nil
}

// earlierSubkey finds a proper substring of key that was seen in a chunk
// before chunkIdx.
func earlierSubkey(key string, first map[string]int, chunkIdx, chunk int) (string, int, bool) {
	runes := []rune(key)
	for start := range runes {
		for end := start + 1; end <= len(runes); end++ {
			if start == 0 && end == len(runes) {
				continue
			}
			sub := string(runes[start:end])
			if pos, ok := first[sub]; ok && pos/chunk < chunkIdx {
				return sub, pos, true
			}
		}
	}
	return "", 0, false
}

func (s *Source) Batches(ctx context.Context) iter.Seq2[*dict.Batch, error] {
	return func(yield func(*dict.Batch, error) bool) {
		names, err := dict.Segments(s.fsys)
		if err != nil {
			yield(nil, err)
			return
		}
		for _, name := range names {
			if !s.streamSegment(ctx, name, yield) {
				return
			}
		}
	}
}

// streamSegment reports whether iteration should continue.
func (s *Source) streamSegment(ctx context.Context, name string, yield func(*dict.Batch, error) bool) bool {
	f, err := s.fsys.Open(name)
	if err != nil {
		yield(nil, fmt.Errorf("%w: opening %s: %v", dict.ErrDataUnavailable, name, err))
		return false
	}
	defer f.Close()

	buf := make([]dict.Entry, 0, s.chunk)
	for e, err := range dict.Scan(f, name) {
		if err != nil {
			yield(nil, err)
			return false
		}
		buf = append(buf, e)
		if len(buf) < s.chunk {
			continue
		}
		if err := ctx.Err(); err != nil {
			yield(nil, err)
			return false
		}
		if !yield(dict.NewBatch(buf), nil) {
			return false
		}
		buf = make([]dict.Entry, 0, s.chunk)
	}
	if len(buf) > 0 {
		return yield(dict.NewBatch(buf), nil)
	}
	return true
}

func (s *Source) Surnames(ctx context.Context) ([]dict.Entry, error) {
	return dict.ReadSurnames(s.fsys)
}

func (s *Source) Close() error {
	return nil
}
