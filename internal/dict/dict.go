// Package dict defines the dictionary data consumed by the pinyin converter:
// ordered batches of hanzi to pinyin templates and an ordered surname list.
// Subpackages provide interchangeable sources backed by files, memory,
// streams, SQLite and PostgreSQL.
package dict

import (
	"cmp"
	"context"
	"iter"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"
)

// Entry maps a hanzi sequence to its pinyin template. Templates separate
// syllables with a tab, e.g. "\txiǎng\tyìng".
type Entry struct {
	Key   string
	Value string
}

// Segment is a named, ordered group of entries as stored on disk or in a
// database. Each segment becomes one Batch.
type Segment struct {
	Name    string
	Entries []Entry
}

// Batch is one ordered mapping applied as a single substitution pass.
// A Batch is read-only once built and safe for concurrent use.
type Batch struct {
	entries []Entry

	once     sync.Once
	replacer *strings.Replacer
}

func NewBatch(entries []Entry) *Batch {
	return &Batch{entries: entries}
}

// Entries returns the batch content in source order.
func (b *Batch) Entries() []Entry {
	return b.entries
}

func (b *Batch) Len() int {
	return len(b.entries)
}

// Replace substitutes every key of the batch in s in one left-to-right pass.
// Text inserted by a replacement is never rescanned. When several keys match
// at the same position the longest one wins; duplicate keys keep the first
// value in source order.
func (b *Batch) Replace(s string) string {
	b.once.Do(b.build)
	return b.replacer.Replace(s)
}

func (b *Batch) build() {
	entries := lo.Filter(b.entries, func(e Entry, _ int) bool { return e.Key != "" })
	// strings.Replacer prefers earlier pairs on ties, so longer keys go first.
	slices.SortStableFunc(entries, func(x, y Entry) int {
		return cmp.Compare(len(y.Key), len(x.Key))
	})
	pairs := make([]string, 0, 2*len(entries))
	for _, e := range entries {
		pairs = append(pairs, e.Key, e.Value)
	}
	b.replacer = strings.NewReplacer(pairs...)
}

// Source supplies dictionary data to the converter.
//
// Batches must be yielded in a stable order across calls; phrase batches are
// expected before single-character batches. A non-nil error ends iteration.
// Surnames are matched by prefix in the returned order.
type Source interface {
	Batches(ctx context.Context) iter.Seq2[*Batch, error]
	Surnames(ctx context.Context) ([]Entry, error)
	Close() error
}

// FromBatches adapts an in-memory slice to the Batches iterator shape.
func FromBatches(ctx context.Context, batches []*Batch) iter.Seq2[*Batch, error] {
	return func(yield func(*Batch, error) bool) {
		for _, b := range batches {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			if !yield(b, nil) {
				return
			}
		}
	}
}
