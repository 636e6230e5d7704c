// Package fallback extends a dictionary source with a final single-character
// batch generated from the go-pinyin reading table, so hanzi missing from the
// configured data are still romanized. Only the first listed reading of each
// character is used.
package fallback

import (
	"cmp"
	"context"
	"iter"
	"slices"
	"strings"
	"sync"

	"github.com/jusunglee/pinyin/internal/dict"
	"github.com/jusunglee/pinyin/internal/metrics"
	gopinyin "github.com/mozillazg/go-pinyin"
)

var hanBatch = sync.OnceValue(func() *dict.Batch {
	entries := make([]dict.Entry, 0, len(gopinyin.PinyinDict))
	for code, readings := range gopinyin.PinyinDict {
		first, _, _ := strings.Cut(readings, ",")
		value := dict.Template(first)
		if value == "" {
			continue
		}
		entries = append(entries, dict.Entry{Key: string(rune(code)), Value: value})
	}
	slices.SortFunc(entries, func(a, b dict.Entry) int { return cmp.Compare(a.Key, b.Key) })
	metrics.DictionaryEntries.WithLabelValues("fallback").Set(float64(len(entries)))
	return dict.NewBatch(entries)
})

// Source yields the wrapped source's batches followed by the fallback batch.
type Source struct {
	dict.Source
}

func Wrap(src dict.Source) *Source {
	return &Source{Source: src}
}

func (s *Source) Batches(ctx context.Context) iter.Seq2[*dict.Batch, error] {
	return func(yield func(*dict.Batch, error) bool) {
		for b, err := range s.Source.Batches(ctx) {
			if !yield(b, err) || err != nil {
				return
			}
		}
		yield(hanBatch(), nil)
	}
}

// Unwrap returns the wrapped source.
func (s *Source) Unwrap() dict.Source {
	return s.Source
}
