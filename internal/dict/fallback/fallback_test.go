package fallback

import (
	"context"
	"testing"

	"github.com/jusunglee/pinyin/internal/dict"
	"github.com/jusunglee/pinyin/internal/dict/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapAppendsHanBatch(t *testing.T) {
	inner := memory.New([]dict.Segment{
		{Name: "words_0", Entries: []dict.Entry{{Key: "长", Value: "\tzhǎng"}}},
	}, []dict.Entry{{Key: "单", Value: "\tshàn"}})
	src := Wrap(inner)

	var batches []*dict.Batch
	for b, err := range src.Batches(t.Context()) {
		require.NoError(t, err)
		batches = append(batches, b)
	}
	require.Len(t, batches, 2)
	assert.Equal(t, 1, batches[0].Len(), "configured data comes first")
	assert.Greater(t, batches[1].Len(), 1000)

	got := "长鱼"
	for _, b := range batches {
		got = b.Replace(got)
	}
	assert.Equal(t, "\tzhǎng\tyú", got)

	surnames, err := src.Surnames(t.Context())
	require.NoError(t, err)
	assert.Len(t, surnames, 1, "surnames come from the wrapped source")
	assert.NoError(t, src.Close())
}

func TestWrapStopsOnInnerError(t *testing.T) {
	src := Wrap(memory.New([]dict.Segment{{Name: "words_0"}}, nil))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	var errs []error
	for b, err := range src.Batches(ctx) {
		assert.Nil(t, b)
		errs = append(errs, err)
	}
	require.Len(t, errs, 1, "the fallback batch is not yielded after an error")
	assert.ErrorIs(t, errs[0], context.Canceled)
}
