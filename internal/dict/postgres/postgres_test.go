package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/jusunglee/pinyin/internal/dict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore connects to PINYIN_TEST_DATABASE_URL. The dictionary tables
// are truncated by Import, so point it at a scratch database.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("PINYIN_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("PINYIN_TEST_DATABASE_URL not set")
	}
	store, err := New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	segments := []dict.Segment{
		{Name: "words_0", Entries: []dict.Entry{{Key: "你好", Value: "\tnǐ\thǎo"}}},
		{Name: "words_1", Entries: []dict.Entry{{Key: "你", Value: "\tnǐ"}, {Key: "好", Value: "\thǎo"}}},
	}
	surnames := []dict.Entry{{Key: "单于", Value: "\tchán\tyú"}, {Key: "单", Value: "\tshàn"}}
	require.NoError(t, store.Import(ctx, segments, surnames))

	var got [][]dict.Entry
	for b, err := range store.Batches(ctx) {
		require.NoError(t, err)
		got = append(got, b.Entries())
	}
	require.Len(t, got, 2)
	assert.Equal(t, segments[0].Entries, got[0])
	assert.Equal(t, segments[1].Entries, got[1])

	gotSurnames, err := store.Surnames(ctx)
	require.NoError(t, err)
	assert.Equal(t, surnames, gotSurnames)

	assert.GreaterOrEqual(t, store.PoolStats().TotalConns(), int32(1))
}

func TestEmptyStoreIsUnavailable(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Import(ctx, nil, nil))

	for _, err := range store.Batches(ctx) {
		assert.ErrorIs(t, err, dict.ErrDataUnavailable)
	}
	_, err := store.Surnames(ctx)
	assert.ErrorIs(t, err, dict.ErrDataUnavailable)
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New(context.Background(), "not a url ::")
	assert.Error(t, err)
}
