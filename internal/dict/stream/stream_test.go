package stream

import (
	"testing"
	"testing/fstest"

	"github.com/jusunglee/pinyin/data"
	"github.com/jusunglee/pinyin/internal/dict"
	"github.com/jusunglee/pinyin/internal/dict/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFS = fstest.MapFS{
	"words_0":  {Data: []byte("中华人民\tzhōng huá rén mín\n共和国\tgòng hé guó\n# comment\n你好\tnǐ hǎo\n")},
	"words_1":  {Data: []byte("你\tnǐ\n好\thǎo\n")},
	"surnames": {Data: []byte("单\tshàn\n")},
}

func batchSizes(t *testing.T, src *Source) []int {
	t.Helper()
	var sizes []int
	for b, err := range src.Batches(t.Context()) {
		require.NoError(t, err)
		sizes = append(sizes, b.Len())
	}
	return sizes
}

func TestChunking(t *testing.T) {
	tests := []struct {
		chunk int
		want  []int
	}{
		{chunk: 1, want: []int{1, 1, 1, 1, 1}},
		{chunk: 2, want: []int{2, 1, 2}},
		{chunk: DefaultChunk, want: []int{3, 2}},
		{chunk: 0, want: []int{1, 1, 1, 1, 1}},
	}
	for _, tt := range tests {
		src, err := New(testFS, tt.chunk)
		require.NoError(t, err)
		assert.Equal(t, tt.want, batchSizes(t, src), "chunk %d", tt.chunk)
	}
}

func TestEarlyStop(t *testing.T) {
	src, err := New(testFS, 1)
	require.NoError(t, err)

	seen := 0
	for range src.Batches(t.Context()) {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestSameOutputAsWholeSegments(t *testing.T) {
	input := "中华人民共和国你好"
	want := "\tzhōng\thuá\trén\tmín\tgòng\thé\tguó\tnǐ\thǎo"

	for _, chunk := range []int{1, 3, DefaultChunk} {
		src, err := New(testFS, chunk)
		require.NoError(t, err)

		got := input
		for b, err := range src.Batches(t.Context()) {
			require.NoError(t, err)
			got = b.Replace(got)
		}
		assert.Equal(t, want, got, "chunk %d", chunk)
	}
}

func TestSurnamesAndMissingData(t *testing.T) {
	src, err := New(testFS, 1)
	require.NoError(t, err)
	surnames, err := src.Surnames(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []dict.Entry{{Key: "单", Value: "\tshàn"}}, surnames)

	_, err = New(fstest.MapFS{}, 1)
	assert.ErrorIs(t, err, dict.ErrDataUnavailable)
}

func TestRejectsShortKeyInEarlierChunk(t *testing.T) {
	fsys := fstest.MapFS{
		"words_0": {Data: []byte("庆\tqìng\n好\thǎo\n重庆\tchóng qìng\n")},
		"words_1": {Data: []byte("重\tzhòng\n")},
	}

	_, err := New(fsys, 2)
	assert.ErrorIs(t, err, dict.ErrInvalidSource)
	assert.ErrorContains(t, err, `"庆" (entry 1) is applied before "重庆" (entry 3)`)

	_, err = New(fsys, 1)
	assert.ErrorIs(t, err, dict.ErrInvalidSource)

	_, err = New(fsys, 3)
	assert.NoError(t, err, "one chunk holds the whole segment")
}

func TestMatchesMemoryAcrossChunkBoundaries(t *testing.T) {
	fsys := fstest.MapFS{
		"words_0": {Data: []byte("重庆\tchóng qìng\n好\thǎo\n庆\tqìng\n长城\tcháng chéng\n城\tchéng\n")},
		"words_1": {Data: []byte("重\tzhòng\n长\tzhǎng\n")},
	}
	input := "重庆长城好重长城"

	whole, err := memory.Load(t.Context(), fsys)
	require.NoError(t, err)
	want := input
	for b, err := range whole.Batches(t.Context()) {
		require.NoError(t, err)
		want = b.Replace(want)
	}
	require.Equal(t, "\tchóng\tqìng\tcháng\tchéng\thǎo\tzhòng\tcháng\tchéng", want)

	for _, chunk := range []int{1, 2, 3, 4, DefaultChunk} {
		src, err := New(fsys, chunk)
		require.NoError(t, err, "chunk %d", chunk)

		got := input
		for b, err := range src.Batches(t.Context()) {
			require.NoError(t, err)
			got = b.Replace(got)
		}
		assert.Equal(t, want, got, "chunk %d", chunk)
	}
}

func TestEmbeddedDataIsStreamable(t *testing.T) {
	for _, chunk := range []int{1, 2, 7, DefaultChunk} {
		_, err := New(data.FS, chunk)
		assert.NoError(t, err, "chunk %d", chunk)
	}
}
