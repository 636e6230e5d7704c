package loader

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/jusunglee/pinyin/internal/dict"
	"github.com/jusunglee/pinyin/internal/dict/fallback"
	"github.com/jusunglee/pinyin/internal/dict/file"
	"github.com/jusunglee/pinyin/internal/dict/memory"
	"github.com/jusunglee/pinyin/internal/dict/sqlite"
	"github.com/jusunglee/pinyin/internal/dict/stream"
	"github.com/jusunglee/pinyin/internal/pinyin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{"", KindFile, false},
		{"file", KindFile, false},
		{" Memory ", KindMemory, false},
		{"STREAM", KindStream, false},
		{"sqlite", KindSQLite, false},
		{"postgres", KindPostgres, false},
		{"redis", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, dict.ErrInvalidSource)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, []string{"file", "memory", "stream", "sqlite", "postgres"}, KindNames())
}

func TestOpenKinds(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "words_0"), []byte("人\trén\n"), 0o644))

	tests := []struct {
		name         string
		cfg          Config
		wantInner    dict.Source
		wantFallback bool
	}{
		{"embedded file", Config{}, &file.Source{}, true},
		{"embedded memory", Config{Kind: KindMemory}, &memory.Source{}, true},
		{"embedded stream", Config{Kind: KindStream, StreamChunk: 4}, &stream.Source{}, true},
		{"data path file", Config{DataPath: dir}, &file.Source{}, false},
		{"data path memory", Config{Kind: KindMemory, DataPath: dir}, &memory.Source{}, false},
		{"data path with fallback", Config{Kind: KindMemory, DataPath: dir, HanFallback: true}, &memory.Source{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := Open(ctx, tt.cfg)
			require.NoError(t, err)

			wrapped, ok := src.(*fallback.Source)
			assert.Equal(t, tt.wantFallback, ok)
			if ok {
				src = wrapped.Unwrap()
			}
			assert.IsType(t, tt.wantInner, src)
		})
	}
}

func TestDefaultConfigRomanizesEveryHanzi(t *testing.T) {
	ctx := context.Background()
	asciiOnly := regexp.MustCompile(`^[a-z0-9-]*$`)

	for _, kind := range []Kind{KindFile, KindMemory, KindStream} {
		t.Run(string(kind), func(t *testing.T) {
			src, err := Open(ctx, Config{Kind: kind})
			require.NoError(t, err)
			conv := pinyin.New(src)

			got, err := conv.Permalink(ctx, "我爱北京天安门", "-", pinyin.Options{})
			require.NoError(t, err)
			assert.Equal(t, "wo-ai-bei-jing-tian-an-men", got)

			for _, text := range []string{"吕布", "龙飞凤舞", "2024年春节快乐"} {
				got, err := conv.Permalink(ctx, text, "-", pinyin.Options{Tone: true})
				require.NoError(t, err)
				assert.Regexp(t, asciiOnly, got, text)
			}

			tokens, err := conv.Convert(ctx, "吕布", pinyin.Options{ASCIITone: true, UmlautV: true})
			require.NoError(t, err)
			assert.Equal(t, []string{"lv3", "bu4"}, tokens)
		})
	}
}

func TestOpenUsesDataPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "words_0"), []byte("人\trén\n"), 0o644))

	src, err := Open(context.Background(), Config{Kind: KindMemory, DataPath: dir})
	require.NoError(t, err)

	got := "人"
	for b, err := range src.Batches(context.Background()) {
		require.NoError(t, err)
		got = b.Replace(got)
	}
	assert.Equal(t, "\trén", got)

	_, err = src.Surnames(context.Background())
	assert.ErrorIs(t, err, dict.ErrDataUnavailable)
}

func TestOpenErrors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	notDir := filepath.Join(dir, "plain")
	require.NoError(t, os.WriteFile(notDir, nil, 0o644))

	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"missing data path", Config{DataPath: filepath.Join(dir, "nope")}, dict.ErrInvalidSource},
		{"data path is a file", Config{Kind: KindStream, DataPath: notDir}, dict.ErrInvalidSource},
		{"empty data dir", Config{Kind: KindMemory, DataPath: dir}, dict.ErrDataUnavailable},
		{"sqlite without path", Config{Kind: KindSQLite}, dict.ErrInvalidSource},
		{"sqlite missing file", Config{Kind: KindSQLite, DataPath: filepath.Join(dir, "x.db")}, dict.ErrDataUnavailable},
		{"postgres without url", Config{Kind: KindPostgres}, dict.ErrInvalidSource},
		{"unknown kind", Config{Kind: "redis"}, dict.ErrInvalidSource},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(ctx, tt.cfg)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestOpenSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "dict.db")

	store, err := sqlite.New(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Import(ctx, []dict.Segment{
		{Name: "words_0", Entries: []dict.Entry{{Key: "人", Value: "\trén"}}},
	}, nil))
	require.NoError(t, store.Close())

	src, err := Open(ctx, Config{Kind: KindSQLite, DataPath: "sqlite://" + path})
	require.NoError(t, err)
	defer src.Close()
	assert.IsType(t, &sqlite.Store{}, src)
}
