package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/jusunglee/pinyin/internal/dict"
	"github.com/jusunglee/pinyin/internal/dict/loader"
	"github.com/jusunglee/pinyin/internal/pinyin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestImportEmbeddedIntoSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pinyin.db")

	require.NoError(t, run(ctx, discard, "", path, ""))

	src, err := loader.Open(ctx, loader.Config{Kind: loader.KindSQLite, DataPath: path})
	require.NoError(t, err)
	defer src.Close()

	conv := pinyin.New(src)
	got, err := conv.Name(ctx, "单于", pinyin.NameDefaults)
	require.NoError(t, err)
	assert.Equal(t, []string{"chan", "yu"}, got)

	phrase, err := conv.Phrase(ctx, "中华人民共和国", " ", pinyin.Options{Tone: true})
	require.NoError(t, err)
	assert.Equal(t, "zhōng huá rén mín gòng hé guó", phrase)
}

func TestImportWithoutSurnames(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "words_0"), []byte("人\trén\n"), 0o644))
	path := filepath.Join(t.TempDir(), "pinyin.db")

	require.NoError(t, run(ctx, discard, dir, path, ""))

	src, err := loader.Open(ctx, loader.Config{Kind: loader.KindSQLite, DataPath: path})
	require.NoError(t, err)
	defer src.Close()

	_, err = src.Surnames(ctx)
	assert.ErrorIs(t, err, dict.ErrDataUnavailable)
}

func TestImportRequiresOneDestination(t *testing.T) {
	ctx := context.Background()
	assert.Error(t, run(ctx, discard, "", "", ""))
	assert.Error(t, run(ctx, discard, "", "a.db", "postgres://localhost/pinyin"))
	assert.ErrorIs(t, run(ctx, discard, filepath.Join(t.TempDir(), "missing"), "a.db", ""), dict.ErrInvalidSource)
}
