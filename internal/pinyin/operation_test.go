package pinyin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOperation(t *testing.T) {
	op, err := ParseOperation(" Permalink ")
	require.NoError(t, err)
	assert.Equal(t, OpPermalink, op)

	_, err = ParseOperation("translate")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestOperationDefaults(t *testing.T) {
	assert.Equal(t, "-", OpPermalink.DefaultDelimiter())
	assert.Equal(t, "", OpAbbr.DefaultDelimiter())
	assert.Equal(t, " ", OpPhrase.DefaultDelimiter())
	assert.Equal(t, " ", OpSentence.DefaultDelimiter())
	assert.Equal(t, NameDefaults, OpName.DefaultOptions())
	assert.Equal(t, SentenceDefaults, OpSentence.DefaultOptions())
	assert.True(t, OpConvert.Tokenized())
	assert.False(t, OpAbbr.Tokenized())
}

func TestRunMatchesMethods(t *testing.T) {
	c := newTestConverter(t)
	ctx := t.Context()

	res, err := c.Run(ctx, OpConvert, "你好", "", Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"ni", "hao"}, res.Tokens)

	res, err = c.Run(ctx, OpPermalink, "你好", "_", Options{})
	require.NoError(t, err)
	assert.Equal(t, "ni_hao", res.Text)
	assert.Nil(t, res.Tokens)

	_, err = c.Run(ctx, Operation("bogus"), "你好", "", Options{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
