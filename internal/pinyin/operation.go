package pinyin

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Operation names a Converter method for callers that pick it at runtime,
// such as the CLI and the HTTP API.
type Operation string

const (
	OpConvert   Operation = "convert"
	OpName      Operation = "name"
	OpPermalink Operation = "permalink"
	OpAbbr      Operation = "abbr"
	OpPhrase    Operation = "phrase"
	OpSentence  Operation = "sentence"
)

var Operations = []Operation{OpConvert, OpName, OpPermalink, OpAbbr, OpPhrase, OpSentence}

func ParseOperation(s string) (Operation, error) {
	op := Operation(strings.ToLower(strings.TrimSpace(s)))
	if !lo.Contains(Operations, op) {
		return "", fmt.Errorf("%w: unknown operation %q", ErrInvalidArgument, s)
	}
	return op, nil
}

// Tokenized reports whether the operation returns syllables rather than a
// joined string.
func (op Operation) Tokenized() bool {
	return op == OpConvert || op == OpName
}

// DefaultDelimiter is the delimiter used when the caller gives none.
func (op Operation) DefaultDelimiter() string {
	switch op {
	case OpPermalink:
		return DefaultPermalinkDelimiter
	case OpAbbr:
		return DefaultAbbrDelimiter
	case OpSentence:
		return DefaultSentenceDelimiter
	default:
		return DefaultPhraseDelimiter
	}
}

// DefaultOptions are the options used when the caller sets none.
func (op Operation) DefaultOptions() Options {
	switch op {
	case OpName:
		return NameDefaults
	case OpSentence:
		return SentenceDefaults
	default:
		return Options{}
	}
}

// Result holds either Tokens (convert, name) or Text (everything else).
type Result struct {
	Tokens []string
	Text   string
}

// Run dispatches to the method named by op. delimiter is ignored by the
// tokenized operations.
func (c *Converter) Run(ctx context.Context, op Operation, s, delimiter string, opts Options) (Result, error) {
	var (
		res Result
		err error
	)
	switch op {
	case OpConvert:
		res.Tokens, err = c.Convert(ctx, s, opts)
	case OpName:
		res.Tokens, err = c.Name(ctx, s, opts)
	case OpPermalink:
		res.Text, err = c.Permalink(ctx, s, delimiter, opts)
	case OpAbbr:
		res.Text, err = c.Abbr(ctx, s, delimiter, opts)
	case OpPhrase:
		res.Text, err = c.Phrase(ctx, s, delimiter, opts)
	case OpSentence:
		res.Text, err = c.Sentence(ctx, s, delimiter, opts)
	default:
		return Result{}, fmt.Errorf("%w: unknown operation %q", ErrInvalidArgument, op)
	}
	return res, err
}
