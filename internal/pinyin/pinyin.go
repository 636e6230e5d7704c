// Package pinyin converts Chinese text to pinyin using ordered dictionary
// substitution. A Converter wraps a dict.Source and exposes the conversion
// operations: Convert, Name, Permalink, Abbr, Phrase and Sentence.
package pinyin

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/jusunglee/pinyin/internal/dict"
	"github.com/jusunglee/pinyin/internal/metrics"
	"github.com/samber/lo"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	DefaultPermalinkDelimiter = "-"
	DefaultAbbrDelimiter      = ""
	DefaultPhraseDelimiter    = " "
	DefaultSentenceDelimiter  = " "
)

// PermalinkDelimiters are the delimiters Permalink accepts.
var PermalinkDelimiters = []string{"_", "-", ".", ""}

var numericToken = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// Converter runs conversions against a dictionary source. It is safe for
// concurrent use when the source is.
type Converter struct {
	src dict.Source
	log *slog.Logger
}

// ConverterOption configures a Converter built by New.
type ConverterOption func(*Converter)

// WithLogger sets the logger for conversion diagnostics. The default is slog.Default().
func WithLogger(log *slog.Logger) ConverterOption {
	return func(c *Converter) {
		c.log = log
	}
}

// New creates a Converter over an already constructed source.
func New(src dict.Source, opts ...ConverterOption) *Converter {
	c := &Converter{src: src, log: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ready checks that the source can supply surnames and at least its first
// batch.
func (c *Converter) Ready(ctx context.Context) error {
	if _, err := c.src.Surnames(ctx); err != nil {
		return fmt.Errorf("loading surnames: %w", err)
	}
	for _, err := range c.src.Batches(ctx) {
		if err != nil {
			return fmt.Errorf("loading dictionary: %w", err)
		}
		break
	}
	return nil
}

// Convert returns the pinyin syllables of s.
func (c *Converter) Convert(ctx context.Context, s string, opts Options) ([]string, error) {
	return c.convert(ctx, "convert", s, opts)
}

// Name converts s as a personal name: the leading surname is looked up in the
// surname list before the general dictionary.
func (c *Converter) Name(ctx context.Context, s string, opts Options) ([]string, error) {
	return c.convert(ctx, "name", s, opts.With(Options{Name: true}))
}

// Permalink joins the syllables of s with delimiter, keeping digits and Latin
// letters. The result is folded to ASCII letters.
func (c *Converter) Permalink(ctx context.Context, s, delimiter string, opts Options) (string, error) {
	if !lo.Contains(PermalinkDelimiters, delimiter) {
		metrics.ConversionsTotal.WithLabelValues("permalink", "invalid").Inc()
		return "", fmt.Errorf("%w: delimiter must be one of '_', '-', '', '.'; got %q", ErrInvalidArgument, delimiter)
	}
	words, err := c.convert(ctx, "permalink", s, opts.With(Options{KeepNumber: true, KeepEnglish: true}))
	if err != nil {
		return "", err
	}
	return strings.Join(lo.Map(words, func(w string, _ int) string { return foldASCII(w) }), delimiter), nil
}

// Abbr joins the first letter of each syllable. Numeric tokens are kept whole.
func (c *Converter) Abbr(ctx context.Context, s, delimiter string, opts Options) (string, error) {
	words, err := c.convert(ctx, "abbr", s, opts)
	if err != nil {
		return "", err
	}
	return strings.Join(lo.Map(words, func(w string, _ int) string {
		if numericToken.MatchString(w) {
			return w
		}
		r, _ := utf8.DecodeRuneInString(w)
		return string(r)
	}), delimiter), nil
}

// Phrase joins the syllables of s with delimiter.
func (c *Converter) Phrase(ctx context.Context, s, delimiter string, opts Options) (string, error) {
	words, err := c.convert(ctx, "phrase", s, opts)
	if err != nil {
		return "", err
	}
	return strings.Join(words, delimiter), nil
}

// Sentence converts s as prose, keeping punctuation, digits and Latin words.
func (c *Converter) Sentence(ctx context.Context, s, delimiter string, opts Options) (string, error) {
	words, err := c.convert(ctx, "sentence", s, opts.With(Options{
		KeepPunctuation: true,
		KeepEnglish:     true,
		KeepNumber:      true,
	}))
	if err != nil {
		return "", err
	}
	return strings.Join(words, delimiter), nil
}

func (c *Converter) convert(ctx context.Context, op, s string, opts Options) ([]string, error) {
	start := time.Now()
	words, err := c.romanizeWords(ctx, s, opts)
	metrics.ConversionDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ConversionsTotal.WithLabelValues(op, "error").Inc()
		c.log.DebugContext(ctx, "conversion failed", "operation", op, "options", opts.String(), "error", err)
		return nil, err
	}
	metrics.ConversionsTotal.WithLabelValues(op, "ok").Inc()
	c.log.DebugContext(ctx, "converted",
		"operation", op,
		"input_len", utf8.RuneCountInString(s),
		"options", opts.String(),
		"tokens", len(words),
	)
	return words, nil
}

func (c *Converter) romanizeWords(ctx context.Context, s string, opts Options) ([]string, error) {
	romanized, err := c.romanize(ctx, s, opts)
	if err != nil {
		return nil, err
	}
	return splitWords(s, romanized, opts)
}

func (c *Converter) romanize(ctx context.Context, s string, opts Options) (string, error) {
	prepared := prepare(s, opts)

	if opts.Name {
		surnames, err := c.src.Surnames(ctx)
		if err != nil {
			return "", fmt.Errorf("loading surnames: %w", err)
		}
		prepared = resolveSurname(prepared, surnames)
	}

	romanized, err := substitute(prepared, c.src.Batches(ctx))
	if err != nil {
		return "", fmt.Errorf("loading dictionary: %w", err)
	}
	return romanized, nil
}

// foldASCII drops combining marks left after decomposition, so ü becomes u.
func foldASCII(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}
