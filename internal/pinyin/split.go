package pinyin

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

// splitWords breaks the romanized string into syllables on whitespace runs
// and formats each one unless diacritics are kept. input is the caller's
// original text, used in the error.
func splitWords(input, romanized string, opts Options) ([]string, error) {
	if !utf8.ValidString(romanized) {
		return nil, fmt.Errorf("%w: %q", ErrMalformedResult, input)
	}
	words := strings.Fields(romanized)
	if opts.Style() == StyleMarks {
		return words, nil
	}
	return lo.Map(words, func(w string, _ int) string { return FormatTone(w, opts) }), nil
}
