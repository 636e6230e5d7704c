package pinyin

import (
	"strings"

	"github.com/jusunglee/pinyin/internal/dict"
)

// resolveSurname romanizes a leading surname. The first entry, in list order,
// whose key prefixes s wins, even if a later entry would match more text.
func resolveSurname(s string, surnames []dict.Entry) string {
	for _, e := range surnames {
		if e.Key == "" || !strings.HasPrefix(s, e.Key) {
			continue
		}
		return e.Value + s[len(e.Key):]
	}
	return s
}
