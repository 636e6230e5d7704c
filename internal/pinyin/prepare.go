package pinyin

import (
	"regexp"
	"strings"
)

// sentinel separates tokens in the romanized string. It is inserted before
// Latin runs so they never fuse with neighbouring hanzi, and dictionary
// templates use it between syllables.
const sentinel = "\t"

var latinRun = regexp.MustCompile(`(?i)[a-z0-9_-]+`)

// punctuations maps full-width punctuation to ASCII, in application order.
var punctuations = [][2]string{
	{"，", ","},
	{"。", "."},
	{"！", "!"},
	{"？", "?"},
	{"：", ":"},
	{"“", `"`},
	{"”", `"`},
	{"‘", "'"},
	{"’", "'"},
	{"_", "_"},
}

var punctuationReplacer = func() *strings.Replacer {
	pairs := make([]string, 0, 2*len(punctuations))
	for _, p := range punctuations {
		pairs = append(pairs, p[0], p[1])
	}
	return strings.NewReplacer(pairs...)
}()

// disallowed holds the strip pattern for each combination of KeepNumber,
// KeepEnglish and KeepPunctuation, indexed by allowIndex.
var disallowed = func() [8]*regexp.Regexp {
	var res [8]*regexp.Regexp
	for i := range res {
		res[i] = disallowPattern(i&1 != 0, i&2 != 0, i&4 != 0)
	}
	return res
}()

func allowIndex(opts Options) int {
	i := 0
	if opts.KeepNumber {
		i |= 1
	}
	if opts.KeepEnglish {
		i |= 2
	}
	if opts.KeepPunctuation {
		i |= 4
	}
	return i
}

func disallowPattern(keepNumber, keepEnglish, keepPunctuation bool) *regexp.Regexp {
	var b strings.Builder
	b.WriteString(`[^\p{Han}\p{Z}\p{M}\t`)
	if keepNumber {
		b.WriteString("0-9")
	}
	if keepEnglish {
		b.WriteString("a-zA-Z")
	}
	if keepPunctuation {
		for _, p := range punctuations {
			b.WriteString(regexp.QuoteMeta(p[0]))
			b.WriteString(regexp.QuoteMeta(p[1]))
		}
	}
	b.WriteString("]")
	return regexp.MustCompile(b.String())
}

// prepare filters the raw input down to the characters the dictionary pass
// should see: hanzi, separators and marks always, digits, Latin letters and
// punctuation when the matching option is set.
func prepare(s string, opts Options) string {
	s = latinRun.ReplaceAllString(s, sentinel+"$0")

	if opts.KeepPunctuation {
		s = punctuationReplacer.Replace(s)
		s = strings.ReplaceAll(s, sentinel, " ")
		s = strings.ReplaceAll(s, "  ", " ")
		s = strings.Trim(s, " \t\n\r\x00\x0b")
	}

	return disallowed[allowIndex(opts)].ReplaceAllString(s, "")
}
