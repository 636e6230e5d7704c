package pinyin

import "strings"

type toneMark struct {
	mark string
	bare string
	tone string
}

// toneMarks is checked in order; the üe forms precede the plain vowels so
// "lüè" becomes "lue" rather than "lüe".
var toneMarks = []toneMark{
	{"üē", "ue", "1"}, {"üé", "ue", "2"}, {"üě", "ue", "3"}, {"üè", "ue", "4"},
	{"ā", "a", "1"}, {"ē", "e", "1"}, {"ī", "i", "1"}, {"ō", "o", "1"}, {"ū", "u", "1"}, {"ǖ", "yu", "1"},
	{"á", "a", "2"}, {"é", "e", "2"}, {"í", "i", "2"}, {"ó", "o", "2"}, {"ú", "u", "2"}, {"ǘ", "yu", "2"},
	{"ǎ", "a", "3"}, {"ě", "e", "3"}, {"ǐ", "i", "3"}, {"ǒ", "o", "3"}, {"ǔ", "u", "3"}, {"ǚ", "yu", "3"},
	{"à", "a", "4"}, {"è", "e", "4"}, {"ì", "i", "4"}, {"ò", "o", "4"}, {"ù", "u", "4"}, {"ǜ", "yu", "4"},
}

// FormatTone rewrites the diacritics of one syllable as bare letters, adding
// the tone number when ASCIITone is set. A syllable carrying several marks
// gets one digit per mark.
func FormatTone(syllable string, opts Options) string {
	for _, tm := range toneMarks {
		if !strings.Contains(syllable, tm.mark) {
			continue
		}
		bare := tm.bare
		if opts.UmlautV && bare == "yu" {
			bare = "v"
		}
		syllable = strings.ReplaceAll(syllable, tm.mark, bare)
		if opts.ASCIITone {
			syllable += tm.tone
		}
	}
	return syllable
}
