package pinyin

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Options selects how a conversion behaves. Fields combine freely; see Style
// for how the tone fields resolve.
type Options struct {
	// Tone keeps diacritics: měi hǎo.
	Tone bool
	// NoTone strips diacritics: mei hao. It is also the default.
	NoTone bool
	// ASCIITone strips diacritics and appends the tone number: mei3 hao3.
	ASCIITone bool
	// Name treats the input as a personal name and resolves the surname first.
	Name bool

	KeepNumber  bool
	KeepEnglish bool
	// UmlautV writes ü syllables such as lǚ as lv instead of lyu.
	UmlautV         bool
	KeepPunctuation bool
}

var (
	// NameDefaults are the options Name uses when the caller has no preference.
	NameDefaults = Options{Name: true}
	// SentenceDefaults are the options Sentence uses when the caller has no preference.
	SentenceDefaults = Options{NoTone: true}
)

// Style is the resolved tone representation.
type Style int

const (
	// StylePlain drops tones: mei hao.
	StylePlain Style = iota
	// StyleMarks keeps the diacritics: měi hǎo.
	StyleMarks
	// StyleNumbers appends the tone number: mei3 hao3.
	StyleNumbers
)

func (s Style) String() string {
	switch s {
	case StyleMarks:
		return "tone"
	case StyleNumbers:
		return "ascii_tone"
	default:
		return "no_tone"
	}
}

// Style resolves the tone fields: Tone beats ASCIITone beats NoTone, and
// plain output is used when neither Tone nor ASCIITone is set.
func (o Options) Style() Style {
	switch {
	case o.Tone:
		return StyleMarks
	case o.ASCIITone:
		return StyleNumbers
	default:
		return StylePlain
	}
}

// With returns the union of o and other.
func (o Options) With(other Options) Options {
	return Options{
		Tone:            o.Tone || other.Tone,
		NoTone:          o.NoTone || other.NoTone,
		ASCIITone:       o.ASCIITone || other.ASCIITone,
		Name:            o.Name || other.Name,
		KeepNumber:      o.KeepNumber || other.KeepNumber,
		KeepEnglish:     o.KeepEnglish || other.KeepEnglish,
		UmlautV:         o.UmlautV || other.UmlautV,
		KeepPunctuation: o.KeepPunctuation || other.KeepPunctuation,
	}
}

type optionField struct {
	name  string
	field func(*Options) *bool
}

var optionFields = []optionField{
	{"tone", func(o *Options) *bool { return &o.Tone }},
	{"no_tone", func(o *Options) *bool { return &o.NoTone }},
	{"ascii_tone", func(o *Options) *bool { return &o.ASCIITone }},
	{"name", func(o *Options) *bool { return &o.Name }},
	{"keep_number", func(o *Options) *bool { return &o.KeepNumber }},
	{"keep_english", func(o *Options) *bool { return &o.KeepEnglish }},
	{"umlaut_v", func(o *Options) *bool { return &o.UmlautV }},
	{"keep_punctuation", func(o *Options) *bool { return &o.KeepPunctuation }},
}

// OptionNames lists the names accepted by ParseOptions.
func OptionNames() []string {
	return lo.Map(optionFields, func(f optionField, _ int) string { return f.name })
}

// ParseOptions builds Options from names such as "tone" or "keep-english".
// Names are case-insensitive and blank names are skipped.
func ParseOptions(names []string) (Options, error) {
	var o Options
	for _, raw := range names {
		name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_")
		if name == "" {
			continue
		}
		f, ok := lo.Find(optionFields, func(f optionField) bool { return f.name == name })
		if !ok {
			return Options{}, fmt.Errorf("%w: unknown option %q", ErrInvalidArgument, raw)
		}
		*f.field(&o) = true
	}
	return o, nil
}

// ParseOptionList parses a comma separated list of option names.
func ParseOptionList(list string) (Options, error) {
	return ParseOptions(strings.Split(list, ","))
}

// Names returns the names of the set fields in a fixed order.
func (o Options) Names() []string {
	names := lo.FilterMap(optionFields, func(f optionField, _ int) (string, bool) {
		return f.name, *f.field(&o)
	})
	if names == nil {
		names = []string{}
	}
	return names
}

func (o Options) String() string {
	return strings.Join(o.Names(), ",")
}
