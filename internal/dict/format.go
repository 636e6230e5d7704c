package dict

import (
	"bufio"
	"cmp"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	// SegmentPattern matches the word segment files inside a data directory.
	SegmentPattern = "words_*"
	// SurnamesFile is the surname list inside a data directory.
	SurnamesFile = "surnames"
)

// Template turns space separated syllables into a substitution value:
// "nǐ hǎo" becomes "\tnǐ\thǎo".
func Template(syllables string) string {
	fields := strings.Fields(norm.NFC.String(syllables))
	if len(fields) == 0 {
		return ""
	}
	return "\t" + strings.Join(fields, "\t")
}

// ParseLine parses "<hanzi>\t<syllables>". Blank lines and lines starting
// with '#' report ok=false.
func ParseLine(line string) (e Entry, ok bool, err error) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
		return Entry{}, false, nil
	}
	key, syllables, found := strings.Cut(line, "\t")
	if !found {
		return Entry{}, false, errors.New("missing tab separator")
	}
	key = norm.NFC.String(strings.TrimSpace(key))
	if key == "" {
		return Entry{}, false, errors.New("empty hanzi key")
	}
	value := Template(syllables)
	if value == "" {
		return Entry{}, false, fmt.Errorf("no syllables for %q", key)
	}
	return Entry{Key: key, Value: value}, true, nil
}

// Scan yields the entries of r lazily. name is used in error messages.
func Scan(r io.Reader, name string) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		lineNo := 0
		for scanner.Scan() {
			lineNo++
			e, ok, err := ParseLine(scanner.Text())
			if err != nil {
				yield(Entry{}, fmt.Errorf("%s:%d: %w", name, lineNo, err))
				return
			}
			if !ok {
				continue
			}
			if !yield(e, nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(Entry{}, fmt.Errorf("reading %s: %w", name, err))
		}
	}
}

// ReadEntries reads every entry of r.
func ReadEntries(r io.Reader, name string) ([]Entry, error) {
	var entries []Entry
	for e, err := range Scan(r, name) {
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Segments lists the segment files of fsys in application order. words_2
// sorts before words_10.
func Segments(fsys fs.FS) ([]string, error) {
	names, err := fs.Glob(fsys, SegmentPattern)
	if err != nil {
		return nil, fmt.Errorf("listing segments: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no %s files", ErrDataUnavailable, SegmentPattern)
	}
	slices.SortFunc(names, func(a, b string) int {
		na, errA := strconv.Atoi(strings.TrimPrefix(a, "words_"))
		nb, errB := strconv.Atoi(strings.TrimPrefix(b, "words_"))
		if errA == nil && errB == nil && na != nb {
			return cmp.Compare(na, nb)
		}
		return cmp.Compare(a, b)
	})
	return names, nil
}

// ReadSegment loads one segment file.
func ReadSegment(fsys fs.FS, name string) (Segment, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return Segment{}, fmt.Errorf("%w: opening %s: %v", ErrDataUnavailable, name, err)
	}
	defer f.Close()

	entries, err := ReadEntries(f, name)
	if err != nil {
		return Segment{}, err
	}
	return Segment{Name: name, Entries: entries}, nil
}

// ReadSurnames loads the surname list of fsys.
func ReadSurnames(fsys fs.FS) ([]Entry, error) {
	f, err := fsys.Open(SurnamesFile)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrDataUnavailable, SurnamesFile, err)
	}
	defer f.Close()
	return ReadEntries(f, SurnamesFile)
}
