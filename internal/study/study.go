package study

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// SegmentKind identifies the variant of a FormulaSegment.
type SegmentKind int

const (
	// SegmentText is prose that is run through the annotation engine.
	SegmentText SegmentKind = iota
	// SegmentPlaceholder is instructional text shown in place of a blank.
	SegmentPlaceholder
	// SegmentFootnote references a FootnoteEntry by id.
	SegmentFootnote
)

// String returns the string representation of the segment kind.
func (k SegmentKind) String() string {
	switch k {
	case SegmentText:
		return "text"
	case SegmentPlaceholder:
		return "placeholder"
	case SegmentFootnote:
		return "footnote"
	default:
		return "unknown"
	}
}

// VocabularyEntry is a single dictionary term.
type VocabularyEntry struct {
	Term         string // Display form as written in the library
	Key          string // Case-folded lookup key
	Phonetic     string // KK transcription, e.g. "[ˋprɛvələns]"
	PartOfSpeech string // e.g. "n.", "adj."
	Definition   string
	Example      string
}

// SpeechText is what gets spoken for the entry: the word, then its example.
func (e VocabularyEntry) SpeechText(word string) string {
	if word == "" {
		word = e.Term
	}
	return word + ". " + e.Example
}

// FormulaSegment is one piece of a formula part.
type FormulaSegment struct {
	Kind       SegmentKind
	Text       string // SegmentText and SegmentPlaceholder
	FootnoteID int    // SegmentFootnote
}

// Text returns a plain text segment.
func Text(s string) FormulaSegment { return FormulaSegment{Kind: SegmentText, Text: s} }

// Placeholder returns a placeholder segment.
func Placeholder(s string) FormulaSegment { return FormulaSegment{Kind: SegmentPlaceholder, Text: s} }

// FootnoteRef returns a segment referencing footnote id.
func FootnoteRef(id int) FormulaSegment { return FormulaSegment{Kind: SegmentFootnote, FootnoteID: id} }

// FormulaPart is an ordered run of segments with a heading.
type FormulaPart struct {
	Title    string
	Segments []FormulaSegment
}

// Essay is a model essay. The body is segmented at render time.
type Essay struct {
	Title string
	Body  string
}

// Library is the immutable study material.
type Library struct {
	vocabulary []VocabularyEntry
	index      map[string]int
	footnotes  map[int][]string
	formula    []FormulaPart
	essays     []Essay
}

// Fold returns the trimmed dictionary key for s. Every rune is replaced by
// one fixed member of its simple case-folding orbit, the same equivalence a
// (?i) regexp matches with, so a text piece and its key always fold alike.
func Fold(s string) string {
	return strings.Map(foldRune, strings.TrimSpace(s))
}

// foldRune maps r to the lower-case form of the smallest rune in its orbit,
// or to that smallest rune when its lower-case form lies outside the orbit.
func foldRune(r rune) rune {
	orbit := []rune{r}
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		orbit = append(orbit, f)
	}
	least := slices.Min(orbit)
	if l := unicode.ToLower(least); slices.Contains(orbit, l) {
		return l
	}
	return least
}

// Vocabulary returns the dictionary entries in library order.
func (l *Library) Vocabulary() []VocabularyEntry {
	return slices.Clone(l.vocabulary)
}

// Keys returns every dictionary key in library order.
func (l *Library) Keys() []string {
	keys := make([]string, len(l.vocabulary))
	for i, e := range l.vocabulary {
		keys[i] = e.Key
	}
	return keys
}

// Lookup finds the entry for word, comparing case-insensitively.
func (l *Library) Lookup(word string) (VocabularyEntry, bool) {
	i, ok := l.index[Fold(word)]
	if !ok {
		return VocabularyEntry{}, false
	}
	return l.vocabulary[i], true
}

// Footnote returns the examples for id. Unknown ids yield an empty list.
func (l *Library) Footnote(id int) []string {
	return slices.Clone(l.footnotes[id])
}

// FootnoteIDs returns the known footnote ids in ascending order.
func (l *Library) FootnoteIDs() []int {
	ids := make([]int, 0, len(l.footnotes))
	for id := range l.footnotes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Formula returns the two formula parts.
func (l *Library) Formula() []FormulaPart {
	parts := make([]FormulaPart, len(l.formula))
	for i, p := range l.formula {
		parts[i] = FormulaPart{Title: p.Title, Segments: slices.Clone(p.Segments)}
	}
	return parts
}

// Essays returns the model essays in order.
func (l *Library) Essays() []Essay {
	return slices.Clone(l.essays)
}

// FilterVocabulary returns the entries whose key or definition contains term
// as typed, ignoring case, in library order. An empty term matches everything.
func (l *Library) FilterVocabulary(term string) []VocabularyEntry {
	if term == "" {
		return l.Vocabulary()
	}
	fold := cases.Fold()
	needle := fold.String(term)
	var out []VocabularyEntry
	for _, e := range l.vocabulary {
		if strings.Contains(fold.String(e.Key), needle) || strings.Contains(fold.String(e.Definition), needle) {
			out = append(out, e)
		}
	}
	return out
}
