package study

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"unicode"

	"gopkg.in/yaml.v3"
)

//go:embed library.yaml
var defaultLibrary string

// Validation errors returned by Load.
var (
	ErrEmptyKey        = errors.New("vocabulary term is empty")
	ErrPunctuationTerm = errors.New("vocabulary term has no letters or digits")
	ErrDuplicateKey    = errors.New("duplicate vocabulary term")
	ErrInvalidFootnote = errors.New("footnote id must be positive")
	ErrInvalidSegment  = errors.New("formula segment must set exactly one of text, placeholder or footnote")
	ErrFormulaParts    = errors.New("formula must have exactly two parts")
	ErrNoEssays        = errors.New("library has no essays")
	ErrUntitledEssay   = errors.New("essay has no title")
)

type libraryFile struct {
	Vocabulary []vocabularyFile `yaml:"vocabulary"`
	Footnotes  map[int][]string `yaml:"footnotes"`
	Formula    []partFile       `yaml:"formula"`
	Essays     []essayFile      `yaml:"essays"`
}

type vocabularyFile struct {
	Term       string `yaml:"term"`
	Phonetic   string `yaml:"phonetic"`
	POS        string `yaml:"pos"`
	Definition string `yaml:"definition"`
	Example    string `yaml:"example"`
}

type partFile struct {
	Title    string        `yaml:"title"`
	Segments []segmentFile `yaml:"segments"`
}

type segmentFile struct {
	Text        *string `yaml:"text"`
	Placeholder *string `yaml:"placeholder"`
	Footnote    *int    `yaml:"footnote"`
}

type essayFile struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

var loadDefault = sync.OnceValues(func() (*Library, error) {
	return Load(strings.NewReader(defaultLibrary))
})

// Default returns the library compiled into the binary.
func Default() (*Library, error) {
	return loadDefault()
}

// LoadFile reads a library from a YAML file.
func LoadFile(path string) (*Library, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open library: %w", err)
	}
	defer f.Close() //nolint:errcheck
	lib, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lib, nil
}

// Load parses and validates a library from YAML.
func Load(r io.Reader) (*Library, error) {
	var raw libraryFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("unable to parse library: %w", err)
	}

	lib := &Library{
		index:     make(map[string]int, len(raw.Vocabulary)),
		footnotes: make(map[int][]string, len(raw.Footnotes)),
	}

	for i, v := range raw.Vocabulary {
		key := Fold(v.Term)
		switch {
		case key == "":
			return nil, fmt.Errorf("vocabulary[%d]: %w", i, ErrEmptyKey)
		case !hasWordRune(key):
			return nil, fmt.Errorf("vocabulary[%d] %q: %w", i, v.Term, ErrPunctuationTerm)
		}
		if _, dup := lib.index[key]; dup {
			return nil, fmt.Errorf("vocabulary[%d] %q: %w", i, v.Term, ErrDuplicateKey)
		}
		lib.index[key] = len(lib.vocabulary)
		lib.vocabulary = append(lib.vocabulary, VocabularyEntry{
			Term:         strings.TrimSpace(v.Term),
			Key:          key,
			Phonetic:     strings.TrimSpace(v.Phonetic),
			PartOfSpeech: v.POS,
			Definition:   v.Definition,
			Example:      v.Example,
		})
	}

	for id, examples := range raw.Footnotes {
		if id <= 0 {
			return nil, fmt.Errorf("footnote %d: %w", id, ErrInvalidFootnote)
		}
		lib.footnotes[id] = examples
	}

	if len(raw.Formula) != 2 {
		return nil, fmt.Errorf("got %d: %w", len(raw.Formula), ErrFormulaParts)
	}
	for i, p := range raw.Formula {
		part := FormulaPart{Title: p.Title}
		for j, s := range p.Segments {
			seg, err := s.segment()
			if err != nil {
				return nil, fmt.Errorf("formula[%d].segments[%d]: %w", i, j, err)
			}
			part.Segments = append(part.Segments, seg)
		}
		lib.formula = append(lib.formula, part)
	}

	if len(raw.Essays) == 0 {
		return nil, ErrNoEssays
	}
	for i, e := range raw.Essays {
		if strings.TrimSpace(e.Title) == "" {
			return nil, fmt.Errorf("essays[%d]: %w", i, ErrUntitledEssay)
		}
		lib.essays = append(lib.essays, Essay{Title: e.Title, Body: e.Body})
	}

	return lib, nil
}

func (s segmentFile) segment() (FormulaSegment, error) {
	set := 0
	var seg FormulaSegment
	if s.Text != nil {
		set++
		seg = Text(*s.Text)
	}
	if s.Placeholder != nil {
		set++
		seg = Placeholder(*s.Placeholder)
	}
	if s.Footnote != nil {
		set++
		if *s.Footnote <= 0 {
			return FormulaSegment{}, ErrInvalidFootnote
		}
		seg = FootnoteRef(*s.Footnote)
	}
	if set != 1 {
		return FormulaSegment{}, ErrInvalidSegment
	}
	return seg, nil
}

func hasWordRune(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
