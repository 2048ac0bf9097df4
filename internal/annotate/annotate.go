// Package annotate splits prose into plain runs, vocabulary matches and
// footnote markers. It has no rendering side effects; callers decide how each
// token is drawn.
package annotate

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/dgnsrekt/essaycoach/internal/study"
)

// Kind identifies the variant of a Token.
type Kind int

const (
	// PlainRun is inert text.
	PlainRun Kind = iota
	// VocabMatch is an occurrence of a dictionary term.
	VocabMatch
	// FootnoteMatch is a bracketed integer marker such as "[3]".
	FootnoteMatch
	// Placeholder is instructional text standing in for a blank. It only
	// appears in tokens produced from formula segments.
	Placeholder
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case PlainRun:
		return "plain"
	case VocabMatch:
		return "vocab"
	case FootnoteMatch:
		return "footnote"
	case Placeholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// Token is one positional piece of annotated text.
type Token struct {
	Kind Kind
	Text string // Source text with original casing
	Key  string // Dictionary key for VocabMatch
	ID   int    // Footnote id for FootnoteMatch
}

// Plain returns a PlainRun token.
func Plain(s string) Token { return Token{Kind: PlainRun, Text: s} }

// Vocab returns a VocabMatch token for word with dictionary key.
func Vocab(word, key string) Token { return Token{Kind: VocabMatch, Text: word, Key: key} }

// Footnote returns a FootnoteMatch token for id in its bracketed form.
func Footnote(id int) Token {
	return Token{Kind: FootnoteMatch, Text: "[" + strconv.Itoa(id) + "]", ID: id}
}

// Source returns the text the token was cut from.
func (t Token) Source() string { return t.Text }

// Interactive reports whether the token is rendered as an activatable element.
func (t Token) Interactive() bool {
	return t.Kind == VocabMatch || t.Kind == FootnoteMatch
}

// Reconstruct concatenates the source text of tokens.
func Reconstruct(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Source())
	}
	return b.String()
}

const footnotePattern = `\[\d+\]`

// Annotator matches a fixed vocabulary and footnote markers. It is safe for
// concurrent use once built.
type Annotator struct {
	keys    []string
	known   map[string]struct{}
	pattern *regexp.Regexp
}

// New builds an Annotator for the given dictionary keys. Keys are case-folded
// and de-duplicated; keys without any letter or digit are dropped.
func New(keys []string) *Annotator {
	a := &Annotator{known: make(map[string]struct{}, len(keys))}
	for _, k := range keys {
		k = study.Fold(k)
		if !usableKey(k) {
			continue
		}
		if _, dup := a.known[k]; dup {
			continue
		}
		a.known[k] = struct{}{}
		a.keys = append(a.keys, k)
	}

	// Longest first so that a key never loses to one of its own prefixes.
	slices.SortFunc(a.keys, func(x, y string) int {
		if c := cmp.Compare(len(y), len(x)); c != 0 {
			return c
		}
		return strings.Compare(x, y)
	})

	alts := make([]string, 0, len(a.keys)+1)
	for _, k := range a.keys {
		alts = append(alts, regexp.QuoteMeta(k))
	}
	alts = append(alts, footnotePattern)
	a.pattern = regexp.MustCompile(`(?i)(?:` + strings.Join(alts, "|") + `)`)
	return a
}

// ForLibrary builds an Annotator over every key of lib.
func ForLibrary(lib *study.Library) *Annotator {
	return New(lib.Keys())
}

// Keys returns the effective keys in match-precedence order.
func (a *Annotator) Keys() []string {
	return slices.Clone(a.keys)
}

// Annotate splits text into tokens. Concatenating the tokens' source text
// always yields text unchanged.
func (a *Annotator) Annotate(text string) []Token {
	if text == "" {
		return nil
	}

	var tokens []Token
	last := 0
	for _, loc := range a.pattern.FindAllStringIndex(text, -1) {
		if loc[0] == loc[1] {
			continue
		}
		tokens = appendToken(tokens, a.classify(text[last:loc[0]], false))
		tokens = appendToken(tokens, a.classify(text[loc[0]:loc[1]], true))
		last = loc[1]
	}
	return appendToken(tokens, a.classify(text[last:], false))
}

func (a *Annotator) classify(piece string, matched bool) Token {
	if piece == "" || !matched {
		return Plain(piece)
	}
	if id, ok := footnoteID(piece); ok {
		return Token{Kind: FootnoteMatch, Text: piece, ID: id}
	}
	key := study.Fold(piece)
	if _, ok := a.known[key]; ok {
		return Vocab(piece, key)
	}
	return Plain(piece)
}

// appendToken drops empty pieces and merges adjacent plain runs.
func appendToken(tokens []Token, t Token) []Token {
	if t.Text == "" {
		return tokens
	}
	if n := len(tokens); n > 0 && t.Kind == PlainRun && tokens[n-1].Kind == PlainRun {
		tokens[n-1].Text += t.Text
		return tokens
	}
	return append(tokens, t)
}

func footnoteID(piece string) (int, bool) {
	if len(piece) < 3 || piece[0] != '[' || piece[len(piece)-1] != ']' {
		return 0, false
	}
	id, err := strconv.Atoi(piece[1 : len(piece)-1])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func usableKey(k string) bool {
	for _, r := range k {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
