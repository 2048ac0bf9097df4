package remote

import (
	"strings"
	"unicode/utf8"
)

// MaxChunk is the longest text, in characters, sent in one request.
const MaxChunk = 200

// Chunks splits text into pieces of at most max characters, breaking on
// whitespace. Words longer than max are cut.
func Chunks(text string, max int) []string {
	if max <= 0 {
		max = MaxChunk
	}

	var (
		chunks []string
		cur    strings.Builder
		n      int
	)
	flush := func() {
		if n > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			n = 0
		}
	}

	for _, word := range strings.Fields(text) {
		wn := utf8.RuneCountInString(word)
		for wn > max {
			flush()
			cut := runeOffset(word, max)
			chunks = append(chunks, word[:cut])
			word = word[cut:]
			wn -= max
		}
		if n > 0 && n+1+wn > max {
			flush()
		}
		if n > 0 {
			cur.WriteByte(' ')
			n++
		}
		cur.WriteString(word)
		n += wn
	}
	flush()
	return chunks
}

// runeOffset returns the byte offset of the n-th rune of s.
func runeOffset(s string, n int) int {
	i := 0
	for off := range s {
		if i == n {
			return off
		}
		i++
	}
	return len(s)
}
