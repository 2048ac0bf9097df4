package annotate

import "github.com/dgnsrekt/essaycoach/internal/study"

// Segments turns a formula part into tokens. Text segments are annotated,
// placeholders become Placeholder tokens and footnote references become
// FootnoteMatch tokens.
func (a *Annotator) Segments(part study.FormulaPart) []Token {
	var tokens []Token
	for _, seg := range part.Segments {
		switch seg.Kind {
		case study.SegmentText:
			for _, t := range a.Annotate(seg.Text) {
				tokens = appendToken(tokens, t)
			}
		case study.SegmentPlaceholder:
			tokens = append(tokens, Token{Kind: Placeholder, Text: seg.Text})
		case study.SegmentFootnote:
			tokens = append(tokens, Footnote(seg.FootnoteID))
		}
	}
	return tokens
}
