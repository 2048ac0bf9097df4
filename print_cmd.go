package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/essaycoach/internal/annotate"
	"github.com/dgnsrekt/essaycoach/internal/study"
)

var (
	printCmd = &cobra.Command{
		Use:       "print [formula|essays|vocab]",
		Short:     "Print the study material",
		Long:      paragraph(fmt.Sprintf("\n%s the template formula, the model essays or the vocabulary as formatted text. Without an argument everything is printed.", keyword("Print"))),
		Example:   paragraph("essaycoach print\nessaycoach print essays --quiz"),
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"formula", "essays", "vocab"},
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := loadLibrary()
			if err != nil {
				return err
			}
			section := ""
			if len(args) == 1 {
				section = args[0]
			}
			return render(cmd.OutOrStdout(), studyMarkdown(lib, section, cfg.Quiz))
		},
	}

	vocabCmd = &cobra.Command{
		Use:     "vocab [TERM]",
		Short:   "Look up vocabulary",
		Long:    paragraph(fmt.Sprintf("\n%s the vocabulary whose term or definition contains TERM.", keyword("List"))),
		Example: paragraph("essaycoach vocab\nessaycoach vocab mit"),
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := loadLibrary()
			if err != nil {
				return err
			}
			entries := lib.FilterVocabulary(strings.Join(args, " "))
			if len(entries) == 0 {
				return fmt.Errorf("no vocabulary matches %q", strings.Join(args, " "))
			}
			return render(cmd.OutOrStdout(), vocabMarkdown(entries))
		},
	}
)

// loadLibrary returns the configured study library, or the built-in one.
func loadLibrary() (*study.Library, error) {
	if cfg.Data.Library != "" {
		return study.LoadFile(cfg.Data.Library)
	}
	return study.Default()
}

// validateStyle checks if the style is a default style, if not, checks that
// the custom style exists.
func validateStyle(style string) error {
	if style != styles.AutoStyle && styles.DefaultStyles[style] == nil {
		path, err := homedir.Expand(style)
		if err != nil {
			return fmt.Errorf("unable to expand style path: %w", err)
		}
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("specified style does not exist: %s", style)
		} else if err != nil {
			return fmt.Errorf("unable to stat file: %w", err)
		}
	}
	return nil
}

func glamourStyle(style string) glamour.TermRendererOption {
	if style == styles.AutoStyle {
		return glamour.WithAutoStyle()
	}
	if path, err := homedir.Expand(style); err == nil {
		style = path
	}
	return glamour.WithStylePath(style)
}

func render(w io.Writer, md string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithColorProfile(lipgloss.ColorProfile()),
		glamourStyle(style),
		glamour.WithWordWrap(int(width)), //nolint:gosec
	)
	if err != nil {
		return fmt.Errorf("unable to create renderer: %w", err)
	}

	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("unable to render markdown: %w", err)
	}
	if _, err = fmt.Fprint(w, out); err != nil {
		return fmt.Errorf("unable to write to writer: %w", err)
	}
	return nil
}

// studyMarkdown writes one section of the library, or all of them when
// section is empty.
func studyMarkdown(lib *study.Library, section string, quiz bool) string {
	ann := annotate.ForLibrary(lib)

	var parts []string
	if section == "" || section == "formula" {
		parts = append(parts, formulaMarkdown(lib, ann, quiz))
	}
	if section == "" || section == "essays" {
		parts = append(parts, essaysMarkdown(lib, ann, quiz))
	}
	if section == "" || section == "vocab" {
		parts = append(parts, "# Vocabulary\n\n"+vocabMarkdown(lib.Vocabulary()))
	}
	return strings.Join(parts, "\n\n")
}

func formulaMarkdown(lib *study.Library, ann *annotate.Annotator, quiz bool) string {
	var b strings.Builder
	b.WriteString("# Template Formula\n")

	var cited []int
	seen := map[int]bool{}
	for i, part := range lib.Formula() {
		tokens := ann.Segments(part)
		fmt.Fprintf(&b, "\n## P%d %s\n\n%s\n", i+1, part.Title, tokensMarkdown(tokens, quiz))
		for _, t := range tokens {
			if t.Kind == annotate.FootnoteMatch && !seen[t.ID] {
				seen[t.ID] = true
				cited = append(cited, t.ID)
			}
		}
	}

	if len(cited) > 0 {
		b.WriteString("\n## Examples\n\n")
		for _, id := range cited {
			examples := lib.Footnote(id)
			if len(examples) == 0 {
				continue
			}
			fmt.Fprintf(&b, "- **[%d]** %s\n", id, strings.Join(examples, "; "))
		}
	}
	return b.String()
}

func essaysMarkdown(lib *study.Library, ann *annotate.Annotator, quiz bool) string {
	var b strings.Builder
	b.WriteString("# Model Essays\n")
	for _, e := range lib.Essays() {
		fmt.Fprintf(&b, "\n## %s\n\n%s\n", e.Title, tokensMarkdown(ann.Annotate(e.Body), quiz))
	}
	return b.String()
}

func vocabMarkdown(entries []study.VocabularyEntry) string {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "**%s** %s *%s*  \n%s  \n> %s\n\n", e.Term, e.Phonetic, e.PartOfSpeech, e.Definition, e.Example)
	}
	return b.String()
}

// tokensMarkdown marks vocabulary bold and placeholders italic. In quiz
// mode vocabulary is replaced by a blank of the same width.
func tokensMarkdown(tokens []annotate.Token, quiz bool) string {
	var b strings.Builder
	for _, t := range tokens {
		switch t.Kind {
		case annotate.VocabMatch:
			if quiz {
				b.WriteString(strings.Repeat(`\_`, runewidth.StringWidth(t.Text)))
				continue
			}
			b.WriteString("**" + t.Text + "**")
		case annotate.FootnoteMatch:
			b.WriteString(`\[` + strconv.Itoa(t.ID) + `\]`)
		case annotate.Placeholder:
			b.WriteString("*" + t.Text + "*")
		default:
			b.WriteString(t.Text)
		}
	}
	return b.String()
}
