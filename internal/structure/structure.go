// Package structure segments raw event descriptions into paragraphs, list
// items and line breaks, and renders them back into a small class-annotated
// HTML dialect with highlighted special content.
package structure

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/mrjoshuak/eventfmt/internal/patterns"
	"github.com/mrjoshuak/eventfmt/internal/simplifiers"
)

// ListType tells bulleted items from numbered or lettered ones.
type ListType string

const (
	Bullet   ListType = "bullet"
	Numbered ListType = "numbered"
)

// ListStyle selects the glyph drawn before bulleted items.
type ListStyle string

const (
	ListStyleBullets ListStyle = "bullets"
	ListStyleDashes  ListStyle = "dashes"
)

// Spacing is the paragraph spacing class suffix.
type Spacing string

const (
	SpacingCompact Spacing = "compact"
	SpacingNormal  Spacing = "normal"
	SpacingRelaxed Spacing = "relaxed"
)

// DefaultMaxParagraphs caps the number of paragraphs kept from one text.
const DefaultMaxParagraphs = 10

// Options controls segmentation and rendering.
type Options struct {
	PreserveLineBreaks bool      `json:"preserve_line_breaks" yaml:"preserve_line_breaks"`
	FormatParagraphs   bool      `json:"format_paragraphs" yaml:"format_paragraphs"`
	FormatLists        bool      `json:"format_lists" yaml:"format_lists"`
	AddVisualBullets   bool      `json:"add_visual_bullets" yaml:"add_visual_bullets"`
	ParagraphSpacing   Spacing   `json:"paragraph_spacing" yaml:"paragraph_spacing"`
	ListStyle          ListStyle `json:"list_style" yaml:"list_style"`
	MaxParagraphs      int       `json:"max_paragraphs" yaml:"max_paragraphs"`
}

// DefaultOptions enables every pass.
func DefaultOptions() Options {
	return Options{
		PreserveLineBreaks: true,
		FormatParagraphs:   true,
		FormatLists:        true,
		AddVisualBullets:   true,
		ParagraphSpacing:   SpacingNormal,
		ListStyle:          ListStyleBullets,
		MaxParagraphs:      DefaultMaxParagraphs,
	}
}

// ListItem is one list line. Index is the 0-based source line number.
type ListItem struct {
	Type    ListType `json:"type"`
	Content string   `json:"content"`
	Level   int      `json:"level"`
	Index   int      `json:"index"`
	// Marker is the source marker: the bullet glyph, or "3." and "b)" for
	// numbered items.
	Marker string `json:"marker"`
}

// EmphasisSpan is a half-open rune range of the cleaned text.
type EmphasisSpan struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Type  string `json:"type"`
}

// TextFormatting is the structure found in a raw text.
type TextFormatting struct {
	Paragraphs []string       `json:"paragraphs"`
	Lists      []ListItem     `json:"lists"`
	Emphasis   []EmphasisSpan `json:"emphasis"`
	LineBreaks []int          `json:"line_breaks"`
}

var (
	paragraphSplitRegex = regexp.MustCompile(`\n\s*\n`)
	bulletRegex         = regexp.MustCompile(`^([ \t]*)([-*•◦▪▫‣⁃])\s+(.*)$`)
	numberedRegex       = regexp.MustCompile(`^([ \t]*)(\d+|[A-Za-z])([.)])\s+(.*)$`)
)

// Prepare normalizes line endings and turns block markup into newlines.
func Prepare(raw string) string {
	return simplifiers.BlockTagsToNewlines(simplifiers.NormalizeLineEndings(raw))
}

// Format segments raw text. Every slice of the result is non-nil.
func Format(raw string, opts Options, lib patterns.Library) TextFormatting {
	if lib == nil {
		lib = patterns.Default()
	}
	f := TextFormatting{
		Paragraphs: []string{},
		Lists:      []ListItem{},
		Emphasis:   []EmphasisSpan{},
		LineBreaks: []int{},
	}
	if raw == "" {
		return f
	}

	text := Prepare(raw)
	if opts.FormatParagraphs {
		f.Paragraphs = Paragraphs(text, opts.MaxParagraphs)
	}
	if opts.FormatLists {
		f.Lists = Lists(text)
	}
	if opts.PreserveLineBreaks {
		f.LineBreaks = LineBreaks(text)
	}
	f.Emphasis = Emphasis(simplifiers.Clean(text), lib)
	return f
}

// Paragraphs splits text on blank lines and cleans each block. Zero or a
// negative max uses DefaultMaxParagraphs.
func Paragraphs(text string, max int) []string {
	if max <= 0 {
		max = DefaultMaxParagraphs
	}
	paragraphs := []string{}
	for _, block := range paragraphSplitRegex.Split(text, -1) {
		if len(paragraphs) == max {
			break
		}
		if p := simplifiers.Clean(block); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// Lists returns the bulleted and numbered lines of text. Other lines are
// ignored.
func Lists(text string) []ListItem {
	items := []ListItem{}
	for i, line := range strings.Split(text, "\n") {
		item, ok := parseListLine(line)
		if !ok {
			continue
		}
		item.Index = i
		items = append(items, item)
	}
	return items
}

func parseListLine(line string) (ListItem, bool) {
	if m := bulletRegex.FindStringSubmatch(line); m != nil {
		content := simplifiers.Clean(m[3])
		if content == "" {
			return ListItem{}, false
		}
		return ListItem{Type: Bullet, Content: content, Level: indentLevel(m[1]), Marker: m[2]}, true
	}
	if m := numberedRegex.FindStringSubmatch(line); m != nil {
		content := simplifiers.Clean(m[4])
		if content == "" {
			return ListItem{}, false
		}
		return ListItem{Type: Numbered, Content: content, Level: indentLevel(m[1]), Marker: m[2] + m[3]}, true
	}
	return ListItem{}, false
}

// indentLevel counts one level per tab and per pair of spaces.
func indentLevel(indent string) int {
	tabs := strings.Count(indent, "\t")
	spaces := strings.Count(indent, " ")
	return tabs + spaces/2
}

// LineBreaks returns the rune offset of every newline in text.
func LineBreaks(text string) []int {
	breaks := []int{}
	pos := 0
	for _, r := range text {
		if r == '\n' {
			breaks = append(breaks, pos)
		}
		pos++
	}
	return breaks
}

// Emphasis locates the important words of cleaned text.
func Emphasis(cleaned string, lib patterns.Library) []EmphasisSpan {
	spans := []EmphasisSpan{}
	m := lib.Matcher(patterns.ImportantWord)
	if m == nil {
		return spans
	}
	for _, loc := range m.FindAllIndex(cleaned) {
		start := utf8.RuneCountInString(cleaned[:loc[0]])
		spans = append(spans, EmphasisSpan{
			Start: start,
			End:   start + utf8.RuneCountInString(cleaned[loc[0]:loc[1]]),
			Type:  "important",
		})
	}
	return spans
}

// Clone returns a copy of f that shares no slice with it.
func (f TextFormatting) Clone() TextFormatting {
	return TextFormatting{
		Paragraphs: slices.Clone(f.Paragraphs),
		Lists:      slices.Clone(f.Lists),
		Emphasis:   slices.Clone(f.Emphasis),
		LineBreaks: slices.Clone(f.LineBreaks),
	}
}

// HasStructure reports whether the text had lists or more than one paragraph.
func (f TextFormatting) HasStructure() bool {
	return len(f.Lists) > 0 || len(f.Paragraphs) > 1
}

// ProseParagraphs is Paragraphs with the list lines of every block removed,
// so text rendered next to Lists is not repeated. Blocks made only of list
// lines yield nothing.
func ProseParagraphs(text string, max int) []string {
	if max <= 0 {
		max = DefaultMaxParagraphs
	}
	prose := []string{}
	blocks := 0
	for _, block := range paragraphSplitRegex.Split(text, -1) {
		if blocks == max {
			break
		}
		if simplifiers.Clean(block) == "" {
			continue
		}
		blocks++

		var lines []string
		for _, line := range strings.Split(block, "\n") {
			if _, ok := parseListLine(line); !ok {
				lines = append(lines, line)
			}
		}
		if p := simplifiers.Clean(strings.Join(lines, "\n")); p != "" {
			prose = append(prose, p)
		}
	}
	return prose
}
