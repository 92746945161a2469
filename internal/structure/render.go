package structure

import (
	"fmt"
	"strings"

	"github.com/mrjoshuak/eventfmt/internal/patterns"
	"github.com/mrjoshuak/eventfmt/internal/simplifiers"
	"golang.org/x/net/html"
)

// LineBreakMarker joins lines when the text has no paragraph or list
// structure.
const LineBreakMarker = "<br/>"

// RenderSegments turns highlight segments into HTML. Text is escaped.
func RenderSegments(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		if s.Element == nil {
			b.WriteString(html.EscapeString(s.Text))
			continue
		}
		el := s.Element
		content := html.EscapeString(el.Content)
		switch {
		case el.Href == "":
			fmt.Fprintf(&b, `<span class="%s">%s</span>`, el.Class, content)
		case el.Category == patterns.URL:
			fmt.Fprintf(&b, `<a href="%s" class="%s" target="_blank" rel="noopener noreferrer">%s</a>`,
				html.EscapeString(el.Href), el.Class, content)
		default:
			fmt.Fprintf(&b, `<a href="%s" class="%s">%s</a>`, html.EscapeString(el.Href), el.Class, content)
		}
	}
	return b.String()
}

// Render turns a formatting result back into markup.
//
// Lists come first, followed by the remaining prose of each paragraph, so a
// list item is never rendered twice.
// Without lists, several paragraphs render as spaced <p> blocks and a single
// paragraph renders bare. With neither, the lines of raw are joined with
// LineBreakMarker, and a text without newlines renders as one highlighted run.
func Render(raw string, f TextFormatting, opts Options, hl HighlightOptions, lib patterns.Library) string {
	if lib == nil {
		lib = patterns.Default()
	}
	highlight := func(text string) string {
		return RenderSegments(Highlight(text, hl, lib))
	}

	var b strings.Builder
	switch {
	case len(f.Lists) > 0:
		for _, item := range f.Lists {
			fmt.Fprintf(&b, `<div class="formatted-list-item formatted-list-%s formatted-list-level-%d">`, item.Type, item.Level)
			if glyph := listGlyph(item, opts); glyph != "" {
				fmt.Fprintf(&b, `<span class="formatted-bullet">%s</span> `, html.EscapeString(glyph))
			}
			b.WriteString(highlight(item.Content))
			b.WriteString("</div>")
		}
		if len(f.Paragraphs) == 0 {
			break
		}
		for _, p := range ProseParagraphs(Prepare(raw), opts.MaxParagraphs) {
			writeParagraph(&b, highlight(p), opts.ParagraphSpacing)
		}
	case len(f.Paragraphs) > 1:
		for _, p := range f.Paragraphs {
			writeParagraph(&b, highlight(p), opts.ParagraphSpacing)
		}
	case len(f.Paragraphs) == 1:
		b.WriteString(highlight(f.Paragraphs[0]))
	case len(f.LineBreaks) > 0:
		var lines []string
		for _, line := range strings.Split(Prepare(raw), "\n") {
			if l := simplifiers.Clean(line); l != "" {
				lines = append(lines, highlight(l))
			}
		}
		b.WriteString(strings.Join(lines, LineBreakMarker))
	default:
		b.WriteString(highlight(simplifiers.Clean(raw)))
	}
	return b.String()
}

func writeParagraph(b *strings.Builder, content string, spacing Spacing) {
	if spacing == "" {
		spacing = SpacingNormal
	}
	fmt.Fprintf(b, `<p class="formatted-paragraph formatted-paragraph-%s">%s</p>`, spacing, content)
}

func listGlyph(item ListItem, opts Options) string {
	if !opts.AddVisualBullets {
		return ""
	}
	if item.Type == Numbered {
		return item.Marker
	}
	if opts.ListStyle == ListStyleDashes {
		return "–"
	}
	return "•"
}
