package structure

import (
	"testing"

	"github.com/mrjoshuak/eventfmt/internal/patterns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(raw string, opts Options, hl HighlightOptions) string {
	return Render(raw, Format(raw, opts, nil), opts, hl, nil)
}

func TestRender(t *testing.T) {
	dashes := DefaultOptions()
	dashes.ListStyle = ListStyleDashes

	noBullets := DefaultOptions()
	noBullets.AddVisualBullets = false

	relaxed := DefaultOptions()
	relaxed.ParagraphSpacing = SpacingRelaxed

	linesOnly := Options{PreserveLineBreaks: true}

	tests := []struct {
		name string
		raw  string
		opts Options
		hl   HighlightOptions
		want string
	}{
		{
			name: "bullets",
			raw:  "- a\n- b",
			opts: DefaultOptions(),
			want: `<div class="formatted-list-item formatted-list-bullet formatted-list-level-0"><span class="formatted-bullet">•</span> a</div>` +
				`<div class="formatted-list-item formatted-list-bullet formatted-list-level-0"><span class="formatted-bullet">•</span> b</div>`,
		},
		{
			name: "dashes",
			raw:  "* a",
			opts: dashes,
			want: `<div class="formatted-list-item formatted-list-bullet formatted-list-level-0"><span class="formatted-bullet">–</span> a</div>`,
		},
		{
			name: "numbered keep their marker",
			raw:  "1) a\n  2) b",
			opts: DefaultOptions(),
			want: `<div class="formatted-list-item formatted-list-numbered formatted-list-level-0"><span class="formatted-bullet">1)</span> a</div>` +
				`<div class="formatted-list-item formatted-list-numbered formatted-list-level-1"><span class="formatted-bullet">2)</span> b</div>`,
		},
		{
			name: "no glyphs",
			raw:  "- a",
			opts: noBullets,
			want: `<div class="formatted-list-item formatted-list-bullet formatted-list-level-0">a</div>`,
		},
		{
			name: "list then trailing paragraph",
			raw:  "- a\n\nSee you there",
			opts: DefaultOptions(),
			want: `<div class="formatted-list-item formatted-list-bullet formatted-list-level-0"><span class="formatted-bullet">•</span> a</div>` +
				`<p class="formatted-paragraph formatted-paragraph-normal">See you there</p>`,
		},
		{
			name: "intro line before a list",
			raw:  "Programme:\n- Accueil\n- Concert\n\nPlus d'infos sur place",
			opts: DefaultOptions(),
			want: `<div class="formatted-list-item formatted-list-bullet formatted-list-level-0"><span class="formatted-bullet">•</span> Accueil</div>` +
				`<div class="formatted-list-item formatted-list-bullet formatted-list-level-0"><span class="formatted-bullet">•</span> Concert</div>` +
				`<p class="formatted-paragraph formatted-paragraph-normal">Programme:</p>` +
				`<p class="formatted-paragraph formatted-paragraph-normal">Plus d&#39;infos sur place</p>`,
		},
		{
			name: "paragraphs",
			raw:  "One\n\nTwo",
			opts: relaxed,
			want: `<p class="formatted-paragraph formatted-paragraph-relaxed">One</p>` +
				`<p class="formatted-paragraph formatted-paragraph-relaxed">Two</p>`,
		},
		{
			name: "single paragraph with phone",
			raw:  "Call +32 10 47 43 02",
			opts: DefaultOptions(),
			hl:   AllHighlights(),
			want: `Call <a href="tel:+3210474302" class="formatted-phone">+32 10 47 43 02</a>`,
		},
		{
			name: "line break fallback",
			raw:  "Line one\nLine <i>two</i>\n\n",
			opts: linesOnly,
			want: "Line one<br/>Line two",
		},
		{
			name: "escapes text",
			raw:  "Tom &amp; Jerry",
			opts: DefaultOptions(),
			want: "Tom &amp; Jerry",
		},
		{
			name: "empty",
			opts: DefaultOptions(),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(tt.raw, tt.opts, tt.hl))
		})
	}
}

func TestProseParagraphs(t *testing.T) {
	assert.Equal(t, []string{"Intro:", "more"}, ProseParagraphs("Intro:\n- a\n- b\n\nmore", 0))
	assert.Equal(t, []string{"tail"}, ProseParagraphs("1. a\n2. b\n\ntail", 0))
	assert.Equal(t, []string{}, ProseParagraphs("- a\n\n- b", 0))
	assert.Equal(t, []string{"one"}, ProseParagraphs("one\n\ntwo", 1))
}

func TestHighlightPassOrder(t *testing.T) {
	segs := Highlight("Mail info@example.org or visit https://example.com/call/0123456789", AllHighlights(), nil)
	require.Len(t, segs, 4)
	assert.Equal(t, "Mail ", segs[0].Text)
	assert.Equal(t, patterns.Email, segs[1].Element.Category)
	assert.Equal(t, "mailto:info@example.org", segs[1].Element.Href)
	assert.Equal(t, " or visit ", segs[2].Text)
	assert.Equal(t, patterns.URL, segs[3].Element.Category)
	assert.Equal(t, "https://example.com/call/0123456789", segs[3].Element.Content)
}

func TestHighlightSkipsClaimedText(t *testing.T) {
	segs := Highlight("free@example.org is free", AllHighlights(), nil)
	require.Len(t, segs, 3)
	assert.Equal(t, patterns.Email, segs[0].Element.Category)
	assert.Equal(t, " is ", segs[1].Text)
	assert.Equal(t, patterns.ImportantWord, segs[2].Element.Category)
	assert.Equal(t, "formatted-important", segs[2].Element.Class)
	assert.Empty(t, segs[2].Element.Href)
}

func TestHighlightSelectedCategories(t *testing.T) {
	segs := Highlight("Doors 19h30, free entry", HighlightOptions{Times: true}, nil)
	require.Len(t, segs, 3)
	assert.Equal(t, "19h30", segs[1].Element.Content)
	assert.Equal(t, ", free entry", segs[2].Text)

	assert.Equal(t, []Segment{{Text: "plain"}}, Highlight("plain", AllHighlights(), nil))
	assert.Empty(t, Highlight("", AllHighlights(), nil))
}

func TestRenderSegments(t *testing.T) {
	segs := Highlight("See https://example.com?a=1&b=2 now", AllHighlights(), nil)
	assert.Equal(t,
		`See <a href="https://example.com?a=1&amp;b=2" class="formatted-url" target="_blank" rel="noopener noreferrer">https://example.com?a=1&amp;b=2</a> now`,
		RenderSegments(segs))

	segs = Highlight("See https://example.com now", HighlightOptions{URLs: true}, nil)
	assert.Equal(t, `See <span class="formatted-url">https://example.com</span> now`, RenderSegments(segs))
}
