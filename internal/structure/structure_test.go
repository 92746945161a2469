package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatBulletList(t *testing.T) {
	f := Format("- a\n- b", DefaultOptions(), nil)

	require.Len(t, f.Lists, 2)
	for i, item := range f.Lists {
		assert.Equal(t, Bullet, item.Type)
		assert.Equal(t, 0, item.Level)
		assert.Equal(t, i, item.Index)
		assert.Equal(t, "-", item.Marker)
	}
	assert.Equal(t, "a", f.Lists[0].Content)
	assert.Equal(t, "b", f.Lists[1].Content)
	assert.Equal(t, []string{"- a - b"}, f.Paragraphs)
	assert.Equal(t, []int{3}, f.LineBreaks)
	assert.Empty(t, f.Emphasis)
	assert.True(t, f.HasStructure())
}

func TestLists(t *testing.T) {
	text := "1. First\n  2) Second\n\tb. Third\nplain line\n    • Deep <b>bold</b>\n- "
	assert.Equal(t, []ListItem{
		{Type: Numbered, Content: "First", Level: 0, Index: 0, Marker: "1."},
		{Type: Numbered, Content: "Second", Level: 1, Index: 1, Marker: "2)"},
		{Type: Numbered, Content: "Third", Level: 1, Index: 2, Marker: "b."},
		{Type: Bullet, Content: "Deep bold", Level: 2, Index: 4, Marker: "•"},
	}, Lists(text))
}

func TestParagraphs(t *testing.T) {
	text := "Intro\n\n\n  Second para \n \nThird"
	assert.Equal(t, []string{"Intro", "Second para", "Third"}, Paragraphs(text, 0))
	assert.Equal(t, []string{"Intro", "Second para"}, Paragraphs(text, 2))
	assert.Equal(t, []string{}, Paragraphs(" \n\n ", 0))
}

func TestFormatHTMLDescription(t *testing.T) {
	raw := "<p>Hello <b>world</b></p><ul><li>one</li><li>two</li></ul>"
	f := Format(raw, DefaultOptions(), nil)

	assert.Equal(t, []string{"Hello world", "- one", "- two"}, f.Paragraphs)
	require.Len(t, f.Lists, 2)
	assert.Equal(t, "one", f.Lists[0].Content)
	assert.Equal(t, 3, f.Lists[0].Index)
	assert.Equal(t, "two", f.Lists[1].Content)
}

func TestFormatDisabledPasses(t *testing.T) {
	opts := Options{}
	f := Format("- a\n\n- b", opts, nil)
	assert.Empty(t, f.Lists)
	assert.Empty(t, f.Paragraphs)
	assert.Empty(t, f.LineBreaks)
	assert.NotNil(t, f.Lists)
	assert.False(t, f.HasStructure())
}

func TestFormatEmpty(t *testing.T) {
	f := Format("", DefaultOptions(), nil)
	assert.Equal(t, TextFormatting{
		Paragraphs: []string{},
		Lists:      []ListItem{},
		Emphasis:   []EmphasisSpan{},
		LineBreaks: []int{},
	}, f)
}

func TestEmphasisRuneOffsets(t *testing.T) {
	f := Format("Entrée gratuite, entry is FREE", DefaultOptions(), nil)
	assert.Equal(t, []EmphasisSpan{
		{Start: 7, End: 15, Type: "important"},
		{Start: 26, End: 30, Type: "important"},
	}, f.Emphasis)
}

func TestLineBreaksMixedEndings(t *testing.T) {
	f := Format("ab\r\ncd\ref", DefaultOptions(), nil)
	assert.Equal(t, []int{2, 5}, f.LineBreaks)
}
