package structure

import (
	"github.com/mrjoshuak/eventfmt/internal/extractors"
	"github.com/mrjoshuak/eventfmt/internal/patterns"
)

// HighlightOptions selects the categories to highlight.
type HighlightOptions struct {
	URLs           bool `json:"highlight_urls" yaml:"highlight_urls"`
	Emails         bool `json:"highlight_emails" yaml:"highlight_emails"`
	Phones         bool `json:"highlight_phones" yaml:"highlight_phones"`
	Dates          bool `json:"highlight_dates" yaml:"highlight_dates"`
	Times          bool `json:"highlight_times" yaml:"highlight_times"`
	ImportantWords bool `json:"highlight_important_words" yaml:"highlight_important_words"`
	// ClickableLinks gives URLs, emails and phones a link target.
	ClickableLinks bool `json:"create_clickable_links" yaml:"create_clickable_links"`
}

// AllHighlights enables every category and clickable links.
func AllHighlights() HighlightOptions {
	return HighlightOptions{
		URLs: true, Emails: true, Phones: true, Dates: true, Times: true,
		ImportantWords: true, ClickableLinks: true,
	}
}

// Enabled reports whether category c is highlighted.
func (o HighlightOptions) Enabled(c patterns.Category) bool {
	switch c {
	case patterns.URL:
		return o.URLs
	case patterns.Email:
		return o.Emails
	case patterns.Phone:
		return o.Phones
	case patterns.Date:
		return o.Dates
	case patterns.Time:
		return o.Times
	case patterns.ImportantWord:
		return o.ImportantWords
	}
	return false
}

// Element is a highlighted piece of text.
type Element struct {
	Category patterns.Category `json:"-"`
	Class    string            `json:"class"`
	Href     string            `json:"href,omitempty"`
	Content  string            `json:"content"`
}

// Segment is either plain text or an Element.
type Segment struct {
	Text    string   `json:"text,omitempty"`
	Element *Element `json:"element,omitempty"`
}

// CloneSegments copies segs along with their elements.
func CloneSegments(segs []Segment) []Segment {
	if segs == nil {
		return nil
	}
	out := make([]Segment, len(segs))
	for i, s := range segs {
		out[i] = Segment{Text: s.Text}
		if s.Element != nil {
			el := *s.Element
			out[i].Element = &el
		}
	}
	return out
}

// Highlight splits text into plain and highlighted segments. Categories run
// in patterns.Order and only see text no earlier pass claimed, so a phone
// number inside a URL stays part of the URL.
func Highlight(text string, opts HighlightOptions, lib patterns.Library) []Segment {
	if text == "" {
		return []Segment{}
	}
	if lib == nil {
		lib = patterns.Default()
	}
	segs := []Segment{{Text: text}}
	for _, c := range patterns.Order {
		if !opts.Enabled(c) {
			continue
		}
		m := lib.Matcher(c)
		if m == nil {
			continue
		}
		segs = highlightPass(segs, c, m, opts.ClickableLinks)
	}
	return segs
}

func highlightPass(segs []Segment, c patterns.Category, m patterns.Matcher, clickable bool) []Segment {
	out := make([]Segment, 0, len(segs))
	for _, s := range segs {
		if s.Element != nil {
			out = append(out, s)
			continue
		}
		last := 0
		for _, loc := range m.FindAllIndex(s.Text) {
			if loc[0] > last {
				out = append(out, Segment{Text: s.Text[last:loc[0]]})
			}
			match := s.Text[loc[0]:loc[1]]
			el := &Element{Category: c, Class: c.ClassName(), Content: match}
			if clickable && c.Linkable() {
				el.Href = Href(c, match)
			}
			out = append(out, Segment{Element: el})
			last = loc[1]
		}
		if last < len(s.Text) {
			out = append(out, Segment{Text: s.Text[last:]})
		}
	}
	return out
}

// Href returns the link target of a linkable match.
func Href(c patterns.Category, match string) string {
	switch c {
	case patterns.URL:
		return match
	case patterns.Email:
		return extractors.EmailHref(match)
	case patterns.Phone:
		return extractors.PhoneHref(match)
	}
	return ""
}
