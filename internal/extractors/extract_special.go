package extractors

import (
	"slices"

	"github.com/mrjoshuak/eventfmt/internal/patterns"
	"golang.org/x/text/cases"
)

// SpecialContent groups the deduplicated matches of every pattern category.
type SpecialContent struct {
	URLs           []string `json:"urls"`
	Emails         []string `json:"emails"`
	Phones         []string `json:"phones"`
	Dates          []string `json:"dates"`
	Times          []string `json:"times"`
	ImportantWords []string `json:"important_words"`
}

// HasSpecialContent reports whether any category matched.
func (s SpecialContent) HasSpecialContent() bool {
	return len(s.URLs) > 0 || len(s.Emails) > 0 || len(s.Phones) > 0 ||
		len(s.Dates) > 0 || len(s.Times) > 0 || len(s.ImportantWords) > 0
}

// Clone returns a copy of s that shares no slice with it.
func (s SpecialContent) Clone() SpecialContent {
	return SpecialContent{
		URLs:           slices.Clone(s.URLs),
		Emails:         slices.Clone(s.Emails),
		Phones:         slices.Clone(s.Phones),
		Dates:          slices.Clone(s.Dates),
		Times:          slices.Clone(s.Times),
		ImportantWords: slices.Clone(s.ImportantWords),
	}
}

// Values returns the matches of one category.
func (s SpecialContent) Values(c patterns.Category) []string {
	switch c {
	case patterns.URL:
		return s.URLs
	case patterns.Email:
		return s.Emails
	case patterns.Phone:
		return s.Phones
	case patterns.Date:
		return s.Dates
	case patterns.Time:
		return s.Times
	case patterns.ImportantWord:
		return s.ImportantWords
	}
	return nil
}

// ExtractSpecialContent runs every matcher of lib over cleaned text. Each
// category is scanned independently, so a phone-looking run inside a URL is
// reported under both. Important words are deduplicated case-insensitively
// and keep the spelling of their first occurrence.
func ExtractSpecialContent(cleaned string, lib patterns.Library) SpecialContent {
	if lib == nil {
		lib = patterns.Default()
	}
	return SpecialContent{
		URLs:           findUnique(cleaned, lib.Matcher(patterns.URL), nil),
		Emails:         findUnique(cleaned, lib.Matcher(patterns.Email), nil),
		Phones:         findUnique(cleaned, lib.Matcher(patterns.Phone), nil),
		Dates:          findUnique(cleaned, lib.Matcher(patterns.Date), nil),
		Times:          findUnique(cleaned, lib.Matcher(patterns.Time), nil),
		ImportantWords: findUnique(cleaned, lib.Matcher(patterns.ImportantWord), foldKey),
	}
}

var folder = cases.Fold()

func foldKey(s string) string {
	return folder.String(s)
}

func findUnique(text string, m patterns.Matcher, key func(string) string) []string {
	values := []string{}
	if m == nil || text == "" {
		return values
	}
	seen := make(map[string]bool)
	for _, loc := range m.FindAllIndex(text) {
		v := text[loc[0]:loc[1]]
		k := v
		if key != nil {
			k = key(v)
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		values = append(values, v)
	}
	return values
}
