package extractors

import (
	"net/url"
	"strings"

	"github.com/mrjoshuak/eventfmt/internal/patterns"
	"github.com/mrjoshuak/eventfmt/internal/simplifiers"
)

// LinkSource records where a link was found.
type LinkSource string

const (
	SourceAnchor LinkSource = "anchor"
	SourceText   LinkSource = "text"
)

// ExtractedLink is a web link with its label and host.
type ExtractedLink struct {
	URL    string     `json:"url"`
	Text   string     `json:"text"`
	Domain string     `json:"domain"`
	Source LinkSource `json:"source"`
}

// ExtractLinks returns the http(s) anchors of the raw markup followed by the
// bare URLs found in the cleaned text. A URL present in both is reported once,
// with the anchor label.
func ExtractLinks(raw, cleaned string, lib patterns.Library) []ExtractedLink {
	if lib == nil {
		lib = patterns.Default()
	}
	links := []ExtractedLink{}
	seen := make(map[string]bool)

	for _, a := range simplifiers.ExtractAnchors(raw) {
		if !patterns.IsURL(a.Href) || seen[a.Href] {
			continue
		}
		seen[a.Href] = true
		text := a.Text
		if text == "" {
			text = a.Href
		}
		links = append(links, ExtractedLink{URL: a.Href, Text: text, Domain: Domain(a.Href), Source: SourceAnchor})
	}

	for _, u := range ExtractSpecialContent(cleaned, lib).URLs {
		if seen[u] {
			continue
		}
		seen[u] = true
		links = append(links, ExtractedLink{URL: u, Text: u, Domain: Domain(u), Source: SourceText})
	}
	return links
}

// Domain returns the lowercased host of a URL without a leading "www.", or
// an empty string when the URL cannot be parsed.
func Domain(raw string) string {
	if strings.HasPrefix(strings.ToLower(raw), "www.") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
