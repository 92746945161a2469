package simplifiers

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/antchfx/htmlquery"
)

// Anchor is an <a href> link found in raw markup.
type Anchor struct {
	Href string
	Text string
}

var (
	lineBreakTagRegex  = regexp.MustCompile(`(?i)<br\s*/?>`)
	blockCloseTagRegex = regexp.MustCompile(`(?i)</(?:p|div|h[1-6]|blockquote|ul|ol|section|article|tr|table)\s*>`)
	listOpenTagRegex   = regexp.MustCompile(`(?i)<li\b[^>]*>`)
	listCloseTagRegex  = regexp.MustCompile(`(?i)</li\s*>`)
)

// linkSchemes lists the href schemes kept by ExtractAnchors.
var linkSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"mailto": true,
	"tel":    true,
}

// ExtractAnchors returns the hyperlinks of a raw fragment with their visible
// label. Relative links, javascript: targets and fragments are skipped.
func ExtractAnchors(raw string) []Anchor {
	if !strings.Contains(raw, "<a") && !strings.Contains(raw, "<A") {
		return nil
	}
	doc, err := htmlquery.Parse(strings.NewReader(raw))
	if err != nil {
		return nil
	}
	nodes, err := htmlquery.QueryAll(doc, "//a[@href]")
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var anchors []Anchor
	for _, n := range nodes {
		href := strings.TrimSpace(htmlquery.SelectAttr(n, "href"))
		u, err := url.Parse(href)
		if err != nil || !linkSchemes[strings.ToLower(u.Scheme)] || seen[href] {
			continue
		}
		seen[href] = true
		anchors = append(anchors, Anchor{
			Href: href,
			Text: NormalizeText(htmlquery.InnerText(n)),
		})
	}
	return anchors
}

// BlockTagsToNewlines rewrites block-level markup into the plain-text
// conventions the structure pass understands: <br> becomes a newline,
// closing block tags become a blank line, and <li> becomes a "- " bullet.
func BlockTagsToNewlines(raw string) string {
	if !strings.Contains(raw, "<") {
		return raw
	}
	text := lineBreakTagRegex.ReplaceAllString(raw, "\n")
	text = listOpenTagRegex.ReplaceAllString(text, "\n- ")
	text = listCloseTagRegex.ReplaceAllString(text, "\n")
	return blockCloseTagRegex.ReplaceAllString(text, "\n\n")
}
