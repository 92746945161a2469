package extractors

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mrjoshuak/eventfmt/internal/simplifiers"
)

// SelectorScore represents a CSS selector with a confidence score
type SelectorScore struct {
	Selector string
	// Attr names the attribute to read. Empty reads the element text.
	Attr  string
	Score int
}

// ExtractedElement represents an extracted value with its score and the selectors used to find it
type ExtractedElement struct {
	Value     string
	Score     int
	Selectors []string
}

// ExtractElement collects the values matched by a list of scored selectors.
// A value found by several selectors accumulates their scores. The result is
// ordered by descending score, then by first appearance.
func ExtractElement(htmlContent string, selectors []SelectorScore) []ExtractedElement {
	if !strings.Contains(htmlContent, "<") {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil
	}

	index := make(map[string]int)
	var found []ExtractedElement
	for _, sel := range selectors {
		doc.Find(sel.Selector).Each(func(_ int, s *goquery.Selection) {
			var value string
			if sel.Attr != "" {
				value, _ = s.Attr(sel.Attr)
			} else {
				value = s.Text()
			}
			value = simplifiers.NormalizeWhitespace(value)
			if value == "" {
				return
			}
			if i, ok := index[value]; ok {
				found[i].Score += sel.Score
				found[i].Selectors = append(found[i].Selectors, sel.Selector)
				return
			}
			index[value] = len(found)
			found = append(found, ExtractedElement{
				Value:     value,
				Score:     sel.Score,
				Selectors: []string{sel.Selector},
			})
		})
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Score > found[j].Score
	})
	return found
}
