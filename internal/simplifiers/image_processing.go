package simplifiers

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Image is an <img> reference found in a raw description.
type Image struct {
	Src string
	Alt string
}

// trackingImagePatterns mark beacons that mail and calendar tools embed.
var trackingImagePatterns = []string{
	"pixel.gif", "1x1", "spacer", "tracking", "beacon", "open.gif",
}

// ExtractImages parses raw markup and returns the images it references in
// document order, deduplicated by src. Images come from the raw input only;
// their URLs never reach the cleaned text.
func ExtractImages(raw string) []Image {
	if !strings.Contains(raw, "<") {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var images []Image
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src := strings.TrimSpace(s.AttrOr("src", ""))
		if src == "" {
			src = strings.TrimSpace(s.AttrOr("data-src", ""))
		}
		if src == "" || seen[src] || IsTrackingImage(s) {
			return
		}
		seen[src] = true
		images = append(images, Image{Src: src, Alt: ExtractImageCaption(s)})
	})
	return images
}

// IsTrackingImage reports whether an image is an invisible beacon rather
// than content.
func IsTrackingImage(s *goquery.Selection) bool {
	width, _ := strconv.Atoi(s.AttrOr("width", "0"))
	height, _ := strconv.Atoi(s.AttrOr("height", "0"))
	if width > 0 && height > 0 && width <= 2 && height <= 2 {
		return true
	}

	src := strings.ToLower(s.AttrOr("src", ""))
	for _, pattern := range trackingImagePatterns {
		if strings.Contains(src, pattern) {
			return true
		}
	}
	return strings.Contains(strings.ReplaceAll(s.AttrOr("style", ""), " ", ""), "display:none")
}

// ExtractImageCaption extracts a caption for an image
func ExtractImageCaption(s *goquery.Selection) string {
	alt := NormalizeWhitespace(s.AttrOr("alt", ""))
	if alt != "" && !isGenericAltText(alt) {
		return alt
	}

	if figure := s.ParentsFiltered("figure"); figure.Length() > 0 {
		if caption := NormalizeWhitespace(figure.Find("figcaption").Text()); caption != "" {
			return caption
		}
	}

	if title := NormalizeWhitespace(s.AttrOr("title", "")); title != "" {
		return title
	}
	if label := NormalizeWhitespace(s.AttrOr("aria-label", "")); label != "" {
		return label
	}
	return alt
}

// isGenericAltText checks if the alt text is generic and not descriptive
func isGenericAltText(alt string) bool {
	switch strings.ToLower(alt) {
	case "image", "picture", "photo", "img", "graphic", "icon", "logo",
		"thumbnail", "placeholder":
		return true
	}
	return false
}
