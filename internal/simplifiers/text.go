package simplifiers

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRegex = regexp.MustCompile(`[\s\p{Z}\x{0085}]+`)
	scriptRegex     = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	styleRegex      = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style\s*>`)
	commentRegex    = regexp.MustCompile(`(?s)<!--.*?-->`)
	tagRegex        = regexp.MustCompile(`<[^>]*>`)
	retainedChars   = map[rune]bool{
		'\t': true,
		'\n': true,
		'\r': true,
		'\f': true,
	}

	// basicEntities is the fixed table decoded before tags are stripped.
	basicEntities = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&apos;", "'",
	)

	// latinEntities covers common accented entities when the full decoder is disabled.
	latinEntities = strings.NewReplacer(
		"&eacute;", "é", "&egrave;", "è", "&ecirc;", "ê", "&euml;", "ë",
		"&agrave;", "à", "&acirc;", "â", "&auml;", "ä",
		"&icirc;", "î", "&iuml;", "ï",
		"&ocirc;", "ô", "&ouml;", "ö",
		"&ugrave;", "ù", "&ucirc;", "û", "&uuml;", "ü",
		"&ccedil;", "ç", "&Eacute;", "É", "&Egrave;", "È", "&Agrave;", "À",
		"&Ccedil;", "Ç", "&oelig;", "œ", "&laquo;", "«", "&raquo;", "»",
		"&hellip;", "…", "&ndash;", "–", "&mdash;", "—", "&rsquo;", "’", "&lsquo;", "‘",
		"&euro;", "€",
	)
)

// CleanOptions controls the optional passes of Clean.
type CleanOptions struct {
	// FullEntityDecoding decodes the complete HTML entity set after tags are
	// stripped. When false only a small table of accented Latin entities is used.
	FullEntityDecoding bool
}

// DefaultCleanOptions enables the full entity decoder.
var DefaultCleanOptions = CleanOptions{FullEntityDecoding: true}

// Clean turns a raw rich-text fragment into a single line of plain text.
// Script and style blocks and comments are dropped with their content, the
// basic entities are decoded, every remaining tag is removed, and whitespace
// runs collapse to single spaces.
func Clean(raw string) string {
	return CleanWithOptions(raw, DefaultCleanOptions)
}

// CleanWithOptions is Clean with explicit options.
func CleanWithOptions(raw string, opts CleanOptions) string {
	if raw == "" {
		return ""
	}
	text := StripMarkup(raw)
	if opts.FullEntityDecoding {
		// doubly encoded markup only becomes tags here
		text = tagRegex.ReplaceAllString(html.UnescapeString(text), "")
	} else {
		text = latinEntities.Replace(text)
	}
	return NormalizeText(text)
}

// StripMarkup removes script/style blocks, comments and tags. The basic
// entity table is decoded first, so encoded markup is stripped as well.
func StripMarkup(raw string) string {
	text := scriptRegex.ReplaceAllString(raw, "")
	text = styleRegex.ReplaceAllString(text, "")
	text = commentRegex.ReplaceAllString(text, "")
	text = basicEntities.Replace(text)
	return tagRegex.ReplaceAllString(text, "")
}

// NormalizeUnicode composes text to NFC so accented letters count as one rune.
func NormalizeUnicode(text string) string {
	return norm.NFC.String(text)
}

// NormalizeWhitespace replaces runs of whitespace with a single space and trims
func NormalizeWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(text, " "))
}

// StripControlChars removes Unicode control characters while retaining specific whitespace chars
func StripControlChars(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for _, r := range text {
		if !unicode.IsControl(r) || retainedChars[r] {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeText performs all text normalization steps in the correct order
func NormalizeText(text string) string {
	text = StripControlChars(text)
	text = NormalizeUnicode(text)
	text = NormalizeWhitespace(text)
	return text
}

// NormalizeLineEndings converts CRLF and lone CR to LF.
func NormalizeLineEndings(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
