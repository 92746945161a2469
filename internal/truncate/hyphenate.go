package truncate

import (
	"strings"
	"unicode"

	"github.com/mrjoshuak/eventfmt/internal/patterns"
)

// WordKind is the shape of a token, decided once before breaking it.
type WordKind int

const (
	Generic WordKind = iota
	URL
	Email
)

func (k WordKind) String() string {
	switch k {
	case URL:
		return "url"
	case Email:
		return "email"
	default:
		return "generic"
	}
}

// KindOf classifies a token.
func KindOf(word string) WordKind {
	switch {
	case patterns.IsURL(word):
		return URL
	case strings.Contains(word, "@") && patterns.IsEmail(strings.TrimRight(word, ".,;:!?")):
		return Email
	default:
		return Generic
	}
}

const (
	// minURLHead is the least number of runes a URL must keep before a path
	// separator break.
	minURLHead = 10
	// syllableWindow is how far back a generic word looks for a syllable break.
	syllableWindow = 5
)

// BreakLongWord returns the head of word that fits in maxLen runes. URLs break
// after their scheme, or else after a path separator, addresses after the '@'
// or a dot, and other words at a vowel-consonant boundary with a trailing
// hyphen.
func BreakLongWord(word string, maxLen int) string {
	head, _ := breakWord([]rune(word), maxLen)
	return head
}

// breakWord returns the head and how many runes of the word it consumed. The
// hyphen added to generic words is not counted.
func breakWord(r []rune, maxLen int) (string, int) {
	if maxLen <= 0 {
		return "", 0
	}
	if len(r) <= maxLen {
		return string(r), len(r)
	}
	switch KindOf(string(r)) {
	case URL:
		if n := urlBreak(r, maxLen); n > 0 {
			return string(r[:n]), n
		}
	case Email:
		if n := emailBreak(r, maxLen); n > 0 {
			return string(r[:n]), n
		}
	}
	return genericBreak(r, maxLen)
}

func urlBreak(r []rune, maxLen int) int {
	schemeEnd := 0
	if i := strings.Index(string(r), "://"); i >= 0 {
		schemeEnd = len([]rune(string(r)[:i])) + 3
	} else if strings.HasPrefix(strings.ToLower(string(r)), "www.") {
		schemeEnd = 4
	}
	if schemeEnd > 0 && schemeEnd <= maxLen {
		return schemeEnd
	}
	for i := min(maxLen, len(r)) - 1; i >= minURLHead-1; i-- {
		switch r[i] {
		case '/', '?', '&', '=':
			return i + 1
		}
	}
	return 0
}

func emailBreak(r []rune, maxLen int) int {
	at := -1
	for i, c := range r {
		if c == '@' {
			at = i
			break
		}
	}
	if at >= 0 && at+1 <= maxLen {
		return at + 1
	}
	for i := maxLen - 1; i > 0; i-- {
		if r[i] == '.' {
			return i + 1
		}
	}
	return 0
}

func genericBreak(r []rune, maxLen int) (string, int) {
	if maxLen < 2 {
		return string(r[:maxLen]), maxLen
	}
	for i := maxLen - 1; i >= 2 && i >= maxLen-syllableWindow; i-- {
		if isVowel(r[i-1]) && unicode.IsLetter(r[i]) && !isVowel(r[i]) {
			return string(r[:i]) + "-", i
		}
	}
	return string(r[:maxLen-1]) + "-", maxLen - 1
}

func isVowel(r rune) bool {
	return strings.ContainsRune("aeiouyàâäéèêëîïôöùûüÿæœ", unicode.ToLower(r))
}
