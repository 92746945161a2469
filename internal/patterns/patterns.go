// Package patterns holds the heuristic detectors for special content found in
// event descriptions: URLs, email addresses, phone numbers, dates, times and a
// closed English/French vocabulary of important words.
//
// The grammars are deliberately loose. They are tuned for display highlighting,
// not validation, and will over-match some digit runs.
package patterns

import (
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// Category identifies one kind of special content.
type Category int

const (
	URL Category = iota
	Email
	Phone
	Date
	Time
	ImportantWord
)

// Order is the fixed highlighting pass order. A match claimed by an earlier
// category is never re-examined by a later one.
var Order = []Category{URL, Email, Phone, Date, Time, ImportantWord}

// String returns the category name used in JSON output and logs
func (c Category) String() string {
	switch c {
	case URL:
		return "url"
	case Email:
		return "email"
	case Phone:
		return "phone"
	case Date:
		return "date"
	case Time:
		return "time"
	case ImportantWord:
		return "important"
	default:
		return "unknown"
	}
}

// ClassName returns the display class attached to highlighted content.
func (c Category) ClassName() string {
	return "formatted-" + c.String()
}

// Linkable reports whether the category can be rendered as a clickable link.
func (c Category) Linkable() bool {
	return c == URL || c == Email || c == Phone
}

// Matcher finds non-overlapping matches in a string. Indexes are byte offsets
// pairs, as returned by regexp.FindAllStringIndex.
type Matcher interface {
	FindAllIndex(s string) [][]int
}

// Library maps each category to its matcher.
type Library interface {
	Matcher(c Category) Matcher
}

// MinPhoneDigits is the digit count PhoneMatcher callers usually want: shorter
// runs are years, prices or list numbers far more often than phone numbers.
const MinPhoneDigits = 6

var (
	// a URL never ends on sentence punctuation or a closing bracket
	urlRegex   = regexp.MustCompile(`https?://\S*[^\s.,;:!?)\]"'>]`)
	emailRegex = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRegex = regexp.MustCompile(`\+?\d{1,4}(?:[-.\s]?\(?\d{1,4}\)?){2,6}`)
	dateRegex  = regexp.MustCompile(`\b\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4}\b`)
	timeRegex  = regexp.MustCompile(`\b\d{1,2}[h:]\d{2}\b`)
)

// ImportantWords is the bilingual vocabulary highlighted as emphasis.
var ImportantWords = []string{
	// English
	"important", "urgent", "free", "cancelled", "canceled", "postponed",
	"new", "sold out", "required", "mandatory", "deadline", "registration",
	"last chance", "limited", "warning", "reminder", "rescheduled",
	// French
	"gratuit", "gratuite", "annulé", "annulée", "reporté", "reportée",
	"nouveau", "nouvelle", "complet", "obligatoire", "inscription",
	"réservation", "attention", "rappel", "dernière minute", "places limitées",
}

// regexMatcher wraps a compiled expression with an optional post filter.
type regexMatcher struct {
	re     *regexp.Regexp
	accept func(string) bool
}

func (m regexMatcher) FindAllIndex(s string) [][]int {
	locs := m.re.FindAllStringIndex(s, -1)
	if m.accept == nil || len(locs) == 0 {
		return locs
	}
	kept := locs[:0]
	for _, loc := range locs {
		if m.accept(s[loc[0]:loc[1]]) {
			kept = append(kept, loc)
		}
	}
	return kept
}

// wordMatcher matches whole words from a vocabulary, case-insensitively.
// RE2 word boundaries are ASCII only, so boundaries are checked against the
// neighbouring runes instead.
type wordMatcher struct {
	re *regexp.Regexp
}

func newWordMatcher(words []string) wordMatcher {
	sorted := append([]string(nil), words...)
	// longest first so "sold out" wins over a shorter prefix
	sort.SliceStable(sorted, func(i, j int) bool {
		return utf8.RuneCountInString(sorted[i]) > utf8.RuneCountInString(sorted[j])
	})
	quoted := make([]string, len(sorted))
	for i, w := range sorted {
		quoted[i] = strings.ReplaceAll(regexp.QuoteMeta(w), " ", `\s+`)
	}
	return wordMatcher{re: regexp.MustCompile(`(?i)(?:` + strings.Join(quoted, "|") + `)`)}
}

func (m wordMatcher) FindAllIndex(s string) [][]int {
	var out [][]int
	for _, loc := range m.re.FindAllStringIndex(s, -1) {
		if isWordBoundary(s, loc[0], loc[1]) {
			out = append(out, loc)
		}
	}
	return out
}

func isWordBoundary(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

type defaultLibrary struct {
	matchers map[Category]Matcher
}

func (l *defaultLibrary) Matcher(c Category) Matcher {
	return l.matchers[c]
}

var (
	defaultLib     *defaultLibrary
	defaultLibOnce sync.Once
)

// Default returns the built-in English/French library.
func Default() Library {
	defaultLibOnce.Do(func() {
		defaultLib = &defaultLibrary{matchers: map[Category]Matcher{
			URL:           regexMatcher{re: urlRegex},
			Email:         regexMatcher{re: emailRegex},
			Phone:         PhoneMatcher(0),
			Date:          regexMatcher{re: dateRegex},
			Time:          regexMatcher{re: timeRegex},
			ImportantWord: newWordMatcher(ImportantWords),
		}}
	})
	return defaultLib
}

// WithMatcher returns a library that uses m for category c and falls back to
// base for every other category.
func WithMatcher(base Library, c Category, m Matcher) Library {
	return overrideLibrary{base: base, category: c, matcher: m}
}

type overrideLibrary struct {
	base     Library
	category Category
	matcher  Matcher
}

func (o overrideLibrary) Matcher(c Category) Matcher {
	if c == o.category {
		return o.matcher
	}
	return o.base.Matcher(c)
}

// PhoneMatcher returns the phone grammar keeping only candidates with at least
// minDigits digits. The default library uses PhoneMatcher(0), which also
// reports bare digit runs such as years.
func PhoneMatcher(minDigits int) Matcher {
	if minDigits <= 0 {
		return regexMatcher{re: phoneRegex}
	}
	return regexMatcher{re: phoneRegex, accept: func(s string) bool {
		return countDigits(s) >= minDigits
	}}
}

// NewRegexMatcher adapts a compiled expression to the Matcher interface.
func NewRegexMatcher(re *regexp.Regexp) Matcher {
	return regexMatcher{re: re}
}

// NewWordMatcher builds a whole-word, case-insensitive vocabulary matcher.
func NewWordMatcher(words []string) Matcher {
	return newWordMatcher(words)
}

// IsEmail reports whether the whole token looks like an email address.
func IsEmail(s string) bool {
	loc := emailRegex.FindStringIndex(s)
	return loc != nil && loc[0] == 0 && loc[1] == len(s)
}

// IsURL reports whether the token starts like a web address.
func IsURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "www.")
}
