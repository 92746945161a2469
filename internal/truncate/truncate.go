// Package truncate bounds cleaned text to a length budget without cutting
// words, email addresses or URLs in unreadable places.
//
// Lengths are counted in runes. The ellipsis is part of the budget.
package truncate

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Ellipsis is appended to truncated text when Options.ShowEllipsis is set.
const Ellipsis = "..."

const (
	// lookback is how far character mode searches backwards for a soft break.
	lookback = 20
	// minBreakRoom is the least space a broken word needs after other words:
	// one rune and its hyphen.
	minBreakRoom = 2
)

// Options controls a single truncation.
type Options struct {
	// MaxLength is the budget in runes, ellipsis included. Zero or less
	// disables truncation.
	MaxLength int
	// PreserveWords keeps whole words. When false the text is cut by
	// character, optionally at a nearby space or punctuation mark.
	PreserveWords bool
	ShowEllipsis  bool
	// BreakLongWords allows hyphenating a word, URL or address that would
	// not fit otherwise.
	BreakLongWords bool
}

// DefaultOptions keeps words and shows an ellipsis.
func DefaultOptions(maxLength int) Options {
	return Options{MaxLength: maxLength, PreserveWords: true, ShowEllipsis: true}
}

// Result is the outcome of Truncate.
type Result struct {
	Text          string `json:"text"`
	IsTruncated   bool   `json:"is_truncated"`
	HiddenContent string `json:"hidden_content,omitempty"`
}

// Truncate shortens text to fit opts.MaxLength.
//
// In word mode, words are kept greedily while they fit. With BreakLongWords,
// the word that overflows is broken to fill the remaining space. The
// first word is never dropped: it is broken when allowed and kept whole
// otherwise, so the result is empty only when the input is.
func Truncate(text string, opts Options) Result {
	total := utf8.RuneCountInString(text)
	if opts.MaxLength <= 0 || total <= opts.MaxLength {
		return Result{Text: text}
	}

	budget := opts.MaxLength
	ellipsis := opts.ShowEllipsis && opts.MaxLength > len(Ellipsis)
	if ellipsis {
		budget -= len(Ellipsis)
	}

	var kept, hidden string
	if opts.PreserveWords {
		kept, hidden = truncateWords(text, budget, opts.BreakLongWords)
	} else {
		kept, hidden = truncateChars(text, budget, opts.BreakLongWords)
	}

	if hidden == "" {
		return Result{Text: kept}
	}
	kept = strings.TrimRightFunc(kept, unicode.IsSpace)
	if ellipsis {
		kept += Ellipsis
	}
	return Result{Text: kept, IsTruncated: true, HiddenContent: hidden}
}

// span is a whitespace-delimited word as byte offsets into the text.
type span struct {
	start, end int
}

func fields(text string) []span {
	var spans []span
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				spans = append(spans, span{start, i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		spans = append(spans, span{start, len(text)})
	}
	return spans
}

func truncateWords(text string, budget int, breakLong bool) (kept, hidden string) {
	var b strings.Builder
	length := 0
	for _, f := range fields(text) {
		word := text[f.start:f.end]
		n := utf8.RuneCountInString(word)
		sep := 0
		if length > 0 {
			sep = 1
		}
		if length+sep+n <= budget {
			if sep > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(word)
			length += sep + n
			continue
		}

		room := budget - length - sep
		switch {
		case length == 0 && !breakLong:
			// never return nothing when there is a word to show
			b.WriteString(word)
			return b.String(), strings.TrimSpace(text[f.end:])
		case breakLong && (length == 0 || room >= minBreakRoom):
			head, consumed := breakWord([]rune(word), room)
			if consumed == 0 {
				break
			}
			if sep > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(head)
			return b.String(), text[f.start+runeOffset(word, consumed):]
		}
		return b.String(), strings.TrimSpace(text[f.start:])
	}
	return b.String(), ""
}

func truncateChars(text string, budget int, breakLong bool) (kept, hidden string) {
	runes := []rune(text)
	if budget > len(runes) {
		return text, ""
	}
	cut := budget
	if breakLong {
		if i := lastIndexFunc(runes, cut, cut-lookback, unicode.IsSpace); i > 0 {
			cut = i
		} else if i := lastIndexFunc(runes, cut-1, cut-lookback, isBreakPunct); i >= 0 {
			cut = i + 1
		}
	}
	return string(runes[:cut]), strings.TrimLeftFunc(string(runes[cut:]), unicode.IsSpace)
}

// lastIndexFunc scans runes[from] down to runes[to] and returns the first
// index satisfying f, or -1.
func lastIndexFunc(runes []rune, from, to int, f func(rune) bool) int {
	if from >= len(runes) {
		from = len(runes) - 1
	}
	if to < 0 {
		to = 0
	}
	for i := from; i >= to; i-- {
		if f(runes[i]) {
			return i
		}
	}
	return -1
}

func isBreakPunct(r rune) bool {
	switch r {
	case '.', ',', ';', ':', '!', '?':
		return true
	}
	return false
}

// runeOffset returns the byte offset of the n-th rune of s.
func runeOffset(s string, n int) int {
	for i := range s {
		if n == 0 {
			return i
		}
		n--
	}
	return len(s)
}
