package simplifiers

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Abbreviations whose period does not end a sentence.
var abbreviations = []string{"Dr", "Mr", "Mrs", "Ms", "Prof", "St", "Jr", "Sr", "M", "Mme", "Mlle", "av", "bd"}

// abbreviationRegex matches an abbreviation as a whole word with its period.
var abbreviationRegex = regexp.MustCompile(`(^|[^\p{L}\p{N}])(` + strings.Join(abbreviations, "|") + `)\.`)

// CountWords counts the whitespace separated words of a text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// CountSentences counts sentences by terminal punctuation. A trailing run
// without punctuation counts as one sentence.
func CountSentences(text string) int {
	text = abbreviationRegex.ReplaceAllString(text, "${1}${2}")

	count := 0
	inSentence := false
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			inSentence = true
		} else if inSentence && (r == '.' || r == '!' || r == '?') {
			count++
			inSentence = false
		}
	}
	if inSentence {
		count++
	}
	return count
}

// LongestWord returns the length in runes of the longest word.
func LongestWord(text string) int {
	longest := 0
	for _, w := range strings.Fields(text) {
		if n := utf8.RuneCountInString(w); n > longest {
			longest = n
		}
	}
	return longest
}

// BreakPoints returns the rune offsets after which a line may wrap: every
// whitespace rune and every punctuation mark that is followed by whitespace
// or ends the text.
func BreakPoints(text string) []int {
	runes := []rune(text)
	points := []int{}
	for i, r := range runes {
		switch {
		case unicode.IsSpace(r):
			points = append(points, i)
		case strings.ContainsRune(".,;:!?", r):
			if i == len(runes)-1 || unicode.IsSpace(runes[i+1]) {
				points = append(points, i)
			}
		}
	}
	return points
}

// EstimateReadingTime estimates the reading time in minutes at 225 words per
// minute, never less than one minute.
func EstimateReadingTime(text string) int {
	minutes := CountWords(text) / 225
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
