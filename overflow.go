package eventfmt

import (
	"slices"

	"github.com/mattn/go-runewidth"
	"github.com/mrjoshuak/eventfmt/internal/simplifiers"
)

const (
	// averageCharWidth is the assumed width of one display column in pixels.
	averageCharWidth = 8
	// defaultCharsPerLine applies when the container width is unknown.
	defaultCharsPerLine = 50
	// longWordRunes marks a word that needs hyphenation to wrap.
	longWordRunes = 20
)

// overflowKey is the option part of the overflow cache key.
type overflowKey struct {
	MaxLength      int `json:"max_length"`
	ContainerWidth int `json:"container_width"`
}

// AnalyzeTextOverflow estimates how the cleaned text fits a box. maxLength
// is a budget in runes, zero for none; containerWidth is in pixels, zero for
// unknown. Wide characters count for two display columns.
func (f *Formatter) AnalyzeTextOverflow(text string, maxLength, containerWidth int) OverflowAnalysis {
	return cached(f, opOverflow, text, overflowKey{maxLength, containerWidth}, func() OverflowAnalysis {
		cleaned := f.CleanHTMLContent(text)
		chars := len([]rune(cleaned))

		perLine := defaultCharsPerLine
		if containerWidth > 0 {
			perLine = max(containerWidth/averageCharWidth, 1)
		}
		lines := 0
		if width := runewidth.StringWidth(cleaned); width > 0 {
			lines = (width + perLine - 1) / perLine
		}

		return OverflowAnalysis{
			HasOverflow:       maxLength > 0 && chars > maxLength,
			EstimatedLines:    lines,
			WordCount:         simplifiers.CountWords(cleaned),
			CharacterCount:    chars,
			HasLongWords:      simplifiers.LongestWord(cleaned) > longWordRunes,
			HasSpecialContent: f.ExtractSpecialContent(cleaned).HasSpecialContent(),
			BreakPoints:       simplifiers.BreakPoints(cleaned),
			SentenceCount:     simplifiers.CountSentences(cleaned),
			ReadingMinutes:    simplifiers.EstimateReadingTime(cleaned),
		}
	}, func(a OverflowAnalysis) OverflowAnalysis {
		a.BreakPoints = slices.Clone(a.BreakPoints)
		return a
	})
}
