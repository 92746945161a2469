package eventfmt

import (
	"github.com/mrjoshuak/eventfmt/internal/cache"
	"github.com/mrjoshuak/eventfmt/internal/extractors"
	"github.com/mrjoshuak/eventfmt/internal/lazy"
	"github.com/mrjoshuak/eventfmt/internal/patterns"
	"github.com/mrjoshuak/eventfmt/internal/profiles"
	"github.com/mrjoshuak/eventfmt/internal/resize"
	"github.com/mrjoshuak/eventfmt/internal/structure"
)

// Version information for the eventfmt library.
const (
	Version = "0.4.0"
	Name    = "eventfmt"
)

// FormattedText is a cleaned and length-bounded text.
type FormattedText struct {
	Content     string `json:"content"`
	IsTruncated bool   `json:"is_truncated"`
	// OriginalLength is the length in runes of the cleaned text before
	// truncation.
	OriginalLength    int    `json:"original_length"`
	HasSpecialContent bool   `json:"has_special_content"`
	HiddenContent     string `json:"hidden_content,omitempty"`
}

// ProcessedContent is the result of the structural pass over a description.
type ProcessedContent struct {
	HTML         string         `json:"html"`
	Formatting   TextFormatting `json:"formatting"`
	PlainText    string         `json:"plain_text"`
	HasStructure bool           `json:"has_structure"`
}

// OverflowAnalysis describes how a text fits a display box.
type OverflowAnalysis struct {
	HasOverflow       bool  `json:"has_overflow"`
	EstimatedLines    int   `json:"estimated_lines"`
	WordCount         int   `json:"word_count"`
	CharacterCount    int   `json:"character_count"`
	HasLongWords      bool  `json:"has_long_words"`
	HasSpecialContent bool  `json:"has_special_content"`
	BreakPoints       []int `json:"break_points"`
	SentenceCount     int   `json:"sentence_count"`
	// ReadingMinutes is the estimated reading time, at least one minute.
	ReadingMinutes int `json:"reading_minutes"`
}

func (p ProcessedContent) clone() ProcessedContent {
	p.Formatting = p.Formatting.Clone()
	return p
}

// ExtractedImage is an <img> reference of a raw description.
type ExtractedImage struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// Special content and its projections.
type (
	SpecialContent   = extractors.SpecialContent
	ExtractedLink    = extractors.ExtractedLink
	ExtractedContact = extractors.ExtractedContact
	ExtractedDate    = extractors.ExtractedDate
)

// Structural formatting.
type (
	TextFormatting   = structure.TextFormatting
	ListItem         = structure.ListItem
	EmphasisSpan     = structure.EmphasisSpan
	AdvancedOptions  = structure.Options
	HighlightOptions = structure.HighlightOptions
	Segment          = structure.Segment
	Element          = structure.Element
)

// DefaultAdvancedOptions enables every structural pass.
func DefaultAdvancedOptions() AdvancedOptions {
	return structure.DefaultOptions()
}

// AllHighlights enables every highlight category with clickable links.
func AllHighlights() HighlightOptions {
	return structure.AllHighlights()
}

// Pattern detection.
type (
	Category       = patterns.Category
	Matcher        = patterns.Matcher
	PatternLibrary = patterns.Library
)

const (
	CategoryURL           = patterns.URL
	CategoryEmail         = patterns.Email
	CategoryPhone         = patterns.Phone
	CategoryDate          = patterns.Date
	CategoryTime          = patterns.Time
	CategoryImportantWord = patterns.ImportantWord
)

// DefaultPatterns returns the built-in English and French pattern library.
func DefaultPatterns() PatternLibrary {
	return patterns.Default()
}

// StrictPhones returns lib with phone candidates of fewer than six digits
// ignored, so years and room numbers are not reported as phones.
func StrictPhones(lib PatternLibrary) PatternLibrary {
	return patterns.WithMatcher(lib, patterns.Phone, patterns.PhoneMatcher(patterns.MinPhoneDigits))
}

// Truncation profiles.
type (
	Context    = profiles.Context
	ScreenSize = profiles.ScreenSize
	Profile    = profiles.Profile
	Bundle     = profiles.Bundle
	ProfileSet = profiles.Set
)

const (
	ContextTitle       = profiles.Title
	ContextDescription = profiles.Description
	ContextPreview     = profiles.Preview

	ScreenMobile  = profiles.Mobile
	ScreenTablet  = profiles.Tablet
	ScreenDesktop = profiles.Desktop
	ScreenTV      = profiles.TV
)

// ScreenSizeFor classifies a viewport width in CSS pixels.
func ScreenSizeFor(width int) ScreenSize {
	return profiles.ScreenSizeFor(width)
}

// LoadProfiles reads a YAML profile file.
func LoadProfiles(path string) (*ProfileSet, error) {
	return profiles.Load(path)
}

// Lazy processing.
type (
	Priority = lazy.Priority
	Delays   = lazy.Delays
)

const (
	PriorityLow    = lazy.Low
	PriorityNormal = lazy.Normal
	PriorityHigh   = lazy.High
)

// Viewport tracking.
type (
	Viewport      = resize.Viewport
	ResizeSource  = resize.Source
	ResizeHandler = resize.Handler
	ManualSource  = resize.ManualSource
)

// Stats is a snapshot of the formatting cache.
type Stats = cache.Stats
