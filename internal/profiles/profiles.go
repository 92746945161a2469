// Package profiles holds the truncation settings used for each display
// context (title, description, preview) on each screen size.
package profiles

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/mrjoshuak/eventfmt/internal/truncate"
	"gopkg.in/yaml.v3"
)

// Context is where a text is displayed.
type Context string

const (
	Title       Context = "title"
	Description Context = "description"
	Preview     Context = "preview"
)

// Contexts lists every known context.
var Contexts = []Context{Title, Description, Preview}

// ScreenSize is a class of display.
type ScreenSize string

const (
	Mobile  ScreenSize = "mobile"
	Tablet  ScreenSize = "tablet"
	Desktop ScreenSize = "desktop"
	TV      ScreenSize = "tv"
)

// ScreenSizes lists every screen size from the smallest.
var ScreenSizes = []ScreenSize{Mobile, Tablet, Desktop, TV}

// ScreenSizeFor classifies a viewport width in CSS pixels.
func ScreenSizeFor(width int) ScreenSize {
	switch {
	case width < 768:
		return Mobile
	case width < 1024:
		return Tablet
	case width < 1920:
		return Desktop
	default:
		return TV
	}
}

var (
	ErrUnknownContext = errors.New("profiles: unknown context")
	ErrInvalidProfile = errors.New("profiles: invalid profile")
)

// MaxLengthLimit bounds MaxLength in loaded profiles.
const MaxLengthLimit = 10000

// longWordRunes marks a word that always deserves hyphenation.
const longWordRunes = 20

// Profile is one set of truncation options.
type Profile struct {
	MaxLength      int  `yaml:"max_length" json:"max_length"`
	PreserveWords  bool `yaml:"preserve_words" json:"preserve_words"`
	ShowEllipsis   bool `yaml:"show_ellipsis" json:"show_ellipsis"`
	BreakLongWords bool `yaml:"break_long_words" json:"break_long_words"`
}

// Options converts the profile for the truncation engine.
func (p Profile) Options() truncate.Options {
	return truncate.Options{
		MaxLength:      p.MaxLength,
		PreserveWords:  p.PreserveWords,
		ShowEllipsis:   p.ShowEllipsis,
		BreakLongWords: p.BreakLongWords,
	}
}

// Bundle holds the profile of every screen size for one context.
type Bundle struct {
	Mobile  Profile `yaml:"mobile" json:"mobile"`
	Tablet  Profile `yaml:"tablet" json:"tablet"`
	Desktop Profile `yaml:"desktop" json:"desktop"`
	TV      Profile `yaml:"tv" json:"tv"`
}

// For returns the profile of one screen size.
func (b Bundle) For(size ScreenSize) Profile {
	switch size {
	case Mobile:
		return b.Mobile
	case Tablet:
		return b.Tablet
	case TV:
		return b.TV
	default:
		return b.Desktop
	}
}

func (b *Bundle) each(fn func(ScreenSize, *Profile) error) error {
	for _, size := range ScreenSizes {
		var p *Profile
		switch size {
		case Mobile:
			p = &b.Mobile
		case Tablet:
			p = &b.Tablet
		case Desktop:
			p = &b.Desktop
		case TV:
			p = &b.TV
		}
		if err := fn(size, p); err != nil {
			return err
		}
	}
	return nil
}

// Set maps each context to its bundle.
type Set struct {
	Contexts map[Context]Bundle `yaml:"contexts" json:"contexts"`
}

//go:embed defaults.yaml
var defaultsYAML []byte

var (
	defaultSet     *Set
	defaultSetOnce sync.Once
)

// Default returns the embedded profiles. The result must not be modified.
func Default() *Set {
	defaultSetOnce.Do(func() {
		s, err := parse(defaultsYAML)
		if err != nil {
			panic(fmt.Sprintf("profiles: embedded defaults: %v", err))
		}
		defaultSet = s
	})
	return defaultSet
}

// Load reads a YAML profile file. Contexts absent from the file keep their
// default bundle.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid profiles %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a YAML profile document, filling missing
// contexts from the defaults.
func Parse(data []byte) (*Set, error) {
	s, err := parse(data)
	if err != nil {
		return nil, err
	}
	for ctx, b := range Default().Contexts {
		if _, ok := s.Contexts[ctx]; !ok {
			s.Contexts[ctx] = b
		}
	}
	return s, nil
}

func parse(data []byte) (*Set, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Set
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: failed to parse YAML: %v", ErrInvalidProfile, err)
	}
	if s.Contexts == nil {
		s.Contexts = make(map[Context]Bundle)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks context names and length ranges.
func (s *Set) Validate() error {
	for ctx, b := range s.Contexts {
		if _, err := ParseContext(string(ctx)); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidProfile, err)
		}
		err := b.each(func(size ScreenSize, p *Profile) error {
			if p.MaxLength <= 0 || p.MaxLength > MaxLengthLimit {
				return fmt.Errorf("%w: %s/%s: max_length %d out of range 1..%d",
					ErrInvalidProfile, ctx, size, p.MaxLength, MaxLengthLimit)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// ParseContext accepts a context name in any case.
func ParseContext(s string) (Context, error) {
	c := Context(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Contexts {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownContext, s)
}

// Bundle returns the profiles of a context.
func (s *Set) Bundle(ctx Context) (Bundle, error) {
	b, ok := s.Contexts[ctx]
	if !ok {
		return Bundle{}, fmt.Errorf("%w: %q", ErrUnknownContext, ctx)
	}
	return b, nil
}

// Suggestions returns the bundle of ctx adapted to text: a screen size turns
// on word breaking when the text holds a word longer than 20 characters or
// than half of that size's budget.
func (s *Set) Suggestions(text string, ctx Context) (Bundle, error) {
	b, err := s.Bundle(ctx)
	if err != nil {
		return Bundle{}, err
	}
	longest := longestWord(text)
	_ = b.each(func(_ ScreenSize, p *Profile) error {
		if longest >= longWordRunes || longest > p.MaxLength/2 {
			p.BreakLongWords = true
		}
		return nil
	})
	return b, nil
}

func longestWord(text string) int {
	longest := 0
	for _, w := range strings.FieldsFunc(text, unicode.IsSpace) {
		if n := utf8.RuneCountInString(w); n > longest {
			longest = n
		}
	}
	return longest
}
