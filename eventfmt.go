package eventfmt

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/mrjoshuak/eventfmt/internal/cache"
	"github.com/mrjoshuak/eventfmt/internal/extractors"
	"github.com/mrjoshuak/eventfmt/internal/lazy"
	"github.com/mrjoshuak/eventfmt/internal/patterns"
	"github.com/mrjoshuak/eventfmt/internal/profiles"
	"github.com/mrjoshuak/eventfmt/internal/resize"
	"github.com/mrjoshuak/eventfmt/internal/simplifiers"
	"github.com/mrjoshuak/eventfmt/internal/structure"
	"github.com/mrjoshuak/eventfmt/internal/truncate"
	"github.com/sirupsen/logrus"
)

// Cache key prefixes, one per operation.
const (
	opTitle       = "title"
	opDescription = "description"
	opClean       = "clean"
	opSpecial     = "special"
	opHighlight   = "highlight"
	opHighlightHT = "highlight-html"
	opLinks       = "links"
	opContacts    = "contacts"
	opDates       = "dates"
	opImages      = "images"
	opAdvanced    = "advanced"
	opOverflow    = "overflow"
)

// Formatter cleans, truncates and structures event texts. Results are cached
// by input and options. A Formatter is safe for concurrent use; Close stops
// its background timers.
type Formatter struct {
	log      logrus.FieldLogger
	lib      patterns.Library
	profiles *profiles.Set
	cache    *cache.Cache
	lazy     *lazy.Processor
	resize   *resize.Coordinator
	source   resize.Source

	closed    atomic.Bool
	closeOnce sync.Once
}

// New creates a Formatter.
func New(opts ...Option) *Formatter {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		o.Logger = l
	}
	if o.Patterns == nil {
		o.Patterns = patterns.Default()
	}
	if o.Profiles == nil {
		o.Profiles = profiles.Default()
	}
	if o.ResizeSource == nil {
		o.ResizeSource = &resize.ManualSource{}
	}

	c := cache.New(cache.Options{
		MaxSize:       o.CacheSize,
		TTL:           o.CacheTTL,
		SweepInterval: o.SweepInterval,
		Logger:        o.Logger,
	})
	f := &Formatter{
		log:      o.Logger.WithField("component", "formatter"),
		lib:      o.Patterns,
		profiles: o.Profiles,
		cache:    c,
		lazy: lazy.New(lazy.Options{
			Cache:  c,
			Delays: o.PriorityDelays,
			Logger: o.Logger,
		}),
		resize: resize.New(o.ResizeSource, resize.Options{
			Debounce: o.Debounce,
			Logger:   o.Logger,
		}),
		source: o.ResizeSource,
	}
	return f
}

// Close stops the cache sweeper and the resize coordinator. Text operations
// keep working afterwards; lazy processing and resize subscriptions return
// ErrClosed. It is safe to call more than once.
func (f *Formatter) Close() {
	f.closeOnce.Do(func() {
		f.closed.Store(true)
		f.resize.Destroy()
		f.lazy.Close()
		f.cache.Destroy()
		f.log.Debug("Formatter closed")
	})
}

// cached runs compute once per key. Text operations cannot fail, so the
// error of GetOrCompute is always nil here. Results holding slices or
// pointers pass a clone func so callers never share the cached value.
func cached[V any](f *Formatter, op, text string, options any, compute func() V, clone func(V) V) V {
	v, _ := cache.GetOrCompute(f.cache, op+":"+cache.Key(text, options), func() (V, error) {
		return compute(), nil
	})
	if clone != nil {
		return clone(v)
	}
	return v
}

func (f *Formatter) defaultTruncateOptions(ctx profiles.Context) truncate.Options {
	o := truncate.DefaultOptions(0)
	if b, err := f.profiles.Bundle(ctx); err == nil {
		o.MaxLength = b.Desktop.MaxLength
	}
	return o
}

// FormatTitle cleans and truncates an event title. Without WithMaxLength the
// budget is the desktop title profile.
func (f *Formatter) FormatTitle(text string, opts ...TruncateOption) FormattedText {
	return f.format(opTitle, text, f.defaultTruncateOptions(profiles.Title), opts)
}

// FormatDescription cleans and truncates an event description. Without
// WithMaxLength the budget is the desktop description profile.
func (f *Formatter) FormatDescription(text string, opts ...TruncateOption) FormattedText {
	return f.format(opDescription, text, f.defaultTruncateOptions(profiles.Description), opts)
}

// FormatFor truncates text with the profile of a context on a screen size.
func (f *Formatter) FormatFor(text string, ctx Context, size ScreenSize) (FormattedText, error) {
	b, err := f.profiles.Bundle(ctx)
	if err != nil {
		return FormattedText{}, WrapError(err, ProfileError, "FormatFor")
	}
	op := opDescription
	if ctx == profiles.Title {
		op = opTitle
	}
	return f.format(op, text, b.For(size).Options(), nil), nil
}

func (f *Formatter) format(op, text string, o truncate.Options, opts []TruncateOption) FormattedText {
	for _, opt := range opts {
		opt(&o)
	}
	return cached(f, op, text, o, func() FormattedText {
		cleaned := f.CleanHTMLContent(text)
		res := truncate.Truncate(cleaned, o)
		return FormattedText{
			Content:           res.Text,
			IsTruncated:       res.IsTruncated,
			OriginalLength:    utf8.RuneCountInString(cleaned),
			HasSpecialContent: f.ExtractSpecialContent(cleaned).HasSpecialContent(),
			HiddenContent:     res.HiddenContent,
		}
	}, nil)
}

// CleanHTMLContent strips markup, decodes entities and collapses whitespace.
func (f *Formatter) CleanHTMLContent(text string) string {
	if text == "" {
		return ""
	}
	return cached(f, opClean, text, nil, func() string {
		return simplifiers.Clean(text)
	}, nil)
}

// ExtractSpecialContent finds URLs, emails, phones, dates, times and
// important words in the cleaned text.
func (f *Formatter) ExtractSpecialContent(text string) SpecialContent {
	return cached(f, opSpecial, text, nil, func() SpecialContent {
		return extractors.ExtractSpecialContent(f.CleanHTMLContent(text), f.lib)
	}, SpecialContent.Clone)
}

// Highlight splits the cleaned text into plain and highlighted segments. A
// nil opts highlights every category with clickable links.
func (f *Formatter) Highlight(text string, opts *HighlightOptions) []Segment {
	o := highlightOptions(opts)
	return cached(f, opHighlight, text, o, func() []Segment {
		return structure.Highlight(f.CleanHTMLContent(text), o, f.lib)
	}, structure.CloneSegments)
}

// FormatWithHighlights renders the cleaned text as HTML with special content
// wrapped in class-annotated elements.
func (f *Formatter) FormatWithHighlights(text string, opts *HighlightOptions) string {
	o := highlightOptions(opts)
	return cached(f, opHighlightHT, text, o, func() string {
		return structure.RenderSegments(f.Highlight(text, &o))
	}, nil)
}

func highlightOptions(opts *HighlightOptions) HighlightOptions {
	if opts == nil {
		return structure.AllHighlights()
	}
	return *opts
}

// ExtractLinks returns the links of a text: anchors of raw HTML first, then
// URLs written in the text.
func (f *Formatter) ExtractLinks(text string) []ExtractedLink {
	return cached(f, opLinks, text, nil, func() []ExtractedLink {
		return extractors.ExtractLinks(text, f.CleanHTMLContent(text), f.lib)
	}, slices.Clone[[]ExtractedLink])
}

// ExtractContacts returns the emails and phone numbers of a text with their
// mailto: and tel: targets.
func (f *Formatter) ExtractContacts(text string) []ExtractedContact {
	return cached(f, opContacts, text, nil, func() []ExtractedContact {
		return extractors.ExtractContacts(text, f.CleanHTMLContent(text), f.lib)
	}, slices.Clone[[]ExtractedContact])
}

// ExtractDates returns the dates and times of a text, machine-readable
// markup first.
func (f *Formatter) ExtractDates(text string) []ExtractedDate {
	return cached(f, opDates, text, nil, func() []ExtractedDate {
		return extractors.ExtractDates(text, f.CleanHTMLContent(text), f.lib)
	}, slices.Clone[[]ExtractedDate])
}

// ExtractImages returns the <img> references of raw HTML. Tracking pixels
// are skipped.
func (f *Formatter) ExtractImages(text string) []ExtractedImage {
	return cached(f, opImages, text, nil, func() []ExtractedImage {
		images := []ExtractedImage{}
		for _, img := range simplifiers.ExtractImages(text) {
			images = append(images, ExtractedImage{Src: img.Src, Alt: img.Alt})
		}
		return images
	}, slices.Clone[[]ExtractedImage])
}

// ProcessAdvancedContent segments a description into paragraphs, lists and
// line breaks and renders it as highlighted HTML. A nil opts enables every
// pass.
func (f *Formatter) ProcessAdvancedContent(text string, opts *AdvancedOptions) ProcessedContent {
	o := advancedOptions(opts)
	return cached(f, opAdvanced, text, o, func() ProcessedContent {
		return f.processAdvanced(text, o)
	}, ProcessedContent.clone)
}

func advancedOptions(opts *AdvancedOptions) AdvancedOptions {
	if opts == nil {
		return structure.DefaultOptions()
	}
	return *opts
}

func (f *Formatter) processAdvanced(text string, o AdvancedOptions) ProcessedContent {
	formatting := structure.Format(text, o, f.lib)
	return ProcessedContent{
		HTML:         structure.Render(text, formatting, o, structure.AllHighlights(), f.lib),
		Formatting:   formatting,
		PlainText:    f.CleanHTMLContent(text),
		HasStructure: formatting.HasStructure(),
	}
}

// ProcessAdvancedContentLazy is ProcessAdvancedContent run through the lazy
// processor: concurrent calls for the same text and options share one
// computation, and prio delays lower-priority work. A done ctx stops the wait
// only.
func (f *Formatter) ProcessAdvancedContentLazy(ctx context.Context, text string, opts *AdvancedOptions, prio Priority) (ProcessedContent, error) {
	if f.closed.Load() {
		return ProcessedContent{}, ErrClosed
	}
	o := advancedOptions(opts)
	v, err := lazy.Process(ctx, f.lazy, opAdvanced+":"+cache.Key(text, o), func() (ProcessedContent, error) {
		return f.processAdvanced(text, o), nil
	}, prio)
	if err != nil {
		return ProcessedContent{}, WrapError(err, ProcessingError, "ProcessAdvancedContentLazy")
	}
	return v.clone(), nil
}

// ProcessBatch processes many descriptions concurrently and returns the
// results in input order.
func (f *Formatter) ProcessBatch(ctx context.Context, texts []string, opts *AdvancedOptions, prio Priority) ([]ProcessedContent, error) {
	if f.closed.Load() {
		return nil, ErrClosed
	}
	o := advancedOptions(opts)
	items := make([]lazy.Item[ProcessedContent], len(texts))
	for i, text := range texts {
		text := text
		items[i] = lazy.Item[ProcessedContent]{
			Key: opAdvanced + ":" + cache.Key(text, o),
			Producer: func() (ProcessedContent, error) {
				return f.processAdvanced(text, o), nil
			},
			Priority: prio,
		}
	}
	results, err := lazy.ProcessBatch(ctx, f.lazy, items)
	if err != nil {
		return nil, WrapError(err, ProcessingError, "ProcessBatch")
	}
	for i := range results {
		results[i] = results[i].clone()
	}
	return results, nil
}

// TruncationSuggestions returns the profiles of a context for every screen
// size, with word breaking turned on where the text has words too long for
// the budget.
func (f *Formatter) TruncationSuggestions(text string, ctx Context) (Bundle, error) {
	b, err := f.profiles.Suggestions(f.CleanHTMLContent(text), ctx)
	return b, WrapError(err, ProfileError, "TruncationSuggestions")
}

// Stats returns a snapshot of the cache.
func (f *Formatter) Stats() Stats {
	return f.cache.Stats()
}

// ClearCache drops every cached result and resets the metrics.
func (f *Formatter) ClearCache() {
	f.cache.Clear()
	f.log.Debug("Cache cleared")
}
