package eventfmt

import (
	"time"

	"github.com/mrjoshuak/eventfmt/internal/truncate"
	"github.com/sirupsen/logrus"
)

// Options configures a Formatter. Zero values select the defaults.
type Options struct {
	CacheSize      int
	CacheTTL       time.Duration
	SweepInterval  time.Duration
	Logger         logrus.FieldLogger
	Patterns       PatternLibrary
	Profiles       *ProfileSet
	PriorityDelays *Delays
	// ResizeSource feeds viewport changes. Without one the formatter uses a
	// ManualSource driven by Resize.
	ResizeSource ResizeSource
	Debounce     time.Duration
}

// Option represents a function that modifies Options.
type Option func(*Options)

// WithCacheSize bounds the number of cached results.
func WithCacheSize(size int) Option {
	return func(o *Options) {
		o.CacheSize = size
	}
}

// WithCacheTTL sets how long a cached result stays valid after it is written.
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *Options) {
		o.CacheTTL = ttl
	}
}

// WithSweepInterval sets how often expired cache entries are purged.
func WithSweepInterval(interval time.Duration) Option {
	return func(o *Options) {
		o.SweepInterval = interval
	}
}

// WithLogger sets the logger. The default logs warnings and errors to stderr.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithPatternLibrary replaces the special-content patterns.
func WithPatternLibrary(lib PatternLibrary) Option {
	return func(o *Options) {
		o.Patterns = lib
	}
}

// WithProfiles replaces the embedded truncation profiles.
func WithProfiles(set *ProfileSet) Option {
	return func(o *Options) {
		o.Profiles = set
	}
}

// WithPriorityDelays sets the delay applied before lazy work of each priority.
func WithPriorityDelays(d Delays) Option {
	return func(o *Options) {
		o.PriorityDelays = &d
	}
}

// WithResizeSource sets where viewport changes come from.
func WithResizeSource(src ResizeSource) Option {
	return func(o *Options) {
		o.ResizeSource = src
	}
}

// WithDebounce sets the quiet period before resize subscribers are notified.
func WithDebounce(d time.Duration) Option {
	return func(o *Options) {
		o.Debounce = d
	}
}

// TruncateOptions controls FormatTitle and FormatDescription.
type TruncateOptions = truncate.Options

// TruncateOption modifies TruncateOptions.
type TruncateOption func(*TruncateOptions)

// WithMaxLength sets the length budget in runes, ellipsis included. Zero or
// less disables truncation.
func WithMaxLength(n int) TruncateOption {
	return func(o *TruncateOptions) {
		o.MaxLength = n
	}
}

// WithPreserveWords keeps whole words instead of cutting at a character.
func WithPreserveWords(enable bool) TruncateOption {
	return func(o *TruncateOptions) {
		o.PreserveWords = enable
	}
}

// WithEllipsis appends "..." to truncated text.
func WithEllipsis(enable bool) TruncateOption {
	return func(o *TruncateOptions) {
		o.ShowEllipsis = enable
	}
}

// WithBreakLongWords allows hyphenating a word that does not fit.
func WithBreakLongWords(enable bool) TruncateOption {
	return func(o *TruncateOptions) {
		o.BreakLongWords = enable
	}
}

// WithTruncateOptions replaces every setting at once, for example with a
// profile's options.
func WithTruncateOptions(opts TruncateOptions) TruncateOption {
	return func(o *TruncateOptions) {
		*o = opts
	}
}
