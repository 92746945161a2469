// Package lazy runs expensive formatting work at most once per key: concurrent
// requests for a key share one in-flight computation, completed results are
// kept in a cache, and a small priority delay lets urgent work go first.
package lazy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mrjoshuak/eventfmt/internal/cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Priority orders concurrently issued work. It is advisory only.
type Priority int

const (
	Low Priority = iota
	Normal
	High
)

func (p Priority) String() string {
	switch p {
	case Low:
		return "low"
	case High:
		return "high"
	default:
		return "normal"
	}
}

// ParsePriority accepts "low", "normal" and "high".
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return Low, nil
	case "", "normal":
		return Normal, nil
	case "high":
		return High, nil
	}
	return Normal, fmt.Errorf("lazy: unknown priority %q", s)
}

// Delays is the pause injected before a producer runs, per priority.
type Delays struct {
	Low    time.Duration `yaml:"low"`
	Normal time.Duration `yaml:"normal"`
	High   time.Duration `yaml:"high"`
}

// DefaultDelays lets high priority work start right away.
var DefaultDelays = Delays{Low: 10 * time.Millisecond, Normal: time.Millisecond, High: 0}

func (d Delays) of(p Priority) time.Duration {
	switch p {
	case Low:
		return d.Low
	case High:
		return d.High
	default:
		return d.Normal
	}
}

var (
	// ErrTypeMismatch is returned when a key already holds a value of another type.
	ErrTypeMismatch = errors.New("lazy: cached value has unexpected type")
	// ErrProducerPanic wraps a recovered producer panic.
	ErrProducerPanic = errors.New("lazy: producer panicked")
)

// Options configures a Processor.
type Options struct {
	// Cache keeps completed results. When nil the processor owns a private
	// cache and destroys it on Close.
	Cache  *cache.Cache
	Delays *Delays
	Logger logrus.FieldLogger
}

// Processor coalesces work by key.
type Processor struct {
	group     singleflight.Group
	results   *cache.Cache
	ownsCache bool
	delays    Delays
	log       logrus.FieldLogger
}

// New creates a Processor.
func New(opts Options) *Processor {
	if opts.Logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		opts.Logger = l
	}
	p := &Processor{
		results: opts.Cache,
		delays:  DefaultDelays,
		log:     opts.Logger.WithField("component", "lazy"),
	}
	if opts.Delays != nil {
		p.delays = *opts.Delays
	}
	if p.results == nil {
		p.results = cache.New(cache.Options{Logger: opts.Logger})
		p.ownsCache = true
	}
	return p
}

// Close releases the private cache, if any.
func (p *Processor) Close() {
	if p.ownsCache {
		p.results.Destroy()
	}
}

// Forget drops the completed result of key so the next call recomputes it.
func (p *Processor) Forget(key string) {
	p.group.Forget(key)
	p.results.Delete(key)
}

// Process returns the result for key, running producer only when no result
// is cached and no computation is in flight. A done ctx stops the wait, not
// the producer: the result is still stored for later callers.
func Process[V any](ctx context.Context, p *Processor, key string, producer func() (V, error), prio Priority) (V, error) {
	var zero V
	if v, ok := p.results.Get(key); ok {
		return typed[V](key, v)
	}

	ch := p.group.DoChan(key, func() (v any, err error) {
		if v, ok := p.results.Get(key); ok {
			return v, nil
		}
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: key %q: %v", ErrProducerPanic, key, r)
			}
		}()
		if d := p.delays.of(prio); d > 0 {
			time.Sleep(d)
		}
		v, err = producer()
		if err != nil {
			p.log.WithFields(logrus.Fields{
				"key":      key,
				"priority": prio.String(),
				"error":    err,
			}).Debug("Producer failed")
			return nil, err
		}
		p.results.Set(key, v)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return zero, r.Err
		}
		return typed[V](key, r.Val)
	}
}

func typed[V any](key string, v any) (V, error) {
	t, ok := v.(V)
	if !ok {
		var zero V
		return zero, fmt.Errorf("%w: key %q holds %T", ErrTypeMismatch, key, v)
	}
	return t, nil
}

// Item is one unit of a batch.
type Item[V any] struct {
	Key      string
	Producer func() (V, error)
	Priority Priority
}

// ProcessBatch runs Process for every item concurrently and returns the
// results in item order. The first error is returned and cancels the wait
// for the remaining items.
func ProcessBatch[V any](ctx context.Context, p *Processor, items []Item[V]) ([]V, error) {
	results := make([]V, len(items))
	g, gctx := errgroup.WithContext(ctx)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			v, err := Process(gctx, p, item.Key, item.Producer, item.Priority)
			if err != nil {
				return fmt.Errorf("batch item %d (%s): %w", i, item.Key, err)
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
