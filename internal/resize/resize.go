// Package resize debounces viewport-resize notifications and fans them out to
// subscribers. The underlying source is started on the first subscription and
// stopped when the last one goes away.
package resize

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultDebounce is the quiet period before subscribers are notified.
const DefaultDebounce = 150 * time.Millisecond

// ErrClosed is returned by Subscribe after Destroy.
var ErrClosed = errors.New("resize: coordinator destroyed")

// Viewport is a display size in CSS pixels.
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Source produces raw resize notifications.
type Source interface {
	Start(notify func(Viewport))
	Stop()
}

// Handler receives debounced viewports. A returned error or a panic is
// logged and does not affect other subscribers.
type Handler func(Viewport) error

// Options configures a Coordinator.
type Options struct {
	Debounce time.Duration
	Logger   logrus.FieldLogger
}

// Coordinator is safe for concurrent use.
type Coordinator struct {
	source   Source
	debounce time.Duration
	log      logrus.FieldLogger

	// lifecycle orders source Start and Stop calls with the state changes
	// that trigger them. It is never taken by notify.
	lifecycle sync.Mutex

	mu      sync.Mutex
	subs    map[uint64]Handler
	nextID  uint64
	timer   *time.Timer
	pending Viewport
	last    Viewport
	started bool
	closed  bool
}

// New creates a Coordinator over src.
func New(src Source, opts Options) *Coordinator {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		opts.Logger = l
	}
	return &Coordinator{
		source:   src,
		debounce: opts.Debounce,
		log:      opts.Logger.WithField("component", "resize"),
		subs:     make(map[uint64]Handler),
	}
}

// Subscribe registers h and returns the function that removes it.
func (c *Coordinator) Subscribe(h Handler) (unsubscribe func(), err error) {
	if h == nil {
		return nil, fmt.Errorf("resize: nil handler")
	}
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.nextID++
	id := c.nextID
	c.subs[id] = h
	start := !c.started
	c.started = true
	c.mu.Unlock()

	if start {
		c.source.Start(c.notify)
	}

	var once sync.Once
	return func() {
		once.Do(func() { c.unsubscribe(id) })
	}, nil
}

func (c *Coordinator) unsubscribe(id uint64) {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	c.mu.Lock()
	delete(c.subs, id)
	stop := c.started && len(c.subs) == 0
	if stop {
		c.started = false
		c.stopTimerLocked()
	}
	c.mu.Unlock()

	if stop {
		c.source.Stop()
	}
}

// Subscribers returns the number of active subscriptions.
func (c *Coordinator) Subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

// Last returns the most recently dispatched viewport.
func (c *Coordinator) Last() Viewport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// notify restarts the debounce window with the latest viewport.
func (c *Coordinator) notify(v Viewport) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || !c.started {
		return
	}
	c.pending = v
	c.stopTimerLocked()
	c.timer = time.AfterFunc(c.debounce, c.dispatch)
}

func (c *Coordinator) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Coordinator) dispatch() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	v := c.pending
	c.last = v
	c.timer = nil
	ids := make([]uint64, 0, len(c.subs))
	for id := range c.subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	handlers := make([]Handler, len(ids))
	for i, id := range ids {
		handlers[i] = c.subs[id]
	}
	c.mu.Unlock()

	for i, h := range handlers {
		if err := c.call(h, v); err != nil {
			c.log.WithFields(logrus.Fields{
				"subscriber": ids[i],
				"width":      v.Width,
				"height":     v.Height,
				"error":      err,
			}).Error("Resize subscriber failed")
		}
	}
}

func (c *Coordinator) call(h Handler, v Viewport) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h(v)
}

// Destroy stops the pending timer and the source and drops every
// subscriber. It is safe to call more than once.
func (c *Coordinator) Destroy() {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stopTimerLocked()
	stop := c.started
	c.started = false
	c.subs = make(map[uint64]Handler)
	c.mu.Unlock()

	if stop {
		c.source.Stop()
	}
}

// ManualSource is a Source fed by explicit Resize calls, for hosts that learn
// about viewport changes from their clients.
type ManualSource struct {
	mu     sync.Mutex
	notify func(Viewport)
}

func (s *ManualSource) Start(notify func(Viewport)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notify = notify
}

func (s *ManualSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notify = nil
}

// Resize forwards v and reports whether the source was started.
func (s *ManualSource) Resize(v Viewport) bool {
	s.mu.Lock()
	notify := s.notify
	s.mu.Unlock()
	if notify == nil {
		return false
	}
	notify(v)
	return true
}
