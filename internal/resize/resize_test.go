package resize

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	ManualSource
	starts atomic.Int32
	stops  atomic.Int32
}

func (s *countingSource) Start(notify func(Viewport)) {
	s.starts.Add(1)
	s.ManualSource.Start(notify)
}

func (s *countingSource) Stop() {
	s.stops.Add(1)
	s.ManualSource.Stop()
}

// strictSource records Start and Stop calls made out of order.
type strictSource struct {
	mu       sync.Mutex
	running  bool
	misorder int
}

func (s *strictSource) Start(func(Viewport)) {
	time.Sleep(100 * time.Microsecond)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.misorder++
	}
	s.running = true
}

func (s *strictSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		s.misorder++
	}
	s.running = false
}

func TestConcurrentSubscribeKeepsSourceInStep(t *testing.T) {
	src := &strictSource{}
	c := New(src, Options{})
	defer c.Destroy()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				unsubscribe, err := c.Subscribe(func(Viewport) error { return nil })
				if err != nil {
					t.Error(err)
					return
				}
				unsubscribe()
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, c.Subscribers())
	src.mu.Lock()
	defer src.mu.Unlock()
	assert.False(t, src.running, "source left running without subscribers")
	assert.Zero(t, src.misorder)
}

func TestDebounce(t *testing.T) {
	src := &ManualSource{}
	c := New(src, Options{Debounce: 20 * time.Millisecond})
	defer c.Destroy()

	var mu sync.Mutex
	var got []Viewport
	_, err := c.Subscribe(func(v Viewport) error {
		mu.Lock()
		got = append(got, v)
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	for w := 300; w <= 700; w += 100 {
		require.True(t, src.Resize(Viewport{Width: w, Height: 600}))
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(40 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []Viewport{{Width: 700, Height: 600}}, got)
	assert.Equal(t, Viewport{Width: 700, Height: 600}, c.Last())
}

func TestSourceIsReferenceCounted(t *testing.T) {
	src := &countingSource{}
	c := New(src, Options{})
	defer c.Destroy()

	unsub1, err := c.Subscribe(func(Viewport) error { return nil })
	require.NoError(t, err)
	unsub2, err := c.Subscribe(func(Viewport) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, int32(1), src.starts.Load())
	assert.Equal(t, 2, c.Subscribers())

	unsub1()
	unsub1()
	assert.Equal(t, int32(0), src.stops.Load())

	unsub2()
	assert.Equal(t, int32(1), src.stops.Load())
	assert.Equal(t, 0, c.Subscribers())
	assert.False(t, src.Resize(Viewport{Width: 1}))

	_, err = c.Subscribe(func(Viewport) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.starts.Load())
}

func TestFailingSubscriberIsIsolated(t *testing.T) {
	logger, hook := test.NewNullLogger()
	src := &ManualSource{}
	c := New(src, Options{Debounce: 5 * time.Millisecond, Logger: logger})
	defer c.Destroy()

	var delivered atomic.Int32
	_, err := c.Subscribe(func(Viewport) error { return errors.New("layout failed") })
	require.NoError(t, err)
	_, err = c.Subscribe(func(Viewport) error { panic("boom") })
	require.NoError(t, err)
	_, err = c.Subscribe(func(Viewport) error {
		delivered.Add(1)
		return nil
	})
	require.NoError(t, err)

	src.Resize(Viewport{Width: 1024, Height: 768})

	assert.Eventually(t, func() bool { return delivered.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return len(hook.AllEntries()) == 2 }, time.Second, 5*time.Millisecond)
	for _, e := range hook.AllEntries() {
		assert.Equal(t, logrus.ErrorLevel, e.Level)
		assert.Equal(t, "Resize subscriber failed", e.Message)
	}
}

func TestDestroy(t *testing.T) {
	src := &countingSource{}
	c := New(src, Options{Debounce: 10 * time.Millisecond})

	var calls atomic.Int32
	_, err := c.Subscribe(func(Viewport) error {
		calls.Add(1)
		return nil
	})
	require.NoError(t, err)

	src.Resize(Viewport{Width: 800})
	c.Destroy()
	c.Destroy()

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load(), "pending notification must be dropped")
	assert.Equal(t, int32(1), src.stops.Load())

	_, err = c.Subscribe(func(Viewport) error { return nil })
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSubscribeNilHandler(t *testing.T) {
	c := New(&ManualSource{}, Options{})
	defer c.Destroy()
	_, err := c.Subscribe(nil)
	assert.Error(t, err)
}
