package lazy

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mrjoshuak/eventfmt/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProcessor(t *testing.T, delays *Delays) *Processor {
	t.Helper()
	p := New(Options{Delays: delays})
	t.Cleanup(p.Close)
	return p
}

func TestProcessCoalescesConcurrentCalls(t *testing.T) {
	p := newTestProcessor(t, nil)

	var calls atomic.Int32
	producer := func() (string, error) {
		calls.Add(1)
		time.Sleep(50 * time.Millisecond)
		return "done", nil
	}

	var wg sync.WaitGroup
	results := make([]string, 20)
	for i := range results {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := Process(context.Background(), p, "doc", producer, Normal)
			assert.NoError(t, err)
			results[i] = v
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		assert.Equal(t, "done", r)
	}
}

func TestProcessReturnsCachedResult(t *testing.T) {
	p := newTestProcessor(t, nil)

	v, err := Process(context.Background(), p, "k", func() (int, error) { return 1, nil }, High)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	ran := false
	v, err = Process(context.Background(), p, "k", func() (int, error) {
		ran = true
		return 0, nil
	}, High)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.False(t, ran, "producer must not run for a cached key")

	p.Forget("k")
	v, err = Process(context.Background(), p, "k", func() (int, error) { return 2, nil }, High)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestProcessPropagatesErrors(t *testing.T) {
	p := newTestProcessor(t, nil)
	errBoom := errors.New("boom")

	_, err := Process(context.Background(), p, "k", func() (int, error) { return 0, errBoom }, Normal)
	assert.ErrorIs(t, err, errBoom)

	v, err := Process(context.Background(), p, "k", func() (int, error) { return 3, nil }, Normal)
	require.NoError(t, err)
	assert.Equal(t, 3, v, "errors must not be cached")
}

func TestProcessRecoversPanics(t *testing.T) {
	p := newTestProcessor(t, nil)

	_, err := Process(context.Background(), p, "k", func() (int, error) { panic("bad input") }, High)
	assert.ErrorIs(t, err, ErrProducerPanic)
	assert.Contains(t, err.Error(), "bad input")
}

func TestProcessTypeMismatch(t *testing.T) {
	p := newTestProcessor(t, nil)

	_, err := Process(context.Background(), p, "k", func() (int, error) { return 1, nil }, High)
	require.NoError(t, err)

	_, err = Process(context.Background(), p, "k", func() (string, error) { return "x", nil }, High)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestProcessContextStopsWaitingOnly(t *testing.T) {
	p := newTestProcessor(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	var calls atomic.Int32
	_, err := Process(ctx, p, "slow", func() (string, error) {
		calls.Add(1)
		time.Sleep(60 * time.Millisecond)
		return "late", nil
	}, High)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	assert.Eventually(t, func() bool {
		v, err := Process(context.Background(), p, "slow", func() (string, error) {
			calls.Add(1)
			return "again", nil
		}, High)
		return err == nil && v == "late"
	}, time.Second, 20*time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestProcessPriorityOrdering(t *testing.T) {
	p := newTestProcessor(t, &Delays{Low: 80 * time.Millisecond, Normal: 40 * time.Millisecond})

	var mu sync.Mutex
	var order []string
	record := func(name string) func() (string, error) {
		return func() (string, error) {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return name, nil
		}
	}

	var wg sync.WaitGroup
	for _, job := range []struct {
		name string
		prio Priority
	}{{"low", Low}, {"normal", Normal}, {"high", High}} {
		job := job
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := Process(context.Background(), p, job.name, record(job.name), job.prio)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, []string{"high", "normal", "low"}, order)
}

func TestProcessBatchKeepsOrder(t *testing.T) {
	p := newTestProcessor(t, nil)

	var items []Item[string]
	for i := 0; i < 5; i++ {
		i := i
		items = append(items, Item[string]{
			Key: fmt.Sprintf("item-%d", i),
			Producer: func() (string, error) {
				time.Sleep(time.Duration(5-i) * 5 * time.Millisecond)
				return fmt.Sprintf("result-%d", i), nil
			},
			Priority: Priority(i % 3),
		})
	}

	got, err := ProcessBatch(context.Background(), p, items)
	require.NoError(t, err)
	assert.Equal(t, []string{"result-0", "result-1", "result-2", "result-3", "result-4"}, got)
}

func TestProcessBatchError(t *testing.T) {
	p := newTestProcessor(t, nil)
	errBoom := errors.New("boom")

	_, err := ProcessBatch(context.Background(), p, []Item[int]{
		{Key: "ok", Producer: func() (int, error) { return 1, nil }},
		{Key: "bad", Producer: func() (int, error) { return 0, errBoom }},
	})
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "batch item 1 (bad)")
}

func TestProcessBatchEmpty(t *testing.T) {
	p := newTestProcessor(t, nil)
	got, err := ProcessBatch[int](context.Background(), p, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSharedCache(t *testing.T) {
	c := cache.New(cache.Options{})
	defer c.Destroy()
	p := New(Options{Cache: c})
	defer p.Close()

	_, err := Process(context.Background(), p, "shared", func() (int, error) { return 9, nil }, High)
	require.NoError(t, err)
	v, ok := c.Get("shared")
	require.True(t, ok)
	assert.Equal(t, 9, v)
}

func TestParsePriority(t *testing.T) {
	for in, want := range map[string]Priority{"low": Low, "HIGH": High, "": Normal, "normal": Normal} {
		got, err := ParsePriority(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParsePriority("urgent")
	assert.Error(t, err)
}
