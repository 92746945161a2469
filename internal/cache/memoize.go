package cache

import (
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"
)

// GetOrCompute returns the cached value for key, or runs factory and stores
// its result. Factory errors are returned as is and nothing is stored.
func GetOrCompute[V any](c *Cache, key string, factory func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(V); ok {
			return typed, nil
		}
	}

	start := time.Now()
	v, err := factory()
	c.recordCompute(time.Since(start))
	if err != nil {
		return v, err
	}
	c.Set(key, v)
	return v, nil
}

// Memoize wraps fn so that results are cached by keyFn(arg). A nil keyFn
// derives the key from the formatted argument.
func Memoize[K any, V any](c *Cache, fn func(K) (V, error), keyFn func(K) string) func(K) (V, error) {
	if keyFn == nil {
		keyFn = func(k K) string {
			return Key(fmt.Sprintf("%v", k), nil)
		}
	}
	return func(k K) (V, error) {
		return GetOrCompute(c, keyFn(k), func() (V, error) {
			return fn(k)
		})
	}
}

// Key derives a cache key from an input and its options: the input length in
// runes, a rolling hash of the input and a hash of the JSON-encoded options.
// The hashes are not collision resistant.
func Key(input string, options any) string {
	var encoded string
	if options != nil {
		b, err := json.Marshal(options)
		if err != nil {
			encoded = fmt.Sprintf("%#v", options)
		} else {
			encoded = string(b)
		}
	}
	return fmt.Sprintf("%d_%08x_%08x", utf8.RuneCountInString(input), uint32(Hash(input)), uint32(Hash(encoded)))
}

// Hash is the 31-multiplier rolling hash of the runes of s.
func Hash(s string) int32 {
	var h int32
	for _, r := range s {
		h = h*31 + int32(r)
	}
	return h
}
