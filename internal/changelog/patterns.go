package changelog

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/golang/groupcache/lru"
)

// DefaultPatternCacheSize bounds the shared cache. Pattern cardinality is the
// handful of reader expressions plus one rendered pattern per versioned file
// and version label, so eviction only matters for long `check --watch` runs.
const DefaultPatternCacheSize = 128

// PatternCache memoizes compiled regular expressions by their source string.
// When full, the least recently used pattern is evicted.
type PatternCache struct {
	mu    sync.Mutex
	cache *lru.Cache
}

// NewPatternCache creates a cache holding at most size patterns.
// A size of zero or less falls back to DefaultPatternCacheSize.
func NewPatternCache(size int) *PatternCache {
	if size <= 0 {
		size = DefaultPatternCacheSize
	}
	return &PatternCache{cache: lru.New(size)}
}

var defaultPatterns = NewPatternCache(DefaultPatternCacheSize)

// DefaultPatterns returns the process-wide cache used when callers do not
// supply their own.
func DefaultPatterns() *PatternCache {
	return defaultPatterns
}

// Compile returns the compiled form of pattern, compiling it at most once
// while it stays cached.
func (p *PatternCache) Compile(pattern string) (*regexp.Regexp, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cached, ok := p.cache.Get(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling pattern %q: %w", pattern, err)
	}
	p.cache.Add(pattern, re)
	return re, nil
}

// MustCompile is like Compile but panics on invalid patterns. Only use it for
// patterns built from constants.
func (p *PatternCache) MustCompile(pattern string) *regexp.Regexp {
	re, err := p.Compile(pattern)
	if err != nil {
		panic(err)
	}
	return re
}

// Len returns the number of cached patterns.
func (p *PatternCache) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cache.Len()
}
