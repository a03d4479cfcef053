// Package store remembers which file paths have already been processed in a session.
package store

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	lru "github.com/hashicorp/golang-lru/v2"
)

// PathSet is a bounded, thread-safe set of processed paths. The bloom filter answers most
// misses without touching the map; the LRU decides which path to forget when full.
type PathSet struct {
	paths                  map[string]struct{}
	bloom                  *bloom.BloomFilter
	lru                    *lru.Cache[string, struct{}]
	mutex                  sync.RWMutex
	maxPaths               int
	bloomFalsePositiveRate float64
}

// NewPathSet creates a set holding up to maxPaths entries.
func NewPathSet(maxPaths int, bloomFalsePositiveRate float64) *PathSet {
	if maxPaths <= 0 || maxPaths > int(^uint(0)>>1) {
		panic("maxPaths value out of range for uint conversion")
	}

	// The LRU is one larger than the set so it never evicts on its own;
	// evictOldest keeps both in step.
	lruCache, _ := lru.New[string, struct{}](maxPaths + 1)

	return &PathSet{
		paths:                  make(map[string]struct{}),
		bloom:                  bloom.NewWithEstimates(uint(maxPaths), bloomFalsePositiveRate),
		lru:                    lruCache,
		maxPaths:               maxPaths,
		bloomFalsePositiveRate: bloomFalsePositiveRate,
	}
}

// Has reports whether path was already marked.
func (s *PathSet) Has(path string) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.bloom.TestString(path) {
		return false
	}

	_, exists := s.paths[path]
	return exists
}

// MarkSeen adds path and reports whether it was new.
func (s *PathSet) MarkSeen(path string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.paths[path]; exists {
		s.lru.Get(path)
		return false
	}

	s.add(path)
	return true
}

// Load clears the set and marks every non-empty path.
func (s *PathSet) Load(paths []string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.clear()

	for _, path := range paths {
		if path != "" {
			s.add(path)
		}
	}
}

// Size returns the number of remembered paths.
func (s *PathSet) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.paths)
}

// Clear forgets every path.
func (s *PathSet) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.clear()
}

func (s *PathSet) add(path string) {
	s.paths[path] = struct{}{}
	s.bloom.AddString(path)
	s.lru.Add(path, struct{}{})

	for len(s.paths) > s.maxPaths {
		s.evictOldest()
	}
}

func (s *PathSet) clear() {
	s.paths = make(map[string]struct{})
	// bloom filters cannot drop entries, so start a fresh one
	s.bloom = bloom.NewWithEstimates(uint(s.maxPaths), s.bloomFalsePositiveRate)
	s.lru.Purge()
}

func (s *PathSet) evictOldest() {
	oldest, _, ok := s.lru.RemoveOldest()
	if !ok {
		return
	}
	delete(s.paths, oldest)
}
