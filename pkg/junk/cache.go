package junk

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of album and of artist patterns kept in memory.
const DefaultCacheSize = 64

// PatternCache memoizes album and artist patterns by their literal name.
type PatternCache struct {
	albums  *lru.Cache[string, *Pattern]
	artists *lru.Cache[string, *Pattern]
	mutex   sync.Mutex
}

// NewPatternCache creates a cache holding up to size patterns of each kind.
func NewPatternCache(size int) *PatternCache {
	if size <= 0 {
		size = DefaultCacheSize
	}

	albums, _ := lru.New[string, *Pattern](size)
	artists, _ := lru.New[string, *Pattern](size)

	return &PatternCache{
		albums:  albums,
		artists: artists,
	}
}

// Album returns the pattern removing "(album)" from a title.
func (c *PatternCache) Album(album string) *Pattern {
	return c.getOrBuild(c.albums, album, AlbumNamePattern)
}

// Artist returns the pattern removing "artist" or "(artist)" from a title.
func (c *PatternCache) Artist(artist string) *Pattern {
	return c.getOrBuild(c.artists, artist, ArtistNamePattern)
}

// Len returns the number of cached album and artist patterns.
func (c *PatternCache) Len() (albums, artists int) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.albums.Len(), c.artists.Len()
}

// Purge drops every cached pattern.
func (c *PatternCache) Purge() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.albums.Purge()
	c.artists.Purge()
}

// The lookup and insert share one lock so two callers never build the same name twice.
func (c *PatternCache) getOrBuild(cache *lru.Cache[string, *Pattern], name string,
	build func(string) *Pattern) *Pattern {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if p, ok := cache.Get(name); ok {
		return p
	}

	p := build(name)
	cache.Add(name, p)
	return p
}
