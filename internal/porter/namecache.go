package porter

import (
	"context"
)

// NameCache maps playlist ids to display names for the lifetime of a run.
// Entries are never invalidated.
type NameCache struct {
	fetch func(ctx context.Context, playlistID string) (string, error)
	names map[string]string
}

// NewNameCache returns an empty cache that calls fetch on a miss
func NewNameCache(fetch func(ctx context.Context, playlistID string) (string, error)) *NameCache {
	return &NameCache{
		fetch: fetch,
		names: make(map[string]string),
	}
}

// Resolve returns the cached name of playlistID, fetching and storing it
// on the first request.
func (c *NameCache) Resolve(ctx context.Context, playlistID string) (string, error) {
	if name, ok := c.names[playlistID]; ok {
		return name, nil
	}

	name, err := c.fetch(ctx, playlistID)
	if err != nil {
		return "", err
	}
	c.names[playlistID] = name
	return name, nil
}

// Lookup returns a cached name without fetching
func (c *NameCache) Lookup(playlistID string) (string, bool) {
	name, ok := c.names[playlistID]
	return name, ok
}

// Store records a name learned elsewhere, such as from the playlist listing.
// An id already present keeps its first name.
func (c *NameCache) Store(playlistID, name string) {
	if _, ok := c.names[playlistID]; ok {
		return
	}
	c.names[playlistID] = name
}

// Len returns the number of cached names
func (c *NameCache) Len() int {
	return len(c.names)
}
