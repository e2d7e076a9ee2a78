package library

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/reef111qq/playlist-buddy/internal/catalog"
	"github.com/reef111qq/playlist-buddy/internal/shared"
)

// Snapshot is the aggregate cached per user: the deduplicated catalog, the
// playlist metadata, the lazily built artist-genre index, and the derived
// natural-language summary.
//
// Everything except the genre index is immutable once stored; the index is
// installed exactly once through [Store.BuildGenres]. A snapshot never
// expires on its own, it is destroyed only by explicit invalidation.
type Snapshot struct {
	Tracks    []catalog.Track
	Playlists []catalog.PlaylistSummary
	Summary   string

	genres catalog.GenreIndex

	trackIDs map[string]struct{}

	// Degradation counters from the load, for observability.
	DiscardedItems  int
	FailedPlaylists int
}

// NewSnapshot builds a snapshot and its track-id membership set.
func NewSnapshot(tracks []catalog.Track, playlists []catalog.PlaylistSummary, summary string) *Snapshot {
	ids := make(map[string]struct{}, len(tracks))
	for _, t := range tracks {
		ids[t.ID] = struct{}{}
	}
	return &Snapshot{Tracks: tracks, Playlists: playlists, Summary: summary, trackIDs: ids}
}

// HasTrack reports whether the catalog contains the given track id.
func (s *Snapshot) HasTrack(id string) bool {
	_, ok := s.trackIDs[id]
	return ok
}

// Store holds one [Snapshot] per user identifier.
//
// Per user it guarantees at most one full load and at most one genre-index
// build in flight at a time; a failed load caches nothing. Reads against a
// stored snapshot are concurrent.
type Store struct {
	mu        sync.RWMutex
	snapshots map[string]*Snapshot

	loads  singleflight.Group
	genres singleflight.Group
}

func NewStore() *Store {
	return &Store{snapshots: make(map[string]*Snapshot)}
}

// Snapshot returns the cached snapshot for a user, if any.
func (c *Store) Snapshot(userID string) (*Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap, ok := c.snapshots[userID]
	return snap, ok
}

// Load returns the user's snapshot, fetching it at most once even under
// concurrent access. When fetch fails nothing is cached and the error is
// shared with every waiting caller.
func (c *Store) Load(userID string, fetch func() (*Snapshot, error)) (*Snapshot, error) {
	if snap, ok := c.Snapshot(userID); ok {
		return snap, nil
	}

	v, err, _ := c.loads.Do(userID, func() (any, error) {
		// A load may have completed while this caller queued.
		if snap, ok := c.Snapshot(userID); ok {
			return snap, nil
		}

		snap, err := fetch()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.snapshots[userID] = snap
		c.mu.Unlock()
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// Genres returns the user's genre index if it has been built.
func (c *Store) Genres(userID string) (catalog.GenreIndex, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap, ok := c.snapshots[userID]
	if !ok || snap.genres == nil {
		return nil, false
	}
	return snap.genres, true
}

// BuildGenres returns the user's genre index, building it at most once even
// under concurrent access. The snapshot must already be loaded.
func (c *Store) BuildGenres(userID string, build func() (catalog.GenreIndex, error)) (catalog.GenreIndex, error) {
	if index, ok := c.Genres(userID); ok {
		return index, nil
	}
	if _, ok := c.Snapshot(userID); !ok {
		return nil, shared.ErrLibraryNotLoaded
	}

	v, err, _ := c.genres.Do(userID, func() (any, error) {
		if index, ok := c.Genres(userID); ok {
			return index, nil
		}

		index, err := build()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if snap, ok := c.snapshots[userID]; ok {
			snap.genres = index
		}
		c.mu.Unlock()
		return index, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(catalog.GenreIndex), nil
}

// Invalidate drops every piece of cached state for the user.
func (c *Store) Invalidate(userID string) {
	c.mu.Lock()
	delete(c.snapshots, userID)
	c.mu.Unlock()

	c.loads.Forget(userID)
	c.genres.Forget(userID)
}
