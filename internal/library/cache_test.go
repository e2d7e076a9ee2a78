package library

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/reef111qq/playlist-buddy/internal/catalog"
	"github.com/reef111qq/playlist-buddy/internal/shared"
)

func TestStore(t *testing.T) {
	t.Run("Load Caches The Snapshot", func(t *testing.T) {
		store := NewStore()
		calls := 0

		for range 3 {
			snap, err := store.Load("u1", func() (*Snapshot, error) {
				calls++
				return NewSnapshot([]catalog.Track{{ID: "t1"}}, nil, "summary"), nil
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !snap.HasTrack("t1") {
				t.Error("snapshot should contain the loaded track")
			}
		}

		if calls != 1 {
			t.Errorf("expected one fetch, got %d", calls)
		}
	})

	t.Run("Concurrent Loads Share One Fetch", func(t *testing.T) {
		store := NewStore()
		var calls atomic.Int32
		release := make(chan struct{})

		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				store.Load("u1", func() (*Snapshot, error) {
					calls.Add(1)
					<-release
					return NewSnapshot(nil, nil, ""), nil
				})
			}()
		}

		close(release)
		wg.Wait()

		if got := calls.Load(); got != 1 {
			t.Errorf("expected one fetch, got %d", got)
		}
	})

	t.Run("Failed Load Caches Nothing", func(t *testing.T) {
		store := NewStore()
		boom := errors.New("fetch failed")

		if _, err := store.Load("u1", func() (*Snapshot, error) { return nil, boom }); !errors.Is(err, boom) {
			t.Fatalf("expected fetch error, got %v", err)
		}
		if _, ok := store.Snapshot("u1"); ok {
			t.Error("failed load must not cache a snapshot")
		}

		// The next load retries from scratch.
		snap, err := store.Load("u1", func() (*Snapshot, error) {
			return NewSnapshot(nil, nil, "second try"), nil
		})
		if err != nil {
			t.Fatalf("expected retry to succeed, got %v", err)
		}
		if snap.Summary != "second try" {
			t.Errorf("unexpected snapshot %q", snap.Summary)
		}
	})

	t.Run("BuildGenres Requires A Snapshot", func(t *testing.T) {
		store := NewStore()

		_, err := store.BuildGenres("u1", func() (catalog.GenreIndex, error) {
			t.Error("build should not run without a snapshot")
			return nil, nil
		})
		if !errors.Is(err, shared.ErrLibraryNotLoaded) {
			t.Errorf("expected ErrLibraryNotLoaded, got %v", err)
		}
	})

	t.Run("BuildGenres Runs Once", func(t *testing.T) {
		store := NewStore()
		store.Load("u1", func() (*Snapshot, error) { return NewSnapshot(nil, nil, ""), nil })

		builds := 0
		for range 3 {
			index, err := store.BuildGenres("u1", func() (catalog.GenreIndex, error) {
				builds++
				return catalog.GenreIndex{"a1": {"pop"}}, nil
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(index["a1"]) != 1 {
				t.Errorf("unexpected index %v", index)
			}
		}

		if builds != 1 {
			t.Errorf("expected one build, got %d", builds)
		}
	})

	t.Run("Invalidate Drops Everything", func(t *testing.T) {
		store := NewStore()
		store.Load("u1", func() (*Snapshot, error) { return NewSnapshot(nil, nil, ""), nil })
		store.BuildGenres("u1", func() (catalog.GenreIndex, error) {
			return catalog.GenreIndex{"a1": {"pop"}}, nil
		})

		store.Invalidate("u1")

		if _, ok := store.Snapshot("u1"); ok {
			t.Error("snapshot should be gone after invalidation")
		}
		if _, ok := store.Genres("u1"); ok {
			t.Error("genre index should be gone after invalidation")
		}
	})

	t.Run("Users Are Independent", func(t *testing.T) {
		store := NewStore()
		store.Load("u1", func() (*Snapshot, error) { return NewSnapshot(nil, nil, "one"), nil })
		store.Load("u2", func() (*Snapshot, error) { return NewSnapshot(nil, nil, "two"), nil })

		store.Invalidate("u1")

		if snap, ok := store.Snapshot("u2"); !ok || snap.Summary != "two" {
			t.Error("invalidating one user must not touch another")
		}
	})
}
