package library

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/reef111qq/playlist-buddy/internal/catalog"
	"github.com/reef111qq/playlist-buddy/internal/shared"
)

// fakeArtistAPI serves canned genres and fails the ids listed in failing.
type fakeArtistAPI struct {
	mu      sync.Mutex
	genres  map[string][]string
	failing map[string]error
	calls   []string
}

func (f *fakeArtistAPI) Artist(ctx context.Context, artistID string) ([]string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, artistID)
	f.mu.Unlock()

	if err, ok := f.failing[artistID]; ok {
		return nil, err
	}
	return f.genres[artistID], nil
}

func (f *fakeArtistAPI) Artists(ctx context.Context, artistIDs []string) (map[string][]string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, artistIDs...)
	f.mu.Unlock()

	out := make(map[string][]string)
	for _, id := range artistIDs {
		if err, ok := f.failing[id]; ok {
			return nil, err
		}
		out[id] = f.genres[id]
	}
	return out, nil
}

func (f *fakeArtistAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestIndividualGenreResolver(t *testing.T) {
	cfg := shared.FetchConfig{Workers: 4}

	t.Run("Resolves All Artists", func(t *testing.T) {
		api := &fakeArtistAPI{genres: map[string][]string{
			"a1": {"dance pop"},
			"a2": {"hard rock", "metal"},
		}}
		r := NewIndividualGenreResolver(api, cfg, nil)

		index, failed, err := r.Resolve(context.Background(), []string{"a1", "a2"}, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if failed != 0 {
			t.Errorf("expected no failures, got %d", failed)
		}
		if len(index["a2"]) != 2 {
			t.Errorf("unexpected genres for a2: %v", index["a2"])
		}
	})

	t.Run("Isolates Per Artist Failures", func(t *testing.T) {
		api := &fakeArtistAPI{
			genres:  map[string][]string{"a1": {"jazz"}},
			failing: map[string]error{"a2": shared.ErrRemoteUnavailable},
		}
		r := NewIndividualGenreResolver(api, cfg, nil)

		index, failed, err := r.Resolve(context.Background(), []string{"a1", "a2"}, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if failed != 1 {
			t.Errorf("expected 1 failed lookup, got %d", failed)
		}
		if _, ok := index["a2"]; ok {
			t.Error("failed artist should stay absent from the index")
		}
		if len(index["a1"]) == 0 {
			t.Error("successful lookup should survive a sibling failure")
		}
	})

	t.Run("Skips Baseline Artists", func(t *testing.T) {
		api := &fakeArtistAPI{genres: map[string][]string{"a2": {"folk"}}}
		r := NewIndividualGenreResolver(api, cfg, nil)

		baseline := catalog.GenreIndex{"a1": {"cached pop"}}
		index, _, err := r.Resolve(context.Background(), []string{"a1", "a2"}, baseline)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if api.callCount() != 1 {
			t.Errorf("expected one lookup, got %d", api.callCount())
		}
		if index["a1"][0] != "cached pop" {
			t.Error("baseline entry should carry over unchanged")
		}
		if _, ok := baseline["a2"]; ok {
			t.Error("baseline must not be mutated")
		}
	})

	t.Run("Auth Failure Aborts", func(t *testing.T) {
		api := &fakeArtistAPI{failing: map[string]error{"a1": shared.ErrNotAuthenticated}}
		r := NewIndividualGenreResolver(api, cfg, nil)

		if _, _, err := r.Resolve(context.Background(), []string{"a1", "a2"}, nil); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("Cancellation Aborts", func(t *testing.T) {
		api := &fakeArtistAPI{genres: map[string][]string{"a1": {"pop"}}}
		r := NewIndividualGenreResolver(api, cfg, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, _, err := r.Resolve(ctx, []string{"a1"}, nil); err == nil {
			t.Error("expected an error after cancellation")
		}
	})
}

func TestBatchGenreResolver(t *testing.T) {
	t.Run("Counts Failed Chunks", func(t *testing.T) {
		api := &fakeArtistAPI{
			genres:  map[string][]string{"a1": {"pop"}},
			failing: map[string]error{"a2": shared.ErrRemoteUnavailable},
		}
		r := NewBatchGenreResolver(api, nil)

		// a1 and a2 land in the same chunk, so the whole chunk is skipped.
		index, failed, err := r.Resolve(context.Background(), []string{"a1", "a2"}, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if failed != 2 {
			t.Errorf("expected the whole chunk counted as failed, got %d", failed)
		}
		if len(index) != 0 {
			t.Errorf("expected empty index, got %v", index)
		}
	})

	t.Run("Auth Failure Aborts", func(t *testing.T) {
		api := &fakeArtistAPI{failing: map[string]error{"a1": shared.ErrNotAuthenticated}}
		r := NewBatchGenreResolver(api, nil)

		if _, _, err := r.Resolve(context.Background(), []string{"a1"}, nil); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}

func TestNewGenreResolver(t *testing.T) {
	api := &fakeArtistAPI{}

	if _, ok := NewGenreResolver(api, shared.FetchConfig{BatchArtists: true}, nil).(*BatchGenreResolver); !ok {
		t.Error("expected batch strategy when configured")
	}
	if _, ok := NewGenreResolver(api, shared.FetchConfig{}, nil).(*IndividualGenreResolver); !ok {
		t.Error("expected individual strategy by default")
	}
}
