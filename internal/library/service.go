package library

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"github.com/arunsworld/nursery"
	"github.com/charmbracelet/log"

	"github.com/reef111qq/playlist-buddy/internal/catalog"
	"github.com/reef111qq/playlist-buddy/internal/services"
	"github.com/reef111qq/playlist-buddy/internal/shared"
)

// createdByDescription is attached to every playlist the engine creates.
const createdByDescription = "Created by Playlist Buddy"

// appendChunkSize is the remote API's cap on URIs per playlist append call.
const appendChunkSize = 100

// trackIDPattern matches a well-formed Spotify track id.
var trackIDPattern = regexp.MustCompile(`^[A-Za-z0-9]{22}$`)

var topArtistRanges = []string{"short_term", "medium_term", "long_term"}

// Engine aggregates the user's full catalog and answers matching, analysis
// and commit requests against the cached snapshot.
type Engine struct {
	catalog  services.Catalog
	resolver GenreResolver
	store    *Store
	workers  int
	logger   *log.Logger
}

func NewEngine(cat services.Catalog, resolver GenreResolver, store *Store, cfg shared.FetchConfig, logger *log.Logger) *Engine {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 8
	}
	if store == nil {
		store = NewStore()
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Engine{catalog: cat, resolver: resolver, store: store, workers: workers, logger: logger}
}

// EnsureLoaded returns the user's snapshot, crawling the full catalog on the
// first call. Concurrent callers share one crawl; a failed crawl caches
// nothing so the next call retries from scratch.
func (e *Engine) EnsureLoaded(ctx context.Context, userID string) (*Snapshot, error) {
	return e.store.Load(userID, func() (*Snapshot, error) {
		return e.buildSnapshot(ctx, userID)
	})
}

// Snapshot returns the cached snapshot without triggering a load.
func (e *Engine) Snapshot(userID string) (*Snapshot, bool) {
	return e.store.Snapshot(userID)
}

// Invalidate drops the user's cached snapshot and genre index.
func (e *Engine) Invalidate(userID string) {
	e.store.Invalidate(userID)
	e.logger.Info("library cache invalidated", "user", userID)
}

// Playlists lists the user's playlists from the cached snapshot.
func (e *Engine) Playlists(ctx context.Context, userID string) ([]catalog.PlaylistSummary, error) {
	snap, err := e.EnsureLoaded(ctx, userID)
	if err != nil {
		return nil, err
	}
	return snap.Playlists, nil
}

// Summary returns the natural-language library description built at load time.
func (e *Engine) Summary(ctx context.Context, userID string) (string, error) {
	snap, err := e.EnsureLoaded(ctx, userID)
	if err != nil {
		return "", err
	}
	return snap.Summary, nil
}

// buildSnapshot crawls saved songs and every playlist, normalizes and
// deduplicates the results, and renders the summary.
//
// Individual playlist failures degrade the snapshot (counted, logged,
// skipped); authentication failures and cancellation abort the crawl so no
// partial snapshot is ever cached.
func (e *Engine) buildSnapshot(ctx context.Context, userID string) (*Snapshot, error) {
	logger := shared.WithLogger(e.logger, "user", userID)
	logger.Info("loading library")

	discarded := 0
	saved, err := e.catalog.SavedTracks(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching saved tracks: %w", err)
	}

	var liked []catalog.Track
	for _, raw := range saved {
		track, ok := catalog.Normalize(raw)
		if !ok {
			discarded++
			continue
		}
		track.Source = catalog.SourceLiked
		liked = append(liked, track)
	}

	playlists, err := e.catalog.Playlists(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching playlists: %w", err)
	}

	// Fan out one fetch per playlist; results land at the playlist's own
	// index so the merge below preserves the listing order.
	results := make([][]catalog.Track, len(playlists))
	var mu sync.Mutex
	failedPlaylists := 0
	jobs := make(chan int)

	worker := func(ctx context.Context, ch chan error) {
		for i := range jobs {
			pl := playlists[i]
			if pl.TrackCount <= 0 {
				continue
			}
			items, err := e.catalog.PlaylistItems(ctx, pl.ID)
			if err != nil {
				if fatalLookup(ctx, err) {
					ch <- err
					return
				}
				logger.Warn("playlist fetch failed", "playlist", pl.Name, "error", err)
				mu.Lock()
				failedPlaylists++
				mu.Unlock()
				continue
			}

			var tracks []catalog.Track
			skipped := 0
			for _, raw := range items {
				track, ok := catalog.Normalize(raw)
				if !ok {
					skipped++
					continue
				}
				track.Source = "playlist:" + pl.Name
				tracks = append(tracks, track)
			}

			mu.Lock()
			results[i] = tracks
			discarded += skipped
			mu.Unlock()
		}
	}

	err = nursery.RunConcurrentlyWithContext(ctx,
		func(ctx context.Context, _ chan error) {
			defer close(jobs)
			for i := range playlists {
				select {
				case jobs <- i:
				case <-ctx.Done():
					return
				}
			}
		},
		func(ctx context.Context, ch chan error) {
			if err := nursery.RunMultipleCopiesConcurrentlyWithContext(ctx, e.workers, worker); err != nil {
				ch <- err
			}
		},
	)
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	merged := liked
	for _, tracks := range results {
		merged = catalog.Merge(merged, tracks)
	}

	topArtists, topTracks := e.fetchListeningHistory(ctx)

	snap := NewSnapshot(merged, playlists, catalog.Summarize(merged, topArtists, topTracks))
	snap.DiscardedItems = discarded
	snap.FailedPlaylists = failedPlaylists

	logger.Info("library loaded",
		"tracks", len(merged),
		"playlists", len(playlists),
		"discarded", discarded,
		"failed_playlists", failedPlaylists)

	return snap, nil
}

// fetchListeningHistory pulls top artists across every time range plus top
// tracks. These enrich the summary only, so any failure here degrades to an
// empty result instead of failing the load.
func (e *Engine) fetchListeningHistory(ctx context.Context) ([]catalog.TopArtist, []catalog.TopTrack) {
	var artists []catalog.TopArtist
	seen := make(map[string]struct{})
	for _, timeRange := range topArtistRanges {
		ranked, err := e.catalog.TopArtists(ctx, timeRange)
		if err != nil {
			e.logger.Warn("top artists unavailable", "range", timeRange, "error", err)
			continue
		}
		for _, a := range ranked {
			if _, ok := seen[a.Name]; ok {
				continue
			}
			seen[a.Name] = struct{}{}
			artists = append(artists, a)
		}
	}

	tracks, err := e.catalog.TopTracks(ctx)
	if err != nil {
		e.logger.Warn("top tracks unavailable", "error", err)
		tracks = nil
	}

	return artists, tracks
}

// GenreIndex returns the user's artist-genre index, resolving it on first use.
// The index covers every artist referenced by the cached catalog; artists
// whose lookup failed stay absent.
func (e *Engine) GenreIndex(ctx context.Context, userID string) (catalog.GenreIndex, error) {
	snap, err := e.EnsureLoaded(ctx, userID)
	if err != nil {
		return nil, err
	}

	return e.store.BuildGenres(userID, func() (catalog.GenreIndex, error) {
		index, failed, err := e.resolver.Resolve(ctx, catalog.ArtistIDs(snap.Tracks), nil)
		if err != nil {
			return nil, err
		}
		if failed > 0 {
			e.logger.Warn("genre index built with gaps", "unresolved_artists", failed)
		}
		return index, nil
	})
}

// FindCandidates returns catalog tracks matching the selected genre
// categories that are not already in the target playlist, in catalog order.
func (e *Engine) FindCandidates(ctx context.Context, userID, playlistID string, selectedGenres []string) ([]catalog.Track, error) {
	snap, err := e.EnsureLoaded(ctx, userID)
	if err != nil {
		return nil, err
	}

	index, err := e.GenreIndex(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := e.playlistTrackIDs(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	return catalog.FindCandidates(snap.Tracks, selectedGenres, existing, index), nil
}

// MatchLibrary returns every catalog track matching the selected genre
// categories, with no membership exclusion. Used when building a playlist
// from scratch.
func (e *Engine) MatchLibrary(ctx context.Context, userID string, selectedGenres []string) ([]catalog.Track, error) {
	snap, err := e.EnsureLoaded(ctx, userID)
	if err != nil {
		return nil, err
	}

	index, err := e.GenreIndex(ctx, userID)
	if err != nil {
		return nil, err
	}

	return catalog.FindCandidates(snap.Tracks, selectedGenres, nil, index), nil
}

// AnalyzePlaylist computes the genre distribution of one playlist. Only the
// playlist's own artists are resolved; the library index, when already
// built, serves as a baseline so known artists cost no extra lookups.
func (e *Engine) AnalyzePlaylist(ctx context.Context, userID, playlistID string) (catalog.GenreBreakdown, error) {
	items, err := e.catalog.PlaylistItems(ctx, playlistID)
	if err != nil {
		return catalog.GenreBreakdown{}, err
	}

	var tracks []catalog.Track
	for _, raw := range items {
		if track, ok := catalog.Normalize(raw); ok {
			tracks = append(tracks, track)
		}
	}

	baseline, _ := e.store.Genres(userID)
	index, failed, err := e.resolver.Resolve(ctx, catalog.ArtistIDs(tracks), baseline)
	if err != nil {
		return catalog.GenreBreakdown{}, err
	}
	if failed > 0 {
		e.logger.Warn("playlist analysis has unresolved artists", "playlist", playlistID, "failed", failed)
	}

	return catalog.AnalyzeGenres(tracks, index), nil
}

// playlistTrackIDs fetches the target playlist's current membership.
func (e *Engine) playlistTrackIDs(ctx context.Context, playlistID string) ([]string, error) {
	items, err := e.catalog.PlaylistItems(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, raw := range items {
		if track, ok := catalog.Normalize(raw); ok {
			ids = append(ids, track.ID)
		}
	}
	return ids, nil
}

// CommitResult reports the outcome of a playlist write.
type CommitResult struct {
	Playlist *services.CreatedPlaylist
	Added    int
	Skipped  int // Malformed ids or ids not present in the catalog
}

// CreateFromSelection creates a playlist from catalog track ids and fills it
// in chunks of at most 100 URIs.
//
// Ids that are malformed or not in the cached catalog are skipped and
// counted; when nothing survives validation no playlist is created and
// [shared.ErrNoValidTracks] is returned.
func (e *Engine) CreateFromSelection(ctx context.Context, userID, name string, trackIDs []string, public bool) (*CommitResult, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: playlist name is required", shared.ErrInvalidInput)
	}

	uris, skipped, err := e.validateSelection(ctx, userID, trackIDs)
	if err != nil {
		return nil, err
	}

	created, err := e.catalog.CreatePlaylist(ctx, name, createdByDescription, public)
	if err != nil {
		return nil, fmt.Errorf("creating playlist: %w", err)
	}

	if err := e.appendChunked(ctx, created.ID, uris); err != nil {
		return nil, err
	}

	e.logger.Info("playlist created", "name", name, "tracks", len(uris), "skipped", skipped)
	return &CommitResult{Playlist: created, Added: len(uris), Skipped: skipped}, nil
}

// AppendTracks adds catalog track ids to an existing playlist, applying the
// same validation and chunking as [Engine.CreateFromSelection].
func (e *Engine) AppendTracks(ctx context.Context, userID, playlistID string, trackIDs []string) (*CommitResult, error) {
	uris, skipped, err := e.validateSelection(ctx, userID, trackIDs)
	if err != nil {
		return nil, err
	}

	if err := e.appendChunked(ctx, playlistID, uris); err != nil {
		return nil, err
	}

	e.logger.Info("tracks appended", "playlist", playlistID, "tracks", len(uris), "skipped", skipped)
	return &CommitResult{Added: len(uris), Skipped: skipped}, nil
}

// validateSelection filters trackIDs down to well-formed ids present in the
// user's catalog and maps them to playable URIs.
func (e *Engine) validateSelection(ctx context.Context, userID string, trackIDs []string) ([]string, int, error) {
	snap, err := e.EnsureLoaded(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	var uris []string
	skipped := 0
	seen := make(map[string]struct{}, len(trackIDs))
	for _, id := range trackIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if !trackIDPattern.MatchString(id) || !snap.HasTrack(id) {
			skipped++
			continue
		}
		uris = append(uris, catalog.TrackURI(id))
	}

	if len(uris) == 0 {
		return nil, 0, fmt.Errorf("%w: %d ids rejected", shared.ErrNoValidTracks, skipped)
	}
	return uris, skipped, nil
}

func (e *Engine) appendChunked(ctx context.Context, playlistID string, uris []string) error {
	for start := 0; start < len(uris); start += appendChunkSize {
		end := min(start+appendChunkSize, len(uris))
		if err := e.catalog.AddPlaylistItems(ctx, playlistID, uris[start:end]); err != nil {
			return fmt.Errorf("appending tracks %d-%d: %w", start, end, err)
		}
	}
	return nil
}
