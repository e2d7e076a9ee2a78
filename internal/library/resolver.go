package library

import (
	"context"
	"errors"
	"sync"

	"github.com/arunsworld/nursery"
	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/reef111qq/playlist-buddy/internal/catalog"
	"github.com/reef111qq/playlist-buddy/internal/services"
	"github.com/reef111qq/playlist-buddy/internal/shared"
)

// GenreResolver extends an artist-genre index with lookups for the given
// artist ids.
//
// Implementations never re-request an artist already present in baseline,
// and they isolate per-artist failures: the second return value counts
// lookups that failed and were skipped. Only authentication failures and
// context cancellation abort a resolution run.
type GenreResolver interface {
	Resolve(ctx context.Context, artistIDs []string, baseline catalog.GenreIndex) (catalog.GenreIndex, int, error)
}

const artistBatchSize = 50

// pendingIDs returns the ids missing from baseline, preserving order.
func pendingIDs(artistIDs []string, baseline catalog.GenreIndex) []string {
	var pending []string
	for _, id := range artistIDs {
		if _, ok := baseline[id]; !ok {
			pending = append(pending, id)
		}
	}
	return pending
}

func cloneIndex(baseline catalog.GenreIndex) catalog.GenreIndex {
	index := make(catalog.GenreIndex, len(baseline))
	for id, genres := range baseline {
		index[id] = genres
	}
	return index
}

// fatalLookup reports whether a lookup error must abort the whole run
// instead of being isolated to one artist.
func fatalLookup(ctx context.Context, err error) bool {
	return errors.Is(err, shared.ErrNotAuthenticated) || ctx.Err() != nil
}

// BatchGenreResolver resolves genres through the batch artist endpoint,
// up to 50 ids per call. A failed chunk is counted and skipped.
type BatchGenreResolver struct {
	api    services.ArtistAPI
	logger *log.Logger
}

func NewBatchGenreResolver(api services.ArtistAPI, logger *log.Logger) *BatchGenreResolver {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &BatchGenreResolver{api: api, logger: logger}
}

func (r *BatchGenreResolver) Resolve(ctx context.Context, artistIDs []string, baseline catalog.GenreIndex) (catalog.GenreIndex, int, error) {
	index := cloneIndex(baseline)
	pending := pendingIDs(artistIDs, baseline)
	failed := 0

	for start := 0; start < len(pending); start += artistBatchSize {
		end := min(start+artistBatchSize, len(pending))
		chunk := pending[start:end]

		genres, err := r.api.Artists(ctx, chunk)
		if err != nil {
			if fatalLookup(ctx, err) {
				return nil, 0, err
			}
			r.logger.Warn("batch artist lookup failed", "artists", len(chunk), "error", err)
			failed += len(chunk)
			continue
		}

		for _, id := range chunk {
			if g, ok := genres[id]; ok {
				index[id] = g
			} else {
				failed++
			}
		}
	}

	return index, failed, nil
}

// IndividualGenreResolver degrades the removed batch endpoint into one
// lookup per artist, fanned out through a bounded, rate-limited worker pool.
type IndividualGenreResolver struct {
	api     services.ArtistAPI
	workers int
	limiter *rate.Limiter
	logger  *log.Logger
}

func NewIndividualGenreResolver(api services.ArtistAPI, cfg shared.FetchConfig, logger *log.Logger) *IndividualGenreResolver {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 8
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &IndividualGenreResolver{api: api, workers: workers, limiter: limiter, logger: logger}
}

func (r *IndividualGenreResolver) Resolve(ctx context.Context, artistIDs []string, baseline catalog.GenreIndex) (catalog.GenreIndex, int, error) {
	index := cloneIndex(baseline)
	pending := pendingIDs(artistIDs, baseline)
	if len(pending) == 0 {
		return index, 0, nil
	}

	r.logger.Info("resolving artist genres individually", "artists", len(pending), "workers", r.workers)

	var mu sync.Mutex
	failed := 0
	jobs := make(chan string)

	worker := func(ctx context.Context, ch chan error) {
		for id := range jobs {
			if r.limiter != nil {
				if err := r.limiter.Wait(ctx); err != nil {
					ch <- err
					return
				}
			}

			genres, err := r.api.Artist(ctx, id)
			if err != nil {
				if fatalLookup(ctx, err) {
					ch <- err
					return
				}
				r.logger.Warn("artist lookup failed", "artist", id, "error", err)
				mu.Lock()
				failed++
				mu.Unlock()
				continue
			}

			mu.Lock()
			index[id] = genres
			mu.Unlock()
		}
	}

	err := nursery.RunConcurrentlyWithContext(ctx,
		func(ctx context.Context, _ chan error) {
			defer close(jobs)
			for _, id := range pending {
				select {
				case jobs <- id:
				case <-ctx.Done():
					return
				}
			}
		},
		func(ctx context.Context, ch chan error) {
			if err := nursery.RunMultipleCopiesConcurrentlyWithContext(ctx, r.workers, worker); err != nil {
				ch <- err
			}
		},
	)
	if err != nil {
		return nil, 0, err
	}
	if ctx.Err() != nil {
		return nil, 0, ctx.Err()
	}

	if failed > 0 {
		r.logger.Info("genre resolution finished with skipped artists", "failed", failed, "resolved", len(pending)-failed)
	}

	return index, failed, nil
}

// NewGenreResolver selects the lookup strategy from configuration.
func NewGenreResolver(api services.ArtistAPI, cfg shared.FetchConfig, logger *log.Logger) GenreResolver {
	if cfg.BatchArtists {
		return NewBatchGenreResolver(api, logger)
	}
	return NewIndividualGenreResolver(api, cfg, logger)
}
