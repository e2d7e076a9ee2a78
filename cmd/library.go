package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/reef111qq/playlist-buddy/internal/formatter"
)

// LibraryLoad crawls the full catalog into the cache and reports the result.
func (r *Runner) LibraryLoad(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.currentUserID(ctx)
	if err != nil {
		return err
	}

	snap, err := r.engine.EnsureLoaded(ctx, userID)
	if err != nil {
		return err
	}

	r.writePlain("✓ Library loaded: %s across %s\n",
		formatter.FormatCount(len(snap.Tracks), "unique track", "unique tracks"),
		formatter.FormatCount(len(snap.Playlists), "playlist", "playlists"))
	if snap.DiscardedItems > 0 {
		r.writePlain("  Skipped %s without an id\n", formatter.FormatCount(snap.DiscardedItems, "item", "items"))
	}
	if snap.FailedPlaylists > 0 {
		r.writePlain("  ⚠ %s could not be fetched\n", formatter.FormatCount(snap.FailedPlaylists, "playlist", "playlists"))
	}
	return nil
}

// LibraryPlaylists lists the user's playlists.
func (r *Runner) LibraryPlaylists(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.currentUserID(ctx)
	if err != nil {
		return err
	}

	playlists, err := r.engine.Playlists(ctx, userID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	r.writePlain("Found %s:\n\n", formatter.FormatCount(len(playlists), "playlist", "playlists"))
	return r.writePlain("%s", formatter.PlaylistsToText(playlists))
}

// LibrarySummary prints the natural-language catalog description.
func (r *Runner) LibrarySummary(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.currentUserID(ctx)
	if err != nil {
		return err
	}

	summary, err := r.engine.Summary(ctx, userID)
	if err != nil {
		return err
	}
	return r.writePlain("%s\n", summary)
}

// LibraryRefresh drops the cached snapshot.
func (r *Runner) LibraryRefresh(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.currentUserID(ctx)
	if err != nil {
		return err
	}

	r.engine.Invalidate(userID)
	r.writePlain("✓ Cache cleared, next command will reload the library\n")
	return nil
}
