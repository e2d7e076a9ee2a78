package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/reef111qq/playlist-buddy/internal/catalog"
	"github.com/reef111qq/playlist-buddy/internal/formatter"
	"github.com/reef111qq/playlist-buddy/internal/shared"
)

// Genres lists the genre categories available for matching.
func (r *Runner) Genres(ctx context.Context, cmd *cli.Command) error {
	for _, category := range catalog.Categories() {
		r.writePlain("%s\n", category)
	}
	return nil
}

// Match finds candidate tracks for a playlist and optionally commits them.
func (r *Runner) Match(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("playlist")
	genres := cmd.StringSlice("genres")
	if len(genres) == 0 {
		return fmt.Errorf("%w: at least one --genres value is required", shared.ErrMissingArgument)
	}

	userID, err := r.currentUserID(ctx)
	if err != nil {
		return err
	}

	candidates, err := r.engine.FindCandidates(ctx, userID, playlistID, genres)
	if err != nil {
		return err
	}

	if path := cmd.String("csv"); path != "" {
		written, err := formatter.WriteTracksCSV(candidates, path, playlistID)
		if err != nil {
			return err
		}
		r.writePlain("✓ Candidates written to %s\n", written)
	}

	if cmd.Bool("json") {
		if err := r.writeJSON(candidates, cmd.Bool("pretty")); err != nil {
			return err
		}
	} else {
		r.writePlain("Found %s:\n\n", formatter.FormatCount(len(candidates), "candidate", "candidates"))
		r.writePlain("%s", formatter.TracksToText(candidates))
	}

	if !cmd.Bool("commit") || len(candidates) == 0 {
		return nil
	}

	ids := make([]string, len(candidates))
	for i, track := range candidates {
		ids[i] = track.ID
	}

	result, err := r.engine.AppendTracks(ctx, userID, playlistID, ids)
	if err != nil {
		return err
	}

	r.writePlainln("✓ Added %s to the playlist", formatter.FormatCount(result.Added, "track", "tracks"))
	return nil
}

// Analyze reports a playlist's genre distribution.
func (r *Runner) Analyze(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("playlist")

	userID, err := r.currentUserID(ctx)
	if err != nil {
		return err
	}

	breakdown, err := r.engine.AnalyzePlaylist(ctx, userID, playlistID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(breakdown, cmd.Bool("pretty"))
	}
	return r.writePlain("%s", formatter.BreakdownToText(breakdown))
}

// Create builds a new playlist from genre-matched library tracks.
func (r *Runner) Create(ctx context.Context, cmd *cli.Command) error {
	name := cmd.String("name")
	genres := cmd.StringSlice("genres")
	if len(genres) == 0 {
		return fmt.Errorf("%w: at least one --genres value is required", shared.ErrMissingArgument)
	}

	userID, err := r.currentUserID(ctx)
	if err != nil {
		return err
	}

	matches, err := r.engine.MatchLibrary(ctx, userID, genres)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return fmt.Errorf("%w: no library tracks match the selected genres", shared.ErrNoValidTracks)
	}

	ids := make([]string, len(matches))
	for i, track := range matches {
		ids[i] = track.ID
	}

	result, err := r.engine.CreateFromSelection(ctx, userID, name, ids, cmd.Bool("public"))
	if err != nil {
		return err
	}

	r.writePlain("✓ Created '%s' with %s\n", result.Playlist.Name,
		formatter.FormatCount(result.Added, "track", "tracks"))
	if result.Playlist.URL != "" {
		r.writePlain("  %s\n", result.Playlist.URL)
	}
	return nil
}
