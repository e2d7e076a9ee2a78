package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/reef111qq/playlist-buddy/internal/formatter"
	"github.com/reef111qq/playlist-buddy/internal/tasks"
)

// Export writes every playlist to disk in the requested format.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.currentUserID(ctx)
	if err != nil {
		return err
	}

	playlists, err := r.engine.Playlists(ctx, userID)
	if err != nil {
		return err
	}

	prog := make(chan tasks.ProgressUpdate, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range prog {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := r.exporter.ExportAll(ctx, prog, playlists, tasks.ExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	})
	close(prog)
	<-done
	if err != nil {
		return err
	}

	r.writePlainln("✓ Exported %s to %s",
		formatter.FormatCount(result.SuccessfulExports, "playlist", "playlists"),
		result.OutputDirectory)
	if result.FailedExports > 0 {
		r.writePlain("⚠ %s failed, see %s\n",
			formatter.FormatCount(result.FailedExports, "playlist", "playlists"),
			result.ManifestPath)
	}
	return nil
}
