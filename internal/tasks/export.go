package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/reef111qq/playlist-buddy/internal/catalog"
	"github.com/reef111qq/playlist-buddy/internal/formatter"
	"github.com/reef111qq/playlist-buddy/internal/services"
	"github.com/reef111qq/playlist-buddy/internal/shared"
)

// ExportOpts contains configuration for bulk playlist exports.
type ExportOpts struct {
	Format     string  // Export format: json, csv, markdown, txt
	OutputDir  string  // Base output directory (default: playlist_export_{epoch})
	NumWorkers int     // Concurrent file writers (default: 5, max 10)
	RateLimit  float64 // Playlist fetches per second (default: 5)
}

// PlaylistExportResult records the outcome for one playlist.
type PlaylistExportResult struct {
	PlaylistID   string `json:"playlist_id"`
	PlaylistName string `json:"playlist_name"`
	File         string `json:"file,omitempty"`
	TrackCount   int    `json:"track_count"`
	Success      bool   `json:"success"`
	Error        string `json:"error,omitempty"`
}

// ExportResult summarizes a bulk export run.
type ExportResult struct {
	TotalPlaylists    int                    `json:"total_playlists"`
	SuccessfulExports int                    `json:"successful_exports"`
	FailedExports     int                    `json:"failed_exports"`
	OutputDirectory   string                 `json:"output_directory"`
	ManifestPath      string                 `json:"manifest_path,omitempty"`
	Results           []PlaylistExportResult `json:"results"`
}

type exportJob struct {
	playlist catalog.PlaylistSummary
	tracks   []catalog.Track
}

// Exporter writes playlists to disk in bulk.
type Exporter struct {
	catalog services.Catalog
	logger  *log.Logger
}

func NewExporter(cat services.Catalog, logger *log.Logger) *Exporter {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Exporter{catalog: cat, logger: logger}
}

// ExportAll fetches every given playlist and writes one file per playlist in
// the requested format, plus a JSON manifest of the run.
//
// Fetches are rate limited; rendering and writing fan out across a worker
// pool. A playlist that fails to fetch or write is recorded in the manifest
// and skipped.
func (e *Exporter) ExportAll(ctx context.Context, prog chan<- ProgressUpdate, playlists []catalog.PlaylistSummary, opts ExportOpts) (*ExportResult, error) {
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("playlist_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	if opts.Format == "" {
		opts.Format = "json"
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &ExportResult{
		TotalPlaylists:  len(playlists),
		OutputDirectory: opts.OutputDir,
		Results:         make([]PlaylistExportResult, 0, len(playlists)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan exportJob, len(playlists))
	results := make(chan PlaylistExportResult, len(playlists))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, pl := range playlists {
			if ctx.Err() != nil {
				return
			}
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			e.sendProgress(prog, fetchingPlaylistUpdate(i+1, len(playlists), pl.Name))

			items, err := e.catalog.PlaylistItems(ctx, pl.ID)
			if err != nil {
				results <- PlaylistExportResult{
					PlaylistID:   pl.ID,
					PlaylistName: pl.Name,
					Error:        fmt.Sprintf("failed to fetch playlist: %v", err),
				}
				continue
			}

			var tracks []catalog.Track
			for _, raw := range items {
				if track, ok := catalog.Normalize(raw); ok {
					track.Source = "playlist:" + pl.Name
					tracks = append(tracks, track)
				}
			}

			jobs <- exportJob{playlist: pl, tracks: tracks}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(playlists), res.PlaylistName, res.File))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, len(playlists), res.PlaylistName, fmt.Errorf("%s", res.Error)))
		}
	}

	manifest, err := formatter.ToJSON(result)
	if err != nil {
		return result, fmt.Errorf("export completed but failed to render manifest: %w", err)
	}
	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := os.WriteFile(manifestPath, manifest, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	return result, nil
}

func (e *Exporter) exportWorker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan exportJob, results chan<- PlaylistExportResult, opts ExportOpts) {
	defer wg.Done()

	for job := range jobs {
		if ctx.Err() != nil {
			return
		}

		res := PlaylistExportResult{
			PlaylistID:   job.playlist.ID,
			PlaylistName: job.playlist.Name,
			TrackCount:   len(job.tracks),
		}

		file, err := e.writeExport(job, opts)
		if err != nil {
			res.Error = err.Error()
		} else {
			res.File = file
			res.Success = true
		}

		results <- res
	}
}

func (e *Exporter) writeExport(job exportJob, opts ExportOpts) (string, error) {
	base := filepath.Join(opts.OutputDir, sanitizeFilename(job.playlist.Name))

	var data []byte
	var path string
	var err error

	switch opts.Format {
	case "json":
		path = base + ".json"
		data, err = formatter.ToJSON(job.tracks)
	case "csv":
		path = base + ".csv"
		data, err = formatter.TracksToCSV(job.tracks)
	case "markdown", "md":
		path = base + ".md"
		data = formatter.TracksToMarkdown(job.playlist.Name, job.tracks)
	case "txt", "text":
		path = base + ".txt"
		data = formatter.TracksToText(job.tracks)
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, opts.Format)
	}
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}

// sendProgress delivers an update without ever blocking a worker.
func (e *Exporter) sendProgress(prog chan<- ProgressUpdate, update ProgressUpdate) {
	if prog == nil {
		return
	}
	select {
	case prog <- update:
	default:
	}
}

// sanitizeFilename replaces characters that are unsafe in file names.
func sanitizeFilename(name string) string {
	if name == "" {
		return "untitled"
	}
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	return replacer.Replace(name)
}
