// Package formatter renders catalog data for terminal output and file
// export: track lists as text, CSV or Markdown, genre breakdowns, and JSON
// for machine consumption.
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/reef111qq/playlist-buddy/internal/catalog"
	"github.com/reef111qq/playlist-buddy/internal/shared"
)

// TracksToCSV renders tracks with columns: ID, Name, Artist, Album, Source.
func TracksToCSV(tracks []catalog.Track) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"ID", "Name", "Artist", "Album", "Source"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		record := []string{track.ID, track.Name, track.Artist, track.Album, track.Source}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// TracksToText renders tracks as numbered "Artist - Name" lines.
func TracksToText(tracks []catalog.Track) []byte {
	var buf bytes.Buffer
	for i, track := range tracks {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, track.Artist, track.Name)
	}
	return buf.Bytes()
}

// TracksToMarkdown renders tracks as a titled Markdown list, with each
// track's provenance noted.
func TracksToMarkdown(title string, tracks []catalog.Track) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", title)
	fmt.Fprintf(&buf, "**Tracks**: %d\n\n", len(tracks))

	for i, track := range tracks {
		albumPart := ""
		if track.Album != "" && track.Album != "Unknown" {
			albumPart = fmt.Sprintf(" (%s)", track.Album)
		}
		fmt.Fprintf(&buf, "%d. %s - %s%s `%s`\n", i+1, track.Artist, track.Name, albumPart, track.Source)
	}

	return buf.Bytes()
}

// PlaylistsToText renders playlist summaries one per line.
func PlaylistsToText(playlists []catalog.PlaylistSummary) []byte {
	var buf bytes.Buffer
	for _, pl := range playlists {
		fmt.Fprintf(&buf, "%s  %s (%d tracks) — %s\n", pl.ID, pl.Name, pl.TrackCount, pl.Owner)
	}
	return buf.Bytes()
}

// BreakdownToText renders a genre breakdown: categories in taxonomy order
// with their counts, each followed by its raw subgenres most frequent first.
func BreakdownToText(breakdown catalog.GenreBreakdown) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Genre distribution (%d tracks)\n", breakdown.TotalTracks)

	for _, category := range catalog.Categories() {
		count, ok := breakdown.MainGenres[category]
		if !ok {
			continue
		}
		fmt.Fprintf(&buf, "%s: %d\n", category, count)
		for _, sub := range breakdown.SubGenres[category] {
			fmt.Fprintf(&buf, "  - %s (%d)\n", sub.Name, sub.Count)
		}
	}

	return buf.Bytes()
}

// ToJSON renders any value as indented JSON.
func ToJSON(v any) ([]byte, error) {
	return shared.MarshalJSON(v, true)
}

// WriteTracksCSV exports tracks to a CSV file. An empty path defaults to
// "<base>_tracks.csv".
func WriteTracksCSV(tracks []catalog.Track, path, base string) (string, error) {
	if path == "" {
		path = base + "_tracks.csv"
	}

	data, err := TracksToCSV(tracks)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}
	return path, nil
}

// FormatCount renders n with a singular or plural noun.
func FormatCount(n int, singular, plural string) string {
	if n == 1 {
		return strconv.Itoa(n) + " " + singular
	}
	return strconv.Itoa(n) + " " + plural
}
