package formatter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reef111qq/playlist-buddy/internal/catalog"
)

var sampleTracks = []catalog.Track{
	{ID: "id1", Name: "Song One", Artist: "Artist One", Album: "Album One", Source: "liked"},
	{ID: "id2", Name: "Song Two", Artist: "Artist Two", Album: "Unknown", Source: "playlist:Road Trip"},
}

func TestExporters(t *testing.T) {
	t.Run("TracksToCSV", func(t *testing.T) {
		data, err := TracksToCSV(sampleTracks)
		if err != nil {
			t.Fatalf("TracksToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "ID,Name,Artist,Album,Source") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "id1,Song One,Artist One,Album One,liked") {
			t.Errorf("CSV missing first record, got: %s", output)
		}
		if !strings.Contains(output, "playlist:Road Trip") {
			t.Errorf("CSV missing provenance, got: %s", output)
		}
	})

	t.Run("TracksToText", func(t *testing.T) {
		output := string(TracksToText(sampleTracks))

		if !strings.Contains(output, "1. Artist One - Song One") {
			t.Errorf("text missing first track, got: %s", output)
		}
		if !strings.Contains(output, "2. Artist Two - Song Two") {
			t.Errorf("text missing second track, got: %s", output)
		}
	})

	t.Run("TracksToMarkdown", func(t *testing.T) {
		output := string(TracksToMarkdown("Candidates", sampleTracks))

		if !strings.Contains(output, "# Candidates") {
			t.Errorf("markdown missing title, got: %s", output)
		}
		if !strings.Contains(output, "**Tracks**: 2") {
			t.Errorf("markdown missing track count, got: %s", output)
		}
		if !strings.Contains(output, "1. Artist One - Song One (Album One) `liked`") {
			t.Errorf("markdown missing first track line, got: %s", output)
		}
		if strings.Contains(output, "(Unknown)") {
			t.Errorf("markdown should omit unknown albums, got: %s", output)
		}
	})

	t.Run("BreakdownToText", func(t *testing.T) {
		breakdown := catalog.GenreBreakdown{
			MainGenres: map[string]int{"Pop": 3, "Rock": 1},
			SubGenres: map[string][]catalog.GenreCount{
				"Pop":  {{Name: "dance pop", Count: 2}, {Name: "electropop", Count: 1}},
				"Rock": {{Name: "indie rock", Count: 1}},
			},
			TotalTracks: 4,
		}

		output := string(BreakdownToText(breakdown))
		if !strings.Contains(output, "Genre distribution (4 tracks)") {
			t.Errorf("missing header, got: %s", output)
		}
		if !strings.Contains(output, "Pop: 3\n  - dance pop (2)\n  - electropop (1)") {
			t.Errorf("missing Pop block, got: %s", output)
		}
		// Taxonomy order puts Pop before Rock.
		if strings.Index(output, "Pop:") > strings.Index(output, "Rock:") {
			t.Errorf("categories out of taxonomy order, got: %s", output)
		}
	})

	t.Run("PlaylistsToText", func(t *testing.T) {
		output := string(PlaylistsToText([]catalog.PlaylistSummary{
			{ID: "p1", Name: "Focus", TrackCount: 12, Owner: "me"},
		}))

		if !strings.Contains(output, "Focus (12 tracks) — me") {
			t.Errorf("unexpected playlist line: %s", output)
		}
	})

	t.Run("WriteTracksCSV", func(t *testing.T) {
		dir := t.TempDir()

		path, err := WriteTracksCSV(sampleTracks, "", filepath.Join(dir, "export"))
		if err != nil {
			t.Fatalf("WriteTracksCSV failed: %v", err)
		}
		if !strings.HasSuffix(path, "export_tracks.csv") {
			t.Errorf("unexpected default path %s", path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read exported file: %v", err)
		}
		if !strings.Contains(string(data), "Song One") {
			t.Errorf("exported file missing data: %s", data)
		}
	})
}

func TestFormatCount(t *testing.T) {
	if got := FormatCount(1, "track", "tracks"); got != "1 track" {
		t.Errorf("unexpected singular form %q", got)
	}
	if got := FormatCount(3, "track", "tracks"); got != "3 tracks" {
		t.Errorf("unexpected plural form %q", got)
	}
}
