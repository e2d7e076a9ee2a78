package catalog

import (
	"fmt"
	"sort"
	"strings"
)

const (
	summaryArtistLimit = 40 // Artists listed in the summary
	summarySongLimit   = 8  // Songs shown per artist before truncating
	summaryTopLimit    = 25 // Top artists / top tracks listed
)

// Summarize renders the catalog as a compact natural-language description
// suitable for a chat system prompt: songs grouped by primary artist (largest
// collections first), followed by the user's top artists and tracks when
// available.
func Summarize(tracks []Track, topArtists []TopArtist, topTracks []TopTrack) string {
	parts := []string{fmt.Sprintf("=== LIBRARY (%d songs) ===", len(tracks))}

	if len(tracks) > 0 {
		byArtist := make(map[string][]string)
		var artistOrder []string
		for _, t := range tracks {
			if _, seen := byArtist[t.Artist]; !seen {
				artistOrder = append(artistOrder, t.Artist)
			}
			byArtist[t.Artist] = append(byArtist[t.Artist], t.Name)
		}

		sort.SliceStable(artistOrder, func(i, j int) bool {
			return len(byArtist[artistOrder[i]]) > len(byArtist[artistOrder[j]])
		})
		if len(artistOrder) > summaryArtistLimit {
			artistOrder = artistOrder[:summaryArtistLimit]
		}

		for _, artist := range artistOrder {
			songs := byArtist[artist]
			shown := songs
			extra := ""
			if len(songs) > summarySongLimit {
				shown = songs[:summarySongLimit]
				extra = fmt.Sprintf(" (+%d)", len(songs)-summarySongLimit)
			}
			parts = append(parts, fmt.Sprintf("  - %s (%d): %s%s", artist, len(songs), strings.Join(shown, ", "), extra))
		}
	}

	if len(topArtists) > 0 {
		ranked := make([]TopArtist, len(topArtists))
		copy(ranked, topArtists)
		sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Rank < ranked[j].Rank })
		if len(ranked) > summaryTopLimit {
			ranked = ranked[:summaryTopLimit]
		}

		names := make([]string, len(ranked))
		for i, a := range ranked {
			names[i] = a.Name
		}
		parts = append(parts, "\nTop artists: "+strings.Join(names, ", "))
	}

	if len(topTracks) > 0 {
		shown := topTracks
		if len(shown) > summaryTopLimit {
			shown = shown[:summaryTopLimit]
		}
		parts = append(parts, "\nTop tracks:")
		for _, t := range shown {
			parts = append(parts, fmt.Sprintf("  - %q by %s", t.Name, t.Artist))
		}
	}

	return strings.Join(parts, "\n")
}

// SongList renders the catalog as one "id | name — artist" line per track,
// the format the playlist-creator prompt expects.
func SongList(tracks []Track) string {
	lines := make([]string, len(tracks))
	for i, t := range tracks {
		lines[i] = fmt.Sprintf("%s | %s — %s", t.ID, t.Name, t.Artist)
	}
	return strings.Join(lines, "\n")
}
