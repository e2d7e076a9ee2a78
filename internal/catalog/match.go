package catalog

import "strings"

// FindCandidates returns the tracks that are not already members of the
// target collection and have at least one artist whose classified genre is in
// selectedGenres.
//
// selectedGenres holds canonical category names (case-insensitive). For each
// candidate track the union of Classify(g) over every raw genre of every one
// of its artists is intersected with the selection; artists missing from the
// index contribute nothing, so a track with no resolved genres never matches.
// Result order follows catalog iteration order. An empty selection yields no
// candidates. The catalog and index are only read, never mutated.
func FindCandidates(tracks []Track, selectedGenres []string, existingIDs []string, index GenreIndex) []Track {
	selected := make(map[string]struct{}, len(selectedGenres))
	for _, g := range selectedGenres {
		selected[strings.ToLower(g)] = struct{}{}
	}
	if len(selected) == 0 {
		return nil
	}

	existing := make(map[string]struct{}, len(existingIDs))
	for _, id := range existingIDs {
		existing[id] = struct{}{}
	}

	var candidates []Track
	for _, track := range tracks {
		if _, ok := existing[track.ID]; ok {
			continue
		}
		if matchesSelection(track, selected, index) {
			candidates = append(candidates, track)
		}
	}
	return candidates
}

func matchesSelection(track Track, selected map[string]struct{}, index GenreIndex) bool {
	for _, artistID := range track.ArtistIDs {
		for _, raw := range index[artistID] {
			if _, ok := selected[strings.ToLower(Classify(raw))]; ok {
				return true
			}
		}
	}
	return false
}

// GenreBreakdown aggregates genre counts for one collection of tracks.
type GenreBreakdown struct {
	MainGenres  map[string]int           `json:"main_genres"`
	SubGenres   map[string][]GenreCount  `json:"sub_genres"`
	TotalTracks int                      `json:"total_tracks"`
}

// GenreCount is a raw genre string with its occurrence count.
type GenreCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// AnalyzeGenres computes per-category and per-raw-genre histograms for the
// given tracks. Each artist occurrence on a track counts once per raw genre,
// and raw genres are grouped under their classified category, most frequent
// first (ties broken by first appearance).
func AnalyzeGenres(tracks []Track, index GenreIndex) GenreBreakdown {
	breakdown := GenreBreakdown{
		MainGenres:  make(map[string]int),
		SubGenres:   make(map[string][]GenreCount),
		TotalTracks: len(tracks),
	}

	subCounts := make(map[string]int)
	var subOrder []string

	for _, track := range tracks {
		for _, artistID := range track.ArtistIDs {
			for _, raw := range index[artistID] {
				if _, seen := subCounts[raw]; !seen {
					subOrder = append(subOrder, raw)
				}
				subCounts[raw]++
				breakdown.MainGenres[Classify(raw)]++
			}
		}
	}

	// Stable most-frequent-first ordering within each category.
	sortByCountDesc(subOrder, subCounts)
	for _, raw := range subOrder {
		category := Classify(raw)
		breakdown.SubGenres[category] = append(breakdown.SubGenres[category], GenreCount{
			Name:  raw,
			Count: subCounts[raw],
		})
	}

	return breakdown
}

// sortByCountDesc sorts keys by descending count, preserving first-seen order
// among equal counts (insertion sort keeps the original relative order).
func sortByCountDesc(keys []string, counts map[string]int) {
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && counts[keys[j]] > counts[keys[j-1]]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
}
