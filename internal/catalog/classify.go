package catalog

import "strings"

// CategoryOther is returned for genre strings no taxonomy entry covers.
const CategoryOther = "Other"

// genreEntry maps a raw genre keyword to its canonical category.
type genreEntry struct {
	key      string
	category string
}

// genreTable is the fixed taxonomy, in authoritative order.
//
// Declaration order is load-bearing: when no exact match exists, the first
// entry whose key is a substring of the input wins. "indie folk" classifies as
// Rock (via "indie") and not Folk because "indie" is declared earlier. Do not
// reorder without product input.
var genreTable = []genreEntry{
	{"hip hop", "Hip Hop"}, {"rap", "Hip Hop"}, {"trap", "Hip Hop"},
	{"r&b", "R&B"}, {"soul", "R&B"}, {"neo soul", "R&B"},
	{"pop", "Pop"}, {"dance pop", "Pop"}, {"electropop", "Pop"},
	{"rock", "Rock"}, {"alternative", "Rock"}, {"indie", "Rock"},
	{"metal", "Metal"}, {"hard rock", "Metal"},
	{"country", "Country"}, {"americana", "Country"},
	{"electronic", "Electronic"}, {"edm", "Electronic"}, {"house", "Electronic"}, {"techno", "Electronic"},
	{"jazz", "Jazz"},
	{"folk", "Folk"}, {"singer-songwriter", "Folk"},
	{"reggae", "Reggae"}, {"dancehall", "Reggae"},
	{"latin", "Latin"}, {"reggaeton", "Latin"},
	{"punk", "Punk"}, {"emo", "Punk"},
	{"blues", "Blues"},
	{"funk", "Funk"},
	{"gospel", "Gospel"},
	{"classical", "Classical"},
}

// genreExact supports O(1) exact matches; built from genreTable so both views
// can never disagree.
var genreExact = func() map[string]string {
	m := make(map[string]string, len(genreTable))
	for _, e := range genreTable {
		m[e.key] = e.category
	}
	return m
}()

// Categories returns the canonical category names in table order, without
// duplicates and with [CategoryOther] appended.
func Categories() []string {
	seen := make(map[string]struct{}, len(genreTable))
	var categories []string
	for _, e := range genreTable {
		if _, ok := seen[e.category]; ok {
			continue
		}
		seen[e.category] = struct{}{}
		categories = append(categories, e.category)
	}
	return append(categories, CategoryOther)
}

// Classify maps a raw genre string to one canonical category.
//
// The input is lower-cased; an exact table match dominates, otherwise the
// first table entry (in declared order) whose key is a substring of the input
// wins, otherwise [CategoryOther]. Pure and deterministic.
func Classify(rawGenre string) string {
	low := strings.ToLower(rawGenre)

	if category, ok := genreExact[low]; ok {
		return category
	}

	for _, e := range genreTable {
		if strings.Contains(low, e.key) {
			return e.category
		}
	}

	return CategoryOther
}
