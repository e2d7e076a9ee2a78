package catalog

import "testing"

func TestFindCandidates(t *testing.T) {
	t.Run("Substring Genre Matches Selection", func(t *testing.T) {
		tracks := []Track{{ID: "a", ArtistIDs: []string{"X"}}}
		index := GenreIndex{"X": {"dance pop"}}

		candidates := FindCandidates(tracks, []string{"Pop"}, nil, index)
		if len(candidates) != 1 || candidates[0].ID != "a" {
			t.Fatalf("expected track 'a' as the only candidate, got %v", candidates)
		}
	})

	t.Run("Empty Selection Yields No Candidates", func(t *testing.T) {
		tracks := []Track{{ID: "a", ArtistIDs: []string{"X"}}}
		index := GenreIndex{"X": {"pop"}}

		if got := FindCandidates(tracks, nil, nil, index); len(got) != 0 {
			t.Errorf("expected no candidates for empty selection, got %v", got)
		}
	})

	t.Run("Existing Members Are Never Returned", func(t *testing.T) {
		tracks := []Track{
			{ID: "a", ArtistIDs: []string{"X"}},
			{ID: "b", ArtistIDs: []string{"X"}},
		}
		index := GenreIndex{"X": {"pop"}}

		candidates := FindCandidates(tracks, []string{"Pop"}, []string{"a"}, index)
		for _, c := range candidates {
			if c.ID == "a" {
				t.Fatal("candidate list contains an existing member")
			}
		}
		if len(candidates) != 1 || candidates[0].ID != "b" {
			t.Errorf("expected only track 'b', got %v", candidates)
		}
	})

	t.Run("Unresolved Artists Never Match", func(t *testing.T) {
		tracks := []Track{
			{ID: "a", ArtistIDs: []string{"missing"}},
			{ID: "b"},
		}

		if got := FindCandidates(tracks, []string{"Pop"}, nil, GenreIndex{}); len(got) != 0 {
			t.Errorf("tracks without resolved genres must not be wildcards, got %v", got)
		}
	})

	t.Run("Selection Is Case Insensitive", func(t *testing.T) {
		tracks := []Track{{ID: "a", ArtistIDs: []string{"X"}}}
		index := GenreIndex{"X": {"detroit techno"}}

		if got := FindCandidates(tracks, []string{"electronic"}, nil, index); len(got) != 1 {
			t.Errorf("expected lower-case selection to match, got %v", got)
		}
	})

	t.Run("Order Follows Catalog Iteration", func(t *testing.T) {
		tracks := []Track{
			{ID: "c", ArtistIDs: []string{"X"}},
			{ID: "a", ArtistIDs: []string{"X"}},
			{ID: "b", ArtistIDs: []string{"Y"}},
		}
		index := GenreIndex{"X": {"pop"}, "Y": {"jazz"}}

		candidates := FindCandidates(tracks, []string{"Pop", "Jazz"}, nil, index)
		want := []string{"c", "a", "b"}
		if len(candidates) != len(want) {
			t.Fatalf("expected %d candidates, got %d", len(want), len(candidates))
		}
		for i, id := range want {
			if candidates[i].ID != id {
				t.Errorf("position %d: expected %s, got %s", i, id, candidates[i].ID)
			}
		}
	})
}

func TestAnalyzeGenres(t *testing.T) {
	tracks := []Track{
		{ID: "a", ArtistIDs: []string{"X"}},
		{ID: "b", ArtistIDs: []string{"X", "Y"}},
	}
	index := GenreIndex{
		"X": {"dance pop", "electropop"},
		"Y": {"bebop jazz"},
	}

	breakdown := AnalyzeGenres(tracks, index)

	if breakdown.TotalTracks != 2 {
		t.Errorf("expected 2 total tracks, got %d", breakdown.TotalTracks)
	}
	if breakdown.MainGenres["Pop"] != 4 {
		t.Errorf("expected 4 Pop occurrences, got %d", breakdown.MainGenres["Pop"])
	}
	if breakdown.MainGenres["Jazz"] != 1 {
		t.Errorf("expected 1 Jazz occurrence, got %d", breakdown.MainGenres["Jazz"])
	}

	pop := breakdown.SubGenres["Pop"]
	if len(pop) != 2 {
		t.Fatalf("expected 2 raw pop genres, got %d", len(pop))
	}
	if pop[0].Name != "dance pop" || pop[0].Count != 2 {
		t.Errorf("expected 'dance pop' x2 first, got %+v", pop[0])
	}
}
