package catalog

import "testing"

func TestNormalize(t *testing.T) {
	t.Run("Complete Record", func(t *testing.T) {
		raw := RawRecord{
			"id":   "6rqhFgbbKwnb9MLmUQDhG6",
			"uri":  "spotify:track:6rqhFgbbKwnb9MLmUQDhG6",
			"name": "Breathe",
			"artists": []any{
				map[string]any{"id": "artist-1", "name": "Pink Floyd"},
				map[string]any{"id": "artist-2", "name": "Roger Waters"},
			},
			"album": map[string]any{"name": "The Dark Side of the Moon"},
		}

		track, ok := Normalize(raw)
		if !ok {
			t.Fatal("expected record to normalize")
		}
		if track.ID != "6rqhFgbbKwnb9MLmUQDhG6" {
			t.Errorf("unexpected id %s", track.ID)
		}
		if track.Artist != "Pink Floyd" {
			t.Errorf("expected primary artist 'Pink Floyd', got %s", track.Artist)
		}
		if len(track.ArtistIDs) != 2 || track.ArtistIDs[0] != "artist-1" || track.ArtistIDs[1] != "artist-2" {
			t.Errorf("unexpected artist ids %v", track.ArtistIDs)
		}
		if track.Album != "The Dark Side of the Moon" {
			t.Errorf("unexpected album %s", track.Album)
		}
	})

	t.Run("Missing ID Discards Record", func(t *testing.T) {
		cases := []RawRecord{
			{},
			{"name": "No ID"},
			{"id": ""},
			{"id": 42},
			nil,
		}

		for _, raw := range cases {
			if _, ok := Normalize(raw); ok {
				t.Errorf("expected record %v to be discarded", raw)
			}
		}
	})

	t.Run("URI Derived From ID", func(t *testing.T) {
		track, ok := Normalize(RawRecord{"id": "abc123"})
		if !ok {
			t.Fatal("expected record to normalize")
		}
		if track.URI != "spotify:track:abc123" {
			t.Errorf("expected derived URI, got %s", track.URI)
		}
	})

	t.Run("Missing Artists Fall Back To Unknown", func(t *testing.T) {
		track, _ := Normalize(RawRecord{"id": "abc123"})
		if track.Artist != "Unknown" {
			t.Errorf("expected 'Unknown' artist, got %s", track.Artist)
		}
		if len(track.ArtistIDs) != 0 {
			t.Errorf("expected no artist ids, got %v", track.ArtistIDs)
		}

		track, _ = Normalize(RawRecord{"id": "abc123", "artists": []any{}})
		if track.Artist != "Unknown" {
			t.Errorf("expected 'Unknown' artist for empty list, got %s", track.Artist)
		}
	})

	t.Run("Artists Without IDs Are Skipped", func(t *testing.T) {
		raw := RawRecord{
			"id": "abc123",
			"artists": []any{
				map[string]any{"name": "No ID Here"},
				map[string]any{"id": "artist-2", "name": "Has ID"},
			},
		}

		track, _ := Normalize(raw)
		if track.Artist != "No ID Here" {
			t.Errorf("primary artist should still use first entry, got %s", track.Artist)
		}
		if len(track.ArtistIDs) != 1 || track.ArtistIDs[0] != "artist-2" {
			t.Errorf("expected only 'artist-2', got %v", track.ArtistIDs)
		}
	})

	t.Run("Missing Album Falls Back To Unknown", func(t *testing.T) {
		track, _ := Normalize(RawRecord{"id": "abc123"})
		if track.Album != "Unknown" {
			t.Errorf("expected 'Unknown' album, got %s", track.Album)
		}
	})
}

func TestRawRecordAccessors(t *testing.T) {
	t.Run("FirstObject Probes In Order", func(t *testing.T) {
		raw := RawRecord{
			"track": map[string]any{"id": "old-shape"},
			"item":  map[string]any{"id": "new-shape"},
		}

		obj, ok := raw.FirstObject("item", "track")
		if !ok {
			t.Fatal("expected an object")
		}
		if obj.StringField("id") != "new-shape" {
			t.Errorf("expected the first candidate key to win, got %s", obj.StringField("id"))
		}

		obj, ok = raw.FirstObject("missing", "track")
		if !ok || obj.StringField("id") != "old-shape" {
			t.Error("expected fallback to the second candidate key")
		}

		if _, ok := raw.FirstObject("missing", "absent"); ok {
			t.Error("expected no object for absent keys")
		}
	})

	t.Run("IntField Accepts JSON Numbers", func(t *testing.T) {
		raw := RawRecord{"total": float64(42), "count": 7, "name": "x"}
		if raw.IntField("total") != 42 {
			t.Errorf("expected 42, got %d", raw.IntField("total"))
		}
		if raw.IntField("count") != 7 {
			t.Errorf("expected 7, got %d", raw.IntField("count"))
		}
		if raw.IntField("name") != 0 {
			t.Errorf("expected 0 for non-numeric, got %d", raw.IntField("name"))
		}
	})

	t.Run("ObjectList Skips Non Objects", func(t *testing.T) {
		raw := RawRecord{"artists": []any{
			map[string]any{"id": "a"},
			"not an object",
			nil,
			map[string]any{"id": "b"},
		}}

		objs := raw.ObjectList("artists")
		if len(objs) != 2 {
			t.Fatalf("expected 2 objects, got %d", len(objs))
		}
	})
}
