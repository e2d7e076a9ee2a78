package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/reef111qq/playlist-buddy/internal/shared"
	tu "github.com/reef111qq/playlist-buddy/internal/testing"
)

func newTestService(t *testing.T, handler http.Handler) (*SpotifyService, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc := NewSpotifyService(StaticTokenProvider("test-token"), SpotifyOpts{
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})
	return svc, server
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("failed to encode response: %v", err)
	}
}

func TestSpotifyService(t *testing.T) {
	t.Run("SavedTracks", func(t *testing.T) {
		t.Run("Follows Next Cursor Across Pages", func(t *testing.T) {
			var server *httptest.Server
			mux := http.NewServeMux()
			mux.HandleFunc("/me/tracks", func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
					t.Errorf("unexpected auth header %q", got)
				}
				writeJSON(t, w, map[string]any{
					"items": []any{
						map[string]any{"track": map[string]any{"id": "t1"}},
						map[string]any{"track": map[string]any{"id": "t2"}},
					},
					"next": server.URL + "/page2",
				})
			})
			mux.HandleFunc("/page2", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, map[string]any{
					"items": []any{map[string]any{"track": map[string]any{"id": "t3"}}},
					"next":  nil,
				})
			})

			svc, srv := newTestService(t, mux)
			server = srv

			records, err := svc.SavedTracks(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(records) != 3 {
				t.Fatalf("expected 3 records across pages, got %d", len(records))
			}
			if records[2].StringField("id") != "t3" {
				t.Errorf("expected last record t3, got %s", records[2].StringField("id"))
			}
		})

		t.Run("Failure Mid Run Keeps Completed Pages", func(t *testing.T) {
			var server *httptest.Server
			mux := http.NewServeMux()
			mux.HandleFunc("/me/tracks", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, map[string]any{
					"items": []any{
						map[string]any{"track": map[string]any{"id": "t1"}},
						map[string]any{"track": map[string]any{"id": "t2"}},
					},
					"next": server.URL + "/page2",
				})
			})
			mux.HandleFunc("/page2", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			})

			svc, srv := newTestService(t, mux)
			server = srv

			records, err := svc.SavedTracks(context.Background())
			if !errors.Is(err, shared.ErrRemoteUnavailable) {
				t.Fatalf("expected ErrRemoteUnavailable, got %v", err)
			}
			if len(records) != 2 {
				t.Fatalf("expected the 2 records from the completed page, got %d", len(records))
			}
			if records[0].StringField("id") != "t1" || records[1].StringField("id") != "t2" {
				t.Errorf("unexpected surviving records %v", records)
			}
		})

		t.Run("Transport Failure Maps To Remote Unavailable", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection reset"))}
			svc := NewSpotifyService(StaticTokenProvider("test-token"), SpotifyOpts{
				BaseURL:    "http://127.0.0.1:0",
				HTTPClient: client,
			})

			if _, err := svc.SavedTracks(context.Background()); !errors.Is(err, shared.ErrRemoteUnavailable) {
				t.Errorf("expected ErrRemoteUnavailable, got %v", err)
			}
		})

		t.Run("Unauthorized Propagates", func(t *testing.T) {
			svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			}))

			if _, err := svc.SavedTracks(context.Background()); !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})

		t.Run("No Token Fails Before Any Request", func(t *testing.T) {
			called := false
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))
			defer server.Close()

			svc := NewSpotifyService(StaticTokenProvider(""), SpotifyOpts{BaseURL: server.URL})
			if _, err := svc.SavedTracks(context.Background()); !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
			if called {
				t.Error("no request should be issued without a token")
			}
		})
	})

	t.Run("PlaylistItems", func(t *testing.T) {
		t.Run("Probes Item Then Track Keys", func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/playlists/pl1/items", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, map[string]any{
					"items": []any{
						map[string]any{"item": map[string]any{"id": "new-shape"}},
						map[string]any{"track": map[string]any{"id": "old-shape"}},
						map[string]any{"added_at": "2026-01-01"}, // no payload under either key
					},
					"next": nil,
				})
			})

			svc, _ := newTestService(t, mux)

			records, err := svc.PlaylistItems(context.Background(), "pl1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(records) != 2 {
				t.Fatalf("expected 2 records, got %d", len(records))
			}
			if records[0].StringField("id") != "new-shape" || records[1].StringField("id") != "old-shape" {
				t.Errorf("unexpected payload probing result: %v", records)
			}
		})

		t.Run("Missing Playlist", func(t *testing.T) {
			svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))

			if _, err := svc.PlaylistItems(context.Background(), "nope"); !errors.Is(err, shared.ErrPlaylistNotFound) {
				t.Errorf("expected ErrPlaylistNotFound, got %v", err)
			}
		})
	})

	t.Run("Playlists", func(t *testing.T) {
		t.Run("Probes Track Count Wrapper", func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/me/playlists", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, map[string]any{
					"items": []any{
						map[string]any{
							"id": "pl-new", "name": "New Shape",
							"items": map[string]any{"total": 12},
							"owner": map[string]any{"display_name": "alice"},
						},
						map[string]any{
							"id": "pl-old", "name": "Old Shape",
							"tracks": map[string]any{"total": 7},
							"images": []any{map[string]any{"url": "http://img"}},
						},
						map[string]any{"name": "no id, skipped"},
					},
					"next": nil,
				})
			})

			svc, _ := newTestService(t, mux)

			playlists, err := svc.Playlists(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(playlists) != 2 {
				t.Fatalf("expected 2 playlists, got %d", len(playlists))
			}
			if playlists[0].TrackCount != 12 {
				t.Errorf("expected count 12 from 'items' wrapper, got %d", playlists[0].TrackCount)
			}
			if playlists[1].TrackCount != 7 {
				t.Errorf("expected count 7 from 'tracks' wrapper, got %d", playlists[1].TrackCount)
			}
			if playlists[0].Owner != "alice" {
				t.Errorf("expected owner alice, got %s", playlists[0].Owner)
			}
			if playlists[1].ImageURL != "http://img" {
				t.Errorf("expected image url, got %s", playlists[1].ImageURL)
			}
		})
	})

	t.Run("Artists", func(t *testing.T) {
		t.Run("Individual Lookup Returns Genres", func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/artists/a1", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, map[string]any{"id": "a1", "genres": []any{"dance pop", "electropop"}})
			})

			svc, _ := newTestService(t, mux)

			genres, err := svc.Artist(context.Background(), "a1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(genres) != 2 || genres[0] != "dance pop" {
				t.Errorf("unexpected genres %v", genres)
			}
		})

		t.Run("Batch Lookup", func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/artists", func(w http.ResponseWriter, r *http.Request) {
				if got := r.URL.Query().Get("ids"); got != "a1,a2" {
					t.Errorf("unexpected ids query %q", got)
				}
				writeJSON(t, w, map[string]any{"artists": []any{
					map[string]any{"id": "a1", "genres": []any{"jazz"}},
					map[string]any{"id": "a2", "genres": []any{}},
				}})
			})

			svc, _ := newTestService(t, mux)

			genres, err := svc.Artists(context.Background(), []string{"a1", "a2"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(genres) != 2 {
				t.Fatalf("expected 2 entries, got %d", len(genres))
			}
			if genres["a1"][0] != "jazz" {
				t.Errorf("unexpected genres %v", genres["a1"])
			}
		})

		t.Run("Removed Batch Endpoint Surfaces Remote Error", func(t *testing.T) {
			svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusGone)
			}))

			if _, err := svc.Artists(context.Background(), []string{"a1"}); !errors.Is(err, shared.ErrRemoteUnavailable) {
				t.Errorf("expected ErrRemoteUnavailable, got %v", err)
			}
		})
	})

	t.Run("CreatePlaylist", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/me/playlists", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if body["name"] != "Mix" || body["public"] != true {
				t.Errorf("unexpected body %v", body)
			}
			writeJSON(t, w, map[string]any{
				"id": "new-pl", "name": "Mix",
				"external_urls": map[string]any{"spotify": "https://open.spotify.com/playlist/new-pl"},
			})
		})

		svc, _ := newTestService(t, mux)

		created, err := svc.CreatePlaylist(context.Background(), "Mix", "desc", true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if created.ID != "new-pl" || created.URL == "" {
			t.Errorf("unexpected creation result %+v", created)
		}
	})

	t.Run("AddPlaylistItems", func(t *testing.T) {
		t.Run("Posts URIs", func(t *testing.T) {
			var gotURIs []string
			mux := http.NewServeMux()
			mux.HandleFunc("/playlists/pl1/items", func(w http.ResponseWriter, r *http.Request) {
				var body struct {
					URIs []string `json:"uris"`
				}
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
					t.Fatalf("failed to decode body: %v", err)
				}
				gotURIs = body.URIs
				writeJSON(t, w, map[string]any{"snapshot_id": "snap"})
			})

			svc, _ := newTestService(t, mux)

			err := svc.AddPlaylistItems(context.Background(), "pl1", []string{"spotify:track:a", "spotify:track:b"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(gotURIs) != 2 {
				t.Errorf("expected 2 uris posted, got %v", gotURIs)
			}
		})

		t.Run("Rejects Oversized Batch", func(t *testing.T) {
			svc, _ := newTestService(t, http.NewServeMux())

			uris := make([]string, 101)
			for i := range uris {
				uris[i] = fmt.Sprintf("spotify:track:%d", i)
			}
			if err := svc.AddPlaylistItems(context.Background(), "pl1", uris); !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	})

	t.Run("CurrentUser", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, map[string]any{
				"id":     "user-1",
				"images": []any{map[string]any{"url": "http://avatar"}},
			})
		})

		svc, _ := newTestService(t, mux)

		profile, err := svc.CurrentUser(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if profile.ID != "user-1" {
			t.Errorf("unexpected id %s", profile.ID)
		}
		if profile.DisplayName != "user-1" {
			t.Errorf("expected display name fallback to id, got %s", profile.DisplayName)
		}
		if profile.AvatarURL != "http://avatar" {
			t.Errorf("unexpected avatar %s", profile.AvatarURL)
		}
	})
}
