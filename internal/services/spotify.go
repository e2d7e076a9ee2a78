// Spotify Web API implementation of [Catalog] and [ArtistAPI].
//
// The Feb 2026 API revision renamed several endpoints and response fields
// (playlist tracks moved to /playlists/{id}/items, the entry payload moved
// from "track" to "item", the playlist count from "tracks" to "items", and
// the batch GET /artists endpoint was removed). The client probes the
// candidate field names in order instead of assuming one shape, and keeps
// working against both revisions.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/reef111qq/playlist-buddy/internal/catalog"
	"github.com/reef111qq/playlist-buddy/internal/shared"
)

const (
	spotifyBaseURL  = "https://api.spotify.com/v1"
	defaultPageSize = 50
	maxAppendURIs   = 100
)

// Candidate keys for schema-drifting fields, probed in order.
var (
	playlistEntryKeys = []string{"item", "track"}  // Playlist entry payload, new name first
	savedEntryKeys    = []string{"track", "item"}  // Saved-songs entry payload
	playlistCountKeys = []string{"items", "tracks"} // Playlist track-count wrapper
)

// SpotifyService issues authenticated, paginated requests against the
// Spotify Web API.
type SpotifyService struct {
	baseURL    string
	tokens     TokenProvider
	httpClient *http.Client
	pageSize   int
	logger     *log.Logger
}

// SpotifyOpts contains optional settings for [NewSpotifyService].
type SpotifyOpts struct {
	BaseURL    string       // Defaults to the public API
	HTTPClient *http.Client // Defaults to http.DefaultClient
	PageSize   int          // Items per page, clamped to 1..50
	Logger     *log.Logger
}

// NewSpotifyService creates a Spotify client that authenticates every request
// through the given token provider.
func NewSpotifyService(tokens TokenProvider, opts SpotifyOpts) *SpotifyService {
	if opts.BaseURL == "" {
		opts.BaseURL = spotifyBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.PageSize <= 0 || opts.PageSize > defaultPageSize {
		opts.PageSize = defaultPageSize
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &SpotifyService{
		baseURL:    opts.BaseURL,
		tokens:     tokens,
		httpClient: opts.HTTPClient,
		pageSize:   opts.PageSize,
		logger:     opts.Logger,
	}
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// do performs one authenticated request and decodes the JSON response.
// fullURL must be absolute: pagination follows the "next" URLs the API hands
// back verbatim.
func (s *SpotifyService) do(ctx context.Context, method, fullURL string, body any) (catalog.RawRecord, error) {
	token, err := s.tokens.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: status 401", shared.ErrNotAuthenticated)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, fullURL)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: status %d", shared.ErrRemoteUnavailable, resp.StatusCode)
	}

	if resp.ContentLength == 0 {
		return catalog.RawRecord{}, nil
	}

	var record catalog.RawRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		if errors.Is(err, io.EOF) {
			return catalog.RawRecord{}, nil
		}
		return nil, fmt.Errorf("%w: malformed response: %v", shared.ErrRemoteUnavailable, err)
	}

	return record, nil
}

func (s *SpotifyService) get(ctx context.Context, fullURL string) (catalog.RawRecord, error) {
	return s.do(ctx, http.MethodGet, fullURL, nil)
}

func (s *SpotifyService) post(ctx context.Context, path string, body any) (catalog.RawRecord, error) {
	return s.do(ctx, http.MethodPost, s.baseURL+path, body)
}

// walkPages follows the cursor protocol: fetch the first page, visit it, then
// follow the "next" URL until it is null. Any page failure is terminal for
// the run; pages already visited stay visited, the failing page never is.
func (s *SpotifyService) walkPages(ctx context.Context, firstURL string, visit func(page catalog.RawRecord)) error {
	pageURL := firstURL
	for pageURL != "" {
		page, err := s.get(ctx, pageURL)
		if err != nil {
			return err
		}
		visit(page)
		pageURL = page.StringField("next")
	}
	return nil
}

// CurrentUser retrieves the authenticated user's profile.
func (s *SpotifyService) CurrentUser(ctx context.Context) (*UserProfile, error) {
	record, err := s.get(ctx, s.baseURL+"/me")
	if err != nil {
		return nil, err
	}

	id := record.StringField("id")
	if id == "" {
		return nil, fmt.Errorf("%w: user profile without id", shared.ErrRemoteUnavailable)
	}

	profile := &UserProfile{ID: id, DisplayName: record.StringField("display_name")}
	if profile.DisplayName == "" {
		profile.DisplayName = id
	}
	if images := record.ObjectList("images"); len(images) > 0 {
		profile.AvatarURL = images[0].StringField("url")
	}

	return profile, nil
}

// SavedTracks accumulates every page of GET /me/tracks, returning the raw
// track payload of each entry. On a mid-run page failure the entries
// accumulated so far are returned alongside the error.
func (s *SpotifyService) SavedTracks(ctx context.Context) ([]catalog.RawRecord, error) {
	var records []catalog.RawRecord

	first := fmt.Sprintf("%s/me/tracks?limit=%d", s.baseURL, s.pageSize)
	err := s.walkPages(ctx, first, func(page catalog.RawRecord) {
		for _, entry := range page.ObjectList("items") {
			if track, ok := entry.FirstObject(savedEntryKeys...); ok {
				records = append(records, track)
			}
		}
	})

	return records, err
}

// Playlists accumulates every page of GET /me/playlists. On a mid-run page
// failure the summaries accumulated so far are returned alongside the error.
func (s *SpotifyService) Playlists(ctx context.Context) ([]catalog.PlaylistSummary, error) {
	var playlists []catalog.PlaylistSummary

	first := fmt.Sprintf("%s/me/playlists?limit=%d", s.baseURL, s.pageSize)
	err := s.walkPages(ctx, first, func(page catalog.RawRecord) {
		for _, entry := range page.ObjectList("items") {
			summary := catalog.PlaylistSummary{
				ID:          entry.StringField("id"),
				Name:        entry.StringField("name"),
				Description: entry.StringField("description"),
			}
			if summary.ID == "" {
				continue
			}
			if summary.Name == "" {
				summary.Name = "Untitled"
			}
			if counts, ok := entry.FirstObject(playlistCountKeys...); ok {
				summary.TrackCount = counts.IntField("total")
			}
			if images := entry.ObjectList("images"); len(images) > 0 {
				summary.ImageURL = images[0].StringField("url")
			}
			if owner, ok := entry.FirstObject("owner"); ok {
				summary.Owner = owner.StringField("display_name")
			}
			playlists = append(playlists, summary)
		}
	})

	return playlists, err
}

// PlaylistItems accumulates every page of GET /playlists/{id}/items,
// returning the raw track payload of each entry. Entries whose payload is
// missing under every candidate key are skipped. On a mid-run page failure
// the entries accumulated so far are returned alongside the error.
func (s *SpotifyService) PlaylistItems(ctx context.Context, playlistID string) ([]catalog.RawRecord, error) {
	var records []catalog.RawRecord

	first := fmt.Sprintf("%s/playlists/%s/items?limit=%d", s.baseURL, url.PathEscape(playlistID), s.pageSize)
	err := s.walkPages(ctx, first, func(page catalog.RawRecord) {
		for _, entry := range page.ObjectList("items") {
			if track, ok := entry.FirstObject(playlistEntryKeys...); ok {
				records = append(records, track)
			}
		}
	})

	return records, err
}

// Artist retrieves one artist's raw genre strings via GET /artists/{id}.
func (s *SpotifyService) Artist(ctx context.Context, artistID string) ([]string, error) {
	record, err := s.get(ctx, s.baseURL+"/artists/"+url.PathEscape(artistID))
	if err != nil {
		return nil, err
	}
	if record.StringField("id") == "" {
		return nil, fmt.Errorf("%w: artist %s response without id", shared.ErrRemoteUnavailable, artistID)
	}

	return stringList(record, "genres"), nil
}

// Artists performs the batch lookup GET /artists?ids=… for up to 50 ids.
//
// The Feb 2026 API removed this endpoint; against current servers the call
// fails and callers degrade to [Artist] per id.
func (s *SpotifyService) Artists(ctx context.Context, artistIDs []string) (map[string][]string, error) {
	if len(artistIDs) == 0 {
		return map[string][]string{}, nil
	}
	if len(artistIDs) > defaultPageSize {
		return nil, fmt.Errorf("%w: maximum %d artist ids per batch", shared.ErrInvalidArgument, defaultPageSize)
	}

	query := url.Values{"ids": {joinIDs(artistIDs)}}
	record, err := s.get(ctx, s.baseURL+"/artists?"+query.Encode())
	if err != nil {
		return nil, err
	}

	genres := make(map[string][]string)
	for _, artist := range record.ObjectList("artists") {
		if id := artist.StringField("id"); id != "" {
			genres[id] = stringList(artist, "genres")
		}
	}
	return genres, nil
}

// TopArtists retrieves the user's top artists for one time range.
func (s *SpotifyService) TopArtists(ctx context.Context, timeRange string) ([]catalog.TopArtist, error) {
	first := fmt.Sprintf("%s/me/top/artists?limit=%d&time_range=%s", s.baseURL, s.pageSize, url.QueryEscape(timeRange))
	record, err := s.get(ctx, first)
	if err != nil {
		return nil, err
	}

	var artists []catalog.TopArtist
	for rank, entry := range record.ObjectList("items") {
		name := entry.StringField("name")
		if entry.StringField("id") == "" || name == "" {
			continue
		}
		artists = append(artists, catalog.TopArtist{
			Name:   name,
			Genres: stringList(entry, "genres"),
			Rank:   rank,
		})
	}
	return artists, nil
}

// TopTracks retrieves the user's medium-term top tracks.
func (s *SpotifyService) TopTracks(ctx context.Context) ([]catalog.TopTrack, error) {
	first := fmt.Sprintf("%s/me/top/tracks?limit=%d&time_range=medium_term", s.baseURL, s.pageSize)
	record, err := s.get(ctx, first)
	if err != nil {
		return nil, err
	}

	var tracks []catalog.TopTrack
	for _, entry := range record.ObjectList("items") {
		if entry.StringField("id") == "" {
			continue
		}
		top := catalog.TopTrack{Name: entry.StringField("name"), Artist: "Unknown"}
		if artists := entry.ObjectList("artists"); len(artists) > 0 {
			if name := artists[0].StringField("name"); name != "" {
				top.Artist = name
			}
		}
		tracks = append(tracks, top)
	}
	return tracks, nil
}

// CreatePlaylist creates a playlist via POST /me/playlists (the revised API
// dropped the /users/{id}/playlists form).
func (s *SpotifyService) CreatePlaylist(ctx context.Context, name, description string, public bool) (*CreatedPlaylist, error) {
	record, err := s.post(ctx, "/me/playlists", map[string]any{
		"name":        name,
		"public":      public,
		"description": description,
	})
	if err != nil {
		return nil, err
	}

	id := record.StringField("id")
	if id == "" {
		return nil, fmt.Errorf("%w: playlist creation response without id", shared.ErrRemoteUnavailable)
	}

	created := &CreatedPlaylist{ID: id, Name: record.StringField("name")}
	if urls, ok := record.FirstObject("external_urls"); ok {
		created.URL = urls.StringField("spotify")
	}
	return created, nil
}

// AddPlaylistItems appends track URIs via POST /playlists/{id}/items. The
// remote API caps one call at 100 URIs; callers chunk larger sets.
func (s *SpotifyService) AddPlaylistItems(ctx context.Context, playlistID string, uris []string) error {
	if len(uris) == 0 {
		return nil
	}
	if len(uris) > maxAppendURIs {
		return fmt.Errorf("%w: maximum %d uris per call", shared.ErrInvalidArgument, maxAppendURIs)
	}

	_, err := s.post(ctx, "/playlists/"+url.PathEscape(playlistID)+"/items", map[string]any{"uris": uris})
	return err
}

func stringList(record catalog.RawRecord, key string) []string {
	items, ok := record[key].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func joinIDs(ids []string) string {
	var buf bytes.Buffer
	for i, id := range ids {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(id)
	}
	return buf.String()
}
