// package services contains clients for the remote collaborators: the
// Spotify Web API (catalog reads and playlist writes), the OAuth2 token
// lifecycle, and the OpenAI-compatible chat completion service.
package services

import (
	"context"

	"github.com/reef111qq/playlist-buddy/internal/catalog"
)

// TokenProvider supplies a valid access token for remote API calls.
//
// Implementations fail with [shared.ErrNotAuthenticated] when no session
// exists or the refresh fails.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

// UserProfile identifies the authenticated remote user.
type UserProfile struct {
	ID          string
	DisplayName string
	AvatarURL   string
}

// CreatedPlaylist is the remote API's response to a playlist creation call.
type CreatedPlaylist struct {
	ID   string
	Name string
	URL  string
}

// Catalog defines the paginated read surface and the commit write surface of
// the remote music API, consumed by the library engine.
//
// Read methods accumulate every page of their resource; item-level results
// stay raw ([catalog.RawRecord]) because field names drift between API
// versions and normalization is the caller's concern.
type Catalog interface {
	// CurrentUser retrieves the authenticated user's profile.
	CurrentUser(ctx context.Context) (*UserProfile, error)

	// SavedTracks accumulates every page of the user's saved songs.
	SavedTracks(ctx context.Context) ([]catalog.RawRecord, error)

	// Playlists accumulates every page of the user's playlists.
	Playlists(ctx context.Context) ([]catalog.PlaylistSummary, error)

	// PlaylistItems accumulates every page of one playlist's tracks.
	PlaylistItems(ctx context.Context, playlistID string) ([]catalog.RawRecord, error)

	// TopArtists retrieves the user's top artists for a time range
	// (short_term, medium_term, long_term).
	TopArtists(ctx context.Context, timeRange string) ([]catalog.TopArtist, error)

	// TopTracks retrieves the user's top tracks.
	TopTracks(ctx context.Context) ([]catalog.TopTrack, error)

	// CreatePlaylist creates a playlist owned by the current user.
	CreatePlaylist(ctx context.Context, name, description string, public bool) (*CreatedPlaylist, error)

	// AddPlaylistItems appends up to 100 track URIs to a playlist.
	AddPlaylistItems(ctx context.Context, playlistID string, uris []string) error
}

// ArtistAPI is the lookup surface the genre resolver strategies are built on.
type ArtistAPI interface {
	// Artist returns the raw genre strings for one artist.
	Artist(ctx context.Context, artistID string) ([]string, error)

	// Artists performs a batch lookup. The hosted API removed this endpoint,
	// so callers must be prepared for a remote failure and degrade to
	// individual lookups.
	Artists(ctx context.Context, artistIDs []string) (map[string][]string, error)
}
