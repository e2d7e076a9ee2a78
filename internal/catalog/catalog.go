package catalog

// SourceLiked tags tracks that came from the user's saved songs.
const SourceLiked = "liked"

// Track is the canonical shape every raw record normalizes into.
// ID is always non-empty; records without one are discarded before a Track exists.
type Track struct {
	ID        string   `json:"id"`
	URI       string   `json:"uri"`
	Name      string   `json:"name"`
	Artist    string   `json:"artist"` // Primary (first) artist name
	ArtistIDs []string `json:"all_artist_ids"`
	Album     string   `json:"album"`
	Source    string   `json:"source"` // "liked" or "playlist:<name>"
}

// PlaylistSummary is the metadata kept for each playlist the user owns or follows.
type PlaylistSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	TrackCount  int    `json:"tracks"`
	ImageURL    string `json:"image,omitempty"`
	Owner       string `json:"owner"`
	Description string `json:"description"`
}

// GenreIndex maps an artist identifier to the raw genre strings the remote
// API reports for it. Entries are additive during a build; a failed lookup
// leaves the artist absent rather than nulling anything out.
type GenreIndex map[string][]string

// ArtistIDs returns every distinct artist identifier referenced by tracks,
// in first-seen order.
func ArtistIDs(tracks []Track) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, t := range tracks {
		for _, id := range t.ArtistIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

// TopArtist is an entry from the user's listening history, ranked by affinity.
type TopArtist struct {
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
	Rank   int      `json:"rank"`
}

// TopTrack is a track from the user's recent listening history.
type TopTrack struct {
	Name   string `json:"name"`
	Artist string `json:"artist"`
}
