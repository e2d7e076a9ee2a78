package catalog

// RawRecord is a loosely typed JSON object from the remote API.
//
// Accessors return zero values rather than errors so callers can probe
// alternate field names cheaply.
type RawRecord map[string]any

// FirstObject returns the first key in keys whose value is a JSON object.
// The key order encodes schema preference: newer API field names go first.
func (r RawRecord) FirstObject(keys ...string) (RawRecord, bool) {
	for _, key := range keys {
		if obj, ok := r[key].(map[string]any); ok {
			return RawRecord(obj), true
		}
	}
	return nil, false
}

// StringField returns the string value at key, or "" when absent or non-string.
func (r RawRecord) StringField(key string) string {
	s, _ := r[key].(string)
	return s
}

// IntField returns the numeric value at key as an int. JSON numbers decode as
// float64, so both representations are accepted.
func (r RawRecord) IntField(key string) int {
	switch v := r[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// ObjectList returns the array of JSON objects at key, skipping entries of
// any other type.
func (r RawRecord) ObjectList(key string) []RawRecord {
	items, ok := r[key].([]any)
	if !ok {
		return nil
	}

	var objs []RawRecord
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			objs = append(objs, RawRecord(obj))
		}
	}
	return objs
}

// unknownName stands in for any missing display field.
const unknownName = "Unknown"

// Normalize maps a raw track record into the canonical [Track] shape.
//
// Records without an id are discarded (second return false); they are counted
// by callers but never admitted into the catalog. The URI is derived from the
// id when the record omits it, and the primary artist falls back to "Unknown"
// when the artist list is empty. Pure: no side effects, no network.
func Normalize(raw RawRecord) (Track, bool) {
	id := raw.StringField("id")
	if id == "" {
		return Track{}, false
	}

	track := Track{
		ID:     id,
		URI:    raw.StringField("uri"),
		Name:   raw.StringField("name"),
		Artist: unknownName,
		Album:  unknownName,
	}

	if track.URI == "" {
		track.URI = TrackURI(id)
	}
	if track.Name == "" {
		track.Name = unknownName
	}

	artists := raw.ObjectList("artists")
	if len(artists) > 0 {
		if name := artists[0].StringField("name"); name != "" {
			track.Artist = name
		}
	}
	for _, artist := range artists {
		if aid := artist.StringField("id"); aid != "" {
			track.ArtistIDs = append(track.ArtistIDs, aid)
		}
	}

	if album, ok := raw.FirstObject("album"); ok {
		if name := album.StringField("name"); name != "" {
			track.Album = name
		}
	}

	return track, true
}

// TrackURI derives the playable reference for a track id.
func TrackURI(id string) string {
	return "spotify:track:" + id
}
