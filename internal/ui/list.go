package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/reef111qq/playlist-buddy/internal/catalog"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = genreItem{}
	_ list.Item = candidateItem{}
)

// playlistItem wraps [catalog.PlaylistSummary] to implement [list.Item].
type playlistItem struct {
	playlist catalog.PlaylistSummary
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string {
	desc := fmt.Sprintf("%d tracks", i.playlist.TrackCount)
	if i.playlist.Description != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.playlist.Description)
	}
	return desc
}

// genreItem is a toggleable genre category.
type genreItem struct {
	name     string
	selected bool
}

func (i genreItem) FilterValue() string { return i.name }
func (i genreItem) Title() string {
	if i.selected {
		return "[x] " + i.name
	}
	return "[ ] " + i.name
}
func (i genreItem) Description() string { return "" }

// candidateItem wraps a matched [catalog.Track] to implement [list.Item].
type candidateItem struct {
	track catalog.Track
}

func (i candidateItem) FilterValue() string { return i.track.Name }
func (i candidateItem) Title() string       { return i.track.Name }
func (i candidateItem) Description() string {
	return fmt.Sprintf("%s • %s", i.track.Artist, i.track.Source)
}
