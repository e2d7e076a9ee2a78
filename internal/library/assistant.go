package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/reef111qq/playlist-buddy/internal/catalog"
	"github.com/reef111qq/playlist-buddy/internal/services"
	"github.com/reef111qq/playlist-buddy/internal/shared"
)

// Wire markers the model is instructed to emit. The chat flow uses
// PlaylistPromptMarker to hand off a playlist request; the creator flow
// returns its picks under SelectionMarker.
const (
	PlaylistPromptMarker = "[PLAYLIST_PROMPT]"
	SelectionMarker      = "[PLAYLIST_SELECTION]"
)

// ChatCompleter is the completion surface the assistant needs, satisfied by
// [services.ChatService].
type ChatCompleter interface {
	Complete(ctx context.Context, systemPrompt string, history []services.ChatMessage) (string, error)
}

// BuildChatPrompt renders the system prompt for the conversational flow,
// grounding the model in the user's library summary.
func BuildChatPrompt(summary string) string {
	var b strings.Builder
	b.WriteString("You are Playlist Buddy, a music assistant that knows the user's library.\n")
	b.WriteString("Answer questions about their music using only the library below.\n")
	b.WriteString("When the user asks you to create or build a playlist, reply with a short confirmation followed by a line of the form:\n")
	b.WriteString(PlaylistPromptMarker + " <one-sentence description of the requested playlist>\n")
	b.WriteString("Never invent songs that are not in the library.\n\n")
	b.WriteString(summary)
	return b.String()
}

// BuildCreatorPrompt renders the system prompt for the playlist-creator flow.
// songList is the full catalog in "id | name — artist" lines.
func BuildCreatorPrompt(songList string) string {
	var b strings.Builder
	b.WriteString("You select songs for a playlist. Choose only from the catalog below.\n")
	b.WriteString("Reply with exactly this structure:\n")
	b.WriteString("NAME: <playlist name>\n")
	b.WriteString(SelectionMarker + "\n")
	b.WriteString("<one track id per line, copied verbatim from the catalog>\n\n")
	b.WriteString("=== CATALOG ===\n")
	b.WriteString(songList)
	return b.String()
}

// ExtractPlaylistPrompt returns the playlist description a chat reply handed
// off, if any.
func ExtractPlaylistPrompt(reply string) (string, bool) {
	idx := strings.Index(reply, PlaylistPromptMarker)
	if idx < 0 {
		return "", false
	}

	rest := reply[idx+len(PlaylistPromptMarker):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	prompt := strings.TrimSpace(rest)
	return prompt, prompt != ""
}

// ParseSelection extracts the playlist name and track ids from a creator
// reply. Lines after the selection marker are scanned for well-formed ids;
// anything else on a line (bullets, commentary) is ignored.
func ParseSelection(reply string) (string, []string) {
	name := ""
	var ids []string

	inSelection := false
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)

		if !inSelection {
			if rest, ok := strings.CutPrefix(line, "NAME:"); ok {
				name = strings.TrimSpace(rest)
			}
			if strings.Contains(line, SelectionMarker) {
				inSelection = true
			}
			continue
		}

		for _, field := range strings.Fields(line) {
			field = strings.Trim(field, ",.|-")
			if trackIDPattern.MatchString(field) {
				ids = append(ids, field)
			}
		}
	}

	return name, ids
}

// Suggestion is a model-proposed playlist: a name and the catalog tracks it
// selected, in the model's order.
type Suggestion struct {
	Name   string
	Tracks []catalog.Track
}

// Assistant layers the chat flows on top of the engine.
type Assistant struct {
	engine *Engine
	chat   ChatCompleter
	logger *log.Logger
}

func NewAssistant(engine *Engine, chat ChatCompleter, logger *log.Logger) *Assistant {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Assistant{engine: engine, chat: chat, logger: logger}
}

// Chat answers a conversational turn grounded in the user's library. The
// reply may carry a [PlaylistPromptMarker] handoff; callers detect it with
// [ExtractPlaylistPrompt].
func (a *Assistant) Chat(ctx context.Context, userID string, history []services.ChatMessage) (string, error) {
	summary, err := a.engine.Summary(ctx, userID)
	if err != nil {
		return "", err
	}
	return a.chat.Complete(ctx, BuildChatPrompt(summary), history)
}

// SuggestPlaylist asks the model to pick catalog tracks matching the prompt.
// Ids the model invents are dropped; when nothing valid remains the
// suggestion fails with [shared.ErrNoValidTracks].
func (a *Assistant) SuggestPlaylist(ctx context.Context, userID, prompt string) (*Suggestion, error) {
	snap, err := a.engine.EnsureLoaded(ctx, userID)
	if err != nil {
		return nil, err
	}

	reply, err := a.chat.Complete(ctx, BuildCreatorPrompt(catalog.SongList(snap.Tracks)), []services.ChatMessage{
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return nil, err
	}

	name, ids := ParseSelection(reply)
	if name == "" {
		name = "Playlist Buddy Mix"
	}

	byID := make(map[string]catalog.Track, len(snap.Tracks))
	for _, t := range snap.Tracks {
		byID[t.ID] = t
	}

	var tracks []catalog.Track
	seen := make(map[string]struct{}, len(ids))
	invented := 0
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		track, ok := byID[id]
		if !ok {
			invented++
			continue
		}
		tracks = append(tracks, track)
	}

	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: model selected no catalog tracks", shared.ErrNoValidTracks)
	}
	if invented > 0 {
		a.logger.Warn("dropped invented track ids from suggestion", "count", invented)
	}

	return &Suggestion{Name: name, Tracks: tracks}, nil
}
