package main

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/reef111qq/playlist-buddy/internal/formatter"
	"github.com/reef111qq/playlist-buddy/internal/library"
	"github.com/reef111qq/playlist-buddy/internal/services"
)

// Chat runs the assistant: an interactive session by default, or a one-shot
// playlist build when --prompt is given.
func (r *Runner) Chat(ctx context.Context, cmd *cli.Command) error {
	userID, err := r.currentUserID(ctx)
	if err != nil {
		return err
	}

	if prompt := cmd.String("prompt"); prompt != "" {
		return r.buildFromPrompt(ctx, userID, prompt, cmd.Bool("public"), true)
	}

	r.writePlain("Chatting about your library. Ask for a playlist to have one built. Ctrl+D to exit.\n\n")

	var history []services.ChatMessage
	scanner := bufio.NewScanner(os.Stdin)
	for {
		r.writePlain("you> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		history = append(history, services.ChatMessage{Role: "user", Content: line})
		reply, err := r.assistant.Chat(ctx, userID, history)
		if err != nil {
			return err
		}
		history = append(history, services.ChatMessage{Role: "assistant", Content: reply})

		if prompt, ok := library.ExtractPlaylistPrompt(reply); ok {
			r.writePlain("buddy> %s\n", strings.TrimSpace(strings.Split(reply, library.PlaylistPromptMarker)[0]))
			if err := r.buildFromPrompt(ctx, userID, prompt, cmd.Bool("public"), false); err != nil {
				r.writePlain("⚠ %v\n", err)
			}
			continue
		}

		r.writePlain("buddy> %s\n", reply)
	}

	return scanner.Err()
}

// buildFromPrompt asks the assistant for a selection and commits it after
// confirmation. autoConfirm skips the prompt for one-shot invocations.
func (r *Runner) buildFromPrompt(ctx context.Context, userID, prompt string, public, autoConfirm bool) error {
	r.writePlain("→ Picking tracks for: %s\n", prompt)

	suggestion, err := r.assistant.SuggestPlaylist(ctx, userID, prompt)
	if err != nil {
		return err
	}

	r.writePlain("\n%s (%s):\n", suggestion.Name,
		formatter.FormatCount(len(suggestion.Tracks), "track", "tracks"))
	r.writePlain("%s\n", formatter.TracksToText(suggestion.Tracks))

	if !autoConfirm && !r.confirm("Create this playlist? [y/N] ") {
		r.writePlain("Skipped.\n")
		return nil
	}

	ids := make([]string, len(suggestion.Tracks))
	for i, track := range suggestion.Tracks {
		ids[i] = track.ID
	}

	result, err := r.engine.CreateFromSelection(ctx, userID, suggestion.Name, ids, public)
	if err != nil {
		return err
	}

	r.writePlain("✓ Created '%s' with %s\n", result.Playlist.Name,
		formatter.FormatCount(result.Added, "track", "tracks"))
	return nil
}

func (r *Runner) confirm(prompt string) bool {
	r.writePlain("%s", prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}
