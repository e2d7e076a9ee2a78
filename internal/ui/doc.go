// Package ui implements the interactive match workflow using bubbletea's Elm
// architecture.
//
// The TUI walks the user through growing a playlist:
//  1. [PlaylistPickView] : Choose the target playlist
//  2. [GenrePickView] : Toggle the genre categories to match on
//  3. [MatchingView] : Wait while the engine finds candidates
//  4. [CandidateView] : Review the matched tracks
//  5. [ConfirmView] : Confirm the append
//  6. [DoneView] : Show what was added
//
// The [Model] implements the standard Init/Update/View pattern. Engine calls
// run as commands so the interface never blocks on the network. Keyboard
// navigation uses vim-style bindings (j/k, space, enter, esc, y/n, q) with
// contextual help from charmbracelet/bubbles/help.
package ui
