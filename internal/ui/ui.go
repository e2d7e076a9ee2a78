package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/reef111qq/playlist-buddy/internal/catalog"
	"github.com/reef111qq/playlist-buddy/internal/library"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistPickView ViewState = iota
	GenrePickView
	MatchingView
	CandidateView
	ConfirmView
	DoneView
)

type playlistsFetchedMsg struct {
	playlists []catalog.PlaylistSummary
	err       error
}

type candidatesFoundMsg struct {
	candidates []catalog.Track
	err        error
}

type commitDoneMsg struct {
	result *library.CommitResult
	err    error
}

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	engine *library.Engine
	userID string

	view   ViewState
	width  int
	height int

	playlistList list.Model
	target       catalog.PlaylistSummary

	genres   []genreItem
	cursor   int
	selected map[string]struct{}

	candidateList list.Model
	candidates    []catalog.Track

	result *library.CommitResult
	err    error

	help help.Model
	keys keyMap
}

// NewModel creates a TUI model over the aggregation engine.
func NewModel(ctx context.Context, engine *library.Engine, userID string) *Model {
	genres := make([]genreItem, 0)
	for _, category := range catalog.Categories() {
		genres = append(genres, genreItem{name: category})
	}

	return &Model{
		ctx:      ctx,
		engine:   engine,
		userID:   userID,
		view:     PlaylistPickView,
		genres:   genres,
		selected: make(map[string]struct{}),
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init starts the workflow by loading the user's playlists.
func (m *Model) Init() tea.Cmd {
	return m.fetchPlaylists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.playlistList.Width() == 0 {
			m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.candidateList.Width() == 0 {
			m.candidateList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PlaylistPickView:
			return m.handlePlaylistPickKeys(msg)
		case GenrePickView:
			return m.handleGenrePickKeys(msg)
		case CandidateView:
			return m.handleCandidateKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case DoneView:
			return m.handleDoneKeys(msg)
		}

	case playlistsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		items := make([]list.Item, len(msg.playlists))
		for i, pl := range msg.playlists {
			items[i] = playlistItem{playlist: pl}
		}
		m.playlistList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.playlistList.Title = "Pick a playlist to grow"
		m.playlistList.SetSize(m.width-4, m.height-8)
		return m, nil

	case candidatesFoundMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = GenrePickView
			return m, nil
		}
		m.candidates = msg.candidates
		items := make([]list.Item, len(msg.candidates))
		for i, track := range msg.candidates {
			items[i] = candidateItem{track: track}
		}
		m.candidateList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.candidateList.Title = fmt.Sprintf("%d candidates for '%s'", len(msg.candidates), m.target.Name)
		m.candidateList.SetSize(m.width-4, m.height-8)
		m.view = CandidateView
		return m, nil

	case commitDoneMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = DoneView
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != DoneView && m.view != GenrePickView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case PlaylistPickView:
		return m.renderPlaylistPick()
	case GenrePickView:
		return m.renderGenrePick()
	case MatchingView:
		return styles.title.Render("Matching") + "\n\nScanning your library for matching tracks..."
	case CandidateView:
		return m.renderCandidates()
	case ConfirmView:
		return m.renderConfirm()
	case DoneView:
		return m.renderDone()
	default:
		return ""
	}
}

func (m *Model) handlePlaylistPickKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		if selected := m.playlistList.SelectedItem(); selected != nil {
			if pl, ok := selected.(playlistItem); ok {
				m.target = pl.playlist
				m.view = GenrePickView
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleGenrePickKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = PlaylistPickView
		return m, nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.genres)-1 {
			m.cursor++
		}
	case " ":
		item := &m.genres[m.cursor]
		item.selected = !item.selected
		if item.selected {
			m.selected[item.name] = struct{}{}
		} else {
			delete(m.selected, item.name)
		}
	case "enter":
		if len(m.selected) > 0 {
			m.err = nil
			m.view = MatchingView
			return m, m.findCandidates()
		}
	}
	return m, nil
}

func (m *Model) handleCandidateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = GenrePickView
		return m, nil
	case "enter":
		if len(m.candidates) > 0 {
			m.view = ConfirmView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.candidateList, cmd = m.candidateList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n":
		m.view = CandidateView
		return m, nil
	case "y":
		return m, m.commit()
	}
	return m, nil
}

func (m *Model) handleDoneKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "enter":
		return m, tea.Quit
	case "r":
		m.view = PlaylistPickView
		m.result = nil
		m.err = nil
		m.candidates = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PlaylistPickView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case CandidateView:
		m.candidateList, cmd = m.candidateList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.engine.Playlists(m.ctx, m.userID)
		return playlistsFetchedMsg{playlists: playlists, err: err}
	}
}

func (m *Model) findCandidates() tea.Cmd {
	genres := make([]string, 0, len(m.selected))
	for _, item := range m.genres {
		if item.selected {
			genres = append(genres, item.name)
		}
	}

	return func() tea.Msg {
		candidates, err := m.engine.FindCandidates(m.ctx, m.userID, m.target.ID, genres)
		return candidatesFoundMsg{candidates: candidates, err: err}
	}
}

func (m *Model) commit() tea.Cmd {
	ids := make([]string, len(m.candidates))
	for i, track := range m.candidates {
		ids[i] = track.ID
	}

	return func() tea.Msg {
		result, err := m.engine.AppendTracks(m.ctx, m.userID, m.target.ID, ids)
		return commitDoneMsg{result: result, err: err}
	}
}

func (m *Model) renderPlaylistPick() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), helpView)
}

func (m *Model) renderGenrePick() string {
	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("Genres for '%s'", m.target.Name)))
	b.WriteString("\n\n")

	for i, item := range m.genres {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(cursor + item.Title() + "\n")
	}

	if m.err != nil {
		b.WriteString("\n" + styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n")
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.toggle, m.keys.enter, m.keys.back, m.keys.quit})
	b.WriteString("\n" + helpView)
	return b.String()
}

func (m *Model) renderCandidates() string {
	if len(m.candidates) == 0 {
		title := styles.warn.Render("No matching tracks found")
		helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
		return fmt.Sprintf("%s\n\n%s", title, helpView)
	}

	addKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add all"))
	helpView := m.help.ShortHelpView([]key.Binding{addKey, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.candidateList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Add %d tracks to '%s'?", len(m.candidates), m.target.Name))
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no, m.keys.quit})
	return fmt.Sprintf("%s\n%s", title, helpView)
}

func (m *Model) renderDone() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Commit failed: %v\n\nPress r to start over, q to quit", m.err))
	}
	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to start over, q to quit")
	}

	title := styles.ok.Render("Done!")
	info := fmt.Sprintf("\nAdded %d tracks to '%s'", m.result.Added, m.target.Name)
	if m.result.Skipped > 0 {
		info += styles.warn.Render(fmt.Sprintf(" (%d skipped)", m.result.Skipped))
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.restart, m.keys.quit})
	return fmt.Sprintf("%s%s\n\n%s", title, info, helpView)
}
