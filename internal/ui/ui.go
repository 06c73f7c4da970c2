package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/spindle/internal/models"
	"github.com/desertthunder/spindle/internal/player"
	"github.com/desertthunder/spindle/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistListView ViewState = iota
	TrackListView
	AddView
	CreateView
)

// trackSource identifies what the track list is showing.
type trackSource int

const (
	sourcePlaylist trackSource = iota
	sourceRecent
	sourceQueue
)

const (
	volumeStep   = 5
	redrawPeriod = time.Second
	chromeHeight = 10
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	session      *player.Session
	events       <-chan player.Event
	logger       *log.Logger
	view         ViewState
	width        int
	height       int
	playlistList list.Model
	trackList    list.Model
	addList      list.Model
	input        textinput.Model
	source       trackSource
	selected     models.Playlist
	context      []models.Track
	pending      *models.Track
	status       string
	err          error
	bar          progress.Model
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model over session. events is usually the channel of a [player.ChannelNotifier]
// passed to the session; it may be nil.
func NewModel(ctx context.Context, session *player.Session, events <-chan player.Event, logger *log.Logger) *Model {
	input := textinput.New()
	input.Placeholder = "Playlist name"
	input.CharLimit = 64

	return &Model{
		ctx:          ctx,
		session:      session,
		events:       events,
		logger:       shared.WithLogger(logger, "component", "ui"),
		view:         PlaylistListView,
		playlistList: newList("Playlists", nil, 0, 0),
		trackList:    newList("", nil, 0, 0),
		addList:      newList("Add to playlist", nil, 0, 0),
		input:        input,
		bar:          progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		help:         help.New(),
		keys:         newKeyMap(),
	}
}

// Init loads the playlists, starts listening for session events and schedules the first redraw.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadPlaylists(), m.waitForEvent(), tick())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		switch msg.kind {
		case MsgPlaylistsLoaded:
			m.setPlaylists(msg.data.([]models.Playlist))
			return m, nil
		case MsgSessionEvent:
			e := msg.data.(player.Event)
			m.status = e.Message()
			if e.Kind != player.NowPlaying {
				m.setPlaylists(m.session.Playlists())
			}
			return m, m.waitForEvent()
		case MsgTick:
			if m.view == TrackListView && m.source != sourcePlaylist {
				m.refreshTracks()
			}
			return m, tick()
		case MsgEventsClosed:
			return m, nil
		}
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case PlaylistListView:
		body = m.renderList(m.playlistList, m.keys.enter, m.keys.create, m.keys.recent, m.keys.queue, m.keys.quit)
	case TrackListView:
		play := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play"))
		body = m.renderList(m.trackList, play, m.keys.add, m.keys.back, m.keys.quit)
	case AddView:
		body = m.renderList(m.addList, m.keys.enter, m.keys.back)
	case CreateView:
		body = m.renderCreate()
	}

	return fmt.Sprintf("%s\n%s\n%s", body, m.renderStatus(), m.renderPlayer())
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.view == CreateView {
		return m.handleCreateKeys(msg)
	}
	if m.filtering() {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggle):
		m.session.TogglePlayPause()
		return m, nil
	case key.Matches(msg, m.keys.next):
		m.session.NextTrack()
		return m, nil
	case key.Matches(msg, m.keys.prev):
		m.session.PreviousTrack()
		return m, nil
	case key.Matches(msg, m.keys.volumeUp):
		m.session.SetVolume(m.session.Snapshot().Volume + volumeStep)
		return m, nil
	case key.Matches(msg, m.keys.volumeDown):
		m.session.SetVolume(m.session.Snapshot().Volume - volumeStep)
		return m, nil
	case key.Matches(msg, m.keys.mute):
		m.session.ToggleMute()
		return m, nil
	case key.Matches(msg, m.keys.playlists):
		m.view = PlaylistListView
		return m, nil
	case key.Matches(msg, m.keys.recent):
		m.showTracks(sourceRecent, "Recently Played", m.session.RecentlyPlayed(), nil, "")
		return m, nil
	case key.Matches(msg, m.keys.queue):
		m.showTracks(sourceQueue, "Up Next", m.session.Queue(), nil, "")
		return m, nil
	}

	switch m.view {
	case PlaylistListView:
		return m.handlePlaylistListKeys(msg)
	case TrackListView:
		return m.handleTrackListKeys(msg)
	case AddView:
		return m.handleAddKeys(msg)
	}
	return m, nil
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.enter):
		if pl, ok := m.playlistList.SelectedItem().(playlistItem); ok {
			m.selected = pl.playlist
			m.showTracks(sourcePlaylist, pl.playlist.Name, pl.playlist.Tracks, pl.playlist.Tracks, pl.playlist.Color)
		}
		return m, nil
	case key.Matches(msg, m.keys.create):
		m.view = CreateView
		m.input.Reset()
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.back):
		return m, nil
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.view = PlaylistListView
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if it, ok := m.trackList.SelectedItem().(trackItem); ok {
			m.session.PlayTrack(it.track, m.context)
			if m.source == sourceQueue {
				m.refreshTracks()
			}
		}
		return m, nil
	case key.Matches(msg, m.keys.add):
		if it, ok := m.trackList.SelectedItem().(trackItem); ok {
			track := it.track
			m.pending = &track
			m.addList = newList(fmt.Sprintf("Add '%s' to playlist", track.Title),
				playlistItems(m.session.Playlists()), m.width-4, m.height-chromeHeight)
			m.view = AddView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleAddKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.pending = nil
		m.view = TrackListView
		return m, nil
	case key.Matches(msg, m.keys.enter):
		pl, ok := m.addList.SelectedItem().(playlistItem)
		if ok && m.pending != nil {
			err := m.session.AddToPlaylist(m.ctx, pl.playlist.ID, *m.pending)
			if err != nil && !errors.Is(err, shared.ErrPlaylistNotFound) {
				m.logger.Error("add to playlist", "err", err)
				m.err = err
			}
			m.setPlaylists(m.session.Playlists())
			m.refreshSelected()
		}
		m.pending = nil
		m.view = TrackListView
		return m, nil
	}

	var cmd tea.Cmd
	m.addList, cmd = m.addList.Update(msg)
	return m, cmd
}

func (m *Model) handleCreateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.input.Blur()
		m.view = PlaylistListView
		return m, nil
	case tea.KeyEnter:
		_, err := m.session.CreatePlaylist(m.ctx, m.input.Value(), "")
		if errors.Is(err, shared.ErrMissingArgument) {
			m.err = errors.New("playlist name is required")
			return m, nil
		}
		if err != nil {
			m.logger.Error("create playlist", "err", err)
			m.err = err
		} else {
			m.err = nil
		}
		m.input.Blur()
		m.setPlaylists(m.session.Playlists())
		m.playlistList.Select(len(m.playlistList.Items()) - 1)
		m.view = PlaylistListView
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PlaylistListView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case TrackListView:
		m.trackList, cmd = m.trackList.Update(msg)
	case AddView:
		m.addList, cmd = m.addList.Update(msg)
	case CreateView:
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m *Model) filtering() bool {
	switch m.view {
	case PlaylistListView:
		return m.playlistList.FilterState() == list.Filtering
	case TrackListView:
		return m.trackList.FilterState() == list.Filtering
	case AddView:
		return m.addList.FilterState() == list.Filtering
	}
	return false
}

func (m *Model) setPlaylists(playlists []models.Playlist) {
	index := m.playlistList.Index()
	m.playlistList.SetItems(playlistItems(playlists))
	if index < len(playlists) {
		m.playlistList.Select(index)
	}
}

// showTracks switches to the track list. contextList becomes the queue source when a track is played.
func (m *Model) showTracks(source trackSource, title string, tracks, contextList []models.Track, accent models.Accent) {
	m.source = source
	m.context = contextList
	m.trackList = newList(title, trackItems(tracks), m.width-4, m.height-chromeHeight)
	if accent != "" {
		m.trackList.Styles.Title = accentTitle(accent)
	}
	m.view = TrackListView
}

// refreshTracks reloads the recently played list or queue in place.
func (m *Model) refreshTracks() {
	var tracks []models.Track
	switch m.source {
	case sourceRecent:
		tracks = m.session.RecentlyPlayed()
	case sourceQueue:
		tracks = m.session.Queue()
	default:
		return
	}

	index := m.trackList.Index()
	m.trackList.SetItems(trackItems(tracks))
	if index < len(tracks) {
		m.trackList.Select(index)
	}
}

// refreshSelected reloads the open playlist after it may have changed.
func (m *Model) refreshSelected() {
	if m.source != sourcePlaylist {
		return
	}
	if p, ok := m.session.Playlist(m.selected.ID); ok {
		m.selected = p
		m.context = p.Tracks
		m.trackList.SetItems(trackItems(p.Tracks))
	}
}

func (m *Model) resize() {
	w, h := max(m.width-4, 0), max(m.height-chromeHeight, 0)
	m.playlistList.SetSize(w, h)
	m.trackList.SetSize(w, h)
	m.addList.SetSize(w, h)
	m.bar.Width = max(min(m.width-4, 60), 10)
}

func (m *Model) loadPlaylists() tea.Cmd {
	return func() tea.Msg {
		return playlistsLoadedMsg(m.session.Playlists())
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		if m.events == nil {
			return eventsClosedMsg()
		}

		e, ok := <-m.events
		if !ok {
			return eventsClosedMsg()
		}
		return sessionEventMsg(e)
	}
}

func tick() tea.Cmd {
	return tea.Tick(redrawPeriod, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) renderList(l list.Model, keys ...key.Binding) string {
	return fmt.Sprintf("%s\n\n%s", l.View(), m.help.ShortHelpView(keys))
}

func (m *Model) renderCreate() string {
	title := styles.title.Render("New Playlist")
	helpView := m.help.ShortHelpView([]key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "create")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	})
	return fmt.Sprintf("%s\n%s\n\n%s", title, m.input.View(), helpView)
}

func (m *Model) renderStatus() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if m.status != "" {
		return styles.ok.Render(m.status)
	}
	return ""
}

// renderPlayer draws the now-playing bar.
func (m *Model) renderPlayer() string {
	st := m.session.Snapshot()
	if st.Current == nil {
		return styles.help.Render("Nothing playing")
	}

	icon := "⏸"
	switch st.Status {
	case player.Playing:
		icon = "▶"
	case player.EndOfQueue:
		icon = "■"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s • %s\n", icon, styles.title.UnsetMarginBottom().Render(st.Current.Title), st.Current.Artist)
	fmt.Fprintf(&b, "%s %s / %s\n", m.bar.ViewAs(st.Progress), models.FormatSeconds(st.Elapsed), st.Current.Duration)

	volume := fmt.Sprintf("Vol %d%%", st.Volume)
	if st.Volume == 0 {
		volume = styles.warn.Render("Muted")
	}
	b.WriteString(styles.help.Render(fmt.Sprintf("%s • %d up next • %s", volume, len(st.Queue), st.Status)))

	return b.String()
}
