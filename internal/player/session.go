package player

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spindle/internal/models"
	"github.com/desertthunder/spindle/internal/repositories"
	"github.com/desertthunder/spindle/internal/shared"
	"golang.org/x/time/rate"
)

// DefaultVolume is the volume of a new session.
const DefaultVolume = 80

// Status is the logical player state.
type Status int

const (
	Idle Status = iota
	Playing
	Paused
	EndOfQueue
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	case EndOfQueue:
		return "End of queue"
	default:
		return "Unknown"
	}
}

// PlaylistStore is the playlist collection a session reads and mutates.
type PlaylistStore interface {
	List() []models.Playlist
	FindByID(id string) (models.Playlist, bool)
	Create(ctx context.Context, name, description string) (models.Playlist, error)
	AddTrack(ctx context.Context, playlistID string, track models.Track) (bool, error)
}

// HistoryStore persists the recently played list.
type HistoryStore interface {
	Tracks() []models.Track
	Replace(ctx context.Context, tracks []models.Track) error
}

// State is a point-in-time copy of the session.
type State struct {
	Current  *models.Track
	Playing  bool
	Volume   int
	Queue    []models.Track
	Recent   []models.Track
	Status   Status
	Elapsed  int     // Simulated seconds played of Current
	Total    int     // Length of Current in seconds, 0 if unknown
	Progress float64 // Elapsed/Total in [0,1]
}

// SessionOpts contains the dependencies of a [Session].
type SessionOpts struct {
	Playlists    PlaylistStore
	History      HistoryStore
	Scheduler    Scheduler     // Defaults to [TickerScheduler]
	TickInterval time.Duration // Defaults to one second
	Notifier     Notifier      // Defaults to [Discard]
	Logger       *log.Logger   // Defaults to [shared.NewLogger]
	Volume       *int          // Defaults to [DefaultVolume]
}

// Session is one playback session. It is safe for concurrent use; every command runs under a single lock.
type Session struct {
	mu sync.Mutex

	ctx       context.Context
	playlists PlaylistStore
	history   HistoryStore
	notifier  Notifier
	logger    *log.Logger
	transport *Transport

	current    *models.Track
	playing    bool
	endOfQueue bool
	volume     int
	unmuted    int
	queue      []models.Track
	recent     []models.Track
	closed     bool

	persistWarn rate.Sometimes
}

// NewSession creates an idle session. The recently played list is hydrated from opts.History.
// ctx bounds the history writes made by playback commands.
func NewSession(ctx context.Context, opts SessionOpts) *Session {
	if opts.Scheduler == nil {
		opts.Scheduler = TickerScheduler{}
	}
	if opts.Notifier == nil {
		opts.Notifier = Discard
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	volume := DefaultVolume
	if opts.Volume != nil {
		volume = clampVolume(*opts.Volume)
	}

	s := &Session{
		ctx:         ctx,
		playlists:   opts.Playlists,
		history:     opts.History,
		notifier:    opts.Notifier,
		logger:      shared.WithLogger(opts.Logger, "component", "player"),
		transport:   NewTransport(opts.Scheduler, opts.TickInterval),
		volume:      volume,
		unmuted:     volume,
		persistWarn: rate.Sometimes{First: 1, Interval: 30 * time.Second},
	}
	if s.history != nil {
		s.recent = s.history.Tracks()
	}
	return s
}

// PlayTrack makes track current and starts playing it from the beginning.
//
// The track moves to the front of the recently played list. When contextList contains the track, the queue is
// replaced by the tracks after its first occurrence; otherwise the queue is left alone.
func (s *Session) PlayTrack(track models.Track, contextList []models.Track) {
	s.mu.Lock()

	s.current = &track
	s.playing = true
	s.endOfQueue = false
	s.recordPlay(track)

	if i := models.IndexOf(contextList, track.ID); i >= 0 {
		s.queue = slices.Clone(contextList[i+1:])
	}

	s.rearm()
	s.logger.Debug("play", "track", track.ID, "queue", len(s.queue))
	s.mu.Unlock()

	s.notifier.Notify(Event{Kind: NowPlaying, Title: track.Title, Artist: track.Artist})
}

// TogglePlayPause flips between playing and paused. It does nothing before the first track is played.
// Resuming restarts progress of the current track.
func (s *Session) TogglePlayPause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return
	}

	s.playing = !s.playing
	s.endOfQueue = false
	if s.playing {
		s.rearm()
	} else {
		s.transport.Disarm()
	}
}

// NextTrack advances to the head of the queue. With an empty queue playback stops and the current
// track stays displayed.
func (s *Session) NextTrack() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advance()
}

// PreviousTrack rewinds to the track played before the current one (recently played index 1) and moves
// it to the front of the history. With fewer than two history entries it does nothing.
func (s *Session) PreviousTrack() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.recent) < 2 {
		return
	}

	prev := s.recent[1]
	s.current = &prev
	s.endOfQueue = false
	s.setRecent(moveToFront(s.recent, 1))
	s.rearm()
	s.logger.Debug("previous", "track", prev.ID)
}

// SetVolume sets the volume, clamped to [0,100].
func (s *Session) SetVolume(level int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.volume = clampVolume(level)
	if s.volume > 0 {
		s.unmuted = s.volume
	}
}

// ToggleMute silences the session, or restores the volume held before muting.
func (s *Session) ToggleMute() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.volume > 0 {
		s.unmuted = s.volume
		s.volume = 0
		return
	}
	s.volume = s.unmuted
}

// SetQueue replaces the forward queue.
func (s *Session) SetQueue(tracks []models.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = slices.Clone(tracks)
}

// AddToPlaylist appends track to the playlist unless it is already there.
//
// An unknown playlist returns an error wrapping [shared.ErrPlaylistNotFound] and emits nothing; callers
// that want the silent behaviour ignore it. Write failures are logged, not returned.
func (s *Session) AddToPlaylist(ctx context.Context, playlistID string, track models.Track) error {
	if _, err := s.playlists.AddTrack(ctx, playlistID, track); err != nil {
		if !errors.Is(err, shared.ErrStorageUnavailable) {
			return fmt.Errorf("failed to add %s: %w", track.ID, err)
		}
		s.warnPersist(err)
	}

	s.notifier.Notify(Event{Kind: AddedToPlaylist, Title: track.Title})
	return nil
}

// CreatePlaylist creates an empty playlist and returns its id. Write failures are logged, not returned.
func (s *Session) CreatePlaylist(ctx context.Context, name, description string) (string, error) {
	p, err := s.playlists.Create(ctx, name, description)
	if err != nil {
		if !errors.Is(err, shared.ErrStorageUnavailable) {
			return "", fmt.Errorf("failed to create playlist: %w", err)
		}
		s.warnPersist(err)
	}

	s.notifier.Notify(Event{Kind: PlaylistCreated, Name: p.Name})
	return p.ID, nil
}

// Playlists returns every playlist in insertion order.
func (s *Session) Playlists() []models.Playlist {
	return s.playlists.List()
}

// Playlist returns the playlist with the given id.
func (s *Session) Playlist(id string) (models.Playlist, bool) {
	return s.playlists.FindByID(id)
}

// Queue returns a copy of the forward queue.
func (s *Session) Queue() []models.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.queue)
}

// RecentlyPlayed returns a copy of the history, most recent first.
func (s *Session) RecentlyPlayed() []models.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.recent)
}

// Snapshot returns a copy of the whole session state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		Playing:  s.playing,
		Volume:   s.volume,
		Queue:    slices.Clone(s.queue),
		Recent:   slices.Clone(s.recent),
		Status:   s.status(),
		Elapsed:  s.transport.Elapsed(),
		Total:    s.transport.Total(),
		Progress: s.transport.Progress(),
	}
	if s.current != nil {
		current := *s.current
		st.Current = &current
	}
	return st
}

// Close stops the transport. Commands still work afterwards but no longer tick.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.transport.Disarm()
}

func (s *Session) status() Status {
	switch {
	case s.current == nil:
		return Idle
	case s.playing:
		return Playing
	case s.endOfQueue:
		return EndOfQueue
	default:
		return Paused
	}
}

// advance must be called with s.mu held.
func (s *Session) advance() {
	if len(s.queue) == 0 {
		s.playing = false
		s.endOfQueue = s.current != nil
		s.transport.Disarm()
		s.logger.Debug("end of queue")
		return
	}

	next := s.queue[0]
	s.queue = slices.Clone(s.queue[1:])
	s.current = &next
	s.endOfQueue = false
	s.recordPlay(next)
	s.rearm()
	s.logger.Debug("next", "track", next.ID, "queue", len(s.queue))
}

// rearm restarts the transport for the current track when playing. It must be called with s.mu held.
func (s *Session) rearm() {
	s.transport.Disarm()
	if s.closed || s.current == nil || !s.playing {
		return
	}

	err := s.transport.Arm(s.current.Duration, s.onTick)
	if err != nil {
		s.logger.Warn("skipping progress simulation", "track", s.current.ID, "err", err)
	}
}

func (s *Session) onTick(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if s.transport.Advance(seq) {
		s.advance()
	}
}

// recordPlay must be called with s.mu held.
func (s *Session) recordPlay(track models.Track) {
	s.setRecent(pushFront(s.recent, track))
}

// setRecent must be called with s.mu held.
func (s *Session) setRecent(tracks []models.Track) {
	s.recent = tracks
	if s.history == nil {
		return
	}
	if err := s.history.Replace(s.ctx, slices.Clone(tracks)); err != nil {
		s.warnPersist(err)
	}
}

func (s *Session) warnPersist(err error) {
	s.persistWarn.Do(func() {
		s.logger.Warn("storage write failed, continuing in memory", "err", err)
	})
}

// pushFront returns history with track first, earlier occurrences of its id removed, capped at
// [repositories.HistoryLimit].
func pushFront(history []models.Track, track models.Track) []models.Track {
	out := make([]models.Track, 0, min(len(history)+1, repositories.HistoryLimit))
	out = append(out, track)
	for _, t := range history {
		if len(out) == repositories.HistoryLimit {
			break
		}
		if t.ID != track.ID {
			out = append(out, t)
		}
	}
	return out
}

// moveToFront returns a copy of tracks with the entry at i moved to index 0.
func moveToFront(tracks []models.Track, i int) []models.Track {
	out := make([]models.Track, 0, len(tracks))
	out = append(out, tracks[i])
	out = append(out, tracks[:i]...)
	return append(out, tracks[i+1:]...)
}

func clampVolume(level int) int {
	return max(0, min(level, 100))
}
