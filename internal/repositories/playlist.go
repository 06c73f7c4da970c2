package repositories

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/desertthunder/spindle/internal/models"
	"github.com/desertthunder/spindle/internal/shared"
)

// PlaylistRepository holds the ordered playlist collection in memory and mirrors it to the
// "playlists" record after every mutation.
type PlaylistRepository struct {
	mu        sync.RWMutex
	store     Storage
	playlists []models.Playlist
	newID     func() string
	pick      func(n int) int
}

// PlaylistOption customizes a [PlaylistRepository].
type PlaylistOption func(*PlaylistRepository)

// WithIDGenerator overrides playlist id generation (defaults to [shared.GenerateOrderedID]).
func WithIDGenerator(fn func() string) PlaylistOption {
	return func(r *PlaylistRepository) { r.newID = fn }
}

// WithAccentPicker overrides the pseudo-random accent choice; fn returns an index in [0, n).
func WithAccentPicker(fn func(n int) int) PlaylistOption {
	return func(r *PlaylistRepository) { r.pick = fn }
}

// NewPlaylistRepository creates an empty PlaylistRepository backed by store
func NewPlaylistRepository(store Storage, opts ...PlaylistOption) *PlaylistRepository {
	r := &PlaylistRepository{
		store: store,
		newID: shared.GenerateOrderedID,
		pick:  rand.IntN,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load hydrates the collection from storage.
//
// An absent record seeds [DefaultPlaylists] and persists them immediately. An unreadable or corrupt record
// also seeds the defaults but leaves storage untouched until the next mutation; the returned error then
// describes what was wrong while the repository stays usable.
func (r *PlaylistRepository) Load(ctx context.Context) error {
	var stored []models.Playlist
	err := loadJSON(ctx, r.store, KeyPlaylists, &stored)

	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case err == nil:
		r.playlists = make([]models.Playlist, 0, len(stored))
		for _, p := range stored {
			r.playlists = append(r.playlists, p.Clone())
		}
		return nil
	case errors.Is(err, shared.ErrRecordNotFound):
		r.playlists = DefaultPlaylists()
		return r.persist(ctx)
	case errors.Is(err, shared.ErrCorruptRecord):
		r.playlists = DefaultPlaylists()
		return err
	case errors.Is(err, shared.ErrStorageUnavailable):
		r.playlists = DefaultPlaylists()
		return err
	default:
		r.playlists = DefaultPlaylists()
		return fmt.Errorf("%w: %v", shared.ErrStorageUnavailable, err)
	}
}

// List returns copies of all playlists in insertion order
func (r *PlaylistRepository) List() []models.Playlist {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Playlist, len(r.playlists))
	for i, p := range r.playlists {
		out[i] = p.Clone()
	}
	return out
}

// FindByID returns a copy of the playlist with the given id
func (r *PlaylistRepository) FindByID(id string) (models.Playlist, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexOf(id); i >= 0 {
		return r.playlists[i].Clone(), true
	}
	return models.Playlist{}, false
}

// FindByName returns the first playlist whose name matches case-insensitively
func (r *PlaylistRepository) FindByName(name string) (models.Playlist, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.playlists {
		if strings.EqualFold(p.Name, name) {
			return p.Clone(), true
		}
	}
	return models.Playlist{}, false
}

// Create appends a new empty playlist with a fresh id and a pseudo-random accent.
//
// When only the write fails, the playlist is still created in memory: it is returned together with an
// error wrapping [shared.ErrStorageUnavailable].
func (r *PlaylistRepository) Create(ctx context.Context, name, description string) (models.Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Playlist{}, fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.newID()
	for r.indexOf(id) >= 0 {
		id = r.newID()
	}

	playlist := models.Playlist{
		ID:          id,
		Name:        name,
		Description: description,
		Tracks:      []models.Track{},
		Color:       models.Palette[r.pick(len(models.Palette))],
	}
	r.playlists = append(r.playlists, playlist)

	return playlist.Clone(), r.persist(ctx)
}

// AddTrack appends track to the playlist unless a track with the same id is already present.
//
// It reports whether the track was added. Unknown ids return [shared.ErrPlaylistNotFound]; a failed write
// returns added == true with an error wrapping [shared.ErrStorageUnavailable].
func (r *PlaylistRepository) AddTrack(ctx context.Context, playlistID string, track models.Track) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(playlistID)
	if i < 0 {
		return false, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}

	if r.playlists[i].Contains(track.ID) {
		return false, nil
	}

	r.playlists[i].Tracks = append(r.playlists[i].Tracks, track)

	return true, r.persist(ctx)
}

func (r *PlaylistRepository) indexOf(id string) int {
	for i, p := range r.playlists {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// persist must be called with r.mu held.
func (r *PlaylistRepository) persist(ctx context.Context) error {
	return saveJSON(ctx, r.store, KeyPlaylists, r.playlists)
}
