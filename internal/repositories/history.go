package repositories

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/desertthunder/spindle/internal/models"
	"github.com/desertthunder/spindle/internal/shared"
)

// HistoryLimit is the capacity of the recently played list.
const HistoryLimit = 20

// HistoryRepository mirrors the recently played list (most recent first) to the "recentlyPlayed" record.
type HistoryRepository struct {
	mu     sync.RWMutex
	store  Storage
	tracks []models.Track
}

// NewHistoryRepository creates an empty HistoryRepository backed by store
func NewHistoryRepository(store Storage) *HistoryRepository {
	return &HistoryRepository{store: store}
}

// Load hydrates the history from storage. Absent, unreadable or corrupt records leave it empty;
// only the latter two are reported.
func (r *HistoryRepository) Load(ctx context.Context) error {
	var stored []models.Track
	err := loadJSON(ctx, r.store, KeyRecentlyPlayed, &stored)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.tracks = nil
	if err != nil {
		if errors.Is(err, shared.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	r.tracks = normalizeHistory(stored)
	return nil
}

// Tracks returns a copy of the history, most recent first
func (r *HistoryRepository) Tracks() []models.Track {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.tracks)
}

// Replace stores a new history and rewrites the record. Duplicates beyond the first occurrence and
// entries past [HistoryLimit] are dropped.
func (r *HistoryRepository) Replace(ctx context.Context, tracks []models.Track) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tracks = normalizeHistory(tracks)
	return saveJSON(ctx, r.store, KeyRecentlyPlayed, r.tracks)
}

// normalizeHistory keeps the first occurrence of each id and truncates to [HistoryLimit].
func normalizeHistory(tracks []models.Track) []models.Track {
	out := make([]models.Track, 0, min(len(tracks), HistoryLimit))
	for _, t := range tracks {
		if len(out) == HistoryLimit {
			break
		}
		if models.IndexOf(out, t.ID) < 0 {
			out = append(out, t)
		}
	}
	return out
}
