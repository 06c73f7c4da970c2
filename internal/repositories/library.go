package repositories

import (
	"context"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Library bundles the playlist and history repositories that share one [Storage].
type Library struct {
	Playlists *PlaylistRepository
	History   *HistoryRepository
	logger    *log.Logger
}

// NewLibrary creates a Library over store. Options are forwarded to the [PlaylistRepository].
func NewLibrary(store Storage, logger *log.Logger, opts ...PlaylistOption) *Library {
	return &Library{
		Playlists: NewPlaylistRepository(store, opts...),
		History:   NewHistoryRepository(store),
		logger:    logger,
	}
}

// Load hydrates both repositories concurrently.
//
// Storage problems are logged and absorbed (the repositories fall back to the seed catalog and an empty
// history); only context cancellation is returned.
func (l *Library) Load(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := l.Playlists.Load(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			l.logger.Warn("falling back to default playlists", "err", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := l.History.Load(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			l.logger.Warn("starting with empty listening history", "err", err)
		}
		return nil
	})

	return g.Wait()
}
