package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/spindle/internal/catalog"
	"github.com/desertthunder/spindle/internal/models"
	"github.com/desertthunder/spindle/internal/player"
	"github.com/desertthunder/spindle/internal/shared"
	"github.com/urfave/cli/v3"
)

// Play starts a session on a track. With --playlist the rest of that playlist becomes the queue.
//
// With --follow the command keeps the transport running, printing each track as it starts, until the queue
// ends, the --for limit passes or the context is cancelled.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Duration("for")
	if limit < 0 {
		return fmt.Errorf("%w: --for must not be negative, got %s", shared.ErrInvalidArgument, limit)
	}

	library, err := r.openLibrary(ctx)
	if err != nil {
		return err
	}

	trackID := cmd.String("track")
	track, ok := catalog.New(library.Playlists.List()).Track(trackID)
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrTrackNotFound, trackID)
	}

	var contextList []models.Track
	if ref := cmd.String("playlist"); ref != "" {
		p, err := r.resolvePlaylist(library, ref)
		if err != nil {
			return err
		}
		contextList = p.Tracks
	}

	events := player.NewChannelNotifier(32)
	session := r.newSession(ctx, library, events)
	defer session.Close()

	session.PlayTrack(track, contextList)
	r.drainEvents(events)

	if !cmd.Bool("follow") {
		st := session.Snapshot()
		r.writePlain("%d up next\n", len(st.Queue))
		for i, t := range st.Queue {
			r.writePlain("  %2d. %s - %s\n", i+1, t.Artist, t.Title)
		}
		return nil
	}

	return r.follow(ctx, session, events, limit)
}

// follow reports session events and track changes until the queue ends, limit passes (when positive) or ctx
// is done. Advancing past a finished track emits no event, so changes are picked up by polling.
func (r *Runner) follow(ctx context.Context, session *player.Session, events *player.ChannelNotifier, limit time.Duration) error {
	var timeout <-chan time.Time
	if limit > 0 {
		timer := time.NewTimer(limit)
		defer timer.Stop()
		timeout = timer.C
	}

	poll := time.NewTicker(r.pollInterval())
	defer poll.Stop()

	var current string
	if st := session.Snapshot(); st.Current != nil {
		current = st.Current.ID
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timeout:
			r.logger.Debug("follow limit reached", "limit", limit)
			return nil
		case e := <-events.Events():
			r.writePlain("♪ %s\n", e.Message())
		case <-poll.C:
			st := session.Snapshot()
			if st.Current != nil && st.Current.ID != current {
				current = st.Current.ID
				r.writePlain("♪ %s by %s\n", st.Current.Title, st.Current.Artist)
			}
			if st.Status == player.EndOfQueue {
				r.drainEvents(events)
				r.writePlain("■ End of queue\n")
				return nil
			}
		}
	}
}

func (r *Runner) drainEvents(events *player.ChannelNotifier) {
	for {
		select {
		case e := <-events.Events():
			r.writePlain("♪ %s\n", e.Message())
		default:
			return
		}
	}
}

func (r *Runner) pollInterval() time.Duration {
	if d := r.config.Player.TickInterval.Duration; d > 0 {
		return d
	}
	return time.Second
}
