package player

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spindle/internal/models"
	"github.com/desertthunder/spindle/internal/repositories"
	"github.com/desertthunder/spindle/internal/shared"
	tu "github.com/desertthunder/spindle/internal/testing"
	"github.com/go-test/deep"
)

// recorder is a [Notifier] that keeps every event.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Notify(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) kinds() []EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventKind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

type fixture struct {
	session   *Session
	scheduler *tu.ManualScheduler
	store     *tu.MemoryStorage
	library   *repositories.Library
	events    *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := tu.NewMemoryStorage(shared.ErrRecordNotFound)
	logger := log.New(&tu.FWriter{})
	library := repositories.NewLibrary(store, logger)
	if err := library.Load(context.Background()); err != nil {
		t.Fatalf("failed to load library: %v", err)
	}

	f := &fixture{
		scheduler: &tu.ManualScheduler{},
		store:     store,
		library:   library,
		events:    &recorder{},
	}
	f.session = NewSession(context.Background(), SessionOpts{
		Playlists: library.Playlists,
		History:   library.History,
		Scheduler: f.scheduler,
		Notifier:  f.events,
		Logger:    logger,
	})
	t.Cleanup(f.session.Close)
	return f
}

func trackIDs(tracks []models.Track) []string {
	out := make([]string, len(tracks))
	for i, t := range tracks {
		out[i] = t.ID
	}
	return out
}

func track(id, duration string) models.Track {
	return models.Track{ID: id, Title: "Title " + id, Artist: "Artist " + id, Album: "Album", Duration: duration}
}

func TestSessionDefaults(t *testing.T) {
	f := newFixture(t)
	st := f.session.Snapshot()

	if st.Current != nil || st.Playing {
		t.Error("new session should have no current track and not be playing")
	}
	if st.Volume != DefaultVolume {
		t.Errorf("expected volume %d, got %d", DefaultVolume, st.Volume)
	}
	if st.Status != Idle {
		t.Errorf("expected Idle, got %s", st.Status)
	}
	if len(st.Queue) != 0 || len(st.Recent) != 0 {
		t.Error("expected empty queue and history")
	}
}

func TestPlayTrack(t *testing.T) {
	t.Run("sets current, playing and notifies", func(t *testing.T) {
		f := newFixture(t)
		tr := repositories.SampleTracks()[0]

		f.session.PlayTrack(tr, nil)

		st := f.session.Snapshot()
		if st.Current == nil || st.Current.ID != tr.ID {
			t.Fatalf("expected current %s, got %v", tr.ID, st.Current)
		}
		if !st.Playing || st.Status != Playing {
			t.Errorf("expected playing, got %s", st.Status)
		}
		if diff := deep.Equal(f.events.kinds(), []EventKind{NowPlaying}); diff != nil {
			t.Error(diff)
		}
		if msg := f.events.events[0].Message(); msg != "Blinding Lights by The Weeknd" {
			t.Errorf("unexpected message %q", msg)
		}
	})

	t.Run("queue is the tail after the track", func(t *testing.T) {
		f := newFixture(t)
		liked, _ := f.session.Playlist("1")

		f.session.PlayTrack(liked.Tracks[0], liked.Tracks)

		got := trackIDs(f.session.Queue())
		want := []string{"4", "7", "10", "13", "16", "19"}
		if diff := deep.Equal(got, want); diff != nil {
			t.Error(diff)
		}
	})

	t.Run("first occurrence in context wins", func(t *testing.T) {
		f := newFixture(t)
		a, b, c := track("a", "1:00"), track("b", "1:00"), track("c", "1:00")

		f.session.PlayTrack(a, []models.Track{b, a, c, a})

		if diff := deep.Equal(trackIDs(f.session.Queue()), []string{"c", "a"}); diff != nil {
			t.Error(diff)
		}
	})

	t.Run("queue unchanged without context or when track is absent", func(t *testing.T) {
		f := newFixture(t)
		a, b, c := track("a", "1:00"), track("b", "1:00"), track("c", "1:00")

		f.session.PlayTrack(a, []models.Track{a, b, c})
		f.session.PlayTrack(b, nil)
		if diff := deep.Equal(trackIDs(f.session.Queue()), []string{"b", "c"}); diff != nil {
			t.Error(diff)
		}

		f.session.PlayTrack(c, []models.Track{a})
		if diff := deep.Equal(trackIDs(f.session.Queue()), []string{"b", "c"}); diff != nil {
			t.Error(diff)
		}
	})

	t.Run("context list is not aliased", func(t *testing.T) {
		f := newFixture(t)
		list := []models.Track{track("a", "1:00"), track("b", "1:00")}

		f.session.PlayTrack(list[0], list)
		list[1].Title = "mutated"

		if q := f.session.Queue(); q[0].Title == "mutated" {
			t.Error("queue aliases the caller's slice")
		}
	})
}

func TestRecentlyPlayed(t *testing.T) {
	t.Run("most recent first without duplicates", func(t *testing.T) {
		f := newFixture(t)
		a, b := track("a", "1:00"), track("b", "1:00")

		f.session.PlayTrack(a, nil)
		f.session.PlayTrack(b, nil)
		f.session.PlayTrack(a, nil)

		if diff := deep.Equal(trackIDs(f.session.RecentlyPlayed()), []string{"a", "b"}); diff != nil {
			t.Error(diff)
		}
	})

	t.Run("capped at the history limit", func(t *testing.T) {
		f := newFixture(t)
		for i := range 30 {
			f.session.PlayTrack(track(fmt.Sprint(i), "1:00"), nil)
		}

		recent := f.session.RecentlyPlayed()
		if len(recent) != repositories.HistoryLimit {
			t.Fatalf("expected %d entries, got %d", repositories.HistoryLimit, len(recent))
		}
		if recent[0].ID != "29" || recent[len(recent)-1].ID != "10" {
			t.Errorf("expected 29..10, got %s..%s", recent[0].ID, recent[len(recent)-1].ID)
		}

		seen := map[string]bool{}
		for _, tr := range recent {
			if seen[tr.ID] {
				t.Fatalf("duplicate id %s in history", tr.ID)
			}
			seen[tr.ID] = true
		}
	})

	t.Run("persisted on every change", func(t *testing.T) {
		f := newFixture(t)
		f.session.PlayTrack(track("a", "1:00"), []models.Track{track("a", "1:00"), track("b", "1:00")})
		f.session.NextTrack()

		if f.store.Writes(repositories.KeyRecentlyPlayed) != 2 {
			t.Errorf("expected 2 history writes, got %d", f.store.Writes(repositories.KeyRecentlyPlayed))
		}
		if diff := deep.Equal(trackIDs(f.library.History.Tracks()), []string{"b", "a"}); diff != nil {
			t.Error(diff)
		}
	})

	t.Run("hydrated from history store", func(t *testing.T) {
		store := tu.NewMemoryStorage(shared.ErrRecordNotFound)
		history := repositories.NewHistoryRepository(store)
		_ = history.Replace(context.Background(), []models.Track{track("x", "1:00"), track("y", "1:00")})

		s := NewSession(context.Background(), SessionOpts{
			Playlists: repositories.NewPlaylistRepository(store),
			History:   history,
			Scheduler: &tu.ManualScheduler{},
			Logger:    log.New(&tu.FWriter{}),
		})
		defer s.Close()

		if diff := deep.Equal(trackIDs(s.RecentlyPlayed()), []string{"x", "y"}); diff != nil {
			t.Error(diff)
		}
		if s.Snapshot().Status != Idle {
			t.Error("hydrated session should still be idle")
		}
	})
}

func TestTogglePlayPause(t *testing.T) {
	t.Run("no-op before first play", func(t *testing.T) {
		f := newFixture(t)
		f.session.TogglePlayPause()
		if st := f.session.Snapshot(); st.Playing || st.Status != Idle {
			t.Errorf("expected idle, got %s", st.Status)
		}
	})

	t.Run("flips between playing and paused", func(t *testing.T) {
		f := newFixture(t)
		f.session.PlayTrack(track("a", "1:00"), nil)

		f.session.TogglePlayPause()
		if st := f.session.Snapshot(); st.Playing || st.Status != Paused {
			t.Errorf("expected paused, got %s", st.Status)
		}
		if f.scheduler.Live() != 0 {
			t.Error("pausing should tear down the tick sequence")
		}

		f.session.TogglePlayPause()
		if st := f.session.Snapshot(); !st.Playing || st.Status != Playing {
			t.Errorf("expected playing, got %s", st.Status)
		}
		if f.scheduler.Live() != 1 {
			t.Errorf("expected one live tick sequence, got %d", f.scheduler.Live())
		}
	})
}

func TestNextTrack(t *testing.T) {
	t.Run("pops the queue head", func(t *testing.T) {
		f := newFixture(t)
		list := []models.Track{track("a", "1:00"), track("b", "1:00"), track("c", "1:00")}
		f.session.PlayTrack(list[0], list)

		f.session.NextTrack()

		st := f.session.Snapshot()
		if st.Current.ID != "b" || !st.Playing {
			t.Errorf("expected b playing, got %s playing=%v", st.Current.ID, st.Playing)
		}
		if diff := deep.Equal(trackIDs(st.Queue), []string{"c"}); diff != nil {
			t.Error(diff)
		}
		if diff := deep.Equal(trackIDs(st.Recent), []string{"b", "a"}); diff != nil {
			t.Error(diff)
		}
		if diff := deep.Equal(f.events.kinds(), []EventKind{NowPlaying}); diff != nil {
			t.Error(diff)
		}
	})

	t.Run("empty queue stops and keeps current", func(t *testing.T) {
		f := newFixture(t)
		a := track("a", "1:00")
		f.session.PlayTrack(a, nil)

		f.session.NextTrack()

		st := f.session.Snapshot()
		if st.Playing {
			t.Error("expected playback to stop")
		}
		if st.Current == nil || st.Current.ID != "a" {
			t.Errorf("expected current to remain a, got %v", st.Current)
		}
		if st.Status != EndOfQueue {
			t.Errorf("expected EndOfQueue, got %s", st.Status)
		}
		if f.scheduler.Live() != 0 {
			t.Error("expected no live tick sequence at end of queue")
		}
	})

	t.Run("play after end of queue resumes", func(t *testing.T) {
		f := newFixture(t)
		f.session.PlayTrack(track("a", "1:00"), nil)
		f.session.NextTrack()
		f.session.PlayTrack(track("b", "1:00"), nil)

		if st := f.session.Snapshot(); st.Status != Playing || st.Current.ID != "b" {
			t.Errorf("expected b playing, got %s", st.Status)
		}
	})

	t.Run("idle session stays idle", func(t *testing.T) {
		f := newFixture(t)
		f.session.NextTrack()
		if st := f.session.Snapshot(); st.Status != Idle {
			t.Errorf("expected Idle, got %s", st.Status)
		}
	})
}

func TestPreviousTrack(t *testing.T) {
	t.Run("no-op with fewer than two entries", func(t *testing.T) {
		f := newFixture(t)
		f.session.PreviousTrack()
		f.session.PlayTrack(track("a", "1:00"), nil)
		f.session.PreviousTrack()

		if st := f.session.Snapshot(); st.Current.ID != "a" || len(st.Recent) != 1 {
			t.Errorf("expected unchanged session, got current %s recent %v", st.Current.ID, trackIDs(st.Recent))
		}
	})

	t.Run("moves the previous entry to the front", func(t *testing.T) {
		f := newFixture(t)
		for _, id := range []string{"c", "b", "a"} {
			f.session.PlayTrack(track(id, "1:00"), nil)
		}

		f.session.PreviousTrack()
		st := f.session.Snapshot()
		if st.Current.ID != "b" {
			t.Fatalf("expected b, got %s", st.Current.ID)
		}
		if diff := deep.Equal(trackIDs(st.Recent), []string{"b", "a", "c"}); diff != nil {
			t.Error(diff)
		}

		f.session.PreviousTrack()
		st = f.session.Snapshot()
		if st.Current.ID != "a" {
			t.Errorf("expected a, got %s", st.Current.ID)
		}
		if diff := deep.Equal(trackIDs(st.Recent), []string{"a", "b", "c"}); diff != nil {
			t.Error(diff)
		}
		if diff := deep.Equal(trackIDs(f.library.History.Tracks()), []string{"a", "b", "c"}); diff != nil {
			t.Error(diff)
		}
	})

	t.Run("repeated calls never grow the history", func(t *testing.T) {
		f := newFixture(t)
		for i := range 25 {
			f.session.PlayTrack(track(fmt.Sprint(i), "1:00"), nil)
		}
		for range 10 {
			f.session.PreviousTrack()
			if n := len(f.session.RecentlyPlayed()); n != repositories.HistoryLimit {
				t.Fatalf("history size changed to %d", n)
			}
		}
	})
}

func TestVolume(t *testing.T) {
	f := newFixture(t)

	tc := []struct {
		level int
		want  int
	}{
		{level: 55, want: 55},
		{level: -10, want: 0},
		{level: 250, want: 100},
		{level: 0, want: 0},
	}
	for _, tt := range tc {
		f.session.SetVolume(tt.level)
		if got := f.session.Snapshot().Volume; got != tt.want {
			t.Errorf("SetVolume(%d) => %d, want %d", tt.level, got, tt.want)
		}
	}

	t.Run("ToggleMute restores the previous level", func(t *testing.T) {
		f.session.SetVolume(42)
		f.session.ToggleMute()
		if got := f.session.Snapshot().Volume; got != 0 {
			t.Errorf("expected muted volume 0, got %d", got)
		}
		f.session.ToggleMute()
		if got := f.session.Snapshot().Volume; got != 42 {
			t.Errorf("expected restored volume 42, got %d", got)
		}
	})

	t.Run("initial volume option is clamped", func(t *testing.T) {
		v := 130
		s := NewSession(context.Background(), SessionOpts{
			Playlists: f.library.Playlists,
			Scheduler: &tu.ManualScheduler{},
			Volume:    &v,
			Logger:    log.New(&tu.FWriter{}),
		})
		if got := s.Snapshot().Volume; got != 100 {
			t.Errorf("expected 100, got %d", got)
		}
	})
}

func TestSetQueue(t *testing.T) {
	f := newFixture(t)
	f.session.PlayTrack(track("a", "1:00"), nil)
	f.session.NextTrack()

	f.session.SetQueue([]models.Track{track("z", "1:00")})
	f.session.NextTrack()

	if st := f.session.Snapshot(); st.Current.ID != "z" || st.Status != Paused {
		t.Errorf("expected z loaded while stopped, got %s %s", st.Current.ID, st.Status)
	}
}

func TestPlaylistCommands(t *testing.T) {
	ctx := context.Background()

	t.Run("AddToPlaylist twice keeps one copy", func(t *testing.T) {
		f := newFixture(t)
		tr := repositories.SampleTracks()[1]

		for range 2 {
			if err := f.session.AddToPlaylist(ctx, "1", tr); err != nil {
				t.Fatalf("failed to add: %v", err)
			}
		}

		p, _ := f.session.Playlist("1")
		count := 0
		for _, pt := range p.Tracks {
			if pt.ID == tr.ID {
				count++
			}
		}
		if count != 1 {
			t.Errorf("expected the track exactly once, got %d", count)
		}
		if diff := deep.Equal(f.events.kinds(), []EventKind{AddedToPlaylist, AddedToPlaylist}); diff != nil {
			t.Error(diff)
		}
	})

	t.Run("AddToPlaylist unknown playlist", func(t *testing.T) {
		f := newFixture(t)
		before := f.session.Playlists()

		err := f.session.AddToPlaylist(ctx, "missing", track("a", "1:00"))
		if !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Fatalf("expected ErrPlaylistNotFound, got %v", err)
		}
		if diff := deep.Equal(f.session.Playlists(), before); diff != nil {
			t.Error(diff)
		}
		if len(f.events.kinds()) != 0 {
			t.Error("expected no notification for unknown playlist")
		}
	})

	t.Run("CreatePlaylist", func(t *testing.T) {
		f := newFixture(t)

		a, err := f.session.CreatePlaylist(ctx, "X", "")
		if err != nil {
			t.Fatalf("failed to create: %v", err)
		}
		b, err := f.session.CreatePlaylist(ctx, "X", "")
		if err != nil {
			t.Fatalf("failed to create: %v", err)
		}

		if a == b {
			t.Errorf("expected distinct ids, got %s twice", a)
		}
		p, ok := f.session.Playlist(a)
		if !ok || p.Name != "X" || len(p.Tracks) != 0 || !p.Color.Valid() {
			t.Errorf("unexpected playlist %+v", p)
		}
		if len(f.session.Playlists()) != 5 {
			t.Errorf("expected 5 playlists, got %d", len(f.session.Playlists()))
		}
		if f.events.events[0].Message() != "X has been created" {
			t.Errorf("unexpected message %q", f.events.events[0].Message())
		}
	})

	t.Run("CreatePlaylist rejects blank names", func(t *testing.T) {
		f := newFixture(t)
		if _, err := f.session.CreatePlaylist(ctx, "", ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("storage failures are absorbed", func(t *testing.T) {
		logger := log.New(&tu.FWriter{})
		library := repositories.NewLibrary(tu.FailingStorage{}, logger)
		_ = library.Load(ctx)
		events := &recorder{}

		s := NewSession(ctx, SessionOpts{
			Playlists: library.Playlists,
			History:   library.History,
			Scheduler: &tu.ManualScheduler{},
			Notifier:  events,
			Logger:    logger,
		})
		defer s.Close()

		id, err := s.CreatePlaylist(ctx, "Offline", "")
		if err != nil || id == "" {
			t.Fatalf("expected in-memory playlist, got id=%q err=%v", id, err)
		}
		if err := s.AddToPlaylist(ctx, id, track("a", "1:00")); err != nil {
			t.Fatalf("expected write failure to be absorbed, got %v", err)
		}
		s.PlayTrack(track("a", "1:00"), nil)

		if len(s.RecentlyPlayed()) != 1 {
			t.Error("expected in-memory history despite failing storage")
		}
		if len(events.kinds()) != 3 {
			t.Errorf("expected 3 notifications, got %d", len(events.kinds()))
		}
	})
}

func TestSessionsAreIndependent(t *testing.T) {
	a, b := newFixture(t), newFixture(t)
	a.session.PlayTrack(track("a", "1:00"), nil)

	if b.session.Snapshot().Current != nil {
		t.Error("sessions share state")
	}
}
