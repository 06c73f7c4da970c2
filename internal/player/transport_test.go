package player

import (
	"bytes"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spindle/internal/models"
	tu "github.com/desertthunder/spindle/internal/testing"
)

func TestTransport(t *testing.T) {
	t.Run("track ends exactly once", func(t *testing.T) {
		f := newFixture(t)
		a, b := track("a", "0:03"), track("b", "2:00")
		f.session.PlayTrack(a, []models.Track{a, b})

		f.scheduler.TickN(3)

		st := f.session.Snapshot()
		if st.Current.ID != "b" {
			t.Fatalf("expected b after three ticks, got %s", st.Current.ID)
		}
		if st.Elapsed != 0 || st.Total != 120 {
			t.Errorf("expected fresh progress 0/120, got %d/%d", st.Elapsed, st.Total)
		}
		if f.scheduler.Armed() != 2 || f.scheduler.Live() != 1 {
			t.Errorf("expected 2 armed and 1 live, got %d and %d", f.scheduler.Armed(), f.scheduler.Live())
		}

		var nowPlaying int
		for _, k := range f.events.kinds() {
			if k == NowPlaying {
				nowPlaying++
			}
		}
		if nowPlaying != 1 {
			t.Errorf("expected a single NowPlaying from PlayTrack, got %d", nowPlaying)
		}
	})

	t.Run("last track ends the queue", func(t *testing.T) {
		f := newFixture(t)
		f.session.PlayTrack(track("a", "0:01"), nil)

		f.scheduler.Tick()

		if st := f.session.Snapshot(); st.Status != EndOfQueue || st.Playing {
			t.Errorf("expected end of queue, got %s", st.Status)
		}
		if f.scheduler.Live() != 0 {
			t.Error("expected no live sequence")
		}
	})

	t.Run("stale ticks are ignored", func(t *testing.T) {
		f := newFixture(t)
		f.session.PlayTrack(track("a", "0:01"), nil)
		f.session.PlayTrack(track("b", "0:01"), nil)

		f.scheduler.FireStale(0)

		st := f.session.Snapshot()
		if st.Current.ID != "b" || st.Elapsed != 0 || st.Status != Playing {
			t.Errorf("stale tick changed state: current=%s elapsed=%d status=%s", st.Current.ID, st.Elapsed, st.Status)
		}
	})

	t.Run("at most one live sequence", func(t *testing.T) {
		f := newFixture(t)
		for _, id := range []string{"a", "b", "c"} {
			f.session.PlayTrack(track(id, "1:00"), nil)
		}
		f.session.PreviousTrack()

		if f.scheduler.Live() != 1 {
			t.Errorf("expected 1 live sequence, got %d", f.scheduler.Live())
		}
	})

	t.Run("pause disarms and resume restarts", func(t *testing.T) {
		f := newFixture(t)
		f.session.PlayTrack(track("a", "0:10"), nil)
		f.scheduler.TickN(4)

		f.session.TogglePlayPause()
		f.scheduler.TickN(4)
		if st := f.session.Snapshot(); st.Elapsed != 4 {
			t.Errorf("expected elapsed to hold at 4 while paused, got %d", st.Elapsed)
		}

		f.session.TogglePlayPause()
		if st := f.session.Snapshot(); st.Elapsed != 0 || f.scheduler.Live() != 1 {
			t.Errorf("expected restart from 0 with one live sequence, got %d and %d", st.Elapsed, f.scheduler.Live())
		}
	})

	t.Run("progress fraction", func(t *testing.T) {
		f := newFixture(t)
		f.session.PlayTrack(track("a", "0:04"), nil)
		f.scheduler.TickN(2)

		st := f.session.Snapshot()
		if st.Progress != 0.5 || st.Elapsed != 2 || st.Total != 4 {
			t.Errorf("expected 2/4 = 0.5, got %d/%d = %v", st.Elapsed, st.Total, st.Progress)
		}
	})

	t.Run("malformed duration plays without simulation", func(t *testing.T) {
		var buf bytes.Buffer
		f := newFixture(t)
		f.session.logger = log.New(&buf)

		f.session.PlayTrack(track("a", "three minutes"), nil)

		if f.scheduler.Armed() != 0 {
			t.Error("expected no tick sequence for a malformed duration")
		}
		if st := f.session.Snapshot(); st.Status != Playing || st.Progress != 0 {
			t.Errorf("expected playing with no progress, got %s %v", st.Status, st.Progress)
		}
		if !strings.Contains(buf.String(), "skipping progress simulation") {
			t.Errorf("expected a warning, got %q", buf.String())
		}
	})

	t.Run("close stops ticking", func(t *testing.T) {
		f := newFixture(t)
		f.session.PlayTrack(track("a", "0:01"), []models.Track{track("a", "0:01"), track("b", "0:01")})
		f.session.Close()

		f.scheduler.FireStale(0)
		f.scheduler.TickN(3)

		if st := f.session.Snapshot(); st.Current.ID != "a" {
			t.Errorf("expected a after close, got %s", st.Current.ID)
		}
		if f.scheduler.Live() != 0 {
			t.Error("expected no live sequence after close")
		}
	})

	t.Run("Arm rejects malformed durations", func(t *testing.T) {
		tr := NewTransport(&tu.ManualScheduler{}, 0)
		err := tr.Arm("1:75", func(uint64) {})

		var fe *models.FormatError
		if !errors.As(err, &fe) {
			t.Fatalf("expected *models.FormatError, got %v", err)
		}
		if tr.Active() {
			t.Error("transport should stay idle")
		}
	})

	t.Run("zero length track ends on first tick", func(t *testing.T) {
		sched := &tu.ManualScheduler{}
		tr := NewTransport(sched, time.Second)
		ends := 0
		if err := tr.Arm("0:00", func(s uint64) {
			if tr.Advance(s) {
				ends++
			}
		}); err != nil {
			t.Fatal(err)
		}
		if tr.Progress() != 0 {
			t.Errorf("expected progress 0, got %v", tr.Progress())
		}

		sched.Tick()
		if ends != 1 {
			t.Fatalf("expected the track to end on the first tick, got %d ends", ends)
		}
		if tr.Active() {
			t.Error("expected the sequence to disarm itself")
		}

		sched.Tick()
		sched.FireStale(0)
		if ends != 1 {
			t.Errorf("a finished sequence must not end twice, got %d ends", ends)
		}
	})
}

func TestTickerScheduler(t *testing.T) {
	var ticks atomic.Int32
	cancel := TickerScheduler{}.Every(5*time.Millisecond, func() { ticks.Add(1) })

	deadline := time.Now().Add(2 * time.Second)
	for ticks.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()
	cancel()

	if ticks.Load() < 2 {
		t.Fatalf("expected at least 2 ticks, got %d", ticks.Load())
	}

	time.Sleep(20 * time.Millisecond)
	stopped := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	if ticks.Load() != stopped {
		t.Error("ticks continued after cancel")
	}
}

func TestSessionWithTicker(t *testing.T) {
	f := newFixture(t)
	s := NewSession(t.Context(), SessionOpts{
		Playlists:    f.library.Playlists,
		Scheduler:    TickerScheduler{},
		TickInterval: time.Millisecond,
		Logger:       log.New(&tu.FWriter{}),
	})
	defer s.Close()

	a, b := track("a", "0:02"), track("b", "9:00")
	s.PlayTrack(a, []models.Track{a, b})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if st := s.Snapshot(); st.Current.ID == "b" {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Error("expected the ticker to advance to b")
}

func TestEvents(t *testing.T) {
	tc := []struct {
		name  string
		event Event
		want  string
	}{
		{name: "now playing", event: Event{Kind: NowPlaying, Title: "Mood", Artist: "24kGoldn"}, want: "Mood by 24kGoldn"},
		{name: "added", event: Event{Kind: AddedToPlaylist, Title: "Mood"}, want: "Mood added to playlist"},
		{name: "created", event: Event{Kind: PlaylistCreated, Name: "Road Trip"}, want: "Road Trip has been created"},
	}
	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.Message(); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("ChannelNotifier drops when full", func(t *testing.T) {
		n := NewChannelNotifier(1)
		n.Notify(Event{Kind: NowPlaying, Title: "first"})
		n.Notify(Event{Kind: NowPlaying, Title: "second"})

		if got := (<-n.Events()).Title; got != "first" {
			t.Errorf("expected first, got %s", got)
		}
		select {
		case e := <-n.Events():
			t.Errorf("unexpected event %v", e)
		default:
		}
	})

	t.Run("Notifiers fan out", func(t *testing.T) {
		var buf bytes.Buffer
		r := &recorder{}
		ns := Notifiers{r, LogNotifier(log.New(&buf))}

		ns.Notify(Event{Kind: PlaylistCreated, Name: "Gym"})

		if len(r.kinds()) != 1 {
			t.Error("recorder missed the event")
		}
		if !strings.Contains(buf.String(), "Gym has been created") {
			t.Errorf("expected log line, got %q", buf.String())
		}
	})
}
