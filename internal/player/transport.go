package player

import (
	"time"

	"github.com/desertthunder/spindle/internal/models"
)

// Transport simulates playback progress for one track at a time.
//
// It is not safe for concurrent use; [Session] serializes every call.
type Transport struct {
	scheduler Scheduler
	interval  time.Duration

	seq     uint64
	cancel  func()
	elapsed int
	total   int
}

// NewTransport creates an idle Transport ticking every interval.
func NewTransport(scheduler Scheduler, interval time.Duration) *Transport {
	if interval <= 0 {
		interval = time.Second
	}
	return &Transport{scheduler: scheduler, interval: interval}
}

// Arm cancels any live sequence, resets progress for a track of the given "m:ss" duration and starts
// ticking. onTick receives the sequence number to hand back to [Transport.Advance].
//
// A malformed duration returns a [*models.FormatError] and leaves the transport idle.
func (t *Transport) Arm(duration string, onTick func(seq uint64)) error {
	t.Disarm()
	t.elapsed, t.total = 0, 0

	total, err := models.ParseDuration(duration)
	if err != nil {
		return err
	}
	t.total = total

	seq := t.seq
	t.cancel = t.scheduler.Every(t.interval, func() { onTick(seq) })
	return nil
}

// Disarm stops the live sequence, if any. Elapsed progress is kept for display.
func (t *Transport) Disarm() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.seq++
}

// Advance records one tick of sequence seq and reports whether the track just ended.
// Ticks from cancelled sequences are ignored. The sequence disarms itself when the track ends.
func (t *Transport) Advance(seq uint64) bool {
	if t.cancel == nil || seq != t.seq {
		return false
	}

	t.elapsed++
	if t.elapsed >= t.total {
		t.Disarm()
		return true
	}
	return false
}

// Active reports whether a tick sequence is live.
func (t *Transport) Active() bool { return t.cancel != nil }

// Elapsed returns the simulated seconds played of the current track.
func (t *Transport) Elapsed() int { return t.elapsed }

// Total returns the current track length in seconds.
func (t *Transport) Total() int { return t.total }

// Progress returns elapsed/total in [0,1]; 0 when nothing is loaded.
func (t *Transport) Progress() float64 {
	if t.total <= 0 {
		return 0
	}
	return min(float64(t.elapsed)/float64(t.total), 1)
}
