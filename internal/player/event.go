package player

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// EventKind enumerates the notifications a session emits.
type EventKind int

const (
	NowPlaying EventKind = iota
	AddedToPlaylist
	PlaylistCreated
)

func (k EventKind) String() string {
	switch k {
	case NowPlaying:
		return "Now Playing"
	case AddedToPlaylist:
		return "Added to playlist"
	case PlaylistCreated:
		return "Playlist created"
	default:
		return "Unknown"
	}
}

// Event is a notification for the presentation layer.
type Event struct {
	Kind   EventKind
	Title  string // Track title (NowPlaying, AddedToPlaylist)
	Artist string // Track artist (NowPlaying)
	Name   string // Playlist name (PlaylistCreated)
}

// Message renders the event description shown to users.
func (e Event) Message() string {
	switch e.Kind {
	case NowPlaying:
		return fmt.Sprintf("%s by %s", e.Title, e.Artist)
	case AddedToPlaylist:
		return fmt.Sprintf("%s added to playlist", e.Title)
	case PlaylistCreated:
		return fmt.Sprintf("%s has been created", e.Name)
	default:
		return ""
	}
}

// Notifier receives session events. Implementations must not block and must not call back into the session.
type Notifier interface {
	Notify(Event)
}

// NotifierFunc adapts a function to [Notifier].
type NotifierFunc func(Event)

func (f NotifierFunc) Notify(e Event) { f(e) }

// Discard drops every event.
var Discard Notifier = NotifierFunc(func(Event) {})

// ChannelNotifier buffers events on a channel. When the buffer is full new events are dropped.
type ChannelNotifier struct {
	events chan Event
}

// NewChannelNotifier creates a ChannelNotifier with the given buffer size.
func NewChannelNotifier(size int) *ChannelNotifier {
	return &ChannelNotifier{events: make(chan Event, size)}
}

// Notify sends e without blocking.
func (n *ChannelNotifier) Notify(e Event) {
	select {
	case n.events <- e:
		// Sent successfully
	default:
		// Buffer full, skip this event
	}
}

// Events returns the receive side of the buffer.
func (n *ChannelNotifier) Events() <-chan Event {
	return n.events
}

// LogNotifier writes each event to logger at info level.
func LogNotifier(logger *log.Logger) Notifier {
	return NotifierFunc(func(e Event) {
		logger.Info(e.Kind.String(), "message", e.Message())
	})
}

// Notifiers fans an event out to several notifiers in order.
type Notifiers []Notifier

func (ns Notifiers) Notify(e Event) {
	for _, n := range ns {
		n.Notify(e)
	}
}
