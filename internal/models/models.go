// package models defines the data model for the spindle music library
package models

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Track is a single playable unit. Tracks are referenced by ID across playlists and history.
type Track struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	Duration string `json:"duration"` // Duration formatted as m:ss
	CoverURL string `json:"coverUrl,omitempty"`
}

// Seconds returns the track duration in whole seconds.
func (t Track) Seconds() (int, error) {
	return ParseDuration(t.Duration)
}

// Playlist is a named, ordered collection of tracks. Insertion order is play order.
type Playlist struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	CoverURL    string  `json:"coverUrl,omitempty"`
	Tracks      []Track `json:"tracks"`
	Color       Accent  `json:"color"`
}

// Contains reports whether a track with the given ID is part of the playlist.
func (p Playlist) Contains(trackID string) bool {
	return IndexOf(p.Tracks, trackID) >= 0
}

// TotalSeconds sums the durations of all tracks, skipping malformed ones.
func (p Playlist) TotalSeconds() int {
	return TotalSeconds(p.Tracks)
}

// Clone returns a deep copy of the playlist so callers cannot alias the track slice.
func (p Playlist) Clone() Playlist {
	p.Tracks = slices.Clone(p.Tracks)
	if p.Tracks == nil {
		p.Tracks = []Track{}
	}
	return p
}

// Album groups tracks sharing an album name. It is derived from playlists and never stored.
type Album struct {
	Name   string
	Artist string // Artist of the first track seen
	Tracks []Track
}

// IndexOf returns the position of the first track with the given ID, or -1.
func IndexOf(tracks []Track, trackID string) int {
	return slices.IndexFunc(tracks, func(t Track) bool { return t.ID == trackID })
}

// TotalSeconds sums track durations, skipping tracks whose duration does not parse.
func TotalSeconds(tracks []Track) int {
	total := 0
	for _, t := range tracks {
		if s, err := t.Seconds(); err == nil {
			total += s
		}
	}
	return total
}

// FormatError reports a duration string that is not in m:ss form.
type FormatError struct {
	Value  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed duration %q: %s", e.Value, e.Reason)
}

// ParseDuration converts an "m:ss" string to whole seconds.
func ParseDuration(value string) (int, error) {
	mins, secs, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok {
		return 0, &FormatError{Value: value, Reason: "missing ':' separator"}
	}

	if !digits(mins) {
		return 0, &FormatError{Value: value, Reason: "minutes must be a non-negative integer"}
	}
	m, err := strconv.Atoi(mins)
	if err != nil {
		return 0, &FormatError{Value: value, Reason: "minutes must be a non-negative integer"}
	}

	if len(secs) != 2 {
		return 0, &FormatError{Value: value, Reason: "seconds must have two digits"}
	}

	s, err := strconv.Atoi(secs)
	if !digits(secs) || err != nil || s >= 60 {
		return 0, &FormatError{Value: value, Reason: "seconds must be between 00 and 59"}
	}

	return m*60 + s, nil
}

// digits reports whether s is a non-empty run of ASCII digits.
func digits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatSeconds renders whole seconds as m:ss.
func FormatSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// FormatTotal renders whole seconds as "X min Y sec", used for playlist and album headers.
func FormatTotal(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d min %d sec", seconds/60, seconds%60)
}
