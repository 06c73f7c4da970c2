// Package models defines the domain values of the spindle music library.
//
// The package contains two categories of types:
//
// 1. Stored values: persisted through the record store as JSON
//   - [Track] : Immutable playable unit with title/artist/album/duration metadata
//   - [Playlist] : Named, user-ordered collection of tracks with an [Accent] color
//
// 2. Derived values: computed on demand, never stored
//   - [Album] : Tracks grouped by album name in first-seen order
//
// Durations are carried as "m:ss" strings to match the stored schema; [ParseDuration] converts them to whole seconds
// and reports malformed input as a [*FormatError].
package models
