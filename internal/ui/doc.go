// Package ui implements an interactive terminal player using bubbletea's Elm architecture.
//
// The TUI is a thin presentation layer over a [player.Session]:
//  1. [PlaylistListView] : Browse playlists and create new ones
//  2. [TrackListView] : Play tracks from a playlist, the recently played list or the queue
//  3. [AddView] : Pick a playlist to add the highlighted track to
//  4. [CreateView] : Name a new playlist
//
// A now-playing bar with a [progress.Model] is rendered under every view and redrawn once per second.
// Session notifications flow through a [player.ChannelNotifier] and are shown on the status line.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) plus transport keys (space, n, p, +/-, m)
// with contextual help displayed via charmbracelet/bubbles/help.
package ui
