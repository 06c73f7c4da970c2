// Package player implements the playback session: the queue & history engine and the simulated transport.
//
// # Session
//
// A [Session] owns the current track, the forward queue derived from the list a track was played from, and the
// bounded recently played history (most recent first, 20 entries, unique ids). There is no process-wide
// instance; presentation layers create one with [NewSession] and issue commands to it:
//
//   - [Session.PlayTrack] : play a track, optionally replacing the queue with what follows it in a context list
//   - [Session.TogglePlayPause], [Session.NextTrack], [Session.PreviousTrack]
//   - [Session.SetVolume], [Session.ToggleMute], [Session.SetQueue]
//   - [Session.AddToPlaylist], [Session.CreatePlaylist]
//
// Every command is synchronous and atomic with respect to the others.
//
// # Transport
//
// The [Transport] advances elapsed time once per tick while a track is playing and calls back into the session
// when the track ends. Ticks come from an injected [Scheduler]; [TickerScheduler] uses wall-clock time and tests
// drive ticks by hand. At most one tick sequence is live: arming a new one cancels the previous one, and a
// sequence number drops ticks that were already in flight when their sequence was cancelled.
//
// # Notifications
//
// NowPlaying, AddedToPlaylist and PlaylistCreated [Event]s are delivered fire-and-forget to a [Notifier].
package player
