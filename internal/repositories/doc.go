// Package repositories implements durable storage for the music library.
//
// Everything is persisted as whole JSON documents in a key/value [Storage]; there are no partial writes.
//
// Key Implementations:
//   - [RecordStore] : SQLite-backed [Storage] over the records table
//   - [PlaylistRepository] : Ordered playlist collection, rewritten to the "playlists" record on every mutation
//   - [HistoryRepository] : Recently played tracks, rewritten to the "recentlyPlayed" record on every mutation
//   - [Library] : Hydrates both repositories at startup, seeding the built-in catalog on first run
//
// Storage failures never take the session down: unreadable or corrupt records fall back to the seed catalog
// (or an empty history) and failed writes are reported to the caller as [shared.ErrStorageUnavailable].
package repositories
