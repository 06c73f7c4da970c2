// Package tasks runs long library operations with real-time progress reporting.
//
// [BulkExport] writes every playlist to disk through a small worker pool and finishes with a JSON manifest
// summarizing which exports succeeded.
//
// # Progress Reporting
//
// Operations accept an optional channel of [ProgressUpdate] values. Updates use select with default so a slow
// or absent reader never blocks the export.
package tasks
