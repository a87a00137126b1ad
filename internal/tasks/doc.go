// Package tasks orchestrates long-running catalog operations with real-time progress reporting.
//
// # Core Operations
//
// The [AssetEngine] downloads preview audio and cover art for tracks:
//
//  1. [AssetEngine.DownloadTrackAssets] : Single-track asset download
//     - Resolves the track through a [TrackSource]
//     - Creates a per-track folder named "{track} - {artist} ({id})"
//     - Saves the audio preview and the default/large cover images
//
//  2. [AssetEngine.BulkDownload] : Concurrent multi-track download
//     - Worker pool with configurable concurrency and rate limiting
//     - Handles partial failures gracefully
//     - Writes a manifest file summarizing the run
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
package tasks
