// Package repositories implements SQLite persistence for the catalog cache.
//
// Each repository handles CRUD operations with atomic sequence generation for
// human-readable ordering. All repositories support soft deletes via
// deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [TrackRepository] : track cache with spotify_id lookups
//   - [ArtistRepository] : artist cache with stats snapshots
//   - [CacheAdapter] : the best-effort write-through used by the service layer
//
// Sequence numbers provide stable, human-readable ordering independent of
// UUIDs and creation timestamps. The [NextSequence] function atomically
// increments per-table sequence counters in dedicated sequence tables.
package repositories
