// Package models defines the persistence layer contracts and the
// database-backed entities for the local catalog cache.
//
// Persistent entities wrap catalog items fetched from the API:
//   - [CachedTrack] : tracks seen by search, recommendations, or direct fetch
//   - [CachedArtist] : artists with their stats snapshot at fetch time
//
// All persistent entities implement the [Model] interface providing ID
// generation, timestamps, validation, and soft delete support. The
// [Repository] interface defines standard CRUD operations for database
// access.
package models
