package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/chosic-go/chosic/internal/catalog"
	"github.com/chosic-go/chosic/internal/models"
	"github.com/chosic-go/chosic/internal/shared"
)

// TrackRepository implements models.Repository[*models.CachedTrack].
//
// Tracks are cached on every fetch so listings and asset downloads can run
// against local data.
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new TrackRepository with the given database connection
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

const trackColumns = "id, sequence, spotify_id, name, artist, album, duration_ms, popularity, preview_url, image, created_at, updated_at, deleted_at"

// Create inserts a new [models.CachedTrack] into the database with generated ID and sequence
func (r *TrackRepository) Create(track *models.CachedTrack) error {
	sequence, err := NextSequence(r.db, "tracks")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	track.SetSequence(sequence)

	id := shared.GenerateID()
	track.SetID(id)

	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO tracks (id, sequence, spotify_id, name, artist, album, duration_ms, popularity, preview_url, image, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		track.SpotifyID(),
		track.Name(),
		track.Artist(),
		track.Album(),
		track.Duration(),
		track.Popularity(),
		track.PreviewURL(),
		track.Image(),
		track.CreatedAt(),
		track.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert track: %w", err)
	}

	return nil
}

// Get retrieves a track by ID, excluding soft-deleted tracks
func (r *TrackRepository) Get(id string) (*models.CachedTrack, error) {
	query := "SELECT " + trackColumns + " FROM tracks WHERE id = ? AND deleted_at IS NULL"
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetBySpotifyID retrieves a track by its catalog identifier
func (r *TrackRepository) GetBySpotifyID(spotifyID string) (*models.CachedTrack, error) {
	query := "SELECT " + trackColumns + " FROM tracks WHERE spotify_id = ? AND deleted_at IS NULL LIMIT 1"
	return r.scanOne(r.db.QueryRow(query, spotifyID))
}

// Update modifies an existing track in the database
func (r *TrackRepository) Update(track *models.CachedTrack) error {
	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	track.SetUpdatedAt(now)

	query := `
		UPDATE tracks
		SET name = ?, artist = ?, album = ?, duration_ms = ?, popularity = ?, preview_url = ?, image = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		track.Name(),
		track.Artist(),
		track.Album(),
		track.Duration(),
		track.Popularity(),
		track.PreviewURL(),
		track.Image(),
		now,
		track.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update track: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("track not found or already deleted: %s", track.ID())
	}

	return nil
}

// Delete soft-deletes a track by ID
func (r *TrackRepository) Delete(id string) error {
	result, err := r.db.Exec("UPDATE tracks SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL", time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete track: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("track not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all tracks matching the given criteria, excluding soft-deleted tracks
func (r *TrackRepository) List(criteria map[string]any) ([]*models.CachedTrack, error) {
	query := "SELECT " + trackColumns + " FROM tracks WHERE deleted_at IS NULL"
	args := []any{}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " AND artist LIKE ?"
		args = append(args, "%"+artist+"%")
	}

	if name, ok := criteria["name"].(string); ok && name != "" {
		query += " AND name LIKE ?"
		args = append(args, "%"+name+"%")
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*models.CachedTrack
	for rows.Next() {
		track, err := scanTrack(rows.Scan)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tracks, nil
}

func (r *TrackRepository) scanOne(row *sql.Row) (*models.CachedTrack, error) {
	track, err := scanTrack(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("track not found")
	}
	return track, err
}

// catalogTrack reassembles the catalog item shape the model constructor expects.
func catalogTrack(spotifyID, name, artist, album string, duration, popularity int, previewURL, image string) catalog.TrackItem {
	item := catalog.TrackItem{
		ID:         spotifyID,
		Name:       name,
		Image:      image,
		PreviewURL: previewURL,
		DurationMS: duration,
		Popularity: popularity,
	}
	if artist != "" {
		item.Artists = []catalog.SimpleArtist{{Name: artist}}
	}
	if album != "" {
		item.Album = &catalog.AlbumItem{Name: album}
	}
	return item
}

// scanTrack rebuilds a [models.CachedTrack] from a row scanner.
func scanTrack(scan func(...any) error) (*models.CachedTrack, error) {
	var (
		id         string
		sequence   int
		spotifyID  string
		name       string
		artist     string
		album      string
		duration   int
		popularity int
		previewURL string
		image      string
		createdAt  time.Time
		updatedAt  time.Time
		deletedAt  sql.NullTime
	)

	err := scan(&id, &sequence, &spotifyID, &name, &artist, &album, &duration, &popularity, &previewURL, &image, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}

	item := catalogTrack(spotifyID, name, artist, album, duration, popularity, previewURL, image)
	track := models.NewCachedTrack(sequence, item)
	track.SetID(id)
	track.SetCreatedAt(createdAt)
	track.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		track.SetDeletedAt(&deletedAt.Time)
	}

	return track, nil
}
