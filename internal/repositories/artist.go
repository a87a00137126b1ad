package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/chosic-go/chosic/internal/catalog"
	"github.com/chosic-go/chosic/internal/models"
	"github.com/chosic-go/chosic/internal/shared"
)

// ArtistRepository implements models.Repository[*models.CachedArtist].
type ArtistRepository struct {
	db *sql.DB
}

// NewArtistRepository creates a new ArtistRepository with the given database connection
func NewArtistRepository(db *sql.DB) *ArtistRepository {
	return &ArtistRepository{db: db}
}

const artistColumns = "id, sequence, spotify_id, name, image, popularity, followers, genres, created_at, updated_at, deleted_at"

// Create inserts a new [models.CachedArtist] into the database with generated ID and sequence
func (r *ArtistRepository) Create(artist *models.CachedArtist) error {
	sequence, err := NextSequence(r.db, "artists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	artist.SetSequence(sequence)

	id := shared.GenerateID()
	artist.SetID(id)

	if err := artist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO artists (id, sequence, spotify_id, name, image, popularity, followers, genres, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		artist.SpotifyID(),
		artist.Name(),
		artist.Image(),
		artist.Popularity(),
		artist.Followers(),
		artist.GenresRaw(),
		artist.CreatedAt(),
		artist.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert artist: %w", err)
	}

	return nil
}

// Get retrieves an artist by ID, excluding soft-deleted artists
func (r *ArtistRepository) Get(id string) (*models.CachedArtist, error) {
	query := "SELECT " + artistColumns + " FROM artists WHERE id = ? AND deleted_at IS NULL"
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetBySpotifyID retrieves an artist by its catalog identifier
func (r *ArtistRepository) GetBySpotifyID(spotifyID string) (*models.CachedArtist, error) {
	query := "SELECT " + artistColumns + " FROM artists WHERE spotify_id = ? AND deleted_at IS NULL LIMIT 1"
	return r.scanOne(r.db.QueryRow(query, spotifyID))
}

// Update modifies an existing artist in the database
func (r *ArtistRepository) Update(artist *models.CachedArtist) error {
	if err := artist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	artist.SetUpdatedAt(now)

	query := `
		UPDATE artists
		SET name = ?, image = ?, popularity = ?, followers = ?, genres = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		artist.Name(),
		artist.Image(),
		artist.Popularity(),
		artist.Followers(),
		artist.GenresRaw(),
		now,
		artist.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update artist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("artist not found or already deleted: %s", artist.ID())
	}

	return nil
}

// Delete soft-deletes an artist by ID
func (r *ArtistRepository) Delete(id string) error {
	result, err := r.db.Exec("UPDATE artists SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL", time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete artist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("artist not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all artists matching the given criteria, excluding soft-deleted artists
func (r *ArtistRepository) List(criteria map[string]any) ([]*models.CachedArtist, error) {
	query := "SELECT " + artistColumns + " FROM artists WHERE deleted_at IS NULL"
	args := []any{}

	if name, ok := criteria["name"].(string); ok && name != "" {
		query += " AND name LIKE ?"
		args = append(args, "%"+name+"%")
	}

	if genre, ok := criteria["genre"].(string); ok && genre != "" {
		query += " AND genres LIKE ?"
		args = append(args, "%"+genre+"%")
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query artists: %w", err)
	}
	defer rows.Close()

	var artists []*models.CachedArtist
	for rows.Next() {
		artist, err := scanArtist(rows.Scan)
		if err != nil {
			return nil, err
		}
		artists = append(artists, artist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return artists, nil
}

func (r *ArtistRepository) scanOne(row *sql.Row) (*models.CachedArtist, error) {
	artist, err := scanArtist(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("artist not found")
	}
	return artist, err
}

// scanArtist rebuilds a [models.CachedArtist] from a row scanner.
func scanArtist(scan func(...any) error) (*models.CachedArtist, error) {
	var (
		id         string
		sequence   int
		spotifyID  string
		name       string
		image      string
		popularity int
		followers  int
		genres     string
		createdAt  time.Time
		updatedAt  time.Time
		deletedAt  sql.NullTime
	)

	err := scan(&id, &sequence, &spotifyID, &name, &image, &popularity, &followers, &genres, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan artist: %w", err)
	}

	artist := models.NewCachedArtist(sequence, catalog.ArtistItem{ID: spotifyID, Name: name, Image: image})
	artist.SetID(id)
	artist.SetPopularity(popularity)
	artist.SetFollowers(followers)
	artist.SetGenresRaw(genres)
	artist.SetCreatedAt(createdAt)
	artist.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		artist.SetDeletedAt(&deletedAt.Time)
	}

	return artist, nil
}
