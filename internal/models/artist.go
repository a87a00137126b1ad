package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/chosic-go/chosic/internal/catalog"
)

// CachedArtist is a database-backed snapshot of an artist and the stats it
// carried when fetched. Genres are stored comma-joined.
type CachedArtist struct {
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
	deletedAt  *time.Time
}

// NewCachedArtist builds a cache entry from a mapped catalog item.
func NewCachedArtist(sequence int, item catalog.ArtistItem) *CachedArtist {
	now := time.Now()
	artist := &CachedArtist{
		sequence:  sequence,
		spotifyID: item.ID,
		name:      item.Name,
		image:     item.Image,
		createdAt: now,
		updatedAt: now,
	}
	if item.Stats != nil {
		artist.popularity = item.Stats.Popularity
		artist.followers = item.Stats.Followers
		artist.genres = strings.Join(item.Stats.Genres, ",")
	}
	return artist
}

func (a *CachedArtist) ID() string           { return a.id }
func (a *CachedArtist) CreatedAt() time.Time { return a.createdAt }
func (a *CachedArtist) UpdatedAt() time.Time { return a.updatedAt }

// Validate requires a catalog id and a name.
func (a *CachedArtist) Validate() error {
	if a.spotifyID == "" {
		return fmt.Errorf("cached artist missing catalog id")
	}
	if a.name == "" {
		return fmt.Errorf("cached artist missing name")
	}
	return nil
}

func (a *CachedArtist) Sequence() int         { return a.sequence }
func (a *CachedArtist) SpotifyID() string     { return a.spotifyID }
func (a *CachedArtist) Name() string          { return a.name }
func (a *CachedArtist) Image() string         { return a.image }
func (a *CachedArtist) Popularity() int       { return a.popularity }
func (a *CachedArtist) Followers() int        { return a.followers }
func (a *CachedArtist) DeletedAt() *time.Time { return a.deletedAt }

// Genres returns the genre list, splitting the stored representation.
func (a *CachedArtist) Genres() []string {
	if a.genres == "" {
		return nil
	}
	return strings.Split(a.genres, ",")
}

// GenresRaw returns the stored comma-joined form.
func (a *CachedArtist) GenresRaw() string { return a.genres }

func (a *CachedArtist) SetID(id string)            { a.id = id }
func (a *CachedArtist) SetSequence(sequence int)   { a.sequence = sequence }
func (a *CachedArtist) SetCreatedAt(ts time.Time)  { a.createdAt = ts }
func (a *CachedArtist) SetUpdatedAt(ts time.Time)  { a.updatedAt = ts }
func (a *CachedArtist) SetDeletedAt(ts *time.Time) { a.deletedAt = ts }
func (a *CachedArtist) SetGenresRaw(genres string) { a.genres = genres }
func (a *CachedArtist) SetPopularity(p int)        { a.popularity = p }
func (a *CachedArtist) SetFollowers(f int)         { a.followers = f }
