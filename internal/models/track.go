package models

import (
	"fmt"
	"time"

	"github.com/chosic-go/chosic/internal/catalog"
)

// CachedTrack is a database-backed snapshot of a track fetched from the
// catalog. Tracks are cached on every fetch so later listings and downloads
// work offline.
type CachedTrack struct {
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
	deletedAt  *time.Time
}

// NewCachedTrack builds a cache entry from a mapped catalog item.
func NewCachedTrack(sequence int, item catalog.TrackItem) *CachedTrack {
	now := time.Now()
	track := &CachedTrack{
		sequence:   sequence,
		spotifyID:  item.ID,
		name:       item.Name,
		artist:     item.ArtistDisplay(),
		duration:   item.DurationMS,
		popularity: item.Popularity,
		previewURL: item.PreviewURL,
		image:      item.Image,
		createdAt:  now,
		updatedAt:  now,
	}
	if item.Album != nil {
		track.album = item.Album.Name
	}
	return track
}

func (t *CachedTrack) ID() string           { return t.id }
func (t *CachedTrack) CreatedAt() time.Time { return t.createdAt }
func (t *CachedTrack) UpdatedAt() time.Time { return t.updatedAt }

// Validate requires a catalog id and a name.
func (t *CachedTrack) Validate() error {
	if t.spotifyID == "" {
		return fmt.Errorf("cached track missing catalog id")
	}
	if t.name == "" {
		return fmt.Errorf("cached track missing name")
	}
	return nil
}

func (t *CachedTrack) Sequence() int         { return t.sequence }
func (t *CachedTrack) SpotifyID() string     { return t.spotifyID }
func (t *CachedTrack) Name() string          { return t.name }
func (t *CachedTrack) Artist() string        { return t.artist }
func (t *CachedTrack) Album() string         { return t.album }
func (t *CachedTrack) Duration() int         { return t.duration }
func (t *CachedTrack) Popularity() int       { return t.popularity }
func (t *CachedTrack) PreviewURL() string    { return t.previewURL }
func (t *CachedTrack) Image() string         { return t.image }
func (t *CachedTrack) DeletedAt() *time.Time { return t.deletedAt }

func (t *CachedTrack) SetID(id string)            { t.id = id }
func (t *CachedTrack) SetSequence(sequence int)   { t.sequence = sequence }
func (t *CachedTrack) SetCreatedAt(ts time.Time)  { t.createdAt = ts }
func (t *CachedTrack) SetUpdatedAt(ts time.Time)  { t.updatedAt = ts }
func (t *CachedTrack) SetDeletedAt(ts *time.Time) { t.deletedAt = ts }

// Item converts the cache entry back into a catalog item for display and
// export paths that operate on API shapes.
func (t *CachedTrack) Item() catalog.TrackItem {
	item := catalog.TrackItem{
		ID:         t.spotifyID,
		Name:       t.name,
		Image:      t.image,
		PreviewURL: t.previewURL,
		DurationMS: t.duration,
		Popularity: t.popularity,
	}
	if t.artist != "" {
		item.Artists = []catalog.SimpleArtist{{Name: t.artist}}
	}
	if t.album != "" {
		item.Album = &catalog.AlbumItem{Name: t.album}
	}
	return item
}
