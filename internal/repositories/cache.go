package repositories

import (
	"fmt"
	"strings"

	"github.com/chosic-go/chosic/internal/catalog"
	"github.com/chosic-go/chosic/internal/models"
)

// CacheAdapter implements services.Cacher on top of the track and artist
// repositories.
//
// Caching is write-through and idempotent: an entity already present under
// the same catalog id is refreshed instead of duplicated, and UNIQUE
// constraint races are swallowed.
type CacheAdapter struct {
	tracks  *TrackRepository
	artists *ArtistRepository
}

// NewCacheAdapter creates a CacheAdapter over the given repositories.
func NewCacheAdapter(tracks *TrackRepository, artists *ArtistRepository) *CacheAdapter {
	return &CacheAdapter{tracks: tracks, artists: artists}
}

// CacheTrack inserts or refreshes a track snapshot.
func (a *CacheAdapter) CacheTrack(item catalog.TrackItem) error {
	if item.ID == "" {
		return nil
	}

	if existing, err := a.tracks.GetBySpotifyID(item.ID); err == nil && existing != nil {
		fresh := models.NewCachedTrack(existing.Sequence(), item)
		fresh.SetID(existing.ID())
		fresh.SetCreatedAt(existing.CreatedAt())
		if err := a.tracks.Update(fresh); err != nil {
			return fmt.Errorf("failed to refresh cached track: %w", err)
		}
		return nil
	}

	if err := a.tracks.Create(models.NewCachedTrack(0, item)); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to cache track: %w", err)
	}
	return nil
}

// CacheArtist inserts or refreshes an artist snapshot.
func (a *CacheAdapter) CacheArtist(item catalog.ArtistItem) error {
	if item.ID == "" {
		return nil
	}

	if existing, err := a.artists.GetBySpotifyID(item.ID); err == nil && existing != nil {
		fresh := models.NewCachedArtist(existing.Sequence(), item)
		fresh.SetID(existing.ID())
		fresh.SetCreatedAt(existing.CreatedAt())
		if err := a.artists.Update(fresh); err != nil {
			return fmt.Errorf("failed to refresh cached artist: %w", err)
		}
		return nil
	}

	if err := a.artists.Create(models.NewCachedArtist(0, item)); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to cache artist: %w", err)
	}
	return nil
}
