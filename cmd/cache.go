package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/chosic-go/chosic/internal/repositories"
	"github.com/chosic-go/chosic/internal/shared"
	"github.com/urfave/cli/v3"
)

// CacheTracks lists tracks stored in the local cache database.
func (r *Runner) CacheTracks(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return fmt.Errorf("%w: run 'chosic setup database' first", shared.ErrServiceUnavailable)
	}
	defer db.Close()

	criteria := map[string]any{}
	if artist := cmd.String("artist"); artist != "" {
		criteria["artist"] = artist
	}

	tracks, err := repositories.NewTrackRepository(db).List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list cached tracks: %w", err)
	}

	if cmd.Bool("json") {
		items := make([]any, len(tracks))
		for i, track := range tracks {
			items[i] = track.Item()
		}
		return r.writeJSON(items, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Cached Tracks (%d)", len(tracks)))
	for i, track := range tracks {
		r.writePlain("%d. %s - %s [%s]\n",
			i+1, track.Artist(), track.Name(), shared.FormatDuration(track.Duration()))
	}
	return nil
}

// CacheArtists lists artists stored in the local cache database.
func (r *Runner) CacheArtists(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return fmt.Errorf("%w: run 'chosic setup database' first", shared.ErrServiceUnavailable)
	}
	defer db.Close()

	criteria := map[string]any{}
	if genre := cmd.String("genre"); genre != "" {
		criteria["genre"] = genre
	}

	artists, err := repositories.NewArtistRepository(db).List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list cached artists: %w", err)
	}

	if cmd.Bool("json") {
		type cachedArtist struct {
			ID         string   `json:"id"`
			Name       string   `json:"name"`
			Popularity int      `json:"popularity"`
			Followers  int      `json:"followers"`
			Genres     []string `json:"genres"`
		}
		items := make([]cachedArtist, len(artists))
		for i, artist := range artists {
			items[i] = cachedArtist{
				ID:         artist.SpotifyID(),
				Name:       artist.Name(),
				Popularity: artist.Popularity(),
				Followers:  artist.Followers(),
				Genres:     artist.Genres(),
			}
		}
		return r.writeJSON(items, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Cached Artists (%d)", len(artists)))
	for i, artist := range artists {
		r.writePlain("%d. %s (popularity %d, followers %d)",
			i+1, artist.Name(), artist.Popularity(), artist.Followers())
		if genres := artist.Genres(); len(genres) > 0 {
			r.writePlain(" [%s]", strings.Join(genres, ", "))
		}
		r.writePlain("\n")
	}
	return nil
}
