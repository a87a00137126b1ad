package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/chosic-go/chosic/internal/catalog"
	"github.com/chosic-go/chosic/internal/formatter"
	"github.com/chosic-go/chosic/internal/services"
	"github.com/chosic-go/chosic/internal/shared"
	"github.com/urfave/cli/v3"
)

// Track fetches a single track by ID or open.spotify.com URL.
func (r *Runner) Track(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: track ID or URL required", shared.ErrMissingArgument)
	}

	closeCache := r.attachCache()
	defer closeCache()

	track, err := r.catalog.Track(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch track: %w", err)
	}

	if cmd.Bool("save") {
		r.saveResponse("track_"+track.ID+".json", track)
	}

	if cmd.Bool("json") {
		return r.writeJSON(track, cmd.Bool("pretty"))
	}

	r.writePlainHeader(track.Name)
	r.writePlain("Artist: %s\n", track.ArtistDisplay())
	if track.Album != nil {
		r.writePlain("Album: %s (%s)\n", track.Album.Name, track.Album.ReleaseDate)
	}
	r.writePlain("Duration: %s\n", shared.FormatDuration(track.DurationMS))
	r.writePlain("Popularity: %d\n", track.Popularity)
	if track.PreviewURL != "" {
		r.writePlain("Preview: %s\n", track.PreviewURL)
	}
	return nil
}

// Artists fetches one or more artists by comma-separated IDs or URLs.
func (r *Runner) Artists(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.StringArg("ids")
	if ids == "" {
		return fmt.Errorf("%w: artist IDs required", shared.ErrMissingArgument)
	}

	closeCache := r.attachCache()
	defer closeCache()

	artists, err := r.catalog.Artists(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to fetch artists: %w", err)
	}

	if cmd.Bool("save") {
		r.saveResponse("artists.json", artists)
	}

	if cmd.Bool("json") {
		return r.writeJSON(artists, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Artists (%d)", len(artists)))
	for i, artist := range artists {
		r.writePlain("%d. %s", i+1, artist.Name)
		if artist.Stats != nil {
			r.writePlain(" (popularity %d, followers %d)", artist.Stats.Popularity, artist.Stats.Followers)
			if len(artist.Stats.Genres) > 0 {
				r.writePlain(" [%s]", strings.Join(artist.Stats.Genres, ", "))
			}
		}
		r.writePlain("\n")
	}
	return nil
}

// Search searches the catalog for tracks or artists.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query required", shared.ErrMissingArgument)
	}

	closeCache := r.attachCache()
	defer closeCache()

	resp, err := r.catalog.Search(ctx, services.SearchOptions{
		Query:    query,
		Type:     cmd.String("type"),
		Limit:    int(cmd.Int("limit")),
		FetchAll: cmd.Bool("all"),
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if resp.Empty() {
		r.writePlain("No results for %q\n", query)
		return nil
	}

	if cmd.Bool("save") {
		r.saveResponse("search_results.json", resp)
	}

	if export := cmd.String("export"); export != "" {
		return r.exportSearch(resp, query, export, cmd.String("output"))
	}

	if cmd.Bool("json") {
		return r.writeJSON(resp, cmd.Bool("pretty"))
	}

	if resp.Tracks != nil {
		r.writePlainHeader(fmt.Sprintf("Tracks (%d)", len(resp.Tracks.Items)))
		for i, track := range resp.Tracks.Items {
			r.writePlain("%d. %s - %s [%s]\n",
				i+1, track.ArtistDisplay(), track.Name, shared.FormatDuration(track.DurationMS))
		}
	}
	if resp.Artists != nil {
		r.writePlainHeader(fmt.Sprintf("Artists (%d)", len(resp.Artists.Items)))
		for i, artist := range resp.Artists.Items {
			r.writePlain("%d. %s\n", i+1, artist.Name)
		}
	}
	return nil
}

// exportSearch writes search results to disk in the requested format.
func (r *Runner) exportSearch(resp *catalog.Response, query, format, output string) error {
	if resp.Tracks == nil || len(resp.Tracks.Items) == 0 {
		return fmt.Errorf("%w: export requires track results", shared.ErrInvalidArgument)
	}
	tracks := resp.Tracks.Items

	switch format {
	case "csv":
		if output == "" {
			output = "search_results"
		}
		result, err := formatter.WriteCSVExport(query, tracks, output)
		if err != nil {
			return fmt.Errorf("csv export failed: %w", err)
		}
		r.writePlain("✓ Exported %d tracks to %s\n", len(tracks), result.TracksFile)
		r.writePlain("Metadata: %s\n", result.MetadataFile)
		return nil
	case "markdown", "md":
		if output == "" {
			output = "search_results"
		}
		imageURL := ""
		if tracks[0].Image != "" {
			imageURL = tracks[0].Image
		}
		result, err := formatter.WriteMarkdownExport(query, tracks, output, imageURL)
		if err != nil {
			return fmt.Errorf("markdown export failed: %w", err)
		}
		r.writePlain("✓ Exported %d tracks to %s\n", len(tracks), result.Directory)
		return nil
	case "text", "txt":
		if output == "" {
			output = "search_results.txt"
		}
		written, err := formatter.WriteTextExport(query, tracks, output)
		if err != nil {
			return fmt.Errorf("text export failed: %w", err)
		}
		r.writePlain("✓ Exported %d tracks to %s\n", len(tracks), written)
		return nil
	default:
		return fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
	}
}

// Recommend fetches recommendations seeded by tracks or artists.
func (r *Runner) Recommend(ctx context.Context, cmd *cli.Command) error {
	seedTracks := cmd.String("tracks")
	seedArtists := cmd.String("artists")
	if seedTracks == "" && seedArtists == "" {
		return fmt.Errorf("%w: at least one of --tracks or --artists required", shared.ErrMissingArgument)
	}

	closeCache := r.attachCache()
	defer closeCache()

	opts := services.RecommendationOptions{
		Limit:    int(cmd.Int("limit")),
		FetchAll: cmd.Bool("all"),
	}
	if seedTracks != "" {
		opts.SeedTracks = seedTracks
	}
	if seedArtists != "" {
		opts.SeedArtists = seedArtists
	}

	resp, err := r.catalog.Recommendations(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to fetch recommendations: %w", err)
	}

	if cmd.Bool("save") {
		r.saveResponse("recommendations.json", resp)
	}

	if cmd.Bool("json") {
		return r.writeJSON(resp, cmd.Bool("pretty"))
	}

	if resp.Tracks == nil || len(resp.Tracks.Items) == 0 {
		r.writePlain("No recommendations found\n")
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Recommendations (%d)", len(resp.Tracks.Items)))
	for i, track := range resp.Tracks.Items {
		r.writePlain("%d. %s - %s [%s]\n",
			i+1, track.ArtistDisplay(), track.Name, shared.FormatDuration(track.DurationMS))
	}
	return nil
}

// Features fetches audio features for a track.
func (r *Runner) Features(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: track ID or URL required", shared.ErrMissingArgument)
	}

	features, err := r.catalog.AudioFeatures(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch audio features: %w", err)
	}

	if cmd.Bool("save") {
		r.saveResponse("features_"+features.ID+".json", features)
	}

	if cmd.Bool("json") {
		return r.writeJSON(features, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Audio Features: %s", features.ID))
	r.writePlain("Tempo: %.1f BPM\n", features.Tempo)
	r.writePlain("Key: %d, Mode: %d, Time signature: %d\n", features.Key, features.Mode, features.TimeSignature)
	r.writePlain("Danceability: %.2f\n", features.Danceability)
	r.writePlain("Energy: %.2f\n", features.Energy)
	r.writePlain("Valence: %.2f\n", features.Valence)
	r.writePlain("Acousticness: %.2f\n", features.Acousticness)
	r.writePlain("Instrumentalness: %.2f\n", features.Instrumentalness)
	r.writePlain("Liveness: %.2f\n", features.Liveness)
	r.writePlain("Speechiness: %.2f\n", features.Speechiness)
	r.writePlain("Loudness: %.1f dB\n", features.Loudness)
	return nil
}

// Releases fetches new releases for a genre.
func (r *Runner) Releases(ctx context.Context, cmd *cli.Command) error {
	genre := cmd.StringArg("genre")
	if genre == "" {
		return fmt.Errorf("%w: genre name required", shared.ErrMissingArgument)
	}

	resp, err := r.catalog.GenreReleases(ctx, genre, int(cmd.Int("limit")), nil)
	if err != nil {
		return fmt.Errorf("failed to fetch releases: %w", err)
	}

	if cmd.Bool("save") {
		r.saveResponse("releases_"+genre+".json", resp)
	}

	if cmd.Bool("json") {
		return r.writeJSON(resp, cmd.Bool("pretty"))
	}

	if resp.GenreReleases == nil || len(resp.GenreReleases.Items) == 0 {
		r.writePlain("No releases found for %q\n", genre)
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("New Releases: %s (%d)", genre, len(resp.GenreReleases.Items)))
	for i, release := range resp.GenreReleases.Items {
		r.writePlain("%d. %s - %s", i+1, release.ArtistName, release.AlbumName)
		if release.ReleaseDate != "" {
			r.writePlain(" (%s)", release.ReleaseDate)
		}
		r.writePlain("\n")
	}
	return nil
}

// Playlists fetches top playlists for an artist or genre.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	artistID := cmd.String("artist")
	genreName := cmd.String("genre")
	if artistID == "" && genreName == "" {
		return fmt.Errorf("%w: one of --artist or --genre required", shared.ErrMissingArgument)
	}
	if artistID != "" && genreName != "" {
		return fmt.Errorf("%w: cannot specify both --artist and --genre", shared.ErrInvalidArgument)
	}

	resp, err := r.catalog.TopPlaylists(ctx, services.TopPlaylistOptions{
		ArtistID:  artistID,
		GenreName: genreName,
		Limit:     int(cmd.Int("limit")),
	})
	if err != nil {
		return fmt.Errorf("failed to fetch playlists: %w", err)
	}

	if cmd.Bool("save") {
		r.saveResponse("top_playlists.json", resp)
	}

	if cmd.Bool("json") {
		return r.writeJSON(resp, cmd.Bool("pretty"))
	}

	if resp.TopPlaylists == nil || len(resp.TopPlaylists.Items) == 0 {
		r.writePlain("No playlists found\n")
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Top Playlists (%d)", len(resp.TopPlaylists.Items)))
	for i, playlist := range resp.TopPlaylists.Items {
		r.writePlain("%d. %s (%d tracks, %d followers)\n",
			i+1, playlist.Name, playlist.TrackCount, playlist.Followers)
	}
	return nil
}

// Genres fetches the genre label map from the API or a local file.
func (r *Runner) Genres(ctx context.Context, cmd *cli.Command) error {
	var genres *catalog.GenreMap
	var err error

	file := cmd.String("file")
	if file == "" {
		file = r.config.Downloads.GenreMapPath
	}

	if file != "" {
		genres, err = catalog.GenreMapFromFile(file)
	} else {
		genres, err = r.catalog.Genres(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to load genre map: %w", err)
	}

	if cmd.Bool("save") {
		r.saveResponse("genres.json", genres.Entries())
	}

	if cmd.Bool("json") {
		return r.writeJSON(genres.Entries(), cmd.Bool("pretty"))
	}

	entries := genres.Entries()
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	r.writePlainHeader(fmt.Sprintf("Genres (%d)", len(entries)))
	for _, key := range keys {
		if label := entries[key]; label != key {
			r.writePlain("%s → %s\n", key, label)
		} else {
			r.writePlain("%s\n", key)
		}
	}
	return nil
}
