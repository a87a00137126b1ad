package services

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/chosic-go/chosic/internal/catalog"
	"github.com/chosic-go/chosic/internal/shared"
)

// CatalogService is the facade over the Chosic catalog operations. It owns
// identifier cleaning, parameter assembly, pagination, and the mapping of raw
// payloads into catalog entities. The transport and resolver are injected;
// the cache is optional and best-effort.
type CatalogService struct {
	transport Transport
	resolver  IDResolver
	cache     Cacher
	pageDelay time.Duration
	logger    *log.Logger
}

// NewCatalogService creates the facade. A nil resolver falls back to
// [SpotifyIDResolver].
func NewCatalogService(transport Transport, resolver IDResolver, logger *log.Logger) *CatalogService {
	if resolver == nil {
		resolver = SpotifyIDResolver{}
	}
	if logger == nil {
		logger = log.New(os.Stderr)
	}

	return &CatalogService{
		transport: transport,
		resolver:  resolver,
		pageDelay: DefaultPageDelay,
		logger:    logger,
	}
}

// SetCache attaches a persistence layer for fetched entities.
func (s *CatalogService) SetCache(cache Cacher) {
	s.cache = cache
}

// SetPageDelay overrides the inter-page delay used when fetching all pages.
func (s *CatalogService) SetPageDelay(delay time.Duration) {
	if delay > 0 {
		s.pageDelay = delay
	}
}

// resolveList cleans one or many identifiers into a comma-joined parameter.
// Accepts a slice, a comma-separated string, or a single value; unresolvable
// entries are dropped.
func (s *CatalogService) resolveList(ids any) string {
	var values []any
	switch v := ids.(type) {
	case []string:
		for _, e := range v {
			values = append(values, e)
		}
	case []any:
		values = v
	case string:
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
	default:
		values = []any{ids}
	}

	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		if id := s.resolver.Resolve(v); id != "" {
			cleaned = append(cleaned, id)
		}
	}
	return strings.Join(cleaned, ",")
}

// Track fetches a single track by id, URI, or share URL.
func (s *CatalogService) Track(ctx context.Context, id string) (*catalog.TrackItem, error) {
	cleanID := s.resolver.Resolve(id)
	if cleanID == "" {
		return nil, fmt.Errorf("%w: track id is empty", shared.ErrInvalidInput)
	}

	resp, err := s.transport.Request(ctx, http.MethodGet, "tracks/"+cleanID, nil)
	if err != nil {
		return nil, err
	}

	// The endpoint returns a bare track object; wrap it so the mapper sees a
	// keyed collection.
	mapped, err := catalog.MapResponse(map[string]any{"tracks": []any{resp}})
	if err != nil {
		return nil, fmt.Errorf("failed to map track response: %w", err)
	}
	if mapped.Tracks == nil || len(mapped.Tracks.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrTrackNotFound, cleanID)
	}

	track := mapped.Tracks.Items[0]
	s.logger.Info("track fetched", "id", track.ID, "name", track.Name)
	s.cacheTracks([]catalog.TrackItem{track})
	return &track, nil
}

// Artists fetches one or more artists. Accepts bare ids, URIs, share URLs,
// a comma-separated string, or a slice of any of those.
func (s *CatalogService) Artists(ctx context.Context, ids any) ([]catalog.ArtistItem, error) {
	param := s.resolveList(ids)
	if param == "" {
		return nil, fmt.Errorf("%w: no artist ids resolved", shared.ErrInvalidInput)
	}

	resp, err := s.transport.Request(ctx, http.MethodGet, "artists", map[string]any{"ids": param})
	if err != nil {
		return nil, err
	}

	mapped, err := catalog.MapResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to map artists response: %w", err)
	}
	if mapped.Artists == nil || len(mapped.Artists.Items) == 0 {
		return nil, fmt.Errorf("%w: no artists in response", shared.ErrAPIRequest)
	}

	s.logger.Info("artists fetched", "count", len(mapped.Artists.Items))
	s.cacheArtists(mapped.Artists.Items)
	return mapped.Artists.Items, nil
}

// RecommendationOptions configures a recommendations request. Seeds accept
// the same identifier forms the resolver handles.
type RecommendationOptions struct {
	SeedTracks  any
	SeedArtists any
	Limit       int
	PageSize    int
	FetchAll    bool
	Extra       map[string]any
}

// Recommendations fetches recommendations for the given seeds. With FetchAll
// it pages through the full result set, merging the track collections.
func (s *CatalogService) Recommendations(ctx context.Context, opts RecommendationOptions) (*catalog.Response, error) {
	if opts.Limit <= 0 {
		opts.Limit = MaxPerRequest
	}
	if opts.PageSize <= 0 {
		opts.PageSize = MaxPerRequest
	}

	params := map[string]any{}
	if opts.SeedTracks != nil {
		if seeds := s.resolveList(opts.SeedTracks); seeds != "" {
			params["seed_tracks"] = seeds
		}
	}
	if opts.SeedArtists != nil {
		if seeds := s.resolveList(opts.SeedArtists); seeds != "" {
			params["seed_artists"] = seeds
		}
	}
	if len(params) == 0 {
		return nil, fmt.Errorf("%w: at least one seed is required", shared.ErrMissingArgument)
	}
	params["limit"] = ClampLimit(opts.Limit)
	for k, v := range opts.Extra {
		params[k] = v
	}
	params = NormalizeParams(params)

	resp, err := s.collect(ctx, "recommendations", params, opts.Limit, opts.PageSize, opts.FetchAll, []string{"tracks"})
	if err != nil {
		return nil, err
	}
	if resp.Tracks != nil {
		s.logger.Info("recommendations fetched", "tracks", len(resp.Tracks.Items))
		s.cacheTracks(resp.Tracks.Items)
	}
	return resp, nil
}

// SearchOptions configures a search request.
type SearchOptions struct {
	Query    string
	Type     string
	Limit    int
	PageSize int
	FetchAll bool
	Extra    map[string]any
}

// Search queries the catalog. With FetchAll it pages through the result set,
// merging both the track and artist collections.
func (s *CatalogService) Search(ctx context.Context, opts SearchOptions) (*catalog.Response, error) {
	if strings.TrimSpace(opts.Query) == "" {
		return nil, fmt.Errorf("%w: search query is empty", shared.ErrMissingArgument)
	}
	if opts.Type == "" {
		opts.Type = "track"
	}
	if opts.Limit <= 0 {
		opts.Limit = 10
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}

	params := map[string]any{
		"q":     opts.Query,
		"type":  opts.Type,
		"limit": ClampLimit(opts.Limit),
	}
	for k, v := range opts.Extra {
		params[k] = v
	}
	params = NormalizeParams(params)

	resp, err := s.collect(ctx, "search", params, opts.Limit, opts.PageSize, opts.FetchAll, []string{"tracks", "artists"})
	if err != nil {
		return nil, err
	}

	tracks, artists := 0, 0
	if resp.Tracks != nil {
		tracks = len(resp.Tracks.Items)
		s.cacheTracks(resp.Tracks.Items)
	}
	if resp.Artists != nil {
		artists = len(resp.Artists.Items)
		s.cacheArtists(resp.Artists.Items)
	}
	s.logger.Info("search completed", "query", opts.Query, "tracks", tracks, "artists", artists)
	return resp, nil
}

// collect runs either a single request or the full pagination walk, then
// maps the aggregated payload.
func (s *CatalogService) collect(ctx context.Context, endpoint string, params map[string]any, limit, pageSize int, fetchAll bool, mergeKeys []string) (*catalog.Response, error) {
	var body any
	var err error

	if fetchAll {
		fetch := func(ctx context.Context, p map[string]any) (any, http.Header, error) {
			return s.transport.RequestWithHeaders(ctx, http.MethodGet, endpoint, p)
		}
		p := newPaginator(fetch, limit, pageSize, mergeKeys, s.pageDelay, s.logger)
		body, err = p.run(ctx, params)
	} else {
		body, err = s.transport.Request(ctx, http.MethodGet, endpoint, params)
	}
	if err != nil {
		return nil, err
	}

	mapped, mapErr := catalog.MapResponse(body)
	if mapErr != nil {
		return nil, fmt.Errorf("failed to map %s response: %w", endpoint, mapErr)
	}
	return mapped, nil
}

// AudioFeatures fetches the audio descriptors for a track.
func (s *CatalogService) AudioFeatures(ctx context.Context, id string) (*catalog.Features, error) {
	cleanID := s.resolver.Resolve(id)
	if cleanID == "" {
		return nil, fmt.Errorf("%w: track id is empty", shared.ErrInvalidInput)
	}

	resp, err := s.transport.Request(ctx, http.MethodGet, "audio-features/"+cleanID, nil)
	if err != nil {
		return nil, err
	}

	mapped, err := catalog.MapResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to map audio features: %w", err)
	}
	if mapped.Features == nil {
		return nil, fmt.Errorf("%w: no audio features in response", shared.ErrAPIRequest)
	}

	s.logger.Info("audio features fetched", "id", cleanID)
	return mapped.Features, nil
}

// GenreReleases fetches new releases for a genre.
func (s *CatalogService) GenreReleases(ctx context.Context, genre string, limit int, extra map[string]any) (*catalog.Response, error) {
	if strings.TrimSpace(genre) == "" {
		return nil, fmt.Errorf("%w: genre is empty", shared.ErrMissingArgument)
	}

	params := map[string]any{"genre": genre}
	if limit > 0 {
		params["limit"] = limit
	}
	for k, v := range extra {
		params[k] = v
	}
	params = NormalizeParams(params)

	resp, err := s.transport.Request(ctx, http.MethodGet, "genre-releases", params)
	if err != nil {
		return nil, err
	}

	mapped, err := catalog.MapResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to map genre releases: %w", err)
	}
	if mapped.GenreReleases != nil {
		s.logger.Info("genre releases fetched", "genre", genre, "count", len(mapped.GenreReleases.Items))
	}
	return mapped, nil
}

// TopPlaylistOptions filters the top-playlists listing. At least one of
// ArtistID or GenreName must be set.
type TopPlaylistOptions struct {
	ArtistID  string
	GenreName string
	Limit     int
	Extra     map[string]any
}

// TopPlaylists fetches the curated playlists for an artist or genre.
func (s *CatalogService) TopPlaylists(ctx context.Context, opts TopPlaylistOptions) (*catalog.Response, error) {
	params := map[string]any{}
	if opts.ArtistID != "" {
		params["artist_id"] = s.resolver.Resolve(opts.ArtistID)
	}
	if opts.GenreName != "" {
		params["genre_name"] = opts.GenreName
	}
	if len(params) == 0 {
		return nil, fmt.Errorf("%w: artist id or genre name is required", shared.ErrMissingArgument)
	}
	if opts.Limit > 0 {
		params["limit"] = opts.Limit
	}
	for k, v := range opts.Extra {
		params[k] = v
	}
	params = NormalizeParams(params)

	resp, err := s.transport.Request(ctx, http.MethodGet, "top-playlists", params)
	if err != nil {
		return nil, err
	}

	mapped, err := catalog.MapResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to map top playlists: %w", err)
	}
	if mapped.TopPlaylists != nil {
		s.logger.Info("top playlists fetched", "count", len(mapped.TopPlaylists.Items))
	}
	return mapped, nil
}

// Genres fetches the full genre listing used to build a [catalog.GenreMap].
func (s *CatalogService) Genres(ctx context.Context) (*catalog.GenreMap, error) {
	resp, err := s.transport.Request(ctx, http.MethodGet, "genres", nil)
	if err != nil {
		return nil, err
	}

	gm, err := catalog.GenreMapFromData(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to build genre map: %w", err)
	}
	s.logger.Info("genre map fetched", "entries", gm.Len())
	return gm, nil
}

func (s *CatalogService) cacheTracks(tracks []catalog.TrackItem) {
	if s.cache == nil {
		return
	}
	for _, track := range tracks {
		if err := s.cache.CacheTrack(track); err != nil {
			s.logger.Warn("failed to cache track", "id", track.ID, "error", err)
		}
	}
}

func (s *CatalogService) cacheArtists(artists []catalog.ArtistItem) {
	if s.cache == nil {
		return
	}
	for _, artist := range artists {
		if err := s.cache.CacheArtist(artist); err != nil {
			s.logger.Warn("failed to cache artist", "id", artist.ID, "error", err)
		}
	}
}
