package catalog

import "fmt"

// UnmappableError indicates the top-level payload was not a JSON object or
// list and therefore cannot be interpreted at all. Item-level problems never
// produce this error; they increment the collection's Skipped count instead.
type UnmappableError struct {
	Shape string
}

func (e *UnmappableError) Error() string {
	return fmt.Sprintf("cannot map payload: unsupported top-level shape %s", e.Shape)
}

// featureKeys is the reference set used to recognize a bare audio-features
// payload at the root of a response.
var featureKeys = []string{
	"danceability", "energy", "speechiness", "acousticness",
	"instrumentalness", "liveness", "valence", "loudness",
	"tempo", "key", "mode", "time_signature",
}

// Signature fields that identify list payloads without a collection key.
var (
	artistDetailKeys  = []string{"popularity", "followers", "genres"}
	genreReleaseKeys  = []string{"albumId", "album_id", "albumName"}
	topPlaylistSigKey = []string{"playlist_id", "parent_genre", "playlistName"}
)

// MapResponse converts one raw decoded JSON payload into a [Response].
//
// The five collection checks run independently against the same input, so a
// combined payload (e.g. search returning tracks and artists) populates
// several fields. Individual items that are not well-formed objects are
// skipped and counted, never fatal.
func MapResponse(data any) (*Response, error) {
	switch root := data.(type) {
	case map[string]any:
		resp := &Response{}
		resp.Tracks = mapTracks(root)
		resp.Artists = mapArtists(root)
		resp.Features = mapFeatures(root)
		resp.GenreReleases = mapGenreReleases(root, nil)
		resp.TopPlaylists = mapTopPlaylists(root, nil)
		return resp, nil
	case []any:
		// Some endpoints return a bare list; only the signature-based
		// detectors apply.
		resp := &Response{}
		resp.GenreReleases = mapGenreReleases(nil, root)
		resp.TopPlaylists = mapTopPlaylists(nil, root)
		return resp, nil
	default:
		return nil, &UnmappableError{Shape: fmt.Sprintf("%T", data)}
	}
}

func mapTracks(root map[string]any) *TrackCollection {
	raw, ok := root["tracks"]
	if !ok || raw == nil {
		return nil
	}

	coll := &TrackCollection{Items: []TrackItem{}}
	items, ok := itemList(raw)
	if !ok {
		return coll
	}
	for _, entry := range items {
		m, ok := entry.(map[string]any)
		if !ok || len(m) == 0 {
			coll.Skipped++
			continue
		}
		coll.Items = append(coll.Items, trackFromMap(m))
	}
	return coll
}

func trackFromMap(m map[string]any) TrackItem {
	track := TrackItem{
		ID:         stringFrom(m["id"]),
		Name:       stringFrom(m["name"]),
		Artists:    []SimpleArtist{},
		PreviewURL: stringFrom(m["preview_url"]),
		DurationMS: intFrom(m["duration_ms"]),
		Popularity: intFrom(m["popularity"]),
	}

	if rawArtists, ok := m["artists"].([]any); ok {
		for _, ra := range rawArtists {
			am, ok := ra.(map[string]any)
			if !ok {
				continue
			}
			track.Artists = append(track.Artists, SimpleArtist{
				ID:   stringFrom(am["id"]),
				Name: stringFrom(am["name"]),
			})
		}
	}
	// Fallback for flattened payloads that carry a single "artist" string.
	if len(track.Artists) == 0 {
		if name, ok := m["artist"].(string); ok && name != "" {
			track.Artists = append(track.Artists, SimpleArtist{Name: name})
		}
	}

	if am, ok := m["album"].(map[string]any); ok && len(am) > 0 {
		track.Album = &AlbumItem{
			ID:                   stringFrom(am["id"]),
			Name:                 stringFrom(am["name"]),
			AlbumType:            stringFrom(am["album_type"]),
			ReleaseDate:          stringFrom(am["release_date"]),
			ReleaseDatePrecision: stringFrom(am["release_date_precision"]),
			ImageDefault:         firstString(am, "image_default", "image"),
			ImageLarge:           stringFrom(am["image_large"]),
		}
	}

	track.Image = stringFrom(m["image"])
	if track.Image == "" && track.Album != nil {
		track.Image = track.Album.ImageDefault
	}
	return track
}

func mapArtists(root map[string]any) *ArtistCollection {
	raw, ok := root["artists"]
	if ok && raw != nil {
		coll := &ArtistCollection{Items: []ArtistItem{}}
		items, ok := itemList(raw)
		if !ok {
			return coll
		}
		for _, entry := range items {
			m, ok := entry.(map[string]any)
			if !ok || len(m) == 0 {
				coll.Skipped++
				continue
			}
			coll.Items = append(coll.Items, artistFromMap(m))
		}
		return coll
	}

	// Some endpoints return a single artist object as the whole body.
	if stringFrom(root["id"]) != "" && hasAnyKey(root, artistDetailKeys...) {
		return &ArtistCollection{Items: []ArtistItem{artistFromMap(root)}}
	}
	return nil
}

func artistFromMap(m map[string]any) ArtistItem {
	artist := ArtistItem{
		ID:    stringFrom(m["id"]),
		Name:  stringFrom(m["name"]),
		Image: stringFrom(m["image"]),
	}
	// The detailed variant is data-driven: any stats field promotes it.
	if hasAnyKey(m, artistDetailKeys...) {
		artist.Stats = &ArtistStats{
			Popularity:  intFrom(m["popularity"]),
			Followers:   intFrom(m["followers"]),
			UpdatedDate: stringFrom(m["updated_date"]),
			Genres:      stringsFrom(m["genres"]),
			Cached:      intFrom(m["cached"]),
		}
	}
	return artist
}

func mapFeatures(root map[string]any) *Features {
	raw, ok := root["features"].(map[string]any)
	if !ok {
		// The features endpoint returns descriptors directly in the body.
		if !hasAnyKey(root, featureKeys...) {
			return nil
		}
		raw = root
	}
	return &Features{
		ID:               stringFrom(raw["id"]),
		DurationMS:       intFrom(raw["duration_ms"]),
		Danceability:     floatFrom(raw["danceability"]),
		Energy:           floatFrom(raw["energy"]),
		Speechiness:      floatFrom(raw["speechiness"]),
		Acousticness:     floatFrom(raw["acousticness"]),
		Instrumentalness: floatFrom(raw["instrumentalness"]),
		Liveness:         floatFrom(raw["liveness"]),
		Valence:          floatFrom(raw["valence"]),
		Loudness:         floatFrom(raw["loudness"]),
		Tempo:            floatFrom(raw["tempo"]),
		Key:              intFrom(raw["key"]),
		Mode:             intFrom(raw["mode"]),
		TimeSignature:    intFrom(raw["time_signature"]),
	}
}

// collectionList finds the raw item list for a signature-based collection:
// an explicit key, a bare list root whose first element matches the
// signature, or an `items` wrapper whose first element matches.
func collectionList(root map[string]any, list []any, key string, signature []string) ([]any, bool) {
	if root != nil {
		if raw, ok := root[key]; ok && raw != nil {
			if items, ok := itemList(raw); ok {
				return items, true
			}
			return nil, false
		}
		if items, ok := root["items"].([]any); ok {
			if firstMatches(items, signature) {
				return items, true
			}
		}
		return nil, false
	}
	if firstMatches(list, signature) {
		return list, true
	}
	return nil, false
}

func firstMatches(items []any, signature []string) bool {
	if len(items) == 0 {
		return false
	}
	first, ok := items[0].(map[string]any)
	if !ok {
		return false
	}
	return hasAnyKey(first, signature...)
}

func mapGenreReleases(root map[string]any, list []any) *GenreReleaseCollection {
	items, ok := collectionList(root, list, "genre_releases", genreReleaseKeys)
	if !ok {
		return nil
	}
	coll := &GenreReleaseCollection{Items: []GenreReleaseItem{}}
	for _, entry := range items {
		m, ok := entry.(map[string]any)
		if !ok {
			coll.Skipped++
			continue
		}
		coll.Items = append(coll.Items, GenreReleaseItem{
			AlbumID:     firstString(m, "albumId", "album_id", "id"),
			AlbumName:   firstString(m, "albumName", "album_name", "name"),
			AlbumURL:    firstString(m, "albumUrl", "album_url"),
			AlbumImage:  firstString(m, "albumImg", "album_img", "image"),
			ReleaseDate: firstString(m, "release_date", "releaseDate"),
			ArtistName:  firstString(m, "artistName", "artist_name", "artist"),
			AlbumType:   firstString(m, "album_type", "albumType"),
		})
	}
	return coll
}

func mapTopPlaylists(root map[string]any, list []any) *TopPlaylistCollection {
	items, ok := collectionList(root, list, "top_playlists", topPlaylistSigKey)
	if !ok {
		return nil
	}
	coll := &TopPlaylistCollection{Items: []TopPlaylistItem{}}
	for _, entry := range items {
		m, ok := entry.(map[string]any)
		if !ok {
			coll.Skipped++
			continue
		}
		coll.Items = append(coll.Items, TopPlaylistItem{
			ID:          firstString(m, "id", "playlist_id", "playlistId", "uri"),
			Name:        firstString(m, "name", "playlistName"),
			URL:         firstString(m, "playlist_url", "playlistUrl", "url"),
			Image:       firstString(m, "image", "playlist_img", "playlistImage"),
			Description: firstString(m, "description", "desc"),
			TrackCount:  firstInt(m, "tracks_count", "num_tracks", "track_count"),
			Followers:   firstInt(m, "followers", "followers_count"),
			ParentGenre: firstString(m, "parent_genre", "genre_name"),
		})
	}
	return coll
}
