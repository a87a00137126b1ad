package catalog

import "strings"

// SimpleArtist is the minimal artist reference embedded in a track's artist
// list. Track payloads carry only id and name for each artist.
type SimpleArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AlbumItem represents the album object nested inside a track.
type AlbumItem struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	AlbumType            string `json:"album_type"`
	ReleaseDate          string `json:"release_date"`
	ReleaseDatePrecision string `json:"release_date_precision"`
	ImageDefault         string `json:"image_default,omitempty"`
	ImageLarge           string `json:"image_large,omitempty"`
}

// TrackItem represents a full track. Image falls back to the album's default
// image when the track itself carries none.
type TrackItem struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Image      string         `json:"image,omitempty"`
	Artists    []SimpleArtist `json:"artists"`
	Album      *AlbumItem     `json:"album,omitempty"`
	PreviewURL string         `json:"preview_url,omitempty"`
	DurationMS int            `json:"duration_ms"`
	Popularity int            `json:"popularity"`
}

// ArtistDisplay returns the artist names joined by a comma.
func (t TrackItem) ArtistDisplay() string {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

// ArtistStats carries the fields only present on detailed artist payloads.
type ArtistStats struct {
	Popularity  int      `json:"popularity"`
	Followers   int      `json:"followers"`
	UpdatedDate string   `json:"updated_date,omitempty"`
	Genres      []string `json:"genres"`
	Cached      int      `json:"cached"`
}

// ResolvedGenres returns the genre list translated through gm. Unknown keys
// pass through unchanged; a nil map returns a copy of the raw list.
func (s *ArtistStats) ResolvedGenres(gm *GenreMap) []string {
	if len(s.Genres) == 0 {
		return nil
	}
	resolved := make([]string, 0, len(s.Genres))
	for _, g := range s.Genres {
		if gm == nil {
			resolved = append(resolved, g)
			continue
		}
		resolved = append(resolved, gm.Resolve(g, g))
	}
	return resolved
}

// ArtistItem represents an artist. Stats is nil for the summary variant and
// populated when the payload carried popularity, follower, or genre data.
type ArtistItem struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Image string       `json:"image,omitempty"`
	Stats *ArtistStats `json:"stats,omitempty"`
}

// Detailed reports whether this artist carries the detailed stats variant.
func (a ArtistItem) Detailed() bool { return a.Stats != nil }

// Features holds the audio descriptors for a single track.
type Features struct {
	ID               string  `json:"id"`
	DurationMS       int     `json:"duration_ms"`
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Speechiness      float64 `json:"speechiness"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Liveness         float64 `json:"liveness"`
	Valence          float64 `json:"valence"`
	Loudness         float64 `json:"loudness"`
	Tempo            float64 `json:"tempo"`
	Key              int     `json:"key"`
	Mode             int     `json:"mode"`
	TimeSignature    int     `json:"time_signature"`
}

// GenreReleaseItem represents an album release inside a genre feed. Source
// payloads name these fields inconsistently; the mapper normalizes them.
type GenreReleaseItem struct {
	AlbumID     string `json:"album_id"`
	AlbumName   string `json:"album_name"`
	AlbumURL    string `json:"album_url,omitempty"`
	AlbumImage  string `json:"album_img,omitempty"`
	ReleaseDate string `json:"release_date,omitempty"`
	ArtistName  string `json:"artist_name,omitempty"`
	AlbumType   string `json:"album_type,omitempty"`
}

// TopPlaylistItem represents an entry from the top-playlists endpoint.
type TopPlaylistItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url,omitempty"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
	TrackCount  int    `json:"tracks_count"`
	Followers   int    `json:"followers"`
	ParentGenre string `json:"parent_genre,omitempty"`
}

// TrackCollection holds mapped tracks. Skipped counts items that were present
// in the payload but could not be interpreted as track objects.
type TrackCollection struct {
	Items   []TrackItem `json:"items"`
	Skipped int         `json:"-"`
}

// ArtistCollection holds mapped artists (summary or detailed variants).
type ArtistCollection struct {
	Items   []ArtistItem `json:"items"`
	Skipped int          `json:"-"`
}

// GenreReleaseCollection holds mapped genre releases.
type GenreReleaseCollection struct {
	Items   []GenreReleaseItem `json:"items"`
	Skipped int                `json:"-"`
}

// TopPlaylistCollection holds mapped top playlists.
type TopPlaylistCollection struct {
	Items   []TopPlaylistItem `json:"items"`
	Skipped int               `json:"-"`
}

// Response is the unified result of mapping one aggregate payload. At most
// one field is usually populated, but combined responses (e.g. a search that
// returns tracks and artists) set several.
type Response struct {
	Tracks        *TrackCollection        `json:"tracks,omitempty"`
	Artists       *ArtistCollection       `json:"artists,omitempty"`
	Features      *Features               `json:"features,omitempty"`
	GenreReleases *GenreReleaseCollection `json:"genre_releases,omitempty"`
	TopPlaylists  *TopPlaylistCollection  `json:"top_playlists,omitempty"`
}

// Empty reports whether no collection was detected in the payload.
func (r *Response) Empty() bool {
	return r.Tracks == nil && r.Artists == nil && r.Features == nil &&
		r.GenreReleases == nil && r.TopPlaylists == nil
}
