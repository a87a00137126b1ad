package repositories

import (
	"database/sql"
	"testing"

	"github.com/chosic-go/chosic/internal/catalog"
	"github.com/chosic-go/chosic/internal/models"
	"github.com/chosic-go/chosic/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func sampleTrack(id, name string) catalog.TrackItem {
	return catalog.TrackItem{
		ID:         id,
		Name:       name,
		Artists:    []catalog.SimpleArtist{{ID: "a1", Name: "Sample Artist"}},
		Album:      &catalog.AlbumItem{Name: "Sample Album"},
		DurationMS: 215000,
		Popularity: 64,
		PreviewURL: "https://p.scdn.co/mp3-preview/" + id,
	}
}

func sampleArtist(id, name string) catalog.ArtistItem {
	return catalog.ArtistItem{
		ID:   id,
		Name: name,
		Stats: &catalog.ArtistStats{
			Popularity: 70,
			Followers:  12345,
			Genres:     []string{"shoegaze", "dream pop"},
		},
	}
}

func TestTrackRepository(t *testing.T) {
	t.Run("Create assigns id and sequence", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		track := models.NewCachedTrack(0, sampleTrack("t1", "First"))

		if err := repo.Create(track); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}

		if track.ID() == "" {
			t.Error("track ID should be set after creation")
		}
		if track.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", track.Sequence())
		}
	})

	t.Run("Get round-trips fields", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		track := models.NewCachedTrack(0, sampleTrack("t1", "First"))

		if err := repo.Create(track); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}

		retrieved, err := repo.Get(track.ID())
		if err != nil {
			t.Fatalf("failed to get track: %v", err)
		}

		if retrieved.SpotifyID() != "t1" || retrieved.Name() != "First" {
			t.Errorf("unexpected track: %s / %s", retrieved.SpotifyID(), retrieved.Name())
		}
		if retrieved.Artist() != "Sample Artist" || retrieved.Album() != "Sample Album" {
			t.Errorf("unexpected artist/album: %s / %s", retrieved.Artist(), retrieved.Album())
		}
		if retrieved.Duration() != 215000 {
			t.Errorf("expected duration 215000, got %d", retrieved.Duration())
		}
	})

	t.Run("GetBySpotifyID", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		if err := repo.Create(models.NewCachedTrack(0, sampleTrack("t1", "First"))); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}

		retrieved, err := repo.GetBySpotifyID("t1")
		if err != nil {
			t.Fatalf("failed to get track by catalog id: %v", err)
		}
		if retrieved.Name() != "First" {
			t.Errorf("expected First, got %s", retrieved.Name())
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		track := models.NewCachedTrack(0, sampleTrack("t1", "First"))
		if err := repo.Create(track); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}

		updated := models.NewCachedTrack(track.Sequence(), sampleTrack("t1", "Renamed"))
		updated.SetID(track.ID())
		if err := repo.Update(updated); err != nil {
			t.Fatalf("failed to update track: %v", err)
		}

		retrieved, err := repo.Get(track.ID())
		if err != nil {
			t.Fatalf("failed to get track: %v", err)
		}
		if retrieved.Name() != "Renamed" {
			t.Errorf("expected Renamed, got %s", retrieved.Name())
		}
	})

	t.Run("Delete is soft", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		track := models.NewCachedTrack(0, sampleTrack("t1", "First"))
		if err := repo.Create(track); err != nil {
			t.Fatalf("failed to create track: %v", err)
		}

		if err := repo.Delete(track.ID()); err != nil {
			t.Fatalf("failed to delete track: %v", err)
		}

		if _, err := repo.Get(track.ID()); err == nil {
			t.Error("expected error when getting deleted track")
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM tracks WHERE id = ?", track.ID()).Scan(&count); err != nil {
			t.Fatalf("failed to count rows: %v", err)
		}
		if count != 1 {
			t.Error("soft delete should keep the row")
		}
	})

	t.Run("List filters by artist", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		first := sampleTrack("t1", "First")
		second := sampleTrack("t2", "Second")
		second.Artists = []catalog.SimpleArtist{{Name: "Someone Else"}}

		for _, item := range []catalog.TrackItem{first, second} {
			if err := repo.Create(models.NewCachedTrack(0, item)); err != nil {
				t.Fatalf("failed to create track: %v", err)
			}
		}

		tracks, err := repo.List(map[string]any{"artist": "Sample"})
		if err != nil {
			t.Fatalf("failed to list tracks: %v", err)
		}
		if len(tracks) != 1 || tracks[0].SpotifyID() != "t1" {
			t.Errorf("unexpected filter result: %d tracks", len(tracks))
		}

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list all tracks: %v", err)
		}
		if len(all) != 2 {
			t.Errorf("expected 2 tracks, got %d", len(all))
		}
		if all[0].Sequence() >= all[1].Sequence() {
			t.Error("expected tracks ordered by sequence")
		}
	})

	t.Run("Create rejects invalid track", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTrackRepository(db)
		if err := repo.Create(models.NewCachedTrack(0, catalog.TrackItem{})); err == nil {
			t.Error("expected validation error for empty track")
		}
	})
}

func TestArtistRepository(t *testing.T) {
	t.Run("Create and Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewArtistRepository(db)
		artist := models.NewCachedArtist(0, sampleArtist("a1", "Slowdive"))

		if err := repo.Create(artist); err != nil {
			t.Fatalf("failed to create artist: %v", err)
		}

		retrieved, err := repo.Get(artist.ID())
		if err != nil {
			t.Fatalf("failed to get artist: %v", err)
		}

		if retrieved.Name() != "Slowdive" || retrieved.Followers() != 12345 {
			t.Errorf("unexpected artist: %s / %d", retrieved.Name(), retrieved.Followers())
		}
		genres := retrieved.Genres()
		if len(genres) != 2 || genres[0] != "shoegaze" {
			t.Errorf("unexpected genres: %v", genres)
		}
	})

	t.Run("List filters by genre", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewArtistRepository(db)
		shoegazer := sampleArtist("a1", "Slowdive")
		jazzer := sampleArtist("a2", "Someone")
		jazzer.Stats.Genres = []string{"jazz"}

		for _, item := range []catalog.ArtistItem{shoegazer, jazzer} {
			if err := repo.Create(models.NewCachedArtist(0, item)); err != nil {
				t.Fatalf("failed to create artist: %v", err)
			}
		}

		artists, err := repo.List(map[string]any{"genre": "shoegaze"})
		if err != nil {
			t.Fatalf("failed to list artists: %v", err)
		}
		if len(artists) != 1 || artists[0].SpotifyID() != "a1" {
			t.Errorf("unexpected filter result: %d artists", len(artists))
		}
	})

	t.Run("Delete excludes from lookups", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewArtistRepository(db)
		artist := models.NewCachedArtist(0, sampleArtist("a1", "Slowdive"))
		if err := repo.Create(artist); err != nil {
			t.Fatalf("failed to create artist: %v", err)
		}

		if err := repo.Delete(artist.ID()); err != nil {
			t.Fatalf("failed to delete artist: %v", err)
		}
		if _, err := repo.GetBySpotifyID("a1"); err == nil {
			t.Error("expected error for deleted artist")
		}
	})
}

func TestCacheAdapter(t *testing.T) {
	t.Run("caches new entities", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		tracks := NewTrackRepository(db)
		artists := NewArtistRepository(db)
		adapter := NewCacheAdapter(tracks, artists)

		if err := adapter.CacheTrack(sampleTrack("t1", "First")); err != nil {
			t.Fatalf("failed to cache track: %v", err)
		}
		if err := adapter.CacheArtist(sampleArtist("a1", "Slowdive")); err != nil {
			t.Fatalf("failed to cache artist: %v", err)
		}

		if _, err := tracks.GetBySpotifyID("t1"); err != nil {
			t.Errorf("track should be cached: %v", err)
		}
		if _, err := artists.GetBySpotifyID("a1"); err != nil {
			t.Errorf("artist should be cached: %v", err)
		}
	})

	t.Run("repeat cache refreshes instead of duplicating", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		tracks := NewTrackRepository(db)
		adapter := NewCacheAdapter(tracks, NewArtistRepository(db))

		if err := adapter.CacheTrack(sampleTrack("t1", "First")); err != nil {
			t.Fatalf("failed to cache track: %v", err)
		}
		renamed := sampleTrack("t1", "First (Remaster)")
		if err := adapter.CacheTrack(renamed); err != nil {
			t.Fatalf("failed to re-cache track: %v", err)
		}

		all, err := tracks.List(nil)
		if err != nil {
			t.Fatalf("failed to list tracks: %v", err)
		}
		if len(all) != 1 {
			t.Fatalf("expected 1 cached track, got %d", len(all))
		}
		if all[0].Name() != "First (Remaster)" {
			t.Errorf("expected refreshed name, got %s", all[0].Name())
		}
	})

	t.Run("entities without ids are skipped silently", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		adapter := NewCacheAdapter(NewTrackRepository(db), NewArtistRepository(db))
		if err := adapter.CacheTrack(catalog.TrackItem{Name: "No ID"}); err != nil {
			t.Errorf("expected nil for track without id, got %v", err)
		}
	})
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	first, err := NextSequence(db, "tracks")
	if err != nil {
		t.Fatalf("failed to get sequence: %v", err)
	}
	second, err := NextSequence(db, "tracks")
	if err != nil {
		t.Fatalf("failed to get sequence: %v", err)
	}

	if second != first+1 {
		t.Errorf("expected monotonic sequence, got %d then %d", first, second)
	}
}
