package services

import "testing"

func TestNormalizeParams(t *testing.T) {
	t.Run("nil values are dropped", func(t *testing.T) {
		got := NormalizeParams(map[string]any{"limit": 10, "market": nil})
		if _, ok := got["market"]; ok {
			t.Error("expected nil value to be dropped")
		}
		if got["limit"] != 10 {
			t.Errorf("expected limit preserved, got %v", got["limit"])
		}
	})

	t.Run("string slices join with commas", func(t *testing.T) {
		got := NormalizeParams(map[string]any{"seed_tracks": []string{"a", "b", "c"}})
		if got["seed_tracks"] != "a,b,c" {
			t.Errorf("expected 'a,b,c', got %v", got["seed_tracks"])
		}
	})

	t.Run("mixed slices stringify elements", func(t *testing.T) {
		got := NormalizeParams(map[string]any{"ids": []any{"x", 2, 3.0}})
		if got["ids"] != "x,2,3" {
			t.Errorf("expected 'x,2,3', got %v", got["ids"])
		}
	})

	t.Run("int slices join", func(t *testing.T) {
		got := NormalizeParams(map[string]any{"years": []int{2020, 2021}})
		if got["years"] != "2020,2021" {
			t.Errorf("expected '2020,2021', got %v", got["years"])
		}
	})

	t.Run("scalars pass through unchanged", func(t *testing.T) {
		got := NormalizeParams(map[string]any{"q": "hello world", "limit": 25, "explicit": true})
		if got["q"] != "hello world" || got["limit"] != 25 || got["explicit"] != true {
			t.Errorf("expected scalars untouched, got %v", got)
		}
	})

	t.Run("empty input yields empty map", func(t *testing.T) {
		if got := NormalizeParams(nil); len(got) != 0 {
			t.Errorf("expected empty map, got %v", got)
		}
	})
}

func TestClampLimit(t *testing.T) {
	cases := []struct {
		name  string
		limit int
		want  int
	}{
		{"within range", 50, 50},
		{"at ceiling", 100, 100},
		{"above ceiling", 250, 100},
		{"zero", 0, 1},
		{"negative", -5, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClampLimit(tc.limit); got != tc.want {
				t.Errorf("ClampLimit(%d) = %d, expected %d", tc.limit, got, tc.want)
			}
		})
	}
}

func TestSpotifyIDResolver(t *testing.T) {
	var r SpotifyIDResolver

	cases := []struct {
		name  string
		input any
		want  string
	}{
		{"bare id unchanged", "6r7FXNO57mlZCBY6PXcZZT", "6r7FXNO57mlZCBY6PXcZZT"},
		{"track URI", "spotify:track:6r7FXNO57mlZCBY6PXcZZT", "6r7FXNO57mlZCBY6PXcZZT"},
		{"artist URI", "spotify:artist:4Z8W4fKeB5YxbusRsdQVPb", "4Z8W4fKeB5YxbusRsdQVPb"},
		{"share URL with query", "https://open.spotify.com/track/6r7FXNO57mlZCBY6PXcZZT?si=abc123", "6r7FXNO57mlZCBY6PXcZZT"},
		{"share URL trailing slash", "https://open.spotify.com/track/6r7FXNO57mlZCBY6PXcZZT/", "6r7FXNO57mlZCBY6PXcZZT"},
		{"plain URL no query", "https://open.spotify.com/artist/4Z8W4fKeB5YxbusRsdQVPb", "4Z8W4fKeB5YxbusRsdQVPb"},
		{"id with query suffix", "6r7FXNO57mlZCBY6PXcZZT?si=abc", "6r7FXNO57mlZCBY6PXcZZT"},
		{"nil yields empty", nil, ""},
		{"blank yields empty", "   ", ""},
		{"non-string coerced", 42, "42"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Resolve(tc.input); got != tc.want {
				t.Errorf("Resolve(%v) = %q, expected %q", tc.input, got, tc.want)
			}
		})
	}

	t.Run("idempotent on resolved ids", func(t *testing.T) {
		once := r.Resolve("spotify:track:6r7FXNO57mlZCBY6PXcZZT")
		if twice := r.Resolve(once); twice != once {
			t.Errorf("expected idempotence, got %q then %q", once, twice)
		}
	})
}
