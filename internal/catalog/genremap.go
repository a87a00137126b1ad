package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// GenreMap resolves raw genre keys to display labels. It has its own
// lifecycle: loaded once from a local JSON file or a network resource, then
// queried read-only.
type GenreMap struct {
	mapping map[string]string
}

// GenreMapFromData builds a GenreMap from decoded JSON. An object becomes an
// explicit mapping; an array maps every element to itself.
func GenreMapFromData(data any) (*GenreMap, error) {
	switch raw := data.(type) {
	case map[string]any:
		mapping := make(map[string]string, len(raw))
		for k, v := range raw {
			mapping[k] = stringFrom(v)
		}
		return &GenreMap{mapping: mapping}, nil
	case []any:
		mapping := make(map[string]string, len(raw))
		for _, v := range raw {
			s := stringFrom(v)
			mapping[s] = s
		}
		return &GenreMap{mapping: mapping}, nil
	default:
		return nil, fmt.Errorf("unsupported genre map shape %T", data)
	}
}

// GenreMapFromFile loads a GenreMap from a JSON file on disk.
func GenreMapFromFile(path string) (*GenreMap, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read genre map: %w", err)
	}
	var data any
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("failed to parse genre map: %w", err)
	}
	return GenreMapFromData(data)
}

// GenreMapFromURL fetches and parses a GenreMap from a JSON resource.
func GenreMapFromURL(ctx context.Context, url string) (*GenreMap, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch genre map: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch genre map: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read genre map: %w", err)
	}
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to parse genre map: %w", err)
	}
	return GenreMapFromData(data)
}

// Resolve returns the label for key, or fallback when the key is unknown.
func (g *GenreMap) Resolve(key, fallback string) string {
	if g == nil {
		return fallback
	}
	if v, ok := g.mapping[key]; ok {
		return v
	}
	return fallback
}

// Entries returns a copy of the underlying mapping.
func (g *GenreMap) Entries() map[string]string {
	if g == nil {
		return nil
	}
	entries := make(map[string]string, len(g.mapping))
	for k, v := range g.mapping {
		entries[k] = v
	}
	return entries
}

// Len returns the number of entries in the map.
func (g *GenreMap) Len() int {
	if g == nil {
		return 0
	}
	return len(g.mapping)
}
