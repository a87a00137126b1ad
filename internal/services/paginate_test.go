package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/chosic-go/chosic/internal/catalog"
)

const testDelay = time.Millisecond

// fakePages serves canned page bodies keyed by page number and records the
// order of requests.
type fakePages struct {
	bodies  map[int]string
	headers http.Header
	errAt   map[int]error
	calls   []int
}

func (f *fakePages) fetch(ctx context.Context, params map[string]any) (any, http.Header, error) {
	page, _ := params["page"].(int)
	f.calls = append(f.calls, page)
	if err := f.errAt[page]; err != nil {
		return nil, nil, err
	}
	var body any
	if raw, ok := f.bodies[page]; ok {
		if err := json.Unmarshal([]byte(raw), &body); err != nil {
			return nil, nil, err
		}
	} else {
		body = map[string]any{}
	}
	return body, f.headers, nil
}

func tracksPage(ids ...string) string {
	items := make([]string, 0, len(ids))
	for _, id := range ids {
		items = append(items, fmt.Sprintf(`{"id": %q}`, id))
	}
	return fmt.Sprintf(`{"tracks": {"items": [%s]}}`, joinStrings(items))
}

func joinStrings(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ","
		}
		out += p
	}
	return out
}

func TestPaginatorKnownTotal(t *testing.T) {
	t.Run("fetches exactly the advertised page count", func(t *testing.T) {
		fake := &fakePages{
			bodies: map[int]string{
				1: tracksPage("1", "2"),
				2: tracksPage("3", "4"),
				3: tracksPage("5"),
			},
			headers: http.Header{"X-Wp-Totalpages": []string{"3"}},
		}

		p := newPaginator(fake.fetch, 100, 2, []string{"tracks"}, testDelay, nil)
		got, err := p.run(context.Background(), map[string]any{"q": "test"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(fake.calls) != 3 {
			t.Errorf("expected 3 requests, got %d: %v", len(fake.calls), fake.calls)
		}
		if n := catalog.ItemCount(got, "tracks"); n != 5 {
			t.Errorf("expected 5 merged tracks, got %d", n)
		}
	})

	t.Run("total derived from X-WP-Total", func(t *testing.T) {
		fake := &fakePages{
			bodies: map[int]string{
				1: tracksPage("1", "2"),
				2: tracksPage("3", "4"),
			},
			headers: http.Header{"X-Wp-Total": []string{"4"}},
		}

		p := newPaginator(fake.fetch, 100, 2, []string{"tracks"}, testDelay, nil)
		if _, err := p.run(context.Background(), nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(fake.calls) != 2 {
			t.Errorf("expected 2 requests for ceil(4/2) pages, got %v", fake.calls)
		}
	})

	t.Run("mid-run failure keeps pages already merged", func(t *testing.T) {
		fake := &fakePages{
			bodies: map[int]string{
				1: tracksPage("1"),
				3: tracksPage("3"),
			},
			headers: http.Header{"X-Wp-Totalpages": []string{"3"}},
			errAt:   map[int]error{2: &APIError{StatusCode: 502, Message: "HTTP error 502"}},
		}

		p := newPaginator(fake.fetch, 100, 1, []string{"tracks"}, testDelay, nil)
		got, err := p.run(context.Background(), nil)
		if err != nil {
			t.Fatalf("expected partial result without error, got %v", err)
		}

		if n := catalog.ItemCount(got, "tracks"); n != 1 {
			t.Errorf("expected only page 1 tracks, got %d", n)
		}
		if len(fake.calls) != 2 {
			t.Errorf("expected stop after failed page 2, got calls %v", fake.calls)
		}
	})

	t.Run("first page failure is a hard error", func(t *testing.T) {
		fake := &fakePages{
			errAt: map[int]error{1: &APIError{StatusCode: 403, Message: "HTTP error 403"}},
		}

		p := newPaginator(fake.fetch, 100, 10, []string{"tracks"}, testDelay, nil)
		if _, err := p.run(context.Background(), nil); err == nil {
			t.Fatal("expected error from page 1 failure")
		}
	})
}

func TestPaginatorBoundedProbe(t *testing.T) {
	t.Run("budget caps requests at ceil(limit/pageSize)", func(t *testing.T) {
		fake := &fakePages{
			bodies: map[int]string{
				1: tracksPage("01", "02", "03", "04", "05", "06", "07", "08", "09", "10"),
				2: tracksPage("11", "12", "13", "14", "15", "16", "17", "18", "19", "20"),
				3: tracksPage("21", "22", "23", "24", "25", "26", "27", "28", "29", "30"),
				4: tracksPage("31"),
			},
		}

		// limit 25, pageSize 10: budget is 3 pages, page 4 is never requested.
		p := newPaginator(fake.fetch, 25, 10, []string{"tracks"}, testDelay, nil)
		got, err := p.run(context.Background(), nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(fake.calls) != 3 {
			t.Errorf("expected 3 requests, got %d: %v", len(fake.calls), fake.calls)
		}
		if n := catalog.ItemCount(got, "tracks"); n != 30 {
			t.Errorf("expected 30 merged tracks, got %d", n)
		}
	})

	t.Run("limit above the per-request ceiling keeps its full budget", func(t *testing.T) {
		fullPage := func(start int) string {
			ids := make([]string, 0, MaxPerRequest)
			for i := 0; i < MaxPerRequest; i++ {
				ids = append(ids, fmt.Sprintf("%03d", start+i))
			}
			return tracksPage(ids...)
		}
		fake := &fakePages{
			bodies: map[int]string{
				1: fullPage(0),
				2: fullPage(100),
				3: fullPage(200),
			},
		}

		// The ceiling caps pageSize, not the target total: limit 250 at
		// pageSize 100 budgets ceil(250/100) = 3 pages.
		p := newPaginator(fake.fetch, 250, 100, []string{"tracks"}, testDelay, nil)
		got, err := p.run(context.Background(), nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(fake.calls) != 3 {
			t.Errorf("expected 3 requests for ceil(250/100) pages, got %d: %v", len(fake.calls), fake.calls)
		}
		if n := catalog.ItemCount(got, "tracks"); n != 300 {
			t.Errorf("expected 300 merged tracks, got %d", n)
		}
	})

	t.Run("empty page stops without merging", func(t *testing.T) {
		fake := &fakePages{
			bodies: map[int]string{
				1: tracksPage("1", "2"),
				2: `{"tracks": {"items": []}}`,
			},
		}

		p := newPaginator(fake.fetch, 100, 2, []string{"tracks"}, testDelay, nil)
		got, err := p.run(context.Background(), nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if n := catalog.ItemCount(got, "tracks"); n != 2 {
			t.Errorf("expected only page 1 tracks, got %d", n)
		}
		if len(fake.calls) != 2 {
			t.Errorf("expected stop at empty page 2, got calls %v", fake.calls)
		}
	})

	t.Run("short page merges then stops", func(t *testing.T) {
		fake := &fakePages{
			bodies: map[int]string{
				1: tracksPage("1", "2"),
				2: tracksPage("3"),
				3: tracksPage("4", "5"),
			},
		}

		p := newPaginator(fake.fetch, 100, 2, []string{"tracks"}, testDelay, nil)
		got, err := p.run(context.Background(), nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if n := catalog.ItemCount(got, "tracks"); n != 3 {
			t.Errorf("expected 3 tracks after short page, got %d", n)
		}
		if len(fake.calls) != 2 {
			t.Errorf("expected no request past short page, got calls %v", fake.calls)
		}
	})

	t.Run("probe merges every listed key", func(t *testing.T) {
		fake := &fakePages{
			bodies: map[int]string{
				1: `{"tracks": {"items": [{"id": "1"}, {"id": "2"}]}, "artists": {"items": [{"id": "a1"}, {"id": "a2"}]}}`,
				2: `{"tracks": {"items": [{"id": "3"}, {"id": "4"}]}, "artists": {"items": [{"id": "a3"}, {"id": "a4"}]}}`,
			},
		}

		p := newPaginator(fake.fetch, 4, 2, []string{"tracks", "artists"}, testDelay, nil)
		got, err := p.run(context.Background(), nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if n := catalog.ItemCount(got, "tracks"); n != 4 {
			t.Errorf("expected 4 tracks, got %d", n)
		}
		if n := catalog.ItemCount(got, "artists"); n != 4 {
			t.Errorf("expected 4 artists, got %d", n)
		}
	})
}

func TestTotalPagesFrom(t *testing.T) {
	cases := []struct {
		name     string
		headers  http.Header
		pageSize int
		want     int
	}{
		{"explicit total pages", http.Header{"X-Wp-Totalpages": []string{"7"}}, 10, 7},
		{"derived from total items", http.Header{"X-Wp-Total": []string{"95"}}, 10, 10},
		{"total pages wins over total", http.Header{"X-Wp-Totalpages": []string{"2"}, "X-Wp-Total": []string{"95"}}, 10, 2},
		{"garbage header ignored", http.Header{"X-Wp-Totalpages": []string{"many"}}, 10, 0},
		{"no headers", http.Header{}, 10, 0},
		{"nil headers", nil, 10, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := totalPagesFrom(tc.headers, tc.pageSize); got != tc.want {
				t.Errorf("expected %d, got %d", tc.want, got)
			}
		})
	}
}
